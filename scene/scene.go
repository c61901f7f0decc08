// Package scene assembles collision worlds and curvature for the gym
package scene

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Scene is everything a session needs besides tuning
type Scene struct {
	Name      string
	World     *physics.World
	Spawn     vmath.Vec3F
	Curvature tower.Source
	Initial   tower.Curvature

	// SummitHeight ends the run when the agent rises above it; 0 disables
	SummitHeight float64

	Platforms []Platform
}

// File is the YAML layout of a scene
type File struct {
	Name         string         `yaml:"name"`
	Spawn        Vec            `yaml:"spawn"`
	SummitHeight float64        `yaml:"summit_height"`
	Curvature    CurvatureFile  `yaml:"curvature"`
	Colliders    []ColliderFile `yaml:"colliders"`
}

// Vec is written as a three element sequence
type Vec [3]float64

func (v Vec) V3() vmath.Vec3F {
	return vmath.Vec3F{X: v[0], Y: v[1], Z: v[2]}
}

// CurvatureFile selects the curvature source
// mode is flat, fixed (uses radius) or schedule (uses the tower tuning)
type CurvatureFile struct {
	Mode   string  `yaml:"mode"`
	Radius float64 `yaml:"radius"`
}

// ColliderFile holds exactly one shape
type ColliderFile struct {
	Layer    string        `yaml:"layer"`
	Plane    *PlaneFile    `yaml:"plane,omitempty"`
	Sphere   *SphereFile   `yaml:"sphere,omitempty"`
	Box      *BoxFile      `yaml:"box,omitempty"`
	Cylinder *CylinderFile `yaml:"cylinder,omitempty"`
	Shuttle  *ShuttleFile  `yaml:"shuttle,omitempty"`
}

// ShuttleFile makes a collider a moving platform
type ShuttleFile struct {
	Offset Vec     `yaml:"offset"`
	Period float64 `yaml:"period"`
}

type PlaneFile struct {
	Normal Vec `yaml:"normal"`
	Point  Vec `yaml:"point"`
}

type SphereFile struct {
	Center Vec     `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

type BoxFile struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

type CylinderFile struct {
	Base   Vec     `yaml:"base"`
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

var layerNames = map[string]physics.Layer{
	"default":  physics.LayerDefault,
	"killzone": physics.LayerKillZone,
	"blocker":  physics.LayerBlocker,
	"grapple":  physics.LayerGrapple,
}

// ParseLayer resolves a layer name; an empty name is the default layer
func ParseLayer(name string) (physics.Layer, error) {
	if name == "" {
		return physics.LayerDefault, nil
	}
	l, ok := layerNames[strings.ToLower(name)]
	if !ok {
		known := make([]string, 0, len(layerNames))
		for n := range layerNames {
			known = append(known, n)
		}
		sort.Strings(known)
		return 0, errors.Errorf("unknown layer %q (want one of %s)", name, strings.Join(known, ", "))
	}
	return l, nil
}

// Load reads a scene file
func Load(path string, t parameter.Tuning) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	sc, err := Parse(data, t)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return sc, nil
}

// Parse decodes and builds a scene
func Parse(data []byte, t parameter.Tuning) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return f.Build(t)
}

// Build turns the file description into a live scene
func (f File) Build(t parameter.Tuning) (*Scene, error) {
	world := physics.NewWorld()
	var platforms []Platform
	for i, c := range f.Colliders {
		layer, err := ParseLayer(c.Layer)
		if err != nil {
			return nil, errors.Wrapf(err, "collider %d", i)
		}
		shape, err := c.shape()
		if err != nil {
			return nil, errors.Wrapf(err, "collider %d", i)
		}
		id := world.Add(layer, shape)
		if c.Shuttle != nil {
			if c.Shuttle.Period <= 0 {
				return nil, errors.Errorf("collider %d: shuttle period must be positive, got %v", i, c.Shuttle.Period)
			}
			platforms = append(platforms, Platform{Collider: id, Offset: c.Shuttle.Offset.V3(), Period: c.Shuttle.Period})
		}
	}

	sc := &Scene{
		Name:         f.Name,
		World:        world,
		Spawn:        f.Spawn.V3(),
		SummitHeight: f.SummitHeight,
		Platforms:    platforms,
	}
	if sc.Name == "" {
		sc.Name = "custom"
	}

	switch strings.ToLower(f.Curvature.Mode) {
	case "", "flat":
		sc.Curvature = tower.Fixed{}
	case "fixed":
		c := tower.Curvature{Radius: f.Curvature.Radius, Wrap: true}
		if !c.Valid() {
			return nil, errors.Errorf("fixed curvature needs a positive radius, got %v", f.Curvature.Radius)
		}
		sc.Curvature = tower.Fixed(c)
		sc.Initial = c
	case "schedule":
		sc.Curvature = ScheduleFromTuning(t)
		sc.Initial = tower.Curvature{Radius: t.Tower.BaseRadius, Wrap: true}
	default:
		return nil, errors.Errorf("unknown curvature mode %q", f.Curvature.Mode)
	}
	return sc, nil
}

func (c ColliderFile) shape() (physics.Shape, error) {
	var shapes []physics.Shape
	if c.Plane != nil {
		if c.Plane.Normal.V3() == (vmath.Vec3F{}) {
			return nil, errors.New("plane normal is zero")
		}
		shapes = append(shapes, physics.PlaneThrough(c.Plane.Normal.V3(), c.Plane.Point.V3()))
	}
	if c.Sphere != nil {
		if c.Sphere.Radius <= 0 {
			return nil, errors.Errorf("sphere radius must be positive, got %v", c.Sphere.Radius)
		}
		shapes = append(shapes, physics.Sphere{Center: c.Sphere.Center.V3(), Radius: c.Sphere.Radius})
	}
	if c.Box != nil {
		lo, hi := c.Box.Min.V3(), c.Box.Max.V3()
		if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
			return nil, errors.Errorf("box min %v exceeds max %v", lo, hi)
		}
		shapes = append(shapes, physics.Box{Min: lo, Max: hi})
	}
	if c.Cylinder != nil {
		if c.Cylinder.Radius <= 0 || c.Cylinder.Height <= 0 {
			return nil, errors.New("cylinder radius and height must be positive")
		}
		shapes = append(shapes, physics.Cylinder{Base: c.Cylinder.Base.V3(), Radius: c.Cylinder.Radius, Height: c.Cylinder.Height})
	}
	if len(shapes) != 1 {
		return nil, errors.Errorf("collider needs exactly one shape, got %d", len(shapes))
	}
	return shapes[0], nil
}

// ScheduleFromTuning is the narrowing tower described by the tuning
func ScheduleFromTuning(t parameter.Tuning) tower.Schedule {
	return tower.Schedule{
		BaseRadius: t.Tower.BaseRadius,
		TipRadius:  t.Tower.TipRadius,
		TipStart:   t.Tower.TipStart,
		TipEnd:     t.Tower.TipEnd,
	}
}
