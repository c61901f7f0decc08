package scene

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Spiral layout of the tower scene
const (
	towerStepRise     = 1.0
	towerStepArc      = 4.0
	towerStepHalf     = 2.5
	towerStepHalfY    = 0.25
	towerAnchorEvery  = 10
	towerAnchorHeight = 8.0
	towerAnchorRadius = 1.0
)

// Swing course
const (
	swingWallHeight  = 40.0
	swingFerryWidth  = 4.0
	swingFerryThick  = 0.5
	swingFerryPeriod = 16.0
)

var builtins = map[string]func(parameter.Tuning) *Scene{
	"swing": swing,
	"tower": spiral,
}

// Names lists the builtin scenes
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of a named scene
func Builtin(name string, t parameter.Tuning) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, errors.Errorf("unknown scene %q (builtin: %v)", name, Names())
	}
	return build(t), nil
}

// restHeight is the agent origin height standing on a surface at y
func restHeight(y float64, t parameter.Tuning) float64 {
	return y + t.Capsule.Height/2 - t.Capsule.CenterY + 2*t.Move.Epsilon
}

// swing is a flat side-view course: two walled floors across a kill pit with anchors overhead
// and a platform shuttling across the pit
func swing(t parameter.Tuning) *Scene {
	w := physics.NewWorld()
	depth := 5.0

	w.Add(physics.LayerDefault, physics.Box{Min: vmath.Vec3F{X: -22, Y: -1, Z: -depth}, Max: vmath.Vec3F{X: 20, Z: depth}})
	w.Add(physics.LayerDefault, physics.Box{Min: vmath.Vec3F{X: 60, Y: -1, Z: -depth}, Max: vmath.Vec3F{X: 100, Z: depth}})
	// The pit slab runs under both floors to catch anything that gets past the walls
	w.Add(physics.LayerKillZone, physics.Box{Min: vmath.Vec3F{X: -1000, Y: -8, Z: -1000}, Max: vmath.Vec3F{X: 1000, Y: -6, Z: 1000}})
	w.Add(physics.LayerDefault, physics.Box{Min: vmath.Vec3F{X: -23, Y: -1, Z: -depth}, Max: vmath.Vec3F{X: -22, Y: swingWallHeight, Z: depth}})
	w.Add(physics.LayerDefault, physics.Box{Min: vmath.Vec3F{X: 100, Y: -1, Z: -depth}, Max: vmath.Vec3F{X: 101, Y: swingWallHeight, Z: depth}})

	for _, x := range []float64{25, 40, 55} {
		w.Add(physics.LayerGrapple, physics.BoxAt(vmath.Vec3F{X: x, Y: 12.5}, vmath.Vec3F{X: 1, Y: 0.5, Z: 1}))
	}
	// Overhead pillar that stops bolts without holding them
	w.Add(physics.LayerBlocker, physics.Box{Min: vmath.Vec3F{X: 32, Y: 14, Z: -1}, Max: vmath.Vec3F{X: 33, Y: 20, Z: 1}})
	// Rock the rope wraps around on the way across
	w.Add(physics.LayerDefault, physics.Sphere{Center: vmath.Vec3F{X: 47, Y: 8}, Radius: 1})

	ferry := w.Add(physics.LayerDefault, physics.Box{
		Min: vmath.Vec3F{X: 22, Y: -swingFerryThick, Z: -depth},
		Max: vmath.Vec3F{X: 22 + swingFerryWidth, Z: depth},
	})

	return &Scene{
		Name:      "swing",
		World:     w,
		Spawn:     vmath.Vec3F{Y: restHeight(0, t)},
		Curvature: tower.Fixed{},
		Platforms: []Platform{{
			Collider: ferry,
			Offset:   vmath.Vec3F{X: 58 - 22 - swingFerryWidth},
			Period:   swingFerryPeriod,
		}},
	}
}

// spiral is a staircase winding around the tower up to the summit
func spiral(t parameter.Tuning) *Scene {
	w := physics.NewWorld()
	sched := ScheduleFromTuning(t)

	w.Add(physics.LayerDefault, physics.PlaneThrough(vmath.Up, vmath.Vec3F{}))

	angle := 0.0
	for i := 1; float64(i-1)*towerStepRise < t.Tower.SummitHeight; i++ {
		top := float64(i) * towerStepRise
		c, _ := sched.Curvature(vmath.Vec3F{Y: top})
		angle += towerStepArc / c.Radius
		center := vmath.Vec3F{X: c.Radius * math.Cos(angle), Y: top - towerStepHalfY, Z: c.Radius * math.Sin(angle)}
		w.Add(physics.LayerDefault, physics.BoxAt(center, vmath.Vec3F{X: towerStepHalf, Y: towerStepHalfY, Z: towerStepHalf}))

		if i%towerAnchorEvery == 0 {
			anchor := center
			anchor.Y += towerAnchorHeight
			w.Add(physics.LayerGrapple, physics.Sphere{Center: anchor, Radius: towerAnchorRadius})
		}
	}

	base := tower.Curvature{Radius: t.Tower.BaseRadius, Wrap: true}
	return &Scene{
		Name:         "tower",
		World:        w,
		Spawn:        vmath.Vec3F{X: base.Radius, Y: restHeight(0, t)},
		Curvature:    sched,
		Initial:      base,
		SummitHeight: t.Tower.SummitHeight,
	}
}
