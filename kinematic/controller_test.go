package kinematic

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/samuelbigos/tower-of-babylon/grapple"
	"github.com/samuelbigos/tower-of-babylon/input"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

const tickDT = 0.02

// restY is the capsule center height resting on a floor at y=0
const restY = 1.002

var flat = tower.Curvature{}

func floorWorld() *physics.World {
	w := physics.NewWorld()
	w.Add(physics.LayerDefault, physics.PlaneThrough(vmath.Up, vmath.Vec3F{}))
	return w
}

func newTestController(t *testing.T, q physics.Query, spawn vmath.Vec3F) (*Controller, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	c, err := NewController(q, ParamsFromTuning(parameter.Default()), Pose{Position: spawn}, log)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, hook
}

func countEvents(s Snapshot, kind EventKind) int {
	n := 0
	for _, e := range s.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestControllerRestsOnFloor(t *testing.T) {
	spawn := vmath.Vec3F{Y: restY}
	c, _ := newTestController(t, floorWorld(), spawn)

	var snap Snapshot
	for i := uint64(1); i <= 50; i++ {
		snap = c.Tick(input.Frame{Tick: i}, flat, tickDT)
		if len(snap.Events) != 0 {
			t.Fatalf("tick %d events %v", i, snap.Events)
		}
	}
	if !snap.Grounded || snap.Falling || snap.Running {
		t.Errorf("snapshot flags %+v", snap)
	}
	if vmath.V3FDistance(snap.Pose.Position, spawn) > 1e-6 {
		t.Errorf("drifted to %v", snap.Pose.Position)
	}
	if snap.Tick != 50 || snap.Grapple != grapple.StateInactive {
		t.Errorf("tick %d grapple %v", snap.Tick, snap.Grapple)
	}
}

func TestControllerWalks(t *testing.T) {
	c, _ := newTestController(t, floorWorld(), vmath.Vec3F{Y: restY})

	var snap Snapshot
	for i := uint64(1); i <= 10; i++ {
		f := input.Frame{Tick: i}
		f.Move = input.Axis{X: 1}
		snap = c.Tick(f, flat, tickDT)
	}
	// Input and carried velocity each move speed*dt per tick
	if x := snap.Pose.Position.X; math.Abs(x-2) > 0.05 {
		t.Errorf("x after 10 ticks = %v, want ~2", x)
	}
	if math.Abs(snap.Pose.Position.Y-restY) > 1e-6 || snap.Pose.Position.Z != 0 {
		t.Errorf("left the floor line: %v", snap.Pose.Position)
	}
	if !snap.Running || !snap.Grounded {
		t.Errorf("flags %+v", snap)
	}
	if math.Abs(snap.Pose.Yaw-90) > 1e-9 {
		t.Errorf("yaw = %v, want facing +X", snap.Pose.Yaw)
	}

	// Depth input is ignored unless enabled
	f := input.Frame{Tick: 11}
	f.Move = input.Axis{Y: 1}
	snap = c.Tick(f, flat, tickDT)
	if snap.Pose.Position.Z != 0 {
		t.Errorf("depth input moved z to %v", snap.Pose.Position.Z)
	}
}

func TestControllerFallsAndLands(t *testing.T) {
	c, _ := newTestController(t, floorWorld(), vmath.Vec3F{Y: 6})

	first := c.Tick(input.Frame{Tick: 1}, flat, tickDT)
	if first.Grounded || !first.Falling {
		t.Fatalf("spawned in the air but %+v", first)
	}
	if want := parameter.Gravity * tickDT; math.Abs(first.Velocity.Y-want) > 1e-9 {
		t.Errorf("first tick vy = %v, want %v", first.Velocity.Y, want)
	}

	landed := 0
	var snap Snapshot
	for i := uint64(2); i <= 150; i++ {
		snap = c.Tick(input.Frame{Tick: i}, flat, tickDT)
		landed += countEvents(snap, EventLanded)
	}
	if landed != 1 {
		t.Errorf("landed events = %d, want 1", landed)
	}
	if !snap.Grounded || math.Abs(snap.Pose.Position.Y-restY) > 1e-3 {
		t.Errorf("final %+v", snap.Pose)
	}
}

func TestControllerJump(t *testing.T) {
	c, _ := newTestController(t, floorWorld(), vmath.Vec3F{Y: restY})
	c.Tick(input.Frame{Tick: 1}, flat, tickDT)

	f := input.Frame{Tick: 2, JumpPressed: true}
	f.JumpHeld = true
	snap := c.Tick(f, flat, tickDT)
	if countEvents(snap, EventJumped) != 1 {
		t.Fatalf("events = %v", snap.Events)
	}
	if snap.Velocity.Y < 4.5 {
		t.Errorf("vy after jump = %v", snap.Velocity.Y)
	}
	if snap.Pose.Position.Y <= restY {
		t.Error("jump tick was snapped back to the floor")
	}

	peak := snap.Pose.Position.Y
	jumps := 0
	for i := uint64(3); i <= 100; i++ {
		snap = c.Tick(input.Frame{Tick: i}, flat, tickDT)
		peak = math.Max(peak, snap.Pose.Position.Y)
		jumps += countEvents(snap, EventJumped)
	}
	if jumps != 0 {
		t.Errorf("released button jumped %d more times", jumps)
	}
	// v^2/2g with v=5 is about 1.27
	if peak < restY+1 {
		t.Errorf("peak = %v", peak)
	}
	if !snap.Grounded {
		t.Error("did not land")
	}
}

// TestControllerGrappleReelIn tests hooking a ceiling, reeling in, and the enable gate
func TestControllerGrappleReelIn(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.LayerGrapple, physics.Box{Min: vmath.Vec3F{X: -10, Y: 10, Z: -10}, Max: vmath.Vec3F{X: 10, Y: 11, Z: 10}})
	c, _ := newTestController(t, w, vmath.Vec3F{Y: 5})
	c.params.Grapple.Speed = 1000
	log, _ := logtest.NewNullLogger()
	rope, err := grapple.NewSolver(w, c.params.Grapple, log)
	if err != nil {
		t.Fatal(err)
	}
	c.rope = rope

	fire := input.Frame{Tick: 1, FirePressed: true}
	fire.AimAngle = 90
	fire.FireHeld = true
	snap := c.Tick(fire, flat, tickDT)
	if countEvents(snap, EventGrappleFired) != 1 || snap.Grapple != grapple.StateShooting {
		t.Fatalf("fire tick %+v", snap)
	}

	hooked := false
	for i := uint64(2); i <= 5 && !hooked; i++ {
		f := input.Frame{Tick: i}
		f.FireHeld = true
		snap = c.Tick(f, flat, tickDT)
		hooked = countEvents(snap, EventGrappleHooked) == 1
	}
	if !hooked || snap.Grapple != grapple.StateHooked {
		t.Fatalf("never hooked: %+v", snap)
	}
	startY := snap.Pose.Position.Y

	for i := uint64(10); i < 30; i++ {
		f := input.Frame{Tick: i}
		f.FireHeld = true
		f.Move = input.Axis{Y: 1}
		snap = c.Tick(f, flat, tickDT)
	}
	if snap.Pose.Position.Y < startY+1 {
		t.Errorf("reel in rose from %v to %v", startY, snap.Pose.Position.Y)
	}
	if len(snap.Sections) != 1 || snap.Sections[0].Tip != snap.Pose.Position {
		t.Errorf("rope tip %+v does not follow pose %v", snap.Sections, snap.Pose.Position)
	}
	if math.Abs(snap.Sections[0].Base.Y-10) > 1e-9 {
		t.Errorf("anchor = %v", snap.Sections[0].Base)
	}

	c.SetGrappleEnabled(false)
	snap = c.Tick(input.Frame{Tick: 30}, flat, tickDT)
	if countEvents(snap, EventGrappleReleased) != 1 || snap.Grapple != grapple.StateInactive || len(snap.Sections) != 0 {
		t.Errorf("disabled tick %+v", snap)
	}
}

func TestControllerWrapsAroundTower(t *testing.T) {
	curv := tower.Curvature{Radius: 50, Wrap: true}
	c, _ := newTestController(t, floorWorld(), vmath.Vec3F{X: 50, Y: restY})

	var snap Snapshot
	for i := uint64(1); i <= 40; i++ {
		f := input.Frame{Tick: i}
		f.Move = input.Axis{X: 1}
		snap = c.Tick(f, curv, tickDT)
	}
	p := snap.Pose.Position
	if r := math.Hypot(p.X, p.Z); math.Abs(r-50) > 1e-9 {
		t.Errorf("radius = %v, want 50", r)
	}
	if p.Z <= 1 {
		t.Errorf("did not travel around the tower: %v", p)
	}
}

// nanQuery reports a corrupt hit on every sweep
type nanQuery struct{}

func (nanQuery) SweepCapsule(physics.Capsule, vmath.Vec3F, float64, vmath.Vec3F, float64) (physics.Hit, bool) {
	return physics.Hit{Normal: vmath.Vec3F{X: math.NaN()}, Distance: 0.001}, true
}

func (nanQuery) Raycast(vmath.Vec3F, vmath.Vec3F, float64, physics.Layer) (physics.Hit, bool) {
	return physics.Miss(), false
}

func TestControllerNonFiniteGuard(t *testing.T) {
	spawn := vmath.Vec3F{X: 1, Y: 2, Z: 3}
	c, hook := newTestController(t, nanQuery{}, spawn)

	f := input.Frame{Tick: 1}
	f.Move = input.Axis{X: 1}
	snap := c.Tick(f, flat, tickDT)
	if snap.Pose.Position != spawn || snap.Velocity != (vmath.Vec3F{}) {
		t.Errorf("guard did not restore: %+v", snap)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Errorf("expected a warning, got %v", entry)
	}
}

func TestEventKindText(t *testing.T) {
	for kind := EventJumped; kind <= EventGrappleReleased; kind++ {
		b, _ := kind.MarshalText()
		var back EventKind
		if err := back.UnmarshalText(b); err != nil || back != kind {
			t.Errorf("%v round trip = %v (%v)", kind, back, err)
		}
	}
}

func TestControllerRidesMovingPlatform(t *testing.T) {
	w := physics.NewWorld()
	deck := w.Add(physics.LayerDefault, physics.BoxAt(vmath.Vec3F{Y: -0.5}, vmath.Vec3F{X: 5, Y: 0.5, Z: 5}))
	c, _ := newTestController(t, w, vmath.Vec3F{Y: restY})

	step := vmath.Vec3F{X: 0.05}
	var snap Snapshot
	for i := uint64(1); i <= 20; i++ {
		w.ClearMotion()
		w.Translate(deck, step)
		snap = c.Tick(input.Frame{Tick: i}, flat, tickDT)
	}
	if !snap.Grounded || snap.Ground != deck {
		t.Fatalf("not standing on the deck: %+v", snap)
	}
	// The first tick has no ground yet; every later tick carries the agent
	if x := snap.Pose.Position.X; math.Abs(x-19*step.X) > 1e-9 {
		t.Errorf("carried to x=%v, want %v", x, 19*step.X)
	}
	if math.Abs(snap.Pose.Position.Y-restY) > 1e-6 {
		t.Errorf("height drifted to %v", snap.Pose.Position.Y)
	}

	// A deck that moves while the agent is elsewhere does not drag it
	other := w.Add(physics.LayerDefault, physics.BoxAt(vmath.Vec3F{X: 50}, vmath.Vec3F{X: 1, Y: 1, Z: 1}))
	before := snap.Pose.Position
	w.ClearMotion()
	w.Translate(other, vmath.Vec3F{Z: 1})
	snap = c.Tick(input.Frame{Tick: 21}, flat, tickDT)
	if vmath.V3FDistance(snap.Pose.Position, before) > 1e-9 {
		t.Errorf("moved by another collider: %v -> %v", before, snap.Pose.Position)
	}
}
