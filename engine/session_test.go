package engine

import (
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/samuelbigos/tower-of-babylon/input"
	"github.com/samuelbigos/tower-of-babylon/kinematic"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/scene"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// corridor is a floor with a kill zone block to the right of the spawn
func corridor() *scene.Scene {
	w := physics.NewWorld()
	w.Add(physics.LayerDefault, physics.PlaneThrough(vmath.Up, vmath.Vec3F{}))
	w.Add(physics.LayerKillZone, physics.Box{Min: vmath.Vec3F{X: 3, Y: 0, Z: -1}, Max: vmath.Vec3F{X: 4, Y: 2, Z: 1}})
	return &scene.Scene{
		Name:         "corridor",
		World:        w,
		Spawn:        vmath.Vec3F{Y: 1.002},
		Curvature:    tower.Fixed{},
		SummitHeight: 20,
	}
}

func newTestSession(t *testing.T, sc *scene.Scene) *Session {
	t.Helper()
	tuning := parameter.Default()
	tuning.Session.IntroDuration = 0.1
	log, _ := logtest.NewNullLogger()
	s, err := NewSession(sc, tuning, log)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func walkRight() input.Frame {
	var f input.Frame
	f.Move = input.Axis{X: 1}
	return f
}

func TestSessionIntroTimesOut(t *testing.T) {
	s := newTestSession(t, corridor())
	if s.State() != StateIntro {
		t.Fatalf("initial state %v", s.State())
	}

	for i := 0; i < 4; i++ {
		step := s.Step(walkRight())
		if step.State != StateIntro {
			t.Fatalf("step %d left intro early: %v", i, step.State)
		}
		if step.Pose.Position.X != 0 {
			t.Fatalf("input reached the agent during intro: %v", step.Pose.Position)
		}
	}
	if step := s.Step(walkRight()); step.State != StateAlive || step.Tick != 5 {
		t.Fatalf("after intro: state %v tick %d", step.State, step.Tick)
	}

	step := s.Step(walkRight())
	if step.Pose.Position.X <= 0 {
		t.Error("input ignored while alive")
	}
	if step.RunTime <= 0 {
		t.Error("run clock not running")
	}
}

func TestSessionFireStartsRun(t *testing.T) {
	s := newTestSession(t, corridor())

	f := input.Frame{FirePressed: true}
	f.FireHeld = true
	step := s.Step(f)
	if step.State != StateAlive {
		t.Fatalf("fire did not start the run: %v", step.State)
	}
	for _, e := range step.Events {
		if e.Kind == kinematic.EventGrappleFired {
			t.Error("the starting press also fired the grapple")
		}
	}
}

func TestSessionKillZone(t *testing.T) {
	s := newTestSession(t, corridor())
	s.Start()

	var step Step
	for i := 0; i < 60 && step.State != StateDead; i++ {
		step = s.Step(walkRight())
	}
	if step.State != StateDead {
		t.Fatalf("never died, at %v", step.Pose.Position)
	}
	frozen := s.RunTime()
	deadAt := step.Pose.Position

	for i := 0; i < 10; i++ {
		step = s.Step(walkRight())
	}
	if step.State != StateDead || !step.State.Finished() {
		t.Errorf("state after death = %v", step.State)
	}
	if s.RunTime() != frozen {
		t.Errorf("run clock kept going: %v -> %v", frozen, s.RunTime())
	}
	if step.Pose.Position.X > deadAt.X+1e-9 {
		t.Errorf("dead agent still walking: %v -> %v", deadAt, step.Pose.Position)
	}
}

func TestSessionSummit(t *testing.T) {
	s := newTestSession(t, corridor())
	s.Start()
	s.Step(input.Frame{})

	s.Controller().Teleport(vmath.Vec3F{Y: 25})
	step := s.Step(input.Frame{})
	if step.State != StateSummit {
		t.Errorf("state above summit = %v", step.State)
	}
}

func TestSessionObserversAndCurvature(t *testing.T) {
	sc, err := scene.Builtin("tower", parameter.Default())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, sc)

	var seen []uint64
	s.AddObserver(ObserverFunc(func(st Step) {
		seen = append(seen, st.Tick)
	}))
	if last := s.Last(); last.Pose.Position != sc.Spawn || last.State != StateIntro {
		t.Errorf("Last before stepping = %+v", last)
	}

	var step Step
	for i := 0; i < 3; i++ {
		step = s.Step(input.Frame{})
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("observer saw ticks %v", seen)
	}
	if !step.Curvature.Wrap || step.Curvature.Radius != parameter.TowerBaseRadius {
		t.Errorf("curvature = %+v", step.Curvature)
	}
	if s.Last().Tick != step.Tick {
		t.Errorf("Last = %d, want %d", s.Last().Tick, step.Tick)
	}
}

func TestGameStateText(t *testing.T) {
	for st := StateIntro; st <= StateSummit; st++ {
		b, _ := st.MarshalText()
		var back GameState
		if err := back.UnmarshalText(b); err != nil || back != st {
			t.Errorf("%v round trip = %v (%v)", st, back, err)
		}
	}
	var gs GameState
	if err := gs.UnmarshalText([]byte("paused")); err == nil {
		t.Error("unknown state accepted")
	}
}

func TestSessionSwingIsEnclosed(t *testing.T) {
	sc, err := scene.Builtin("swing", parameter.Default())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, sc)
	s.Start()

	walkLeft := input.Frame{}
	walkLeft.Move = input.Axis{X: -1}
	var step Step
	for i := 0; i < 1500; i++ {
		step = s.Step(walkLeft)
	}
	if step.State != StateAlive || step.Pose.Position.X < -22 || step.Pose.Position.Y < 0 {
		t.Fatalf("walked off the left edge: %v at %v", step.State, step.Pose.Position)
	}

	// Anything that gets past a wall falls into the kill slab
	s.Controller().Teleport(vmath.Vec3F{X: -30, Y: 5})
	for i := 0; i < 500 && step.State != StateDead; i++ {
		step = s.Step(input.Frame{})
	}
	if step.State != StateDead {
		t.Errorf("fell past the wall without dying: %v", step.Pose.Position)
	}
}

func TestSessionRidesFerry(t *testing.T) {
	sc, err := scene.Builtin("swing", parameter.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Platforms) != 1 {
		t.Fatalf("swing platforms = %d", len(sc.Platforms))
	}
	ferry := sc.Platforms[0].Collider
	deckX := func() (float64, float64) {
		col, _ := sc.World.Collider(ferry)
		box := col.Shape.(physics.Box)
		return box.Min.X, box.Max.X
	}

	s := newTestSession(t, sc)
	s.Start()
	lo, hi := deckX()
	start := vmath.Vec3F{X: (lo + hi) / 2, Y: 1.002}
	s.Controller().Teleport(start)

	var step Step
	for i := 0; i < 100; i++ {
		step = s.Step(input.Frame{})
	}
	lo, hi = deckX()
	if step.State != StateAlive || step.Ground != ferry {
		t.Fatalf("fell off the ferry: %v on %d at %v", step.State, step.Ground, step.Pose.Position)
	}
	if x := step.Pose.Position.X; x < lo || x > hi || x-start.X < 1 {
		t.Errorf("agent at x=%v, deck [%v, %v], started at %v", x, lo, hi, start.X)
	}
}
