package grapple

import (
	"math"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

const dt = 0.02

var testParams = Params{
	Length:          25,
	Speed:           20,
	HangTime:        1,
	CollisionBuffer: 0.005,
	PreviewDistance: 99999,
}

func newTestSolver(t *testing.T, w *physics.World, p Params) *Solver {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	s, err := NewSolver(w, p, log)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	return s
}

func tick(s *Solver, pos vmath.Vec3F, aim float64, fire, release bool) {
	s.Tick(Input{Position: pos, AimAngle: aim, Fire: fire, Release: release, Enabled: true, DT: dt})
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// ropeWorld has a hookable ledge whose underside meets the aim ray at (4,10,0)
// and a disabled occluder sphere straddling the line from the origin to that anchor
func ropeWorld() (w *physics.World, occluder physics.ColliderID) {
	w = physics.NewWorld()
	w.Add(physics.LayerGrapple, physics.Box{Min: vmath.Vec3F{X: 3.5, Y: 10, Z: -0.5}, Max: vmath.Vec3F{X: 4.5, Y: 11, Z: 0.5}})
	occluder = w.Add(physics.LayerGrapple, physics.Sphere{Center: vmath.Vec3F{X: 2.3, Y: 5}, Radius: 0.5})
	w.SetEnabled(occluder, false)
	return w, occluder
}

var anchorAim = math.Atan2(10, 4) * vmath.RadToDeg

func hookedSolver(t *testing.T, w *physics.World) *Solver {
	t.Helper()
	p := testParams
	p.Speed = 1000
	s := newTestSolver(t, w, p)

	tick(s, vmath.Vec3F{}, anchorAim, true, false)
	if s.State() != StateShooting || !hasEvent(s.Events(), EventFired) {
		t.Fatalf("after fire: state %v events %v", s.State(), s.Events())
	}
	for i := 0; i < 5 && s.State() != StateHooked; i++ {
		tick(s, vmath.Vec3F{}, anchorAim, false, false)
	}
	if s.State() != StateHooked {
		t.Fatalf("bolt never hooked, state %v", s.State())
	}
	if !hasEvent(s.Events(), EventHooked) {
		t.Errorf("hook tick events = %v", s.Events())
	}
	want := vmath.Vec3F{X: 4, Y: 10}
	if vmath.V3FDistance(s.Target(), want) > 1e-6 {
		t.Fatalf("anchor = %v, want %v", s.Target(), want)
	}
	return s
}

// TestShootingHangsThenReleases tests bolt extension per tick and the hang-time auto release
func TestShootingHangsThenReleases(t *testing.T) {
	s := newTestSolver(t, physics.NewWorld(), testParams)

	tick(s, vmath.Vec3F{}, 45, true, false)
	if s.State() != StateShooting || s.SectionCount() != 1 {
		t.Fatalf("state %v sections %d", s.State(), s.SectionCount())
	}

	step := testParams.Speed * dt
	for i := 1; i <= 10; i++ {
		tick(s, vmath.Vec3F{}, 45, false, false)
		if got := s.Extension(); math.Abs(got-step*float64(i)) > 1e-9 {
			t.Fatalf("tick %d extension = %v, want %v", i, got, step*float64(i))
		}
	}

	ticks := 10
	for s.State() == StateShooting && ticks < 1000 {
		tick(s, vmath.Vec3F{}, 45, false, false)
		ticks++
	}
	if s.State() != StateInactive {
		t.Fatalf("never released, state %v", s.State())
	}
	if !hasEvent(s.Events(), EventReleased) || s.SectionCount() != 0 {
		t.Errorf("release tick: events %v sections %d", s.Events(), s.SectionCount())
	}

	// The bolt keeps extending until it passes the full length, then hangs
	extendTicks := int(math.Floor(testParams.Length/step)) + 1
	hangTicks := int(math.Round(testParams.HangTime / dt))
	if ticks < extendTicks+hangTicks || ticks > extendTicks+hangTicks+1 {
		t.Errorf("released after %d ticks, want %d..%d", ticks, extendTicks+hangTicks, extendTicks+hangTicks+1)
	}
}

func TestShootingTailFollowsBolt(t *testing.T) {
	s := newTestSolver(t, physics.NewWorld(), testParams)
	tick(s, vmath.Vec3F{}, 90, true, false)
	tick(s, vmath.Vec3F{}, 90, false, false)
	tick(s, vmath.Vec3F{X: 1}, 90, false, false)

	// Base lags one tick behind the extension counter
	sec := s.Sections()[0]
	want := vmath.Vec3F{X: 1, Y: testParams.Speed * dt}
	if vmath.V3FDistance(sec.Base, want) > 1e-9 || sec.Tip != (vmath.Vec3F{X: 1}) {
		t.Errorf("section = %+v, want base %v tip (1,0,0)", sec, want)
	}
}

func TestBlockerHitIsNotAnAnchor(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.LayerBlocker, physics.Box{Min: vmath.Vec3F{X: 5, Y: -1, Z: -1}, Max: vmath.Vec3F{X: 6, Y: 1, Z: 1}})
	w.Add(physics.LayerGrapple, physics.Box{Min: vmath.Vec3F{X: 10, Y: -1, Z: -1}, Max: vmath.Vec3F{X: 11, Y: 1, Z: 1}})
	s := newTestSolver(t, w, testParams)

	tick(s, vmath.Vec3F{}, 0, false, false)
	if s.Preview().Valid {
		t.Errorf("preview through blocker = %+v", s.Preview())
	}

	tick(s, vmath.Vec3F{}, 0, true, false)
	for i := 0; i < 200 && s.State() != StateInactive; i++ {
		tick(s, vmath.Vec3F{}, 0, false, false)
		if s.State() == StateHooked {
			t.Fatal("hooked behind a blocker")
		}
	}
	if s.State() != StateInactive {
		t.Errorf("state = %v, want Inactive after hang", s.State())
	}
}

func TestPreviewTarget(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.LayerGrapple, physics.Box{Min: vmath.Vec3F{X: 10, Y: -1, Z: -1}, Max: vmath.Vec3F{X: 11, Y: 1, Z: 1}})
	s := newTestSolver(t, w, testParams)

	tick(s, vmath.Vec3F{}, 0, false, false)
	p := s.Preview()
	if !p.Valid || vmath.V3FDistance(p.Point, vmath.Vec3F{X: 10}) > 1e-9 {
		t.Errorf("preview = %+v", p)
	}

	tick(s, vmath.Vec3F{}, 180, false, false)
	if s.Preview().Valid {
		t.Error("aiming away should clear the preview")
	}
}

// TestRopeSplitAndMerge tests an occluder appearing between player and anchor, then vanishing
func TestRopeSplitAndMerge(t *testing.T) {
	w, occluder := ropeWorld()
	s := hookedSolver(t, w)

	tick(s, vmath.Vec3F{}, anchorAim, false, false)
	if s.SectionCount() != 1 {
		t.Fatalf("clear line: %d sections", s.SectionCount())
	}

	w.SetEnabled(occluder, true)
	tick(s, vmath.Vec3F{}, anchorAim, false, false)
	secs := s.Sections()
	if len(secs) != 2 {
		t.Fatalf("after occluder: %d sections, want 2", len(secs))
	}

	pin := secs[0].Tip
	center := vmath.Vec3F{X: 2.3, Y: 5}
	if math.Abs(vmath.V3FDistance(pin, center)-0.5) > 1e-6 {
		t.Errorf("pin %v is not on the occluder surface", pin)
	}
	if vmath.V3FDistance(secs[0].Base, vmath.Vec3F{X: 4, Y: 10}) > 1e-6 {
		t.Errorf("outer base moved: %v", secs[0].Base)
	}
	if secs[1].Base != pin || secs[1].Tip != (vmath.Vec3F{}) {
		t.Errorf("tail section = %+v", secs[1])
	}
	if s.Target() != pin {
		t.Errorf("target = %v, want pin %v", s.Target(), pin)
	}
	anchor := vmath.Vec3F{X: 4, Y: 10}
	wrapped := vmath.V3FDistance(anchor, pin) + vmath.V3FMag(pin)
	if math.Abs(s.Length()-wrapped) > 1e-9 || s.Length() <= vmath.V3FMag(anchor) {
		t.Errorf("wrapped length = %v, want %v", s.Length(), wrapped)
	}

	// Normal lies in the swing plane and points out of the occluder
	cn := secs[0].CollideNormal
	if math.Abs(cn.Z) > 1e-9 {
		t.Errorf("collide normal %v leaves the swing plane", cn)
	}
	if vmath.V3FDot(cn, vmath.V3FSub(pin, center)) <= 0 {
		t.Errorf("collide normal %v points into the occluder", cn)
	}
	want := vmath.V3FNormalize(vmath.Vec3F{X: -10, Y: 4})
	if vmath.V3FDistance(cn, want) > 1e-6 {
		t.Errorf("collide normal = %v, want %v", cn, want)
	}

	// Unchanged geometry converges
	for i := 0; i < 20; i++ {
		tick(s, vmath.Vec3F{}, anchorAim, false, false)
		if s.SectionCount() != 2 {
			t.Fatalf("tick %d after convergence: %d sections", i, s.SectionCount())
		}
	}

	w.SetEnabled(occluder, false)
	moved := vmath.Vec3F{X: -1}
	tick(s, moved, anchorAim, false, false)
	secs = s.Sections()
	if len(secs) != 1 {
		t.Fatalf("after occluder removed: %d sections, want 1", len(secs))
	}
	if vmath.V3FDistance(secs[0].Base, vmath.Vec3F{X: 4, Y: 10}) > 1e-6 || secs[0].Tip != moved {
		t.Errorf("merged section = %+v", secs[0])
	}
	if got, want := s.Length(), vmath.V3FDistance(anchor, moved); math.Abs(got-want) > 1e-6 {
		t.Errorf("merged length = %v, want %v", got, want)
	}

	s.Release()
	if s.Length() != 0 {
		t.Errorf("released rope length = %v", s.Length())
	}
}

func TestMergeRequiresSwingBack(t *testing.T) {
	w, occluder := ropeWorld()
	s := hookedSolver(t, w)

	w.SetEnabled(occluder, true)
	tick(s, vmath.Vec3F{}, anchorAim, false, false)
	if s.SectionCount() != 2 {
		t.Fatalf("split failed: %d sections", s.SectionCount())
	}

	// Still wrapped: the line is clear but the player is on the wrong side of the pin
	w.SetEnabled(occluder, false)
	tick(s, vmath.Vec3F{X: 2}, anchorAim, false, false)
	if s.SectionCount() != 2 {
		t.Errorf("merged while still wrapped: %d sections", s.SectionCount())
	}
}

func TestReleaseAndDisable(t *testing.T) {
	w, _ := ropeWorld()
	s := hookedSolver(t, w)

	tick(s, vmath.Vec3F{}, anchorAim, false, true)
	if s.State() != StateInactive || s.SectionCount() != 0 {
		t.Errorf("after release: state %v sections %d", s.State(), s.SectionCount())
	}
	if !hasEvent(s.Events(), EventReleased) {
		t.Errorf("release events = %v", s.Events())
	}

	s = hookedSolver(t, w)
	s.Tick(Input{Position: vmath.Vec3F{}, AimAngle: anchorAim, Enabled: false, DT: dt})
	if s.State() != StateInactive || s.SectionCount() != 0 {
		t.Errorf("after disable: state %v sections %d", s.State(), s.SectionCount())
	}

	// Release while inactive is a no-op
	tick(s, vmath.Vec3F{}, anchorAim, false, true)
	if len(s.Events()) != 0 {
		t.Errorf("idle release emitted %v", s.Events())
	}
}

func TestSyncTip(t *testing.T) {
	w, _ := ropeWorld()
	s := hookedSolver(t, w)
	s.SyncTip(vmath.Vec3F{X: 0.5, Y: 0.25})
	if got := s.Sections()[0].Tip; got != (vmath.Vec3F{X: 0.5, Y: 0.25}) {
		t.Errorf("tip = %v", got)
	}
}

func TestHookedWithoutRopePanics(t *testing.T) {
	w, _ := ropeWorld()
	s := hookedSolver(t, w)
	s.rope.Clear()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.Target()
}
