package tower

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestProject(t *testing.T) {
	got := Project(vmath.Vec3F{X: 3, Y: 7, Z: 4}, 10)
	if math.Abs(got.X-6) > 1e-9 || got.Y != 7 || math.Abs(got.Z-8) > 1e-9 {
		t.Errorf("project = %v, want (6,7,8)", got)
	}
}

// TestProjectDegenerate tests that a point on the axis never produces NaN
func TestProjectDegenerate(t *testing.T) {
	got := Project(vmath.Vec3F{Y: 5}, 50)
	if !vmath.V3FIsFinite(got) {
		t.Fatalf("project on axis produced %v", got)
	}
	if got != (vmath.Vec3F{Y: 5}) {
		t.Errorf("project on axis = %v, want (0,5,0)", got)
	}
}

func TestApplyFlatIsIdentity(t *testing.T) {
	p := vmath.Vec3F{X: 1, Y: 2, Z: 3}
	if got := (Curvature{Radius: 50}).Apply(p); got != p {
		t.Errorf("flat apply = %v, want %v", got, p)
	}
}

func TestTangentAndArc(t *testing.T) {
	p := vmath.Vec3F{X: 10}
	if got := Tangent(p); math.Abs(got.Z-1) > 1e-9 {
		t.Errorf("tangent at +X = %v, want (0,0,1)", got)
	}
	angle := ArcAngle(vmath.Vec3F{X: 10}, vmath.Vec3F{Z: 10})
	if math.Abs(angle-math.Pi/2) > 1e-9 {
		t.Errorf("arc angle = %v, want pi/2", angle)
	}
	if got := ArcLength(10, angle); math.Abs(got-5*math.Pi) > 1e-9 {
		t.Errorf("arc length = %v, want 5pi", got)
	}
}

func TestSchedule(t *testing.T) {
	s := Schedule{BaseRadius: 50, TipRadius: 10, TipStart: 100, TipEnd: 200}
	tests := []struct {
		y    float64
		want float64
	}{
		{0, 50},
		{100, 50},
		{150, 30},
		{200, 10},
		{500, 10},
	}
	for _, tt := range tests {
		c, ok := s.Curvature(vmath.Vec3F{Y: tt.y})
		if !ok || !c.Wrap || math.Abs(c.Radius-tt.want) > 1e-9 {
			t.Errorf("y=%v: curvature = %+v, want radius %v", tt.y, c, tt.want)
		}
	}
}

type flakySource struct {
	values []Curvature
	oks    []bool
	i      int
}

func (f *flakySource) Curvature(vmath.Vec3F) (Curvature, bool) {
	c, ok := f.values[f.i], f.oks[f.i]
	f.i++
	return c, ok
}

// TestTrackerFallback tests that unavailable or invalid curvature keeps the last known value
func TestTrackerFallback(t *testing.T) {
	src := &flakySource{
		values: []Curvature{{Radius: 40, Wrap: true}, {}, {Radius: -1, Wrap: true}, {Radius: math.NaN(), Wrap: true}, {Radius: 30, Wrap: true}},
		oks:    []bool{true, false, true, true, true},
	}
	tr := NewTracker(src, Curvature{Radius: 50, Wrap: true}, quietLogger())

	want := []float64{40, 40, 40, 40, 30}
	for i, w := range want {
		if got := tr.Resolve(vmath.Vec3F{}); got.Radius != w {
			t.Errorf("tick %d: radius = %v, want %v", i, got.Radius, w)
		}
	}
}
