package vmath

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func nearV(a, b Vec3F) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestV3FNormalizeZero(t *testing.T) {
	if got := V3FNormalize(Vec3F{}); got != (Vec3F{}) {
		t.Errorf("normalize zero = %v, want zero", got)
	}
	if got := V3FNormalize(Vec3F{1e-12, 0, 0}); got != (Vec3F{}) {
		t.Errorf("normalize tiny = %v, want zero", got)
	}
	if got := V3FNormalize(Vec3F{0, 3, 4}); !nearV(got, Vec3F{0, 0.6, 0.8}) {
		t.Errorf("normalize = %v", got)
	}
}

func TestV3FCross(t *testing.T) {
	if got := V3FCross(Right, Up); !nearV(got, Forward) {
		t.Errorf("right x up = %v, want forward", got)
	}
	if got := V3FCross(Back, Up); !nearV(got, Right) {
		t.Errorf("back x up = %v, want right", got)
	}
}

func TestV3FAngle(t *testing.T) {
	tests := []struct {
		a, b Vec3F
		want float64
	}{
		{Up, Up, 0},
		{Up, Right, 90},
		{Up, Down, 180},
		{Up, Vec3F{1, 1, 0}, 45},
		{Vec3F{}, Up, 0},
	}
	for _, tt := range tests {
		if got := V3FAngle(tt.a, tt.b); !near(got, tt.want) {
			t.Errorf("angle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestV3FProjectOnPlane(t *testing.T) {
	got := V3FProjectOnPlane(Vec3F{3, 2, 1}, Vec3F{0, 5, 0})
	if !nearV(got, Vec3F{3, 0, 1}) {
		t.Errorf("project = %v", got)
	}
	if got := V3FProjectOnPlane(Vec3F{1, 2, 3}, Vec3F{}); got != (Vec3F{1, 2, 3}) {
		t.Errorf("project on zero normal = %v", got)
	}
}

func TestV3FClampMagnitude(t *testing.T) {
	got := V3FClampMagnitude(Vec3F{3, 0, 4}, 1)
	if !near(V3FMag(got), 1) || !nearV(got, Vec3F{0.6, 0, 0.8}) {
		t.Errorf("clamp = %v", got)
	}
	if got := V3FClampMagnitude(Vec3F{0.1, 0, 0}, 1); got != (Vec3F{0.1, 0, 0}) {
		t.Errorf("clamp short = %v", got)
	}
}

func TestV3FRotateYaw(t *testing.T) {
	if got := V3FRotateYaw(Forward, 90); !nearV(got, Right) {
		t.Errorf("rotate forward 90 = %v, want right", got)
	}
	if got := V3FYaw(Right); !near(got, 90) {
		t.Errorf("yaw(right) = %v", got)
	}
}

func TestV3FIsFinite(t *testing.T) {
	if !V3FIsFinite(Vec3F{1, 2, 3}) {
		t.Error("finite vector reported non-finite")
	}
	if V3FIsFinite(Vec3F{math.NaN(), 0, 0}) || V3FIsFinite(Vec3F{0, math.Inf(1), 0}) {
		t.Error("non-finite vector reported finite")
	}
}
