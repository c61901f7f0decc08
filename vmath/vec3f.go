package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector, Y up
type Vec3F struct {
	X, Y, Z float64
}

// Axis constants
var (
	Up      = Vec3F{0, 1, 0}
	Down    = Vec3F{0, -1, 0}
	Right   = Vec3F{1, 0, 0}
	Left    = Vec3F{-1, 0, 0}
	Forward = Vec3F{0, 0, 1}
	Back    = Vec3F{0, 0, -1}
)

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

// V3FAddScaled returns a + b*s
func V3FAddScaled(a, b Vec3F, s float64) Vec3F {
	return Vec3F{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

func V3FNeg(v Vec3F) Vec3F {
	return Vec3F{-v.X, -v.Y, -v.Z}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FNormalize returns the unit vector, zero vector for zero (or near-zero) input
func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag < NormalizeEpsilon {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FFlatten drops the vertical component
func V3FFlatten(v Vec3F) Vec3F {
	return Vec3F{v.X, 0, v.Z}
}

// V3FProjectOnPlane removes the component of v along the plane normal n
// n need not be unit length; zero n returns v unchanged
func V3FProjectOnPlane(v, n Vec3F) Vec3F {
	nn := V3FMagSq(n)
	if nn < NormalizeEpsilon*NormalizeEpsilon {
		return v
	}
	return V3FAddScaled(v, n, -V3FDot(v, n)/nn)
}

// V3FAngle returns the unsigned angle between a and b in degrees
// Zero-length input yields 0
func V3FAngle(a, b Vec3F) float64 {
	denom := math.Sqrt(V3FMagSq(a) * V3FMagSq(b))
	if denom < NormalizeEpsilon {
		return 0
	}
	return math.Acos(Clamp(V3FDot(a, b)/denom, -1, 1)) * RadToDeg
}

// V3FClampMagnitude limits the magnitude of v to max
func V3FClampMagnitude(v Vec3F, max float64) Vec3F {
	magSq := V3FMagSq(v)
	if magSq <= max*max {
		return v
	}
	return V3FScale(v, max/math.Sqrt(magSq))
}

// V3FLerp interpolates a→b, t clamped to [0,1]
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	t = Clamp(t, 0, 1)
	return Vec3F{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3FRotateYaw rotates v around the up axis by yaw degrees
// Positive yaw turns +Z toward +X
func V3FRotateYaw(v Vec3F, yaw float64) Vec3F {
	if yaw == 0 {
		return v
	}
	s, c := math.Sincos(yaw * DegToRad)
	return Vec3F{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// V3FYaw returns the heading of the flattened vector in degrees, 0 along +Z
func V3FYaw(v Vec3F) float64 {
	return math.Atan2(v.X, v.Z) * RadToDeg
}

// V3FIsFinite reports whether every component is neither NaN nor Inf
func V3FIsFinite(v Vec3F) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// V3FDistance returns |a-b|
func V3FDistance(a, b Vec3F) float64 {
	return V3FMag(V3FSub(a, b))
}
