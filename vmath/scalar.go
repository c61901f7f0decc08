package vmath

import "math"

const (
	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi

	// NormalizeEpsilon is the magnitude below which a vector is treated as zero
	NormalizeEpsilon = 1e-9
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// LerpF interpolates a→b with t clamped to [0,1]
func LerpF(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// InverseLerpF returns where v sits between a and b, clamped to [0,1]
func InverseLerpF(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// IsFinite reports whether f is neither NaN nor Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
