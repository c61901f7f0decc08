package grapple

import (
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// SwingParams configures the rope steering force
type SwingParams struct {
	LeanInfluence float64
	Retraction    float64
	MaxForce      float64
}

// SwingInput is the state one steering step works from
type SwingInput struct {
	Position  vmath.Vec3F
	Target    vmath.Vec3F
	Velocity  vmath.Vec3F
	Lean      vmath.Vec3F // World-space input, magnitude at most 1
	Pull      float64     // Vertical input axis; positive reels in
	Curvature tower.Curvature
	DT        float64
}

// Unwrap rebuilds target as if the tower surface between pos and target were unrolled flat
// The horizontal offset becomes the arc length along the tangent, the height offset is kept
func Unwrap(pos, target vmath.Vec3F, radius float64) vmath.Vec3F {
	forward := tower.Tangent(pos)
	if vmath.V3FDot(forward, vmath.V3FSub(target, pos)) < 0 {
		forward = vmath.V3FNeg(forward)
	}
	dist := tower.ArcLength(radius, tower.ArcAngle(pos, target))
	flat := vmath.V3FAddScaled(pos, forward, dist)
	flat.Y = target.Y
	return flat
}

// Swing returns the velocity after one bounded steering step toward the rope arc
func Swing(in SwingInput, p SwingParams) vmath.Vec3F {
	pos := in.Position
	target := in.Target
	forward := vmath.Right
	ref := vmath.Forward
	if in.Curvature.Wrap {
		target = Unwrap(pos, in.Target, in.Curvature.Radius)
		forward = tower.Tangent(pos)
		ref = vmath.V3FFlatten(pos)
	}
	left := vmath.V3FDot(forward, vmath.V3FNormalize(vmath.V3FSub(in.Target, pos))) < 0

	toTarget := vmath.V3FNormalize(vmath.V3FSub(target, pos))
	swingDir := vmath.V3FNormalize(vmath.V3FCross(toTarget, ref))
	if !left {
		swingDir = vmath.V3FNeg(swingDir)
	}

	leaning := vmath.V3FAddScaled(in.Velocity, in.Lean, p.LeanInfluence*in.DT)
	desired := vmath.V3FScale(swingDir, vmath.V3FDot(leaning, swingDir))
	desired = vmath.V3FAddScaled(desired, toTarget, p.Retraction*in.Pull)

	steering := vmath.V3FClampMagnitude(vmath.V3FSub(desired, in.Velocity), p.MaxForce)
	return vmath.V3FAdd(in.Velocity, steering)
}
