package physics

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Layer is a collider category bit; masks are OR-ed layers
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerPlayer
	LayerKillZone
	LayerBlocker
	LayerGrapple

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

// ColliderID identifies a collider within a World, assigned in registration order
type ColliderID int

// NoCollider is the identity carried by a miss
const NoCollider ColliderID = -1

// Hit is the result of a sweep or ray query
// Distance is +Inf on a miss
type Hit struct {
	Point    vmath.Vec3F
	Normal   vmath.Vec3F
	Distance float64
	Collider ColliderID
	Layer    Layer
}

// Miss returns the no-hit result
func Miss() Hit {
	return Hit{Distance: math.Inf(1), Collider: NoCollider}
}

// Capsule is an upright capsule; orientation is yaw-only so the axis is always vertical
type Capsule struct {
	Radius float64
	Height float64
	Center vmath.Vec3F // Local offset of the capsule center from the agent origin
}

// Segment returns the bottom and top sphere centers for an agent at pos facing yaw
func (c Capsule) Segment(pos vmath.Vec3F, yaw float64) (bottom, top vmath.Vec3F) {
	center := vmath.V3FAdd(pos, vmath.V3FRotateYaw(c.Center, yaw))
	half := c.HalfSegment()
	return vmath.V3FAddScaled(center, vmath.Up, -half), vmath.V3FAddScaled(center, vmath.Up, half)
}

// HalfSegment is half the distance between the end sphere centers
func (c Capsule) HalfSegment() float64 {
	h := c.Height/2 - c.Radius
	if h < 0 {
		return 0
	}
	return h
}

// Query is the collision service consumed by the movement and rope solvers
// Both calls are synchronous and side-effect free
type Query interface {
	// SweepCapsule casts the capsule from origin along dir (unit) up to maxDist
	// Colliders on LayerPlayer are ignored
	SweepCapsule(c Capsule, origin vmath.Vec3F, yaw float64, dir vmath.Vec3F, maxDist float64) (Hit, bool)

	// Raycast casts a ray from origin along dir (unit) up to maxDist against colliders in mask
	Raycast(origin, dir vmath.Vec3F, maxDist float64, mask Layer) (Hit, bool)
}
