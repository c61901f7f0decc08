package physics

import (
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Collider is a registered shape with its layer
type Collider struct {
	ID      ColliderID
	Layer   Layer
	Shape   Shape
	Enabled bool
	Motion  vmath.Vec3F // Translation applied since the last ClearMotion
}

// World is a flat list of colliders queried by brute force
// Colliders only move through Translate
// Not safe for concurrent mutation; queries are read-only
type World struct {
	colliders []Collider
}

func NewWorld() *World {
	return &World{
		colliders: make([]Collider, 0, 16),
	}
}

// Add registers a shape and returns its identity
func (w *World) Add(layer Layer, shape Shape) ColliderID {
	id := ColliderID(len(w.colliders))
	w.colliders = append(w.colliders, Collider{ID: id, Layer: layer, Shape: shape, Enabled: true})
	return id
}

// SetEnabled toggles a collider without changing identities of the others
func (w *World) SetEnabled(id ColliderID, enabled bool) {
	if id >= 0 && int(id) < len(w.colliders) {
		w.colliders[id].Enabled = enabled
	}
}

// Translate moves a collider by delta and adds delta to its Motion
func (w *World) Translate(id ColliderID, delta vmath.Vec3F) {
	if id < 0 || int(id) >= len(w.colliders) {
		return
	}
	col := &w.colliders[id]
	col.Shape = col.Shape.translated(delta)
	col.Motion = vmath.V3FAdd(col.Motion, delta)
}

// Motion returns how far a collider moved since the last ClearMotion
func (w *World) Motion(id ColliderID) vmath.Vec3F {
	if id < 0 || int(id) >= len(w.colliders) {
		return vmath.Vec3F{}
	}
	return w.colliders[id].Motion
}

// ClearMotion starts a new step of collider motion
func (w *World) ClearMotion() {
	for i := range w.colliders {
		w.colliders[i].Motion = vmath.Vec3F{}
	}
}

// Collider returns the registered collider for id
func (w *World) Collider(id ColliderID) (Collider, bool) {
	if id < 0 || int(id) >= len(w.colliders) {
		return Collider{}, false
	}
	return w.colliders[id], true
}

// Colliders returns the registered colliders in identity order
func (w *World) Colliders() []Collider {
	return w.colliders
}

// SweepCapsule implements Query
// Minimum distance wins; equal distances keep the lowest collider ID
func (w *World) SweepCapsule(c Capsule, origin vmath.Vec3F, yaw float64, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	bottom, top := c.Segment(origin, yaw)
	best := Miss()
	found := false
	for i := range w.colliders {
		col := &w.colliders[i]
		if !col.Enabled || col.Layer&LayerPlayer != 0 {
			continue
		}
		hit, ok := col.Shape.sweepCapsule(bottom, top, c.Radius, dir, maxDist)
		if !ok || hit.Distance >= best.Distance {
			continue
		}
		// Starting overlap only blocks motion that drives further in
		if hit.Distance == 0 && vmath.V3FDot(dir, hit.Normal) >= 0 {
			continue
		}
		hit.Collider = col.ID
		hit.Layer = col.Layer
		best = hit
		found = true
	}
	return best, found
}

// Raycast implements Query
func (w *World) Raycast(origin, dir vmath.Vec3F, maxDist float64, mask Layer) (Hit, bool) {
	best := Miss()
	found := false
	for i := range w.colliders {
		col := &w.colliders[i]
		if !col.Enabled || col.Layer&mask == 0 {
			continue
		}
		hit, ok := col.Shape.raycast(origin, dir, maxDist)
		if !ok || hit.Distance >= best.Distance {
			continue
		}
		hit.Collider = col.ID
		hit.Layer = col.Layer
		best = hit
		found = true
	}
	return best, found
}

// Overlaps returns the lowest-ID enabled collider in mask touching the capsule inflated by skin
func (w *World) Overlaps(c Capsule, origin vmath.Vec3F, yaw float64, skin float64, mask Layer) (ColliderID, bool) {
	bottom, top := c.Segment(origin, yaw)
	for i := range w.colliders {
		col := &w.colliders[i]
		if !col.Enabled || col.Layer&mask == 0 {
			continue
		}
		// A zero-length sweep reports only starting overlap
		if _, ok := col.Shape.sweepCapsule(bottom, top, c.Radius+skin, vmath.Down, 0); ok {
			return col.ID, true
		}
	}
	return NoCollider, false
}

// Contains reports whether any enabled collider in mask contains p
func (w *World) Contains(p vmath.Vec3F, mask Layer) (Layer, bool) {
	for i := range w.colliders {
		col := &w.colliders[i]
		if col.Enabled && col.Layer&mask != 0 && col.Shape.Contains(p) {
			return col.Layer, true
		}
	}
	return LayerNone, false
}
