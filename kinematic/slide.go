// Package kinematic moves a capsule agent through solid geometry by cast-and-slide
package kinematic

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// SlideParams configures the cast-and-slide loop
type SlideParams struct {
	MaxBounces    int
	AnglePower    float64
	Epsilon       float64
	MaxAngleShove float64 // Degrees
}

// SlideResult is the outcome of one Move call
type SlideResult struct {
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	Bounces  int
	Sweeps   int
	LastHit  physics.Hit // Miss() when nothing was touched
}

// Mover resolves displacements against a collision query
type Mover struct {
	query   physics.Query
	capsule physics.Capsule
	params  SlideParams
}

func NewMover(q physics.Query, capsule physics.Capsule, params SlideParams) *Mover {
	return &Mover{query: q, capsule: capsule, params: params}
}

// Move sweeps the capsule along displacement, sliding along hit surfaces
// Every hit reflects velocity: v -= n*dot(n,v)*(1+bounce)
// At most MaxBounces sweeps are issued; remaining magnitude never grows across a bounce
func (m *Mover) Move(pos vmath.Vec3F, yaw float64, displacement, velocity vmath.Vec3F, bounce float64) SlideResult {
	eps := m.params.Epsilon
	res := SlideResult{Position: pos, Velocity: velocity, LastHit: physics.Miss()}
	remaining := displacement

	for res.Bounces < m.params.MaxBounces {
		dist := vmath.V3FMag(remaining)
		if dist <= eps {
			break
		}
		dir := vmath.V3FScale(remaining, 1/dist)

		res.Sweeps++
		hit, ok := m.query.SweepCapsule(m.capsule, res.Position, yaw, dir, dist)
		if !ok {
			res.Position = vmath.V3FAdd(res.Position, remaining)
			break
		}
		res.LastHit = hit

		// Advance to the contact and back off along the normal
		fraction := vmath.Clamp01(hit.Distance / dist)
		res.Position = vmath.V3FAddScaled(res.Position, remaining, fraction)
		res.Position = vmath.V3FAddScaled(res.Position, hit.Normal, 2*eps)
		remaining = vmath.V3FScale(remaining, 1-fraction)

		// Attenuate by how far the hit deviates from perpendicular
		angleBetween := math.Min(math.Abs(vmath.V3FAngle(hit.Normal, remaining)-90), m.params.MaxAngleShove)
		normalized := angleBetween / m.params.MaxAngleShove
		remaining = vmath.V3FScale(remaining, math.Pow(1-normalized, m.params.AnglePower)*0.9+0.1)

		remaining = slideAlong(remaining, hit.Normal, eps)

		res.Velocity = vmath.V3FAddScaled(res.Velocity, hit.Normal, -vmath.V3FDot(hit.Normal, res.Velocity)*(1+bounce))
		res.Bounces++
	}

	return res
}

// slideAlong redirects remaining onto the hit plane keeping its magnitude
// When the plane projection collapses it falls back to the horizontal plane, and
// drops anything still driving into the surface
func slideAlong(remaining, normal vmath.Vec3F, eps float64) vmath.Vec3F {
	mag := vmath.V3FMag(remaining)
	if mag <= eps {
		return vmath.Vec3F{}
	}

	projected := vmath.V3FScale(vmath.V3FNormalize(vmath.V3FProjectOnPlane(remaining, normal)), mag)
	if vmath.V3FMag(projected)+eps >= mag {
		return projected
	}

	projected = vmath.V3FScale(vmath.V3FNormalize(vmath.V3FProjectOnPlane(remaining, vmath.Up)), mag)
	if vmath.V3FDot(projected, normal) < 0 {
		return vmath.Vec3F{}
	}
	return projected
}
