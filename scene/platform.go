package scene

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Platform shuttles a collider between its start position and start+Offset
// One round trip takes Period seconds, eased in and out at both ends
type Platform struct {
	Collider physics.ColliderID
	Offset   vmath.Vec3F
	Period   float64

	elapsed float64
	applied vmath.Vec3F // Displacement from the start position
}

// displacement at time t along the shuttle path
func (p *Platform) displacement(t float64) vmath.Vec3F {
	if p.Period <= 0 {
		return vmath.Vec3F{}
	}
	phase := 0.5 - 0.5*math.Cos(2*math.Pi*t/p.Period)
	return vmath.V3FScale(p.Offset, phase)
}

// Advance moves every platform forward by dt seconds
// World motion is cleared first so it reports only this step's movement
func (s *Scene) Advance(dt float64) {
	s.World.ClearMotion()
	for i := range s.Platforms {
		p := &s.Platforms[i]
		p.elapsed += dt
		next := p.displacement(p.elapsed)
		s.World.Translate(p.Collider, vmath.V3FSub(next, p.applied))
		p.applied = next
	}
}
