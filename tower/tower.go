// Package tower projects positions onto the cylindrical world surface
package tower

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Curvature describes the world surface for one tick
// Wrap false means a flat world and projection is the identity
type Curvature struct {
	Radius float64
	Wrap   bool
}

// Valid reports whether c can be used for projection
func (c Curvature) Valid() bool {
	if !c.Wrap {
		return true
	}
	return c.Radius > 0 && vmath.IsFinite(c.Radius)
}

// Project keeps the height of p and moves it horizontally onto the circle of the given radius
// A point on the axis has no horizontal direction and lands on the axis
func Project(p vmath.Vec3F, radius float64) vmath.Vec3F {
	flat := vmath.V3FScale(vmath.V3FNormalize(vmath.V3FFlatten(p)), radius)
	flat.Y = p.Y
	return flat
}

// Apply projects p when c wraps, otherwise returns p unchanged
func (c Curvature) Apply(p vmath.Vec3F) vmath.Vec3F {
	if !c.Wrap {
		return p
	}
	return Project(p, c.Radius)
}

// Radial is the unit horizontal direction from the axis to p
func Radial(p vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FNormalize(vmath.V3FFlatten(p))
}

// Tangent is the unit direction of travel around the tower at p
func Tangent(p vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FNormalize(vmath.V3FCross(Radial(p), vmath.Up))
}

// ArcAngle returns the unsigned horizontal angle in radians between a and b around the axis
func ArcAngle(a, b vmath.Vec3F) float64 {
	ra, rb := Radial(a), Radial(b)
	if ra == (vmath.Vec3F{}) || rb == (vmath.Vec3F{}) {
		return 0
	}
	return math.Acos(vmath.Clamp(vmath.V3FDot(ra, rb), -1, 1))
}

// ArcLength is the distance around the circumference for angle radians
func ArcLength(radius, angle float64) float64 {
	return radius * angle
}
