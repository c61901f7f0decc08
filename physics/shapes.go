package physics

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Shape is a static solid primitive
// Sweeps take the capsule as its bottom/top sphere centers and radius; dir is unit length
type Shape interface {
	sweepCapsule(bottom, top vmath.Vec3F, radius float64, dir vmath.Vec3F, maxDist float64) (Hit, bool)
	raycast(origin, dir vmath.Vec3F, maxDist float64) (Hit, bool)
	Contains(p vmath.Vec3F) bool
	translated(d vmath.Vec3F) Shape
}

// Plane is the half-space dot(Normal, x) <= Offset; Normal must be unit length
type Plane struct {
	Normal vmath.Vec3F
	Offset float64
}

// PlaneThrough builds a plane with the given normal passing through point
func PlaneThrough(normal, point vmath.Vec3F) Plane {
	n := vmath.V3FNormalize(normal)
	return Plane{Normal: n, Offset: vmath.V3FDot(n, point)}
}

func (p Plane) Contains(pt vmath.Vec3F) bool {
	return vmath.V3FDot(p.Normal, pt) <= p.Offset
}

func (p Plane) translated(d vmath.Vec3F) Shape {
	p.Offset += vmath.V3FDot(p.Normal, d)
	return p
}

func (p Plane) sweepCapsule(bottom, top vmath.Vec3F, radius float64, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	// Deepest end sphere leads
	lead := bottom
	if vmath.V3FDot(p.Normal, top) < vmath.V3FDot(p.Normal, bottom) {
		lead = top
	}
	gap := vmath.V3FDot(p.Normal, lead) - p.Offset - radius

	t := 0.0
	if gap > 0 {
		denom := vmath.V3FDot(p.Normal, dir)
		if denom >= -parallelEpsilon {
			return Hit{}, false
		}
		t = gap / -denom
		if t > maxDist {
			return Hit{}, false
		}
	}

	contact := vmath.V3FAddScaled(vmath.V3FAddScaled(lead, dir, t), p.Normal, -radius)
	return Hit{Point: contact, Normal: p.Normal, Distance: t}, true
}

func (p Plane) raycast(origin, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	s := vmath.V3FDot(p.Normal, origin) - p.Offset
	if s < 0 {
		return Hit{}, false
	}
	denom := vmath.V3FDot(p.Normal, dir)
	if denom >= -parallelEpsilon {
		return Hit{}, false
	}
	t := s / -denom
	if t > maxDist {
		return Hit{}, false
	}
	return Hit{Point: vmath.V3FAddScaled(origin, dir, t), Normal: p.Normal, Distance: t}, true
}

// Sphere is a solid ball
type Sphere struct {
	Center vmath.Vec3F
	Radius float64
}

func (s Sphere) translated(d vmath.Vec3F) Shape {
	s.Center = vmath.V3FAdd(s.Center, d)
	return s
}

func (s Sphere) Contains(pt vmath.Vec3F) bool {
	return vmath.V3FMagSq(vmath.V3FSub(pt, s.Center)) <= s.Radius*s.Radius
}

func (s Sphere) sweepCapsule(bottom, top vmath.Vec3F, radius float64, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	// Minkowski: sphere center travels backwards into a capsule of summed radius
	t, ok := rayCapsule(s.Center, vmath.V3FNeg(dir), bottom, top, radius+s.Radius)
	if !ok || t > maxDist {
		return Hit{}, false
	}

	a := vmath.V3FAddScaled(bottom, dir, t)
	b := vmath.V3FAddScaled(top, dir, t)
	normal := vmath.V3FNormalize(vmath.V3FSub(closestOnSegment(s.Center, a, b), s.Center))
	if normal == (vmath.Vec3F{}) {
		normal = vmath.V3FNeg(dir)
	}
	return Hit{
		Point:    vmath.V3FAddScaled(s.Center, normal, s.Radius),
		Normal:   normal,
		Distance: t,
	}, true
}

func (s Sphere) raycast(origin, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	if s.Contains(origin) {
		return Hit{}, false
	}
	t, ok := raySphere(origin, dir, s.Center, s.Radius)
	if !ok || t > maxDist {
		return Hit{}, false
	}
	p := vmath.V3FAddScaled(origin, dir, t)
	return Hit{Point: p, Normal: vmath.V3FNormalize(vmath.V3FSub(p, s.Center)), Distance: t}, true
}

// Box is an axis-aligned solid box
type Box struct {
	Min, Max vmath.Vec3F
}

// BoxAt builds a box from center and half extents
func BoxAt(center, half vmath.Vec3F) Box {
	return Box{Min: vmath.V3FSub(center, half), Max: vmath.V3FAdd(center, half)}
}

func (b Box) translated(d vmath.Vec3F) Shape {
	b.Min, b.Max = vmath.V3FAdd(b.Min, d), vmath.V3FAdd(b.Max, d)
	return b
}

func (b Box) Contains(pt vmath.Vec3F) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X &&
		pt.Y >= b.Min.Y && pt.Y <= b.Max.Y &&
		pt.Z >= b.Min.Z && pt.Z <= b.Max.Z
}

func (b Box) closest(pt vmath.Vec3F) vmath.Vec3F {
	return vmath.Vec3F{
		X: vmath.Clamp(pt.X, b.Min.X, b.Max.X),
		Y: vmath.Clamp(pt.Y, b.Min.Y, b.Max.Y),
		Z: vmath.Clamp(pt.Z, b.Min.Z, b.Max.Z),
	}
}

// sweepCapsule is exact: an upright capsule against an AABB reduces to a sphere
// against the box stretched vertically by the capsule's half segment
func (b Box) sweepCapsule(bottom, top vmath.Vec3F, radius float64, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	half := (top.Y - bottom.Y) / 2
	center := vmath.V3FLerp(bottom, top, 0.5)
	ext := Box{
		Min: vmath.Vec3F{X: b.Min.X, Y: b.Min.Y - half, Z: b.Min.Z},
		Max: vmath.Vec3F{X: b.Max.X, Y: b.Max.Y + half, Z: b.Max.Z},
	}

	t, ok := ext.rayRounded(center, dir, radius)
	if !ok || t > maxDist {
		return Hit{}, false
	}

	c := vmath.V3FAddScaled(center, dir, t)
	q := ext.closest(c)
	normal := vmath.V3FNormalize(vmath.V3FSub(c, q))
	if normal == (vmath.Vec3F{}) {
		normal = vmath.V3FNeg(dir)
	}
	q.Y = vmath.Clamp(q.Y, b.Min.Y, b.Max.Y)
	return Hit{Point: q, Normal: normal, Distance: t}, true
}

// rayRounded intersects a ray with the box inflated by r (rounded edges and corners)
func (b Box) rayRounded(o, d vmath.Vec3F, r float64) (float64, bool) {
	if vmath.V3FMagSq(vmath.V3FSub(o, b.closest(o))) <= r*r {
		return 0, true
	}

	best := math.Inf(1)

	// Face slabs, each inflated along one axis
	for axis := 0; axis < 3; axis++ {
		grow := axisVector(axis, r)
		if t, _, ok := rayBox(o, d, vmath.V3FSub(b.Min, grow), vmath.V3FAdd(b.Max, grow)); ok && t < best {
			best = t
		}
	}

	// Edge capsules cover edges and corners
	for _, e := range b.edges() {
		if t, ok := rayCapsule(o, d, e[0], e[1], r); ok && t < best {
			best = t
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

func (b Box) edges() [12][2]vmath.Vec3F {
	lo, hi := b.Min, b.Max
	c := [8]vmath.Vec3F{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z}, {X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z}, {X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	return [12][2]vmath.Vec3F{
		{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]},
		{c[4], c[5]}, {c[5], c[6]}, {c[6], c[7]}, {c[7], c[4]},
		{c[0], c[4]}, {c[1], c[5]}, {c[2], c[6]}, {c[3], c[7]},
	}
}

func (b Box) raycast(origin, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	if b.Contains(origin) {
		return Hit{}, false
	}
	t, normal, ok := rayBox(origin, dir, b.Min, b.Max)
	if !ok || t > maxDist {
		return Hit{}, false
	}
	return Hit{Point: vmath.V3FAddScaled(origin, dir, t), Normal: normal, Distance: t}, true
}

// Cylinder is a solid vertical cylinder standing on Base
type Cylinder struct {
	Base   vmath.Vec3F
	Radius float64
	Height float64
}

func (c Cylinder) translated(d vmath.Vec3F) Shape {
	c.Base = vmath.V3FAdd(c.Base, d)
	return c
}

func (c Cylinder) Contains(pt vmath.Vec3F) bool {
	dx, dz := pt.X-c.Base.X, pt.Z-c.Base.Z
	return dx*dx+dz*dz <= c.Radius*c.Radius && pt.Y >= c.Base.Y && pt.Y <= c.Base.Y+c.Height
}

func closestOnCylinder(pt vmath.Vec3F, cx, cz, r, y0, y1 float64) vmath.Vec3F {
	dx, dz := pt.X-cx, pt.Z-cz
	if d := math.Sqrt(dx*dx + dz*dz); d > r {
		dx, dz = dx/d*r, dz/d*r
	}
	return vmath.Vec3F{X: cx + dx, Y: vmath.Clamp(pt.Y, y0, y1), Z: cz + dz}
}

// sweepCapsule is exact on the lateral surface and caps; the rounded rim is
// approximated by the union of the radially and vertically inflated cylinders
func (c Cylinder) sweepCapsule(bottom, top vmath.Vec3F, radius float64, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	half := (top.Y - bottom.Y) / 2
	center := vmath.V3FLerp(bottom, top, 0.5)
	y0 := c.Base.Y - half
	y1 := c.Base.Y + c.Height + half

	q := closestOnCylinder(center, c.Base.X, c.Base.Z, c.Radius, y0, y1)
	t := 0.0
	if vmath.V3FMagSq(vmath.V3FSub(center, q)) > radius*radius {
		best := math.Inf(1)
		if tw, _, ok := rayVerticalCylinder(center, dir, c.Base.X, c.Base.Z, c.Radius+radius, y0, y1); ok {
			best = tw
		}
		if tt, _, ok := rayVerticalCylinder(center, dir, c.Base.X, c.Base.Z, c.Radius, y0-radius, y1+radius); ok && tt < best {
			best = tt
		}
		if math.IsInf(best, 1) || best > maxDist {
			return Hit{}, false
		}
		t = best
	}

	moved := vmath.V3FAddScaled(center, dir, t)
	q = closestOnCylinder(moved, c.Base.X, c.Base.Z, c.Radius, y0, y1)
	normal := vmath.V3FNormalize(vmath.V3FSub(moved, q))
	if normal == (vmath.Vec3F{}) {
		normal = vmath.V3FNeg(dir)
	}
	q.Y = vmath.Clamp(q.Y, c.Base.Y, c.Base.Y+c.Height)
	return Hit{Point: q, Normal: normal, Distance: t}, true
}

func (c Cylinder) raycast(origin, dir vmath.Vec3F, maxDist float64) (Hit, bool) {
	if c.Contains(origin) {
		return Hit{}, false
	}
	t, normal, ok := rayVerticalCylinder(origin, dir, c.Base.X, c.Base.Z, c.Radius, c.Base.Y, c.Base.Y+c.Height)
	if !ok || t > maxDist {
		return Hit{}, false
	}
	return Hit{Point: vmath.V3FAddScaled(origin, dir, t), Normal: normal, Distance: t}, true
}
