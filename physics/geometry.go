package physics

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

const parallelEpsilon = 1e-12

// closestOnSegment returns the point on [a,b] closest to p
func closestOnSegment(p, a, b vmath.Vec3F) vmath.Vec3F {
	ab := vmath.V3FSub(b, a)
	abab := vmath.V3FMagSq(ab)
	if abab < parallelEpsilon {
		return a
	}
	t := vmath.Clamp01(vmath.V3FDot(vmath.V3FSub(p, a), ab) / abab)
	return vmath.V3FAddScaled(a, ab, t)
}

// raySphere returns the entry distance of a unit ray into a sphere
// Origin inside returns 0
func raySphere(o, d, c vmath.Vec3F, r float64) (float64, bool) {
	oc := vmath.V3FSub(o, c)
	b := vmath.V3FDot(oc, d)
	cc := vmath.V3FMagSq(oc) - r*r
	if cc <= 0 {
		return 0, true
	}
	h := b*b - cc
	if h < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(h)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rayCapsule returns the entry distance of a unit ray into the capsule [a,b] of radius r
// Origin inside returns 0
func rayCapsule(o, d, a, b vmath.Vec3F, r float64) (float64, bool) {
	if vmath.V3FMagSq(vmath.V3FSub(o, closestOnSegment(o, a, b))) <= r*r {
		return 0, true
	}

	best := math.Inf(1)

	// Cylindrical body
	ba := vmath.V3FSub(b, a)
	baba := vmath.V3FMagSq(ba)
	if baba > parallelEpsilon {
		oa := vmath.V3FSub(o, a)
		bard := vmath.V3FDot(ba, d)
		baoa := vmath.V3FDot(ba, oa)
		rdoa := vmath.V3FDot(d, oa)
		oaoa := vmath.V3FMagSq(oa)

		qa := baba - bard*bard
		if qa > parallelEpsilon {
			qb := baba*rdoa - baoa*bard
			qc := baba*oaoa - baoa*baoa - r*r*baba
			h := qb*qb - qa*qc
			if h >= 0 {
				t := (-qb - math.Sqrt(h)) / qa
				y := baoa + t*bard
				if t >= 0 && y > 0 && y < baba {
					best = t
				}
			}
		}
	}

	// End caps
	if t, ok := raySphere(o, d, a, r); ok && t < best {
		best = t
	}
	if t, ok := raySphere(o, d, b, r); ok && t < best {
		best = t
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// rayBox is the slab test against an axis-aligned box
// Returns entry distance and entry face normal; origin inside returns 0 with zero normal
func rayBox(o, d, min, max vmath.Vec3F) (float64, vmath.Vec3F, bool) {
	tEnter := math.Inf(-1)
	tExit := math.Inf(1)
	var normal vmath.Vec3F

	oa := [3]float64{o.X, o.Y, o.Z}
	da := [3]float64{d.X, d.Y, d.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(da[i]) < parallelEpsilon {
			if oa[i] < lo[i] || oa[i] > hi[i] {
				return 0, vmath.Vec3F{}, false
			}
			continue
		}
		inv := 1 / da[i]
		t0 := (lo[i] - oa[i]) * inv
		t1 := (hi[i] - oa[i]) * inv
		sign := -1.0
		if t0 > t1 {
			t0, t1 = t1, t0
			sign = 1
		}
		if t0 > tEnter {
			tEnter = t0
			normal = axisVector(i, sign)
		}
		if t1 < tExit {
			tExit = t1
		}
		if tEnter > tExit {
			return 0, vmath.Vec3F{}, false
		}
	}

	if tExit < 0 {
		return 0, vmath.Vec3F{}, false
	}
	if tEnter <= 0 {
		return 0, vmath.Vec3F{}, true
	}
	return tEnter, normal, true
}

// rayVerticalCylinder returns entry distance and normal for a capped vertical cylinder
// Origin inside returns 0 with zero normal
func rayVerticalCylinder(o, d vmath.Vec3F, cx, cz, r, y0, y1 float64) (float64, vmath.Vec3F, bool) {
	ox, oz := o.X-cx, o.Z-cz
	if ox*ox+oz*oz <= r*r && o.Y >= y0 && o.Y <= y1 {
		return 0, vmath.Vec3F{}, true
	}

	best := math.Inf(1)
	var normal vmath.Vec3F

	// Lateral surface
	qa := d.X*d.X + d.Z*d.Z
	if qa > parallelEpsilon {
		qb := ox*d.X + oz*d.Z
		qc := ox*ox + oz*oz - r*r
		h := qb*qb - qa*qc
		if h >= 0 {
			t := (-qb - math.Sqrt(h)) / qa
			y := o.Y + d.Y*t
			if t >= 0 && y >= y0 && y <= y1 {
				best = t
				normal = vmath.V3FNormalize(vmath.Vec3F{X: ox + d.X*t, Z: oz + d.Z*t})
			}
		}
	}

	// Caps
	if math.Abs(d.Y) > parallelEpsilon {
		for _, lid := range [2]struct {
			y float64
			n vmath.Vec3F
		}{{y0, vmath.Down}, {y1, vmath.Up}} {
			t := (lid.y - o.Y) / d.Y
			if t < 0 || t >= best {
				continue
			}
			px, pz := ox+d.X*t, oz+d.Z*t
			if px*px+pz*pz <= r*r && vmath.V3FDot(d, lid.n) < 0 {
				best = t
				normal = lid.n
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, vmath.Vec3F{}, false
	}
	return best, normal, true
}

func axisVector(axis int, sign float64) vmath.Vec3F {
	switch axis {
	case 0:
		return vmath.Vec3F{X: sign}
	case 1:
		return vmath.Vec3F{Y: sign}
	default:
		return vmath.Vec3F{Z: sign}
	}
}
