package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Ray is a pick ray from the eye, given by a near and a far point.
type Ray struct {
	Near v3.Vec
	Far  v3.Vec
}

// Direction returns Far - Near (not normalized).
func (r Ray) Direction() v3.Vec {
	return r.Far.Sub(r.Near)
}

// DistanceTo returns the perpendicular distance from p to the infinite line
// through the ray. A degenerate ray measures from Near.
func (r Ray) DistanceTo(p v3.Vec) float64 {
	d := r.Direction()
	l := d.Length()
	if l < 1e-12 {
		return Dist(p, r.Near)
	}
	return p.Sub(r.Near).Cross(d).Length() / l
}

// PlaneIntersect intersects the ray's line with the plane through origin
// with the given normal. ok is false when the ray is parallel to the plane.
func (r Ray) PlaneIntersect(origin, normal v3.Vec) (p v3.Vec, ok bool) {
	d := r.Direction()
	denom := normal.Dot(d)
	if math.Abs(denom) < 1e-9 {
		return v3.Vec{}, false
	}
	t := normal.Dot(origin.Sub(r.Near)) / denom
	return r.Near.Add(d.MulScalar(t)), true
}

// Vertical returns a ray looking straight along +Y through p, which is
// "down" in brick coordinates. Scripts and tests use it to aim at a point.
func Vertical(p v3.Vec) Ray {
	return Ray{
		Near: p.Add(v3.Vec{Y: -1000}),
		Far:  p.Add(v3.Vec{Y: 1000}),
	}
}
