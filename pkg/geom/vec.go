package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Unit returns v scaled to length 1. ok is false for a zero-length vector,
// in which case the zero vector is returned.
func Unit(v v3.Vec) (u v3.Vec, ok bool) {
	l := v.Length()
	if l < 1e-12 {
		return v3.Vec{}, false
	}
	return v.MulScalar(1 / l), true
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b v3.Vec) float64 {
	return a.Sub(b).Length()
}

// Near reports whether a and b differ by less than tol on every axis.
func Near(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) < tol &&
		math.Abs(a.Y-b.Y) < tol &&
		math.Abs(a.Z-b.Z) < tol
}

// Quantize rounds each coordinate independently to the nearest multiple of
// pitch. A non-positive pitch returns v unchanged.
func Quantize(v v3.Vec, pitch float64) v3.Vec {
	if pitch <= 0 {
		return v
	}
	return v3.Vec{
		X: math.Round(v.X/pitch) * pitch,
		Y: math.Round(v.Y/pitch) * pitch,
		Z: math.Round(v.Z/pitch) * pitch,
	}
}

// Centroid returns the mean of pts, or the origin for an empty slice.
func Centroid(pts []v3.Vec) v3.Vec {
	if len(pts) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(pts)))
}

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
