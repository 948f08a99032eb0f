// Package geom holds the small amount of 3D math the editor needs: an
// immutable 4x4 affine matrix, pick rays, and vector helpers on top of the
// sdfx v3.Vec type.
package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Matrix is a 4x4 affine transform stored row-major. Points are column
// vectors, so p' = M·p and a.Mul(b) applies b first, then a. It shares its
// layout with sdf.M44 and converts to it freely.
//
// Matrix is a value type. Every method returns a new Matrix and never
// mutates the receiver.
type Matrix sdf.M44

// Identity returns the identity transform.
func Identity() Matrix { return Matrix(sdf.Identity3d()) }

// Translation returns a pure translation by v.
func Translation(v v3.Vec) Matrix { return Matrix(sdf.Translate3d(v)) }

// Scaling returns a non-uniform scale along the three axes.
func Scaling(v v3.Vec) Matrix { return Matrix(sdf.Scale3d(v)) }

// RotationX returns a rotation of rad radians about the X axis.
func RotationX(rad float64) Matrix { return Matrix(sdf.RotateX(rad)) }

// RotationY returns a rotation of rad radians about the Y axis.
func RotationY(rad float64) Matrix { return Matrix(sdf.RotateY(rad)) }

// RotationZ returns a rotation of rad radians about the Z axis.
func RotationZ(rad float64) Matrix { return Matrix(sdf.RotateZ(rad)) }

// EulerDegrees builds Rz·Ry·Rx from angles given in degrees, the same order
// the geometry kernel uses for primitive rotation.
func EulerDegrees(deg v3.Vec) Matrix {
	return RotationZ(deg.Z * math.Pi / 180).
		Mul(RotationY(deg.Y * math.Pi / 180)).
		Mul(RotationX(deg.X * math.Pi / 180))
}

// AxisRotation returns a rotation of rad radians about axis through the
// origin. A zero-length axis yields the identity.
func AxisRotation(axis v3.Vec, rad float64) Matrix {
	if _, ok := Unit(axis); !ok {
		return Identity()
	}
	return Matrix(sdf.Rotate3d(axis, rad))
}

// RotationAround rotates by rad radians about the line through p1 and p2.
func RotationAround(p1, p2 v3.Vec, rad float64) Matrix {
	return Translation(p1).
		Mul(AxisRotation(p2.Sub(p1), rad)).
		Mul(Translation(p1.Neg()))
}

// Align returns the minimal rotation that turns direction from onto
// direction to. Parallel or zero-length inputs give the identity; opposite
// directions give a half turn about an axis perpendicular to from.
//
// sdf.RotateToVector answers opposite directions with -I, which mirrors
// the part instead of turning it.
func Align(from, to v3.Vec) Matrix {
	f, ok1 := Unit(from)
	t, ok2 := Unit(to)
	if !ok1 || !ok2 {
		return Identity()
	}
	d := f.Dot(t)
	if d >= 1-1e-12 {
		return Identity()
	}
	if d <= -1+1e-12 {
		axis := f.Cross(v3.Vec{X: 1})
		if axis.Length() < 1e-6 {
			axis = f.Cross(v3.Vec{Y: 1})
		}
		return AxisRotation(axis, math.Pi)
	}
	return AxisRotation(f.Cross(t), math.Acos(clamp(d, -1, 1)))
}

// Mul returns m·o: o is applied first, then m.
func (m Matrix) Mul(o Matrix) Matrix { return Matrix(sdf.M44(m).Mul(sdf.M44(o))) }

// Apply transforms a point.
func (m Matrix) Apply(p v3.Vec) v3.Vec { return sdf.M44(m).MulPosition(p) }

// ApplyVector transforms a direction, ignoring translation.
func (m Matrix) ApplyVector(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// Offset returns the translation part.
func (m Matrix) Offset() v3.Vec {
	return v3.Vec{X: m[3], Y: m[7], Z: m[11]}
}

// WithOffset returns m with its translation replaced by v.
func (m Matrix) WithOffset(v v3.Vec) Matrix {
	m[3], m[7], m[11] = v.X, v.Y, v.Z
	return m
}

// Rotation returns m with the translation removed.
func (m Matrix) Rotation() Matrix {
	return m.WithOffset(v3.Vec{})
}

// Inverse returns the inverse of an affine matrix. ok is false when the
// linear part is singular.
func (m Matrix) Inverse() (inv Matrix, ok bool) {
	a := sdf.M44(m)
	if math.Abs(a.Determinant()) < 1e-12 {
		return Identity(), false
	}
	return Matrix(a.Inverse()), true
}

// ApproxEqual reports whether every element differs by less than tol.
func (m Matrix) ApproxEqual(o Matrix, tol float64) bool {
	return sdf.M44(m).Equals(sdf.M44(o), tol)
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g | %g %g %g %g | %g %g %g %g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8], m[9], m[10], m[11])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
