// Package workplane is the editing grid: the plane the pointer moves on when
// it is not over a part, the snap pitch for positions on it, and the
// pointer orientation applied to parts being placed.
package workplane

import (
	"math"

	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is the working grid. The zero value is not usable; call New.
//
// The grid lies in the local XZ plane of its matrix, so its normal is the
// matrix's local Y axis.
type Plane struct {
	grid     geom.Matrix
	pointer  geom.Matrix
	snap     float64
	snapping bool
	position v3.Vec
}

// New returns a plane through the origin with normal +Y.
func New(snap float64, snapping bool) *Plane {
	return &Plane{
		grid:     geom.Identity(),
		pointer:  geom.Identity(),
		snap:     snap,
		snapping: snapping,
	}
}

// SetSnap changes the snap pitch and whether snapping applies at all.
func (p *Plane) SetSnap(pitch float64, enabled bool) {
	p.snap = pitch
	p.snapping = enabled
}

// Snapping reports whether positions are quantized.
func (p *Plane) Snapping() bool { return p.snapping && p.snap > 0 }

// Normal returns the grid normal in world space.
func (p *Plane) Normal() v3.Vec {
	return p.grid.ApplyVector(v3.Vec{Y: 1})
}

// Intersect projects ray onto the grid. The hit is snapped when snapping
// is on and becomes the current position. ok is false when the ray runs
// parallel to the grid; the position is left alone then.
func (p *Plane) Intersect(ray geom.Ray) (v3.Vec, bool) {
	hit, ok := ray.PlaneIntersect(p.grid.Offset(), p.Normal())
	if !ok {
		return p.position, false
	}
	p.position = p.Quantize(hit)
	return p.position, true
}

// Quantize snaps a world point to the grid lattice when snapping is on.
// The lattice follows the grid's own axes and origin.
func (p *Plane) Quantize(v v3.Vec) v3.Vec {
	if !p.Snapping() {
		return v
	}
	inv, ok := p.grid.Inverse()
	if !ok {
		return geom.Quantize(v, p.snap)
	}
	return p.grid.Apply(geom.Quantize(inv.Apply(v), p.snap))
}

// Position returns the last pointer position.
func (p *Plane) Position() v3.Vec { return p.position }

// MoveTo sets the pointer position without snapping.
func (p *Plane) MoveTo(v v3.Vec) { p.position = v }

// ---------------------------------------------------------------------------
// Pointer orientation
// ---------------------------------------------------------------------------

// Matrix returns the orientation for parts placed on the grid: the grid's
// rotation followed by the pointer's own. It carries no translation.
func (p *Plane) Matrix() geom.Matrix {
	return p.grid.Rotation().Mul(p.pointer)
}

// SetMatrix replaces the pointer orientation with the rotation part of m.
func (p *Plane) SetMatrix(m geom.Matrix) {
	p.pointer = m.Rotation()
}

// ResetMatrix clears the pointer orientation.
func (p *Plane) ResetMatrix() {
	p.pointer = geom.Identity()
}

// RotateX turns the pointer about the X axis.
func (p *Plane) RotateX(rad float64) {
	p.pointer = geom.RotationX(rad).Mul(p.pointer)
}

// RotateY turns the pointer about the Y axis.
func (p *Plane) RotateY(rad float64) {
	p.pointer = geom.RotationY(rad).Mul(p.pointer)
}

// ---------------------------------------------------------------------------
// Grid placement
// ---------------------------------------------------------------------------

// GridMatrix returns the grid placement.
func (p *Plane) GridMatrix() geom.Matrix { return p.grid }

// SetGrid places the grid at m, dropping any scale.
func (p *Plane) SetGrid(m geom.Matrix) {
	p.grid = orthonormal(m)
}

// ResetGrid puts the grid back through the origin with normal +Y.
func (p *Plane) ResetGrid() {
	p.grid = geom.Identity()
}

// Shift moves the grid along one of its own axes by steps snap pitches.
func (p *Plane) Shift(axis v3.Vec, steps int) {
	pitch := p.snap
	if pitch <= 0 {
		pitch = 1
	}
	d := p.grid.ApplyVector(axis).MulScalar(float64(steps) * pitch)
	p.grid = p.grid.WithOffset(p.grid.Offset().Add(d))
}

// AlignXZ lays the grid flat (normal +Y), keeping its origin.
func (p *Plane) AlignXZ() { p.grid = geom.Identity().WithOffset(p.grid.Offset()) }

// AlignXY stands the grid up facing +Z, keeping its origin.
func (p *Plane) AlignXY() { p.grid = geom.RotationX(math.Pi / 2).WithOffset(p.grid.Offset()) }

// AlignYZ stands the grid up facing +X, keeping its origin.
func (p *Plane) AlignYZ() { p.grid = geom.RotationZ(-math.Pi / 2).WithOffset(p.grid.Offset()) }

// AlignTo places the grid on a part transform so new parts land relative
// to it.
func (p *Plane) AlignTo(m geom.Matrix) { p.SetGrid(m) }

// orthonormal strips scale from m by normalizing its basis columns.
func orthonormal(m geom.Matrix) geom.Matrix {
	x, okx := geom.Unit(m.ApplyVector(v3.Vec{X: 1}))
	y, oky := geom.Unit(m.ApplyVector(v3.Vec{Y: 1}))
	if !okx || !oky {
		return geom.Identity().WithOffset(m.Offset())
	}
	z := x.Cross(y)
	o := m.Offset()
	return geom.Matrix{
		x.X, y.X, z.X, o.X,
		x.Y, y.Y, z.Y, o.Y,
		x.Z, y.Z, z.Z, o.Z,
		0, 0, 0, 1,
	}
}
