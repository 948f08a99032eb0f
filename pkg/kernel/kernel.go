// Package kernel defines the solid modeling interface used to turn part
// primitives into display meshes. The sdfx subpackage is the backend.
package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounds.
	BoundingBox() (min, max v3.Vec)
}

// Kernel builds solids from primitives and meshes them.
type Kernel interface {
	// Box is centered on the origin.
	Box(size v3.Vec) (Solid, error)
	// Cylinder is centered on the origin with its axis along Y.
	Cylinder(height, radius float64) (Solid, error)

	Union(a, b Solid) Solid

	Translate(s Solid, v v3.Vec) Solid
	// Rotate applies Euler angles in degrees, X first, then Y, then Z.
	Rotate(s Solid, deg v3.Vec) Solid

	ToMesh(s Solid) (*Mesh, error)
}
