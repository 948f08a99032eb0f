package kernel

import (
	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a flat triangle mesh ready for upload to a renderer: three floats
// per vertex, three floats per normal, three indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Append adds o's triangles to m, rebasing o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Transformed returns a copy of m with every vertex moved by t. Normals
// go through the inverse transpose so stretched parts still shade right.
func (m *Mesh) Transformed(t geom.Matrix) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		p := t.Apply(v3.Vec{X: float64(m.Vertices[i]), Y: float64(m.Vertices[i+1]), Z: float64(m.Vertices[i+2])})
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(p.X), float32(p.Y), float32(p.Z)
	}

	inv, ok := t.Inverse()
	if !ok {
		inv = geom.Identity()
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := v3.Vec{X: float64(m.Normals[i]), Y: float64(m.Normals[i+1]), Z: float64(m.Normals[i+2])}
		// Multiply by the transpose of the inverse.
		r := v3.Vec{
			X: inv[0]*n.X + inv[4]*n.Y + inv[8]*n.Z,
			Y: inv[1]*n.X + inv[5]*n.Y + inv[9]*n.Z,
			Z: inv[2]*n.X + inv[6]*n.Y + inv[10]*n.Z,
		}
		if u, ok := geom.Unit(r); ok {
			r = u
		}
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(r.X), float32(r.Y), float32(r.Z)
	}
	return out
}

// Bounds returns the axis-aligned bounds of the vertices. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (min, max v3.Vec, ok bool) {
	if m.IsEmpty() {
		return min, max, false
	}
	min = v3.Vec{X: float64(m.Vertices[0]), Y: float64(m.Vertices[1]), Z: float64(m.Vertices[2])}
	max = min
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		p := v3.Vec{X: float64(m.Vertices[i]), Y: float64(m.Vertices[i+1]), Z: float64(m.Vertices[i+2])}
		min = v3.Vec{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = v3.Vec{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	return min, max, true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
