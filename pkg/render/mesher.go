package render

import (
	"fmt"
	"sort"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/kernel"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
)

// maxRefDepth bounds recursion through nested references.
const maxRefDepth = 16

// Piece is one colored mesh of a placed part, in world coordinates.
type Piece struct {
	Color int          `json:"color"`
	Mesh  *kernel.Mesh `json:"mesh"`
}

// Mesher turns placed parts into triangle meshes. The local mesh of every
// library entry with primitives is built once and cached by key.
type Mesher struct {
	lib   partlib.Library
	k     kernel.Kernel
	cache *lru.Cache[string, *kernel.Mesh]
}

// NewMesher returns a mesher keeping up to size local meshes.
func NewMesher(lib partlib.Library, k kernel.Kernel, size int) (*Mesher, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, *kernel.Mesh](size)
	if err != nil {
		return nil, fmt.Errorf("render: mesh cache: %w", err)
	}
	return &Mesher{lib: lib, k: k, cache: cache}, nil
}

// Mesh returns the world-space pieces of p, one per library entry with
// primitives reached through p's references, colored with inheritance
// resolved.
func (m *Mesher) Mesh(p model.Part) ([]Piece, error) {
	var out []Piece
	if err := m.walk(p.Key, p.Transform, p.Color, 0, &out); err != nil {
		return nil, fmt.Errorf("render: mesh part %d (%s): %w", p.ID, p.Key, err)
	}
	return out, nil
}

func (m *Mesher) walk(key string, t geom.Matrix, color, depth int, out *[]Piece) error {
	if depth > maxRefDepth {
		return fmt.Errorf("reference depth exceeds %d at %q", maxRefDepth, key)
	}
	def, ok := m.lib.Resolve(key)
	if !ok {
		return fmt.Errorf("%w: %q", partlib.ErrUnknownPart, key)
	}
	local, err := m.local(def)
	if err != nil {
		return err
	}
	if local != nil {
		*out = append(*out, Piece{Color: color, Mesh: local.Transformed(t)})
	}
	for _, r := range def.Refs {
		if err := m.walk(r.Key, t.Mul(r.Transform), model.ResolveColor(r.Color, color), depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// local returns the cached part-space mesh of def's primitives, or nil
// when def has none.
func (m *Mesher) local(def partlib.Definition) (*kernel.Mesh, error) {
	if len(def.Primitives) == 0 {
		return nil, nil
	}
	if mesh, ok := m.cache.Get(def.Key); ok {
		return mesh, nil
	}

	var solid kernel.Solid
	for i, prim := range def.Primitives {
		s, err := m.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("%s primitive %d: %w", def.Key, i, err)
		}
		if solid == nil {
			solid = s
		} else {
			solid = m.k.Union(solid, s)
		}
	}
	mesh, err := m.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Key, err)
	}
	m.cache.Add(def.Key, mesh)
	return mesh, nil
}

func (m *Mesher) primitive(p partlib.Primitive) (kernel.Solid, error) {
	var (
		s   kernel.Solid
		err error
	)
	switch p.Shape {
	case partlib.ShapeBox:
		s, err = m.k.Box(p.Size)
	case partlib.ShapeCylinder:
		s, err = m.k.Cylinder(p.Height, p.Radius)
	default:
		return nil, fmt.Errorf("unknown shape %d", p.Shape)
	}
	if err != nil {
		return nil, err
	}
	return m.k.Translate(m.k.Rotate(s, p.Rotate), p.At), nil
}

// Invalidate drops the cached mesh of key, e.g. after a generated entry
// is redefined.
func (m *Mesher) Invalidate(key string) { m.cache.Remove(key) }

// Cached returns the number of cached local meshes.
func (m *Mesher) Cached() int { return m.cache.Len() }

// ByColor merges pieces sharing a color into one mesh each, in ascending
// color order.
func ByColor(pieces []Piece) []Piece {
	groups := lo.GroupBy(pieces, func(p Piece) int { return p.Color })
	colors := lo.Keys(groups)
	sort.Ints(colors)

	out := make([]Piece, 0, len(colors))
	for _, c := range colors {
		merged := &kernel.Mesh{}
		for _, p := range groups[c] {
			merged.Append(p.Mesh)
		}
		out = append(out, Piece{Color: c, Mesh: merged})
	}
	return out
}
