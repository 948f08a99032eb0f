// Package partlib describes part-library entries and provides an in-memory
// catalog of them.
//
// The editor only needs to resolve a key to its primitives, connectors and
// child references, and to register parts it generates itself (flexible
// parts, saved blocks, clipboard scratch). Where the entries come from is up
// to the host.
package partlib

import (
	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind classifies a library entry.
type Kind int

const (
	// KindPart is a leaf part from the official library.
	KindPart Kind = iota
	// KindSubmodel is a user-authored assembly of references.
	KindSubmodel
	// KindGenerated is produced by the editor (flex parts, saved blocks).
	KindGenerated
	// KindInternal is editor scratch (clipboard, drag).
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindPart:
		return "part"
	case KindSubmodel:
		return "submodel"
	case KindGenerated:
		return "generated"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Shape is a primitive solid.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
)

// Primitive is one solid making up a part. Boxes are centered on At;
// cylinders are centered on At with their axis along Z before Rotate
// (Euler degrees) is applied.
type Primitive struct {
	Shape  Shape
	Size   v3.Vec
	Radius float64
	Height float64
	At     v3.Vec
	Rotate v3.Vec
}

// Reference places another library entry inside a composite.
type Reference struct {
	Key       string
	Color     int
	Transform geom.Matrix
}

// Connector is a typed attachment locus in part-local coordinates.
type Connector struct {
	Type string
	P1   v3.Vec
	P2   v3.Vec
}

// Transformed returns c with both points moved by m.
func (c Connector) Transformed(m geom.Matrix) Connector {
	c.P1 = m.Apply(c.P1)
	c.P2 = m.Apply(c.P2)
	return c
}

// Definition is a resolved library entry.
type Definition struct {
	Key         string
	Description string
	Kind        Kind
	Primitives  []Primitive
	Refs        []Reference
	Connectors  []Connector
}

// Composite reports whether the entry references other entries.
func (d Definition) Composite() bool {
	return len(d.Refs) > 0
}

// Explodable reports whether a placed instance of d can be replaced by its
// references. Leaf library parts never explode, even when they are built
// from sub-references.
func (d Definition) Explodable() bool {
	return d.Kind != KindPart && d.Composite()
}

// Segment is a directed pair of points, used for flex start/end/middle
// vectors and constraint points.
type Segment struct {
	P1 v3.Vec
	P2 v3.Vec
}

// Direction returns P2 - P1.
func (s Segment) Direction() v3.Vec {
	return s.P2.Sub(s.P1)
}

// Length returns |P2 - P1|.
func (s Segment) Length() float64 {
	return s.Direction().Length()
}

// Transformed returns s with both points moved by m.
func (s Segment) Transformed(m geom.Matrix) Segment {
	return Segment{P1: m.Apply(s.P1), P2: m.Apply(s.P2)}
}

// FlexPart describes a flexible part: a head and a tail joined by a chain of
// middle segments fitted along a curve.
type FlexPart struct {
	Key         string
	Description string
	Head        string
	Tail        string
	Mid         string

	// Start is the head's attachment vector and End the tail's, both in the
	// local frame of their part, pointing from the attachment point into the
	// flexible body. MidVector is the middle segment's reference axis.
	Start     Segment
	End       Segment
	MidVector Segment

	Rigidity   float64 // Bezier handle length as a fraction of the chord
	MaxLength  float64 // 0 means "use the head to tail distance"
	Overlap    float64
	Continuous bool
}

// Family groups connection types by geometry.
type Family int

const (
	FamilyPoint Family = iota
	FamilyRail
	FamilyVector
)

func (f Family) String() string {
	switch f {
	case FamilyPoint:
		return "point"
	case FamilyRail:
		return "rail"
	case FamilyVector:
		return "vector"
	}
	return "unknown"
}

// ConnType is a named connection type and the type it mates with.
type ConnType struct {
	Name   string
	Family Family
	Mate   string
}

// Compatible reports whether connectors of types a and b can join.
func Compatible(a, b ConnType) bool {
	return (a.Mate != "" && a.Mate == b.Name) || (b.Mate != "" && b.Mate == a.Name)
}

// Library resolves part keys. Implementations must be safe for concurrent
// readers because the render task resolves parts off the dispatch loop.
type Library interface {
	Resolve(key string) (Definition, bool)
	Exists(key string) bool
	RegisterGenerated(def Definition) error
	Flex(key string) (FlexPart, bool)
	ConnType(name string) (ConnType, bool)
}
