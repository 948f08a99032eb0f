// Package model holds placed parts and the ordered model that owns them.
package model

import (
	"fmt"
	"sync/atomic"

	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Part is a placed occurrence of a part-library entry.
//
// Part has value semantics: the With* methods return a modified copy that
// keeps the same ID, and the Model replaces the old value. Parts are
// comparable with ==.
type Part struct {
	ID        int
	Key       string
	Color     int
	Transform geom.Matrix
	Step      int
}

var lastID atomic.Int64

// NewID returns a process-unique part id. Ids start at 1; 0 means "no part".
func NewID() int {
	return int(lastID.Add(1))
}

// New creates a part with a fresh id at step 1.
func New(key string, color int, t geom.Matrix) Part {
	return Part{ID: NewID(), Key: key, Color: color, Transform: t, Step: 1}
}

// Clone returns a copy of p under a fresh id.
func (p Part) Clone() Part {
	p.ID = NewID()
	return p
}

// WithColor returns p recolored.
func (p Part) WithColor(c int) Part {
	p.Color = c
	return p
}

// WithTransform returns p with its transform replaced.
func (p Part) WithTransform(t geom.Matrix) Part {
	p.Transform = t
	return p
}

// MoveTo returns p with its translation set to v and its rotation kept.
func (p Part) MoveTo(v v3.Vec) Part {
	p.Transform = p.Transform.WithOffset(v)
	return p
}

// Transformed returns p with m applied after its current transform.
func (p Part) Transformed(m geom.Matrix) Part {
	p.Transform = m.Mul(p.Transform)
	return p
}

// WithStep returns p assigned to build step s.
func (p Part) WithStep(s int) Part {
	p.Step = s
	return p
}

// Offset is the part's position.
func (p Part) Offset() v3.Vec {
	return p.Transform.Offset()
}

func (p Part) String() string {
	o := p.Offset()
	return fmt.Sprintf("part#%d %s color=%d step=%d at (%g,%g,%g)",
		p.ID, p.Key, p.Color, p.Step, o.X, o.Y, o.Z)
}
