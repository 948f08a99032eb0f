package tool

import (
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/gdamore/tcell/v2"
)

// Duplicate copies a clicked part. The first click picks the source, the
// copy then follows the pointer in the source's orientation until the
// second click places it.
type Duplicate struct {
	nop
	selecting bool
	g         ghost
}

func (*Duplicate) Name() string { return "dup" }

func (d *Duplicate) Start(h Host, params ...any) error {
	if err := arity("dup", params, 0); err != nil {
		return err
	}
	h.Pointer().ResetMatrix()
	d.selecting = true
	return nil
}

func (d *Duplicate) Reset(h Host) {
	d.g.drop(h)
	d.selecting = false
}

func (d *Duplicate) Click(h Host, p Pick) bool {
	switch {
	case p.Mode != PickNone:
		return d.selecting || d.g.active
	case d.selecting:
		src, ok := h.Part(p.PartID)
		if !ok {
			return true
		}
		h.Pointer().SetMatrix(src.Transform)
		d.g.begin(h, h.NewPart(src.Key, src.Color, geom.Identity()))
		d.selecting = false
		return true
	case d.g.active:
		part := d.g.place(h, p.Ray)
		record(h, func(u *undoLog) {
			h.AddPart(part)
			u.RecordAdd(part)
		})
		if !h.Settings().RepeatBrick {
			return false
		}
		h.Pointer().ResetMatrix()
		d.selecting = true
		return true
	default:
		return false
	}
}

func (d *Duplicate) Move(h Host, _ int, ray geom.Ray) { d.g.follow(h, ray) }

func (d *Duplicate) Key(h Host, ev *tcell.EventKey) bool {
	if !d.g.active || !rotatePointer(h, ev) {
		return false
	}
	d.g.reorient(h)
	return true
}

func (d *Duplicate) MatrixChanged(h Host) bool {
	d.g.reorient(h)
	return d.g.active
}
