package tool

import (
	"fmt"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
)

// DragKey is the scratch library entry holding the parts being dragged.
const DragKey = "__internal_dragging__"

// Drag moves a set of parts as one. The parts leave the model while they
// follow the pointer; a click puts them back at the new place.
type Drag struct {
	nop
	originals []model.Part
	g         ghost
}

func (*Drag) Name() string { return "drag" }

// Start takes the id of the part grabbed, or 0 to drag the selection. A
// grabbed part outside the selection is dragged alone.
func (d *Drag) Start(h Host, params ...any) error {
	if err := arity("drag", params, 1); err != nil {
		return err
	}
	id, err := intParam("drag", params, 0)
	if err != nil {
		return err
	}
	d.originals = nil

	ids := h.Selected()
	if id != 0 && !lo.Contains(ids, id) {
		ids = []int{id}
	}
	for _, i := range ids {
		if p, ok := h.Part(i); ok {
			d.originals = append(d.originals, p)
		}
	}
	if len(d.originals) == 0 {
		return nil
	}

	centre := geom.Centroid(lo.Map(d.originals, func(p model.Part, _ int) v3.Vec { return p.Offset() }))
	rebase := geom.Translation(centre.MulScalar(-1))
	def := partlib.Definition{
		Key:  DragKey,
		Kind: partlib.KindInternal,
		Refs: lo.Map(d.originals, func(p model.Part, _ int) partlib.Reference {
			return partlib.Reference{Key: p.Key, Color: p.Color, Transform: rebase.Mul(p.Transform)}
		}),
	}
	if err := h.Library().RegisterGenerated(def); err != nil {
		d.originals = nil
		return fmt.Errorf("drag: %w", err)
	}

	h.UnselectAll()
	for _, p := range d.originals {
		h.DeletePart(p)
	}
	h.Pointer().ResetMatrix()
	d.g.show(h, h.NewPart(DragKey, model.ColorCurrent, geom.Translation(centre)))
	return nil
}

// Reset puts the original parts back untouched.
func (d *Drag) Reset(h Host) {
	if d.g.active {
		d.g.drop(h)
		for _, p := range d.originals {
			h.AddPart(p)
		}
	}
	d.originals = nil
}

func (d *Drag) Click(h Host, p Pick) bool {
	if !d.g.active || p.Mode != PickNone {
		return d.g.active
	}
	moved := d.g.place(h, p.Ray)
	h.Display().RemoveRenderable(moved.ID)
	children := h.Expand(moved)
	record(h, func(u *undoLog) {
		for _, o := range d.originals {
			u.RecordDelete(o)
		}
		for _, c := range children {
			h.AddPart(c)
			u.RecordAdd(c)
		}
	})
	d.originals = nil
	return false
}

func (d *Drag) Move(h Host, _ int, ray geom.Ray) { d.g.follow(h, ray) }

func (d *Drag) Key(h Host, ev *tcell.EventKey) bool {
	if !d.g.active || !rotatePointer(h, ev) {
		return false
	}
	d.g.reorient(h)
	return true
}

func (d *Drag) MatrixChanged(h Host) bool {
	d.g.reorient(h)
	return d.g.active
}
