package tool

import (
	"fmt"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/gdamore/tcell/v2"
)

// Add places new parts. The part follows the pointer until a click drops
// it into the model.
type Add struct {
	nop
	key     string
	color   int
	explode bool
	g       ghost
}

func (*Add) Name() string { return "add" }

// Start takes the library key, the color and whether a composite entry is
// placed as its separate references.
func (a *Add) Start(h Host, params ...any) error {
	if err := arity("add", params, 3); err != nil {
		return err
	}
	key, err := stringParam("add", params, 0)
	if err != nil {
		return err
	}
	color, err := intParam("add", params, 1)
	if err != nil {
		return err
	}
	explode, err := boolParam("add", params, 2)
	if err != nil {
		return err
	}
	if !h.Library().Exists(key) {
		return fmt.Errorf("add %q: %w", key, partlib.ErrUnknownPart)
	}
	a.key, a.color, a.explode = key, color, explode
	a.g.begin(h, h.NewPart(key, color, geom.Identity()))
	return nil
}

func (a *Add) Reset(h Host) { a.g.drop(h) }

func (a *Add) Click(h Host, p Pick) bool {
	if !a.g.active || p.Mode != PickNone {
		return a.g.active
	}
	part := a.g.place(h, p.Ray)
	if a.explode && explodable(h.Library(), part.Key) {
		h.Display().RemoveRenderable(part.ID)
		children := h.Expand(part)
		record(h, func(u *undoLog) {
			for _, c := range children {
				h.AddPart(c)
				u.RecordAdd(c)
			}
		})
	} else {
		record(h, func(u *undoLog) {
			h.AddPart(part)
			u.RecordAdd(part)
		})
	}
	if !h.Settings().RepeatBrick {
		return false
	}
	a.g.begin(h, h.NewPart(a.key, a.color, geom.Identity()))
	return true
}

func (a *Add) Move(h Host, _ int, ray geom.Ray) { a.g.follow(h, ray) }

func (a *Add) Key(h Host, ev *tcell.EventKey) bool {
	if !a.g.active || !rotatePointer(h, ev) {
		return false
	}
	a.g.reorient(h)
	return true
}

func (a *Add) ColorChanged(h Host, color int) {
	a.color = color
	a.g.recolor(h, color)
}

func (a *Add) MatrixChanged(h Host) bool {
	a.g.reorient(h)
	return a.g.active
}
