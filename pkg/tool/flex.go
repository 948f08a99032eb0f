package tool

import (
	"fmt"
	"path"
	"strings"

	"github.com/chazu/brickyard/pkg/flex"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/chazu/brickyard/pkg/render"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// PathGadget is the live preview of a flexible part's route.
const PathGadget = "flex-path"

type flexPhase int

const (
	flexIdle flexPhase = iota
	flexHead
	flexTail
	flexConstraints
)

// Flex builds a flexible part: place the head, place the tail, click the
// points the part must pass through, then accept. The result is a new
// library entry with one instance in the model.
type Flex struct {
	nop
	phase       flexPhase
	desc        partlib.FlexPart
	color       int
	g           ghost
	head, tail  model.Part
	constraints []partlib.Segment
}

func (*Flex) Name() string { return "flex" }

func (f *Flex) Start(h Host, params ...any) error {
	if err := arity("flex", params, 2); err != nil {
		return err
	}
	key, err := stringParam("flex", params, 0)
	if err != nil {
		return err
	}
	color, err := intParam("flex", params, 1)
	if err != nil {
		return err
	}
	desc, ok := h.Library().Flex(key)
	if !ok {
		return fmt.Errorf("flex %q: %w", key, partlib.ErrUnknownPart)
	}
	f.desc, f.color = desc, color
	f.constraints = nil
	f.phase = flexHead
	f.g.begin(h, h.NewPart(desc.Head, color, geom.Identity()))
	h.Chrome().ShowControls("flex", "remove-last-point", "accept")
	return nil
}

func (f *Flex) Reset(h Host) {
	if f.phase == flexIdle {
		return
	}
	f.g.drop(h)
	f.clear(h)
}

// clear removes the placed ends and the preview.
func (f *Flex) clear(h Host) {
	if f.phase >= flexTail {
		h.Display().RemoveRenderable(f.head.ID)
	}
	if f.phase >= flexConstraints {
		h.Display().RemoveRenderable(f.tail.ID)
	}
	h.Display().RemoveGadget(PathGadget)
	h.Chrome().RestoreControls()
	f.phase = flexIdle
	f.constraints = nil
}

func (f *Flex) Click(h Host, p Pick) bool {
	if p.Mode != PickNone {
		return f.phase != flexIdle
	}
	switch f.phase {
	case flexHead:
		f.head = f.g.place(h, p.Ray)
		f.phase = flexTail
		f.g.begin(h, h.NewPart(f.desc.Tail, f.color, geom.Identity()))
	case flexTail:
		f.tail = f.g.place(h, p.Ray)
		f.phase = flexConstraints
		f.preview(h)
	case flexConstraints:
		f.constraints = append(f.constraints, f.constraintAt(h, p.Ray))
		f.preview(h)
	default:
		return false
	}
	return true
}

// constraintAt passes the part through the connector nearest the pick, in
// that connector's direction, or through the cursor in the pointer's X
// direction when no connector is close.
func (f *Flex) constraintAt(h Host, ray geom.Ray) partlib.Segment {
	cursor := h.Cursor()
	fallback := h.Pointer().Matrix().ApplyVector(v3.Vec{X: 1})
	if pt, ok := h.Connections().FindNearest(cursor, ray); ok {
		dir, ok := geom.Unit(pt.P2.Sub(pt.P1))
		if !ok {
			dir = fallback
		}
		return partlib.Segment{P1: pt.P1, P2: pt.P1.Add(dir)}
	}
	return partlib.Segment{P1: cursor, P2: cursor.Add(fallback)}
}

func (f *Flex) preview(h Host) {
	pts := flex.Path(f.desc, f.head.Transform, f.tail.Transform, f.constraints)
	h.Display().ShowGadget(render.Gadget{Name: PathGadget, Points: pts})
}

// Action handles "remove-last-point" and "accept".
func (f *Flex) Action(h Host, name, _ string) bool {
	if f.phase == flexIdle {
		return false
	}
	switch name {
	case "remove-last-point":
		if n := len(f.constraints); n > 0 {
			f.constraints = f.constraints[:n-1]
		}
		if f.phase == flexConstraints {
			f.preview(h)
		}
	case "accept":
		if f.phase != flexConstraints {
			return true
		}
		return !f.accept(h)
	}
	return true
}

func (f *Flex) accept(h Host) bool {
	key := generatedKey(h.ModelName(), "flex")
	def, inst := flex.Generate(f.desc, key, f.head.Transform, f.tail.Transform, f.constraints)
	if err := h.Library().RegisterGenerated(def); err != nil {
		h.Chrome().Status(err.Error())
		return false
	}
	part := h.NewPart(key, f.color, inst)
	f.clear(h)
	record(h, func(u *undoLog) {
		h.AddPart(part)
		u.RecordAdd(part)
	})
	h.MarkUnsaved(key)
	return true
}

func (f *Flex) Move(h Host, _ int, ray geom.Ray) { f.g.follow(h, ray) }

func (f *Flex) Key(h Host, ev *tcell.EventKey) bool {
	if !f.g.active || !rotatePointer(h, ev) {
		return false
	}
	f.g.reorient(h)
	return true
}

// ColorChanged recolors the part while its head is still being placed.
func (f *Flex) ColorChanged(h Host, color int) {
	if f.phase != flexHead {
		return
	}
	f.color = color
	f.g.recolor(h, color)
}

func (f *Flex) MatrixChanged(h Host) bool {
	f.g.reorient(h)
	return f.g.active
}

// generatedKey names a generated library entry after the model it belongs
// to, e.g. "house-flex-1b4e28ba.ldr".
func generatedKey(modelName, kind string) string {
	base := strings.TrimSuffix(path.Base(modelName), path.Ext(modelName))
	if base == "" || base == "." || base == "/" {
		base = kind
	}
	return fmt.Sprintf("%s-%s-%s.ldr", base, kind, uuid.NewString()[:8])
}
