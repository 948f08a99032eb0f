package tool

import (
	"math"
	"strconv"
	"strings"

	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/render"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
)

// AxisGadget is the gadget showing the connector a part rotates about.
const AxisGadget = "rotation-axis"

type rotatePhase int

const (
	rotateIdle rotatePhase = iota
	rotateAxis
	rotating
)

// Rotate turns a part about one of its connectors. Hovering a part picks
// the connector nearest the pointer as the axis, a click grabs it, pointer
// moves turn it and a second click or a typed angle commits.
type Rotate struct {
	nop
	phase rotatePhase
	axis  connect.Point
	found bool
	part  model.Part
	ref   v3.Vec
	angle float64
}

func (*Rotate) Name() string { return "rotate" }

func (r *Rotate) Start(h Host, params ...any) error {
	if err := arity("rotate", params, 0); err != nil {
		return err
	}
	r.phase = rotateAxis
	r.found = false
	return nil
}

func (r *Rotate) Reset(h Host) {
	if r.phase == rotating {
		if p, ok := h.Part(r.part.ID); ok {
			h.Display().AddRenderable(p)
		}
		h.Chrome().RestoreControls()
	}
	h.Display().RemoveGadget(AxisGadget)
	r.phase = rotateIdle
	r.found = false
	r.angle = 0
}

func (r *Rotate) Move(h Host, partID int, ray geom.Ray) {
	switch r.phase {
	case rotateAxis:
		pt, ok := h.Connections().NearestOnPart(partID, ray)
		if partID == 0 || !ok {
			if r.found {
				h.Display().RemoveGadget(AxisGadget)
			}
			r.found = false
			return
		}
		r.axis, r.found = pt, true
		h.Display().ShowGadget(render.Gadget{Name: AxisGadget, Points: []v3.Vec{pt.P1, pt.P2}})
	case rotating:
		cur, ok := r.radial(ray)
		if !ok {
			return
		}
		dir := r.direction()
		r.angle = math.Atan2(dir.Dot(r.ref.Cross(cur)), r.ref.Dot(cur))
		r.preview(h)
	}
}

func (r *Rotate) Click(h Host, p Pick) bool {
	if p.Mode != PickNone {
		return r.phase != rotateIdle
	}
	switch r.phase {
	case rotateAxis:
		if !r.found {
			return true
		}
		part, ok := h.Part(r.axis.PartID)
		if !ok {
			return true
		}
		r.part = part
		r.angle = 0
		ref, ok := r.radial(p.Ray)
		if !ok {
			ref = anyPerpendicular(r.direction())
		}
		r.ref = ref
		r.phase = rotating
		h.Chrome().ShowControls("rotate", "angle")
		return true
	case rotating:
		r.commit(h)
		return false
	default:
		return false
	}
}

// Action "angle" commits a typed rotation in degrees.
func (r *Rotate) Action(h Host, name, value string) bool {
	if name != "angle" || r.phase != rotating {
		return r.phase != rotateIdle
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		h.Chrome().InputError("angle")
		return true
	}
	r.angle = deg * math.Pi / 180
	r.commit(h)
	return false
}

func (r *Rotate) Key(h Host, ev *tcell.EventKey) bool {
	if r.phase != rotating {
		return false
	}
	step := h.Settings().RotateStepRadians()
	switch ev.Key() {
	case tcell.KeyLeft:
		r.angle += step
	case tcell.KeyRight:
		r.angle -= step
	default:
		return false
	}
	r.preview(h)
	return true
}

func (r *Rotate) rotation() geom.Matrix {
	return geom.RotationAround(r.axis.P1, r.axis.P2, r.angle)
}

func (r *Rotate) preview(h Host) {
	h.Display().AddRenderable(r.part.Transformed(r.rotation()))
}

func (r *Rotate) commit(h Host) {
	rotated := r.part.Transformed(r.rotation())
	record(h, func(u *undoLog) {
		replace(h, u, rotated)
	})
	h.Display().RemoveGadget(AxisGadget)
	h.Chrome().RestoreControls()
	r.phase = rotateIdle
	r.found = false
	r.angle = 0
}

func (r *Rotate) direction() v3.Vec {
	d, ok := geom.Unit(r.axis.P2.Sub(r.axis.P1))
	if !ok {
		return v3.Vec{Y: 1}
	}
	return d
}

// radial returns the unit direction from the axis to where ray crosses the
// plane through P1 normal to the axis.
func (r *Rotate) radial(ray geom.Ray) (v3.Vec, bool) {
	dir := r.direction()
	hit, ok := ray.PlaneIntersect(r.axis.P1, dir)
	if !ok {
		return v3.Vec{}, false
	}
	v := hit.Sub(r.axis.P1)
	return geom.Unit(v.Sub(dir.MulScalar(v.Dot(dir))))
}

func anyPerpendicular(dir v3.Vec) v3.Vec {
	other := v3.Vec{X: 1}
	if math.Abs(dir.X) > 0.9 {
		other = v3.Vec{Y: 1}
	}
	p, _ := geom.Unit(dir.Cross(other))
	return p
}
