package tool

import (
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
)

// ghost is a part following the pointer before it is committed. It lives
// in the display only; the model does not see it until commit.
type ghost struct {
	part   model.Part
	active bool
}

// begin shows p as the ghost at the cursor in the pointer orientation.
func (g *ghost) begin(h Host, p model.Part) {
	g.show(h, p.WithTransform(h.Pointer().Matrix().WithOffset(h.Cursor())))
}

// show makes p the ghost where it stands.
func (g *ghost) show(h Host, p model.Part) {
	g.part = p
	g.active = true
	h.Display().AddRenderable(p)
}

// follow moves the ghost to the cursor, snapping it onto a connector when
// autoconnect is on.
func (g *ghost) follow(h Host, ray geom.Ray) {
	if !g.active {
		return
	}
	g.part = g.part.WithTransform(g.pose(h, ray))
	h.Display().AddRenderable(g.part)
}

// pose computes where the ghost goes for the current cursor. With
// autoconnect, the mark on the previous target is cleared before a
// target is looked up again.
func (g *ghost) pose(h Host, ray geom.Ray) geom.Matrix {
	pointer := h.Pointer().Matrix()
	if !h.Settings().Autoconnect {
		return pointer.WithOffset(h.Cursor())
	}
	markTarget(h, false)
	_, m := h.Connections().ComputeAlignment(g.part, pointer, h.Cursor(), ray)
	markTarget(h, true)
	return m
}

// reorient applies the current pointer orientation in place, e.g. after a
// rotation key.
func (g *ghost) reorient(h Host) {
	if !g.active {
		return
	}
	g.part = g.part.WithTransform(h.Pointer().Matrix().WithOffset(g.part.Offset()))
	h.Display().AddRenderable(g.part)
}

// recolor changes the ghost color.
func (g *ghost) recolor(h Host, color int) {
	if !g.active {
		return
	}
	g.part = g.part.WithColor(color)
	h.Display().AddRenderable(g.part)
}

// place recomputes the final pose for the click and returns the part to
// commit. The snap target is released; the ghost renderable is left for
// the committed part, which has the same id.
func (g *ghost) place(h Host, ray geom.Ray) model.Part {
	g.part = g.part.WithTransform(g.pose(h, ray))
	releaseTarget(h)
	g.active = false
	return g.part
}

// drop removes the ghost from the display and releases any snap target.
func (g *ghost) drop(h Host) {
	if g.active {
		h.Display().RemoveRenderable(g.part.ID)
	}
	releaseTarget(h)
	g.active = false
}
