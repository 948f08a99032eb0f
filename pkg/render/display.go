// Package render defines what the editor needs from a 3D view: per-part
// renderables with highlight state, overlay gadgets, batched redraws, and a
// background task that pushes a whole model into a view. It also meshes
// library parts through the geometry kernel for hosts that draw triangles.
package render

import (
	"github.com/chazu/brickyard/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Handle is the per-part state a view keeps for one renderable.
type Handle interface {
	Select(on bool)
	Highlight(on bool)
	Dim(on bool)
	Connected(on bool)
	Hidden(on bool)
}

// Gadget is an overlay polyline, e.g. a flex path preview or the selected
// connector.
type Gadget struct {
	Name   string   `json:"name"`
	Points []v3.Vec `json:"points"`
	Closed bool     `json:"closed"`
}

// Display is a 3D view of a model.
type Display interface {
	AddRenderable(p model.Part)
	RemoveRenderable(id int)
	Renderable(id int) (Handle, bool)

	// Update flushes pending changes to the view. While auto redraw is
	// disabled, individual changes are not drawn until Update or
	// EnableAutoRedraw.
	Update()
	DisableAutoRedraw()
	EnableAutoRedraw()

	SetOrigin(v v3.Vec)
	ShowGadget(g Gadget)
	RemoveGadget(name string)

	Clear()
}

// Flags is the highlight state of a renderable.
type Flags struct {
	Selected    bool `json:"selected"`
	Highlighted bool `json:"highlighted"`
	Dimmed      bool `json:"dimmed"`
	Connected   bool `json:"connected"`
	Hidden      bool `json:"hidden"`
}

// Progress receives render task lifecycle callbacks. Callbacks run on the
// task goroutine.
type Progress interface {
	Started(total int)
	Completed()
	Incomplete()
}

// NopProgress ignores every callback.
type NopProgress struct{}

func (NopProgress) Started(int) {}
func (NopProgress) Completed()  {}
func (NopProgress) Incomplete() {}
