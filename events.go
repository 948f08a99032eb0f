package main

import (
	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/editor"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/tool"
)

// frontend forwards editor notifications and tool panel requests to the
// Wails frontend as events.
type frontend struct {
	emit *emitter
}

var (
	_ editor.Listener = frontend{}
	_ tool.Chrome     = frontend{}
)

// Controls is the payload of a "controls:show" event.
type Controls struct {
	Tool     string   `json:"tool"`
	Controls []string `json:"controls"`
}

// Connector is the payload of a "select:conn" event. ID is 0 when no
// connector is selected.
type Connector struct {
	ID     int       `json:"id"`
	Type   string    `json:"type"`
	PartID int       `json:"partId"`
	P1     []float64 `json:"p1"`
	P2     []float64 `json:"p2"`
}

func (f frontend) UndoAvailable(on bool)    { f.emit.Emit("menu:undo", on) }
func (f frontend) RedoAvailable(on bool)    { f.emit.Emit("menu:redo", on) }
func (f frontend) Modified(on bool)         { f.emit.Emit("model:modified", on) }
func (f frontend) CutCopyAvailable(on bool) { f.emit.Emit("menu:cutcopy", on) }
func (f frontend) PasteAvailable(on bool)   { f.emit.Emit("menu:paste", on) }

func (f frontend) SelectedPartChanged(p model.Part) {
	f.emit.Emit("select:part", p.ID)
}

func (f frontend) SelectedConnChanged(c connect.Point) {
	f.emit.Emit("select:conn", Connector{
		ID:     c.ID,
		Type:   c.Type,
		PartID: c.PartID,
		P1:     []float64{c.P1.X, c.P1.Y, c.P1.Z},
		P2:     []float64{c.P2.X, c.P2.Y, c.P2.Z},
	})
}

func (f frontend) ShowControls(name string, controls ...string) {
	f.emit.Emit("controls:show", Controls{Tool: name, Controls: controls})
}

func (f frontend) RestoreControls()          { f.emit.Emit("controls:restore") }
func (f frontend) InputError(control string) { f.emit.Emit("controls:error", control) }
func (f frontend) Status(text string)        { f.emit.Emit("status", text) }

// progress reports render task lifecycle to the frontend.
type progress struct {
	emit *emitter
}

func (p progress) Started(total int) { p.emit.Emit("render:started", total) }
func (p progress) Completed()        { p.emit.Emit("render:completed") }
func (p progress) Incomplete()       { p.emit.Emit("render:incomplete") }
