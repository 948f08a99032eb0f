package main

import (
	"log/slog"
	"sync"

	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/render"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Frontend event names.
const (
	eventPartAdded   = "part:added"
	eventPartRemoved = "part:removed"
	eventFlags       = "view:flags"
	eventRedraw      = "view:redraw"
	eventClear       = "view:clear"
	eventOrigin      = "view:origin"
	eventGadget      = "gadget:show"
	eventGadgetGone  = "gadget:remove"
)

// emitter sends events to the frontend. Until a sink is set, events are
// dropped.
type emitter struct {
	mu   sync.RWMutex
	sink func(name string, data ...any)
}

func (e *emitter) set(sink func(name string, data ...any)) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

func (e *emitter) Emit(name string, data ...any) {
	e.mu.RLock()
	sink := e.sink
	e.mu.RUnlock()
	if sink != nil {
		sink(name, data...)
	}
}

// PartMesh is a placed part as the frontend draws it.
type PartMesh struct {
	ID     int            `json:"id"`
	Key    string         `json:"key"`
	Step   int            `json:"step"`
	Pieces []render.Piece `json:"pieces"`
}

// PartFlags is the highlight state of one renderable.
type PartFlags struct {
	ID    int          `json:"id"`
	Flags render.Flags `json:"flags"`
}

// wailsDisplay keeps the view state in a render.Memory and mirrors every
// change to the frontend as events. Parts are meshed before they are sent.
// The render task calls it from its own goroutine; Memory, the mesher and
// the emitter are all safe for that.
type wailsDisplay struct {
	*render.Memory
	mesher *render.Mesher
	emit   *emitter
	log    *slog.Logger
}

var _ render.Display = (*wailsDisplay)(nil)

func newWailsDisplay(mesher *render.Mesher, emit *emitter, log *slog.Logger) *wailsDisplay {
	return &wailsDisplay{
		Memory: render.NewMemory(),
		mesher: mesher,
		emit:   emit,
		log:    log,
	}
}

func (d *wailsDisplay) AddRenderable(p model.Part) {
	d.Memory.AddRenderable(p)
	pieces, err := d.mesher.Mesh(p)
	if err != nil {
		// The part is still tracked so it can be selected and deleted.
		d.log.Warn("mesh failed", "part", p.ID, "key", p.Key, "err", err)
	}
	d.emit.Emit(eventPartAdded, PartMesh{ID: p.ID, Key: p.Key, Step: p.Step, Pieces: render.ByColor(pieces)})
}

func (d *wailsDisplay) RemoveRenderable(id int) {
	d.Memory.RemoveRenderable(id)
	d.emit.Emit(eventPartRemoved, id)
}

func (d *wailsDisplay) Update() {
	d.Memory.Update()
	d.emit.Emit(eventFlags, d.flags())
	d.emit.Emit(eventRedraw)
}

func (d *wailsDisplay) EnableAutoRedraw() {
	d.Memory.EnableAutoRedraw()
	d.emit.Emit(eventFlags, d.flags())
	d.emit.Emit(eventRedraw)
}

func (d *wailsDisplay) SetOrigin(v v3.Vec) {
	d.Memory.SetOrigin(v)
	d.emit.Emit(eventOrigin, v)
}

func (d *wailsDisplay) ShowGadget(g render.Gadget) {
	d.Memory.ShowGadget(g)
	d.emit.Emit(eventGadget, g)
}

func (d *wailsDisplay) RemoveGadget(name string) {
	d.Memory.RemoveGadget(name)
	d.emit.Emit(eventGadgetGone, name)
}

func (d *wailsDisplay) Clear() {
	d.Memory.Clear()
	d.emit.Emit(eventClear)
}

// flags returns the highlight state of every renderable in display order.
func (d *wailsDisplay) flags() []PartFlags {
	parts := d.Memory.Parts()
	out := make([]PartFlags, 0, len(parts))
	for _, p := range parts {
		if f, ok := d.Memory.Flags(p.ID); ok {
			out = append(out, PartFlags{ID: p.ID, Flags: f})
		}
	}
	return out
}
