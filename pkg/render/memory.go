package render

import (
	"sync"

	"github.com/chazu/brickyard/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Memory is a Display that keeps its state in memory. Headless hosts use
// it directly and GUI hosts wrap it to forward changes to a frontend.
// It is safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	parts      map[int]*memHandle
	order      []int
	gadgets    map[string]Gadget
	origin     v3.Vec
	autoRedraw bool
	redraws    int
}

var _ Display = (*Memory)(nil)

// NewMemory returns an empty display with auto redraw enabled.
func NewMemory() *Memory {
	return &Memory{
		parts:      make(map[int]*memHandle),
		gadgets:    make(map[string]Gadget),
		autoRedraw: true,
	}
}

type memHandle struct {
	d     *Memory
	part  model.Part
	flags Flags
}

func (h *memHandle) set(f func(*Flags)) {
	h.d.mu.Lock()
	f(&h.flags)
	h.d.mu.Unlock()
}

func (h *memHandle) Select(on bool)    { h.set(func(f *Flags) { f.Selected = on }) }
func (h *memHandle) Highlight(on bool) { h.set(func(f *Flags) { f.Highlighted = on }) }
func (h *memHandle) Dim(on bool)       { h.set(func(f *Flags) { f.Dimmed = on }) }
func (h *memHandle) Connected(on bool) { h.set(func(f *Flags) { f.Connected = on }) }
func (h *memHandle) Hidden(on bool)    { h.set(func(f *Flags) { f.Hidden = on }) }

// AddRenderable adds p or replaces the renderable with the same id. A
// replaced renderable keeps its flags.
func (m *Memory) AddRenderable(p model.Part) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.parts[p.ID]; ok {
		h.part = p
		return
	}
	m.parts[p.ID] = &memHandle{d: m, part: p}
	m.order = append(m.order, p.ID)
}

func (m *Memory) RemoveRenderable(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parts[id]; !ok {
		return
	}
	delete(m.parts, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Memory) Renderable(id int) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.parts[id]
	if !ok {
		return nil, false
	}
	return h, true
}

func (m *Memory) Update() {
	m.mu.Lock()
	m.redraws++
	m.mu.Unlock()
}

func (m *Memory) DisableAutoRedraw() {
	m.mu.Lock()
	m.autoRedraw = false
	m.mu.Unlock()
}

// EnableAutoRedraw turns auto redraw back on and redraws once.
func (m *Memory) EnableAutoRedraw() {
	m.mu.Lock()
	m.autoRedraw = true
	m.redraws++
	m.mu.Unlock()
}

func (m *Memory) SetOrigin(v v3.Vec) {
	m.mu.Lock()
	m.origin = v
	m.mu.Unlock()
}

func (m *Memory) ShowGadget(g Gadget) {
	m.mu.Lock()
	m.gadgets[g.Name] = g
	m.mu.Unlock()
}

func (m *Memory) RemoveGadget(name string) {
	m.mu.Lock()
	delete(m.gadgets, name)
	m.mu.Unlock()
}

// Clear drops every renderable and gadget.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts = make(map[int]*memHandle)
	m.order = nil
	m.gadgets = make(map[string]Gadget)
}

// ---------------------------------------------------------------------------
// Inspection
// ---------------------------------------------------------------------------

// Len returns the number of renderables.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.parts)
}

// Parts returns the displayed parts in insertion order.
func (m *Memory) Parts() []model.Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Part, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.parts[id].part)
	}
	return out
}

// Part returns the displayed value of part id.
func (m *Memory) Part(id int) (model.Part, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.parts[id]
	if !ok {
		return model.Part{}, false
	}
	return h.part, true
}

// Flags returns the highlight state of part id.
func (m *Memory) Flags(id int) (Flags, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.parts[id]
	if !ok {
		return Flags{}, false
	}
	return h.flags, true
}

// Gadget returns the named gadget.
func (m *Memory) Gadget(name string) (Gadget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gadgets[name]
	return g, ok
}

// Origin returns the view origin.
func (m *Memory) Origin() v3.Vec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.origin
}

// AutoRedraw reports whether auto redraw is on.
func (m *Memory) AutoRedraw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoRedraw
}

// Redraws counts the redraws performed so far.
func (m *Memory) Redraws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redraws
}
