package model

import "sync"

// Model is an ordered mapping from part id to Part plus a build-step cursor.
//
// The editor writes to a Model from its dispatch loop while the background
// render task reads snapshots, so access is guarded by an RWMutex. Parts are
// values, so a snapshot never contains a half-written part.
type Model struct {
	mu      sync.RWMutex
	name    string
	parts   map[int]Part
	order   []int
	curStep int
}

// NewModel returns an empty model positioned at step 1.
func NewModel(name string) *Model {
	return &Model{
		name:    name,
		parts:   make(map[int]Part),
		curStep: 1,
	}
}

// Name is the main model's name.
func (m *Model) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// SetName renames the model.
func (m *Model) SetName(name string) {
	m.mu.Lock()
	m.name = name
	m.mu.Unlock()
}

// Add inserts p, or replaces the part with the same id in place. It returns
// the replaced value, if any. A step below 1 is stored as step 1.
func (m *Model) Add(p Part) (prev Part, replaced bool) {
	if p.Step < 1 {
		p.Step = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, replaced = m.parts[p.ID]
	if !replaced {
		m.order = append(m.order, p.ID)
	}
	m.parts[p.ID] = p
	return prev, replaced
}

// Delete removes the part with the given id and returns it.
func (m *Model) Delete(id int) (Part, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parts[id]
	if !ok {
		return Part{}, false
	}
	delete(m.parts, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return p, true
}

// Get returns the part with the given id.
func (m *Model) Get(id int) (Part, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parts[id]
	return p, ok
}

// Len returns the number of parts.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Parts returns a snapshot of all parts in insertion order.
func (m *Model) Parts() []Part {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Part, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.parts[id])
	}
	return out
}

// Clear removes every part and rewinds to step 1.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts = make(map[int]Part)
	m.order = nil
	m.curStep = 1
}

// ---------------------------------------------------------------------------
// Build steps
// ---------------------------------------------------------------------------

// NumSteps is the highest step used by any part, and at least 1.
func (m *Model) NumSteps() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.numSteps()
}

func (m *Model) numSteps() int {
	n := 1
	for _, p := range m.parts {
		if p.Step > n {
			n = p.Step
		}
	}
	return n
}

// CurrentStep returns the step cursor.
func (m *Model) CurrentStep() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.curStep
}

// SetStep moves the cursor to s, clamped to [1, NumSteps+1]. The extra step
// past the end is where new parts for a fresh step go.
func (m *Model) SetStep(s int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s < 1 {
		s = 1
	}
	if limit := m.numSteps() + 1; s > limit {
		s = limit
	}
	m.curStep = s
	return s
}

// NextStep advances the cursor by one.
func (m *Model) NextStep() int { return m.SetStep(m.CurrentStep() + 1) }

// PrevStep moves the cursor back by one.
func (m *Model) PrevStep() int { return m.SetStep(m.CurrentStep() - 1) }

// FirstStep rewinds the cursor to step 1.
func (m *Model) FirstStep() int { return m.SetStep(1) }

// LastStep moves the cursor to the highest used step.
func (m *Model) LastStep() int { return m.SetStep(m.NumSteps()) }

// PartsInStep returns the parts assigned to step s, in model order.
func (m *Model) PartsInStep(s int) []Part {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Part
	for _, id := range m.order {
		if p := m.parts[id]; p.Step == s {
			out = append(out, p)
		}
	}
	return out
}
