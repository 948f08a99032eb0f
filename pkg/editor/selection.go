package editor

import (
	"slices"

	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/tool"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// pickSelect applies a click to the selection. A plain click replaces the
// selection, PickAdd adds, PickToggle toggles and PickCenterTo moves the
// view origin to the part.
func (e *Editor) pickSelect(p tool.Pick) {
	if p.Mode == tool.PickNone && len(e.selected) > 0 {
		e.UnselectAll()
	}
	part, ok := e.model.Get(p.PartID)
	if !ok {
		return
	}
	switch p.Mode {
	case tool.PickNone, tool.PickAdd:
		e.Select(part.ID)
	case tool.PickToggle:
		e.Toggle(part.ID)
	case tool.PickCenterTo:
		e.display.SetOrigin(part.Offset())
	}
	e.listener.SelectedPartChanged(part)
	if pt, ok := e.index.NearestOnPart(part.ID, p.Ray); ok {
		e.listener.SelectedConnChanged(pt)
	}
}

// Select adds a part to the selection. Unknown ids are ignored.
func (e *Editor) Select(id int) {
	if _, ok := e.model.Get(id); !ok || lo.Contains(e.selected, id) {
		return
	}
	e.selected = append(e.selected, id)
	if r, ok := e.display.Renderable(id); ok {
		r.Select(true)
	}
	e.listener.CutCopyAvailable(true)
}

// Unselect drops a part from the selection.
func (e *Editor) Unselect(id int) {
	if !lo.Contains(e.selected, id) {
		return
	}
	e.selected = lo.Without(e.selected, id)
	if r, ok := e.display.Renderable(id); ok {
		r.Select(false)
	}
	if len(e.selected) == 0 {
		e.listener.CutCopyAvailable(false)
	}
}

// Toggle flips a part's selection.
func (e *Editor) Toggle(id int) {
	if lo.Contains(e.selected, id) {
		e.Unselect(id)
	} else {
		e.Select(id)
	}
}

// UnselectAll clears the selection.
func (e *Editor) UnselectAll() {
	for _, id := range e.selected {
		if r, ok := e.display.Renderable(id); ok {
			r.Select(false)
		}
	}
	if len(e.selected) > 0 {
		e.display.Update()
	}
	e.selected = nil
	e.listener.CutCopyAvailable(false)
}

// Selected returns the selected ids in selection order.
func (e *Editor) Selected() []int { return slices.Clone(e.selected) }

// selectedParts returns the selected parts still in the model.
func (e *Editor) selectedParts() []model.Part {
	var out []model.Part
	for _, id := range e.selected {
		if p, ok := e.model.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// SelectByPartKey replaces a single selected part with every part of the
// same library entry. It returns the new selection size.
func (e *Editor) SelectByPartKey() int {
	return e.selectLike(func(a, b model.Part) bool { return a.Key == b.Key })
}

// SelectByColor replaces a single selected part with every part of the
// same color.
func (e *Editor) SelectByColor() int {
	return e.selectLike(func(a, b model.Part) bool { return a.Color == b.Color })
}

func (e *Editor) selectLike(same func(a, b model.Part) bool) int {
	if len(e.selected) != 1 {
		return len(e.selected)
	}
	ref, ok := e.model.Get(e.selected[0])
	e.UnselectAll()
	if !ok {
		return 0
	}
	for _, p := range e.model.Parts() {
		if same(p, ref) {
			e.Select(p.ID)
		}
	}
	return len(e.selected)
}

// SelectByStep replaces the selection with the parts of build step s.
func (e *Editor) SelectByStep(s int) int {
	e.UnselectAll()
	for _, p := range e.model.PartsInStep(s) {
		e.Select(p.ID)
	}
	return len(e.selected)
}

// ---------------------------------------------------------------------------
// Hidden parts
// ---------------------------------------------------------------------------

// HideSelected hides the selected parts. Hidden parts are never offered as
// snap targets.
func (e *Editor) HideSelected() {
	if len(e.selected) == 0 {
		return
	}
	for _, id := range e.selected {
		if r, ok := e.display.Renderable(id); ok {
			r.Hidden(true)
		}
		e.hidden[id] = true
	}
	e.UnselectAll()
}

// ShowAll unhides every part.
func (e *Editor) ShowAll() {
	if len(e.hidden) == 0 {
		return
	}
	for id := range e.hidden {
		if r, ok := e.display.Renderable(id); ok {
			r.Hidden(false)
		}
	}
	clear(e.hidden)
	e.display.Update()
}

// IsHidden reports whether a part is hidden.
func (e *Editor) IsHidden(id int) bool { return e.hidden[id] }

// Hidden returns the hidden ids, sorted.
func (e *Editor) Hidden() []int {
	ids := lo.Keys(e.hidden)
	slices.Sort(ids)
	return ids
}
