package editor

import (
	"fmt"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/tool"
	"github.com/gdamore/tcell/v2"
)

// activation is a tool start requested while an event was being
// dispatched. It runs once the dispatch is over.
type activation struct {
	name   string
	params []any
}

// ---------------------------------------------------------------------------
// Tool lifecycle
// ---------------------------------------------------------------------------

// StartTool resets the active tool and starts the named one. An unknown
// name or bad parameters fail with ErrInvalidArgument and leave no tool
// active. Called from inside a dispatch, the start is queued until the
// dispatch returns and only the name is checked.
func (e *Editor) StartTool(name string, params ...any) error {
	if _, ok := e.tools[name]; !ok {
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidArgument, name)
	}
	if e.dispatching {
		e.pending = append(e.pending, activation{name: name, params: params})
		return nil
	}
	return e.startTool(name, params)
}

func (e *Editor) startTool(name string, params []any) error {
	t := e.tools[name]
	e.ResetTool()
	if err := t.Start(e, params...); err != nil {
		t.Reset(e)
		e.index.ResetTarget()
		e.log.Debug("tool start failed", "tool", name, "err", err)
		return fmt.Errorf("start %s: %w", name, err)
	}
	e.active = t
	e.log.Debug("tool started", "tool", name)
	e.display.Update()
	return nil
}

// ResetTool stops the active tool, if any, and forgets the snap target.
func (e *Editor) ResetTool() {
	if e.active != nil {
		e.log.Debug("tool reset", "tool", e.active.Name())
		e.active.Reset(e)
		e.index.ResetTarget()
		e.active = nil
		e.display.Update()
	}
	e.notify()
}

// ActiveTool returns the active tool's name, or "" when none is active.
func (e *Editor) ActiveTool() string {
	if e.active == nil {
		return ""
	}
	return e.active.Name()
}

// dispatch runs fn as one event with redraws batched. Tool starts
// requested while fn runs are applied afterwards, in order.
func (e *Editor) dispatch(fn func()) {
	if e.dispatching {
		fn()
		return
	}
	e.dispatching = true
	e.display.DisableAutoRedraw()
	func() {
		defer func() {
			e.dispatching = false
			e.display.EnableAutoRedraw()
		}()
		fn()
	}()
	e.notify()

	for len(e.pending) > 0 {
		a := e.pending[0]
		e.pending = e.pending[1:]
		if err := e.startTool(a.name, a.params); err != nil {
			e.log.Warn("queued tool start failed", "tool", a.name, "err", err)
		}
	}
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// DispatchPick handles a click. The active tool sees it first, except for
// PickCenterTo; a tool that reports it is done is reset. The selection is
// then updated when no tool is active or the tool asks for it.
func (e *Editor) DispatchPick(p tool.Pick) {
	e.moveCursor(p.Ray)
	e.dispatch(func() {
		if e.active != nil && p.Mode != tool.PickCenterTo {
			if !e.active.Click(e, p) {
				e.ResetTool()
			}
		}
		if e.active == nil || e.active.NeedsSelection() || p.Mode == tool.PickCenterTo {
			e.pickSelect(p)
		}
	})
}

// DispatchMove handles pointer motion. The ray is intersected with the
// working grid; the active tool is told only when the (snapped) cursor
// actually moved. A ray parallel to the grid is ignored.
func (e *Editor) DispatchMove(partID int, ray geom.Ray) {
	if !e.moveCursor(ray) {
		return
	}
	e.dispatch(func() {
		if e.active != nil {
			e.active.Move(e, partID, ray)
		}
	})
}

// moveCursor updates the cursor from ray and reports whether it changed.
func (e *Editor) moveCursor(ray geom.Ray) bool {
	e.plane.SetSnap(e.settings.SnapSize, e.settings.Snapping)
	pos, ok := e.plane.Intersect(ray)
	if !ok || pos == e.cursor {
		return false
	}
	e.cursor = pos
	return true
}

// DispatchKey handles a key press: Esc resets the active tool, Delete
// removes the selection, Ctrl-X/C/V cut, copy and paste, Ctrl-Z/Y undo and
// redo. Other keys go to the active tool. It reports whether the view
// needs a redraw.
func (e *Editor) DispatchKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.ResetTool()
	case tcell.KeyDelete:
		e.DeleteSelected()
	case tcell.KeyCtrlX:
		e.Cut()
	case tcell.KeyCtrlC:
		e.Copy()
	case tcell.KeyCtrlV:
		if err := e.Paste(); err != nil {
			e.log.Debug("paste", "err", err)
			return false
		}
	case tcell.KeyCtrlZ:
		return e.UndoLastEdit()
	case tcell.KeyCtrlY:
		return e.RedoLastEdit()
	default:
		if e.active == nil {
			return false
		}
		var redraw bool
		e.dispatch(func() { redraw = e.active.Key(e, ev) })
		if redraw {
			e.display.Update()
		}
		return redraw
	}
	return true
}

// DispatchWindowSelect handles a rubber-band selection. A tool that does
// not use the editor selection receives the ids directly; otherwise they
// are added to the selection and the tool sees the whole selection.
func (e *Editor) DispatchWindowSelect(ids []int) {
	e.dispatch(func() {
		if e.active != nil && !e.active.NeedsSelection() {
			e.active.WindowSelected(e, ids)
			return
		}
		for _, id := range ids {
			e.Select(id)
		}
		if e.active != nil {
			e.active.WindowSelected(e, e.Selected())
		}
	})
}

// DispatchColorChange sets the current color and tells the active tool.
func (e *Editor) DispatchColorChange(color int) {
	e.settings.CurrentColor = color
	e.dispatch(func() {
		if e.active != nil {
			e.active.ColorChanged(e, color)
		}
	})
}

// DispatchDragStart starts dragging partID, or the selection when it is 0.
// Hosts report drags continuously, so a drag already under way is left
// alone.
func (e *Editor) DispatchDragStart(partID int) error {
	if e.ActiveTool() == "drag" {
		return nil
	}
	return e.StartTool("drag", partID)
}

// DispatchAction forwards a panel control to the active tool. It reports
// whether a tool took it.
func (e *Editor) DispatchAction(name, value string) bool {
	a, ok := e.active.(tool.Actor)
	if !ok {
		return false
	}
	e.dispatch(func() {
		if !a.Action(e, name, value) {
			e.ResetTool()
		}
	})
	return true
}

// DispatchMatrixChanged tells the active tool the pointer orientation or
// the grid changed.
func (e *Editor) DispatchMatrixChanged() {
	e.dispatch(func() {
		if e.active != nil {
			e.active.MatrixChanged(e)
		}
	})
	e.display.Update()
}
