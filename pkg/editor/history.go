package editor

import (
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/undo"
)

// UndoLastEdit reverts the most recent transaction. Deleted parts come
// back first, then added parts are removed, each only if it still holds the
// recorded value. It reports whether anything was undone.
func (e *Editor) UndoLastEdit() bool {
	e.ResetTool()
	actions := e.undo.Undo()
	if actions == nil {
		return false
	}
	e.replay(actions, true)
	e.log.Debug("undo", "actions", len(actions))
	return true
}

// RedoLastEdit applies the most recently undone transaction again.
func (e *Editor) RedoLastEdit() bool {
	e.ResetTool()
	actions := e.undo.Redo()
	if actions == nil {
		return false
	}
	e.replay(actions, false)
	e.log.Debug("redo", "actions", len(actions))
	return true
}

func (e *Editor) replay(actions []undo.Action[model.Part], backwards bool) {
	e.display.DisableAutoRedraw()
	e.UnselectAll()
	for _, a := range actions {
		restore := a.Op == undo.OpDelete
		if !backwards {
			restore = !restore
		}
		if restore {
			e.AddPart(a.Item)
		} else {
			e.removeIf(a.Item)
		}
	}
	e.display.EnableAutoRedraw()
	e.display.Update()
	e.notify()
}

func (e *Editor) IsModified() bool      { return e.undo.IsModified() }
func (e *Editor) IsUndoAvailable() bool { return e.undo.IsUndoAvailable() }
func (e *Editor) IsRedoAvailable() bool { return e.undo.IsRedoAvailable() }

// MarkSaved clears the modified flag after the model was written out.
func (e *Editor) MarkSaved() {
	e.undo.MarkSaved()
	e.notify()
}
