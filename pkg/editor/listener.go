package editor

import (
	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/model"
)

// Listener is told about state the host UI mirrors: menu enablement, the
// modified marker and the part and connector under the last pick.
type Listener interface {
	UndoAvailable(on bool)
	RedoAvailable(on bool)
	Modified(on bool)
	SelectedPartChanged(p model.Part)
	SelectedConnChanged(c connect.Point)
	CutCopyAvailable(on bool)
	PasteAvailable(on bool)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) UndoAvailable(bool)                {}
func (NopListener) RedoAvailable(bool)                {}
func (NopListener) Modified(bool)                     {}
func (NopListener) SelectedPartChanged(model.Part)    {}
func (NopListener) SelectedConnChanged(connect.Point) {}
func (NopListener) CutCopyAvailable(bool)             {}
func (NopListener) PasteAvailable(bool)               {}

// notify pushes the history state to the listener.
func (e *Editor) notify() {
	e.listener.Modified(e.undo.IsModified())
	e.listener.UndoAvailable(e.undo.IsUndoAvailable())
	e.listener.RedoAvailable(e.undo.IsRedoAvailable())
}
