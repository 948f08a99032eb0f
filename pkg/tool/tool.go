// Package tool implements the editing tools: place, duplicate, delete,
// recolor, drag, rotate around a connector, flexible part editing and build
// step editing. Every tool turns pointer and keyboard input into model
// changes through a Host, the editor, which it receives on every call.
// Tools keep only their own private state.
package tool

import (
	"errors"
	"fmt"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/chazu/brickyard/pkg/render"
	"github.com/chazu/brickyard/pkg/undo"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
)

// ErrInvalidArgument reports a tool started with the wrong number or types
// of parameters, or an unknown tool name.
var ErrInvalidArgument = errors.New("invalid argument")

// PickMode qualifies a click.
type PickMode int

const (
	// PickNone is a plain click: tools act on it, and without a tool it
	// replaces the selection. Tools ignore clicks in any other mode.
	PickNone PickMode = iota
	// PickAdd adds the part to the selection.
	PickAdd
	// PickToggle toggles the part in the selection.
	PickToggle
	// PickCenterTo moves the view origin to the part.
	PickCenterTo
)

func (m PickMode) String() string {
	switch m {
	case PickNone:
		return "none"
	case PickAdd:
		return "add"
	case PickToggle:
		return "toggle"
	case PickCenterTo:
		return "center"
	default:
		return fmt.Sprintf("PickMode(%d)", int(m))
	}
}

// Pick is a click in the view. PartID is 0 when nothing was under the
// pointer.
type Pick struct {
	PartID int
	Ray    geom.Ray
	Mode   PickMode
}

// Pointer is the pointer orientation applied to parts being placed.
type Pointer interface {
	Matrix() geom.Matrix
	SetMatrix(m geom.Matrix)
	ResetMatrix()
	RotateX(rad float64)
	RotateY(rad float64)
}

// Chrome is the tool panel of the host UI.
type Chrome interface {
	// ShowControls swaps the tool panel for the named controls of a tool.
	ShowControls(tool string, controls ...string)
	// RestoreControls puts the saved tool panel back.
	RestoreControls()
	// InputError flags bad input in a control.
	InputError(control string)
	Status(text string)
}

// NopChrome ignores every call.
type NopChrome struct{}

func (NopChrome) ShowControls(string, ...string) {}
func (NopChrome) RestoreControls()               {}
func (NopChrome) InputError(string)              {}
func (NopChrome) Status(string)                  {}

// Host is what tools may use of the editor.
type Host interface {
	Settings() *config.Settings
	Library() partlib.Library
	Connections() *connect.Index
	History() *undo.Log[model.Part]
	Display() render.Display
	Pointer() Pointer
	Chrome() Chrome

	// NewPart returns a part with a fresh id in the current step. It is
	// not added to the model.
	NewPart(key string, color int, t geom.Matrix) model.Part
	Part(id int) (model.Part, bool)
	Parts() []model.Part
	// AddPart inserts or replaces p, returning the replaced value.
	AddPart(p model.Part) (prev model.Part, replaced bool)
	DeletePart(p model.Part) (removed model.Part, ok bool)
	// Expand returns the references of p's library entry as new parts,
	// placed by p and colored by p where they inherit.
	Expand(p model.Part) []model.Part

	// Cursor is the last pointer position on the working plane.
	Cursor() v3.Vec
	Selected() []int
	UnselectAll()

	CurrentStep() int
	NumSteps() int
	PartsInStep(s int) []model.Part
	GoToStep(s int) int

	// MarkUnsaved records a generated library entry that needs saving
	// with the model.
	MarkUnsaved(key string)
	ModelName() string
}

// Tool is an editing tool. Click returns false when the tool is done and
// should be deactivated. Key and MatrixChanged return whether the view
// needs a redraw.
type Tool interface {
	Name() string
	Start(h Host, params ...any) error
	// Reset returns the tool to inactive from any state. It is safe to
	// call on an inactive tool.
	Reset(h Host)
	// NeedsSelection reports whether the editor keeps managing the
	// selection on clicks while the tool is active.
	NeedsSelection() bool

	Click(h Host, p Pick) bool
	Move(h Host, partID int, ray geom.Ray)
	Key(h Host, ev *tcell.EventKey) bool
	ColorChanged(h Host, color int)
	MatrixChanged(h Host) bool
	StepChanged(h Host, step int)
	WindowSelected(h Host, ids []int)
	DragParts(h Host, partID int)
}

// Actor is implemented by tools with panel controls. Action returns false
// when the action finished the tool.
type Actor interface {
	Action(h Host, name, value string) bool
}

// Builtin returns a fresh instance of every tool, keyed by name.
func Builtin() map[string]Tool {
	tools := []Tool{&Add{}, &Duplicate{}, &Delete{}, &Recolor{}, &Drag{}, &Rotate{}, &Flex{}, &Step{}}
	out := make(map[string]Tool, len(tools))
	for _, t := range tools {
		out[t.Name()] = t
	}
	return out
}

// nop gives tools empty handlers for the events they ignore.
type nop struct{}

func (nop) NeedsSelection() bool           { return false }
func (nop) Move(Host, int, geom.Ray)       {}
func (nop) Key(Host, *tcell.EventKey) bool { return false }
func (nop) ColorChanged(Host, int)         {}
func (nop) MatrixChanged(Host) bool        { return false }
func (nop) StepChanged(Host, int)          {}
func (nop) WindowSelected(Host, []int)     {}
func (nop) DragParts(Host, int)            {}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

func arity(tool string, params []any, n int) error {
	if len(params) != n {
		return fmt.Errorf("%w: %s takes %d parameters, got %d", ErrInvalidArgument, tool, n, len(params))
	}
	return nil
}

func stringParam(tool string, params []any, i int) (string, error) {
	s, ok := params[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s parameter %d must be a string, got %T", ErrInvalidArgument, tool, i, params[i])
	}
	return s, nil
}

func intParam(tool string, params []any, i int) (int, error) {
	n, ok := params[i].(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s parameter %d must be an int, got %T", ErrInvalidArgument, tool, i, params[i])
	}
	return n, nil
}

func boolParam(tool string, params []any, i int) (bool, error) {
	b, ok := params[i].(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s parameter %d must be a bool, got %T", ErrInvalidArgument, tool, i, params[i])
	}
	return b, nil
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// rotatePointer turns the pointer by the configured step for arrow keys:
// left and right about Y, up and down about X.
func rotatePointer(h Host, ev *tcell.EventKey) bool {
	step := h.Settings().RotateStepRadians()
	switch ev.Key() {
	case tcell.KeyLeft:
		h.Pointer().RotateY(step)
	case tcell.KeyRight:
		h.Pointer().RotateY(-step)
	case tcell.KeyUp:
		h.Pointer().RotateX(step)
	case tcell.KeyDown:
		h.Pointer().RotateX(-step)
	default:
		return false
	}
	return true
}

// markTarget toggles the connected look of the locked snap target's part.
func markTarget(h Host, on bool) {
	ix := h.Connections()
	t, ok := ix.Target()
	if !ok || !ix.IsLocked() {
		return
	}
	if r, ok := h.Display().Renderable(t.PartID); ok {
		r.Connected(on)
	}
}

// releaseTarget unmarks and forgets the snap target.
func releaseTarget(h Host) {
	markTarget(h, false)
	h.Connections().ResetTarget()
}

type undoLog = undo.Log[model.Part]

// record wraps fn in one undo transaction.
func record(h Host, fn func(u *undoLog)) {
	u := h.History()
	u.StartTransaction()
	defer u.EndTransaction()
	fn(u)
}

// replace swaps in p for the part with the same id and records the change.
func replace(h Host, u *undoLog, p model.Part) {
	prev, ok := h.AddPart(p)
	if ok {
		u.RecordDelete(prev)
	}
	u.RecordAdd(p)
}

func explodable(lib partlib.Library, key string) bool {
	def, ok := lib.Resolve(key)
	return ok && def.Explodable()
}
