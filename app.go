package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"unicode"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/chazu/brickyard/pkg/editor"
	"github.com/chazu/brickyard/pkg/engine"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/kernel/sdfx"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/chazu/brickyard/pkg/render"
	"github.com/chazu/brickyard/pkg/tool"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
//
// Bindings run on arbitrary goroutines; mu serializes them so the editor
// sees one event at a time.
type App struct {
	ctx context.Context
	log *slog.Logger

	mu      sync.Mutex
	engine  *engine.Engine
	lib     *partlib.Catalog
	emit    *emitter
	display *wailsDisplay
	editor  *editor.Editor

	stopRender context.CancelFunc
	task       *render.Task
}

// State is the editor state the frontend mirrors after every call.
type State struct {
	Tool     string   `json:"tool"`
	Parts    int      `json:"parts"`
	Step     int      `json:"step"`
	Steps    int      `json:"steps"`
	Selected []int    `json:"selected"`
	Hidden   []int    `json:"hidden"`
	Cursor   v3.Vec   `json:"cursor"`
	Modified bool     `json:"modified"`
	CanUndo  bool     `json:"canUndo"`
	CanRedo  bool     `json:"canRedo"`
	Unsaved  []string `json:"unsaved"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is returned by RunScript.
type ScriptResult struct {
	Placed int             `json:"placed"`
	Errors []EvalErrorData `json:"errors"`
	State  State           `json:"state"`
}

// NewApp creates an App editing an empty model with an empty part catalog.
func NewApp(settings *config.Settings, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	lib := partlib.NewCatalog()
	mesher, err := render.NewMesher(lib, sdfx.New(settings.MeshCells), settings.MeshCacheSize)
	if err != nil {
		return nil, err
	}
	emit := &emitter{}
	ui := frontend{emit: emit}
	display := newWailsDisplay(mesher, emit, log)
	return &App{
		log:     log,
		engine:  engine.NewEngine(engine.WithTimeout(settings.ScriptTimeout)),
		lib:     lib,
		emit:    emit,
		display: display,
		editor: editor.New(lib, display, settings,
			editor.WithChrome(ui),
			editor.WithListener(ui),
			editor.WithLogger(log),
		),
	}, nil
}

// startup is called by Wails on app startup. From here on events reach the
// frontend.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit.set(func(name string, data ...any) {
		runtime.EventsEmit(ctx, name, data...)
	})
	a.log.Info("editor started", "model", a.editor.ModelName())
}

func (a *App) shutdown(context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelRender()
}

// ---------------------------------------------------------------------------
// Pointer and keyboard
// ---------------------------------------------------------------------------

var pickModes = map[string]tool.PickMode{
	"":       tool.PickNone,
	"none":   tool.PickNone,
	"add":    tool.PickAdd,
	"toggle": tool.PickToggle,
	"center": tool.PickCenterTo,
}

// Pick handles a click on partID (0 for empty space) along ray.
func (a *App) Pick(partID int, ray geom.Ray, mode string) (State, error) {
	m, ok := pickModes[mode]
	if !ok {
		return a.State(), fmt.Errorf("%w: pick mode %q", editor.ErrInvalidArgument, mode)
	}
	return a.do(func(e *editor.Editor) {
		e.DispatchPick(tool.Pick{PartID: partID, Ray: ray, Mode: m})
	}), nil
}

// Move handles pointer motion over partID along ray.
func (a *App) Move(partID int, ray geom.Ray) State {
	return a.do(func(e *editor.Editor) { e.DispatchMove(partID, ray) })
}

// WindowSelect handles a rubber-band selection.
func (a *App) WindowSelect(ids []int) State {
	return a.do(func(e *editor.Editor) { e.DispatchWindowSelect(ids) })
}

// Drag starts dragging partID, or the selection when it is 0.
func (a *App) Drag(partID int) (State, error) {
	var err error
	s := a.do(func(e *editor.Editor) { err = e.DispatchDragStart(partID) })
	return s, err
}

// SetColor changes the current color.
func (a *App) SetColor(color int) State {
	return a.do(func(e *editor.Editor) { e.DispatchColorChange(color) })
}

var namedKeys = map[string]tcell.Key{
	"Escape":     tcell.KeyEscape,
	"Delete":     tcell.KeyDelete,
	"Backspace":  tcell.KeyBackspace2,
	"Enter":      tcell.KeyEnter,
	"Tab":        tcell.KeyTab,
	"ArrowLeft":  tcell.KeyLeft,
	"ArrowRight": tcell.KeyRight,
	"ArrowUp":    tcell.KeyUp,
	"ArrowDown":  tcell.KeyDown,
}

// keyEvent converts a browser key name into a terminal key event. Named
// keys use KeyboardEvent.key spelling; anything else must be one rune.
func keyEvent(name string, ctrl bool) (*tcell.EventKey, error) {
	mod := tcell.ModNone
	if ctrl {
		mod = tcell.ModCtrl
	}
	if k, ok := namedKeys[name]; ok {
		return tcell.NewEventKey(k, 0, mod), nil
	}
	r := []rune(name)
	if len(r) != 1 {
		return nil, fmt.Errorf("%w: key %q", editor.ErrInvalidArgument, name)
	}
	ch := unicode.ToLower(r[0])
	if ctrl && ch >= 'a' && ch <= 'z' {
		return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(ch-'a'), ch, mod), nil
	}
	return tcell.NewEventKey(tcell.KeyRune, r[0], mod), nil
}

// Key handles a key press.
func (a *App) Key(name string, ctrl bool) (State, error) {
	ev, err := keyEvent(name, ctrl)
	if err != nil {
		return a.State(), err
	}
	return a.do(func(e *editor.Editor) { e.DispatchKey(ev) }), nil
}

// Action forwards a tool panel control.
func (a *App) Action(name, value string) State {
	return a.do(func(e *editor.Editor) { e.DispatchAction(name, value) })
}

// StartTool activates a tool. JSON numbers arrive as float64; whole ones
// are passed to the tool as ints.
func (a *App) StartTool(name string, params []any) (State, error) {
	args := make([]any, len(params))
	for i, p := range params {
		if f, ok := p.(float64); ok && f == math.Trunc(f) {
			p = int(f)
		}
		args[i] = p
	}
	var err error
	s := a.do(func(e *editor.Editor) { err = e.StartTool(name, args...) })
	if err != nil {
		a.log.Debug("start tool", "tool", name, "err", err)
	}
	return s, err
}

// ---------------------------------------------------------------------------
// Edit commands
// ---------------------------------------------------------------------------

func (a *App) Undo() State { return a.do(func(e *editor.Editor) { e.UndoLastEdit() }) }
func (a *App) Redo() State { return a.do(func(e *editor.Editor) { e.RedoLastEdit() }) }
func (a *App) Cut() State  { return a.do(func(e *editor.Editor) { e.Cut() }) }
func (a *App) Copy() State { return a.do(func(e *editor.Editor) { e.Copy() }) }

func (a *App) Paste() (State, error) {
	var err error
	s := a.do(func(e *editor.Editor) { err = e.Paste() })
	return s, err
}

// Explode replaces every selected submodel by its children.
func (a *App) Explode() State {
	return a.do(func(e *editor.Editor) { e.ExplodeSelected() })
}

// AutoStep renumbers the build steps with perStep parts per step.
func (a *App) AutoStep(perStep int) (State, error) {
	var err error
	s := a.do(func(e *editor.Editor) { err = e.AutoStep(perStep) })
	return s, err
}

// GoToStep shows the model up to step s.
func (a *App) GoToStep(s int) State {
	return a.do(func(e *editor.Editor) { e.GoToStep(s) })
}

// ---------------------------------------------------------------------------
// Scripts and rendering
// ---------------------------------------------------------------------------

// RunScript evaluates source, installs its definitions into the catalog and
// places its parts as one undoable edit. Evaluation happens outside the
// editor lock; only the result is applied under it.
func (a *App) RunScript(source string) ScriptResult {
	res := ScriptResult{Errors: []EvalErrorData{}}

	script, evalErrs, err := a.engine.Evaluate(source, a.lib)
	if err != nil {
		a.log.Error("script failed", "err", err)
		res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
		res.State = a.State()
		return res
	}
	for _, e := range evalErrs {
		res.Errors = append(res.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if script == nil {
		res.State = a.State()
		return res
	}

	res.State = a.do(func(e *editor.Editor) {
		n, err := script.Run(a.lib, e)
		res.Placed = n
		if err != nil {
			res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
		}
	})
	a.log.Info("script applied", "placed", res.Placed, "errors", len(res.Errors))
	return res
}

// Rerender redraws the whole model in the background, cancelling a render
// still in progress.
func (a *App) Rerender() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelRender()
	ctx, cancel := context.WithCancel(a.context())
	a.stopRender = cancel
	a.task = a.editor.StartRender(ctx, progress{emit: a.emit})
	return a.state()
}

// cancelRender stops the running render task and waits for it. Callers
// hold mu.
func (a *App) cancelRender() {
	if a.stopRender == nil {
		return
	}
	a.stopRender()
	a.task.Wait()
	a.stopRender, a.task = nil, nil
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// State returns the current editor state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state()
}

// do runs fn on the editor under the lock and returns the resulting state.
func (a *App) do(fn func(e *editor.Editor)) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.editor)
	return a.state()
}

func (a *App) state() State {
	e := a.editor
	return State{
		Tool:     e.ActiveTool(),
		Parts:    len(e.Parts()),
		Step:     e.CurrentStep(),
		Steps:    e.NumSteps(),
		Selected: orEmpty(e.Selected()),
		Hidden:   orEmpty(e.Hidden()),
		Cursor:   e.Cursor(),
		Modified: e.IsModified(),
		CanUndo:  e.IsUndoAvailable(),
		CanRedo:  e.IsRedoAvailable(),
		Unsaved:  orEmpty(e.UnsavedParts()),
	}
}

// orEmpty keeps JSON arrays from being null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
