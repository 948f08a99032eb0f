// Package editor is the editing orchestrator. An Editor owns the model, its
// connection index, the undo log, the selection and hidden sets and at most
// one active tool, and routes pointer, keyboard and panel events from the
// host UI to that tool.
//
// An Editor is driven from a single dispatch loop. Only the background render
// task reads the model concurrently, through snapshots.
package editor

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/chazu/brickyard/pkg/render"
	"github.com/chazu/brickyard/pkg/tool"
	"github.com/chazu/brickyard/pkg/undo"
	"github.com/chazu/brickyard/pkg/workplane"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// ErrInvalidArgument is returned for unknown tools and bad tool parameters.
var ErrInvalidArgument = tool.ErrInvalidArgument

// Editor edits one model. The zero value is not usable; call New.
type Editor struct {
	settings *config.Settings
	lib      partlib.Library
	display  render.Display
	chrome   tool.Chrome
	listener Listener
	log      *slog.Logger

	model *model.Model
	index *connect.Index
	undo  *undo.Log[model.Part]
	plane *workplane.Plane

	tools       map[string]tool.Tool
	active      tool.Tool
	dispatching bool
	pending     []activation

	selected  []int
	hidden    map[int]bool
	cursor    v3.Vec
	clipboard bool
	unsaved   map[string]bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithChrome sets the tool panel collaborator.
func WithChrome(c tool.Chrome) Option {
	return func(e *Editor) { e.chrome = c }
}

// WithListener sets the change listener.
func WithListener(l Listener) Option {
	return func(e *Editor) { e.listener = l }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithModelName names the main model.
func WithModelName(name string) Option {
	return func(e *Editor) { e.model.SetName(name) }
}

// New returns an editor for an empty model drawn on display. A nil
// settings uses the defaults.
func New(lib partlib.Library, display render.Display, settings *config.Settings, opts ...Option) *Editor {
	if settings == nil {
		settings = config.MustDefault()
	}
	e := &Editor{
		settings: settings,
		lib:      lib,
		display:  display,
		chrome:   tool.NopChrome{},
		listener: NopListener{},
		log:      slog.Default(),
		model:    model.NewModel("untitled.ldr"),
		undo:     undo.New[model.Part](),
		plane:    workplane.New(settings.SnapSize, settings.Snapping),
		tools:    tool.Builtin(),
		hidden:   make(map[int]bool),
		unsaved:  make(map[string]bool),
	}
	e.index = connect.NewIndex(lib, e, settings.SnapRadius, settings.LockRelease)
	for _, o := range opts {
		o(e)
	}
	return e
}

// Model returns the edited model. Callers outside the dispatch loop must
// treat it as read-only.
func (e *Editor) Model() *model.Model { return e.model }

// Load replaces the model content with parts, dropping history, selection
// and hidden state. Nothing is drawn; call StartRender afterwards.
func (e *Editor) Load(parts []model.Part) {
	e.ResetTool()
	e.model.Clear()
	e.index.Clear()
	e.undo.Reset()
	e.selected = nil
	clear(e.hidden)
	for _, p := range parts {
		if p.Step < 1 {
			p.Step = 1
		}
		e.model.Add(p)
		if err := e.index.AddConnections(p); err != nil {
			e.log.Warn("load: no connections", "part", p.ID, "key", p.Key, "err", err)
		}
	}
	e.log.Info("model loaded", "name", e.model.Name(), "parts", len(parts))
	e.notify()
}

// ---------------------------------------------------------------------------
// Model changes
// ---------------------------------------------------------------------------

// AddPart inserts p or replaces the part with the same id, keeping the
// connection index and the display in step. It returns the replaced value.
func (e *Editor) AddPart(p model.Part) (prev model.Part, replaced bool) {
	if p.Step < 1 {
		p.Step = 1
	}
	prev, replaced = e.model.Add(p)
	if replaced {
		e.index.RemoveConnections(prev)
	}
	if err := e.index.AddConnections(p); err != nil {
		e.log.Warn("part has no connections", "part", p.ID, "key", p.Key, "err", err)
	}
	e.display.AddRenderable(p)
	return prev, replaced
}

// DeletePart removes the part with p's id from the model, the index, the
// display and the selection and hidden sets.
func (e *Editor) DeletePart(p model.Part) (removed model.Part, ok bool) {
	e.display.RemoveRenderable(p.ID)
	removed, ok = e.model.Delete(p.ID)
	if !ok {
		return removed, false
	}
	e.index.RemoveConnections(removed)
	delete(e.hidden, p.ID)
	if lo.Contains(e.selected, p.ID) {
		e.selected = lo.Without(e.selected, p.ID)
		if len(e.selected) == 0 {
			e.listener.CutCopyAvailable(false)
		}
	}
	return removed, true
}

// removeIf deletes the part only if it still has the value p. Replaying a
// transaction that both deleted and added a part under one id relies on it.
func (e *Editor) removeIf(p model.Part) {
	if cur, ok := e.model.Get(p.ID); ok && cur == p {
		e.DeletePart(cur)
	}
}

// NewPart returns a part with a fresh id at the current step.
func (e *Editor) NewPart(key string, color int, t geom.Matrix) model.Part {
	return model.New(key, color, t).WithStep(e.model.CurrentStep())
}

// Expand returns the references of p's library entry as new parts at the
// current step. Each is placed by p's transform; a child in the inherit
// color takes p's color.
func (e *Editor) Expand(p model.Part) []model.Part {
	def, ok := e.lib.Resolve(p.Key)
	if !ok {
		return nil
	}
	return lo.Map(def.Refs, func(r partlib.Reference, _ int) model.Part {
		return e.NewPart(r.Key, model.ResolveColor(r.Color, p.Color), p.Transform.Mul(r.Transform))
	})
}

// InsertParts adds parts to the model as one undoable edit and returns how
// many were added. Parts whose id is already taken are skipped.
func (e *Editor) InsertParts(parts []model.Part) int {
	n := 0
	e.display.DisableAutoRedraw()
	e.record(func() {
		for _, p := range parts {
			if _, ok := e.model.Get(p.ID); ok {
				continue
			}
			if p.Step < 1 {
				p.Step = 1
			}
			e.AddPart(p)
			e.undo.RecordAdd(p)
			n++
		}
	})
	e.display.EnableAutoRedraw()
	e.notify()
	return n
}

func (e *Editor) Part(id int) (model.Part, bool) { return e.model.Get(id) }
func (e *Editor) Parts() []model.Part            { return e.model.Parts() }

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

func (e *Editor) Settings() *config.Settings     { return e.settings }
func (e *Editor) Library() partlib.Library       { return e.lib }
func (e *Editor) Connections() *connect.Index    { return e.index }
func (e *Editor) History() *undo.Log[model.Part] { return e.undo }
func (e *Editor) Display() render.Display        { return e.display }
func (e *Editor) Pointer() tool.Pointer          { return e.plane }
func (e *Editor) Chrome() tool.Chrome            { return e.chrome }
func (e *Editor) Plane() *workplane.Plane        { return e.plane }
func (e *Editor) Cursor() v3.Vec                 { return e.cursor }
func (e *Editor) ModelName() string              { return e.model.Name() }

// ApplySettings pushes changed snap and tolerance settings to the grid and
// the connection index.
func (e *Editor) ApplySettings() error {
	if err := e.settings.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	e.plane.SetSnap(e.settings.SnapSize, e.settings.Snapping)
	e.index.SetTolerances(e.settings.SnapRadius, e.settings.LockRelease)
	return nil
}

// MarkUnsaved records a generated library entry that has to be written
// out with the model.
func (e *Editor) MarkUnsaved(key string) {
	if key != "" {
		e.unsaved[key] = true
	}
}

// PartSaved forgets a generated entry once it has been written out.
func (e *Editor) PartSaved(key string) { delete(e.unsaved, key) }

// UnsavedParts returns the generated entries still to be written, sorted.
func (e *Editor) UnsavedParts() []string {
	keys := lo.Keys(e.unsaved)
	slices.Sort(keys)
	return keys
}
