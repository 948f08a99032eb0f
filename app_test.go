package main

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/chazu/brickyard/pkg/editor"
	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
)

// recorder captures frontend events. The render task emits from its own
// goroutine.
type recorder struct {
	mu     sync.Mutex
	events []string
	meshes []PartMesh
}

func (r *recorder) record(name string, data ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	if name == eventPartAdded {
		r.meshes = append(r.meshes, data[0].(PartMesh))
	}
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T) (*App, *recorder) {
	t.Helper()
	settings := config.MustDefault()
	settings.Autoconnect = false
	settings.MeshCells = 16
	app, err := NewApp(settings, nil)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	rec := &recorder{}
	app.emit.set(rec.record)
	return app, rec
}

func runWall(t *testing.T, app *App) ScriptResult {
	t.Helper()
	source, err := os.ReadFile("examples/wall.brick")
	if err != nil {
		t.Fatalf("failed to read wall.brick: %v", err)
	}
	res := app.RunScript(string(source))
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			t.Errorf("script error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return res
}

// TestE2EWallExample exercises the full pipeline: Lisp source → engine →
// catalog and editor → meshed renderables. This is the path the Wails
// RunScript binding takes, without the Wails runtime.
func TestE2EWallExample(t *testing.T) {
	app, rec := newTestApp(t)
	res := runWall(t, app)

	if res.Placed != 6 {
		t.Fatalf("placed %d parts, want 6", res.Placed)
	}
	s := res.State
	if s.Parts != 6 || s.Steps != 4 || s.Step != 1 {
		t.Errorf("state = %+v, want 6 parts in 4 steps at step 1", s)
	}
	if !s.CanUndo || !s.Modified {
		t.Errorf("state = %+v, want undo available and modified", s)
	}

	if len(rec.meshes) < 6 {
		t.Fatalf("got %d part:added events, want at least 6", len(rec.meshes))
	}
	for _, m := range rec.meshes {
		if len(m.Pieces) == 0 {
			t.Errorf("part %d (%s): no pieces", m.ID, m.Key)
			continue
		}
		for _, p := range m.Pieces {
			if p.Mesh.IsEmpty() {
				t.Errorf("part %d (%s): empty mesh for color %d", m.ID, m.Key, p.Color)
			}
		}
	}
}

func TestE2ETowerKeepsBothColors(t *testing.T) {
	app, rec := newTestApp(t)
	runWall(t, app)

	var tower *PartMesh
	for i := range rec.meshes {
		if rec.meshes[i].Key == "tower" {
			tower = &rec.meshes[i]
		}
	}
	if tower == nil {
		t.Fatal("tower was not meshed")
	}
	if len(tower.Pieces) != 2 || tower.Pieces[0].Color != 1 || tower.Pieces[1].Color != 2 {
		t.Errorf("tower pieces = %d, want colors 1 and 2", len(tower.Pieces))
	}
}

func TestE2EScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(add"},
		{"unknown part", `(add "nope.dat")`},
		{"bad autostep", `(autostep 0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			res := app.RunScript(tt.source)
			if len(res.Errors) == 0 {
				t.Fatal("expected an error")
			}
			if res.State.Parts != 0 || res.State.CanUndo {
				t.Errorf("state after failed script = %+v", res.State)
			}
		})
	}
}

func TestE2EEmptyScript(t *testing.T) {
	app, _ := newTestApp(t)
	res := app.RunScript("")
	if len(res.Errors) != 0 || res.Placed != 0 {
		t.Errorf("empty script = %+v", res)
	}
	if res.State.Selected == nil || res.State.Unsaved == nil {
		t.Error("state slices must not be nil")
	}
}

func TestE2EUndoScript(t *testing.T) {
	app, rec := newTestApp(t)
	runWall(t, app)

	s := app.Undo() // auto-step
	if s.Parts != 6 || !s.CanRedo {
		t.Fatalf("after first undo: %+v", s)
	}
	s = app.Undo() // placement
	if s.Parts != 0 || s.CanUndo {
		t.Fatalf("after second undo: %+v", s)
	}
	if n := rec.count(eventPartRemoved); n < 6 {
		t.Errorf("got %d part:removed events, want at least 6", n)
	}

	s, err := app.Key("y", true)
	if err != nil {
		t.Fatal(err)
	}
	if s.Parts != 6 {
		t.Errorf("after Ctrl-Y: %d parts", s.Parts)
	}
}

func TestStartToolConvertsNumbers(t *testing.T) {
	app, rec := newTestApp(t)
	runWall(t, app)

	s, err := app.StartTool("add", []any{"brick-2x2.dat", float64(4), false})
	if err != nil {
		t.Fatalf("StartTool: %v", err)
	}
	if s.Tool != "add" {
		t.Fatalf("tool = %q", s.Tool)
	}

	s, err = app.Key("Escape", false)
	if err != nil || s.Tool != "" {
		t.Errorf("after Escape: tool %q, err %v", s.Tool, err)
	}

	if s, err := app.StartTool("step", nil); err != nil || s.Tool != "step" {
		t.Fatalf("step: tool %q, err %v", s.Tool, err)
	}
	if rec.count("controls:show") != 1 {
		t.Error("step did not show its controls")
	}

	if _, err := app.StartTool("recolor", []any{1.5}); !errors.Is(err, editor.ErrInvalidArgument) {
		t.Errorf("fractional color: err = %v", err)
	}
	if _, err := app.StartTool("paint", nil); !errors.Is(err, editor.ErrInvalidArgument) {
		t.Errorf("unknown tool: err = %v", err)
	}
}

func TestPickModes(t *testing.T) {
	app, _ := newTestApp(t)
	if _, err := app.Pick(0, geom.Vertical(v3.Vec{}), "lasso"); !errors.Is(err, editor.ErrInvalidArgument) {
		t.Errorf("unknown mode: err = %v", err)
	}
	for _, mode := range []string{"", "none", "add", "toggle", "center"} {
		if _, err := app.Pick(0, geom.Vertical(v3.Vec{}), mode); err != nil {
			t.Errorf("mode %q: %v", mode, err)
		}
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		ctrl bool
		key  tcell.Key
		r    rune
	}{
		{"Escape", false, tcell.KeyEscape, 0},
		{"Delete", false, tcell.KeyDelete, 0},
		{"ArrowLeft", false, tcell.KeyLeft, 0},
		{"z", true, tcell.KeyCtrlZ, 0},
		{"V", true, tcell.KeyCtrlV, 0},
		{"r", false, tcell.KeyRune, 'r'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := keyEvent(tt.name, tt.ctrl)
			if err != nil {
				t.Fatal(err)
			}
			if ev.Key() != tt.key {
				t.Errorf("key = %v, want %v", ev.Key(), tt.key)
			}
			if tt.key == tcell.KeyRune && ev.Rune() != tt.r {
				t.Errorf("rune = %q, want %q", ev.Rune(), tt.r)
			}
		})
	}

	if _, err := keyEvent("Shift", false); !errors.Is(err, editor.ErrInvalidArgument) {
		t.Errorf("Shift: err = %v", err)
	}
}

func TestRerender(t *testing.T) {
	app, rec := newTestApp(t)
	runWall(t, app)

	app.Rerender()
	app.mu.Lock()
	task := app.task
	app.mu.Unlock()
	task.Wait()

	if !task.Complete() || task.Rendered() != 6 {
		t.Errorf("task complete %v, rendered %d", task.Complete(), task.Rendered())
	}
	if rec.count("render:completed") != 1 || rec.count(eventClear) != 1 {
		t.Errorf("events = %v", rec.events)
	}
	if app.display.Len() != 6 {
		t.Errorf("display holds %d parts", app.display.Len())
	}

	// Shutdown stops a render still in progress.
	app.Rerender()
	app.shutdown(nil)
	if app.task != nil {
		t.Error("shutdown left a render task")
	}
}
