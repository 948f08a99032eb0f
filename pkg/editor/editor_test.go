package editor

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	"github.com/chazu/brickyard/pkg/render"
	"github.com/chazu/brickyard/pkg/tool"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gdamore/tcell/v2"
)

const tol = 1e-6

type fakeListener struct {
	undo, redo, modified, cutCopy, paste bool
	part                                 model.Part
	onPart                               func(model.Part)
}

func (l *fakeListener) UndoAvailable(on bool)             { l.undo = on }
func (l *fakeListener) RedoAvailable(on bool)             { l.redo = on }
func (l *fakeListener) Modified(on bool)                  { l.modified = on }
func (l *fakeListener) SelectedConnChanged(connect.Point) {}
func (l *fakeListener) CutCopyAvailable(on bool)          { l.cutCopy = on }
func (l *fakeListener) PasteAvailable(on bool)            { l.paste = on }

func (l *fakeListener) SelectedPartChanged(p model.Part) {
	l.part = p
	if l.onPart != nil {
		l.onPart(p)
	}
}

type fixture struct {
	ed      *Editor
	lib     *partlib.Catalog
	display *render.Memory
	events  *fakeListener
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := config.MustDefault()
	s.Autoconnect = false
	s.RepeatBrick = false
	f := &fixture{lib: testCatalog(), display: render.NewMemory(), events: &fakeListener{}}
	f.ed = New(f.lib, f.display, s, WithListener(f.events), WithModelName("house.ldr"))
	return f
}

func testCatalog() *partlib.Catalog {
	c := partlib.NewCatalog()
	c.DefineConnType(partlib.ConnType{Name: "stud", Family: partlib.FamilyVector, Mate: "antistud"})
	c.DefineConnType(partlib.ConnType{Name: "antistud", Family: partlib.FamilyVector})

	c.Define(partlib.Definition{Key: "brick", Kind: partlib.KindPart})
	c.Define(partlib.Definition{Key: "knob", Kind: partlib.KindPart, Connectors: []partlib.Connector{
		{Type: "stud", P2: v3.Vec{Y: -4}},
	}})
	c.Define(partlib.Definition{Key: "base", Kind: partlib.KindPart, Connectors: []partlib.Connector{
		{Type: "antistud", P1: v3.Vec{X: 10, Y: -8, Z: 10}, P2: v3.Vec{X: 10, Y: -12, Z: 10}},
	}})
	c.Define(partlib.Definition{Key: "pair", Kind: partlib.KindSubmodel, Refs: []partlib.Reference{
		{Key: "brick", Color: model.ColorCurrent, Transform: geom.Translation(v3.Vec{X: -10})},
		{Key: "brick", Color: model.ColorBlue, Transform: geom.Translation(v3.Vec{X: 10})},
	}})
	c.Define(partlib.Definition{Key: "hose-end", Kind: partlib.KindPart})
	c.Define(partlib.Definition{Key: "hose-mid", Kind: partlib.KindPart})
	c.DefineFlex(partlib.FlexPart{
		Key:        "hose",
		Head:       "hose-end",
		Tail:       "hose-end",
		Mid:        "hose-mid",
		Start:      partlib.Segment{P2: v3.Vec{X: 1}},
		End:        partlib.Segment{P2: v3.Vec{X: -1}},
		MidVector:  partlib.Segment{P2: v3.Vec{X: 10}},
		Rigidity:   0.4,
		Continuous: true,
	})
	return c
}

// row adds n red bricks 20 apart along X, all in step 1.
func (f *fixture) row(n int) []model.Part {
	var out []model.Part
	for i := range n {
		p := model.New("brick", model.ColorRed, geom.Translation(v3.Vec{X: float64(20 * i)}))
		f.ed.AddPart(p)
		out = append(out, p)
	}
	return out
}

func (f *fixture) pick(id int, at v3.Vec, mode tool.PickMode) {
	f.ed.DispatchPick(tool.Pick{PartID: id, Ray: geom.Vertical(at), Mode: mode})
}

func (f *fixture) start(t *testing.T, name string, params ...any) {
	t.Helper()
	if err := f.ed.StartTool(name, params...); err != nil {
		t.Fatalf("StartTool(%s): %v", name, err)
	}
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

// ---------------------------------------------------------------------------
// Tool lifecycle
// ---------------------------------------------------------------------------

func TestAddThroughEditor(t *testing.T) {
	tests := []struct {
		name   string
		repeat bool
		clicks int
		active string
	}{
		{"single", false, 1, ""},
		{"repeat", true, 3, "add"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ed.Settings().RepeatBrick = tt.repeat
			f.start(t, "add", "brick", model.ColorRed, false)
			for i := range tt.clicks {
				f.pick(0, v3.Vec{X: float64(40 * i), Z: 20}, tool.PickNone)
			}
			if got := f.ed.ActiveTool(); got != tt.active {
				t.Errorf("active tool = %q, want %q", got, tt.active)
			}
			if f.ed.Model().Len() != tt.clicks {
				t.Errorf("model has %d parts, want %d", f.ed.Model().Len(), tt.clicks)
			}
			if !f.events.modified || !f.events.undo {
				t.Errorf("listener modified=%v undo=%v", f.events.modified, f.events.undo)
			}
			if got := f.ed.Parts()[0].Offset(); got != (v3.Vec{Z: 20}) {
				t.Errorf("first part at %v", got)
			}
		})
	}
}

func TestStartToolErrors(t *testing.T) {
	f := newFixture(t)
	if err := f.ed.StartTool("paint"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown tool err = %v", err)
	}
	err := f.ed.StartTool("add", "nope", model.ColorRed, false)
	if !errors.Is(err, partlib.ErrUnknownPart) {
		t.Errorf("unknown part err = %v", err)
	}
	if f.ed.ActiveTool() != "" {
		t.Errorf("failed start left %q active", f.ed.ActiveTool())
	}
	if f.display.Len() != 0 {
		t.Errorf("failed start left %d renderables", f.display.Len())
	}
}

func TestStartDuringDispatchIsQueued(t *testing.T) {
	f := newFixture(t)
	parts := f.row(1)
	f.events.onPart = func(model.Part) {
		if err := f.ed.StartTool("recolor", model.ColorBlue); err != nil {
			t.Errorf("queued start: %v", err)
		}
		if f.ed.ActiveTool() != "" {
			t.Error("tool started inside the dispatch")
		}
	}
	f.pick(parts[0].ID, v3.Vec{}, tool.PickNone)

	if f.ed.ActiveTool() != "recolor" {
		t.Fatalf("active tool = %q, want recolor", f.ed.ActiveTool())
	}
	if p, _ := f.ed.Part(parts[0].ID); p.Color != model.ColorBlue {
		t.Errorf("selected part color = %d, want blue", p.Color)
	}
}

func TestEscapeResetsTool(t *testing.T) {
	f := newFixture(t)
	f.start(t, "add", "brick", model.ColorRed, false)
	if !f.ed.DispatchKey(key(tcell.KeyEscape)) {
		t.Error("Esc not handled")
	}
	if f.ed.ActiveTool() != "" || f.display.Len() != 0 {
		t.Errorf("Esc left tool %q and %d renderables", f.ed.ActiveTool(), f.display.Len())
	}
}

func TestDragStartAndCancel(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	if err := f.ed.DispatchDragStart(parts[1].ID); err != nil {
		t.Fatal(err)
	}
	if f.ed.ActiveTool() != "drag" || f.ed.Model().Len() != 1 {
		t.Fatalf("drag: tool %q, %d parts in model", f.ed.ActiveTool(), f.ed.Model().Len())
	}
	if err := f.ed.DispatchDragStart(parts[0].ID); err != nil {
		t.Errorf("second drag report: %v", err)
	}
	f.ed.DispatchKey(key(tcell.KeyEscape))
	if p, ok := f.ed.Part(parts[1].ID); !ok || p != parts[1] {
		t.Errorf("cancelled drag left %v", p)
	}
	if f.ed.IsUndoAvailable() {
		t.Error("cancelled drag recorded an edit")
	}
}

func TestActionWithoutTool(t *testing.T) {
	f := newFixture(t)
	if f.ed.DispatchAction("accept", "") {
		t.Error("action taken with no tool")
	}
}

func TestFlexThroughEditor(t *testing.T) {
	f := newFixture(t)
	f.start(t, "flex", "hose", model.ColorBlack)
	f.pick(0, v3.Vec{}, tool.PickNone)
	f.pick(0, v3.Vec{X: 100}, tool.PickNone)
	f.pick(0, v3.Vec{X: 48, Z: 32}, tool.PickNone)
	if !f.ed.DispatchAction("accept", "") {
		t.Fatal("flex did not take accept")
	}
	if f.ed.ActiveTool() != "" {
		t.Errorf("flex still active after accept")
	}
	parts := f.ed.Parts()
	if len(parts) != 1 || !strings.HasPrefix(parts[0].Key, "house-flex-") {
		t.Fatalf("parts = %v", parts)
	}
	if got := f.ed.UnsavedParts(); !slices.Equal(got, []string{parts[0].Key}) {
		t.Errorf("unsaved = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Pointer and selection
// ---------------------------------------------------------------------------

func TestMoveParallelRayIgnored(t *testing.T) {
	f := newFixture(t)
	f.ed.DispatchMove(0, geom.Vertical(v3.Vec{X: 8, Z: 8}))
	f.ed.DispatchMove(0, geom.Ray{Near: v3.Vec{Y: -1}, Far: v3.Vec{X: 100, Y: -1}})
	if got := f.ed.Cursor(); got != (v3.Vec{X: 8, Z: 8}) {
		t.Errorf("cursor = %v", got)
	}
}

func TestMoveSnapsToGrid(t *testing.T) {
	f := newFixture(t)
	f.ed.DispatchMove(0, geom.Vertical(v3.Vec{X: 9, Z: -7}))
	if got := f.ed.Cursor(); got != (v3.Vec{X: 8, Z: -8}) {
		t.Errorf("snapped cursor = %v", got)
	}
	f.ed.Settings().Snapping = false
	f.ed.DispatchMove(0, geom.Vertical(v3.Vec{X: 9, Z: -7}))
	if got := f.ed.Cursor(); !geom.Near(got, v3.Vec{X: 9, Z: -7}, tol) {
		t.Errorf("free cursor = %v", got)
	}
}

func TestPickSelection(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	a, b := parts[0].ID, parts[1].ID

	steps := []struct {
		id   int
		mode tool.PickMode
		want []int
	}{
		{a, tool.PickNone, []int{a}},
		{b, tool.PickAdd, []int{a, b}},
		{a, tool.PickToggle, []int{b}},
		{a, tool.PickNone, []int{a}},
		{0, tool.PickNone, nil},
	}
	for _, s := range steps {
		f.pick(s.id, v3.Vec{}, s.mode)
		if got := f.ed.Selected(); !slices.Equal(got, s.want) {
			t.Fatalf("after %v on %d: selected %v, want %v", s.mode, s.id, got, s.want)
		}
	}
	if f.events.cutCopy {
		t.Error("cut/copy still available with nothing selected")
	}

	f.pick(b, v3.Vec{}, tool.PickCenterTo)
	if f.display.Origin() != parts[1].Offset() {
		t.Errorf("origin = %v", f.display.Origin())
	}
	if f.events.part != parts[1] {
		t.Errorf("selected part event = %v", f.events.part)
	}
}

func TestSelectLike(t *testing.T) {
	f := newFixture(t)
	parts := f.row(3)
	blue := model.New("knob", model.ColorBlue, geom.Identity())
	f.ed.AddPart(blue)

	f.ed.Select(parts[1].ID)
	if n := f.ed.SelectByPartKey(); n != 3 {
		t.Errorf("by key selected %d", n)
	}
	f.ed.UnselectAll()
	f.ed.Select(blue.ID)
	if n := f.ed.SelectByColor(); n != 1 {
		t.Errorf("by color selected %d", n)
	}
	if n := f.ed.SelectByStep(1); n != 4 {
		t.Errorf("by step selected %d", n)
	}
}

func TestHiddenPartNotSnapped(t *testing.T) {
	tests := []struct {
		name   string
		hide   bool
		wantAt v3.Vec
	}{
		{"visible", false, v3.Vec{X: 10, Y: -8, Z: 10}},
		{"hidden", true, v3.Vec{X: 12, Z: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ed.Settings().Autoconnect = true
			base := model.New("base", model.ColorRed, geom.Identity())
			f.ed.AddPart(base)
			if tt.hide {
				f.ed.Select(base.ID)
				f.ed.HideSelected()
				if !f.ed.IsHidden(base.ID) {
					t.Fatal("base not hidden")
				}
			}
			f.start(t, "add", "knob", model.ColorRed, false)
			at := v3.Vec{X: 12, Z: 8}
			f.ed.DispatchMove(0, geom.Vertical(at))
			f.pick(0, at, tool.PickNone)

			var knob model.Part
			for _, p := range f.ed.Parts() {
				if p.Key == "knob" {
					knob = p
				}
			}
			if !geom.Near(knob.Offset(), tt.wantAt, tol) {
				t.Errorf("knob at %v, want %v", knob.Offset(), tt.wantAt)
			}
		})
	}
}

func TestShowAll(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	f.ed.Select(parts[0].ID)
	f.ed.HideSelected()
	if fl, _ := f.display.Flags(parts[0].ID); !fl.Hidden {
		t.Error("renderable not hidden")
	}
	f.ed.ShowAll()
	if len(f.ed.Hidden()) != 0 {
		t.Errorf("hidden = %v", f.ed.Hidden())
	}
	if fl, _ := f.display.Flags(parts[0].ID); fl.Hidden {
		t.Error("renderable still hidden")
	}
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

func TestUndoRedoRecolor(t *testing.T) {
	f := newFixture(t)
	parts := f.row(1)
	id := parts[0].ID
	f.ed.Select(id)
	f.start(t, "recolor", model.ColorBlue)
	f.ed.ResetTool()

	if !f.ed.DispatchKey(key(tcell.KeyCtrlZ)) {
		t.Fatal("undo did nothing")
	}
	if p, ok := f.ed.Part(id); !ok || p.Color != model.ColorRed || f.ed.Model().Len() != 1 {
		t.Errorf("after undo: %v (ok=%v, %d parts)", p, ok, f.ed.Model().Len())
	}
	if !f.events.redo || f.events.undo {
		t.Errorf("listener undo=%v redo=%v", f.events.undo, f.events.redo)
	}
	if !f.ed.DispatchKey(key(tcell.KeyCtrlY)) {
		t.Fatal("redo did nothing")
	}
	if p, ok := f.ed.Part(id); !ok || p.Color != model.ColorBlue || f.ed.Model().Len() != 1 {
		t.Errorf("after redo: %v (ok=%v, %d parts)", p, ok, f.ed.Model().Len())
	}
	if f.ed.RedoLastEdit() {
		t.Error("second redo did something")
	}
}

func TestModifiedFlag(t *testing.T) {
	f := newFixture(t)
	if f.ed.IsModified() {
		t.Fatal("new editor modified")
	}
	parts := f.row(1)
	f.ed.Select(parts[0].ID)
	f.ed.DeleteSelected()
	if !f.ed.IsModified() || f.ed.Model().Len() != 0 {
		t.Fatalf("after delete: modified=%v, %d parts", f.ed.IsModified(), f.ed.Model().Len())
	}
	f.ed.MarkSaved()
	if f.ed.IsModified() || f.events.modified {
		t.Error("MarkSaved did not clear modified")
	}
	f.ed.UndoLastEdit()
	if !f.ed.IsModified() || f.ed.Model().Len() != 1 {
		t.Errorf("after undo: modified=%v, %d parts", f.ed.IsModified(), f.ed.Model().Len())
	}
}

// ---------------------------------------------------------------------------
// Clipboard and blocks
// ---------------------------------------------------------------------------

func TestCutIsOneTransaction(t *testing.T) {
	f := newFixture(t)
	for _, p := range f.row(3) {
		f.ed.Select(p.ID)
	}
	if !f.ed.DispatchKey(key(tcell.KeyCtrlX)) {
		t.Fatal("cut not handled")
	}
	if f.ed.Model().Len() != 0 || len(f.ed.Selected()) != 0 {
		t.Fatalf("cut left %d parts, selection %v", f.ed.Model().Len(), f.ed.Selected())
	}
	acts := f.ed.History().PeekNextUndoActions()
	if f.ed.History().Depth() != 1 || len(acts) != 3 {
		t.Errorf("cut recorded %d transactions, %d actions", f.ed.History().Depth(), len(acts))
	}
	if !f.events.paste {
		t.Error("paste not enabled")
	}

	if !f.ed.DispatchKey(key(tcell.KeyCtrlV)) {
		t.Fatal("paste not handled")
	}
	f.pick(0, v3.Vec{X: 40}, tool.PickNone)
	parts := f.ed.Parts()
	if len(parts) != 3 {
		t.Fatalf("paste gave %d parts, want 3 separate parts", len(parts))
	}
	for i, want := range []float64{20, 40, 60} {
		if got := parts[i].Offset(); !geom.Near(got, v3.Vec{X: want}, tol) {
			t.Errorf("pasted part %d at %v", i, got)
		}
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	f := newFixture(t)
	if err := f.ed.Paste(); !errors.Is(err, ErrEmptyClipboard) {
		t.Errorf("Paste err = %v", err)
	}
	if f.ed.DispatchKey(key(tcell.KeyCtrlV)) {
		t.Error("empty paste reported a redraw")
	}
}

func TestCopyKeepsParts(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	f.ed.Select(parts[0].ID)
	f.ed.Copy()
	if f.ed.Model().Len() != 2 || f.ed.IsUndoAvailable() {
		t.Errorf("copy changed the model: %d parts, undo=%v", f.ed.Model().Len(), f.ed.IsUndoAvailable())
	}
	def, ok := f.lib.Resolve(ClipboardKey)
	if !ok || len(def.Refs) != 1 || def.Refs[0].Transform.Offset() != (v3.Vec{}) {
		t.Errorf("clipboard entry %+v", def)
	}
}

func TestExplodeSelected(t *testing.T) {
	f := newFixture(t)
	pair := model.New("pair", model.ColorGreen, geom.Translation(v3.Vec{Z: 4}))
	f.ed.AddPart(pair)
	brick := f.row(1)[0]
	f.ed.Select(pair.ID)
	f.ed.Select(brick.ID)

	if n := f.ed.ExplodeSelected(); n != 1 {
		t.Fatalf("exploded %d parts, want 1", n)
	}
	if _, ok := f.ed.Part(pair.ID); ok {
		t.Error("exploded part still in model")
	}
	if f.ed.Model().Len() != 3 {
		t.Errorf("model has %d parts", f.ed.Model().Len())
	}
	colors := map[int]bool{}
	for _, p := range f.ed.Parts() {
		if p.ID != brick.ID {
			colors[p.Color] = true
		}
	}
	if !colors[model.ColorGreen] || !colors[model.ColorBlue] {
		t.Errorf("child colors %v", colors)
	}
	if f.ed.History().Depth() != 1 {
		t.Errorf("explode used %d transactions", f.ed.History().Depth())
	}
}

func TestSaveSelectedAsBlock(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ed.SaveSelectedAsBlock(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("empty selection err = %v", err)
	}
	for _, p := range f.row(2) {
		f.ed.Select(p.ID)
	}
	k, err := f.ed.SaveSelectedAsBlock()
	if err != nil {
		t.Fatal(err)
	}
	def, ok := f.lib.Resolve(k)
	if !ok || def.Kind != partlib.KindGenerated || len(def.Refs) != 2 {
		t.Fatalf("block %q = %+v", k, def)
	}
	if got := def.Refs[0].Transform.Offset(); got != (v3.Vec{X: -10}) {
		t.Errorf("first ref at %v, want centred", got)
	}
	if !slices.Equal(f.ed.UnsavedParts(), []string{k}) {
		t.Errorf("unsaved = %v", f.ed.UnsavedParts())
	}
	f.ed.PartSaved(k)
	if len(f.ed.UnsavedParts()) != 0 {
		t.Error("PartSaved kept the key")
	}
}

// ---------------------------------------------------------------------------
// Steps, checks, grid
// ---------------------------------------------------------------------------

func TestAutoStep(t *testing.T) {
	f := newFixture(t)
	f.row(6)
	if err := f.ed.AutoStep(3); err != nil {
		t.Fatal(err)
	}
	if f.ed.NumSteps() != 2 || f.ed.CurrentStep() != 1 {
		t.Errorf("steps %d, current %d", f.ed.NumSteps(), f.ed.CurrentStep())
	}
	if n := len(f.ed.PartsInStep(2)); n != 3 {
		t.Errorf("step 2 has %d parts", n)
	}
	if err := f.ed.AutoStep(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AutoStep(0) err = %v", err)
	}
}

func TestStepNavigation(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	if err := f.ed.MoveToStep(parts[1].ID, 3); err != nil {
		t.Fatal(err)
	}
	if err := f.ed.MoveToStep(parts[1].ID, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("step 0 err = %v", err)
	}
	tests := []struct {
		name string
		fn   func() int
		want int
	}{
		{"last", f.ed.LastStep, 3},
		{"next past end", f.ed.NextStep, 4},
		{"next clamps", f.ed.NextStep, 4},
		{"first", f.ed.FirstStep, 1},
		{"prev clamps", f.ed.PrevStep, 1},
	}
	for _, tt := range tests {
		if got := tt.fn(); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestFindDuplicateConnections(t *testing.T) {
	f := newFixture(t)
	if d := f.ed.FindDuplicateConnections(0); len(d) != 0 {
		t.Errorf("empty model has %d duplicates", len(d))
	}
	f.ed.AddPart(model.New("knob", model.ColorRed, geom.Identity()))
	f.ed.AddPart(model.New("knob", model.ColorBlue, geom.Identity()))
	if d := f.ed.FindDuplicateConnections(0); len(d) != 1 {
		t.Errorf("stacked knobs: %d duplicates, want 1", len(d))
	}
}

func TestAlignGridToSelected(t *testing.T) {
	f := newFixture(t)
	parts := f.row(2)
	if f.ed.AlignGridToSelected() {
		t.Error("aligned with nothing selected")
	}
	f.ed.Select(parts[1].ID)
	if !f.ed.AlignGridToSelected() {
		t.Fatal("align failed")
	}
	if got := f.ed.Plane().GridMatrix().Offset(); got != parts[1].Offset() {
		t.Errorf("grid origin = %v", got)
	}
	f.ed.ResetGrid()
	if got := f.ed.Plane().GridMatrix().Offset(); got != (v3.Vec{}) {
		t.Errorf("reset grid origin = %v", got)
	}
}

func TestLoadAndRender(t *testing.T) {
	f := newFixture(t)
	parts := []model.Part{
		model.New("brick", model.ColorRed, geom.Identity()),
		model.New("knob", model.ColorRed, geom.Identity()).WithStep(0),
	}
	f.ed.Load(parts)
	if f.ed.Model().Len() != 2 || f.display.Len() != 0 {
		t.Fatalf("load: %d parts, %d renderables", f.ed.Model().Len(), f.display.Len())
	}
	if p, _ := f.ed.Part(parts[1].ID); p.Step != 1 {
		t.Errorf("step 0 loaded as %d", p.Step)
	}
	task := f.ed.StartRender(t.Context(), nil)
	task.Wait()
	if !task.Complete() || f.display.Len() != 2 {
		t.Errorf("render complete=%v, %d renderables", task.Complete(), f.display.Len())
	}
}
