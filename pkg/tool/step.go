package tool

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/brickyard/pkg/model"
)

// DefaultPartsPerStep is how many parts "auto" puts in each step.
const DefaultPartsPerStep = 3

// Step edits build steps. The current step is highlighted and later steps
// dimmed; panel actions move the selection between steps or re-split the
// whole model.
type Step struct {
	nop
	active bool
}

func (*Step) Name() string { return "step" }

func (*Step) NeedsSelection() bool { return true }

func (s *Step) Start(h Host, params ...any) error {
	if err := arity("step", params, 0); err != nil {
		return err
	}
	s.active = true
	h.Chrome().ShowControls("step", "prev", "here", "next", "auto")
	highlightSteps(h, true)
	return nil
}

func (s *Step) Reset(h Host) {
	if !s.active {
		return
	}
	highlightSteps(h, false)
	h.Chrome().RestoreControls()
	s.active = false
}

func (s *Step) Click(Host, Pick) bool { return s.active }

func (s *Step) StepChanged(h Host, _ int) {
	if s.active {
		highlightSteps(h, true)
	}
}

// Action handles "prev", "here" and "next", which move the selection to
// that step, and "auto", which re-splits all parts taking the number of
// parts per step as its value.
func (s *Step) Action(h Host, name, value string) bool {
	if !s.active {
		return false
	}
	cur := h.CurrentStep()
	switch name {
	case "prev":
		moveSelection(h, max(1, cur-1))
	case "here":
		moveSelection(h, cur)
	case "next":
		moveSelection(h, cur+1)
	case "auto":
		n := DefaultPartsPerStep
		if v := strings.TrimSpace(value); v != "" {
			var err error
			if n, err = strconv.Atoi(v); err != nil {
				h.Chrome().InputError("auto")
				return true
			}
		}
		if err := AutoStep(h, n); err != nil {
			h.Chrome().InputError("auto")
			return true
		}
	default:
		return true
	}
	highlightSteps(h, true)
	return true
}

func moveSelection(h Host, step int) {
	var moved []model.Part
	for _, id := range h.Selected() {
		if p, ok := h.Part(id); ok && p.Step != step {
			moved = append(moved, p.WithStep(step))
		}
	}
	if len(moved) == 0 {
		return
	}
	record(h, func(u *undoLog) {
		for _, p := range moved {
			replace(h, u, p)
		}
	})
}

// highlightSteps marks the current step's parts and dims the later ones,
// or clears both marks when on is false.
func highlightSteps(h Host, on bool) {
	cur := h.CurrentStep()
	d := h.Display()
	for _, p := range h.Parts() {
		r, ok := d.Renderable(p.ID)
		if !ok {
			continue
		}
		r.Highlight(on && p.Step == cur)
		r.Dim(on && p.Step > cur)
	}
	d.Update()
}

// AutoStep re-splits every part into build steps of perStep parts, keeping
// the existing step order and model order within a step. A part whose
// library entry can be exploded gets a step of its own. The change is one
// undo transaction and the editor is left on step 1.
func AutoStep(h Host, perStep int) error {
	if perStep < 1 {
		return fmt.Errorf("%w: parts per step must be at least 1, got %d", ErrInvalidArgument, perStep)
	}
	parts := h.Parts()
	slices.SortStableFunc(parts, func(a, b model.Part) int { return cmp.Compare(a.Step, b.Step) })

	lib := h.Library()
	var changed []model.Part
	step, count := 1, 0
	assign := func(p model.Part) {
		if p.Step != step {
			changed = append(changed, p.WithStep(step))
		}
	}
	for _, p := range parts {
		if explodable(lib, p.Key) {
			if count > 0 {
				step++
			}
			assign(p)
			step++
			count = 0
			continue
		}
		if count == perStep {
			step++
			count = 0
		}
		assign(p)
		count++
	}

	if len(changed) > 0 {
		record(h, func(u *undoLog) {
			for _, p := range changed {
				replace(h, u, p)
			}
		})
	}
	h.GoToStep(1)
	return nil
}
