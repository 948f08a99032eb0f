package editor

import (
	"fmt"

	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/tool"
)

// ---------------------------------------------------------------------------
// Build steps
// ---------------------------------------------------------------------------

func (e *Editor) CurrentStep() int               { return e.model.CurrentStep() }
func (e *Editor) NumSteps() int                  { return e.model.NumSteps() }
func (e *Editor) PartsInStep(s int) []model.Part { return e.model.PartsInStep(s) }

func (e *Editor) NextStep() int  { return e.GoToStep(e.model.CurrentStep() + 1) }
func (e *Editor) PrevStep() int  { return e.GoToStep(e.model.CurrentStep() - 1) }
func (e *Editor) FirstStep() int { return e.GoToStep(1) }
func (e *Editor) LastStep() int  { return e.GoToStep(e.model.NumSteps()) }

// GoToStep makes s the current step, clamped to the model's steps plus one
// empty step past the end, and tells the active tool.
func (e *Editor) GoToStep(s int) int {
	cur := e.model.SetStep(s)
	if e.active != nil {
		e.active.StepChanged(e, cur)
	}
	return cur
}

// MoveToStep moves a part to build step s as one undoable edit.
func (e *Editor) MoveToStep(id, s int) error {
	p, ok := e.model.Get(id)
	if !ok {
		return fmt.Errorf("%w: no part %d", ErrInvalidArgument, id)
	}
	if s < 1 {
		return fmt.Errorf("%w: step %d", ErrInvalidArgument, s)
	}
	if p.Step == s {
		return nil
	}
	next := p.WithStep(s)
	e.record(func() {
		prev, _ := e.AddPart(next)
		e.undo.RecordDelete(prev)
		e.undo.RecordAdd(next)
	})
	e.notify()
	return nil
}

// AutoStep splits the model into steps of perStep parts.
func (e *Editor) AutoStep(perStep int) error {
	if err := tool.AutoStep(e, perStep); err != nil {
		return err
	}
	e.log.Info("auto step", "per_step", perStep, "steps", e.model.NumSteps())
	e.notify()
	return nil
}
