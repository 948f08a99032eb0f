package editor

import (
	"context"

	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/render"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Working grid
// ---------------------------------------------------------------------------

// AlignGridToSelected moves the grid onto the single selected part. It
// reports false unless exactly one part is selected.
func (e *Editor) AlignGridToSelected() bool {
	parts := e.selectedParts()
	if len(parts) != 1 {
		return false
	}
	e.plane.AlignTo(parts[0].Transform)
	e.DispatchMatrixChanged()
	return true
}

func (e *Editor) ResetGrid() {
	e.plane.ResetGrid()
	e.DispatchMatrixChanged()
}

// ShiftGrid moves the grid along axis by steps snap pitches.
func (e *Editor) ShiftGrid(axis v3.Vec, steps int) {
	e.plane.Shift(axis, steps)
	e.DispatchMatrixChanged()
}

func (e *Editor) AlignGridXY() { e.plane.AlignXY(); e.DispatchMatrixChanged() }
func (e *Editor) AlignGridYZ() { e.plane.AlignYZ(); e.DispatchMatrixChanged() }
func (e *Editor) AlignGridXZ() { e.plane.AlignXZ(); e.DispatchMatrixChanged() }

// ResetPointer puts the pointer orientation back to identity.
func (e *Editor) ResetPointer() {
	e.plane.ResetMatrix()
	e.DispatchMatrixChanged()
}

// ---------------------------------------------------------------------------
// Checks and rendering
// ---------------------------------------------------------------------------

// FindDuplicateConnections reports coinciding connectors of the same type,
// usually two copies of a part placed on top of each other.
func (e *Editor) FindDuplicateConnections(tol float64) []connect.Duplicate {
	if tol <= 0 {
		tol = connect.DefaultDuplicateTolerance
	}
	dups := e.index.FindDuplicates(tol)
	e.log.Info("duplicate check", "pairs", len(dups))
	return dups
}

// StartRender redraws the whole model in the background from a snapshot.
// The editor may keep dispatching while the task runs.
func (e *Editor) StartRender(ctx context.Context, prog render.Progress) *render.Task {
	return render.StartTask(ctx, e.display, e.model.Parts(), prog, e.log)
}
