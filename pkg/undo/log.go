// Package undo implements a transactional add/delete log over an arbitrary
// item type.
//
// The log only records what happened; callers replay the returned actions
// against their own store. Undo returns DELETE entries before ADD entries so
// that a restored item is back in place before anything that replaced it is
// taken away.
package undo

import "fmt"

// Op tags an action.
type Op int

const (
	OpAdd Op = iota
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Action is one recorded operation.
type Action[T any] struct {
	Op   Op
	Item T
}

type transaction[T any] []Action[T]

// Log is a stack of committed transactions plus a redo stack. It is not safe
// for concurrent use; the editor drives it from a single dispatch loop.
type Log[T any] struct {
	undo    []transaction[T]
	redo    []transaction[T]
	pending transaction[T]
	depth   int // nesting of StartTransaction calls

	modified  bool
	savePoint int
}

// New returns an empty log.
func New[T any]() *Log[T] {
	return &Log[T]{}
}

// StartTransaction opens a transaction. Nested calls join the open one and
// only the outermost EndTransaction commits. Opening the outermost
// transaction clears the redo stack.
func (l *Log[T]) StartTransaction() {
	if l.depth == 0 {
		l.pending = nil
		l.redo = nil
	}
	l.depth++
}

// InTransaction reports whether a transaction is open.
func (l *Log[T]) InTransaction() bool {
	return l.depth > 0
}

// RecordAdd records that item was added.
func (l *Log[T]) RecordAdd(item T) {
	l.record(Action[T]{Op: OpAdd, Item: item})
}

// RecordDelete records that item was removed.
func (l *Log[T]) RecordDelete(item T) {
	l.record(Action[T]{Op: OpDelete, Item: item})
}

// record appends to the open transaction. Outside a transaction the action
// is committed on its own.
func (l *Log[T]) record(a Action[T]) {
	if l.depth == 0 {
		l.StartTransaction()
		l.pending = append(l.pending, a)
		l.EndTransaction()
		return
	}
	l.pending = append(l.pending, a)
}

// EndTransaction closes the innermost open transaction. When the outermost
// one closes, its actions are committed; an empty transaction is dropped.
// Calling it with nothing open is a no-op.
func (l *Log[T]) EndTransaction() {
	if l.depth == 0 {
		return
	}
	l.depth--
	if l.depth > 0 {
		return
	}
	if len(l.pending) == 0 {
		l.pending = nil
		return
	}
	l.undo = append(l.undo, l.pending)
	l.pending = nil
	l.modified = true
}

// Undo pops the most recent transaction onto the redo stack and returns its
// actions in replay order: DELETE entries first (to be restored), then ADD
// entries (to be removed). It returns nil when nothing can be undone.
func (l *Log[T]) Undo() []Action[T] {
	if !l.IsUndoAvailable() {
		return nil
	}
	tx := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, tx)
	l.modified = true
	return replayOrder(tx)
}

// Redo moves the most recently undone transaction back onto the undo stack
// and returns its actions in replay order: DELETE entries first (to be
// removed again), then ADD entries (to be re-added). It returns nil when
// nothing can be redone.
func (l *Log[T]) Redo() []Action[T] {
	if !l.IsRedoAvailable() {
		return nil
	}
	tx := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, tx)
	l.modified = true
	return replayOrder(tx)
}

// PeekNextUndoActions returns the transaction Undo would replay, in
// recording order, without changing the log.
func (l *Log[T]) PeekNextUndoActions() []Action[T] {
	if len(l.undo) == 0 {
		return nil
	}
	return clone(l.undo[len(l.undo)-1])
}

// PeekNextRedoActions returns the transaction Redo would replay, in
// recording order, without changing the log.
func (l *Log[T]) PeekNextRedoActions() []Action[T] {
	if len(l.redo) == 0 {
		return nil
	}
	return clone(l.redo[len(l.redo)-1])
}

// IsUndoAvailable reports whether Undo would do anything. A transaction
// that is still open cannot be undone.
func (l *Log[T]) IsUndoAvailable() bool {
	return l.depth == 0 && len(l.undo) > 0
}

// IsRedoAvailable reports whether Redo would do anything.
func (l *Log[T]) IsRedoAvailable() bool {
	return l.depth == 0 && len(l.redo) > 0
}

// Depth returns the number of committed transactions on the undo stack.
func (l *Log[T]) Depth() int {
	return len(l.undo)
}

// IsModified reports whether anything was committed, undone or redone since
// the last MarkSaved. Walking back to the save point does not clear it.
func (l *Log[T]) IsModified() bool {
	return l.modified
}

// MarkSaved records the current undo depth as the save point and clears the
// modified flag.
func (l *Log[T]) MarkSaved() {
	l.savePoint = len(l.undo)
	l.modified = false
}

// SavePoint returns the undo depth recorded by the last MarkSaved.
func (l *Log[T]) SavePoint() int {
	return l.savePoint
}

// Reset drops all history, including any open transaction.
func (l *Log[T]) Reset() {
	*l = Log[T]{}
}

func replayOrder[T any](tx transaction[T]) []Action[T] {
	out := make([]Action[T], 0, len(tx))
	for _, a := range tx {
		if a.Op == OpDelete {
			out = append(out, a)
		}
	}
	for _, a := range tx {
		if a.Op == OpAdd {
			out = append(out, a)
		}
	}
	return out
}

func clone[T any](tx transaction[T]) []Action[T] {
	out := make([]Action[T], len(tx))
	copy(out, tx)
	return out
}
