package undo

import (
	"reflect"
	"testing"
)

type item struct {
	id  int
	val string
}

// store is a minimal keyed store that replays actions the way the editor
// does, including the "only remove the value that was recorded" guard.
type store map[int]item

func (s store) undo(actions []Action[item]) {
	for _, a := range actions {
		switch a.Op {
		case OpDelete:
			s[a.Item.id] = a.Item
		case OpAdd:
			if cur, ok := s[a.Item.id]; ok && cur == a.Item {
				delete(s, a.Item.id)
			}
		}
	}
}

func (s store) redo(actions []Action[item]) {
	for _, a := range actions {
		switch a.Op {
		case OpDelete:
			if cur, ok := s[a.Item.id]; ok && cur == a.Item {
				delete(s, a.Item.id)
			}
		case OpAdd:
			s[a.Item.id] = a.Item
		}
	}
}

func (s store) clone() store {
	c := store{}
	for k, v := range s {
		c[k] = v
	}
	return c
}

func TestUndoRedoRestoresExactContent(t *testing.T) {
	s := store{1: {1, "a"}, 2: {2, "b"}}
	l := New[item]()

	// One transaction: delete 1, add 3, replace 2 with a new value.
	l.StartTransaction()
	delete(s, 1)
	l.RecordDelete(item{1, "a"})
	s[3] = item{3, "c"}
	l.RecordAdd(item{3, "c"})
	l.RecordDelete(item{2, "b"})
	s[2] = item{2, "B"}
	l.RecordAdd(item{2, "B"})
	l.EndTransaction()

	after := s.clone()

	s.undo(l.Undo())
	want := store{1: {1, "a"}, 2: {2, "b"}}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("after undo = %v, want %v", s, want)
	}

	s.redo(l.Redo())
	if !reflect.DeepEqual(s, after) {
		t.Fatalf("after redo = %v, want %v", s, after)
	}
}

func TestUndoReplayOrder(t *testing.T) {
	l := New[item]()
	l.StartTransaction()
	l.RecordAdd(item{1, "new"})
	l.RecordDelete(item{1, "old"})
	l.RecordAdd(item{2, "x"})
	l.EndTransaction()

	got := l.Undo()
	want := []Action[item]{
		{OpDelete, item{1, "old"}},
		{OpAdd, item{1, "new"}},
		{OpAdd, item{2, "x"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Undo() = %v, want %v", got, want)
	}
}

func TestPeekKeepsRecordingOrder(t *testing.T) {
	l := New[item]()
	l.StartTransaction()
	l.RecordAdd(item{1, "a"})
	l.RecordDelete(item{2, "b"})
	l.EndTransaction()

	peek := l.PeekNextUndoActions()
	if len(peek) != 2 || peek[0].Op != OpAdd || peek[1].Op != OpDelete {
		t.Fatalf("PeekNextUndoActions = %v", peek)
	}
	if l.Depth() != 1 {
		t.Errorf("peek must not pop, depth = %d", l.Depth())
	}
	if l.PeekNextRedoActions() != nil {
		t.Error("nothing to redo yet")
	}
	l.Undo()
	if got := l.PeekNextRedoActions(); len(got) != 2 {
		t.Errorf("PeekNextRedoActions = %v", got)
	}
}

func TestEmptyHistoryIsNoop(t *testing.T) {
	l := New[item]()
	if l.Undo() != nil || l.Redo() != nil {
		t.Fatal("undo/redo on empty history must return nil")
	}
	if l.IsModified() {
		t.Error("no-op undo must not mark modified")
	}
}

func TestNewTransactionClearsRedo(t *testing.T) {
	l := New[item]()
	l.RecordAdd(item{1, "a"})
	l.Undo()
	if !l.IsRedoAvailable() {
		t.Fatal("expected redo to be available")
	}
	l.StartTransaction()
	l.RecordAdd(item{2, "b"})
	l.EndTransaction()
	if l.IsRedoAvailable() {
		t.Error("redo should be cleared by a new transaction")
	}
}

func TestNestedTransactionsCommitOnce(t *testing.T) {
	l := New[item]()
	l.StartTransaction()
	l.RecordAdd(item{1, "a"})
	l.StartTransaction()
	l.RecordAdd(item{2, "b"})
	l.EndTransaction()
	if l.IsUndoAvailable() {
		t.Fatal("inner EndTransaction must not commit")
	}
	l.EndTransaction()
	if l.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", l.Depth())
	}
	if got := len(l.PeekNextUndoActions()); got != 2 {
		t.Errorf("transaction holds %d actions, want 2", got)
	}
}

func TestEmptyTransactionDropped(t *testing.T) {
	l := New[item]()
	l.StartTransaction()
	l.EndTransaction()
	if l.IsUndoAvailable() || l.IsModified() {
		t.Error("empty transaction must not be committed")
	}
	l.EndTransaction() // unbalanced end is harmless
}

func TestRecordOutsideTransaction(t *testing.T) {
	l := New[item]()
	l.RecordAdd(item{1, "a"})
	l.RecordAdd(item{2, "b"})
	if l.Depth() != 2 {
		t.Errorf("each bare record is its own transaction, depth = %d", l.Depth())
	}
}

func TestModifiedFlag(t *testing.T) {
	l := New[item]()
	l.RecordAdd(item{1, "a"})
	l.MarkSaved()
	if l.IsModified() {
		t.Fatal("modified right after MarkSaved")
	}
	if l.SavePoint() != 1 {
		t.Errorf("save point = %d, want 1", l.SavePoint())
	}

	l.RecordAdd(item{2, "b"})
	if !l.IsModified() {
		t.Fatal("commit after save must report modified")
	}

	// Walking back to the save point and forward again stays modified.
	l.Undo()
	if !l.IsModified() {
		t.Error("undo back to the save point still reports modified")
	}
	l.Redo()
	if !l.IsModified() {
		t.Error("redo still reports modified")
	}

	// Undo past the save point and make a new edit.
	l.Undo()
	l.Undo()
	l.RecordAdd(item{3, "c"})
	if !l.IsModified() {
		t.Error("new edit after undoing past the save point must report modified")
	}

	l.MarkSaved()
	if l.IsModified() {
		t.Error("MarkSaved must clear modified")
	}
}

func TestReset(t *testing.T) {
	l := New[item]()
	l.RecordAdd(item{1, "a"})
	l.StartTransaction()
	l.Reset()
	if l.IsUndoAvailable() || l.InTransaction() || l.IsModified() {
		t.Error("Reset must drop all state")
	}
}
