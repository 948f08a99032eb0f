package model

import (
	"testing"

	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNewIDsAreUnique(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == 0 || seen[id] {
			t.Fatalf("duplicate or zero id %d", id)
		}
		seen[id] = true
	}
}

func TestPartValueSemantics(t *testing.T) {
	p := New("3001.dat", ColorRed, geom.Identity())
	q := p.WithColor(ColorBlue).MoveTo(v3.Vec{X: 20})
	if q.ID != p.ID {
		t.Fatal("With* must keep the id")
	}
	if p.Color != ColorRed || p.Offset() != (v3.Vec{}) {
		t.Error("original part was mutated")
	}
	if q.Color != ColorBlue || q.Offset() != (v3.Vec{X: 20}) {
		t.Errorf("unexpected copy %v", q)
	}
	if p == q {
		t.Error("different values must not compare equal")
	}
	if c := p.Clone(); c.ID == p.ID || c.Key != p.Key {
		t.Errorf("Clone = %v", c)
	}
}

func TestAddReplaceKeepsOrder(t *testing.T) {
	m := NewModel("test")
	a := New("a", 1, geom.Identity())
	b := New("b", 1, geom.Identity())
	c := New("c", 1, geom.Identity())
	m.Add(a)
	m.Add(b)
	m.Add(c)

	prev, replaced := m.Add(b.WithColor(4))
	if !replaced || prev != b {
		t.Fatalf("Add replace = %v, %v", prev, replaced)
	}
	parts := m.Parts()
	if len(parts) != 3 || parts[1].ID != b.ID || parts[1].Color != 4 {
		t.Fatalf("Parts() = %v", parts)
	}

	if _, ok := m.Delete(b.ID); !ok {
		t.Fatal("Delete failed")
	}
	if _, ok := m.Delete(b.ID); ok {
		t.Error("second Delete must report false")
	}
	parts = m.Parts()
	if len(parts) != 2 || parts[0].ID != a.ID || parts[1].ID != c.ID {
		t.Errorf("order after delete = %v", parts)
	}
}

func TestStepZeroStoredAsOne(t *testing.T) {
	m := NewModel("")
	p := New("a", 1, geom.Identity()).WithStep(0)
	m.Add(p)
	got, _ := m.Get(p.ID)
	if got.Step != 1 {
		t.Errorf("step = %d, want 1", got.Step)
	}
}

func TestSteps(t *testing.T) {
	m := NewModel("")
	m.Add(New("a", 1, geom.Identity()))
	m.Add(New("b", 1, geom.Identity()).WithStep(2))
	m.Add(New("c", 1, geom.Identity()).WithStep(3))

	if n := m.NumSteps(); n != 3 {
		t.Fatalf("NumSteps = %d, want 3", n)
	}
	if s := m.LastStep(); s != 3 {
		t.Errorf("LastStep = %d", s)
	}
	if s := m.NextStep(); s != 4 {
		t.Errorf("NextStep past the end = %d, want 4", s)
	}
	if s := m.NextStep(); s != 4 {
		t.Errorf("NextStep must clamp, got %d", s)
	}
	m.FirstStep()
	if s := m.PrevStep(); s != 1 {
		t.Errorf("PrevStep must clamp at 1, got %d", s)
	}
	if got := m.PartsInStep(2); len(got) != 1 || got[0].Key != "b" {
		t.Errorf("PartsInStep(2) = %v", got)
	}
}

func TestResolveColor(t *testing.T) {
	if ResolveColor(ColorCurrent, ColorRed) != ColorRed {
		t.Error("current color must inherit from the parent")
	}
	if ResolveColor(ColorBlue, ColorRed) != ColorBlue {
		t.Error("explicit color must be kept")
	}
}
