package engine

import (
	"fmt"

	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
)

// Script is what an evaluation produced, in source order.
type Script struct {
	ConnTypes []partlib.ConnType
	Defs      []partlib.Definition
	Flex      []partlib.FlexPart
	// Placed are new parts, each with a fresh id.
	Placed []model.Part
	// AutoStep is the parts-per-step of a trailing (autostep n), or 0.
	AutoStep int
}

// defined reports whether the script itself defines key.
func (s *Script) defined(key string) bool {
	for _, d := range s.Defs {
		if d.Key == key {
			return true
		}
	}
	return false
}

// Registry receives a script's library entries. *partlib.Catalog is one.
type Registry interface {
	DefineConnType(t partlib.ConnType) error
	Define(def partlib.Definition) error
	DefineFlex(f partlib.FlexPart) error
}

// Target receives a script's model changes. *editor.Editor is one.
type Target interface {
	// InsertParts adds parts to the model as one undoable edit.
	InsertParts(parts []model.Part) int
	AutoStep(perStep int) error
}

// Install registers the script's connection types, parts and flexible
// parts, in that order.
func (s *Script) Install(r Registry) error {
	for _, t := range s.ConnTypes {
		if err := r.DefineConnType(t); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	for _, d := range s.Defs {
		if err := r.Define(d); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	for _, f := range s.Flex {
		if err := r.DefineFlex(f); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	return nil
}

// Apply places the script's parts and runs its auto-step, if any. It
// returns the number of parts placed.
func (s *Script) Apply(t Target) (int, error) {
	n := 0
	if len(s.Placed) > 0 {
		n = t.InsertParts(s.Placed)
	}
	if s.AutoStep > 0 {
		if err := t.AutoStep(s.AutoStep); err != nil {
			return n, fmt.Errorf("apply: %w", err)
		}
	}
	return n, nil
}

// Run installs then applies s.
func (s *Script) Run(r Registry, t Target) (int, error) {
	if err := s.Install(r); err != nil {
		return 0, err
	}
	return s.Apply(t)
}
