package editor

import (
	"errors"
	"fmt"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ClipboardKey is the scratch library entry holding cut or copied parts.
const ClipboardKey = "__internal_cutpaste__"

// ErrNoSelection is returned by selection commands with nothing selected.
var ErrNoSelection = errors.New("nothing selected")

// ErrEmptyClipboard is returned by Paste before anything was cut or copied.
var ErrEmptyClipboard = errors.New("clipboard is empty")

// rebased returns parts as references placed around their centroid, so the
// group's origin is its centre.
func rebased(parts []model.Part) []partlib.Reference {
	centre := geom.Centroid(lo.Map(parts, func(p model.Part, _ int) v3.Vec { return p.Offset() }))
	shift := geom.Translation(centre.MulScalar(-1))
	return lo.Map(parts, func(p model.Part, _ int) partlib.Reference {
		return partlib.Reference{Key: p.Key, Color: p.Color, Transform: shift.Mul(p.Transform)}
	})
}

// Cut moves the selection to the clipboard, deleting it in one transaction.
func (e *Editor) Cut() { e.cutCopy(true) }

// Copy puts the selection on the clipboard.
func (e *Editor) Copy() { e.cutCopy(false) }

func (e *Editor) cutCopy(cut bool) {
	parts := e.selectedParts()
	if len(parts) == 0 {
		return
	}
	def := partlib.Definition{
		Key:         ClipboardKey,
		Description: "Clipboard",
		Kind:        partlib.KindInternal,
		Refs:        rebased(parts),
	}
	if err := e.lib.RegisterGenerated(def); err != nil {
		e.log.Warn("clipboard", "err", err)
		return
	}
	e.UnselectAll()
	if cut {
		e.record(func() {
			for _, p := range parts {
				if removed, ok := e.DeletePart(p); ok {
					e.undo.RecordDelete(removed)
				}
			}
		})
	}
	e.clipboard = true
	e.listener.PasteAvailable(true)
	e.notify()
}

// Paste starts placing the clipboard content in the current color. Parts
// land as separate parts.
func (e *Editor) Paste() error {
	if !e.clipboard || !e.lib.Exists(ClipboardKey) {
		return ErrEmptyClipboard
	}
	e.plane.ResetMatrix()
	return e.StartTool("add", ClipboardKey, e.settings.CurrentColor, true)
}

// DeleteSelected removes the selected parts in one transaction.
func (e *Editor) DeleteSelected() {
	if err := e.StartTool("del"); err != nil {
		e.log.Warn("delete selection", "err", err)
		return
	}
	e.ResetTool()
}

// ExplodeSelected replaces each selected part whose library entry can be
// exploded with the entry's references, all in one transaction. Leaf parts
// are left alone. It returns how many parts were exploded.
func (e *Editor) ExplodeSelected() int {
	parts := e.selectedParts()
	if len(parts) == 0 {
		return 0
	}
	n := 0
	e.display.DisableAutoRedraw()
	e.UnselectAll()
	e.record(func() {
		for _, p := range parts {
			def, ok := e.lib.Resolve(p.Key)
			if !ok || !def.Explodable() {
				continue
			}
			children := e.Expand(p)
			removed, _ := e.DeletePart(p)
			e.undo.RecordDelete(removed)
			for _, c := range children {
				e.AddPart(c)
				e.undo.RecordAdd(c)
			}
			n++
		}
	})
	e.display.EnableAutoRedraw()
	e.notify()
	return n
}

// SaveSelectedAsBlock registers the selection, centred on its centroid, as
// a new generated library entry and returns its key. The parts stay in the
// model; the entry is marked unsaved.
func (e *Editor) SaveSelectedAsBlock() (string, error) {
	parts := e.selectedParts()
	if len(parts) == 0 {
		return "", ErrNoSelection
	}
	key := blockKey()
	for e.lib.Exists(key) {
		key = blockKey()
	}
	def := partlib.Definition{
		Key:         key,
		Description: "Saved block",
		Kind:        partlib.KindGenerated,
		Refs:        rebased(parts),
	}
	if err := e.lib.RegisterGenerated(def); err != nil {
		return "", fmt.Errorf("save block: %w", err)
	}
	e.MarkUnsaved(key)
	e.log.Info("block saved", "key", key, "parts", len(parts))
	return key, nil
}

func blockKey() string {
	return "block-" + uuid.NewString()[:8] + ".ldr"
}

// record wraps fn in one undo transaction.
func (e *Editor) record(fn func()) {
	e.undo.StartTransaction()
	defer e.undo.EndTransaction()
	fn()
}
