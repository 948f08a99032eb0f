package tool

import "github.com/chazu/brickyard/pkg/model"

// Delete removes parts: the selection when it starts, then every clicked
// or window-selected part until it is reset.
type Delete struct {
	nop
}

func (*Delete) Name() string { return "del" }

func (d *Delete) Start(h Host, params ...any) error {
	if err := arity("del", params, 0); err != nil {
		return err
	}
	ids := h.Selected()
	h.UnselectAll()
	deleteParts(h, ids)
	return nil
}

func (*Delete) Reset(Host) {}

func (*Delete) Click(h Host, p Pick) bool {
	if p.PartID != 0 && p.Mode == PickNone {
		deleteParts(h, []int{p.PartID})
	}
	return true
}

func (*Delete) WindowSelected(h Host, ids []int) { deleteParts(h, ids) }

// deleteParts removes the parts still in the model in one transaction.
func deleteParts(h Host, ids []int) {
	var parts []model.Part
	for _, id := range ids {
		if p, ok := h.Part(id); ok {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return
	}
	record(h, func(u *undoLog) {
		for _, p := range parts {
			if removed, ok := h.DeletePart(p); ok {
				u.RecordDelete(removed)
			}
		}
	})
}
