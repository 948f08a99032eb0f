package tool

// Recolor paints parts with one color: the selection when it starts, then
// every clicked or window-selected part. A recolored part keeps its id.
type Recolor struct {
	nop
	color int
}

func (*Recolor) Name() string { return "recolor" }

func (r *Recolor) Start(h Host, params ...any) error {
	if err := arity("recolor", params, 1); err != nil {
		return err
	}
	color, err := intParam("recolor", params, 0)
	if err != nil {
		return err
	}
	r.color = color
	ids := h.Selected()
	h.UnselectAll()
	r.paint(h, ids)
	return nil
}

func (*Recolor) Reset(Host) {}

func (r *Recolor) Click(h Host, p Pick) bool {
	if p.PartID != 0 && p.Mode == PickNone {
		r.paint(h, []int{p.PartID})
	}
	return true
}

func (r *Recolor) WindowSelected(h Host, ids []int) { r.paint(h, ids) }

func (r *Recolor) ColorChanged(_ Host, color int) { r.color = color }

func (r *Recolor) paint(h Host, ids []int) {
	var todo []int
	for _, id := range ids {
		if p, ok := h.Part(id); ok && p.Color != r.color {
			todo = append(todo, id)
		}
	}
	if len(todo) == 0 {
		return
	}
	record(h, func(u *undoLog) {
		for _, id := range todo {
			p, _ := h.Part(id)
			replace(h, u, p.WithColor(r.color))
		}
	})
}
