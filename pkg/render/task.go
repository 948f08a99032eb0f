package render

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chazu/brickyard/pkg/model"
)

// batchSize is how many renderables are added between forced updates.
const batchSize = 100

// Task pushes a model snapshot into a Display on its own goroutine.
type Task struct {
	done chan struct{}

	mu       sync.Mutex
	rendered int
	complete bool
}

// StartTask clears d and adds every part of the snapshot to it, updating
// every batchSize parts. Auto redraw is off for the duration. A panic in
// the display or a cancelled ctx ends the task early and reports
// Incomplete; auto redraw is restored either way.
func StartTask(ctx context.Context, d Display, parts []model.Part, prog Progress, log *slog.Logger) *Task {
	if prog == nil {
		prog = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	t := &Task{done: make(chan struct{})}
	go t.run(ctx, d, parts, prog, log)
	return t
}

func (t *Task) run(ctx context.Context, d Display, parts []model.Part, prog Progress, log *slog.Logger) {
	defer close(t.done)
	prog.Started(len(parts))
	ok := t.render(ctx, d, parts, log)

	t.mu.Lock()
	t.complete = ok
	t.mu.Unlock()
	if ok {
		log.Debug("render complete", "parts", len(parts))
		prog.Completed()
	} else {
		prog.Incomplete()
	}
}

func (t *Task) render(ctx context.Context, d Display, parts []model.Part, log *slog.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("render aborted", "panic", r, "rendered", t.Rendered(), "total", len(parts))
			ok = false
		}
	}()

	d.DisableAutoRedraw()
	defer d.EnableAutoRedraw()
	d.Clear()
	for i, p := range parts {
		if ctx.Err() != nil {
			log.Info("render cancelled", "rendered", i, "total", len(parts))
			return false
		}
		d.AddRenderable(p)
		t.mu.Lock()
		t.rendered = i + 1
		t.mu.Unlock()
		if (i+1)%batchSize == 0 {
			d.Update()
		}
	}
	return true
}

// Wait blocks until the task has finished.
func (t *Task) Wait() { <-t.done }

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Rendered returns how many parts have been added so far.
func (t *Task) Rendered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendered
}

// Complete reports whether every part was added. It is false until the
// task finishes.
func (t *Task) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.complete
}
