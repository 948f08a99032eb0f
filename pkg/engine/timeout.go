package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds one evaluation unless WithTimeout says otherwise.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to an evaluation that finished after a newer
	// one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation limit. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// outcome is what an evaluating goroutine hands back.
type outcome struct {
	script *Script
	errors []EvalError
	err    error
}

// await collects the outcome of evaluation number gen. Only the latest
// evaluation may deliver; an earlier one that finishes late gets
// ErrSuperseded. On timeout the goroutine is abandoned and finishes into
// its own buffered channel and Script.
func (e *Engine) await(ch <-chan outcome, gen uint64) (*Script, []EvalError, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	select {
	case o := <-ch:
		if latest := e.latest.Load(); gen != latest {
			return nil, nil, fmt.Errorf("%w (%d, now %d)", ErrSuperseded, gen, latest)
		}
		return o.script, o.errors, o.err
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
