// Package engine runs brickyard scripts. A script is a zygomys Lisp program
// that defines connection types, library parts and flexible parts, and
// places parts into the edited model.
//
// Evaluation never touches the editor or the catalog. It produces a Script
// that the caller installs and applies from its own dispatch loop, so an
// evaluation abandoned on timeout cannot race the editor.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chazu/brickyard/pkg/partlib"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a parse or runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates scripts. It is safe for concurrent use; every call to
// Evaluate gets a fresh sandbox.
type Engine struct {
	latest  atomic.Uint64
	timeout time.Duration
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns what it defined and placed. lib is
// consulted read-only so scripts can place parts that already exist; it
// may be nil.
//
// A parse or runtime error yields a nil Script and the errors; a timeout,
// a panic or a superseded evaluation yields a non-nil error.
func (e *Engine) Evaluate(source string, lib partlib.Library) (*Script, []EvalError, error) {
	gen := e.latest.Add(1)

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := evaluate(source, lib)
		ch <- outcome{script: s, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

func evaluate(source string, lib partlib.Library) (*Script, []EvalError, error) {
	s := &Script{}
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s, lib)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return s, nil, nil
}

var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// parseZygomysError turns a zygomys error into EvalErrors, keeping the line
// number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
