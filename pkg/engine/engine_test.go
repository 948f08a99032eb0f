package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateEmptySource(t *testing.T) {
	eng := NewEngine()
	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := eng.Evaluate(src, nil)
		if err != nil {
			t.Fatalf("%q: unexpected fatal error: %v", src, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("%q: unexpected eval errors: %v", src, evalErrs)
		}
		if s == nil || len(s.Defs) != 0 || len(s.Placed) != 0 {
			t.Errorf("%q: script = %+v, want empty", src, s)
		}
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	eng := NewEngine()
	source := `
(def x 10)
(def y 20)
(+ x y)
`
	s, evalErrs, err := eng.Evaluate(source, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected a script")
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(+ 1 2"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"error on second line", "(+ 1 2)\n(+ 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, evalErrs, err := NewEngine().Evaluate(tt.source, nil)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if s != nil {
				t.Fatal("expected nil script on error")
			}
			if len(evalErrs) == 0 || evalErrs[0].Message == "" {
				t.Fatalf("eval errors = %v", evalErrs)
			}
		})
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if s := e.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}
	e2 := EvalError{Message: "no location"}
	if s := e2.Error(); strings.Contains(s, "line") {
		t.Errorf("Error() without a line = %q", s)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	e := NewEngine(WithTimeout(20 * time.Millisecond))
	gen := e.latest.Add(1)

	start := time.Now()
	_, _, err := e.await(make(chan outcome), gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "20ms") {
		t.Errorf("error %q does not name the limit", err)
	}
	if waited := time.Since(start); waited > DefaultTimeout {
		t.Errorf("waited %s, want the configured limit", waited)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	e := NewEngine()
	e.latest.Store(2)
	ch := make(chan outcome, 1)
	ch <- outcome{script: &Script{}}

	s, _, err := e.await(ch, 1)
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected superseded error, got %v", err)
	}
	if s != nil {
		t.Error("stale script returned")
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	if e := NewEngine(WithTimeout(0)); e.timeout != DefaultTimeout {
		t.Errorf("timeout = %s, want %s", e.timeout, DefaultTimeout)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: bad vec3", 3, "bad vec3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
