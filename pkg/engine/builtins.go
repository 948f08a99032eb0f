package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites brickyard source into something zygomys reads:
//
//  1. :keyword becomes the string "__kw_keyword", so keywords need no
//     global symbols.
//  2. kebab-case identifiers become snake_case (auto-step -> auto_step);
//     zygomys reads a hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool    { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }
func isKWChar(c byte) bool    { return isIdentChar(c) || c == '-' }

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

type sexpVec3 struct{ v v3.Vec }

func (s *sexpVec3) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpSegment struct{ seg partlib.Segment }

func (s *sexpSegment) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(seg (vec3 %g %g %g) (vec3 %g %g %g))",
		s.seg.P1.X, s.seg.P1.Y, s.seg.P1.Z, s.seg.P2.X, s.seg.P2.Y, s.seg.P2.Z)
}
func (s *sexpSegment) Type() *zygo.RegisteredType { return nil }

type sexpPrimitive struct{ p partlib.Primitive }

func (s *sexpPrimitive) SexpString(*zygo.PrintState) string {
	if s.p.Shape == partlib.ShapeCylinder {
		return fmt.Sprintf("(cylinder %g %g)", s.p.Radius, s.p.Height)
	}
	return fmt.Sprintf("(box %g %g %g)", s.p.Size.X, s.p.Size.Y, s.p.Size.Z)
}
func (s *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

type sexpConnector struct{ c partlib.Connector }

func (s *sexpConnector) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(conn %q)", s.c.Type)
}
func (s *sexpConnector) Type() *zygo.RegisteredType { return nil }

type sexpReference struct{ r partlib.Reference }

func (s *sexpReference) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(ref %q :color %d)", s.r.Key, s.r.Color)
}
func (s *sexpReference) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword arguments
// ---------------------------------------------------------------------------

// kwPrefix marks keyword strings produced by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs is an argument list split into keyword and positional values.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args. A trailing keyword with no value maps to null.
func parseArgs(args []zygo.Sexp) kwArgs {
	out := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			out.positional = append(out.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			out.kw[name] = args[i+1]
			i++
		} else {
			out.kw[name] = zygo.SexpNull
		}
	}
	return out
}

// float reads an optional numeric keyword into dst.
func (a kwArgs) float(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

func (a kwArgs) int(name string, dst *int) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func (a kwArgs) str(name string, dst *string) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = s
	return nil
}

func (a kwArgs) vec(name string, dst *v3.Vec) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = vec
	return nil
}

func (a kwArgs) segment(name string, dst *partlib.Segment) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	seg, ok := v.(*sexpSegment)
	if !ok {
		return fmt.Errorf("%s: expected (seg ...), got %s", name, v.SexpString(nil))
	}
	*dst = seg.seg
	return nil
}

func (a kwArgs) bool(name string, dst *bool) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	b, ok := v.(*zygo.SexpBool)
	if !ok {
		return fmt.Errorf("%s: expected true or false, got %s", name, v.SexpString(nil))
	}
	*dst = b.Val
	return nil
}

// placement reads :at and :rotate (Euler degrees) into a transform.
func (a kwArgs) placement() (geom.Matrix, error) {
	var at, rot v3.Vec
	if err := a.vec("at", &at); err != nil {
		return geom.Matrix{}, err
	}
	if err := a.vec("rotate", &rot); err != nil {
		return geom.Matrix{}, err
	}
	return geom.EulerDegrees(rot).WithOffset(at), nil
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

// toKeywordString accepts a keyword (:vector) or a plain string ("vector").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, err := toString(s)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(str, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return v3.Vec{}, fmt.Errorf("expected (vec3 ...), got %s", s.SexpString(nil))
}

var kinds = map[string]partlib.Kind{
	"part":      partlib.KindPart,
	"submodel":  partlib.KindSubmodel,
	"generated": partlib.KindGenerated,
}

var families = map[string]partlib.Family{
	"point":  partlib.FamilyPoint,
	"rail":   partlib.FamilyRail,
	"vector": partlib.FamilyVector,
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the brickyard functions into env. They append
// to s; lib is only read, to check that placed parts exist.
func registerBuiltins(env *zygo.Zlisp, s *Script, lib partlib.Library) {
	fns := map[string]builtin{
		"vec3":      vec3Builtin,
		"seg":       segBuiltin,
		"box":       boxBuiltin,
		"cylinder":  cylinderBuiltin,
		"conn":      connBuiltin,
		"ref":       refBuiltin,
		"defconn":   defconnBuiltin(s),
		"defpart":   defpartBuiltin(s),
		"defflex":   defflexBuiltin(s),
		"add":       addBuiltin(s, lib),
		"autostep":  autostepBuiltin(s),
		"auto_step": autostepBuiltin(s),
	}
	for name, fn := range fns {
		env.AddFunction(name, fn)
	}
}

// (vec3 x y z)
func vec3Builtin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{v: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (seg (vec3 ...) (vec3 ...))
func segBuiltin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("seg requires 2 points, got %d", len(args))
	}
	p1, err := toVec3(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("seg: p1: %w", err)
	}
	p2, err := toVec3(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("seg: p2: %w", err)
	}
	return &sexpSegment{seg: partlib.Segment{P1: p1, P2: p2}}, nil
}

// (box x y z :at (vec3 ...) :rotate (vec3 ...))
func boxBuiltin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 3 {
		return zygo.SexpNull, fmt.Errorf("box requires 3 sizes, got %d", len(pa.positional))
	}
	sz, err := vec3Builtin(nil, "", pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("box: %w", err)
	}
	p := partlib.Primitive{Shape: partlib.ShapeBox, Size: sz.(*sexpVec3).v}
	if err := primitivePose(pa, &p); err != nil {
		return zygo.SexpNull, fmt.Errorf("box: %w", err)
	}
	return &sexpPrimitive{p: p}, nil
}

// (cylinder radius height :at (vec3 ...) :rotate (vec3 ...))
func cylinderBuiltin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("cylinder requires a radius and a height")
	}
	r, err := toFloat64(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
	}
	h, err := toFloat64(pa.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
	}
	p := partlib.Primitive{Shape: partlib.ShapeCylinder, Radius: r, Height: h}
	if err := primitivePose(pa, &p); err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
	}
	return &sexpPrimitive{p: p}, nil
}

func primitivePose(pa kwArgs, p *partlib.Primitive) error {
	if err := pa.vec("at", &p.At); err != nil {
		return err
	}
	return pa.vec("rotate", &p.Rotate)
}

// (conn "type" p1 p2)
func connBuiltin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("conn requires a type and 2 points, got %d arguments", len(args))
	}
	typ, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("conn: type: %w", err)
	}
	seg, err := segBuiltin(nil, "", args[1:])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("conn: %w", err)
	}
	s := seg.(*sexpSegment).seg
	return &sexpConnector{c: partlib.Connector{Type: typ, P1: s.P1, P2: s.P2}}, nil
}

// (ref "key" :color 16 :at (vec3 ...) :rotate (vec3 ...))
func refBuiltin(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("ref requires a part key")
	}
	key, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("ref: key: %w", err)
	}
	r := partlib.Reference{Key: key, Color: model.ColorCurrent}
	if err := pa.int("color", &r.Color); err != nil {
		return zygo.SexpNull, fmt.Errorf("ref: %w", err)
	}
	if r.Transform, err = pa.placement(); err != nil {
		return zygo.SexpNull, fmt.Errorf("ref: %w", err)
	}
	return &sexpReference{r: r}, nil
}

// (defconn "stud" :family :vector :mate "antistud")
func defconnBuiltin(s *Script) builtin {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("defconn requires a name")
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defconn: name: %w", err)
		}
		t := partlib.ConnType{Name: name, Family: partlib.FamilyVector}
		family := ""
		if err := pa.str("family", &family); err != nil {
			return zygo.SexpNull, fmt.Errorf("defconn %s: %w", name, err)
		}
		if family != "" {
			f, ok := families[family]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defconn %s: unknown family %q", name, family)
			}
			t.Family = f
		}
		if err := pa.str("mate", &t.Mate); err != nil {
			return zygo.SexpNull, fmt.Errorf("defconn %s: %w", name, err)
		}
		s.ConnTypes = append(s.ConnTypes, t)
		return &zygo.SexpStr{S: name}, nil
	}
}

// (defpart "key" :desc "..." :kind :part (box ...) (conn ...) (ref ...) ...)
func defpartBuiltin(s *Script) builtin {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a key")
		}
		key, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: key: %w", err)
		}
		def := partlib.Definition{Key: key, Kind: partlib.KindPart}
		if err := pa.str("desc", &def.Description); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart %s: %w", key, err)
		}
		kind := ""
		if err := pa.str("kind", &kind); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart %s: %w", key, err)
		}
		if kind != "" {
			k, ok := kinds[kind]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defpart %s: unknown kind %q", key, kind)
			}
			def.Kind = k
		}
		for i, item := range pa.positional[1:] {
			switch v := item.(type) {
			case *sexpPrimitive:
				def.Primitives = append(def.Primitives, v.p)
			case *sexpConnector:
				def.Connectors = append(def.Connectors, v.c)
			case *sexpReference:
				def.Refs = append(def.Refs, v.r)
			default:
				return zygo.SexpNull, fmt.Errorf("defpart %s: body %d: expected box, cylinder, conn or ref, got %s",
					key, i+1, item.SexpString(nil))
			}
		}
		s.Defs = append(s.Defs, def)
		return &zygo.SexpStr{S: key}, nil
	}
}

// (defflex "hose" :head "end" :tail "end" :mid "link" :start (seg ...)
// :end (seg ...) :mid-vector (seg ...) :rigidity 0.4 :max-length 200
// :overlap 0.5 :continuous true)
func defflexBuiltin(s *Script) builtin {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("defflex requires a key")
		}
		key, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defflex: key: %w", err)
		}
		f := partlib.FlexPart{Key: key}
		steps := []error{
			pa.str("desc", &f.Description),
			pa.str("head", &f.Head),
			pa.str("tail", &f.Tail),
			pa.str("mid", &f.Mid),
			pa.segment("start", &f.Start),
			pa.segment("end", &f.End),
			pa.segment("mid-vector", &f.MidVector),
			pa.float("rigidity", &f.Rigidity),
			pa.float("max-length", &f.MaxLength),
			pa.float("overlap", &f.Overlap),
			pa.bool("continuous", &f.Continuous),
		}
		for _, err := range steps {
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defflex %s: %w", key, err)
			}
		}
		if f.Head == "" || f.Tail == "" || f.Mid == "" {
			return zygo.SexpNull, fmt.Errorf("defflex %s: :head, :tail and :mid are required", key)
		}
		s.Flex = append(s.Flex, f)
		return &zygo.SexpStr{S: key}, nil
	}
}

// (add "key" :color 4 :at (vec3 ...) :rotate (vec3 ...) :step 1)
func addBuiltin(s *Script, lib partlib.Library) builtin {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("add requires a part key")
		}
		key, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add: key: %w", err)
		}
		if !s.defined(key) && (lib == nil || !lib.Exists(key)) {
			return zygo.SexpNull, fmt.Errorf("add %q: %w", key, partlib.ErrUnknownPart)
		}
		color, step := model.ColorRed, 1
		if err := pa.int("color", &color); err != nil {
			return zygo.SexpNull, fmt.Errorf("add %s: %w", key, err)
		}
		if err := pa.int("step", &step); err != nil {
			return zygo.SexpNull, fmt.Errorf("add %s: %w", key, err)
		}
		if step < 1 {
			return zygo.SexpNull, fmt.Errorf("add %s: step must be at least 1, got %d", key, step)
		}
		t, err := pa.placement()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add %s: %w", key, err)
		}
		p := model.New(key, color, t).WithStep(step)
		s.Placed = append(s.Placed, p)
		return &zygo.SexpInt{Val: int64(p.ID)}, nil
	}
}

// (autostep 3)
func autostepBuiltin(s *Script) builtin {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("autostep requires parts per step")
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("autostep: %w", err)
		}
		if n < 1 {
			return zygo.SexpNull, fmt.Errorf("autostep: parts per step must be at least 1, got %d", n)
		}
		s.AutoStep = n
		return zygo.SexpNull, nil
	}
}
