package flex

import (
	"math"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Continuous places one stretched middle segment per knot pair. Each
// segment is scaled along the middle reference axis so that it spans its
// knot pair plus the overlap, and is turned from the previous segment's
// direction onto its own so the chain does not twist.
func Continuous(desc partlib.FlexPart, knots []v3.Vec) []geom.Matrix {
	mid := desc.MidVector
	length := mid.Length()
	if length < tiny {
		return nil
	}
	axis, _ := geom.Unit(mid.Direction())

	var out []geom.Matrix
	rot := geom.Identity()
	prev := mid.Direction()
	for i := 0; i+1 < len(knots); i++ {
		p1, p2 := knots[i], knots[i+1]
		dir := p2.Sub(p1)
		seg := dir.Length()
		if seg < tiny {
			continue
		}
		rot = geom.Align(prev, dir).Mul(rot)
		f := (seg + desc.Overlap) / length
		m := rot.Mul(geom.Scaling(v3.Vec{
			X: stretch(axis.X, f),
			Y: stretch(axis.Y, f),
			Z: stretch(axis.Z, f),
		}))
		out = append(out, m.WithOffset(p1.Sub(m.ApplyVector(mid.P1))))
		prev = dir
	}
	return out
}

// stretch scales an axis component: full factor along the reference axis,
// none across it.
func stretch(c, f float64) float64 {
	return 1 + (f-1)*math.Abs(c)
}

// Discrete walks the raw samples and drops a knot each time the chord from
// the previous knot reaches the segment pitch (middle length minus overlap),
// placing it exactly one pitch along that chord. The last sample closes the
// chain. One unscaled middle segment goes on each knot pair.
//
// A middle vector that starts away from the part origin delays the first
// knot: it goes on the chord to the first sample at least that far from the
// start, at that distance minus the overlap. A path that never gets that far
// holds no segments.
func Discrete(desc partlib.FlexPart, samples []v3.Vec) []geom.Matrix {
	mid := desc.MidVector
	step := mid.Length() - desc.Overlap
	if step < tiny || len(samples) < 2 {
		return nil
	}

	first, rest := samples[0], samples[1:]
	if init := mid.P1.Length(); init > tiny {
		s, i, ok := lo.FindIndexOf(rest, func(s v3.Vec) bool { return geom.Dist(s, first) >= init })
		if !ok {
			return nil
		}
		dir, _ := geom.Unit(s.Sub(first))
		first = first.Add(dir.MulScalar(init - desc.Overlap))
		rest = rest[i:]
	}

	knots := []v3.Vec{first}
	last := first
	for _, s := range rest {
		for geom.Dist(s, last) >= step {
			dir, _ := geom.Unit(s.Sub(last))
			last = last.Add(dir.MulScalar(step))
			knots = append(knots, last)
		}
	}
	if end := samples[len(samples)-1]; geom.Dist(end, last) > tiny {
		knots = append(knots, end)
	}

	var out []geom.Matrix
	rot := geom.Identity()
	prev := mid.Direction()
	for i := 0; i+1 < len(knots); i++ {
		dir := knots[i+1].Sub(knots[i])
		if dir.Length() < tiny {
			continue
		}
		rot = geom.Align(prev, dir).Mul(rot)
		out = append(out, rot.WithOffset(knots[i].Sub(rot.ApplyVector(mid.P1))))
		prev = dir
	}
	return out
}

// Path returns the raw sampled path for a flex part with its head and tail
// at the given poses. Editors draw it as a live preview.
func Path(desc partlib.FlexPart, head, tail geom.Matrix, constraints []partlib.Segment) []v3.Vec {
	start := desc.Start.Transformed(head)
	end := desc.End.Transformed(tail)
	res := Resolution(desc, start.P1, end.P1)
	return Bezier(start, end, constraints, desc.Rigidity, res)
}

// Segments returns the world poses of the middle segments for a flex part
// with its head and tail at the given poses.
func Segments(desc partlib.FlexPart, head, tail geom.Matrix, constraints []partlib.Segment) []geom.Matrix {
	raw := Path(desc, head, tail, constraints)
	if desc.Continuous {
		return Continuous(desc, Simplify(raw))
	}
	return Discrete(desc, raw)
}

// Generate builds the library entry for a fitted flex part under key. The
// entry holds the head, the tail and every middle segment relative to the
// head position, all in the inherited color. The returned transform places
// an instance of the entry back at the head position.
func Generate(desc partlib.FlexPart, key string, head, tail geom.Matrix, constraints []partlib.Segment) (partlib.Definition, geom.Matrix) {
	origin := head.Offset()
	rebase := geom.Translation(origin.MulScalar(-1))

	refs := []partlib.Reference{
		{Key: desc.Head, Color: model.ColorCurrent, Transform: rebase.Mul(head)},
		{Key: desc.Tail, Color: model.ColorCurrent, Transform: rebase.Mul(tail)},
	}
	for _, m := range Segments(desc, head, tail, constraints) {
		refs = append(refs, partlib.Reference{Key: desc.Mid, Color: model.ColorCurrent, Transform: rebase.Mul(m)})
	}

	def := partlib.Definition{
		Key:         key,
		Description: desc.Description,
		Kind:        partlib.KindGenerated,
		Refs:        refs,
	}
	return def, geom.Translation(origin)
}
