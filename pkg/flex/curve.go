// Package flex fits flexible parts (hoses, cables, chains) between a head
// and a tail pose: it samples a constrained Bezier path, reduces it to
// knots, and places middle segments along it.
package flex

import (
	"math"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultRigidity is used when a descriptor leaves Rigidity unset.
const DefaultRigidity = 0.4

// straightDot is the dot product above which two consecutive directions
// count as the same direction (about 0.81 degrees).
const straightDot = 0.9999

const tiny = 1e-9

// Bezier samples a piecewise cubic path from start.P1 through every
// constraint's P1 to end.P1. The path leaves start along its direction,
// passes each constraint along the constraint's direction, and arrives at
// end against end's direction (end points from the tail into the body).
// Handles are rigidity times the chord of each piece.
//
// About resolution samples are spread over the pieces by chord length. The
// first and last samples are exactly start.P1 and end.P1.
func Bezier(start, end partlib.Segment, constraints []partlib.Segment, rigidity float64, resolution int) []v3.Vec {
	if rigidity <= 0 {
		rigidity = DefaultRigidity
	}
	knots := make([]v3.Vec, 0, len(constraints)+2)
	dirs := make([]v3.Vec, 0, len(constraints)+2)
	knots = append(knots, start.P1)
	dirs = append(dirs, start.Direction())
	for _, c := range constraints {
		knots = append(knots, c.P1)
		dirs = append(dirs, c.Direction())
	}
	knots = append(knots, end.P1)
	dirs = append(dirs, end.Direction().MulScalar(-1))

	var total float64
	for i := 0; i+1 < len(knots); i++ {
		total += geom.Dist(knots[i], knots[i+1])
	}
	if total < tiny {
		return []v3.Vec{start.P1, end.P1}
	}
	if resolution < 2 {
		resolution = 2
	}

	out := make([]v3.Vec, 0, resolution+len(knots))
	for i := 0; i+1 < len(knots); i++ {
		p0, p3 := knots[i], knots[i+1]
		chord := geom.Dist(p0, p3)
		if chord < tiny {
			continue
		}
		t0 := tangent(dirs[i], p3.Sub(p0))
		t1 := tangent(dirs[i+1], p3.Sub(p0))
		h := rigidity * chord
		p1 := p0.Add(t0.MulScalar(h))
		p2 := p3.Sub(t1.MulScalar(h))

		n := int(math.Round(float64(resolution) * chord / total))
		if n < 1 {
			n = 1
		}
		out = append(out, p0)
		for j := 1; j < n; j++ {
			out = append(out, cubic(p0, p1, p2, p3, float64(j)/float64(n)))
		}
	}
	return append(out, end.P1)
}

// tangent returns the unit direction d, falling back to the chord when d
// has no length.
func tangent(d, chord v3.Vec) v3.Vec {
	if u, ok := geom.Unit(d); ok {
		return u
	}
	u, _ := geom.Unit(chord)
	return u
}

func cubic(p0, p1, p2, p3 v3.Vec, t float64) v3.Vec {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return p0.MulScalar(a).Add(p1.MulScalar(b)).Add(p2.MulScalar(c)).Add(p3.MulScalar(d))
}

// Simplify reduces a polyline to knots: a sample is dropped when the
// direction from the last kept knot to it and the direction from it to the
// next sample are nearly the same. A straight run collapses to its two
// ends. Repeated points are dropped.
func Simplify(points []v3.Vec) []v3.Vec {
	if len(points) == 0 {
		return nil
	}
	out := []v3.Vec{points[0]}
	last := points[0]
	for i := 1; i+1 < len(points); i++ {
		ps, pe := points[i], points[i+1]
		d1, ok1 := geom.Unit(ps.Sub(last))
		d2, ok2 := geom.Unit(pe.Sub(ps))
		if !ok1 || !ok2 {
			continue
		}
		if d1.Dot(d2) > straightDot {
			continue
		}
		out = append(out, ps)
		last = ps
	}
	if final := points[len(points)-1]; len(points) > 1 && geom.Dist(final, last) > tiny {
		out = append(out, final)
	}
	return out
}

// Resolution returns the number of raw samples to take for a flex part
// whose ends are at a and b.
func Resolution(desc partlib.FlexPart, a, b v3.Vec) int {
	dist := geom.Dist(a, b)
	var n int
	if desc.Continuous {
		if desc.MaxLength > 0 {
			n = int(desc.MaxLength*2) + 1
		} else {
			n = int(dist) + 1
		}
	} else {
		step := desc.MidVector.Length() - desc.Overlap
		if step <= tiny {
			step = 1
		}
		if desc.MaxLength > 0 {
			n = int(desc.MaxLength/step*5) + 1
		} else {
			n = int(dist/step*5) + 1
		}
	}
	if n < 2 {
		n = 2
	}
	return n
}
