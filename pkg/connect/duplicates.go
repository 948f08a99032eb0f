package connect

import (
	"sort"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/samber/lo"
)

// DefaultDuplicateTolerance is the per-component tolerance used to decide
// that two connectors coincide.
const DefaultDuplicateTolerance = 0.001

// Duplicate is a pair of coinciding connectors of the same type. A precedes
// B in insertion order.
type Duplicate struct {
	A Point
	B Point
}

// FindDuplicates reports every pair of same-type connectors whose P1 and P2
// agree within tol on all six coordinates. Types are scanned in name order
// and pairs in insertion order.
func (ix *Index) FindDuplicates(tol float64) []Duplicate {
	groups := lo.GroupBy(ix.all, func(e *entry) string { return e.Type })
	types := lo.Keys(groups)
	sort.Strings(types)

	var out []Duplicate
	for _, typ := range types {
		es := groups[typ]
		for i := 0; i < len(es); i++ {
			for j := i + 1; j < len(es); j++ {
				a, b := es[i], es[j]
				if geom.Near(a.P1, b.P1, tol) && geom.Near(a.P2, b.P2, tol) {
					out = append(out, Duplicate{A: a.Point, B: b.Point})
				}
			}
		}
	}
	return out
}
