// Package connect tracks the connection points exposed by placed parts and
// answers the snapping questions the editing tools ask: which connector is
// under the pick ray, how a moving part must be posed to sit on a target
// connector, and which connectors are duplicated.
package connect

import (
	"fmt"
	"math"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// Point is a live connector in world coordinates.
type Point struct {
	ID     int
	Type   string
	PartID int
	P1     v3.Vec
	P2     v3.Vec
}

// PartLookup is the only view of the model the index needs.
type PartLookup interface {
	Part(id int) (model.Part, bool)
	IsHidden(id int) bool
}

// pointTol is the half-extent of the R-tree box stored for each point.
const pointTol = 0.01

type entry struct {
	Point
}

func (e *entry) Bounds() rtreego.Rect {
	return rtreego.Point{e.P1.X, e.P1.Y, e.P1.Z}.ToRect(pointTol)
}

// Index holds every connector of every placed part. It is owned by the
// editor and used only from its dispatch loop.
type Index struct {
	lib   partlib.Library
	parts PartLookup

	tree   *rtreego.Rtree
	all    []*entry // insertion order
	byID   map[int]*entry
	byPart map[int][]*entry
	nextID int

	radius  float64
	release float64

	locked    bool
	target    Point
	hasTarget bool
	lastSnap  v3.Vec
}

// NewIndex returns an empty index. radius bounds snapping distance and
// release is how far the cursor may wander from a locked target.
func NewIndex(lib partlib.Library, parts PartLookup, radius, release float64) *Index {
	return &Index{
		lib:     lib,
		parts:   parts,
		tree:    rtreego.NewTree(3, 25, 50),
		byID:    make(map[int]*entry),
		byPart:  make(map[int][]*entry),
		radius:  radius,
		release: release,
	}
}

// SetTolerances updates the snap radius and lock release distance.
func (ix *Index) SetTolerances(radius, release float64) {
	ix.radius = radius
	ix.release = release
}

// AddConnections tracks the connectors of p at its current pose, replacing
// any connectors previously tracked for the same id.
func (ix *Index) AddConnections(p model.Part) error {
	ix.RemoveConnections(p)
	conns, err := partlib.Connectors(ix.lib, p.Key, p.Transform)
	if err != nil {
		return fmt.Errorf("connect: add %d: %w", p.ID, err)
	}
	for _, c := range conns {
		ix.nextID++
		e := &entry{Point{ID: ix.nextID, Type: c.Type, PartID: p.ID, P1: c.P1, P2: c.P2}}
		ix.tree.Insert(e)
		ix.all = append(ix.all, e)
		ix.byID[e.ID] = e
		ix.byPart[p.ID] = append(ix.byPart[p.ID], e)
	}
	return nil
}

// RemoveConnections drops every connector owned by p's id, whatever pose
// they were derived from. Unknown ids are ignored.
func (ix *Index) RemoveConnections(p model.Part) {
	es, ok := ix.byPart[p.ID]
	if !ok {
		return
	}
	delete(ix.byPart, p.ID)
	gone := make(map[int]bool, len(es))
	for _, e := range es {
		ix.tree.Delete(e)
		delete(ix.byID, e.ID)
		gone[e.ID] = true
	}
	kept := ix.all[:0]
	for _, e := range ix.all {
		if !gone[e.ID] {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(ix.all); i++ {
		ix.all[i] = nil
	}
	ix.all = kept
	if ix.hasTarget && gone[ix.target.ID] {
		ix.ResetTarget()
	}
}

// Clear drops every connector and the snap state.
func (ix *Index) Clear() {
	ix.tree = rtreego.NewTree(3, 25, 50)
	ix.all = nil
	ix.byID = make(map[int]*entry)
	ix.byPart = make(map[int][]*entry)
	ix.ResetTarget()
}

// Len returns the number of tracked connectors.
func (ix *Index) Len() int { return len(ix.all) }

// Points returns all connectors in insertion order.
func (ix *Index) Points() []Point {
	out := make([]Point, len(ix.all))
	for i, e := range ix.all {
		out[i] = e.Point
	}
	return out
}

// OfPart returns the connectors owned by a part.
func (ix *Index) OfPart(id int) []Point {
	es := ix.byPart[id]
	out := make([]Point, len(es))
	for i, e := range es {
		out[i] = e.Point
	}
	return out
}

// Point returns the connector with the given id.
func (ix *Index) Point(id int) (Point, bool) {
	e, ok := ix.byID[id]
	if !ok {
		return Point{}, false
	}
	return e.Point, true
}

// live reports whether a connector may be offered to the user.
func (ix *Index) live(e *entry) bool {
	if _, ok := ix.parts.Part(e.PartID); !ok {
		return false
	}
	return !ix.parts.IsHidden(e.PartID)
}

// FindNearest returns the live connector closest to the pick ray, breaking
// ties by distance to the cursor. Nothing is returned when the best
// connector is farther than the snap radius from the ray.
func (ix *Index) FindNearest(cursor v3.Vec, ray geom.Ray) (Point, bool) {
	var best *entry
	bestRay, bestCur := math.Inf(1), math.Inf(1)
	for _, e := range ix.all {
		if !ix.live(e) {
			continue
		}
		d := ray.DistanceTo(e.P1)
		c := geom.Dist(cursor, e.P1)
		if d < bestRay-1e-9 || (math.Abs(d-bestRay) <= 1e-9 && c < bestCur) {
			best, bestRay, bestCur = e, d, c
		}
	}
	if best == nil || bestRay > ix.radius {
		return Point{}, false
	}
	return best.Point, true
}

// NearestOnPart returns the connector of part id closest to the pick ray.
func (ix *Index) NearestOnPart(id int, ray geom.Ray) (Point, bool) {
	var best *entry
	bestRay := math.Inf(1)
	for _, e := range ix.byPart[id] {
		if d := ray.DistanceTo(e.P1); d < bestRay {
			best, bestRay = e, d
		}
	}
	if best == nil {
		return Point{}, false
	}
	return best.Point, true
}

// candidates returns the live connectors whose P1 lies in the snap box
// around the cursor, in insertion order.
func (ix *Index) candidates(cursor v3.Vec) []*entry {
	if ix.radius <= 0 {
		return nil
	}
	r := ix.radius
	box, err := rtreego.NewRect(
		rtreego.Point{cursor.X - r, cursor.Y - r, cursor.Z - r},
		[]float64{2 * r, 2 * r, 2 * r},
	)
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(box)
	found := make(map[int]bool, len(hits))
	for _, h := range hits {
		found[h.(*entry).ID] = true
	}
	var out []*entry
	for _, e := range ix.all {
		if found[e.ID] && ix.live(e) {
			out = append(out, e)
		}
	}
	return out
}

// connType resolves a type name; unknown names get a mate-less type that
// is compatible with nothing.
func (ix *Index) connType(name string) partlib.ConnType {
	if t, ok := ix.lib.ConnType(name); ok {
		return t
	}
	return partlib.ConnType{Name: name, Family: partlib.FamilyPoint}
}
