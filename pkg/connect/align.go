package connect

import (
	"math"

	"github.com/chazu/brickyard/pkg/geom"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/chazu/brickyard/pkg/partlib"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ComputeAlignment poses moving so that one of its connectors sits on the
// nearest compatible live connector around the cursor. pose supplies the
// pointer orientation; its translation is ignored.
//
// When no target qualifies, aligned is false and the returned transform is
// the pointer orientation placed at the cursor. A found target is locked
// and kept until the cursor moves farther than the release distance from
// it; the lock is dropped before any other target is adopted.
func (ix *Index) ComputeAlignment(moving model.Part, pose geom.Matrix, cursor v3.Vec, ray geom.Ray) (aligned bool, m geom.Matrix) {
	rot := pose.Rotation()
	raw := rot.WithOffset(cursor)

	local, err := partlib.Connectors(ix.lib, moving.Key, geom.Identity())
	if err != nil || len(local) == 0 {
		ix.Unlock()
		ix.lastSnap = cursor
		return false, raw
	}

	if ix.locked && ix.hasTarget {
		if e, ok := ix.byID[ix.target.ID]; ok && ix.live(e) && e.PartID != moving.ID &&
			geom.Dist(cursor, e.P1) <= ix.release {
			if lc, ok := ix.bestMovingConnector(e.Point, local, raw); ok {
				m = ix.align(e.Point, lc, rot, cursor)
				ix.lastSnap = m.Offset()
				return true, m
			}
		}
		ix.Unlock()
	}

	var (
		best     *entry
		bestConn partlib.Connector
		bestDist = math.Inf(1)
	)
	for _, e := range ix.candidates(cursor) {
		if e.PartID == moving.ID {
			continue
		}
		lc, ok := ix.bestMovingConnector(e.Point, local, raw)
		if !ok {
			continue
		}
		d := geom.Dist(raw.Apply(lc.P1), e.P1)
		// Prefer the connector nearer the pick ray on near-ties so the
		// snap follows what the user is looking at.
		if d < bestDist-1e-9 || (best != nil && math.Abs(d-bestDist) <= 1e-9 &&
			ray.DistanceTo(e.P1) < ray.DistanceTo(best.P1)) {
			best, bestConn, bestDist = e, lc, d
		}
	}
	if best == nil {
		ix.hasTarget = false
		ix.lastSnap = cursor
		return false, raw
	}

	ix.target = best.Point
	ix.hasTarget = true
	ix.locked = true
	m = ix.align(best.Point, bestConn, rot, cursor)
	ix.lastSnap = m.Offset()
	return true, m
}

// bestMovingConnector picks the moving part's connector compatible with
// target whose P1, at the raw pose, is closest to the target.
func (ix *Index) bestMovingConnector(target Point, local []partlib.Connector, raw geom.Matrix) (partlib.Connector, bool) {
	tt := ix.connType(target.Type)
	var (
		best  partlib.Connector
		found bool
		dist  = math.Inf(1)
	)
	for _, lc := range local {
		if !partlib.Compatible(ix.connType(lc.Type), tt) {
			continue
		}
		if d := geom.Dist(raw.Apply(lc.P1), target.P1); d < dist {
			best, found, dist = lc, true, d
		}
	}
	return best, found
}

// align returns the pose putting lc onto target. Vector and rail targets
// also turn the moving connector's axis onto the target axis; a rail lets
// the connector slide to the cursor's projection onto the rail.
//
// The offset is anchor - R·lc.P1, so lc.P1 lands on the anchor up to float
// rounding: exact for an unrotated connector at the origin, within 1e-9
// model units otherwise.
func (ix *Index) align(target Point, lc partlib.Connector, rot geom.Matrix, cursor v3.Vec) geom.Matrix {
	newRot := rot
	anchor := target.P1
	switch ix.connType(target.Type).Family {
	case partlib.FamilyVector:
		newRot = geom.Align(rot.ApplyVector(lc.P2.Sub(lc.P1)), target.P2.Sub(target.P1)).Mul(rot)
	case partlib.FamilyRail:
		newRot = geom.Align(rot.ApplyVector(lc.P2.Sub(lc.P1)), target.P2.Sub(target.P1)).Mul(rot)
		anchor = projectOnSegment(cursor, target.P1, target.P2)
	}
	return newRot.WithOffset(anchor.Sub(newRot.ApplyVector(lc.P1)))
}

func projectOnSegment(p, a, b v3.Vec) v3.Vec {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.MulScalar(t))
}

// ---------------------------------------------------------------------------
// Sticky target state
// ---------------------------------------------------------------------------

// Lock pins the current target, if any.
func (ix *Index) Lock() {
	if ix.hasTarget {
		ix.locked = true
	}
}

// Unlock releases the pinned target. The target itself is kept until a new
// one is adopted or ResetTarget is called.
func (ix *Index) Unlock() {
	ix.locked = false
}

// IsLocked reports whether a target is pinned.
func (ix *Index) IsLocked() bool {
	return ix.locked
}

// Target returns the last connector snapped to.
func (ix *Index) Target() (Point, bool) {
	return ix.target, ix.hasTarget
}

// LastSnapPoint returns where the last alignment put the moving part's
// origin, or the raw cursor when nothing snapped.
func (ix *Index) LastSnapPoint() v3.Vec {
	return ix.lastSnap
}

// ResetTarget forgets the target and releases the lock.
func (ix *Index) ResetTarget() {
	ix.locked = false
	ix.hasTarget = false
	ix.target = Point{}
}
