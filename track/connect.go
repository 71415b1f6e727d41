package track

import (
	"math"

	"go.uber.org/zap"
)

// Placement-tool entry points: discovering snap candidates and snapping a
// freshly placed segment onto them.

// FindNearestValidConnection scans every other registered segment's points
// and returns the closest one p could connect to right now (CanConnect
// with the full direction check). ok is false when nothing is in range.
func (g *Graph) FindNearestValidConnection(p *Point) (*Point, bool) {
	return g.nearestPoint(p, func(cand *Point) bool {
		return p.CanConnect(cand, false)
	})
}

// FindNearestPointLoose is the editor-only variant for manual re-snapping:
// it ignores link state and direction, and uses the caller's radius
// instead of the snap radius.
func (g *Graph) FindNearestPointLoose(p *Point, radius float64) (*Point, bool) {
	return g.nearestPoint(p, func(cand *Point) bool {
		return p.WorldPos().Dist(cand.WorldPos()) <= radius
	})
}

func (g *Graph) nearestPoint(p *Point, valid func(*Point) bool) (*Point, bool) {
	var best *Point
	bestDist := math.Inf(1)
	for _, seg := range g.segments {
		if seg == p.owner {
			continue
		}
		for _, cand := range seg.Points {
			if !valid(cand) {
				continue
			}
			if d := p.WorldPos().Dist(cand.WorldPos()); d < bestDist {
				best, bestDist = cand, d
			}
		}
	}
	return best, best != nil
}

// AlignAndConnect moves p's owning segment so p coincides with target
// facing opposite it, then links them. Reports false if the alignment
// could not be computed or the link was refused.
func (g *Graph) AlignAndConnect(p, target *Point) bool {
	t, ok := p.CalculateAlignment(target)
	if !ok {
		return false
	}
	p.owner.SetTransform(t)
	return p.Connect(target)
}

// ConnectNearby snaps seg into the layout: the first unlinked point with a
// valid candidate aligns the whole segment, and the remaining points link
// wherever they already land within the safety threshold. Returns how many
// links were made.
func (g *Graph) ConnectNearby(seg *Segment) int {
	made := 0
	aligned := false
	for _, p := range seg.UnlinkedPoints() {
		cand, ok := g.FindNearestValidConnection(p)
		if !ok {
			continue
		}
		if !aligned {
			if g.AlignAndConnect(p, cand) {
				aligned = true
				made++
			}
			continue
		}
		// the segment already moved; only link points that landed in place
		if p.Connect(cand) {
			made++
		}
	}
	if made == 0 {
		zap.S().Debugf("track: %s found nothing to snap to", seg)
	}
	return made
}
