// Package track implements the track connectivity graph: segments joined
// at directional connection points, junctions gated by switches, and the
// switch-aware paths trains follow.
package track

import (
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"nyiyui.ca/hato/senro/geom"
)

const (
	// DefaultSnapRadius is the distance within which two points may snap.
	DefaultSnapRadius = 1.0
	// DefaultDirTolerance is the cosine threshold for opposing directions.
	DefaultDirTolerance = 0.9
	// connectSafety is the post-alignment distance past which Connect
	// refuses to link (second guard against mis-aligned points).
	connectSafety = 0.5
)

// Point is a directional anchor on a segment. Two segments join by linking
// a point of one to a point of the other; links are always symmetric and a
// point holds at most one link.
type Point struct {
	// Local is the offset from the segment origin, in segment-local space.
	Local geom.Vec2
	// Dir is the unit direction the point faces, in segment-local space.
	// Points connect head to head, so linked points face opposite ways.
	Dir geom.Vec2

	SnapRadius   float64
	DirTolerance float64

	owner  *Segment
	linked *Point
}

// NewPoint returns a point with the default snap radius and direction
// tolerance. dir is normalized.
func NewPoint(local, dir geom.Vec2) *Point {
	return &Point{
		Local:        local,
		Dir:          dir.Normalize(),
		SnapRadius:   DefaultSnapRadius,
		DirTolerance: DefaultDirTolerance,
	}
}

func (p *Point) Owner() *Segment { return p.owner }
func (p *Point) Linked() *Point  { return p.linked }
func (p *Point) IsLinked() bool  { return p.linked != nil }

// Index returns the index of p among its owner's points, or -1 if p is
// orphaned.
func (p *Point) Index() int {
	if p.owner == nil {
		return -1
	}
	return slices.Index(p.owner.Points, p)
}

// WorldPos returns the point's position under the owner's current
// transform. Never cached: the owner's transform may change at any time.
func (p *Point) WorldPos() geom.Vec2 {
	if p.owner == nil {
		return p.Local
	}
	return p.owner.transform.Apply(p.Local)
}

// WorldDir returns the point's facing direction under the owner's current
// transform.
func (p *Point) WorldDir() geom.Vec2 {
	if p.owner == nil {
		return p.Dir
	}
	return p.owner.transform.ApplyDir(p.Dir)
}

// CanConnect reports whether p may link to other: both must be unlinked,
// owned by different segments, within p's snap radius, and (unless
// skipDirCheck) facing nearly opposite directions.
func (p *Point) CanConnect(other *Point, skipDirCheck bool) bool {
	if other == nil || other == p {
		return false
	}
	if p.linked != nil || other.linked != nil {
		return false
	}
	if p.owner != nil && p.owner == other.owner {
		return false
	}
	if p.WorldPos().Dist(other.WorldPos()) > p.SnapRadius {
		return false
	}
	if skipDirCheck {
		return true
	}
	// dot ≤ -tolerance: directions nearly opposite
	return p.WorldDir().Dot(other.WorldDir()) <= -p.DirTolerance
}

// Connect links p and other symmetrically. Geometric validity is the
// caller's business (CanConnect, then usually CalculateAlignment); Connect
// only refuses if either side is already linked or the points are still
// further apart than a tight safety threshold.
func (p *Point) Connect(other *Point) bool {
	if other == nil || other == p {
		return false
	}
	if p.linked != nil || other.linked != nil {
		zap.S().Warnf("track: refusing to connect already-linked points (%s ↔ %s)", p.describe(), other.describe())
		return false
	}
	if p.owner != nil && p.owner == other.owner {
		zap.S().Warnf("track: refusing to connect two points of %s to each other", p.owner.Comment)
		return false
	}
	if d := p.WorldPos().Dist(other.WorldPos()); d > connectSafety {
		zap.S().Warnf("track: refusing to connect points %v apart (%s ↔ %s)", d, p.describe(), other.describe())
		return false
	}
	p.linked = other
	other.linked = p
	markTopologyChanged(p, other)
	return true
}

// Disconnect clears the link on both sides. No-op if p is not linked.
func (p *Point) Disconnect() {
	if p.linked == nil {
		return
	}
	other := p.linked
	other.linked = nil
	p.linked = nil
	markTopologyChanged(p, other)
}

// markTopologyChanged marks the owning graphs of both points stale. Editors
// may link and unlink points directly, so the dirty transition lives here,
// not only in the graph-level wrappers.
func markTopologyChanged(a, b *Point) {
	var ga, gb *Graph
	if a.owner != nil {
		ga = a.owner.graph
	}
	if b.owner != nil {
		gb = b.owner.graph
	}
	if ga != nil {
		ga.markDirty()
	}
	if gb != nil && gb != ga {
		gb.markDirty()
	}
}

// CalculateAlignment returns the transform p's owning segment must adopt so
// that p's world position coincides with target's and p faces exactly
// opposite target. Reports false if p is orphaned or target is nil.
func (p *Point) CalculateAlignment(target *Point) (geom.Transform, bool) {
	if target == nil || p.owner == nil {
		return geom.Transform{}, false
	}
	want := target.WorldDir().Scale(-1)
	delta := want.Angle() - p.WorldDir().Angle()
	rot := p.owner.transform.Rot + delta
	// under the new rotation, p.Local must land on target's position
	pos := target.WorldPos().Sub(p.Local.Rotate(rot))
	return geom.Transform{Pos: pos, Rot: rot}, true
}

func (p *Point) describe() string {
	if p.owner == nil {
		return "orphan"
	}
	return p.owner.Comment
}
