package track

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"nyiyui.ca/hato/senro/geom"
)

// Kind is the geometric kind of a segment.
type Kind int

const (
	Straight Kind = iota
	Curved
	Junction
)

func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Curved:
		return "curved"
	case Junction:
		return "junction"
	default:
		return fmt.Sprintf("kind%d", int(k))
	}
}

const (
	// DefaultBezierSamples is how many waypoints a curved span gets.
	DefaultBezierSamples = 10
	// DefaultControlStrength is the fraction of the endpoint distance the
	// Bezier control points extend along each endpoint's direction.
	DefaultControlStrength = 0.4
)

// Junction point layout: point 0 is the common (facing) point, point 1 the
// straight branch, point 2 the diverging branch.
const (
	CommonPoint     = 0
	StraightBranch  = 1
	DivergingBranch = 2
)

// Segment is one placeable piece of track. It owns its connection points
// and, for junctions, a Switch. Waypoints are cached in segment-local
// space and invalidated on transform or switch changes.
type Segment struct {
	// Comment is a human-readable comment about the segment.
	Comment string
	Kind    Kind
	// Points are the owned connection points. Straight and curved segments
	// have exactly 2; junctions have at least 3 with the common point
	// first.
	Points []*Point
	// Switch is non-nil iff Kind == Junction.
	Switch *Switch

	BezierSamples   int
	ControlStrength float64

	transform geom.Transform
	graph     *Graph

	waypoints      []geom.Vec2
	cacheTransform geom.Transform
	cacheDiverging bool
	cacheValid     bool
}

// NewSegment builds a segment and takes ownership of the given points.
// Junction segments get a Switch. Panics on nil points; an invalid point
// count is left to waypoint generation to complain about (a content error,
// not a programmer error).
func NewSegment(kind Kind, comment string, points ...*Point) *Segment {
	s := &Segment{
		Comment:         comment,
		Kind:            kind,
		Points:          points,
		BezierSamples:   DefaultBezierSamples,
		ControlStrength: DefaultControlStrength,
	}
	for i, p := range points {
		if p == nil {
			panic(fmt.Sprintf("track: segment %s: point %d is nil", comment, i))
		}
		p.owner = s
	}
	if kind == Junction {
		s.Switch = &Switch{owner: s}
	}
	return s
}

func (s *Segment) Transform() geom.Transform { return s.transform }

// SetTransform moves the segment. Its waypoint cache (and any linked
// points' world positions) follow the new transform.
func (s *Segment) SetTransform(t geom.Transform) {
	if s.transform == t {
		return
	}
	s.transform = t
	s.invalidate()
}

// Graph returns the graph the segment is registered with, or nil.
func (s *Segment) Graph() *Graph { return s.graph }

func (s *Segment) invalidate() { s.cacheValid = false }

// IsJunction reports whether the segment is a junction with a usable
// switch and point layout.
func (s *Segment) IsJunction() bool {
	return s.Kind == Junction && s.Switch != nil && len(s.Points) >= 3
}

// activeBranch returns the index of the branch point currently selected by
// the switch. Only meaningful for junctions.
func (s *Segment) activeBranch() int {
	if s.Switch != nil && s.Switch.Diverging() {
		return DivergingBranch
	}
	return StraightBranch
}

// GenerateWaypoints recomputes the local-space waypoint cache for the
// segment's current transform and switch state, and returns it. The
// returned slice is the cache itself; callers must not mutate it.
func (s *Segment) GenerateWaypoints() []geom.Vec2 {
	diverging := s.Switch != nil && s.Switch.Diverging()
	if s.cacheValid && s.cacheTransform == s.transform && s.cacheDiverging == diverging {
		return s.waypoints
	}
	s.waypoints = s.generate()
	s.cacheTransform = s.transform
	s.cacheDiverging = diverging
	s.cacheValid = true
	return s.waypoints
}

func (s *Segment) generate() []geom.Vec2 {
	switch s.Kind {
	case Straight:
		if len(s.Points) != 2 {
			zap.S().Errorf("track: segment %s: straight needs 2 points, has %d", s.Comment, len(s.Points))
			return nil
		}
		return []geom.Vec2{s.Points[0].Local, s.Points[1].Local}
	case Curved:
		if len(s.Points) != 2 {
			zap.S().Errorf("track: segment %s: curve needs 2 points, has %d", s.Comment, len(s.Points))
			return nil
		}
		return s.bezierSpan(0, 1)
	case Junction:
		if len(s.Points) < 3 {
			zap.S().Errorf("track: segment %s: junction needs ≥3 points, has %d", s.Comment, len(s.Points))
			return nil
		}
		return s.bezierSpan(CommonPoint, s.activeBranch())
	default:
		zap.S().Errorf("track: segment %s: unknown kind %s", s.Comment, s.Kind)
		return nil
	}
}

// bezierSpan samples a cubic Bezier between two owned points, in local
// space. Control points extend from each endpoint along its own direction,
// into the segment, by endpoint distance × ControlStrength.
func (s *Segment) bezierSpan(entryI, exitI int) []geom.Vec2 {
	entry, exit := s.Points[entryI], s.Points[exitI]
	d := entry.Local.Dist(exit.Local)
	// points face outward, so "into the segment" is the negative direction
	c0 := entry.Local.Sub(entry.Dir.Scale(d * s.ControlStrength))
	c1 := exit.Local.Sub(exit.Dir.Scale(d * s.ControlStrength))
	n := s.BezierSamples
	if n < 2 {
		n = DefaultBezierSamples
	}
	return geom.SampleCubic(entry.Local, c0, c1, exit.Local, n)
}

// Waypoints returns the segment's waypoints in world space, following the
// current switch state. The result is freshly allocated.
func (s *Segment) Waypoints() []geom.Vec2 {
	local := s.GenerateWaypoints()
	out := make([]geom.Vec2, len(local))
	for i, p := range local {
		out[i] = s.transform.Apply(p)
	}
	return out
}

// WaypointsBetween returns world-space waypoints from point entryI to point
// exitI without touching the shared cache. Paths use this for junctions so
// that two paths taking different routes through the same junction never
// interfere.
func (s *Segment) WaypointsBetween(entryI, exitI int) []geom.Vec2 {
	if entryI < 0 || exitI < 0 || entryI >= len(s.Points) || exitI >= len(s.Points) || entryI == exitI {
		zap.S().Errorf("track: segment %s: bad span %d→%d", s.Comment, entryI, exitI)
		return nil
	}
	var local []geom.Vec2
	if s.Kind == Straight {
		local = []geom.Vec2{s.Points[entryI].Local, s.Points[exitI].Local}
	} else {
		local = s.bezierSpan(entryI, exitI)
	}
	out := make([]geom.Vec2, len(local))
	for i, p := range local {
		out[i] = s.transform.Apply(p)
	}
	return out
}

// GetConnectedTracks returns the segments reachable through this segment's
// linked points, in point order. When respectSwitchState is set and the
// segment is a junction, the inactive branch is excluded, so the result is
// what a train could actually traverse; with it unset the result is the
// raw topology.
func (s *Segment) GetConnectedTracks(respectSwitchState bool) []*Segment {
	out := make([]*Segment, 0, len(s.Points))
	for i, p := range s.Points {
		if respectSwitchState && s.IsJunction() && i != CommonPoint && i != s.activeBranch() {
			continue
		}
		if p.linked == nil || p.linked.owner == nil {
			continue
		}
		// two links to the same neighbor (a two-segment loop) count once
		if slices.Contains(out, p.linked.owner) {
			continue
		}
		out = append(out, p.linked.owner)
	}
	return out
}

// pointLinkingTo returns the owned point linked to other, or nil.
func (s *Segment) pointLinkingTo(other *Segment) *Point {
	for _, p := range s.Points {
		if p.linked != nil && p.linked.owner == other {
			return p
		}
	}
	return nil
}

// HasConnections reports whether any owned point is linked.
func (s *Segment) HasConnections() bool {
	for _, p := range s.Points {
		if p.linked != nil {
			return true
		}
	}
	return false
}

// UnlinkedPoints returns the owned points with no link, in point order. A
// segment with at least one unlinked point is an endpoint: a candidate
// path terminus.
func (s *Segment) UnlinkedPoints() []*Point {
	var out []*Point
	for _, p := range s.Points {
		if p.linked == nil {
			out = append(out, p)
		}
	}
	return out
}

// DisconnectAll unlinks every owned point.
func (s *Segment) DisconnectAll() {
	for _, p := range s.Points {
		p.Disconnect()
	}
}

func (s *Segment) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Comment)
}
