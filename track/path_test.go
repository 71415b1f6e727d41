package track

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"nyiyui.ca/hato/senro/geom"
)

func TestStraightJoinPath(t *testing.T) {
	a, b := joinedStraights(t)
	g := NewGraph()
	for _, seg := range []*Segment{a, b} {
		if err := g.RegisterSegment(seg); err != nil {
			t.Fatalf("register: %s", err)
		}
	}
	paths := g.RegenerateAllPaths()
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	p := paths[0]
	want := []geom.Vec2{{X: -1}, {X: 0}, {X: 1}}
	if diff := cmp.Diff(want, p.Waypoints); diff != "" {
		t.Errorf("waypoints (shared point must be deduplicated):\n%s", diff)
	}
	if !approxEqual(p.TotalLength(), 2.0, 1e-9) {
		t.Errorf("total length %v, want 2.0", p.TotalLength())
	}
	if p.IsLoop() {
		t.Errorf("open path flagged as loop")
	}
}

func TestPathContinuity(t *testing.T) {
	g, approach, _, main, _ := yard(t)
	_ = approach
	_ = main
	for _, p := range g.Paths() {
		if len(p.Waypoints) < 2 {
			t.Fatalf("path %s has %d waypoints", p, len(p.Waypoints))
		}
		var sum float64
		for i := 1; i < len(p.Waypoints); i++ {
			sum += p.Waypoints[i].Dist(p.Waypoints[i-1])
		}
		if !approxEqual(sum, p.TotalLength(), 1e-9) {
			t.Errorf("path %s: polyline sum %v != total %v", p, sum, p.TotalLength())
		}
		if p.GetPositionAtDistance(0).Dist(p.Waypoints[0]) > 1e-9 {
			t.Errorf("path %s: position at 0 is not the first waypoint", p)
		}
		if p.GetPositionAtDistance(p.TotalLength()).Dist(p.Waypoints[len(p.Waypoints)-1]) > 1e-9 {
			t.Errorf("path %s: position at total is not the last waypoint", p)
		}
	}
}

func TestPositionClampAndDirection(t *testing.T) {
	a, b := joinedStraights(t)
	g := NewGraph()
	g.RegisterSegment(a)
	g.RegisterSegment(b)
	p := g.RegenerateAllPaths()[0]

	if got := p.GetPositionAtDistance(-5); got.Dist(p.Waypoints[0]) > 1e-9 {
		t.Errorf("before start: got %v", got)
	}
	if got := p.GetPositionAtDistance(99); got.Dist(p.Waypoints[2]) > 1e-9 {
		t.Errorf("past end: got %v", got)
	}
	if got := p.GetDirectionAtDistance(-5); got.Dist(geom.V(1, 0)) > 1e-9 {
		t.Errorf("direction before start: got %v", got)
	}
	if got := p.GetDirectionAtDistance(99); got.Dist(geom.V(1, 0)) > 1e-9 {
		t.Errorf("direction past end: got %v", got)
	}
	if got := p.GetPositionAtDistance(0.5); got.Dist(geom.V(-0.5, 0)) > 1e-9 {
		t.Errorf("midway: got %v", got)
	}
}

func TestLoopWrap(t *testing.T) {
	p := &Path{Waypoints: []geom.Vec2{
		geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0, 1), geom.V(0, 0),
	}}
	p.measure()
	if !p.IsLoop() {
		t.Fatalf("square loop not detected")
	}
	if !approxEqual(p.TotalLength(), 4, 1e-9) {
		t.Fatalf("square loop length %v", p.TotalLength())
	}
	if got := p.GetPositionAtDistance(4.5); got.Dist(geom.V(0.5, 0)) > 1e-9 {
		t.Errorf("wrap past total: got %v", got)
	}
	if got := p.GetPositionAtDistance(-1); got.Dist(geom.V(0, 1)) > 1e-9 {
		t.Errorf("wrap below zero: got %v", got)
	}
}

func TestLoopNeedsThreeWaypoints(t *testing.T) {
	p := &Path{Waypoints: []geom.Vec2{geom.V(0, 0), geom.V(0, 0.05)}}
	p.measure()
	if p.IsLoop() {
		t.Errorf("two nearly-coincident waypoints flagged as loop")
	}
}

func TestClosestDistanceToPoint(t *testing.T) {
	p := &Path{Waypoints: []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1)}}
	p.measure()
	if got := p.GetClosestDistanceToPoint(geom.V(1, 0.5)); !approxEqual(got, 1.5, 1e-9) {
		t.Errorf("projection onto second leg: got %v, want 1.5", got)
	}
	if got := p.GetClosestDistanceToPoint(geom.V(0.5, 0.1)); !approxEqual(got, 0.5, 1e-9) {
		t.Errorf("projection onto first leg: got %v, want 0.5", got)
	}
}

func TestReverseIdempotent(t *testing.T) {
	a, b := joinedStraights(t)
	g := NewGraph()
	g.RegisterSegment(a)
	g.RegisterSegment(b)
	p := g.RegenerateAllPaths()[0]

	orig := p.Clone()
	p.Reverse()
	if p.Waypoints[0].Dist(orig.Waypoints[len(orig.Waypoints)-1]) > 1e-9 {
		t.Errorf("reversed path does not start at the old end")
	}
	if p.Start() != orig.End() || p.End() != orig.Start() {
		t.Errorf("reversed path endpoints not swapped")
	}
	p.Reverse()
	if diff := cmp.Diff(orig.Waypoints, p.Waypoints); diff != "" {
		t.Errorf("double reversal changed waypoints:\n%s", diff)
	}
	if !approxEqual(p.TotalLength(), orig.TotalLength(), 1e-9) {
		t.Errorf("double reversal changed length: %v vs %v", p.TotalLength(), orig.TotalLength())
	}
}

func TestReverseRegeneratesJunctionGeometry(t *testing.T) {
	g, _, junction, _, _ := yard(t)
	_ = junction
	if len(g.Paths()) != 1 {
		t.Fatalf("yard should have one routable path, got %d", len(g.Paths()))
	}
	p := g.Paths()[0].Clone()
	orig := p.Clone()
	p.Reverse()
	if !approxEqual(p.TotalLength(), orig.TotalLength(), 1e-9) {
		t.Errorf("reversal changed length: %v vs %v", p.TotalLength(), orig.TotalLength())
	}
	p.Reverse()
	// Bezier parameters t and 1-t do not round-trip bitwise; compare
	// within epsilon.
	if diff := cmp.Diff(orig.Waypoints, p.Waypoints, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("double reversal through junction changed waypoints:\n%s", diff)
	}
}
