// Package preset contains canned track pieces and testbench layouts.
// Pieces are modeled on KATO Unitrack proportions, scaled so the standard
// S248 straight is 1.0 world units.
package preset

import (
	"fmt"
	"math"

	"nyiyui.ca/hato/senro/geom"
	"nyiyui.ca/hato/senro/track"
)

const (
	// S248 is the standard straight.
	S248 = 1.0
	// S124 is the half straight.
	S124 = 0.5
	// S62 is commonly found in turnout sets.
	S62 = 0.25
	// R481 is the standard curve radius.
	R481 = 481.0 / 248.0
	// EP481Angle is the frog angle of an EP481-style turnout.
	EP481Angle = math.Pi / 6
)

// NewStraight returns a straight piece of the given length, origin at the
// center.
func NewStraight(comment string, length float64) *track.Segment {
	h := length / 2
	return track.NewSegment(track.Straight, comment,
		track.NewPoint(geom.V(-h, 0), geom.V(-1, 0)),
		track.NewPoint(geom.V(h, 0), geom.V(1, 0)),
	)
}

// NewCurve returns a left-hand arc of the given radius and sweep, entry at
// the origin heading +X.
func NewCurve(comment string, radius, sweep float64) *track.Segment {
	sin, cos := math.Sincos(sweep)
	exit := geom.V(radius*sin, radius*(1-cos))
	return track.NewSegment(track.Curved, comment,
		track.NewPoint(geom.V(0, 0), geom.V(-1, 0)),
		track.NewPoint(exit, geom.V(cos, sin)),
	)
}

// NewJunction returns an EP481-style left-hand turnout: common point at
// the origin, straight branch along +X, diverging branch curving off at
// EP481Angle with the given radius.
func NewJunction(comment string, length, radius float64) *track.Segment {
	sin, cos := math.Sincos(EP481Angle)
	div := geom.V(radius*sin, radius*(1-cos))
	return track.NewSegment(track.Junction, comment,
		track.NewPoint(geom.V(0, 0), geom.V(-1, 0)),
		track.NewPoint(geom.V(length, 0), geom.V(1, 0)),
		track.NewPoint(div, geom.V(cos, sin)),
	)
}

// chain registers seg and aligns its entry point onto from. from may be
// nil for the first piece.
func chain(g *track.Graph, from *track.Point, seg *track.Segment, entry int) error {
	if err := g.RegisterSegment(seg); err != nil {
		return err
	}
	if from == nil {
		return nil
	}
	if !g.AlignAndConnect(seg.Points[entry], from) {
		return fmt.Errorf("preset: align %s onto %s failed", seg, from.Owner())
	}
	return nil
}

// Testbench1 is two standard straights joined end to end: one path, three
// waypoints.
func Testbench1() (*track.Graph, error) {
	g := track.NewGraph()
	a := NewStraight("tb1-a", S248)
	b := NewStraight("tb1-b", S248)
	if err := chain(g, nil, a, 0); err != nil {
		return nil, err
	}
	if err := chain(g, a.Points[1], b, 0); err != nil {
		return nil, err
	}
	g.RegenerateAllPaths()
	return g, nil
}

// Testbench2 is a turnout yard: an approach straight into the junction's
// common point, and a straight on each branch. Toggling the switch moves
// the single approach path between the two branch lines.
func Testbench2() (*track.Graph, error) {
	g := track.NewGraph()
	approach := NewStraight("tb2-approach", S248)
	junction := NewJunction("tb2-junction", S124, R481)
	main := NewStraight("tb2-main", S248)
	siding := NewStraight("tb2-siding", S248)
	if err := chain(g, nil, approach, 0); err != nil {
		return nil, err
	}
	if err := chain(g, approach.Points[1], junction, track.CommonPoint); err != nil {
		return nil, err
	}
	if err := chain(g, junction.Points[track.StraightBranch], main, 0); err != nil {
		return nil, err
	}
	if err := chain(g, junction.Points[track.DivergingBranch], siding, 0); err != nil {
		return nil, err
	}
	g.RegenerateAllPaths()
	return g, nil
}

// Testbench3 is two disjoint islands of two straights each, for
// unreachable-endpoint tests. The islands are placed far apart so no snap
// radius can bridge them.
func Testbench3() (*track.Graph, error) {
	g := track.NewGraph()
	a1 := NewStraight("tb3-a1", S248)
	a2 := NewStraight("tb3-a2", S248)
	b1 := NewStraight("tb3-b1", S248)
	b2 := NewStraight("tb3-b2", S248)
	b1.SetTransform(geom.Transform{Pos: geom.V(100, 100)})
	if err := chain(g, nil, a1, 0); err != nil {
		return nil, err
	}
	if err := chain(g, a1.Points[1], a2, 0); err != nil {
		return nil, err
	}
	if err := chain(g, nil, b1, 0); err != nil {
		return nil, err
	}
	if err := chain(g, b1.Points[1], b2, 0); err != nil {
		return nil, err
	}
	g.RegenerateAllPaths()
	return g, nil
}

// Testbench4 is Testbench2 with curves continuing past both branch lines,
// for longer follower runs in the simulator.
func Testbench4() (*track.Graph, error) {
	g, err := Testbench2()
	if err != nil {
		return nil, err
	}
	var main, siding *track.Segment
	for _, seg := range g.Segments() {
		switch seg.Comment {
		case "tb2-main":
			main = seg
		case "tb2-siding":
			siding = seg
		}
	}
	c1 := NewCurve("tb4-main-curve", R481, math.Pi/4)
	c2 := NewCurve("tb4-siding-curve", R481, math.Pi/4)
	if err := chain(g, main.Points[1], c1, 0); err != nil {
		return nil, err
	}
	if err := chain(g, siding.Points[1], c2, 0); err != nil {
		return nil, err
	}
	g.RegenerateAllPaths()
	return g, nil
}

// MustLookup finds a registered segment by comment; it panics if there is
// none. This is for debugging/testing.
func MustLookup(g *track.Graph, comment string) *track.Segment {
	for _, seg := range g.Segments() {
		if seg.Comment == comment {
			return seg
		}
	}
	panic(fmt.Sprintf("preset: no segment %q", comment))
}
