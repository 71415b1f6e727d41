package track

import (
	"math"
	"testing"

	"nyiyui.ca/hato/senro/geom"
)

// test pieces: a unit straight centered on its origin, and a left-hand
// turnout with a 30° diverging branch.

func newStraightSeg(comment string, length float64) *Segment {
	h := length / 2
	return NewSegment(Straight, comment,
		NewPoint(geom.V(-h, 0), geom.V(-1, 0)),
		NewPoint(geom.V(h, 0), geom.V(1, 0)),
	)
}

func newCurveSeg(comment string, radius, sweep float64) *Segment {
	sin, cos := math.Sincos(sweep)
	return NewSegment(Curved, comment,
		NewPoint(geom.V(0, 0), geom.V(-1, 0)),
		NewPoint(geom.V(radius*sin, radius*(1-cos)), geom.V(cos, sin)),
	)
}

func newJunctionSeg(comment string) *Segment {
	sin, cos := math.Sincos(math.Pi / 6)
	radius := 2.0
	return NewSegment(Junction, comment,
		NewPoint(geom.V(0, 0), geom.V(-1, 0)),
		NewPoint(geom.V(1, 0), geom.V(1, 0)),
		NewPoint(geom.V(radius*sin, radius*(1-cos)), geom.V(cos, sin)),
	)
}

// joinedStraights places two unit straights so their facing points
// coincide at the origin and links them.
func joinedStraights(t *testing.T) (*Segment, *Segment) {
	t.Helper()
	a := newStraightSeg("a", 1)
	b := newStraightSeg("b", 1)
	a.SetTransform(geom.Transform{Pos: geom.V(-0.5, 0)})
	b.SetTransform(geom.Transform{Pos: geom.V(0.5, 0)})
	if !a.Points[1].CanConnect(b.Points[0], false) {
		t.Fatalf("facing points of joined straights cannot connect")
	}
	if !a.Points[1].Connect(b.Points[0]) {
		t.Fatalf("connect of joined straights refused")
	}
	return a, b
}

// yard builds the turnout testbench: approach into the junction's common
// point, a straight on each branch, all registered and path-regenerated.
func yard(t *testing.T) (g *Graph, approach, junction, main, siding *Segment) {
	t.Helper()
	g = NewGraph()
	approach = newStraightSeg("approach", 1)
	junction = newJunctionSeg("junction")
	main = newStraightSeg("main", 1)
	siding = newStraightSeg("siding", 1)
	for _, seg := range []*Segment{approach, junction, main, siding} {
		if err := g.RegisterSegment(seg); err != nil {
			t.Fatalf("register %s: %s", seg, err)
		}
	}
	if !g.AlignAndConnect(junction.Points[CommonPoint], approach.Points[1]) {
		t.Fatalf("align junction onto approach failed")
	}
	if !g.AlignAndConnect(main.Points[0], junction.Points[StraightBranch]) {
		t.Fatalf("align main onto junction failed")
	}
	if !g.AlignAndConnect(siding.Points[0], junction.Points[DivergingBranch]) {
		t.Fatalf("align siding onto junction failed")
	}
	g.RegenerateAllPaths()
	return g, approach, junction, main, siding
}

func segComments(segs []*Segment) []string {
	out := make([]string, len(segs))
	for i, seg := range segs {
		out[i] = seg.Comment
	}
	return out
}

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }
