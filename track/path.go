package track

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"nyiyui.ca/hato/senro/geom"
)

const (
	// stitchTolerance is how close a segment's end waypoint must be to the
	// path's last waypoint to count as the shared connection point and be
	// dropped. Generous: Bezier sampling does not land exactly on
	// connection points.
	stitchTolerance = 1.2
	// loopEpsilon is the first-to-last waypoint distance below which a
	// path counts as a loop.
	loopEpsilon = 0.1
)

// Path is an ordered, switch-state-dependent traversal of linked segments,
// flattened to one continuous world-space polyline. Paths are values
// derived from the graph: a topology edit or a switch toggle in any
// contained junction makes them stale.
type Path struct {
	Segments  []*Segment
	Waypoints []geom.Vec2

	// cum[i] is the polyline length from Waypoints[0] to Waypoints[i].
	cum   []float64
	total float64
	loop  bool

	start, end *Segment
}

// BuildPath flattens an ordered run of segments into a Path. Consecutive
// segments must be linked. Junction waypoints are generated per-path from
// the entry/exit points actually used, never from the junction's shared
// cache. Reports false if no waypoints could be generated.
func BuildPath(segments []*Segment) (*Path, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	p := &Path{
		Segments: slices.Clone(segments),
		start:    segments[0],
		end:      segments[len(segments)-1],
	}
	for i := range segments {
		raw := pathWaypoints(segments, i)
		if len(raw) == 0 {
			continue
		}
		p.append(raw, orientFirst(segments, raw))
	}
	if len(p.Waypoints) == 0 {
		return nil, false
	}
	p.measure()
	return p, true
}

// pathWaypoints returns segment i's world waypoints for this traversal.
func pathWaypoints(segments []*Segment, i int) []geom.Vec2 {
	seg := segments[i]
	if !seg.IsJunction() {
		return seg.Waypoints()
	}
	var entry, exit *Point
	if i > 0 {
		entry = seg.pointLinkingTo(segments[i-1])
	}
	if i < len(segments)-1 {
		exit = seg.pointLinkingTo(segments[i+1])
	}
	// an open side (path terminus) takes the junction's own choice: the
	// common point, or the active branch if the common point is taken
	fill := func(other *Point) *Point {
		if other != seg.Points[CommonPoint] {
			return seg.Points[CommonPoint]
		}
		return seg.Points[seg.activeBranch()]
	}
	if entry == nil {
		entry = fill(exit)
	}
	if exit == nil {
		exit = fill(entry)
	}
	return seg.WaypointsBetween(entry.Index(), exit.Index())
}

// orientFirst decides whether the first segment's waypoints must be
// reversed so the polyline flows toward the second segment. Later segments
// orient themselves against the waypoints already laid down.
func orientFirst(segments []*Segment, raw []geom.Vec2) bool {
	if len(segments) < 2 || len(raw) < 2 {
		return false
	}
	link := segments[0].pointLinkingTo(segments[1])
	if link == nil {
		return false
	}
	lp := link.WorldPos()
	return raw[0].Dist(lp) < raw[len(raw)-1].Dist(lp)
}

// append stitches raw onto the polyline: pick whichever end of raw is
// closer to the last waypoint, reverse if needed, and drop the duplicated
// shared point.
func (p *Path) append(raw []geom.Vec2, reverseFirst bool) {
	if len(p.Waypoints) == 0 {
		if reverseFirst {
			raw = slices.Clone(raw)
			slices.Reverse(raw)
		}
		p.Waypoints = append(p.Waypoints, raw...)
		return
	}
	last := p.Waypoints[len(p.Waypoints)-1]
	if raw[len(raw)-1].Dist(last) < raw[0].Dist(last) {
		raw = slices.Clone(raw)
		slices.Reverse(raw)
	}
	if raw[0].Dist(last) <= stitchTolerance {
		raw = raw[1:]
	}
	p.Waypoints = append(p.Waypoints, raw...)
}

// measure fills in cumulative lengths and the loop flag.
func (p *Path) measure() {
	p.cum = make([]float64, len(p.Waypoints))
	for i := 1; i < len(p.Waypoints); i++ {
		p.cum[i] = p.cum[i-1] + p.Waypoints[i].Dist(p.Waypoints[i-1])
	}
	p.total = p.cum[len(p.cum)-1]
	p.loop = len(p.Waypoints) >= 3 &&
		p.Waypoints[0].Dist(p.Waypoints[len(p.Waypoints)-1]) < loopEpsilon
}

func (p *Path) TotalLength() float64 { return p.total }
func (p *Path) IsLoop() bool         { return p.loop }
func (p *Path) Start() *Segment      { return p.start }
func (p *Path) End() *Segment        { return p.end }

func (p *Path) ContainsSegment(seg *Segment) bool {
	return slices.Contains(p.Segments, seg)
}

// normalize maps a raw distance to [0, total]: modulo for loops, clamp
// otherwise.
func (p *Path) normalize(d float64) float64 {
	if p.total <= 0 {
		return 0
	}
	if p.loop {
		d = math.Mod(d, p.total)
		if d < 0 {
			d += p.total
		}
		return d
	}
	if d < 0 {
		return 0
	}
	if d > p.total {
		return p.total
	}
	return d
}

// locate returns the polyline span containing distance d: the index i such
// that cum[i] ≤ d ≤ cum[i+1], and the fraction along that span.
func (p *Path) locate(d float64) (int, float64) {
	for i := 0; i < len(p.cum)-1; i++ {
		if d <= p.cum[i+1] {
			span := p.cum[i+1] - p.cum[i]
			if span < 1e-12 {
				return i, 0
			}
			return i, (d - p.cum[i]) / span
		}
	}
	return len(p.Waypoints) - 2, 1
}

// GetPositionAtDistance returns the world position d units along the path.
// d is wrapped for loops and clamped otherwise.
func (p *Path) GetPositionAtDistance(d float64) geom.Vec2 {
	if len(p.Waypoints) == 0 {
		return geom.Vec2{}
	}
	if len(p.Waypoints) == 1 {
		return p.Waypoints[0]
	}
	i, t := p.locate(p.normalize(d))
	return p.Waypoints[i].Lerp(p.Waypoints[i+1], t)
}

// GetDirectionAtDistance returns the normalized tangent d units along the
// path. Past either end it returns the direction of the first or last
// span.
func (p *Path) GetDirectionAtDistance(d float64) geom.Vec2 {
	if len(p.Waypoints) < 2 {
		return geom.Vec2{}
	}
	i, _ := p.locate(p.normalize(d))
	return p.Waypoints[i+1].Sub(p.Waypoints[i]).Normalize()
}

// GetClosestDistanceToPoint projects point onto the polyline and returns
// the path distance of the closest projection.
func (p *Path) GetClosestDistanceToPoint(point geom.Vec2) float64 {
	along, _ := p.Project(point)
	return along
}

// Project returns the path distance of the closest point on the polyline
// to point, and the separation between them.
func (p *Path) Project(point geom.Vec2) (along, separation float64) {
	if len(p.Waypoints) == 0 {
		return 0, math.Inf(1)
	}
	if len(p.Waypoints) == 1 {
		return 0, p.Waypoints[0].Dist(point)
	}
	best := math.Inf(1)
	for i := 0; i < len(p.Waypoints)-1; i++ {
		q, t := geom.ClosestOnSegment(p.Waypoints[i], p.Waypoints[i+1], point)
		if d := q.Dist(point); d < best {
			best = d
			along = p.cum[i] + t*(p.cum[i+1]-p.cum[i])
		}
	}
	return along, best
}

// Reverse turns the path around in place: segment order flips and the
// waypoints are regenerated from the reversed traversal. Regenerating
// (rather than reversing the waypoint list) keeps junction Beziers
// correct, since their entry/exit choice depends on traversal order.
func (p *Path) Reverse() {
	rev := slices.Clone(p.Segments)
	slices.Reverse(rev)
	rebuilt, ok := BuildPath(rev)
	if !ok {
		zap.S().Errorf("track: reverse of path %s produced no waypoints; path unchanged", p)
		return
	}
	*p = *rebuilt
}

// Clone returns an independent copy of the path. Followers get clones on
// reassignment so reversing one follower's path leaves the graph's
// canonical paths alone.
func (p *Path) Clone() *Path {
	q := *p
	q.Segments = slices.Clone(p.Segments)
	q.Waypoints = slices.Clone(p.Waypoints)
	q.cum = slices.Clone(p.cum)
	return &q
}

func (p *Path) String() string {
	if p == nil {
		return "path(nil)"
	}
	return fmt.Sprintf("path(%s→%s, %d segments, %.2f long)", p.start, p.end, len(p.Segments), p.total)
}
