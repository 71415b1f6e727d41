package track

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"nyiyui.ca/hato/senro/geom"
	"nyiyui.ca/hato/senro/notify"
)

// EventKind says what changed in a Graph.
type EventKind int

const (
	// EventTopologyChanged: a segment was registered, unregistered, or
	// (dis)connected. Paths are stale until RegenerateAllPaths.
	EventTopologyChanged EventKind = iota
	// EventSwitchToggled: a junction's switch flipped. Affected paths are
	// rebuilt before the event is published.
	EventSwitchToggled
	// EventPathsRebuilt: the path set changed. Consumers must re-fetch
	// Path references.
	EventPathsRebuilt
)

func (k EventKind) String() string {
	switch k {
	case EventTopologyChanged:
		return "topology-changed"
	case EventSwitchToggled:
		return "switch-toggled"
	case EventPathsRebuilt:
		return "paths-rebuilt"
	default:
		return fmt.Sprintf("event%d", int(k))
	}
}

// Event is published on the graph's Mux after the graph has settled; a
// subscriber always observes a consistent path set.
type Event struct {
	Kind EventKind
	// Junction is the toggled segment for EventSwitchToggled, else nil.
	Junction *Segment
}

// Graph is the registry of all segments and the owner of the current path
// set. Construct one per layout and hand it to whoever needs it (placement
// tools, followers, UIs); there is deliberately no package-level instance.
//
// Not safe for concurrent mutation: all writes must come from one
// goroutine (the game tick). Subscribers on Mux only receive events.
type Graph struct {
	segments  []*Segment
	paths     []*Path
	followers []*Follower
	dirty     bool

	// Mux publishes Events. Subscribe to drop stale Path references.
	Mux    *notify.Multiplexer[Event]
	sender *notify.Sender[Event]
}

func NewGraph() *Graph {
	g := &Graph{}
	g.sender, g.Mux = notify.New[Event]("track-graph")
	return g
}

// Segments returns the registry in registration order.
func (g *Graph) Segments() []*Segment { return g.segments }

// Dirty reports whether the path set is stale against the topology.
// Switch toggles do not dirty the graph: they rebuild eagerly.
func (g *Graph) Dirty() bool { return g.dirty }

// RegisterSegment adds seg to the registry and marks paths stale.
func (g *Graph) RegisterSegment(seg *Segment) error {
	if seg == nil {
		return errors.New("track: register of nil segment")
	}
	if seg.graph == g {
		return fmt.Errorf("track: segment %s already registered", seg.Comment)
	}
	if seg.graph != nil {
		return fmt.Errorf("track: segment %s belongs to another graph", seg.Comment)
	}
	g.segments = append(g.segments, seg)
	seg.graph = g
	g.markDirty()
	return nil
}

// UnregisterSegment disconnects all of seg's points, removes it from the
// registry, and drops every path that ran through it. Followers riding a
// dropped path stay on it: a Path keeps its own waypoints, so the old
// polyline remains a usable last-known-good route.
func (g *Graph) UnregisterSegment(seg *Segment) error {
	i := slices.Index(g.segments, seg)
	if i == -1 {
		return fmt.Errorf("track: segment %s is not registered", seg.Comment)
	}
	seg.DisconnectAll()
	seg.graph = nil
	g.segments = slices.Delete(g.segments, i, i+1)
	g.paths = slices.DeleteFunc(g.paths, func(p *Path) bool { return p.ContainsSegment(seg) })
	g.markDirty()
	return nil
}

func (g *Graph) markDirty() {
	g.dirty = true
	g.sender.Send(Event{Kind: EventTopologyChanged})
}

// EndpointSegments returns every registered segment with at least one
// unlinked connection point, in registration order.
func (g *Graph) EndpointSegments() []*Segment {
	var out []*Segment
	for _, seg := range g.segments {
		if len(seg.UnlinkedPoints()) > 0 {
			out = append(out, seg)
		}
	}
	return out
}

// RegenerateAllPaths rebuilds the whole path set: one routing attempt per
// unordered pair of endpoint segments. O(endpoints²) pairs times O(V)
// traversal: fine for hand-placed layouts, a known limitation for huge
// procedural ones.
func (g *Graph) RegenerateAllPaths() []*Path {
	g.paths = nil
	ends := g.EndpointSegments()
	for i := 0; i < len(ends); i++ {
		for j := i + 1; j < len(ends); j++ {
			run, ok := FindPath(ends[i], ends[j])
			if !ok {
				continue
			}
			p, ok := BuildPath(run)
			if !ok {
				continue
			}
			g.paths = append(g.paths, p)
		}
	}
	g.dirty = false
	g.sender.Send(Event{Kind: EventPathsRebuilt})
	return g.paths
}

// Paths returns the current path set. Stale after topology edits until
// RegenerateAllPaths; check Dirty.
func (g *Graph) Paths() []*Path { return g.paths }

// PathsContaining returns the current paths that run through seg.
func (g *Graph) PathsContaining(seg *Segment) []*Path {
	var out []*Path
	for _, p := range g.paths {
		if p.ContainsSegment(seg) {
			out = append(out, p)
		}
	}
	return out
}

// GetPathNearestTo returns the path whose polyline passes closest to
// point, with the path distance of that closest approach. ok is false when
// there are no paths.
func (g *Graph) GetPathNearestTo(point geom.Vec2) (p *Path, along float64, ok bool) {
	best := math.Inf(1)
	for _, cand := range g.paths {
		at, sep := cand.Project(point)
		if sep < best {
			best = sep
			p, along, ok = cand, at, true
		}
	}
	return p, along, ok
}

// switchToggled is called by a Switch after its state flipped.
func (g *Graph) switchToggled(junction *Segment) {
	g.sender.Send(Event{Kind: EventSwitchToggled, Junction: junction})
	g.RebuildAffectedPaths(junction)
}

// followerSnapshot captures where a follower was relative to a junction
// before a switch rebuild.
type followerSnapshot struct {
	f      *Follower
	pos    geom.Vec2
	dir    geom.Vec2
	passed bool
	facing bool
}

// RebuildAffectedPaths re-runs the router for every path containing
// junction (cheaper than a full regeneration; topology is unchanged).
//
// Followers riding an affected path are re-seated on the nearest new path
// only when they had not yet passed the junction and were approaching its
// common (facing) point; a train approaching from a branch is trailing
// through the points and keeps its route. If the chosen path runs opposite
// the follower's prior travel direction, the follower gets a reversed
// clone.
func (g *Graph) RebuildAffectedPaths(junction *Segment) {
	affected := g.PathsContaining(junction)
	if len(affected) == 0 {
		return
	}

	var snaps []followerSnapshot
	for _, f := range g.followers {
		if f.path == nil || !f.path.ContainsSegment(junction) {
			continue
		}
		jd := f.path.GetClosestDistanceToPoint(junction.Points[CommonPoint].WorldPos())
		snaps = append(snaps, followerSnapshot{
			f:      f,
			pos:    f.Position(),
			dir:    f.Direction(),
			passed: f.dist >= jd,
			facing: entersViaCommon(f.path, junction),
		})
	}

	var dropped []*Path
	for _, old := range affected {
		i := slices.Index(g.paths, old)
		run, ok := FindPath(old.start, old.end)
		if ok {
			var rebuilt *Path
			if rebuilt, ok = BuildPath(run); ok {
				g.paths[i] = rebuilt
			}
		}
		if !ok {
			// endpoints no longer reachable under the new switch state
			zap.S().Infof("track: path %s unroutable after toggling %s", old, junction)
			g.paths = slices.Delete(g.paths, i, i+1)
			dropped = append(dropped, old)
		}
	}
	g.replaceDropped(dropped, junction)

	for _, snap := range snaps {
		if snap.passed || !snap.facing {
			// unaffected by the points change; the old path polyline
			// stays valid as a frozen route
			continue
		}
		g.reseat(snap)
	}

	g.sender.Send(Event{Kind: EventPathsRebuilt})
}

// replaceDropped finds the routes that opened up where dropped paths
// closed: for each terminus of a dropped path, it tries every other
// endpoint segment and keeps new routes through the toggled junction. This
// stays scoped to the junction: untouched paths are never re-routed.
func (g *Graph) replaceDropped(dropped []*Path, junction *Segment) {
	ends := g.EndpointSegments()
	for _, old := range dropped {
		for _, terminus := range []*Segment{old.start, old.end} {
			for _, e := range ends {
				if e == terminus || g.hasPathBetween(terminus, e) {
					continue
				}
				// route in registry order, like RegenerateAllPaths, so a
				// rebuild never finds pairs a full regeneration would not
				from, to := terminus, e
				if slices.Index(g.segments, from) > slices.Index(g.segments, to) {
					from, to = to, from
				}
				run, ok := FindPath(from, to)
				if !ok || !slices.Contains(run, junction) {
					continue
				}
				if p, ok := BuildPath(run); ok {
					g.paths = append(g.paths, p)
				}
			}
		}
	}
}

func (g *Graph) hasPathBetween(a, b *Segment) bool {
	for _, p := range g.paths {
		if (p.start == a && p.end == b) || (p.start == b && p.end == a) {
			return true
		}
	}
	return false
}

// reseat moves a follower onto the current path nearest its old position.
// If nothing is routable anymore the follower keeps its old path rather
// than being stranded.
func (g *Graph) reseat(snap followerSnapshot) {
	p, along, ok := g.GetPathNearestTo(snap.pos)
	if !ok {
		zap.S().Warnf("track: no path to re-seat %s onto; keeping old path", snap.f)
		return
	}
	clone := p.Clone()
	if clone.GetDirectionAtDistance(along).Dot(snap.dir) < 0 {
		clone.Reverse()
		along = clone.TotalLength() - along
	}
	snap.f.SetPath(clone, along)
}

// entersViaCommon reports whether p, traversed forward, reaches junction
// through its common point.
func entersViaCommon(p *Path, junction *Segment) bool {
	i := slices.Index(p.Segments, junction)
	if i == -1 {
		return false
	}
	var entry *Point
	if i > 0 {
		entry = junction.pointLinkingTo(p.Segments[i-1])
	} else {
		var exit *Point
		if len(p.Segments) > 1 {
			exit = junction.pointLinkingTo(p.Segments[1])
		}
		if exit != junction.Points[CommonPoint] {
			entry = junction.Points[CommonPoint]
		} else {
			entry = junction.Points[junction.activeBranch()]
		}
	}
	return entry == junction.Points[CommonPoint]
}

// AttachFollower registers f for re-seating across switch rebuilds.
func (g *Graph) AttachFollower(f *Follower) {
	if slices.Contains(g.followers, f) {
		return
	}
	g.followers = append(g.followers, f)
}

// DetachFollower removes f. No-op if not attached.
func (g *Graph) DetachFollower(f *Follower) {
	i := slices.Index(g.followers, f)
	if i == -1 {
		return
	}
	g.followers = slices.Delete(g.followers, i, i+1)
}

func (g *Graph) Followers() []*Follower { return g.followers }
