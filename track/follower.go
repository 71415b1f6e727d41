package track

import (
	"fmt"

	"github.com/google/uuid"

	"nyiyui.ca/hato/senro/geom"
)

// Follower is a train (or any consumer) riding a path by distance. Each
// tick the owner advances it and samples position/direction for display.
// Followers attached to a graph survive switch toggles: the graph re-seats
// them on rebuilt paths (see Graph.RebuildAffectedPaths).
type Follower struct {
	ID      uuid.UUID
	Comment string
	// Speed is in world units per second.
	Speed float64

	path *Path
	dist float64
}

func NewFollower(comment string, speed float64) *Follower {
	return &Follower{
		ID:      uuid.New(),
		Comment: comment,
		Speed:   speed,
	}
}

func (f *Follower) Path() *Path       { return f.path }
func (f *Follower) Distance() float64 { return f.dist }

// SetPath puts the follower at distance at along p.
func (f *Follower) SetPath(p *Path, at float64) {
	f.path = p
	if p != nil {
		at = p.normalize(at)
	}
	f.dist = at
}

// Tick advances the follower by Speed×dt. On a loop the distance wraps;
// otherwise it pins at the end and AtEnd reports true.
func (f *Follower) Tick(dt float64) {
	if f.path == nil {
		return
	}
	f.dist = f.path.normalize(f.dist + f.Speed*dt)
}

// AtEnd reports whether a non-loop path has been ridden to its end.
func (f *Follower) AtEnd() bool {
	return f.path != nil && !f.path.IsLoop() && f.dist >= f.path.TotalLength()
}

func (f *Follower) Position() geom.Vec2 {
	if f.path == nil {
		return geom.Vec2{}
	}
	return f.path.GetPositionAtDistance(f.dist)
}

func (f *Follower) Direction() geom.Vec2 {
	if f.path == nil {
		return geom.Vec2{}
	}
	return f.path.GetDirectionAtDistance(f.dist)
}

func (f *Follower) String() string {
	return fmt.Sprintf("follower(%s, %.2f along %s)", f.Comment, f.dist, f.path)
}
