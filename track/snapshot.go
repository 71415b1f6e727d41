package track

// Snapshot is a serializable copy of the graph for UIs and servers. The
// graph itself is single-writer; consumers on other goroutines get
// Snapshots published after each change, never live references.

type Snapshot struct {
	Dirty     bool               `json:"dirty"`
	Segments  []SegmentSnapshot  `json:"segments"`
	Paths     []PathSnapshot     `json:"paths"`
	Followers []FollowerSnapshot `json:"followers"`
}

type SegmentSnapshot struct {
	Comment  string     `json:"comment"`
	Kind     string     `json:"kind"`
	Pos      [2]float64 `json:"pos"`
	Rot      float64    `json:"rot"`
	Switch   string     `json:"switch,omitempty"`
	Endpoint bool       `json:"endpoint"`
}

type PathSnapshot struct {
	Start     string       `json:"start"`
	End       string       `json:"end"`
	Length    float64      `json:"length"`
	Loop      bool         `json:"loop"`
	Segments  []string     `json:"segments"`
	Waypoints [][2]float64 `json:"waypoints"`
}

type FollowerSnapshot struct {
	ID      string     `json:"id"`
	Comment string     `json:"comment"`
	Dist    float64    `json:"dist"`
	Speed   float64    `json:"speed"`
	Pos     [2]float64 `json:"pos"`
	Dir     [2]float64 `json:"dir"`
}

// Snapshot copies the graph's current state. Call from the goroutine that
// owns the graph.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{Dirty: g.dirty}
	for _, seg := range g.segments {
		ss := SegmentSnapshot{
			Comment:  seg.Comment,
			Kind:     seg.Kind.String(),
			Pos:      [2]float64{seg.transform.Pos.X, seg.transform.Pos.Y},
			Rot:      seg.transform.Rot,
			Endpoint: len(seg.UnlinkedPoints()) > 0,
		}
		if seg.Switch != nil {
			ss.Switch = seg.Switch.State().String()
		}
		s.Segments = append(s.Segments, ss)
	}
	for _, p := range g.paths {
		ps := PathSnapshot{
			Start:  p.start.Comment,
			End:    p.end.Comment,
			Length: p.total,
			Loop:   p.loop,
		}
		for _, seg := range p.Segments {
			ps.Segments = append(ps.Segments, seg.Comment)
		}
		for _, w := range p.Waypoints {
			ps.Waypoints = append(ps.Waypoints, [2]float64{w.X, w.Y})
		}
		s.Paths = append(s.Paths, ps)
	}
	for _, f := range g.followers {
		pos, dir := f.Position(), f.Direction()
		s.Followers = append(s.Followers, FollowerSnapshot{
			ID:      f.ID.String(),
			Comment: f.Comment,
			Dist:    f.dist,
			Speed:   f.Speed,
			Pos:     [2]float64{pos.X, pos.Y},
			Dir:     [2]float64{dir.X, dir.Y},
		})
	}
	return s
}
