package track

// FindPath runs a depth-first search from start to end over the links the
// current switch states allow, and returns the first complete run of
// segments found. First-found, not shortest: with equivalent routes the
// winner is decided by connection-point order, which makes the result
// deterministic for a fixed layout but not meaningful beyond that.
func FindPath(start, end *Segment) ([]*Segment, bool) {
	if start == nil || end == nil {
		return nil, false
	}
	visited := map[*Segment]bool{}
	var dfs func(seg *Segment, trail []*Segment) ([]*Segment, bool)
	dfs = func(seg *Segment, trail []*Segment) ([]*Segment, bool) {
		visited[seg] = true
		defer func() { visited[seg] = false }()
		trail = append(trail, seg)
		if seg == end {
			out := make([]*Segment, len(trail))
			copy(out, trail)
			return out, true
		}
		for _, next := range seg.GetConnectedTracks(true) {
			if visited[next] {
				continue
			}
			if found, ok := dfs(next, trail); ok {
				return found, true
			}
		}
		return nil, false
	}
	return dfs(start, nil)
}

// AllPaths enumerates every simple path between start and end, ignoring
// switch states (raw topology). Combinatorially expensive: meant for small
// editor and test networks, not procedural ones.
func AllPaths(start, end *Segment) [][]*Segment {
	if start == nil || end == nil {
		return nil
	}
	var out [][]*Segment
	visited := map[*Segment]bool{}
	var dfs func(seg *Segment, trail []*Segment)
	dfs = func(seg *Segment, trail []*Segment) {
		visited[seg] = true
		defer func() { visited[seg] = false }()
		trail = append(trail, seg)
		if seg == end {
			found := make([]*Segment, len(trail))
			copy(found, trail)
			out = append(out, found)
			return
		}
		for _, next := range seg.GetConnectedTracks(false) {
			if visited[next] {
				continue
			}
			dfs(next, trail)
		}
	}
	dfs(start, nil)
	return out
}
