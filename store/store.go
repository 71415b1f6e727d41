// Package store saves and loads track layouts with buntdb: just enough
// state (segments, transforms, switch positions, links) to rebuild the
// graph. Paths are derived, so they are regenerated on load, not stored.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/buntdb"
	"go.uber.org/zap"

	"nyiyui.ca/hato/senro/geom"
	"nyiyui.ca/hato/senro/track"
)

// Links are stored as registry-index handles: (segment index, point
// index), recorded once on the lower-indexed side.
type linkRecord struct {
	SegI   int `json:"seg"`
	PointI int `json:"point"`
}

type pointRecord struct {
	Local        [2]float64  `json:"local"`
	Dir          [2]float64  `json:"dir"`
	SnapRadius   float64     `json:"snap_radius"`
	DirTolerance float64     `json:"dir_tolerance"`
	Link         *linkRecord `json:"link,omitempty"`
}

type segmentRecord struct {
	Comment         string        `json:"comment"`
	Kind            int           `json:"kind"`
	Pos             [2]float64    `json:"pos"`
	Rot             float64       `json:"rot"`
	Diverging       bool          `json:"diverging,omitempty"`
	BezierSamples   int           `json:"bezier_samples"`
	ControlStrength float64       `json:"control_strength"`
	Points          []pointRecord `json:"points"`
}

func key(i int) string { return fmt.Sprintf("segment:%06d:data", i) }

// Save writes every registered segment to db, replacing any layout already
// there.
func Save(db *buntdb.DB, g *track.Graph) error {
	segs := g.Segments()
	index := map[*track.Segment]int{}
	for i, seg := range segs {
		index[seg] = i
	}
	return db.Update(func(tx *buntdb.Tx) error {
		if err := tx.DeleteAll(); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		for i, seg := range segs {
			rec := segmentRecord{
				Comment:         seg.Comment,
				Kind:            int(seg.Kind),
				Pos:             [2]float64{seg.Transform().Pos.X, seg.Transform().Pos.Y},
				Rot:             seg.Transform().Rot,
				Diverging:       seg.Switch != nil && seg.Switch.Diverging(),
				BezierSamples:   seg.BezierSamples,
				ControlStrength: seg.ControlStrength,
			}
			for pi, p := range seg.Points {
				pr := pointRecord{
					Local:        [2]float64{p.Local.X, p.Local.Y},
					Dir:          [2]float64{p.Dir.X, p.Dir.Y},
					SnapRadius:   p.SnapRadius,
					DirTolerance: p.DirTolerance,
				}
				if other := p.Linked(); other != nil {
					oi, ok := index[other.Owner()]
					if !ok {
						return fmt.Errorf("segment %s links outside the graph", seg.Comment)
					}
					// record once, on the lower-indexed side
					if oi > i || (oi == i && other.Index() > pi) {
						pr.Link = &linkRecord{SegI: oi, PointI: other.Index()}
					}
				}
				rec.Points = append(rec.Points, pr)
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", seg.Comment, err)
			}
			if _, _, err := tx.Set(key(i), string(data), nil); err != nil {
				return fmt.Errorf("set %s: %w", seg.Comment, err)
			}
		}
		return nil
	})
}

// Load rebuilds a graph from db: segments first, then links, then a full
// path regeneration.
func Load(db *buntdb.DB) (*track.Graph, error) {
	var recs []segmentRecord
	err := db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("segment:*", func(k, v string) bool {
			var rec segmentRecord
			if err := json.Unmarshal([]byte(v), &rec); err != nil {
				zap.S().Errorw("store: unmarshalling failed", "key", k, "err", err)
				return true
			}
			recs = append(recs, rec)
			return true
		})
	})
	if err != nil {
		return nil, err
	}

	g := track.NewGraph()
	segs := make([]*track.Segment, len(recs))
	for i, rec := range recs {
		points := make([]*track.Point, len(rec.Points))
		for pi, pr := range rec.Points {
			p := track.NewPoint(geom.V(pr.Local[0], pr.Local[1]), geom.V(pr.Dir[0], pr.Dir[1]))
			p.SnapRadius = pr.SnapRadius
			p.DirTolerance = pr.DirTolerance
			points[pi] = p
		}
		seg := track.NewSegment(track.Kind(rec.Kind), rec.Comment, points...)
		seg.BezierSamples = rec.BezierSamples
		seg.ControlStrength = rec.ControlStrength
		seg.SetTransform(geom.Transform{Pos: geom.V(rec.Pos[0], rec.Pos[1]), Rot: rec.Rot})
		if seg.Switch != nil {
			seg.Switch.SetDiverging(rec.Diverging)
		}
		if err := g.RegisterSegment(seg); err != nil {
			return nil, err
		}
		segs[i] = seg
	}
	for i, rec := range recs {
		for pi, pr := range rec.Points {
			if pr.Link == nil {
				continue
			}
			if pr.Link.SegI < 0 || pr.Link.SegI >= len(segs) {
				return nil, fmt.Errorf("segment %d point %d links to missing segment %d", i, pi, pr.Link.SegI)
			}
			other := segs[pr.Link.SegI]
			if pr.Link.PointI < 0 || pr.Link.PointI >= len(other.Points) {
				return nil, fmt.Errorf("segment %d point %d links to missing point %d", i, pi, pr.Link.PointI)
			}
			if !segs[i].Points[pi].Connect(other.Points[pr.Link.PointI]) {
				return nil, fmt.Errorf("segment %d point %d: stored link refused", i, pi)
			}
		}
	}
	g.RegenerateAllPaths()
	return g, nil
}
