// Package geom has the 2D math used by the track graph: vectors, rigid
// transforms, and cubic Bezier sampling.
package geom

import "math"

type Vec2 struct {
	X float64
	Y float64
}

func V(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(w Vec2) Vec2      { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2      { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(w Vec2) float64   { return v.X*w.X + v.Y*w.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(w Vec2) float64  { return v.Sub(w).Len() }

// Normalize returns the unit vector of v, or the zero vector if v is
// (nearly) zero-length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Rotate rotates v counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Angle returns the angle of v from the +X axis in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Transform is a rigid 2D transform: rotation (radians, counter-clockwise)
// followed by translation.
type Transform struct {
	Pos Vec2
	Rot float64
}

// Apply maps a point in local space to world space.
func (t Transform) Apply(local Vec2) Vec2 {
	return local.Rotate(t.Rot).Add(t.Pos)
}

// ApplyDir maps a direction in local space to world space (rotation only).
func (t Transform) ApplyDir(local Vec2) Vec2 {
	return local.Rotate(t.Rot)
}

// ClosestOnSegment returns the point on segment ab closest to p, and the
// clamped parameter t in [0, 1]. A near-zero-length segment is treated as
// the point a.
func ClosestOnSegment(a, b, p Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	l2 := ab.LenSq()
	if l2 < 1e-12 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t)), t
}
