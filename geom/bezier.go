package geom

// CubicBezier evaluates a cubic Bezier with endpoints p0, p1 and control
// points c0, c1 at parameter t.
func CubicBezier(p0, c0, c1, p1 Vec2, t float64) Vec2 {
	u := 1 - t
	// B(t) = u³p0 + 3u²t·c0 + 3ut²·c1 + t³p1
	a := p0.Scale(u * u * u)
	b := c0.Scale(3 * u * u * t)
	c := c1.Scale(3 * u * t * t)
	d := p1.Scale(t * t * t)
	return a.Add(b).Add(c).Add(d)
}

// SampleCubic samples a cubic Bezier at n parameters uniform in t,
// inclusive of both endpoints. n must be at least 2.
func SampleCubic(p0, c0, c1, p1 Vec2, n int) []Vec2 {
	if n < 2 {
		panic("geom: SampleCubic needs at least 2 samples")
	}
	out := make([]Vec2, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = CubicBezier(p0, c0, c1, p1, t)
	}
	return out
}
