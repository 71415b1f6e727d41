// Package fit estimates a follower's speed from its recent distance
// history by fitting a low-degree polynomial, for display and arrival
// estimates in the simulator.
package fit

import (
	"time"

	"github.com/openacid/slimarray/polyfit"
)

// Span is one observation of a follower's path distance.
type Span struct {
	Time time.Time
	Dist float64
}

// History is a bounded record of spans for one follower.
type History struct {
	Spans []Span
	// Max caps the history; 0 means DefaultMax.
	Max int
}

const DefaultMax = 64

func (h *History) Add(t time.Time, dist float64) {
	h.Spans = append(h.Spans, Span{Time: t, Dist: dist})
	max := h.Max
	if max == 0 {
		max = DefaultMax
	}
	if len(h.Spans) > max {
		h.Spans = h.Spans[len(h.Spans)-max:]
	}
}

// Relation is distance as a polynomial in seconds since the first span.
type Relation struct {
	Coeffs []float64
	t0     time.Time
}

// Fit fits a degree-2 polynomial to the history. ok is false with fewer
// than 3 spans.
func (h *History) Fit() (Relation, bool) {
	if len(h.Spans) < 3 {
		return Relation{}, false
	}
	t0 := h.Spans[0].Time
	xs := make([]float64, len(h.Spans))
	ys := make([]float64, len(h.Spans))
	for i, span := range h.Spans {
		xs[i] = span.Time.Sub(t0).Seconds()
		ys[i] = span.Dist
	}
	f := polyfit.NewFit(xs, ys, 2)
	return Relation{Coeffs: f.Solve(), t0: t0}, true
}

// Dist evaluates the fitted distance at t.
func (r Relation) Dist(t time.Time) float64 {
	x := t.Sub(r.t0).Seconds()
	var y, pow float64
	pow = 1
	for _, c := range r.Coeffs {
		y += c * pow
		pow *= x
	}
	return y
}

// Speed evaluates the fitted speed (d distance/dt) at t.
func (r Relation) Speed(t time.Time) float64 {
	x := t.Sub(r.t0).Seconds()
	var y, pow float64
	pow = 1
	for i := 1; i < len(r.Coeffs); i++ {
		y += float64(i) * r.Coeffs[i] * pow
		pow *= x
	}
	return y
}

// ETA estimates when the follower reaches target distance, extrapolating
// at the current fitted speed. ok is false if the follower is not moving
// toward target.
func (r Relation) ETA(target float64, now time.Time) (time.Duration, bool) {
	speed := r.Speed(now)
	remaining := target - r.Dist(now)
	if speed == 0 || remaining/speed < 0 {
		return 0, false
	}
	return time.Duration(remaining / speed * float64(time.Second)), true
}
