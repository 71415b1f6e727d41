package fit

import (
	"math"
	"testing"
	"time"
)

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestHistoryBounded(t *testing.T) {
	h := History{Max: 4}
	start := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		h.Add(start.Add(time.Duration(i)*time.Second), float64(i))
	}
	if len(h.Spans) != 4 {
		t.Fatalf("got %d spans, want 4", len(h.Spans))
	}
	if h.Spans[0].Dist != 6 || h.Spans[3].Dist != 9 {
		t.Errorf("wrong spans survived: %v", h.Spans)
	}
}

func TestFitNeedsThreeSpans(t *testing.T) {
	h := History{}
	start := time.Unix(0, 0)
	h.Add(start, 0)
	h.Add(start.Add(time.Second), 1)
	if _, ok := h.Fit(); ok {
		t.Errorf("fit succeeded with 2 spans")
	}
}

func TestFitConstantSpeed(t *testing.T) {
	h := History{}
	start := time.Unix(0, 0)
	for i := 0; i < 8; i++ {
		at := start.Add(time.Duration(i) * 100 * time.Millisecond)
		h.Add(at, 0.5*at.Sub(start).Seconds())
	}
	rel, ok := h.Fit()
	if !ok {
		t.Fatalf("fit failed")
	}
	now := start.Add(700 * time.Millisecond)
	if got := rel.Speed(now); !approxEqual(got, 0.5, 1e-6) {
		t.Errorf("speed = %v, want 0.5", got)
	}
	if got := rel.Dist(now); !approxEqual(got, 0.35, 1e-6) {
		t.Errorf("dist = %v, want 0.35", got)
	}
}

func TestFitAcceleration(t *testing.T) {
	h := History{}
	start := time.Unix(0, 0)
	// dist = t²: speed at t is 2t
	for i := 0; i < 8; i++ {
		at := start.Add(time.Duration(i) * 250 * time.Millisecond)
		s := at.Sub(start).Seconds()
		h.Add(at, s*s)
	}
	rel, ok := h.Fit()
	if !ok {
		t.Fatalf("fit failed")
	}
	now := start.Add(time.Second)
	if got := rel.Speed(now); !approxEqual(got, 2, 1e-6) {
		t.Errorf("speed = %v, want 2", got)
	}
}

func TestETA(t *testing.T) {
	h := History{}
	start := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		at := start.Add(time.Duration(i) * time.Second)
		h.Add(at, float64(i)) // 1 unit/s
	}
	rel, ok := h.Fit()
	if !ok {
		t.Fatalf("fit failed")
	}
	now := start.Add(4 * time.Second)

	eta, ok := rel.ETA(10, now)
	if !ok {
		t.Fatalf("no ETA toward target ahead")
	}
	if !approxEqual(eta.Seconds(), 6, 1e-6) {
		t.Errorf("eta = %v, want 6s", eta)
	}

	if _, ok := rel.ETA(1, now); ok {
		t.Errorf("got an ETA for a target behind the follower")
	}
}
