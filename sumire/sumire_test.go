package sumire

import (
	"net/http/httptest"
	"strings"
	"testing"

	"nyiyui.ca/hato/senro/track/preset"
)

func TestRendersSnapshot(t *testing.T) {
	g, err := preset.Testbench2()
	if err != nil {
		t.Fatalf("testbench: %s", err)
	}
	s := NewServer()
	s.SetSnapshot(g.Snapshot())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"tb2-approach", "tb2-junction", "tb2-main", "tb2-siding",
		"straight",                  // switch position column
		"tb2-approach → tb2-main",   // the one routable path
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "paths stale") {
		t.Errorf("fresh snapshot rendered as stale")
	}
}

func TestRendersEmptySnapshot(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != 200 {
		t.Errorf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "senro") {
		t.Errorf("page missing title")
	}
}
