package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/buntdb"

	"nyiyui.ca/hato/senro/track"
	"nyiyui.ca/hato/senro/track/preset"
)

func memDB(t *testing.T) *buntdb.DB {
	t.Helper()
	db, err := buntdb.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoundTrip(t *testing.T) {
	g, err := preset.Testbench2()
	if err != nil {
		t.Fatalf("testbench: %s", err)
	}
	db := memDB(t)
	if err := Save(db, g); err != nil {
		t.Fatalf("save: %s", err)
	}
	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	if diff := cmp.Diff(g.Snapshot(), loaded.Snapshot()); diff != "" {
		t.Errorf("round trip changed the layout:\n%s", diff)
	}
}

func TestRoundTripSwitchState(t *testing.T) {
	g, err := preset.Testbench2()
	if err != nil {
		t.Fatalf("testbench: %s", err)
	}
	junction := preset.MustLookup(g, "tb2-junction")
	junction.Switch.Toggle()

	db := memDB(t)
	if err := Save(db, g); err != nil {
		t.Fatalf("save: %s", err)
	}
	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("load: %s", err)
	}

	var found bool
	for _, seg := range loaded.Segments() {
		if seg.Comment != "tb2-junction" {
			continue
		}
		found = true
		if !seg.Switch.Diverging() {
			t.Errorf("diverging switch loaded as straight")
		}
	}
	if !found {
		t.Fatalf("junction missing after load")
	}
	if diff := cmp.Diff(g.Snapshot(), loaded.Snapshot()); diff != "" {
		t.Errorf("round trip changed the layout:\n%s", diff)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	big, err := preset.Testbench2()
	if err != nil {
		t.Fatalf("testbench: %s", err)
	}
	small, err := preset.Testbench1()
	if err != nil {
		t.Fatalf("testbench: %s", err)
	}
	db := memDB(t)
	if err := Save(db, big); err != nil {
		t.Fatalf("save big: %s", err)
	}
	if err := Save(db, small); err != nil {
		t.Fatalf("save small: %s", err)
	}
	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	if got, want := len(loaded.Segments()), len(small.Segments()); got != want {
		t.Errorf("got %d segments, want %d (stale layout left behind)", got, want)
	}
}

func TestLoadEmpty(t *testing.T) {
	loaded, err := Load(memDB(t))
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	if len(loaded.Segments()) != 0 || len(loaded.Paths()) != 0 {
		t.Errorf("empty store produced a non-empty graph")
	}
}

func TestLoadRejectsDanglingLink(t *testing.T) {
	g := track.NewGraph()
	a := preset.NewStraight("a", 1)
	b := preset.NewStraight("b", 1)
	g.RegisterSegment(a)
	g.RegisterSegment(b)
	if !g.AlignAndConnect(b.Points[0], a.Points[1]) {
		t.Fatalf("connect failed")
	}
	db := memDB(t)
	if err := Save(db, g); err != nil {
		t.Fatalf("save: %s", err)
	}
	// drop b; a's stored link now points at a missing segment
	err := db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete("segment:000001:data")
		return err
	})
	if err != nil {
		t.Fatalf("delete: %s", err)
	}
	if _, err := Load(db); err == nil {
		t.Errorf("load accepted a link to a missing segment")
	}
}
