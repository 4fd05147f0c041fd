package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/geonet"
)

func sampleSnapshot() geonet.Snapshot {
	return geonet.Snapshot{
		Nodes: []geonet.Node{
			{ID: "A", Name: "Luanda", Lat: geonet.Float(-8.8), Lon: geonet.Float(13.2), Size: geonet.Float(120),
				Weights: geonet.Weights{Origin: 5, Embarkation: 2}},
			{ID: "B", Name: "Unknown"},
			{ID: "C", Name: "Salvador", Lat: geonet.Float(-12.9), Lon: geonet.Float(-38.5),
				Weights: geonet.Weights{Disembarkation: 4, PostDisembarkation: 1}},
		},
		Edges: []geonet.Edge{
			{Source: "A", Target: "C", Kind: geonet.EdgeKindTransportation},
			{Source: "A", Target: "A", Kind: geonet.EdgeKindOrigination},
		},
	}
}

func assertSameSnapshot(t *testing.T, got, want geonet.Snapshot) {
	t.Helper()
	if len(got.Nodes) != len(want.Nodes) {
		t.Fatalf("nodes = %d, want %d", len(got.Nodes), len(want.Nodes))
	}
	for i := range want.Nodes {
		g, w := got.Nodes[i], want.Nodes[i]
		if g.ID != w.ID || g.Name != w.Name || g.Weights != w.Weights {
			t.Errorf("node %d = %+v, want %+v", i, g, w)
		}
		if !sameFloat(g.Lat, w.Lat) || !sameFloat(g.Lon, w.Lon) || !sameFloat(g.Size, w.Size) {
			t.Errorf("node %d coordinates or size differ", i)
		}
	}
	if len(got.Edges) != len(want.Edges) {
		t.Fatalf("edges = %d, want %d", len(got.Edges), len(want.Edges))
	}
	for i := range want.Edges {
		if got.Edges[i] != want.Edges[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got.Edges[i], want.Edges[i])
		}
	}
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"net.json":      FormatJSON,
		"net.YAML":      FormatYAML,
		"net.yml":       FormatYAML,
		"net.db":        FormatSQLite,
		"net.sqlite":    FormatSQLite,
		"dir/x.sqlite3": FormatSQLite,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := DetectFormat("net.csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("csv: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"net.json", "net.yaml", "net.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleSnapshot()
			if err := Save(path, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertSameSnapshot(t, got, want)
		})
	}
}

func TestDecodeJSONNullCoordinates(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"X","lat":null,"lon":4,"weights":{"origin":1}}],"edges":[]}`)
	snap, err := Decode(data, FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Nodes[0].Lat != nil {
		t.Error("lat should be nil")
	}
	if _, ok := snap.Nodes[0].Position(); ok {
		t.Error("node without lat should not have a position")
	}
	if snap.Nodes[0].Weights.Origin != 1 {
		t.Errorf("origin = %v, want 1", snap.Nodes[0].Weights.Origin)
	}
}

func TestDecodeYAMLPostDisembarkation(t *testing.T) {
	data := []byte("nodes:\n  - id: P\n    weights:\n      post_disembarkation: 3\n")
	snap, err := Decode(data, FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Nodes[0].Weights.PostDisembarkation != 3 {
		t.Errorf("post_disembarkation = %v, want 3", snap.Nodes[0].Weights.PostDisembarkation)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing JSON file")
	}
	if _, err := Load(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("expected error for missing SQLite file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestDBWriteReplaces(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "net.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	if err := db.Write(sampleSnapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	small := geonet.Snapshot{Nodes: []geonet.Node{{ID: "Z"}}}
	if err := db.Write(small); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertSameSnapshot(t, got, small)
}

func TestDBKeepsDuplicateIDsInOrder(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "dup.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	snap := geonet.Snapshot{Nodes: []geonet.Node{
		{ID: "A", Name: "first"},
		{ID: "A", Name: "second"},
	}}
	if err := db.Write(snap); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertSameSnapshot(t, got, snap)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	if err := Save(path, geonet.Snapshot{}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan geonet.Snapshot, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(s geonet.Snapshot) { got <- s })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := Save(path, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-got:
		if len(s.Nodes) != 3 {
			t.Errorf("reloaded nodes = %d, want 3", len(s.Nodes))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
