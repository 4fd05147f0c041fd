package geonet

import "testing"

func newTestMap() *Map {
	m := NewMap(Rect{Width: 800, Height: 600})
	m.View().SetCenter(LatLng{})
	m.View().SetZoom(2)
	return m
}

// voyageSnapshot has two clustered origin nodes, one standalone node, one
// unplaced node and a mix of edges, one of them dangling.
func voyageSnapshot() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{ID: "A", Name: "Alpha", Lat: Float(0), Lon: Float(0), Size: Float(100), Weights: Weights{Origin: 5}},
			{ID: "B", Name: "Bravo", Lat: Float(0.5), Lon: Float(0.5), Size: Float(10), Weights: Weights{Origin: 2}},
			{ID: "C", Name: "Charlie", Lat: Float(30), Lon: Float(-60), Size: Float(1000), Weights: Weights{Disembarkation: 3}},
			{ID: "U", Name: "Unplaced", Size: Float(5)},
		},
		Edges: []Edge{
			{Source: "A", Target: "C", Kind: EdgeKindTransportation},
			{Source: "B", Target: "C", Kind: EdgeKindTransportation},
			{Source: "A", Target: "missing", Kind: EdgeKindTransportation},
			{Source: "A", Target: "C", Kind: EdgeKindOrigination},
		},
	}
}

// ownedCounts tallies the layers on m by kind, restricted to owner.
func ownedCounts(m *Map, owner string) map[LayerKind]int {
	counts := map[LayerKind]int{}
	m.EachLayer(func(l *Layer) {
		if l.Owner == owner {
			counts[l.Kind]++
		}
	})
	return counts
}

func TestRefreshBuildsScene(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	st := r.Refresh(voyageSnapshot())

	if st.Curves != 2 {
		t.Errorf("Curves = %d, want 2", st.Curves)
	}
	if st.SkippedEdges != 1 {
		t.Errorf("SkippedEdges = %d, want 1", st.SkippedEdges)
	}
	if st.ClusteredMarkers != 2 || st.Markers != 1 {
		t.Errorf("markers clustered/standalone = %d/%d, want 2/1", st.ClusteredMarkers, st.Markers)
	}
	if st.SkippedNodes != 1 {
		t.Errorf("SkippedNodes = %d, want 1", st.SkippedNodes)
	}
	if st.OriginEdges != 1 {
		t.Errorf("OriginEdges = %d, want 1", st.OriginEdges)
	}

	counts := ownedCounts(m, r.Owner())
	if counts[LayerCurve] != 4 {
		t.Errorf("owned curves = %d, want 4 (static + animated per edge)", counts[LayerCurve])
	}
	if counts[LayerCircleMarker] != 3 {
		t.Errorf("owned markers = %d, want 3", counts[LayerCircleMarker])
	}
	if counts[LayerClusterGroup] != 1 || counts[LayerGroup] != 1 {
		t.Errorf("owned groups = %v", counts)
	}
}

func TestRefreshRoutesByOriginWeight(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	r.Refresh(voyageSnapshot())

	g := r.ClusterGroup()
	ids := map[string]bool{}
	for _, mk := range g.Markers() {
		id, _ := g.NodeID(mk)
		ids[id] = true
	}
	if !ids["A"] || !ids["B"] || ids["C"] {
		t.Errorf("clustered ids = %v, want A and B", ids)
	}

	// The standalone marker sits above the cluster group.
	children := m.Root().Children()
	last := children[len(children)-1]
	if last.Kind != LayerCircleMarker || last.Name != "C" {
		t.Errorf("top layer = %s %q, want marker C", last.Kind, last.Name)
	}
	if last.Popup != "Charlie" {
		t.Errorf("popup = %q, want node name", last.Popup)
	}
	if last.Fill != DisembarkationColor {
		t.Errorf("fill = %+v, want disembarkation color", last.Fill)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	snap := voyageSnapshot()

	r.Refresh(snap)
	first := ownedCounts(m, r.Owner())
	st := r.Refresh(snap)
	second := ownedCounts(m, r.Owner())

	if len(first) != len(second) {
		t.Fatalf("kinds differ: %v vs %v", first, second)
	}
	for k, n := range first {
		if second[k] != n {
			t.Errorf("%s: %d after first refresh, %d after second", k, n, second[k])
		}
	}
	if st.Removed == 0 {
		t.Error("second refresh should remove the first scene")
	}
}

func TestRefreshLeavesNoStalePrimitives(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	r.Refresh(voyageSnapshot())
	oldGroup := r.ClusterGroup()
	oldOverlay := r.Overlay()

	next := Snapshot{Nodes: []Node{
		{ID: "Z", Lat: Float(10), Lon: Float(10), Size: Float(1)},
	}}
	r.Refresh(next)

	if !oldGroup.Layer().IsDisposed() || !oldOverlay.IsDisposed() {
		t.Error("previous cluster group and overlay should be disposed")
	}
	m.EachLayer(func(l *Layer) {
		if l.IsDisposed() {
			t.Errorf("disposed layer %q still reachable", l.Name)
		}
		switch l.Name {
		case "A", "B", "C":
			t.Errorf("stale marker %q survived refresh", l.Name)
		}
		if l.Kind == LayerCurve {
			t.Errorf("stale curve %q survived refresh", l.Name)
		}
	})
	counts := ownedCounts(m, r.Owner())
	if counts[LayerCircleMarker] != 1 {
		t.Errorf("markers = %d, want 1", counts[LayerCircleMarker])
	}
}

func TestRefreshKeepsForeignLayers(t *testing.T) {
	m := newTestMap()
	foreignMarker := NewCircleMarker("foreign", LatLng{Lat: 5, Lng: 5}, 4, MarkerStyle{})
	foreignCurve := NewCurve("foreign-curve", []LatLng{{}, {Lat: 1, Lng: 1}}, ColorBlack, 1)
	m.AddMarker(foreignMarker)
	m.AddCurve(foreignCurve)

	r := NewSceneReconciler(m, DefaultRendererConfig())
	other := NewSceneReconciler(m, DefaultRendererConfig())
	other.Refresh(Snapshot{Nodes: []Node{{ID: "other", Lat: Float(1), Lon: Float(1), Size: Float(1)}}})

	r.Refresh(voyageSnapshot())
	r.Refresh(voyageSnapshot())

	if foreignMarker.IsDisposed() || foreignMarker.Parent != m.Root() {
		t.Error("foreign marker was removed")
	}
	if foreignCurve.IsDisposed() || foreignCurve.Parent != m.Root() {
		t.Error("foreign curve was removed")
	}
	if ownedCounts(m, other.Owner())[LayerCircleMarker] != 1 {
		t.Error("another reconciler's marker was removed")
	}
}

func TestRefreshEmptySnapshot(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	st := r.Refresh(Snapshot{})
	if st.Curves != 0 || st.Markers != 0 || st.ClusteredMarkers != 0 {
		t.Errorf("stats = %+v, want empty", st)
	}
	if r.Index() == nil || r.ClusterGroup() == nil || r.Overlay() == nil {
		t.Error("empty refresh should still build the index, group and overlay")
	}
}

func TestRefreshAllEdgesDangling(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	st := r.Refresh(Snapshot{
		Nodes: []Node{{ID: "A", Lat: Float(1), Lon: Float(1), Size: Float(3)}},
		Edges: []Edge{
			{Source: "A", Target: "nowhere", Kind: EdgeKindTransportation},
			{Source: "ghost", Target: "A", Kind: EdgeKindOnwardDistribution},
		},
	})
	if st.SkippedEdges != 2 || st.Curves != 0 {
		t.Errorf("skipped/curves = %d/%d, want 2/0", st.SkippedEdges, st.Curves)
	}
	if st.Markers != 1 {
		t.Errorf("markers = %d, want 1", st.Markers)
	}
}

func TestRefreshMarkerRadiiFollowScale(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	r.Refresh(voyageSnapshot())

	radii := map[string]float64{}
	m.EachLayer(func(l *Layer) {
		if l.Kind == LayerCircleMarker {
			radii[l.Name] = l.Radius
		}
	})
	// U has no position but still widens the domain, so B is not at the minimum.
	if radii["C"] != DefaultMaxRadius || radii["B"] <= DefaultMinRadius {
		t.Errorf("radii = %v, want C at max and B above min", radii)
	}
	if _, drawn := radii["U"]; drawn {
		t.Error("unplaced node should not be drawn")
	}
	if !(radii["B"] < radii["A"] && radii["A"] < radii["C"]) {
		t.Errorf("radii not ordered by size: %v", radii)
	}
}
