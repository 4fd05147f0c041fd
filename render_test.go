package geonet

import (
	"math"
	"testing"
)

func TestMergeSortStableByPane(t *testing.T) {
	m := newTestMap()
	m.commands = []renderCommand{
		{pane: PaneMarker, treeOrder: 0},
		{pane: PaneOverlay, treeOrder: 1},
		{pane: PanePopup, treeOrder: 2},
		{pane: PaneMarker, treeOrder: 3},
		{pane: PaneOverlay, treeOrder: 4},
	}
	m.mergeSort()
	want := []int{1, 4, 0, 3, 2}
	for i, w := range want {
		if m.commands[i].treeOrder != w {
			t.Fatalf("order = %v, want tree orders %v", m.commands, want)
		}
	}
}

func TestMergeSortLarge(t *testing.T) {
	m := newTestMap()
	for i := 0; i < 1000; i++ {
		m.commands = append(m.commands, renderCommand{pane: Pane((i * 7) % 3), treeOrder: i})
	}
	m.mergeSort()
	for i := 1; i < len(m.commands); i++ {
		a, b := m.commands[i-1], m.commands[i]
		if a.pane > b.pane || (a.pane == b.pane && a.treeOrder > b.treeOrder) {
			t.Fatalf("commands %d and %d out of order: %+v %+v", i-1, i, a, b)
		}
	}
}

func collectRuns(points []Vec2, pattern []float64, offset float64) [][2]float64 {
	var runs [][2]float64
	dashPolyline(points, pattern, offset, nil, func(run []Vec2) {
		runs = append(runs, [2]float64{run[0].X, run[len(run)-1].X})
	})
	return runs
}

func TestDashPolyline(t *testing.T) {
	line := []Vec2{{0, 0}, {100, 0}}

	runs := collectRuns(line, []float64{10, 10}, 0)
	if len(runs) != 5 {
		t.Fatalf("runs = %v, want 5", runs)
	}
	if runs[0] != [2]float64{0, 10} || runs[4] != [2]float64{80, 90} {
		t.Errorf("runs = %v", runs)
	}

	shifted := collectRuns(line, []float64{10, 10}, 5)
	if len(shifted) != 6 {
		t.Fatalf("shifted runs = %v, want 6", shifted)
	}
	if shifted[0] != [2]float64{0, 5} || shifted[5] != [2]float64{95, 100} {
		t.Errorf("shifted runs = %v", shifted)
	}
}

func TestDashPolylineAcrossVertices(t *testing.T) {
	// The first dash bends around the corner at (6, 0).
	path := []Vec2{{0, 0}, {6, 0}, {6, 20}}
	var runs [][]Vec2
	dashPolyline(path, []float64{10, 5}, 0, nil, func(run []Vec2) {
		runs = append(runs, append([]Vec2(nil), run...))
	})
	if len(runs) != 2 {
		t.Fatalf("runs = %v, want 2", runs)
	}
	if len(runs[0]) != 3 || runs[0][1] != (Vec2{6, 0}) {
		t.Errorf("first run = %v, want it to include the corner", runs[0])
	}
	end := runs[0][2]
	if math.Abs(end.X-6) > 1e-9 || math.Abs(end.Y-4) > 1e-9 {
		t.Errorf("first run ends at %v, want (6, 4)", end)
	}
}

func TestDashPolylineNoPattern(t *testing.T) {
	line := []Vec2{{0, 0}, {10, 0}}
	if runs := collectRuns(line, []float64{0, 0}, 0); len(runs) != 1 {
		t.Errorf("zero pattern runs = %v, want the whole line once", runs)
	}
	if runs := collectRuns(line[:1], []float64{4, 4}, 0); len(runs) != 0 {
		t.Errorf("single point runs = %v, want none", runs)
	}
}

func TestBuildCommandsPaneOrder(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	r.Refresh(voyageSnapshot())
	m.updateClusters()

	m.buildCommands()
	m.mergeSort()
	if len(m.commands) == 0 {
		t.Fatal("no commands built")
	}
	for i := 1; i < len(m.commands); i++ {
		if m.commands[i-1].pane > m.commands[i].pane {
			t.Fatalf("command %d in pane %d after pane %d", i, m.commands[i].pane, m.commands[i-1].pane)
		}
	}
	for _, c := range m.commands {
		if c.vEnd <= c.vStart || c.iEnd <= c.iStart {
			t.Errorf("empty command %+v", c)
		}
		for _, idx := range m.mesh.inds[c.iStart:c.iEnd] {
			if int(idx) >= c.vEnd-c.vStart {
				t.Fatalf("index %d out of range for command %+v", idx, c)
			}
		}
	}

	// One cluster of two: its count is drawn as a label.
	found := false
	for _, lb := range m.labels {
		if lb.text == "2" && lb.pane == PaneMarker {
			found = true
		}
	}
	if !found {
		t.Errorf("cluster count label missing: %+v", m.labels)
	}
}

func TestBuildCommandsSkipsHidden(t *testing.T) {
	m := newTestMap()
	mk := NewCircleMarker("m", LatLng{}, 8, MarkerStyle{Fill: ColorWhite, FillOpacity: 1})
	m.AddMarker(mk)
	m.buildCommands()
	if len(m.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(m.commands))
	}
	mk.Visible = false
	m.buildCommands()
	if len(m.commands) != 0 {
		t.Errorf("hidden marker drew %d commands", len(m.commands))
	}
	mk.Visible = true
	mk.Opacity = 0
	m.buildCommands()
	if len(m.commands) != 0 {
		t.Errorf("transparent marker drew %d commands", len(m.commands))
	}
}

func TestBuildCommandsPopup(t *testing.T) {
	m := newTestMap()
	mk := NewCircleMarker("m", LatLng{}, 8, MarkerStyle{Fill: ColorWhite, FillOpacity: 1})
	mk.Popup = "Luanda"
	m.AddMarker(mk)
	m.OpenPopup(mk)
	m.buildCommands()

	last := m.labels[len(m.labels)-1]
	if last.text != "Luanda" || last.pane != PanePopup {
		t.Errorf("last label = %+v, want popup text", last)
	}
	if last.y >= 300 {
		t.Errorf("popup drawn at y=%d, want above the marker", last.y)
	}
}

func TestVertexPremultiplied(t *testing.T) {
	var ms mesh
	ms.begin()
	ms.vertex(1, 2, Color{R: 1, G: 0.5, B: 0, A: 0.5})
	v := ms.verts[0]
	if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorB != 0 || v.ColorA != 0.5 {
		t.Errorf("vertex color = %v %v %v %v, want premultiplied", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
	if v.SrcX != 0.5 || v.SrcY != 0.5 {
		t.Error("vertices should sample the white pixel center")
	}
}

func TestStrokePolylineCounts(t *testing.T) {
	var ms mesh
	ms.begin()
	ms.strokePolyline([]Vec2{{0, 0}, {10, 0}, {10, 10}, {20, 10}}, 2, ColorBlack)
	if len(ms.verts) != 8 || len(ms.inds) != 18 {
		t.Errorf("verts/inds = %d/%d, want 8/18", len(ms.verts), len(ms.inds))
	}
}

func TestQuadBezierEndpoints(t *testing.T) {
	pts := quadBezier(Vec2{0, 0}, Vec2{5, 10}, Vec2{10, 0}, 10, nil)
	if len(pts) != 11 {
		t.Fatalf("points = %d, want 11", len(pts))
	}
	if pts[0] != (Vec2{0, 0}) || pts[10] != (Vec2{10, 0}) {
		t.Errorf("endpoints = %v %v", pts[0], pts[10])
	}
	if math.Abs(pts[5].Y-5) > 1e-9 {
		t.Errorf("midpoint y = %v, want 5", pts[5].Y)
	}
}
