package geonet

import (
	"sync"
	"testing"
)

func TestEnqueueFromGoroutines(t *testing.T) {
	m := newTestMap()
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ran int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				m.Enqueue(func() {
					mu.Lock()
					ran++
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	if n := m.drainQueue(); n != 80 {
		t.Errorf("drained %d, want 80", n)
	}
	if ran != 80 {
		t.Errorf("ran %d, want 80", ran)
	}
	if n := m.drainQueue(); n != 0 {
		t.Errorf("second drain ran %d, want 0", n)
	}
}

func TestEnqueueNilIgnored(t *testing.T) {
	m := newTestMap()
	m.Enqueue(nil)
	if n := m.drainQueue(); n != 0 {
		t.Errorf("drained %d, want 0", n)
	}
}

func TestEnqueueDuringDrainRunsNextStep(t *testing.T) {
	m := newTestMap()
	order := []string{}
	m.Enqueue(func() {
		order = append(order, "first")
		m.Enqueue(func() { order = append(order, "second") })
	})
	m.step(1.0 / 60)
	if len(order) != 1 {
		t.Fatalf("after one step order = %v", order)
	}
	m.step(1.0 / 60)
	if len(order) != 2 || order[1] != "second" {
		t.Errorf("after two steps order = %v", order)
	}
}

func TestStepRefreshesClusters(t *testing.T) {
	m := newTestMap()
	r := NewSceneReconciler(m, DefaultRendererConfig())
	m.Enqueue(func() { r.Refresh(voyageSnapshot()) })
	m.step(1.0 / 60)
	if got := len(r.ClusterGroup().Clusters()); got != 1 {
		t.Errorf("clusters after step = %d, want 1", got)
	}
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestSurfaceKindChecks(t *testing.T) {
	m := newTestMap()
	marker := NewCircleMarker("m", LatLng{}, 4, MarkerStyle{})
	curve := NewCurve("c", []LatLng{{}, {Lat: 1}}, ColorBlack, 1)
	group := NewLayerGroup("g")

	assertPanics(t, "AddMarker(curve)", func() { m.AddMarker(curve) })
	assertPanics(t, "AddMarker(nil)", func() { m.AddMarker(nil) })
	assertPanics(t, "AddCurve(marker)", func() { m.AddCurve(marker) })
	assertPanics(t, "AddLayerGroup(marker)", func() { m.AddLayerGroup(marker) })
	assertPanics(t, "AddClusterGroup(nil)", func() { m.AddClusterGroup(nil) })

	m.AddMarker(marker)
	m.AddCurve(curve)
	m.AddLayerGroup(group)
	if m.Root().NumChildren() != 3 {
		t.Errorf("root children = %d, want 3", m.Root().NumChildren())
	}
}

func TestRemoveLayerNoops(t *testing.T) {
	m := newTestMap()
	marker := NewCircleMarker("m", LatLng{}, 4, MarkerStyle{})
	m.AddMarker(marker)

	m.RemoveLayer(nil)
	m.RemoveLayer(m.Root())
	if m.Root().IsDisposed() || m.Root().NumChildren() != 1 {
		t.Fatal("removing nil or the root changed the tree")
	}

	m.RemoveLayer(marker)
	if !marker.IsDisposed() || m.Root().NumChildren() != 0 {
		t.Fatal("marker not removed")
	}
	m.RemoveLayer(marker)
}

func TestRemoveLayerClosesPopup(t *testing.T) {
	m := newTestMap()
	group := NewLayerGroup("g")
	marker := NewCircleMarker("m", LatLng{}, 4, MarkerStyle{})
	marker.Popup = "Bissau"
	group.AddChild(marker)
	m.AddLayerGroup(group)

	m.OpenPopup(marker)
	if m.Popup() != marker {
		t.Fatal("popup not open")
	}
	m.RemoveLayer(group)
	if m.Popup() != nil {
		t.Error("popup survived removal of its marker's group")
	}
}

func TestOpenPopupWithoutText(t *testing.T) {
	m := newTestMap()
	a := NewCircleMarker("a", LatLng{}, 4, MarkerStyle{})
	a.Popup = "Cádiz"
	b := NewCircleMarker("b", LatLng{}, 4, MarkerStyle{})
	m.AddMarker(a)
	m.AddMarker(b)

	m.OpenPopup(a)
	m.OpenPopup(b)
	if m.Popup() != nil {
		t.Error("opening a marker without popup text should close the popup")
	}
}

func TestEachLayer(t *testing.T) {
	m := newTestMap()
	group := NewLayerGroup("g")
	inner := NewCircleMarker("inner", LatLng{}, 4, MarkerStyle{})
	group.AddChild(inner)
	m.AddLayerGroup(group)
	m.AddMarker(NewCircleMarker("outer", LatLng{}, 4, MarkerStyle{}))

	var names []string
	m.EachLayer(func(l *Layer) {
		names = append(names, l.Name)
	})
	want := []string{"g", "inner", "outer"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visited %v, want %v", names, want)
		}
	}
}

func TestEachLayerRemoveWhileVisiting(t *testing.T) {
	m := newTestMap()
	for _, name := range []string{"a", "b", "c"} {
		m.AddMarker(NewCircleMarker(name, LatLng{}, 4, MarkerStyle{}))
	}
	visited := 0
	m.EachLayer(func(l *Layer) {
		visited++
		m.RemoveLayer(l)
	})
	if visited != 3 {
		t.Errorf("visited %d, want 3", visited)
	}
	if m.Root().NumChildren() != 0 {
		t.Errorf("root children = %d, want 0", m.Root().NumChildren())
	}
}

func TestSetViewportSize(t *testing.T) {
	m := newTestMap()
	m.SetViewportSize(1024, 768)
	vp := m.View().Viewport
	if vp.Width != 1024 || vp.Height != 768 {
		t.Errorf("viewport = %+v", vp)
	}
	if got := m.View().LatLngToScreen(m.View().Center); got.X != 512 || got.Y != 384 {
		t.Errorf("center on screen = %v, want (512, 384)", got)
	}
}
