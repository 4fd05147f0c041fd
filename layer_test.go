package geonet

import "testing"

func TestAddChildSetsParent(t *testing.T) {
	parent := NewLayerGroup("parent")
	child := NewLayerGroup("child")
	parent.AddChild(child)
	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Error("parent should hold the child")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewLayerGroup("a")
	b := NewLayerGroup("b")
	child := NewLayerGroup("child")
	a.AddChild(child)
	b.AddChild(child)
	if a.NumChildren() != 0 {
		t.Error("old parent should lose the child")
	}
	if child.Parent != b {
		t.Error("child should move to the new parent")
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil", func() { NewLayerGroup("p").AddChild(nil) }},
		{"cycle", func() {
			a := NewLayerGroup("a")
			b := NewLayerGroup("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
		{"self", func() {
			a := NewLayerGroup("a")
			a.AddChild(a)
		}},
		{"disposed", func() {
			c := NewLayerGroup("c")
			c.Dispose()
			NewLayerGroup("p").AddChild(c)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewLayerGroup("a").RemoveChild(NewLayerGroup("b"))
}

func TestDisposeIsRecursive(t *testing.T) {
	root := NewLayerGroup("root")
	mid := NewLayerGroup("mid")
	leaf := NewCircleMarker("leaf", LatLng{}, 4, MarkerStyle{})
	root.AddChild(mid)
	mid.AddChild(leaf)

	mid.Dispose()
	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("mid and its descendants should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed layer should leave its parent")
	}
	if mid.ID != 0 || leaf.ID != 0 {
		t.Error("disposed layers should have ID 0")
	}
	mid.Dispose() // no-op
}

func TestClearLayersDisposesChildren(t *testing.T) {
	g := NewLayerGroup("g")
	a := NewCurve("a", []LatLng{{}, {Lat: 1}}, ColorBlack, 1)
	b := NewCurve("b", []LatLng{{}, {Lat: 2}}, ColorBlack, 1)
	g.AddChild(a)
	g.AddChild(b)
	g.ClearLayers()
	if g.NumChildren() != 0 {
		t.Errorf("children = %d, want 0", g.NumChildren())
	}
	if !a.IsDisposed() || !b.IsDisposed() {
		t.Error("cleared children should be disposed")
	}
	if g.IsDisposed() {
		t.Error("ClearLayers must not dispose the group itself")
	}
}

func TestBringToFront(t *testing.T) {
	g := NewLayerGroup("g")
	a, b, c := NewLayerGroup("a"), NewLayerGroup("b"), NewLayerGroup("c")
	g.AddChild(a)
	g.AddChild(b)
	g.AddChild(c)
	a.BringToFront()
	got := g.Children()
	if got[0] != b || got[1] != c || got[2] != a {
		t.Errorf("order = %s %s %s, want b c a", got[0].Name, got[1].Name, got[2].Name)
	}
	NewLayerGroup("orphan").BringToFront() // no parent, no-op
}

func TestWalkSkipsChildren(t *testing.T) {
	root := NewLayerGroup("root")
	skip := NewLayerGroup("skip")
	root.AddChild(skip)
	skip.AddChild(NewLayerGroup("hidden"))
	root.AddChild(NewLayerGroup("after"))

	var names []string
	root.Walk(func(l *Layer) bool {
		names = append(names, l.Name)
		return l.Name != "skip"
	})
	want := []string{"root", "skip", "after"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visited %v, want %v", names, want)
			break
		}
	}
}

func TestLayerIDsUnique(t *testing.T) {
	seen := map[uint32]bool{}
	for i := 0; i < 100; i++ {
		l := NewLayerGroup("x")
		if seen[l.ID] {
			t.Fatalf("duplicate id %d", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestConstructorDefaults(t *testing.T) {
	m := NewCircleMarker("m", LatLng{Lat: 1, Lng: 2}, 6, MarkerStyle{Fill: OriginColor, FillOpacity: 0.8, Weight: 1})
	if m.Kind != LayerCircleMarker || m.Pane != PaneMarker || !m.Interactable || !m.Visible || m.Opacity != 1 {
		t.Errorf("marker defaults wrong: %+v", m)
	}
	c := NewCurve("c", []LatLng{{}, {Lat: 1}}, ColorBlack, 2)
	if c.Kind != LayerCurve || c.Pane != PaneOverlay || c.Interactable {
		t.Errorf("curve defaults wrong: %+v", c)
	}
	if LayerClusterIcon.String() != "cluster-icon" || LayerKind(99).String() != "unknown" {
		t.Error("LayerKind.String mismatch")
	}
}
