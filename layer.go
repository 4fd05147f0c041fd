package geonet

// PointerContext carries pointer event data. X and Y are screen pixels.
type PointerContext struct {
	Layer  *Layer
	X, Y   float64
	LatLng LatLng
	Button MouseButton
}

// nextLayerID is a plain counter; geonet is single-threaded.
var nextLayerID uint32

func newLayerID() uint32 {
	nextLayerID++
	return nextLayerID
}

// Layer is the single primitive type of the map scene. Kind decides which
// fields are meaningful: markers use LatLng and Radius, curves use Path,
// groups only hold children.
type Layer struct {
	// ID is unique per layer and zero after disposal.
	ID   uint32
	Name string
	Kind LayerKind
	Pane Pane

	// Owner tags layers added by one subsystem so that it can later remove
	// exactly its own layers. Empty means unowned.
	Owner string

	Parent   *Layer
	children []*Layer

	// LatLng is the marker or cluster icon center.
	LatLng LatLng
	// Radius is the marker radius in screen pixels.
	Radius float64
	// Path holds the sampled curve vertices.
	Path []LatLng

	Stroke      Color
	Fill        Color
	FillOpacity float64
	// Weight is the stroke width in screen pixels. Zero disables the stroke.
	Weight float64
	// Opacity multiplies the alpha of everything the layer draws.
	Opacity float64
	// Dash is an on/off pattern in screen pixels; nil draws a solid stroke.
	Dash       []float64
	DashOffset float64

	// Popup is the text shown when the marker is clicked. Empty disables it.
	Popup string

	Visible      bool
	Interactable bool

	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnClick        func(PointerContext)

	// group backs a LayerClusterGroup layer.
	group *ClusterGroup
	// cluster backs a LayerClusterIcon layer.
	cluster *Cluster
	// anims are advanced by the map every frame and dropped when done.
	anims []Animator

	disposed bool
}

func layerDefaults(l *Layer) {
	l.ID = newLayerID()
	l.Visible = true
	l.Opacity = 1
}

// NewLayerGroup creates an empty group layer.
func NewLayerGroup(name string) *Layer {
	l := &Layer{Name: name, Kind: LayerGroup, Pane: PaneOverlay}
	layerDefaults(l)
	return l
}

// MarkerStyle configures the look of a circle marker.
type MarkerStyle struct {
	Stroke      Color
	Fill        Color
	FillOpacity float64
	Weight      float64
}

// NewCircleMarker creates an interactable circle marker of the given pixel
// radius centered at ll.
func NewCircleMarker(name string, ll LatLng, radius float64, style MarkerStyle) *Layer {
	l := &Layer{
		Name:         name,
		Kind:         LayerCircleMarker,
		Pane:         PaneMarker,
		LatLng:       ll,
		Radius:       radius,
		Stroke:       style.Stroke,
		Fill:         style.Fill,
		FillOpacity:  style.FillOpacity,
		Weight:       style.Weight,
		Interactable: true,
	}
	layerDefaults(l)
	return l
}

// NewCurve creates a stroked curve through path.
func NewCurve(name string, path []LatLng, stroke Color, weight float64) *Layer {
	l := &Layer{
		Name:   name,
		Kind:   LayerCurve,
		Pane:   PaneOverlay,
		Path:   path,
		Stroke: stroke,
		Weight: weight,
	}
	layerDefaults(l)
	return l
}

// --- Tree manipulation ---

// AddChild appends child to this layer's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, disposed, or an ancestor of this layer (cycle).
func (l *Layer) AddChild(child *Layer) {
	if child == nil {
		panic("geonet: cannot add nil child")
	}
	if child.disposed || l.disposed {
		panic("geonet: cannot add to or from a disposed layer")
	}
	if isAncestor(child, l) {
		panic("geonet: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = l
	l.children = append(l.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
	l.markClusterDirty()
}

// RemoveChild detaches child from this layer.
// Panics if child.Parent != l.
func (l *Layer) RemoveChild(child *Layer) {
	if child.Parent != l {
		panic("geonet: child's parent is not this layer")
	}
	l.removeChildByPtr(child)
	child.Parent = nil
	l.markClusterDirty()
}

// RemoveFromParent detaches this layer from its parent.
// No-op if this layer has no parent.
func (l *Layer) RemoveFromParent() {
	if l.Parent == nil {
		return
	}
	l.Parent.RemoveChild(l)
}

// ClearLayers disposes every child of this layer.
func (l *Layer) ClearLayers() {
	children := l.children
	l.children = nil
	for _, child := range children {
		child.Parent = nil
		child.dispose()
	}
	l.markClusterDirty()
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (l *Layer) Children() []*Layer {
	return l.children
}

// NumChildren returns the number of children.
func (l *Layer) NumChildren() int {
	return len(l.children)
}

// BringToFront moves the layer to the end of its parent's children so it
// draws above its siblings in the same pane.
func (l *Layer) BringToFront() {
	p := l.Parent
	if p == nil || len(p.children) == 0 || p.children[len(p.children)-1] == l {
		return
	}
	p.removeChildByPtr(l)
	p.children = append(p.children, l)
}

// Walk visits l and its descendants depth-first in paint order. Returning
// false from fn skips the layer's children.
func (l *Layer) Walk(fn func(*Layer) bool) {
	if !fn(l) {
		return
	}
	for _, child := range l.children {
		child.Walk(fn)
	}
}

// Animate attaches a to the layer. The map advances it every frame until it
// reports done or the layer is disposed.
func (l *Layer) Animate(a Animator) {
	if a == nil || l.disposed {
		return
	}
	l.anims = append(l.anims, a)
}

// advance steps the layer's animations and drops finished ones.
func (l *Layer) advance(dt float32) {
	if len(l.anims) == 0 {
		return
	}
	kept := l.anims[:0]
	for _, a := range l.anims {
		if !a.Update(dt) {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(l.anims); i++ {
		l.anims[i] = nil
	}
	l.anims = kept
}

// --- Disposal ---

// Dispose removes this layer from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (l *Layer) Dispose() {
	if l.disposed {
		return
	}
	l.RemoveFromParent()
	l.dispose()
}

func (l *Layer) dispose() {
	l.disposed = true
	l.ID = 0
	for _, child := range l.children {
		child.Parent = nil
		child.dispose()
	}
	if l.group != nil {
		l.group.dispose()
	}
	l.children = nil
	l.Parent = nil
	l.anims = nil
	l.cluster = nil
	l.OnPointerEnter = nil
	l.OnPointerLeave = nil
	l.OnClick = nil
}

// IsDisposed returns true if this layer has been disposed.
func (l *Layer) IsDisposed() bool {
	return l.disposed
}

// ClusterGroup returns the cluster group backing a LayerClusterGroup layer,
// or nil for any other kind.
func (l *Layer) ClusterGroup() *ClusterGroup {
	return l.group
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of layer.
func isAncestor(candidate, layer *Layer) bool {
	for p := layer; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from l.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (l *Layer) removeChildByPtr(child *Layer) {
	for i, c := range l.children {
		if c == child {
			copy(l.children[i:], l.children[i+1:])
			l.children[len(l.children)-1] = nil
			l.children = l.children[:len(l.children)-1]
			return
		}
	}
}

// markClusterDirty schedules a recluster when l backs a cluster group.
func (l *Layer) markClusterDirty() {
	if l.group != nil {
		l.group.dirty = true
	}
}
