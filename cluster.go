package geonet

import (
	"math"

	"github.com/tidwall/btree"
)

// DefaultClusterRadius is the default clustering cell size in screen pixels.
const DefaultClusterRadius = 80.0

// IconStyle describes how a cluster icon looks. It is a pure function of the
// member count and has no effect on clustering itself.
type IconStyle struct {
	// Bucket is "large" (<10 members), "medium" (<100) or "small" (>=100).
	Bucket      string
	Background  Color
	Border      Color
	BorderWidth float64
	// Opacity may exceed 1; it is clamped when drawn.
	Opacity float64
	// Size is the icon diameter in pixels.
	Size float64
}

var clusterBackground = RGB(96, 192, 171)

// ClusterIconStyle returns the icon style for a cluster of count markers.
func ClusterIconStyle(count int) IconStyle {
	bucket := "small"
	switch {
	case count < 10:
		bucket = "large"
	case count < 100:
		bucket = "medium"
	}
	return IconStyle{
		Bucket:      bucket,
		Background:  clusterBackground,
		Border:      ColorBlack,
		BorderWidth: 1,
		Opacity:     1.5,
		Size:        40,
	}
}

// ClusterOptions configures a ClusterGroup.
type ClusterOptions struct {
	// Radius is the grid cell size in screen pixels. Zero means DefaultClusterRadius.
	Radius float64
	// IconFunc styles cluster icons. Nil means ClusterIconStyle.
	IconFunc func(count int) IconStyle
}

// Cluster is a group of at least two markers that share a grid cell at the
// current zoom. Clusters are rebuilt whenever the group reclusters.
type Cluster struct {
	group   *ClusterGroup
	markers []*Layer
	members []string
	latlng  LatLng
	icon    *Layer
}

// Members returns the node ids of the clustered markers in paint order.
func (c *Cluster) Members() []string {
	out := make([]string, len(c.members))
	copy(out, c.members)
	return out
}

// ChildCount returns the number of clustered markers.
func (c *Cluster) ChildCount() int {
	return len(c.markers)
}

// LatLng returns the representative position: the mean of the members'
// projected positions.
func (c *Cluster) LatLng() LatLng {
	return c.latlng
}

// Icon returns the layer drawn for the cluster.
func (c *Cluster) Icon() *Layer {
	return c.icon
}

type gridCell struct {
	x, y    int
	markers []*Layer
}

func gridCellLess(a, b *gridCell) bool {
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x < b.x
}

// ClusterGroup holds circle markers and groups the ones that fall into the
// same screen-space grid cell. Node ids are associated with markers by the
// group; the markers themselves carry no domain data.
type ClusterGroup struct {
	layer *Layer
	opts  ClusterOptions
	ids   map[*Layer]string

	cells    *btree.BTreeG[*gridCell]
	clusters []*Cluster
	display  []*Layer

	dirty     bool
	clustered bool
	zoom      float64

	onEnter []func(at LatLng, members []string)
	onLeave []func()
}

// NewClusterGroup creates an empty cluster group backed by a
// LayerClusterGroup layer.
func NewClusterGroup(name string, opts ClusterOptions) *ClusterGroup {
	if opts.Radius <= 0 {
		opts.Radius = DefaultClusterRadius
	}
	if opts.IconFunc == nil {
		opts.IconFunc = ClusterIconStyle
	}
	g := &ClusterGroup{
		opts:  opts,
		ids:   make(map[*Layer]string),
		cells: btree.NewBTreeG[*gridCell](gridCellLess),
		dirty: true,
	}
	g.layer = &Layer{Name: name, Kind: LayerClusterGroup, Pane: PaneMarker, group: g}
	layerDefaults(g.layer)
	return g
}

// Layer returns the group's layer.
func (g *ClusterGroup) Layer() *Layer {
	return g.layer
}

// AddMarker adds marker to the group and associates it with nodeID.
// Panics if marker is not a circle marker.
func (g *ClusterGroup) AddMarker(marker *Layer, nodeID string) {
	if marker == nil || marker.Kind != LayerCircleMarker {
		panic("geonet: cluster groups only hold circle markers")
	}
	g.layer.AddChild(marker)
	g.ids[marker] = nodeID
}

// RemoveMarker detaches marker from the group.
func (g *ClusterGroup) RemoveMarker(marker *Layer) {
	if marker.Parent != g.layer {
		return
	}
	g.layer.RemoveChild(marker)
	delete(g.ids, marker)
}

// NodeID returns the node id associated with marker.
func (g *ClusterGroup) NodeID(marker *Layer) (string, bool) {
	id, ok := g.ids[marker]
	return id, ok
}

// Markers returns every marker in the group.
func (g *ClusterGroup) Markers() []*Layer {
	return g.layer.children
}

// Clusters returns the clusters built by the last recluster.
func (g *ClusterGroup) Clusters() []*Cluster {
	return g.clusters
}

// OnEnter registers fn to run when the pointer enters a cluster icon.
func (g *ClusterGroup) OnEnter(fn func(at LatLng, members []string)) {
	g.onEnter = append(g.onEnter, fn)
}

// OnLeave registers fn to run when the pointer leaves a cluster icon.
func (g *ClusterGroup) OnLeave(fn func()) {
	g.onLeave = append(g.onLeave, fn)
}

// Refresh reclusters at zoom if the markers changed or the zoom differs from
// the last clustering. It reports whether a recluster happened.
func (g *ClusterGroup) Refresh(zoom float64) bool {
	if g.layer.disposed {
		return false
	}
	if g.clustered && !g.dirty && g.zoom == zoom {
		return false
	}
	g.recluster(zoom)
	return true
}

func (g *ClusterGroup) recluster(zoom float64) {
	for _, c := range g.clusters {
		if c.icon != nil {
			c.icon.dispose()
		}
	}
	g.clusters = nil
	g.display = g.display[:0]
	g.cells.Clear()

	for m := range g.ids {
		if m.Parent != g.layer {
			delete(g.ids, m)
		}
	}

	for _, m := range g.layer.children {
		if !m.Visible {
			continue
		}
		p := Project(m.LatLng, zoom)
		probe := &gridCell{
			x: int(math.Floor(p.X / g.opts.Radius)),
			y: int(math.Floor(p.Y / g.opts.Radius)),
		}
		if cell, ok := g.cells.Get(probe); ok {
			cell.markers = append(cell.markers, m)
			continue
		}
		probe.markers = []*Layer{m}
		g.cells.Set(probe)
	}

	g.cells.Scan(func(cell *gridCell) bool {
		if len(cell.markers) == 1 {
			g.display = append(g.display, cell.markers[0])
			return true
		}
		c := &Cluster{group: g, markers: cell.markers}
		var sum Vec2
		for _, m := range cell.markers {
			c.members = append(c.members, g.ids[m])
			p := Project(m.LatLng, 0)
			sum.X += p.X
			sum.Y += p.Y
		}
		n := float64(len(cell.markers))
		c.latlng = Unproject(Vec2{X: sum.X / n, Y: sum.Y / n}, 0)
		c.icon = g.newIcon(c)
		g.clusters = append(g.clusters, c)
		g.display = append(g.display, c.icon)
		return true
	})

	g.zoom = zoom
	g.clustered = true
	g.dirty = false
}

func (g *ClusterGroup) newIcon(c *Cluster) *Layer {
	style := g.opts.IconFunc(len(c.markers))
	icon := &Layer{
		Name:         style.Bucket,
		Kind:         LayerClusterIcon,
		Pane:         PaneMarker,
		LatLng:       c.latlng,
		Radius:       style.Size / 2,
		Fill:         style.Background,
		FillOpacity:  1,
		Stroke:       style.Border,
		Weight:       style.BorderWidth,
		Interactable: true,
		cluster:      c,
	}
	layerDefaults(icon)
	icon.Opacity = math.Min(1, style.Opacity)
	icon.OnPointerEnter = func(PointerContext) { g.emitEnter(c.latlng, c.Members()) }
	icon.OnPointerLeave = func(PointerContext) { g.emitLeave() }
	return icon
}

func (g *ClusterGroup) emitEnter(at LatLng, members []string) {
	if g.layer.disposed {
		return
	}
	for _, fn := range g.onEnter {
		fn(at, members)
	}
}

func (g *ClusterGroup) emitLeave() {
	if g.layer.disposed {
		return
	}
	for _, fn := range g.onLeave {
		fn()
	}
}

func (g *ClusterGroup) dispose() {
	for _, c := range g.clusters {
		if c.icon != nil {
			c.icon.dispose()
		}
	}
	g.clusters = nil
	g.display = nil
	g.cells.Clear()
	g.ids = make(map[*Layer]string)
	g.onEnter = nil
	g.onLeave = nil
}
