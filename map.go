package geonet

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultCommandCap = 1024

// Map is the top-level object that owns the layer tree, the view, input
// state and render buffers. It implements Surface.
//
// A Map is not safe for concurrent use. Other goroutines hand work to it
// through Enqueue.
type Map struct {
	root  *Layer
	view  *View
	debug bool
	log   *slog.Logger

	// ClearColor fills the screen before drawing. A zero alpha skips the fill.
	ClearColor Color
	// ZoomStep is the zoom change per wheel notch.
	ZoomStep float64

	mu    sync.Mutex
	queue []func()

	// Render state
	commands   []renderCommand
	sortBuf    []renderCommand
	labels     []labelCommand
	mesh       mesh
	batchVerts []ebiten.Vertex
	batchInds  []uint16
	pathBuf    []Vec2
	dashBuf    []Vec2

	// Input state
	handlers     handlerRegistry
	pointer      pointerState
	hitBuf       []*Layer
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	popup        *Layer

	groupBuf []*ClusterGroup
}

// NewMap creates a map with an empty root group rendering into viewport.
func NewMap(viewport Rect) *Map {
	root := NewLayerGroup("root")
	return &Map{
		root:         root,
		view:         newView(viewport),
		log:          slog.Default().With(slog.String("component", "map")),
		ZoomStep:     0.5,
		commands:     make([]renderCommand, 0, defaultCommandCap),
		sortBuf:      make([]renderCommand, 0, defaultCommandCap),
		dragDeadZone: defaultDragDeadZone,
	}
}

// Root returns the map's root group.
func (m *Map) Root() *Layer {
	return m.root
}

// View returns the map's view.
func (m *Map) View() *View {
	return m.view
}

// SetLogger replaces the logger used for debug output.
func (m *Map) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	m.log = l.With(slog.String("component", "map"))
}

// SetDebugMode enables or disables debug checks and per-frame timing logs.
func (m *Map) SetDebugMode(enabled bool) {
	m.debug = enabled
	globalDebug = enabled
}

// SetViewportSize resizes the viewport, keeping its origin.
func (m *Map) SetViewportSize(w, h int) {
	vp := m.view.Viewport
	if vp.Width == float64(w) && vp.Height == float64(h) {
		return
	}
	vp.Width, vp.Height = float64(w), float64(h)
	m.view.Viewport = vp
	m.view.MarkDirty()
}

// Enqueue schedules fn to run at the start of the next Update on the thread
// that drives the map. It is safe to call from any goroutine.
func (m *Map) Enqueue(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Update runs queued work, advances animations, reclusters and processes
// input. Call it once per tick.
func (m *Map) Update() {
	m.step(float32(1.0 / float64(ebiten.TPS())))
	m.processInput()
	m.updateClusters()
}

// step does everything Update does except reading input.
func (m *Map) step(dt float32) {
	m.drainQueue()
	m.view.update(dt)
	m.advanceAnimations(dt)
	m.updateClusters()
}

// drainQueue runs every queued function and returns how many ran. Work
// enqueued while draining runs on the next call.
func (m *Map) drainQueue() int {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

func (m *Map) advanceAnimations(dt float32) {
	m.root.Walk(func(l *Layer) bool {
		l.advance(dt)
		return true
	})
}

// updateClusters reclusters every cluster group whose markers or zoom changed.
func (m *Map) updateClusters() {
	m.groupBuf = m.groupBuf[:0]
	m.root.Walk(func(l *Layer) bool {
		if l.group != nil {
			m.groupBuf = append(m.groupBuf, l.group)
			return false
		}
		return true
	})
	for _, g := range m.groupBuf {
		if g.Refresh(m.view.Zoom) && m.debug {
			m.log.Debug("reclustered",
				slog.String("group", g.layer.Name),
				slog.Int("markers", len(g.layer.children)),
				slog.Int("clusters", len(g.clusters)),
				slog.Float64("zoom", m.view.Zoom),
			)
		}
	}
	clear(m.groupBuf)
}

// Draw renders the map onto screen.
func (m *Map) Draw(screen *ebiten.Image) {
	if m.ClearColor.A > 0 {
		screen.Fill(m.ClearColor.toRGBA())
	}

	var t0 time.Time
	if m.debug {
		t0 = time.Now()
	}

	m.buildCommands()

	var tTraverse time.Time
	if m.debug {
		tTraverse = time.Now()
	}

	m.mergeSort()

	var tSort time.Time
	if m.debug {
		tSort = time.Now()
	}

	batches := m.submitBatches(screen)

	if m.debug {
		tSubmit := time.Now()
		m.debugLog(debugStats{
			traverseTime: tTraverse.Sub(t0),
			sortTime:     tSort.Sub(tTraverse),
			submitTime:   tSubmit.Sub(tSort),
			commandCount: len(m.commands),
			vertexCount:  len(m.mesh.verts),
			batchCount:   batches,
		})
	}
}

// --- Surface ---

// AddMarker adds a circle marker to the map. Panics if marker is not a
// circle marker.
func (m *Map) AddMarker(marker *Layer) {
	if marker == nil || marker.Kind != LayerCircleMarker {
		panic("geonet: AddMarker requires a circle marker")
	}
	m.root.AddChild(marker)
}

// AddCurve adds a curve to the map. Panics if curve is not a curve layer.
func (m *Map) AddCurve(curve *Layer) {
	if curve == nil || curve.Kind != LayerCurve {
		panic("geonet: AddCurve requires a curve layer")
	}
	m.root.AddChild(curve)
}

// AddClusterGroup adds a cluster group to the map.
func (m *Map) AddClusterGroup(group *ClusterGroup) {
	if group == nil {
		panic("geonet: cannot add nil cluster group")
	}
	m.root.AddChild(group.layer)
}

// AddLayerGroup adds a plain group layer to the map.
func (m *Map) AddLayerGroup(group *Layer) {
	if group == nil || group.Kind != LayerGroup {
		panic("geonet: AddLayerGroup requires a group layer")
	}
	m.root.AddChild(group)
}

// RemoveLayer detaches and disposes layer and its descendants. Disposed
// layers cannot be added again.
func (m *Map) RemoveLayer(layer *Layer) {
	if layer == nil || layer.disposed || layer == m.root {
		return
	}
	if m.popup != nil && isAncestor(layer, m.popup) {
		m.popup = nil
	}
	layer.Dispose()
}

// EachLayer visits every layer below the root depth-first in paint order.
// The set of layers is captured before the first call, so fn may remove
// layers; removed layers are still visited.
func (m *Map) EachLayer(fn func(*Layer)) {
	var all []*Layer
	m.root.Walk(func(l *Layer) bool {
		if l != m.root {
			all = append(all, l)
		}
		return true
	})
	for _, l := range all {
		fn(l)
	}
}

// --- Popups ---

// OpenPopup shows marker's popup text above it. A marker without popup text
// closes any open popup instead.
func (m *Map) OpenPopup(marker *Layer) {
	if marker == nil || marker.Popup == "" || marker.disposed {
		m.popup = nil
		return
	}
	m.popup = marker
}

// ClosePopup hides the open popup, if any.
func (m *Map) ClosePopup() {
	m.popup = nil
}

// Popup returns the marker whose popup is open, or nil.
func (m *Map) Popup() *Layer {
	if m.popup != nil && m.popup.disposed {
		m.popup = nil
	}
	return m.popup
}
