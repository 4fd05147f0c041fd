package geonet

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultDragDeadZone = 4.0
	// minHitRadius keeps tiny markers hoverable.
	minHitRadius = 4.0
	// curveHitSlop widens thin curves for hit testing.
	curveHitSlop = 3.0
)

// --- Pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hitLayer *Layer
	// hover is the layer under the pointer; hoverLeave is its leave callback
	// captured at enter time so it still fires if the layer is disposed.
	hover      *Layer
	hoverLeave func(PointerContext)
	dragging   bool
	button     MouseButton
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	pointerEnter []pointerHandler
	pointerLeave []pointerHandler
	pointerMove  []pointerHandler
	click        []pointerHandler
	nextID       uint32
}

// CallbackHandle allows removing a registered map-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerEnter:
		h.reg.pointerEnter = removePointerHandler(h.reg.pointerEnter, h.id)
	case EventPointerLeave:
		h.reg.pointerLeave = removePointerHandler(h.reg.pointerLeave, h.id)
	case EventPointerMove:
		h.reg.pointerMove = removePointerHandler(h.reg.pointerMove, h.id)
	case EventClick:
		h.reg.click = removePointerHandler(h.reg.click, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i, h := range s {
		if h.id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (m *Map) register(event EventType, list *[]pointerHandler, fn func(PointerContext)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	*list = append(*list, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: event}
}

// OnPointerEnter registers a map-level callback that fires when the pointer
// enters any interactable layer.
func (m *Map) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return m.register(EventPointerEnter, &m.handlers.pointerEnter, fn)
}

// OnPointerLeave registers a map-level callback that fires when the pointer
// leaves any interactable layer.
func (m *Map) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return m.register(EventPointerLeave, &m.handlers.pointerLeave, fn)
}

// OnPointerMove registers a map-level callback for pointer movement without
// a button held. Layer is the layer under the pointer, or nil.
func (m *Map) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return m.register(EventPointerMove, &m.handlers.pointerMove, fn)
}

// OnClick registers a map-level callback for clicks. Layer is nil for clicks
// on empty map.
func (m *Map) OnClick(fn func(PointerContext)) CallbackHandle {
	return m.register(EventClick, &m.handlers.click, fn)
}

// SetDragDeadZone sets the distance in pixels the pointer must move before
// a press turns into a pan.
func (m *Map) SetDragDeadZone(pixels float64) {
	m.dragDeadZone = pixels
}

// --- Hit testing ---

// collectInteractable appends the hit-testable layers below l in paint order.
// Cluster groups contribute what they display, not their member list.
func (m *Map) collectInteractable(l *Layer, buf []*Layer) []*Layer {
	if !l.Visible {
		return buf
	}
	if l.group != nil {
		for _, d := range l.group.display {
			if d.Visible && d.Interactable {
				buf = append(buf, d)
			}
		}
		return buf
	}
	if l.Interactable && l != m.root {
		buf = append(buf, l)
	}
	for _, child := range l.children {
		buf = m.collectInteractable(child, buf)
	}
	return buf
}

// hitTest returns the topmost interactable layer under the screen point, or nil.
// Higher panes win; within a pane the last painted wins.
func (m *Map) hitTest(sx, sy float64) *Layer {
	m.hitBuf = m.collectInteractable(m.root, m.hitBuf[:0])
	var hit *Layer
	for pane := int(PanePopup); pane >= int(PaneOverlay) && hit == nil; pane-- {
		for i := len(m.hitBuf) - 1; i >= 0; i-- {
			l := m.hitBuf[i]
			if int(l.Pane) == pane && m.layerContains(l, sx, sy) {
				hit = l
				break
			}
		}
	}
	clear(m.hitBuf)
	return hit
}

// layerContains reports whether the screen point lies in l's hit area.
func (m *Map) layerContains(l *Layer, sx, sy float64) bool {
	switch l.Kind {
	case LayerCircleMarker, LayerClusterIcon:
		c := m.view.LatLngToScreen(l.LatLng)
		r := math.Max(l.Radius+l.Weight/2, minHitRadius)
		dx, dy := sx-c.X, sy-c.Y
		return dx*dx+dy*dy <= r*r
	case LayerCurve:
		if len(l.Path) < 2 {
			return false
		}
		tol := math.Max(l.Weight/2, 0) + curveHitSlop
		prev := m.view.LatLngToScreen(l.Path[0])
		for _, ll := range l.Path[1:] {
			cur := m.view.LatLngToScreen(ll)
			if distToSegment(sx, sy, prev, cur) <= tol {
				return true
			}
			prev = cur
		}
	}
	return false
}

func distToSegment(px, py float64, a, b Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	ln2 := dx*dx + dy*dy
	t := 0.0
	if ln2 > 0 {
		t = clamp01(((px-a.X)*dx + (py-a.Y)*dy) / ln2)
	}
	return math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
}

// --- Input processing ---

// processInput handles pointer 0 and the wheel. Injected events replace the
// real cursor for the frame they are consumed in.
func (m *Map) processInput() {
	if m.processInjectedInput() {
		return
	}
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}

	m.processPointer(sx, sy, pressed, button)
	_, wy := ebiten.Wheel()
	m.processWheel(sx, sy, wy)
}

// processPointer runs the pointer state machine for one sample.
func (m *Map) processPointer(sx, sy float64, pressed bool, button MouseButton) {
	ps := &m.pointer
	target := m.hitTest(sx, sy)

	// Fire hover enter/leave when the hovered layer changes.
	if target != ps.hover {
		if ps.hover != nil {
			m.firePointerLeave(ps.hover, ps.hoverLeave, sx, sy, button)
		}
		ps.hover = target
		ps.hoverLeave = nil
		if target != nil {
			ps.hoverLeave = target.OnPointerLeave
			m.firePointerEnter(target, sx, sy, button)
		}
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.hitLayer = target
		ps.dragging = false

	case !pressed && ps.down:
		if !ps.dragging && ps.hitLayer == target {
			m.fireClick(target, sx, sy, ps.button)
		}
		ps.down = false
		ps.hitLayer = nil
		ps.dragging = false
		ps.lastX, ps.lastY = sx, sy

	case pressed && ps.down:
		if sx != ps.lastX || sy != ps.lastY {
			if !ps.dragging && math.Hypot(sx-ps.startX, sy-ps.startY) > m.dragDeadZone {
				ps.dragging = true
				// Catch up with the movement swallowed by the dead zone.
				ps.lastX, ps.lastY = ps.startX, ps.startY
			}
			if ps.dragging {
				m.view.PanBy(ps.lastX-sx, ps.lastY-sy)
			}
		}
		ps.lastX, ps.lastY = sx, sy

	default:
		if sx != ps.lastX || sy != ps.lastY {
			m.firePointerMove(target, sx, sy, button)
			ps.lastX, ps.lastY = sx, sy
		}
	}
}

// processWheel zooms around the pointer. Positive dy zooms in.
func (m *Map) processWheel(sx, sy, dy float64) {
	if dy == 0 {
		return
	}
	m.view.SetZoomAround(m.view.Zoom+dy*m.ZoomStep, Vec2{X: sx, Y: sy})
}

func (m *Map) pointerContext(l *Layer, sx, sy float64, button MouseButton) PointerContext {
	return PointerContext{
		Layer:  l,
		X:      sx,
		Y:      sy,
		LatLng: m.view.ScreenToLatLng(Vec2{X: sx, Y: sy}),
		Button: button,
	}
}

func (m *Map) firePointerEnter(l *Layer, sx, sy float64, button MouseButton) {
	ctx := m.pointerContext(l, sx, sy, button)
	for _, h := range m.handlers.pointerEnter {
		h.fn(ctx)
	}
	if l.OnPointerEnter != nil {
		l.OnPointerEnter(ctx)
	}
}

func (m *Map) firePointerLeave(l *Layer, leave func(PointerContext), sx, sy float64, button MouseButton) {
	ctx := m.pointerContext(l, sx, sy, button)
	for _, h := range m.handlers.pointerLeave {
		h.fn(ctx)
	}
	if leave != nil {
		leave(ctx)
	}
}

func (m *Map) firePointerMove(l *Layer, sx, sy float64, button MouseButton) {
	if len(m.handlers.pointerMove) == 0 {
		return
	}
	ctx := m.pointerContext(l, sx, sy, button)
	for _, h := range m.handlers.pointerMove {
		h.fn(ctx)
	}
}

// fireClick runs click callbacks and toggles popups: clicking a marker with
// popup text opens it, clicking anything else closes it.
func (m *Map) fireClick(l *Layer, sx, sy float64, button MouseButton) {
	ctx := m.pointerContext(l, sx, sy, button)
	for _, h := range m.handlers.click {
		h.fn(ctx)
	}
	if l != nil && l.OnClick != nil {
		l.OnClick(ctx)
	}
	if l != nil && l.Kind == LayerCircleMarker && l.Popup != "" {
		m.OpenPopup(l)
		return
	}
	m.ClosePopup()
}
