package geonet

import (
	"slices"
	"strconv"
)

// renderCommand is one layer's triangles, emitted during traversal in
// screen space. Offsets index the map's mesh; indices are local to vStart.
type renderCommand struct {
	pane      Pane
	treeOrder int
	vStart    int
	vEnd      int
	iStart    int
	iEnd      int
}

// labelCommand is debug-font text drawn after the triangles of its pane.
type labelCommand struct {
	pane Pane
	text string
	x, y int
}

// Popup box metrics for the debug font (6x16 glyph cells).
const (
	popupPadding   = 6.0
	popupGlyphW    = 6.0
	popupGlyphH    = 16.0
	popupArrowGap  = 6.0
	labelGlyphHalf = 3.0
)

var popupFill = Color{R: 0.12, G: 0.12, B: 0.12, A: 0.92}

// buildCommands walks the layer tree and fills m.commands and m.labels for
// the current view.
func (m *Map) buildCommands() {
	m.commands = m.commands[:0]
	m.labels = m.labels[:0]
	m.mesh.reset()
	m.view.computeViewMatrix()

	order := 0
	m.traverse(m.root, 1, &order)
	if p := m.Popup(); p != nil {
		m.emitPopup(p, &order)
	}
	slices.SortStableFunc(m.labels, func(a, b labelCommand) int {
		return int(a.pane) - int(b.pane)
	})
}

// traverse emits commands for l and its descendants in paint order.
// Cluster groups draw what they display instead of their member list.
func (m *Map) traverse(l *Layer, parentAlpha float64, order *int) {
	if !l.Visible {
		return
	}
	alpha := parentAlpha * l.Opacity
	if alpha <= 0 {
		return
	}
	switch l.Kind {
	case LayerCircleMarker, LayerClusterIcon:
		m.emitCircle(l, alpha, order)
	case LayerCurve:
		m.emitCurve(l, alpha, order)
	case LayerClusterGroup:
		if l.group != nil {
			for _, d := range l.group.display {
				m.traverse(d, alpha, order)
			}
		}
		return
	}
	for _, child := range l.children {
		m.traverse(child, alpha, order)
	}
}

// push records the triangles emitted since begin as one command.
func (m *Map) push(pane Pane, vStart, iStart int, order *int) {
	if len(m.mesh.inds) == iStart {
		return
	}
	m.commands = append(m.commands, renderCommand{
		pane:      pane,
		treeOrder: *order,
		vStart:    vStart,
		vEnd:      len(m.mesh.verts),
		iStart:    iStart,
		iEnd:      len(m.mesh.inds),
	})
	*order++
}

func (m *Map) emitCircle(l *Layer, alpha float64, order *int) {
	c := m.view.LatLngToScreen(l.LatLng)
	vStart, iStart := m.mesh.begin()
	m.mesh.fillCircle(c, l.Radius, l.Fill.WithAlpha(l.Fill.A*l.FillOpacity*alpha))
	m.mesh.strokeCircle(c, l.Radius, l.Weight, l.Stroke.WithAlpha(l.Stroke.A*alpha))
	m.push(l.Pane, vStart, iStart, order)

	if l.Kind == LayerClusterIcon && l.cluster != nil {
		text := strconv.Itoa(l.cluster.ChildCount())
		m.labels = append(m.labels, labelCommand{
			pane: l.Pane,
			text: text,
			x:    int(c.X - float64(len(text))*labelGlyphHalf),
			y:    int(c.Y - popupGlyphH/2),
		})
	}
}

func (m *Map) emitCurve(l *Layer, alpha float64, order *int) {
	if len(l.Path) < 2 || l.Weight <= 0 {
		return
	}
	m.pathBuf = m.pathBuf[:0]
	for _, ll := range l.Path {
		m.pathBuf = append(m.pathBuf, m.view.LatLngToScreen(ll))
	}
	col := l.Stroke.WithAlpha(l.Stroke.A * alpha)
	vStart, iStart := m.mesh.begin()
	if len(l.Dash) > 0 {
		m.dashBuf = dashPolyline(m.pathBuf, l.Dash, l.DashOffset, m.dashBuf, func(run []Vec2) {
			m.mesh.strokePolyline(run, l.Weight, col)
		})
	} else {
		m.mesh.strokePolyline(m.pathBuf, l.Weight, col)
	}
	m.push(l.Pane, vStart, iStart, order)
}

// emitPopup draws a dark box with the marker's popup text above the marker.
func (m *Map) emitPopup(marker *Layer, order *int) {
	c := m.view.LatLngToScreen(marker.LatLng)
	w := float64(len(marker.Popup))*popupGlyphW + 2*popupPadding
	h := popupGlyphH + popupPadding
	x := c.X - w/2
	y := c.Y - marker.Radius - h - popupArrowGap

	vStart, iStart := m.mesh.begin()
	tl := m.mesh.vertex(x, y, popupFill)
	m.mesh.vertex(x+w, y, popupFill)
	m.mesh.vertex(x+w, y+h, popupFill)
	m.mesh.vertex(x, y+h, popupFill)
	m.mesh.tri(tl, tl+1, tl+2)
	m.mesh.tri(tl, tl+2, tl+3)
	// Arrow pointing at the marker.
	a := m.mesh.vertex(c.X-popupArrowGap, y+h, popupFill)
	m.mesh.vertex(c.X+popupArrowGap, y+h, popupFill)
	m.mesh.vertex(c.X, y+h+popupArrowGap, popupFill)
	m.mesh.tri(a, a+1, a+2)
	m.push(PanePopup, vStart, iStart, order)

	m.labels = append(m.labels, labelCommand{
		pane: PanePopup,
		text: marker.Popup,
		x:    int(x + popupPadding),
		y:    int(y + popupPadding/2),
	})
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b renderCommand) bool {
	if a.pane != b.pane {
		return a.pane < b.pane
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts m.commands in-place using m.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (m *Map) mergeSort() {
	n := len(m.commands)
	if n <= 1 {
		return
	}
	if cap(m.sortBuf) < n {
		m.sortBuf = make([]renderCommand, n)
	}
	m.sortBuf = m.sortBuf[:n]

	a := m.commands
	b := m.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(m.commands, m.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []renderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
