package geonet

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxBatchVertices is the largest vertex count one DrawTriangles call can
// address with uint16 indices.
const maxBatchVertices = math.MaxUint16

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// All map geometry is untextured and samples its center.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// mesh accumulates screen-space triangles for the render commands of one
// frame. Indices are local to the command that started at base.
type mesh struct {
	verts []ebiten.Vertex
	inds  []uint16
	base  int
}

func (m *mesh) reset() {
	m.verts = m.verts[:0]
	m.inds = m.inds[:0]
	m.base = 0
}

// begin starts a new command and returns its first vertex and index offsets.
func (m *mesh) begin() (vStart, iStart int) {
	m.base = len(m.verts)
	return len(m.verts), len(m.inds)
}

// room reports whether n more vertices fit in the current command.
func (m *mesh) room(n int) bool {
	return len(m.verts)-m.base+n <= maxBatchVertices
}

// vertex appends a vertex with a premultiplied color and returns its local index.
func (m *mesh) vertex(x, y float64, c Color) uint16 {
	a := float32(clamp01(c.A))
	m.verts = append(m.verts, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(clamp01(c.R)) * a,
		ColorG: float32(clamp01(c.G)) * a,
		ColorB: float32(clamp01(c.B)) * a,
		ColorA: a,
	})
	return uint16(len(m.verts) - 1 - m.base)
}

func (m *mesh) tri(a, b, c uint16) {
	m.inds = append(m.inds, a, b, c)
}

// circleSegments picks a segment count that keeps circles smooth at radius r.
func circleSegments(r float64) int {
	n := int(r*0.8) + 12
	if n > 96 {
		n = 96
	}
	return n
}

// fillCircle emits a triangle fan for a filled circle.
func (m *mesh) fillCircle(c Vec2, r float64, col Color) {
	if r <= 0 || col.A <= 0 {
		return
	}
	segs := circleSegments(r)
	if !m.room(segs + 1) {
		return
	}
	hub := m.vertex(c.X, c.Y, col)
	first := hub + 1
	for i := 0; i < segs; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
		m.vertex(c.X+cos*r, c.Y+sin*r, col)
	}
	for i := 0; i < segs; i++ {
		next := (i + 1) % segs
		m.tri(hub, first+uint16(i), first+uint16(next))
	}
}

// strokeCircle emits a ring of width w centered on the circle's edge.
func (m *mesh) strokeCircle(c Vec2, r, w float64, col Color) {
	if r <= 0 || w <= 0 || col.A <= 0 {
		return
	}
	segs := circleSegments(r)
	if !m.room(segs * 2) {
		return
	}
	inner := math.Max(0, r-w/2)
	outer := r + w/2
	var first uint16
	for i := 0; i < segs; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
		v := m.vertex(c.X+cos*outer, c.Y+sin*outer, col)
		m.vertex(c.X+cos*inner, c.Y+sin*inner, col)
		if i == 0 {
			first = v
		}
	}
	for i := 0; i < segs; i++ {
		o0 := first + uint16(i*2)
		o1 := first + uint16(((i+1)%segs)*2)
		m.tri(o0, o0+1, o1)
		m.tri(o0+1, o1+1, o1)
	}
}

// strokePolyline emits a ribbon of width w along points. Interior joins use
// the averaged normal scaled to keep the width, clamped to 2x at sharp corners.
// For N points: 2N vertices, 6(N-1) indices.
func (m *mesh) strokePolyline(points []Vec2, w float64, col Color) {
	n := len(points)
	if n < 2 || w <= 0 || col.A <= 0 || !m.room(n*2) {
		return
	}
	halfW := w / 2
	var first uint16
	for i := 0; i < n; i++ {
		var nx, ny float64
		switch {
		case i == 0:
			nx, ny = perpendicular(points[0], points[1])
		case i == n-1:
			nx, ny = perpendicular(points[n-2], points[n-1])
		default:
			nx0, ny0 := perpendicular(points[i-1], points[i])
			nx1, ny1 := perpendicular(points[i], points[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			ln := math.Sqrt(nx*nx + ny*ny)
			if ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			dot := nx0*nx + ny0*ny
			if dot > 0.1 {
				scale := math.Min(1.0/dot, 2.0)
				nx *= scale
				ny *= scale
			}
		}
		v := m.vertex(points[i].X+nx*halfW, points[i].Y+ny*halfW, col)
		m.vertex(points[i].X-nx*halfW, points[i].Y-ny*halfW, col)
		if i == 0 {
			first = v
		}
	}
	for i := 0; i < n-1; i++ {
		v := first + uint16(i*2)
		m.tri(v, v+1, v+2)
		m.tri(v+1, v+3, v+2)
	}
}

// perpendicular returns the unit normal of the segment from a to b, rotated
// 90 degrees clockwise in y-down screen space.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// dashPolyline splits points into the "on" runs of pattern, shifted by
// offset pixels along the path, and calls emit for each run. The slice passed
// to emit is reused between calls. An empty or all-zero pattern emits the
// whole path once.
func dashPolyline(points []Vec2, pattern []float64, offset float64, buf []Vec2, emit func([]Vec2)) []Vec2 {
	total := 0.0
	for _, p := range pattern {
		total += math.Max(0, p)
	}
	if len(points) < 2 {
		return buf
	}
	if total <= 0 {
		emit(points)
		return buf
	}

	// Position within the pattern at the start of the path.
	phase := math.Mod(offset, total)
	if phase < 0 {
		phase += total
	}
	idx := 0
	for phase > 0 {
		seg := math.Max(0, pattern[idx])
		if phase < seg {
			break
		}
		phase -= seg
		idx = (idx + 1) % len(pattern)
	}
	remain := math.Max(0, pattern[idx]) - phase
	on := idx%2 == 0

	buf = buf[:0]
	if on {
		buf = append(buf, points[0])
	}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for seg-pos > remain {
			pos += remain
			t := pos / seg
			p := Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
			if on {
				buf = append(buf, p)
				emit(buf)
				buf = buf[:0]
			} else {
				buf = append(buf, p)
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			remain = math.Max(0, pattern[idx])
		}
		remain -= seg - pos
		if on {
			buf = append(buf, b)
		}
	}
	if on && len(buf) >= 2 {
		emit(buf)
	}
	return buf[:0]
}

// quadBezier samples the quadratic Bézier a-c-b into segs+1 points.
func quadBezier(a, c, b Vec2, segs int, buf []Vec2) []Vec2 {
	if segs <= 0 {
		segs = 20
	}
	buf = buf[:0]
	for i := 0; i <= segs; i++ {
		t := float64(i) / float64(segs)
		u := 1 - t
		buf = append(buf, Vec2{
			X: u*u*a.X + 2*u*t*c.X + t*t*b.X,
			Y: u*u*a.Y + 2*u*t*c.Y + t*t*b.Y,
		})
	}
	return buf
}
