package geonet

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// flightAnim holds the active FlyTo tweens. The center is tweened in
// zoom-0 projected space so the path is straight on screen.
type flightAnim struct {
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	tweenZoom *gween.Tween
	doneX     bool
	doneY     bool
	doneZoom  bool
}

// View controls which part of the world is visible: center, zoom and the
// screen-space viewport.
type View struct {
	// Center is the geographic point shown at the viewport center.
	Center LatLng
	// Zoom is the Web Mercator zoom level (the world is TileSize*2^Zoom pixels wide).
	Zoom float64
	// Viewport is the screen-space rectangle the map renders into.
	Viewport Rect

	MinZoom, MaxZoom float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	// last values seen by computeViewMatrix; direct field writes are
	// detected by comparing against them.
	lastCenter   LatLng
	lastZoom     float64
	lastViewport Rect

	flight *flightAnim
}

// newView creates a View with default values and the given viewport.
func newView(viewport Rect) *View {
	return &View{
		Center:   LatLng{Lat: 20, Lng: 0},
		Zoom:     2,
		Viewport: viewport,
		MinZoom:  1,
		MaxZoom:  18,
		dirty:    true,
	}
}

// SetCenter moves the view to ll, cancelling any flight in progress.
func (v *View) SetCenter(ll LatLng) {
	v.flight = nil
	v.Center = clampLatLng(ll)
	v.dirty = true
}

// SetZoom sets the zoom level clamped to [MinZoom, MaxZoom].
func (v *View) SetZoom(zoom float64) {
	v.flight = nil
	v.Zoom = v.clampZoom(zoom)
	v.dirty = true
}

// PanBy moves the view by (dx, dy) screen pixels. Positive dx reveals what
// lies to the east.
func (v *View) PanBy(dx, dy float64) {
	v.flight = nil
	scale := math.Exp2(v.Zoom)
	c := Project(v.Center, 0)
	c.X += dx / scale
	c.Y += dy / scale
	v.Center = clampLatLng(Unproject(c, 0))
	v.dirty = true
}

// SetZoomAround changes the zoom level while keeping the geographic point
// under the screen point pt fixed.
func (v *View) SetZoomAround(zoom float64, pt Vec2) {
	v.flight = nil
	zoom = v.clampZoom(zoom)
	if zoom == v.Zoom {
		return
	}
	anchor := Project(v.ScreenToLatLng(pt), 0)
	cx := v.Viewport.X + v.Viewport.Width/2
	cy := v.Viewport.Y + v.Viewport.Height/2
	scale := math.Exp2(zoom)
	center := Vec2{
		X: anchor.X - (pt.X-cx)/scale,
		Y: anchor.Y - (pt.Y-cy)/scale,
	}
	v.Zoom = zoom
	v.Center = clampLatLng(Unproject(center, 0))
	v.dirty = true
}

// FlyTo animates the view to center and zoom over duration seconds.
func (v *View) FlyTo(center LatLng, zoom float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	from := Project(v.Center, 0)
	to := Project(clampLatLng(center), 0)
	v.flight = &flightAnim{
		tweenX:    gween.New(float32(from.X), float32(to.X), duration, easeFn),
		tweenY:    gween.New(float32(from.Y), float32(to.Y), duration, easeFn),
		tweenZoom: gween.New(float32(v.Zoom), float32(v.clampZoom(zoom)), duration, easeFn),
	}
}

// Flying reports whether a FlyTo animation is in progress.
func (v *View) Flying() bool {
	return v.flight != nil
}

// FitBounds centers the view on b at the highest zoom that shows all of it
// with padding pixels of margin on every side. Empty bounds are ignored.
func (v *View) FitBounds(b LatLngBounds, padding float64) {
	if b.IsEmpty() {
		return
	}
	nw := Project(LatLng{Lat: b.NorthEast.Lat, Lng: b.SouthWest.Lng}, 0)
	se := Project(LatLng{Lat: b.SouthWest.Lat, Lng: b.NorthEast.Lng}, 0)
	w := math.Abs(se.X - nw.X)
	h := math.Abs(se.Y - nw.Y)
	availW := math.Max(1, v.Viewport.Width-2*padding)
	availH := math.Max(1, v.Viewport.Height-2*padding)

	zoom := v.MaxZoom
	if w > 0 || h > 0 {
		zx, zy := math.Inf(1), math.Inf(1)
		if w > 0 {
			zx = math.Log2(availW / w)
		}
		if h > 0 {
			zy = math.Log2(availH / h)
		}
		zoom = math.Floor(math.Min(zx, zy))
	}
	v.flight = nil
	v.Zoom = v.clampZoom(zoom)
	v.Center = clampLatLng(Unproject(Vec2{X: (nw.X + se.X) / 2, Y: (nw.Y + se.Y) / 2}, 0))
	v.dirty = true
}

// update advances the flight animation. Called from Map.Update().
func (v *View) update(dt float32) {
	if v.flight == nil {
		return
	}
	f := v.flight
	c := Project(v.Center, 0)
	if !f.doneX {
		val, done := f.tweenX.Update(dt)
		c.X = float64(val)
		f.doneX = done
	}
	if !f.doneY {
		val, done := f.tweenY.Update(dt)
		c.Y = float64(val)
		f.doneY = done
	}
	if !f.doneZoom {
		val, done := f.tweenZoom.Update(dt)
		v.Zoom = v.clampZoom(float64(val))
		f.doneZoom = done
	}
	v.Center = clampLatLng(Unproject(c, 0))
	v.dirty = true
	if f.doneX && f.doneY && f.doneZoom {
		v.flight = nil
	}
}

func (v *View) clampZoom(z float64) float64 {
	return math.Max(v.MinZoom, math.Min(v.MaxZoom, z))
}

func clampLatLng(ll LatLng) LatLng {
	ll.Lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, ll.Lat))
	return ll
}

// computeViewMatrix recomputes the cached view matrix if the view changed.
// The matrix maps zoom-0 projected coordinates to screen pixels:
//
//	viewMatrix = Translate(cx, cy) * Scale(2^Zoom) * Translate(-center)
//
// where cx, cy = viewport center.
func (v *View) computeViewMatrix() [6]float64 {
	if !v.dirty && v.Center == v.lastCenter && v.Zoom == v.lastZoom && v.Viewport == v.lastViewport {
		return v.viewMatrix
	}
	v.dirty = false
	v.lastCenter, v.lastZoom, v.lastViewport = v.Center, v.Zoom, v.Viewport

	cx := v.Viewport.X + v.Viewport.Width/2
	cy := v.Viewport.Y + v.Viewport.Height/2
	s := math.Exp2(v.Zoom)
	c := Project(v.Center, 0)

	toCenter := [6]float64{1, 0, 0, 1, -c.X, -c.Y}
	zoom := [6]float64{s, 0, 0, s, cx, cy}
	v.viewMatrix = multiplyAffine(zoom, toCenter)
	v.invViewMatrix = invertAffine(v.viewMatrix)
	return v.viewMatrix
}

// LatLngToScreen converts a geographic point to screen coordinates.
func (v *View) LatLngToScreen(ll LatLng) Vec2 {
	m := v.computeViewMatrix()
	p := Project(ll, 0)
	x, y := transformPoint(m, p.X, p.Y)
	return Vec2{X: x, Y: y}
}

// ScreenToLatLng converts screen coordinates to a geographic point.
func (v *View) ScreenToLatLng(pt Vec2) LatLng {
	v.computeViewMatrix()
	x, y := transformPoint(v.invViewMatrix, pt.X, pt.Y)
	return Unproject(Vec2{X: x, Y: y}, 0)
}

// VisibleBounds returns the geographic rectangle covered by the viewport.
func (v *View) VisibleBounds() LatLngBounds {
	vp := v.Viewport
	var b LatLngBounds
	b = b.Extend(v.ScreenToLatLng(Vec2{X: vp.X, Y: vp.Y}))
	b = b.Extend(v.ScreenToLatLng(Vec2{X: vp.X + vp.Width, Y: vp.Y + vp.Height}))
	return b
}

// MarkDirty forces a recomputation of the view matrix.
func (v *View) MarkDirty() {
	v.dirty = true
}
