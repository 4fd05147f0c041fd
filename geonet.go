package geonet

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are emitted.
type Color struct {
	R, G, B, A float64
}

// Frequently used colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// RGB builds an opaque Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// toRGBA converts to a straight-alpha color.RGBA for ebiten fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D point in projected world units or screen pixels.
type Vec2 struct {
	X, Y float64
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat, Lng float64
}

// IsFinite reports whether both components are finite numbers.
func (ll LatLng) IsFinite() bool {
	return !math.IsNaN(ll.Lat) && !math.IsInf(ll.Lat, 0) &&
		!math.IsNaN(ll.Lng) && !math.IsInf(ll.Lng, 0)
}

// LatLngBounds is a geographic rectangle. The zero value is empty.
type LatLngBounds struct {
	SouthWest, NorthEast LatLng
	valid                bool
}

// Extend grows b to include ll and returns the result.
func (b LatLngBounds) Extend(ll LatLng) LatLngBounds {
	if !b.valid {
		return LatLngBounds{SouthWest: ll, NorthEast: ll, valid: true}
	}
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, ll.Lat)
	b.SouthWest.Lng = math.Min(b.SouthWest.Lng, ll.Lng)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, ll.Lat)
	b.NorthEast.Lng = math.Max(b.NorthEast.Lng, ll.Lng)
	return b
}

// IsEmpty reports whether no point has been added to b.
func (b LatLngBounds) IsEmpty() bool {
	return !b.valid
}

// Center returns the midpoint of the bounds.
func (b LatLngBounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Contains reports whether ll lies inside b. Points on the edge are inside.
func (b LatLngBounds) Contains(ll LatLng) bool {
	return b.valid &&
		ll.Lat >= b.SouthWest.Lat && ll.Lat <= b.NorthEast.Lat &&
		ll.Lng >= b.SouthWest.Lng && ll.Lng <= b.NorthEast.Lng
}

// Rect is an axis-aligned rectangle in screen pixels. The origin is the
// top-left corner with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// LayerKind distinguishes rendering and hit-testing behavior for a Layer.
type LayerKind uint8

const (
	LayerGroup         LayerKind = iota // plain container of other layers
	LayerCircleMarker                   // pixel-radius circle at a geographic point
	LayerCurve                          // stroked path through projected points
	LayerClusterGroup                   // container whose markers are clustered on screen
	LayerClusterIcon                    // icon standing in for a cluster; owned by its group
)

func (k LayerKind) String() string {
	switch k {
	case LayerGroup:
		return "group"
	case LayerCircleMarker:
		return "marker"
	case LayerCurve:
		return "curve"
	case LayerClusterGroup:
		return "cluster-group"
	case LayerClusterIcon:
		return "cluster-icon"
	default:
		return "unknown"
	}
}

// Pane is a coarse z-order bucket. Everything in a higher pane draws above
// everything in a lower pane; within a pane, tree order decides.
type Pane uint8

const (
	PaneOverlay Pane = iota // curves
	PaneMarker              // markers and cluster icons
	PanePopup               // popups
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerEnter EventType = iota // fires when the pointer enters a layer's hit area
	EventPointerLeave                  // fires when the pointer leaves a layer's hit area
	EventPointerMove                   // fires when the pointer moves without a button held
	EventClick                         // fires on press then release without dragging
	EventDragStart                     // fires when movement exceeds the drag dead zone
	EventDrag                          // fires each frame while dragging
	EventDragEnd                       // fires when the pointer is released after dragging
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
