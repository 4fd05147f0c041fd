package geonet

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator is anything the map can advance once per frame. Update returns
// true when the animation has finished and can be dropped.
type Animator interface {
	Update(dt float32) bool
}

// TweenGroup animates up to 4 float64 fields on a Layer simultaneously.
// Create one via the convenience constructors (TweenOpacity, TweenRadius,
// TweenFill) and attach it with Layer.Animate, or call Update(dt) yourself.
// If the target layer is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Layer
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target layer has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) bool {
	if g.Done {
		return true
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return true
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	return g.Done
}

// TweenOpacity creates a TweenGroup that animates layer.Opacity to the target
// value over the specified duration using the easing function.
func TweenOpacity(layer *Layer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: layer}
	g.tweens[0] = gween.New(float32(layer.Opacity), float32(to), duration, fn)
	g.fields[0] = &layer.Opacity
	return g
}

// TweenRadius creates a TweenGroup that animates a marker's pixel radius.
func TweenRadius(layer *Layer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: layer}
	g.tweens[0] = gween.New(float32(layer.Radius), float32(to), duration, fn)
	g.fields[0] = &layer.Radius
	return g
}

// TweenFill creates a TweenGroup that animates all four components of
// layer.Fill to the target color.
func TweenFill(layer *Layer, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: layer}
	g.tweens[0] = gween.New(float32(layer.Fill.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(layer.Fill.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(layer.Fill.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(layer.Fill.A), float32(to.A), duration, fn)
	g.fields[0] = &layer.Fill.R
	g.fields[1] = &layer.Fill.G
	g.fields[2] = &layer.Fill.B
	g.fields[3] = &layer.Fill.A
	return g
}

// DashFlow loops a dashed layer's DashOffset over one pattern length so the
// dashes appear to travel from the first path point toward the last.
type DashFlow struct {
	tween  *gween.Tween
	target *Layer
	Done   bool
}

// NewDashFlow creates a flow that moves the dashes one pattern length every
// period seconds. A layer without a dash pattern gets a flow that is already
// done.
func NewDashFlow(layer *Layer, period float32) *DashFlow {
	length := 0.0
	for _, d := range layer.Dash {
		if d > 0 {
			length += d
		}
	}
	f := &DashFlow{target: layer}
	if length <= 0 || period <= 0 {
		f.Done = true
		return f
	}
	f.tween = gween.New(float32(length), 0, period, ease.Linear)
	return f
}

// Update advances the flow. It never finishes on its own; it stops once the
// target layer is disposed.
func (f *DashFlow) Update(dt float32) bool {
	if f.Done {
		return true
	}
	if f.target.IsDisposed() {
		f.Done = true
		return true
	}
	val, finished := f.tween.Update(dt)
	f.target.DashOffset = float64(val)
	if finished {
		f.tween.Reset()
	}
	return false
}
