package geonet

import "math"

// EdgeStyle is the look of the curves drawn for one edge kind.
type EdgeStyle struct {
	Color   Color
	Weight  float64
	Opacity float64
	// Dash is the pattern of the animated copy.
	Dash []float64
	// FlowPeriod is how long the animated copy takes to move one pattern
	// length, in seconds.
	FlowPeriod float32
}

// EdgeStyleFor returns the style used for edges of kind. Unknown kinds get
// a neutral gray.
func EdgeStyleFor(kind EdgeKind) EdgeStyle {
	s := EdgeStyle{
		Color:      RGB(0x55, 0x55, 0x55),
		Weight:     2,
		Opacity:    0.6,
		Dash:       []float64{4, 10},
		FlowPeriod: 0.8,
	}
	switch kind {
	case EdgeKindOrigination:
		s.Color = RGB(0xd3, 0x54, 0x00)
	case EdgeKindDisposition:
		s.Color = RGB(0x8e, 0x44, 0xad)
	case EdgeKindTransportation:
		s.Color = RGB(0x3b, 0x7d, 0xd8)
		s.Weight = 2.5
	case EdgeKindOnwardDistribution:
		s.Color = RGB(0x2e, 0x9e, 0x5b)
	}
	return s
}

// DefaultCurveBend is the control point offset as a fraction of the chord.
const DefaultCurveBend = 0.2

// CurveFactory builds the curve layers drawn for an edge. Curves are
// quadratic Béziers in projected space whose control point sits Bend chord
// lengths off the chord midpoint, clockwise on screen from the direction
// of travel.
type CurveFactory struct {
	Bend     float64
	Segments int
	// Animate attaches a DashFlow to animated curves. Without it the dashes
	// stand still.
	Animate bool
	// Style picks the style per kind. Nil means EdgeStyleFor.
	Style func(EdgeKind) EdgeStyle
}

// DefaultCurveFactory returns the factory used when none is configured.
func DefaultCurveFactory() CurveFactory {
	return CurveFactory{Bend: DefaultCurveBend, Segments: 24, Animate: true}
}

func (f CurveFactory) style(kind EdgeKind) EdgeStyle {
	if f.Style != nil {
		return f.Style(kind)
	}
	return EdgeStyleFor(kind)
}

// path samples the curve from one endpoint to the other. Equal endpoints
// give a zero-length path.
func (f CurveFactory) path(from, to LatLng) []LatLng {
	a := Project(from, 0)
	b := Project(to, 0)
	dx, dy := b.X-a.X, b.Y-a.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-12 {
		return []LatLng{from, to}
	}
	nx, ny := perpendicular(a, b)
	ctrl := Vec2{
		X: (a.X+b.X)/2 + nx*f.Bend*chord,
		Y: (a.Y+b.Y)/2 + ny*f.Bend*chord,
	}
	pts := quadBezier(a, ctrl, b, f.Segments, nil)
	out := make([]LatLng, len(pts))
	for i, p := range pts {
		out[i] = Unproject(p, 0)
	}
	out[0], out[len(out)-1] = from, to
	return out
}

// Curve returns the solid curve for an edge of kind from one endpoint to the other.
func (f CurveFactory) Curve(from, to LatLng, kind EdgeKind) *Layer {
	s := f.style(kind)
	l := NewCurve("curve:"+string(kind), f.path(from, to), s.Color, s.Weight)
	l.Opacity = s.Opacity
	return l
}

// AnimatedCurve returns the dashed copy drawn on top of Curve. When the
// factory animates, the dashes flow toward the target.
func (f CurveFactory) AnimatedCurve(from, to LatLng, kind EdgeKind) *Layer {
	s := f.style(kind)
	l := NewCurve("animated:"+string(kind), f.path(from, to), s.Color, s.Weight)
	l.Dash = append([]float64(nil), s.Dash...)
	if f.Animate {
		l.Animate(NewDashFlow(l, s.FlowPeriod))
	}
	return l
}
