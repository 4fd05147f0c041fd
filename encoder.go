package geonet

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default marker radius range in pixels.
const (
	DefaultMinRadius = 3.0
	DefaultMaxRadius = 30.0
)

// RadiusScale maps node sizes logarithmically onto a pixel radius range.
// Equal size ratios map to equal radius increments. The zero value maps
// every valid size to 0.
type RadiusScale struct {
	logMin, logMax float64
	rangeMin       float64
	rangeMax       float64
	degenerate     bool
	valid          int
}

// ComputeRadiusScale derives the scale from the sizes of nodes. Only finite,
// positive sizes contribute to the domain. When no size is valid, or all valid
// sizes are equal, every valid size maps to the midpoint of [minPx, maxPx].
// A reversed range is swapped.
func ComputeRadiusScale(nodes []Node, minPx, maxPx float64) RadiusScale {
	if minPx > maxPx {
		minPx, maxPx = maxPx, minPx
	}
	s := RadiusScale{rangeMin: minPx, rangeMax: maxPx}

	logs := make([]float64, 0, len(nodes))
	for i := range nodes {
		if validSize(nodes[i].Size) {
			logs = append(logs, math.Log(*nodes[i].Size))
		}
	}
	if len(logs) == 0 {
		s.degenerate = true
		return s
	}
	s.valid = len(logs)
	s.logMin, s.logMax = floats.Min(logs), floats.Max(logs)
	s.degenerate = s.logMax-s.logMin < 1e-12
	return s
}

// Radius returns the pixel radius for size, or 0 when size is nil, not
// finite or not positive. The result always lies within the range.
func (s RadiusScale) Radius(size *float64) float64 {
	if !validSize(size) {
		return 0
	}
	return s.Map(*size)
}

// Map applies the scale to a positive size. Values outside the domain clamp
// to the range ends.
func (s RadiusScale) Map(size float64) float64 {
	if s.degenerate {
		return (s.rangeMin + s.rangeMax) / 2
	}
	t := (math.Log(size) - s.logMin) / (s.logMax - s.logMin)
	if math.IsNaN(t) {
		return (s.rangeMin + s.rangeMax) / 2
	}
	t = clamp01(t)
	return s.rangeMin + t*(s.rangeMax-s.rangeMin)
}

// Domain returns the observed [min, max] size. Both are 0 for a scale
// without valid sizes.
func (s RadiusScale) Domain() (lo, hi float64) {
	if s.valid == 0 {
		return 0, 0
	}
	return math.Exp(s.logMin), math.Exp(s.logMax)
}

// Range returns the pixel radius range.
func (s RadiusScale) Range() (lo, hi float64) {
	return s.rangeMin, s.rangeMax
}

// Degenerate reports whether the scale collapsed to the range midpoint.
func (s RadiusScale) Degenerate() bool {
	return s.degenerate
}

// Node fill colors by weight profile.
var (
	DefaultNodeColor        = RGB(0x9e, 0x9e, 0x9e)
	EmbarkationColor        = RGB(0xf2, 0xa9, 0x00)
	DisembarkationColor     = RGB(0x3b, 0x7d, 0xd8)
	EmbarkDisembarkColor    = RGB(0x8e, 0x44, 0xad)
	PostDisembarkationColor = RGB(0x2e, 0x9e, 0x5b)
	OriginColor             = RGB(0xd3, 0x54, 0x00)
)

// ColorFor returns the fill color for n. Nodes that both embark and
// disembark get their own color; otherwise the first positive weight among
// embarkation, disembarkation, post-disembarkation and origin decides.
// Everything else falls back to DefaultNodeColor.
func ColorFor(n Node) Color {
	w := n.Weights
	switch {
	case w.Embarkation > 0 && w.Disembarkation > 0:
		return EmbarkDisembarkColor
	case w.Embarkation > 0:
		return EmbarkationColor
	case w.Disembarkation > 0:
		return DisembarkationColor
	case w.PostDisembarkation > 0:
		return PostDisembarkationColor
	case w.Origin > 0:
		return OriginColor
	default:
		return DefaultNodeColor
	}
}
