package geonet

import (
	"log/slog"

	"github.com/phanxgames/geonet/internal/metrics"
)

// DisclosureState is the state of a HoverEdgeDiscloser.
type DisclosureState uint8

const (
	DisclosureIdle       DisclosureState = iota // overlay empty
	DisclosureDisclosing                        // overlay shows one cluster's edges
)

func (s DisclosureState) String() string {
	if s == DisclosureDisclosing {
		return "disclosing"
	}
	return "idle"
}

// HoverEdgeDiscloser draws the origin-class edges of a hovered cluster into
// the hover-overlay group and clears them when the pointer leaves.
type HoverEdgeDiscloser struct {
	curves CurveFactory
	owner  string
	log    *slog.Logger

	index   *GeometryIndex
	overlay *Layer
	state   DisclosureState
	drawn   int
}

// NewHoverEdgeDiscloser creates an unbound discloser. Enter does nothing
// until it is bound to an index and an overlay group.
func NewHoverEdgeDiscloser(curves CurveFactory, logger *slog.Logger) *HoverEdgeDiscloser {
	if logger == nil {
		logger = slog.Default()
	}
	return &HoverEdgeDiscloser{
		curves: curves,
		log:    logger.With(slog.String("component", "discloser")),
	}
}

// State returns the current state.
func (d *HoverEdgeDiscloser) State() DisclosureState {
	return d.state
}

// Drawn returns the number of curve pairs currently disclosed.
func (d *HoverEdgeDiscloser) Drawn() int {
	return d.drawn
}

// bind attaches the discloser to the scene built by one refresh and resets
// it to Idle.
func (d *HoverEdgeDiscloser) bind(index *GeometryIndex, overlay *Layer) {
	d.clear()
	d.index = index
	d.overlay = overlay
}

// unbind detaches the discloser before its overlay is torn down.
func (d *HoverEdgeDiscloser) unbind() {
	d.clear()
	d.index = nil
	d.overlay = nil
}

type disclosure struct {
	target LatLng
	edge   Edge
}

// Enter discloses the origin-class edges whose source is one of members.
// Curves run from at to each resolved target. When several edges reach the
// same target, the last one seen wins. It returns the number of curve pairs
// drawn; edges whose target does not resolve are skipped.
func (d *HoverEdgeDiscloser) Enter(at LatLng, members []string) int {
	d.clear()
	if d.index == nil || d.overlay == nil || d.overlay.IsDisposed() {
		return 0
	}

	slot := make(map[string]int)
	var pairs []disclosure
	for _, id := range members {
		for _, e := range d.index.OriginEdgesOfSource(id) {
			to, ok := d.index.Position(e.Target)
			if !ok {
				metrics.SkippedTotal.WithLabelValues("unresolved_target").Inc()
				d.log.Debug("skipping disclosure with unresolved target",
					slog.String("edge_source", e.Source),
					slog.String("edge_target", e.Target),
				)
				continue
			}
			if i, seen := slot[e.Target]; seen {
				pairs[i] = disclosure{target: to, edge: e}
				continue
			}
			slot[e.Target] = len(pairs)
			pairs = append(pairs, disclosure{target: to, edge: e})
		}
	}

	for _, p := range pairs {
		curve := d.curves.Curve(at, p.target, p.edge.Kind)
		curve.Owner = d.owner
		anim := d.curves.AnimatedCurve(at, p.target, p.edge.Kind)
		anim.Owner = d.owner
		d.overlay.AddChild(curve)
		d.overlay.AddChild(anim)
	}

	d.drawn = len(pairs)
	d.state = DisclosureDisclosing
	metrics.DisclosuresTotal.Inc()
	metrics.DisclosedEdges.Set(float64(d.drawn))
	d.log.Debug("disclosed cluster edges",
		slog.Int("members", len(members)),
		slog.Int("pairs", d.drawn),
	)
	return d.drawn
}

// Leave clears the overlay and returns to Idle.
func (d *HoverEdgeDiscloser) Leave() {
	d.clear()
}

func (d *HoverEdgeDiscloser) clear() {
	if d.overlay != nil && !d.overlay.IsDisposed() {
		d.overlay.ClearLayers()
	}
	if d.drawn != 0 {
		metrics.DisclosedEdges.Set(0)
	}
	d.drawn = 0
	d.state = DisclosureIdle
}
