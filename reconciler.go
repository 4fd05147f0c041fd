package geonet

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phanxgames/geonet/internal/metrics"
)

// RendererConfig configures a SceneReconciler.
type RendererConfig struct {
	MinRadius, MaxRadius float64

	// Marker stroke and fill opacity. The fill color comes from ColorFor.
	MarkerStroke Color
	MarkerWeight float64
	FillOpacity  float64

	ClusterRadius float64
	ClusterIcon   func(count int) IconStyle

	Curves CurveFactory

	// Logger receives diagnostics at Debug level. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultRendererConfig returns the marker and curve styling used by the
// viewer.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		MinRadius:     DefaultMinRadius,
		MaxRadius:     DefaultMaxRadius,
		MarkerStroke:  ColorBlack,
		MarkerWeight:  1,
		FillOpacity:   0.8,
		ClusterRadius: DefaultClusterRadius,
		ClusterIcon:   ClusterIconStyle,
		Curves:        DefaultCurveFactory(),
	}
}

// RefreshStats summarizes what one Refresh put on the surface.
type RefreshStats struct {
	Removed          int
	Curves           int
	ClusteredMarkers int
	Markers          int
	OriginEdges      int
	SkippedEdges     int
	SkippedNodes     int
	Duration         time.Duration
}

// SceneReconciler keeps the surface's static content in step with the latest
// snapshot. Every layer it adds is tagged with its owner id; a refresh
// removes exactly those layers before rebuilding.
type SceneReconciler struct {
	surface Surface
	cfg     RendererConfig
	owner   string
	log     *slog.Logger

	index     *GeometryIndex
	scale     RadiusScale
	group     *ClusterGroup
	overlay   *Layer
	discloser *HoverEdgeDiscloser
}

// NewSceneReconciler creates a reconciler that draws onto surface.
func NewSceneReconciler(surface Surface, cfg RendererConfig) *SceneReconciler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &SceneReconciler{
		surface: surface,
		cfg:     cfg,
		owner:   uuid.NewString(),
		log:     cfg.Logger.With(slog.String("component", "reconciler")),
	}
	r.discloser = NewHoverEdgeDiscloser(cfg.Curves, cfg.Logger)
	r.discloser.owner = r.owner
	return r
}

// Owner returns the tag carried by every layer this reconciler adds.
func (r *SceneReconciler) Owner() string { return r.owner }

// Index returns the index built by the last refresh, or nil before the first.
func (r *SceneReconciler) Index() *GeometryIndex { return r.index }

// Scale returns the radius scale computed by the last refresh.
func (r *SceneReconciler) Scale() RadiusScale { return r.scale }

// ClusterGroup returns the cluster group built by the last refresh.
func (r *SceneReconciler) ClusterGroup() *ClusterGroup { return r.group }

// Overlay returns the hover-overlay group built by the last refresh.
func (r *SceneReconciler) Overlay() *Layer { return r.overlay }

// Discloser returns the hover discloser bound to the current scene.
func (r *SceneReconciler) Discloser() *HoverEdgeDiscloser { return r.discloser }

// Refresh replaces everything this reconciler previously drew with the
// primitives for snap. Unresolvable edges and undisplayable nodes are
// skipped; nothing here fails.
func (r *SceneReconciler) Refresh(snap Snapshot) RefreshStats {
	start := time.Now()
	var st RefreshStats

	st.Removed = r.teardown()

	r.index = NewGeometryIndex(snap.Nodes, snap.Edges)
	st.OriginEdges = len(r.index.OriginClass())

	r.overlay = NewLayerGroup("hover-overlay")
	r.overlay.Owner = r.owner

	for _, e := range r.index.Displayable() {
		from, okFrom := r.index.Position(e.Source)
		to, okTo := r.index.Position(e.Target)
		if !okFrom || !okTo {
			st.SkippedEdges++
			metrics.SkippedTotal.WithLabelValues("unresolved_edge").Inc()
			r.log.Debug("skipping edge with unresolved endpoint",
				slog.String("edge_source", e.Source),
				slog.String("edge_target", e.Target),
				slog.String("edge_kind", string(e.Kind)),
			)
			continue
		}
		curve := r.cfg.Curves.Curve(from, to, e.Kind)
		curve.Owner = r.owner
		anim := r.cfg.Curves.AnimatedCurve(from, to, e.Kind)
		anim.Owner = r.owner
		r.surface.AddCurve(curve)
		r.surface.AddCurve(anim)
		st.Curves++
	}
	r.surface.AddLayerGroup(r.overlay)

	r.scale = ComputeRadiusScale(snap.Nodes, r.cfg.MinRadius, r.cfg.MaxRadius)

	r.group = NewClusterGroup("clusters", ClusterOptions{
		Radius:   r.cfg.ClusterRadius,
		IconFunc: r.cfg.ClusterIcon,
	})
	r.group.Layer().Owner = r.owner
	r.surface.AddClusterGroup(r.group)

	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		ll, ok := n.Position()
		if !ok {
			st.SkippedNodes++
			metrics.SkippedTotal.WithLabelValues("no_position").Inc()
			r.log.Debug("skipping node without position", slog.String("node_id", n.ID))
			continue
		}
		radius := r.scale.Radius(n.Size)
		if radius <= 0 {
			st.SkippedNodes++
			metrics.SkippedTotal.WithLabelValues("no_radius").Inc()
			r.log.Debug("skipping node without radius", slog.String("node_id", n.ID))
			continue
		}
		marker := NewCircleMarker(n.ID, ll, radius, MarkerStyle{
			Stroke:      r.cfg.MarkerStroke,
			Fill:        ColorFor(*n),
			FillOpacity: r.cfg.FillOpacity,
			Weight:      r.cfg.MarkerWeight,
		})
		marker.Popup = n.Name
		marker.Owner = r.owner
		if n.Weights.Origin > 0 {
			r.group.AddMarker(marker, n.ID)
			st.ClusteredMarkers++
			continue
		}
		r.surface.AddMarker(marker)
		marker.BringToFront()
		st.Markers++
	}

	r.discloser.bind(r.index, r.overlay)
	r.group.OnEnter(func(at LatLng, members []string) {
		r.discloser.Enter(at, members)
	})
	r.group.OnLeave(r.discloser.Leave)

	st.Duration = time.Since(start)
	metrics.RefreshTotal.Inc()
	metrics.RefreshDuration.Observe(st.Duration.Seconds())
	metrics.ScenePrimitives.WithLabelValues("curve").Set(float64(st.Curves))
	metrics.ScenePrimitives.WithLabelValues("animated_curve").Set(float64(st.Curves))
	metrics.ScenePrimitives.WithLabelValues("clustered_marker").Set(float64(st.ClusteredMarkers))
	metrics.ScenePrimitives.WithLabelValues("marker").Set(float64(st.Markers))

	r.log.Debug("scene refreshed",
		slog.Int("removed", st.Removed),
		slog.Int("curves", st.Curves),
		slog.Int("clustered_markers", st.ClusteredMarkers),
		slog.Int("markers", st.Markers),
		slog.Int("skipped_edges", st.SkippedEdges),
		slog.Int("skipped_nodes", st.SkippedNodes),
		slog.Duration("took", st.Duration),
	)
	return st
}

// teardown removes every layer tagged with this reconciler's owner id and
// returns how many top-level layers went away. Layers owned by others are
// left alone.
func (r *SceneReconciler) teardown() int {
	r.discloser.unbind()

	var owned []*Layer
	r.surface.EachLayer(func(l *Layer) {
		if l.Owner != r.owner {
			return
		}
		// Descendants go with their owned ancestor.
		if l.Parent != nil && l.Parent.Owner == r.owner {
			return
		}
		owned = append(owned, l)
	})
	for _, l := range owned {
		r.surface.RemoveLayer(l)
	}
	r.group = nil
	r.overlay = nil
	return len(owned)
}
