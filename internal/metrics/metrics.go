// Package metrics holds the Prometheus collectors of the renderer. They are
// registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts scene refreshes.
	RefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geonet_refresh_total",
			Help: "Total number of scene refreshes",
		},
	)

	// RefreshDuration measures how long teardown plus rebuild takes.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geonet_refresh_duration_seconds",
			Help:    "Duration of scene refreshes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// ScenePrimitives tracks the primitives added by the last refresh.
	ScenePrimitives = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geonet_scene_primitives",
			Help: "Primitives on the map after the last refresh",
		},
		[]string{"layer"}, // curve, animated_curve, clustered_marker, marker
	)

	// SkippedTotal counts primitives that could not be built.
	SkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geonet_skipped_total",
			Help: "Primitives skipped because of missing data",
		},
		[]string{"reason"}, // unresolved_edge, no_position, no_radius, unresolved_target
	)

	// DisclosuresTotal counts cluster hover disclosures.
	DisclosuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geonet_disclosures_total",
			Help: "Total number of cluster hover disclosures",
		},
	)

	// DisclosedEdges tracks the curve pairs currently shown in the hover overlay.
	DisclosedEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geonet_disclosed_edges",
			Help: "Edge curve pairs currently disclosed by hover",
		},
	)
)
