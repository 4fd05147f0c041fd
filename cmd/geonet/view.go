package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/phanxgames/geonet"
	"github.com/phanxgames/geonet/internal/config"
	"github.com/phanxgames/geonet/internal/snapshot"
)

var (
	viewWatch bool
	viewFPS   bool
	viewDebug bool
)

var viewCmd = &cobra.Command{
	Use:   "view <snapshot>",
	Short: "Open a map window for a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "Reload the snapshot when the file changes")
	viewCmd.Flags().BoolVar(&viewFPS, "fps", false, "Show the frame rate")
	viewCmd.Flags().BoolVar(&viewDebug, "debug", false, "Log per-frame render stats")
	rootCmd.AddCommand(viewCmd)
}

// rendererConfig maps the render section onto the reconciler's settings.
func rendererConfig(c *config.Config) geonet.RendererConfig {
	rc := geonet.DefaultRendererConfig()
	rc.MinRadius = c.Render.MinRadius
	rc.MaxRadius = c.Render.MaxRadius
	rc.ClusterRadius = c.Render.ClusterRadius
	rc.Curves.Bend = c.Render.CurveBend
	rc.Curves.Animate = c.Render.AnimateEdges
	rc.Logger = logger
	return rc
}

// newMap builds the map and applies the initial view.
func newMap(c *config.Config, snap geonet.Snapshot) *geonet.Map {
	m := geonet.NewMap(geonet.Rect{Width: float64(c.Window.Width), Height: float64(c.Window.Height)})
	m.SetLogger(logger)
	m.ClearColor = geonet.RGB(0xe8, 0xec, 0xf0)

	v := m.View()
	v.MinZoom = c.Map.MinZoom
	v.MaxZoom = c.Map.MaxZoom
	v.SetCenter(geonet.LatLng{Lat: c.Map.CenterLat, Lng: c.Map.CenterLon})
	v.SetZoom(c.Map.Zoom)
	if b := snap.Bounds(); c.Map.FitBounds && !b.IsEmpty() {
		v.FitBounds(b, c.Map.FitPadding)
	}
	return m
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]
	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	m := newMap(cfg, snap)
	r := geonet.NewSceneReconciler(m, rendererConfig(cfg))
	stats := r.Refresh(snap)
	logger.Info("scene built",
		"snapshot", path,
		"curves", stats.Curves,
		"markers", stats.Markers,
		"clustered", stats.ClusteredMarkers,
		"skipped_edges", stats.SkippedEdges,
		"skipped_nodes", stats.SkippedNodes,
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if viewWatch || cfg.Watch {
		go func() {
			err := snapshot.Watch(ctx, path, logger, func(s geonet.Snapshot) {
				m.Enqueue(func() { r.Refresh(s) })
			})
			if err != nil {
				logger.Error("snapshot watch stopped", "error", err)
			}
		}()
	}

	return geonet.Run(m, geonet.RunConfig{
		Title:     fmt.Sprintf("%s - %s", cfg.Window.Title, path),
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: cfg.Window.Resizable,
		ShowFPS:   viewFPS || cfg.Window.ShowFPS,
		Debug:     viewDebug,
	})
}

// serveMetrics exposes the default Prometheus registry at /metrics.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
