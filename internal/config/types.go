package config

// Config is the geonet viewer configuration. It is read from a YAML file
// and overlaid with GEONET_* environment variables.
type Config struct {
	Window WindowConfig `yaml:"window" koanf:"window"`
	Map    MapConfig    `yaml:"map" koanf:"map"`
	Render RenderConfig `yaml:"render" koanf:"render"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" koanf:"log_level"`
	// MetricsAddr, when set, serves Prometheus metrics at /metrics.
	MetricsAddr string `yaml:"metrics_addr" koanf:"metrics_addr"`
	// Watch reloads the snapshot file whenever it changes on disk.
	Watch bool `yaml:"watch" koanf:"watch"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Title     string `yaml:"title" koanf:"title"`
	Width     int    `yaml:"width" koanf:"width"`
	Height    int    `yaml:"height" koanf:"height"`
	Resizable bool   `yaml:"resizable" koanf:"resizable"`
	ShowFPS   bool   `yaml:"show_fps" koanf:"show_fps"`
}

// MapConfig sets the initial view. When FitBounds is true the view is
// fitted to the snapshot and the center and zoom are ignored.
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat" koanf:"center_lat"`
	CenterLon float64 `yaml:"center_lon" koanf:"center_lon"`
	Zoom      float64 `yaml:"zoom" koanf:"zoom"`
	MinZoom   float64 `yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom   float64 `yaml:"max_zoom" koanf:"max_zoom"`
	FitBounds bool    `yaml:"fit_bounds" koanf:"fit_bounds"`
	// FitPadding is the screen padding in pixels used by FitBounds.
	FitPadding float64 `yaml:"fit_padding" koanf:"fit_padding"`
}

// RenderConfig tunes the scene reconciler.
type RenderConfig struct {
	MinRadius     float64 `yaml:"min_radius" koanf:"min_radius"`
	MaxRadius     float64 `yaml:"max_radius" koanf:"max_radius"`
	ClusterRadius float64 `yaml:"cluster_radius" koanf:"cluster_radius"`
	CurveBend     float64 `yaml:"curve_bend" koanf:"curve_bend"`
	AnimateEdges  bool    `yaml:"animate_edges" koanf:"animate_edges"`
}
