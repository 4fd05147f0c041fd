package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "geonet",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Map: MapConfig{
			CenterLat:  20,
			CenterLon:  0,
			Zoom:       2,
			MinZoom:    1,
			MaxZoom:    18,
			FitBounds:  true,
			FitPadding: 40,
		},
		Render: RenderConfig{
			MinRadius:     3,
			MaxRadius:     30,
			ClusterRadius: 80,
			CurveBend:     0.2,
			AnimateEdges:  true,
		},
		LogLevel: "info",
	}
}
