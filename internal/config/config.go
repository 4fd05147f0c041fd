package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "GEONET_"

// sections are the nested config keys. An environment variable that starts
// with one of them has its first underscore turned into a key delimiter, so
// GEONET_WINDOW_SHOW_FPS maps to window.show_fps.
var sections = []string{"window", "map", "render"}

// envKey maps an environment variable name to a koanf key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GEONET_*). A missing file is not an
// error; defaults are used instead.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return fmt.Errorf("map.center_lat %v out of range [-90, 90]", c.Map.CenterLat)
	}
	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		return fmt.Errorf("map.center_lon %v out of range [-180, 180]", c.Map.CenterLon)
	}
	if c.Map.MinZoom < 0 || c.Map.MaxZoom < c.Map.MinZoom {
		return fmt.Errorf("invalid zoom range [%v, %v]", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.FitPadding < 0 {
		return fmt.Errorf("map.fit_padding must be non-negative")
	}
	if c.Render.MinRadius < 0 || c.Render.MaxRadius < 0 {
		return fmt.Errorf("render radii must be non-negative")
	}
	if c.Render.ClusterRadius <= 0 {
		return fmt.Errorf("render.cluster_radius must be positive")
	}
	if _, ok := validLogLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// SlogLevel returns the slog level for LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lv, ok := validLogLevels[strings.ToLower(c.LogLevel)]; ok {
		return lv
	}
	return slog.LevelInfo
}
