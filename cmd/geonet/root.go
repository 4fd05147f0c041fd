package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phanxgames/geonet/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geonet",
	Short: "Interactive map of geographic flow networks",
	Long: `geonet draws a network of geographic nodes and typed edges on an
interactive map. Nodes become log-scaled circle markers, edges become
animated curves, and origin nodes cluster together. Hovering a cluster
shows where its members' people came from and went to.

Snapshots are read from JSON, YAML or SQLite files.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			c.LogLevel = "debug"
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = c
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	// Load .env file if present (for GEONET_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "geonet.yml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}
