package geonet

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ShowFPS prints the frame rate in the top-left corner.
	ShowFPS bool
	// Debug enables debug checks and per-frame timing logs.
	Debug bool
	// OnUpdate runs after the map updates each tick. A non-nil error stops
	// the game loop and is returned by Run.
	OnUpdate func() error
}

// mapGame adapts a Map to ebiten.Game.
type mapGame struct {
	m   *Map
	cfg RunConfig
}

func (g *mapGame) Update() error {
	g.m.Update()
	if g.cfg.OnUpdate != nil {
		return g.cfg.OnUpdate()
	}
	return nil
}

func (g *mapGame) Draw(screen *ebiten.Image) {
	g.m.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.1f", ebiten.ActualFPS()))
	}
}

func (g *mapGame) Layout(w, h int) (int, int) {
	g.m.SetViewportSize(w, h)
	return w, h
}

// Run opens a window and drives m until the window closes or OnUpdate fails.
func Run(m *Map, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "geonet"
	}
	m.SetDebugMode(cfg.Debug)
	m.SetViewportSize(cfg.Width, cfg.Height)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(&mapGame{m: m, cfg: cfg}); err != nil {
		return fmt.Errorf("geonet: run: %w", err)
	}
	return nil
}
