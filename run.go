package jade

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; the logical screen keeps
	// Width x Height.
	Resizable bool
	// ShowFPS adds an FPS/TPS label to the top-left corner.
	ShowFPS bool
	// Debug enables debug checks and per-frame draw statistics.
	Debug bool
}

// ErrQuit ends the game loop after World.Quit.
var ErrQuit = errors.New("jade: quit")

type game struct {
	world  *World
	width  int
	height int
}

func (g *game) Update() error {
	g.world.Update()
	if g.world.quit {
		return ErrQuit
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) { g.world.Draw(screen) }

func (g *game) Layout(int, int) (int, int) { return g.width, g.height }

// Run opens a window and drives w until the window is closed.
func Run(w *World, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.ShowFPS {
		w.Root().AddChild(NewFPSWidget())
	}
	w.SetDebugMode(cfg.Debug)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	log.Infof("opening %dx%d window %q", cfg.Width, cfg.Height, cfg.Title)
	err := ebiten.RunGame(&game{world: w, width: cfg.Width, height: cfg.Height})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
