package lumina

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// RunConfig returns window settings taken from the config.
func (c *Config) RunConfig() RunConfig {
	return RunConfig{Title: c.Title, Width: c.Width, Height: c.Height, Resizable: true}
}

// game adapts a Scene to ebiten.Game and ends the loop when ctx is done.
type game struct {
	ctx   context.Context
	scene *Scene
}

// Update stops the loop once the context is cancelled.
func (g *game) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.scene.Stop()
	}
	return g.scene.Update()
}

// Draw renders the scene onto screen.
func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout delegates to the scene.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Layout(outsideWidth, outsideHeight)
}

// Run opens a window and drives scene at 60 frames per second until the
// window is closed, Scene.Stop is called or ctx is cancelled.
func Run(ctx context.Context, scene *Scene, rc RunConfig) error {
	if rc.Title != "" {
		ebiten.SetWindowTitle(rc.Title)
	}
	if rc.Width > 0 && rc.Height > 0 {
		ebiten.SetWindowSize(rc.Width, rc.Height)
	}
	if rc.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	scene.log.Info("run", "title", rc.Title, "width", rc.Width, "height", rc.Height)
	err := ebiten.RunGame(&game{ctx: ctx, scene: scene})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run: %w", err)
	}
	scene.log.Info("stopped", "frames", scene.frame)
	return nil
}
