package lumina

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often the HUD text is redrawn, in seconds.
const hudRefresh = 0.5

// hud displays FPS, TPS, the active note count and the live modulators. It
// draws into its own image, refreshed every hudRefresh seconds.
type hud struct {
	img        *ebiten.Image
	lastUpdate float64
	text       string
}

func newHUD() *hud {
	// 180x80 fits four lines of debug font.
	return &hud{img: ebiten.NewImage(180, 80), lastUpdate: hudRefresh}
}

func (h *hud) update(dt float64, s *Scene) {
	h.lastUpdate += dt
	if h.lastUpdate < hudRefresh {
		return
	}
	h.lastUpdate = 0
	h.text = hudText(ebiten.ActualFPS(), ebiten.ActualTPS(), s.store.Count(), s.modulation.Modulators())

	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)
}

func (h *hud) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	screen.DrawImage(h.img, &op)
}

func hudText(fps, tps float64, notes int, mods []Modulator) string {
	enabled := 0
	for _, m := range mods {
		if m.Enabled {
			enabled++
		}
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nnotes: %d\nmods: %d/%d", fps, tps, notes, enabled, MaxModulators)
}
