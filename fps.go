package jade

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// NewFPSWidget creates a label that shows the current FPS and TPS, refreshed
// about twice a second.
func NewFPSWidget() *Morph {
	m := NewLabel("fps_widget", "FPS: -\nTPS: -", ColorWhite)
	m.ZIndex = 1 << 20

	var sinceUpdate float64
	m.OnUpdate = func(dt float64) {
		sinceUpdate += dt
		if sinceUpdate < 0.5 {
			return
		}
		sinceUpdate = 0
		m.SetLabel(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return m
}
