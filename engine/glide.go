package engine

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// glide animates a sprite's position toward a target on the engine clock.
// A new glide on the same sprite replaces the running one.
type glide struct {
	sprite   *Sprite
	x, y     *gween.Tween
	toX, toY float64
	elapsed  time.Duration
	total    time.Duration
	done     bool
}

func newGlide(sp *Sprite, toX, toY float64, d time.Duration) *glide {
	secs := float32(d.Seconds())
	return &glide{
		sprite: sp,
		x:      gween.New(float32(sp.X), float32(toX), secs, ease.Linear),
		y:      gween.New(float32(sp.Y), float32(toY), secs, ease.Linear),
		toX:    toX,
		toY:    toY,
		total:  d,
	}
}

// update advances the glide by dt and writes the interpolated position.
// The final frame lands exactly on the target regardless of float32 drift.
func (g *glide) update(dt time.Duration) {
	if g.done {
		return
	}
	g.elapsed += dt
	if g.elapsed >= g.total {
		g.sprite.X, g.sprite.Y = g.toX, g.toY
		g.done = true
		return
	}
	secs := float32(dt.Seconds())
	x, _ := g.x.Update(secs)
	y, _ := g.y.Update(secs)
	g.sprite.X, g.sprite.Y = float64(x), float64(y)
}

// remaining is the clock time until the glide lands.
func (g *glide) remaining() time.Duration {
	if g.done {
		return 0
	}
	return g.total - g.elapsed
}
