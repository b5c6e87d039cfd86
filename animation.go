package jade

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Morph simultaneously.
// Create one with TweenPosition, TweenColor or TweenAlpha and either call
// Update(dt) yourself or hand it to World.AddTween. If the target morph is
// disposed the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Morph
	Done   bool
	// OnDone runs once, on the frame the group finishes.
	OnDone func()
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// TweenPosition animates m.X and m.Y to (toX, toY).
func TweenPosition(m *Morph, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: m}
	g.tweens[0] = gween.New(float32(m.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(m.Y), float32(toY), duration, fn)
	g.fields[0] = &m.X
	g.fields[1] = &m.Y
	return g
}

// TweenColor animates all four components of m.Color to the target.
func TweenColor(m *Morph, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: m}
	g.tweens[0] = gween.New(float32(m.Color.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(m.Color.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(m.Color.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(m.Color.A), float32(to.A), duration, fn)
	g.fields[0] = &m.Color.R
	g.fields[1] = &m.Color.G
	g.fields[2] = &m.Color.B
	g.fields[3] = &m.Color.A
	return g
}

// TweenAlpha animates m.Alpha to the target.
func TweenAlpha(m *Morph, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: m}
	g.tweens[0] = gween.New(float32(m.Alpha), float32(to), duration, fn)
	g.fields[0] = &m.Alpha
	return g
}

// AddTween runs g from World.Update until it is done. A second group on the
// same morph and fields simply overwrites the first each frame, so callers
// that retarget a morph should cancel the old group with StopTweens.
func (w *World) AddTween(g *TweenGroup) {
	w.tweens = append(w.tweens, g)
}

// StopTweens drops every running group that targets m.
func (w *World) StopTweens(m *Morph) {
	for _, g := range w.tweens {
		if g.target == m {
			g.Done = true
		}
	}
}

// Tweens returns the number of running tween groups.
func (w *World) Tweens() int {
	return len(w.tweens)
}

func (w *World) updateTweens(dt float32) {
	active := w.tweens
	w.tweens = nil
	for _, g := range active {
		g.Update(dt)
		if !g.Done {
			w.tweens = append(w.tweens, g)
		}
	}
}
