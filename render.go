package jade

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Labels use the fixed 7x13 bitmap face with a 16px line pitch.
const (
	glyphWidth  = 7
	glyphHeight = 16
	labelPadX   = 6
)

var labelFace = text.NewGoXFace(basicfont.Face7x13)

func labelSize(text string) (w, h float64) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return float64(widest * glyphWidth), float64(len(lines) * glyphHeight)
}

// drawItem is one flattened, world-space draw of a morph.
type drawItem struct {
	morph  *Morph
	kind   MorphKind
	bounds Rect // world-space box, or the disc's bounding square
	radius float64
	// heading is the world-space end point of a disc's direction line.
	headingX, headingY float64
	fill               Color
	border             Color
	label              string
	labelX, labelY     float64
	labelColor         Color
}

// collectDraws flattens the visible tree into painter order.
func collectDraws(m *Morph, buf []drawItem) []drawItem {
	if !m.Visible || m.worldAlpha <= 0 {
		return buf
	}
	alpha := m.worldAlpha
	switch m.Kind {
	case MorphBox:
		x0, y0 := m.LocalToWorld(0, 0)
		x1, y1 := m.LocalToWorld(m.Width, m.Height)
		r := Rect{X: math.Min(x0, x1), Y: math.Min(y0, y1), Width: math.Abs(x1 - x0), Height: math.Abs(y1 - y0)}
		it := drawItem{
			morph: m, kind: MorphBox, bounds: r,
			fill: m.Color.Scale(alpha), border: m.BorderColor.Scale(alpha),
			label: m.Label, labelColor: m.LabelColor.Scale(alpha),
		}
		if m.Label != "" {
			_, lh := labelSize(m.Label)
			it.labelX = r.X + labelPadX
			it.labelY = r.Y + (r.Height-lh)/2
		}
		buf = append(buf, it)
	case MorphLabel:
		x, y := m.LocalToWorld(0, 0)
		buf = append(buf, drawItem{
			morph: m, kind: MorphLabel, bounds: Rect{X: x, Y: y, Width: m.Width, Height: m.Height},
			label: m.Label, labelX: x, labelY: y, labelColor: m.LabelColor.Scale(alpha),
		})
	case MorphDisc:
		r := m.Width / 2
		cx, cy := m.LocalToWorld(r, r)
		hx, hy := m.LocalToWorld(2*r, r)
		wr := math.Hypot(hx-cx, hy-cy)
		it := drawItem{
			morph: m, kind: MorphDisc,
			bounds: Rect{X: cx - wr, Y: cy - wr, Width: 2 * wr, Height: 2 * wr},
			radius: wr, headingX: hx, headingY: hy,
			fill: m.Color.Scale(alpha), border: m.BorderColor.Scale(alpha),
			label: m.Label, labelColor: m.LabelColor.Scale(alpha),
		}
		if m.Label != "" {
			lw, _ := labelSize(m.Label)
			it.labelX = cx - lw/2
			it.labelY = cy + wr + 2
		}
		buf = append(buf, it)
	}
	for _, child := range m.sortedKids() {
		buf = collectDraws(child, buf)
	}
	return buf
}

// Draw renders the tree to screen.
func (w *World) Draw(screen *ebiten.Image) {
	start := time.Now()
	updateWorldTransform(w.root, identityTransform, 1.0, false)
	w.draws = collectDraws(w.root, w.draws[:0])
	collected := time.Since(start)

	screen.Fill(w.Background.RGBA())
	for i := range w.draws {
		submit(screen, &w.draws[i])
	}
	if w.debug {
		w.debugLog(debugStats{
			collectTime: collected,
			submitTime:  time.Since(start) - collected,
			drawCount:   len(w.draws),
		})
	}
}

func submit(dst *ebiten.Image, it *drawItem) {
	b := it.bounds
	switch it.kind {
	case MorphBox:
		vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), it.fill.RGBA(), false)
		if it.border.A > 0 {
			vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, it.border.RGBA(), false)
		}
	case MorphDisc:
		cx, cy := b.X+it.radius, b.Y+it.radius
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(it.radius), it.fill.RGBA(), true)
		if it.border.A > 0 {
			vector.StrokeLine(dst, float32(cx), float32(cy), float32(it.headingX), float32(it.headingY), 2, it.border.RGBA(), true)
		}
	}
	if it.label != "" && it.labelColor.A > 0 {
		op := &text.DrawOptions{}
		op.GeoM.Translate(it.labelX, it.labelY+2)
		op.ColorScale.ScaleWithColor(it.labelColor.RGBA())
		op.LineSpacing = glyphHeight
		text.Draw(dst, it.label, labelFace, op)
	}
}
