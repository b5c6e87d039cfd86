package blocktext

import (
	"fmt"

	"github.com/phanxgames/jade/blocks"
)

// Layout places loaded stacks on the workspace.
type Layout struct {
	X, Y    float64 // top-left of the first stack
	Spacing float64 // horizontal gap between stacks
}

// DefaultLayout starts stacks to the right of the palette.
func DefaultLayout() Layout {
	return Layout{X: 250, Y: 20, Spacing: 40}
}

// Load parses src and adds its blocks to g, linking each stack top to
// bottom. It returns the IDs of the stack heads in source order.
func Load(g *blocks.Graph, filename, src, sprite string, layout Layout) ([]blocks.BlockID, error) {
	stmts, err := Parse(filename, src, sprite)
	if err != nil {
		return nil, err
	}

	var (
		heads []blocks.BlockID
		prev  *blocks.Block
		x     = layout.X
		width float64
	)
	for _, st := range stmts {
		var bx, by float64
		if st.NewStack || prev == nil {
			if prev != nil {
				x += width + layout.Spacing
			}
			bx, by, width = x, layout.Y, 0
		} else {
			bx, by = prev.X, prev.Bottom()-blocks.DefaultSnapOverlap
		}

		b, err := g.Add(st.Op, st.Sprite, bx, by)
		if err != nil {
			return heads, fmt.Errorf("%s:%d: %w", filename, st.Line, err)
		}
		for i, v := range st.Args {
			if v == "" {
				continue
			}
			if err := g.SetInput(b.ID, i, v); err != nil {
				return heads, fmt.Errorf("%s:%d: %w", filename, st.Line, err)
			}
		}
		if b.Width > width {
			width = b.Width
		}

		if st.NewStack || prev == nil {
			heads = append(heads, b.ID)
		} else if err := g.Connect(prev.ID, b.ID); err != nil {
			return heads, fmt.Errorf("%s:%d: %q cannot go below %q: %w", filename, st.Line, b.Text, prev.Text, err)
		}
		prev = b
	}
	return heads, nil
}
