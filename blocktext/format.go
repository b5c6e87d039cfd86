package blocktext

import (
	"strings"

	"github.com/phanxgames/jade/blocks"
)

// Format writes the workspace stacks of g as text, grouped by sprite in the
// order given. Palette blocks are skipped. Stacks of sprites missing from
// sprites are dropped.
func Format(g *blocks.Graph, sprites []string) string {
	heads := make(map[string][]*blocks.Block, len(sprites))
	for _, b := range g.Blocks() {
		if b.Palette || b.Above != blocks.NoBlock {
			continue
		}
		heads[b.Sprite] = append(heads[b.Sprite], b)
	}

	var sb strings.Builder
	for _, name := range sprites {
		stacks := heads[name]
		if len(stacks) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("sprite ")
		if strings.ContainsAny(name, " \t#[]") {
			sb.WriteString("[" + name + "]")
		} else {
			sb.WriteString(name)
		}
		sb.WriteByte('\n')
		for i, head := range stacks {
			if i > 0 {
				sb.WriteByte('\n')
			}
			for _, id := range g.Stack(head.ID) {
				sb.WriteString(Line(g.Block(id)))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Line renders one block with its input values in brackets.
func Line(b *blocks.Block) string {
	parts := strings.Split(b.Text, "[]")
	var sb strings.Builder
	for i, p := range parts {
		sb.WriteString(p)
		if i < len(parts)-1 {
			v := ""
			if i < len(b.Inputs) {
				v = b.Inputs[i].Value
			}
			sb.WriteString("[" + v + "]")
		}
	}
	return sb.String()
}
