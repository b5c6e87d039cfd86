package blocks

import (
	"fmt"
	"math"
)

// Default snap geometry.
const (
	DefaultSnapDistance = 20.0
	DefaultSnapOverlap  = 3.0
)

// SnapConfig controls drop-to-connect geometry.
type SnapConfig struct {
	// Distance is the exclusive radius between the moved block's top-left
	// corner and a candidate's bottom-left corner.
	Distance float64 `yaml:"distance"`
	// Overlap is how far the snapped block tucks up into the candidate.
	Overlap float64 `yaml:"overlap"`
}

// DefaultSnapConfig returns the standard snap geometry.
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{Distance: DefaultSnapDistance, Overlap: DefaultSnapOverlap}
}

// Snap reconnects a block after it has been dropped. Call it once per drag
// or touch release.
//
// The nearest live workspace block whose bottom-left corner lies strictly
// within cfg.Distance of the moved block's top-left corner, that has nothing
// connected below it, and that can structurally accept the moved block, is
// chosen; ties go to the lowest BlockID. The moved block must not already be
// connected above. On a match the moved block is placed flush beneath the
// candidate and linked both ways, and the candidate's ID is returned. With
// no match both of the moved block's links are severed on both sides.
func (g *Graph) Snap(id BlockID, cfg SnapConfig) (BlockID, error) {
	b := g.Block(id)
	if b == nil {
		return NoBlock, fmt.Errorf("snap %d: %w", id, ErrUnknownBlock)
	}

	var (
		best     *Block
		bestDist = math.Inf(1)
	)
	if !b.Palette && !b.Connected() {
		for _, cand := range g.blocks {
			if cand.removed || cand == b {
				continue
			}
			d := math.Hypot(b.X-cand.X, b.Y-cand.Bottom())
			if d >= cfg.Distance || d >= bestDist {
				continue
			}
			if !g.canLink(cand, b) {
				continue
			}
			best, bestDist = cand, d
		}
	}

	if best == nil {
		g.sever(b)
		return NoBlock, nil
	}

	b.X = best.X
	b.Y = best.Bottom() - cfg.Overlap
	g.link(best, b)
	return best.ID, nil
}
