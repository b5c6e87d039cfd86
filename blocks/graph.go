package blocks

import (
	"errors"
	"fmt"
)

// BlockID addresses a block in a Graph. IDs are assigned in insertion order
// starting at 1 and never reused; NoBlock marks an absent neighbor.
type BlockID uint32

// NoBlock is the zero BlockID.
const NoBlock BlockID = 0

var (
	// ErrUnknownBlock is returned when an ID does not name a live block.
	ErrUnknownBlock = errors.New("blocks: unknown block")
	// ErrUnknownOpcode is returned when creating a block for an opcode that
	// has no template.
	ErrUnknownOpcode = errors.New("blocks: unknown opcode")
	// ErrLinkConflict is returned by Connect when the link would overwrite an
	// existing connection, break a kind rule, or close a cycle.
	ErrLinkConflict = errors.New("blocks: link conflict")
)

const (
	blockHeight       = 30
	blockHeightCBlock = 60
	blockMinWidth     = 120
)

// Input is one input slot of a placed block.
type Input struct {
	Type  InputType
	Value string
}

// Block is a record in the graph arena. Connections are stored as neighbor
// IDs so the graph never holds pointer cycles.
type Block struct {
	ID     BlockID
	Op     Opcode
	Kind   Kind
	Text   string
	Inputs []Input
	Sprite string

	X, Y          float64
	Width, Height float64

	// Palette marks a template instance shown in the palette. Palette blocks
	// are never snapped to and never extracted.
	Palette bool

	Above BlockID
	Below BlockID

	removed bool
}

// Connected reports whether the block has a block connected above it.
func (b *Block) Connected() bool {
	return b.Above != NoBlock
}

// Bottom returns the y coordinate of the block's bottom edge.
func (b *Block) Bottom() float64 {
	return b.Y + b.Height
}

// InputValues returns the current input values in slot order.
func (b *Block) InputValues() []string {
	out := make([]string, len(b.Inputs))
	for i, in := range b.Inputs {
		out[i] = in.Value
	}
	return out
}

// Graph is an arena of blocks. It is not safe for concurrent use.
// Removed blocks stay in the arena as tombstones and their IDs are never
// reused, so callers that churn blocks should reuse them where they can.
type Graph struct {
	blocks []*Block // index = ID-1
	live   int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of live blocks, palette instances included.
func (g *Graph) Len() int {
	return g.live
}

// Add places a new workspace block for op, targeted at sprite, with inputs
// set to the template defaults.
func (g *Graph) Add(op Opcode, sprite string, x, y float64) (*Block, error) {
	return g.add(op, sprite, x, y, false)
}

// AddPalette places a palette template instance for op.
func (g *Graph) AddPalette(op Opcode, sprite string, x, y float64) (*Block, error) {
	return g.add(op, sprite, x, y, true)
}

func (g *Graph) add(op Opcode, sprite string, x, y float64, palette bool) (*Block, error) {
	t, ok := TemplateFor(op)
	if !ok {
		return nil, fmt.Errorf("add block %d: %w", op, ErrUnknownOpcode)
	}
	b := &Block{
		ID:      BlockID(len(g.blocks) + 1),
		Op:      op,
		Kind:    t.Kind,
		Text:    t.Text,
		Sprite:  sprite,
		X:       x,
		Y:       y,
		Palette: palette,
	}
	if len(t.Inputs) > 0 {
		b.Inputs = make([]Input, len(t.Inputs))
		for i, spec := range t.Inputs {
			b.Inputs[i] = Input{Type: spec.Type, Value: spec.Default}
		}
	}
	b.Width, b.Height = blockSize(t.Text, len(b.Inputs), t.Kind)
	g.blocks = append(g.blocks, b)
	g.live++
	return b, nil
}

// blockSize derives the block footprint from its text and slot count.
func blockSize(text string, inputs int, kind Kind) (w, h float64) {
	w = float64(len(text)*8 + inputs*60 + 20)
	if w < blockMinWidth {
		w = blockMinWidth
	}
	h = blockHeight
	if kind == KindCBlock {
		h = blockHeightCBlock
	}
	return w, h
}

// Duplicate copies a block (normally a palette template) into the workspace
// at (x, y), targeted at sprite. Input values are copied; links are not.
func (g *Graph) Duplicate(id BlockID, sprite string, x, y float64) (*Block, error) {
	src := g.Block(id)
	if src == nil {
		return nil, fmt.Errorf("duplicate %d: %w", id, ErrUnknownBlock)
	}
	b, err := g.add(src.Op, sprite, x, y, false)
	if err != nil {
		return nil, err
	}
	for i := range b.Inputs {
		if i < len(src.Inputs) {
			b.Inputs[i].Value = src.Inputs[i].Value
		}
	}
	return b, nil
}

// Block returns the live block with the given ID, or nil.
func (g *Graph) Block(id BlockID) *Block {
	if id == NoBlock || int(id) > len(g.blocks) {
		return nil
	}
	b := g.blocks[id-1]
	if b.removed {
		return nil
	}
	return b
}

// Blocks returns the live blocks in insertion order.
func (g *Graph) Blocks() []*Block {
	out := make([]*Block, 0, g.live)
	for _, b := range g.blocks {
		if !b.removed {
			out = append(out, b)
		}
	}
	return out
}

// Move sets a block's position. Links are left untouched.
func (g *Graph) Move(id BlockID, x, y float64) error {
	b := g.Block(id)
	if b == nil {
		return fmt.Errorf("move %d: %w", id, ErrUnknownBlock)
	}
	b.X, b.Y = x, y
	return nil
}

// SetInput sets the value of input slot i.
func (g *Graph) SetInput(id BlockID, i int, value string) error {
	b := g.Block(id)
	if b == nil {
		return fmt.Errorf("set input on %d: %w", id, ErrUnknownBlock)
	}
	if i < 0 || i >= len(b.Inputs) {
		return fmt.Errorf("set input %d on %d: slot out of range", i, id)
	}
	b.Inputs[i].Value = value
	return nil
}

// Connect links below directly beneath above without any proximity check.
// Loaders use it to build stacks; interactive placement goes through Snap.
func (g *Graph) Connect(above, below BlockID) error {
	a, b := g.Block(above), g.Block(below)
	if a == nil || b == nil {
		return fmt.Errorf("connect %d -> %d: %w", above, below, ErrUnknownBlock)
	}
	if !g.canLink(a, b) {
		return fmt.Errorf("connect %d -> %d: %w", above, below, ErrLinkConflict)
	}
	g.link(a, b)
	return nil
}

// canLink reports whether b may be attached directly beneath a.
func (g *Graph) canLink(a, b *Block) bool {
	if a == b || a.Palette || b.Palette {
		return false
	}
	if a.Below != NoBlock || b.Above != NoBlock {
		return false
	}
	if !a.Kind.stacksBelow() || !b.Kind.stacksAbove() {
		return false
	}
	return !g.inChain(b.ID, a.ID)
}

// inChain reports whether target is reachable from start by following Below.
func (g *Graph) inChain(start, target BlockID) bool {
	seen := make(map[BlockID]struct{})
	for id := start; id != NoBlock; {
		if id == target {
			return true
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		b := g.Block(id)
		if b == nil {
			return false
		}
		id = b.Below
	}
	return false
}

func (g *Graph) link(a, b *Block) {
	a.Below = b.ID
	b.Above = a.ID
}

// Disconnect severs both of a block's links, clearing the matching pointer on
// each neighbor.
func (g *Graph) Disconnect(id BlockID) error {
	b := g.Block(id)
	if b == nil {
		return fmt.Errorf("disconnect %d: %w", id, ErrUnknownBlock)
	}
	g.sever(b)
	return nil
}

func (g *Graph) sever(b *Block) {
	if above := g.Block(b.Above); above != nil && above.Below == b.ID {
		above.Below = NoBlock
	}
	if below := g.Block(b.Below); below != nil && below.Above == b.ID {
		below.Above = NoBlock
	}
	b.Above = NoBlock
	b.Below = NoBlock
}

// Remove deletes a block, severing its links first so no neighbor is left
// pointing at it. Returns false if id is not a live block.
func (g *Graph) Remove(id BlockID) bool {
	b := g.Block(id)
	if b == nil {
		return false
	}
	g.sever(b)
	b.removed = true
	g.live--
	return true
}

// Stack returns the IDs of the chain starting at id, following Below. A
// revisited block ends the walk.
func (g *Graph) Stack(id BlockID) []BlockID {
	var out []BlockID
	seen := make(map[BlockID]struct{})
	for cur := id; cur != NoBlock; {
		if _, dup := seen[cur]; dup {
			break
		}
		b := g.Block(cur)
		if b == nil {
			break
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		cur = b.Below
	}
	return out
}
