package blocks

import (
	"math"
	"strconv"
	"strings"
)

// TriggerKind is the event that starts a script.
type TriggerKind uint8

const (
	TriggerNone TriggerKind = iota
	TriggerFlag
	TriggerKey
	TriggerSpriteClick
	TriggerMessage
)

var triggerNames = [...]string{"none", "flag", "key", "click", "message"}

func (k TriggerKind) String() string {
	if int(k) < len(triggerNames) {
		return triggerNames[k]
	}
	return "unknown"
}

// Trigger describes a hat block's event: its kind plus the key or message
// name it listens for.
type Trigger struct {
	Kind TriggerKind
	Arg  string
}

func (t Trigger) String() string {
	if t.Arg == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + ":" + t.Arg
}

// Command is one extracted statement: a snapshot of the block's opcode and
// input values taken at extraction time.
type Command struct {
	Block BlockID
	Op    Opcode
	Kind  Kind
	Text  string
	Args  []string
}

// Number returns argument i as a number. A missing, blank or unparseable
// argument yields def.
func (c Command) Number(i int, def float64) float64 {
	if i < 0 || i >= len(c.Args) {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Args[i]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Text returns argument i as text. A missing or empty argument yields def.
func (c Command) Text(i int, def string) string {
	if i < 0 || i >= len(c.Args) || c.Args[i] == "" {
		return def
	}
	return c.Args[i]
}

// Script is one hat block and the command chain beneath it.
type Script struct {
	Sprite   string
	Hat      BlockID
	Trigger  Trigger
	Commands []Command
}

// AST maps sprite name to that sprite's scripts, each in block insertion
// order.
type AST map[string][]Script

// Extract walks every live, non-palette hat block targeted at one of sprites
// and returns the command chain beneath each.
func Extract(g *Graph, sprites []string) AST {
	ast := make(AST, len(sprites))
	for _, name := range sprites {
		ast[name] = nil
	}
	for _, b := range g.blocks {
		if b.removed || b.Palette || b.Kind != KindHat {
			continue
		}
		if _, ok := ast[b.Sprite]; !ok {
			continue
		}
		ast[b.Sprite] = append(ast[b.Sprite], scriptFor(g, b))
	}
	return ast
}

// ScriptFor builds the script rooted at hat. ok is false if hat is not a
// live workspace hat block.
func ScriptFor(g *Graph, hat BlockID) (Script, bool) {
	b := g.Block(hat)
	if b == nil || b.Palette || b.Kind != KindHat {
		return Script{}, false
	}
	return scriptFor(g, b), true
}

func scriptFor(g *Graph, hat *Block) Script {
	return Script{
		Sprite:   hat.Sprite,
		Hat:      hat.ID,
		Trigger:  TriggerOf(hat),
		Commands: Chain(g, hat.ID),
	}
}

// TriggerOf derives the trigger of a hat block. Non-hat blocks yield
// TriggerNone.
func TriggerOf(b *Block) Trigger {
	c := Command{Args: b.InputValues()}
	switch b.Op {
	case OpWhenFlagClicked:
		return Trigger{Kind: TriggerFlag}
	case OpWhenKeyPressed:
		return Trigger{Kind: TriggerKey, Arg: c.Text(0, "space")}
	case OpWhenSpriteClicked:
		return Trigger{Kind: TriggerSpriteClick}
	case OpWhenIReceive:
		return Trigger{Kind: TriggerMessage, Arg: c.Text(0, "message1")}
	}
	return Trigger{}
}

// Chain returns the commands connected below start, in chain order, not
// including start itself. The walk ends at the first missing link or at the
// first block already visited, so a corrupted cyclic chain still terminates.
func Chain(g *Graph, start BlockID) []Command {
	var out []Command
	seen := map[BlockID]struct{}{start: {}}
	b := g.Block(start)
	if b == nil {
		return nil
	}
	for id := b.Below; id != NoBlock; {
		if _, dup := seen[id]; dup {
			break
		}
		seen[id] = struct{}{}
		cur := g.Block(id)
		if cur == nil {
			break
		}
		out = append(out, Command{
			Block: cur.ID,
			Op:    cur.Op,
			Kind:  cur.Kind,
			Text:  cur.Text,
			Args:  cur.InputValues(),
		})
		id = cur.Below
	}
	return out
}
