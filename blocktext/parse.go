package blocktext

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/phanxgames/jade/blocks"
)

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Arg", Pattern: `\[[^\]\n]*\]`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Word", Pattern: `[^\s\[\]#]+`},
})

type source struct {
	Lines []*line `@@*`
}

type line struct {
	Pos lexer.Position

	Sprite *string `(  "sprite" @(Word | Arg) EOL`
	Parts  []*part ` | @@+ EOL`
	Blank  bool    ` | @EOL )`
}

type part struct {
	Arg  *string `  @Arg`
	Word *string `| @Word`
}

var parser = participle.MustBuild[source](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
)

// aliases spell symbol-bearing block text in plain ASCII.
var aliases = map[string]string{
	"when flag clicked":       "when ⚑ clicked",
	"when green flag clicked": "when ⚑ clicked",
	"turn right [] degrees":   "turn ↻ [] degrees",
	"turn left [] degrees":    "turn ↺ [] degrees",
}

// Stmt is one parsed block line.
type Stmt struct {
	Line   int
	Sprite string
	Op     blocks.Opcode
	Args   []string
	// NewStack is set on the first block of a stack.
	NewStack bool
}

// Parse reads src into statements. Blocks before any "sprite" line are
// addressed to sprite.
func Parse(filename, src, sprite string) ([]Stmt, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	ast, err := parser.ParseString(filename, src)
	if err != nil {
		return nil, err
	}

	var (
		out      []Stmt
		newStack = true
	)
	for _, ln := range ast.Lines {
		switch {
		case ln.Sprite != nil:
			sprite = unbracket(*ln.Sprite)
			newStack = true
		case ln.Blank:
			newStack = true
		default:
			text, args := ln.template()
			op, ok := lookup(text)
			if !ok {
				return nil, fmt.Errorf("%s:%d: unknown block %q", filename, ln.Pos.Line, text)
			}
			tmpl, _ := blocks.TemplateFor(op)
			if len(args) != len(tmpl.Inputs) {
				return nil, fmt.Errorf("%s:%d: %q takes %d input(s), got %d",
					filename, ln.Pos.Line, tmpl.Text, len(tmpl.Inputs), len(args))
			}
			if tmpl.Kind == blocks.KindHat {
				newStack = true
			}
			out = append(out, Stmt{
				Line:     ln.Pos.Line,
				Sprite:   sprite,
				Op:       op,
				Args:     args,
				NewStack: newStack,
			})
			newStack = false
		}
	}
	return out, nil
}

// template rebuilds the display text with empty slots and collects the
// slot values.
func (ln *line) template() (string, []string) {
	var (
		words []string
		args  []string
	)
	for _, p := range ln.Parts {
		if p.Arg != nil {
			words = append(words, "[]")
			args = append(args, unbracket(*p.Arg))
			continue
		}
		words = append(words, *p.Word)
	}
	return strings.Join(words, " "), args
}

func lookup(text string) (blocks.Opcode, bool) {
	if op, ok := blocks.LookupText(text); ok {
		return op, true
	}
	for alias, canonical := range aliases {
		if textKey(alias) == textKey(text) {
			return blocks.LookupText(canonical)
		}
	}
	return blocks.OpNone, false
}

func textKey(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func unbracket(s string) string {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return s[1 : len(s)-1]
	}
	return s
}
