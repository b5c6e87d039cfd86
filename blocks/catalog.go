package blocks

import (
	"strings"
	"unicode"
)

// Kind is the structural shape of a block. It decides what may be stacked
// above or below it.
type Kind uint8

const (
	KindCommand  Kind = iota // stackable statement
	KindHat                  // event root; nothing attaches above
	KindCap                  // terminal statement; nothing attaches below
	KindReporter             // value expression; never stacks
	KindBoolean              // predicate expression; never stacks
	KindCBlock               // wraps a nested sequence (loop/conditional)
)

var kindNames = [...]string{"command", "hat", "cap", "reporter", "boolean", "c_block"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// stacksBelow reports whether a block of this kind may have a block
// connected beneath it.
func (k Kind) stacksBelow() bool {
	return k == KindCommand || k == KindHat || k == KindCBlock
}

// stacksAbove reports whether a block of this kind may be connected beneath
// another block.
func (k Kind) stacksAbove() bool {
	return k == KindCommand || k == KindCap || k == KindCBlock
}

// Category groups templates in the palette.
type Category uint8

const (
	CategoryMotion Category = iota
	CategoryLooks
	CategorySound
	CategoryEvents
	CategoryControl
	CategorySensing
	CategoryOperators
	CategoryVariables
)

var categoryNames = [...]string{
	"Motion", "Looks", "Sound", "Events", "Control", "Sensing", "Operators", "Variables",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Categories returns every category in palette order.
func Categories() []Category {
	return []Category{
		CategoryMotion, CategoryLooks, CategorySound, CategoryEvents,
		CategoryControl, CategorySensing, CategoryOperators, CategoryVariables,
	}
}

// InputType is the value type of an input slot.
type InputType uint8

const (
	InputText InputType = iota
	InputNumber
)

// InputSpec describes one input slot of a template.
type InputSpec struct {
	Type    InputType
	Default string
}

// Opcode identifies a block's semantics. Dispatch in the interpreter is keyed
// on Opcode, never on display text.
type Opcode uint16

const (
	OpNone Opcode = iota

	// Motion
	OpMoveSteps
	OpTurnRight
	OpTurnLeft
	OpGoTo
	OpGlide
	OpPointInDirection
	OpChangeX
	OpChangeY

	// Looks
	OpSayFor
	OpSay
	OpShow
	OpHide
	OpChangeSize
	OpSetSize

	// Sound
	OpPlaySound
	OpPlaySoundUntilDone
	OpChangeVolume

	// Events
	OpWhenFlagClicked
	OpWhenKeyPressed
	OpWhenSpriteClicked
	OpBroadcast
	OpWhenIReceive

	// Control
	OpWait
	OpRepeat
	OpForever
	OpIf
	OpStopAll
	OpStopThisScript

	// Sensing
	OpTouching
	OpKeyIsPressed
	OpMouseX
	OpMouseY
	OpDistanceTo

	// Operators
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpEquals
	OpLessThan
	OpGreaterThan
	OpAnd
	OpOr
	OpNot

	// Variables
	OpSetVariable
	OpChangeVariable
	OpVariable

	opCount
)

// Template is a palette entry: the static description every block of a
// given opcode is created from.
type Template struct {
	Op       Opcode
	Text     string
	Kind     Kind
	Category Category
	Color    uint32 // 0xRRGGBB
	Inputs   []InputSpec
}

// Slots returns the number of [] placeholders in the template text.
func (t Template) Slots() int {
	return strings.Count(t.Text, "[]")
}

func num(def string) InputSpec  { return InputSpec{Type: InputNumber, Default: def} }
func text(def string) InputSpec { return InputSpec{Type: InputText, Default: def} }

const (
	colorMotion    = 0x4A90E2
	colorLooks     = 0x9C59D1
	colorSound     = 0xCF63CF
	colorEvents    = 0xC88330
	colorControl   = 0xE1A91A
	colorSensing   = 0x5CB3CC
	colorOperators = 0x59C059
	colorVariables = 0xEE7D16
)

// catalog lists every template in palette order.
var catalog = []Template{
	{OpMoveSteps, "move [] steps", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("10")}},
	{OpTurnRight, "turn ↻ [] degrees", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("15")}},
	{OpTurnLeft, "turn ↺ [] degrees", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("15")}},
	{OpGoTo, "go to x: [] y: []", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("0"), num("0")}},
	{OpGlide, "glide [] secs to x: [] y: []", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("1"), num("0"), num("0")}},
	{OpPointInDirection, "point in direction []", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("90")}},
	{OpChangeX, "change x by []", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("10")}},
	{OpChangeY, "change y by []", KindCommand, CategoryMotion, colorMotion, []InputSpec{num("10")}},

	{OpSayFor, "say [] for [] secs", KindCommand, CategoryLooks, colorLooks, []InputSpec{text("Hello!"), num("2")}},
	{OpSay, "say []", KindCommand, CategoryLooks, colorLooks, []InputSpec{text("Hello!")}},
	{OpShow, "show", KindCommand, CategoryLooks, colorLooks, nil},
	{OpHide, "hide", KindCommand, CategoryLooks, colorLooks, nil},
	{OpChangeSize, "change size by []", KindCommand, CategoryLooks, colorLooks, []InputSpec{num("10")}},
	{OpSetSize, "set size to []%", KindCommand, CategoryLooks, colorLooks, []InputSpec{num("100")}},

	{OpPlaySound, "play sound []", KindCommand, CategorySound, colorSound, []InputSpec{text("pop")}},
	{OpPlaySoundUntilDone, "play sound [] until done", KindCommand, CategorySound, colorSound, []InputSpec{text("pop")}},
	{OpChangeVolume, "change volume by []", KindCommand, CategorySound, colorSound, []InputSpec{num("-10")}},

	{OpWhenFlagClicked, "when ⚑ clicked", KindHat, CategoryEvents, colorEvents, nil},
	{OpWhenKeyPressed, "when [] key pressed", KindHat, CategoryEvents, colorEvents, []InputSpec{text("space")}},
	{OpWhenSpriteClicked, "when this sprite clicked", KindHat, CategoryEvents, colorEvents, nil},
	{OpBroadcast, "broadcast []", KindCommand, CategoryEvents, colorEvents, []InputSpec{text("message1")}},
	{OpWhenIReceive, "when I receive []", KindHat, CategoryEvents, colorEvents, []InputSpec{text("message1")}},

	{OpWait, "wait [] secs", KindCommand, CategoryControl, colorControl, []InputSpec{num("1")}},
	{OpRepeat, "repeat []", KindCBlock, CategoryControl, colorControl, []InputSpec{num("10")}},
	{OpForever, "forever", KindCBlock, CategoryControl, colorControl, nil},
	{OpIf, "if <> then", KindCBlock, CategoryControl, colorControl, nil},
	{OpStopAll, "stop all", KindCap, CategoryControl, colorControl, nil},
	{OpStopThisScript, "stop this script", KindCap, CategoryControl, colorControl, nil},

	{OpTouching, "touching []?", KindBoolean, CategorySensing, colorSensing, []InputSpec{text("mouse-pointer")}},
	{OpKeyIsPressed, "key [] pressed?", KindBoolean, CategorySensing, colorSensing, []InputSpec{text("space")}},
	{OpMouseX, "mouse x", KindReporter, CategorySensing, colorSensing, nil},
	{OpMouseY, "mouse y", KindReporter, CategorySensing, colorSensing, nil},
	{OpDistanceTo, "distance to []", KindReporter, CategorySensing, colorSensing, []InputSpec{text("mouse-pointer")}},

	{OpAdd, "[] + []", KindReporter, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpSubtract, "[] - []", KindReporter, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpMultiply, "[] * []", KindReporter, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpDivide, "[] / []", KindReporter, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpEquals, "[] = []", KindBoolean, CategoryOperators, colorOperators, []InputSpec{text(""), text("")}},
	{OpLessThan, "[] < []", KindBoolean, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpGreaterThan, "[] > []", KindBoolean, CategoryOperators, colorOperators, []InputSpec{num(""), num("")}},
	{OpAnd, "<> and <>", KindBoolean, CategoryOperators, colorOperators, nil},
	{OpOr, "<> or <>", KindBoolean, CategoryOperators, colorOperators, nil},
	{OpNot, "not <>", KindBoolean, CategoryOperators, colorOperators, nil},

	{OpSetVariable, "set [] to []", KindCommand, CategoryVariables, colorVariables, []InputSpec{text("my variable"), text("0")}},
	{OpChangeVariable, "change [] by []", KindCommand, CategoryVariables, colorVariables, []InputSpec{text("my variable"), num("1")}},
	{OpVariable, "[]", KindReporter, CategoryVariables, colorVariables, []InputSpec{text("my variable")}},
}

var (
	byOpcode [opCount]int // index+1 into catalog; 0 = absent
	byText   = make(map[string]Opcode, len(catalog))
)

func init() {
	for i, t := range catalog {
		byOpcode[t.Op] = i + 1
		byText[textKey(t.Text)] = t.Op
	}
}

// textKey normalizes display text for lookup: whitespace is insignificant.
func textKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Catalog returns every template in palette order. The returned slice MUST
// NOT be mutated.
func Catalog() []Template {
	return catalog
}

// CategoryTemplates returns the templates of one palette category in order.
func CategoryTemplates(c Category) []Template {
	var out []Template
	for _, t := range catalog {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// TemplateFor returns the template of op.
func TemplateFor(op Opcode) (Template, bool) {
	if op >= opCount || byOpcode[op] == 0 {
		return Template{}, false
	}
	return catalog[byOpcode[op]-1], true
}

// LookupText maps a legacy display template (for example "wait [] secs") to
// its opcode. Whitespace differences are ignored.
func LookupText(s string) (Opcode, bool) {
	op, ok := byText[textKey(s)]
	return op, ok
}

func (op Opcode) String() string {
	if t, ok := TemplateFor(op); ok {
		return t.Text
	}
	return "none"
}
