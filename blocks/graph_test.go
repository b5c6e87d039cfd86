package blocks

import (
	"errors"
	"testing"
)

func mustAdd(t *testing.T, g *Graph, op Opcode, x, y float64) *Block {
	t.Helper()
	b, err := g.Add(op, "Sprite1", x, y)
	if err != nil {
		t.Fatalf("Add(%v): %v", op, err)
	}
	return b
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, OpWhenFlagClicked, 0, 0)
	b := mustAdd(t, g, OpWait, 0, 40)
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", a.ID, b.ID)
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2", g.Len())
	}
}

func TestAddUsesTemplateDefaults(t *testing.T) {
	g := NewGraph()
	b := mustAdd(t, g, OpGlide, 0, 0)
	want := []string{"1", "0", "0"}
	got := b.InputValues()
	if len(got) != len(want) {
		t.Fatalf("inputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d = %q, want %q", i, got[i], want[i])
		}
	}
	if b.Kind != KindCommand || b.Text != "glide [] secs to x: [] y: []" {
		t.Errorf("kind/text = %v/%q", b.Kind, b.Text)
	}
}

func TestAddUnknownOpcode(t *testing.T) {
	g := NewGraph()
	if _, err := g.Add(OpNone, "Sprite1", 0, 0); !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("err = %v, want ErrUnknownOpcode", err)
	}
}

func TestBlockSize(t *testing.T) {
	g := NewGraph()
	show := mustAdd(t, g, OpShow, 0, 0)
	if show.Width != blockMinWidth || show.Height != blockHeight {
		t.Errorf("show size = %vx%v", show.Width, show.Height)
	}
	rep := mustAdd(t, g, OpRepeat, 0, 0)
	if rep.Height != blockHeightCBlock {
		t.Errorf("repeat height = %v, want %v", rep.Height, blockHeightCBlock)
	}
	say := mustAdd(t, g, OpSayFor, 0, 0)
	if want := float64(len(say.Text)*8 + 2*60 + 20); say.Width != want {
		t.Errorf("say width = %v, want %v", say.Width, want)
	}
}

func TestDuplicateCopiesInputsNotLinks(t *testing.T) {
	g := NewGraph()
	tmpl, err := g.AddPalette(OpChangeX, "Sprite1", 40, 370)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetInput(tmpl.ID, 0, "25"); err != nil {
		t.Fatal(err)
	}
	dup, err := g.Duplicate(tmpl.ID, "Sprite2", 290, 370)
	if err != nil {
		t.Fatal(err)
	}
	if dup.Palette {
		t.Error("duplicate should not be a palette block")
	}
	if dup.Sprite != "Sprite2" {
		t.Errorf("Sprite = %q, want Sprite2", dup.Sprite)
	}
	if dup.Inputs[0].Value != "25" {
		t.Errorf("input = %q, want 25", dup.Inputs[0].Value)
	}
	dup.Inputs[0].Value = "1"
	if tmpl.Inputs[0].Value != "25" {
		t.Error("duplicate shares input storage with its template")
	}
}

func TestDuplicateUnknown(t *testing.T) {
	g := NewGraph()
	if _, err := g.Duplicate(7, "Sprite1", 0, 0); !errors.Is(err, ErrUnknownBlock) {
		t.Errorf("err = %v, want ErrUnknownBlock", err)
	}
}

func TestConnectAndStack(t *testing.T) {
	g := NewGraph()
	hat := mustAdd(t, g, OpWhenFlagClicked, 0, 0)
	a := mustAdd(t, g, OpMoveSteps, 0, 0)
	b := mustAdd(t, g, OpStopAll, 0, 0)
	if err := g.Connect(hat.ID, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	got := g.Stack(hat.ID)
	want := []BlockID{hat.ID, a.ID, b.ID}
	if len(got) != len(want) {
		t.Fatalf("Stack = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stack[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if !a.Connected() || hat.Connected() {
		t.Error("connected flags wrong")
	}
}

func TestConnectRejects(t *testing.T) {
	tests := []struct {
		name  string
		above Opcode
		below Opcode
	}{
		{"hat below command", OpMoveSteps, OpWhenFlagClicked},
		{"below cap", OpStopAll, OpMoveSteps},
		{"reporter below", OpMoveSteps, OpMouseX},
		{"below boolean", OpEquals, OpMoveSteps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			a := mustAdd(t, g, tt.above, 0, 0)
			b := mustAdd(t, g, tt.below, 0, 0)
			if err := g.Connect(a.ID, b.ID); !errors.Is(err, ErrLinkConflict) {
				t.Errorf("err = %v, want ErrLinkConflict", err)
			}
		})
	}
}

func TestConnectRejectsCycle(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, OpMoveSteps, 0, 0)
	b := mustAdd(t, g, OpMoveSteps, 0, 0)
	if err := g.Connect(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	// b has nothing below and a has nothing above, but linking a under b
	// would close a loop.
	if err := g.Connect(b.ID, a.ID); !errors.Is(err, ErrLinkConflict) {
		t.Errorf("err = %v, want ErrLinkConflict", err)
	}
}

func TestRemoveSeversBothSides(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, OpWhenFlagClicked, 0, 0)
	b := mustAdd(t, g, OpMoveSteps, 0, 0)
	c := mustAdd(t, g, OpShow, 0, 0)
	_ = g.Connect(a.ID, b.ID)
	_ = g.Connect(b.ID, c.ID)

	if !g.Remove(b.ID) {
		t.Fatal("Remove returned false")
	}
	if a.Below != NoBlock {
		t.Errorf("a.Below = %d, want NoBlock", a.Below)
	}
	if c.Above != NoBlock {
		t.Errorf("c.Above = %d, want NoBlock", c.Above)
	}
	if g.Block(b.ID) != nil {
		t.Error("removed block still reachable")
	}
	if g.Remove(b.ID) {
		t.Error("second Remove should return false")
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2", g.Len())
	}
	for _, blk := range g.Blocks() {
		if blk.ID == b.ID {
			t.Error("Blocks() still lists removed block")
		}
	}
}

func TestRemovedIDsAreNotReused(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, OpShow, 0, 0)
	g.Remove(a.ID)
	b := mustAdd(t, g, OpShow, 0, 0)
	if b.ID == a.ID {
		t.Errorf("ID %d reused", a.ID)
	}
}

func TestSetInputOutOfRange(t *testing.T) {
	g := NewGraph()
	b := mustAdd(t, g, OpShow, 0, 0)
	if err := g.SetInput(b.ID, 0, "x"); err == nil {
		t.Error("expected error for slot on input-less block")
	}
}

func TestStackStopsOnCycle(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, OpMoveSteps, 0, 0)
	b := mustAdd(t, g, OpMoveSteps, 0, 0)
	a.Below, b.Above = b.ID, a.ID
	b.Below, a.Above = a.ID, b.ID // corrupt on purpose

	if got := g.Stack(a.ID); len(got) != 2 {
		t.Errorf("Stack = %v, want 2 entries", got)
	}
}
