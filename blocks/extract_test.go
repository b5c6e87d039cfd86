package blocks

import "testing"

// buildChain adds a hat followed by n-1 commands, linked top to bottom.
func buildChain(t *testing.T, g *Graph, sprite string, hat Opcode, n int) []*Block {
	t.Helper()
	h, err := g.Add(hat, sprite, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	out := []*Block{h}
	for i := 1; i < n; i++ {
		b, err := g.Add(OpChangeX, sprite, 0, float64(i*27))
		if err != nil {
			t.Fatal(err)
		}
		if err := g.SetInput(b.ID, 0, string(rune('0'+i))); err != nil {
			t.Fatal(err)
		}
		if err := g.Connect(out[len(out)-1].ID, b.ID); err != nil {
			t.Fatal(err)
		}
		out = append(out, b)
	}
	return out
}

func TestChainReturnsNMinusOneInOrder(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9} {
		g := NewGraph()
		chain := buildChain(t, g, "Sprite1", OpWhenFlagClicked, n)
		cmds := Chain(g, chain[0].ID)
		if len(cmds) != n-1 {
			t.Fatalf("n=%d: got %d commands, want %d", n, len(cmds), n-1)
		}
		for i, c := range cmds {
			if c.Block != chain[i+1].ID {
				t.Errorf("n=%d: cmd %d block = %d, want %d", n, i, c.Block, chain[i+1].ID)
			}
			if c.Op != OpChangeX || c.Kind != KindCommand {
				t.Errorf("n=%d: cmd %d = %v/%v", n, i, c.Op, c.Kind)
			}
		}
	}
}

func TestChainTerminatesOnCycle(t *testing.T) {
	g := NewGraph()
	chain := buildChain(t, g, "Sprite1", OpWhenFlagClicked, 4)
	// Point the last block back at the first command.
	last := chain[3]
	last.Below = chain[1].ID

	cmds := Chain(g, chain[0].ID)
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}

	// A loop back to the hat itself also ends the walk.
	last.Below = chain[0].ID
	if got := len(Chain(g, chain[0].ID)); got != 3 {
		t.Errorf("got %d commands, want 3", got)
	}
}

func TestChainSnapshotsInputs(t *testing.T) {
	g := NewGraph()
	chain := buildChain(t, g, "Sprite1", OpWhenFlagClicked, 2)
	cmds := Chain(g, chain[0].ID)
	_ = g.SetInput(chain[1].ID, 0, "99")
	if cmds[0].Args[0] != "1" {
		t.Errorf("arg = %q, want snapshot value 1", cmds[0].Args[0])
	}
}

func TestExtractPerSprite(t *testing.T) {
	g := NewGraph()
	buildChain(t, g, "Sprite1", OpWhenFlagClicked, 3)
	buildChain(t, g, "Sprite2", OpWhenIReceive, 2)
	buildChain(t, g, "Sprite1", OpWhenKeyPressed, 2)
	// Loose commands and palette hats are ignored.
	_, _ = g.Add(OpMoveSteps, "Sprite1", 500, 500)
	_, _ = g.AddPalette(OpWhenFlagClicked, "Sprite1", 40, 370)
	// A sprite not on the stage is ignored.
	buildChain(t, g, "Ghost", OpWhenFlagClicked, 2)

	ast := Extract(g, []string{"Sprite1", "Sprite2", "Sprite3"})

	if len(ast) != 3 {
		t.Fatalf("ast has %d sprites, want 3", len(ast))
	}
	s1 := ast["Sprite1"]
	if len(s1) != 2 {
		t.Fatalf("Sprite1 scripts = %d, want 2", len(s1))
	}
	if s1[0].Trigger.Kind != TriggerFlag || len(s1[0].Commands) != 2 {
		t.Errorf("Sprite1[0] = %+v", s1[0])
	}
	if s1[1].Trigger != (Trigger{Kind: TriggerKey, Arg: "space"}) {
		t.Errorf("Sprite1[1] trigger = %v", s1[1].Trigger)
	}
	s2 := ast["Sprite2"]
	if len(s2) != 1 || s2[0].Trigger != (Trigger{Kind: TriggerMessage, Arg: "message1"}) {
		t.Errorf("Sprite2 = %+v", s2)
	}
	if len(ast["Sprite3"]) != 0 {
		t.Errorf("Sprite3 = %+v, want none", ast["Sprite3"])
	}
	if _, ok := ast["Ghost"]; ok {
		t.Error("ast contains sprite that is not on the stage")
	}
}

func TestExtractSkipsRemovedHat(t *testing.T) {
	g := NewGraph()
	chain := buildChain(t, g, "Sprite1", OpWhenFlagClicked, 2)
	g.Remove(chain[0].ID)
	if got := Extract(g, []string{"Sprite1"})["Sprite1"]; len(got) != 0 {
		t.Errorf("scripts = %+v, want none", got)
	}
}

func TestScriptFor(t *testing.T) {
	g := NewGraph()
	chain := buildChain(t, g, "Sprite1", OpWhenSpriteClicked, 3)
	s, ok := ScriptFor(g, chain[0].ID)
	if !ok {
		t.Fatal("ScriptFor returned false")
	}
	if s.Trigger.Kind != TriggerSpriteClick || len(s.Commands) != 2 || s.Sprite != "Sprite1" {
		t.Errorf("script = %+v", s)
	}
	if _, ok := ScriptFor(g, chain[1].ID); ok {
		t.Error("ScriptFor accepted a non-hat block")
	}
}

func TestCommandArgs(t *testing.T) {
	c := Command{Args: []string{"12.5", "", "abc", " 7 ", "NaN"}}
	tests := []struct {
		i    int
		want float64
	}{
		{0, 12.5},
		{1, 3},
		{2, 3},
		{3, 7},
		{4, 3},
		{9, 3},
	}
	for _, tt := range tests {
		if got := c.Number(tt.i, 3); got != tt.want {
			t.Errorf("Number(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
	if got := c.Text(1, "dflt"); got != "dflt" {
		t.Errorf("Text(empty) = %q", got)
	}
	if got := c.Text(2, "dflt"); got != "abc" {
		t.Errorf("Text(2) = %q", got)
	}
	if got := (Command{Args: []string{"0"}}).Number(0, 10); got != 0 {
		t.Errorf("explicit zero replaced by default: %v", got)
	}
}

func TestTriggerOf(t *testing.T) {
	g := NewGraph()
	key, _ := g.Add(OpWhenKeyPressed, "Sprite1", 0, 0)
	_ = g.SetInput(key.ID, 0, "a")
	if got := TriggerOf(key); got != (Trigger{Kind: TriggerKey, Arg: "a"}) {
		t.Errorf("TriggerOf(key) = %v", got)
	}
	recv, _ := g.Add(OpWhenIReceive, "Sprite1", 0, 0)
	_ = g.SetInput(recv.ID, 0, "")
	if got := TriggerOf(recv); got.Arg != "message1" {
		t.Errorf("empty message arg = %q, want message1", got.Arg)
	}
	cmd, _ := g.Add(OpShow, "Sprite1", 0, 0)
	if got := TriggerOf(cmd); got.Kind != TriggerNone {
		t.Errorf("TriggerOf(show) = %v", got)
	}
}
