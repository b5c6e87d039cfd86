package jade

import (
	"math"
	"strings"
	"testing"

	"github.com/phanxgames/jade/blocks"
	"github.com/phanxgames/jade/engine"
	"github.com/phanxgames/jade/project"
)

const frameDt = 1.0 / 60

func newTestEditor(t *testing.T, setup func(g *blocks.Graph)) (*Editor, *engine.Stage) {
	t.Helper()
	stage, err := engine.NewStage(engine.NewSprite("Sprite1", 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	g := blocks.NewGraph()
	if setup != nil {
		setup(g)
	}
	e := NewEditor(g, stage, EditorConfig{})
	e.World().IgnoreDevices = true
	return e, stage
}

func mustBlock(t *testing.T, g *blocks.Graph, op blocks.Opcode, x, y float64) *blocks.Block {
	t.Helper()
	b, err := g.Add(op, "Sprite1", x, y)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// settle drains injected input and then runs n more frames.
func settle(e *Editor, n int) {
	w := e.World()
	for w.Pending() > 0 {
		w.UpdateDt(frameDt)
	}
	for i := 0; i < n; i++ {
		w.UpdateDt(frameDt)
	}
}

func workspaceBlocks(g *blocks.Graph) []*blocks.Block {
	var out []*blocks.Block
	for _, b := range g.Blocks() {
		if !b.Palette {
			out = append(out, b)
		}
	}
	return out
}

func TestNewEditorAddsFirstSprite(t *testing.T) {
	stage, _ := engine.NewStage()
	e := NewEditor(blocks.NewGraph(), stage, EditorConfig{})
	if e.Selected() != "Sprite1" {
		t.Errorf("Selected = %q, want Sprite1", e.Selected())
	}
	if e.SpriteMorph("Sprite1") == nil {
		t.Error("no disc for Sprite1")
	}
	if e.Category() != blocks.CategoryMotion {
		t.Errorf("Category = %v", e.Category())
	}
	if got, want := len(e.PaletteBlocks()), len(blocks.CategoryTemplates(blocks.CategoryMotion)); got != want {
		t.Errorf("palette has %d blocks, want %d", got, want)
	}
}

func TestCategoryButtonSwapsPalette(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	old := e.PaletteBlocks()

	// Events is the fourth button: second column, second row.
	e.World().InjectClick(130, 40)
	settle(e, 0)

	if e.Category() != blocks.CategoryEvents {
		t.Fatalf("Category = %v, want Events", e.Category())
	}
	ids := e.PaletteBlocks()
	if len(ids) != len(blocks.CategoryTemplates(blocks.CategoryEvents)) {
		t.Errorf("palette has %d blocks", len(ids))
	}
	for _, id := range old {
		if m := e.BlockMorph(id); m == nil || m.Visible {
			t.Errorf("motion template %d still on show", id)
		}
	}
	for _, id := range ids {
		if m := e.BlockMorph(id); m == nil || !m.Visible {
			t.Errorf("events template %d hidden", id)
		}
	}
}

func TestCategorySwitchReusesTemplates(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	motion := e.PaletteBlocks()
	e.showCategory(blocks.CategoryEvents)
	events := e.PaletteBlocks()
	want := e.Graph().Len()

	for i := 0; i < 20; i++ {
		e.showCategory(blocks.CategoryMotion)
		e.showCategory(blocks.CategoryEvents)
	}
	if got := e.Graph().Len(); got != want {
		t.Errorf("graph Len = %d after switching, want %d", got, want)
	}
	e.showCategory(blocks.CategoryMotion)
	again := e.PaletteBlocks()
	if len(again) != len(motion) {
		t.Fatalf("motion palette = %v, want %v", again, motion)
	}
	for i := range motion {
		if again[i] != motion[i] {
			t.Errorf("template %d = %d, want reused %d", i, again[i], motion[i])
		}
	}
	for _, id := range events {
		if e.BlockMorph(id).Visible {
			t.Errorf("events template %d on show under motion", id)
		}
	}
	settle(e, 1)
	if hit := e.World().HitTest(15, float64(paletteTop)+5); hit == nil || hit.UserData != motion[0] {
		t.Errorf("hit under first template = %v, want block %d", hit, motion[0])
	}

	// No tombstones were left behind: the next ID follows the live blocks.
	b, err := e.Graph().Add(blocks.OpShow, e.Selected(), 300, 300)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != blocks.BlockID(want+1) {
		t.Errorf("next block ID = %d, want %d", b.ID, want+1)
	}
}

func TestDragFromPaletteDuplicates(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	tmpl := e.Graph().Block(e.PaletteBlocks()[0])

	e.World().InjectDrag(tmpl.X+5, tmpl.Y+6, 420, 306, 6)
	settle(e, 1)

	ws := workspaceBlocks(e.Graph())
	if len(ws) != 1 {
		t.Fatalf("workspace has %d blocks, want 1", len(ws))
	}
	dup := ws[0]
	if dup.Op != tmpl.Op || dup.Sprite != "Sprite1" {
		t.Errorf("dup = %v for %q", dup.Op, dup.Sprite)
	}
	if dup.X != 415 || dup.Y != 300 {
		t.Errorf("dup at (%v, %v), want (415, 300)", dup.X, dup.Y)
	}
	m := e.BlockMorph(dup.ID)
	if m == nil || m.X != dup.X || m.Y != dup.Y {
		t.Fatalf("morph out of sync: %+v", m)
	}
	if m.Parent != e.workspaceLayer {
		t.Error("duplicate not placed in the workspace layer")
	}
	if tmpl.X != 10 || e.Graph().Block(tmpl.ID) == nil {
		t.Error("template moved or removed")
	}
}

func TestDropSnapsBelowHat(t *testing.T) {
	var hat *blocks.Block
	e, _ := newTestEditor(t, func(g *blocks.Graph) {
		hat = mustBlock(t, g, blocks.OpWhenFlagClicked, 400, 100)
	})
	tmpl := e.Graph().Block(e.PaletteBlocks()[0])

	// Release so the new block's top-left lands 3 right and 5 below the
	// hat's bottom-left corner.
	e.World().InjectDrag(tmpl.X+5, tmpl.Y+6, 403+5, hat.Bottom()+5+6, 6)
	settle(e, 20)

	if hat.Below == blocks.NoBlock {
		t.Fatal("block did not snap")
	}
	b := e.Graph().Block(hat.Below)
	wantY := hat.Bottom() - blocks.DefaultSnapOverlap
	if b.X != hat.X || b.Y != wantY {
		t.Errorf("block at (%v, %v), want (%v, %v)", b.X, b.Y, hat.X, wantY)
	}
	m := e.BlockMorph(b.ID)
	if m.X != b.X || m.Y != b.Y {
		t.Errorf("morph at (%v, %v) after snap tween", m.X, m.Y)
	}
}

func TestDropFarAwayStaysLoose(t *testing.T) {
	var hat *blocks.Block
	e, _ := newTestEditor(t, func(g *blocks.Graph) {
		hat = mustBlock(t, g, blocks.OpWhenFlagClicked, 400, 100)
	})
	tmpl := e.Graph().Block(e.PaletteBlocks()[0])
	e.World().InjectDrag(tmpl.X+5, tmpl.Y+6, 600, 500, 6)
	settle(e, 1)
	if hat.Below != blocks.NoBlock {
		t.Errorf("hat.Below = %d, want none", hat.Below)
	}
}

func TestDragOverPaletteDeletes(t *testing.T) {
	var b *blocks.Block
	e, _ := newTestEditor(t, func(g *blocks.Graph) {
		b = mustBlock(t, g, blocks.OpShow, 400, 300)
	})
	m := e.BlockMorph(b.ID)

	e.World().InjectDrag(405, 305, 100, 305, 6)
	settle(e, 0)
	if e.Graph().Block(b.ID) != nil {
		t.Fatal("block still in graph")
	}
	if e.BlockMorph(b.ID) != nil {
		t.Error("editor still tracks the morph")
	}
	settle(e, 20)
	if !m.IsDisposed() {
		t.Error("morph not disposed after its fade")
	}
}

func TestDeleteBlockRefusesPalette(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	if e.DeleteBlock(e.PaletteBlocks()[0]) {
		t.Error("palette template deleted")
	}
	if e.DeleteBlock(999) {
		t.Error("unknown block deleted")
	}
}

func TestDragDetachesFromChain(t *testing.T) {
	var hat, cmd *blocks.Block
	e, _ := newTestEditor(t, func(g *blocks.Graph) {
		hat = mustBlock(t, g, blocks.OpWhenFlagClicked, 400, 100)
		cmd = mustBlock(t, g, blocks.OpShow, 400, 127)
		if err := g.Connect(hat.ID, cmd.ID); err != nil {
			t.Fatal(err)
		}
	})
	e.World().InjectDrag(cmd.X+5, cmd.Y+10, 700, 600, 6)
	settle(e, 1)
	if hat.Below != blocks.NoBlock || cmd.Above != blocks.NoBlock {
		t.Errorf("links left: hat.Below=%d cmd.Above=%d", hat.Below, cmd.Above)
	}
}

func TestStartAndStopButtons(t *testing.T) {
	var hat *blocks.Block
	e, stage := newTestEditor(t, func(g *blocks.Graph) {
		hat = mustBlock(t, g, blocks.OpWhenFlagClicked, 400, 100)
		cmd := mustBlock(t, g, blocks.OpChangeX, 400, 127)
		_ = g.Connect(hat.ID, cmd.ID)
	})
	var kinds []engine.EventKind
	e.SetEventSink(func(ev engine.Event) { kinds = append(kinds, ev.Kind) })

	e.World().InjectClick(stageLeft+10, controlsTop+10)
	settle(e, 0)
	if !e.Engine().Running() {
		t.Fatal("Start button did not start the engine")
	}
	hm := e.BlockMorph(hat.ID)
	if hm.Color != ColorWhite {
		t.Errorf("hat not flashed: %+v", hm.Color)
	}

	settle(e, 30)
	if x := stage.Sprite("Sprite1").X; x != 10 {
		t.Errorf("sprite X = %v, want 10", x)
	}
	if d := e.SpriteMorph("Sprite1"); d.X != StageWidth/2+10 {
		t.Errorf("disc X = %v, want %v", d.X, StageWidth/2+10)
	}
	base := blockColor(hat)
	if math.Abs(hm.Color.R-base.R) > 0.01 || math.Abs(hm.Color.B-base.B) > 0.01 {
		t.Errorf("flash did not fade back: %+v vs %+v", hm.Color, base)
	}
	seen := make(map[engine.EventKind]bool)
	for _, k := range kinds {
		seen[k] = true
	}
	if !seen[engine.EventStart] || !seen[engine.EventThreadStarted] || !seen[engine.EventThreadFinished] {
		t.Errorf("events = %v", kinds)
	}

	e.World().InjectClick(stageLeft+100, controlsTop+10)
	settle(e, 0)
	if e.Engine().Running() {
		t.Error("Stop button did not stop the engine")
	}
}

func TestSpriteClickRunsScript(t *testing.T) {
	e, stage := newTestEditor(t, func(g *blocks.Graph) {
		hat := mustBlock(t, g, blocks.OpWhenSpriteClicked, 400, 100)
		cmd := mustBlock(t, g, blocks.OpChangeY, 400, 127)
		_ = g.SetInput(cmd.ID, 0, "5")
		_ = g.Connect(hat.ID, cmd.ID)
	})
	e.Engine().Start()

	e.World().InjectClick(stageLeft+StageWidth/2, stageTop+StageHeight/2)
	settle(e, 10)
	if y := stage.Sprite("Sprite1").Y; y != 5 {
		t.Errorf("sprite Y = %v, want 5", y)
	}
}

func TestKeyRunsScript(t *testing.T) {
	e, stage := newTestEditor(t, func(g *blocks.Graph) {
		hat := mustBlock(t, g, blocks.OpWhenKeyPressed, 400, 100)
		cmd := mustBlock(t, g, blocks.OpChangeX, 400, 127)
		_ = g.Connect(hat.ID, cmd.ID)
	})
	e.Engine().Start()

	e.World().InjectKey("a")
	settle(e, 10)
	if x := stage.Sprite("Sprite1").X; x != 0 {
		t.Fatalf("wrong key ran the script: X = %v", x)
	}
	e.World().InjectKey("space")
	settle(e, 10)
	if x := stage.Sprite("Sprite1").X; x != 10 {
		t.Errorf("sprite X = %v, want 10", x)
	}
}

func TestEditInputByTyping(t *testing.T) {
	var b *blocks.Block
	e, _ := newTestEditor(t, func(g *blocks.Graph) {
		b = mustBlock(t, g, blocks.OpMoveSteps, 400, 300)
	})
	w := e.World()
	w.InjectClick(405, 305)
	settle(e, 0)
	if got := e.BlockMorph(b.ID).Label; !strings.Contains(got, "[10_]") {
		t.Fatalf("label while editing = %q", got)
	}

	w.InjectKey("backspace")
	w.InjectKey("backspace")
	w.InjectText("25")
	w.InjectKey("enter")
	settle(e, 0)

	if v := b.Inputs[0].Value; v != "25" {
		t.Errorf("input = %q, want 25", v)
	}
	if got := e.BlockMorph(b.ID).Label; strings.Contains(got, "_") || !strings.Contains(got, "25") {
		t.Errorf("label after edit = %q", got)
	}
}

func TestEditTabMovesToNextSlot(t *testing.T) {
	var b *blocks.Block
	e, stage := newTestEditor(t, func(g *blocks.Graph) {
		b = mustBlock(t, g, blocks.OpGoTo, 400, 300)
		hat := mustBlock(t, g, blocks.OpWhenKeyPressed, 400, 500)
		cmd := mustBlock(t, g, blocks.OpChangeX, 400, 527)
		_ = g.Connect(hat.ID, cmd.ID)
	})
	e.Engine().Start()
	w := e.World()
	w.InjectClick(405, 305)
	w.InjectKey("tab")
	w.InjectKey("backspace")
	w.InjectText("7")
	// Typed while editing, so no script runs.
	w.InjectKey("space")
	w.InjectKey("escape")
	settle(e, 10)

	if v := b.InputValues(); v[0] != "0" || v[1] != "7" {
		t.Errorf("inputs = %v, want [0 7]", v)
	}
	if x := stage.Sprite("Sprite1").X; x != 0 {
		t.Errorf("key reached the engine during an edit: X = %v", x)
	}
}

func TestAddSpriteButton(t *testing.T) {
	e, stage := newTestEditor(t, nil)
	e.World().InjectClick(stageLeft+190, controlsTop+10)
	settle(e, 0)

	if len(stage.Sprites()) != 2 {
		t.Fatalf("stage has %d sprites, want 2", len(stage.Sprites()))
	}
	if e.Selected() != "Sprite2" || e.SpriteMorph("Sprite2") == nil {
		t.Fatalf("Selected = %q", e.Selected())
	}

	tmpl := e.Graph().Block(e.PaletteBlocks()[0])
	e.World().InjectDrag(tmpl.X+5, tmpl.Y+6, 500, 500, 6)
	settle(e, 1)
	ws := workspaceBlocks(e.Graph())
	if len(ws) != 1 {
		t.Fatalf("workspace has %d blocks, want 1", len(ws))
	}
	if ws[0].Sprite != "Sprite2" {
		t.Errorf("new block targets %q, want Sprite2", ws[0].Sprite)
	}
}

func TestSyncSpriteFromEngine(t *testing.T) {
	e, stage := newTestEditor(t, nil)
	sp := stage.Sprite("Sprite1")
	sp.X, sp.Y = 100, 50
	sp.Direction = 180
	sp.Size = 50
	sp.Bubble.Text = "hi"
	settle(e, 1)

	d := e.SpriteMorph("Sprite1")
	if d.X != StageWidth/2+100 || d.Y != StageHeight/2-50 {
		t.Errorf("disc at (%v, %v)", d.X, d.Y)
	}
	if d.ScaleX != 0.5 {
		t.Errorf("scale = %v, want 0.5", d.ScaleX)
	}
	if math.Abs(d.Rotation-math.Pi/2) > 1e-9 {
		t.Errorf("rotation = %v, want pi/2", d.Rotation)
	}
	bubble := e.sprites["Sprite1"].bubble
	if !bubble.Visible || bubble.Label != "hi" {
		t.Errorf("bubble = %v %q", bubble.Visible, bubble.Label)
	}

	sp.Visible = false
	settle(e, 1)
	if d.Visible || bubble.Visible {
		t.Error("hidden sprite still drawn")
	}

	// Sprites added behind the editor's back get a view on the next frame.
	_ = stage.Add(engine.NewSprite("Ghost", 0, 0))
	settle(e, 1)
	if e.SpriteMorph("Ghost") == nil {
		t.Error("no disc for Ghost")
	}
}

func TestSaveAndQuitShortcuts(t *testing.T) {
	stage, _ := engine.NewStage(engine.NewSprite("Sprite1", 0, 0))
	g := blocks.NewGraph()
	hat, _ := g.Add(blocks.OpWhenFlagClicked, "Sprite1", 400, 100)
	cmd, _ := g.Add(blocks.OpShow, "Sprite1", 400, 127)
	_ = g.Connect(hat.ID, cmd.ID)

	dir := t.TempDir()
	e := NewEditor(g, stage, EditorConfig{ProjectName: "demo", SaveDir: dir})
	e.onKey(KeyContext{Name: "s", Modifiers: ModCtrl})

	m, err := project.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Project.Name != "demo" || len(m.Sprites) != 1 {
		t.Errorf("manifest = %+v", m)
	}
	if !strings.Contains(m.Sprites[0].Source, "show") {
		t.Errorf("source = %q", m.Sprites[0].Source)
	}

	e.onKey(KeyContext{Name: "q", Modifiers: ModCtrl})
	if !e.World().quit {
		t.Error("Ctrl+Q did not quit")
	}
}

func TestSaveWithoutDirectory(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	if err := e.Save(); err == nil {
		t.Error("expected error")
	}
}
