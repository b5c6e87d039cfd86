package jade

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/phanxgames/jade/blocks"
	"github.com/phanxgames/jade/blocktext"
	"github.com/phanxgames/jade/engine"
	"github.com/phanxgames/jade/project"
	"github.com/tanema/gween/ease"
	"github.com/tliron/commonlog"
)

var editorLog = commonlog.GetLogger("jade.editor")

// Editor screen layout, in pixels.
const (
	EditorWidth  = 1280
	EditorHeight = 720

	paletteWidth    = 240
	categoryButtonW = 110
	categoryButtonH = 22
	paletteTop      = 124
	paletteSpacing  = 8

	stageLeft   = 780
	stageTop    = 20
	StageWidth  = 480
	StageHeight = 360

	controlsTop   = stageTop + StageHeight + 12
	spriteListTop = controlsTop + 40
	buttonH       = 26

	spriteRadius = 15
)

// Animation timings, in seconds.
const (
	snapTweenSecs  = 0.08
	flashTweenSecs = 0.4
	fadeTweenSecs  = 0.15
)

// Editor colors.
var (
	colorPalette   = RGB(0x2a2a33)
	colorWorkspace = RGB(0x1e1e24)
	colorStage     = RGB(0xffffff)
	colorButton    = RGB(0x4a4a58)
	colorSelected  = RGB(0x7a7aa0)
	colorStart     = RGB(0x3cb043)
	colorStop      = RGB(0xd0312d)
	colorSprite    = RGB(0xffab19)
	colorBorder    = RGB(0x000000).Scale(0.35)
	colorInk       = RGB(0x000000)
)

// EditorConfig configures an Editor.
type EditorConfig struct {
	Engine engine.Config
	Snap   blocks.SnapConfig
	// ProjectName and SaveDir enable Ctrl+S, which writes the current
	// project to SaveDir as a manifest.
	ProjectName string
	SaveDir     string
}

type spriteView struct {
	disc   *Morph
	bubble *Morph
}

type blockDrag struct {
	id         blocks.BlockID
	offX, offY float64
}

type inputEdit struct {
	id   blocks.BlockID
	slot int
	buf  []rune
}

// Editor is the block editor screen: a palette of templates, a workspace of
// placed blocks, and a stage showing the engine's sprites. It wires pointer
// and key input from its World to the block graph and the engine.
type Editor struct {
	world  *World
	graph  *blocks.Graph
	stage  *engine.Stage
	engine *engine.Engine
	cfg    EditorConfig

	selected string
	category blocks.Category

	paletteLayer   *Morph
	workspaceLayer *Morph
	stageBox       *Morph
	spriteList     *Morph
	status         *Morph

	categoryButtons map[blocks.Category]*Morph
	blockMorphs     map[blocks.BlockID]*Morph
	paletteBlocks   []blocks.BlockID
	paletteCache    map[blocks.Category][]blocks.BlockID
	sprites         map[string]*spriteView

	drag *blockDrag
	edit *inputEdit
	sink engine.EventSink
}

// NewEditor builds the editor screen over g and stage. An empty stage gets a
// first sprite so that new blocks always have a target.
func NewEditor(g *blocks.Graph, stage *engine.Stage, cfg EditorConfig) *Editor {
	if cfg.Snap == (blocks.SnapConfig{}) {
		cfg.Snap = blocks.DefaultSnapConfig()
	}
	e := &Editor{
		world:           NewWorld(),
		graph:           g,
		stage:           stage,
		engine:          engine.New(g, stage, cfg.Engine),
		cfg:             cfg,
		categoryButtons: make(map[blocks.Category]*Morph),
		blockMorphs:     make(map[blocks.BlockID]*Morph),
		paletteCache:    make(map[blocks.Category][]blocks.BlockID),
		sprites:         make(map[string]*spriteView),
	}
	e.world.Background = colorWorkspace
	e.engine.SetEventSink(e.onEngineEvent)

	if len(stage.Sprites()) == 0 {
		_ = stage.Add(engine.NewSprite(stage.NextName(), 0, 0))
	}
	e.selected = stage.Names()[0]

	e.buildChrome()
	for _, b := range g.Blocks() {
		if !b.Palette {
			e.newBlockMorph(b, e.workspaceLayer)
		}
	}
	for _, sp := range stage.Sprites() {
		e.newSpriteView(sp)
	}
	e.rebuildSpriteList()
	e.showCategory(blocks.CategoryMotion)

	e.world.OnDragStart(e.onDragStart)
	e.world.OnDrag(e.onDrag)
	e.world.OnDragEnd(e.onDragEnd)
	e.world.OnKey(e.onKey)
	e.world.Root().OnUpdate = e.tick
	return e
}

// World returns the editor's morph world.
func (e *Editor) World() *World { return e.world }

// Engine returns the engine the editor drives.
func (e *Editor) Engine() *engine.Engine { return e.engine }

// Graph returns the block graph being edited.
func (e *Editor) Graph() *blocks.Graph { return e.graph }

// Selected returns the name of the sprite new blocks are created for.
func (e *Editor) Selected() string { return e.selected }

// Category returns the palette category on show.
func (e *Editor) Category() blocks.Category { return e.category }

// BlockMorph returns the morph showing block id, or nil.
func (e *Editor) BlockMorph(id blocks.BlockID) *Morph { return e.blockMorphs[id] }

// SpriteMorph returns the stage disc for the named sprite, or nil.
func (e *Editor) SpriteMorph(name string) *Morph {
	if v := e.sprites[name]; v != nil {
		return v.disc
	}
	return nil
}

// PaletteBlocks returns the template blocks currently in the palette.
func (e *Editor) PaletteBlocks() []blocks.BlockID {
	out := make([]blocks.BlockID, len(e.paletteBlocks))
	copy(out, e.paletteBlocks)
	return out
}

// SetEventSink installs fn to receive engine events after the editor has
// handled them.
func (e *Editor) SetEventSink(fn engine.EventSink) { e.sink = fn }

// Run opens the editor window.
func (e *Editor) Run(cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "jade"
	}
	cfg.Width, cfg.Height = EditorWidth, EditorHeight
	return Run(e.world, cfg)
}

// --- Chrome ---

func newButton(name, label string, x, y, w float64, c Color, onClick func()) *Morph {
	b := NewBox(name, w, buttonH, c)
	b.SetPosition(x, y)
	b.BorderColor = colorBorder
	b.SetLabel(label)
	b.OnClick = func(ClickContext) { onClick() }
	return b
}

func (e *Editor) buildChrome() {
	root := e.world.Root()

	e.paletteLayer = NewBox("palette", paletteWidth, EditorHeight, colorPalette)
	root.AddChild(e.paletteLayer)
	for i, c := range blocks.Categories() {
		c := c
		x := 10 + float64(i%2)*(categoryButtonW+5)
		y := 10 + float64(i/2)*(categoryButtonH+4)
		btn := NewBox("category-"+c.String(), categoryButtonW, categoryButtonH, categoryColor(c))
		btn.SetPosition(x, y)
		btn.BorderColor = colorBorder
		btn.SetLabel(c.String())
		btn.OnClick = func(ClickContext) { e.showCategory(c) }
		e.paletteLayer.AddChild(btn)
		e.categoryButtons[c] = btn
	}

	e.workspaceLayer = NewContainer("workspace")
	e.workspaceLayer.ZIndex = 1
	root.AddChild(e.workspaceLayer)

	e.stageBox = NewBox("stage", StageWidth, StageHeight, colorStage)
	e.stageBox.SetPosition(stageLeft, stageTop)
	e.stageBox.BorderColor = colorBorder
	e.stageBox.ZIndex = 2
	root.AddChild(e.stageBox)

	controls := NewContainer("controls")
	controls.ZIndex = 2
	root.AddChild(controls)
	controls.AddChild(newButton("start", "Start", stageLeft, controlsTop, 80, colorStart, func() { e.engine.Start() }))
	controls.AddChild(newButton("stop", "Stop", stageLeft+90, controlsTop, 80, colorStop, e.engine.Stop))
	controls.AddChild(newButton("add-sprite", "+ Add Sprite", stageLeft+180, controlsTop, 120, colorButton, func() { e.AddSprite() }))

	e.status = NewLabel("status", "", ColorWhite)
	e.status.SetPosition(stageLeft+310, controlsTop+5)
	controls.AddChild(e.status)

	e.spriteList = NewContainer("sprites")
	e.spriteList.ZIndex = 2
	root.AddChild(e.spriteList)
}

func categoryColor(c blocks.Category) Color {
	if ts := blocks.CategoryTemplates(c); len(ts) > 0 {
		return RGB(ts[0].Color)
	}
	return colorButton
}

func blockColor(b *blocks.Block) Color {
	if t, ok := blocks.TemplateFor(b.Op); ok {
		return RGB(t.Color)
	}
	return colorButton
}

// showCategory swaps the palette to the templates of c. Each category's
// templates are placed in the graph once and hidden while another category
// is on show.
func (e *Editor) showCategory(c blocks.Category) {
	e.finishEdit()
	for _, id := range e.paletteBlocks {
		if m := e.blockMorphs[id]; m != nil {
			m.Visible = false
		}
	}

	ids, ok := e.paletteCache[c]
	if !ok {
		y := float64(paletteTop)
		for _, t := range blocks.CategoryTemplates(c) {
			b, err := e.graph.AddPalette(t.Op, e.selected, 10, y)
			if err != nil {
				editorLog.Errorf("palette %s: %s", t.Text, err)
				continue
			}
			e.newBlockMorph(b, e.paletteLayer)
			ids = append(ids, b.ID)
			y += b.Height + paletteSpacing
		}
		e.paletteCache[c] = ids
	}
	for _, id := range ids {
		if m := e.blockMorphs[id]; m != nil {
			m.Visible = true
		}
	}
	e.paletteBlocks = ids
	for cat, btn := range e.categoryButtons {
		if cat == c {
			btn.BorderColor = ColorWhite
		} else {
			btn.BorderColor = colorBorder
		}
	}
	e.category = c
}

// --- Blocks ---

func (e *Editor) newBlockMorph(b *blocks.Block, layer *Morph) *Morph {
	m := NewBox(fmt.Sprintf("block-%d", b.ID), b.Width, b.Height, blockColor(b))
	m.SetPosition(b.X, b.Y)
	m.BorderColor = colorBorder
	m.UserData = b.ID
	m.EntityID = uint32(b.ID)
	m.SetLabel(e.blockLabel(b))
	id := b.ID
	m.OnClick = func(ClickContext) { e.beginEdit(id) }
	layer.AddChild(m)
	e.blockMorphs[b.ID] = m
	return m
}

// blockLabel renders the block's text with its input values. The slot being
// edited shows the edit buffer and a caret.
func (e *Editor) blockLabel(b *blocks.Block) string {
	if e.edit == nil || e.edit.id != b.ID {
		return blocktext.Line(b)
	}
	parts := strings.Split(b.Text, "[]")
	var sb strings.Builder
	for i, p := range parts {
		sb.WriteString(p)
		if i == len(parts)-1 {
			break
		}
		if i == e.edit.slot {
			sb.WriteString("[" + string(e.edit.buf) + "_]")
		} else if i < len(b.Inputs) {
			sb.WriteString("[" + b.Inputs[i].Value + "]")
		}
	}
	return sb.String()
}

func (e *Editor) refreshLabel(id blocks.BlockID) {
	b := e.graph.Block(id)
	m := e.blockMorphs[id]
	if b == nil || m == nil {
		return
	}
	m.SetLabel(e.blockLabel(b))
}

// moveMorph shows block id at its graph position, animated when animate is
// set.
func (e *Editor) moveMorph(id blocks.BlockID, animate bool) {
	b := e.graph.Block(id)
	m := e.blockMorphs[id]
	if b == nil || m == nil {
		return
	}
	e.world.StopTweens(m)
	if !animate || (m.X == b.X && m.Y == b.Y) {
		m.SetPosition(b.X, b.Y)
		return
	}
	e.world.AddTween(TweenPosition(m, b.X, b.Y, snapTweenSecs, ease.OutQuad))
}

// layoutBelow stacks the chain under id flush beneath it.
func (e *Editor) layoutBelow(id blocks.BlockID) {
	chain := e.graph.Stack(id)
	for i := 1; i < len(chain); i++ {
		prev := e.graph.Block(chain[i-1])
		_ = e.graph.Move(chain[i], prev.X, prev.Bottom()-e.cfg.Snap.Overlap)
		e.moveMorph(chain[i], true)
	}
}

// DeleteBlock removes a workspace block from the graph and fades out its
// morph. Palette templates cannot be deleted.
func (e *Editor) DeleteBlock(id blocks.BlockID) bool {
	b := e.graph.Block(id)
	if b == nil || b.Palette {
		return false
	}
	if e.edit != nil && e.edit.id == id {
		e.edit = nil
	}
	e.graph.Remove(id)
	m := e.blockMorphs[id]
	delete(e.blockMorphs, id)
	if m != nil {
		m.Interactable = false
		m.UserData = nil
		fade := TweenAlpha(m, 0, fadeTweenSecs, ease.Linear)
		fade.OnDone = m.Dispose
		e.world.AddTween(fade)
	}
	editorLog.Debugf("deleted block %d", id)
	return true
}

// --- Dragging ---

func (e *Editor) onDragStart(ctx DragContext) {
	id, ok := ctx.UserData.(blocks.BlockID)
	if !ok {
		return
	}
	b := e.graph.Block(id)
	if b == nil {
		return
	}
	e.finishEdit()
	if b.Palette {
		dup, err := e.graph.Duplicate(id, e.selected, b.X, b.Y)
		if err != nil {
			editorLog.Errorf("duplicate %d: %s", id, err)
			return
		}
		e.newBlockMorph(dup, e.workspaceLayer)
		editorLog.Debugf("new %s block %d for %s", dup.Op, dup.ID, dup.Sprite)
		b = dup
	}
	e.drag = &blockDrag{id: b.ID, offX: ctx.StartX - b.X, offY: ctx.StartY - b.Y}
	if m := e.blockMorphs[b.ID]; m != nil {
		e.world.StopTweens(m)
		m.BringToFront()
	}
	e.dragTo(ctx.GlobalX, ctx.GlobalY)
}

func (e *Editor) onDrag(ctx DragContext) {
	if e.drag != nil {
		e.dragTo(ctx.GlobalX, ctx.GlobalY)
	}
}

// onDragEnd drops the dragged block. Over the palette it is deleted;
// elsewhere it is snapped.
func (e *Editor) onDragEnd(ctx DragContext) {
	if e.drag == nil {
		return
	}
	id := e.drag.id
	e.dragTo(ctx.GlobalX, ctx.GlobalY)
	e.drag = nil

	if ctx.GlobalX < paletteWidth {
		e.DeleteBlock(id)
		return
	}
	e.Drop(id)
}

func (e *Editor) dragTo(x, y float64) {
	id := e.drag.id
	nx, ny := x-e.drag.offX, y-e.drag.offY
	if err := e.graph.Move(id, nx, ny); err != nil {
		return
	}
	if m := e.blockMorphs[id]; m != nil {
		m.SetPosition(nx, ny)
	}
}

// Drop snaps block id at its current position and animates the result.
// It returns the block it connected beneath, or blocks.NoBlock.
func (e *Editor) Drop(id blocks.BlockID) blocks.BlockID {
	target, err := e.graph.Snap(id, e.cfg.Snap)
	if err != nil {
		editorLog.Errorf("snap: %s", err)
		return blocks.NoBlock
	}
	if target != blocks.NoBlock {
		editorLog.Debugf("block %d snapped below %d", id, target)
		e.moveMorph(id, true)
		e.layoutBelow(id)
	}
	return target
}

// --- Input editing ---

func (e *Editor) beginEdit(id blocks.BlockID) {
	b := e.graph.Block(id)
	if b == nil || len(b.Inputs) == 0 {
		e.finishEdit()
		return
	}
	if e.edit != nil && e.edit.id == id {
		return
	}
	e.finishEdit()
	e.edit = &inputEdit{id: id, buf: []rune(b.Inputs[0].Value)}
	e.refreshLabel(id)
}

// commitEdit writes the edit buffer to its input slot.
func (e *Editor) commitEdit() {
	if e.edit == nil {
		return
	}
	if err := e.graph.SetInput(e.edit.id, e.edit.slot, string(e.edit.buf)); err != nil {
		editorLog.Errorf("set input: %s", err)
	}
}

func (e *Editor) finishEdit() {
	if e.edit == nil {
		return
	}
	e.commitEdit()
	id := e.edit.id
	e.edit = nil
	e.refreshLabel(id)
}

// nextSlot commits the current slot and moves to the next one, wrapping.
func (e *Editor) nextSlot() {
	e.commitEdit()
	b := e.graph.Block(e.edit.id)
	if b == nil {
		e.edit = nil
		return
	}
	e.edit.slot = (e.edit.slot + 1) % len(b.Inputs)
	e.edit.buf = []rune(b.Inputs[e.edit.slot].Value)
	e.refreshLabel(b.ID)
}

// --- Keys ---

func (e *Editor) onKey(ctx KeyContext) {
	if ctx.Modifiers&ModCtrl != 0 {
		switch ctx.Name {
		case "s":
			if err := e.Save(); err != nil {
				editorLog.Errorf("%s", err)
			}
		case "q":
			e.world.Quit()
		}
		return
	}
	if e.edit != nil {
		e.editKey(ctx)
		return
	}
	if ctx.Name != "" {
		e.engine.KeyPressed(ctx.Name)
	}
}

func (e *Editor) editKey(ctx KeyContext) {
	switch ctx.Name {
	case "":
		e.edit.buf = append(e.edit.buf, ctx.Char)
	case "backspace":
		if n := len(e.edit.buf); n > 0 {
			e.edit.buf = e.edit.buf[:n-1]
		}
	case "tab":
		e.nextSlot()
		return
	case "enter", "escape":
		e.finishEdit()
		return
	default:
		return
	}
	e.refreshLabel(e.edit.id)
}

// Save writes the project to the configured directory.
func (e *Editor) Save() error {
	if e.cfg.SaveDir == "" {
		return fmt.Errorf("save: no project directory")
	}
	m := project.Snapshot(e.cfg.ProjectName, e.graph, e.stage)
	if err := m.Save(e.cfg.SaveDir); err != nil {
		return err
	}
	editorLog.Infof("saved %s to %s", e.cfg.ProjectName, e.cfg.SaveDir)
	return nil
}

// --- Sprites ---

// AddSprite adds a new sprite at the stage centre and selects it.
func (e *Editor) AddSprite() string {
	sp := engine.NewSprite(e.stage.NextName(), 0, 0)
	if err := e.stage.Add(sp); err != nil {
		editorLog.Errorf("add sprite: %s", err)
		return ""
	}
	e.newSpriteView(sp)
	e.SelectSprite(sp.Name)
	editorLog.Infof("added sprite %s", sp.Name)
	return sp.Name
}

// SelectSprite makes name the target of newly created blocks.
func (e *Editor) SelectSprite(name string) {
	if e.stage.Sprite(name) == nil {
		return
	}
	e.selected = name
	e.rebuildSpriteList()
}

func (e *Editor) newSpriteView(sp *engine.Sprite) {
	name := sp.Name
	disc := NewDisc("sprite-"+name, spriteRadius, colorSprite)
	disc.BorderColor = colorInk
	disc.LabelColor = colorInk
	disc.SetLabel(name)
	disc.OnClick = func(ClickContext) {
		e.SelectSprite(name)
		e.engine.SpriteClicked(name)
	}
	e.stageBox.AddChild(disc)

	bubble := NewBox("bubble-"+name, 0, 0, ColorWhite)
	bubble.BorderColor = colorInk
	bubble.LabelColor = colorInk
	bubble.Interactable = false
	bubble.Visible = false
	bubble.ZIndex = 1
	e.stageBox.AddChild(bubble)

	e.sprites[name] = &spriteView{disc: disc, bubble: bubble}
	e.syncSprite(sp)
}

func (e *Editor) rebuildSpriteList() {
	e.spriteList.RemoveChildren()
	for i, name := range e.stage.Names() {
		name := name
		c := colorButton
		if name == e.selected {
			c = colorSelected
		}
		x := stageLeft + float64(i%4)*120
		y := spriteListTop + float64(i/4)*(buttonH+6)
		e.spriteList.AddChild(newButton("select-"+name, name, x, y, 110, c, func() { e.SelectSprite(name) }))
	}
}

// stagePoint maps stage coordinates (origin at centre, y up) to the stage
// box's local space.
func stagePoint(x, y float64) (float64, float64) {
	return StageWidth/2 + x, StageHeight/2 - y
}

// syncSprite copies engine state onto the sprite's disc and bubble.
func (e *Editor) syncSprite(sp *engine.Sprite) {
	v := e.sprites[sp.Name]
	if v == nil {
		return
	}
	x, y := stagePoint(sp.X, sp.Y)
	scale := math.Max(sp.Size, 0) / 100
	v.disc.SetPosition(x, y)
	v.disc.SetScale(scale, scale)
	v.disc.SetRotation((sp.Direction - 90) * math.Pi / 180)
	v.disc.Visible = sp.Visible

	if sp.Bubble.Text == "" || !sp.Visible {
		v.bubble.Visible = false
		return
	}
	w, h := labelSize(sp.Bubble.Text)
	v.bubble.Width, v.bubble.Height = w+2*labelPadX, h+4
	v.bubble.SetLabel(sp.Bubble.Text)
	v.bubble.SetPosition(x+spriteRadius*scale, y-spriteRadius*scale-v.bubble.Height)
	v.bubble.Visible = true
}

// --- Frame ---

// tick advances the engine by the frame time and re-renders the sprites.
func (e *Editor) tick(dt float64) {
	e.engine.Advance(time.Duration(dt * float64(time.Second)))
	for _, sp := range e.stage.Sprites() {
		if e.sprites[sp.Name] == nil {
			e.newSpriteView(sp)
			e.rebuildSpriteList()
		}
		e.syncSprite(sp)
	}
	e.status.SetLabel(e.statusText())
}

func (e *Editor) statusText() string {
	if !e.engine.Running() {
		return "stopped"
	}
	return fmt.Sprintf("running: %d threads", len(e.engine.Threads()))
}

// onEngineEvent flashes the hat block of each thread that starts.
func (e *Editor) onEngineEvent(ev engine.Event) {
	if ev.Kind == engine.EventThreadStarted {
		if m := e.blockMorphs[ev.Hat]; m != nil {
			base := m.Color
			if b := e.graph.Block(ev.Hat); b != nil {
				base = blockColor(b)
			}
			e.world.StopTweens(m)
			m.Color = ColorWhite
			e.world.AddTween(TweenColor(m, base, flashTweenSecs, ease.OutQuad))
		}
	}
	if e.sink != nil {
		e.sink(ev)
	}
}
