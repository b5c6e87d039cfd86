// Package jade is a Scratch-style block editor built on [Ebitengine].
//
// The root package holds the editor's morph scene graph and the [Editor]
// screen. The language itself lives in sub-packages:
//
//   - blocks: the block catalog, the block graph with drop-to-snap, and the
//     extractor that turns hat-rooted chains into scripts.
//   - engine: sprites, the cooperative thread scheduler on a virtual clock,
//     the command interpreter and the broadcast bus.
//   - blocktext, project, tuning: a textual script format, TOML project
//     manifests and YAML tuning files.
//   - ecs: Donburi adapters for interaction and engine events.
//
// # Quick start
//
//	g := blocks.NewGraph()
//	stage, _ := engine.NewStage(engine.NewSprite("Sprite1", 0, 0))
//	ed := jade.NewEditor(g, stage, jade.EditorConfig{})
//	if err := ed.Run(jade.RunConfig{Title: "jade"}); err != nil {
//		log.Fatal(err)
//	}
//
// # Morphs
//
// Every visible element is a [Morph]. Morphs form a tree rooted at
// [World.Root]; children inherit their parent's transform and alpha. Create
// them with [NewContainer], [NewBox], [NewLabel] and [NewDisc].
//
//	btn := jade.NewBox("start", 80, 26, jade.RGB(0x3cb043))
//	btn.SetLabel("Start")
//	btn.OnClick = func(jade.ClickContext) { eng.Start() }
//	world.Root().AddChild(btn)
//
// # Input
//
// [World.Update] runs a pointer state machine for the mouse and up to nine
// touches, producing pointer down/up/move, enter/leave, click and drag
// events on the topmost interactable morph. Handlers can be set per morph
// (Morph.OnDragEnd) or for the whole world ([World.OnDragEnd]); world
// handlers run first. Key presses arrive through [World.OnKey].
//
// Input can be injected for tests and replays with [World.InjectClick],
// [World.InjectDrag] and [World.InjectKey], or scripted frame by frame with
// a YAML [TestRunner].
//
// # Tweens
//
// [TweenPosition], [TweenColor] and [TweenAlpha] wrap [gween] and animate
// morph fields. Hand a group to [World.AddTween] to have it advanced every
// frame.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package jade
