package jade

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a World, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
	// Key is the key name for EventKey.
	Key string
}

// World owns the morph tree, input state, running tweens and the draw list.
type World struct {
	root  *Morph
	store EntityStore
	debug bool

	// Background fills the screen before the tree is drawn.
	Background Color
	// IgnoreDevices turns off mouse, touch and keyboard polling so that only
	// injected input reaches the tree.
	IgnoreDevices bool

	tweens []*TweenGroup
	draws  []drawItem

	handlers     handlerRegistry
	captured     [maxPointers]*Morph
	pointers     [maxPointers]pointerState
	hitBuf       []*Morph
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	keyBuf       []ebiten.Key
	charBuf      []rune

	injectQueue []syntheticEvent
	testRunner  *TestRunner

	frame uint64
	quit  bool
}

// NewWorld creates a world with a pre-created root container.
func NewWorld() *World {
	root := NewContainer("root")
	root.Interactable = true
	return &World{
		root:         root,
		Background:   RGB(0xf0f0f0),
		dragDeadZone: defaultDragDeadZone,
	}
}

// Root returns the world's root container.
func (w *World) Root() *Morph {
	return w.root
}

// Frame returns the number of completed Update calls.
func (w *World) Frame() uint64 {
	return w.frame
}

// Update runs one frame with the frame time derived from ebiten.TPS.
func (w *World) Update() {
	w.UpdateDt(1.0 / float64(ebiten.TPS()))
}

// UpdateDt runs one frame of dt seconds: morph update hooks, tweens, the
// attached test runner and input.
func (w *World) UpdateDt(dt float64) {
	updateWorldTransform(w.root, identityTransform, 1.0, false)
	callUpdateHooks(w.root, dt)
	w.updateTweens(float32(dt))
	updateWorldTransform(w.root, identityTransform, 1.0, false)

	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	w.processInput()
	w.frame++
}

func callUpdateHooks(m *Morph, dt float64) {
	if m.OnUpdate != nil {
		m.OnUpdate(dt)
	}
	for _, child := range m.children {
		callUpdateHooks(child, dt)
	}
}

// Quit asks Run to return after the current frame.
func (w *World) Quit() {
	w.quit = true
}

// SetEntityStore sets the optional ECS bridge.
func (w *World) SetEntityStore(store EntityStore) {
	w.store = store
}

// SetDebugMode enables debug checks and per-frame draw statistics.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
	globalDebug = enabled
}

// globalDebug enables tree checks in AddChild.
var globalDebug bool
