package jade

import (
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Per-pointer state ---

type pointerState struct {
	down       bool
	startX     float64
	startY     float64
	lastX      float64
	lastY      float64
	hitMorph   *Morph
	hoverMorph *Morph
	dragging   bool
	button     MouseButton // button captured at press time
}

// --- Handler registry ---

type handler[C any] struct {
	id uint32
	fn func(C)
}

type handlerList[C any] []handler[C]

func (l *handlerList[C]) add(id uint32, fn func(C)) {
	*l = append(*l, handler[C]{id: id, fn: fn})
}

func (l *handlerList[C]) remove(id uint32) {
	s := *l
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[C]{}
			*l = s[:len(s)-1]
			return
		}
	}
}

func (l handlerList[C]) fire(ctx C) {
	for _, h := range l {
		h.fn(ctx)
	}
}

type handlerRegistry struct {
	pointerDown  handlerList[PointerContext]
	pointerUp    handlerList[PointerContext]
	pointerMove  handlerList[PointerContext]
	pointerEnter handlerList[PointerContext]
	pointerLeave handlerList[PointerContext]
	click        handlerList[ClickContext]
	dragStart    handlerList[DragContext]
	drag         handlerList[DragContext]
	dragEnd      handlerList[DragContext]
	key          handlerList[KeyContext]
	nextID       uint32
}

func (r *handlerRegistry) pointerList(event EventType) *handlerList[PointerContext] {
	switch event {
	case EventPointerDown:
		return &r.pointerDown
	case EventPointerUp:
		return &r.pointerUp
	case EventPointerMove:
		return &r.pointerMove
	case EventPointerEnter:
		return &r.pointerEnter
	case EventPointerLeave:
		return &r.pointerLeave
	}
	return nil
}

func (r *handlerRegistry) dragList(event EventType) *handlerList[DragContext] {
	switch event {
	case EventDragStart:
		return &r.dragStart
	case EventDrag:
		return &r.drag
	case EventDragEnd:
		return &r.dragEnd
	}
	return nil
}

// CallbackHandle allows removing a registered world-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventClick:
		h.reg.click.remove(h.id)
	case EventKey:
		h.reg.key.remove(h.id)
	case EventDragStart, EventDrag, EventDragEnd:
		h.reg.dragList(h.event).remove(h.id)
	default:
		h.reg.pointerList(h.event).remove(h.id)
	}
}

// --- World-level event registration ---

func (w *World) onPointer(event EventType, fn func(PointerContext)) CallbackHandle {
	w.handlers.nextID++
	w.handlers.pointerList(event).add(w.handlers.nextID, fn)
	return CallbackHandle{id: w.handlers.nextID, reg: &w.handlers, event: event}
}

func (w *World) onDrag(event EventType, fn func(DragContext)) CallbackHandle {
	w.handlers.nextID++
	w.handlers.dragList(event).add(w.handlers.nextID, fn)
	return CallbackHandle{id: w.handlers.nextID, reg: &w.handlers, event: event}
}

// OnPointerDown registers a world-level callback for pointer down events.
func (w *World) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return w.onPointer(EventPointerDown, fn)
}

// OnPointerUp registers a world-level callback for pointer up events.
func (w *World) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return w.onPointer(EventPointerUp, fn)
}

// OnPointerMove registers a world-level callback for hover moves.
func (w *World) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return w.onPointer(EventPointerMove, fn)
}

// OnPointerEnter registers a world-level callback fired when the pointer
// moves over a new morph.
func (w *World) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return w.onPointer(EventPointerEnter, fn)
}

// OnPointerLeave registers a world-level callback fired when the pointer
// leaves a morph.
func (w *World) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return w.onPointer(EventPointerLeave, fn)
}

// OnClick registers a world-level callback for click events.
func (w *World) OnClick(fn func(ClickContext)) CallbackHandle {
	w.handlers.nextID++
	w.handlers.click.add(w.handlers.nextID, fn)
	return CallbackHandle{id: w.handlers.nextID, reg: &w.handlers, event: EventClick}
}

// OnDragStart registers a world-level callback for drag start events.
func (w *World) OnDragStart(fn func(DragContext)) CallbackHandle {
	return w.onDrag(EventDragStart, fn)
}

// OnDrag registers a world-level callback for drag events.
func (w *World) OnDrag(fn func(DragContext)) CallbackHandle {
	return w.onDrag(EventDrag, fn)
}

// OnDragEnd registers a world-level callback for drag end events. Drag end
// is also delivered for touch releases.
func (w *World) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return w.onDrag(EventDragEnd, fn)
}

// OnKey registers a callback for key presses and typed characters. Each
// event carries either a Name or a Char, never both.
func (w *World) OnKey(fn func(KeyContext)) CallbackHandle {
	w.handlers.nextID++
	w.handlers.key.add(w.handlers.nextID, fn)
	return CallbackHandle{id: w.handlers.nextID, reg: &w.handlers, event: EventKey}
}

// CapturePointer routes all events for pointerID to the given morph.
func (w *World) CapturePointer(pointerID int, m *Morph) {
	if pointerID >= 0 && pointerID < maxPointers {
		w.captured[pointerID] = m
	}
}

// ReleasePointer stops routing events for pointerID to a captured morph.
func (w *World) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		w.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (w *World) SetDragDeadZone(pixels float64) {
	w.dragDeadZone = pixels
}

// --- Hit testing ---

// morphContainsLocal tests (lx, ly) against the morph's HitShape, or its
// Width x Height box. Containers without a HitShape are never hit.
func morphContainsLocal(m *Morph, lx, ly float64) bool {
	if m.HitShape != nil {
		return m.HitShape.Contains(lx, ly)
	}
	if m.Kind == MorphContainer || (m.Width == 0 && m.Height == 0) {
		return false
	}
	return lx >= 0 && lx <= m.Width && ly >= 0 && ly <= m.Height
}

// collectInteractable appends hit-testable morphs to buf in painter order,
// skipping invisible or non-interactable subtrees.
func collectInteractable(m *Morph, buf []*Morph) []*Morph {
	if !m.Visible || !m.Interactable {
		return buf
	}
	if m.HitShape != nil || m.Kind != MorphContainer {
		buf = append(buf, m)
	}
	for _, child := range m.sortedKids() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// HitTest returns the topmost interactable morph at (x, y), or nil.
func (w *World) HitTest(x, y float64) *Morph {
	w.hitBuf = collectInteractable(w.root, w.hitBuf[:0])
	for i := len(w.hitBuf) - 1; i >= 0; i-- {
		m := w.hitBuf[i]
		lx, ly := m.WorldToLocal(x, y)
		if morphContainsLocal(m, lx, ly) {
			return m
		}
	}
	return nil
}

// --- Input processing ---

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput handles keyboard, injected and device pointer input. An
// injected pointer event replaces the mouse for that frame.
func (w *World) processInput() {
	var mods KeyModifiers
	if !w.IgnoreDevices {
		mods = readModifiers()
		w.processKeys(mods)
	}
	if w.processInjectedInput(mods) {
		return
	}
	if w.IgnoreDevices {
		return
	}
	w.processMousePointer(mods)
	w.processTouchPointers(mods)
}

func (w *World) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	w.processPointer(0, float64(mx), float64(my), pressed, button, mods)
}

// processTouchPointers maps touches onto pointers 1-9.
func (w *World) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(w.prevTouchIDs[:0])
	w.prevTouchIDs = touchIDs

	var active [maxPointers]bool
	for _, tid := range touchIDs {
		slot := w.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		w.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft, mods)
	}

	for i := 1; i < maxPointers; i++ {
		if w.touchUsed[i] && !active[i] {
			ps := &w.pointers[i]
			if ps.down {
				w.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, mods)
			}
			w.touchUsed[i] = false
			w.touchMap[i] = 0
		}
	}
}

// touchSlot returns the pointer slot for tid, allocating one if needed.
// Returns -1 when all slots are in use.
func (w *World) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if w.touchUsed[i] && w.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !w.touchUsed[i] {
			w.touchUsed[i] = true
			w.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer.
func (w *World) processPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &w.pointers[pointerID]

	target := w.captured[pointerID]
	if target == nil {
		target = w.HitTest(wx, wy)
	}

	if target != ps.hoverMorph {
		if ps.hoverMorph != nil {
			w.firePointer(EventPointerLeave, ps.hoverMorph, pointerID, wx, wy, button, mods)
		}
		if target != nil {
			w.firePointer(EventPointerEnter, target, pointerID, wx, wy, button, mods)
		}
		ps.hoverMorph = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hitMorph = target
		ps.dragging = false
		w.firePointer(EventPointerDown, target, pointerID, wx, wy, ps.button, mods)

	case !pressed && ps.down:
		if ps.dragging {
			w.fireDrag(EventDragEnd, ps.hitMorph, pointerID, wx, wy, ps.startX, ps.startY,
				wx-ps.lastX, wy-ps.lastY, ps.button, mods)
		} else if ps.hitMorph != nil && ps.hitMorph == target {
			w.fireClick(target, pointerID, wx, wy, ps.button, mods)
		}
		w.firePointer(EventPointerUp, target, pointerID, wx, wy, ps.button, mods)

		w.captured[pointerID] = nil
		ps.down = false
		ps.hitMorph = nil
		ps.dragging = false

	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging && math.Hypot(wx-ps.startX, wy-ps.startY) > w.dragDeadZone {
				ps.dragging = true
				w.fireDrag(EventDragStart, ps.hitMorph, pointerID, wx, wy, ps.startX, ps.startY,
					wx-ps.startX, wy-ps.startY, ps.button, mods)
			}
			if ps.dragging {
				w.fireDrag(EventDrag, ps.hitMorph, pointerID, wx, wy, ps.startX, ps.startY,
					wx-ps.lastX, wy-ps.lastY, ps.button, mods)
			}
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		if wx != ps.lastX || wy != ps.lastY {
			w.firePointer(EventPointerMove, target, pointerID, wx, wy, button, mods)
			ps.lastX, ps.lastY = wx, wy
		}
	}
}

// --- Keyboard ---

// processKeys fires one named event per newly pressed key, then one event
// per typed character.
func (w *World) processKeys(mods KeyModifiers) {
	w.keyBuf = inpututil.AppendJustPressedKeys(w.keyBuf[:0])
	for _, k := range w.keyBuf {
		if name := KeyName(k); name != "" {
			w.fireKey(KeyContext{Name: name, Modifiers: mods})
		}
	}
	w.charBuf = ebiten.AppendInputChars(w.charBuf[:0])
	for _, r := range w.charBuf {
		w.fireKey(KeyContext{Char: r, Modifiers: mods})
	}
}

// KeyName returns the lower-case name a "when [] key pressed" hat matches
// for k, or "" for modifier keys.
func KeyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeySpace:
		return "space"
	case ebiten.KeyArrowUp:
		return "up arrow"
	case ebiten.KeyArrowDown:
		return "down arrow"
	case ebiten.KeyArrowLeft:
		return "left arrow"
	case ebiten.KeyArrowRight:
		return "right arrow"
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
		ebiten.KeyControlLeft, ebiten.KeyControlRight,
		ebiten.KeyAltLeft, ebiten.KeyAltRight,
		ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return ""
	}
	name := k.String()
	if d, ok := strings.CutPrefix(name, "Digit"); ok && len(d) == 1 {
		return d
	}
	return strings.ToLower(name)
}

// --- Event dispatch ---

func (w *World) firePointer(event EventType, m *Morph, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) {
	ctx := PointerContext{
		Morph: m, GlobalX: wx, GlobalY: wy,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if m != nil {
		ctx.LocalX, ctx.LocalY = m.WorldToLocal(wx, wy)
		ctx.EntityID, ctx.UserData = m.EntityID, m.UserData
	}
	w.handlers.pointerList(event).fire(ctx)
	if m != nil {
		var cb func(PointerContext)
		switch event {
		case EventPointerDown:
			cb = m.OnPointerDown
		case EventPointerUp:
			cb = m.OnPointerUp
		case EventPointerMove:
			cb = m.OnPointerMove
		case EventPointerEnter:
			cb = m.OnPointerEnter
		case EventPointerLeave:
			cb = m.OnPointerLeave
		}
		if cb != nil {
			cb(ctx)
		}
	}
	w.emitInteractionEvent(InteractionEvent{
		Type: event, EntityID: ctx.EntityID,
		GlobalX: wx, GlobalY: wy, LocalX: ctx.LocalX, LocalY: ctx.LocalY,
		Button: button, Modifiers: mods,
	})
}

func (w *World) fireClick(m *Morph, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) {
	ctx := ClickContext{
		Morph: m, GlobalX: wx, GlobalY: wy,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if m != nil {
		ctx.LocalX, ctx.LocalY = m.WorldToLocal(wx, wy)
		ctx.EntityID, ctx.UserData = m.EntityID, m.UserData
	}
	w.handlers.click.fire(ctx)
	if m != nil && m.OnClick != nil {
		m.OnClick(ctx)
	}
	w.emitInteractionEvent(InteractionEvent{
		Type: EventClick, EntityID: ctx.EntityID,
		GlobalX: wx, GlobalY: wy, LocalX: ctx.LocalX, LocalY: ctx.LocalY,
		Button: button, Modifiers: mods,
	})
}

func (w *World) fireDrag(event EventType, m *Morph, pointerID int, wx, wy, startX, startY, deltaX, deltaY float64, button MouseButton, mods KeyModifiers) {
	ctx := DragContext{
		Morph: m, GlobalX: wx, GlobalY: wy,
		StartX: startX, StartY: startY, DeltaX: deltaX, DeltaY: deltaY,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if m != nil {
		ctx.LocalX, ctx.LocalY = m.WorldToLocal(wx, wy)
		ctx.EntityID, ctx.UserData = m.EntityID, m.UserData
	}
	w.handlers.dragList(event).fire(ctx)
	if m != nil {
		var cb func(DragContext)
		switch event {
		case EventDragStart:
			cb = m.OnDragStart
		case EventDrag:
			cb = m.OnDrag
		case EventDragEnd:
			cb = m.OnDragEnd
		}
		if cb != nil {
			cb(ctx)
		}
	}
	w.emitInteractionEvent(InteractionEvent{
		Type: event, EntityID: ctx.EntityID,
		GlobalX: wx, GlobalY: wy, LocalX: ctx.LocalX, LocalY: ctx.LocalY,
		Button: button, Modifiers: mods,
		StartX: startX, StartY: startY, DeltaX: deltaX, DeltaY: deltaY,
	})
}

func (w *World) fireKey(ctx KeyContext) {
	w.handlers.key.fire(ctx)
	if w.store != nil && ctx.Name != "" {
		w.store.EmitEvent(InteractionEvent{Type: EventKey, Key: ctx.Name, Modifiers: ctx.Modifiers})
	}
}

// --- ECS bridge ---

// emitInteractionEvent forwards pointer events on morphs that carry an
// EntityID.
func (w *World) emitInteractionEvent(ev InteractionEvent) {
	if w.store == nil || ev.EntityID == 0 {
		return
	}
	w.store.EmitEvent(ev)
}
