package jade

// syntheticEvent is one queued input event. Pointer events use world
// coordinates. A key event carries a key name or a typed string.
type syntheticEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
	key     string
	text    string
}

func (e syntheticEvent) isKey() bool {
	return e.key != "" || e.text != ""
}

// InjectPress queues a left-button press at (x, y). Each queued event is
// consumed by one Update.
func (w *World) InjectPress(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move with the button held. Use it between InjectPress
// and InjectRelease to simulate a drag.
func (w *World) InjectMove(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (w *World) InjectRelease(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (w *World) InjectClick(x, y float64) {
	w.InjectPress(x, y)
	w.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (w *World) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		w.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	w.InjectRelease(toX, toY)
}

// InjectKey queues a named key press ("space", "a", "up arrow").
func (w *World) InjectKey(name string) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{key: name})
}

// InjectText queues typed characters, delivered in one frame.
func (w *World) InjectText(s string) {
	if s == "" {
		return
	}
	w.injectQueue = append(w.injectQueue, syntheticEvent{text: s})
}

// Pending returns the number of queued synthetic events.
func (w *World) Pending() int {
	return len(w.injectQueue)
}

// processInjectedInput pops one event and dispatches it. It reports whether
// a pointer event was consumed, in which case the real mouse is skipped.
func (w *World) processInjectedInput(mods KeyModifiers) bool {
	if len(w.injectQueue) == 0 {
		return false
	}
	evt := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	if evt.isKey() {
		if evt.key != "" {
			w.fireKey(KeyContext{Name: evt.key, Modifiers: mods})
		}
		for _, r := range evt.text {
			w.fireKey(KeyContext{Char: r, Modifiers: mods})
		}
		return false
	}
	w.processPointer(0, evt.x, evt.y, evt.pressed, evt.button, mods)
	return true
}
