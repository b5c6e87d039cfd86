package engine

import "github.com/phanxgames/jade/blocks"

// Broadcast spawns a thread for every "when I receive" hat on the stage
// whose message equals msg exactly, over the chain currently connected
// beneath it. It returns the number of threads spawned; with no listener,
// or while stopped, it does nothing.
func (e *Engine) Broadcast(msg string) int {
	if !e.running {
		return 0
	}
	e.stats.Broadcasts++
	n := 0
	for _, b := range e.graph.Blocks() {
		if b.Palette || b.Op != blocks.OpWhenIReceive {
			continue
		}
		if len(b.Inputs) == 0 || b.Inputs[0].Value != msg {
			continue
		}
		sp := e.stage.Sprite(b.Sprite)
		if sp == nil {
			continue
		}
		sc, ok := blocks.ScriptFor(e.graph, b.ID)
		if ok && e.spawn(sp, sc) != nil {
			n++
		}
	}
	log.Infof("broadcast %q: %d listener(s)", msg, n)
	e.emit(Event{Kind: EventBroadcast, Message: msg, Count: n})
	return n
}
