package engine

import (
	"time"

	"github.com/phanxgames/jade/blocks"
)

// EventKind classifies engine events.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventStop
	EventThreadStarted
	EventThreadFinished
	EventThreadStopped
	EventCommand
	EventBroadcast
)

var eventNames = [...]string{"start", "stop", "thread-started", "thread-finished", "thread-stopped", "command", "broadcast"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a notification about engine activity. Fields that do not apply
// to the kind are zero.
type Event struct {
	Kind   EventKind
	Time   time.Duration
	Thread ThreadID
	Sprite string
	// Hat is the script's hat block for EventThreadStarted.
	Hat     blocks.BlockID
	Op      blocks.Opcode
	Args    []string
	Message string
	// Count is the number of threads spawned by EventStart and
	// EventBroadcast.
	Count int
}

// EventSink receives engine events synchronously, on the goroutine driving
// the engine.
type EventSink func(Event)
