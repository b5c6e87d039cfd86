// Package ecs provides ECS adapters for jade.
package ecs

import (
	"github.com/phanxgames/jade"
	"github.com/phanxgames/jade/engine"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for editor interaction
// events. Subscribe to this in your ECS systems to receive pointer, drag and
// key events.
var InteractionEventType = events.NewEventType[jade.InteractionEvent]()

// EngineEventType is the Donburi event type for script engine events:
// start, stop, thread lifecycle, executed commands and broadcasts.
var EngineEventType = events.NewEventType[engine.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) jade.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event jade.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// NewEngineSink returns an engine.EventSink that publishes every engine
// event to EngineEventType in world. Events are queued until ProcessEvents.
func NewEngineSink(world donburi.World) engine.EventSink {
	return func(ev engine.Event) {
		EngineEventType.Publish(world, ev)
	}
}
