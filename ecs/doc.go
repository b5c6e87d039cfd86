// Package ecs provides ECS adapters for jade's editor and script engine.
//
// [NewDonburiStore] bridges editor interaction events (pointer, click, drag,
// key) into a [Donburi] world as typed events. [NewEngineSink] does the same
// for engine events such as thread starts and broadcasts. Subscribe to
// [InteractionEventType] or [EngineEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	world := donburi.NewWorld()
//	ed.World().SetEntityStore(ecs.NewDonburiStore(world))
//	ed.SetEventSink(ecs.NewEngineSink(world))
//
// Block morphs carry their block ID as EntityID, so a click event names the
// block that was clicked.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
