// Package ecs provides ECS adapters for lumina's event sink.
//
// The primary adapter is [NewDonburiSink], which bridges lumina note and
// frame events into a [Donburi] world as typed events. Subscribe to
// [NoteEventType] or [FrameEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
