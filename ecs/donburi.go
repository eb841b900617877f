package ecs

import (
	"github.com/phanxgames/lumina"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NoteEventType is the Donburi event type for accepted note-on and note-off
// events.
var NoteEventType = events.NewEventType[lumina.NoteEvent]()

// FrameEventType is the Donburi event type for per-frame reports. Use the
// Active flag to drive idle behaviour in your systems.
var FrameEventType = events.NewEventType[lumina.FrameReport]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to NoteEventType and FrameEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) lumina.EventSink {
	return &donburiSink{world: world}
}

// EmitNote publishes event to NoteEvents.
func (s *donburiSink) EmitNote(event lumina.NoteEvent) {
	NoteEventType.Publish(s.world, event)
}

// EmitFrame publishes report to FrameEvents.
func (s *donburiSink) EmitFrame(report lumina.FrameReport) {
	FrameEventType.Publish(s.world, report)
}
