package lumina

type syntheticKind uint8

const (
	syntheticOn syntheticKind = iota
	syntheticOff
	syntheticAllOff
	syntheticFrame // ends the events applied in one frame
)

// syntheticNote is a single injected note event, applied on the frame
// goroutine like a note from the MIDI listener. An empty channel broadcasts
// to every luminode channel.
type syntheticNote struct {
	kind     syntheticKind
	channel  string
	pitch    int
	velocity int
}

func (s *Scene) inject(events ...syntheticNote) {
	s.injectQueue = append(s.injectQueue, events...)
}

func (s *Scene) injectFrames(n int) {
	for range n {
		s.inject(syntheticNote{kind: syntheticFrame})
	}
}

// InjectNoteOn queues a note-on, consumed on the next Update.
func (s *Scene) InjectNoteOn(channel string, pitch, velocity int) {
	s.inject(syntheticNote{kind: syntheticOn, channel: channel, pitch: pitch, velocity: velocity})
	s.injectFrames(1)
}

// InjectNoteOff queues a note-off.
func (s *Scene) InjectNoteOff(channel string, pitch int) {
	s.inject(syntheticNote{kind: syntheticOff, channel: channel, pitch: pitch})
	s.injectFrames(1)
}

// InjectAllOff queues a release of every sounding note.
func (s *Scene) InjectAllOff() {
	s.inject(syntheticNote{kind: syntheticAllOff})
	s.injectFrames(1)
}

// InjectChord queues every pitch as note-ons in one frame and releases them
// together after frames frames. Minimum frames is 2 (on + off).
func (s *Scene) InjectChord(channel string, pitches []int, velocity, frames int) {
	if frames < 2 {
		frames = 2
	}
	for _, p := range pitches {
		s.inject(syntheticNote{kind: syntheticOn, channel: channel, pitch: p, velocity: velocity})
	}
	s.injectFrames(frames - 1)
	for _, p := range pitches {
		s.inject(syntheticNote{kind: syntheticOff, channel: channel, pitch: p})
	}
	s.injectFrames(1)
}

// InjectTap is a convenience that queues a single-note chord.
func (s *Scene) InjectTap(channel string, pitch, velocity, frames int) {
	s.InjectChord(channel, []int{pitch}, velocity, frames)
}

// InjectRun queues one note per frame from pitch from to pitch to, each
// released as the next one starts. The run consumes |to-from|+2 frames.
func (s *Scene) InjectRun(channel string, from, to, velocity int) {
	step := 1
	if to < from {
		step = -1
	}
	for p := from; ; p += step {
		if p != from {
			s.inject(syntheticNote{kind: syntheticOff, channel: channel, pitch: p - step})
		}
		s.inject(syntheticNote{kind: syntheticOn, channel: channel, pitch: p, velocity: velocity})
		s.injectFrames(1)
		if p == to {
			break
		}
	}
	s.InjectNoteOff(channel, to)
}

// processInjectedNotes applies queued events up to the next frame boundary.
// Returns true if an event was consumed (including an empty hold frame).
func (s *Scene) processInjectedNotes() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	n := 0
	for n < len(s.injectQueue) {
		evt := s.injectQueue[n]
		n++
		if evt.kind == syntheticFrame {
			break
		}
		s.applySynthetic(evt)
	}
	copy(s.injectQueue, s.injectQueue[n:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-n]
	return true
}

func (s *Scene) applySynthetic(evt syntheticNote) {
	switch evt.kind {
	case syntheticAllOff:
		s.AllNotesOff()
	case syntheticOn:
		for _, ch := range s.injectTargets(evt.channel) {
			s.NoteOn(ch, evt.pitch, evt.velocity)
		}
	case syntheticOff:
		for _, ch := range s.injectTargets(evt.channel) {
			s.NoteOff(ch, evt.pitch)
		}
	}
}

func (s *Scene) injectTargets(channel string) []string {
	if channel == "" {
		return Channels(s.layers)
	}
	return []string{channel}
}
