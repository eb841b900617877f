package lumina

import "testing"

// drain processes injected events until the queue is empty and returns the
// number of frames consumed.
func drain(s *Scene) int {
	frames := 0
	for s.processInjectedNotes() {
		frames++
	}
	return frames
}

func TestInjectNoteOnOff(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.InjectNoteOn(ChannelTriangle, 60, 100)
	if s.Notes().Count() != 0 {
		t.Fatal("injected note applied before processing")
	}
	if !s.processInjectedNotes() {
		t.Fatal("processInjectedNotes = false with a queued note")
	}
	if got := s.Notes().Notes(ChannelTriangle); len(got) != 1 || got[0].Pitch != 60 {
		t.Fatalf("notes = %v", got)
	}

	s.InjectNoteOff(ChannelTriangle, 60)
	if frames := drain(s); frames != 1 {
		t.Errorf("note-off consumed %d frames, want 1", frames)
	}
	if s.Notes().Count() != 0 {
		t.Error("note still sounding")
	}
	if s.processInjectedNotes() {
		t.Error("processInjectedNotes = true on an empty queue")
	}
}

func TestInjectChord(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.InjectChord(ChannelPolygon, []int{60, 64, 67}, 90, 3)

	s.processInjectedNotes()
	if n := len(s.Notes().Notes(ChannelPolygon)); n != 3 {
		t.Fatalf("chord notes after first frame = %d, want 3", n)
	}
	s.processInjectedNotes()
	if n := len(s.Notes().Notes(ChannelPolygon)); n != 3 {
		t.Errorf("chord notes while held = %d, want 3", n)
	}
	s.processInjectedNotes()
	if n := s.Notes().Count(); n != 0 {
		t.Errorf("notes after release = %d, want 0", n)
	}
	if len(s.injectQueue) != 0 {
		t.Errorf("queue = %d events, want empty", len(s.injectQueue))
	}
}

func TestInjectChordMinimumFrames(t *testing.T) {
	tests := []struct {
		frames, want int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{5, 5},
	}
	for _, tt := range tests {
		s, _, _ := newTestScene(t)
		s.InjectChord(ChannelGrid, []int{60}, 100, tt.frames)
		if got := drain(s); got != tt.want {
			t.Errorf("InjectChord(frames=%d) consumed %d frames, want %d", tt.frames, got, tt.want)
		}
	}
}

func TestInjectTap(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.InjectTap(ChannelBars, 72, 127, 4)
	s.processInjectedNotes()
	notes := s.Notes().Notes(ChannelBars)
	if len(notes) != 1 || notes[0].Pitch != 72 || notes[0].Velocity != 1 {
		t.Fatalf("notes = %v", notes)
	}
	if got := drain(s); got != 3 {
		t.Errorf("remaining frames = %d, want 3", got)
	}
	if s.Notes().Count() != 0 {
		t.Error("tap not released")
	}
}

func TestInjectRun(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"ascending", 60, 64},
		{"descending", 64, 60},
		{"single", 60, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestScene(t)
			s.InjectRun(ChannelOrbit, tt.from, tt.to, 100)

			step := 1
			if tt.to < tt.from {
				step = -1
			}
			for p := tt.from; ; p += step {
				s.processInjectedNotes()
				notes := s.Notes().Notes(ChannelOrbit)
				if len(notes) != 1 || notes[0].Pitch != p {
					t.Fatalf("at pitch %d notes = %v, want exactly %d", p, notes, p)
				}
				if p == tt.to {
					break
				}
			}
			if !s.processInjectedNotes() {
				t.Fatal("final release frame missing")
			}
			if s.Notes().Count() != 0 {
				t.Error("last note of the run not released")
			}
			if s.processInjectedNotes() {
				t.Error("run consumed more frames than expected")
			}
		})
	}
}

func TestInjectBroadcast(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.InjectNoteOn("", 60, 100)
	s.processInjectedNotes()
	chs := Channels(s.Layers())
	if n := s.Notes().Count(); n != len(chs) {
		t.Errorf("broadcast notes = %d, want %d", n, len(chs))
	}

	s.InjectAllOff()
	s.processInjectedNotes()
	if n := s.Notes().Count(); n != 0 {
		t.Errorf("notes after all-off = %d, want 0", n)
	}
}

func TestInjectedNotesAppliedByUpdate(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.InjectTap(ChannelPulse, 60, 100, 2)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Notes().Count() != 1 {
		t.Errorf("notes after Update = %d, want 1", s.Notes().Count())
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Notes().Count() != 0 {
		t.Errorf("notes after second Update = %d, want 0", s.Notes().Count())
	}
}
