package lumina

import (
	"sync"
	"testing"
	"time"
)

func TestNoteOnIdempotent(t *testing.T) {
	clk := &ManualClock{}
	s := NewNoteStore(clk)

	if !s.NoteOn("ch", 60, 100) {
		t.Fatal("first NoteOn should insert")
	}
	clk.Advance(0.25)
	if s.NoteOn("ch", 60, 20) {
		t.Error("second NoteOn for a sounding pitch should be ignored")
	}

	notes := s.Notes("ch")
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
	if notes[0].Timestamp != 0 {
		t.Errorf("Timestamp = %v, want 0 (not refreshed)", notes[0].Timestamp)
	}
	assertNear(t, "Velocity", notes[0].Velocity, 100.0/127)
}

func TestNoteOnVelocityNormalized(t *testing.T) {
	tests := []struct {
		raw  int
		want float64
	}{
		{0, 0},
		{127, 1},
		{200, 1},
		{-5, 0},
		{64, 64.0 / 127},
	}
	for _, tt := range tests {
		s := NewNoteStore(&ManualClock{})
		s.NoteOn("ch", 60, tt.raw)
		got := s.Notes("ch")[0].Velocity
		assertNear(t, "velocity", got, tt.want)
	}
}

func TestNoteOnRejectsOutOfRangePitch(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	for _, p := range []int{-1, 128} {
		if s.NoteOn("ch", p, 100) {
			t.Errorf("NoteOn(pitch=%d) inserted, want rejected", p)
		}
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestChannelsIndependent(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	s.NoteOn("a", 60, 100)
	s.NoteOn("b", 60, 100)
	s.NoteOff("a", 60)

	if got := len(s.Notes("a")); got != 0 {
		t.Errorf("len(a) = %d, want 0", got)
	}
	if got := len(s.Notes("b")); got != 1 {
		t.Errorf("len(b) = %d, want 1", got)
	}
}

func TestNoteOffRemovesAndKeepsOrder(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	for _, p := range []int{60, 64, 67} {
		s.NoteOn("ch", p, 100)
	}
	if !s.NoteOff("ch", 64) {
		t.Fatal("NoteOff(64) = false, want true")
	}
	if s.NoteOff("ch", 64) {
		t.Error("second NoteOff(64) = true, want false")
	}
	if s.NoteOff("missing", 60) {
		t.Error("NoteOff on unknown channel = true, want false")
	}

	notes := s.Notes("ch")
	if len(notes) != 2 || notes[0].Pitch != 60 || notes[1].Pitch != 67 {
		t.Errorf("notes = %+v, want pitches [60 67]", notes)
	}
}

func TestCleanupOldNotes(t *testing.T) {
	clk := &ManualClock{}
	s := NewNoteStore(clk)
	maxAge := 2000 * time.Millisecond

	s.NoteOn("ch", 60, 100) // t = 0
	clk.Set(2.001)
	s.NoteOn("ch", 62, 100) // t = now

	if n := s.CleanupOldNotes(maxAge); n != 1 {
		t.Errorf("evicted = %d, want 1", n)
	}
	notes := s.Notes("ch")
	if len(notes) != 1 || notes[0].Pitch != 62 {
		t.Errorf("notes = %+v, want only pitch 62", notes)
	}
}

func TestCleanupOldNotesBoundaryIsInclusive(t *testing.T) {
	clk := &ManualClock{}
	s := NewNoteStore(clk)
	s.NoteOn("ch", 60, 100)
	clk.Set(2)
	s.CleanupOldNotes(2 * time.Second)
	if s.Count() != 0 {
		t.Errorf("note aged exactly maxAge should be evicted, Count() = %d", s.Count())
	}
}

func TestActiveNotesIsSnapshot(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	s.NoteOn("ch", 60, 100)

	snap := s.ActiveNotes()
	s.NoteOn("ch", 61, 100)
	s.NoteOff("ch", 60)

	if len(snap["ch"]) != 1 || snap["ch"][0].Pitch != 60 {
		t.Errorf("snapshot changed after mutation: %+v", snap["ch"])
	}
	if _, ok := snap["unknown"]; ok {
		t.Error("snapshot has entry for unknown channel")
	}
	if got := s.Notes("unknown"); len(got) != 0 {
		t.Errorf("Notes(unknown) = %v, want empty", got)
	}
}

func TestNoteStoreClear(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	s.NoteOn("a", 60, 100)
	s.NoteOn("b", 61, 100)
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestNoteStoreConcurrentIngest(t *testing.T) {
	s := NewNoteStore(&ManualClock{})
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 0; p < 128; p++ {
				s.NoteOn("ch", p, 100)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		_ = s.ActiveNotes()
	}
	wg.Wait()
	if got := s.Count(); got != 128 {
		t.Errorf("Count() = %d, want 128", got)
	}
}
