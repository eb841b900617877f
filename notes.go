package lumina

import (
	"sync"
	"time"
)

// MaxRawVelocity is the largest velocity a note source delivers. Raw
// velocities are divided by it before storage.
const MaxRawVelocity = 127

// Note is a sounding note. Notes are immutable once created.
type Note struct {
	Pitch    int
	Velocity float64 // normalized to [0, 1]
	// Timestamp is the creation time in seconds on the store's Clock.
	Timestamp float64
}

// Age returns how long the note has been sounding at time t.
func (n Note) Age(t float64) float64 {
	return t - n.Timestamp
}

// NoteStore holds the currently sounding notes for each named channel, in
// insertion order. At most one note per (channel, pitch) exists at a time.
//
// Note sources may call NoteOn and NoteOff from their own goroutines; every
// mutation happens under the store's lock, so a frame reading ActiveNotes
// never observes a half-applied insert or removal.
type NoteStore struct {
	mu       sync.Mutex
	channels map[string][]Note
	clock    Clock
}

// NewNoteStore creates an empty store timestamping notes with clock.
func NewNoteStore(clock Clock) *NoteStore {
	if clock == nil {
		clock = NewWallClock()
	}
	return &NoteStore{
		channels: make(map[string][]Note),
		clock:    clock,
	}
}

// NoteOn inserts a note unless the pitch already sounds on channel. A repeated
// note-on is ignored rather than refreshed. Pitches outside 0-127 are dropped.
// It reports whether a note was inserted.
func (s *NoteStore) NoteOn(channel string, pitch, rawVelocity int) bool {
	if pitch < 0 || pitch > 127 {
		return false
	}
	vel := clamp01(float64(rawVelocity) / MaxRawVelocity)

	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.channels[channel]
	for _, n := range notes {
		if n.Pitch == pitch {
			return false
		}
	}
	s.channels[channel] = append(notes, Note{
		Pitch:     pitch,
		Velocity:  vel,
		Timestamp: s.clock.Seconds(),
	})
	return true
}

// NoteOff removes the first note with the given pitch on channel. It reports
// whether a note was removed.
func (s *NoteStore) NoteOff(channel string, pitch int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.channels[channel]
	for i, n := range notes {
		if n.Pitch == pitch {
			s.channels[channel] = append(notes[:i:i], notes[i+1:]...)
			return true
		}
	}
	return false
}

// CleanupOldNotes drops every note whose age is at least maxAge, on every
// channel. It returns the number of evicted notes.
func (s *NoteStore) CleanupOldNotes(maxAge time.Duration) int {
	now := s.clock.Seconds()
	limit := maxAge.Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for ch, notes := range s.channels {
		kept := notes[:0]
		for _, n := range notes {
			if now-n.Timestamp >= limit {
				evicted++
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) == 0 {
			delete(s.channels, ch)
			continue
		}
		s.channels[ch] = kept
	}
	return evicted
}

// ActiveNotes returns a snapshot of every non-empty channel. The returned
// slices are copies; callers may keep them for the duration of a frame.
func (s *NoteStore) ActiveNotes() map[string][]Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]Note, len(s.channels))
	for ch, notes := range s.channels {
		if len(notes) == 0 {
			continue
		}
		out[ch] = append([]Note(nil), notes...)
	}
	return out
}

// Notes returns a copy of the notes on one channel. Unknown channels yield an
// empty slice.
func (s *NoteStore) Notes(channel string) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Note(nil), s.channels[channel]...)
}

// Count returns the number of sounding notes across all channels.
func (s *NoteStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, notes := range s.channels {
		n += len(notes)
	}
	return n
}

// Clear removes every note on every channel (all-notes-off).
func (s *NoteStore) Clear() {
	s.mu.Lock()
	s.channels = make(map[string][]Note)
	s.mu.Unlock()
}
