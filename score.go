package lumina

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyScript is returned when a score script has no steps.
var ErrEmptyScript = errors.New("score script has no steps")

// scoreStep represents a single action in a score script.
type scoreStep struct {
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Pitch    int    `json:"pitch,omitempty"`
	Pitches  []int  `json:"pitches,omitempty"`
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Velocity int    `json:"velocity,omitempty"`
	Frames   int    `json:"frames,omitempty"`
}

// scoreScript is the top-level JSON structure for a score script.
type scoreScript struct {
	Steps []scoreStep `json:"steps"`
}

// defaultScoreVelocity is used by steps that omit a velocity.
const defaultScoreVelocity = 100

// ScoreRunner plays injected notes, waits and screenshots across frames for
// automated visual runs. Attach to a Scene via SetScoreRunner.
//
// Supported actions: noteOn, noteOff, chord, tap, run, allOff, wait,
// screenshot. An empty channel broadcasts to every luminode channel.
type ScoreRunner struct {
	steps     []scoreStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScoreScript parses a JSON score script and returns a ScoreRunner ready
// to be attached to a Scene via SetScoreRunner.
func LoadScoreScript(jsonData []byte) (*ScoreRunner, error) {
	var script scoreScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse score script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse score script: %w", ErrEmptyScript)
	}
	for i, st := range script.Steps {
		if !knownScoreAction(st.Action) {
			return nil, fmt.Errorf("parse score script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScoreRunner{steps: script.Steps}, nil
}

// LoadScoreFile reads and parses a score script from path.
func LoadScoreFile(path string) (*ScoreRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score %s: %w", path, err)
	}
	return LoadScoreScript(data)
}

func knownScoreAction(action string) bool {
	switch action {
	case "noteOn", "noteOff", "chord", "tap", "run", "allOff", "wait", "screenshot":
		return true
	}
	return false
}

// SetScoreRunner attaches a ScoreRunner to the scene. The runner's step
// method is called from Scene.Update before injected notes are applied.
func (s *Scene) SetScoreRunner(runner *ScoreRunner) {
	s.runner = runner
}

// Done reports whether all steps in the score have been executed.
func (r *ScoreRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Scene.Update.
func (r *ScoreRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	vel := st.Velocity
	if vel <= 0 {
		vel = defaultScoreVelocity
	}
	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "noteOn":
		s.InjectNoteOn(st.Channel, st.Pitch, vel)
	case "noteOff":
		s.InjectNoteOff(st.Channel, st.Pitch)
	case "chord":
		s.InjectChord(st.Channel, st.Pitches, vel, st.Frames)
	case "tap":
		s.InjectTap(st.Channel, st.Pitch, vel, st.Frames)
	case "run":
		s.InjectRun(st.Channel, st.From, st.To, vel)
	case "allOff":
		s.InjectAllOff()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
