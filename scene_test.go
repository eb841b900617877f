package lumina

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// testConfig returns a validated config on a manual clock that logs nowhere.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Clock = &ManualClock{}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Validate()
	return cfg
}

func newTestScene(t *testing.T) (*Scene, *recordingSurface, *ManualClock) {
	t.Helper()
	cfg := testConfig()
	surf := newRecordingSurface(float64(cfg.Width), float64(cfg.Height))
	return NewSceneOn(cfg, surf), surf, cfg.Clock.(*ManualClock)
}

func layerIndex(t *testing.T, s *Scene, name string) int {
	t.Helper()
	for i, l := range s.Layers() {
		if l.Luminode.Name() == name {
			return i
		}
	}
	t.Fatalf("no layer %q", name)
	return -1
}

// glowStrokes returns the strokes drawn with the scene's glow radius, which
// excludes the idle mark.
func glowStrokes(surf *recordingSurface, radius int) []drawOp {
	var out []drawOp
	for _, op := range surf.ops {
		if op.kind == "stroke" && op.glow == float64(radius) {
			out = append(out, op)
		}
	}
	return out
}

type recordingSink struct {
	notes  []NoteEvent
	frames []FrameReport
}

func (r *recordingSink) EmitNote(e NoteEvent)     { r.notes = append(r.notes, e) }
func (r *recordingSink) EmitFrame(fr FrameReport) { r.frames = append(r.frames, fr) }

// --- Frame ---

func TestFrameReportsActivity(t *testing.T) {
	s, _, _ := newTestScene(t)

	r := s.Frame()
	if r.Active || r.NoteCount != 0 || r.Frame != 0 {
		t.Errorf("silent frame = %+v", r)
	}

	s.NoteOn(ChannelTriangle, 60, 100)
	s.NoteOn(ChannelGrid, 64, 100)
	r = s.Frame()
	if !r.Active || r.NoteCount != 2 || r.Frame != 1 {
		t.Errorf("frame = %+v, want active with 2 notes", r)
	}
	if s.LastReport() != r {
		t.Errorf("LastReport = %+v, want %+v", s.LastReport(), r)
	}
}

func TestFrameFadesFirst(t *testing.T) {
	s, surf, _ := newTestScene(t)
	s.NoteOn(ChannelBars, 60, 100)
	s.Frame()

	if len(surf.ops) == 0 {
		t.Fatal("no ops recorded")
	}
	op := surf.ops[0]
	if op.kind != "fillRect" {
		t.Fatalf("first op = %s, want fillRect", op.kind)
	}
	cfg := s.Config()
	if op.rect != (Rect{0, 0, float64(cfg.Width), float64(cfg.Height)}) {
		t.Errorf("fade rect = %v, want full surface", op.rect)
	}
	if op.color != cfg.Background.WithAlpha(cfg.FadeAlpha) {
		t.Errorf("fade color = %v, want background at %v", op.color, cfg.FadeAlpha)
	}
}

func TestFrameTriangleLifecycle(t *testing.T) {
	s, surf, clk := newTestScene(t)
	radius := s.Config().GlowRadius

	s.NoteOn(ChannelTriangle, 60, 127)
	clk.Set(0.5)
	s.Frame()
	if got := len(glowStrokes(surf, radius)); got != 1 {
		t.Fatalf("triangle strokes at 0.5s = %d, want 1", got)
	}

	// Max age is 2000ms; the note is evicted without a note-off.
	surf.reset()
	clk.Set(3)
	r := s.Frame()
	if r.Active {
		t.Error("frame still active after max age")
	}
	if got := len(glowStrokes(surf, radius)); got != 0 {
		t.Errorf("triangle strokes at 3s = %d, want 0", got)
	}
	if n := s.Notes().Count(); n != 0 {
		t.Errorf("notes = %d after eviction, want 0", n)
	}
}

func TestFrameDrawsOnlyChannelNotes(t *testing.T) {
	s, surf, clk := newTestScene(t)
	s.NoteOn(ChannelPolygon, 60, 100)
	clk.Set(0.1)
	s.Frame()

	// One polygon shape, one stroke per contour layer; nothing else glows.
	want := NewParams(NewPolygon(nil, s.Config()).Params()).Int("layers")
	if got := len(glowStrokes(surf, s.Config().GlowRadius)); got != want {
		t.Errorf("glow strokes = %d, want %d", got, want)
	}
	if len(surf.tiles) != 0 {
		t.Error("stripes drew without notes on its channel")
	}
}

func TestFrameAppliesModulation(t *testing.T) {
	s, surf, clk := newTestScene(t)
	i := layerIndex(t, s, "triangle")
	track := s.Layers()[i].Track

	id, ok := s.Modulation().AddModulator(ModVelocity)
	if !ok {
		t.Fatal("AddModulator failed")
	}
	key, name := "lineWidth", "triangle"
	s.Modulation().UpdateModulator(id, ModulatorUpdate{
		TargetTrack:    &track,
		TargetKey:      &key,
		TargetLuminode: &name,
	})

	s.NoteOn(ChannelTriangle, 60, 127)
	clk.Set(0.25)
	s.Frame()

	strokes := glowStrokes(surf, s.Config().GlowRadius)
	if len(strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(strokes))
	}
	// Full velocity maps to the top of the range.
	assertNear(t, "stroke width", strokes[0].width, 10)
	assertNear(t, "param", s.Layers()[i].params.Float("lineWidth"), 10)

	// Other keys keep their base value.
	assertNear(t, "speed", s.Layers()[i].params.Float("speed"), 1)
}

func TestFrameUsesLayerBase(t *testing.T) {
	s, surf, clk := newTestScene(t)
	i := layerIndex(t, s, "triangle")
	s.Layers()[i].Base = map[string]float64{"lineWidth": 4.5}

	s.NoteOn(ChannelTriangle, 60, 100)
	clk.Set(0.25)
	s.Frame()

	strokes := glowStrokes(surf, s.Config().GlowRadius)
	if len(strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(strokes))
	}
	assertNear(t, "stroke width", strokes[0].width, 4.5)
}

func TestFrameTrajectory(t *testing.T) {
	s, surf, clk := newTestScene(t)
	s.Frame()
	if surf.transforms != 0 {
		t.Fatalf("transforms with trajectories off = %d, want 0", surf.transforms)
	}

	enabled := true
	s.Trajectory().UpdateTrackConfig(1, TrajectoryUpdate{Enabled: &enabled})
	perTrack := 0
	for _, l := range s.Layers() {
		if l.Track == 1 {
			perTrack++
		}
	}

	surf.reset()
	clk.Set(0.5)
	s.Frame()
	if want := 3 * perTrack; surf.transforms != want {
		t.Errorf("transforms = %d, want %d", surf.transforms, want)
	}
	if len(surf.stack) != 0 {
		t.Errorf("unbalanced Save/Restore: %d left", len(surf.stack))
	}
	i := layerIndex(t, s, "gradient")
	want := s.Trajectory().Position(1, 0.5, Vec3{})
	if got := s.Layers()[i].params.Offset; got != want {
		t.Errorf("offset = %v, want %v", got, want)
	}
}

// --- Update ---

func TestStopTerminates(t *testing.T) {
	s, _, _ := newTestScene(t)
	if err := s.Update(); err != nil {
		t.Fatalf("Update = %v, want nil", err)
	}
	s.Stop()
	if !s.Stopped() {
		t.Error("Stopped = false after Stop")
	}
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Stop = %v, want ebiten.Termination", err)
	}
}

func TestIdleIndicatorFollowsActivity(t *testing.T) {
	s, _, _ := newTestScene(t)
	if !s.idle.visible() {
		t.Fatal("idle mark hidden on a silent scene")
	}
	s.NoteOn(ChannelTriangle, 60, 100)
	s.Frame()
	for range 60 {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if s.idle.visible() {
		t.Errorf("idle mark visible while notes sound (alpha %v)", s.idle.alpha)
	}
}

// --- Note routing ---

func TestMIDIRouting(t *testing.T) {
	cfg := testConfig()
	cfg.Routes = map[int][]string{0: {ChannelTriangle}}
	s := NewSceneOn(cfg, newRecordingSurface(100, 100))

	s.MIDINoteOn(0, 60, 100)
	if got := s.Notes().Notes(ChannelTriangle); len(got) != 1 {
		t.Fatalf("triangle notes = %d, want 1", len(got))
	}
	if n := s.Notes().Count(); n != 1 {
		t.Errorf("routed note landed on %d channels, want 1", n)
	}

	s.MIDINoteOn(1, 62, 100)
	if n, want := s.Notes().Count(), 1+len(Channels(s.Layers())); n != want {
		t.Errorf("notes after broadcast = %d, want %d", n, want)
	}

	// Zero velocity releases.
	s.MIDINoteOn(0, 60, 0)
	for _, n := range s.Notes().Notes(ChannelTriangle) {
		if n.Pitch == 60 {
			t.Error("note-on with zero velocity did not release")
		}
	}

	s.MIDINoteOff(1, 62)
	if n := s.Notes().Count(); n != 0 {
		t.Errorf("notes after release = %d, want 0", n)
	}
}

func TestAllNotesOff(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.MIDINoteOn(3, 60, 100)
	s.MIDINoteOn(3, 64, 100)
	s.AllNotesOff()
	if n := s.Notes().Count(); n != 0 {
		t.Errorf("notes = %d, want 0", n)
	}
}

func TestRouterAccessor(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.Router().Set(5, []string{ChannelOrbit})
	s.MIDINoteOn(5, 70, 90)
	if len(s.Notes().Notes(ChannelOrbit)) != 1 || s.Notes().Count() != 1 {
		t.Errorf("route set at runtime not honoured: %v", s.Notes().ActiveNotes())
	}
}

// --- Event sink ---

func TestEventSink(t *testing.T) {
	s, _, clk := newTestScene(t)
	var sink recordingSink
	s.SetEventSink(&sink)

	clk.Set(1)
	s.NoteOn(ChannelPulse, 60, 127)
	s.NoteOn(ChannelPulse, 60, 127) // ignored
	if len(sink.notes) != 0 {
		t.Fatal("events delivered before the frame")
	}
	s.Frame()
	if len(sink.notes) != 1 {
		t.Fatalf("note events = %d, want 1", len(sink.notes))
	}
	e := sink.notes[0]
	if e.Type != NoteOnEvent || e.Channel != ChannelPulse || e.Pitch != 60 || e.Velocity != 1 || e.Time != 1 {
		t.Errorf("event = %+v", e)
	}
	if len(sink.frames) != 1 || !sink.frames[0].Active {
		t.Errorf("frames = %+v", sink.frames)
	}

	s.NoteOff(ChannelPulse, 60)
	s.NoteOff(ChannelPulse, 60) // nothing to release
	s.Frame()
	if len(sink.notes) != 2 || sink.notes[1].Type != NoteOffEvent {
		t.Errorf("events = %+v, want a single note-off", sink.notes)
	}
	if sink.notes[1].Type.String() != "noteOff" {
		t.Errorf("String = %q", sink.notes[1].Type.String())
	}
}

func TestNoSinkNoQueue(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.NoteOn(ChannelPulse, 60, 100)
	if len(s.pending) != 0 {
		t.Errorf("pending = %d without a sink, want 0", len(s.pending))
	}
}
