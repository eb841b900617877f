package lumina

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventSink is the interface for optional ECS integration. When set on a
// Scene, note and frame events are forwarded to it on the frame goroutine.
type EventSink interface {
	EmitNote(event NoteEvent)
	EmitFrame(report FrameReport)
}

// NoteEventType distinguishes note-on from note-off events.
type NoteEventType uint8

const (
	NoteOnEvent NoteEventType = iota
	NoteOffEvent
)

// String returns "noteOn" or "noteOff".
func (t NoteEventType) String() string {
	if t == NoteOffEvent {
		return "noteOff"
	}
	return "noteOn"
}

// NoteEvent records one accepted change to the note store.
type NoteEvent struct {
	Type     NoteEventType
	Channel  string
	Pitch    int
	Velocity float64
	Time     float64
}

// FrameReport summarises one rendered frame.
type FrameReport struct {
	Frame     uint64
	Time      float64
	Active    bool
	NoteCount int
}

// Scene is the frame orchestrator. It owns the note store, the modulation
// and trajectory engines and the ordered luminode layers, and draws them all
// onto one shared Surface each frame.
type Scene struct {
	cfg     *Config
	log     *slog.Logger
	surface Surface
	canvas  *Canvas

	store      *NoteStore
	modulation *ModulationEngine
	trajectory *TrajectoryEngine
	router     *Router
	layers     []Layer

	start   float64
	frame   uint64
	last    FrameReport
	stopped atomic.Bool

	sink      EventSink
	pendingMu sync.Mutex
	pending   []NoteEvent

	idle            *idleIndicator
	hud             *hud
	screenshotQueue []string
	injectQueue     []syntheticNote
	runner          *ScoreRunner
}

// NewScene creates a scene that draws onto its own ebiten Canvas. cfg is
// validated in place.
func NewScene(cfg *Config) *Scene {
	cfg.Validate()
	c := NewCanvas(nil, cfg.GlowRadius)
	s := NewSceneOn(cfg, c)
	s.canvas = c
	return s
}

// NewSceneOn creates a scene whose luminodes draw onto surface. Use it for
// offscreen rendering or with a custom Surface implementation.
func NewSceneOn(cfg *Config, surface Surface) *Scene {
	cfg.Validate()
	s := &Scene{
		cfg:        cfg,
		log:        cfg.Logger,
		surface:    surface,
		store:      NewNoteStore(cfg.Clock),
		modulation: NewModulationEngine(cfg.Clock),
		trajectory: NewTrajectoryEngine(cfg.TrackCount),
		start:      cfg.Clock.Seconds(),
		idle:       newIdleIndicator(),
	}
	s.modulation.SetLogger(cfg.Logger)
	s.layers = DefaultLayers(surface, cfg)
	s.router = NewRouter(cfg.Routes, Channels(s.layers))
	if cfg.ShowHUD {
		s.hud = newHUD()
	}
	return s
}

// Config returns the scene's configuration.
func (s *Scene) Config() *Config { return s.cfg }

// Notes returns the scene's note store.
func (s *Scene) Notes() *NoteStore { return s.store }

// Modulation returns the scene's modulation engine.
func (s *Scene) Modulation() *ModulationEngine { return s.modulation }

// Trajectory returns the scene's trajectory engine.
func (s *Scene) Trajectory() *TrajectoryEngine { return s.trajectory }

// Router returns the MIDI channel router.
func (s *Scene) Router() *Router { return s.router }

// Layers returns the layers in draw order. The returned slice MUST NOT be
// reordered; Base maps may be edited between frames.
func (s *Scene) Layers() []Layer { return s.layers }

// LastReport returns the report of the most recent frame.
func (s *Scene) LastReport() FrameReport { return s.last }

// SetEventSink sets the optional ECS bridge.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Stop asks the loop to end before the next frame. Safe to call from any
// goroutine.
func (s *Scene) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (s *Scene) Stopped() bool {
	return s.stopped.Load()
}

// NoteOn inserts a note on a luminode channel. Safe to call from the MIDI
// goroutine. Reports whether the note was inserted.
func (s *Scene) NoteOn(channel string, pitch, velocity int) bool {
	if !s.store.NoteOn(channel, pitch, velocity) {
		return false
	}
	s.queueEvent(NoteEvent{
		Type:     NoteOnEvent,
		Channel:  channel,
		Pitch:    pitch,
		Velocity: clamp01(float64(velocity) / MaxRawVelocity),
		Time:     s.cfg.Clock.Seconds(),
	})
	return true
}

// NoteOff releases a note on a luminode channel. Safe to call from the MIDI
// goroutine.
func (s *Scene) NoteOff(channel string, pitch int) bool {
	if !s.store.NoteOff(channel, pitch) {
		return false
	}
	s.queueEvent(NoteEvent{
		Type:    NoteOffEvent,
		Channel: channel,
		Pitch:   pitch,
		Time:    s.cfg.Clock.Seconds(),
	})
	return true
}

// MIDINoteOn routes a note-on from MIDI channel ch to its luminode channels.
// A zero velocity is treated as a note-off.
func (s *Scene) MIDINoteOn(ch, pitch, velocity int) {
	if velocity == 0 {
		s.MIDINoteOff(ch, pitch)
		return
	}
	for _, name := range s.router.Channels(ch) {
		s.NoteOn(name, pitch, velocity)
	}
}

// MIDINoteOff routes a note-off from MIDI channel ch.
func (s *Scene) MIDINoteOff(ch, pitch int) {
	for _, name := range s.router.Channels(ch) {
		s.NoteOff(name, pitch)
	}
}

// AllNotesOff clears every channel.
func (s *Scene) AllNotesOff() {
	s.store.Clear()
	s.log.Debug("all notes off")
}

func (s *Scene) queueEvent(e NoteEvent) {
	if s.sink == nil {
		return
	}
	s.pendingMu.Lock()
	s.pending = append(s.pending, e)
	s.pendingMu.Unlock()
}

// flushEvents hands queued note events to the sink on the frame goroutine.
func (s *Scene) flushEvents() {
	if s.sink == nil {
		return
	}
	s.pendingMu.Lock()
	events := s.pending
	s.pending = nil
	s.pendingMu.Unlock()
	for _, e := range events {
		s.sink.EmitNote(e)
	}
}

// Update advances the score runner, injected notes and the idle indicator by
// one tick. It returns ebiten.Termination once the scene is stopped.
func (s *Scene) Update() error {
	if s.Stopped() {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	if s.runner != nil {
		s.runner.step(s)
	}
	s.processInjectedNotes()
	s.idle.update(float32(dt), s.last.Active)
	if s.hud != nil {
		s.hud.update(dt, s)
	}
	return nil
}

// Draw renders one frame onto screen. Scenes created with NewSceneOn ignore
// screen for the luminodes and only use it for the HUD and screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.canvas != nil {
		s.canvas.Begin(screen)
	}
	s.Frame()
	if s.canvas != nil {
		s.canvas.End()
	}
	if s.hud != nil {
		s.hud.draw(screen)
	}
	s.flushScreenshots(screen)
}

// Layout keeps the logical screen equal to the window size.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Frame draws one frame onto the scene's surface: evict expired notes, wash
// the previous frame with the translucent background, snapshot the channels
// and draw every layer in order. The report's Active flag is set when any
// channel holds a note.
func (s *Scene) Frame() FrameReport {
	var stats debugStats
	var t0, tf time.Time
	if s.cfg.Debug {
		t0 = time.Now()
		tf = t0
	}

	t := s.cfg.Clock.Seconds()
	evicted := s.store.CleanupOldNotes(s.cfg.MaxNoteAge())

	w, h := s.surface.Size()
	s.surface.FillRect(0, 0, w, h, s.cfg.Background.WithAlpha(s.cfg.FadeAlpha))

	snapshot := s.store.ActiveNotes()
	s.flushEvents()

	if s.cfg.Debug {
		stats.snapshotTime = time.Since(t0)
		stats.evicted = evicted
		t0 = time.Now()
	}

	elapsed := t - s.start
	for i := range s.layers {
		var lt time.Time
		if s.cfg.Debug {
			lt = time.Now()
		}
		s.drawLayer(&s.layers[i], t, elapsed, snapshot[s.layers[i].Channel])
		if s.cfg.Debug {
			stats.observeLayer(s.layers[i].Luminode.Name(), time.Since(lt))
		}
	}
	s.idle.draw(s.surface)

	report := FrameReport{Frame: s.frame, Time: t}
	for _, notes := range snapshot {
		report.NoteCount += len(notes)
	}
	report.Active = report.NoteCount > 0
	s.frame++
	s.last = report

	if s.cfg.Debug {
		stats.drawTime = time.Since(t0)
		stats.totalTime = time.Since(tf)
		stats.layerCount = len(s.layers)
		stats.noteCount = report.NoteCount
		s.debugLog(stats)
	}
	if s.sink != nil {
		s.sink.EmitFrame(report)
	}
	return report
}

// drawLayer resolves the layer's parameters through the modulation engine,
// places it on its track's trajectory and draws it.
func (s *Scene) drawLayer(l *Layer, t, elapsed float64, notes []Note) {
	specs := l.Luminode.Params()
	if l.params == nil {
		l.params = NewParams(specs)
	}
	nd := &NoteData{Notes: notes}
	name := l.Luminode.Name()
	for _, spec := range specs {
		v := s.modulation.ApplyModulation(l.Track, name, spec.Key, l.base(spec), spec.ConfigParam, nd)
		l.params.Set(spec.Key, v)
	}

	off := s.trajectory.Position(l.Track, elapsed, Vec3{})
	l.params.Offset = off
	if off == (Vec3{}) {
		l.Luminode.Draw(t, notes, l.params)
		return
	}

	w, h := s.surface.Size()
	cam := trajectoryCamera(Rect{Width: w, Height: h}, off)
	s.surface.Save()
	cam.apply(s.surface)
	l.Luminode.Draw(t, notes, l.params)
	s.surface.Restore()
}
