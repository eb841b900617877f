// Package midiin feeds note events from a MIDI input port into a lumina
// scene.
//
// The package does not register a driver. Import one in your main package:
//
//	import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
package midiin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrPortNotFound is returned when no input port matches.
var ErrPortNotFound = errors.New("midi input port not found")

// NoteHandler receives decoded notes. *lumina.Scene satisfies it.
type NoteHandler interface {
	MIDINoteOn(ch, pitch, velocity int)
	MIDINoteOff(ch, pitch int)
	AllNotesOff()
}

// DefaultExclude lists virtual and system ports that are never picked
// automatically.
var DefaultExclude = []string{"Midi Through", "Through Port", "Dummy"}

// Options configures a Listener.
type Options struct {
	// Port selects the first input whose name contains it, case-insensitive.
	// Empty selects the first non-excluded input.
	Port string
	// Exclude is skipped when Port is empty. Nil means DefaultExclude.
	Exclude []string
	// RescanInterval is how often Run looks for the device. Zero means one
	// second.
	RescanInterval time.Duration
	Logger         *slog.Logger
}

// Listener maintains a connection to one MIDI input and forwards its notes
// to a NoteHandler. Unplugging the device releases every note; Run
// reconnects when it returns.
type Listener struct {
	mu        sync.Mutex
	handler   NoteHandler
	opts      Options
	log       *slog.Logger
	in        drivers.In
	stop      func()
	name      string
	connected bool
}

// New creates a listener. Nothing is opened until Connect or Run.
func New(h NoteHandler, opts Options) *Listener {
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if opts.RescanInterval <= 0 {
		opts.RescanInterval = time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Listener{handler: h, opts: opts, log: log}
}

// Ports returns the names of the available input ports.
func Ports() []string {
	ins := midi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

// Connected returns the connected port name.
func (l *Listener) Connected() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name, l.connected
}

// Connect opens the matching input port and starts forwarding notes.
func (l *Listener) Connect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.connected {
		return nil
	}
	ins := midi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	idx, err := findPort(names, l.opts.Port, l.opts.Exclude)
	if err != nil {
		return err
	}
	return l.open(ins[idx])
}

func (l *Listener) open(in drivers.In) error {
	name := in.String()
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		dispatch(l.handler, msg)
	}, midi.HandleError(func(listenErr error) {
		l.log.Warn("midi: listener error", "device", name, "err", listenErr)
		// closeConn takes the mutex; never from the listener goroutine.
		go l.disconnect(name)
	}))
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}
	l.in, l.stop, l.name, l.connected = in, stop, name, true
	l.log.Info("midi: connected", "device", name)
	return nil
}

// disconnect drops the connection to name, if still current, and releases
// every note.
func (l *Listener) disconnect(name string) {
	l.mu.Lock()
	current := l.connected && l.name == name
	if current {
		l.closeConn()
	}
	l.mu.Unlock()
	if current {
		l.log.Warn("midi: device lost", "device", name)
		l.handler.AllNotesOff()
	}
}

func (l *Listener) closeConn() {
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	if l.in != nil {
		_ = l.in.Close()
		l.in = nil
	}
	l.connected = false
	l.name = ""
}

// Close stops listening and closes the port.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeConn()
}

// Run keeps the listener connected until ctx is done, reconnecting after
// the device disappears. It returns ctx.Err().
func (l *Listener) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.RescanInterval)
	defer ticker.Stop()
	defer l.Close()

	l.tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Listener) tick() {
	name, ok := l.Connected()
	if ok {
		for _, n := range Ports() {
			if n == name {
				return
			}
		}
		l.disconnect(name)
		return
	}
	if err := l.Connect(); err != nil && !errors.Is(err, ErrPortNotFound) {
		l.log.Error("midi: connect failed", "err", err)
	}
}

// findPort returns the index of the port to open.
func findPort(names []string, pattern string, exclude []string) (int, error) {
	if pattern != "" {
		for i, n := range names {
			if containsCI(n, pattern) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: %q", ErrPortNotFound, pattern)
	}
	for i, n := range names {
		excluded := false
		for _, pat := range exclude {
			if containsCI(n, pat) {
				excluded = true
				break
			}
		}
		if !excluded {
			return i, nil
		}
	}
	return -1, ErrPortNotFound
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Event is a decoded note message.
type Event struct {
	On       bool
	Channel  int
	Pitch    int
	Velocity int
}

// Decode extracts a note event from msg. A note-on with zero velocity
// decodes as a note-off.
func Decode(msg midi.Message) (Event, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Event{On: true, Channel: int(ch), Pitch: int(key), Velocity: int(vel)}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Channel: int(ch), Pitch: int(key)}, true
	}
	return Event{}, false
}

func dispatch(h NoteHandler, msg midi.Message) {
	e, ok := Decode(msg)
	if !ok {
		return
	}
	if e.On {
		h.MIDINoteOn(e.Channel, e.Pitch, e.Velocity)
	} else {
		h.MIDINoteOff(e.Channel, e.Pitch)
	}
}
