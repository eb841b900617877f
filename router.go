package lumina

import (
	"maps"
	"slices"
	"sync"
)

// MIDIChannels is the number of MIDI channels.
const MIDIChannels = 16

// Router maps MIDI channels (0-15) to luminode channels. MIDI channels with
// no route broadcast to every luminode channel. A Router is safe for
// concurrent use, so routes may change while a MIDI listener is delivering
// notes.
type Router struct {
	mu     sync.RWMutex
	routes map[int][]string
	all    []string
}

// NewRouter creates a router from routes; all lists the luminode channels
// used for broadcast. Out-of-range MIDI channels in routes are ignored.
func NewRouter(routes map[int][]string, all []string) *Router {
	r := &Router{routes: make(map[int][]string, len(routes)), all: slices.Clone(all)}
	for ch, names := range routes {
		r.Set(ch, names)
	}
	return r
}

// Channels returns the luminode channels that receive notes from MIDI
// channel ch. The returned slice MUST NOT be mutated. Set replaces route
// slices rather than editing them, so it stays valid after a later Set.
func (r *Router) Channels(ch int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if names, ok := r.routes[ch]; ok {
		return names
	}
	return r.all
}

// Set routes MIDI channel ch to names. An empty names list restores
// broadcast.
func (r *Router) Set(ch int, names []string) {
	if ch < 0 || ch >= MIDIChannels {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(names) == 0 {
		delete(r.routes, ch)
		return
	}
	r.routes[ch] = slices.Clone(names)
}

// Routes returns a copy of the explicit routes.
func (r *Router) Routes() map[int][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := maps.Clone(r.routes)
	for ch, names := range out {
		out[ch] = slices.Clone(names)
	}
	return out
}
