package lumina

import "time"

// debugStats holds per-frame timing. Only populated when Config.Debug is set.
type debugStats struct {
	snapshotTime time.Duration
	drawTime     time.Duration
	totalTime    time.Duration
	evicted      int
	layerCount   int
	noteCount    int

	slowestLayer string
	slowestTime  time.Duration
}

// observeLayer records the draw time of one layer, keeping the slowest.
func (st *debugStats) observeLayer(name string, d time.Duration) {
	if d > st.slowestTime {
		st.slowestLayer = name
		st.slowestTime = d
	}
}

// debugLog writes the frame's timing stats at debug level.
func (s *Scene) debugLog(st debugStats) {
	if !s.cfg.Debug {
		return
	}
	s.log.Debug("frame",
		"frame", s.frame,
		"snapshot", st.snapshotTime,
		"draw", st.drawTime,
		"total", st.totalTime,
		"layers", st.layerCount,
		"notes", st.noteCount,
		"evicted", st.evicted,
		"slowest", st.slowestLayer,
		"slowestTime", st.slowestTime,
	)
	if budget := frameBudget(); st.totalTime > budget {
		s.log.Warn("frame over budget", "total", st.totalTime, "budget", budget, "slowest", st.slowestLayer)
	}
}

// frameBudget is the time available per frame at 60 FPS.
func frameBudget() time.Duration {
	return time.Second / 60
}
