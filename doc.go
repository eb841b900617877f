// Package lumina is a note-driven generative visual instrument for
// [Ebitengine].
//
// Live note events (pitch, velocity, timing) drive a fixed set of independent
// drawing modules, called luminodes, that render onto one shared surface 60
// times per second. A modulation engine reshapes luminode parameters with
// LFOs and note-following envelopes, and a trajectory engine moves each track
// along time-based paths.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and frame
// loop for you:
//
//	cfg := lumina.DefaultConfig()
//	scene := lumina.NewScene(cfg)
//	scene.NoteOn(lumina.ChannelTriangle, 60, 100)
//	lumina.Run(ctx, scene, cfg.RunConfig())
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly. A [Scene] is itself an
// [ebiten.Game].
//
// # Notes
//
// Notes live in a [NoteStore], one insertion-ordered bucket per channel.
// Each luminode reads one channel. [Scene.NoteOn] and [Scene.NoteOff] may be
// called from any goroutine; the midiin subpackage feeds them from a MIDI
// input port through a [Router], which maps MIDI channels to luminode
// channels. Notes that never receive a note-off are evicted after
// [Config.MaxNoteAgeMS].
//
// # Modulation and trajectories
//
// Up to [MaxModulators] modulators target a (track, luminode, parameter)
// triple:
//
//	id, _ := scene.Modulation().AddModulator(lumina.ModLFO)
//	key := "rotation"
//	scene.Modulation().UpdateModulator(id, lumina.ModulatorUpdate{TargetKey: &key})
//
// Tracks also carry a trajectory that offsets every layer on the track:
//
//	on := true
//	scene.Trajectory().UpdateTrackConfig(1, lumina.TrajectoryUpdate{Enabled: &on})
//
// # Testing
//
// [Scene.Frame] draws onto any [Surface], so scenes can be driven headless
// with [NewSceneOn] and a [ManualClock]. Score scripts ([LoadScoreScript])
// inject notes and take screenshots across frames for automated visual runs.
//
// ECS integration lives in lumina/ecs, which publishes note and frame events
// into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package lumina
