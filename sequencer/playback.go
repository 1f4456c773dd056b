package sequencer

import "transit/debug"

// Playback receives queue/stop decisions from the lower grid in play mode.
// Starting and stopping audio is up to the implementation.
type Playback interface {
	// Queue is called when an occupied sequence slot is pressed
	Queue(track *Track, slot int)
	// Stop is called when an empty slot is pressed
	Stop(track *Track)
}

// LogPlayback only records the decisions in the debug log
type LogPlayback struct{}

func (LogPlayback) Queue(track *Track, slot int) {
	debug.Log("playback", "queue: track=%d slot=%d", track.Index(), slot)
}

func (LogPlayback) Stop(track *Track) {
	debug.Log("playback", "stop: track=%d", track.Index())
}
