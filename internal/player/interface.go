package player

import "time"

// Interface is the media resource handle the playback controller drives.
type Interface interface {
	// Play releases the current stream and starts path from the beginning.
	Play(path string) error
	Stop()
	Pause()
	Resume()
	State() State
	Position() time.Duration
	Duration() time.Duration
	SeekTo(pos time.Duration) error
	// SetVolume takes a linear level in [0, 1]; 0 silences output.
	SetVolume(level float64)
	// OnFinished registers fn to run, off the audio goroutine, when a stream
	// plays to its end. It is not called for Stop or for a replaced stream.
	OnFinished(fn func())
	// Samples returns up to n of the most recent mono samples, oldest first.
	Samples(n int) []float64
}

var _ Interface = (*Player)(nil)
