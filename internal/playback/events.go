package playback

import (
	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
)

// StateChange is emitted when the play or loading flag changes.
type StateChange struct {
	Playing bool
	Loading bool
}

// TrackChange is emitted when a load starts on a queue entry and again
// when its metadata arrives. Current is nil when nothing is current.
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
	Index    int
}

// QueueChange is emitted when the active queue is re-derived.
type QueueChange struct {
	Source string
	Queue  []string
	Index  int
}

// ModeChange is emitted when the repeat mode or output level changes.
type ModeChange struct {
	RepeatMode session.RepeatMode
	Volume     float64
	Muted      bool
}

// Notice is a short user-facing message, shown transiently.
type Notice struct {
	Text string
}

// ErrorEvent reports a failure that did not abort the session.
type ErrorEvent struct {
	Operation errmsg.Op
	Path      string
	Err       error
}
