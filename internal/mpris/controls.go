// Package mpris exposes the player on the D-Bus MPRIS interface.
package mpris

import (
	"errors"
	"time"

	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/session"
)

// ErrUnavailable is returned by New on platforms without MPRIS.
var ErrUnavailable = errors.New("mpris: not supported on this platform")

// Controls is the part of the playback controller driven by media keys.
type Controls interface {
	Play() error
	Pause()
	Toggle() error
	Stop()
	Next() error
	Previous() error
	SeekBy(delta time.Duration) error
	SeekTo(pos time.Duration) error
	SetVolume(v float64)
	SetRepeatMode(m session.RepeatMode)
	View() playback.View
}

var _ Controls = (*playback.Controller)(nil)

func loopStatusName(m session.RepeatMode) string {
	if m == session.RepeatLoopAll {
		return "Playlist"
	}
	return "None"
}

// repeatFor maps MPRIS loop and shuffle settings onto a repeat mode.
// Shuffle wins over loop; single-track repeat is treated as a loop.
func repeatFor(cur session.RepeatMode, loop string, shuffle *bool) session.RepeatMode {
	switch {
	case shuffle != nil && *shuffle:
		return session.RepeatShuffle
	case shuffle != nil && cur == session.RepeatShuffle:
		return session.RepeatSequence
	case shuffle != nil:
		return cur
	case loop == "Playlist" || loop == "Track":
		return session.RepeatLoopAll
	case loop == "None" && cur == session.RepeatLoopAll:
		return session.RepeatSequence
	}
	return cur
}
