// Package session holds the playback session: the library index, user
// playlists, the derived play queue and the playback clock. A Session has a
// single owner and is not safe for concurrent use.
package session

import (
	"slices"
	"time"

	"github.com/llehouerou/listentwo/internal/library"
	"github.com/llehouerou/listentwo/internal/playlist"
)

// SourceLibrary selects the library index as the queue source.
const SourceLibrary = "library"

// legacySourceLibrary is the library sentinel older snapshots carry.
const legacySourceLibrary = "local"

// DefaultVolume is restored by unmute when no prior level is known.
const DefaultVolume = 0.7

// NormalizeSource maps legacy library sentinels to SourceLibrary.
func NormalizeSource(id string) string {
	if id == "" || id == legacySourceLibrary {
		return SourceLibrary
	}
	return id
}

// Session is the in-memory player state.
type Session struct {
	library   *library.Index
	playlists *playlist.Collection

	source string
	search string
	queue  []string

	current int
	track   *playlist.Track

	position time.Duration
	duration time.Duration

	volume     float64
	muted      bool
	remembered float64

	mode    RepeatMode
	playing bool
	loading bool

	ShowPlaylist bool
	ShowLyrics   bool
	Background   Background

	revision uint64
}

// New returns a session with default settings and empty collections.
func New() *Session {
	return &Session{
		library:      library.NewIndex(nil),
		playlists:    playlist.NewCollection(),
		source:       SourceLibrary,
		queue:        []string{},
		current:      -1,
		volume:       DefaultVolume,
		remembered:   DefaultVolume,
		ShowPlaylist: true,
		Background:   DefaultBackground(),
	}
}

// Library returns the library index.
func (s *Session) Library() *library.Index { return s.library }

// Playlists returns the user playlists.
func (s *Session) Playlists() *playlist.Collection { return s.playlists }

// Source returns the selected source id.
func (s *Session) Source() string { return s.source }

// Search returns the active search filter.
func (s *Session) Search() string { return s.search }

// Queue returns a copy of the active queue.
func (s *Session) Queue() []string { return slices.Clone(s.queue) }

// QueueLen returns the active queue length.
func (s *Session) QueueLen() int { return len(s.queue) }

// QueuePath returns the path at index i of the active queue.
func (s *Session) QueuePath(i int) (string, bool) {
	if i < 0 || i >= len(s.queue) {
		return "", false
	}
	return s.queue[i], true
}

// CurrentIndex returns the queue index of the current track, or -1.
func (s *Session) CurrentIndex() int { return s.current }

// CurrentTrack returns a copy of the current track, or nil.
func (s *Session) CurrentTrack() *playlist.Track {
	if s.track == nil {
		return nil
	}
	t := *s.track
	return &t
}

// Position returns the playback position.
func (s *Session) Position() time.Duration { return s.position }

// Duration returns the current track length, 0 when unknown.
func (s *Session) Duration() time.Duration { return s.duration }

// Volume returns the output level in [0,1].
func (s *Session) Volume() float64 { return s.volume }

// Muted reports whether output is muted.
func (s *Session) Muted() bool { return s.muted }

// RepeatMode returns the advancement mode.
func (s *Session) RepeatMode() RepeatMode { return s.mode }

// Playing reports whether audio is playing.
func (s *Session) Playing() bool { return s.playing }

// Loading reports whether a track load is in flight.
func (s *Session) Loading() bool { return s.loading }

// Revision increases on every state mutation.
func (s *Session) Revision() uint64 { return s.revision }

func (s *Session) touch() { s.revision++ }

// SetCurrent points the session at queue index i with track t. An index
// outside the queue clears the current track.
func (s *Session) SetCurrent(i int, t playlist.Track) bool {
	if i < 0 || i >= len(s.queue) {
		s.ClearCurrent()
		return false
	}
	s.current = i
	s.track = &t
	s.touch()
	return true
}

// UpdateTrack replaces the current track's metadata when it still refers
// to path.
func (s *Session) UpdateTrack(t playlist.Track) bool {
	if s.track == nil || !s.track.Equal(t) {
		return false
	}
	s.track = &t
	s.touch()
	return true
}

// ClearCurrent unloads the current track and stops the clock.
func (s *Session) ClearCurrent() {
	s.current = -1
	s.track = nil
	s.playing = false
	s.loading = false
	s.position = 0
	s.duration = 0
	s.touch()
}

// SetPlaying sets the play flag.
func (s *Session) SetPlaying(v bool) {
	if s.playing != v {
		s.playing = v
		s.touch()
	}
}

// SetLoading sets the load-in-flight flag.
func (s *Session) SetLoading(v bool) {
	s.loading = v
}

// SetPosition sets the clock, clamped to [0, duration]. With an unknown
// duration only the lower bound applies.
func (s *Session) SetPosition(d time.Duration) {
	d = max(d, 0)
	if s.duration > 0 {
		d = min(d, s.duration)
	}
	s.position = d
}

// SetDuration sets the track length and re-clamps the position.
func (s *Session) SetDuration(d time.Duration) {
	s.duration = max(d, 0)
	s.SetPosition(s.position)
}

// SetRepeatMode sets the advancement mode.
func (s *Session) SetRepeatMode(m RepeatMode) {
	s.mode = m
	s.touch()
}

// CycleRepeatMode moves to the next mode and returns it.
func (s *Session) CycleRepeatMode() RepeatMode {
	s.SetRepeatMode(s.mode.Next())
	return s.mode
}
