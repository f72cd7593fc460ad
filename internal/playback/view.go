package playback

import (
	"time"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
)

// View is a consistent copy of everything the UI renders.
type View struct {
	Folder string
	Source string
	Search string
	Queue  []string

	Playlists []playlist.Playlist
	Library   int

	Index int
	Track *playlist.Track

	Position time.Duration
	Duration time.Duration
	Playing  bool
	Loading  bool

	Volume     float64
	Muted      bool
	RepeatMode session.RepeatMode

	ShowPlaylist bool
	ShowLyrics   bool
	Background   session.Background

	// LyricLine is the active synced lyric cue, -1 when none.
	LyricLine int
}

// View returns a copy of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Folder:       c.folder,
		Source:       c.s.Source(),
		Search:       c.s.Search(),
		Queue:        c.s.Queue(),
		Playlists:    c.s.Playlists().All(),
		Library:      c.s.Library().Len(),
		Index:        c.s.CurrentIndex(),
		Track:        c.s.CurrentTrack(),
		Position:     c.s.Position(),
		Duration:     c.s.Duration(),
		Playing:      c.s.Playing(),
		Loading:      c.s.Loading(),
		Volume:       c.s.Volume(),
		Muted:        c.s.Muted(),
		RepeatMode:   c.s.RepeatMode(),
		ShowPlaylist: c.s.ShowPlaylist,
		ShowLyrics:   c.s.ShowLyrics,
		Background:   c.s.Background,
		LyricLine:    c.lyricLineLocked(),
	}
}

// CurrentLyricIndex returns the synced lyric cue at the current position,
// or -1 when the track has no synced lyrics.
func (c *Controller) CurrentLyricIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lyricLineLocked()
}

func (c *Controller) lyricLineLocked() int {
	t := c.s.CurrentTrack()
	if t == nil || !t.Lyrics.IsSynced() {
		return -1
	}
	return t.Lyrics.LineAt(c.s.Position())
}

// Samples returns recent output samples for visualizers.
func (c *Controller) Samples(n int) []float64 {
	return c.player.Samples(n)
}
