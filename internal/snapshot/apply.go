package snapshot

import (
	"slices"
	"time"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
)

// Apply merges the present fields of p over s. Playback is left stopped;
// the restored track is current but not loaded.
func Apply(p Partial, s *session.Session) {
	bg := &s.Background
	setIf(&bg.Mode, p.BackgroundMode)
	setIf(&bg.DesktopMode, p.DesktopBackgroundMode)
	setIf(&bg.ActiveDesktop, p.ActiveBgIndex)
	setIf(&bg.ActiveCover, p.ActiveCoverIndex)
	setIf(&bg.Desktop[0], p.DesktopBg1)
	setIf(&bg.Desktop[1], p.DesktopBg2)
	setIf(&bg.Cover[0], p.CoverBg1)
	setIf(&bg.Cover[1], p.CoverBg2)

	if p.Volume != nil {
		s.SetVolume(*p.Volume)
	}
	if p.IsMuted != nil {
		s.SetMuted(*p.IsMuted)
	}
	if p.PlayMode != nil {
		s.SetRepeatMode(*p.PlayMode)
	}

	if p.Playlists != nil {
		lists := make([]playlist.Playlist, 0, len(p.Playlists))
		for _, pl := range p.Playlists {
			lists = append(lists, playlist.Playlist{ID: pl.ID, Name: pl.Name, Songs: pl.Songs})
		}
		s.Playlists().Replace(lists)
	}
	if p.AllSongs != nil {
		s.Library().Replace(p.AllSongs)
	}

	// Source first so a stored queue is not immediately re-derived.
	if p.SelectedPlaylistID != nil {
		s.SelectSource(*p.SelectedPlaylistID)
	} else {
		s.RecomputeQueue()
	}
	if len(p.Playlist) > 0 {
		s.RestoreQueue(p.Playlist)
	}

	restoreCurrent(p, s)

	if p.ShowPlaylist != nil {
		s.SetShowPlaylist(*p.ShowPlaylist)
	}
	if p.ShowLyrics != nil {
		s.SetShowLyrics(*p.ShowLyrics)
	}
}

func restoreCurrent(p Partial, s *session.Session) {
	if p.CurrentSong == nil || p.CurrentIndex == nil {
		return
	}
	queue := s.Queue()
	idx := *p.CurrentIndex
	if idx < 0 || idx >= len(queue) {
		return
	}
	song := p.CurrentSong
	if queue[idx] != song.FilePath {
		// Stored index and path disagree; trust the path.
		idx = slices.Index(queue, song.FilePath)
		if idx < 0 {
			return
		}
	}

	t := playlist.NewTrack(song.FilePath)
	if song.Title != "" {
		t.Title = song.Title
	}
	if song.Artist != "" {
		t.Artist = song.Artist
	}
	if song.Album != "" {
		t.Album = song.Album
	}
	if song.CoverURL != nil {
		t.Cover = *song.CoverURL
		s.Background.PushCover(t.Cover)
	}
	s.SetCurrent(idx, t)
	if p.CurrentTime != nil {
		s.SetPosition(time.Duration(*p.CurrentTime * float64(time.Second)))
	}
}
