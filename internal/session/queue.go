package session

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/listentwo/internal/playlist"
)

// sourceSongs returns the backing collection of the selected source.
// An unknown playlist id yields nothing.
func (s *Session) sourceSongs() []string {
	if s.source == SourceLibrary {
		return s.library.Songs()
	}
	if p := s.playlists.Find(s.source); p != nil {
		return slices.Clone(p.Songs)
	}
	return []string{}
}

// MatchesSearch reports whether the file name of path contains q,
// ignoring case. An empty q matches everything.
func MatchesSearch(path, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(playlist.FileName(path)), q)
}

// RecomputeQueue derives the active queue from the selected source and
// search filter. The current track keeps its place when it is still in
// the queue; otherwise nothing is current any more.
// Returns false when the current track dropped out.
func (s *Session) RecomputeQueue() bool {
	songs := s.sourceSongs()
	s.queue = lo.Filter(songs, func(p string, _ int) bool {
		return MatchesSearch(p, s.search)
	})
	s.touch()
	return s.relocateCurrent()
}

// RestoreQueue installs a stored queue verbatim.
func (s *Session) RestoreQueue(paths []string) {
	s.queue = lo.Compact(slices.Clone(paths))
	s.touch()
	s.relocateCurrent()
}

func (s *Session) relocateCurrent() bool {
	if s.track == nil {
		s.current = -1
		return true
	}
	if s.current >= 0 && s.current < len(s.queue) && s.queue[s.current] == s.track.Path {
		return true
	}
	if i := slices.Index(s.queue, s.track.Path); i >= 0 {
		s.current = i
		return true
	}
	s.ClearCurrent()
	return false
}

// SelectFolder replaces the library with files and recomputes the queue.
func (s *Session) SelectFolder(files []string) bool {
	s.library.Replace(files)
	return s.RecomputeQueue()
}

// SelectSource switches the queue source. Unknown ids are accepted and
// produce an empty queue.
func (s *Session) SelectSource(id string) bool {
	s.source = NormalizeSource(id)
	return s.RecomputeQueue()
}

// SetSearch sets the file-name filter.
func (s *Session) SetSearch(q string) bool {
	s.search = q
	return s.RecomputeQueue()
}

// CreatePlaylist adds a playlist and selects it. A blank name changes
// nothing.
func (s *Session) CreatePlaylist(name string) (*playlist.Playlist, bool) {
	p, ok := s.playlists.Create(name)
	if !ok {
		return nil, false
	}
	s.source = p.ID
	s.RecomputeQueue()
	return p, true
}

// DeletePlaylist removes a playlist. Deleting the selected playlist falls
// back to the library.
func (s *Session) DeletePlaylist(id string) bool {
	if !s.playlists.Delete(id) {
		return false
	}
	if s.source == id {
		s.source = SourceLibrary
	}
	s.RecomputeQueue()
	return true
}

// AddSongToPlaylist appends path to playlist id. Duplicates are ignored.
func (s *Session) AddSongToPlaylist(id, path string) bool {
	if !s.playlists.AddSong(id, path) {
		return false
	}
	if s.source == id {
		s.RecomputeQueue()
	}
	s.touch()
	return true
}

// RemoveResult describes the effect of RemoveSong.
type RemoveResult struct {
	Removed bool
	// Stopped is set when the current track was removed.
	Stopped bool
}

// RemoveSong deletes path from the backing collection of sourceID and
// keeps the current index on the same logical track: removing the current
// entry unloads it, removing an earlier entry shifts the index down.
func (s *Session) RemoveSong(sourceID, path string) RemoveResult {
	sourceID = NormalizeSource(sourceID)
	pos := -1
	if sourceID == s.source {
		pos = slices.Index(s.queue, path)
	}

	var removed bool
	if sourceID == SourceLibrary {
		_, removed = s.library.Remove(path)
	} else if p := s.playlists.Find(sourceID); p != nil {
		_, removed = p.Remove(path)
	}
	if !removed {
		return RemoveResult{}
	}

	var res RemoveResult
	res.Removed = true
	if pos >= 0 && s.current >= 0 {
		switch {
		case s.current == pos:
			s.ClearCurrent()
			res.Stopped = true
		case s.current > pos:
			s.current--
		}
	}

	if !s.RecomputeQueue() {
		res.Stopped = true
	}
	return res
}
