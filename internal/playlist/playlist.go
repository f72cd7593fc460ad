// Package playlist holds track references and user-created playlists.
package playlist

import "slices"

// Playlist is a named ordered list of file paths. It never owns track
// metadata; paths are resolved lazily for display.
type Playlist struct {
	ID    string
	Name  string
	Songs []string
}

// Contains reports whether path is in the playlist.
func (p *Playlist) Contains(path string) bool {
	return slices.Contains(p.Songs, path)
}

// Add appends path unless it is already present.
// Returns false for duplicates.
func (p *Playlist) Add(path string) bool {
	if path == "" || p.Contains(path) {
		return false
	}
	p.Songs = append(p.Songs, path)
	return true
}

// Remove deletes the first occurrence of path and returns its index.
func (p *Playlist) Remove(path string) (int, bool) {
	i := slices.Index(p.Songs, path)
	if i < 0 {
		return -1, false
	}
	p.Songs = slices.Delete(p.Songs, i, i+1)
	return i, true
}

// Clone returns a deep copy.
func (p Playlist) Clone() Playlist {
	p.Songs = slices.Clone(p.Songs)
	if p.Songs == nil {
		p.Songs = []string{}
	}
	return p
}
