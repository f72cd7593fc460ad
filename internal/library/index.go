package library

import "slices"

// Index is the flat, ordered list of every discovered track path.
type Index struct {
	songs []string
}

// NewIndex creates an index holding songs.
func NewIndex(songs []string) *Index {
	idx := &Index{}
	idx.Replace(songs)
	return idx
}

// Replace swaps the whole index for songs.
func (i *Index) Replace(songs []string) {
	i.songs = slices.Clone(songs)
}

// Remove deletes path and returns the index it had.
func (i *Index) Remove(path string) (int, bool) {
	n := slices.Index(i.songs, path)
	if n < 0 {
		return -1, false
	}
	i.songs = slices.Delete(i.songs, n, n+1)
	return n, true
}

// Songs returns a copy of the indexed paths.
func (i *Index) Songs() []string {
	if len(i.songs) == 0 {
		return []string{}
	}
	return slices.Clone(i.songs)
}

// Len returns the number of indexed paths.
func (i *Index) Len() int {
	return len(i.songs)
}

// Contains reports whether path is indexed.
func (i *Index) Contains(path string) bool {
	return slices.Contains(i.songs, path)
}
