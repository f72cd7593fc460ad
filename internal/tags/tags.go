// Package tags reads display metadata, embedded lyrics and cover art from
// audio files. Reads are fail-soft: callers always get usable metadata.
package tags

import (
	"path/filepath"
	"strings"
	"time"
)

// File extensions handled by the readers.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtM4A  = ".m4a"
	ExtAAC  = ".aac"
	ExtOGG  = ".ogg"
)

// Placeholder values used when a file carries no usable tags.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Metadata is the display information of a single audio file.
type Metadata struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration

	// Cover is the raw embedded or folder image, CoverMIME its type.
	Cover     []byte
	CoverMIME string

	// Lyrics is the embedded lyric text, LRC or plain.
	Lyrics string
}

// HasCover reports whether cover art was found.
func (m Metadata) HasCover() bool {
	return len(m.Cover) > 0
}

// Placeholder returns filename-derived metadata for path.
func Placeholder(path string) Metadata {
	return Metadata{
		Path:   path,
		Title:  TitleFromPath(path),
		Artist: UnknownArtist,
		Album:  UnknownAlbum,
	}
}

// TitleFromPath returns the file name of path without its extension.
// Both slash styles are accepted so persisted Windows paths still render.
func TitleFromPath(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// fillPlaceholders replaces empty display fields with placeholders.
func (m *Metadata) fillPlaceholders() {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = TitleFromPath(m.Path)
	}
	if strings.TrimSpace(m.Artist) == "" {
		m.Artist = UnknownArtist
	}
	if strings.TrimSpace(m.Album) == "" {
		m.Album = UnknownAlbum
	}
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
