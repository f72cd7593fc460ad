package playlist

import (
	"strings"
	"time"

	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/tags"
)

// Track is a file path plus its display metadata. Two tracks are the same
// track iff their paths are equal.
type Track struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration

	// Cover is a self-contained data: URL, or "" when unknown.
	Cover  string
	Lyrics *lyrics.Lyrics
}

// NewTrack returns a track carrying filename-derived placeholders.
func NewTrack(path string) Track {
	return Track{
		Path:   path,
		Title:  tags.TitleFromPath(path),
		Artist: tags.UnknownArtist,
		Album:  tags.UnknownAlbum,
	}
}

// Equal reports whether both tracks refer to the same file.
func (t Track) Equal(other Track) bool {
	return t.Path == other.Path
}

// Apply copies read metadata into the track. Cover bytes are converted to a
// persistable data URL scaled to coverPx.
func (t *Track) Apply(md tags.Metadata, coverPx uint) {
	if md.Title != "" {
		t.Title = md.Title
	}
	if md.Artist != "" {
		t.Artist = md.Artist
	}
	if md.Album != "" {
		t.Album = md.Album
	}
	t.Duration = max(md.Duration, 0)
	if md.HasCover() {
		t.Cover = tags.CoverDataURL(md.Cover, coverPx)
	}
	if md.Lyrics != "" {
		t.Lyrics = lyrics.Parse(md.Lyrics)
	}
}

// FileName returns the last path element, accepting both separators.
func FileName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// DisplayName is the file name without extension.
func DisplayName(path string) string {
	return tags.TitleFromPath(path)
}
