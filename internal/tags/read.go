package tags

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ReadMetadata reads display metadata from path. It never fails: any error
// along the way leaves the filename-derived placeholder in place.
func ReadMetadata(ctx context.Context, path string) Metadata {
	md := Placeholder(path)
	if ctx.Err() != nil {
		return md
	}
	if _, err := os.Stat(path); err != nil {
		return md
	}

	if err := readTags(path, &md); err != nil {
		// Fallback readers for files dhowden/tag rejects.
		switch extOf(path) {
		case ExtMP3:
			_ = readID3v2(path, &md)
		case ExtFLAC, ExtM4A, ExtOGG:
			_ = readTaglib(path, &md)
		}
	}
	if ctx.Err() != nil {
		return md
	}

	if md.Lyrics == "" {
		md.Lyrics = readEmbeddedLyrics(path)
	}
	if !md.HasCover() {
		md.Cover, md.CoverMIME = readExtraCover(path)
	}
	if md.Duration == 0 {
		md.Duration = readDuration(path)
	}

	md.fillPlaceholders()
	return md
}

// readTags fills md using dhowden/tag.
func readTags(path string, md *Metadata) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return err
	}

	md.Title = m.Title()
	md.Artist = m.Artist()
	if md.Artist == "" {
		md.Artist = m.AlbumArtist()
	}
	md.Album = m.Album()
	md.Lyrics = m.Lyrics()
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		md.Cover = pic.Data
		md.CoverMIME = pic.MIMEType
	}
	return nil
}

// readTaglib fills md using TagLib. Used for FLAC, M4A and OGG files that
// dhowden/tag cannot parse.
func readTaglib(path string, md *Metadata) error {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return err
	}
	t := taglibTags(raw)
	md.Title = t.get(taglib.Title)
	md.Artist = t.get(taglib.Artist, taglib.AlbumArtist)
	md.Album = t.get(taglib.Album)
	md.Lyrics = t.get(taglibLyricsKey, "UNSYNCEDLYRICS")
	return nil
}

const taglibLyricsKey = "LYRICS"

// readEmbeddedLyrics tries the format-specific lyric locations.
func readEmbeddedLyrics(path string) string {
	var text string
	switch extOf(path) {
	case ExtMP3:
		text = id3v2Lyrics(path)
	case ExtFLAC:
		text = flacLyrics(path)
	}
	if text != "" {
		return text
	}
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return ""
	}
	return taglibTags(raw).get(taglibLyricsKey, "UNSYNCEDLYRICS")
}

// readExtraCover looks for FLAC picture blocks, then folder images.
func readExtraCover(path string) ([]byte, string) {
	if extOf(path) == ExtFLAC {
		if data, mime := flacCover(path); len(data) > 0 {
			return data, mime
		}
	}
	return FindFolderArt(filepath.Dir(path))
}
