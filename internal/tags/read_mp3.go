package tags

import (
	"strings"

	"github.com/bogem/id3v2/v2"
)

// readID3v2 fills md using only the id3v2 library. dhowden/tag has issues
// with some UTF-16 encoded ID3 tags.
func readID3v2(path string, md *Metadata) error {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer id3tag.Close()

	md.Title = id3tag.Title()
	md.Artist = id3tag.Artist()
	if md.Artist == "" {
		md.Artist = getID3TextFrame(id3tag, "TPE2")
	}
	md.Album = id3tag.Album()

	for _, frame := range id3tag.GetFrames("APIC") {
		if pic, ok := frame.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			md.Cover = pic.Picture
			md.CoverMIME = pic.MimeType
			break
		}
	}
	return nil
}

// id3v2Lyrics returns the USLT text, else a TXXX frame whose description
// mentions lyrics.
func id3v2Lyrics(path string) string {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer id3tag.Close()

	for _, frame := range id3tag.GetFrames("USLT") {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			if text := strings.TrimSpace(uslt.Lyrics); text != "" {
				return text
			}
		}
	}
	for _, frame := range id3tag.GetFrames("TXXX") {
		txxx, ok := frame.(id3v2.UserDefinedTextFrame)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(txxx.Description), "lyrics") {
			if text := strings.TrimSpace(txxx.Value); text != "" {
				return text
			}
		}
	}
	return ""
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
