package tags

import (
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// flacLyrics returns the LYRICS (or UNSYNCEDLYRICS) Vorbis comment.
func flacLyrics(path string) string {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return ""
	}
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return ""
		}
		for _, key := range []string{"LYRICS", "UNSYNCEDLYRICS"} {
			values, err := cmt.Get(key)
			if err != nil {
				continue
			}
			for _, v := range values {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
		return ""
	}
	return ""
}

// flacCover returns the first PICTURE block, preferring the front cover.
func flacCover(path string) ([]byte, string) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, ""
	}
	var fallback *flacpicture.MetadataBlockPicture
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return pic.ImageData, pic.MIME
		}
		if fallback == nil {
			fallback = pic
		}
	}
	if fallback != nil {
		return fallback.ImageData, fallback.MIME
	}
	return nil, ""
}
