package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/listentwo/internal/tags"
)

// Supported reports whether Play has a decoder for path's extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case tags.ExtMP3, tags.ExtFLAC, tags.ExtWAV, tags.ExtOGG, tags.ExtM4A, tags.ExtAAC:
		return true
	}
	return false
}

// openStream opens and decodes path. The returned streamer owns the file.
func openStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case tags.ExtMP3:
		streamer, format, err = decodeGoMP3(f)
	case tags.ExtFLAC:
		if err = tags.SkipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case tags.ExtWAV:
		streamer, format, err = wav.Decode(f)
	case tags.ExtOGG:
		streamer, format, err = decodeVorbis(f)
	case tags.ExtM4A, tags.ExtAAC:
		streamer, format, err = decodeM4A(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}
