package lyrics

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SidecarPath returns the same-name .lrc path for an audio file.
func SidecarPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".lrc"
}

// ReadSidecar loads the .lrc file next to audioPath.
// Returns nil, nil when no sidecar exists.
func ReadSidecar(audioPath string) (*Lyrics, error) {
	if audioPath == "" {
		return nil, nil
	}
	f, err := os.Open(SidecarPath(audioPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := ParseLRC(f)
	if err != nil {
		return nil, err
	}
	if len(l.Lines) == 0 {
		return nil, nil
	}
	return l, nil
}
