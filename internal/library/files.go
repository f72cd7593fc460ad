// Package library lists the audio files of a chosen folder and keeps the
// flat library index built from that listing.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/llehouerou/listentwo/internal/tags"
)

// ErrNotDirectory is returned when the selected path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Extensions is the audio-file allow-list.
var Extensions = []string{
	tags.ExtMP3, tags.ExtFLAC, tags.ExtWAV, tags.ExtM4A, tags.ExtAAC, tags.ExtOGG,
}

// IsAudioFile reports whether path has an allowed audio extension.
func IsAudioFile(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// ListAudioFiles returns the absolute paths of the audio files directly
// inside folder, sorted by name. Subdirectories are not descended.
func ListAudioFiles(ctx context.Context, folder string) ([]string, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", folder, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !IsAudioFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(abs, e.Name()))
	}
	return files, nil
}
