package mpris

import (
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/tags"
)

// ArtPath returns a local file holding the cover art of t, or "". Folder
// art is used as is; an embedded cover is written once to the cache
// directory.
func ArtPath(t *playlist.Track) string {
	if t == nil {
		return ""
	}
	if path := tags.FolderArtPath(filepath.Dir(t.Path)); path != "" {
		return path
	}
	if !tags.IsDataURL(t.Cover) {
		return ""
	}
	path, err := xdg.CacheFile(filepath.Join("listentwo", "covers", trackHash(t.Path)+".jpg"))
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if err := writeDataURL(path, t.Cover); err != nil {
		return ""
	}
	return path
}

func writeDataURL(path, url string) error {
	_, payload, ok := strings.Cut(url, ",")
	if !ok {
		return errors.New("malformed data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decode cover: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func trackHash(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("%x", h.Sum64())
}
