package tags

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	// Decoders for embedded and folder art.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Common cover art filenames to look for in album folders.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// DataURLPrefix starts every persistable cover string.
const DataURLPrefix = "data:"

// FolderArtPath returns the first common cover art file in dir, or "".
func FolderArtPath(dir string) string {
	for _, filename := range coverArtFilenames {
		for _, name := range []string{filename, strings.ToUpper(filename)} {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() && fi.Size() > 0 {
				return path
			}
		}
	}
	return ""
}

// FindFolderArt reads the cover art file of dir.
func FindFolderArt(dir string) ([]byte, string) {
	path := FolderArtPath(dir)
	if path == "" {
		return nil, ""
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, ""
	}
	mime := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		mime = "image/png"
	}
	return data, mime
}

// CoverDataURL turns raw image bytes into a self-contained
// data:image/jpeg;base64 string, scaled to fit maxPx on both sides.
// Returns "" when the image cannot be decoded.
func CoverDataURL(data []byte, maxPx uint) string {
	if len(data) == 0 {
		return ""
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	if maxPx > 0 {
		img = resize.Thumbnail(maxPx, maxPx, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// IsDataURL reports whether s is a self-contained data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, DataURLPrefix)
}
