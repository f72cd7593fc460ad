package tags

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
)

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/music/Artist - Song.mp3", "Artist - Song"},
		{`C:\music\track.flac`, "track"},
		{"/music/no-ext", "no-ext"},
		{"/music/a.b.ogg", "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromPath(tt.path))
		})
	}
}

func TestReadMetadata_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.flac")

	md := ReadMetadata(context.Background(), path)

	assert.Equal(t, Placeholder(path), md)
	assert.Equal(t, "gone", md.Title)
	assert.Equal(t, UnknownArtist, md.Artist)
	assert.Equal(t, UnknownAlbum, md.Album)
}

func TestReadMetadata_GarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.ogg")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o600); err != nil {
		t.Fatal(err)
	}

	md := ReadMetadata(context.Background(), path)

	assert.Equal(t, "noise", md.Title)
	assert.Equal(t, UnknownArtist, md.Artist)
	assert.Equal(t, UnknownAlbum, md.Album)
	assert.Empty(t, md.Lyrics)
	assert.False(t, md.HasCover())
}

func TestReadMetadata_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	createMinimalMP3(t, path)
	tagMP3(t, path, func(tag *id3v2.Tag) { tag.SetTitle("Tagged") })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	md := ReadMetadata(ctx, path)
	assert.Equal(t, "song", md.Title)
}

func TestReadMetadata_TaggedMP3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	createMinimalMP3(t, path)
	tagMP3(t, path, func(tag *id3v2.Tag) {
		tag.SetTitle("Real Title")
		tag.SetArtist("Real Artist")
		tag.SetAlbum("Real Album")
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "eng",
			Lyrics:   "[00:02.00]sing",
		})
	})
	writePNG(t, filepath.Join(dir, "cover.png"), 32, 32)

	md := ReadMetadata(context.Background(), path)

	assert.Equal(t, "Real Title", md.Title)
	assert.Equal(t, "Real Artist", md.Artist)
	assert.Equal(t, "Real Album", md.Album)
	assert.Contains(t, md.Lyrics, "sing")
	assert.True(t, md.HasCover(), "folder art should be picked up")
	assert.Equal(t, "image/png", md.CoverMIME)
}
