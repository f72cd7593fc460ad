package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlaylist(t *testing.T) {
	s := newLoaded(t, "/a.mp3")

	for _, name := range []string{"", "   "} {
		_, ok := s.CreatePlaylist(name)
		assert.False(t, ok)
		assert.Zero(t, s.Playlists().Len())
		assert.Equal(t, SourceLibrary, s.Source())
	}

	p, ok := s.CreatePlaylist("My Mix")
	require.True(t, ok)
	assert.Equal(t, 1, s.Playlists().Len())
	assert.Equal(t, p.ID, s.Source())
	assert.Empty(t, s.Queue())
}

func TestDeletePlaylist(t *testing.T) {
	s := newLoaded(t, "/a.mp3", "/b.mp3")
	p, _ := s.CreatePlaylist("Mix")
	s.AddSongToPlaylist(p.ID, "/b.mp3")

	assert.False(t, s.DeletePlaylist("missing"))
	assert.Equal(t, p.ID, s.Source())

	assert.True(t, s.DeletePlaylist(p.ID))
	assert.Equal(t, SourceLibrary, s.Source())
	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, s.Queue())
}

func TestDeletePlaylist_NotSelected(t *testing.T) {
	s := newLoaded(t, "/a.mp3")
	p, _ := s.CreatePlaylist("One")
	q, _ := s.CreatePlaylist("Two")

	assert.True(t, s.DeletePlaylist(p.ID))
	assert.Equal(t, q.ID, s.Source())
}

func TestAddSongToPlaylist_Duplicate(t *testing.T) {
	s := newLoaded(t, "/a.mp3")
	p, _ := s.CreatePlaylist("Mix")

	assert.True(t, s.AddSongToPlaylist(p.ID, "/a.mp3"))
	assert.False(t, s.AddSongToPlaylist(p.ID, "/a.mp3"))
	assert.Len(t, s.Playlists().Find(p.ID).Songs, 1)
	assert.Equal(t, []string{"/a.mp3"}, s.Queue(), "selected playlist queue follows")

	assert.False(t, s.AddSongToPlaylist("missing", "/a.mp3"))
}

func TestSelectFolder_ReplacesLibrary(t *testing.T) {
	s := newLoaded(t, "/old/a.mp3")
	p, _ := s.CreatePlaylist("Mix")

	s.SelectFolder([]string{"/new/x.mp3", "/new/y.mp3"})
	assert.Equal(t, []string{"/new/x.mp3", "/new/y.mp3"}, s.Library().Songs())
	assert.Empty(t, s.Queue(), "playlist source is unaffected")

	s.SelectSource(SourceLibrary)
	assert.Len(t, s.Queue(), 2)
	assert.NotNil(t, s.Playlists().Find(p.ID))
}

// Removing entry i from a queue where entry cur is playing.
func TestRemoveSong_IndexInvariant(t *testing.T) {
	songs := []string{"/0.mp3", "/1.mp3", "/2.mp3", "/3.mp3", "/4.mp3"}

	for cur := range songs {
		for i := range songs {
			t.Run(fmt.Sprintf("cur=%d/remove=%d", cur, i), func(t *testing.T) {
				s := newLoaded(t, songs...)
				play(t, s, cur)

				res := s.RemoveSong(SourceLibrary, songs[i])
				require.True(t, res.Removed)

				switch {
				case cur == i:
					assert.Equal(t, -1, s.CurrentIndex())
					assert.Nil(t, s.CurrentTrack())
					assert.False(t, s.Playing())
					assert.True(t, res.Stopped)
				case cur > i:
					assert.Equal(t, cur-1, s.CurrentIndex())
					assert.Equal(t, songs[cur], s.CurrentTrack().Path)
					assert.False(t, res.Stopped)
				default:
					assert.Equal(t, cur, s.CurrentIndex())
					assert.Equal(t, songs[cur], s.CurrentTrack().Path)
				}
				assert.Len(t, s.Queue(), len(songs)-1)
			})
		}
	}
}

func TestRemoveSong_FromPlaylist(t *testing.T) {
	s := newLoaded(t, "/a.mp3", "/b.mp3", "/c.mp3")
	p, _ := s.CreatePlaylist("Mix")
	for _, path := range []string{"/a.mp3", "/b.mp3", "/c.mp3"} {
		s.AddSongToPlaylist(p.ID, path)
	}
	play(t, s, 2)

	res := s.RemoveSong(p.ID, "/a.mp3")
	assert.True(t, res.Removed)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, []string{"/b.mp3", "/c.mp3"}, s.Queue())
	assert.Len(t, s.Library().Songs(), 3, "library untouched")
}

func TestRemoveSong_OtherSource(t *testing.T) {
	s := newLoaded(t, "/a.mp3", "/b.mp3")
	p, _ := s.CreatePlaylist("Mix")
	s.AddSongToPlaylist(p.ID, "/b.mp3")
	play(t, s, 0)

	res := s.RemoveSong(SourceLibrary, "/b.mp3")
	assert.True(t, res.Removed)
	assert.Equal(t, 0, s.CurrentIndex(), "playlist queue still holds /b.mp3")
	assert.Equal(t, []string{"/a.mp3"}, s.Library().Songs())
}

func TestRemoveSong_Missing(t *testing.T) {
	s := newLoaded(t, "/a.mp3")
	play(t, s, 0)

	res := s.RemoveSong(SourceLibrary, "/zzz.mp3")
	assert.False(t, res.Removed)
	assert.Equal(t, 0, s.CurrentIndex())

	res = s.RemoveSong("missing-playlist", "/a.mp3")
	assert.False(t, res.Removed)
}

func TestRemoveSong_LegacySourceID(t *testing.T) {
	s := newLoaded(t, "/a.mp3", "/b.mp3")
	res := s.RemoveSong("local", "/a.mp3")
	assert.True(t, res.Removed)
	assert.Equal(t, []string{"/b.mp3"}, s.Queue())
}

func TestRestoreQueue(t *testing.T) {
	s := newLoaded(t, "/a.mp3", "/b.mp3")
	s.RestoreQueue([]string{"/b.mp3", "", "/z.mp3"})
	assert.Equal(t, []string{"/b.mp3", "/z.mp3"}, s.Queue())
}
