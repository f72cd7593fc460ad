package playback

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/listentwo/internal/errmsg"
	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/player"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/snapshot"
	"github.com/llehouerou/listentwo/internal/state"
	"github.com/llehouerou/listentwo/internal/tags"
)

var testFiles = []string{"/music/a.mp3", "/music/b.mp3", "/music/c.mp3"}

type fixture struct {
	c      *Controller
	player *player.Mock
	store  *state.Mock
}

func titleMetadata(_ context.Context, path string) tags.Metadata {
	return tags.Metadata{Title: "T " + filepath.Base(path), Duration: 3 * time.Minute}
}

func newFixture(t *testing.T, opts Options, meta func(context.Context, string) tags.Metadata) *fixture {
	t.Helper()
	if meta == nil {
		meta = titleMetadata
	}
	f := &fixture{player: player.NewMock(), store: state.NewMock()}
	f.c = New(Deps{
		Player:       f.player,
		Store:        f.store,
		ReadMetadata: meta,
		ReadLyrics:   func(string) (*lyrics.Lyrics, error) { return nil, nil },
		ListFiles: func(_ context.Context, folder string) ([]string, error) {
			if folder != "/music" {
				return nil, os.ErrNotExist
			}
			return testFiles, nil
		},
	}, opts)
	require.NoError(t, f.c.SelectFolder(context.Background(), "/music"))
	return f
}

func TestLoad_PlaysAfterMetadata(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(1))
		synctest.Wait()

		v := f.c.View()
		assert.Equal(t, []string{"/music/b.mp3"}, f.player.PlayCalls())
		assert.False(t, v.Loading)
		assert.True(t, v.Playing)
		assert.Equal(t, 1, v.Index)
		assert.Equal(t, "T b.mp3", v.Track.Title)
		assert.Equal(t, 3*time.Minute, v.Duration)
		assert.Contains(t, f.store.Values(), snapshot.Key)
	})
}

func TestLoad_PlaceholderWhileReading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		gate := make(chan struct{})
		f := newFixture(t, Options{}, func(ctx context.Context, path string) tags.Metadata {
			<-gate
			return titleMetadata(ctx, path)
		})
		defer f.c.Close()

		require.NoError(t, f.c.Load(1))
		synctest.Wait()

		v := f.c.View()
		assert.True(t, v.Loading)
		assert.False(t, v.Playing)
		assert.Equal(t, "b", v.Track.Title)
		assert.Equal(t, tags.UnknownArtist, v.Track.Artist)

		close(gate)
		synctest.Wait()
		assert.False(t, f.c.View().Loading)
	})
}

func TestLoad_OutOfRange(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()

	err := f.c.Load(7)
	require.ErrorIs(t, err, ErrEmptyQueue)
	assert.Equal(t, -1, f.c.View().Index)
}

func TestLoad_StaleResultDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		gate := make(chan struct{})
		f := newFixture(t, Options{}, func(ctx context.Context, path string) tags.Metadata {
			if path == "/music/a.mp3" {
				<-gate
			}
			return titleMetadata(ctx, path)
		})
		defer f.c.Close()

		require.NoError(t, f.c.Load(0))
		synctest.Wait()
		require.NoError(t, f.c.Load(1))
		synctest.Wait()

		close(gate)
		synctest.Wait()

		v := f.c.View()
		assert.Equal(t, []string{"/music/b.mp3"}, f.player.PlayCalls())
		assert.Equal(t, 1, v.Index)
		assert.Equal(t, "/music/b.mp3", v.Track.Path)
		assert.True(t, v.Playing)
	})
}

func TestStop_CancelsPendingLoad(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, func(ctx context.Context, path string) tags.Metadata {
			<-ctx.Done()
			return tags.Metadata{}
		})
		defer f.c.Close()

		require.NoError(t, f.c.Load(0))
		f.c.Stop()
		synctest.Wait()

		v := f.c.View()
		assert.Empty(t, f.player.PlayCalls())
		assert.False(t, v.Loading)
		assert.False(t, v.Playing)
		assert.Equal(t, 0, v.Index)
	})
}

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		mode      session.RepeatMode
		from      int
		wantIndex int
		wantPlay  bool
	}{
		{"sequence advances", session.RepeatSequence, 0, 1, true},
		{"sequence stops at end", session.RepeatSequence, 2, 2, false},
		{"loop wraps", session.RepeatLoopAll, 2, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				f := newFixture(t, Options{}, nil)
				defer f.c.Close()
				f.c.SetRepeatMode(tt.mode)

				require.NoError(t, f.c.Load(tt.from))
				synctest.Wait()
				require.NoError(t, f.c.Next())
				synctest.Wait()

				v := f.c.View()
				assert.Equal(t, tt.wantIndex, v.Index)
				assert.Equal(t, tt.wantPlay, v.Playing)
			})
		})
	}
}

func TestNext_RandomAvoidsCurrent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{ShuffleAvoidRepeat: true}, nil)
		defer f.c.Close()
		f.c.SetRepeatMode(session.RepeatShuffle)

		require.NoError(t, f.c.Load(1))
		synctest.Wait()
		for range 10 {
			prev := f.c.View().Index
			require.NoError(t, f.c.Next())
			synctest.Wait()
			assert.NotEqual(t, prev, f.c.View().Index)
		}
	})
}

func TestTrackEnd_Advances(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(0))
		synctest.Wait()
		f.player.SimulateFinished()
		synctest.Wait()

		assert.Equal(t, 1, f.c.View().Index)
		assert.Equal(t, []string{"/music/a.mp3", "/music/b.mp3"}, f.player.PlayCalls())
	})
}

func TestPrevious_WrapsToLast(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(0))
		synctest.Wait()
		require.NoError(t, f.c.Previous())
		synctest.Wait()

		assert.Equal(t, 2, f.c.View().Index)
	})
}

func TestLoad_PlayFailureKeepsTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()
		sub := f.c.Subscribe()
		f.player.SetPlayError(errors.New("bad stream"))

		require.NoError(t, f.c.Load(0))
		synctest.Wait()

		v := f.c.View()
		assert.Equal(t, 0, v.Index)
		assert.Equal(t, "/music/a.mp3", v.Track.Path)
		assert.Equal(t, "T a.mp3", v.Track.Title)
		assert.False(t, v.Playing)
		assert.False(t, v.Loading)

		var got *ErrorEvent
		for got == nil {
			select {
			case e := <-sub.Error:
				if e.Operation == errmsg.OpPlay {
					got = &e
				}
			default:
				t.Fatal("no play error published")
			}
		}
		assert.Equal(t, "/music/a.mp3", got.Path)
	})
}

func TestToggle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Toggle())
		synctest.Wait()
		assert.Equal(t, []string{"/music/a.mp3"}, f.player.PlayCalls())
		assert.True(t, f.c.View().Playing)

		f.player.SetPosition(30 * time.Second)
		require.NoError(t, f.c.Toggle())
		v := f.c.View()
		assert.False(t, v.Playing)
		assert.Equal(t, 30*time.Second, v.Position)
		assert.Equal(t, player.Paused, f.player.State())

		require.NoError(t, f.c.Toggle())
		assert.True(t, f.c.View().Playing)
		assert.Equal(t, player.Playing, f.player.State())
		assert.Len(t, f.player.PlayCalls(), 1, "resume must not reload")
	})
}

func TestToggle_EmptyQueue(t *testing.T) {
	c := New(Deps{Player: player.NewMock()}, Options{})
	defer c.Close()

	require.ErrorIs(t, c.Toggle(), ErrEmptyQueue)
}

func TestRemoveSong_CurrentStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(1))
		synctest.Wait()

		res := f.c.RemoveSong(session.SourceLibrary, "/music/b.mp3")
		assert.True(t, res.Removed)
		assert.True(t, res.Stopped)

		v := f.c.View()
		assert.Equal(t, -1, v.Index)
		assert.Nil(t, v.Track)
		assert.False(t, v.Playing)
		assert.Equal(t, player.Stopped, f.player.State())
		assert.Equal(t, []string{"/music/a.mp3", "/music/c.mp3"}, v.Queue)
	})
}

func TestRemoveSong_EarlierShiftsIndex(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(2))
		synctest.Wait()

		res := f.c.RemoveSong(session.SourceLibrary, "/music/a.mp3")
		assert.True(t, res.Removed)
		assert.False(t, res.Stopped)

		v := f.c.View()
		assert.Equal(t, 1, v.Index)
		assert.True(t, v.Playing)
	})
}

func TestRemoveSong_EarlierWhileLoading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		gate := make(chan struct{})
		f := newFixture(t, Options{}, func(ctx context.Context, path string) tags.Metadata {
			if path == "/music/c.mp3" {
				<-gate
			}
			return titleMetadata(ctx, path)
		})
		defer f.c.Close()

		require.NoError(t, f.c.Load(2))
		synctest.Wait()
		require.True(t, f.c.View().Loading)

		res := f.c.RemoveSong(session.SourceLibrary, "/music/a.mp3")
		assert.True(t, res.Removed)
		assert.False(t, res.Stopped)

		close(gate)
		synctest.Wait()

		v := f.c.View()
		assert.Equal(t, []string{"/music/c.mp3"}, f.player.PlayCalls())
		assert.Equal(t, 1, v.Index)
		assert.False(t, v.Loading)
		assert.True(t, v.Playing)
		assert.Equal(t, "T c.mp3", v.Track.Title)
	})
}

func TestSetSearch_DropsCurrent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		require.NoError(t, f.c.Load(0))
		synctest.Wait()

		f.c.SetSearch("c")
		v := f.c.View()
		assert.Equal(t, []string{"/music/c.mp3"}, v.Queue)
		assert.Equal(t, -1, v.Index)
		assert.Equal(t, player.Stopped, f.player.State())
	})
}

func TestSelectFolder_FailureLeavesState(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()
	sub := f.c.Subscribe()

	err := f.c.SelectFolder(context.Background(), "/missing")
	require.ErrorIs(t, err, os.ErrNotExist)

	v := f.c.View()
	assert.Equal(t, "/music", v.Folder)
	assert.Equal(t, testFiles, v.Queue)
	e := <-sub.Error
	assert.Equal(t, errmsg.OpFolderOpen, e.Operation)
}

func TestSelectFolder_RestoresSidecar(t *testing.T) {
	dir := t.TempDir()
	files := []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.mp3")}

	saved := snapshot.Defaults()
	saved.PlayMode = session.RepeatLoopAll.String()
	saved.Volume = 0.3
	saved.AllSongs = files
	saved.Playlist = files
	saved.CurrentIndex = 1
	saved.CurrentTime = 12
	saved.CurrentSong = &snapshot.Song{Title: "Saved", FilePath: files[1]}
	require.NoError(t, snapshot.WriteSidecar(dir, saved))

	c := New(Deps{
		Player: player.NewMock(),
		ListFiles: func(context.Context, string) ([]string, error) {
			return files, nil
		},
	}, Options{RestoreSidecar: true})
	defer c.Close()

	require.NoError(t, c.SelectFolder(context.Background(), dir))

	v := c.View()
	assert.Equal(t, session.RepeatLoopAll, v.RepeatMode)
	assert.InDelta(t, 0.3, v.Volume, 1e-9)
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "Saved", v.Track.Title)
	assert.Equal(t, 12*time.Second, v.Position)
	assert.False(t, v.Playing)
}

func TestPlay_ResumesRestoredPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		saved := snapshot.Defaults()
		saved.AllSongs = testFiles
		saved.Playlist = testFiles
		saved.CurrentIndex = 2
		saved.CurrentTime = 42
		saved.CurrentSong = &snapshot.Song{FilePath: "/music/c.mp3"}
		p, warnings := snapshot.Decode(snapshot.Marshal(saved))
		require.Empty(t, warnings)

		f.c.Restore(p)
		require.Equal(t, 2, f.c.View().Index)

		require.NoError(t, f.c.Play())
		synctest.Wait()

		v := f.c.View()
		assert.True(t, v.Playing)
		assert.Equal(t, 42*time.Second, v.Position)
		assert.Equal(t, []time.Duration{42 * time.Second}, f.player.SeekCalls())
	})
}

func TestRestoreStored(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()

	saved := snapshot.Defaults()
	saved.IsMuted = true
	saved.ShowLyrics = true
	require.NoError(t, f.store.Put(snapshot.Key, snapshot.Marshal(saved)))

	warnings, err := f.c.RestoreStored()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	v := f.c.View()
	assert.True(t, v.Muted)
	assert.True(t, v.ShowLyrics)
	assert.Zero(t, f.player.Volume())
}

func TestRestoreStored_RemembersFolder(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()
	assert.Equal(t, []byte("/music"), f.store.Values()[FolderKey])

	fresh := New(Deps{Player: player.NewMock(), Store: f.store}, Options{})
	defer fresh.Close()
	_, err := fresh.RestoreStored()
	require.NoError(t, err)
	assert.Equal(t, "/music", fresh.Folder())
}

func TestClose_WritesSnapshot(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)

		require.NoError(t, f.c.Load(1))
		synctest.Wait()
		require.NoError(t, f.c.Close())

		var snap snapshot.Snapshot
		require.NoError(t, json.Unmarshal(f.store.Values()[snapshot.Key], &snap))
		assert.Equal(t, 1, snap.CurrentIndex)
		require.NotNil(t, snap.CurrentSong)
		assert.Equal(t, "/music/b.mp3", snap.CurrentSong.FilePath)
		assert.Equal(t, "T b.mp3", snap.CurrentSong.Title)
		assert.Equal(t, player.Stopped, f.player.State())
	})
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	require.NoError(t, f.c.Close())
	puts := f.store.Puts()
	require.NoError(t, f.c.Close())
	assert.Equal(t, puts, f.store.Puts())
}

func TestRunAutosave(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			f.c.RunAutosave(ctx, time.Second)
			close(done)
		}()

		time.Sleep(1500 * time.Millisecond)
		synctest.Wait()
		saved := f.store.Puts()

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, saved, f.store.Puts(), "unchanged session must not be rewritten")

		cancel()
		<-done
	})
}

func TestSave_ReportsStoreError(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()
	sub := f.c.Subscribe()
	f.store.PutErr = errors.New("disk full")

	f.c.Save()

	e := <-sub.Error
	assert.Equal(t, errmsg.OpSessionSave, e.Operation)
	assert.Equal(t, snapshot.Key, e.Path)
}

func TestExportSidecar(t *testing.T) {
	t.Run("no folder", func(t *testing.T) {
		c := New(Deps{Player: player.NewMock()}, Options{})
		defer c.Close()
		require.ErrorIs(t, c.ExportSidecar(), ErrNoFolder)
	})

	t.Run("writes state file", func(t *testing.T) {
		dir := t.TempDir()
		c := New(Deps{
			Player: player.NewMock(),
			ListFiles: func(context.Context, string) ([]string, error) {
				return []string{filepath.Join(dir, "x.flac")}, nil
			},
		}, Options{})
		defer c.Close()
		require.NoError(t, c.SelectFolder(context.Background(), dir))

		require.NoError(t, c.ExportSidecar())

		p, warnings, ok, err := snapshot.ReadSidecar(dir)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, warnings)
		assert.Equal(t, []string{filepath.Join(dir, "x.flac")}, p.AllSongs)
	})
}

func TestVolume(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	defer f.c.Close()

	f.c.SetVolume(0.4)
	assert.InDelta(t, 0.4, f.player.Volume(), 1e-9)

	f.c.ToggleMute()
	assert.Zero(t, f.player.Volume())
	assert.True(t, f.c.View().Muted)

	f.c.ToggleMute()
	assert.InDelta(t, 0.4, f.player.Volume(), 1e-9)
}

func TestCurrentLyricIndex(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, func(_ context.Context, path string) tags.Metadata {
			return tags.Metadata{
				Title:    "sung",
				Duration: time.Minute,
				Lyrics:   "[00:01.00]one\n[00:05.00]two",
			}
		})
		defer f.c.Close()

		assert.Equal(t, -1, f.c.CurrentLyricIndex())

		require.NoError(t, f.c.Load(0))
		synctest.Wait()
		assert.Equal(t, -1, f.c.CurrentLyricIndex())

		require.NoError(t, f.c.SeekTo(6*time.Second))
		assert.Equal(t, 1, f.c.CurrentLyricIndex())
		assert.Equal(t, []time.Duration{6 * time.Second}, f.player.SeekCalls())
	})
}

func TestSamples_ComeFromPlayer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, Options{}, nil)
		defer f.c.Close()

		assert.Empty(t, f.c.Samples(4))
		f.player.SetSamples([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
		assert.Equal(t, []float64{0.3, 0.4, 0.5}, f.c.Samples(3))
		assert.Len(t, f.c.Samples(16), 5)
	})
}
