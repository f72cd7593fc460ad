//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
)

type fakeControls struct {
	view   playback.View
	plays  int
	seekBy time.Duration
	mode   session.RepeatMode
	volume float64
}

func (f *fakeControls) Play() error                        { f.plays++; return nil }
func (f *fakeControls) Pause()                             {}
func (f *fakeControls) Toggle() error                      { return nil }
func (f *fakeControls) Stop()                              {}
func (f *fakeControls) Next() error                        { return nil }
func (f *fakeControls) Previous() error                    { return nil }
func (f *fakeControls) SeekBy(d time.Duration) error       { f.seekBy = d; return nil }
func (f *fakeControls) SeekTo(time.Duration) error         { return nil }
func (f *fakeControls) SetVolume(v float64)                { f.volume = v }
func (f *fakeControls) SetRepeatMode(m session.RepeatMode) { f.mode = m }
func (f *fakeControls) View() playback.View                { return f.view }

func TestPlayerAdapter_Status(t *testing.T) {
	f := &fakeControls{}
	p := &playerAdapter{c: f}

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusStopped, status)

	track := playlist.NewTrack("/music/a.mp3")
	f.view.Track = &track
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)

	f.view.Playing = true
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.Play())
	assert.Zero(t, f.plays, "play while playing is a no-op")
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	f := &fakeControls{}
	p := &playerAdapter{c: f}

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)

	track := playlist.NewTrack("/music/a.mp3")
	track.Title = "Song"
	track.Duration = 3 * time.Second
	f.view.Track = &track
	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Song", meta.Title)
	assert.Equal(t, types.Microseconds(3_000_000), meta.Length)
}

func TestPlayerAdapter_SeekAndVolume(t *testing.T) {
	f := &fakeControls{}
	p := &playerAdapter{c: f}

	require.NoError(t, p.Seek(types.Microseconds(-2_000_000)))
	assert.Equal(t, -2*time.Second, f.seekBy)

	require.NoError(t, p.SetVolume(0.4))
	assert.InDelta(t, 0.4, f.volume, 1e-9)

	f.view.Volume, f.view.Muted = 0.7, true
	v, _ := p.Volume()
	assert.Zero(t, v)
}

func TestPlayerAdapter_Shuffle(t *testing.T) {
	f := &fakeControls{}
	p := &playerAdapter{c: f}

	require.NoError(t, p.SetShuffle(true))
	assert.Equal(t, session.RepeatShuffle, f.mode)

	f.view.RepeatMode = session.RepeatLoopAll
	status, _ := p.LoopStatus()
	assert.Equal(t, types.LoopStatusPlaylist, status)
}
