//go:build linux

package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/session"
)

// Adapter connects the playback controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	log    *zap.Logger
}

// New creates and starts a new MPRIS adapter.
func New(c Controls, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{
		server: server.NewServer("listentwo", &rootAdapter{}, &playerAdapter{c: c}),
		log:    log,
	}
	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris server stopped", zap.Error(err))
		}
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error                { return nil }
func (r *rootAdapter) Quit() error                 { return nil }
func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) {
	return "ListenTwo", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// and shuffle extensions.
type playerAdapter struct {
	c Controls
}

func (p *playerAdapter) Next() error      { return p.c.Next() }
func (p *playerAdapter) Previous() error  { return p.c.Previous() }
func (p *playerAdapter) PlayPause() error { return p.c.Toggle() }

func (p *playerAdapter) Pause() error {
	p.c.Pause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.c.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.c.View().Playing {
		return nil
	}
	return p.c.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.c.SeekBy(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.c.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	v := p.c.View()
	switch {
	case v.Playing:
		return types.PlaybackStatusPlaying, nil
	case v.Track != nil:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error)        { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error       { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.c.View().Track
	if track == nil {
		return types.Metadata{}, nil
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath("/org/mpris/MediaPlayer2/Track/" + trackHash(track.Path)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.Title,
		Artist:  []string{track.Artist},
		Album:   track.Album,
	}
	if art := ArtPath(track); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	v := p.c.View()
	if v.Muted {
		return 0, nil
	}
	return v.Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.c.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.c.View().Position.Microseconds(), nil
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return len(p.c.View().Queue) > 0, nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return len(p.c.View().Queue) > 0, nil }
func (p *playerAdapter) CanPlay() (bool, error)       { return len(p.c.View().Queue) > 0, nil }
func (p *playerAdapter) CanPause() (bool, error)      { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)       { return true, nil }
func (p *playerAdapter) CanControl() (bool, error)    { return true, nil }

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if loopStatusName(p.c.View().RepeatMode) == "Playlist" {
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	var name string
	switch status {
	case types.LoopStatusNone:
		name = "None"
	case types.LoopStatusTrack:
		name = "Track"
	case types.LoopStatusPlaylist:
		name = "Playlist"
	}
	p.c.SetRepeatMode(repeatFor(p.c.View().RepeatMode, name, nil))
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.c.View().RepeatMode == session.RepeatShuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.c.SetRepeatMode(repeatFor(p.c.View().RepeatMode, "", &shuffle))
	return nil
}
