// Package snapshot encodes the player session into a flat JSON record and
// restores it permissively: a missing or malformed field falls back to its
// default and produces a warning, never an error.
package snapshot

import (
	"encoding/json"
	"math"
	"time"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/tags"
)

// Key is the key-value store key holding the latest snapshot.
const Key = "musicPlayerState"

// Song summarizes the current track.
type Song struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	FilePath string  `json:"filePath"`
	CoverURL *string `json:"coverUrl"`
}

// Playlist is the persisted form of a user playlist.
type Playlist struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Songs []string `json:"songs"`
}

// Snapshot is the persisted player state.
type Snapshot struct {
	BackgroundMode        string `json:"backgroundMode"`
	DesktopBackgroundMode string `json:"desktopBackgroundMode"`

	Volume   float64 `json:"volume"`
	IsMuted  bool    `json:"isMuted"`
	PlayMode string  `json:"playMode"`

	Playlist     []string `json:"playlist"`
	CurrentIndex int      `json:"currentIndex"`
	CurrentTime  float64  `json:"currentTime"`

	DesktopBg1       *string `json:"desktopBg1"`
	DesktopBg2       *string `json:"desktopBg2"`
	CoverBg1         *string `json:"coverBg1"`
	CoverBg2         *string `json:"coverBg2"`
	ActiveBgIndex    int     `json:"activeBgIndex"`
	ActiveCoverIndex int     `json:"activeCoverIndex"`

	CurrentSong *Song `json:"currentSong"`

	ShowPlaylist bool `json:"showPlaylist"`
	ShowLyrics   bool `json:"showLyrics"`

	Playlists          []Playlist `json:"playlists"`
	SelectedPlaylistID string     `json:"selectedPlaylistId"`
	AllSongs           []string   `json:"allSongs"`
}

// Defaults returns the snapshot of a fresh session.
func Defaults() Snapshot {
	return Snapshot{
		BackgroundMode:        session.BackgroundCover,
		DesktopBackgroundMode: session.DesktopLocked,
		Volume:                session.DefaultVolume,
		PlayMode:              session.RepeatSequence.String(),
		Playlist:              []string{},
		CurrentIndex:          -1,
		ActiveBgIndex:         1,
		ActiveCoverIndex:      1,
		ShowPlaylist:          true,
		Playlists:             []Playlist{},
		SelectedPlaylistID:    session.SourceLibrary,
		AllSongs:              []string{},
	}
}

// Encode captures s. Every field is coerced to a plain value; images that
// are not self-contained data URLs become null.
func Encode(s *session.Session) Snapshot {
	bg := s.Background
	snap := Snapshot{
		BackgroundMode:        orDefault(bg.Mode, session.BackgroundCover),
		DesktopBackgroundMode: orDefault(bg.DesktopMode, session.DesktopLocked),
		Volume:                finiteOr(s.Volume(), session.DefaultVolume),
		IsMuted:               s.Muted(),
		PlayMode:              s.RepeatMode().String(),
		Playlist:              nonNil(s.Queue()),
		CurrentIndex:          s.CurrentIndex(),
		CurrentTime:           finiteOr(seconds(s.Position()), 0),
		DesktopBg1:            image(bg.Desktop[0]),
		DesktopBg2:            image(bg.Desktop[1]),
		CoverBg1:              image(bg.Cover[0]),
		CoverBg2:              image(bg.Cover[1]),
		ActiveBgIndex:         activeIndex(bg.ActiveDesktop),
		ActiveCoverIndex:      activeIndex(bg.ActiveCover),
		ShowPlaylist:          s.ShowPlaylist,
		ShowLyrics:            s.ShowLyrics,
		Playlists:             encodePlaylists(s.Playlists().All()),
		SelectedPlaylistID:    session.NormalizeSource(s.Source()),
		AllSongs:              nonNil(s.Library().Songs()),
	}
	if t := s.CurrentTrack(); t != nil {
		snap.CurrentSong = &Song{
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			FilePath: t.Path,
			CoverURL: image(t.Cover),
		}
	}
	if snap.CurrentIndex < -1 || snap.CurrentIndex >= len(snap.Playlist) {
		snap.CurrentIndex = -1
	}
	return snap
}

// Marshal renders snap as compact JSON. It never fails.
func Marshal(snap Snapshot) []byte {
	data, err := json.Marshal(sanitize(snap))
	if err != nil {
		data, _ = json.Marshal(Defaults())
	}
	return data
}

// MarshalIndent renders snap as indented JSON for sidecar files.
func MarshalIndent(snap Snapshot) []byte {
	data, err := json.MarshalIndent(sanitize(snap), "", "  ")
	if err != nil {
		data, _ = json.MarshalIndent(Defaults(), "", "  ")
	}
	return data
}

func sanitize(snap Snapshot) Snapshot {
	snap.Volume = finiteOr(snap.Volume, session.DefaultVolume)
	snap.CurrentTime = finiteOr(snap.CurrentTime, 0)
	snap.Playlist = nonNil(snap.Playlist)
	snap.AllSongs = nonNil(snap.AllSongs)
	if snap.Playlists == nil {
		snap.Playlists = []Playlist{}
	}
	return snap
}

func encodePlaylists(lists []playlist.Playlist) []Playlist {
	out := make([]Playlist, 0, len(lists))
	for _, p := range lists {
		out = append(out, Playlist{ID: p.ID, Name: p.Name, Songs: nonNil(p.Songs)})
	}
	return out
}

func image(url string) *string {
	if !tags.IsDataURL(url) {
		return nil
	}
	return &url
}

func activeIndex(i int) int {
	if i == 2 {
		return 2
	}
	return 1
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
