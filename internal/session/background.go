package session

import "strings"

// Background display modes.
const (
	BackgroundCover   = "cover"
	BackgroundDesktop = "desktop"

	DesktopLocked  = "locked"
	DesktopDynamic = "dynamic"
)

// Background holds the two-slot background images. Each pair alternates so
// a new image can fade in over the active one.
type Background struct {
	Mode        string
	DesktopMode string

	Desktop [2]string
	Cover   [2]string

	// Active slots, 1 or 2.
	ActiveDesktop int
	ActiveCover   int
}

// DefaultBackground returns cover mode with empty slots.
func DefaultBackground() Background {
	return Background{
		Mode:          BackgroundCover,
		DesktopMode:   DesktopLocked,
		ActiveDesktop: 1,
		ActiveCover:   1,
	}
}

// ActiveCoverImage returns the image in the active cover slot.
func (b Background) ActiveCoverImage() string {
	return b.Cover[slot(b.ActiveCover)]
}

// PushCover places url in the inactive cover slot and activates it.
// Only self-contained data: URLs are kept.
func (b *Background) PushCover(url string) bool {
	if !strings.HasPrefix(url, "data:") || url == b.ActiveCoverImage() {
		return false
	}
	next := 2
	if b.ActiveCover == 2 {
		next = 1
	}
	b.Cover[slot(next)] = url
	b.ActiveCover = next
	return true
}

func slot(active int) int {
	if active == 2 {
		return 1
	}
	return 0
}

// ToggleBackgroundMode switches between cover and desktop backgrounds.
func (s *Session) ToggleBackgroundMode() string {
	if s.Background.Mode == BackgroundCover {
		s.Background.Mode = BackgroundDesktop
	} else {
		s.Background.Mode = BackgroundCover
	}
	s.touch()
	return s.Background.Mode
}

// ToggleDesktopMode switches the desktop background between locked and
// dynamic.
func (s *Session) ToggleDesktopMode() string {
	if s.Background.DesktopMode == DesktopLocked {
		s.Background.DesktopMode = DesktopDynamic
	} else {
		s.Background.DesktopMode = DesktopLocked
	}
	s.touch()
	return s.Background.DesktopMode
}

// SetShowPlaylist sets the playlist panel toggle.
func (s *Session) SetShowPlaylist(v bool) {
	s.ShowPlaylist = v
	s.touch()
}

// SetShowLyrics sets the lyrics panel toggle.
func (s *Session) SetShowLyrics(v bool) {
	s.ShowLyrics = v
	s.touch()
}
