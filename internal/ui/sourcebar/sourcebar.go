// Package sourcebar draws the row of queue sources: the library followed
// by every playlist.
package sourcebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

// Tab is one selectable source.
type Tab struct {
	ID    string
	Name  string
	Count int
}

// Build lists the library first, then playlists in their stored order.
func Build(libraryCount int, playlists []playlist.Playlist) []Tab {
	tabs := make([]Tab, 0, len(playlists)+1)
	tabs = append(tabs, Tab{ID: session.SourceLibrary, Name: "Library", Count: libraryCount})
	for _, p := range playlists {
		tabs = append(tabs, Tab{ID: p.ID, Name: p.Name, Count: len(p.Songs)})
	}
	return tabs
}

// Name returns the display name of id, or "Library" when unknown.
func Name(tabs []Tab, id string) string {
	for _, t := range tabs {
		if t.ID == id {
			return t.Name
		}
	}
	return "Library"
}

// Step returns the id delta tabs away from active, wrapping around.
func Step(tabs []Tab, active string, delta int) string {
	if len(tabs) == 0 {
		return session.SourceLibrary
	}
	at := 0
	for i, t := range tabs {
		if t.ID == active {
			at = i
			break
		}
	}
	n := len(tabs)
	return tabs[((at+delta)%n+n)%n].ID
}

// Render draws the tabs on one line of width cells.
func Render(tabs []Tab, active string, width int) string {
	s := styles.T().S()
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := fmt.Sprintf("%s %d", render.Sanitize(t.Name), t.Count)
		if t.ID == active {
			parts = append(parts, s.TabOn.Render(label))
		} else {
			parts = append(parts, s.Tab.Render(label))
		}
	}
	line := ansi.Truncate(strings.Join(parts, s.Subtle.Render("│")), width, "…")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}
