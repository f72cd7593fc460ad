// Package queuepanel shows the active queue with a selection cursor.
package queuepanel

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/session"
	"github.com/llehouerou/listentwo/internal/ui"
	"github.com/llehouerou/listentwo/internal/ui/cursor"
)

// State is what the panel draws besides its own cursor.
type State struct {
	Source  string // display name of the queue source
	Search  string
	Queue   []string
	Index   int
	Current *playlist.Track
	Mode    session.RepeatMode
}

// Model is the queue panel.
type Model struct {
	ui.Panel
	state  State
	cursor cursor.Cursor
}

// New returns an empty panel.
func New() Model {
	return Model{cursor: cursor.New(ui.ScrollMargin)}
}

// SetState replaces the drawn queue, keeping the cursor in range. When the
// queue itself changed the cursor follows the current entry.
func (m *Model) SetState(s State) {
	changed := !slices.Equal(m.state.Queue, s.Queue)
	m.state = s
	if changed && s.Index >= 0 {
		m.cursor.Jump(s.Index, len(s.Queue), m.Rows())
		return
	}
	m.cursor.Clamp(len(s.Queue), m.Rows())
}

// SetSize implements resizing and keeps the cursor visible.
func (m *Model) SetSize(width, height int) {
	m.Panel.SetSize(width, height)
	m.cursor.Clamp(len(m.state.Queue), m.Rows())
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (index int, path string, ok bool) {
	if len(m.state.Queue) == 0 {
		return -1, "", false
	}
	i := m.cursor.Pos()
	return i, m.state.Queue[i], true
}

// HandleKey moves the cursor and reports whether the key was navigation.
func (m *Model) HandleKey(msg tea.KeyMsg) bool {
	return m.cursor.HandleKey(msg, len(m.state.Queue), m.Rows())
}

// FollowCurrent moves the cursor onto the current entry.
func (m *Model) FollowCurrent() {
	if m.state.Index >= 0 {
		m.cursor.Jump(m.state.Index, len(m.state.Queue), m.Rows())
	}
}
