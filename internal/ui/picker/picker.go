// Package picker lets the user choose one entry from a short list.
package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/listentwo/internal/ui/cursor"
	"github.com/llehouerou/listentwo/internal/ui/popup"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Item is one choice.
type Item struct {
	ID    string
	Label string
}

// Result is sent when the picker closes. ID is empty when canceled.
type Result struct {
	ID      string
	Context any
}

var (
	choose = key.NewBinding(key.WithKeys("enter"))
	cancel = key.NewBinding(key.WithKeys("esc", "q"))
)

// Model is a scrollable list of items.
type Model struct {
	items   []Item
	context any
	cursor  cursor.Cursor
	width   int
	height  int
}

// New returns a picker showing at most height rows of width cells.
func New(items []Item, context any, width, height int) *Model {
	return &Model{
		items:   items,
		context: context,
		cursor:  cursor.New(1),
		width:   max(width, 8),
		height:  max(height, 1),
	}
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.cursor.HandleKey(k, len(m.items), m.height) {
		return m, nil
	}
	switch {
	case key.Matches(k, choose) && len(m.items) > 0:
		return m, m.done(m.items[m.cursor.Pos()].ID)
	case key.Matches(k, cancel):
		return m, m.done("")
	}
	return m, nil
}

func (m *Model) done(id string) tea.Cmd {
	r := Result{ID: id, Context: m.context}
	return func() tea.Msg { return r }
}

// View implements popup.Popup.
func (m *Model) View() string {
	s := styles.T().S()
	if len(m.items) == 0 {
		return s.Muted.Render(render.Fit("No playlists yet", m.width))
	}
	start, end := m.cursor.Visible(len(m.items), m.height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := render.Fit(" "+m.items[i].Label, m.width)
		if i == m.cursor.Pos() {
			line = s.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
