package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/listentwo/internal/tags"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

const playingSymbol = "▶"

// View renders the panel inside a rounded border.
func (m Model) View() string {
	if !m.Drawable() {
		return ""
	}
	inner := m.ContentWidth()
	content := m.header(inner) + "\n" + render.Separator(inner) + "\n" + m.rows(inner)
	return styles.PanelStyle(m.Focused()).Width(inner).Render(content)
}

func (m Model) header(width int) string {
	s := styles.T().S()
	left := fmt.Sprintf("%s (%d/%d)", m.state.Source, m.state.Index+1, len(m.state.Queue))
	if m.state.Index < 0 {
		left = fmt.Sprintf("%s (%d)", m.state.Source, len(m.state.Queue))
	}
	if m.state.Search != "" {
		left += "  /" + m.state.Search
	}
	right := m.state.Mode.Label()
	left = render.Truncate(left, max(width-lipgloss.Width(right)-1, 0))
	return render.Row(s.Title.Render(left), s.Muted.Render(right), width)
}

func (m Model) rows(width int) string {
	height := m.Rows()
	if len(m.state.Queue) == 0 {
		lines := make([]string, height)
		for i := range lines {
			lines[i] = render.EmptyLine(width)
		}
		lines[0] = styles.T().S().Muted.Render(render.Fit(" Nothing here. Press o to open a folder.", width))
		return strings.Join(lines, "\n")
	}

	start, end := m.cursor.Visible(len(m.state.Queue), height)
	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		lines = append(lines, m.row(i, width))
	}
	for len(lines) < height {
		lines = append(lines, render.EmptyLine(width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) row(i, width int) string {
	s := styles.T().S()
	path := m.state.Queue[i]
	title := tags.TitleFromPath(path)
	artist := ""
	prefix := "  "
	if i == m.state.Index {
		prefix = playingSymbol + " "
		if c := m.state.Current; c != nil && c.Path == path {
			title, artist = c.Title, c.Artist
		}
	}

	content := width - 2
	titleWidth := content
	if artist != "" {
		titleWidth = content * 3 / 5
	}
	line := prefix + render.Fit(title, titleWidth) + render.Fit(artist, content-titleWidth)

	style := s.Base
	switch {
	case i == m.cursor.Pos() && m.Focused() && i == m.state.Index:
		style = s.Cursor.Inherit(s.Playing)
	case i == m.cursor.Pos() && m.Focused():
		style = s.Cursor
	case i == m.state.Index:
		style = s.Playing
	}
	return style.Render(line)
}
