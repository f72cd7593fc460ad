package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

// Dialog is a bordered box centered in the terminal.
type Dialog struct {
	Title   string
	Content string
	Footer  string
	Width   int // inner width; 0 fits the content
}

// Render returns the dialog padded to sit in the middle of a
// termWidth x termHeight screen.
func (d Dialog) Render(termWidth, termHeight int) string {
	t := styles.T()
	inner := d.Width
	if inner == 0 {
		inner = max(maxLineWidth(d.Content), lipgloss.Width(d.Title), lipgloss.Width(d.Footer)) + 2
	}
	inner = max(min(inner, termWidth-4), 1)

	var lines []string
	if d.Title != "" {
		lines = append(lines, t.S().Title.Render(render.Center(d.Title, inner)), "")
	}
	for line := range strings.SplitSeq(d.Content, "\n") {
		if lipgloss.Width(line) > inner {
			line = render.Truncate(line, inner)
		}
		lines = append(lines, line)
	}
	if d.Footer != "" {
		lines = append(lines, "", t.S().Subtle.Render(render.Center(d.Footer, inner)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(inner + 2).
		Render(strings.Join(lines, "\n"))
	return Center(box, termWidth, termHeight)
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Center pads pre-rendered content so it sits in the middle of the screen.
func Center(content string, termWidth, termHeight int) string {
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, content)
}
