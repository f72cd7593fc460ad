package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns a rounded panel border colored by focus.
func PanelStyle(focused bool) lipgloss.Style {
	color := T().Border
	if focused {
		color = T().BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color)
}
