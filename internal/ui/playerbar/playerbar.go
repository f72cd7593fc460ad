// Package playerbar renders the now-playing box: track line, progress and
// output level.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/listentwo/internal/playlist"
	"github.com/llehouerou/listentwo/internal/ui"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

const (
	playSymbol    = "▶"
	pauseSymbol   = "⏸"
	loadingSymbol = "…"
)

// State holds everything needed to render the bar.
type State struct {
	Track    *playlist.Track
	Playing  bool
	Loading  bool
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
}

// Model wraps the progress bar so its styling is built once.
type Model struct {
	bar progress.Model
}

// New returns a bar drawn with the theme gradient.
func New() Model {
	t := styles.T()
	return Model{bar: progress.New(
		progress.WithGradient(string(t.Primary), string(t.Secondary)),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('━', '─'),
	)}
}

// View renders two content rows inside a border, width cells wide.
func (m Model) View(st State, width int) string {
	inner := max(width-2-2, 1) // border and padding
	top, bottom := m.trackLine(st, inner), m.progressLine(st, inner)
	return styles.PanelStyle(st.Playing).
		Padding(0, 1).
		Width(inner + 2).
		Render(top + "\n" + bottom)
}

func (m Model) trackLine(st State, width int) string {
	s := styles.T().S()
	if st.Track == nil {
		return s.Muted.Render(render.Fit("Nothing playing", width))
	}
	status := pauseSymbol
	switch {
	case st.Loading:
		status = loadingSymbol
	case st.Playing:
		status = playSymbol
	}
	status += " "
	title := render.Truncate(st.Track.Title, width-lipgloss.Width(status))
	rest := width - lipgloss.Width(status) - lipgloss.Width(title)
	var info string
	if rest > 3 {
		info = render.Truncate("   "+st.Track.Artist+" · "+st.Track.Album, rest)
	}
	line := s.Playing.Render(status) + s.Title.Render(title) + s.Muted.Render(info)
	return line + strings.Repeat(" ", max(width-lipgloss.Width(line), 0))
}

func (m Model) progressLine(st State, width int) string {
	s := styles.T().S()
	clock := render.Clock(st.Position)
	total := render.Clock(st.Duration)
	volume := Volume(st.Volume, st.Muted)

	barWidth := width - lipgloss.Width(clock) - lipgloss.Width(total) - lipgloss.Width(volume) - 6
	if barWidth < ui.MinProgressBarWidth {
		times := clock + " / " + total
		if lipgloss.Width(times)+1+lipgloss.Width(volume) > width {
			return s.Muted.Render(render.Fit(times, width))
		}
		return render.Row(s.Muted.Render(times), s.Muted.Render(volume), width)
	}
	bar := m.bar
	bar.Width = barWidth
	line := s.Muted.Render(clock) + "  " + bar.ViewAs(Ratio(st.Position, st.Duration)) + "  " +
		s.Muted.Render(total) + "  " + s.Muted.Render(volume)
	return line + strings.Repeat(" ", max(width-lipgloss.Width(line), 0))
}

// Ratio is the played fraction, 0 when the duration is unknown.
func Ratio(pos, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return min(max(float64(pos)/float64(dur), 0), 1)
}

// Volume renders the output level, e.g. "vol  70%" or "muted".
func Volume(v float64, muted bool) string {
	if muted {
		return "muted   "
	}
	return fmt.Sprintf("vol %3d%%", int(v*100+0.5))
}
