package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/ui/confirm"
	"github.com/llehouerou/listentwo/internal/ui/layout"
	"github.com/llehouerou/listentwo/internal/ui/lyricspane"
	"github.com/llehouerou/listentwo/internal/ui/overlay"
	"github.com/llehouerou/listentwo/internal/ui/playerbar"
	"github.com/llehouerou/listentwo/internal/ui/popup"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/sourcebar"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

const appName = "listentwo"

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	sizes := layout.Compute(m.height, m.layoutOpts())

	parts := []string{
		m.renderHeader(),
		sourcebar.Render(m.tabs(), m.view.Source, m.width),
	}
	if sizes.Queue > 0 {
		parts = append(parts, m.queue.View())
	}
	if sizes.Lyrics > 0 {
		cur := -1
		if m.view.Track != nil {
			cur = m.view.LyricLine
		}
		parts = append(parts, lyricspane.Render(m.lyrics(), cur, m.width, sizes.Lyrics))
	}
	if sizes.Effect > 0 {
		parts = append(parts, enforceHeight(m.effects.View(), sizes.Effect))
	}
	parts = append(parts,
		m.bar.View(playerbar.State{
			Track:    m.view.Track,
			Playing:  m.view.Playing,
			Loading:  m.view.Loading,
			Position: m.view.Position,
			Duration: m.view.Duration,
			Volume:   m.view.Volume,
			Muted:    m.view.Muted,
		}, m.width),
		m.renderStatus(),
		m.help.View(m.keys),
	)

	screen := enforceHeight(strings.Join(parts, "\n"), m.height)
	if m.popup == nil {
		return screen
	}
	dialog := popup.Dialog{
		Title:   m.popupTitle,
		Content: m.popup.View(),
		Footer:  popupFooter(m.popup),
	}.Render(m.width, m.height)
	return overlay.Compose(screen, dialog, m.width)
}

func popupFooter(p popup.Popup) string {
	if _, ok := p.(*confirm.Model); ok {
		return "y yes · n no"
	}
	return "enter confirm · esc cancel"
}

func (m Model) renderHeader() string {
	s := styles.T().S()
	left := styles.Logo(appName)
	right := ""
	if saved := m.ctrl.LastSaved(); !saved.IsZero() {
		right = s.Subtle.Render("saved " + humanize.Time(saved))
	}
	if m.view.Folder != "" {
		room := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 3
		if room > 0 {
			left += "  " + s.Muted.Render(render.Truncate(m.view.Folder, room))
		}
	}
	return render.Row(left, right, m.width)
}

func (m Model) renderStatus() string {
	s := styles.T().S()
	switch {
	case m.notice != "" && m.noticeErr:
		return s.Error.Render(render.Fit(" "+render.Sanitize(m.notice), m.width))
	case m.notice != "":
		return s.Base.Render(render.Fit(" "+render.Sanitize(m.notice), m.width))
	case m.view.Folder == "":
		return s.Muted.Render(render.Fit(" No music folder. Press o to open one.", m.width))
	}
	return render.EmptyLine(m.width)
}

func (m Model) lyrics() *lyrics.Lyrics {
	if m.view.Track == nil {
		return nil
	}
	return m.view.Track.Lyrics
}

func (m Model) tabs() []sourcebar.Tab {
	return sourcebar.Build(m.view.Library, m.view.Playlists)
}

func sourceName(v playback.View) string {
	return sourcebar.Name(sourcebar.Build(v.Library, v.Playlists), v.Source)
}

// enforceHeight pads or cuts view to exactly height lines.
func enforceHeight(view string, height int) string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func baseName(path string) string {
	return filepath.Base(path)
}

// expandHome resolves a leading ~ to the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
