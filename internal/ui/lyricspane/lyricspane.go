// Package lyricspane renders the lyrics of the current track, keeping the
// active cue in the middle row.
package lyricspane

import (
	"strings"

	"github.com/llehouerou/listentwo/internal/lyrics"
	"github.com/llehouerou/listentwo/internal/ui/render"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

// Render draws height rows of width cells. current is the active cue or -1.
func Render(l *lyrics.Lyrics, current, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	s := styles.T().S()
	rows := make([]string, height)
	for i := range rows {
		rows[i] = render.EmptyLine(width)
	}
	if l.Len() == 0 {
		rows[height/2] = s.Subtle.Render(render.Center("No lyrics", width))
		return strings.Join(rows, "\n")
	}

	first := 0
	if current >= 0 {
		first = current - height/2
	}
	for row := range height {
		i := first + row
		if i < 0 || i >= l.Len() {
			continue
		}
		text := render.Center(l.Lines[i].Text, width)
		switch {
		case i == current:
			rows[row] = styles.Highlight(text)
		case current >= 0:
			rows[row] = s.Muted.Render(text)
		default:
			rows[row] = s.Base.Render(text)
		}
	}
	return strings.Join(rows, "\n")
}
