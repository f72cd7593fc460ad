// Package overlay draws one rendered view on top of another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Compose lays top over base. Leading and trailing blanks of each top line
// are transparent; styled text is cut on display columns.
func Compose(base, top string, width int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		trimmed := strings.TrimLeft(plain, " ")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		start := ansi.StringWidth(plain) - ansi.StringWidth(trimmed)
		end := start + ansi.StringWidth(strings.TrimRight(trimmed, " "))

		under := baseLines[i]
		if w := ansi.StringWidth(under); w < width {
			under += strings.Repeat(" ", width-w)
		}
		out := ansi.Cut(under, 0, start) + ansi.Cut(line, start, end)
		if end < width {
			out += ansi.Cut(under, end, width)
		}
		baseLines[i] = out
	}
	return strings.Join(baseLines, "\n")
}
