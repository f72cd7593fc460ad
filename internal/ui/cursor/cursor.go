// Package cursor tracks a selection and scroll offset over a list whose
// length and viewport height are supplied on each call.
package cursor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation bindings understood by HandleKey.
var (
	Up       = key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up"))
	Down     = key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down"))
	Top      = key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top"))
	Bottom   = key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom"))
	PageUp   = key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up"))
	PageDown = key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down"))
)

// Cursor is a position plus the first visible row.
type Cursor struct {
	pos    int
	offset int
	margin int
}

// New returns a cursor keeping margin rows visible around the selection.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected row.
func (c Cursor) Pos() int { return c.pos }

// Offset returns the first visible row.
func (c Cursor) Offset() int { return c.offset }

// Move shifts the selection by delta rows, clamped to the list.
func (c *Cursor) Move(delta, listLen, height int) {
	c.Jump(c.pos+delta, listLen, height)
}

// Jump selects row pos, clamped to the list.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = clamp(pos, 0, listLen-1)
	c.scroll(listLen, height)
}

// Clamp keeps the selection valid after the list shrank.
func (c *Cursor) Clamp(listLen, height int) {
	c.Jump(c.pos, listLen, height)
}

func (c *Cursor) scroll(listLen, height int) {
	if height <= 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, 0, max(listLen-height, 0))
}

// Visible returns the [start, end) rows shown in a viewport of height.
func (c Cursor) Visible(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

// HandleKey applies a navigation key and reports whether it was one.
func (c *Cursor) HandleKey(msg tea.KeyMsg, listLen, height int) bool {
	switch {
	case key.Matches(msg, Up):
		c.Move(-1, listLen, height)
	case key.Matches(msg, Down):
		c.Move(1, listLen, height)
	case key.Matches(msg, Top):
		c.Jump(0, listLen, height)
	case key.Matches(msg, Bottom):
		c.Jump(listLen-1, listLen, height)
	case key.Matches(msg, PageUp):
		c.Move(-max(height/2, 1), listLen, height)
	case key.Matches(msg, PageDown):
		c.Move(max(height/2, 1), listLen, height)
	default:
		return false
	}
	return true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
