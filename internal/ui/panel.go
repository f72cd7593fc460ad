package ui

// Panel is the bordered box a list component draws into. It tracks the
// outer size and focus and derives the space left for rows.
type Panel struct {
	width, height int
	focused       bool
}

func (p *Panel) SetFocused(focused bool) { p.focused = focused }

func (p Panel) Focused() bool { return p.focused }

// SetSize sets the outer size, border included.
func (p *Panel) SetSize(width, height int) {
	p.width, p.height = width, height
}

// ContentWidth is the width between the left and right border.
func (p Panel) ContentWidth() int {
	return max(p.width-BorderWidth, 0)
}

// Rows is the number of list rows below the header and its separator.
func (p Panel) Rows() int {
	return max(p.height-PanelOverhead, 0)
}

// Drawable reports whether at least one row fits.
func (p Panel) Drawable() bool {
	return p.ContentWidth() > 0 && p.Rows() > 0
}
