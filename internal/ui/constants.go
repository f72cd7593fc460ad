// Package ui holds components and helpers shared by the terminal UI.
package ui

const (
	// ScrollMargin is the number of rows kept visible around the cursor.
	ScrollMargin = 3

	// BorderWidth and BorderHeight are the cells a rounded border takes.
	BorderWidth  = 2
	BorderHeight = 2

	// PanelOverhead is the border plus a header row and its separator.
	PanelOverhead = BorderHeight + 2

	// MinProgressBarWidth is the narrowest progress bar worth drawing.
	MinProgressBarWidth = 5
)
