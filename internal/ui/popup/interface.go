// Package popup renders modal dialogs over the main view.
package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal component. While one is open it receives every key.
type Popup interface {
	Update(msg tea.Msg) (Popup, tea.Cmd)
	// View renders the dialog body, without border or centering.
	View() string
}
