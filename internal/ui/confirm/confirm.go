// Package confirm is a yes/no question popup.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/listentwo/internal/ui/popup"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Result is sent when the question is answered. Context is passed
// through untouched.
type Result struct {
	Confirmed bool
	Context   any
}

// Model asks one question.
type Model struct {
	message string
	context any
}

// New returns a question carrying context back in its Result.
func New(message string, context any) *Model {
	return &Model{message: message, context: context}
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "enter", "y", "Y":
		return m, m.answer(true)
	case "esc", "n", "N":
		return m, m.answer(false)
	}
	return m, nil
}

func (m *Model) answer(yes bool) tea.Cmd {
	r := Result{Confirmed: yes, Context: m.context}
	return func() tea.Msg { return r }
}

// View implements popup.Popup.
func (m *Model) View() string {
	return styles.T().S().Base.Render(m.message)
}
