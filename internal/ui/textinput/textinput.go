// Package textinput is a one-line prompt popup.
package textinput

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/listentwo/internal/ui/popup"
	"github.com/llehouerou/listentwo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Purpose tells the app what an answer is for.
type Purpose int

const (
	PurposeFolder Purpose = iota
	PurposeSearch
	PurposePlaylistName
)

// Result is sent when the prompt closes.
type Result struct {
	Purpose  Purpose
	Text     string
	Canceled bool
}

// Model is a titled text prompt.
type Model struct {
	title    string
	purpose  Purpose
	required bool
	input    textinput.Model
}

// New returns a focused prompt pre-filled with initial.
func New(title, placeholder, initial string, purpose Purpose, width int) *Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.SetValue(initial)
	in.CursorEnd()
	in.Width = max(width, 10)
	in.PromptStyle = styles.T().S().Playing
	in.Focus()
	return &Model{title: title, purpose: purpose, input: in}
}

// Require makes Enter ignore a blank or whitespace-only answer, leaving
// the prompt open.
func (m *Model) Require() *Model {
	m.required = true
	return m
}

// Title returns the prompt title.
func (m *Model) Title() string { return m.title }

// Value returns the text typed so far.
func (m *Model) Value() string { return m.input.Value() }

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type { //nolint:exhaustive // other keys go to the input
		case tea.KeyEsc:
			return m, result(Result{Purpose: m.purpose, Canceled: true})
		case tea.KeyEnter:
			if m.required && strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			return m, result(Result{Purpose: m.purpose, Text: m.input.Value()})
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func result(r Result) tea.Cmd {
	return func() tea.Msg { return r }
}

// View implements popup.Popup.
func (m *Model) View() string {
	return m.input.View()
}
