package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingState wraps a spinner shown while a page is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &LoadingState{spinner: s, message: "Loading posts..."}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// SetMessage changes the text next to the spinner.
func (l *LoadingState) SetMessage(msg string) {
	l.message = msg
}

// SetStyle colours the spinner.
func (l *LoadingState) SetStyle(style lipgloss.Style) {
	l.spinner.Style = style
}

// RenderLoading renders the spinner and its message.
func RenderLoading(l *LoadingState) string {
	if l == nil {
		return "Loading..."
	}
	return l.spinner.View() + " " + l.message
}
