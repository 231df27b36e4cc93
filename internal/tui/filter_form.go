package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/pagedview/internal/pagination"
)

// Filter form fields, in focus order.
const (
	fieldID = iota
	fieldTitle
	fieldBody
	fieldCount
)

var fieldLabels = [fieldCount]string{"ID", "Title", "Body"}

// FilterForm edits a pagination.Filter with one text input per field.
type FilterForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	ti.Prompt = ""
	return ti
}

// NewFilterForm creates a form pre-filled with f and focused on the first field.
func NewFilterForm(f pagination.Filter) FilterForm {
	form := FilterForm{}
	form.inputs[fieldID] = newTextInput("exact id")
	form.inputs[fieldTitle] = newTextInput("title contains")
	form.inputs[fieldBody] = newTextInput("body contains")
	form.inputs[fieldID].SetValue(f.ID)
	form.inputs[fieldTitle].SetValue(f.Title)
	form.inputs[fieldBody].SetValue(f.Body)
	form.inputs[fieldID].Focus()
	return form
}

// Filter returns the filter described by the current field values.
func (f FilterForm) Filter() pagination.Filter {
	return pagination.Filter{
		ID:    f.inputs[fieldID].Value(),
		Title: f.inputs[fieldTitle].Value(),
		Body:  f.inputs[fieldBody].Value(),
	}.Normalize()
}

// Focused returns the index of the focused field.
func (f FilterForm) Focused() int {
	return f.focus
}

// Update cycles focus on tab and shift+tab and forwards other messages to the focused input.
func (f FilterForm) Update(msg tea.Msg) (FilterForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyTab, "down":
			return f.setFocus((f.focus + 1) % fieldCount), nil
		case keyShiftTab, "up":
			return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f FilterForm) setFocus(i int) FilterForm {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
	return f
}

// View renders the labelled inputs.
func (f FilterForm) View(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Header.Render("Filter posts"))
	b.WriteString("\n\n")
	for i := range f.inputs {
		label := theme.Label.Render(padRight(fieldLabels[i]+":", 7))
		if i == f.focus {
			label = theme.Info.Render(padRight(fieldLabels[i]+":", 7))
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Subtle.Render("[Tab] Next field  [Enter] Apply  [Esc] Cancel"))
	return theme.Box.Render(b.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
