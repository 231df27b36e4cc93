package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item. selected is true for the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a generic scrolling list.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	// selected is the highlighted item index (0-based).
	selected int

	// offset is the index of the first visible item.
	offset int

	height int
	width  int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height, width int, renderFunc RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
		width:      width,
	}
	m.scrollToSelection()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys are handled.
func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		m.SetSelected(m.selected - 1)
	case tea.KeyDown:
		m.SetSelected(m.selected + 1)
	case tea.KeyPgUp:
		m.SetSelected(m.selected - m.height)
	case tea.KeyPgDown:
		m.SetSelected(m.selected + m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'j':
				m.SetSelected(m.selected + 1)
			case 'k':
				m.SetSelected(m.selected - 1)
			}
		}
	default:
	}
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	end := min(m.offset+m.height, len(m.items))
	var sb strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.renderFunc(m.items[i], i == m.selected))
	}
	return sb.String()
}

// SetItems replaces the list contents, keeping the selection in range.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetSize changes the viewport dimensions.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.scrollToSelection()
}

// SetSelected moves the selection to index, clamped to the list bounds.
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.scrollToSelection()
}

// scrollToSelection adjusts offset so the selected row is inside the viewport.
func (m *Model[T]) scrollToSelection() {
	if len(m.items) == 0 {
		m.offset = 0
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
	m.offset = max(min(m.offset, len(m.items)-m.height), 0)
}

// ItemCount returns the number of items.
func (m *Model[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the selected index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// Offset returns the index of the first visible item.
func (m *Model[T]) Offset() int {
	return m.offset
}

// Height returns the viewport height in rows.
func (m *Model[T]) Height() int {
	return m.height
}

// Width returns the viewport width in columns.
func (m *Model[T]) Width() int {
	return m.width
}

// SelectedItem returns the highlighted item, or nil when the list is empty.
func (m *Model[T]) SelectedItem() *T {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
