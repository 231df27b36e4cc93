package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pagedview/internal/engine"
	"github.com/rshade/pagedview/internal/pagination"
	listview "github.com/rshade/pagedview/internal/tui/list"
)

// pageLoadedMsg carries a finished fetch back into the update loop.
type pageLoadedMsg struct {
	done engine.Completion
}

// BrowserModel is the Bubble Tea model for the interactive post browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx   context.Context
	ctrl  *engine.Controller
	state ViewState
	theme Theme

	list    *listview.Model[pagination.Item]
	rows    *rowRenderer
	form    FilterForm
	detail  pagination.Item
	loading *LoadingState

	width  int
	height int
}

// NewBrowserModel creates a browser over ctrl. Init issues the first fetch.
func NewBrowserModel(ctx context.Context, ctrl *engine.Controller, theme Theme) BrowserModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := BrowserModel{
		ctx:     ctx,
		ctrl:    ctrl,
		state:   ViewStateLoading,
		theme:   theme,
		loading: NewLoadingState(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.loading.SetStyle(theme.Info)
	m.rows = &rowRenderer{theme: theme, width: m.width}
	m.list = listview.New[pagination.Item](nil, m.listHeight(), m.width, m.rows.render)
	return m
}

// Init starts the spinner and loads the initial page.
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), fetchCmd(m.ctrl.Refresh(m.ctx)))
}

// fetchCmd runs f off the update loop. A nil fetch yields no command.
func fetchCmd(f *engine.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return pageLoadedMsg{done: f.Run()}
	}
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.listHeight())
		m.rows.width = m.width
		return m, nil

	case pageLoadedMsg:
		if !m.ctrl.Apply(msg.done) {
			return m, nil
		}
		m.sync()
		return m, fetchCmd(m.ctrl.Reconcile(m.ctx))

	case spinner.TickMsg:
		return m, m.loading.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m.quit()
	}

	switch m.state {
	case ViewStateFilter:
		return m.handleFilterKey(msg)
	case ViewStateDetail:
		return m.handleDetailKey(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m.handleListKey(msg)
	}
}

func (m BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case keyQuit:
		return m.quit()
	case keyLeft, keyH:
		return m.navigate(m.ctrl.PreviousPage(m.ctx))
	case keyRight, keyL:
		return m.navigate(m.ctrl.NextPage(m.ctx))
	case keyFirst:
		return m.navigate(m.ctrl.FirstPage(m.ctx))
	case keyLast:
		return m.navigate(m.ctrl.LastPage(m.ctx))
	case keyRefresh:
		return m.navigate(m.ctrl.Refresh(m.ctx))
	case keyTheme:
		m.theme = m.theme.Toggle()
		m.loading.SetStyle(m.theme.Info)
		m.rows.theme = m.theme
		return m, nil
	case keySlash:
		m.form = NewFilterForm(m.ctrl.State().Filter)
		m.state = ViewStateFilter
		return m, nil
	case keyEsc:
		if m.ctrl.State().Filter.IsEmpty() {
			return m, nil
		}
		return m.navigate(m.ctrl.SetFilter(m.ctx, pagination.Filter{}))
	case keyEnter:
		if item := m.list.SelectedItem(); item != nil && m.state == ViewStateList {
			m.detail = *item
			m.state = ViewStateDetail
		}
		return m, nil
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		return m.navigate(m.ctrl.SetPage(m.ctx, n))
	}

	m.list.Update(msg)
	return m, nil
}

func (m BrowserModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.state = ViewStateList
		return m, nil
	case keyEnter:
		m.state = ViewStateList
		return m.navigate(m.ctrl.SetFilter(m.ctx, m.form.Filter()))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m BrowserModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyEsc, keyEnter, keyBackspace:
		m.state = ViewStateList
	}
	return m, nil
}

// navigate records a newly issued fetch and schedules it.
func (m BrowserModel) navigate(f *engine.Fetch) (tea.Model, tea.Cmd) {
	if f == nil {
		return m, nil
	}
	return m, fetchCmd(f)
}

func (m BrowserModel) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Cancel()
	m.state = ViewStateQuitting
	return m, tea.Quit
}

// sync copies the controller's items into the list after an applied completion.
func (m *BrowserModel) sync() {
	s := m.ctrl.State()
	m.list.SetItems(s.Items)
	m.list.SetSelected(0)
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
}

func (m BrowserModel) listHeight() int {
	return max(m.height-chromeHeight, minListHeight)
}

// rowRenderer is shared by the model copies Bubble Tea makes, so theme and
// width changes reach the list.
type rowRenderer struct {
	theme Theme
	width int
}

func (r *rowRenderer) render(item pagination.Item, selected bool) string {
	id := fmt.Sprintf("%4d", item.ID)
	title := truncate(item.Title, max(r.width-10, 10))
	if selected {
		return r.theme.Selected.Render("› " + id + "  " + title)
	}
	return "  " + r.theme.Subtle.Render(id) + "  " + r.theme.Value.Render(title)
}

// View renders the current screen (Bubble Tea interface).
func (m BrowserModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	s := m.ctrl.State()
	var b strings.Builder
	b.WriteString(m.renderHeader(s))
	b.WriteString("\n\n")

	switch m.state {
	case ViewStateLoading:
		b.WriteString(RenderLoading(m.loading))
		b.WriteString("\n")
	case ViewStateFilter:
		b.WriteString(m.form.View(m.theme))
		b.WriteString("\n")
	case ViewStateDetail:
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList(s))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Subtle.Render(m.helpText(s)))
	return b.String()
}

func (m BrowserModel) renderHeader(s engine.State) string {
	header := m.theme.Header.Render("Posts")
	if !s.Filter.IsEmpty() {
		header += "  " + m.theme.Label.Render("filter:") + " " + m.theme.Info.Render(s.Filter.String())
	}
	if s.Loading && m.state != ViewStateLoading {
		header += "  " + RenderLoading(m.loading)
	}
	return header
}

func (m BrowserModel) renderList(s engine.State) string {
	var b strings.Builder
	if s.Err != nil {
		style := m.theme.Error
		if s.SoftError() {
			style = m.theme.Warning
		}
		b.WriteString(style.Render(ErrorMessage(s)))
		b.WriteString("\n")
		return b.String()
	}

	if len(s.Items) == 0 {
		b.WriteString(m.theme.Subtle.Render("No items found."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.list.View())
	b.WriteString("\n\n")
	if bar := RenderPageBar(m.theme, s); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Subtle.Render(Summary(s)))
	b.WriteString("\n")
	return b.String()
}

func (m BrowserModel) renderDetail() string {
	width := max(m.width-borderPadding*2, 20)
	body := lipgloss.NewStyle().Width(width - borderPadding).Render(m.detail.Body)

	var b strings.Builder
	b.WriteString(m.theme.Label.Render("ID:   "))
	b.WriteString(m.theme.Value.Render(strconv.Itoa(m.detail.ID)))
	b.WriteString("\n")
	b.WriteString(m.theme.Label.Render("User: "))
	b.WriteString(m.theme.Value.Render(strconv.Itoa(m.detail.UserID)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Title.Render(m.detail.Title))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Body.Render(body))
	return m.theme.Box.Width(width).Render(b.String())
}

func (m BrowserModel) helpText(s engine.State) string {
	switch m.state {
	case ViewStateFilter:
		return ""
	case ViewStateDetail:
		return "[Esc] Back  [q] Back"
	}
	if s.Err != nil {
		return "[r] Retry  [/] Filter  [Esc] Clear filter  [q] Quit"
	}
	return "[←→/hl] Page  [g/G] First/Last  [1-9] Jump  [↑↓/jk] Navigate  [Enter] Details  [/] Filter  [t] Theme  [q] Quit"
}

// State returns the current view state.
func (m BrowserModel) State() ViewState {
	return m.state
}

// Theme returns the active theme.
func (m BrowserModel) Theme() Theme {
	return m.theme
}

// Selected returns the highlighted item, or nil when the list is empty.
func (m BrowserModel) Selected() *pagination.Item {
	return m.list.SelectedItem()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
