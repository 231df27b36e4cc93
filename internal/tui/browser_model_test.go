package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pagedview/internal/engine"
	"github.com/rshade/pagedview/internal/fixture"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// sliceSource pages over items, filtering titles by substring.
func sliceSource(items []pagination.Item) source.Func {
	return func(_ context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
		matched := make([]pagination.Item, 0, len(items))
		for _, it := range items {
			if req.Filter.Title != "" && !strings.Contains(it.Title, req.Filter.Title) {
				continue
			}
			matched = append(matched, it)
		}
		start := min(req.Offset(), len(matched))
		end := min(start+req.PageSize, len(matched))
		return pagination.PageResult{
			Items:      matched[start:end],
			TotalItems: len(matched),
			TotalKnown: true,
		}, nil
	}
}

func failingSource(err error) source.Func {
	return func(context.Context, pagination.PageRequest) (pagination.PageResult, error) {
		return pagination.PageResult{}, err
	}
}

func newTestBrowser(t *testing.T, src source.Source) BrowserModel {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.PageSize = 3
	ctrl := engine.NewController(src, opts)
	return NewBrowserModel(context.Background(), ctrl, DarkTheme())
}

// loaded returns a browser with its first page applied.
func loaded(t *testing.T, src source.Source) BrowserModel {
	t.Helper()
	m := newTestBrowser(t, src)
	m = deliver(t, m, fetchCmd(m.ctrl.Refresh(m.ctx)))
	require.Equal(t, ViewStateList, m.State())
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m BrowserModel, msg tea.Msg) (BrowserModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	bm, ok := updated.(BrowserModel)
	require.True(t, ok)
	return bm, cmd
}

// deliver runs a fetch command and feeds its message back into the model.
func deliver(t *testing.T, m BrowserModel, cmd tea.Cmd) BrowserModel {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(pageLoadedMsg)
	require.True(t, ok, "expected pageLoadedMsg, got %T", msg)
	m, _ = press(t, m, msg)
	return m
}

func TestNewBrowserModel(t *testing.T) {
	m := newTestBrowser(t, sliceSource(fixture.Posts(10)))

	assert.Equal(t, ViewStateLoading, m.State())
	assert.Equal(t, "dark", m.Theme().Name)
	assert.Nil(t, m.Selected())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading posts...")
}

func TestBrowserModel_InitialLoad(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(10)))

	s := m.ctrl.State()
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, 4, s.TotalPages)
	require.NotNil(t, m.Selected())
	assert.Equal(t, 1, m.Selected().ID)

	view := m.View()
	assert.Contains(t, view, "Showing page 1 of 4. Total items: 10.")
	assert.Contains(t, view, "Next ›")
	assert.Contains(t, view, "[Enter] Details")
}

func TestBrowserModel_Navigation(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		wantPage int
		wantIDs  []int
	}{
		{
			name:     "next with l",
			keys:     []tea.KeyMsg{keyRunes("l")},
			wantPage: 2,
			wantIDs:  []int{4, 5, 6},
		},
		{
			name:     "next with arrow",
			keys:     []tea.KeyMsg{{Type: tea.KeyRight}},
			wantPage: 2,
			wantIDs:  []int{4, 5, 6},
		},
		{
			name:     "last page",
			keys:     []tea.KeyMsg{keyRunes("G")},
			wantPage: 4,
			wantIDs:  []int{10},
		},
		{
			name:     "last then first",
			keys:     []tea.KeyMsg{keyRunes("G"), keyRunes("g")},
			wantPage: 1,
			wantIDs:  []int{1, 2, 3},
		},
		{
			name:     "jump by digit",
			keys:     []tea.KeyMsg{keyRunes("3")},
			wantPage: 3,
			wantIDs:  []int{7, 8, 9},
		},
		{
			name:     "jump past the end clamps",
			keys:     []tea.KeyMsg{keyRunes("9")},
			wantPage: 4,
			wantIDs:  []int{10},
		},
		{
			name:     "previous after next",
			keys:     []tea.KeyMsg{keyRunes("l"), keyRunes("l"), keyRunes("h")},
			wantPage: 2,
			wantIDs:  []int{4, 5, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t, sliceSource(fixture.Posts(10)))
			for _, k := range tt.keys {
				var cmd tea.Cmd
				m, cmd = press(t, m, k)
				m = deliver(t, m, cmd)
			}

			s := m.ctrl.State()
			assert.Equal(t, tt.wantPage, s.CurrentPage)
			ids := make([]int, 0, len(s.Items))
			for _, it := range s.Items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBrowserModel_NoFetchAtBoundary(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(10)))

	_, cmd := press(t, m, keyRunes("h"))
	assert.Nil(t, cmd, "previous on page 1 issues nothing")

	_, cmd = press(t, m, keyRunes("g"))
	assert.Nil(t, cmd, "first on page 1 issues nothing")
}

func TestBrowserModel_StaleCompletionDropped(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(10)))

	m, toPage2 := press(t, m, keyRunes("l"))
	m, toPage3 := press(t, m, keyRunes("l"))
	require.NotNil(t, toPage2)
	require.NotNil(t, toPage3)

	// The newer request lands first; the older one must not overwrite it.
	m = deliver(t, m, toPage3)
	m = deliver(t, m, toPage2)

	s := m.ctrl.State()
	assert.Equal(t, 3, s.CurrentPage)
	require.NotEmpty(t, s.Items)
	assert.Equal(t, 7, s.Items[0].ID)
	assert.Equal(t, 7, m.Selected().ID)
}

func TestBrowserModel_Filter(t *testing.T) {
	posts := fixture.Posts(10)
	needle := strings.Fields(posts[4].Title)[0]

	m := loaded(t, sliceSource(posts))
	m, _ = press(t, m, keyRunes("3"))
	m, _ = press(t, m, keyRunes("/"))
	require.Equal(t, ViewStateFilter, m.State())
	assert.Contains(t, m.View(), "Filter posts")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range needle {
		m, _ = press(t, m, keyRunes(string(r)))
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, m.State())
	m = deliver(t, m, cmd)

	s := m.ctrl.State()
	assert.Equal(t, needle, s.Filter.Title)
	assert.Equal(t, 1, s.CurrentPage, "filter change resets to page 1")
	for _, it := range s.Items {
		assert.Contains(t, it.Title, needle)
	}
	assert.Contains(t, m.View(), "title~"+needle)

	// Esc in the list clears the filter.
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	m = deliver(t, m, cmd)
	assert.True(t, m.ctrl.State().Filter.IsEmpty())
	assert.Equal(t, 10, m.ctrl.State().TotalItems)

	// Esc with no filter does nothing.
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestBrowserModel_FilterCancel(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(10)))
	m, _ = press(t, m, keyRunes("/"))
	m, _ = press(t, m, keyRunes("x"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.State())
	assert.True(t, m.ctrl.State().Filter.IsEmpty())
}

func TestBrowserModel_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantText  string
		wantRetry bool
	}{
		{
			name:      "network",
			err:       source.NetworkError(errors.New("connection refused")),
			wantText:  "Failed to load posts",
			wantRetry: true,
		},
		{
			name:      "response",
			err:       source.ResponseError(503, errors.New("service unavailable")),
			wantText:  "Failed to load posts",
			wantRetry: true,
		},
		{
			name:      "malformed",
			err:       source.MalformedError(200, errors.New("expected a JSON array")),
			wantText:  "could not be read",
			wantRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t, failingSource(tt.err))

			view := m.View()
			assert.Contains(t, view, tt.wantText)
			assert.Equal(t, tt.wantRetry, strings.Contains(view, "[r] Retry"))
			assert.NotContains(t, view, "Showing page")
			assert.NotContains(t, view, "Next ›")
			assert.Nil(t, m.Selected())
		})
	}
}

func TestBrowserModel_RetryAfterError(t *testing.T) {
	fail := true
	posts := fixture.Posts(5)
	src := source.Func(func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
		if fail {
			return pagination.PageResult{}, source.NetworkError(errors.New("down"))
		}
		return sliceSource(posts)(ctx, req)
	})

	m := loaded(t, src)
	require.Error(t, m.ctrl.State().Err)

	fail = false
	m, cmd := press(t, m, keyRunes("r"))
	m = deliver(t, m, cmd)

	assert.NoError(t, m.ctrl.State().Err)
	assert.Contains(t, m.View(), "Showing page 1 of 2. Total items: 5.")
}

func TestBrowserModel_Empty(t *testing.T) {
	m := loaded(t, sliceSource(nil))

	view := m.View()
	assert.Contains(t, view, "No items found.")
	assert.NotContains(t, view, "Next ›")
}

func TestBrowserModel_Detail(t *testing.T) {
	posts := fixture.Posts(10)
	m := loaded(t, sliceSource(posts))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStateDetail, m.State())
	assert.Contains(t, m.View(), posts[1].Title)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 2, m.Selected().ID)
}

func TestBrowserModel_ThemeToggle(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(3)))

	m, _ = press(t, m, keyRunes("t"))
	assert.Equal(t, "light", m.Theme().Name)
	m, _ = press(t, m, keyRunes("t"))
	assert.Equal(t, "dark", m.Theme().Name)
}

func TestBrowserModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		t.Run(k.String(), func(t *testing.T) {
			m := loaded(t, sliceSource(fixture.Posts(3)))
			m, cmd := press(t, m, k)

			assert.Equal(t, ViewStateQuitting, m.State())
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestBrowserModel_WindowSize(t *testing.T) {
	m := loaded(t, sliceSource(fixture.Posts(3)))
	m, cmd := press(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})

	assert.Nil(t, cmd)
	assert.Equal(t, 60, m.width)
	assert.Equal(t, 30-chromeHeight, m.list.Height())

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 40, Height: 5})
	assert.Equal(t, minListHeight, m.list.Height())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "…", truncate("abc", 1))
}
