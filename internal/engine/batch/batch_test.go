package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pagedview/internal/fixture"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// pagedSource serves items with an optional total and per-page failure, tracking peak concurrency.
type pagedSource struct {
	items     []pagination.Item
	omitTotal bool
	failPage  int
	delay     time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (s *pagedSource) Fetch(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return pagination.PageResult{}, ctx.Err()
		}
	}
	if req.PageNumber == s.failPage {
		return pagination.PageResult{}, source.ResponseError(500, errors.New("boom"))
	}

	matched := make([]pagination.Item, 0, len(s.items))
	for _, it := range s.items {
		if req.Filter.Title != "" && !strings.Contains(it.Title, req.Filter.Title) {
			continue
		}
		matched = append(matched, it)
	}
	start := min(req.Offset(), len(matched))
	end := min(start+req.PageSize, len(matched))
	result := pagination.PageResult{Items: matched[start:end]}
	if !s.omitTotal {
		result.TotalItems = len(matched)
		result.TotalKnown = true
	}
	return result, nil
}

// collect runs the exporter and returns the emitted page numbers and item IDs.
func collect(t *testing.T, e *Exporter) ([]int, []int, *Progress, error) {
	t.Helper()
	var pages, ids []int
	progress, err := e.Run(context.Background(), func(page int, items []pagination.Item) error {
		pages = append(pages, page)
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		return nil
	})
	return pages, ids, progress, err
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestExporter_KnownTotal(t *testing.T) {
	src := &pagedSource{items: fixture.Posts(25), delay: 5 * time.Millisecond}
	e, err := NewExporter(src, 3, 4)
	require.NoError(t, err)

	pages, ids, progress, err := collect(t, e)
	require.NoError(t, err)

	assert.Equal(t, seq(1, 9), pages, "pages are emitted in order")
	assert.Equal(t, seq(1, 25), ids)
	assert.Equal(t, int32(9), src.calls.Load())
	assert.LessOrEqual(t, src.peak.Load(), int32(4))

	snap := progress.Snapshot()
	assert.Equal(t, 9, snap.TotalPages)
	assert.Equal(t, 9, snap.FetchedPages)
	assert.Equal(t, 25, snap.FetchedItems)
	assert.True(t, progress.IsComplete())
	assert.InDelta(t, 100.0, progress.PercentComplete(), 0.001)
}

func TestExporter_ReportedTotalTooLarge(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
	}{
		{"just over the limit", maxPages + 1},
		{"huge total", 1 << 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			src := source.Func(func(_ context.Context, _ pagination.PageRequest) (pagination.PageResult, error) {
				calls.Add(1)
				return pagination.PageResult{
					Items:      fixture.Posts(1),
					TotalItems: tt.totalItems,
					TotalKnown: true,
				}, nil
			})
			e, err := NewExporter(src, 1, 4)
			require.NoError(t, err)

			var pages []int
			var progress *Progress
			assert.NotPanics(t, func() {
				pages, _, progress, err = collect(t, e)
			})
			require.ErrorIs(t, err, ErrTooManyPages)
			assert.Nil(t, progress)
			assert.Empty(t, pages, "nothing is emitted")
			assert.Equal(t, int32(1), calls.Load(), "only the first page is fetched")
		})
	}
}

func TestExporter_SinglePage(t *testing.T) {
	src := &pagedSource{items: fixture.Posts(2)}
	e, err := NewExporter(src, 10, 2)
	require.NoError(t, err)

	pages, ids, _, err := collect(t, e)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, pages)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestExporter_Empty(t *testing.T) {
	e, err := NewExporter(&pagedSource{}, 10, 2)
	require.NoError(t, err)

	pages, ids, progress, err := collect(t, e)
	require.NoError(t, err)
	assert.Empty(t, pages)
	assert.Empty(t, ids)
	assert.Equal(t, 1, progress.Snapshot().FetchedPages)
}

func TestExporter_Filter(t *testing.T) {
	posts := fixture.Posts(40)
	needle := strings.Fields(posts[0].Title)[0]
	want := 0
	for _, p := range posts {
		if strings.Contains(p.Title, needle) {
			want++
		}
	}

	e, err := NewExporter(&pagedSource{items: posts}, 3, 3)
	require.NoError(t, err)
	_, ids, _, err := collect(t, e.WithFilter(pagination.Filter{Title: "  " + needle + " "}))
	require.NoError(t, err)
	assert.Len(t, ids, want)
}

func TestExporter_UnknownTotal(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		wantPages []int
	}{
		{"short last page", 10, []int{1, 2, 3, 4}},
		{"exact multiple ends on empty page", 9, []int{1, 2, 3}},
		{"empty", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &pagedSource{items: fixture.Posts(tt.items), omitTotal: true}
			e, err := NewExporter(src, 3, 4)
			require.NoError(t, err)

			pages, ids, progress, err := collect(t, e)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, pages)
			assert.Len(t, ids, tt.items)
			assert.Zero(t, progress.PercentComplete())
			assert.False(t, progress.IsComplete())
			assert.LessOrEqual(t, src.peak.Load(), int32(1), "unknown totals are walked sequentially")
		})
	}
}

func TestExporter_PageFailure(t *testing.T) {
	src := &pagedSource{items: fixture.Posts(30), failPage: 5}
	e, err := NewExporter(src, 3, 2)
	require.NoError(t, err)

	pages, _, _, err := collect(t, e)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrResponse)
	assert.Contains(t, err.Error(), "page 5")
	assert.Empty(t, pages, "nothing is emitted when a page fails")
}

func TestExporter_FirstPageFailure(t *testing.T) {
	src := &pagedSource{items: fixture.Posts(30), failPage: 1}
	e, err := NewExporter(src, 3, 2)
	require.NoError(t, err)

	progress, err := e.Run(context.Background(), func(int, []pagination.Item) error { return nil })
	require.Error(t, err)
	assert.Nil(t, progress)
	assert.Contains(t, err.Error(), "page 1")
}

func TestExporter_EmitError(t *testing.T) {
	e, err := NewExporter(&pagedSource{items: fixture.Posts(10)}, 3, 2)
	require.NoError(t, err)

	sentinel := errors.New("disk full")
	_, err = e.Run(context.Background(), func(page int, _ []pagination.Item) error {
		if page == 2 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestExporter_Timeout(t *testing.T) {
	src := &pagedSource{items: fixture.Posts(10), delay: time.Second}
	e, err := NewExporter(src, 3, 2)
	require.NoError(t, err)

	_, err = e.WithTimeout(10 * time.Millisecond).Run(context.Background(), func(int, []pagination.Item) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrTimeout)
}

func TestExporter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := NewExporter(&pagedSource{items: fixture.Posts(10)}, 3, 2)
	require.NoError(t, err)
	_, err = e.Run(ctx, func(int, []pagination.Item) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExporter_ProgressCallback(t *testing.T) {
	e, err := NewExporter(&pagedSource{items: fixture.Posts(12)}, 3, 3)
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []int
	e.WithProgressCallback(func(p *Progress) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, p.Snapshot().FetchedPages)
	})

	_, _, _, err = collect(t, e)
	require.NoError(t, err)
	assert.Len(t, seen, 4)
	assert.Contains(t, seen, 4)
}

func TestNewExporter_Validation(t *testing.T) {
	_, err := NewExporter(&pagedSource{}, 3, 0)
	require.ErrorIs(t, err, ErrInvalidConcurrency)
	_, err = NewExporter(&pagedSource{}, 3, MaxConcurrency+1)
	require.ErrorIs(t, err, ErrInvalidConcurrency)
	_, err = NewExporter(&pagedSource{}, 0, 2)
	require.ErrorIs(t, err, pagination.ErrInvalidPageSize)

	e, err := NewExporter(&pagedSource{}, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Concurrency())

	_, err = e.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilEmitter)
}

func TestProgress(t *testing.T) {
	p := NewProgress(10, 3)

	assert.Zero(t, p.PercentComplete())
	assert.False(t, p.IsComplete())
	assert.Zero(t, p.EstimatedTimeRemaining())

	p.AddFetched(3)
	assert.InDelta(t, 10.0, p.PercentComplete(), 0.001)
	assert.Equal(t, 1, p.FetchedPages)
	assert.Equal(t, 3, p.FetchedItems)

	for range 9 {
		p.AddFetched(3)
	}
	assert.True(t, p.IsComplete())
	assert.Greater(t, p.ElapsedTime(), time.Duration(0))
	assert.GreaterOrEqual(t, p.PagesPerSecond(), 0.0)
	assert.Zero(t, p.EstimatedTimeRemaining())

	snap := p.Snapshot()
	assert.Equal(t, 10, snap.FetchedPages)
	assert.Equal(t, 30, snap.FetchedItems)
}
