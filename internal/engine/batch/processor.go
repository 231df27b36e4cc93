package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// Export concurrency limits.
const (
	DefaultConcurrency = 4
	MinConcurrency     = 1
	MaxConcurrency     = 32

	// DefaultPageTimeout bounds each page fetch.
	DefaultPageTimeout = 10 * time.Second

	// maxPages bounds an export: a reported total above it is rejected, and a collection
	// with no total that never sends a short page is stopped there.
	maxPages = 10000
)

// Common export errors.
var (
	ErrInvalidConcurrency = errors.New("concurrency must be between 1 and 32")
	ErrNilEmitter         = errors.New("export emitter cannot be nil")
	ErrTooManyPages       = errors.New("collection exceeds the page limit")
)

// EmitFunc receives one page of items. Pages arrive in ascending order.
type EmitFunc func(page int, items []pagination.Item) error

// ProgressCallback is invoked after each page is fetched.
type ProgressCallback func(progress *Progress)

// Exporter fetches all pages of a filtered collection.
type Exporter struct {
	src         source.Source
	pageSize    int
	filter      pagination.Filter
	concurrency int
	timeout     time.Duration
	onProgress  ProgressCallback
}

// NewExporter creates an exporter reading pageSize items per request with at
// most concurrency requests in flight.
func NewExporter(src source.Source, pageSize, concurrency int) (*Exporter, error) {
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	if pageSize < pagination.MinPageSize || pageSize > pagination.MaxPageSize {
		return nil, fmt.Errorf("%w: got %d", pagination.ErrInvalidPageSize, pageSize)
	}
	return &Exporter{
		src:         src,
		pageSize:    pageSize,
		concurrency: concurrency,
		timeout:     DefaultPageTimeout,
	}, nil
}

// WithFilter restricts the export to items matching f.
func (e *Exporter) WithFilter(f pagination.Filter) *Exporter {
	e.filter = f.Normalize()
	return e
}

// WithTimeout sets the per-page timeout. Non-positive values keep the default.
func (e *Exporter) WithTimeout(d time.Duration) *Exporter {
	if d > 0 {
		e.timeout = d
	}
	return e
}

// WithProgressCallback sets a progress callback. It may be called from several goroutines.
func (e *Exporter) WithProgressCallback(callback ProgressCallback) *Exporter {
	e.onProgress = callback
	return e
}

// Concurrency returns the configured request limit.
func (e *Exporter) Concurrency() int {
	return e.concurrency
}

// Run exports the collection, calling emit once per non-empty page in order.
// The first failing page cancels the rest and its error is returned.
func (e *Exporter) Run(ctx context.Context, emit EmitFunc) (*Progress, error) {
	if emit == nil {
		return nil, ErrNilEmitter
	}

	first, err := e.fetch(ctx, pagination.MinPage)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pagination.MinPage, err)
	}

	if !first.TotalKnown {
		progress := NewProgress(0, e.pageSize)
		e.track(progress, len(first.Items))
		return progress, e.runSequential(ctx, first, progress, emit)
	}

	totalPages := pagination.TotalPages(first.TotalItems, e.pageSize)
	if totalPages > maxPages {
		return nil, fmt.Errorf("%w: server reported %d pages, limit is %d", ErrTooManyPages, totalPages, maxPages)
	}
	progress := NewProgress(totalPages, e.pageSize)
	e.track(progress, len(first.Items))
	if totalPages <= 1 {
		return progress, emitPage(emit, pagination.MinPage, first.Items)
	}

	pages := make([][]pagination.Item, totalPages)
	pages[0] = first.Items

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for page := 2; page <= totalPages; page++ {
		g.Go(func() error {
			result, fetchErr := e.fetch(gCtx, page)
			if fetchErr != nil {
				return fmt.Errorf("page %d: %w", page, fetchErr)
			}
			// Each goroutine owns its own slot.
			pages[page-1] = result.Items
			e.track(progress, len(result.Items))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return progress, err
	}

	for i, items := range pages {
		if err = emitPage(emit, i+1, items); err != nil {
			return progress, err
		}
	}
	return progress, nil
}

// runSequential walks pages until one comes back short, for collections without a total.
func (e *Exporter) runSequential(ctx context.Context, first pagination.PageResult, progress *Progress, emit EmitFunc) error {
	result := first
	for page := pagination.MinPage; ; page++ {
		if err := emitPage(emit, page, result.Items); err != nil {
			return err
		}
		if len(result.Items) < e.pageSize {
			return nil
		}
		if page >= maxPages {
			return fmt.Errorf("%w: %d pages", ErrTooManyPages, maxPages)
		}

		var err error
		result, err = e.fetch(ctx, page+1)
		if err != nil {
			return fmt.Errorf("page %d: %w", page+1, err)
		}
		e.track(progress, len(result.Items))
	}
}

func (e *Exporter) fetch(ctx context.Context, page int) (pagination.PageResult, error) {
	if err := ctx.Err(); err != nil {
		return pagination.PageResult{}, err
	}
	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.src.Fetch(fetchCtx, pagination.PageRequest{
		PageNumber: page,
		PageSize:   e.pageSize,
		Filter:     e.filter,
	})
	if err != nil {
		return pagination.PageResult{}, source.Classify(err)
	}
	return result, nil
}

func (e *Exporter) track(progress *Progress, items int) {
	progress.AddFetched(items)
	if e.onProgress != nil {
		e.onProgress(progress)
	}
}

func emitPage(emit EmitFunc, page int, items []pagination.Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := emit(page, items); err != nil {
		return fmt.Errorf("emitting page %d: %w", page, err)
	}
	return nil
}
