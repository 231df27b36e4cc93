// Package engine holds the paged list controller.
//
// The Controller owns the page, filter and last result of a remote collection.
// Every state change that needs data returns a *Fetch; running it performs the
// network call and yields a Completion, which Apply folds back into the state.
// Each Fetch carries a sequence number and only the newest one is applied, so
// a slow response for an old page can never overwrite a newer page.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pagedview/internal/logging"
	"github.com/rshade/pagedview/internal/metrics"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 10 * time.Second

// Options sets the controller's initial state and collaborators.
type Options struct {
	PageSize     int
	WindowRadius int

	// InitialPage is used by the first fetch. It is not clamped because the total is not yet known.
	InitialPage   int
	InitialFilter pagination.Filter

	// Timeout bounds each fetch. Zero uses DefaultTimeout.
	Timeout time.Duration

	Logger  *zerolog.Logger
	Metrics *metrics.Recorder
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PageSize:     pagination.DefaultPageSize,
		WindowRadius: pagination.DefaultWindowRadius,
		InitialPage:  pagination.DefaultPage,
		Timeout:      DefaultTimeout,
	}
}

// Controller is the paged list state machine: Idle, Loading, then Idle with a result or an error.
// It is safe for concurrent use; Run may execute on any goroutine.
type Controller struct {
	src          source.Source
	pageSize     int
	windowRadius int
	timeout      time.Duration
	logger       zerolog.Logger
	metrics      *metrics.Recorder

	mu          sync.Mutex
	currentPage int
	filter      pagination.Filter
	result      pagination.PageResult
	totalPages  int
	loading     bool
	err         error
	seq         uint64
	cancel      context.CancelFunc
}

// NewController creates a controller over src. Invalid page sizes fall back to the default
// and a negative window radius is treated as zero.
func NewController(src source.Source, opts Options) *Controller {
	if opts.PageSize < pagination.MinPageSize || opts.PageSize > pagination.MaxPageSize {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.InitialPage < pagination.MinPage {
		opts.InitialPage = pagination.DefaultPage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Controller{
		src:          src,
		pageSize:     opts.PageSize,
		windowRadius: max(opts.WindowRadius, 0),
		timeout:      opts.Timeout,
		logger:       logging.ComponentLogger(logger, "engine"),
		metrics:      opts.Metrics,
		currentPage:  opts.InitialPage,
		filter:       opts.InitialFilter.Normalize(),
		result:       pagination.PageResult{Items: []pagination.Item{}},
	}
}

// SetFilter replaces the filter, resets to page 1 and always fetches.
func (c *Controller) SetFilter(ctx context.Context, f pagination.Filter) *Fetch {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = f.Normalize()
	c.currentPage = pagination.MinPage
	c.logger.Debug().Str("filter", c.filter.String()).Msg("filter changed")
	return c.issueLocked(ctx)
}

// SetPage clamps n into [1, max(1, totalPages)] and fetches that page.
// It returns nil when the clamped page is already current.
func (c *Controller) SetPage(ctx context.Context, n int) *Fetch {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := pagination.ClampPage(n, c.totalPages)
	if target == c.currentPage {
		return nil
	}
	c.currentPage = target
	return c.issueLocked(ctx)
}

// NextPage moves one page forward.
func (c *Controller) NextPage(ctx context.Context) *Fetch {
	return c.SetPage(ctx, c.page()+1)
}

// PreviousPage moves one page back.
func (c *Controller) PreviousPage(ctx context.Context) *Fetch {
	return c.SetPage(ctx, c.page()-1)
}

// FirstPage jumps to page 1.
func (c *Controller) FirstPage(ctx context.Context) *Fetch {
	return c.SetPage(ctx, pagination.MinPage)
}

// LastPage jumps to the last known page.
func (c *Controller) LastPage(ctx context.Context) *Fetch {
	c.mu.Lock()
	last := pagination.LastPage(c.totalPages)
	c.mu.Unlock()
	return c.SetPage(ctx, last)
}

// Refresh fetches the current page with the current filter. It is used for the
// initial load and to retry after an error.
func (c *Controller) Refresh(ctx context.Context) *Fetch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueLocked(ctx)
}

// Reconcile returns a fetch for the last page when the current page lies past
// the end of a successfully loaded collection, which happens when the total
// shrinks or the initial page was out of range. It returns nil otherwise.
func (c *Controller) Reconcile(ctx context.Context) *Fetch {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || c.err != nil || c.totalPages == 0 || c.currentPage <= c.totalPages {
		return nil
	}
	c.currentPage = c.totalPages
	c.logger.Debug().Int("page", c.currentPage).Msg("page past the end, moving to last page")
	return c.issueLocked(ctx)
}

// Apply folds a completion into the state. Completions from superseded fetches are
// discarded and Apply returns false.
func (c *Controller) Apply(done Completion) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if done.Seq != c.seq {
		c.metrics.IncStaleDiscard()
		c.logger.Debug().
			Uint64("seq", done.Seq).
			Uint64("current_seq", c.seq).
			Int("page", done.Request.PageNumber).
			Msg("discarding stale response")
		return false
	}

	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.metrics.ObserveFetch(source.Outcome(done.Err), done.Duration)

	if done.Err != nil {
		c.err = done.Err
		c.result = pagination.PageResult{Items: []pagination.Item{}}
		c.totalPages = 0

		evt := c.logger.Warn()
		if source.IsSoft(done.Err) {
			evt = c.logger.Info()
		}
		evt.Err(done.Err).Int("page", done.Request.PageNumber).Msg("page fetch failed")
		return true
	}

	c.err = nil
	c.result = done.Result
	if c.result.Items == nil {
		c.result.Items = []pagination.Item{}
	}
	c.totalPages = pagination.TotalPages(c.result.TotalItems, c.pageSize)

	c.logger.Debug().
		Int("page", done.Request.PageNumber).
		Int("items", len(c.result.Items)).
		Int("total_pages", c.totalPages).
		Dur("duration", done.Duration).
		Msg("page applied")
	return true
}

// Do runs f and applies its completion. It is a no-op for a nil Fetch.
func (c *Controller) Do(f *Fetch) bool {
	if f == nil {
		return false
	}
	return c.Apply(f.Run())
}

// Cancel aborts the in-flight fetch, if any. Its completion will still be applied
// as a network error unless a newer fetch is issued first.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]pagination.Item, len(c.result.Items))
	copy(items, c.result.Items)

	return State{
		Items:       items,
		CurrentPage: c.currentPage,
		TotalPages:  c.totalPages,
		TotalItems:  c.result.TotalItems,
		TotalKnown:  c.result.TotalKnown,
		PageSize:    c.pageSize,
		Filter:      c.filter,
		View:        pagination.ComputeView(c.currentPage, c.totalPages, c.windowRadius),
		Loading:     c.loading,
		Err:         c.err,
		Meta:        pagination.NewMeta(c.currentPage, c.pageSize, c.result.TotalItems),
		Seq:         c.seq,
	}
}

func (c *Controller) page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// issueLocked supersedes any in-flight fetch and returns the next one.
func (c *Controller) issueLocked(ctx context.Context) *Fetch {
	if c.cancel != nil {
		c.cancel()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.seq++
	c.loading = true

	traceID := logging.GetOrGenerateTraceID(ctx)
	logger := c.logger.With().Str("trace_id", traceID).Uint64("seq", c.seq).Logger()
	fetchCtx, cancel := context.WithCancel(logging.ContextWithTraceID(logger.WithContext(ctx), traceID))
	c.cancel = cancel

	req := pagination.PageRequest{
		PageNumber: c.currentPage,
		PageSize:   c.pageSize,
		Filter:     c.filter,
	}
	logger.Debug().Int("page", req.PageNumber).Str("filter", req.Filter.String()).Msg("fetch issued")

	return &Fetch{
		seq:     c.seq,
		req:     req,
		ctx:     fetchCtx,
		src:     c.src,
		timeout: c.timeout,
	}
}
