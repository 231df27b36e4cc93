package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/cache"
	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/engine"
	"github.com/rshade/pagedview/internal/logging"
	"github.com/rshade/pagedview/internal/metrics"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// metricsShutdownTimeout bounds how long the metrics listener gets to drain.
const metricsShutdownTimeout = 2 * time.Second

// pageFlags holds the source, page and filter flags shared by browse, list and export.
type pageFlags struct {
	url      string
	page     int
	pageSize int
	id       string
	title    string
	body     string
}

func addPageFlags(cmd *cobra.Command, f *pageFlags) {
	cmd.Flags().StringVar(&f.url, "url", "", "collection URL (default from config)")
	cmd.Flags().IntVar(&f.page, "page", pagination.DefaultPage, "page to start on")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "items per page (default from config)")
	cmd.Flags().StringVar(&f.id, "id", "", "only the post with this id")
	cmd.Flags().StringVar(&f.title, "title", "", "only posts whose title matches")
	cmd.Flags().StringVar(&f.body, "body", "", "only posts whose body matches")
}

func (f pageFlags) filter() pagination.Filter {
	return pagination.Filter{ID: f.id, Title: f.title, Body: f.body}.Normalize()
}

// params combines the flags with the configured defaults and validates the result.
func (f pageFlags) params(cfg *config.Config) (pagination.Params, error) {
	p := pagination.Params{
		Page:         f.page,
		PageSize:     cfg.Pagination.PageSize,
		WindowRadius: cfg.Pagination.WindowRadius,
	}
	if f.pageSize != 0 {
		p.PageSize = f.pageSize
	}
	if err := p.Validate(); err != nil {
		return pagination.Params{}, err
	}
	return p, nil
}

// effectiveConfig returns a copy of the global config with the --url override applied.
func (f pageFlags) effectiveConfig() *config.Config {
	cfg := *config.GetGlobalConfig()
	if f.url != "" {
		cfg.Source.BaseURL = f.url
	}
	return &cfg
}

// buildSource creates the HTTP source for cfg, wrapped in the page cache when it is enabled.
// A cache that cannot be opened is logged and skipped.
func buildSource(ctx context.Context, cfg *config.Config, rec *metrics.Recorder) (source.Source, error) {
	log := logging.FromContext(ctx)

	httpSrc, err := source.NewHTTPSource(source.HTTPConfig{
		BaseURL:   cfg.Source.BaseURL,
		Timeout:   cfg.Source.Timeout,
		RateLimit: cfg.Source.RateLimit,
		Burst:     cfg.Source.Burst,
		Retries:   cfg.Source.Retries,
		UserAgent: cfg.Source.UserAgent,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating source: %w", err)
	}

	if !cfg.Cache.Enabled {
		return httpSrc, nil
	}

	store, err := openCache(cfg)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("page cache unavailable, continuing without it")
		return httpSrc, nil
	}
	return source.NewCachedSource(httpSrc, store, httpSrc.BaseURL(), rec, log), nil
}

// openCache opens the configured page cache directory.
func openCache(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileStore(dir, cfg.Cache.Enabled, cfg.Cache.TTL, cfg.Cache.MaxSizeMB)
}

// newController builds a controller for the given params and filter.
func newController(
	ctx context.Context,
	src source.Source,
	cfg *config.Config,
	params pagination.Params,
	filter pagination.Filter,
	rec *metrics.Recorder,
) *engine.Controller {
	return engine.NewController(src, engine.Options{
		PageSize:      params.PageSize,
		WindowRadius:  params.WindowRadius,
		InitialPage:   params.Page,
		InitialFilter: filter,
		Timeout:       cfg.Source.Timeout,
		Logger:        logging.FromContext(ctx),
		Metrics:       rec,
	})
}

// startMetricsServer serves rec on addr until the returned stop function is called.
// An empty addr disables the endpoint.
func startMetricsServer(ctx context.Context, addr string, rec *metrics.Recorder) func() {
	if addr == "" {
		return func() {}
	}
	log := logging.FromContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Ctx(ctx).Str("addr", addr).Msg("serving metrics")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// loadPage fetches the controller's current page, moving to the last page when
// the requested one lies past the end, and returns the resulting state.
func loadPage(ctx context.Context, ctrl *engine.Controller) engine.State {
	ctrl.Do(ctrl.Refresh(ctx))
	ctrl.Do(ctrl.Reconcile(ctx))
	return ctrl.State()
}
