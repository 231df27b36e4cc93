package source

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rshade/pagedview/internal/cache"
	"github.com/rshade/pagedview/internal/metrics"
	"github.com/rshade/pagedview/internal/pagination"
)

// PageStore is the subset of the page cache used by CachedSource.
type PageStore interface {
	GetPage(key string) (pagination.PageResult, error)
	SetPage(key string, result pagination.PageResult) error
	IsEnabled() bool
}

// CachedSource serves pages from a PageStore before asking the wrapped Source.
// Only successful results are stored. Cache failures are logged and bypassed.
type CachedSource struct {
	next     Source
	store    PageStore
	endpoint string
	metrics  *metrics.Recorder
	logger   zerolog.Logger
}

// NewCachedSource wraps next. endpoint scopes the cache keys to one collection.
func NewCachedSource(next Source, store PageStore, endpoint string, rec *metrics.Recorder, logger *zerolog.Logger) *CachedSource {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &CachedSource{
		next:     next,
		store:    store,
		endpoint: endpoint,
		metrics:  rec,
		logger:   l.With().Str("component", "cache").Logger(),
	}
}

// Fetch returns the cached page for req when present and live, otherwise fetches and stores it.
func (c *CachedSource) Fetch(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
	if c.store == nil || !c.store.IsEnabled() {
		return c.next.Fetch(ctx, req)
	}

	key, err := cache.GenerateKey(cache.KeyParams{Endpoint: c.endpoint, Request: req})
	if err != nil {
		c.logger.Warn().Err(err).Msg("cache key generation failed, bypassing cache")
		return c.next.Fetch(ctx, req)
	}

	result, err := c.store.GetPage(key)
	if err == nil {
		c.metrics.ObserveCacheLookup(true)
		c.logger.Debug().Int("page", req.PageNumber).Msg("cache hit")
		return result, nil
	}
	c.metrics.ObserveCacheLookup(false)
	if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheExpired) {
		c.logger.Warn().Err(err).Msg("cache read failed")
	}

	result, err = c.next.Fetch(ctx, req)
	if err != nil {
		return result, err
	}

	if setErr := c.store.SetPage(key, result); setErr != nil {
		c.logger.Warn().Err(setErr).Msg("cache write failed")
	}
	return result, nil
}
