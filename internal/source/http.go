package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/pagedview/internal/pagination"
)

// HTTP defaults.
const (
	DefaultBaseURL   = "https://jsonplaceholder.typicode.com/posts"
	DefaultTimeout   = 10 * time.Second
	DefaultRetryWait = 500 * time.Millisecond
	DefaultUserAgent = "pagedview"

	// HeaderTotalCount carries the number of items matching the filter.
	HeaderTotalCount = "X-Total-Count"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	// BaseURL is the collection URL, e.g. https://host/posts.
	BaseURL string

	// Timeout bounds each attempt. Zero uses DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second (0 = unlimited).
	RateLimit float64

	// Burst is the limiter burst size. Values below 1 become 1.
	Burst int

	// Retries is the number of extra attempts after a network failure or 5xx status.
	Retries int

	// RetryWait is the pause between attempts. Zero uses DefaultRetryWait.
	RetryWait time.Duration

	UserAgent string

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client

	Logger *zerolog.Logger
}

// HTTPSource fetches pages from a json-server style endpoint.
type HTTPSource struct {
	base    *url.URL
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewHTTPSource validates cfg and builds an HTTPSource.
func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = DefaultRetryWait
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &HTTPSource{
		base:    base,
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		logger:  logger.With().Str("component", "source").Logger(),
	}, nil
}

// BaseURL returns the collection URL.
func (s *HTTPSource) BaseURL() string {
	return s.base.String()
}

// URL returns the request URL for req.
func (s *HTTPSource) URL(req pagination.PageRequest) string {
	u := *s.base
	q := u.Query()
	q.Set("_page", strconv.Itoa(req.PageNumber))
	q.Set("_limit", strconv.Itoa(req.PageSize))

	f := req.Filter.Normalize()
	if f.ID != "" {
		q.Set("id", f.ID)
	}
	if f.Title != "" {
		q.Set("title_like", f.Title)
	}
	if f.Body != "" {
		q.Set("body_like", f.Body)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch retrieves one page. An invalid request fails validation before any I/O;
// every other failure is a *FetchError.
func (s *HTTPSource) Fetch(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
	if err := req.Validate(); err != nil {
		return pagination.PageResult{}, fmt.Errorf("invalid page request: %w", err)
	}

	target := s.URL(req)
	log := s.logger.With().Str("url", target).Logger()

	var lastErr *FetchError
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, s.cfg.RetryWait); err != nil {
				return pagination.PageResult{}, classifyTransport(err)
			}
			log.Debug().Int("attempt", attempt+1).Msg("retrying fetch")
		}

		result, fetchErr := s.attempt(ctx, target)
		if fetchErr == nil {
			log.Debug().
				Int("items", len(result.Items)).
				Int("total", result.TotalItems).
				Bool("total_known", result.TotalKnown).
				Msg("page fetched")
			return result, nil
		}
		lastErr = fetchErr
		if !retryable(ctx, fetchErr) {
			break
		}
	}

	log.Debug().Err(lastErr).Str("kind", lastErr.Kind.String()).Msg("fetch failed")
	return pagination.PageResult{}, lastErr
}

func (s *HTTPSource) attempt(ctx context.Context, target string) (pagination.PageResult, *FetchError) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return pagination.PageResult{}, classifyTransport(err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return pagination.PageResult{}, NetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return pagination.PageResult{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return pagination.PageResult{}, classifyTransport(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pagination.PageResult{}, ResponseError(resp.StatusCode, nil)
	}

	return decodePage(resp.StatusCode, resp.Header, body)
}

// wireItem is an item as sent by the server. ID is a pointer so a missing key can be told apart from zero.
type wireItem struct {
	ID     *int   `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// decodePage interprets a success response. A missing total header is not an error.
func decodePage(status int, header http.Header, body []byte) (pagination.PageResult, *FetchError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return pagination.PageResult{}, MalformedError(status, errors.New("body is not a JSON array"))
	}

	var wire []*wireItem
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return pagination.PageResult{}, MalformedError(status, fmt.Errorf("failed to decode items: %w", err))
	}
	items := make([]pagination.Item, 0, len(wire))
	for i, w := range wire {
		if w == nil {
			return pagination.PageResult{}, MalformedError(status, fmt.Errorf("item %d is null", i))
		}
		if w.ID == nil {
			return pagination.PageResult{}, MalformedError(status, fmt.Errorf("item %d has no id", i))
		}
		items = append(items, pagination.Item{ID: *w.ID, UserID: w.UserID, Title: w.Title, Body: w.Body})
	}

	result := pagination.PageResult{Items: items}

	raw := strings.TrimSpace(header.Get(HeaderTotalCount))
	if raw == "" {
		return result, nil
	}
	total, err := strconv.Atoi(raw)
	if err != nil {
		return pagination.PageResult{}, MalformedError(status, fmt.Errorf("invalid %s header %q: %w", HeaderTotalCount, raw, err))
	}
	if total < 0 {
		return pagination.PageResult{}, MalformedError(status, fmt.Errorf("invalid %s header %q: negative", HeaderTotalCount, raw))
	}

	result.TotalItems = total
	result.TotalKnown = true
	return result, nil
}

// retryable reports whether another attempt may succeed: 5xx statuses and network
// failures that were not caused by the caller's context ending.
func retryable(ctx context.Context, err *FetchError) bool {
	if ctx.Err() != nil {
		return false
	}
	switch err.Kind {
	case KindNetwork:
		return true
	case KindResponse:
		return err.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
