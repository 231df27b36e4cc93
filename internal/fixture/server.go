package fixture

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/pagedview/internal/pagination"
)

// Query parameter names understood by the collection.
const (
	ParamPage      = "_page"
	ParamLimit     = "_limit"
	ParamID        = "id"
	ParamTitleLike = "title_like"
	ParamBodyLike  = "body_like"

	// HeaderTotalCount carries the number of posts matching the filter.
	HeaderTotalCount = "X-Total-Count"

	// defaultLimit is the page size used when only _page is given.
	defaultLimit = 10
)

// Options adjusts how the fixture behaves.
type Options struct {
	// Latency delays every collection response.
	Latency time.Duration

	// OmitTotal drops the X-Total-Count header, as some deployments do for filtered queries.
	OmitTotal bool

	// Logger receives per-request debug lines. Nil disables logging.
	Logger *zerolog.Logger
}

// Server holds an in-memory posts collection.
type Server struct {
	items  []pagination.Item
	opts   Options
	logger zerolog.Logger
}

// NewServer creates a fixture over items.
func NewServer(items []pagination.Item, opts Options) *Server {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Server{items: items, opts: opts, logger: logger}
}

// Router returns the HTTP routes for the collection.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/posts", s.listPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", s.getPost).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}

// listPosts handles GET /posts with json-server filtering and paging.
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	if !s.wait(r) {
		return
	}

	q := r.URL.Query()
	matched, err := s.filter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := intParam(q, ParamPage, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(q, ParamLimit, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := window(matched, page, limit)

	s.logger.Debug().
		Str("query", r.URL.RawQuery).
		Int("matched", len(matched)).
		Int("returned", len(out)).
		Msg("fixture list")

	if !s.opts.OmitTotal {
		w.Header().Set(HeaderTotalCount, strconv.Itoa(len(matched)))
	}
	writeJSON(w, http.StatusOK, out)
}

// getPost handles GET /posts/{id}.
func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	for _, it := range s.items {
		if it.ID == id {
			writeJSON(w, http.StatusOK, it)
			return
		}
	}
	writeError(w, http.StatusNotFound, "post not found")
}

// wait applies the configured latency, returning false if the client went away first.
func (s *Server) wait(r *http.Request) bool {
	if s.opts.Latency <= 0 {
		return true
	}
	t := time.NewTimer(s.opts.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

func (s *Server) filter(q map[string][]string) ([]pagination.Item, error) {
	ids := q[ParamID]
	title, err := likeMatcher(first(q, ParamTitleLike))
	if err != nil {
		return nil, err
	}
	body, err := likeMatcher(first(q, ParamBodyLike))
	if err != nil {
		return nil, err
	}

	out := make([]pagination.Item, 0, len(s.items))
	for _, it := range s.items {
		if len(ids) > 0 && !containsID(ids, it.ID) {
			continue
		}
		if title != nil && !title.MatchString(it.Title) {
			continue
		}
		if body != nil && !body.MatchString(it.Body) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// window slices items like json-server: _page without _limit uses 10, _limit alone takes the head.
func window(items []pagination.Item, page, limit int) []pagination.Item {
	if page <= 0 && limit <= 0 {
		return items
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	page = max(page, 1)

	// Compare before multiplying so huge _page or _limit values cannot overflow.
	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	if page-1 >= pages {
		return []pagination.Item{}
	}
	start := (page - 1) * limit
	end := start + min(limit, len(items)-start)
	return items[start:end]
}

// likeMatcher compiles a case-insensitive pattern; an empty value matches everything.
func likeMatcher(v string) (*regexp.Regexp, error) {
	if v == "" {
		return nil, nil //nolint:nilnil // nil matcher means no constraint.
	}
	re, err := regexp.Compile("(?i)" + v)
	if err != nil {
		// Not a valid pattern: fall back to a literal match.
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(v)), nil
	}
	return re, nil
}

func containsID(ids []string, id int) bool {
	want := strconv.Itoa(id)
	for _, v := range ids {
		if strings.TrimSpace(v) == want {
			return true
		}
	}
	return false
}

func first(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func intParam(q map[string][]string, key string, fallback int) (int, error) {
	v := first(q, key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &paramError{name: key, value: v}
	}
	return n, nil
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": " + strconv.Quote(e.value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
