package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/fixture"
	"github.com/rshade/pagedview/internal/logging"
	"github.com/rshade/pagedview/internal/metrics"
)

// Serve defaults.
const (
	defaultServeAddr     = "127.0.0.1:3000"
	serveShutdownTimeout = 5 * time.Second
	serveReadTimeout     = 5 * time.Second
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	addr      string
	posts     int
	latency   time.Duration
	omitTotal bool
}

// NewServeCmd creates the serve command, which runs a local posts endpoint.
func NewServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local json-server style posts endpoint",
		Long: `Runs an in-memory copy of the posts collection that understands _page, _limit,
id, title_like and body_like and reports X-Total-Count. Prometheus metrics are
exposed on /metrics. Stop it with Ctrl+C.`,
		Example: `  # Serve 100 posts on 127.0.0.1:3000
  pagedview serve

  # Slow responses without totals, to exercise the browser's loading and unknown-total paths
  pagedview serve --latency 800ms --omit-total

  # Browse it
  pagedview browse --url http://127.0.0.1:3000/posts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.posts < 0 {
				return fmt.Errorf("--posts cannot be negative, got %d", opts.posts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", opts.addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", opts.addr, err)
			}
			return runServe(ctx, ln, newServeHandler(ctx, opts), cmd.OutOrStdout(), opts.posts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().IntVar(&opts.posts, "posts", fixture.DefaultPostCount, "number of posts to serve")
	cmd.Flags().DurationVar(&opts.latency, "latency", 0, "delay added to every collection response")
	cmd.Flags().BoolVar(&opts.omitTotal, "omit-total", false, "do not send the X-Total-Count header")

	return cmd
}

// newServeHandler builds the fixture routes plus /metrics.
func newServeHandler(ctx context.Context, opts serveOptions) http.Handler {
	srvLogger := logging.ComponentLogger(*logging.FromContext(ctx), "fixture")
	server := fixture.NewServer(fixture.Posts(opts.posts), fixture.Options{
		Latency:   opts.latency,
		OmitTotal: opts.omitTotal,
		Logger:    &srvLogger,
	})

	router := server.Router()
	router.Handle("/metrics", metrics.NewRecorder().Handler()).Methods(http.MethodGet)
	return router
}

// runServe serves handler on ln until ctx is done, then shuts down gracefully.
func runServe(ctx context.Context, ln net.Listener, handler http.Handler, out io.Writer, posts int) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: serveReadTimeout}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	_, _ = fmt.Fprintf(out, "Serving %d posts at http://%s/posts\n", posts, ln.Addr())
	log.Info().Ctx(ctx).Str("addr", ln.Addr().String()).Int("posts", posts).Msg("fixture server started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Info().Msg("fixture server stopped")
	return nil
}
