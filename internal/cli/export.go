package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/engine/batch"
	"github.com/rshade/pagedview/internal/metrics"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/tui"
)

// NewExportCmd creates the export command, which writes every matching item as NDJSON.
func NewExportCmd() *cobra.Command {
	var (
		flags       pageFlags
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every item of the collection as NDJSON",
		Long: `Fetches all pages of the (optionally filtered) collection and writes one JSON
object per line, in page order. Pages are requested concurrently, at most
--concurrency at a time. When the collection reports a total, nothing is
written unless every page succeeds.`,
		Example: `  # Export everything
  pagedview export > posts.ndjson

  # Export posts by title with 50 items per request and 8 requests in flight
  pagedview export --title qui --page-size 50 --concurrency 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := flags.effectiveConfig()

			params, err := flags.params(cfg)
			if err != nil {
				return err
			}

			rec := metrics.NewRecorder()
			src, err := buildSource(ctx, cfg, rec)
			if err != nil {
				return err
			}

			exporter, err := batch.NewExporter(src, params.PageSize, concurrency)
			if err != nil {
				return err
			}
			exporter.WithFilter(flags.filter()).
				WithTimeout(cfg.Source.Timeout).
				WithProgressCallback(func(p *batch.Progress) {
					snap := p.Snapshot()
					logger.Debug().Ctx(ctx).
						Int("fetched_pages", snap.FetchedPages).
						Int("total_pages", snap.TotalPages).
						Int("fetched_items", snap.FetchedItems).
						Msg("export progress")
				})

			out := bufio.NewWriter(cmd.OutOrStdout())
			progress, err := exporter.Run(ctx, func(_ int, items []pagination.Item) error {
				return tui.RenderItemsAsNDJSON(out, items)
			})
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			if err = out.Flush(); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			snap := progress.Snapshot()
			logger.Info().Ctx(ctx).
				Int("pages", snap.FetchedPages).
				Int("items", snap.FetchedItems).
				Dur("elapsed", snap.ElapsedTime).
				Msg("export finished")
			return nil
		},
	}

	addPageFlags(cmd, &flags)
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "maximum page requests in flight")
	// Export always starts at the first page.
	_ = cmd.Flags().MarkHidden("page")

	return cmd
}
