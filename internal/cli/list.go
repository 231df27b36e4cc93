package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/tui"
)

// NewListCmd creates the list command, which prints a single page.
func NewListCmd() *cobra.Command {
	var (
		flags  pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the collection",
		Example: `  # First page as a table
  pagedview list

  # Page 5 with 10 posts per page as JSON
  pagedview list --page 5 --page-size 10 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := flags.effectiveConfig()
			if output == "" {
				output = cfg.Output.Format
			}
			if output != config.FormatTable && output != config.FormatJSON {
				return fmt.Errorf("%w: %q", config.ErrInvalidFormat, output)
			}

			params, err := flags.params(cfg)
			if err != nil {
				return err
			}
			src, err := buildSource(ctx, cfg, nil)
			if err != nil {
				return err
			}

			ctrl := newController(ctx, src, cfg, params, flags.filter(), nil)
			state := loadPage(ctx, ctrl)

			if output == config.FormatJSON {
				err = tui.RenderPageAsJSON(cmd.OutOrStdout(), state)
			} else {
				err = tui.RenderPageAsTable(cmd.OutOrStdout(), state)
			}
			if err != nil {
				return err
			}

			// Malformed responses are reported in the output but are not fatal.
			if state.Err != nil && !state.SoftError() {
				return fmt.Errorf("fetching page %d: %w", state.CurrentPage, state.Err)
			}
			return nil
		},
	}

	addPageFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json (default from config)")

	return cmd
}
