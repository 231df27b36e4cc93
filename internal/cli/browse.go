package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/metrics"
	"github.com/rshade/pagedview/internal/tui"
)

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	var (
		flags       pageFlags
		theme       string
		metricsAddr string
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the collection interactively",
		Long: `Opens a full-screen browser over the collection.

Use ←/→ (or h/l) to change page, g/G for the first and last page, 1-9 to jump,
/ to edit the filter, Esc to clear it, r to retry, t to switch theme and q to quit.
When stdout is not a terminal the starting page is printed as a plain table instead.`,
		Example: `  # Browse with the configured defaults
  pagedview browse

  # Start on page 3 of the posts whose body mentions "dolor"
  pagedview browse --page 3 --body dolor

  # Expose Prometheus metrics while browsing
  pagedview browse --metrics-addr :9090`,
		Annotations: map[string]string{annotationOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := flags.effectiveConfig()
			if theme == "" {
				theme = cfg.TUI.Theme
			}
			if theme != config.ThemeDark && theme != config.ThemeLight {
				return fmt.Errorf("%w: %q", config.ErrInvalidTheme, theme)
			}
			if metricsAddr == "" {
				metricsAddr = cfg.Metrics.Address
			}

			params, err := flags.params(cfg)
			if err != nil {
				return err
			}

			rec := metrics.NewRecorder()
			stop := startMetricsServer(ctx, metricsAddr, rec)
			defer stop()

			src, err := buildSource(ctx, cfg, rec)
			if err != nil {
				return err
			}
			ctrl := newController(ctx, src, cfg, params, flags.filter(), rec)

			if tui.DetectOutputMode(false, false, plain) != tui.OutputModeInteractive {
				logger.Debug().Ctx(ctx).Msg("stdout is not an interactive terminal, printing one page")
				return tui.RenderPageAsTable(cmd.OutOrStdout(), loadPage(ctx, ctrl))
			}

			model := tui.NewBrowserModel(ctx, ctrl, tui.ThemeByName(theme))
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	addPageFlags(cmd, &flags)
	cmd.Flags().StringVar(&theme, "theme", "", "colour theme: dark or light (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the page as text instead of opening the browser")

	return cmd
}
