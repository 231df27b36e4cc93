package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// annotationOwnsTerminal marks commands that take over the screen, so logging must stay off stderr.
const annotationOwnsTerminal = "owns-terminal"

// annotationChecksConfig marks commands that load and report on the config file themselves,
// so a broken file must not abort them before they run.
const annotationChecksConfig = "checks-config"

// NewRootCmd creates the root Cobra command for the pagedview CLI.
// It loads configuration, wires up logging and tracing, and registers subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:          "pagedview",
		Short:        "Browse a paged remote collection from the terminal",
		Long:         "pagedview: page through, filter and export a json-server style collection",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				if _, ok := cmd.Annotations[annotationChecksConfig]; !ok {
					return fmt.Errorf("loading configuration: %w", err)
				}
				cfg = config.New()
			}
			if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
				cfg.Cache.Enabled = false
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.pagedview/config.yaml)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the on-disk page cache")
	cmd.AddCommand(
		NewBrowseCmd(), NewListCmd(), NewExportCmd(), NewServeCmd(),
		newCacheCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Browse the public placeholder posts interactively
  pagedview browse

  # Browse a local json-server, starting on page 4 with 10 posts per page
  pagedview browse --url http://localhost:3000/posts --page 4 --page-size 10

  # Print page 2 of the posts whose title contains "qui" as JSON
  pagedview list --page 2 --title qui --output json

  # Export every post as NDJSON
  pagedview export > posts.ndjson

  # Serve a local copy of the posts endpoint on :3000
  pagedview serve --addr :3000

  # Write a default configuration file
  pagedview config init`

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Page cache commands"}
	cmd.AddCommand(NewCacheClearCmd(), NewCacheStatsCmd())
	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
