package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file at ~/.pagedview/config.yaml (or --config) together
with the .env file and PAGEDVIEW_* variables.

This includes:
- YAML syntax and field types
- Source URL, timeout and rate limit
- Page size and selector radius
- Cache TTL, log level, output format and theme`,
		Example: `  # Validate current configuration
  pagedview config validate

  # Validate and show the effective settings
  pagedview config validate --verbose`,
		Annotations: map[string]string{annotationChecksConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cmd.Printf("No configuration file at %s, defaults apply\n", path)
	}
	cmd.Println("Configuration is valid")

	if verbose {
		cmd.Printf("  Source:      %s (timeout %s, %d retries)\n",
			cfg.Source.BaseURL, cfg.Source.Timeout, cfg.Source.Retries)
		cmd.Printf("  Page size:   %d (radius %d)\n", cfg.Pagination.PageSize, cfg.Pagination.WindowRadius)
		if cfg.Cache.Enabled {
			cmd.Printf("  Cache:       enabled, ttl %s\n", cfg.Cache.TTL)
		} else {
			cmd.Println("  Cache:       disabled")
		}
		cmd.Printf("  Output:      %s\n", cfg.Output.Format)
		cmd.Printf("  Theme:       %s\n", cfg.TUI.Theme)
		cmd.Printf("  Log level:   %s\n", cfg.Logging.Level)
	}

	return nil
}
