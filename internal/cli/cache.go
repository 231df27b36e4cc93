package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/cache"
	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/tui"
)

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	var expiredOnly, yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages",
		Example: `  # Remove every cached page
  pagedview cache clear

  # Remove only expired pages
  pagedview cache clear --expired

  # Skip the confirmation prompt
  pagedview cache clear --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForMaintenance()
			if err != nil {
				return err
			}

			if !expiredOnly && !yes && tui.IsTTY() {
				count, countErr := store.Count()
				if countErr != nil {
					return fmt.Errorf("counting cache entries: %w", countErr)
				}
				if count == 0 {
					cmd.Printf("Cache at %s is already empty\n", store.Directory())
					return nil
				}
				question := fmt.Sprintf("Remove %d cached page(s) from %s?", count, store.Directory())
				if !Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), question).Accepted {
					cmd.Println("Aborted")
					return nil
				}
			}

			var removed int
			if expiredOnly {
				removed, err = store.CleanupExpired()
			} else {
				removed, err = store.Clear()
			}
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			cmd.Printf("Removed %d cached page(s) from %s\n", removed, store.Directory())
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location, entry count and size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForMaintenance()
			if err != nil {
				return err
			}

			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("counting cache entries: %w", err)
			}
			size, err := store.Size()
			if err != nil {
				return fmt.Errorf("measuring cache: %w", err)
			}

			cmd.Printf("Directory: %s\n", store.Directory())
			cmd.Printf("Entries:   %d\n", count)
			cmd.Printf("Size:      %d bytes\n", size)
			cmd.Printf("TTL:       %s\n", cache.FormatDuration(store.TTL()))
			return nil
		},
	}
}

// openCacheForMaintenance opens the cache directory even when caching is disabled
// for lookups, so stale entries can still be inspected and removed.
func openCacheForMaintenance() (*cache.FileStore, error) {
	cfg := *config.GetGlobalConfig()
	cfg.Cache.Enabled = true
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = cache.DefaultTTL
	}
	store, err := openCache(&cfg)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}
