package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
)

// NewCacheCommand creates the cache command with its subcommands.
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the provider response cache",
	}

	cacheCmd.AddCommand(
		newCacheStatusCommand(container),
		newCacheClearCommand(container),
	)

	return cacheCmd
}

func newCacheStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache location and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if container.CacheStore == nil {
				fmt.Fprintln(out, "Response cache is disabled.")
				fmt.Fprintln(out, "Set cache.enabled: true in the config to reuse identical requests.")
				return nil
			}
			fmt.Fprintf(out, "dir:     %s\n", container.Config.Cache.Dir)
			fmt.Fprintf(out, "ttl:     %dm\n", container.Config.Cache.TTLMinutes)
			fmt.Fprintf(out, "entries: %d\n", container.CacheStore.Len())
			return nil
		},
	}
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.CacheStore == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Response cache is disabled.")
				return nil
			}
			if err := container.CacheStore.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}
