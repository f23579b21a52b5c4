package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/explore/config"
	"github.com/spiffcs/explore/internal/cache"
	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/duration"
	"github.com/spiffcs/explore/internal/service"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent query cache",
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())
	cmd.AddCommand(newCmdCachePrune())

	return cmd
}

// newCmdCacheClear creates the cache clear subcommand.
func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached query",
		RunE:  runCacheClear,
	}
}

// newCmdCacheStats creates the cache stats subcommand.
func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE:  runCacheStats,
	}
}

// newCmdCachePrune creates the cache prune subcommand.
func newCmdCachePrune() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable cache entries",
		RunE:  runCachePrune,
	}
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	c, err := cache.NewCache()
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	c, err := cache.NewCache()
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}

	removed, err := c.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s.\n", removed, plural(removed, "entry", "entries"))
	return nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	c, err := cache.NewCache()
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}

	staleTimes, err := configuredStaleTimes()
	if err != nil {
		return err
	}

	stats, err := c.DetailedStats(staleTimes)
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	printCacheStats(cmd, c.Dir(), stats, staleTimes)
	return nil
}

// configuredStaleTimes maps each query kind to its configured stale time.
func configuredStaleTimes() (map[string]time.Duration, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return map[string]time.Duration{
		service.KindRepositoriesSearch: s.SearchStale,
		service.KindRepository:         s.RepositoryStale,
		service.KindRepositoryIssues:   s.IssuesStale,
	}, nil
}

func printCacheStats(cmd *cobra.Command, dir string, stats *cache.Stats, staleTimes map[string]time.Duration) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Cache statistics (%s):\n", dir)
	if len(stats.Kinds) == 0 {
		fmt.Fprintln(w, "  No cached queries.")
	}
	for _, k := range stats.Kinds {
		fmt.Fprintf(w, "  %s (fresh for %s):\n", k.Kind, duration.Format(staleTimes[k.Kind]))
		fmt.Fprintf(w, "    Total: %d\n", k.Total)
		fmt.Fprintf(w, "    Fresh: %d\n", k.Fresh)
		fmt.Fprintf(w, "    Stale: %d\n", k.Total-k.Fresh)
		fmt.Fprintf(w, "    Size:  %d bytes\n", k.Bytes)
	}
	if stats.Invalid > 0 {
		fmt.Fprintf(w, "  Unreadable or outdated: %d (run 'explore cache prune')\n", stats.Invalid)
	}
	fmt.Fprintf(w, "Entries older than %s are never used.\n", duration.Format(constants.CacheMaxAge))
}
