package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/internal/config"
	"github.com/matzehuels/cardfan/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
		Long: `Manage the on-disk render cache.

Computed frames and rendered artifacts are cached under the cache directory
(cache.dir in the config file). A redis-backed cache is shared and must be
managed with redis tooling.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached frames and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheDir())
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			printKeyValue("Backend", c.Config.Cache.Backend)
			if c.Config.Cache.Backend == config.BackendRedis {
				printKeyValue("Address", c.Config.Redis.Addr)
				printKeyValue("Prefix", c.Config.Redis.Prefix)
				return nil
			}
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			entries, size, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

func (c *CLI) cacheDir() string {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	return config.CacheDir()
}

// fileCache opens the on-disk cache. The directory is managed even when
// another backend is configured, since it may hold entries from earlier runs.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	if c.Config.Cache.Backend == config.BackendRedis {
		printWarning("cache.backend is redis; managing the file cache only")
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		return nil, fmt.Errorf("open cache dir: %w", err)
	}
	return fc, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
