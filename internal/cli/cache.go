package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the local result cache.

Parsed graphs, layouts and rendered files are cached on disk so repeated
runs are instant. These commands act on the file cache only; clear remote
backends with their own tooling.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
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
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory or the default.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
