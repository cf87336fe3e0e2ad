package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/toolcatalog/pkg/cache"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}
	cmd.PersistentFlags().StringVarP(&path, "config", "c", config.DefaultFile, "configuration file")

	cmd.AddCommand(c.cacheClearCommand(&path))
	cmd.AddCommand(c.cachePathCommand(&path))

	return cmd
}

// cacheConfig loads the configuration at path. A missing file yields the
// defaults so the cache commands work outside a catalog checkout.
func cacheConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return config.Parse("")
	}
	return cfg, err
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached HTTP responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cacheConfig(*path)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.CacheFile {
				printWarning("Cache backend %q cannot be cleared from here", cfg.Cache.Backend)
				return nil
			}

			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cacheConfig(*path)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
