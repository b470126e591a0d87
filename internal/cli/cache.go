package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached registry responses and downloaded runtimes",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var runtimes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached HTTP responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := httputil.NewCache("", c.settings().CacheTTL)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := cache.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo(c.stdout, "Cache is empty")
			} else {
				printSuccess(c.stdout, "Cleared %d cached entries", count)
			}
			printDetail(c.stdout, "Directory: %s", cache.Dir())

			if runtimes {
				dir := c.settings().RuntimeDir
				if err := os.RemoveAll(dir); err != nil {
					return fmt.Errorf("remove runtimes: %w", err)
				}
				printSuccess(c.stdout, "Removed downloaded runtimes")
				printDetail(c.stdout, "Directory: %s", dir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&runtimes, "runtimes", false, "also remove downloaded node runtimes")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := httputil.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.stdout, dir)
			return nil
		},
	}
}
