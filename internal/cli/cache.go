package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/config"
	"github.com/matzehuels/orbit/pkg/errors"
)

// cacheCommand groups maintenance of the file cache. Redis entries expire
// on their own ttl and are not managed here.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the settled-frame cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Summarise cached entries",
			Args:  cobra.NoArgs,
			RunE:  c.withFileCache(c.runCacheInfo),
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired entries",
			Args:  cobra.NoArgs,
			RunE: c.withFileCache(func(fc *cache.FileCache) error {
				n, err := fc.Prune()
				if err != nil {
					return err
				}
				printSuccess("Pruned expired entries")
				printDetail("%d removed", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached frame and artifact",
			Args:  cobra.NoArgs,
			RunE: c.withFileCache(func(fc *cache.FileCache) error {
				if err := fc.Clear(); err != nil {
					return err
				}
				printSuccess("Cache cleared")
				printDetail("%s", fc.Dir())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := c.fileCacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// withFileCache opens the file cache for a subcommand. A missing directory
// means an empty cache and is reported without creating it.
func (c *CLI) withFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if c.Config.Cache.Backend == config.CacheRedis {
			return errors.New(errors.ErrCodeUnsupported, "the redis cache expires entries by ttl; nothing to manage locally")
		}
		dir, err := c.fileCacheDir()
		if err != nil {
			return err
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		return fn(fc)
	}
}

func (c *CLI) runCacheInfo(fc *cache.FileCache) error {
	u, err := fc.Usage()
	if err != nil {
		return err
	}
	printKeyValue("directory", fc.Dir())
	printKeyValue("entries", strconv.Itoa(u.Entries))
	printKeyValue("size", fmt.Sprintf("%.1f KiB", float64(u.Bytes)/1024))
	printKeyValue("expired", strconv.Itoa(u.Expired))

	if len(u.ByType) == 0 {
		return nil
	}
	types := make([]string, 0, len(u.ByType))
	for t := range u.ByType {
		types = append(types, t)
	}
	slices.Sort(types)
	rows := make([][]string, len(types))
	for i, t := range types {
		rows[i] = []string{t, strconv.Itoa(u.ByType[t])}
	}
	fmt.Println(renderTable([]string{"Type", "Entries"}, rows))
	return nil
}

func (c *CLI) fileCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
