// Package cli implements the orbit command-line interface.
//
// orbit drives the force-directed layout engine from the terminal: settle a
// snapshot headlessly, render the result, watch a live layout, or host live
// sessions over HTTP. The CLI is built using cobra and logs with
// charmbracelet/log.
//
// # Commands
//
//   - simulate: settle a snapshot and print or save the frame
//   - render: settle a snapshot and write SVG, PNG, PDF, DOT or JSON
//   - watch: live terminal view with keyboard dragging
//   - serve: HTTP API hosting live layout sessions
//   - list: list snapshots in the configured source
//   - config: show, initialise or locate the config file
//   - cache: manage the frame cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/buildinfo"
	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/config"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/settle"
	"github.com/matzehuels/orbit/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "orbit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath   string
	snapshotsDir string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "orbit lays out knowledge graphs with an incremental force model",
		Long:          `orbit computes and continuously updates screen positions for the nodes of a node-link diagram: springs pull nodes home, repulsion keeps them apart, and a pinned anchor holds the centre.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().StringVar(&c.snapshotsDir, "snapshots", ".", "directory of <name>.json snapshots")

	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configFile()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a settle runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*settle.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	ttl, err := c.Config.CacheTTL()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if p := c.Config.Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(keyer, p)
	}
	r := settle.NewRunner(cc, keyer, c.Logger)
	r.TTL = ttl
	return r, nil
}

// newCache opens the configured cache backend. An unusable file cache
// degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		return cache.Observe(rc), nil
	default:
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Observe(fc), nil
	}
}

// newSource returns the Mongo source when one is configured, otherwise the
// snapshots directory.
func (c *CLI) newSource(ctx context.Context) (source.Source, func(), error) {
	if c.Config.Source.MongoURI == "" {
		return source.NewDir(c.snapshotsDir), func() {}, nil
	}
	m, err := source.DialMongo(ctx, source.MongoOptions{
		URI:        c.Config.Source.MongoURI,
		Database:   c.Config.Source.Database,
		Collection: c.Config.Source.Collection,
		Logger:     c.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := m.Close(context.Background()); err != nil {
			c.Logger.Warn("close mongo", "error", err)
		}
	}
	return m, closeFn, nil
}

// loadSnapshot reads arg as a file when it names one, else loads it by name
// from the configured source.
func (c *CLI) loadSnapshot(ctx context.Context, arg string) (graph.Snapshot, error) {
	if isSnapshotFile(arg) {
		return graph.ReadSnapshotFile(arg)
	}
	src, closeFn, err := c.newSource(ctx)
	if err != nil {
		return graph.Snapshot{}, err
	}
	defer closeFn()
	return src.Load(ctx, arg)
}

func isSnapshotFile(arg string) bool {
	if strings.HasSuffix(arg, ".json") || strings.ContainsRune(arg, os.PathSeparator) {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orbit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{settle.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input paths.
// Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if settle.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
