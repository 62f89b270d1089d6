package source

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/graph"
)

// Cached serves snapshots from a cache before asking the wrapped source.
// Listings are never cached. Cache failures are logged and ignored.
type Cached struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewCached wraps src. A nil keyer selects the default keyer and a nil
// logger selects log.Default().
func NewCached(src Source, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Source: src, Cache: c, Keyer: keyer, TTL: ttl, Logger: logger}
}

// Name implements [Source].
func (c *Cached) Name() string { return c.Source.Name() }

// Load implements [Source].
func (c *Cached) Load(ctx context.Context, name string) (graph.Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return graph.Snapshot{}, err
	}
	key := c.Keyer.SnapshotKey(c.Source.Name(), name)

	var s graph.Snapshot
	hit, err := cache.GetJSON(ctx, c.Cache, key, &s)
	if err != nil {
		c.Logger.Warn("snapshot cache read failed", "key", key, "error", err)
	}
	if hit && s.Validate() == nil {
		return s, nil
	}

	s, err = c.Source.Load(ctx, name)
	if err != nil {
		return graph.Snapshot{}, err
	}
	if err := cache.SetJSON(ctx, c.Cache, key, s, c.TTL); err != nil {
		c.Logger.Warn("snapshot cache write failed", "key", key, "error", err)
	}
	return s, nil
}

// List implements [Source].
func (c *Cached) List(ctx context.Context) ([]string, error) {
	return c.Source.List(ctx)
}
