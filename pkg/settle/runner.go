package settle

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/observability"
)

// Runner executes settle runs with caching. It is stateless apart from its
// collaborators, so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // expiry of cached entries; zero keeps them forever
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete settle → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, s graph.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	hash, err := SnapshotHash(s)
	if err != nil {
		return nil, err
	}
	result := &Result{SnapshotHash: hash}

	settleStart := time.Now()
	frame, stats, hit, err := r.settle(ctx, s, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	stats.SettleTime = time.Since(settleStart)
	result.Frame = frame
	result.CacheInfo.SettleHit = hit

	logger.Info("settled layout",
		"nodes", stats.Nodes,
		"ticks", stats.Ticks,
		"cached", hit,
		"duration", stats.SettleTime)

	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, hit, err := r.render(ctx, s, hash, frame, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		stats.RenderTime = time.Since(renderStart)
		result.Artifacts = artifacts
		result.CacheInfo.RenderHit = hit

		logger.Info("rendered outputs",
			"formats", opts.Formats,
			"cached", hit,
			"duration", stats.RenderTime)
	}

	result.Stats = stats
	return result, nil
}

// SettleWithCacheInfo settles a snapshot with caching and reports whether
// the frame came from the cache.
func (r *Runner) SettleWithCacheInfo(ctx context.Context, s graph.Snapshot, opts Options) (graph.Frame, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Frame{}, false, err
	}
	hash, err := SnapshotHash(s)
	if err != nil {
		return graph.Frame{}, false, err
	}
	frame, _, hit, err := r.settle(ctx, s, hash, opts)
	return frame, hit, err
}

// Settle is SettleWithCacheInfo without the cache hit info.
func (r *Runner) Settle(ctx context.Context, s graph.Snapshot, opts Options) (graph.Frame, error) {
	f, _, err := r.SettleWithCacheInfo(ctx, s, opts)
	return f, err
}

// RenderWithCacheInfo renders a frame in every requested format with
// caching and reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s graph.Snapshot, f graph.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash, err := SnapshotHash(s)
	if err != nil {
		return nil, false, err
	}
	return r.render(ctx, s, hash, f, opts)
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, s graph.Snapshot, f graph.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, f, opts)
	return artifacts, err
}

// SnapshotHash returns the content hash used to key everything derived
// from s. Node and edge order do not affect it.
func SnapshotHash(s graph.Snapshot) (string, error) {
	data, err := graph.MarshalSnapshot(s)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (r *Runner) settle(ctx context.Context, s graph.Snapshot, hash string, opts Options) (graph.Frame, Stats, bool, error) {
	key := r.Keyer.FrameKey(hash, cache.FrameKeyOpts{
		Width:  opts.Canvas.Width,
		Height: opts.Canvas.Height,
		Ticks:  opts.Ticks,
		DT:     opts.DT,
		Params: opts.Params,
	})

	if !opts.Refresh {
		var f graph.Frame
		hit, err := cache.GetJSON(ctx, r.Cache, key, &f)
		if err != nil {
			r.logger(opts).Warn("frame cache read failed", "error", err)
		}
		if hit {
			return f, Stats{Nodes: len(f.Positions), Edges: len(s.Edges), Ticks: opts.Ticks}, true, nil
		}
	}

	hooks := observability.Settle()
	hooks.OnSettleStart(ctx, len(s.Nodes), opts.Ticks)
	start := time.Now()
	f, stats, err := Run(ctx, s, opts)
	hooks.OnSettleComplete(ctx, stats.Nodes, time.Since(start), err)
	if err != nil {
		return graph.Frame{}, stats, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, key, f, r.TTL); err != nil {
		r.logger(opts).Warn("frame cache write failed", "error", err)
	}
	return f, stats, false, nil
}

func (r *Runner) render(ctx context.Context, s graph.Snapshot, snapshotHash string, f graph.Frame, opts Options) (map[string][]byte, bool, error) {
	frameData, err := graph.MarshalFrame(f)
	if err != nil {
		return nil, false, err
	}
	renderHash := cache.Hash(append(frameData, snapshotHash...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(renderHash, cache.ArtifactKeyOpts{
			Format: format,
			Edges:  opts.Edges,
			Labels: opts.Labels,
		})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := RenderFormat(ctx, s, f, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.logger(opts).Warn("artifact cache write failed", "format", format, "error", err)
		}
	}
	return artifacts, allHit, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
