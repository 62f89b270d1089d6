// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about simulation ticks, headless settling, cache operations
// and served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the layout engine stays
// free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	stats := engine.Tick(dt)
//	observability.Engine().OnTick(ctx, stats.Nodes, stats.Corrections, stats.Clamps, elapsed)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from running layout loops.
type EngineHooks interface {
	// OnTick records one simulation step.
	OnTick(ctx context.Context, nodes, corrections, clamps int, duration time.Duration)

	// OnLoopStart and OnLoopStop bracket a periodic tick loop.
	OnLoopStart(ctx context.Context)
	OnLoopStop(ctx context.Context, ticks uint64)
}

// =============================================================================
// Settle Hooks
// =============================================================================

// SettleHooks receives events from headless settle and render runs.
type SettleHooks interface {
	OnSettleStart(ctx context.Context, nodes, ticks int)
	OnSettleComplete(ctx context.Context, nodes int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request. route is the matched pattern, not
	// the raw path, so session ids do not explode label cardinality.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnTick(context.Context, int, int, int, time.Duration) {}
func (NoopEngineHooks) OnLoopStart(context.Context)                          {}
func (NoopEngineHooks) OnLoopStop(context.Context, uint64)                   {}

// NoopSettleHooks is a no-op implementation of SettleHooks.
type NoopSettleHooks struct{}

func (NoopSettleHooks) OnSettleStart(context.Context, int, int)                        {}
func (NoopSettleHooks) OnSettleComplete(context.Context, int, time.Duration, error)    {}
func (NoopSettleHooks) OnRenderStart(context.Context, string)                          {}
func (NoopSettleHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set. An empty slot yields its no-op value.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) load() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

// store ignores nil so a missing backend never disables the no-op fallback.
func (s *slot[T]) store(h T) {
	if any(h) != nil {
		s.p.Store(&h)
	}
}

var (
	engineHooks = slot[EngineHooks]{noop: NoopEngineHooks{}}
	settleHooks = slot[SettleHooks]{noop: NoopSettleHooks{}}
	cacheHooks  = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks   = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetEngineHooks registers engine hooks. Call it before any loop starts.
func SetEngineHooks(h EngineHooks) { engineHooks.store(h) }

// SetSettleHooks registers settle hooks.
func SetSettleHooks(h SettleHooks) { settleHooks.store(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheHooks.store(h) }

// SetHTTPHooks registers HTTP hooks.
func SetHTTPHooks(h HTTPHooks) { httpHooks.store(h) }

func Engine() EngineHooks { return engineHooks.load() }
func Settle() SettleHooks { return settleHooks.load() }
func Cache() CacheHooks   { return cacheHooks.load() }
func HTTP() HTTPHooks     { return httpHooks.load() }

// Reset restores every hook set to its no-op default. Tests use it in
// cleanup.
func Reset() {
	engineHooks.p.Store(nil)
	settleHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
