package force

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/observability"
)

const (
	// DefaultRate is the nominal tick frequency in Hz.
	DefaultRate = 60

	// DefaultMaxDT caps the dt handed to a tick after a stall (e.g. a
	// suspended process), so drift does not jump.
	DefaultMaxDT = 0.1
)

// LoopOptions configures a [Loop]. Zero values select the defaults.
type LoopOptions struct {
	Rate   float64     // ticks per second
	MaxDT  float64     // seconds
	Logger *log.Logger // defaults to log.Default()

	// OnFrame, if set, is called after every tick with the fresh positions.
	// It runs on the loop goroutine and must not block.
	OnFrame func(positions map[string]Vec, stats TickStats)
}

// Loop is the periodic scheduler that drives an [Engine]. Stopping a loop
// only stops future ticks; engine state is left as it was.
type Loop struct {
	engine   *Engine
	interval time.Duration
	maxDT    float64
	logger   *log.Logger
	onFrame  func(map[string]Vec, TickStats)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoop creates a stopped loop for e.
func NewLoop(e *Engine, opts LoopOptions) *Loop {
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.MaxDT <= 0 {
		opts.MaxDT = DefaultMaxDT
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Loop{
		engine:   e,
		interval: time.Duration(float64(time.Second) / opts.Rate),
		maxDT:    opts.MaxDT,
		logger:   opts.Logger,
		onFrame:  opts.OnFrame,
	}
}

// Engine returns the engine driven by l.
func (l *Loop) Engine() *Engine { return l.engine }

// Start launches the tick goroutine. It returns false if the loop is
// already running. The loop stops on its own when ctx is cancelled.
func (l *Loop) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
	return true
}

// Stop cancels the tick goroutine and waits for it to exit. Calling Stop on
// a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the tick goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	hooks := observability.Engine()
	hooks.OnLoopStart(ctx)
	l.logger.Debug("layout loop started", "interval", l.interval, "nodes", l.engine.Len())

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var ticks uint64
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			hooks.OnLoopStop(ctx, ticks)
			l.logger.Debug("layout loop stopped", "ticks", ticks)
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > l.maxDT {
				dt = l.maxDT
			}

			start := time.Now()
			stats := l.engine.Tick(dt)
			ticks++
			hooks.OnTick(ctx, stats.Nodes, stats.Corrections, stats.Clamps, time.Since(start))

			if l.onFrame != nil {
				l.onFrame(l.engine.Positions(), stats)
			}
		}
	}
}
