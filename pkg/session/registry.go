package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// Options configures a [Registry]. Zero values select the defaults.
type Options struct {
	IdleTTL     time.Duration     // DefaultIdleTTL when zero
	MaxSessions int               // unlimited when zero
	Params      force.Params      // physics for new sessions; defaults when zero
	Loop        force.LoopOptions // tick loop for new sessions
	Logger      *log.Logger       // defaults to log.Default()
}

// Registry indexes live sessions by id. All methods are safe for
// concurrent use.
type Registry struct {
	opts   Options
	logger *log.Logger

	// base outlives every request; session loops run under it.
	base   context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Params == (force.Params{}) {
		opts.Params = force.DefaultParams()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Loop.Logger == nil {
		opts.Loop.Logger = opts.Logger
	}
	base, cancel := context.WithCancel(context.Background())
	return &Registry{
		opts:     opts,
		logger:   opts.Logger,
		base:     base,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session for snapshot s on a canvas of the given size.
// The session's loop is running when Create returns.
func (r *Registry) Create(s graph.Snapshot, size force.Size) (*Session, error) {
	sess, err := newSession(s, size, r.opts.Params, r.opts.Loop)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.opts.MaxSessions > 0 && len(r.sessions) >= r.opts.MaxSessions {
		r.mu.Unlock()
		return nil, errors.New(errors.ErrCodeUnsupported, "session limit reached (%d)", r.opts.MaxSessions)
	}
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	sess.Start(r.base)
	r.logger.Info("session created", "id", sess.ID, "nodes", sess.engine.Len(), "canvas", size)
	return sess, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	sess := r.sessions[id]
	r.mu.RUnlock()
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}

// Delete stops and forgets a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	sess := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if sess == nil {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.Stop()
	r.logger.Info("session deleted", "id", id)
	return nil
}

// List summarises every session, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	infos := make([]Info, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.Info())
	}
	r.mu.RUnlock()

	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup stops and removes sessions idle for longer than the idle TTL.
// It returns the number removed.
func (r *Registry) Cleanup(now time.Time) int {
	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.IdleSince(now) > r.opts.IdleTTL {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Stop()
		r.logger.Info("session expired", "id", s.ID)
	}
	return len(expired)
}

// RunJanitor calls [Registry.Cleanup] every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Cleanup(now); n > 0 {
				r.logger.Debug("reaped idle sessions", "count", n)
			}
		}
	}
}

// Close stops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	r.cancel()
	for _, s := range sessions {
		s.Stop()
	}
}
