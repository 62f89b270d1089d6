// Package session hosts live layout sessions.
//
// A session owns one layout engine, the loop ticking it at the nominal
// rate, and the snapshot it was last reconciled against. Clients drive it
// with canvas resizes, drag gestures and node-set updates, and poll its
// positions. A [Registry] indexes sessions by id and reaps idle ones.
//
// Sessions live in memory only; a restart drops them. Clients recreate a
// session from their snapshot, and the engine rebuilds the layout.
//
// # Usage
//
//	reg := session.NewRegistry(session.Options{IdleTTL: session.DefaultIdleTTL})
//	defer reg.Close()
//
//	sess, err := reg.Create(snapshot, force.Size{Width: 1600, Height: 1200})
//	sess.BeginDrag("alice", force.Vec{X: 100, Y: 100})
//	frame := sess.Frame()
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// DefaultIdleTTL is how long a session survives without client activity.
const DefaultIdleTTL = 30 * time.Minute

// Session is one live layout.
type Session struct {
	ID        string
	CreatedAt time.Time

	engine *force.Engine
	loop   *force.Loop

	mu       sync.Mutex
	snapshot graph.Snapshot
	lastSeen time.Time
}

// Info is a summary of a session for listings.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Nodes     int       `json:"nodes"`
	Ticks     uint64    `json:"ticks"`
	Running   bool      `json:"running"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// GenerateID returns a new random session id.
func GenerateID() string {
	return uuid.NewString()
}

// ValidateID rejects strings that cannot be session ids.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid session id %q", id)
	}
	return nil
}

func newSession(s graph.Snapshot, size force.Size, params force.Params, loopOpts force.LoopOptions) (*Session, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateCanvas(size.Width, size.Height); err != nil {
		return nil, err
	}

	e := force.New(params)
	e.Initialize(s.ToSpecs(), size)

	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		CreatedAt: now,
		engine:    e,
		loop:      force.NewLoop(e, loopOpts),
		snapshot:  s,
		lastSeen:  now,
	}, nil
}

// Engine returns the session's engine.
func (s *Session) Engine() *force.Engine { return s.engine }

// Snapshot returns the snapshot the session was last reconciled against.
func (s *Session) Snapshot() graph.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Reconcile replaces the node set. Surviving nodes keep their motion.
func (s *Session) Reconcile(snap graph.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	// The snapshot and the engine's node set change together, so concurrent
	// reconciles cannot leave them describing different graphs.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.engine.Reconcile(snap.ToSpecs())
	s.lastSeen = time.Now()
	return nil
}

// Resize changes the canvas and re-derives every node's home.
func (s *Session) Resize(size force.Size) error {
	if err := errors.ValidateCanvas(size.Width, size.Height); err != nil {
		return err
	}
	s.engine.SetCanvasSize(size)
	s.Touch()
	return nil
}

// BeginDrag pins a node under the pointer.
func (s *Session) BeginDrag(id string, p force.Vec) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	s.engine.BeginDrag(id, p)
	s.Touch()
	return nil
}

// UpdateDrag moves a pinned node.
func (s *Session) UpdateDrag(id string, p force.Vec) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	s.engine.UpdateDrag(id, p)
	s.Touch()
	return nil
}

// EndDrag releases a pinned node.
func (s *Session) EndDrag(id string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	s.engine.EndDrag(id)
	s.Touch()
	return nil
}

// Reset sends every node back toward its home.
func (s *Session) Reset() {
	s.engine.ResetAll()
	s.Touch()
}

// Frame captures the current positions.
func (s *Session) Frame() graph.Frame {
	s.Touch()
	return graph.NewFrame(s.engine)
}

// Start runs the tick loop until ctx is cancelled or [Session.Stop].
func (s *Session) Start(ctx context.Context) bool { return s.loop.Start(ctx) }

// Stop halts the tick loop; the engine keeps its state.
func (s *Session) Stop() { s.loop.Stop() }

// Running reports whether the tick loop is active.
func (s *Session) Running() bool { return s.loop.Running() }

// Touch records client activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// IdleSince reports how long the session has gone without activity.
func (s *Session) IdleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Info summarises the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	name, seen := s.snapshot.Name, s.lastSeen
	s.mu.Unlock()
	return Info{
		ID:        s.ID,
		Name:      name,
		Nodes:     s.engine.Len(),
		Ticks:     s.engine.Ticks(),
		Running:   s.loop.Running(),
		CreatedAt: s.CreatedAt,
		LastSeen:  seen,
	}
}

func (s *Session) requireNode(id string) error {
	if _, ok := s.engine.State(id); !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q is not in session %s", id, s.ID)
	}
	return nil
}
