package force

import (
	"slices"
	"sync"
)

// NodeSpec describes one node of the externally owned node set.
type NodeSpec struct {
	ID       string
	Category Category
	// Target is the node's home as a fraction of the canvas, both axes in [0,1].
	// It is ignored for the anchor, whose home is always the canvas centre.
	Target Vec
	// Anchor designates the node as the pinned centre of the diagram. Only the
	// first flagged spec in a list is honoured.
	Anchor bool
}

// NodeState is a read-only copy of a node's kinematic record.
type NodeState struct {
	ID       string
	Category Category
	Position Vec
	Velocity Vec
	Target   Vec
	Phase    float64
	Dragging bool
	Anchor   bool
}

// body is the mutable kinematic record of a tracked node.
type body struct {
	category   Category
	radius     float64
	hash       uint32
	normalized Vec
	pos        Vec
	vel        Vec
	target     Vec
	phase      float64
	dragging   bool
}

// Engine is the layout state container. The zero value is not usable; use
// [New]. All methods are safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	params Params
	size   Size
	bodies map[string]*body
	order  []string // tracked ids, sorted

	anchorID       string // "" when there is no anchor
	anchorDragging bool
	ticks          uint64
}

// New creates an empty engine. Invalid params are replaced by defaults.
func New(p Params) *Engine {
	if p.Validate() != nil {
		p = DefaultParams()
	}
	return &Engine{
		params: p,
		bodies: make(map[string]*body),
	}
}

// Initialize discards all kinematic state and rebuilds it from nodes. Every
// node starts at rest on its target; the anchor starts at the canvas centre.
func (e *Engine) Initialize(nodes []NodeSpec, size Size) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.size = size
	e.bodies = make(map[string]*body, len(nodes))
	e.anchorID = designatedAnchor(nodes)
	e.anchorDragging = false
	e.ticks = 0

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := e.bodies[n.ID]; dup {
			continue
		}
		e.bodies[n.ID] = e.newBody(n)
	}
	e.reindex()
}

// Reconcile brings the tracked set in line with nodes. New ids get fresh
// records, ids missing from nodes are forgotten, and surviving nodes keep
// their position and velocity. The anchor is snapped back to the centre.
//
// The anchor is the first flagged spec in nodes. Without a flagged spec the
// current anchor is kept if it is still present; otherwise the engine has no
// anchor until a later call designates one.
func (e *Engine) Reconcile(nodes []NodeSpec) {
	e.mu.Lock()
	defer e.mu.Unlock()

	present := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			present[n.ID] = struct{}{}
		}
	}

	anchor := designatedAnchor(nodes)
	if anchor == "" {
		if _, ok := present[e.anchorID]; ok {
			anchor = e.anchorID
		}
	}
	if anchor != e.anchorID {
		e.anchorDragging = false
	}
	e.anchorID = anchor

	for id := range e.bodies {
		if _, ok := present[id]; !ok {
			delete(e.bodies, id)
		}
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		b, ok := e.bodies[n.ID]
		if !ok {
			e.bodies[n.ID] = e.newBody(n)
			continue
		}
		b.category = n.Category
		b.radius = n.Category.Radius()
		b.normalized = n.Target
		if n.ID != e.anchorID {
			b.target = e.size.Project(n.Target)
		}
	}
	e.reindex()

	if a := e.bodies[e.anchorID]; a != nil && !e.anchorDragging {
		a.target = e.size.Center()
		a.pos = a.target
		a.vel = Vec{}
	}
}

// SetCanvasSize updates the bounds, re-derives every node's home from its
// normalized target and recenters the anchor.
func (e *Engine) SetCanvasSize(size Size) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.size = size
	for id, b := range e.bodies {
		if id != e.anchorID {
			b.target = size.Project(b.normalized)
		}
	}
	if !e.anchorDragging {
		e.recenterAnchor()
	}
}

// RecenterAnchor snaps the anchor's target and position to the current
// canvas centre and stops it.
func (e *Engine) RecenterAnchor() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recenterAnchor()
}

func (e *Engine) recenterAnchor() {
	a := e.bodies[e.anchorID]
	if a == nil {
		return
	}
	a.target = e.size.Center()
	a.pos = a.target
	a.vel = Vec{}
}

// BeginDrag pins node id to p until [Engine.EndDrag]. While dragged a node
// feels no spring but still repels and is repelled by its neighbours.
// Untracked ids are ignored.
func (e *Engine) BeginDrag(id string, p Vec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag(id, p)
}

// UpdateDrag moves a dragged node to p. It behaves exactly like BeginDrag.
func (e *Engine) UpdateDrag(id string, p Vec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag(id, p)
}

func (e *Engine) drag(id string, p Vec) {
	b := e.bodies[id]
	if b == nil {
		return
	}
	b.pos = p
	b.vel = Vec{}
	b.dragging = true
	if id == e.anchorID {
		e.anchorDragging = true
	}
}

// EndDrag releases node id. A released node springs back to its own target
// on the following ticks; a released anchor is recentered immediately.
func (e *Engine) EndDrag(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.bodies[id]
	if b == nil {
		return
	}
	b.dragging = false
	if id == e.anchorID {
		e.anchorDragging = false
		e.recenterAnchor()
	}
}

// ResetAll sends every non-anchor node home by re-deriving its target from
// the normalized target. Positions are untouched; the springs do the rest.
func (e *Engine) ResetAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, b := range e.bodies {
		if id != e.anchorID {
			b.target = e.size.Project(b.normalized)
		}
	}
}

// Positions returns a copy of the current position of every tracked node.
func (e *Engine) Positions() map[string]Vec {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Vec, len(e.bodies))
	for id, b := range e.bodies {
		out[id] = b.pos
	}
	return out
}

// State returns a copy of the kinematic record of node id.
func (e *Engine) State(id string) (NodeState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.bodies[id]
	if b == nil {
		return NodeState{}, false
	}
	return e.stateOf(id, b), true
}

// States returns a copy of every kinematic record in id order.
func (e *Engine) States() []NodeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]NodeState, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.stateOf(id, e.bodies[id]))
	}
	return out
}

func (e *Engine) stateOf(id string, b *body) NodeState {
	return NodeState{
		ID:       id,
		Category: b.category,
		Position: b.pos,
		Velocity: b.vel,
		Target:   b.target,
		Phase:    b.phase,
		Dragging: b.dragging,
		Anchor:   id == e.anchorID,
	}
}

// AnchorID returns the current anchor, if any.
func (e *Engine) AnchorID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.anchorID, e.anchorID != ""
}

// CanvasSize returns the current bounds.
func (e *Engine) CanvasSize() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}

// Len returns the number of tracked nodes.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.bodies)
}

// Ticks returns the number of ticks since the last Initialize.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.params }

func (e *Engine) newBody(n NodeSpec) *body {
	h := idHash(n.ID)
	target := e.size.Project(n.Target)
	if n.ID == e.anchorID {
		target = e.size.Center()
	}
	return &body{
		category:   n.Category,
		radius:     n.Category.Radius(),
		hash:       h,
		normalized: n.Target,
		pos:        target,
		target:     target,
		phase:      seedPhase(h),
	}
}

func (e *Engine) reindex() {
	e.order = e.order[:0]
	for id := range e.bodies {
		e.order = append(e.order, id)
	}
	slices.Sort(e.order)
}

func designatedAnchor(nodes []NodeSpec) string {
	for _, n := range nodes {
		if n.Anchor && n.ID != "" {
			return n.ID
		}
	}
	return ""
}
