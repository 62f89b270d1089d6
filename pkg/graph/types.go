package graph

import (
	"slices"
	"strings"

	"github.com/matzehuels/orbit/pkg/layout/force"
)

// =============================================================================
// Snapshot - Externally Owned Node Set
// =============================================================================

// Snapshot is the canonical serialization format for the node set a layout
// engine is fed: which nodes exist, where each one lives by default, what
// category it renders as, and which one is pinned at the centre.
//
// Coordinates are normalized fractions of the canvas; the engine scales them
// to pixels. Edges are carried for rendering and play no part in the
// physics.
type Snapshot struct {
	Name   string `json:"name,omitempty" bson:"_id,omitempty"`
	Anchor string `json:"anchor,omitempty" bson:"anchor,omitempty"`
	Nodes  []Node `json:"nodes" bson:"nodes"`
	Edges  []Edge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// Node is one node of a snapshot.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Category force.Category `json:"category,omitempty" bson:"category,omitempty"`
	X        float64        `json:"x" bson:"x"` // normalized, [0,1]
	Y        float64        `json:"y" bson:"y"` // normalized, [0,1]
	Label    string         `json:"label,omitempty" bson:"label,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected link between two nodes, drawn from From to To.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Sorted returns a copy of s with nodes ordered by id and edges by
// (from, to). Two snapshots describing the same set marshal identically
// once sorted.
func (s Snapshot) Sorted() Snapshot {
	out := s
	out.Nodes = slices.Clone(s.Nodes)
	out.Edges = slices.Clone(s.Edges)
	slices.SortFunc(out.Nodes, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

// =============================================================================
// Snapshot ↔ Engine Conversion
// =============================================================================

// ToSpecs converts the snapshot into engine node specs, in snapshot order.
// The anchor flag is set on the node named by s.Anchor.
func (s *Snapshot) ToSpecs() []force.NodeSpec {
	specs := make([]force.NodeSpec, len(s.Nodes))
	for i, n := range s.Nodes {
		specs[i] = force.NodeSpec{
			ID:       n.ID,
			Category: n.Category,
			Target:   force.Vec{X: n.X, Y: n.Y},
			Anchor:   s.Anchor != "" && n.ID == s.Anchor,
		}
	}
	return specs
}

// =============================================================================
// Frame - Positions At One Instant
// =============================================================================

// Frame is a captured set of pixel positions, typically the output of a
// settle run or a read of a live session.
type Frame struct {
	Width     float64              `json:"width" bson:"width"`
	Height    float64              `json:"height" bson:"height"`
	Tick      uint64               `json:"tick" bson:"tick"`
	Positions map[string]force.Vec `json:"positions" bson:"positions"`
}

// NewFrame captures the engine's current positions.
func NewFrame(e *force.Engine) Frame {
	size := e.CanvasSize()
	return Frame{
		Width:     size.Width,
		Height:    size.Height,
		Tick:      e.Ticks(),
		Positions: e.Positions(),
	}
}

// IDs returns the ids in the frame, sorted.
func (f *Frame) IDs() []string {
	ids := make([]string, 0, len(f.Positions))
	for id := range f.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
