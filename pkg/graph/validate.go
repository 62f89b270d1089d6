package graph

import (
	"fmt"

	"github.com/matzehuels/orbit/pkg/errors"
)

// Validate checks that the snapshot can be handed to an engine: ids are
// valid and unique, coordinates are normalized, edges and the anchor refer
// to known nodes. Unknown categories are allowed and render at the default
// size. Every problem is reported in one [errors.ValidationError].
func (s *Snapshot) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidSnapshot)

	seen := make(map[string]struct{}, len(s.Nodes))
	for i, n := range s.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if err := errors.ValidateID(n.ID); err != nil {
			v.Add(field+".id", "%s", errors.UserMessage(err))
			continue
		}
		if _, dup := seen[n.ID]; dup {
			v.Add(field+".id", "duplicate id %q", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}

		if !errors.InUnitInterval(n.X) {
			v.Add(field+".x", "must be in [0,1], got %g", n.X)
		}
		if !errors.InUnitInterval(n.Y) {
			v.Add(field+".y", "must be in [0,1], got %g", n.Y)
		}
	}

	for i, e := range s.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		if _, ok := seen[e.From]; !ok {
			v.Add(field+".from", "unknown node %q", e.From)
		}
		if _, ok := seen[e.To]; !ok {
			v.Add(field+".to", "unknown node %q", e.To)
		}
	}

	if s.Anchor != "" {
		if _, ok := seen[s.Anchor]; !ok {
			v.Add("anchor", "unknown node %q", s.Anchor)
		}
	}

	return v.Err()
}
