package settle

import (
	"context"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// ctxCheckInterval is how many ticks run between context checks.
const ctxCheckInterval = 64

// Run settles a snapshot without caching: it initializes a fresh engine,
// ticks it opts.Ticks times at opts.DT and captures the frame. opts must
// already be validated.
func Run(ctx context.Context, s graph.Snapshot, opts Options) (graph.Frame, Stats, error) {
	e := force.New(opts.Params)
	e.Initialize(s.ToSpecs(), opts.Canvas)

	stats := Stats{Nodes: e.Len(), Edges: len(s.Edges), Ticks: opts.Ticks}
	for i := 0; i < opts.Ticks; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return graph.Frame{}, stats, err
			}
		}
		ts := e.Tick(opts.DT)
		stats.Corrections += ts.Corrections
		stats.Clamps += ts.Clamps
	}
	return graph.NewFrame(e), stats, nil
}
