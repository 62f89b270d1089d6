package settle

import (
	"context"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/observability"
	"github.com/matzehuels/orbit/pkg/render"
	"github.com/matzehuels/orbit/pkg/render/nodelink"
)

// RenderFormat draws a frame in one format without caching.
func RenderFormat(ctx context.Context, s graph.Snapshot, f graph.Frame, format string, opts Options) (data []byte, err error) {
	hooks := observability.Settle()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, time.Since(start), err) }()

	if format == FormatJSON {
		return graph.MarshalFrame(f)
	}

	dot := nodelink.ToDOT(s, f, nodelink.Options{Edges: opts.Edges, Labels: opts.Labels})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
