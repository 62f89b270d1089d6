package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// pointsPerInch converts pixel-sized diameters to Graphviz inches, treating
// one pixel as one point.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Edges draws the snapshot's edges between the pinned nodes.
	Edges bool
	// Labels prints each node's display label inside its circle.
	Labels bool
}

// fills maps categories to fill colours. Unknown categories use the default.
var fills = map[force.Category]string{
	force.CategoryCore:              "#f4b942",
	force.CategoryHubEntity:         "#6fa8dc",
	force.CategoryRule:              "#93c47d",
	force.CategoryTimedEntity:       "#e06666",
	force.CategoryLightweightEntity: "#b4a7d6",
	force.CategoryPattern:           "#76a5af",
	force.CategoryDefault:           "#cccccc",
}

// Fill returns the fill colour used for a category.
func Fill(c force.Category) string {
	if f, ok := fills[c]; ok {
		return f
	}
	return fills[force.CategoryDefault]
}

// ToDOT converts a frame to Graphviz DOT with every node pinned at its frame
// position. The snapshot supplies categories, labels and edges; nodes in the
// frame that the snapshot does not know are drawn with the default style.
//
// Frame coordinates grow downward while Graphviz's grow upward, so y is
// flipped against the frame height. Two invisible corner nodes pin the
// drawing to the full canvas.
func ToDOT(s graph.Snapshot, f graph.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, penwidth=1.5, color=\"#444444\", fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	fmt.Fprintf(&buf, "  %q [style=invis, label=\"\", width=0.01, pos=\"0,0!\"];\n", cornerMin)
	fmt.Fprintf(&buf, "  %q [style=invis, label=\"\", width=0.01, pos=\"%s,%s!\"];\n", cornerMax, fmtNum(f.Width), fmtNum(f.Height))
	buf.WriteString("\n")

	for _, id := range f.IDs() {
		n, ok := s.Node(id)
		if !ok {
			n = graph.Node{ID: id}
		}
		attrs := fmtAttrs(n, f.Positions[id], f.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	if opts.Edges {
		buf.WriteString("\n")
		for _, e := range s.Edges {
			_, from := f.Positions[e.From]
			_, to := f.Positions[e.To]
			if from && to {
				fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

const (
	cornerMin = "__corner_min"
	cornerMax = "__corner_max"
)

func fmtAttrs(n graph.Node, p force.Vec, height float64, opts Options) []string {
	label := ""
	if opts.Labels {
		label = n.DisplayLabel()
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("width=%s", fmtNum(n.Category.Diameter()/pointsPerInch)),
		fmt.Sprintf("fillcolor=%q", Fill(n.Category)),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(p.X), fmtNum(height-p.Y)),
	}
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine, which
// honours the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG in-process.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose viewBox
// starts at the origin and whose size matches it, so the SVG scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
