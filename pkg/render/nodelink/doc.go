// Package nodelink renders captured layout frames as node-link diagrams.
//
// # Overview
//
// The layout engine decides where nodes go; this package only draws them.
// [ToDOT] emits Graphviz DOT with every node pinned (pos="x,y!") at its
// frame position, sized by its category diameter and filled by category.
// The neato engine honours pinned positions, so the picture matches what a
// live view would show at that tick.
//
// # Usage
//
//	dot := nodelink.ToDOT(snapshot, frame, nodelink.Options{Edges: true, Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink
