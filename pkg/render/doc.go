// Package render converts rendered diagrams between output formats.
//
// Diagram generation lives in the [nodelink] subpackage, which produces SVG
// and PNG in-process. PDF output goes through the external rsvg-convert tool
// (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
package render
