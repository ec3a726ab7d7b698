// Package render draws depictions as SVG, PNG or PDF.
//
// # Overview
//
// Two renderers are available:
//
//   - [SVG] writes SVG directly from a depiction. It needs no native
//     libraries and is the default.
//   - [ToDOT] converts a depiction to a Graphviz graph with pinned node
//     positions, which [RenderSVG] and [RenderPNG] lay out with neato
//     through [github.com/goccy/go-graphviz]. Positions are fixed, so
//     Graphviz only draws.
//
// [ToPDF] converts SVG to PDF with the external rsvg-convert tool.
//
//	d := graph.FromMolecule(m, nil)
//	svg := render.SVG(d, render.WithScale(40))
//
//	dot := render.ToDOT(d, render.DOTOptions{})
//	png, err := render.RenderPNG(ctx, dot)
//
// # Conventions
//
// Depiction coordinates have y pointing up; both renderers flip them.
// Carbon atoms are drawn unlabeled. Double and triple bonds become parallel
// strokes.
package render
