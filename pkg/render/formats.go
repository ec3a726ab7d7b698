package render

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/greatlse/openchemlib/pkg/graph"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatGraphviz = "graphviz-svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// Formats lists all output formats.
var Formats = []string{FormatSVG, FormatGraphviz, FormatPNG, FormatPDF}

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	return slices.Contains(Formats, name)
}

// Options combines the settings of both renderers.
type Options struct {
	Scale       float64 // pixels per bond length for SVG
	AtomNumbers bool
}

// Render draws d in the given format.
func Render(ctx context.Context, d *graph.Depiction, format string, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if opts.Scale > 0 {
		svgOpts = append(svgOpts, WithScale(opts.Scale))
	}
	if opts.AtomNumbers {
		svgOpts = append(svgOpts, WithAtomNumbers())
	}

	switch strings.ToLower(format) {
	case FormatSVG:
		return SVG(d, svgOpts...), nil
	case FormatGraphviz:
		return RenderSVG(ctx, ToDOT(d, DOTOptions{AtomNumbers: opts.AtomNumbers}))
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(d, DOTOptions{AtomNumbers: opts.AtomNumbers}))
	case FormatPDF:
		return ToPDF(ctx, SVG(d, svgOpts...))
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
