package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/greatlse/openchemlib/pkg/graph"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Scale is the bond length in inches. Defaults to 0.5.
	Scale float64

	// AtomNumbers appends the atom index to every label.
	AtomNumbers bool
}

// bondColors draws bond orders as parallel strokes.
var bondColors = map[int]string{
	1: "black",
	2: "black:invis:black",
	3: "black:invis:black:invis:black",
}

// ToDOT converts a depiction to an undirected Graphviz graph whose nodes
// are pinned at the atom coordinates.
func ToDOT(d *graph.Depiction, opts DOTOptions) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 0.5
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  pad=0.3;\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"Helvetica\", fontsize=14, width=0, height=0, margin=0.02];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, a := range d.Atoms {
		label := a.Label()
		if opts.AtomNumbers {
			label += strconv.Itoa(a.Index)
		}
		attrs := fmt.Sprintf("label=%q, pos=\"%.4f,%.4f!\"", label, a.X*scale, a.Y*scale)
		if label == "" {
			attrs += ", shape=point, width=0.01, style=invis"
		}
		fmt.Fprintf(&buf, "  a%d [%s];\n", a.Index, attrs)
	}

	buf.WriteString("\n")
	for _, b := range d.Bonds {
		color, ok := bondColors[b.Order]
		if !ok {
			color = bondColors[1]
		}
		fmt.Fprintf(&buf, "  a%d -- a%d [color=%q];\n", b.From, b.To, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph with Graphviz and returns PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one that
// scales to its container.
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
