package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/greatlse/openchemlib/pkg/graph"
)

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale       float64
	padding     float64
	strokeWidth float64
	fontSize    float64
	background  string
	atomNumbers bool
}

// WithScale sets the bond length in pixels.
func WithScale(px float64) SVGOption { return func(r *svgRenderer) { r.scale = px } }

// WithPadding sets the margin around the drawing in pixels.
func WithPadding(px float64) SVGOption { return func(r *svgRenderer) { r.padding = px } }

// WithStrokeWidth sets the bond line width in pixels.
func WithStrokeWidth(px float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = px } }

// WithFontSize sets the atom label size in pixels.
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithBackground fills the canvas; empty means transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithAtomNumbers draws atom indices next to the atoms.
func WithAtomNumbers() SVGOption { return func(r *svgRenderer) { r.atomNumbers = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: 40, padding: 20, strokeWidth: 2, fontSize: 16, background: "white"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// doubleBondGap is the distance of parallel strokes in bond lengths.
const doubleBondGap = 0.12

// SVG draws a depiction as a standalone SVG document.
func SVG(d *graph.Depiction, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	minX, minY, maxX, maxY := d.Bounds()
	width := (maxX-minX)*r.scale + 2*r.padding
	height := (maxY-minY)*r.scale + 2*r.padding
	px := func(x float64) float64 { return (x-minX)*r.scale + r.padding }
	py := func(y float64) float64 { return (maxY-y)*r.scale + r.padding }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if d.Name != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(d.Name))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}

	fmt.Fprintf(&buf, `  <g stroke="black" stroke-width="%.1f" stroke-linecap="round">`+"\n", r.strokeWidth)
	for _, b := range d.Bonds {
		from, to := d.Atoms[b.From], d.Atoms[b.To]
		x1, y1, x2, y2 := from.X, from.Y, to.X, to.Y
		// leave room for labels
		if from.Label() != "" {
			x1, y1 = towards(x1, y1, x2, y2, r.labelGap())
		}
		if to.Label() != "" {
			x2, y2 = towards(x2, y2, x1, y1, r.labelGap())
		}
		for _, off := range strokeOffsets(b.Order) {
			dx, dy := perpendicular(from.X, from.Y, to.X, to.Y, off)
			fmt.Fprintf(&buf, `    <line class="bond" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
				px(x1+dx), py(y1+dy), px(x2+dx), py(y2+dy))
		}
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g font-family="Helvetica, Arial, sans-serif" font-size="%.0f" text-anchor="middle" dominant-baseline="central">`+"\n",
		r.fontSize)
	for _, a := range d.Atoms {
		if label := a.Label(); label != "" {
			fmt.Fprintf(&buf, `    <text class="atom" id="atom-%d" x="%.2f" y="%.2f">%s</text>`+"\n",
				a.Index, px(a.X), py(a.Y), html.EscapeString(label))
		}
		if r.atomNumbers {
			fmt.Fprintf(&buf, `    <text class="atom-number" x="%.2f" y="%.2f" font-size="%.0f" fill="steelblue">%d</text>`+"\n",
				px(a.X)+r.fontSize*0.6, py(a.Y)-r.fontSize*0.6, r.fontSize*0.6, a.Index)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// labelGap is the bond length fraction hidden behind a label.
func (r svgRenderer) labelGap() float64 {
	return math.Min(0.4, 0.6*r.fontSize/r.scale)
}

func strokeOffsets(order int) []float64 {
	switch order {
	case 2:
		return []float64{-doubleBondGap / 2, doubleBondGap / 2}
	case 3:
		return []float64{-doubleBondGap, 0, doubleBondGap}
	}
	return []float64{0}
}

// towards moves (x1,y1) by dist in the direction of (x2,y2).
func towards(x1, y1, x2, y2, dist float64) (float64, float64) {
	l := math.Hypot(x2-x1, y2-y1)
	if l == 0 {
		return x1, y1
	}
	return x1 + (x2-x1)*dist/l, y1 + (y2-y1)*dist/l
}

// perpendicular returns an offset of length off normal to the bond.
func perpendicular(x1, y1, x2, y2, off float64) (float64, float64) {
	l := math.Hypot(x2-x1, y2-y1)
	if l == 0 || off == 0 {
		return 0, 0
	}
	return -(y2 - y1) * off / l, (x2 - x1) * off / l
}
