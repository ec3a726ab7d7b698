package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatlse/openchemlib/pkg/graph"
)

func ethenol() *graph.Depiction {
	return &graph.Depiction{
		Name: "ethenol",
		Atoms: []graph.Atom{
			{Index: 0, Symbol: "C", AtomicNo: 6, X: 0, Y: 0.5},
			{Index: 1, Symbol: "C", AtomicNo: 6, X: 0.866, Y: 0},
			{Index: 2, Symbol: "O", AtomicNo: 8, X: 1.732, Y: 0.5},
		},
		Bonds: []graph.Bond{
			{From: 0, To: 1, Order: 2},
			{From: 1, To: 2, Order: 1},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(ethenol(), DOTOptions{Scale: 1})

	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, "layout=neato;")
	assert.Contains(t, dot, `a2 [label="O", pos="1.7320,0.5000!"];`)
	assert.Contains(t, dot, `a0 [label="", pos="0.0000,0.5000!", shape=point`)
	assert.Contains(t, dot, `a0 -- a1 [color="black:invis:black"];`)
	assert.Contains(t, dot, `a1 -- a2 [color="black"];`)
}

func TestToDOTAtomNumbers(t *testing.T) {
	dot := ToDOT(ethenol(), DOTOptions{AtomNumbers: true})
	assert.Contains(t, dot, `a0 [label="0", pos="0.0000,0.2500!"];`)
	// default scale is half an inch per bond
	assert.Contains(t, dot, `a2 [label="O2", pos="0.8660,0.2500!"];`)
}

func TestSVG(t *testing.T) {
	svg := string(SVG(ethenol(), WithScale(10), WithPadding(5)))

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 27.3 15.0"`))
	assert.Contains(t, svg, "<title>ethenol</title>")
	// double bond plus single bond
	assert.Equal(t, 3, strings.Count(svg, `class="bond"`))
	assert.Equal(t, 1, strings.Count(svg, `class="atom"`))
	assert.Contains(t, svg, `>O</text>`)
	assert.NotContains(t, svg, "atom-number")
}

func TestSVGFlipsY(t *testing.T) {
	d := &graph.Depiction{Atoms: []graph.Atom{
		{Index: 0, Symbol: "N", AtomicNo: 7, X: 0, Y: 1},
		{Index: 1, Symbol: "O", AtomicNo: 8, X: 0, Y: 0},
	}}
	svg := string(SVG(d, WithScale(10), WithPadding(0), WithBackground("")))

	assert.Contains(t, svg, `id="atom-0" x="0.00" y="0.00"`)
	assert.Contains(t, svg, `id="atom-1" x="0.00" y="10.00"`)
	assert.NotContains(t, svg, "<rect")
}

func TestSVGAtomNumbers(t *testing.T) {
	svg := string(SVG(ethenol(), WithAtomNumbers()))
	assert.Equal(t, 3, strings.Count(svg, `class="atom-number"`))
}

func TestSVGEscapesName(t *testing.T) {
	d := ethenol()
	d.Name = "<script>"
	svg := string(SVG(d))
	assert.NotContains(t, svg, "<script>")
	assert.Contains(t, svg, "&lt;script&gt;")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), ethenol(), "bmp", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.False(t, ValidFormat("bmp"))
	assert.True(t, ValidFormat(FormatPNG))
}

func TestRenderSVGFormat(t *testing.T) {
	out, err := Render(context.Background(), ethenol(), FormatSVG, Options{Scale: 30})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Contains(t, out, `viewBox="0 0 62.00 116.00" width="62" height="116"`)
	assert.NotContains(t, out, "pt")

	plain := []byte("<svg><g/></svg>")
	assert.Equal(t, plain, normalizeViewBox(plain))
}
