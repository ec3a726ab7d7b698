package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/pipeline"
	"github.com/greatlse/openchemlib/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output base path
	formats     string  // comma-separated output formats
	scale       float64 // pixels per bond length
	atomNumbers bool    // label atoms with their 1-based index
	bondLength  float64 // bond length of a molfile output
}

// renderCommand creates the render command for drawing saved depictions.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [depiction.json]",
		Short: "Draw a JSON depiction as SVG, PNG or PDF",
		Long: `Draw a JSON depiction as SVG, PNG or PDF.

The input is a depiction written by 'depict layout -f json'. No layout is
computed; the stored coordinates are drawn as they are.

The svg format is drawn directly. graphviz-svg and png go through Graphviz
with pinned atom positions. pdf needs rsvg-convert on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("json"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.config.Options
			opts.Formats = nil
			if cmd.Flags().Changed("format") || len(c.config.Options.Formats) == 0 {
				opts.Formats = parseFormats(ro.formats)
			} else {
				opts.Formats = imageFormats(c.config.Options.Formats)
			}
			if cmd.Flags().Changed("scale") || opts.Scale == 0 {
				opts.Scale = ro.scale
			}
			if cmd.Flags().Changed("bond-length") || opts.BondLength == 0 {
				opts.BondLength = ro.bondLength
			}
			opts.AtomNumbers = opts.AtomNumbers || ro.atomNumbers
			return c.runRender(cmd.Context(), args[0], ro.output, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output base path (default: <input>)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", render.FormatSVG, "comma-separated formats: "+strings.Join(render.Formats, ", ")+", mol")
	cmd.Flags().Float64Var(&ro.scale, "scale", 0, "pixels per bond for SVG and PDF")
	cmd.Flags().BoolVar(&ro.atomNumbers, "atom-numbers", false, "label atoms with their 1-based index")
	cmd.Flags().Float64Var(&ro.bondLength, "bond-length", pipeline.DefaultBondLength, "bond length of a molfile output")

	return cmd
}

// imageFormats keeps the formats that make sense for an existing depiction.
// A configured json format would only rewrite the input.
func imageFormats(formats []string) []string {
	var out []string
	for _, f := range formats {
		if f != pipeline.FormatJSON {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{render.FormatSVG}
	}
	return out
}

// runRender loads the depiction and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options) error {
	d, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load depiction %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := output
	if base == "" {
		base = strings.TrimSuffix(strings.TrimSuffix(input, ".json"), ".depict")
	} else {
		base = outputBase(input, output)
	}

	status(toneOK, "Rendered %s", filepath.Base(input))
	for _, format := range opts.Formats {
		path := base + extension(format, 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		artifact(path)
	}
	return nil
}
