package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/observability"
	"github.com/greatlse/openchemlib/pkg/pipeline"
	"github.com/greatlse/openchemlib/pkg/render"
)

// layoutCommand creates the layout command for computing 2D coordinates.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [file.mol|file.sdf]",
		Short: "Compute 2D coordinates for a molfile or SD file",
		Long: `Compute 2D coordinates for a molfile or SD file.

Every record is laid out with standard bond lengths and angles. The result is
written as a molfile (an SD file for several records), a JSON depiction that
'depict render' can draw later, or directly as SVG, PNG or PDF.

Hydrogens are removed unless --keep-hydrogens is given. With --marked and
--keep-marked, the marked atoms keep their input coordinates and the rest of
the molecule is laid out around them.

Seeded layouts are cached locally for faster subsequent runs.`,
		Example: `  depict layout caffeine.mol
  depict layout library.sdf -f mol,svg --workers 8
  depict layout scaffold.mol --marked 1-6 --keep-marked -f svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("mol", "sdf", "sd"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, c.config.Options)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <input>.depict)")
	cmd.Flags().IntVarP(&flags.opts.Workers, "workers", "w", flags.opts.Workers, "records laid out in parallel")

	return cmd
}

// runLayout parses the input, lays out every record and writes the outputs.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	opts.Logger = c.Logger

	records, err := pipeline.ParseFile(ctx, input, opts)
	if err != nil {
		return err
	}
	return c.layoutRecords(ctx, filepath.Base(input), records, outputBase(input, output), opts, noCache)
}

// layoutRecords lays out records and writes the outputs next to base.
func (c *CLI) layoutRecords(ctx context.Context, label string, records []*molfile.Record, base string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", label))
	prog := newProgress(c.Logger, len(records))
	if len(records) > 1 {
		observability.SetPipelineHooks(&batchProgress{spinner: spinner, progress: prog})
		defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	}
	spinner.Start()

	results, err := runner.LayoutBatch(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}
	var totals batchTotals
	if len(records) > 1 {
		totals = prog.finish(results)
	} else {
		totals = tally(results)
	}
	for i, res := range results {
		if res.Err != nil {
			status(toneWarn, "Record %d (%s): %s", i+1, res.Name, errs.UserMessage(res.Err))
		}
	}
	if totals.Failed == totals.Records {
		return fmt.Errorf("all %d records failed", totals.Failed)
	}

	written, err := writeResults(base, records, results, opts)
	if err != nil {
		return err
	}

	if len(results) == 1 {
		status(toneOK, "Layout complete")
	} else {
		status(toneOK, "Laid out %d of %d records", totals.Records-totals.Failed, totals.Records)
	}
	for _, path := range written {
		artifact(path)
	}
	if len(results) == 1 {
		printStats(results[0].Stats, results[0].CacheInfo.LayoutHit)
		for _, path := range written {
			if strings.HasSuffix(path, ".json") {
				hint("Render", "depict render "+path)
			}
		}
	}
	return nil
}

// batchProgress updates the spinner as records finish.
type batchProgress struct {
	observability.NoopPipelineHooks
	spinner  *Spinner
	progress *progress
}

func (p *batchProgress) OnLayoutComplete(_ context.Context, name string, r observability.LayoutResult, _ error) {
	p.spinner.SetMessage("Laid out %d/%d records...", p.progress.step(name, r), p.progress.total)
}

// =============================================================================
// Output
// =============================================================================

// outputBase returns the path that output files are derived from.
func outputBase(input, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".depict"
}

// extension returns the file extension for a format.
func extension(format string, records int) string {
	switch format {
	case pipeline.FormatMolfile:
		if records > 1 {
			return ".sdf"
		}
		return ".mol"
	case render.FormatGraphviz:
		return ".graphviz.svg"
	}
	return "." + format
}

// writeResults writes every artifact and returns the written paths. Several
// records go into one SD file; other formats get one file per record.
func writeResults(base string, records []*molfile.Record, results []*pipeline.Result, opts pipeline.Options) ([]string, error) {
	var written []string
	if len(results) == 1 {
		res := results[0]
		for _, format := range opts.Formats {
			path := base + extension(format, 1)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
		return written, nil
	}

	for _, format := range opts.Formats {
		if format == pipeline.FormatMolfile {
			path := base + extension(format, len(results))
			if err := molfile.ExportSD(path, laidOut(records, results), molfile.WithBondLength(opts.BondLength)); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
			continue
		}
		for i, res := range results {
			if res.Err != nil {
				continue
			}
			path := base + "." + recordName(res.Name, i) + extension(format, 1)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// laidOut pairs the laid out molecules with the data items of their input
// records. Failed records are left out.
func laidOut(records []*molfile.Record, results []*pipeline.Result) []*molfile.Record {
	out := make([]*molfile.Record, 0, len(results))
	for i, res := range results {
		if res.Err == nil {
			out = append(out, &molfile.Record{Molecule: res.Molecule, Data: records[i].Data})
		}
	}
	return out
}

// recordName turns a record title into a file name component prefixed with
// the 1-based record number. Titles that are not a plain relative name are
// dropped.
func recordName(title string, i int) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if name == "" || errs.ValidatePath(name) != nil || filepath.Base(name) != name {
		return fmt.Sprintf("%d", i+1)
	}
	return fmt.Sprintf("%d-%s", i+1, name)
}
