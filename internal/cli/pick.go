package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/pipeline"
)

// pickCommand creates the pick command for laying out one record of an SD
// file chosen interactively.
func (c *CLI) pickCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "pick [file.sdf]",
		Short: "Choose one record of an SD file and lay it out",
		Long: `Choose one record of an SD file and lay it out.

The records are listed with their title, size and first data item. Select one
with the arrow keys and enter; it is laid out as 'depict layout' would.
--record moves the cursor to that record first.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("sdf", "sd"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, c.config.Options)
			if err != nil {
				return err
			}
			return c.runPick(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <input>.<record>)")

	return cmd
}

func (c *CLI) runPick(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	opts.Logger = c.Logger
	start := opts.Record
	opts.Record = 0

	records, err := pipeline.ParseFile(ctx, input, opts)
	if err != nil {
		return err
	}
	if start > len(records) {
		return errs.New(errs.ErrCodeNotFound, "record %d not found, %s has %d", start, filepath.Base(input), len(records))
	}

	i, err := pickRecord(ctx, records, start-1)
	if err != nil {
		return err
	}
	if i < 0 {
		status(toneNote, "Nothing selected")
		return nil
	}

	base := outputBase(input, output)
	if output == "" {
		base = outputBase(input, "") + "." + recordName(records[i].Title(), i)
	}
	label := fmt.Sprintf("record %d of %s", i+1, filepath.Base(input))
	return c.layoutRecords(ctx, label, []*molfile.Record{records[i]}, base, opts, noCache)
}

// pickRecord runs the record list and returns the chosen index, or -1 if
// the user quit without choosing.
func pickRecord(ctx context.Context, records []*molfile.Record, cursor int) (int, error) {
	model := NewRecordListModel(records)
	model.moveTo(cursor)

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return -1, fmt.Errorf("record picker: %w", err)
	}
	return final.(RecordListModel).Selected, nil
}
