package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/molfile"
)

// Parse reads a molfile or SD file. With opts.Record set only that record
// is returned.
func Parse(ctx context.Context, r io.Reader, opts Options) ([]*molfile.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := molfile.ReadSD(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidMolfile, err, "parse molfile")
	}
	for i, rec := range records {
		if err := errs.ValidateAtomCount(rec.Molecule.AllAtoms()); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidMolfile, err, "record %d", i+1)
		}
	}
	return selectRecord(records, opts.Record)
}

// ParseFile opens path and parses it.
func ParseFile(ctx context.Context, path string, opts Options) ([]*molfile.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "input file")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "input file")
	}
	defer f.Close()
	return Parse(ctx, f, opts)
}

func selectRecord(records []*molfile.Record, n int) ([]*molfile.Record, error) {
	switch {
	case n == 0:
		return records, nil
	case n < 0 || n > len(records):
		return nil, errs.New(errs.ErrCodeNotFound, "record %d not found (file has %d)", n, len(records))
	}
	return records[n-1 : n], nil
}

// ParseAtomList parses 1-based atom numbers as written in molfiles, such as
// "1,2,5-7", and returns sorted 0-based indices without duplicates.
func ParseAtomList(s string) ([]int, error) {
	var atoms []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || from < 1 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "invalid atom number %q", part)
		}
		to := from
		if isRange {
			to, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || to < from {
				return nil, errs.New(errs.ErrCodeInvalidInput, "invalid atom range %q", part)
			}
		}
		if to-from >= errs.MaxAtoms {
			return nil, errs.New(errs.ErrCodeInvalidInput, "atom range %q too large", part)
		}
		for a := from; a <= to; a++ {
			atoms = append(atoms, a-1)
		}
	}
	slices.Sort(atoms)
	return slices.Compact(atoms), nil
}
