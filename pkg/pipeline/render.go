package pipeline

import (
	"bytes"
	"context"
	"fmt"

	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/render"
)

// RenderFormat produces one output format for a depiction.
func RenderFormat(ctx context.Context, d *graph.Depiction, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.Marshal(d)
	case FormatMolfile:
		m, err := d.ToMolecule()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "rebuild molecule")
		}
		var buf bytes.Buffer
		if err := molfile.Write(&buf, m, molfile.WithBondLength(opts.BondLength)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	data, err := render.Render(ctx, d, format, render.Options{Scale: opts.Scale, AtomNumbers: opts.AtomNumbers})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailure, err, "render %s", format)
	}
	return data, nil
}

// Render produces every format in opts.Formats.
func Render(ctx context.Context, d *graph.Depiction, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, d, format, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
