package server

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/greatlse/openchemlib/pkg/buildinfo"
	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/pipeline"
	"github.com/greatlse/openchemlib/pkg/render"
)

var contentTypes = map[string]string{
	pipeline.FormatMolfile: "chemical/x-mdl-molfile",
	pipeline.FormatJSON:    "application/json",
	render.FormatSVG:       "image/svg+xml",
	render.FormatGraphviz:  "image/svg+xml",
	render.FormatPNG:       "image/png",
	render.FormatPDF:       "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleLayout lays out every record of the body. Several records come back
// as an SD file or a JSON array.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.options(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatMolfile
	}
	if format != pipeline.FormatMolfile && format != pipeline.FormatJSON {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "layout format must be mol or json, got %q", format))
		return
	}
	if v := q.Get("bond_length"); v != "" {
		if opts.BondLength, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid bond_length %q", v))
			return
		}
	}
	opts.Formats = []string{format}

	records, err := pipeline.Parse(r.Context(), r.Body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := s.runner.LayoutBatch(r.Context(), records, opts)
	if err != nil {
		if errs.GetCode(err) == "" {
			err = errs.Wrap(errs.ErrCodeTimeout, err, "layout")
		}
		s.writeError(w, r, err)
		return
	}
	for _, res := range results {
		if res.Err != nil {
			s.writeError(w, r, res.Err)
			return
		}
	}

	if len(results) == 1 {
		writeBytes(w, contentTypes[format], results[0].Artifacts[format])
		return
	}
	if format == pipeline.FormatJSON {
		deps := make([]*graph.Depiction, len(results))
		for i, res := range results {
			deps[i] = res.Depiction
		}
		writeJSON(w, http.StatusOK, deps)
		return
	}
	out := make([]*molfile.Record, len(results))
	for i, res := range results {
		out[i] = &molfile.Record{Molecule: res.Molecule, Data: records[i].Data}
	}
	var buf bytes.Buffer
	if err := molfile.WriteSD(&buf, out, molfile.WithBondLength(opts.BondLength)); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "write sd"))
		return
	}
	writeBytes(w, "chemical/x-mdl-sdfile", buf.Bytes())
}

// handleRender draws the first (or selected) record.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.options(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if !render.ValidFormat(format) {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "render format must be one of %s, got %q",
			strings.Join(render.Formats, ", "), format))
		return
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
	}
	if v := q.Get("atom_numbers"); v != "" {
		if opts.AtomNumbers, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid atom_numbers %q", v))
			return
		}
	}
	opts.Formats = []string{format}

	records, err := pipeline.Parse(r.Context(), r.Body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), records[0].Molecule, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, contentTypes[format], res.Artifacts[format])
}

// options overlays the query parameters on the server defaults.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.opts.Defaults
	opts.Logger = s.opts.Logger
	var err error
	if v := q.Get("mode"); v != "" {
		opts.Mode = v
	}
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "invalid seed %q", v)
		}
	}
	if v := q.Get("random"); v != "" {
		if opts.Random, err = strconv.ParseBool(v); err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "invalid random %q", v)
		}
	}
	if v := q.Get("marked"); v != "" {
		if opts.Marked, err = pipeline.ParseAtomList(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("record"); v != "" {
		if opts.Record, err = strconv.Atoi(v); err != nil || opts.Record < 1 {
			return opts, errs.New(errs.ErrCodeInvalidInput, "invalid record %q", v)
		}
	}
	if _, err := pipeline.ValidateMode(opts.Mode); err != nil {
		return opts, err
	}
	return opts, nil
}
