// Package pipeline runs the parse → layout → render flow shared by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Parse: read a molfile or SD file into records
//  2. Layout: compute 2D coordinates with the inventor
//  3. Render: produce molfile, JSON, SVG, PNG or PDF output
//
// Each stage can run alone. The [Runner] adds caching and observability
// hooks around them.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	records, err := pipeline.ParseFile(ctx, "caffeine.mol", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, records[0].Molecule, pipeline.Options{
//	    Formats: []string{"svg", "mol"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Caching
//
// Layouts are keyed by the molecule hash, the inventor mode, the seed and the
// marked atoms. A run with Random set draws a fresh seed and bypasses the
// cache entirely.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/greatlse/openchemlib/pkg/cache"
	"github.com/greatlse/openchemlib/pkg/core/inventor"
	"github.com/greatlse/openchemlib/pkg/core/mol"
	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/render"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultSeed makes repeated layouts of the same molecule identical.
	DefaultSeed = uint64(42)

	// DefaultBondLength is the bond length of written molfiles.
	DefaultBondLength = molfile.DefaultBondLength

	// DefaultWorkers bounds concurrent layouts in LayoutBatch.
	DefaultWorkers = 4

	// DefaultMode lays out every atom including explicit hydrogens.
	DefaultMode = "none"
)

// Output formats besides the render formats.
const (
	FormatMolfile = "mol"
	FormatJSON    = "json"
)

// ValidFormats lists every output format.
var ValidFormats = append([]string{FormatMolfile, FormatJSON}, render.Formats...)

// =============================================================================
// Options
// =============================================================================

// Options configures all stages. Zero values select the defaults.
type Options struct {
	// Parse options
	Record int `json:"record,omitempty" toml:"record"` // 1-based SD record, 0 selects all

	// Layout options
	Mode   string `json:"mode,omitempty" toml:"mode"`
	Seed   uint64 `json:"seed,omitempty" toml:"seed"`
	Random bool   `json:"random,omitempty" toml:"random"`
	Marked []int  `json:"marked,omitempty" toml:"marked"` // 0-based atom indices
	// Refresh recomputes the layout and overwrites the cached entry.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"`
	BondLength  float64  `json:"bond_length,omitempty" toml:"bond_length"`
	Scale       float64  `json:"scale,omitempty" toml:"scale"`
	AtomNumbers bool     `json:"atom_numbers,omitempty" toml:"atom_numbers"`

	// Batch options
	Workers int `json:"workers,omitempty" toml:"workers"`

	Logger *log.Logger `json:"-" toml:"-"`
}

// Result holds the outputs for one molecule.
type Result struct {
	Name      string
	Molecule  *mol.Molecule    // laid out, in bond-length units
	Depiction *graph.Depiction // same coordinates, serializable
	LayoutKey string           // empty for random layouts
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
	Err       error // set by LayoutBatch for a failed record
}

// Stats contains timing and size information.
type Stats struct {
	Atoms      int
	Bonds      int
	Fragments  int
	Flips      int
	Penalty    float64
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact was cached
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks one output format.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every output format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode parses a mode string.
func ValidateMode(mode string) (inventor.Mode, error) {
	m, err := inventor.ParseMode(mode)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidMode, err, "invalid mode")
	}
	return m, nil
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Seed == 0 && !o.Random {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and returns the parsed mode.
func (o *Options) ValidateForLayout() (inventor.Mode, error) {
	o.SetLayoutDefaults()
	if o.Record < 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "record must be positive, got %d", o.Record)
	}
	return ValidateMode(o.Mode)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatMolfile}
	}
	if o.BondLength == 0 {
		o.BondLength = DefaultBondLength
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and checks formats and sizes.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}
	return errs.ValidateBondLength(o.BondLength)
}

// ValidateAndSetDefaults prepares options for Execute.
func (o *Options) ValidateAndSetDefaults() (inventor.Mode, error) {
	mode, err := o.ValidateForLayout()
	if err != nil {
		return 0, err
	}
	if err := o.ValidateForRender(); err != nil {
		return 0, err
	}
	return mode, nil
}

// LayoutKeyOpts returns the cache key options for a layout.
func (o *Options) LayoutKeyOpts(mode inventor.Mode) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Mode: mode.String(), Seed: o.Seed, Marked: o.Marked}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Scale: o.Scale, AtomNumbers: o.AtomNumbers}
	if format == FormatMolfile {
		opts.Scale = o.BondLength
	}
	return opts
}

// Cacheable reports whether a layout with these options may be cached.
func (o *Options) Cacheable() bool { return !o.Random }
