// Package cli implements the depict command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/greatlse/openchemlib/pkg/buildinfo"
	"github.com/greatlse/openchemlib/pkg/cache"
	"github.com/greatlse/openchemlib/pkg/core/inventor"
	"github.com/greatlse/openchemlib/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depict"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// set by persistent flags
	configPath string
	cacheFlags cache.Config

	config pipeline.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Depict computes 2D coordinates for molecules",
		Long: `Depict generates clean 2D drawings of molecules from their connectivity.

It reads V2000 molfiles and SD files, computes coordinates with standard
bond lengths and angles, and writes molfiles, JSON depictions, SVG, PNG
or PDF. Layouts are cached so repeated runs are instant.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+pipeline.ConfigFileName+")")
	root.PersistentFlags().StringVar(&c.cacheFlags.Backend, "cache", "", "cache backend: file (default), none, redis, mongo")
	root.PersistentFlags().StringVar(&c.cacheFlags.Dir, "cache-dir", "", "file cache directory")
	root.PersistentFlags().StringVar(&c.cacheFlags.RedisURL, "redis-url", "", "redis URL for the redis backend")
	root.PersistentFlags().StringVar(&c.cacheFlags.MongoURI, "mongo-uri", "", "MongoDB URI for the mongo backend")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the first config file found in
// the default locations.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = pipeline.FindConfig()
	}
	if path == "" {
		return nil
	}
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build so that a new release never reads layouts of an older one.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cacheConfig()
	if noCache || cfg.Backend == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cfg)
	if err != nil && (cfg.Backend == "" || cfg.Backend == cache.BackendFile) {
		c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
		return cache.NewNullCache(), nil
	}
	return store, err
}

// cacheConfig overlays the cache flags on the config file section.
func (c *CLI) cacheConfig() cache.Config {
	cfg := c.config.Cache
	if c.cacheFlags.Backend != "" {
		cfg.Backend = c.cacheFlags.Backend
	}
	if c.cacheFlags.Dir != "" {
		cfg.Dir = c.cacheFlags.Dir
	}
	if c.cacheFlags.RedisURL != "" {
		cfg.RedisURL = c.cacheFlags.RedisURL
	}
	if c.cacheFlags.MongoURI != "" {
		cfg.MongoURI = c.cacheFlags.MongoURI
	}
	return cfg
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory (~/.cache/depict/ by default).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.cacheConfig().Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options every layout-producing command shares.
type layoutFlags struct {
	opts          pipeline.Options
	marked        string
	keepHydrogens bool
	keepMarked    bool
	preferMarked  bool
	formats       string
	noCache       bool
}

// setCLIDefaults applies CLI-specific defaults on top of pipeline defaults.
func setCLIDefaults(opts *pipeline.Options) {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	// Drawings from the command line rarely want explicit hydrogens.
	opts.Mode = inventor.ModeRemoveHydrogen.String()
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	setCLIDefaults(&f.opts)
	fs := cmd.Flags()
	fs.Uint64Var(&f.opts.Seed, "seed", f.opts.Seed, "random seed for reproducible layouts")
	fs.BoolVar(&f.opts.Random, "random", false, "use a fresh random seed (never cached)")
	fs.BoolVar(&f.keepHydrogens, "keep-hydrogens", false, "lay out explicit hydrogens instead of removing them")
	fs.BoolVar(&f.keepMarked, "keep-marked", false, "keep the coordinates of marked atoms")
	fs.BoolVar(&f.preferMarked, "prefer-marked", false, "start from marked atom coordinates but allow moving them")
	fs.StringVar(&f.marked, "marked", "", "1-based atoms to mark, e.g. 1,2,5-7")
	fs.IntVar(&f.opts.Record, "record", 0, "lay out only this 1-based SD record")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute and overwrite cached layouts")
	fs.StringVarP(&f.formats, "format", "f", pipeline.FormatMolfile, "comma-separated formats: "+strings.Join(pipeline.ValidFormats, ", "))
	fs.Float64Var(&f.opts.BondLength, "bond-length", f.opts.BondLength, "bond length of written molfiles")
	fs.Float64Var(&f.opts.Scale, "scale", 0, "pixels per bond for SVG and PDF")
	fs.BoolVar(&f.opts.AtomNumbers, "atom-numbers", false, "label atoms with their 1-based index")
}

// resolve merges config file values, CLI defaults and changed flags.
// Explicit flags win over the config file.
func (f *layoutFlags) resolve(cmd *cobra.Command, cfg pipeline.Options) (pipeline.Options, error) {
	opts := f.opts
	changed := cmd.Flags().Changed

	if cfg.Mode != "" && !changed("keep-hydrogens") && !changed("keep-marked") && !changed("prefer-marked") {
		opts.Mode = cfg.Mode
	} else {
		opts.Mode = f.mode().String()
	}
	if !changed("seed") && cfg.Seed != 0 {
		opts.Seed = cfg.Seed
	}
	if !changed("random") {
		opts.Random = opts.Random || cfg.Random
	}
	if !changed("record") && cfg.Record != 0 {
		opts.Record = cfg.Record
	}
	if !changed("workers") && cfg.Workers != 0 {
		opts.Workers = cfg.Workers
	}
	if !changed("bond-length") && cfg.BondLength != 0 {
		opts.BondLength = cfg.BondLength
	}
	if !changed("scale") && cfg.Scale != 0 {
		opts.Scale = cfg.Scale
	}
	if !changed("atom-numbers") {
		opts.AtomNumbers = opts.AtomNumbers || cfg.AtomNumbers
	}

	switch {
	case changed("format"):
		opts.Formats = parseFormats(f.formats)
	case len(cfg.Formats) > 0:
		opts.Formats = cfg.Formats
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}

	opts.Marked = cfg.Marked
	if f.marked != "" {
		marked, err := pipeline.ParseAtomList(f.marked)
		if err != nil {
			return opts, err
		}
		opts.Marked = marked
	}
	return opts, nil
}

func (f *layoutFlags) mode() inventor.Mode {
	var mode inventor.Mode
	if !f.keepHydrogens {
		mode |= inventor.ModeRemoveHydrogen
	}
	if f.keepMarked {
		mode |= inventor.ModeKeepMarkedAtomCoords
	}
	if f.preferMarked {
		mode |= inventor.ModePreferMarkedAtomCoords
	}
	return mode
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatMolfile}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, strings.ToLower(f))
		}
	}
	return formats
}
