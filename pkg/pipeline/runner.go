package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/greatlse/openchemlib/pkg/cache"
	"github.com/greatlse/openchemlib/pkg/core/mol"
	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state. Every layout gets its own inventor, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute lays out m and renders every requested format. m is not modified.
func (r *Runner) Execute(ctx context.Context, m *mol.Molecule, opts Options) (*Result, error) {
	if _, err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	res, err := r.Layout(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Render(ctx, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Layout computes coordinates for a copy of m, using the cache for seeded
// runs.
func (r *Runner) Layout(ctx context.Context, m *mol.Molecule, opts Options) (*Result, error) {
	mode, err := opts.ValidateForLayout()
	if err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	work, err := PrepareMolecule(m, mode, opts.Marked)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, m.Name, work.AllAtoms(), mode.String())
	start := time.Now()

	res := &Result{Name: m.Name}
	if opts.Cacheable() {
		res.LayoutKey = r.Keyer.LayoutKey(work.Hash(), opts.LayoutKeyOpts(mode))
	}

	if res.LayoutKey != "" && !opts.Refresh {
		if d := r.cachedLayout(ctx, res.LayoutKey); d != nil {
			if cached, err := d.ToMolecule(); err == nil {
				res.Molecule, res.Depiction = cached, d
				res.CacheInfo.LayoutHit = true
			}
		}
	}
	if res.Depiction == nil {
		res.Depiction = GenerateLayout(work, mode, opts)
		res.Molecule = work
		if res.LayoutKey != "" {
			r.store(ctx, "layout", res.LayoutKey, res.Depiction, cache.LayoutTTL)
		}
	}

	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Atoms = len(res.Depiction.Atoms)
	res.Stats.Bonds = len(res.Depiction.Bonds)
	if s := res.Depiction.Stats; s != nil {
		res.Stats.Fragments, res.Stats.Flips, res.Stats.Penalty = s.Fragments, s.Flips, s.Penalty
	}
	hooks.OnLayoutComplete(ctx, m.Name, observability.LayoutResult{
		Fragments: res.Stats.Fragments,
		Flips:     res.Stats.Flips,
		Penalty:   res.Stats.Penalty,
		Cached:    res.CacheInfo.LayoutHit,
		Duration:  res.Stats.LayoutTime,
	}, nil)

	opts.Logger.Debug("layout",
		"name", m.Name,
		"atoms", res.Stats.Atoms,
		"penalty", res.Stats.Penalty,
		"cached", res.CacheInfo.LayoutHit,
		"duration", res.Stats.LayoutTime)
	return res, nil
}

// Render fills res.Artifacts with every format in opts.Formats. Artifacts
// of cached layouts are cached too.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	r.applyLogger(&opts)

	start := time.Now()
	res.Artifacts = make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		var key string
		if res.LayoutKey != "" {
			key = r.Keyer.ArtifactKey(res.LayoutKey, opts.ArtifactKeyOpts(format))
			if data := r.lookup(ctx, "artifact", key); data != nil {
				res.Artifacts[format] = data
				continue
			}
		}
		allCached = false

		observability.Pipeline().OnRenderStart(ctx, format)
		t := time.Now()
		data, err := RenderFormat(ctx, res.Depiction, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(t), err)
		if err != nil {
			return err
		}
		res.Artifacts[format] = data
		if key != "" {
			r.set(ctx, "artifact", key, data, cache.ArtifactTTL)
		}
	}
	res.CacheInfo.RenderHit = allCached
	res.Stats.RenderTime = time.Since(start)
	return nil
}

// LayoutBatch runs Execute for every record with at most opts.Workers
// layouts in flight. Results are in input order. A failed record sets the
// Err of its result and does not stop the others; only cancellation of
// ctx aborts the batch.
func (r *Runner) LayoutBatch(ctx context.Context, records []*molfile.Record, opts Options) ([]*Result, error) {
	if _, err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	results := make([]*Result, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(gctx, rec.Molecule, opts)
			if err != nil {
				res = &Result{Name: rec.Title(), Err: err}
				opts.Logger.Warn("record failed", "record", i+1, "name", rec.Title(), "err", errs.UserMessage(err))
			} else if res.Name == "" {
				res.Name = rec.Title()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Cache Helpers
// =============================================================================

// lookup returns cached bytes or nil. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) []byte {
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil
	case !hit:
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data
}

func (r *Runner) cachedLayout(ctx context.Context, key string) *graph.Depiction {
	data := r.lookup(ctx, "layout", key)
	if data == nil {
		return nil
	}
	d, err := graph.Unmarshal(data)
	if err != nil {
		r.Logger.Warn("discarding corrupt cached layout", "err", err)
		return nil
	}
	return d
}

func (r *Runner) store(ctx context.Context, keyType, key string, d *graph.Depiction, ttl time.Duration) {
	data, err := graph.Marshal(d)
	if err != nil {
		r.Logger.Warn("serialize layout", "err", err)
		return
	}
	r.set(ctx, keyType, key, data, ttl)
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
