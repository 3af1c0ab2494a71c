package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/packforge/atlaspack/pkg/atlas"
	"github.com/packforge/atlaspack/pkg/cache"
	"github.com/packforge/atlaspack/pkg/composite"
	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
	atlasio "github.com/packforge/atlaspack/pkg/io"
	"github.com/packforge/atlaspack/pkg/observability"
	"github.com/packforge/atlaspack/pkg/sprite"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → pack → compose → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// An unchanged run is skipped entirely unless forced.
	runHash, err := r.runHash(opts)
	if err != nil {
		return nil, err
	}
	if !opts.Force && runHash != "" {
		if prev := atlasio.ReadRunHash(opts.OutputDir(), opts.BaseName()); prev == runHash {
			logger.Info("inputs unchanged, skipping run", "hash", runHash[:12])
			result.Skipped = true
			return result, nil
		}
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, len(opts.Inputs))
	sprites, err := sprite.Load(ctx, opts.Inputs, sprite.LoadOptions{
		Premultiply: opts.Premultiply,
		Trim:        opts.Trim,
		Jobs:        opts.Jobs,
		Logger:      opts.Logger,
	})
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, len(sprites), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	result.Stats.SpriteCount = len(sprites)

	logger.Info("loaded sprites", "count", len(sprites), "duration", result.Stats.LoadTime)

	// Dedup identical bitmaps so they pack once and alias in the descriptor.
	canonical, aliases := sprites, map[string][]string(nil)
	if opts.Unique {
		canonical, aliases = dedup(sprites)
		result.Stats.DedupCount = len(sprites) - len(canonical)
		if result.Stats.DedupCount > 0 {
			logger.Info("deduplicated sprites", "unique", len(canonical), "folded", result.Stats.DedupCount)
		}
	}

	// Stage 2: Pack
	packStart := time.Now()
	observability.Pipeline().OnPackStart(ctx, len(canonical))
	plans, planHit, err := r.allocate(ctx, canonical, opts)
	result.Stats.PackTime = time.Since(packStart)
	observability.Pipeline().OnPackComplete(ctx, len(plans), result.Stats.PackTime, err)
	if err != nil {
		return nil, err
	}
	result.Plans = plans
	result.Stats.AtlasCount = len(plans)
	result.CacheInfo.PlanHit = planHit

	logger.Info("packed sprites",
		"atlases", len(plans),
		"cached", planHit,
		"duration", result.Stats.PackTime)

	// Stage 3: Compose
	composeStart := time.Now()
	lookup := composite.SpriteMap(sprites)
	images, err := composite.CompositeAll(ctx, plans, lookup, opts.Jobs)
	result.Stats.ComposeTime = time.Since(composeStart)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		for i := range images {
			images[i] = composite.Overlay(images[i], plans[i], opts.Pad())
		}
	}

	logger.Info("composed atlases", "count", len(images), "duration", result.Stats.ComposeTime)

	// Stage 4: Export
	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	err = r.export(result, images, lookup, aliases, opts)
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, result.Stats.ExportTime, err)
	if err != nil {
		return nil, err
	}

	if runHash != "" {
		if err := atlasio.WriteRunHash(opts.OutputDir(), opts.BaseName(), runHash); err != nil {
			return nil, err
		}
	}

	logger.Info("exported artifacts",
		"images", len(result.ImagePaths),
		"descriptors", len(result.DescriptorPaths),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// allocate runs the packer, replaying a cached plan when one exists for the
// same candidates and options.
func (r *Runner) allocate(ctx context.Context, sprites []*sprite.Sprite, opts Options) ([]atlas.Plan, bool, error) {
	items := make([]atlas.Candidate, len(sprites))
	for i, s := range sprites {
		items[i] = atlas.Candidate{Name: s.Name, Size: s.Size(), AllowRotate: opts.Rotate}
	}

	allocOpts := atlas.Options{
		Width:       opts.Width,
		Height:      opts.Height,
		Padding:     opts.Pad(),
		Heuristic:   opts.heuristic(),
		ShrinkToFit: !opts.NoShrink,
	}

	var key string
	if data, err := atlas.MarshalCandidates(items); err == nil {
		key = r.Keyer.PlanKey(cache.Hash(data), cache.PlanKeyOpts{
			Width:     opts.Width,
			Height:    opts.Height,
			Padding:   opts.Pad(),
			Rotate:    opts.Rotate,
			Heuristic: opts.Heuristic,
			Shrink:    !opts.NoShrink,
		})
	}

	if key != "" && !opts.Force {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if plans, err := atlas.UnmarshalPlans(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return plans, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	plans, err := atlas.Allocate(items, allocOpts)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := atlas.MarshalPlans(plans); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLPlan)
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	return plans, false, nil
}

// export writes images and descriptors, then removes leftovers from a
// previous, larger run.
func (r *Runner) export(result *Result, images []*image.NRGBA, lookup composite.Lookup, aliases map[string][]string, opts Options) error {
	dir, base := opts.OutputDir(), opts.BaseName()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", dir)
	}

	doc, err := descriptor.Build(result.Plans, lookup, base, aliases)
	if err != nil {
		return err
	}
	result.Document = doc

	for i, img := range images {
		path, err := atlasio.ExportImage(dir, base, result.Plans[i].Index, img, opts.Extension)
		if err != nil {
			return err
		}
		result.ImagePaths = append(result.ImagePaths, path)
	}

	for _, f := range opts.formats() {
		path, err := atlasio.ExportDescriptor(dir, base, doc, f)
		if err != nil {
			return err
		}
		result.DescriptorPaths = append(result.DescriptorPaths, path)
	}

	if removed, err := atlasio.RemoveStale(dir, base, len(images), opts.Extension); err != nil {
		return err
	} else if len(removed) > 0 {
		opts.Logger.Debug("removed stale atlases", "count", len(removed))
	}

	return nil
}

// runHash fingerprints the options and every input file. Two runs with the
// same hash would produce byte-identical artifacts. An empty string disables
// skipping (an input could not be read; the load stage will report it).
func (r *Runner) runHash(opts Options) (string, error) {
	optData, err := json.Marshal(opts)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}

	paths, err := sprite.ListFiles(opts.Inputs)
	if err != nil {
		return "", err
	}

	d := xxhash.New()
	_, _ = d.Write(optData)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil
		}
		_, _ = d.WriteString(path)
		_, _ = d.Write(data)
	}
	return strconv.FormatUint(d.Sum64(), 16), nil
}

// dedup folds sprites with identical pixels into the first occurrence.
// It returns the canonical sprites in input order plus an alias map from
// canonical name to folded names.
func dedup(sprites []*sprite.Sprite) ([]*sprite.Sprite, map[string][]string) {
	canonical := make([]*sprite.Sprite, 0, len(sprites))
	aliases := make(map[string][]string)
	byHash := make(map[uint64][]*sprite.Sprite)

	for _, s := range sprites {
		var match *sprite.Sprite
		for _, prev := range byHash[s.Hash] {
			if s.SamePixels(prev) {
				match = prev
				break
			}
		}
		if match != nil {
			aliases[match.Name] = append(aliases[match.Name], s.Name)
			continue
		}
		byHash[s.Hash] = append(byHash[s.Hash], s)
		canonical = append(canonical, s)
	}

	if len(aliases) == 0 {
		return canonical, nil
	}
	return canonical, aliases
}

// applyLogger falls back to the runner's logger when the options carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
