package atlas

import (
	"github.com/packforge/atlaspack/pkg/errors"
)

// Options configures an allocation run.
type Options struct {
	// Width and Height are the canvas dimensions for each atlas.
	Width  int
	Height int

	// Padding reserved on every side of every sprite.
	Padding int

	// Heuristic selects the engine's free-rectangle scoring rule.
	Heuristic Heuristic

	// ShrinkToFit halves each finished canvas side while half still covers
	// the content, so mostly-empty trailing atlases don't waste memory.
	ShrinkToFit bool
}

// Allocate places every candidate onto a sequence of canvases.
//
// The engine is run against fresh canvases until the worklist is empty; each
// pass yields one Plan with the next contiguous atlas index. Candidates that
// cannot fit an empty canvas in any permitted orientation abort the run
// before any packing happens:
//
//   - OVERSIZED_ITEM names the first offending candidate.
//   - INVALID_INPUT reports empty names or non-positive dimensions.
//   - PACKING_INVARIANT reports an engine pass that placed nothing despite
//     every candidate individually fitting; it indicates a defect, not bad
//     input, and is never retried.
//
// Allocate does not touch pixels and has no side effects beyond the
// returned plans.
func Allocate(items []Candidate, opts Options) ([]Plan, error) {
	if err := errors.ValidateCanvasSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if err := errors.ValidatePadding(opts.Padding); err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "candidate with empty name")
		}
		if item.Size.W <= 0 || item.Size.H <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"candidate %q has invalid size %dx%d", item.Name, item.Size.W, item.Size.H)
		}
		if !fitsCanvas(item, opts) {
			return nil, errors.New(errors.ErrCodeOversizedItem,
				"sprite %q (%dx%d, padding %d) exceeds the %dx%d canvas in every permitted orientation",
				item.Name, item.Size.W, item.Size.H, opts.Padding, opts.Width, opts.Height)
		}
	}

	engine := Engine{
		Width:     opts.Width,
		Height:    opts.Height,
		Padding:   opts.Padding,
		Heuristic: opts.Heuristic,
	}

	var plans []Plan
	worklist := items
	for len(worklist) > 0 {
		placed, remaining := engine.Pack(worklist)
		if len(placed) == 0 {
			// Every candidate fits an empty canvas on its own, so a pass
			// that places nothing can only be an engine defect.
			return nil, errors.New(errors.ErrCodePackingInvariant,
				"packing pass placed no candidates with %d left", len(worklist))
		}

		index := len(plans)
		for i := range placed {
			placed[i].Atlas = index
		}

		plan := Plan{
			Index:      index,
			Width:      opts.Width,
			Height:     opts.Height,
			Placements: placed,
		}
		if opts.ShrinkToFit {
			shrink(&plan, opts.Padding)
		}
		plans = append(plans, plan)
		worklist = remaining
	}

	return plans, nil
}

// fitsCanvas reports whether the candidate's padded size fits the canvas in
// at least one permitted orientation.
func fitsCanvas(item Candidate, opts Options) bool {
	padded := item.PaddedSize(opts.Padding)
	if padded.W <= opts.Width && padded.H <= opts.Height {
		return true
	}
	if item.AllowRotate {
		r := padded.Rotated()
		return r.W <= opts.Width && r.H <= opts.Height
	}
	return false
}

// shrink halves the canvas sides while half still covers the used extent.
// Placements stay where they are; only the declared canvas size changes,
// keeping every containment invariant intact.
func shrink(plan *Plan, pad int) {
	var maxX, maxY int
	for _, p := range plan.Placements {
		// The padded footprint extends pad past the sprite rect.
		if r := p.Rect.Right() + pad; r > maxX {
			maxX = r
		}
		if b := p.Rect.Bottom() + pad; b > maxY {
			maxY = b
		}
	}
	for plan.Width/2 >= maxX && plan.Width > 1 {
		plan.Width /= 2
	}
	for plan.Height/2 >= maxY && plan.Height > 1 {
		plan.Height /= 2
	}
}
