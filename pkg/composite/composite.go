// Package composite renders packed plans into atlas images.
//
// The compositor is a pure consumer of the packer's output: it takes a
// placement plan plus the sprites it references and blits each sprite's
// pixels into a fresh canvas. Rotated placements are rotated 90 degrees
// clockwise at blit time, so the descriptor's coordinates always describe
// what is actually on the canvas.
package composite

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/packforge/atlaspack/pkg/atlas"
	"github.com/packforge/atlaspack/pkg/errors"
	"github.com/packforge/atlaspack/pkg/sprite"
)

// Lookup resolves a placement name to its sprite. It returns nil for an
// unknown name, which the compositor treats as a packing defect.
type Lookup func(name string) *sprite.Sprite

// SpriteMap builds a Lookup from a sprite slice.
func SpriteMap(sprites []*sprite.Sprite) Lookup {
	m := make(map[string]*sprite.Sprite, len(sprites))
	for _, s := range sprites {
		m[s.Name] = s
	}
	return func(name string) *sprite.Sprite { return m[name] }
}

// Composite renders one plan to a transparent canvas of the plan's size.
//
// Every placement must resolve to a sprite whose dimensions match the
// placement rect (after rotation); a mismatch means the plan and the
// sprites drifted apart and is reported as PACKING_INVARIANT rather than
// silently producing a corrupt sheet.
func Composite(plan atlas.Plan, lookup Lookup) (*image.NRGBA, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, plan.Width, plan.Height))

	for _, pl := range plan.Placements {
		s := lookup(pl.Name)
		if s == nil {
			return nil, errors.New(errors.ErrCodePackingInvariant,
				"placement %q has no sprite", pl.Name)
		}

		src := s.Image
		if pl.Rotated {
			// imaging rotates counter-clockwise, so 270 gives the
			// clockwise quarter turn placements are computed with.
			src = imaging.Rotate270(src)
		}

		if src.Rect.Dx() != pl.Rect.W || src.Rect.Dy() != pl.Rect.H {
			return nil, errors.New(errors.ErrCodePackingInvariant,
				"placement %q is %dx%d but sprite is %dx%d",
				pl.Name, pl.Rect.W, pl.Rect.H, src.Rect.Dx(), src.Rect.Dy())
		}

		blit(canvas, src, pl.Rect.X, pl.Rect.Y)
	}

	return canvas, nil
}

// blit copies src into dst at (x, y) row by row. Both buffers are NRGBA,
// so a byte copy preserves straight-alpha pixels exactly; going through
// image/draw would round-trip them via premultiplied color and lose
// precision at low alpha.
func blit(dst, src *image.NRGBA, x, y int) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for row := 0; row < h; row++ {
		si := row * src.Stride
		di := (y+row)*dst.Stride + x*4
		copy(dst.Pix[di:di+w*4], src.Pix[si:si+w*4])
	}
}

// CompositeAll renders every plan, one goroutine per atlas bounded by jobs
// (zero means unbounded). The returned slice is indexed by atlas index.
func CompositeAll(ctx context.Context, plans []atlas.Plan, lookup Lookup, jobs int) ([]*image.NRGBA, error) {
	images := make([]*image.NRGBA, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Composite(plan, lookup)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
