package composite

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/packforge/atlaspack/pkg/atlas"
)

// Overlay draws placement outlines on top of a rendered atlas for visual
// debugging. Each sprite's pixel rect gets a green outline; when padding is
// nonzero the padded footprint is outlined in translucent red as well.
// The input image is not modified.
func Overlay(img *image.NRGBA, plan atlas.Plan, padding int) *image.NRGBA {
	dc := gg.NewContext(plan.Width, plan.Height)
	dc.DrawImage(img, 0, 0)
	dc.SetLineWidth(1)

	for _, pl := range plan.Placements {
		if padding > 0 {
			dc.SetRGBA(1, 0, 0, 0.5)
			dc.DrawRectangle(
				float64(pl.Rect.X-padding)+0.5,
				float64(pl.Rect.Y-padding)+0.5,
				float64(pl.Rect.W+2*padding)-1,
				float64(pl.Rect.H+2*padding)-1,
			)
			dc.Stroke()
		}

		dc.SetRGBA(0, 1, 0, 0.9)
		dc.DrawRectangle(
			float64(pl.Rect.X)+0.5,
			float64(pl.Rect.Y)+0.5,
			float64(pl.Rect.W)-1,
			float64(pl.Rect.H)-1,
		)
		dc.Stroke()
	}

	return imaging.Clone(dc.Image())
}
