// Package descriptor builds the machine-readable atlas description that
// ships alongside the composed images.
//
// A Document lists every atlas texture by file name and, per texture, every
// sprite record: where its pixels sit on the sheet, the original untrimmed
// frame, and whether it was rotated. Consumers (game engines, asset
// pipelines) use the records to cut sprites back out of the sheets.
//
// Encoding lives in the [sink] subpackage; this package only defines the
// model and its construction from a placement plan.
//
// [sink]: github.com/packforge/atlaspack/pkg/descriptor/sink
package descriptor

import (
	"fmt"

	"github.com/packforge/atlaspack/pkg/atlas"
	"github.com/packforge/atlaspack/pkg/errors"
	"github.com/packforge/atlaspack/pkg/sprite"
)

// Record describes one sprite on one atlas texture.
//
// X, Y, W, H locate the sprite's pixels on the sheet, after rotation and
// excluding padding. FrameX and FrameY are the (negative or zero) offsets of
// the packed pixels within the original frame; FrameW and FrameH are the
// untrimmed dimensions. The short wire names (n, x, ... r) are shared by the
// JSON, XML and binary encodings.
type Record struct {
	Name    string `json:"n" xml:"n,attr" bson:"n"`
	X       int    `json:"x" xml:"x,attr" bson:"x"`
	Y       int    `json:"y" xml:"y,attr" bson:"y"`
	W       int    `json:"w" xml:"w,attr" bson:"w"`
	H       int    `json:"h" xml:"h,attr" bson:"h"`
	FrameX  int    `json:"fx" xml:"fx,attr" bson:"fx"`
	FrameY  int    `json:"fy" xml:"fy,attr" bson:"fy"`
	FrameW  int    `json:"fw" xml:"fw,attr" bson:"fw"`
	FrameH  int    `json:"fh" xml:"fh,attr" bson:"fh"`
	Rotated bool   `json:"r,omitempty" xml:"r,attr,omitempty" bson:"r,omitempty"`
}

// Texture is one atlas sheet and the records placed on it.
type Texture struct {
	Name   string   `json:"name" xml:"name,attr" bson:"name"`
	Images []Record `json:"images" xml:"image" bson:"images"`
}

// Document is the full descriptor for a packing run.
type Document struct {
	Textures []Texture `json:"textures" xml:"texture" bson:"textures"`
}

// TextureName returns the file stem of atlas number index, e.g. "atlas0"
// for base "atlas". The same stem names the image file and the descriptor
// entry, keeping the two artifacts linked by construction.
func TextureName(base string, index int) string {
	return fmt.Sprintf("%s%d", base, index)
}

// Build assembles the descriptor for a set of plans.
//
// lookup resolves placement names to sprites for frame metadata. aliases
// maps a placed (canonical) name to further names that share its pixels;
// each alias becomes an extra record at the same position but with the
// alias's own frame metadata. Records appear in placement order, canonical
// name first, then its aliases.
func Build(plans []atlas.Plan, lookup func(name string) *sprite.Sprite, base string, aliases map[string][]string) (Document, error) {
	doc := Document{Textures: make([]Texture, 0, len(plans))}

	for _, plan := range plans {
		tex := Texture{
			Name:   TextureName(base, plan.Index),
			Images: make([]Record, 0, len(plan.Placements)),
		}
		for _, pl := range plan.Placements {
			names := append([]string{pl.Name}, aliases[pl.Name]...)
			for _, name := range names {
				s := lookup(name)
				if s == nil {
					return Document{}, errors.New(errors.ErrCodePackingInvariant,
						"placement %q has no sprite", name)
				}
				tex.Images = append(tex.Images, Record{
					Name:    name,
					X:       pl.Rect.X,
					Y:       pl.Rect.Y,
					W:       pl.Rect.W,
					H:       pl.Rect.H,
					FrameX:  s.FrameX,
					FrameY:  s.FrameY,
					FrameW:  s.FrameW,
					FrameH:  s.FrameH,
					Rotated: pl.Rotated,
				})
			}
		}
		doc.Textures = append(doc.Textures, tex)
	}

	return doc, nil
}
