// Package sprite loads source images and prepares them for packing.
//
// A Sprite owns one decoded, immutable pixel buffer plus the metadata the
// packer and the descriptor need: the trimmed size, the original frame the
// trim was cut from, and a content hash used to detect duplicate bitmaps.
//
// # Loading pipeline
//
// Discovery walks the input files and directories in lexical order, skipping
// anything without an image extension. Decoding runs on a bounded worker
// pool, but results are joined back into discovery order before they reach
// the packer, so wall-clock decode order never influences placement.
package sprite

import (
	"bytes"
	"image"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"

	"github.com/packforge/atlaspack/pkg/geom"
)

// Sprite is one decoded source image, immutable once built.
type Sprite struct {
	// Name uniquely identifies the sprite within a run. It is the source
	// path with the extension stripped, slash-separated.
	Name string

	// Image holds the (possibly trimmed) pixels.
	Image *image.NRGBA

	// FrameX and FrameY are the negated offsets of the trimmed region
	// within the original frame, so consumers can restore the untrimmed
	// placement: original_x = packed_x + FrameX.
	FrameX int
	FrameY int

	// FrameW and FrameH are the original untrimmed dimensions.
	FrameW int
	FrameH int

	// Hash is a 64-bit content hash of the trimmed pixels, used to detect
	// duplicate bitmaps. Equal hashes are confirmed with a pixel compare
	// before two sprites share a placement.
	Hash uint64
}

// Options controls how source pixels are prepared.
type Options struct {
	// Premultiply multiplies each pixel's color channels by its alpha.
	Premultiply bool

	// Trim strips fully transparent rows and columns from the borders,
	// recording the original frame so consumers can restore it.
	Trim bool
}

// New builds a Sprite from a decoded image.
// A completely transparent image keeps its full frame rather than trimming
// down to nothing.
func New(name string, src image.Image, opts Options) *Sprite {
	img := imaging.Clone(src)
	w, h := img.Rect.Dx(), img.Rect.Dy()

	if opts.Premultiply {
		premultiply(img)
	}

	frameX, frameY := 0, 0
	if opts.Trim {
		if trimmed, offX, offY, ok := trim(img); ok {
			img = trimmed
			frameX = -offX
			frameY = -offY
		}
	}

	return &Sprite{
		Name:   name,
		Image:  img,
		FrameX: frameX,
		FrameY: frameY,
		FrameW: w,
		FrameH: h,
		Hash:   hashPixels(img),
	}
}

// Size returns the sprite's (trimmed) dimensions.
func (s *Sprite) Size() geom.Size {
	return geom.Size{W: s.Image.Rect.Dx(), H: s.Image.Rect.Dy()}
}

// SamePixels reports whether two sprites hold identical pixel data.
// Dedup compares pixels even when hashes already match, so a hash collision
// can never merge two different bitmaps.
func (s *Sprite) SamePixels(o *Sprite) bool {
	if s.Size() != o.Size() {
		return false
	}
	return bytes.Equal(s.Image.Pix, o.Image.Pix)
}

// premultiply multiplies color channels by alpha in place.
func premultiply(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 255 {
			continue
		}
		pix[i+0] = uint8(uint32(pix[i+0]) * a / 255)
		pix[i+1] = uint8(uint32(pix[i+1]) * a / 255)
		pix[i+2] = uint8(uint32(pix[i+2]) * a / 255)
	}
}

// trim returns the opaque bounding box of img as a fresh image, along with
// the offset of that box within the original. ok is false when the image is
// completely transparent or nothing can be trimmed.
func trim(img *image.NRGBA) (trimmed *image.NRGBA, offX, offY int, ok bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] > 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		// Completely transparent; keep the full frame.
		return nil, 0, 0, false
	}
	if minX == 0 && minY == 0 && maxX == w-1 && maxY == h-1 {
		return nil, 0, 0, false
	}

	rect := image.Rect(minX, minY, maxX+1, maxY+1).Add(img.Rect.Min)
	return imaging.Crop(img, rect), minX, minY, true
}

// hashPixels computes a 64-bit content hash over dimensions and pixel rows.
func hashPixels(img *image.NRGBA) uint64 {
	d := xxhash.New()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	var dims [8]byte
	dims[0] = byte(w)
	dims[1] = byte(w >> 8)
	dims[2] = byte(w >> 16)
	dims[3] = byte(w >> 24)
	dims[4] = byte(h)
	dims[5] = byte(h >> 8)
	dims[6] = byte(h >> 16)
	dims[7] = byte(h >> 24)
	_, _ = d.Write(dims[:])
	for y := 0; y < h; y++ {
		_, _ = d.Write(img.Pix[y*img.Stride : y*img.Stride+w*4])
	}
	return d.Sum64()
}
