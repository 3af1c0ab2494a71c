// Package atlas implements the bin-packing core of atlaspack: placing a
// multiset of named rectangles onto as few fixed-size canvases as possible.
//
// # Architecture
//
// The package has two layers:
//
//  1. Engine: a single-canvas MaxRects packer. Given an ordered candidate
//     list it places as many candidates as fit and reports the rest; it
//     never fails.
//  2. Allocate: the multi-canvas loop. It re-invokes the engine against
//     fresh canvases until every candidate is placed, assigning contiguous
//     atlas indices starting at zero.
//
// # Determinism
//
// Output is a pure function of the candidate list and the options. The
// engine sorts candidates by descending padded area, then descending padded
// height, then insertion order, and breaks placement-score ties by lowest y
// then lowest x. Two runs over the same inputs produce identical plans on
// every platform, which keeps descriptor files byte-stable and makes plans
// safe to cache.
//
// # Free-rectangle maintenance
//
// Free space on a canvas is tracked as a set of maximal axis-aligned
// rectangles. Placing a candidate splits every intersecting free rectangle
// into up to four flanking rectangles, then prunes any rectangle contained
// in another. Without pruning the free set grows without bound and both
// quality and performance degrade.
//
// # Usage
//
//	items := []atlas.Candidate{
//	    {Name: "hero", Size: geom.Size{W: 64, H: 64}},
//	    {Name: "tile", Size: geom.Size{W: 32, H: 32}},
//	}
//	plans, err := atlas.Allocate(items, atlas.Options{Width: 128, Height: 128})
package atlas
