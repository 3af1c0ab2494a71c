// Package pkg provides the core libraries for Atlaspack texture packing.
//
// # Overview
//
// Atlaspack turns directories of sprite images into dense fixed-size texture
// atlases, emitting composed sheet images together with machine-readable
// descriptors. The pkg directory is organized into five main areas:
//
//  1. [sprite] - Input handling (discovery, decoding, trim, premultiply)
//  2. [atlas] - Layout (MaxRects bin packing over abstract rectangles)
//  3. [composite] - Pixel output (sheet composition, debug overlays)
//  4. [descriptor] - Record building and serialization (JSON, XML, binary)
//  5. [pipeline] - Orchestration (load → pack → compose → export)
//
// # Architecture
//
// The typical data flow through Atlaspack:
//
//	Image files/directories
//	         ↓
//	    [sprite] package (decode, trim, premultiply, dedup hashing)
//	         ↓
//	    [atlas] package (MaxRects placement over candidate rectangles)
//	         ↓
//	    [composite] package (blit sprites onto sheet canvases)
//	         ↓
//	    [descriptor] + [io] packages (records + files on disk)
//
// # Quick Start
//
// Pack a directory of sprites into atlases:
//
//	import (
//	    "context"
//	    "github.com/packforge/atlaspack/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Output: "build/atlas",
//	    Inputs: []string{"assets/sprites"},
//	    Trim:   true,
//	    Unique: true,
//	})
//
// Or drive the layout engine directly:
//
//	plans, err := atlas.Allocate(candidates, atlas.Options{
//	    Width:  1024,
//	    Height: 1024,
//	})
//
// # Main Packages
//
// [atlas] - MaxRects bin packing. Pure geometry: candidates in, placement
// plans out, no pixels involved. Five placement heuristics with deterministic
// tie-breaking, optional 90 degree rotation, and power-of-two shrinking.
//
// [sprite] - Sprite loading. Walks input paths, decodes images concurrently,
// and normalizes them to NRGBA with optional transparent-border trimming and
// alpha premultiplication. Content hashes drive duplicate folding.
//
// [composite] - Sheet composition. Blits packed sprites onto atlas canvases
// and draws placement outlines for debugging.
//
// [descriptor] - Atlas descriptors. Builds the record documents that map
// sprite names to sheet coordinates; [descriptor/sink] serializes them as
// JSON, XML, or binary BSON.
//
// [io] - Artifact files. Image encoding, atomic writes, descriptor import
// and export, stale artifact removal, and the run-hash sidecar that lets
// unchanged runs be skipped.
//
// [cache] - Plan caching. File and Redis backends keyed by canvas options
// and candidate content, so repeated packs replay the layout instead of
// re-running the MaxRects search.
//
// [pipeline] - The complete pack pipeline (load → pack → compose → export)
// used by the CLI. Ensures a single set of option semantics everywhere.
//
// [errors] - Structured errors with machine-readable codes shared by all
// packages.
//
// [geom] - Small geometry types (sizes, rectangles) shared by the layout and
// composition stages.
//
// [observability] - Pluggable hooks for pipeline stages, cache traffic, and
// the preview server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/atlas/...    # Specific package
//	go test -run Example       # Examples only
//
// [sprite]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/sprite
// [atlas]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/atlas
// [composite]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/composite
// [descriptor]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/descriptor
// [descriptor/sink]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/descriptor/sink
// [io]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/io
// [cache]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/errors
// [geom]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/geom
// [observability]: https://pkg.go.dev/github.com/packforge/atlaspack/pkg/observability
package pkg
