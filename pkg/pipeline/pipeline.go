// Package pipeline provides the core packing pipeline for atlaspack.
//
// This package implements the complete load → pack → compose → export
// pipeline that can be used by CLI and preview components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Discover and decode source images into sprites
//  2. Pack: Allocate sprite rectangles onto atlas canvases (MaxRects)
//  3. Compose: Blit sprite pixels into the atlas images
//  4. Export: Write images, descriptors and the run-hash sidecar atomically
//
// The pack stage can be replayed from cache, and a whole run can be skipped
// when the inputs and options are unchanged since the last run.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Inputs: []string{"assets/sprites"},
//	    Output: "build/atlas",
//	    Trim:   true,
//	    Unique: true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packforge/atlaspack/pkg/atlas"
	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/descriptor/sink"
	"github.com/packforge/atlaspack/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview
// =============================================================================

const (
	// DefaultSize is the default canvas width and height in pixels.
	DefaultSize = 4096

	// DefaultPadding is the default gap around each sprite in pixels.
	DefaultPadding = 1

	// DefaultHeuristic is the default free-rectangle scoring rule.
	DefaultHeuristic = "best-area"

	// DefaultExtension is the default atlas image format.
	DefaultExtension = "png"

	// MinSize and MaxSize bound the canvas dimensions.
	MinSize = 64
	MaxSize = 4096
)

// DefaultFormats is the default descriptor format list.
var DefaultFormats = []string{"json"}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the packing pipeline.
// This struct supports JSON serialization so the run hash can cover it.
type Options struct {
	// Input options
	Inputs []string `json:"inputs"`

	// Output is the artifact base path: its directory receives the files,
	// its basename stems the artifact names (base0.png, base.json, ...).
	Output string `json:"output"`

	// Pack options
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Padding   *int   `json:"padding,omitempty"`
	Rotate    bool   `json:"rotate,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
	NoShrink  bool   `json:"no_shrink,omitempty"`

	// Sprite options
	Trim        bool `json:"trim,omitempty"`
	Premultiply bool `json:"premultiply,omitempty"`
	Unique      bool `json:"unique,omitempty"`

	// Output options
	Formats   []string `json:"formats,omitempty"`
	Extension string   `json:"extension,omitempty"`
	Debug     bool     `json:"debug,omitempty"`

	// Runtime options (not part of the run hash)
	Jobs  int `json:"-"`
	Force bool `json:"-"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OutputDir returns the directory artifacts are written into.
func (o *Options) OutputDir() string {
	return filepath.Dir(o.Output)
}

// BaseName returns the artifact name stem.
func (o *Options) BaseName() string {
	return filepath.Base(o.Output)
}

// Pad returns the effective padding value.
func (o *Options) Pad() int {
	if o.Padding == nil {
		return DefaultPadding
	}
	return *o.Padding
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one input is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output is required")
	}
	if err := errors.ValidateSpriteName(o.BaseName()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid output name %q", o.BaseName())
	}

	if o.Width == 0 {
		o.Width = DefaultSize
	}
	if o.Height == 0 {
		o.Height = DefaultSize
	}
	if o.Width < MinSize || o.Width > MaxSize || o.Height < MinSize || o.Height > MaxSize {
		return errors.New(errors.ErrCodeInvalidCanvas,
			"invalid canvas size: %dx%d (dimensions must be %d-%d)", o.Width, o.Height, MinSize, MaxSize)
	}
	if err := errors.ValidatePadding(o.Pad()); err != nil {
		return err
	}

	if o.Heuristic == "" {
		o.Heuristic = DefaultHeuristic
	}
	if _, err := atlas.ParseHeuristic(o.Heuristic); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if _, err := sink.ParseFormats(o.Formats); err != nil {
		return err
	}

	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if err := errors.ValidateExtension(o.Extension); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// heuristic returns the parsed heuristic. Call after ValidateAndSetDefaults.
func (o *Options) heuristic() atlas.Heuristic {
	h, _ := atlas.ParseHeuristic(o.Heuristic)
	return h
}

// formats returns the parsed format list. Call after ValidateAndSetDefaults.
func (o *Options) formats() []sink.Format {
	fs, _ := sink.ParseFormats(o.Formats)
	return fs
}

// =============================================================================
// Result Types
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs.
	RunID string

	// Skipped is true when the run hash matched and nothing was done.
	Skipped bool

	// Plans are the computed atlas layouts.
	Plans []atlas.Plan

	// Document is the assembled descriptor.
	Document descriptor.Document

	// ImagePaths and DescriptorPaths list the artifacts written.
	ImagePaths      []string
	DescriptorPaths []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SpriteCount int // sprites decoded
	DedupCount  int // sprites folded into another by pixel identity
	AtlasCount  int // atlases produced
	LoadTime    time.Duration
	PackTime    time.Duration
	ComposeTime time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for the pipeline stages.
type CacheInfo struct {
	PlanHit bool // Whether the atlas plan came from cache
}
