package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/packforge/atlaspack/pkg/cache"
	"github.com/packforge/atlaspack/pkg/errors"
	atlasio "github.com/packforge/atlaspack/pkg/io"
	"github.com/packforge/atlaspack/pkg/sprite"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testInputs(t *testing.T) string {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"), 30, 30, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "coin.png"), 20, 20, color.NRGBA{G: 255, A: 255})
	return dir
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Inputs: []string{"in"}, Output: "out/atlas"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Width != DefaultSize || opts.Height != DefaultSize {
		t.Errorf("size = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultSize, DefaultSize)
	}
	if opts.Pad() != DefaultPadding {
		t.Errorf("padding = %d, want %d", opts.Pad(), DefaultPadding)
	}
	if opts.Heuristic != DefaultHeuristic {
		t.Errorf("heuristic = %q, want %q", opts.Heuristic, DefaultHeuristic)
	}
	if opts.Extension != DefaultExtension {
		t.Errorf("extension = %q, want %q", opts.Extension, DefaultExtension)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "json" {
		t.Errorf("formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("logger should default to a discard logger")
	}
}

func TestExecuteParentRelativeInput(t *testing.T) {
	base := t.TempDir()
	writePNG(t, filepath.Join(base, "assets", "hero.png"), 4, 4, color.NRGBA{R: 255, A: 255})
	if err := os.MkdirAll(filepath.Join(base, "work"), 0o755); err != nil {
		t.Fatal(err)
	}
	chdir(t, filepath.Join(base, "work"))

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Inputs: []string{filepath.Join("..", "assets")},
		Output: filepath.Join(t.TempDir(), "atlas"),
		Width:  64,
		Height: 64,
	})
	if err != nil {
		t.Fatalf("Execute with parent-relative input: %v", err)
	}
	if result.Stats.SpriteCount != 1 {
		t.Fatalf("sprite count = %d, want 1", result.Stats.SpriteCount)
	}
	if got := result.Document.Textures[0].Images[0].Name; got != "assets/hero" {
		t.Errorf("record name = %q, want assets/hero", got)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	pad := 99
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no inputs", Options{Output: "out/atlas"}, errors.ErrCodeInvalidInput},
		{"no output", Options{Inputs: []string{"in"}}, errors.ErrCodeInvalidInput},
		{"canvas too small", Options{Inputs: []string{"in"}, Output: "out/atlas", Width: 32, Height: 128}, errors.ErrCodeInvalidCanvas},
		{"canvas too large", Options{Inputs: []string{"in"}, Output: "out/atlas", Width: 8192, Height: 128}, errors.ErrCodeInvalidCanvas},
		{"bad padding", Options{Inputs: []string{"in"}, Output: "out/atlas", Padding: &pad}, errors.ErrCodeInvalidPadding},
		{"bad heuristic", Options{Inputs: []string{"in"}, Output: "out/atlas", Heuristic: "magic"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Inputs: []string{"in"}, Output: "out/atlas", Formats: []string{"yaml"}}, errors.ErrCodeInvalidFormat},
		{"bad extension", Options{Inputs: []string{"in"}, Output: "out/atlas", Extension: "webp"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	inputs := testInputs(t)
	out := t.TempDir()

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Inputs: []string{inputs},
		Output: filepath.Join(out, "atlas"),
		Width:  64,
		Height: 64,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Skipped {
		t.Error("first run must not be skipped")
	}
	if result.Stats.SpriteCount != 2 {
		t.Errorf("sprite count = %d, want 2", result.Stats.SpriteCount)
	}
	if result.Stats.AtlasCount != 1 {
		t.Errorf("atlas count = %d, want 1", result.Stats.AtlasCount)
	}
	if result.RunID == "" {
		t.Error("run ID should be set")
	}

	if len(result.ImagePaths) != 1 {
		t.Fatalf("image paths = %v, want 1 entry", result.ImagePaths)
	}
	if _, err := os.Stat(result.ImagePaths[0]); err != nil {
		t.Errorf("atlas image missing: %v", err)
	}
	if len(result.DescriptorPaths) != 1 {
		t.Fatalf("descriptor paths = %v, want 1 entry", result.DescriptorPaths)
	}
	doc, err := atlasio.ImportDescriptor(result.DescriptorPaths[0])
	if err != nil {
		t.Fatalf("ImportDescriptor: %v", err)
	}
	if len(doc.Textures) != 1 || len(doc.Textures[0].Images) != 2 {
		t.Errorf("descriptor shape = %+v", doc)
	}
}

func TestExecuteSkipsUnchangedRun(t *testing.T) {
	inputs := testInputs(t)
	out := t.TempDir()
	opts := Options{
		Inputs: []string{inputs},
		Output: filepath.Join(out, "atlas"),
		Width:  64,
		Height: 64,
	}

	runner := NewRunner(nil, nil, nil)
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.Skipped {
		t.Fatal("first run must not be skipped")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.Skipped {
		t.Error("unchanged second run should be skipped")
	}

	// Force overrides the skip.
	forceOpts := opts
	forceOpts.Force = true
	third, err := runner.Execute(context.Background(), forceOpts)
	if err != nil {
		t.Fatalf("forced Execute: %v", err)
	}
	if third.Skipped {
		t.Error("forced run must not be skipped")
	}

	// Changing an input invalidates the hash.
	writePNG(t, filepath.Join(inputs, "hero.png"), 30, 30, color.NRGBA{B: 255, A: 255})
	fourth, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("fourth Execute: %v", err)
	}
	if fourth.Skipped {
		t.Error("run with changed inputs must not be skipped")
	}
}

func TestExecutePlanCache(t *testing.T) {
	inputs := testInputs(t)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)

	first, err := runner.Execute(context.Background(), Options{
		Inputs: []string{inputs},
		Output: filepath.Join(t.TempDir(), "atlas"),
		Width:  64,
		Height: 64,
	})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.PlanHit {
		t.Error("first run cannot hit the plan cache")
	}

	// Same inputs to a fresh output directory: the run is not skipped but
	// the plan comes from cache.
	second, err := runner.Execute(context.Background(), Options{
		Inputs: []string{inputs},
		Output: filepath.Join(t.TempDir(), "atlas"),
		Width:  64,
		Height: 64,
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.Skipped {
		t.Fatal("different output directory must not be skipped")
	}
	if !second.CacheInfo.PlanHit {
		t.Error("second run should replay the cached plan")
	}
}

func TestExecuteUnique(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 10, 10, color.NRGBA{R: 9, A: 255})
	writePNG(t, filepath.Join(dir, "b.png"), 10, 10, color.NRGBA{R: 9, A: 255})

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Inputs: []string{dir},
		Output: filepath.Join(t.TempDir(), "atlas"),
		Width:  64,
		Height: 64,
		Unique: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.DedupCount != 1 {
		t.Errorf("dedup count = %d, want 1", result.Stats.DedupCount)
	}
	if got := len(result.Plans[0].Placements); got != 1 {
		t.Errorf("placements = %d, want 1 (identical bitmaps share one slot)", got)
	}
	if got := len(result.Document.Textures[0].Images); got != 2 {
		t.Errorf("descriptor records = %d, want 2 (canonical plus alias)", got)
	}
}

func TestExecuteRemovesStaleAtlases(t *testing.T) {
	inputs := testInputs(t)
	out := t.TempDir()
	stale := filepath.Join(out, "atlas7.png")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{
		Inputs: []string{inputs},
		Output: filepath.Join(out, "atlas"),
		Width:  64,
		Height: 64,
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale atlas image should be removed")
	}
}

func TestDedup(t *testing.T) {
	mk := func(name string, c color.NRGBA) *sprite.Sprite {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
		return sprite.New(name, img, sprite.Options{})
	}

	a := mk("a", color.NRGBA{R: 1, A: 255})
	b := mk("b", color.NRGBA{R: 1, A: 255})
	c := mk("c", color.NRGBA{R: 2, A: 255})

	canonical, aliases := dedup([]*sprite.Sprite{a, b, c})

	if len(canonical) != 2 {
		t.Fatalf("canonical = %d sprites, want 2", len(canonical))
	}
	if canonical[0].Name != "a" || canonical[1].Name != "c" {
		t.Errorf("canonical order = %q, %q; want a, c", canonical[0].Name, canonical[1].Name)
	}
	if got := aliases["a"]; len(got) != 1 || got[0] != "b" {
		t.Errorf("aliases[a] = %v, want [b]", got)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (t.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
