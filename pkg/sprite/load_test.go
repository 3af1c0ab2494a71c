package sprite

import (
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/packforge/atlaspack/pkg/errors"
)

// writePNG encodes a solid w x h image at path, creating parent directories.
func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, solid(w, h, c)); err != nil {
		t.Fatal(err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2, color.NRGBA{A: 255})
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2, color.NRGBA{A: 255})
	writePNG(t, filepath.Join(dir, "sub", "c.png"), 2, 2, color.NRGBA{A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ListFiles([]string{dir})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "sub", "c.png"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestListFilesMissingInput(t *testing.T) {
	_, err := ListFiles([]string{filepath.Join(t.TempDir(), "nope.png")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestListFilesExplicitNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ListFiles([]string{path})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"), 4, 3, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "tiles", "grass.png"), 2, 2, color.NRGBA{G: 255, A: 255})

	sprites, err := Load(context.Background(), []string{dir}, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sprites) != 2 {
		t.Fatalf("got %d sprites, want 2", len(sprites))
	}

	// Discovery order is lexical, names keep the directory prefix.
	if got := sprites[0].Name; got != Name(filepath.Join(dir, "hero")) {
		t.Errorf("sprites[0].Name = %q", got)
	}
	if got := sprites[1].Name; got != Name(filepath.Join(dir, "tiles", "grass")) {
		t.Errorf("sprites[1].Name = %q", got)
	}
	if got := sprites[0].Size(); got.W != 4 || got.H != 3 {
		t.Errorf("hero size = %v, want 4x3", got)
	}
}

func TestLoadParentRelativeInput(t *testing.T) {
	base := t.TempDir()
	writePNG(t, filepath.Join(base, "assets", "hero.png"), 4, 4, color.NRGBA{R: 255, A: 255})
	if err := os.MkdirAll(filepath.Join(base, "work"), 0o755); err != nil {
		t.Fatal(err)
	}
	chdir(t, filepath.Join(base, "work"))

	sprites, err := Load(context.Background(), []string{filepath.Join("..", "assets")}, LoadOptions{})
	if err != nil {
		t.Fatalf("Load with parent-relative input: %v", err)
	}
	if len(sprites) != 1 {
		t.Fatalf("got %d sprites, want 1", len(sprites))
	}
	if got := sprites[0].Name; got != "assets/hero" {
		t.Errorf("Name = %q, want assets/hero", got)
	}
}

func TestLoadDuplicateName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coin.png")
	writePNG(t, path, 2, 2, color.NRGBA{A: 255})

	// The same file given twice derives the same name twice.
	_, err := Load(context.Background(), []string{path, path}, LoadOptions{})
	if !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("error = %v, want DUPLICATE_NAME", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), []string{path}, LoadOptions{})
	if !errors.Is(err, errors.ErrCodeCodec) {
		t.Errorf("error = %v, want CODEC_ERROR", err)
	}
}

func TestLoadJobsBound(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		writePNG(t, filepath.Join(dir, name), 2, 2, color.NRGBA{A: 255})
	}

	sprites, err := Load(context.Background(), []string{dir}, LoadOptions{Jobs: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sprites) != 4 {
		t.Errorf("got %d sprites, want 4", len(sprites))
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
