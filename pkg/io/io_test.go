package io

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/descriptor/sink"
	"github.com/packforge/atlaspack/pkg/errors"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func TestEncodeImageFormats(t *testing.T) {
	img := testImage(4, 4)
	for _, ext := range []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"} {
		t.Run(ext, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeImage(&buf, img, ext); err != nil {
				t.Fatalf("EncodeImage(%s): %v", ext, err)
			}
			if buf.Len() == 0 {
				t.Error("no bytes written")
			}
		})
	}
}

func TestEncodeImageInvalidExtension(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeImage(&buf, testImage(2, 2), "webp")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFileAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1: %v", len(entries), entries)
	}
}

func TestExportImportImage(t *testing.T) {
	dir := t.TempDir()
	img := testImage(8, 8)

	path, err := ExportImage(dir, "atlas", 0, img, "png")
	if err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	if want := filepath.Join(dir, "atlas0.png"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	back, err := ImportImage(path)
	if err != nil {
		t.Fatalf("ImportImage: %v", err)
	}
	if b := back.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("imported size = %dx%d, want 8x8", b.Dx(), b.Dy())
	}
}

func TestExportImportDescriptor(t *testing.T) {
	dir := t.TempDir()
	doc := descriptor.Document{
		Textures: []descriptor.Texture{
			{Name: "atlas0", Images: []descriptor.Record{
				{Name: "hero", W: 4, H: 4, FrameW: 4, FrameH: 4},
			}},
		},
	}

	for _, f := range []sink.Format{sink.FormatJSON, sink.FormatXML, sink.FormatBinary} {
		t.Run(f.String(), func(t *testing.T) {
			path, err := ExportDescriptor(dir, "atlas", doc, f)
			if err != nil {
				t.Fatalf("ExportDescriptor: %v", err)
			}
			got, err := ImportDescriptor(path)
			if err != nil {
				t.Fatalf("ImportDescriptor: %v", err)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
			}
		})
	}
}

func TestImportDescriptorUnknownExtension(t *testing.T) {
	_, err := ImportDescriptor("atlas.yaml")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"atlas0.png", "atlas1.png", "atlas2.png", "atlas3.png", "other2.png", "atlas.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := RemoveStale(dir, "atlas", 2, "png")
	if err != nil {
		t.Fatalf("RemoveStale: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("removed %d files, want 2: %v", len(removed), removed)
	}

	for _, name := range []string{"atlas0.png", "atlas1.png", "other2.png", "atlas.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should survive: %v", name, err)
		}
	}
	for _, name := range []string{"atlas2.png", "atlas3.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", name)
		}
	}
}

func TestRunHashSidecar(t *testing.T) {
	dir := t.TempDir()

	if got := ReadRunHash(dir, "atlas"); got != "" {
		t.Errorf("missing sidecar should read empty, got %q", got)
	}

	if err := WriteRunHash(dir, "atlas", "deadbeef"); err != nil {
		t.Fatalf("WriteRunHash: %v", err)
	}
	if got := ReadRunHash(dir, "atlas"); got != "deadbeef" {
		t.Errorf("ReadRunHash = %q, want deadbeef", got)
	}
}
