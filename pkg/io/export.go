package io

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/descriptor/sink"
	"github.com/packforge/atlaspack/pkg/errors"
)

// jpegQuality is used for jpg/jpeg output. Matches the common "visually
// lossless" default.
const jpegQuality = 90

// EncodeImage writes img to w in the format implied by ext (without dot,
// any case). Supported: png, jpg, jpeg, gif, bmp, tif, tiff.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		err = png.Encode(w, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(w, img, nil)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tif", "tiff":
		err = tiff.Encode(w, img, nil)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid image extension: %q", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeCodec, err, "encode %s image", ext)
	}
	return nil
}

// WriteFileAtomic writes data to path via a temp file in the same
// directory followed by a rename, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "rename %s to %s", tmpName, path)
	}
	return nil
}

// AtlasPath returns the image file path for atlas number index,
// e.g. dir/atlas0.png.
func AtlasPath(dir, base string, index int, ext string) string {
	name := descriptor.TextureName(base, index) + "." + strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, name)
}

// DescriptorPath returns the descriptor file path for the given format,
// e.g. dir/atlas.json.
func DescriptorPath(dir, base string, f sink.Format) string {
	return filepath.Join(dir, base+f.Ext())
}

// ExportImage encodes img and atomically writes it as atlas number index.
// It returns the path written.
func ExportImage(dir, base string, index int, img image.Image, ext string) (string, error) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, ext); err != nil {
		return "", err
	}
	path := AtlasPath(dir, base, index, ext)
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// ExportDescriptor encodes doc in the given format and atomically writes
// it next to the images. It returns the path written.
func ExportDescriptor(dir, base string, doc descriptor.Document, f sink.Format) (string, error) {
	data, err := sink.Encode(doc, f)
	if err != nil {
		return "", err
	}
	path := DescriptorPath(dir, base, f)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveStale deletes atlas image files numbered keep or higher, left over
// from a previous run that needed more sheets. It returns the paths removed.
func RemoveStale(dir, base string, keep int, ext string) ([]string, error) {
	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(base) + `(\d+)\.` +
		regexp.QuoteMeta(strings.TrimPrefix(ext, ".")) + "$")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile stale pattern")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read output directory %s", dir)
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < keep {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, errors.Wrap(errors.ErrCodeInternal, err, "remove stale atlas %s", path)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// RunHashPath returns the sidecar path recording the last run's input hash.
func RunHashPath(dir, base string) string {
	return filepath.Join(dir, base+".hash")
}

// ReadRunHash reads the sidecar written by [WriteRunHash]. A missing or
// unreadable sidecar returns the empty string: the run simply proceeds.
func ReadRunHash(dir, base string) string {
	data, err := os.ReadFile(RunHashPath(dir, base))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteRunHash records the input hash of a completed run.
func WriteRunHash(dir, base, hash string) error {
	return WriteFileAtomic(RunHashPath(dir, base), []byte(hash+"\n"))
}
