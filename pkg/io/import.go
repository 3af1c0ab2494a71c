package io

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders for every extension the exporter can write.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/descriptor/sink"
	"github.com/packforge/atlaspack/pkg/errors"
)

// FormatForPath maps a descriptor file extension back to its format.
func FormatForPath(path string) (sink.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return sink.FormatJSON, nil
	case ".xml":
		return sink.FormatXML, nil
	case ".bin":
		return sink.FormatBinary, nil
	}
	return 0, errors.New(errors.ErrCodeUnsupported,
		"unsupported descriptor extension in %q (expect .json, .xml, or .bin)", path)
}

// ImportDescriptor reads a descriptor file, inferring the format from the
// file extension.
func ImportDescriptor(path string) (descriptor.Document, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return descriptor.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return descriptor.Document{}, errors.New(errors.ErrCodeFileNotFound, "descriptor not found: %s", path)
		}
		return descriptor.Document{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return sink.Decode(data, f)
}

// ImportImage decodes an atlas image from disk.
func ImportImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "atlas image not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "decode %s", path)
	}
	return img, nil
}
