package errors

import (
	"strings"
	"unicode"
)

// MaxPadding is the largest padding value accepted by the packer. Larger
// gutters waste more canvas than any bleed artifact justifies.
const MaxPadding = 16

// ValidateSpriteName validates a sprite name for safety and correctness.
// Sprite names are derived from file paths and end up verbatim in descriptor
// files, so they must not smuggle control characters or traversal sequences.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., //)
//   - No backslashes (Windows path injection)
//   - Maximum length of 256 characters
func ValidateSpriteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sprite name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "sprite name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sprite name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "sprite name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePadding checks that a padding value is within the supported range.
func ValidatePadding(pad int) error {
	if pad < 0 || pad > MaxPadding {
		return New(ErrCodeInvalidPadding, "invalid padding value: %d (must be 0-%d)", pad, MaxPadding)
	}
	return nil
}

// ValidateCanvasSize checks that canvas dimensions are positive.
func ValidateCanvasSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCanvas, "invalid canvas size: %dx%d (dimensions must be positive)", width, height)
	}
	return nil
}

// validExtensions is the set of image file extensions the pipeline reads and writes.
var validExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
}

// ValidateExtension checks that an output image extension is supported.
// The extension is matched case-insensitively and without a leading dot.
func ValidateExtension(ext string) error {
	e := strings.ToLower(strings.TrimPrefix(ext, "."))
	if !validExtensions[e] {
		return New(ErrCodeInvalidFormat, "invalid image extension: %q (must be png, jpg, jpeg, gif, bmp, tif, or tiff)", ext)
	}
	return nil
}

// IsImageExtension reports whether ext (without dot, any case) is a readable
// image extension. Discovery uses this to skip non-image files silently.
func IsImageExtension(ext string) bool {
	return validExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
