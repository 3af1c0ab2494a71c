package sink

import (
	"strings"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
)

// Format identifies a descriptor encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
	FormatBinary
)

var formatNames = map[Format]string{
	FormatJSON:   "json",
	FormatXML:    "xml",
	FormatBinary: "binary",
}

// String returns the canonical flag spelling of the format.
func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// Ext returns the file extension for the format, with the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatBinary:
		return ".bin"
	default:
		return ".json"
	}
}

// ParseFormat converts a flag value to a Format. Matching is
// case-insensitive; "bin" is accepted as shorthand for "binary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "binary", "bin":
		return FormatBinary, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFormat,
		"unknown descriptor format: %q (must be json, xml, or binary)", s)
}

// ParseFormats converts a list of flag values, rejecting duplicates.
func ParseFormats(specs []string) ([]Format, error) {
	formats := make([]Format, 0, len(specs))
	seen := make(map[Format]bool, len(specs))
	for _, s := range specs {
		f, err := ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate descriptor format: %q", s)
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// Encode renders doc in the given format.
func Encode(doc descriptor.Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return RenderJSON(doc, WithJSONIndent())
	case FormatXML:
		return RenderXML(doc, WithXMLIndent())
	case FormatBinary:
		return RenderBinary(doc)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown descriptor format: %d", f)
}

// Decode parses data produced by [Encode] in the given format.
func Decode(data []byte, f Format) (descriptor.Document, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatXML:
		return DecodeXML(data)
	case FormatBinary:
		return DecodeBinary(data)
	}
	return descriptor.Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown descriptor format: %d", f)
}
