package sink

import (
	"encoding/json"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent string
}

// WithJSONIndent pretty-prints with two-space indentation. Without it the
// output is a single compact line.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = "  " } }

// RenderJSON encodes the descriptor as JSON. Field order and record order
// are deterministic, so identical documents produce identical bytes.
func RenderJSON(doc descriptor.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var (
		data []byte
		err  error
	)
	if r.indent != "" {
		data, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode descriptor JSON")
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses a descriptor produced by [RenderJSON].
func DecodeJSON(data []byte) (descriptor.Document, error) {
	var doc descriptor.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return descriptor.Document{}, errors.Wrap(errors.ErrCodeCodec, err, "decode descriptor JSON")
	}
	return doc, nil
}
