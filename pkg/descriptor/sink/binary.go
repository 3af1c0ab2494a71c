package sink

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
)

// RenderBinary encodes the descriptor as BSON. The binary form carries the
// same fields as the JSON encoding under the same short names, at roughly
// half the size, for consumers that load descriptors at runtime.
func RenderBinary(doc descriptor.Document) ([]byte, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode descriptor BSON")
	}
	return data, nil
}

// DecodeBinary parses a descriptor produced by [RenderBinary].
func DecodeBinary(data []byte) (descriptor.Document, error) {
	var doc descriptor.Document
	if err := bson.Unmarshal(data, &doc); err != nil {
		return descriptor.Document{}, errors.Wrap(errors.ErrCodeCodec, err, "decode descriptor BSON")
	}
	return doc, nil
}
