package sink

import (
	"encoding/xml"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
)

// XMLOption configures XML rendering via [RenderXML].
type XMLOption func(*xmlRenderer)

type xmlRenderer struct {
	indent string
}

// WithXMLIndent pretty-prints with four-space indentation.
func WithXMLIndent() XMLOption { return func(r *xmlRenderer) { r.indent = "    " } }

// xmlDocument wraps Document so the root element is named <atlas>.
type xmlDocument struct {
	XMLName  xml.Name             `xml:"atlas"`
	Textures []descriptor.Texture `xml:"texture"`
}

// RenderXML encodes the descriptor as attribute-style XML:
//
//	<atlas>
//	    <texture name="atlas0">
//	        <image n="hero" x="0" y="0" w="60" h="60" fx="0" fy="0" fw="60" fh="60"></image>
//	    </texture>
//	</atlas>
func RenderXML(doc descriptor.Document, opts ...XMLOption) ([]byte, error) {
	r := xmlRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var (
		data []byte
		err  error
	)
	out := xmlDocument{Textures: doc.Textures}
	if r.indent != "" {
		data, err = xml.MarshalIndent(out, "", r.indent)
	} else {
		data, err = xml.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode descriptor XML")
	}
	return append(append([]byte(xml.Header), data...), '\n'), nil
}

// DecodeXML parses a descriptor produced by [RenderXML].
func DecodeXML(data []byte) (descriptor.Document, error) {
	var in xmlDocument
	if err := xml.Unmarshal(data, &in); err != nil {
		return descriptor.Document{}, errors.Wrap(errors.ErrCodeCodec, err, "decode descriptor XML")
	}
	return descriptor.Document{Textures: in.Textures}, nil
}
