package sink

import (
	"reflect"
	"strings"
	"testing"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/errors"
)

func testDoc() descriptor.Document {
	return descriptor.Document{
		Textures: []descriptor.Texture{
			{
				Name: "atlas0",
				Images: []descriptor.Record{
					{Name: "hero", X: 0, Y: 0, W: 60, H: 60, FrameW: 60, FrameH: 60},
					{Name: "coin", X: 60, Y: 0, W: 40, H: 40, FrameX: -2, FrameY: -3, FrameW: 44, FrameH: 46, Rotated: true},
				},
			},
			{
				Name: "atlas1",
				Images: []descriptor.Record{
					{Name: "villain", X: 0, Y: 0, W: 60, H: 60, FrameW: 60, FrameH: 60},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	doc := testDoc()

	tests := []struct {
		format Format
	}{
		{FormatJSON},
		{FormatXML},
		{FormatBinary},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			data, err := Encode(doc, tt.format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data, tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
			}
		})
	}
}

func TestRenderJSONDeterministic(t *testing.T) {
	a, err := RenderJSON(testDoc(), WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderJSON(testDoc(), WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("identical documents must encode to identical bytes")
	}
}

func TestRenderXMLShape(t *testing.T) {
	data, err := RenderXML(testDoc(), WithXMLIndent())
	if err != nil {
		t.Fatalf("RenderXML: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"<atlas>",
		`<texture name="atlas0">`,
		`n="hero"`,
		`w="60"`,
		`fx="-2"`,
		`r="true"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("XML output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBinarySmallerThanJSON(t *testing.T) {
	doc := testDoc()
	jsonData, err := RenderJSON(doc, WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}
	binData, err := RenderBinary(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(binData) >= len(jsonData) {
		t.Errorf("binary (%d bytes) should be smaller than indented JSON (%d bytes)", len(binData), len(jsonData))
	}
}

func TestDecodeCorrupt(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatXML, FormatBinary} {
		t.Run(f.String(), func(t *testing.T) {
			_, err := Decode([]byte("not a descriptor"), f)
			if !errors.Is(err, errors.ErrCodeCodec) {
				t.Errorf("error = %v, want CODEC_ERROR", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatXML, false},
		{"binary", FormatBinary, false},
		{"bin", FormatBinary, false},
		{"yaml", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("error = %v, want INVALID_FORMAT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatsDuplicate(t *testing.T) {
	_, err := ParseFormats([]string{"json", "bin", "binary"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatJSON.Ext(); got != ".json" {
		t.Errorf("json ext = %q", got)
	}
	if got := FormatXML.Ext(); got != ".xml" {
		t.Errorf("xml ext = %q", got)
	}
	if got := FormatBinary.Ext(); got != ".bin" {
		t.Errorf("binary ext = %q", got)
	}
}
