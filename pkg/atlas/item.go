package atlas

import (
	"encoding/json"
	"strings"

	"github.com/packforge/atlaspack/pkg/errors"
	"github.com/packforge/atlaspack/pkg/geom"
)

// Candidate is one named rectangle waiting to be placed.
type Candidate struct {
	// Name identifies the sprite; unique within a run.
	Name string `json:"name"`

	// Size is the unpadded sprite size in pixels.
	Size geom.Size `json:"size"`

	// AllowRotate permits placing the sprite rotated 90° clockwise.
	AllowRotate bool `json:"allow_rotate,omitempty"`
}

// PaddedSize returns the candidate's size grown by pad on every side.
func (c Candidate) PaddedSize(pad int) geom.Size {
	return c.Size.Padded(pad)
}

// Placement is one finished position for a candidate.
// The rectangle is the sprite's pixel area (padding excluded), post-rotation.
type Placement struct {
	Name    string    `json:"name"`
	Atlas   int       `json:"atlas"`
	Rect    geom.Rect `json:"rect"`
	Rotated bool      `json:"rotated,omitempty"`
}

// Plan is the finished layout for one canvas.
type Plan struct {
	// Index is the atlas number, contiguous from 0 in allocation order.
	Index int `json:"index"`

	// Width and Height are the final canvas dimensions. They start at the
	// configured size and may have been shrunk to the next power-of-two
	// fraction that still covers the content.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Placements in engine placement order.
	Placements []Placement `json:"placements"`
}

// Heuristic selects the free-rectangle scoring rule.
type Heuristic int

const (
	// BestAreaFit places into the free rectangle leaving the least leftover
	// area, tie-broken by best short-side fit. The default.
	BestAreaFit Heuristic = iota

	// BestShortSideFit minimizes the leftover on the shorter side.
	BestShortSideFit

	// BestLongSideFit minimizes the leftover on the longer side.
	BestLongSideFit

	// BottomLeft is the Tetris rule: lowest top edge, then leftmost.
	BottomLeft

	// ContactPoint maximizes perimeter contact with placed rectangles and
	// the canvas border.
	ContactPoint
)

var heuristicNames = map[Heuristic]string{
	BestAreaFit:      "best-area",
	BestShortSideFit: "best-short-side",
	BestLongSideFit:  "best-long-side",
	BottomLeft:       "bottom-left",
	ContactPoint:     "contact-point",
}

// String returns the canonical flag spelling of the heuristic.
func (h Heuristic) String() string {
	if s, ok := heuristicNames[h]; ok {
		return s
	}
	return "unknown"
}

// ParseHeuristic converts a flag value to a Heuristic.
// Matching is case-insensitive.
func ParseHeuristic(s string) (Heuristic, error) {
	for h, name := range heuristicNames {
		if strings.EqualFold(s, name) {
			return h, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput,
		"unknown heuristic: %q (must be best-area, best-short-side, best-long-side, bottom-left, or contact-point)", s)
}

// MarshalPlans encodes plans for caching or export.
func MarshalPlans(plans []Plan) ([]byte, error) {
	return json.Marshal(plans)
}

// UnmarshalPlans decodes plans produced by [MarshalPlans].
func UnmarshalPlans(data []byte) ([]Plan, error) {
	var plans []Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// MarshalCandidates encodes the ordered candidate list. The pipeline hashes
// this encoding to build plan cache keys, so it must be stable across runs.
func MarshalCandidates(items []Candidate) ([]byte, error) {
	return json.Marshal(items)
}
