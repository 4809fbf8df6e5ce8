package transform

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// Slice is a document fragment with open sides. See model.Slice.
type Slice = model.Slice

// EmptySlice is the slice with no content.
var EmptySlice = model.EmptySlice

// NewSlice returns a slice.
func NewSlice(content []*model.Node, openStart, openEnd int) *Slice {
	return model.NewSlice(content, openStart, openEnd)
}

type sliceJSON struct {
	Content   []*model.Node `json:"content,omitempty"`
	OpenStart int           `json:"openStart,omitempty"`
	OpenEnd   int           `json:"openEnd,omitempty"`
}

type rawSliceJSON struct {
	Content   json.RawMessage `json:"content,omitempty"`
	OpenStart int             `json:"openStart,omitempty"`
	OpenEnd   int             `json:"openEnd,omitempty"`
}

// MarshalSlice encodes a slice as {"content": [...], "openStart": n, "openEnd": n}.
func MarshalSlice(s *Slice) ([]byte, error) {
	if s == nil {
		s = EmptySlice
	}
	return json.Marshal(sliceJSON{Content: s.Content, OpenStart: s.OpenStart, OpenEnd: s.OpenEnd})
}

// UnmarshalSlice decodes a slice, rebuilding its nodes through schema.
func UnmarshalSlice(schema *model.Schema, data []byte) (*Slice, error) {
	var raw rawSliceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode slice: %w", err)
	}
	return sliceFromRaw(schema, &raw)
}

func sliceFromRaw(schema *model.Schema, raw *rawSliceJSON) (*Slice, error) {
	if len(raw.Content) == 0 {
		return EmptySlice, nil
	}
	content, err := schema.NodesFromJSON(raw.Content)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return EmptySlice, nil
	}
	return NewSlice(content, raw.OpenStart, raw.OpenEnd), nil
}

// appendContent concatenates two node sequences, merging text nodes with
// the same markup at the seam.
func appendContent(a, b []*model.Node) []*model.Node {
	out := make([]*model.Node, 0, len(a)+len(b))
	out = append(out, a...)
	for i, n := range b {
		if i == 0 && len(out) > 0 {
			last := out[len(out)-1]
			if last.IsText() && n.IsText() && last.SameMarkup(n) {
				out[len(out)-1] = last.WithText(last.Text() + n.Text())
				continue
			}
		}
		out = append(out, n)
	}
	return out
}
