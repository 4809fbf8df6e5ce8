package transform

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// Step is an atomic, invertible document edit.
type Step interface {
	// Apply applies the step to doc and returns the new document. The
	// input document is never modified.
	Apply(doc *model.Node) (*model.Node, error)

	// Invert returns the step that undoes this one. doc is the document
	// the step was applied to.
	Invert(doc *model.Node) (Step, error)

	// Map maps the step through a mapping. It returns false when the
	// step's range was deleted entirely.
	Map(m Mappable) (Step, bool)

	// Merge combines this step with one applied directly after it.
	Merge(other Step) (Step, bool)

	// StepMap describes how the step moves positions.
	StepMap() *StepMap

	// StepType returns the serialized type name.
	StepType() string
}

type stepJSON struct {
	StepType string          `json:"stepType"`
	From     int             `json:"from"`
	To       int             `json:"to"`
	Slice    json.RawMessage `json:"slice,omitempty"`
}

// MarshalStep encodes a step as {"stepType": ..., "from": n, "to": n, "slice": {...}}.
func MarshalStep(s Step) ([]byte, error) {
	switch st := s.(type) {
	case *ReplaceStep:
		slice, err := MarshalSlice(st.Slice)
		if err != nil {
			return nil, err
		}
		return json.Marshal(stepJSON{StepType: st.StepType(), From: st.From, To: st.To, Slice: slice})
	default:
		return nil, fmt.Errorf("marshal %T: %w", s, ErrUnknownStepType)
	}
}

// UnmarshalStep decodes a step, rebuilding its content through schema.
func UnmarshalStep(schema *model.Schema, data []byte) (Step, error) {
	var raw stepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode step: %w", err)
	}
	switch raw.StepType {
	case replaceStepType:
		slice := EmptySlice
		if len(raw.Slice) > 0 {
			var err error
			if slice, err = UnmarshalSlice(schema, raw.Slice); err != nil {
				return nil, err
			}
		}
		return NewReplaceStep(raw.From, raw.To, slice), nil
	default:
		return nil, fmt.Errorf("step %q: %w", raw.StepType, ErrUnknownStepType)
	}
}
