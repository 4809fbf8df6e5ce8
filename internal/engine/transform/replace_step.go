package transform

import (
	"errors"
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

const replaceStepType = "replace"

// ReplaceStep replaces the flat range [From, To) with Slice.
type ReplaceStep struct {
	From  int
	To    int
	Slice *Slice
}

// NewReplaceStep returns a replace step. A nil slice is empty.
func NewReplaceStep(from, to int, slice *Slice) *ReplaceStep {
	if slice == nil {
		slice = EmptySlice
	}
	return &ReplaceStep{From: from, To: to, Slice: slice}
}

// StepType implements Step.
func (s *ReplaceStep) StepType() string { return replaceStepType }

// Apply implements Step. A slice whose open depths do not fit the range
// yields an *UnsupportedRangeError.
func (s *ReplaceStep) Apply(doc *model.Node) (*model.Node, error) {
	out, err := doc.Replace(s.From, s.To, s.Slice)
	if err != nil {
		var rerr *model.ReplaceError
		if errors.As(err, &rerr) {
			return nil, &UnsupportedRangeError{From: s.From, To: s.To, Reason: rerr.Message}
		}
		return nil, err
	}
	return out, nil
}

// Invert implements Step.
func (s *ReplaceStep) Invert(doc *model.Node) (Step, error) {
	removed, err := doc.Slice(s.From, s.To)
	if err != nil {
		return nil, err
	}
	return NewReplaceStep(s.From, s.From+s.Slice.Size(), removed), nil
}

// Map implements Step.
func (s *ReplaceStep) Map(m Mappable) (Step, bool) {
	from := m.MapResult(s.From, 1)
	to := m.MapResult(s.To, -1)
	if from.Deleted && to.Deleted {
		return nil, false
	}
	return NewReplaceStep(from.Pos, max(from.Pos, to.Pos), s.Slice), true
}

// Merge implements Step. Two replaces merge when the second starts where
// the first one's inserted content ends, or ends where the first starts,
// and the slices are closed at the seam.
func (s *ReplaceStep) Merge(other Step) (Step, bool) {
	o, ok := other.(*ReplaceStep)
	if !ok {
		return nil, false
	}
	switch {
	case s.From+s.Slice.Size() == o.From && s.Slice.OpenEnd == 0 && o.Slice.OpenStart == 0:
		slice := EmptySlice
		if s.Slice.Size()+o.Slice.Size() != 0 {
			slice = NewSlice(appendContent(s.Slice.Content, o.Slice.Content), s.Slice.OpenStart, o.Slice.OpenEnd)
		}
		return NewReplaceStep(s.From, s.To+(o.To-o.From), slice), true
	case o.To == s.From && s.Slice.OpenStart == 0 && o.Slice.OpenEnd == 0:
		slice := EmptySlice
		if s.Slice.Size()+o.Slice.Size() != 0 {
			slice = NewSlice(appendContent(o.Slice.Content, s.Slice.Content), o.Slice.OpenStart, s.Slice.OpenEnd)
		}
		return NewReplaceStep(o.From, s.To, slice), true
	}
	return nil, false
}

// StepMap implements Step.
func (s *ReplaceStep) StepMap() *StepMap {
	return NewStepMap([]int{s.From, s.To - s.From, s.Slice.Size()})
}

func (s *ReplaceStep) String() string {
	return fmt.Sprintf("replace(%d, %d, %s)", s.From, s.To, s.Slice)
}
