package model

import (
	"fmt"
	"strings"
)

// Slice is a piece of a document: a node sequence plus how many levels
// are open on each side. An open side's boundary node is continued by
// whatever it is joined with when the slice is inserted.
type Slice struct {
	Content   []*Node
	OpenStart int
	OpenEnd   int
}

// EmptySlice is the slice with no content.
var EmptySlice = &Slice{}

// NewSlice returns a slice.
func NewSlice(content []*Node, openStart, openEnd int) *Slice {
	return &Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// Size returns the flat size the slice adds when inserted.
func (s *Slice) Size() int {
	return contentSize(s.Content) - s.OpenStart - s.OpenEnd
}

// IsEmpty reports whether the slice has no content.
func (s *Slice) IsEmpty() bool {
	return len(s.Content) == 0
}

// Eq reports whether two slices are structurally equal.
func (s *Slice) Eq(other *Slice) bool {
	if s.OpenStart != other.OpenStart || s.OpenEnd != other.OpenEnd || len(s.Content) != len(other.Content) {
		return false
	}
	for i, c := range s.Content {
		if !c.Eq(other.Content[i]) {
			return false
		}
	}
	return true
}

func (s *Slice) String() string {
	parts := make([]string, len(s.Content))
	for i, c := range s.Content {
		parts[i] = c.String()
	}
	return fmt.Sprintf("<%s>(%d,%d)", strings.Join(parts, ", "), s.OpenStart, s.OpenEnd)
}
