package position

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// Selection is an anchor/head pair of positions. Anchor is where the
// selection started; Head is the end that moves with further gestures.
// When Anchor equals Head the selection is a collapsed cursor.
// Selection is an immutable value type.
type Selection struct {
	Anchor ModelPosition
	Head   ModelPosition
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ModelPosition) Selection {
	return Selection{Anchor: anchor.Clone(), Head: head.Clone()}
}

// Cursor creates a collapsed selection at pos.
func Cursor(pos ModelPosition) Selection {
	return Selection{Anchor: pos.Clone(), Head: pos.Clone()}
}

// IsCollapsed returns true if the selection has no extent.
func (s Selection) IsCollapsed() bool {
	return s.Anchor.Equal(s.Head)
}

// Flip returns a selection with anchor and head swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Head, Head: s.Anchor}
}

// Collapse collapses the selection to a cursor at the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head.Clone(), Head: s.Head.Clone()}
}

// Equal reports whether two selections have equal anchors and heads.
func (s Selection) Equal(other Selection) bool {
	return s.Anchor.Equal(other.Anchor) && s.Head.Equal(other.Head)
}

// IsForward reports whether the head is at or after the anchor.
func (s Selection) IsForward(root *model.Node) (bool, error) {
	c, err := Compare(root, s.Anchor, s.Head)
	return c <= 0, err
}

// From returns the position that comes first in document order.
func (s Selection) From(root *model.Node) (ModelPosition, error) {
	fwd, err := s.IsForward(root)
	if err != nil {
		return ModelPosition{}, err
	}
	if fwd {
		return s.Anchor, nil
	}
	return s.Head, nil
}

// To returns the position that comes last in document order.
func (s Selection) To(root *model.Node) (ModelPosition, error) {
	fwd, err := s.IsForward(root)
	if err != nil {
		return ModelPosition{}, err
	}
	if fwd {
		return s.Head, nil
	}
	return s.Anchor, nil
}

// FlatRange returns the selection as an ordered flat range.
func (s Selection) FlatRange(root *model.Node) (from, to int, err error) {
	a, h, err := s.ToFlat(root)
	if err != nil {
		return 0, 0, err
	}
	if a <= h {
		return a, h, nil
	}
	return h, a, nil
}

// ToFlat returns the flat offsets of anchor and head.
func (s Selection) ToFlat(root *model.Node) (anchor, head int, err error) {
	if anchor, err = ToFlatOffset(root, s.Anchor); err != nil {
		return 0, 0, err
	}
	if head, err = ToFlatOffset(root, s.Head); err != nil {
		return 0, 0, err
	}
	return anchor, head, nil
}

// SelectionFromFlat builds a selection from flat anchor and head offsets.
func SelectionFromFlat(root *model.Node, anchor, head int) (Selection, error) {
	a, err := FromFlatOffset(root, anchor)
	if err != nil {
		return Selection{}, err
	}
	h, err := FromFlatOffset(root, head)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Anchor: a, Head: h}, nil
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("Cursor(%s)", s.Head)
	}
	return fmt.Sprintf("Selection(%s -> %s)", s.Anchor, s.Head)
}
