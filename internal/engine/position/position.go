package position

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/richedit/internal/engine/model"
)

// ModelPosition addresses a location in a tree.
type ModelPosition struct {
	Path   []int
	Offset int
}

// New returns a position. The path is copied.
func New(path []int, offset int) ModelPosition {
	return ModelPosition{Path: slices.Clone(path), Offset: offset}
}

// At is shorthand for New(path, offset) with a variadic path.
func At(offset int, path ...int) ModelPosition {
	return New(path, offset)
}

// Equal reports whether two positions have the same path and offset.
func (p ModelPosition) Equal(other ModelPosition) bool {
	return p.Offset == other.Offset && slices.Equal(p.Path, other.Path)
}

// Clone returns a deep copy of the position.
func (p ModelPosition) Clone() ModelPosition {
	return New(p.Path, p.Offset)
}

// Depth returns the length of the path.
func (p ModelPosition) Depth() int {
	return len(p.Path)
}

// String returns the position as "[0 1]:3".
func (p ModelPosition) String() string {
	parts := make([]string, len(p.Path))
	for i, idx := range p.Path {
		parts[i] = fmt.Sprint(idx)
	}
	return fmt.Sprintf("[%s]:%d", strings.Join(parts, " "), p.Offset)
}

// ToFlatOffset converts a position to a flat offset relative to the
// root's content.
func ToFlatOffset(root *model.Node, pos ModelPosition) (int, error) {
	off := 0
	node := root
	for _, idx := range pos.Path {
		if node.IsText() || node.IsLeaf() {
			return 0, &model.PositionError{Op: "to flat offset", Path: pos.Path, Offset: pos.Offset, Err: model.ErrLeafDescent}
		}
		if idx < 0 || idx >= node.ChildCount() {
			return 0, &model.PositionError{Op: "to flat offset", Path: pos.Path, Offset: pos.Offset, Err: model.ErrPositionOutOfRange}
		}
		for i := 0; i < idx; i++ {
			off += node.Child(i).NodeSize()
		}
		child := node.Child(idx)
		if !child.IsText() {
			off++
		}
		node = child
	}

	switch {
	case node.IsText():
		if pos.Offset < 0 || pos.Offset > node.NodeSize() {
			return 0, &model.PositionError{Op: "to flat offset", Path: pos.Path, Offset: pos.Offset, Err: model.ErrPositionOutOfRange}
		}
		off += pos.Offset
	case node.IsLeaf():
		return 0, &model.PositionError{Op: "to flat offset", Path: pos.Path, Offset: pos.Offset, Err: model.ErrLeafDescent}
	default:
		if pos.Offset < 0 || pos.Offset > node.ChildCount() {
			return 0, &model.PositionError{Op: "to flat offset", Path: pos.Path, Offset: pos.Offset, Err: model.ErrPositionOutOfRange}
		}
		for i := 0; i < pos.Offset; i++ {
			off += node.Child(i).NodeSize()
		}
	}
	return off, nil
}

// FromFlatOffset converts a flat offset relative to the root's content to
// a position.
func FromFlatOffset(root *model.Node, offset int) (ModelPosition, error) {
	if offset < 0 || offset > root.ContentSize() {
		return ModelPosition{}, &model.PositionError{Op: "from flat offset", Offset: offset, Err: model.ErrPositionOutOfRange}
	}
	if root.IsText() {
		return ModelPosition{Offset: offset}, nil
	}

	var path []int
	node := root
	rem := offset
descend:
	for {
		pos := 0
		for i, child := range node.Content() {
			if rem == pos {
				return ModelPosition{Path: path, Offset: i}, nil
			}
			end := pos + child.NodeSize()
			if rem < end {
				path = append(path, i)
				if child.IsText() {
					return ModelPosition{Path: path, Offset: rem - pos}, nil
				}
				node = child
				rem = rem - pos - 1
				continue descend
			}
			pos = end
		}
		return ModelPosition{Path: path, Offset: node.ChildCount()}, nil
	}
}

// NodeAt returns the node the path points at.
func NodeAt(root *model.Node, path []int) (*model.Node, error) {
	node := root
	for _, idx := range path {
		if node.IsText() || node.IsLeaf() {
			return nil, &model.PositionError{Op: "node at", Path: path, Err: model.ErrLeafDescent}
		}
		if idx < 0 || idx >= node.ChildCount() {
			return nil, &model.PositionError{Op: "node at", Path: path, Err: model.ErrPositionOutOfRange}
		}
		node = node.Child(idx)
	}
	return node, nil
}

// NodeStart returns the flat offset at which the content of the node at
// path starts. For the root this is 0.
func NodeStart(root *model.Node, path []int) (int, error) {
	if len(path) == 0 {
		return 0, nil
	}
	return ToFlatOffset(root, ModelPosition{Path: path, Offset: 0})
}

// Compare orders two positions in document order. It returns -1, 0, or 1.
func Compare(root *model.Node, a, b ModelPosition) (int, error) {
	fa, err := ToFlatOffset(root, a)
	if err != nil {
		return 0, err
	}
	fb, err := ToFlatOffset(root, b)
	if err != nil {
		return 0, err
	}
	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}
