package position

import "slices"

// Change describes a tree change for MapPosition.
type Change interface {
	change()
}

// TextInserted describes Length characters inserted at At, a position
// inside a text node.
type TextInserted struct {
	At     ModelPosition
	Length int
}

// TextDeleted describes Length characters deleted starting at From, a
// position inside a text node.
type TextDeleted struct {
	From   ModelPosition
	Length int
}

// NodeSplit describes the block at BlockPath split in two. The content
// from inline child TextIndex at character TextOffset onward moved into a
// new sibling inserted directly after the block.
type NodeSplit struct {
	BlockPath  []int
	TextIndex  int
	TextOffset int
}

// BlockRetyped describes the block at Path changing type in place.
type BlockRetyped struct {
	Path []int
}

// NodeInserted describes Count nodes (1 when zero) inserted into the node
// at ParentPath before child Index.
type NodeInserted struct {
	ParentPath []int
	Index      int
	Count      int
}

// NodeRemoved describes Count nodes (1 when zero) removed from the node at
// ParentPath starting at child Index.
type NodeRemoved struct {
	ParentPath []int
	Index      int
	Count      int
}

func (TextInserted) change() {}
func (TextDeleted) change()  {}
func (NodeSplit) change()    {}
func (BlockRetyped) change() {}
func (NodeInserted) change() {}
func (NodeRemoved) change()  {}

// MapPosition adjusts a position taken before change so it addresses the
// same place after it. Positions in unrelated parts of the tree are
// returned unchanged. The input is never modified.
func MapPosition(pos ModelPosition, change Change) ModelPosition {
	pos = pos.Clone()
	switch c := change.(type) {
	case TextInserted:
		if slices.Equal(pos.Path, c.At.Path) && pos.Offset >= c.At.Offset {
			pos.Offset += c.Length
		}
	case TextDeleted:
		if slices.Equal(pos.Path, c.From.Path) {
			start, end := c.From.Offset, c.From.Offset+c.Length
			switch {
			case pos.Offset >= end:
				pos.Offset -= c.Length
			case pos.Offset > start:
				pos.Offset = start
			}
		}
	case NodeSplit:
		return mapSplit(pos, c)
	case BlockRetyped:
		// Retyping keeps every child in place.
	case NodeInserted:
		count := max(c.Count, 1)
		n := len(c.ParentPath)
		switch {
		case slices.Equal(pos.Path, c.ParentPath):
			if pos.Offset >= c.Index {
				pos.Offset += count
			}
		case hasPrefix(pos.Path, c.ParentPath):
			if pos.Path[n] >= c.Index {
				pos.Path[n] += count
			}
		}
	case NodeRemoved:
		count := max(c.Count, 1)
		n := len(c.ParentPath)
		switch {
		case slices.Equal(pos.Path, c.ParentPath):
			switch {
			case pos.Offset >= c.Index+count:
				pos.Offset -= count
			case pos.Offset > c.Index:
				pos.Offset = c.Index
			}
		case hasPrefix(pos.Path, c.ParentPath):
			switch k := pos.Path[n]; {
			case k >= c.Index+count:
				pos.Path[n] -= count
			case k >= c.Index:
				return New(c.ParentPath, c.Index)
			}
		}
	}
	return pos
}

func mapSplit(pos ModelPosition, c NodeSplit) ModelPosition {
	if len(c.BlockPath) == 0 {
		return pos
	}
	parent := c.BlockPath[:len(c.BlockPath)-1]
	block := c.BlockPath[len(c.BlockPath)-1]
	n := len(parent)
	depth := len(c.BlockPath)

	// Position in the block's parent, between siblings.
	if slices.Equal(pos.Path, parent) {
		if pos.Offset > block {
			pos.Offset++
		}
		return pos
	}
	if !hasPrefix(pos.Path, parent) {
		return pos
	}

	switch k := pos.Path[n]; {
	case k > block:
		pos.Path[n]++
		return pos
	case k < block:
		return pos
	}

	// Position in the split block itself, between inline children.
	if len(pos.Path) == depth {
		if pos.Offset > c.TextIndex || (pos.Offset == c.TextIndex && c.TextOffset == 0) {
			pos.Path[n]++
			pos.Offset -= c.TextIndex
		}
		return pos
	}

	child := pos.Path[depth]
	switch {
	case child < c.TextIndex:
		return pos
	case child == c.TextIndex && len(pos.Path) == depth+1:
		if pos.Offset < c.TextOffset {
			return pos
		}
		pos.Path[n]++
		pos.Path[depth] = 0
		pos.Offset -= c.TextOffset
		return pos
	case child == c.TextIndex && c.TextOffset > 0:
		// Inside a non-text child that stays in the original block.
		return pos
	default:
		pos.Path[n]++
		pos.Path[depth] = child - c.TextIndex
		return pos
	}
}

// MapSelection maps both ends of a selection across change.
func MapSelection(sel Selection, change Change) Selection {
	return Selection{
		Anchor: MapPosition(sel.Anchor, change),
		Head:   MapPosition(sel.Head, change),
	}
}

// hasPrefix reports whether path strictly extends prefix.
func hasPrefix(path, prefix []int) bool {
	return len(path) > len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}
