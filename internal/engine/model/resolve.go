package model

// ResolvedPos is a flat offset resolved against a tree. Depth 0 is the
// node Resolve was called on.
type ResolvedPos struct {
	// Pos is the resolved offset.
	Pos int

	// Depth is the depth of the innermost non-text node containing Pos.
	Depth int

	// ParentOffset is the offset of Pos inside the content of the
	// innermost node.
	ParentOffset int

	path []resolvedLevel
}

type resolvedLevel struct {
	node  *Node
	index int
	start int // offset at which child index starts
}

// Resolve resolves a content-relative flat offset.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.ContentSize() {
		return nil, &PositionError{Op: "resolve", Offset: pos, Err: ErrPositionOutOfRange}
	}
	var path []resolvedLevel
	start := 0
	parentOffset := pos
	node := n
	for {
		index, offset := findIndex(node.content, parentOffset)
		rem := parentOffset - offset
		path = append(path, resolvedLevel{node: node, index: index, start: start + offset})
		if rem == 0 {
			break
		}
		child := node.content[index]
		if child.IsText() || child.IsLeaf() {
			break
		}
		node = child
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, Depth: len(path) - 1, ParentOffset: parentOffset, path: path}, nil
}

// Node returns the ancestor at depth d.
func (r *ResolvedPos) Node(d int) *Node { return r.path[d].node }

// Parent returns the innermost node containing the position.
func (r *ResolvedPos) Parent() *Node { return r.path[r.Depth].node }

// Root returns the node the position was resolved in.
func (r *ResolvedPos) Root() *Node { return r.path[0].node }

// Index returns the child index at depth d.
func (r *ResolvedPos) Index(d int) int { return r.path[d].index }

// IndexAfter returns the index of the first child after the position at
// depth d.
func (r *ResolvedPos) IndexAfter(d int) int {
	if d == r.Depth && r.TextOffset() == 0 {
		return r.path[d].index
	}
	return r.path[d].index + 1
}

// Start returns the offset at which the content of the ancestor at depth
// d starts.
func (r *ResolvedPos) Start(d int) int {
	if d == 0 {
		return 0
	}
	return r.path[d-1].start + 1
}

// End returns the offset at which the content of the ancestor at depth d
// ends.
func (r *ResolvedPos) End(d int) int {
	return r.Start(d) + r.path[d].node.ContentSize()
}

// Before returns the offset directly before the ancestor at depth d >= 1.
func (r *ResolvedPos) Before(d int) int {
	return r.path[d-1].start
}

// After returns the offset directly after the ancestor at depth d >= 1.
func (r *ResolvedPos) After(d int) int {
	return r.path[d-1].start + r.path[d].node.NodeSize()
}

// TextOffset returns the offset into the text node at the position, or 0
// when the position is between nodes.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[r.Depth].start
}

// NodeAfter returns the node directly after the position, cut when the
// position is inside a text node.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.content[index]
	if off := r.TextOffset(); off > 0 {
		return child.Cut(off, child.size)
	}
	return child
}

// NodeBefore returns the node directly before the position, cut when the
// position is inside a text node.
func (r *ResolvedPos) NodeBefore() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if off := r.TextOffset(); off > 0 {
		return parent.content[index].Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return parent.content[index-1]
}

// Marks returns the marks at the position: those of the text before it,
// or after it at the start of a textblock.
func (r *ResolvedPos) Marks() []*Mark {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if len(parent.content) == 0 {
		return nil
	}
	if r.TextOffset() > 0 {
		return parent.content[index].marks
	}
	if index > 0 {
		return parent.content[index-1].marks
	}
	return parent.content[0].marks
}

// SharedDepth returns the depth of the deepest ancestor that also
// contains pos.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for d := r.Depth; d > 0; d-- {
		if r.Start(d) <= pos && r.End(d) >= pos {
			return d
		}
	}
	return 0
}
