package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Node is an immutable document tree node.
//
// Content slices returned by accessors are shared with the node and must
// not be modified.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content []*Node
	text    string
	marks   []*Mark
	id      string
	size    int
}

func (n *Node) computeSize() int {
	switch {
	case n.typ.IsText():
		return utf8.RuneCountInString(n.text)
	case n.typ.IsLeaf():
		return 1
	default:
		return 2 + contentSize(n.content)
	}
}

// Type returns the node type.
func (n *Node) Type() *NodeType { return n.typ }

// Attrs returns a copy of the attributes.
func (n *Node) Attrs() Attrs { return n.attrs.Clone() }

// Attr returns one attribute value.
func (n *Node) Attr(key string) any { return n.attrs[key] }

// Content returns the child nodes.
func (n *Node) Content() []*Node { return n.content }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.content) }

// Child returns the child at index i. It panics when i is out of range.
func (n *Node) Child(i int) *Node { return n.content[i] }

// MaybeChild returns the child at index i, or nil.
func (n *Node) MaybeChild(i int) *Node {
	if i < 0 || i >= len(n.content) {
		return nil
	}
	return n.content[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.MaybeChild(0) }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.MaybeChild(len(n.content) - 1) }

// Text returns the text of a text node.
func (n *Node) Text() string { return n.text }

// Marks returns the node's mark set.
func (n *Node) Marks() []*Mark { return n.marks }

// ID returns the block id, empty for inline nodes.
func (n *Node) ID() string { return n.id }

// NodeSize returns the flat size of the node.
func (n *Node) NodeSize() int { return n.size }

// ContentSize returns the flat size of the node's content.
func (n *Node) ContentSize() int {
	if n.typ.IsText() {
		return n.size
	}
	if n.typ.IsLeaf() {
		return 0
	}
	return n.size - 2
}

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.typ.IsText() }

// IsLeaf reports whether the node cannot have content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// IsAtom reports whether the node is treated as a unit.
func (n *Node) IsAtom() bool { return n.typ.IsAtom() }

// IsInline reports whether the node is inline.
func (n *Node) IsInline() bool { return n.typ.IsInline() }

// IsBlock reports whether the node is block level.
func (n *Node) IsBlock() bool { return n.typ.IsBlock() }

// IsTextblock reports whether the node is a block holding inline content.
func (n *Node) IsTextblock() bool { return n.typ.IsTextblock() }

// InlineContent reports whether the node's content is inline.
func (n *Node) InlineContent() bool { return n.typ.content.InlineContent() }

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var b strings.Builder
	n.Descendants(func(child *Node, _ int) bool {
		if child.IsText() {
			b.WriteString(child.text)
		}
		return true
	})
	return b.String()
}

// SameMarkup reports whether two nodes have the same type, attributes,
// and marks.
func (n *Node) SameMarkup(other *Node) bool {
	return n.typ == other.typ && n.attrs.Equal(other.attrs) && SameMarkSet(n.marks, other.marks)
}

// Eq reports structural equality. Block ids are ignored.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	if !n.SameMarkup(other) || n.text != other.text || len(n.content) != len(other.content) {
		return false
	}
	for i, c := range n.content {
		if !c.Eq(other.content[i]) {
			return false
		}
	}
	return true
}

// Copy returns a node with the same markup and id around new content.
// The copy is revalidated by the schema.
func (n *Node) Copy(content []*Node) *Node {
	if n.IsText() {
		return n
	}
	return n.typ.schema.copyNode(n, content, true)
}

// Retype returns the node rebuilt as type nt with new attributes. Content,
// marks, and the block id are kept; the result is revalidated.
func (n *Node) Retype(nt *NodeType, attrs Attrs) *Node {
	s := nt.schema
	r := &Node{
		typ:   nt,
		attrs: s.computeAttrs(nt.name, nt.attrs, attrs),
		marks: n.marks,
		id:    n.id,
	}
	if !nt.IsLeaf() && len(n.content) > 0 {
		r.content = n.content
	}
	if r.id == "" && !nt.IsInline() {
		r.id = s.newID()
	}
	s.check(r)
	r.size = r.computeSize()
	return r
}

// Mark returns a copy of the node with a different mark set.
func (n *Node) Mark(marks []*Mark) *Node {
	c := *n
	c.marks = NormalizeMarks(marks)
	return &c
}

// WithText returns a text node with the same marks and new text.
func (n *Node) WithText(text string) *Node {
	if text == n.text {
		return n
	}
	return n.typ.schema.Text(text, n.marks...)
}

// ForEach calls fn for every child with its offset inside the content.
func (n *Node) ForEach(fn func(child *Node, offset, index int)) {
	pos := 0
	for i, c := range n.content {
		fn(c, pos, i)
		pos += c.size
	}
}

// Descendants walks the subtree depth first, calling fn with each
// descendant and its position relative to the start of n's content.
// Returning false skips the node's children.
func (n *Node) Descendants(fn func(node *Node, pos int) bool) {
	n.NodesBetween(0, n.ContentSize(), fn)
}

// NodesBetween calls fn for every descendant overlapping [from, to).
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int) bool) {
	nodesBetween(n.content, from, to, 0, fn)
}

func nodesBetween(content []*Node, from, to, start int, fn func(*Node, int) bool) {
	pos := 0
	for _, child := range content {
		if pos >= to {
			break
		}
		end := pos + child.size
		if end > from {
			if fn(child, start+pos) && len(child.content) > 0 {
				inner := pos + 1
				nodesBetween(child.content, max(0, from-inner), min(child.ContentSize(), to-inner), start+inner, fn)
			}
		}
		pos = end
	}
}

// Cut returns the part of the node between two content-relative offsets.
func (n *Node) Cut(from, to int) *Node {
	if n.IsText() {
		runes := []rune(n.text)
		from = clamp(from, 0, len(runes))
		to = clamp(to, from, len(runes))
		if from == 0 && to == len(runes) {
			return n
		}
		return n.WithText(string(runes[from:to]))
	}
	cs := n.ContentSize()
	if from == 0 && to == cs {
		return n
	}
	return n.typ.schema.copyNode(n, cutContent(n.content, from, to), false)
}

// CutFrom returns the part of the node after a content-relative offset.
func (n *Node) CutFrom(from int) *Node {
	return n.Cut(from, n.ContentSize())
}

// Slice returns the content between two content-relative offsets as a
// slice, opened as deep as the positions share ancestors.
func (n *Node) Slice(from, to int) (*Slice, error) {
	if from == to {
		return EmptySlice, nil
	}
	rf, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	rt, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	depth := rf.SharedDepth(to)
	start := rf.Start(depth)
	node := rf.Node(depth)
	content := cutContent(node.content, rf.Pos-start, rt.Pos-start)
	return &Slice{Content: content, OpenStart: rf.Depth - depth, OpenEnd: rt.Depth - depth}, nil
}

// String returns a debug representation, e.g. doc(paragraph("Hello")).
func (n *Node) String() string {
	if n.IsText() {
		s := fmt.Sprintf("%q", n.text)
		if len(n.marks) > 0 {
			s = "[" + markSetString(n.marks) + "]" + s
		}
		return s
	}
	name := n.typ.name
	if len(n.attrs) > 0 {
		name += n.attrs.String()
	}
	if len(n.content) == 0 {
		return name
	}
	parts := make([]string, len(n.content))
	for i, c := range n.content {
		parts[i] = c.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// ============================================================================
// Content helpers
// ============================================================================

func contentSize(content []*Node) int {
	size := 0
	for _, c := range content {
		size += c.size
	}
	return size
}

// ContentSize returns the flat size of a node sequence.
func ContentSize(content []*Node) int { return contentSize(content) }

// cutContent returns the part of content between two offsets, cutting
// partially covered children.
func cutContent(content []*Node, from, to int) []*Node {
	size := contentSize(content)
	if from <= 0 && to >= size {
		return content
	}
	var out []*Node
	if to <= from {
		return out
	}
	pos := 0
	for _, child := range content {
		if pos >= to {
			break
		}
		end := pos + child.size
		if end > from {
			if pos < from || end > to {
				if child.IsText() {
					child = child.Cut(max(0, from-pos), min(child.size, to-pos))
				} else {
					child = child.Cut(max(0, from-pos-1), min(child.ContentSize(), to-pos-1))
				}
			}
			out = append(out, child)
		}
		pos = end
	}
	return out
}

// findIndex returns the index of the child containing pos and the offset
// at which that child starts. A pos at a child boundary returns the child
// that starts there.
func findIndex(content []*Node, pos int) (int, int) {
	if pos == 0 {
		return 0, 0
	}
	cur := 0
	for i, c := range content {
		end := cur + c.size
		if end > pos {
			return i, cur
		}
		cur = end
	}
	return len(content), cur
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
