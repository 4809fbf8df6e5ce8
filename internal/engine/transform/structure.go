package transform

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// SetBlockType retypes every textblock overlapping [from, to) to nt with
// attrs. Blocks that already have that markup are left alone. Content and
// block ids are kept.
func (tr *Transform) SetBlockType(from, to int, nt *model.NodeType, attrs model.Attrs) error {
	if !nt.IsTextblock() {
		return fmt.Errorf("set block type %s: %w", nt.Name(), ErrNotTextblock)
	}
	if _, err := tr.doc.Resolve(from); err != nil {
		return fmt.Errorf("set block type: %w", err)
	}
	if _, err := tr.doc.Resolve(to); err != nil {
		return fmt.Errorf("set block type: %w", err)
	}

	type retype struct {
		pos  int
		node *model.Node
	}
	var targets []retype
	collect := func(n *model.Node, pos int) bool {
		if !n.IsTextblock() {
			return true
		}
		targets = append(targets, retype{pos: pos, node: n})
		return false
	}
	if from == to {
		// A collapsed range still selects its textblock.
		tr.doc.NodesBetween(from, from+1, collect)
		if len(targets) == 0 && from > 0 {
			tr.doc.NodesBetween(from-1, from, collect)
		}
	} else {
		tr.doc.NodesBetween(from, to, collect)
	}

	for _, t := range targets {
		retyped := t.node.Retype(nt, attrs)
		if retyped.SameMarkup(t.node) {
			continue
		}
		// Retyping keeps the node size, so later offsets stay valid.
		if err := tr.ReplaceWith(t.pos, t.pos+t.node.NodeSize(), retyped); err != nil {
			return err
		}
	}
	return nil
}

// Split splits the textblock containing pos in two. The second half gets
// the same type and attributes and a fresh block id.
func (tr *Transform) Split(pos int) error {
	rp, err := tr.doc.Resolve(pos)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	parent := rp.Parent()
	if rp.Depth == 0 || !parent.IsTextblock() {
		return fmt.Errorf("split at %d: %w", pos, ErrNotTextblock)
	}
	nt := parent.Type()
	before := nt.Create(parent.Attrs(), nil, nil)
	after := nt.Create(parent.Attrs(), nil, nil)
	return tr.Replace(pos, pos, NewSlice([]*model.Node{before, after}, 1, 1))
}
