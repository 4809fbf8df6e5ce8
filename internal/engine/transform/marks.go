package transform

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// AddMark adds mark to the inline content in [from, to). Children of
// textblocks that do not allow the mark are skipped.
func (tr *Transform) AddMark(from, to int, mark *model.Mark) error {
	return tr.updateInline(from, to, func(parent, child *model.Node) *model.Node {
		if !parent.Type().AllowsMarkType(mark.Type()) {
			return child
		}
		return child.Mark(mark.AddToSet(child.Marks()))
	})
}

// RemoveMark removes marks of type mt from the inline content in
// [from, to).
func (tr *Transform) RemoveMark(from, to int, mt *model.MarkType) error {
	return tr.updateInline(from, to, func(_, child *model.Node) *model.Node {
		m := mt.IsInSet(child.Marks())
		if m == nil {
			return child
		}
		return child.Mark(m.RemoveFromSet(child.Marks()))
	})
}

type inlineEdit struct {
	start      int
	oldContent []*model.Node
	newContent []*model.Node
}

// updateInline rewrites every inline node overlapping [from, to), splitting
// text nodes at the range boundaries, and lowers each changed textblock to
// a minimal replace step.
func (tr *Transform) updateInline(from, to int, fn func(parent, child *model.Node) *model.Node) error {
	if from >= to {
		return nil
	}
	if _, err := tr.doc.Resolve(from); err != nil {
		return fmt.Errorf("update inline: %w", err)
	}
	if _, err := tr.doc.Resolve(to); err != nil {
		return fmt.Errorf("update inline: %w", err)
	}

	var edits []inlineEdit
	tr.doc.NodesBetween(from, to, func(n *model.Node, pos int) bool {
		if !n.InlineContent() {
			return true
		}
		start := pos + 1
		var out []*model.Node
		off := start
		for _, child := range n.Content() {
			cStart, cEnd := off, off+child.NodeSize()
			off = cEnd
			lo, hi := max(from, cStart), min(to, cEnd)
			if lo >= hi {
				out = append(out, child)
				continue
			}
			if !child.IsText() {
				out = append(out, fn(n, child))
				continue
			}
			if lo > cStart {
				out = append(out, child.Cut(0, lo-cStart))
			}
			out = append(out, fn(n, child.Cut(lo-cStart, hi-cStart)))
			if hi < cEnd {
				out = append(out, child.Cut(hi-cStart, cEnd-cStart))
			}
		}
		edits = append(edits, inlineEdit{start: start, oldContent: n.Content(), newContent: model.NormalizeInline(out)})
		return false
	})

	// Mark changes keep every size, so the collected offsets stay valid.
	for _, e := range edits {
		if err := tr.ReplaceContent(e.start, e.oldContent, e.newContent); err != nil {
			return err
		}
	}
	return nil
}
