package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event/events"
)

// AtomPlaceholder stands for an inline atom, such as an image, in the
// text of a block delta.
const AtomPlaceholder = '\uFFFC'

// unit is one delta position in a textblock: a rune of text or an inline
// atom.
type unit struct {
	r     rune
	atom  *model.Node
	marks []*model.Mark
}

func blockUnits(block *model.Node) []unit {
	var units []unit
	for _, child := range block.Content() {
		if !child.IsText() {
			units = append(units, unit{atom: child, marks: child.Marks()})
			continue
		}
		for _, r := range child.Text() {
			units = append(units, unit{r: r, marks: child.Marks()})
		}
	}
	return units
}

// DeltaOf returns the content of the textblock at blockPath as a delta of
// inserts. Marks become attributes keyed by mark type name, with true or
// the mark's attributes as value. Inline atoms appear as AtomPlaceholder.
func (e *Editor) DeltaOf(blockPath []int) (*delta.Delta, error) {
	block, err := position.NodeAt(e.Doc(), blockPath)
	if err != nil {
		return nil, err
	}
	if !block.IsTextblock() {
		return nil, fmt.Errorf("delta of %v: %w", blockPath, ErrNotTextblock)
	}

	d := delta.New()
	for _, child := range block.Content() {
		text := child.Text()
		if !child.IsText() {
			text = string(AtomPlaceholder)
		}
		d.Insert(text, marksToAttributes(child.Marks()))
	}
	return d, nil
}

func marksToAttributes(marks []*model.Mark) delta.AttributeMap {
	if len(marks) == 0 {
		return nil
	}
	attrs := make(delta.AttributeMap, len(marks))
	for _, m := range marks {
		if a := m.Attrs(); len(a) > 0 {
			attrs[m.Type().Name()] = map[string]any(a)
		} else {
			attrs[m.Type().Name()] = true
		}
	}
	return attrs
}

// ApplyDelta applies a delta to the inline content of the textblock at
// blockPath. Inserts create text, retains apply attributes, deletes remove
// text or atoms; content past the delta's end is kept. The rebuilt content
// is normalized and lowered to a single ReplaceStep.
//
// Attribute keys name mark types. A value of true or an attributes object
// adds the mark; nil or false removes it. Unknown marks, and marks the
// block does not allow, are logged and skipped.
func (e *Editor) ApplyDelta(blockPath []int, d *delta.Delta) (Result, error) {
	return e.edit(LabelApplyDelta, events.OriginDelta, func(doc *model.Node, tr *transform.Transform) error {
		block, err := position.NodeAt(doc, blockPath)
		if err != nil {
			return err
		}
		if !block.IsTextblock() {
			return ErrNotTextblock
		}
		start, err := position.NodeStart(doc, blockPath)
		if err != nil {
			return err
		}

		units := blockUnits(block)
		if base := d.BaseLength(); base > len(units) {
			return fmt.Errorf("apply delta of base length %d to %d characters: %w", base, len(units), ErrLengthMismatch)
		}

		var out []unit
		pos := 0
		for _, op := range d.Ops() {
			switch op.Type {
			case delta.OpInsert:
				marks := e.applyAttributes(block.Type(), nil, op.Attributes)
				for _, r := range op.Text {
					out = append(out, unit{r: r, marks: marks})
				}
			case delta.OpRetain:
				for _, u := range units[pos : pos+op.N] {
					u.marks = e.applyAttributes(block.Type(), u.marks, op.Attributes)
					out = append(out, u)
				}
				pos += op.N
			case delta.OpDelete:
				pos += op.N
			}
		}
		out = append(out, units[pos:]...)

		content := model.NormalizeInline(buildInline(e.schema, out))
		for _, step := range transform.DiffFragment(block.Content(), content, start) {
			if err := tr.Step(step); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyAttributes returns marks with attrs applied.
func (e *Editor) applyAttributes(parent *model.NodeType, marks []*model.Mark, attrs delta.AttributeMap) []*model.Mark {
	for _, name := range attrs.Keys() {
		mt, ok := e.schema.MarkType(name)
		if !ok {
			e.logger.Warn("delta attribute names no mark type", "attribute", name)
			continue
		}
		if !parent.AllowsMarkType(mt) {
			e.logger.Warn("mark not allowed in block", "mark", name, "block", parent.Name())
			continue
		}

		switch v := attrs[name].(type) {
		case nil:
			if m := mt.IsInSet(marks); m != nil {
				marks = m.RemoveFromSet(marks)
			}
		case bool:
			if v {
				marks = mt.Create(nil).AddToSet(marks)
			} else if m := mt.IsInSet(marks); m != nil {
				marks = m.RemoveFromSet(marks)
			}
		case map[string]any:
			marks = mt.Create(model.Attrs(v)).AddToSet(marks)
		case delta.AttributeMap:
			marks = mt.Create(model.Attrs(v)).AddToSet(marks)
		default:
			e.logger.Warn("unsupported delta attribute value", "attribute", name, "value", v)
		}
	}
	return marks
}

// buildInline groups units into text nodes by mark set. A "\n" always
// gets a node of its own.
func buildInline(schema *model.Schema, units []unit) []*model.Node {
	var (
		nodes []*model.Node
		run   []byte
		marks []*model.Mark
	)
	flush := func() {
		if len(run) > 0 {
			nodes = append(nodes, schema.Text(string(run), marks...))
			run = run[:0]
		}
	}
	for _, u := range units {
		if u.atom != nil {
			flush()
			atom := u.atom
			if !model.SameMarkSet(atom.Marks(), u.marks) {
				atom = atom.Mark(u.marks)
			}
			nodes = append(nodes, atom)
			continue
		}
		if u.r == '\n' || (len(run) > 0 && (run[len(run)-1] == '\n' || !model.SameMarkSet(marks, u.marks))) {
			flush()
		}
		if len(run) == 0 {
			marks = u.marks
		}
		run = utf8.AppendRune(run, u.r)
	}
	flush()
	return nodes
}
