package transform

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// Transform accumulates steps against a document.
type Transform struct {
	before  *model.Node
	doc     *model.Node
	steps   []Step
	docs    []*model.Node
	mapping *Mapping
}

// New starts a transform on doc.
func New(doc *model.Node) *Transform {
	return &Transform{before: doc, doc: doc, mapping: NewMapping()}
}

// Doc returns the current document.
func (tr *Transform) Doc() *model.Node { return tr.doc }

// Before returns the document the transform started from.
func (tr *Transform) Before() *model.Node { return tr.before }

// Steps returns the applied steps.
func (tr *Transform) Steps() []Step { return tr.steps }

// Docs returns the document before each step.
func (tr *Transform) Docs() []*model.Node { return tr.docs }

// Mapping returns the mapping of all applied steps.
func (tr *Transform) Mapping() *Mapping { return tr.mapping }

// DocChanged reports whether any step was applied.
func (tr *Transform) DocChanged() bool { return len(tr.steps) > 0 }

// Step applies a step. On failure the transform is unchanged.
func (tr *Transform) Step(step Step) error {
	doc, err := step.Apply(tr.doc)
	if err != nil {
		return err
	}
	tr.addStep(step, doc)
	return nil
}

func (tr *Transform) addStep(step Step, doc *model.Node) {
	tr.docs = append(tr.docs, tr.doc)
	tr.steps = append(tr.steps, step)
	tr.mapping.AppendMap(step.StepMap())
	tr.doc = doc
}

// Replace replaces [from, to) with slice. Replacing an empty range with
// an empty slice is a no-op.
func (tr *Transform) Replace(from, to int, slice *Slice) error {
	if slice == nil {
		slice = EmptySlice
	}
	if from == to && len(slice.Content) == 0 {
		return nil
	}
	return tr.Step(NewReplaceStep(from, to, slice))
}

// Insert inserts closed nodes at pos.
func (tr *Transform) Insert(pos int, nodes ...*model.Node) error {
	return tr.Replace(pos, pos, NewSlice(nodes, 0, 0))
}

// Delete removes [from, to).
func (tr *Transform) Delete(from, to int) error {
	return tr.Replace(from, to, EmptySlice)
}

// InsertText inserts text at pos, which must be inside a textblock. The
// text takes the marks given, or the marks at pos when none are given.
func (tr *Transform) InsertText(pos int, text string, marks ...*model.Mark) error {
	if text == "" {
		return nil
	}
	rp, err := tr.doc.Resolve(pos)
	if err != nil {
		return err
	}
	if !rp.Parent().InlineContent() {
		return fmt.Errorf("insert text at %d: %w", pos, ErrNotTextblock)
	}
	if len(marks) == 0 {
		marks = rp.Marks()
	}
	schema := tr.doc.Type().Schema()
	return tr.Insert(pos, schema.Text(text, marks...))
}

// ReplaceWith replaces [from, to) with closed nodes.
func (tr *Transform) ReplaceWith(from, to int, nodes ...*model.Node) error {
	return tr.Replace(from, to, NewSlice(nodes, 0, 0))
}

// ReplaceContent replaces the content of the node whose content starts at
// start with newContent, using DiffFragment to keep the step minimal.
func (tr *Transform) ReplaceContent(start int, oldContent, newContent []*model.Node) error {
	for _, step := range DiffFragment(oldContent, newContent, start) {
		if err := tr.Step(step); err != nil {
			return err
		}
	}
	return nil
}
