package engine

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event/events"
)

// Edit labels recorded in history and the change log.
const (
	LabelInsertText      = "Insert text"
	LabelInsert          = "Insert"
	LabelDelete          = "Delete"
	LabelReplace         = "Replace"
	LabelSplit           = "Split block"
	LabelAddMark         = "Add mark"
	LabelRemoveMark      = "Remove mark"
	LabelSetBlockType    = "Set block type"
	LabelApplyDelta      = "Apply delta"
	LabelReconcile       = "Reconcile"
	LabelReplaceDocument = "Replace document"
)

// edit builds a transform against the current document and submits its
// steps. Build errors are returned immediately even when the edit would
// be deferred.
func (e *Editor) edit(label string, origin events.Origin, build func(doc *model.Node, tr *transform.Transform) error) (Result, error) {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return Result{}, ErrReadOnly
	}

	tr := transform.New(e.doc)
	if err := build(e.doc, tr); err != nil {
		e.mu.Unlock()
		var rerr *transform.UnsupportedRangeError
		if errors.As(err, &rerr) {
			e.logger.Warn("unsupported replace, document unchanged", "label", label, "from", rerr.From, "to", rerr.To, "reason", rerr.Reason)
		}
		return Result{}, fmt.Errorf("%s: %w", label, err)
	}
	if !tr.DocChanged() {
		rev := e.tracker.Revision()
		e.mu.Unlock()
		return Result{Revision: rev}, nil
	}
	return e.submitLocked(e.stepsEdit(label, origin, e.tracker.Revision(), tr.Steps()))
}

// Apply applies the steps of a transform built against the current
// document.
func (e *Editor) Apply(tr *transform.Transform, label string) (Result, error) {
	e.mu.Lock()
	current := e.doc
	e.mu.Unlock()
	if tr.Before() != current {
		return Result{}, ErrStaleTransform
	}
	return e.ApplySteps(tr.Steps(), label)
}

// ApplySteps applies steps in order to the current document.
func (e *Editor) ApplySteps(steps []transform.Step, label string) (Result, error) {
	return e.edit(label, events.OriginEdit, func(_ *model.Node, tr *transform.Transform) error {
		for _, step := range steps {
			if err := tr.Step(step); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace replaces the range between two positions with slice.
func (e *Editor) Replace(from, to ModelPosition, slice *transform.Slice) (Result, error) {
	return e.edit(LabelReplace, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		f, t, err := flatRange(doc, from, to)
		if err != nil {
			return err
		}
		return tr.Replace(f, t, slice)
	})
}

// Insert inserts closed nodes at pos.
func (e *Editor) Insert(pos ModelPosition, nodes ...*model.Node) (Result, error) {
	return e.edit(LabelInsert, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		at, err := position.ToFlatOffset(doc, pos)
		if err != nil {
			return err
		}
		return tr.Insert(at, nodes...)
	})
}

// InsertText inserts text at pos, which must be inside a textblock. The
// text is normalized to NFC and takes the marks at pos.
func (e *Editor) InsertText(pos ModelPosition, text string) (Result, error) {
	text = norm.NFC.String(text)
	return e.edit(LabelInsertText, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		at, err := position.ToFlatOffset(doc, pos)
		if err != nil {
			return err
		}
		return tr.InsertText(at, text)
	})
}

// InsertTextAtSelection replaces the selection with text.
func (e *Editor) InsertTextAtSelection(text string) (Result, error) {
	text = norm.NFC.String(text)
	return e.edit(LabelInsertText, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		from, to, err := e.selection.FlatRange(doc)
		if err != nil {
			return err
		}
		if from < to {
			if err := tr.Delete(from, to); err != nil {
				return err
			}
		}
		return tr.InsertText(from, text)
	})
}

// Delete removes the content between two positions.
func (e *Editor) Delete(from, to ModelPosition) (Result, error) {
	return e.edit(LabelDelete, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		f, t, err := flatRange(doc, from, to)
		if err != nil {
			return err
		}
		return tr.Delete(f, t)
	})
}

// Split splits the textblock containing pos in two.
func (e *Editor) Split(pos ModelPosition) (Result, error) {
	return e.edit(LabelSplit, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		at, err := position.ToFlatOffset(doc, pos)
		if err != nil {
			return err
		}
		return tr.Split(at)
	})
}

// AddMark adds mark to the inline content between two positions.
func (e *Editor) AddMark(from, to ModelPosition, mark *model.Mark) (Result, error) {
	return e.edit(LabelAddMark, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		f, t, err := flatRange(doc, from, to)
		if err != nil {
			return err
		}
		return tr.AddMark(f, t, mark)
	})
}

// RemoveMark removes marks of type mt between two positions.
func (e *Editor) RemoveMark(from, to ModelPosition, mt *model.MarkType) (Result, error) {
	return e.edit(LabelRemoveMark, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		f, t, err := flatRange(doc, from, to)
		if err != nil {
			return err
		}
		return tr.RemoveMark(f, t, mt)
	})
}

// SetBlockType retypes the textblock at path. Its content and id are
// kept.
func (e *Editor) SetBlockType(path []int, typeName string, attrs model.Attrs) (Result, error) {
	nt, ok := e.schema.NodeType(typeName)
	if !ok {
		return Result{}, fmt.Errorf("set block type %q: %w", typeName, model.ErrUnknownType)
	}
	return e.edit(LabelSetBlockType, events.OriginEdit, func(doc *model.Node, tr *transform.Transform) error {
		block, err := position.NodeAt(doc, path)
		if err != nil {
			return err
		}
		if !block.IsTextblock() {
			return ErrNotTextblock
		}
		start, err := position.NodeStart(doc, path)
		if err != nil {
			return err
		}
		return tr.SetBlockType(start, start+block.ContentSize(), nt, attrs)
	})
}

// Undo restores the state before the last edit or group.
func (e *Editor) Undo() (Result, error) {
	e.mu.Lock()
	return e.submitLocked(e.historyEdit(events.OriginUndo, e.history.Undo))
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() (Result, error) {
	e.mu.Lock()
	return e.submitLocked(e.historyEdit(events.OriginRedo, e.history.Redo))
}

// historyEdit restores a snapshot popped from history. The recorded steps
// are the minimal diff between the two documents.
func (e *Editor) historyEdit(origin events.Origin, pop func(history.Snapshot) (history.Snapshot, error)) pendingEdit {
	return func() (*commit, error) {
		snap, err := pop(history.Snapshot{Doc: e.doc, Selection: e.selection})
		if err != nil {
			return nil, err
		}
		steps := transform.DiffFragment(e.doc.Content(), snap.Doc.Content(), 0)
		sel := snap.Selection
		return &commit{
			label:     snap.Label,
			origin:    origin,
			before:    e.doc,
			after:     snap.Doc,
			steps:     steps,
			selection: &sel,
		}, nil
	}
}

// SetDoc replaces the document wholesale. History and the change log are
// reset and DocumentReplaced is published.
func (e *Editor) SetDoc(doc *model.Node) (Result, error) {
	if doc == nil || doc.Type().Schema() != e.schema {
		return Result{}, ErrSchemaMismatch
	}
	e.mu.Lock()
	return e.submitLocked(func() (*commit, error) {
		return &commit{
			label:   LabelReplaceDocument,
			origin:  events.OriginEdit,
			before:  e.doc,
			after:   doc,
			replace: true,
		}, nil
	})
}
