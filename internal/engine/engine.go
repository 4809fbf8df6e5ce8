package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/tracking"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
)

// Re-export commonly used types for convenience.
type (
	// ModelPosition addresses a location by child path and offset.
	ModelPosition = position.ModelPosition

	// Selection is an anchor/head pair of positions.
	Selection = position.Selection

	// RevisionID identifies the document after an edit.
	RevisionID = tracking.RevisionID

	// SnapshotID uniquely identifies a named snapshot.
	SnapshotID = tracking.SnapshotID

	// Change represents a tracked change.
	Change = tracking.Change

	// DiffResult contains the result of a diff operation.
	DiffResult = tracking.DiffResult

	// EntryInfo describes an undo or redo entry.
	EntryInfo = history.EntryInfo
)

// eventSource tags events published by the editor.
const eventSource = "engine"

// Result describes the outcome of an edit.
type Result struct {
	// Revision is the revision the edit produced. Zero when deferred.
	Revision RevisionID

	// Steps are the steps applied to the document.
	Steps []transform.Step

	// Deferred is set when the edit arrived while a previous change was
	// still propagating. It is applied after that change is acknowledged.
	Deferred bool
}

// Editor owns the current document and applies edits to it.
//
// Every edit replaces the root node; no node is ever modified in place.
// After each edit the prior state is pushed onto the undo history, the
// selection is mapped, the steps are recorded in the change log, and a
// DocumentChanged event is published. While that event propagates,
// further edits are queued and applied in order once the scheduler runs
// the acknowledgement.
//
// All methods are safe for concurrent use. The lock is never held while
// subscribers run.
type Editor struct {
	mu sync.Mutex

	schema    *model.Schema
	doc       *model.Node
	selection position.Selection

	history *history.History
	tracker *tracking.Tracker

	bus       event.Bus
	scheduler Scheduler
	logger    *slog.Logger

	readOnly bool

	// Re-entrancy guard
	propagating bool
	queue       []pendingEdit

	// Creation options
	initDoc      *model.Node
	maxHistory   int
	maxChanges   int
	maxRevisions int
}

// New creates an editor over documents of schema. Without WithDoc the
// document is the top node holding one empty block of its default type.
func New(schema *model.Schema, opts ...Option) (*Editor, error) {
	if schema == nil {
		return nil, errors.New("engine: nil schema")
	}

	e := &Editor{
		schema:       schema,
		maxHistory:   DefaultMaxHistory,
		maxChanges:   DefaultMaxChanges,
		maxRevisions: DefaultMaxRevisions,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = schema.Logger()
	}
	if e.bus == nil {
		e.bus = event.NewBus(event.WithBusLogger(e.logger))
	}
	if e.scheduler == nil {
		e.scheduler = ImmediateScheduler
	}

	doc := e.initDoc
	if doc == nil {
		doc = emptyDoc(schema)
	} else if doc.Type().Schema() != schema {
		return nil, ErrSchemaMismatch
	}
	e.initDoc = nil

	e.doc = doc
	e.selection = startSelection(doc)
	e.history = history.NewHistory(e.maxHistory)
	e.tracker = tracking.NewTracker(
		tracking.WithMaxChanges(e.maxChanges),
		tracking.WithMaxRevisions(e.maxRevisions),
	)
	return e, nil
}

func emptyDoc(schema *model.Schema) *model.Node {
	top := schema.TopNodeType()
	var content []*model.Node
	if nt := top.ContentExpr().DefaultType(); nt != nil {
		content = append(content, nt.Create(nil, nil, nil))
	}
	return top.Create(nil, content, nil)
}

// startSelection returns a cursor at the start of the first textblock,
// or at the start of the document when it has none.
func startSelection(doc *model.Node) position.Selection {
	start := -1
	doc.Descendants(func(n *model.Node, pos int) bool {
		if start >= 0 {
			return false
		}
		if n.IsTextblock() {
			start = pos + 1
			return false
		}
		return true
	})
	if start >= 0 {
		if sel, err := position.SelectionFromFlat(doc, start, start); err == nil {
			return sel
		}
	}
	return position.Cursor(position.At(0))
}

// Accessors

// Schema returns the editor's schema.
func (e *Editor) Schema() *model.Schema {
	return e.schema
}

// Doc returns the current document.
func (e *Editor) Doc() *model.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Bus returns the bus change notifications are published on.
func (e *Editor) Bus() event.Bus {
	return e.bus
}

// IsReadOnly returns true if the editor rejects edits.
func (e *Editor) IsReadOnly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readOnly
}

// SetReadOnly changes the read-only state.
func (e *Editor) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readOnly = readOnly
}

// Propagating reports whether a change is waiting for acknowledgement.
func (e *Editor) Propagating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.propagating
}

// PendingCount returns the number of deferred edits.
func (e *Editor) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Selection returns the current selection.
func (e *Editor) Selection() position.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// SetSelection sets the selection and publishes SelectionChanged. Both
// ends must be valid positions in the current document.
func (e *Editor) SetSelection(sel position.Selection) error {
	e.mu.Lock()
	if _, _, err := sel.ToFlat(e.doc); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("set selection: %w", err)
	}
	old := e.selection
	e.selection = sel
	e.mu.Unlock()

	if old.Equal(sel) {
		return nil
	}
	ev := event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{Old: old, New: sel}, eventSource)
	if err := e.bus.Publish(context.Background(), ev); err != nil {
		e.logger.Warn("selection subscriber failed", "error", err)
	}
	return nil
}

// Slice returns the content between two positions.
func (e *Editor) Slice(from, to ModelPosition) (*model.Slice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, t, err := flatRange(e.doc, from, to)
	if err != nil {
		return nil, fmt.Errorf("slice: %w", err)
	}
	return e.doc.Slice(f, t)
}

// Text returns the text content of the document.
func (e *Editor) Text() string {
	return e.Doc().TextContent()
}

// Revision returns the current revision.
func (e *Editor) Revision() RevisionID {
	return e.tracker.Revision()
}

// ChangesSince returns the changes recorded after rev.
func (e *Editor) ChangesSince(rev RevisionID) []Change {
	return e.tracker.ChangesSince(rev)
}

// MapSince maps a flat offset taken at rev onto the current document.
func (e *Editor) MapSince(rev RevisionID, pos, assoc int) (int, error) {
	return e.tracker.MapSince(rev, pos, assoc)
}

// MapPositionSince maps a position taken at rev onto the current
// document. The position is resolved against the document stored for
// rev, which must still be held by the change log.
func (e *Editor) MapPositionSince(rev RevisionID, pos ModelPosition, assoc int) (ModelPosition, error) {
	r, ok := e.tracker.GetRevision(rev)
	if !ok {
		return ModelPosition{}, ErrRevisionNotFound
	}
	flat, err := position.ToFlatOffset(r.Doc(), pos)
	if err != nil {
		return ModelPosition{}, err
	}
	mapped, err := e.tracker.MapSince(rev, flat, assoc)
	if err != nil {
		return ModelPosition{}, err
	}
	return position.FromFlatOffset(e.Doc(), mapped)
}

// Tracker returns the change log.
func (e *Editor) Tracker() *tracking.Tracker {
	return e.tracker
}

// Snapshots

// CreateSnapshot records the current document under name.
func (e *Editor) CreateSnapshot(name string) SnapshotID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.CreateSnapshot(name, e.doc)
}

// DiffSinceSnapshot computes the structural diff from a snapshot to the
// current document.
func (e *Editor) DiffSinceSnapshot(id SnapshotID) (DiffResult, error) {
	return e.tracker.DiffSinceSnapshot(id, e.Doc())
}

// ChangesSinceSnapshot returns the changes recorded after a snapshot.
func (e *Editor) ChangesSinceSnapshot(id SnapshotID) ([]Change, error) {
	return e.tracker.ChangesSinceSnapshot(id)
}

// History

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// UndoInfo describes the undo entries, oldest first.
func (e *Editor) UndoInfo() []EntryInfo { return e.history.UndoInfo() }

// RedoInfo describes the redo entries, oldest first.
func (e *Editor) RedoInfo() []EntryInfo { return e.history.RedoInfo() }

// BeginGroup starts grouping edits into one undo entry.
func (e *Editor) BeginGroup(label string) { e.history.BeginGroup(label) }

// EndGroup closes the current group.
func (e *Editor) EndGroup() { e.history.EndGroup() }

// CancelGroup closes the current group without recording it.
func (e *Editor) CancelGroup() { e.history.CancelGroup() }

// Group runs fn with its edits grouped into one undo entry. The group is
// cancelled when fn fails.
func (e *Editor) Group(label string, fn func() error) error {
	return e.history.Transaction(label, fn)
}

// ClearHistory removes all undo and redo entries.
func (e *Editor) ClearHistory() { e.history.Clear() }

func flatRange(doc *model.Node, from, to ModelPosition) (int, int, error) {
	f, err := position.ToFlatOffset(doc, from)
	if err != nil {
		return 0, 0, err
	}
	t, err := position.ToFlatOffset(doc, to)
	if err != nil {
		return 0, 0, err
	}
	if f > t {
		f, t = t, f
	}
	return f, t, nil
}
