package events

import (
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/tracking"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event/topic"
)

// Document event topics.
const (
	// TopicDocumentChanged is published after an edit is applied.
	TopicDocumentChanged topic.Topic = "document.changed"

	// TopicDocumentReplaced is published when the document is replaced
	// wholesale and history is reset.
	TopicDocumentReplaced topic.Topic = "document.replaced"

	// TopicSelectionChanged is published when the selection is set
	// directly.
	TopicSelectionChanged topic.Topic = "selection.changed"

	// TopicSchemaReloaded is published when a watched schema file is
	// reloaded.
	TopicSchemaReloaded topic.Topic = "schema.reloaded"
)

// Origin says what produced a change.
type Origin string

// Change origins.
const (
	OriginEdit      Origin = "edit"
	OriginUndo      Origin = "undo"
	OriginRedo      Origin = "redo"
	OriginDelta     Origin = "delta"
	OriginReconcile Origin = "reconcile"
)

// DocumentChanged is published after an edit is applied.
type DocumentChanged struct {
	// Revision is the tracker revision produced by the edit.
	Revision tracking.RevisionID

	// Label describes the edit, e.g. "Insert text".
	Label string

	// Origin says what produced the edit.
	Origin Origin

	// Steps are the applied steps, in order.
	Steps []transform.Step

	// Before is the document before the edit; Doc is the document after.
	Before *model.Node
	Doc    *model.Node

	// Selection is the selection after mapping through the steps.
	Selection position.Selection
}

// DocumentReplaced is published when the document is replaced.
type DocumentReplaced struct {
	Revision tracking.RevisionID
	Doc      *model.Node
}

// SelectionChanged is published when the selection is set directly.
type SelectionChanged struct {
	Old position.Selection
	New position.Selection
}

// SchemaReloaded is published when a watched schema file is reloaded.
type SchemaReloaded struct {
	// Path is the schema file.
	Path string

	// Schema is the newly built schema.
	Schema *model.Schema
}
