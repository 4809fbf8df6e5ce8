package engine

import (
	"errors"

	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/engine/tracking"
	"github.com/dshills/richedit/internal/engine/transform"
)

// Errors returned by editor operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only editor.
	ErrReadOnly = errors.New("editor is read-only")

	// ErrStaleTransform indicates a transform built against a document
	// other than the current one.
	ErrStaleTransform = errors.New("transform does not start at the current document")

	// ErrSchemaMismatch indicates a document built from another schema.
	ErrSchemaMismatch = errors.New("document belongs to a different schema")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrNotTextblock indicates an inline edit addressed a non-textblock.
	ErrNotTextblock = transform.ErrNotTextblock

	// ErrSnapshotNotFound indicates a snapshot was not found.
	ErrSnapshotNotFound = tracking.ErrSnapshotNotFound

	// ErrRevisionNotFound indicates a revision is unknown or evicted.
	ErrRevisionNotFound = tracking.ErrRevisionNotFound

	// ErrLengthMismatch indicates a delta longer than its target block.
	ErrLengthMismatch = delta.ErrLengthMismatch
)
