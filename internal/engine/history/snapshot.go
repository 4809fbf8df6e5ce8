package history

import (
	"time"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
)

// Snapshot is a document state that can be returned to.
type Snapshot struct {
	// Doc is the root node of the document.
	Doc *model.Node

	// Selection is the selection in Doc.
	Selection position.Selection

	// Label describes the edit that left this state, e.g. "Insert text".
	Label string
}

// EntryInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type EntryInfo struct {
	Label     string    // Human-readable description
	Timestamp time.Time // When the entry was recorded
	DocSize   int       // Flat size of the recorded document
}

// State summarizes which history stacks hold entries.
type State uint8

const (
	// StateEmpty means there is nothing to undo or redo.
	StateEmpty State = iota

	// StateHasUndo means only undo is available.
	StateHasUndo

	// StateHasRedo means only redo is available.
	StateHasRedo

	// StateBoth means undo and redo are both available.
	StateBoth
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHasUndo:
		return "has-undo"
	case StateHasRedo:
		return "has-redo"
	case StateBoth:
		return "both"
	default:
		return "unknown"
	}
}

// entry wraps a snapshot with metadata.
type entry struct {
	snapshot  Snapshot
	timestamp time.Time
}

func (e *entry) info() EntryInfo {
	info := EntryInfo{Label: e.snapshot.Label, Timestamp: e.timestamp}
	if e.snapshot.Doc != nil {
		info.DocSize = e.snapshot.Doc.NodeSize()
	}
	return info
}
