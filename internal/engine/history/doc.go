// Package history provides bounded undo/redo over whole-document snapshots.
//
// Documents are immutable, so a snapshot is just the root node that was
// current before an edit, together with the selection at that time:
//
//	h := history.NewHistory(100)
//
//	// Before replacing the document, record the old state.
//	h.Add(history.Snapshot{Doc: doc, Selection: sel, Label: "Insert text"})
//
//	// Undo hands back the prior state and remembers the current one.
//	prev, err := h.Undo(history.Snapshot{Doc: newDoc, Selection: newSel})
//
// Adding a snapshot clears the redo stack; any new edit invalidates forward
// history. When the undo stack exceeds its bound the oldest entry is
// evicted. History never branches.
//
// # Grouping
//
// Several edits can undo as one unit:
//
//	h.BeginGroup("Paste")
//	// ... several edits, each calling Add ...
//	h.EndGroup()
//
// Only the snapshot taken before the first edit of the group is recorded.
//
// # State
//
// State reports which stacks are non-empty: Empty, HasUndo, HasRedo, or
// Both.
package history
