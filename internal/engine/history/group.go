package history

// GroupScope provides a convenient way to group edits using defer.
// Usage:
//
//	func pasteBlocks(h *History, ...) {
//	    defer h.GroupScope("Paste").End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (h *History) GroupScope(label string) *GroupScope {
	h.BeginGroup(label)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope without recording an entry.
// Note: Edits already applied still affect the document.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Transaction runs fn within a group.
// If fn returns an error, the group is cancelled.
// Otherwise, the group is ended normally.
func (h *History) Transaction(label string, fn func() error) error {
	h.BeginGroup(label)

	err := fn()
	if err != nil {
		h.CancelGroup()
		return err
	}

	h.EndGroup()
	return nil
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes every entry recorded since the checkpoint and
// returns the state at the checkpoint. When nothing was recorded since,
// current is returned unchanged.
func (h *History) UndoToCheckpoint(cp Checkpoint, current Snapshot) (Snapshot, error) {
	for h.UndoCount() > cp.undoDepth {
		prev, err := h.Undo(current)
		if err != nil {
			return current, err
		}
		current = prev
	}
	return current, nil
}

// RedoToCheckpoint redoes entries until the undo depth reaches the
// checkpoint again.
// Note: This only works if the redo stack has the entries.
func (h *History) RedoToCheckpoint(cp Checkpoint, current Snapshot) (Snapshot, error) {
	for h.UndoCount() < cp.undoDepth && h.CanRedo() {
		next, err := h.Redo(current)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}
