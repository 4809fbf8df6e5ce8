package tracking

import (
	"fmt"
	"strings"

	"github.com/dshills/richedit/internal/engine/transform"
)

// ChangeType categorizes a change by its effect on document size.
type ChangeType uint8

const (
	// ChangeInsert indicates content was inserted and nothing removed.
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates content was removed and nothing inserted.
	ChangeDelete

	// ChangeReplace indicates content was both removed and inserted.
	ChangeReplace

	// ChangeNone indicates a step that moved no positions, such as a
	// mark-only rewrite of equal size.
	ChangeNone
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	case ChangeNone:
		return "none"
	default:
		return "unknown"
	}
}

// Change is one applied step.
type Change struct {
	// Revision is the revision produced by the edit this step belongs to.
	Revision RevisionID

	// Step is the applied step.
	Step transform.Step

	// Map is the step's position map.
	Map *transform.StepMap

	// Label describes the edit, e.g. "Insert text".
	Label string
}

// NewChange creates a change for step.
func NewChange(rev RevisionID, step transform.Step, label string) Change {
	return Change{
		Revision: rev,
		Step:     step,
		Map:      step.StepMap(),
		Label:    label,
	}
}

// Removed returns the number of flat positions the step removed.
func (c Change) Removed() int {
	return c.sum(1)
}

// Inserted returns the number of flat positions the step inserted.
func (c Change) Inserted() int {
	return c.sum(2)
}

func (c Change) sum(field int) int {
	if c.Map == nil {
		return 0
	}
	ranges := c.Map.Ranges()
	total := 0
	for i := 0; i+2 < len(ranges); i += 3 {
		total += ranges[i+field]
	}
	return total
}

// Type classifies the change.
func (c Change) Type() ChangeType {
	removed, inserted := c.Removed(), c.Inserted()
	switch {
	case removed == 0 && inserted == 0:
		return ChangeNone
	case removed == 0:
		return ChangeInsert
	case inserted == 0:
		return ChangeDelete
	default:
		return ChangeReplace
	}
}

// Delta returns the size delta of this change.
// Positive means the document grew, negative means it shrank.
func (c Change) Delta() int {
	return c.Inserted() - c.Removed()
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	label := c.Label
	if len(label) > 20 {
		label = label[:17] + "..."
	}
	return fmt.Sprintf("r%d %s %v %q", c.Revision, c.Type(), c.Step, label)
}

// ChangeSet represents a collection of related changes.
// Changes are stored in the order they were applied.
type ChangeSet struct {
	// Changes in application order.
	Changes []Change

	// StartRevision is the revision before any changes.
	StartRevision RevisionID

	// EndRevision is the revision after all changes.
	EndRevision RevisionID
}

// NewChangeSet creates an empty change set starting at the given revision.
func NewChangeSet(startRevision RevisionID) *ChangeSet {
	return &ChangeSet{
		StartRevision: startRevision,
		EndRevision:   startRevision,
	}
}

// Add adds a change to the set.
func (cs *ChangeSet) Add(c Change) {
	cs.Changes = append(cs.Changes, c)
	cs.EndRevision = c.Revision
}

// Len returns the number of changes.
func (cs *ChangeSet) Len() int {
	return len(cs.Changes)
}

// IsEmpty returns true if there are no changes.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Changes) == 0
}

// Steps returns the steps of the set in order.
func (cs *ChangeSet) Steps() []transform.Step {
	steps := make([]transform.Step, len(cs.Changes))
	for i, c := range cs.Changes {
		steps[i] = c.Step
	}
	return steps
}

// Mapping returns a mapping through every change in the set.
func (cs *ChangeSet) Mapping() *transform.Mapping {
	m := transform.NewMapping()
	for _, c := range cs.Changes {
		m.AppendMap(c.Map)
	}
	return m
}

// TotalDelta returns the total size delta of all changes.
func (cs *ChangeSet) TotalDelta() int {
	var delta int
	for _, c := range cs.Changes {
		delta += c.Delta()
	}
	return delta
}

// Summary returns a human-readable summary of the changes.
func (cs *ChangeSet) Summary() string {
	if cs.IsEmpty() {
		return "no changes"
	}

	var inserts, deletes, replaces int
	var inserted, removed int

	for _, c := range cs.Changes {
		switch c.Type() {
		case ChangeInsert:
			inserts++
		case ChangeDelete:
			deletes++
		case ChangeReplace:
			replaces++
		}
		inserted += c.Inserted()
		removed += c.Removed()
	}

	var parts []string
	if inserts > 0 {
		parts = append(parts, fmt.Sprintf("%d inserts", inserts))
	}
	if deletes > 0 {
		parts = append(parts, fmt.Sprintf("%d deletes", deletes))
	}
	if replaces > 0 {
		parts = append(parts, fmt.Sprintf("%d replaces", replaces))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d steps, no size change", len(cs.Changes))
	}
	parts = append(parts, fmt.Sprintf("+%d/-%d positions", inserted, removed))

	return strings.Join(parts, ", ")
}
