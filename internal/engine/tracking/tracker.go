package tracking

import (
	"sync"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/transform"
)

// DefaultMaxChanges is the default maximum number of changes to track.
const DefaultMaxChanges = 10000

// DefaultMaxRevisions is the default maximum number of revisions to store.
const DefaultMaxRevisions = 100

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxChanges sets the maximum number of changes to track.
// IMPORTANT: This option must only be used during Tracker creation via NewTracker.
// Applying it to an existing Tracker with recorded changes will discard those changes.
func WithMaxChanges(maxChanges int) TrackerOption {
	return func(t *Tracker) {
		if maxChanges <= 0 {
			maxChanges = DefaultMaxChanges
		}
		t.maxChanges = maxChanges
		t.changes = make([]Change, maxChanges)
	}
}

// WithMaxRevisions sets the maximum number of revisions to store.
func WithMaxRevisions(maxRevisions int) TrackerOption {
	return func(t *Tracker) {
		t.revisions = newRevisionStore(maxRevisions)
	}
}

// Tracker records applied steps for revision queries.
// It maintains a bounded history of changes and supports named snapshots.
// All operations are thread-safe.
type Tracker struct {
	mu sync.RWMutex

	// Recent changes in a ring buffer
	changes    []Change
	head       int // Index of oldest entry
	count      int // Number of entries
	maxChanges int

	// revision is the latest recorded revision. evicted is the newest
	// revision with at least one change dropped from the ring.
	revision RevisionID
	evicted  RevisionID

	// Documents at recent revisions
	revisions *revisionStore

	// Named snapshots
	snapshots *SnapshotManager
}

// NewTracker creates a new change tracker with default settings.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxChanges: DefaultMaxChanges,
		changes:    make([]Change, DefaultMaxChanges),
		revisions:  newRevisionStore(DefaultMaxRevisions),
		snapshots:  NewSnapshotManager(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Record records the steps of one edit and the document they produced.
// All steps share the new revision, which is returned.
func (t *Tracker) Record(label string, steps []transform.Step, doc *model.Node) RevisionID {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.revision++
	for _, step := range steps {
		t.recordChangeLocked(NewChange(t.revision, step, label))
	}
	if doc != nil {
		t.revisions.Add(NewRevision(t.revision, doc))
	}
	return t.revision
}

// recordChangeLocked adds a change to the ring buffer (must hold lock).
func (t *Tracker) recordChangeLocked(change Change) {
	idx := (t.head + t.count) % t.maxChanges
	if t.count < t.maxChanges {
		t.count++
	} else {
		// Ring buffer is full, advance head
		t.evicted = t.changes[t.head].Revision
		t.head = (t.head + 1) % t.maxChanges
	}

	t.changes[idx] = change
}

// Revision returns the latest recorded revision.
func (t *Tracker) Revision() RevisionID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}

// ChangesSince returns all changes since a revision.
// Returns changes in chronological order.
func (t *Tracker) ChangesSince(rev RevisionID) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changesBetweenLocked(rev, t.revision, 0)
}

// ChangesSinceWithLimit returns up to limit changes since a revision.
func (t *Tracker) ChangesSinceWithLimit(rev RevisionID, limit int) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changesBetweenLocked(rev, t.revision, limit)
}

// ChangesBetween returns changes between two revisions (exclusive start, inclusive end).
func (t *Tracker) ChangesBetween(startRev, endRev RevisionID) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changesBetweenLocked(startRev, endRev, 0)
}

// LatestChanges returns the most recent N changes.
func (t *Tracker) LatestChanges(n int) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > t.count {
		n = t.count
	}
	if n < 0 {
		n = 0
	}

	result := make([]Change, n)
	for i := 0; i < n; i++ {
		// Start from the most recent
		idx := (t.head + t.count - 1 - i) % t.maxChanges
		result[n-1-i] = t.changes[idx] // Reverse to get chronological order
	}

	return result
}

// ChangeCount returns the number of tracked changes.
func (t *Tracker) ChangeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// MappingSince returns a mapping from documents at rev to the current
// document. It fails with ErrRevisionNotFound when rev is in the future or
// when changes after it have been evicted.
func (t *Tracker) MappingSince(rev RevisionID) (*transform.Mapping, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.checkRevisionLocked(rev); err != nil {
		return nil, err
	}
	m := transform.NewMapping()
	for _, c := range t.changesBetweenLocked(rev, t.revision, 0) {
		m.AppendMap(c.Map)
	}
	return m, nil
}

// MapSince maps a flat offset taken at rev onto the current document.
func (t *Tracker) MapSince(rev RevisionID, pos, assoc int) (int, error) {
	m, err := t.MappingSince(rev)
	if err != nil {
		return 0, err
	}
	return m.Map(pos, assoc), nil
}

// Snapshot Operations

// CreateSnapshot creates a named snapshot of doc at the current revision.
func (t *Tracker) CreateSnapshot(name string, doc *model.Node) SnapshotID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshots.Create(name, doc, t.revision)
}

// GetSnapshot retrieves a snapshot by ID.
func (t *Tracker) GetSnapshot(id SnapshotID) (*Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.snapshots.Get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (t *Tracker) GetSnapshotByName(name string) (*Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.snapshots.GetByName(name)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (t *Tracker) DeleteSnapshot(id SnapshotID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots.Delete(id)
}

// DeleteSnapshotByName removes a snapshot by name.
func (t *Tracker) DeleteSnapshotByName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots.DeleteByName(name)
}

// ListSnapshots returns all snapshots.
func (t *Tracker) ListSnapshots() []*Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshots.List()
}

// SnapshotCount returns the number of snapshots.
func (t *Tracker) SnapshotCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshots.Count()
}

// Diff Operations

// ChangesSinceSnapshot returns the recorded changes since a snapshot.
func (t *Tracker) ChangesSinceSnapshot(id SnapshotID) ([]Change, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.snapshots.Get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	return t.changesBetweenLocked(snap.Revision, t.revision, 0), nil
}

// DiffSinceSnapshot computes a structural diff from a snapshot to current.
func (t *Tracker) DiffSinceSnapshot(id SnapshotID, current *model.Node) (DiffResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.snapshots.Get(id)
	if !ok {
		return DiffResult{}, ErrSnapshotNotFound
	}

	return ComputeDiff(snap.Doc(), current), nil
}

// DiffBetweenSnapshots computes a structural diff between two snapshots.
func (t *Tracker) DiffBetweenSnapshots(fromID, toID SnapshotID) (DiffResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fromSnap, ok := t.snapshots.Get(fromID)
	if !ok {
		return DiffResult{}, ErrSnapshotNotFound
	}

	toSnap, ok := t.snapshots.Get(toID)
	if !ok {
		return DiffResult{}, ErrSnapshotNotFound
	}

	return ComputeDiff(fromSnap.Doc(), toSnap.Doc()), nil
}

// Revision Operations

// GetRevision retrieves a stored revision.
func (t *Tracker) GetRevision(id RevisionID) (*Revision, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.Get(id)
}

// RevisionCount returns the number of stored revisions.
func (t *Tracker) RevisionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.Len()
}

// Internal helpers

func (t *Tracker) checkRevisionLocked(rev RevisionID) error {
	if rev > t.revision || rev < t.evicted {
		return ErrRevisionNotFound
	}
	return nil
}

// changesBetweenLocked returns changes in (start, end], at most limit of
// them when limit is positive (must hold lock).
func (t *Tracker) changesBetweenLocked(start, end RevisionID, limit int) []Change {
	var result []Change
	for i := 0; i < t.count; i++ {
		if limit > 0 && len(result) >= limit {
			break
		}
		c := t.changes[(t.head+i)%t.maxChanges]
		if c.Revision > start && c.Revision <= end {
			result = append(result, c)
		}
	}
	return result
}

// Clear removes all tracked changes, revisions, and snapshots. The
// revision counter keeps counting so old revision ids stay invalid.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.head = 0
	t.count = 0
	t.evicted = t.revision
	t.revisions.Clear()
	t.snapshots.Clear()
}

// ChangeSet Operations

// BuildChangeSet creates a ChangeSet from changes since a revision.
func (t *Tracker) BuildChangeSet(sinceRev RevisionID) *ChangeSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buildChangeSetLocked(sinceRev, t.revision)
}

// BuildChangeSetBetween creates a ChangeSet for changes between two revisions.
func (t *Tracker) BuildChangeSetBetween(startRev, endRev RevisionID) *ChangeSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buildChangeSetLocked(startRev, endRev)
}

func (t *Tracker) buildChangeSetLocked(start, end RevisionID) *ChangeSet {
	cs := NewChangeSet(start)
	for _, c := range t.changesBetweenLocked(start, end, 0) {
		cs.Add(c)
	}
	return cs
}
