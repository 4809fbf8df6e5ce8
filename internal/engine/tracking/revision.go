package tracking

import (
	"time"

	"github.com/dshills/richedit/internal/engine/model"
)

// RevisionID identifies a document state. Revision 0 is the state before
// anything was recorded; every recorded edit increments it.
type RevisionID uint64

// Revision captures a document at a point in time. Documents are
// immutable, so holding one costs a pointer.
type Revision struct {
	// ID uniquely identifies this revision.
	ID RevisionID

	// Timestamp when this revision was created.
	Timestamp time.Time

	doc *model.Node
}

// NewRevision creates a new revision with the given ID and document.
func NewRevision(id RevisionID, doc *model.Node) *Revision {
	return &Revision{
		ID:        id,
		Timestamp: time.Now(),
		doc:       doc,
	}
}

// Doc returns the document at this revision.
func (r *Revision) Doc() *model.Node {
	return r.doc
}

// Size returns the flat size of the document content at this revision.
func (r *Revision) Size() int {
	if r.doc == nil {
		return 0
	}
	return r.doc.ContentSize()
}

// revisionStore manages a bounded collection of revisions.
// It uses a map for fast lookup while maintaining a bounded size.
type revisionStore struct {
	revisions  map[RevisionID]*Revision
	maxEntries int
}

// newRevisionStore creates a new revision store with the given capacity.
func newRevisionStore(maxEntries int) *revisionStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxRevisions
	}
	return &revisionStore{
		revisions:  make(map[RevisionID]*Revision),
		maxEntries: maxEntries,
	}
}

// Add stores a revision, evicting the oldest entries if necessary.
func (rs *revisionStore) Add(rev *Revision) {
	rs.revisions[rev.ID] = rev
	rs.cleanup()
}

// Get retrieves a revision by ID.
func (rs *revisionStore) Get(id RevisionID) (*Revision, bool) {
	rev, ok := rs.revisions[id]
	return rev, ok
}

// cleanup removes oldest revisions to stay within capacity.
func (rs *revisionStore) cleanup() {
	for len(rs.revisions) > rs.maxEntries {
		first := true
		var oldest RevisionID
		for id := range rs.revisions {
			if first || id < oldest {
				oldest = id
				first = false
			}
		}
		delete(rs.revisions, oldest)
	}
}

// Len returns the number of stored revisions.
func (rs *revisionStore) Len() int {
	return len(rs.revisions)
}

// Clear removes all revisions.
func (rs *revisionStore) Clear() {
	rs.revisions = make(map[RevisionID]*Revision)
}
