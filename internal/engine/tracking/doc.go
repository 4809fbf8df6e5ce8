// Package tracking records the steps applied to a document so that hosts
// can ask what changed since a given revision.
//
// This package supports:
//   - Revision-based change queries ("what changed since revision X?")
//   - Mapping stale flat offsets forward across recorded steps
//   - Named snapshots for checkpointing document state
//   - Structural diffs between a snapshot and the current document
//
// # Core Components
//
//   - [Change]: one applied step plus its step map and label
//   - [Snapshot]: a named checkpoint of a document
//   - [Tracker]: records changes and answers queries
//   - [DiffResult]: a structural diff lowered to replace steps
//
// # Usage
//
// Record each applied step together with the document it produced:
//
//	tracker := tracking.NewTracker()
//	rev := tracker.Record("Insert text", tr.Steps(), tr.Doc())
//
//	// Later, map an offset taken at rev onto the current document.
//	pos, err := tracker.MapSince(rev, offset, 1)
//
// # Snapshots
//
//	id := tracker.CreateSnapshot("before_script", doc)
//	diff, err := tracker.DiffSinceSnapshot(id, currentDoc)
//
// # Thread Safety
//
// All Tracker operations are thread-safe through internal locking.
// Documents are immutable, so snapshots and revisions share structure
// with the live document.
package tracking
