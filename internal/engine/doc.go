// Package engine provides the editing core of richedit.
//
// The engine package serves as the main facade. An Editor owns the
// current document and combines structural transforms, undo/redo, change
// tracking, and change notification into one thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - model: schemas, content expressions, and the immutable node tree
//   - position: path/offset positions, flat offsets, and selections
//   - transform: replace steps, step maps, and fragment diffs
//   - delta: flat insert/retain/delete ops and their composition
//   - history: snapshot-based undo/redo with grouping
//   - tracking: revision log, position mapping, and named snapshots
//
// # Basic Usage
//
//	schema := basic.MustNew()
//	b := basic.NewBuilder(schema)
//	ed, _ := engine.New(schema, engine.WithDoc(b.Doc(b.P("Hello"))))
//
//	// Insert after "Hello": path [0 0] is the text node, offset 5.
//	ed.InsertText(position.At(5, 0, 0), " world")
//
//	ed.Text() // "Hello world"
//	ed.Undo()
//	ed.Text() // "Hello"
//
// # Deltas
//
// A textblock can be edited with a flat delta over its inline content:
//
//	d := delta.New().Retain(5, nil).Insert("!", delta.AttributeMap{"strong": true})
//	ed.ApplyDelta([]int{0}, d)
//
// The delta is lowered to a ReplaceStep, so history and change tracking
// see the same steps as for any other edit.
//
// # Change Notification
//
// Every applied edit publishes an events.DocumentChanged on the editor's
// bus. While subscribers run, and until the scheduler acknowledges the
// change, new edits are not applied. They are queued, reported as
// Result{Deferred: true}, and applied in order afterwards:
//
//	q := &engine.QueueScheduler{}
//	ed, _ := engine.New(schema, engine.WithScheduler(q))
//	ed.InsertText(pos, "a") // applied, propagating
//	ed.InsertText(pos, "b") // deferred
//	q.Flush()               // "b" applied
//
// # Read-Only Mode
//
// An editor created with WithReadOnly rejects edits with ErrReadOnly.
package engine
