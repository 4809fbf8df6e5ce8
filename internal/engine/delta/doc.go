// Package delta provides the flat change representation of the editing
// core: a sequence of insert, retain, and delete operations carrying
// attribute maps.
//
// A Delta describes a change to a run of characters. Retain and delete
// lengths and insert text are measured in Unicode code points:
//
//	d := delta.New().
//	    Retain(5, nil).
//	    Insert(" world", delta.AttributeMap{"bold": true})
//
// Deltas are built greedily: an op pushed next to an op of the same kind
// and attributes is merged into it, zero-length ops are dropped, and an
// insert pushed after a delete is placed before it. A bare "\n" insert is
// a paragraph-break marker and is never merged with text on either side.
//
// Compose(a, b) returns the single delta equivalent to applying a and then
// b. A nil attribute value means "remove this attribute". It survives
// composition onto a retain, where it still has something to remove, and
// is stripped from inserts.
//
// Deltas are a derived convenience for attribute and text edits inside a
// single textblock. Tree edits are expressed with transform.Step; the
// editor lowers deltas to steps before applying them.
package delta
