// Package transform provides structural edits over document trees.
//
// A Step is an atomic, invertible edit expressed over flat offsets.
// ReplaceStep is the one concrete step: it replaces the range [From, To)
// with a Slice, joining the slice's open sides with the nodes at the range
// boundaries. Every step exposes a StepMap describing how it moves
// positions, and a Mapping chains step maps so a position taken before a
// sequence of steps can be carried through all of them.
//
// DiffFragment derives a ReplaceStep from two versions of a node sequence
// using a greedy common prefix and suffix scan. It is minimal when the
// change is one contiguous region; an interior insertion identical to
// later content can yield a wider span than necessary.
//
// Transform accumulates steps against a document and is the unit the
// editor applies atomically:
//
//	tr := transform.New(doc)
//	if err := tr.InsertText(2, "X"); err != nil {
//	    return err
//	}
//	newDoc := tr.Doc()
package transform
