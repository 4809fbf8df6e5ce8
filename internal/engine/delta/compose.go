package delta

// Compose returns the delta equivalent to applying a and then b.
//
// Inserts in b are copied through first, then deletes in a. A delete in b
// consumes the retained or inserted text of a it lands on. Overlapping
// retains and insert/retain pairs are consumed in chunks of the shorter
// length, composing attributes with b's values taking precedence. A nil
// attribute is kept when it lands on a retain and dropped from inserts.
//
// The result is not chopped: composing any delta with a plain retain of its
// full length returns the delta unchanged.
func Compose(a, b *Delta) *Delta {
	left := newIterator(a.ops)
	right := newIterator(b.ops)
	out := &Delta{}

	// A leading plain retain in b passes over whole inserts of a untouched.
	if first, ok := right.peek(); ok && first.IsRetain() && len(first.Attributes) == 0 {
		budget := first.N
		for left.peekType() == OpInsert && left.peekLength() <= budget {
			budget -= left.peekLength()
			out.Push(left.next(0))
		}
		if used := first.N - budget; used > 0 {
			right.next(used)
		}
	}

	for left.hasNext() || right.hasNext() {
		switch {
		case right.peekType() == OpInsert:
			out.Push(right.next(0))
		case left.peekType() == OpDelete:
			out.Push(left.next(0))
		default:
			length := min(left.peekLength(), right.peekLength())
			leftOp := left.next(length)
			rightOp := right.next(length)

			switch {
			case rightOp.IsRetain():
				var op Op
				if leftOp.IsRetain() {
					op = RetainOp(length, nil)
				} else {
					op = InsertOp(leftOp.Text, nil)
				}
				op.Attributes = ComposeAttributes(leftOp.Attributes, rightOp.Attributes, leftOp.IsRetain())
				out.Push(op)

				// The rest of b is an implicit retain, so the rest of a
				// carries over as is.
				if !right.hasNext() && out.ops[len(out.ops)-1].Equal(op) {
					return out.Concat(&Delta{ops: left.rest()})
				}
			case rightOp.IsDelete() && leftOp.IsRetain():
				out.Push(rightOp)
			}
			// A delete in b over an insert in a cancels both.
		}
	}
	return out
}

// Compose returns the delta equivalent to applying d and then other.
func (d *Delta) Compose(other *Delta) *Delta {
	return Compose(d, other)
}
