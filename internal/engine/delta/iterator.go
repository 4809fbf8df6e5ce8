package delta

import "math"

// infinity stands for the implicit retain past the end of a delta.
const infinity = math.MaxInt

// iterator walks a delta's ops and can consume them partially.
type iterator struct {
	ops    []Op
	index  int
	offset int
}

func newIterator(ops []Op) *iterator {
	return &iterator{ops: ops}
}

func (it *iterator) hasNext() bool {
	return it.peekLength() < infinity
}

func (it *iterator) peek() (Op, bool) {
	if it.index >= len(it.ops) {
		return Op{}, false
	}
	return it.ops[it.index], true
}

// peekType returns the type of the next op. An exhausted iterator
// reports an endless retain.
func (it *iterator) peekType() OpType {
	op, ok := it.peek()
	if !ok {
		return OpRetain
	}
	return op.Type
}

func (it *iterator) peekLength() int {
	op, ok := it.peek()
	if !ok {
		return infinity
	}
	return op.Len() - it.offset
}

// next consumes up to length units of the current op. A length of zero or
// less consumes the rest of it.
func (it *iterator) next(length int) Op {
	if length <= 0 {
		length = infinity
	}
	op, ok := it.peek()
	if !ok {
		return RetainOp(infinity, nil)
	}

	offset := it.offset
	remaining := op.Len() - offset
	if length >= remaining {
		length = remaining
		it.index++
		it.offset = 0
	} else {
		it.offset += length
	}

	switch op.Type {
	case OpDelete:
		return DeleteOp(length)
	case OpRetain:
		return RetainOp(length, op.Attributes.Clone())
	default:
		if offset == 0 && length == remaining {
			return InsertOp(op.Text, op.Attributes.Clone())
		}
		runes := []rune(op.Text)
		return InsertOp(string(runes[offset:offset+length]), op.Attributes.Clone())
	}
}

// rest returns the unconsumed ops, the current one cut at the offset.
func (it *iterator) rest() []Op {
	if !it.hasNext() {
		return nil
	}
	if it.offset == 0 {
		return it.ops[it.index:]
	}
	offset, index := it.offset, it.index
	first := it.next(0)
	out := append([]Op{first}, it.ops[it.index:]...)
	it.offset, it.index = offset, index
	return out
}
