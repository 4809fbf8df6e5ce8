package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Delta is an ordered sequence of ops. The zero value is an empty delta.
//
// Ops are pushed through the coalescing rules, so a Delta built with its
// methods is always in canonical form.
type Delta struct {
	ops []Op
}

// New returns a delta holding ops, pushed in order.
func New(ops ...Op) *Delta {
	d := &Delta{}
	for _, op := range ops {
		d.Push(op)
	}
	return d
}

// Ops returns the ops. The slice is shared with the delta and must not be
// modified.
func (d *Delta) Ops() []Op { return d.ops }

// Len returns the number of ops.
func (d *Delta) Len() int { return len(d.ops) }

// Insert appends an insert.
func (d *Delta) Insert(text string, attrs AttributeMap) *Delta {
	return d.Push(InsertOp(text, attrs))
}

// Retain appends a retain.
func (d *Delta) Retain(n int, attrs AttributeMap) *Delta {
	return d.Push(RetainOp(n, attrs))
}

// Delete appends a delete.
func (d *Delta) Delete(n int) *Delta {
	return d.Push(DeleteOp(n))
}

// Push appends op, merging it into the previous op when both have the same
// kind and attributes.
//
// Zero-length ops are dropped. An insert pushed after a delete goes in
// front of it. A bare "\n" insert never merges with the text before it,
// and no text merges onto an insert that ends in "\n".
func (d *Delta) Push(op Op) *Delta {
	if op.Len() <= 0 {
		return d
	}
	if op.IsDelete() {
		op.Attributes = nil
	} else {
		op.Attributes = op.Attributes.Clone()
	}

	index := len(d.ops)
	if index > 0 {
		last := d.ops[index-1]
		if op.IsDelete() && last.IsDelete() {
			d.ops[index-1] = DeleteOp(last.N + op.N)
			return d
		}
		if last.IsDelete() && op.IsInsert() {
			index--
			if index == 0 {
				d.ops = slices.Insert(d.ops, 0, op)
				return d
			}
			last = d.ops[index-1]
		}
		if op.Attributes.Equal(last.Attributes) {
			switch {
			case op.IsInsert() && last.IsInsert() && joinable(last.Text, op.Text):
				d.ops[index-1] = InsertOp(last.Text+op.Text, last.Attributes)
				return d
			case op.IsRetain() && last.IsRetain():
				d.ops[index-1] = RetainOp(last.N+op.N, last.Attributes)
				return d
			}
		}
	}

	d.ops = slices.Insert(d.ops, index, op)
	return d
}

func joinable(before, after string) bool {
	return after != "\n" && !strings.HasSuffix(before, "\n")
}

// Concat returns a new delta with other's ops pushed after d's.
func (d *Delta) Concat(other *Delta) *Delta {
	out := &Delta{ops: slices.Clone(d.ops)}
	for _, op := range other.ops {
		out.Push(op)
	}
	return out
}

// Chop returns the delta without a trailing unattributed retain.
func (d *Delta) Chop() *Delta {
	out := &Delta{ops: slices.Clone(d.ops)}
	if n := len(out.ops); n > 0 {
		last := out.ops[n-1]
		if last.IsRetain() && len(last.Attributes) == 0 {
			out.ops = out.ops[:n-1]
		}
	}
	return out
}

// Length returns the length of the text the delta produces: inserted plus
// retained code points.
func (d *Delta) Length() int {
	n := 0
	for _, op := range d.ops {
		if !op.IsDelete() {
			n += op.Len()
		}
	}
	return n
}

// BaseLength returns the length of text the delta consumes: retained plus
// deleted code points.
func (d *Delta) BaseLength() int {
	n := 0
	for _, op := range d.ops {
		if !op.IsInsert() {
			n += op.N
		}
	}
	return n
}

// IsNoop reports whether applying the delta changes nothing.
func (d *Delta) IsNoop() bool {
	for _, op := range d.ops {
		if !op.IsRetain() || len(op.Attributes) > 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two deltas hold identical ops.
func (d *Delta) Equal(other *Delta) bool {
	return slices.EqualFunc(d.ops, other.ops, Op.Equal)
}

func (d *Delta) String() string {
	parts := make([]string, len(d.ops))
	for i, op := range d.ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Apply applies the delta to plain text. Attributes are ignored. Text past
// the delta's base length is kept unchanged; a base length longer than the
// text is ErrLengthMismatch.
func (d *Delta) Apply(text string) (string, error) {
	runes := []rune(text)
	if base := d.BaseLength(); base > len(runes) {
		return "", fmt.Errorf("apply delta of base length %d to %d characters: %w", base, len(runes), ErrLengthMismatch)
	}

	var b strings.Builder
	pos := 0
	for _, op := range d.ops {
		switch op.Type {
		case OpInsert:
			b.WriteString(op.Text)
		case OpRetain:
			b.WriteString(string(runes[pos : pos+op.N]))
			pos += op.N
		case OpDelete:
			pos += op.N
		}
	}
	b.WriteString(string(runes[pos:]))
	return b.String(), nil
}

type deltaJSON struct {
	Ops []Op `json:"ops"`
}

// MarshalJSON encodes the delta as {"ops": [...]}.
func (d *Delta) MarshalJSON() ([]byte, error) {
	ops := d.ops
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(deltaJSON{Ops: ops})
}

// UnmarshalJSON decodes {"ops": [...]} or a bare op array. Ops are pushed
// through the coalescing rules.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var ops []Op
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ops); err != nil {
			return fmt.Errorf("decode delta: %w", err)
		}
	} else {
		var raw deltaJSON
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("decode delta: %w", err)
		}
		ops = raw.Ops
	}

	d.ops = nil
	for _, op := range ops {
		d.Push(op)
	}
	return nil
}
