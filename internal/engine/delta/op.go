package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// OpType identifies the kind of an op.
type OpType uint8

const (
	// OpInsert inserts Text.
	OpInsert OpType = iota

	// OpRetain keeps N characters, applying Attributes to them.
	OpRetain

	// OpDelete removes N characters.
	OpDelete
)

// String returns the serialized name of the op type.
func (t OpType) String() string {
	switch t {
	case OpInsert:
		return "insert"
	case OpRetain:
		return "retain"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is a single operation of a delta.
type Op struct {
	Type OpType

	// Text is the inserted text. Only set for inserts.
	Text string

	// N is the retained or deleted length. Unused for inserts.
	N int

	// Attributes applies to inserted or retained text. Deletes carry none.
	Attributes AttributeMap
}

// InsertOp returns an insert op.
func InsertOp(text string, attrs AttributeMap) Op {
	return Op{Type: OpInsert, Text: text, Attributes: attrs}
}

// RetainOp returns a retain op.
func RetainOp(n int, attrs AttributeMap) Op {
	return Op{Type: OpRetain, N: n, Attributes: attrs}
}

// DeleteOp returns a delete op.
func DeleteOp(n int) Op {
	return Op{Type: OpDelete, N: n}
}

// Len returns the op length in code points.
func (o Op) Len() int {
	if o.Type == OpInsert {
		return utf8.RuneCountInString(o.Text)
	}
	return o.N
}

// IsInsert reports whether the op is an insert.
func (o Op) IsInsert() bool { return o.Type == OpInsert }

// IsRetain reports whether the op is a retain.
func (o Op) IsRetain() bool { return o.Type == OpRetain }

// IsDelete reports whether the op is a delete.
func (o Op) IsDelete() bool { return o.Type == OpDelete }

// Equal reports whether two ops are identical.
func (o Op) Equal(other Op) bool {
	if o.Type != other.Type || !o.Attributes.Equal(other.Attributes) {
		return false
	}
	if o.Type == OpInsert {
		return o.Text == other.Text
	}
	return o.N == other.N
}

// String returns a compact representation such as insert("abc")map[bold:true].
func (o Op) String() string {
	var s string
	switch o.Type {
	case OpInsert:
		s = fmt.Sprintf("insert(%q)", o.Text)
	default:
		s = fmt.Sprintf("%s(%d)", o.Type, o.N)
	}
	if len(o.Attributes) > 0 {
		s += fmt.Sprintf("%v", map[string]any(o.Attributes))
	}
	return s
}

type opJSON struct {
	Insert     *string      `json:"insert,omitempty"`
	Retain     *int         `json:"retain,omitempty"`
	Delete     *int         `json:"delete,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// MarshalJSON encodes the op as {"insert": "..."}, {"retain": n}, or
// {"delete": n}, with an optional "attributes" object.
func (o Op) MarshalJSON() ([]byte, error) {
	var raw opJSON
	switch o.Type {
	case OpInsert:
		raw.Insert = &o.Text
		raw.Attributes = o.Attributes
	case OpRetain:
		raw.Retain = &o.N
		raw.Attributes = o.Attributes
	case OpDelete:
		raw.Delete = &o.N
	default:
		return nil, fmt.Errorf("marshal op type %d: %w", o.Type, ErrInvalidOp)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an op. Exactly one of insert, retain, or delete
// must be present.
func (o *Op) UnmarshalJSON(data []byte) error {
	var raw opJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode op: %w", err)
	}

	set := 0
	for _, present := range []bool{raw.Insert != nil, raw.Retain != nil, raw.Delete != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("decode op %s: %w", data, ErrInvalidOp)
	}

	attrs := normalizeNumbers(raw.Attributes)
	switch {
	case raw.Insert != nil:
		*o = InsertOp(*raw.Insert, attrs)
	case raw.Retain != nil:
		if *raw.Retain < 0 {
			return fmt.Errorf("decode op: negative retain: %w", ErrInvalidOp)
		}
		*o = RetainOp(*raw.Retain, attrs)
	default:
		if *raw.Delete < 0 {
			return fmt.Errorf("decode op: negative delete: %w", ErrInvalidOp)
		}
		if len(raw.Attributes) > 0 {
			return fmt.Errorf("decode op: delete with attributes: %w", ErrInvalidOp)
		}
		*o = DeleteOp(*raw.Delete)
	}
	return nil
}

// normalizeNumbers turns json.Number values into int64 when integral and
// float64 otherwise.
func normalizeNumbers(attrs AttributeMap) AttributeMap {
	if len(attrs) == 0 {
		return nil
	}
	for k, v := range attrs {
		attrs[k] = normalizeValue(v)
	}
	return attrs
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeValue(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeValue(inner)
		}
		return t
	}
	return v
}
