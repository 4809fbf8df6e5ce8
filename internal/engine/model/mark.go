package model

import (
	"sort"
	"strings"
)

// Mark is an inline annotation attached to a text node or inline atom.
type Mark struct {
	typ   *MarkType
	attrs Attrs
}

// Type returns the mark type.
func (m *Mark) Type() *MarkType { return m.typ }

// Attrs returns a copy of the mark attributes.
func (m *Mark) Attrs() Attrs { return m.attrs.Clone() }

// Attr returns one attribute value.
func (m *Mark) Attr(key string) any { return m.attrs[key] }

// Eq reports whether two marks have the same type and attributes.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	return m.typ == other.typ && m.attrs.Equal(other.attrs)
}

// IsInSet reports whether an equal mark is in set.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, o := range set {
		if m.Eq(o) {
			return true
		}
	}
	return false
}

// AddToSet returns set with m added, replacing any mark of the same type.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	out := make([]*Mark, 0, len(set)+1)
	for _, o := range set {
		if o.typ != m.typ {
			out = append(out, o)
		}
	}
	out = append(out, m)
	return NormalizeMarks(out)
}

// RemoveFromSet returns set without marks equal to m.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	out := make([]*Mark, 0, len(set))
	for _, o := range set {
		if !m.Eq(o) {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (m *Mark) String() string {
	if len(m.attrs) == 0 {
		return m.typ.name
	}
	return m.typ.name + m.attrs.String()
}

// NormalizeMarks returns a mark set sorted by type name with duplicate
// (type, attrs) pairs and nil marks removed. The input is not modified.
func NormalizeMarks(marks []*Mark) []*Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]*Mark, 0, len(marks))
	for _, m := range marks {
		if m == nil || m.IsInSet(out) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].typ.name < out[j].typ.name
	})
	return out
}

// SameMarkSet reports whether two mark sets contain the same marks,
// regardless of order.
func SameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		if !m.IsInSet(b) {
			return false
		}
	}
	for _, m := range b {
		if !m.IsInSet(a) {
			return false
		}
	}
	return true
}

func markSetString(marks []*Mark) string {
	parts := make([]string, len(marks))
	for i, m := range marks {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}
