package transform

import (
	"fmt"
	"strings"
)

// Mappable is anything that can map a flat offset.
type Mappable interface {
	// Map maps pos. assoc picks the side a position sticks to when content
	// is inserted exactly at it: negative stays before, positive moves
	// after.
	Map(pos, assoc int) int

	// MapResult maps pos and reports whether the content around it was
	// deleted.
	MapResult(pos, assoc int) MapResult
}

// MapResult is the outcome of mapping a position.
type MapResult struct {
	Pos int

	// Deleted is true when the position's side of the content was
	// deleted.
	Deleted bool
}

// StepMap describes the changed ranges of one step as (start, oldSize,
// newSize) triples, in ascending order.
type StepMap struct {
	ranges   []int
	inverted bool
}

// EmptyStepMap maps every position to itself.
var EmptyStepMap = &StepMap{}

// NewStepMap returns a step map over the given triples.
func NewStepMap(ranges []int) *StepMap {
	return &StepMap{ranges: ranges}
}

// Ranges returns the (start, oldSize, newSize) triples.
func (m *StepMap) Ranges() []int {
	return m.ranges
}

// Map implements Mappable.
func (m *StepMap) Map(pos, assoc int) int {
	return m.mapPos(pos, assoc).Pos
}

// MapResult implements Mappable.
func (m *StepMap) MapResult(pos, assoc int) MapResult {
	return m.mapPos(pos, assoc)
}

func (m *StepMap) mapPos(pos, assoc int) MapResult {
	diff := 0
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	for i := 0; i+2 < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if m.inverted {
			start -= diff
		}
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		end := start + oldSize
		if pos <= end {
			side := assoc
			switch {
			case oldSize == 0:
			case pos == start:
				side = -1
			case pos == end:
				side = 1
			}
			result := start + diff
			if side >= 0 {
				result += newSize
			}
			edge := end
			if assoc < 0 {
				edge = start
			}
			return MapResult{Pos: result, Deleted: pos != edge}
		}
		diff += newSize - oldSize
	}
	return MapResult{Pos: pos + diff}
}

// Invert returns the map of the inverse step.
func (m *StepMap) Invert() *StepMap {
	return &StepMap{ranges: m.ranges, inverted: !m.inverted}
}

// ForEach calls fn for each changed range with its old and new bounds.
func (m *StepMap) ForEach(fn func(oldStart, oldEnd, newStart, newEnd int)) {
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	diff := 0
	for i := 0; i+2 < len(m.ranges); i += 3 {
		start := m.ranges[i]
		oldStart := start
		if m.inverted {
			oldStart -= diff
		}
		newStart := start
		if !m.inverted {
			newStart += diff
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		fn(oldStart, oldStart+oldSize, newStart, newStart+newSize)
		diff += newSize - oldSize
	}
}

func (m *StepMap) String() string {
	parts := make([]string, 0, len(m.ranges)/3)
	for i := 0; i+2 < len(m.ranges); i += 3 {
		parts = append(parts, fmt.Sprintf("%d:%d:%d", m.ranges[i], m.ranges[i+1], m.ranges[i+2]))
	}
	prefix := ""
	if m.inverted {
		prefix = "-"
	}
	return prefix + "(" + strings.Join(parts, " ") + ")"
}

// Mapping is an ordered sequence of step maps.
type Mapping struct {
	maps []*StepMap
}

// NewMapping returns a mapping over maps.
func NewMapping(maps ...*StepMap) *Mapping {
	return &Mapping{maps: maps}
}

// Maps returns the step maps.
func (m *Mapping) Maps() []*StepMap {
	return m.maps
}

// Len returns the number of step maps.
func (m *Mapping) Len() int {
	return len(m.maps)
}

// AppendMap adds a step map to the end.
func (m *Mapping) AppendMap(sm *StepMap) {
	m.maps = append(m.maps, sm)
}

// AppendMapping adds all maps of other to the end.
func (m *Mapping) AppendMapping(other *Mapping) {
	m.maps = append(m.maps, other.maps...)
}

// Slice returns a mapping over maps [from, to).
func (m *Mapping) Slice(from, to int) *Mapping {
	return &Mapping{maps: m.maps[from:to]}
}

// Invert returns a mapping that undoes this one.
func (m *Mapping) Invert() *Mapping {
	out := &Mapping{maps: make([]*StepMap, len(m.maps))}
	for i, sm := range m.maps {
		out.maps[len(m.maps)-1-i] = sm.Invert()
	}
	return out
}

// Map implements Mappable.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// MapResult implements Mappable. Deleted is true if any step deleted the
// position.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for _, sm := range m.maps {
		r := sm.MapResult(pos, assoc)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return MapResult{Pos: pos, Deleted: deleted}
}
