package transform

import "testing"

func TestStepMapMap(t *testing.T) {
	// Replace [4, 6) with 3 units.
	sm := NewStepMap([]int{4, 2, 3})

	tests := []struct {
		pos, assoc int
		want       int
		deleted    bool
	}{
		{0, 1, 0, false},
		{4, -1, 4, false},
		{4, 1, 4, true},
		{5, 1, 7, true},
		{5, -1, 4, true},
		{6, 1, 7, false},
		{6, -1, 7, true},
		{10, 1, 11, false},
	}

	for _, tt := range tests {
		r := sm.MapResult(tt.pos, tt.assoc)
		if r.Pos != tt.want || r.Deleted != tt.deleted {
			t.Errorf("MapResult(%d, %d) = %+v, want {Pos:%d Deleted:%v}", tt.pos, tt.assoc, r, tt.want, tt.deleted)
		}
	}
}

func TestStepMapInsertAssoc(t *testing.T) {
	sm := NewStepMap([]int{3, 0, 2})

	if got := sm.Map(3, -1); got != 3 {
		t.Errorf("Map(3, -1) = %d, want 3", got)
	}
	if got := sm.Map(3, 1); got != 5 {
		t.Errorf("Map(3, 1) = %d, want 5", got)
	}
	if r := sm.MapResult(3, 1); r.Deleted {
		t.Error("insertion point reported deleted")
	}
}

func TestStepMapInvert(t *testing.T) {
	sm := NewStepMap([]int{4, 2, 3})
	inv := sm.Invert()

	for _, pos := range []int{0, 3, 10, 20} {
		if got := inv.Map(sm.Map(pos, 1), 1); got != pos {
			t.Errorf("inverse(map(%d)) = %d", pos, got)
		}
	}
}

func TestStepMapForEach(t *testing.T) {
	sm := NewStepMap([]int{2, 1, 3, 10, 2, 0})

	type rng struct{ oldStart, oldEnd, newStart, newEnd int }
	var got []rng
	sm.ForEach(func(oldStart, oldEnd, newStart, newEnd int) {
		got = append(got, rng{oldStart, oldEnd, newStart, newEnd})
	})

	want := []rng{{2, 3, 2, 5}, {10, 12, 12, 12}}
	if len(got) != len(want) {
		t.Fatalf("ForEach visited %d ranges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMapping(t *testing.T) {
	m := NewMapping(
		NewStepMap([]int{0, 0, 2}), // insert 2 at 0
		NewStepMap([]int{5, 3, 0}), // delete [5, 8)
	)

	tests := []struct {
		pos, want int
		deleted   bool
	}{
		{0, 2, false},
		{2, 4, false},
		{3, 5, true},
		{4, 5, true},
		{7, 6, false},
	}
	for _, tt := range tests {
		r := m.MapResult(tt.pos, 1)
		if r.Pos != tt.want || r.Deleted != tt.deleted {
			t.Errorf("MapResult(%d) = %+v, want {Pos:%d Deleted:%v}", tt.pos, r, tt.want, tt.deleted)
		}
	}

	if got := m.Invert().Map(m.Map(1, 1), 1); got != 1 {
		t.Errorf("inverted mapping of 1 = %d", got)
	}
	if m.Slice(1, 2).Len() != 1 {
		t.Error("Slice(1, 2) should hold one map")
	}
}
