package position

import "testing"

func TestSelectionBasics(t *testing.T) {
	sel := NewSelection(At(4, 0, 0), At(1, 0, 0))

	if sel.IsCollapsed() {
		t.Error("selection with extent reported collapsed")
	}
	if !sel.Collapse().IsCollapsed() {
		t.Error("Collapse did not collapse")
	}
	if !sel.Collapse().Head.Equal(At(1, 0, 0)) {
		t.Errorf("Collapse() = %s, want cursor at head", sel.Collapse())
	}
	if !sel.Flip().Anchor.Equal(At(1, 0, 0)) {
		t.Errorf("Flip() = %s", sel.Flip())
	}
	if got := Cursor(At(2)).String(); got != "Cursor([]:2)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSelectionOrdering(t *testing.T) {
	b := newBuilder(t)
	doc := testDoc(b)
	sel := NewSelection(At(4, 0, 0), At(1, 0, 0))

	fwd, err := sel.IsForward(doc)
	if err != nil {
		t.Fatal(err)
	}
	if fwd {
		t.Error("backward selection reported forward")
	}

	from, err := sel.From(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(At(1, 0, 0)) {
		t.Errorf("From() = %s", from)
	}
	to, err := sel.To(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !to.Equal(At(4, 0, 0)) {
		t.Errorf("To() = %s", to)
	}

	lo, hi, err := sel.FlatRange(doc)
	if err != nil {
		t.Fatal(err)
	}
	if lo != 2 || hi != 5 {
		t.Errorf("FlatRange() = %d, %d, want 2, 5", lo, hi)
	}

	back, err := SelectionFromFlat(doc, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(sel) {
		t.Errorf("SelectionFromFlat = %s, want %s", back, sel)
	}
}
