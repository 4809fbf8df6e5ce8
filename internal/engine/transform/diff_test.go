package transform

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/model/basic"
)

func newBuilder(t testing.TB) *basic.Builder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return basic.NewBuilder(basic.MustNew(model.WithLogger(logger)))
}

func TestDiffFragmentScenario(t *testing.T) {
	b := newBuilder(t)
	a, bb, c, x := b.P("A"), b.P("B"), b.P("C"), b.P("X")

	steps := DiffFragment([]*model.Node{a, bb, c}, []*model.Node{a, x, c}, 0)
	if len(steps) != 1 {
		t.Fatalf("DiffFragment returned %d steps, want 1", len(steps))
	}
	rs, ok := steps[0].(*ReplaceStep)
	if !ok {
		t.Fatalf("step is %T, want *ReplaceStep", steps[0])
	}

	// B spans [3, 6): A occupies [0, 3).
	if rs.From != 3 || rs.To != 6 {
		t.Errorf("step range = [%d, %d), want [3, 6)", rs.From, rs.To)
	}
	if len(rs.Slice.Content) != 1 || !rs.Slice.Content[0].Eq(x) {
		t.Errorf("step slice = %s, want <X>", rs.Slice)
	}
	if rs.Slice.OpenStart != 0 || rs.Slice.OpenEnd != 0 {
		t.Errorf("slice is open: %s", rs.Slice)
	}

	doc := b.Doc(a, bb, c)
	got, err := rs.Apply(doc)
	if err != nil {
		t.Fatal(err)
	}
	if want := b.Doc(a, x, c); !got.Eq(want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}
}

func TestDiffFragmentIdentity(t *testing.T) {
	b := newBuilder(t)
	seqs := [][]*model.Node{
		nil,
		{b.P("A")},
		{b.P("A"), b.H(1, "B"), b.Blockquote(b.P("C"))},
		{b.T("x"), b.T("y", b.Strong())},
	}

	for _, seq := range seqs {
		for _, start := range []int{0, 1, 17} {
			if steps := DiffFragment(seq, seq, start); len(steps) != 0 {
				t.Errorf("DiffFragment(%v, same, %d) = %v, want none", seq, start, steps)
			}
		}
	}
}

func TestDiffFragment(t *testing.T) {
	b := newBuilder(t)
	a, bb, c, d := b.P("A"), b.P("BB"), b.P("C"), b.P("D")

	tests := []struct {
		name     string
		old, new []*model.Node
		start    int
		from, to int
		content  int
	}{
		{"append", []*model.Node{a}, []*model.Node{a, d}, 0, 3, 3, 1},
		{"prepend", []*model.Node{a}, []*model.Node{d, a}, 0, 0, 0, 1},
		{"remove middle", []*model.Node{a, bb, c}, []*model.Node{a, c}, 0, 3, 7, 0},
		{"start offset", []*model.Node{a, bb}, []*model.Node{a, d}, 10, 13, 17, 1},
		{"replace all", []*model.Node{a}, []*model.Node{d}, 1, 1, 4, 1},
		{"duplicate insert widens nothing at end", []*model.Node{a, c}, []*model.Node{a, c, c}, 0, 6, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := DiffFragment(tt.old, tt.new, tt.start)
			if len(steps) != 1 {
				t.Fatalf("got %d steps, want 1", len(steps))
			}
			rs := steps[0].(*ReplaceStep)
			if rs.From != tt.from || rs.To != tt.to {
				t.Errorf("range = [%d, %d), want [%d, %d)", rs.From, rs.To, tt.from, tt.to)
			}
			if len(rs.Slice.Content) != tt.content {
				t.Errorf("slice has %d nodes, want %d", len(rs.Slice.Content), tt.content)
			}
		})
	}
}

func TestDiffFragmentApplyReproducesTarget(t *testing.T) {
	b := newBuilder(t)
	oldContent := []*model.Node{b.T("Hello "), b.T("big", b.Strong()), b.T(" world")}
	newContent := []*model.Node{b.T("Hello "), b.T("small", b.Em()), b.T(" world")}
	doc := b.Doc(b.P(oldContent))

	steps := DiffFragment(oldContent, newContent, 1)
	tr := New(doc)
	for _, s := range steps {
		if err := tr.Step(s); err != nil {
			t.Fatal(err)
		}
	}
	if want := b.Doc(b.P(newContent)); !tr.Doc().Eq(want) {
		t.Errorf("doc = %s, want %s", tr.Doc(), want)
	}
}
