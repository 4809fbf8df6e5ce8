package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
)

// ============================================================================
// Resolve
// ============================================================================

func TestResolve(t *testing.T) {
	b := newBuilder(t)
	// doc( p("ab") blockquote( p("c") ) )
	//     0 1  3 4          5 6  7 8     9
	doc := b.Doc(b.P("ab"), b.Blockquote(b.P("c")))

	tests := []struct {
		pos          int
		depth        int
		parentOffset int
		textOffset   int
		parent       string
	}{
		{0, 0, 0, 0, "doc"},
		{1, 1, 0, 0, "paragraph"},
		{2, 1, 1, 1, "paragraph"},
		{3, 1, 2, 0, "paragraph"},
		{4, 0, 4, 0, "doc"},
		{5, 1, 0, 0, "blockquote"},
		{6, 2, 0, 0, "paragraph"},
		{7, 2, 1, 0, "paragraph"},
		{8, 1, 3, 0, "blockquote"},
		{9, 0, 9, 0, "doc"},
	}

	for _, tt := range tests {
		rp, err := doc.Resolve(tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.depth, rp.Depth, "depth at %d", tt.pos)
		assert.Equal(t, tt.parentOffset, rp.ParentOffset, "parentOffset at %d", tt.pos)
		assert.Equal(t, tt.textOffset, rp.TextOffset(), "textOffset at %d", tt.pos)
		assert.Equal(t, tt.parent, rp.Parent().Type().Name(), "parent at %d", tt.pos)
	}
}

func TestResolveNodeAround(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("ab", b.Img("x"), "cd"))

	rp, err := doc.Resolve(2)
	require.NoError(t, err)
	assert.True(t, b.T("a").Eq(rp.NodeBefore()))
	assert.True(t, b.T("b").Eq(rp.NodeAfter()))

	rp, err = doc.Resolve(3)
	require.NoError(t, err)
	assert.True(t, b.T("ab").Eq(rp.NodeBefore()))
	assert.Equal(t, "image", rp.NodeAfter().Type().Name())
	assert.Equal(t, 1, rp.Start(1))
	assert.Equal(t, 6, rp.End(1))
	assert.Equal(t, 0, rp.Before(1))
	assert.Equal(t, 7, rp.After(1))
}

func TestResolveOutOfRange(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("ab"))

	for _, pos := range []int{-1, 5, 100} {
		_, err := doc.Resolve(pos)
		assert.ErrorIs(t, err, model.ErrPositionOutOfRange, "pos %d", pos)
	}
}

// ============================================================================
// Replace
// ============================================================================

func TestReplaceHelloScenario(t *testing.T) {
	b := newBuilder(t)
	p := b.P("Hello")
	require.Equal(t, 7, p.NodeSize())

	got, err := p.Replace(1, 1, model.NewSlice([]*model.Node{b.T("X")}, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, "HXello", got.TextContent())
	assert.Equal(t, 8, got.NodeSize())
	assert.Equal(t, 1, got.ChildCount(), "inserted text is merged")
	assert.Equal(t, p.ID(), got.ID())
}

func TestReplace(t *testing.T) {
	b := newBuilder(t)
	strong := b.Strong()

	tests := []struct {
		name     string
		doc      *model.Node
		from, to int
		slice    *model.Slice
		want     *model.Node
	}{
		{
			name:  "insert text in doc",
			doc:   b.Doc(b.P("Hello")),
			from:  2,
			to:    2,
			slice: model.NewSlice([]*model.Node{b.T("X")}, 0, 0),
			want:  b.Doc(b.P("HXello")),
		},
		{
			name:  "delete text",
			doc:   b.Doc(b.P("Hello")),
			from:  2,
			to:    5,
			slice: model.EmptySlice,
			want:  b.Doc(b.P("Ho")),
		},
		{
			name:  "insert marked text splits run",
			doc:   b.Doc(b.P("Hello")),
			from:  3,
			to:    3,
			slice: model.NewSlice([]*model.Node{b.T("X", strong)}, 0, 0),
			want:  b.Doc(b.P("He", b.T("X", strong), "llo")),
		},
		{
			name:  "join paragraphs",
			doc:   b.Doc(b.P("ab"), b.P("cd")),
			from:  3,
			to:    5,
			slice: model.EmptySlice,
			want:  b.Doc(b.P("abcd")),
		},
		{
			name:  "split paragraph",
			doc:   b.Doc(b.P("abcd")),
			from:  3,
			to:    3,
			slice: model.NewSlice([]*model.Node{b.P(), b.P()}, 1, 1),
			want:  b.Doc(b.P("ab"), b.P("cd")),
		},
		{
			name:  "insert block",
			doc:   b.Doc(b.P("a"), b.P("b")),
			from:  3,
			to:    3,
			slice: model.NewSlice([]*model.Node{b.HR()}, 0, 0),
			want:  b.Doc(b.P("a"), b.HR(), b.P("b")),
		},
		{
			name:  "replace across blocks with open slice",
			doc:   b.Doc(b.P("Hello"), b.P("World")),
			from:  3,
			to:    10,
			slice: model.NewSlice([]*model.Node{b.P("XX"), b.P("YY")}, 1, 1),
			want:  b.Doc(b.P("HeXX"), b.P("YYrld")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.doc.Replace(tt.from, tt.to, tt.slice)
			require.NoError(t, err)
			if !got.Eq(tt.want) {
				t.Errorf("Replace() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReplaceSliceRoundTrip(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("Hello"), b.Blockquote(b.P("quoted")), b.P("World"))

	for from := 0; from <= doc.ContentSize(); from++ {
		for to := from; to <= doc.ContentSize(); to++ {
			s, err := doc.Slice(from, to)
			require.NoError(t, err)
			got, err := doc.Replace(from, to, s)
			if err != nil {
				continue
			}
			if !got.Eq(doc) {
				t.Fatalf("Replace(%d, %d, Slice(%d, %d)) = %s, want %s", from, to, from, to, got, doc)
			}
		}
	}
}

func TestReplaceUnsupportedDepth(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("Hello"))

	_, err := doc.Replace(2, 2, model.NewSlice([]*model.Node{b.Blockquote(b.P("x"))}, 2, 0))
	var rerr *model.ReplaceError
	require.ErrorAs(t, err, &rerr)

	_, err = doc.Replace(2, 2, model.NewSlice([]*model.Node{b.P("x")}, 1, 0))
	require.ErrorAs(t, err, &rerr)

	nested := b.Doc(b.P("ab"), b.Blockquote(b.P("cd")))
	_, err = nested.Replace(2, 7, model.EmptySlice)
	require.ErrorAs(t, err, &rerr, "closed slice across different depths")
}

func TestReplaceDoesNotModifyOriginal(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("Hello"), b.P("World"))
	before := doc.String()

	_, err := doc.Replace(3, 10, model.EmptySlice)
	require.NoError(t, err)
	assert.Equal(t, before, doc.String())
}
