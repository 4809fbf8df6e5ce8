package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/model/basic"
)

func nodeType(t *testing.T, s *model.Schema, name string) *model.NodeType {
	t.Helper()
	nt, ok := s.NodeType(name)
	require.True(t, ok, "node type %q", name)
	return nt
}

func markType(t *testing.T, s *model.Schema, name string) *model.MarkType {
	t.Helper()
	mt, ok := s.MarkType(name)
	require.True(t, ok, "mark type %q", name)
	return mt
}

// assertInvertible undoes every step of tr in reverse and checks that the
// starting document comes back.
func assertInvertible(t *testing.T, tr *Transform) {
	t.Helper()
	doc := tr.Doc()
	for i := len(tr.Steps()) - 1; i >= 0; i-- {
		inv, err := tr.Steps()[i].Invert(tr.Docs()[i])
		require.NoError(t, err)
		doc, err = inv.Apply(doc)
		require.NoError(t, err)
	}
	assert.True(t, doc.Eq(tr.Before()), "undo produced %s, want %s", doc, tr.Before())
}

// ============================================================================
// Basic edits
// ============================================================================

func TestTransformInsertText(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("Hello")))
	require.NoError(t, tr.InsertText(6, " world"))
	assert.True(t, tr.Doc().Eq(b.Doc(b.P("Hello world"))), "got %s", tr.Doc())
	assert.Len(t, tr.Steps(), 1)
	assertInvertible(t, tr)
}

func TestTransformInsertTextInheritsMarks(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P(b.T("ab", b.Strong()))))
	require.NoError(t, tr.InsertText(2, "x"))
	want := b.Doc(b.P(b.T("axb", b.Strong())))
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())

	tr = New(b.Doc(b.P(b.T("ab", b.Strong()))))
	require.NoError(t, tr.InsertText(2, "x", b.Em()))
	want = b.Doc(b.P(b.T("a", b.Strong()), b.T("x", b.Em()), b.T("b", b.Strong())))
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())
}

func TestTransformInsertTextOutsideTextblock(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("a"), b.HR()))
	err := tr.InsertText(3, "x")
	assert.ErrorIs(t, err, ErrNotTextblock)
	assert.False(t, tr.DocChanged())

	assert.NoError(t, tr.InsertText(1, ""), "empty text is a no-op")
	assert.False(t, tr.DocChanged())
}

func TestTransformDelete(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("Hello"), b.P("world")))
	require.NoError(t, tr.Delete(2, 4))
	assert.True(t, tr.Doc().Eq(b.Doc(b.P("Hlo"), b.P("world"))), "got %s", tr.Doc())

	// The position after "w" was 9 before the delete.
	assert.Equal(t, 7, tr.Mapping().Map(9, 1))

	require.NoError(t, tr.Delete(4, 6))
	assert.True(t, tr.Doc().Eq(b.Doc(b.P("Hloworld"))), "got %s", tr.Doc())
	assert.Len(t, tr.Docs(), 2)
	assertInvertible(t, tr)
}

func TestTransformReplaceNoop(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("x"))

	tr := New(doc)
	require.NoError(t, tr.Replace(1, 1, nil))
	assert.False(t, tr.DocChanged())
	assert.Same(t, doc, tr.Doc())
}

func TestTransformFailedStepLeavesState(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("x"))

	tr := New(doc)
	err := tr.Replace(1, 1, NewSlice([]*model.Node{b.P("y")}, 2, 0))
	var rerr *UnsupportedRangeError
	require.True(t, errors.As(err, &rerr))
	assert.Same(t, doc, tr.Doc())
	assert.Empty(t, tr.Steps())
	assert.Equal(t, 0, tr.Mapping().Len())
}

// ============================================================================
// Marks
// ============================================================================

func TestTransformAddMark(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("Hello world")))
	require.NoError(t, tr.AddMark(1, 6, b.Strong()))
	want := b.Doc(b.P(b.T("Hello", b.Strong()), " world"))
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())
	assert.Len(t, tr.Steps(), 1)
	assertInvertible(t, tr)
}

func TestTransformAddMarkAcrossBlocks(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("ab"), b.P("cd")))
	require.NoError(t, tr.AddMark(2, 6, b.Em()))
	want := b.Doc(
		b.P("a", b.T("b", b.Em())),
		b.P(b.T("c", b.Em()), "d"),
	)
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())
	assert.Len(t, tr.Steps(), 2)
	assertInvertible(t, tr)
}

func TestTransformAddMarkMergesAdjacent(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P(b.T("ab", b.Strong()), "cd")))
	require.NoError(t, tr.AddMark(3, 5, b.Strong()))
	want := b.Doc(b.P(b.T("abcd", b.Strong())))
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())
}

func TestTransformAddMarkDisallowed(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.Pre("x := 1")))
	require.NoError(t, tr.AddMark(1, 3, b.Strong()))
	assert.False(t, tr.DocChanged(), "code blocks take no marks")
}

func TestTransformRemoveMark(t *testing.T) {
	b := newBuilder(t)
	strong := markType(t, b.S, basic.Strong)

	tr := New(b.Doc(b.P(b.T("ab", b.Strong()), "c")))
	require.NoError(t, tr.RemoveMark(1, 2, strong))
	want := b.Doc(b.P("a", b.T("b", b.Strong()), "c"))
	assert.True(t, tr.Doc().Eq(want), "got %s", tr.Doc())

	require.NoError(t, tr.RemoveMark(1, 4, strong))
	assert.True(t, tr.Doc().Eq(b.Doc(b.P("abc"))), "got %s", tr.Doc())
	assertInvertible(t, tr)
}

func TestTransformMarkEmptyRange(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("ab")))
	require.NoError(t, tr.AddMark(2, 2, b.Strong()))
	assert.False(t, tr.DocChanged())

	assert.Error(t, tr.AddMark(1, 99, b.Strong()))
}

// ============================================================================
// Structure
// ============================================================================

func TestTransformSetBlockType(t *testing.T) {
	b := newBuilder(t)
	heading := nodeType(t, b.S, basic.Heading)

	doc := b.Doc(b.P("ab"), b.P("cd"))
	tr := New(doc)
	require.NoError(t, tr.SetBlockType(1, 1, heading, model.Attrs{"level": 2}))
	assert.True(t, tr.Doc().Eq(b.Doc(b.H(2, "ab"), b.P("cd"))), "got %s", tr.Doc())
	assert.Equal(t, doc.Child(0).ID(), tr.Doc().Child(0).ID(), "retyping keeps the block id")

	tr = New(doc)
	require.NoError(t, tr.SetBlockType(1, 6, heading, model.Attrs{"level": 1}))
	assert.True(t, tr.Doc().Eq(b.Doc(b.H(1, "ab"), b.H(1, "cd"))), "got %s", tr.Doc())
	assert.Len(t, tr.Steps(), 2)
	assertInvertible(t, tr)
}

func TestTransformSetBlockTypeSameMarkup(t *testing.T) {
	b := newBuilder(t)
	paragraph := nodeType(t, b.S, basic.Paragraph)

	tr := New(b.Doc(b.P("ab")))
	require.NoError(t, tr.SetBlockType(1, 3, paragraph, nil))
	assert.False(t, tr.DocChanged())
}

func TestTransformSetBlockTypeNotTextblock(t *testing.T) {
	b := newBuilder(t)
	quote := nodeType(t, b.S, basic.Blockquote)

	tr := New(b.Doc(b.P("ab")))
	assert.ErrorIs(t, tr.SetBlockType(1, 1, quote, nil), ErrNotTextblock)
}

func TestTransformSplit(t *testing.T) {
	b := newBuilder(t)

	doc := b.Doc(b.P("Hello"))
	tr := New(doc)
	require.NoError(t, tr.Split(3))
	assert.True(t, tr.Doc().Eq(b.Doc(b.P("He"), b.P("llo"))), "got %s", tr.Doc())

	first, second := tr.Doc().Child(0), tr.Doc().Child(1)
	assert.Equal(t, doc.Child(0).ID(), first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.NotEmpty(t, second.ID())

	// "o" sat at 5 and now sits two further along.
	assert.Equal(t, 7, tr.Mapping().Map(5, 1))
	assertInvertible(t, tr)
}

func TestTransformSplitHeadingKeepsAttrs(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.H(3, "abcd")))
	require.NoError(t, tr.Split(5))
	assert.True(t, tr.Doc().Eq(b.Doc(b.H(3, "abcd"), b.H(3))), "got %s", tr.Doc())
}

func TestTransformSplitOutsideTextblock(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("a"), b.P("b")))
	assert.ErrorIs(t, tr.Split(3), ErrNotTextblock)
}

// ============================================================================
// Mapping
// ============================================================================

func TestTransformMappingAcrossSteps(t *testing.T) {
	b := newBuilder(t)

	tr := New(b.Doc(b.P("abc"), b.P("def")))
	require.NoError(t, tr.InsertText(1, "xx"))
	require.NoError(t, tr.Delete(9, 10))

	// "f" sat at 8, moved to 10 after the insert, then to 9.
	assert.Equal(t, 9, tr.Mapping().Map(8, 1))
	assert.Equal(t, 2, tr.Mapping().Len())
	assertInvertible(t, tr)
}
