package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
)

// ============================================================================
// Apply / Invert
// ============================================================================

func TestReplaceStepHelloScenario(t *testing.T) {
	b := newBuilder(t)
	para := b.P("Hello")

	step := NewReplaceStep(1, 1, NewSlice([]*model.Node{b.T("X")}, 0, 0))
	got, err := step.Apply(para)
	require.NoError(t, err)
	assert.Equal(t, "HXello", got.TextContent())
	assert.Equal(t, 8, got.NodeSize())
	assert.Equal(t, "Hello", para.TextContent(), "input must not change")
}

func TestReplaceStepApplyInvert(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name string
		doc  *model.Node
		step *ReplaceStep
		want *model.Node
	}{
		{
			name: "insert text",
			doc:  b.Doc(b.P("Hello")),
			step: NewReplaceStep(2, 2, NewSlice([]*model.Node{b.T("X")}, 0, 0)),
			want: b.Doc(b.P("HXello")),
		},
		{
			name: "delete text",
			doc:  b.Doc(b.P("Hello")),
			step: NewReplaceStep(2, 4, nil),
			want: b.Doc(b.P("Hlo")),
		},
		{
			name: "join paragraphs",
			doc:  b.Doc(b.P("ab"), b.P("cd")),
			step: NewReplaceStep(2, 6, nil),
			want: b.Doc(b.P("ad")),
		},
		{
			name: "insert block",
			doc:  b.Doc(b.P("a")),
			step: NewReplaceStep(3, 3, NewSlice([]*model.Node{b.HR()}, 0, 0)),
			want: b.Doc(b.P("a"), b.HR()),
		},
		{
			name: "replace marked text",
			doc:  b.Doc(b.P("one ", b.T("two", b.Strong()))),
			step: NewReplaceStep(5, 8, NewSlice([]*model.Node{b.T("2", b.Em())}, 0, 0)),
			want: b.Doc(b.P("one ", b.T("2", b.Em()))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.step.Apply(tt.doc)
			require.NoError(t, err)
			assert.True(t, got.Eq(tt.want), "Apply = %s, want %s", got, tt.want)

			inv, err := tt.step.Invert(tt.doc)
			require.NoError(t, err)
			back, err := inv.Apply(got)
			require.NoError(t, err)
			assert.True(t, back.Eq(tt.doc), "inverse = %s, want %s", back, tt.doc)
		})
	}
}

func TestReplaceStepUnsupportedRange(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("Hello"))

	step := NewReplaceStep(2, 2, NewSlice([]*model.Node{b.P("x")}, 2, 0))
	got, err := step.Apply(doc)
	require.Error(t, err)
	assert.Nil(t, got)

	var rerr *UnsupportedRangeError
	require.True(t, errors.As(err, &rerr), "error %v is %T", err, err)
	assert.Equal(t, 2, rerr.From)
	assert.Equal(t, 2, rerr.To)
	assert.NotEmpty(t, rerr.Reason)
}

func TestReplaceStepOutOfRange(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.P("Hi"))

	_, err := NewReplaceStep(3, 40, nil).Apply(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrPositionOutOfRange))
}

// ============================================================================
// Map / Merge
// ============================================================================

func TestReplaceStepMap(t *testing.T) {
	b := newBuilder(t)
	step := NewReplaceStep(5, 5, NewSlice([]*model.Node{b.T("x")}, 0, 0))

	mapped, ok := step.Map(NewStepMap([]int{0, 0, 2}))
	require.True(t, ok)
	rs := mapped.(*ReplaceStep)
	assert.Equal(t, 7, rs.From)
	assert.Equal(t, 7, rs.To)

	_, ok = step.Map(NewStepMap([]int{3, 5, 0}))
	assert.False(t, ok, "step inside a deleted range should be dropped")

	ranged := NewReplaceStep(4, 8, nil)
	mapped, ok = ranged.Map(NewStepMap([]int{2, 4, 0}))
	require.True(t, ok)
	rs = mapped.(*ReplaceStep)
	assert.Equal(t, 2, rs.From)
	assert.Equal(t, 4, rs.To)
}

func TestReplaceStepMerge(t *testing.T) {
	b := newBuilder(t)

	typeA := NewReplaceStep(2, 2, NewSlice([]*model.Node{b.T("a")}, 0, 0))
	typeB := NewReplaceStep(3, 3, NewSlice([]*model.Node{b.T("b")}, 0, 0))
	merged, ok := typeA.Merge(typeB)
	require.True(t, ok)
	rs := merged.(*ReplaceStep)
	assert.Equal(t, 2, rs.From)
	assert.Equal(t, 2, rs.To)
	require.Len(t, rs.Slice.Content, 1)
	assert.Equal(t, "ab", rs.Slice.Content[0].Text())

	// Backspacing twice.
	del1 := NewReplaceStep(4, 5, nil)
	del2 := NewReplaceStep(3, 4, nil)
	merged, ok = del1.Merge(del2)
	require.True(t, ok)
	rs = merged.(*ReplaceStep)
	assert.Equal(t, 3, rs.From)
	assert.Equal(t, 5, rs.To)
	assert.True(t, rs.Slice.IsEmpty())

	_, ok = typeA.Merge(NewReplaceStep(9, 9, NewSlice([]*model.Node{b.T("z")}, 0, 0)))
	assert.False(t, ok, "distant steps must not merge")
}

func TestReplaceStepStepMap(t *testing.T) {
	b := newBuilder(t)
	step := NewReplaceStep(3, 5, NewSlice([]*model.Node{b.T("xyz")}, 0, 0))
	assert.Equal(t, []int{3, 2, 3}, step.StepMap().Ranges())
}

// ============================================================================
// JSON
// ============================================================================

func TestStepJSONRoundTrip(t *testing.T) {
	b := newBuilder(t)
	steps := []*ReplaceStep{
		NewReplaceStep(2, 2, NewSlice([]*model.Node{b.T("X", b.Strong())}, 0, 0)),
		NewReplaceStep(1, 4, nil),
		NewReplaceStep(3, 3, NewSlice([]*model.Node{b.P("a"), b.P("b")}, 1, 1)),
	}

	for _, step := range steps {
		data, err := MarshalStep(step)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"stepType":"replace"`)

		decoded, err := UnmarshalStep(b.S, data)
		require.NoError(t, err)
		rs := decoded.(*ReplaceStep)
		assert.Equal(t, step.From, rs.From)
		assert.Equal(t, step.To, rs.To)
		assert.True(t, step.Slice.Eq(rs.Slice), "slice %s, want %s", rs.Slice, step.Slice)
	}
}

func TestUnmarshalStepUnknownType(t *testing.T) {
	b := newBuilder(t)
	_, err := UnmarshalStep(b.S, []byte(`{"stepType":"addMark","from":1,"to":2}`))
	assert.ErrorIs(t, err, ErrUnknownStepType)

	_, err = UnmarshalStep(b.S, []byte(`{"stepType":"replace","from":1,"to":1,"slice":{"content":[{"type":"nope"}]}}`))
	assert.ErrorIs(t, err, model.ErrUnknownType)
}
