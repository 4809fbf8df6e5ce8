package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/model/basic"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
)

func newBuilder(t *testing.T) *basic.Builder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return basic.NewBuilder(basic.MustNew(model.WithLogger(logger)))
}

func newEditor(t *testing.T, doc *model.Node, opts ...Option) *Editor {
	t.Helper()
	ed, err := New(doc.Type().Schema(), append([]Option{WithDoc(doc)}, opts...)...)
	require.NoError(t, err)
	return ed
}

func TestNew_DefaultDoc(t *testing.T) {
	b := newBuilder(t)
	ed, err := New(b.S)
	require.NoError(t, err)

	doc := ed.Doc()
	require.Equal(t, 1, doc.ChildCount())
	assert.Equal(t, basic.Paragraph, doc.Child(0).Type().Name())
	assert.Equal(t, "", ed.Text())
	assert.True(t, ed.Selection().Equal(position.Cursor(position.At(0, 0))))
	assert.Equal(t, RevisionID(0), ed.Revision())
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	b := newBuilder(t)
	other := newBuilder(t)
	_, err = New(b.S, WithDoc(other.Doc(other.P("x"))))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestEditor_InsertTextScenario(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))
	assert.Equal(t, 7, ed.Doc().Child(0).NodeSize())

	res, err := ed.InsertText(position.At(1, 0, 0), "X")
	require.NoError(t, err)
	assert.False(t, res.Deferred)
	assert.Len(t, res.Steps, 1)

	assert.Equal(t, "HXello", ed.Text())
	assert.Equal(t, 8, ed.Doc().Child(0).NodeSize())
}

func TestEditor_UndoRedoRoundTrip(t *testing.T) {
	b := newBuilder(t)
	original := b.Doc(b.P("Hello"))
	ed := newEditor(t, original)

	cursor := position.Cursor(position.At(5, 0, 0))
	require.NoError(t, ed.SetSelection(cursor))

	res, err := ed.InsertText(position.At(5, 0, 0), " world")
	require.NoError(t, err)
	assert.Equal(t, RevisionID(1), res.Revision)
	assert.Equal(t, "Hello world", ed.Text())
	assert.True(t, ed.Selection().Equal(position.Cursor(position.At(1, 0))), "got %s", ed.Selection())

	edited := ed.Doc()

	_, err = ed.Undo()
	require.NoError(t, err)
	assert.Same(t, original, ed.Doc())
	assert.True(t, ed.Selection().Equal(cursor))
	assert.True(t, ed.CanRedo())

	_, err = ed.Redo()
	require.NoError(t, err)
	assert.Same(t, edited, ed.Doc())

	_, err = ed.Undo()
	require.NoError(t, err)
	_, err = ed.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.Equal(t, "Hello", ed.Text())

	_, err = ed.Redo()
	require.NoError(t, err)
	_, err = ed.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestEditor_RedoInvalidatedByEdit(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	_, err := ed.InsertText(position.At(5, 0, 0), "!")
	require.NoError(t, err)
	_, err = ed.Undo()
	require.NoError(t, err)
	require.True(t, ed.CanRedo())

	_, err = ed.InsertText(position.At(0, 0, 0), ">")
	require.NoError(t, err)
	assert.False(t, ed.CanRedo())
	assert.Equal(t, ">Hello", ed.Text())
}

func TestEditor_MaxHistory(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("a")), WithMaxHistory(2))

	for i := 0; i < 3; i++ {
		_, err := ed.InsertText(position.At(1, 0, 0), "x")
		require.NoError(t, err)
	}
	assert.Len(t, ed.UndoInfo(), 2)
}

func TestEditor_Group(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	err := ed.Group("Type word", func() error {
		if _, err := ed.InsertText(position.At(5, 0, 0), " big"); err != nil {
			return err
		}
		_, err := ed.InsertText(position.At(9, 0, 0), " world")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello big world", ed.Text())
	require.Len(t, ed.UndoInfo(), 1)

	_, err = ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Hello", ed.Text())
}

func TestEditor_Errors(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))
	before := ed.Doc()

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"insert text between blocks", func() error {
			_, err := ed.InsertText(position.At(0), "x")
			return err
		}, ErrNotTextblock},
		{"position out of range", func() error {
			_, err := ed.InsertText(position.At(9, 0, 0), "x")
			return err
		}, model.ErrPositionOutOfRange},
		{"unknown block type", func() error {
			_, err := ed.SetBlockType([]int{0}, "banner", nil)
			return err
		}, model.ErrUnknownType},
		{"delta too long", func() error {
			_, err := ed.ApplyDelta([]int{0}, delta.New().Retain(10, nil))
			return err
		}, ErrLengthMismatch},
		{"undo on empty history", func() error {
			_, err := ed.Undo()
			return err
		}, ErrNothingToUndo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.fn(), tt.want)
			assert.Same(t, before, ed.Doc())
		})
	}
}

func TestEditor_UnsupportedReplaceLeavesDocUnchanged(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))
	before := ed.Doc()

	slice := transform.NewSlice([]*model.Node{b.P("x")}, 1, 1)
	_, err := ed.Replace(position.At(0), position.At(0), slice)

	var rerr *transform.UnsupportedRangeError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Same(t, before, ed.Doc())
	assert.Equal(t, RevisionID(0), ed.Revision())
}

func TestEditor_ReadOnly(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")), WithReadOnly())

	_, err := ed.InsertText(position.At(0, 0, 0), "x")
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = ed.Undo()
	assert.ErrorIs(t, err, ErrReadOnly)

	ed.SetReadOnly(false)
	_, err = ed.InsertText(position.At(0, 0, 0), "x")
	assert.NoError(t, err)
}

func TestEditor_InsertTextNormalizesNFC(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Caf")))

	_, err := ed.InsertText(position.At(3, 0, 0), "e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", ed.Text())
	assert.Equal(t, 4, utf8.RuneCountInString(ed.Text()))
}

func TestEditor_InsertTextAtSelection(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello world")))

	sel := position.NewSelection(position.At(6, 0, 0), position.At(11, 0, 0))
	require.NoError(t, ed.SetSelection(sel))

	_, err := ed.InsertTextAtSelection("there")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", ed.Text())
}

func TestEditor_SetBlockType(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Title"), b.P("Body")))
	id := ed.Doc().Child(0).ID()

	_, err := ed.SetBlockType([]int{0}, basic.Heading, model.Attrs{"level": 2})
	require.NoError(t, err)

	block := ed.Doc().Child(0)
	assert.Equal(t, basic.Heading, block.Type().Name())
	assert.Equal(t, 2, block.Attr("level"))
	assert.Equal(t, id, block.ID())
	assert.Equal(t, "TitleBody", ed.Text())

	_, err = ed.SetBlockType([]int{0}, basic.Blockquote, nil)
	assert.ErrorIs(t, err, ErrNotTextblock)
}

func TestEditor_SplitAndMarks(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello world")))

	_, err := ed.AddMark(position.At(0, 0, 0), position.At(5, 0, 0), b.Strong())
	require.NoError(t, err)
	first := ed.Doc().Child(0).Child(0)
	assert.Equal(t, "Hello", first.Text())
	assert.NotNil(t, b.Strong().Type().IsInSet(first.Marks()))

	strong, _ := b.S.MarkType(basic.Strong)
	_, err = ed.RemoveMark(position.At(0, 0), position.At(1, 0), strong)
	require.NoError(t, err)
	assert.Equal(t, 1, ed.Doc().Child(0).ChildCount())

	_, err = ed.Split(position.At(5, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 2, ed.Doc().ChildCount())
	assert.Equal(t, "Hello", ed.Doc().Child(0).TextContent())
	assert.Equal(t, " world", ed.Doc().Child(1).TextContent())
}

func TestEditor_Apply(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	stale := transform.New(ed.Doc())
	require.NoError(t, stale.InsertText(1, "x"))

	tr := transform.New(ed.Doc())
	require.NoError(t, tr.InsertText(6, "!"))
	_, err := ed.Apply(tr, "Exclaim")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", ed.Text())

	info := ed.UndoInfo()
	require.Len(t, info, 1)
	assert.Equal(t, "Exclaim", info[0].Label)

	_, err = ed.Apply(stale, "Stale")
	assert.ErrorIs(t, err, ErrStaleTransform)
}

func TestEditor_Slice(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	s, err := ed.Slice(position.At(1, 0, 0), position.At(4, 0, 0))
	require.NoError(t, err)
	require.Len(t, s.Content, 1)
	assert.Equal(t, "ell", s.Content[0].TextContent())
}

func TestEditor_ApplyDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta *delta.Delta
		text  string
	}{
		{"append", delta.New().Retain(5, nil).Insert(" world", nil), "Hello world"},
		{"delete", delta.New().Retain(1, nil).Delete(3), "Ho"},
		{"replace", delta.New().Delete(5).Insert("Bye", nil), "Bye"},
		{"keep tail", delta.New().Insert(">", nil), ">Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t)
			ed := newEditor(t, b.Doc(b.P("Hello")))

			res, err := ed.ApplyDelta([]int{0}, tt.delta)
			require.NoError(t, err)
			assert.Len(t, res.Steps, 1)
			assert.Equal(t, tt.text, ed.Text())

			_, err = ed.Undo()
			require.NoError(t, err)
			assert.Equal(t, "Hello", ed.Text())
		})
	}
}

func TestEditor_ApplyDeltaAttributes(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello world")))

	_, err := ed.ApplyDelta([]int{0}, delta.New().Retain(5, delta.AttributeMap{"strong": true}))
	require.NoError(t, err)

	got, err := ed.DeltaOf([]int{0})
	require.NoError(t, err)
	want := delta.New().Insert("Hello", delta.AttributeMap{"strong": true}).Insert(" world", nil)
	assert.True(t, want.Equal(got), "got %s", got)

	_, err = ed.ApplyDelta([]int{0}, delta.New().Retain(2, nil).Retain(3, delta.AttributeMap{"strong": nil}))
	require.NoError(t, err)
	got, err = ed.DeltaOf([]int{0})
	require.NoError(t, err)
	want = delta.New().Insert("He", delta.AttributeMap{"strong": true}).Insert("llo world", nil)
	assert.True(t, want.Equal(got), "got %s", got)

	_, err = ed.ApplyDelta([]int{0}, delta.New().Retain(11, nil).Insert("!", delta.AttributeMap{"link": map[string]any{"href": "https://example.com"}}))
	require.NoError(t, err)
	last := ed.Doc().Child(0).LastChild()
	assert.Equal(t, "!", last.Text())
	require.Len(t, last.Marks(), 1)
	assert.Equal(t, "https://example.com", last.Marks()[0].Attr("href"))
}

func TestEditor_ApplyDeltaSkipsDisallowedMarks(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.Pre("code"), b.P("text")))

	res, err := ed.ApplyDelta([]int{0}, delta.New().Retain(4, delta.AttributeMap{"strong": true, "bogus": true}))
	require.NoError(t, err)
	assert.Empty(t, res.Steps)
	assert.Equal(t, RevisionID(0), ed.Revision())

	_, err = ed.ApplyDelta([]int{1}, delta.New().Retain(4, delta.AttributeMap{"bogus": true, "em": true}))
	require.NoError(t, err)
	assert.Len(t, ed.Doc().Child(1).Child(0).Marks(), 1)
}

func TestEditor_DeltaOfAtoms(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("a", b.Img("x.png"), "b")))

	d, err := ed.DeltaOf([]int{0})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Length())

	_, err = ed.ApplyDelta([]int{0}, delta.New().Retain(1, nil).Delete(1))
	require.NoError(t, err)
	assert.Equal(t, 1, ed.Doc().Child(0).ChildCount())
	assert.Equal(t, "ab", ed.Text())
}

func TestEditor_Reconcile(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("A"), b.P("B"), b.P("C")))
	keep := ed.Doc().Child(0)

	res, err := ed.Reconcile(nil, []*model.Node{b.P("A"), b.P("X"), b.P("C")})
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)

	step, ok := res.Steps[0].(*transform.ReplaceStep)
	require.True(t, ok)
	assert.Equal(t, 3, step.From)
	assert.Equal(t, 6, step.To)
	assert.Equal(t, "AXC", ed.Text())
	assert.Equal(t, keep.ID(), ed.Doc().Child(0).ID())

	res, err = ed.Reconcile(nil, []*model.Node{b.P("A"), b.P("X"), b.P("C")})
	require.NoError(t, err)
	assert.Empty(t, res.Steps)
}

func TestEditor_ReconcileRangeFallsBackToAncestor(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("One"), b.P("Two")))

	_, err := ed.ReconcileRange(2, 7, []*model.Node{b.P("X")})
	require.NoError(t, err)
	assert.Equal(t, "OXwo", ed.Text())
}

func TestEditor_TrackingAndSnapshots(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("A"), b.P("B"), b.P("C")))
	snap := ed.CreateSnapshot("before")

	_, err := ed.InsertText(position.At(1, 1, 0), "B")
	require.NoError(t, err)
	assert.Len(t, ed.ChangesSince(0), 1)

	// Offset 7 is the start of the third paragraph's content.
	mapped, err := ed.MapSince(0, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, mapped)

	_, err = ed.InsertText(position.At(0, 0, 0), "A")
	require.NoError(t, err)
	pos, err := ed.MapPositionSince(1, position.At(0, 2), 1)
	require.NoError(t, err)
	assert.Equal(t, 9, mustFlat(t, ed.Doc(), pos))

	diff, err := ed.DiffSinceSnapshot(snap)
	require.NoError(t, err)
	assert.True(t, diff.HasChanges())

	changes, err := ed.ChangesSinceSnapshot(snap)
	require.NoError(t, err)
	assert.Len(t, changes, 2)

	_, err = ed.DiffSinceSnapshot(snap + 100)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func mustFlat(t *testing.T, doc *model.Node, pos position.ModelPosition) int {
	t.Helper()
	off, err := position.ToFlatOffset(doc, pos)
	require.NoError(t, err)
	return off
}

func TestEditor_SetDoc(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	var replaced []events.DocumentReplaced
	_, err := ed.Bus().Subscribe(events.TopicDocumentReplaced, event.AsHandler(
		func(ctx context.Context, e event.Event[events.DocumentReplaced]) error {
			replaced = append(replaced, e.Payload)
			return nil
		}))
	require.NoError(t, err)

	_, err = ed.InsertText(position.At(5, 0, 0), "!")
	require.NoError(t, err)
	before := ed.Revision()

	doc := b.Doc(b.P("Fresh"))
	res, err := ed.SetDoc(doc)
	require.NoError(t, err)

	assert.Same(t, doc, ed.Doc())
	assert.False(t, ed.CanUndo())
	require.Len(t, replaced, 1)
	assert.Equal(t, res.Revision, replaced[0].Revision)

	_, err = ed.MapSince(before, 1, 1)
	assert.ErrorIs(t, err, ErrRevisionNotFound)

	other := newBuilder(t)
	_, err = ed.SetDoc(other.Doc(other.P("x")))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestEditor_PublishesChanges(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	var got []events.DocumentChanged
	_, err := ed.Bus().Subscribe(events.TopicDocumentChanged, event.AsHandler(
		func(ctx context.Context, e event.Event[events.DocumentChanged]) error {
			got = append(got, e.Payload)
			return nil
		}))
	require.NoError(t, err)

	var selections int
	_, err = ed.Bus().SubscribeFunc(events.TopicSelectionChanged, func(ctx context.Context, e any) error {
		selections++
		return nil
	})
	require.NoError(t, err)

	_, err = ed.InsertText(position.At(5, 0, 0), "!")
	require.NoError(t, err)
	_, err = ed.Undo()
	require.NoError(t, err)
	require.NoError(t, ed.SetSelection(position.Cursor(position.At(2, 0, 0))))

	require.Len(t, got, 2)
	assert.Equal(t, events.OriginEdit, got[0].Origin)
	assert.Equal(t, LabelInsertText, got[0].Label)
	assert.Equal(t, "Hello!", got[0].Doc.TextContent())
	assert.Equal(t, "Hello", got[0].Before.TextContent())
	assert.Equal(t, events.OriginUndo, got[1].Origin)
	assert.Equal(t, LabelInsertText, got[1].Label)
	assert.Equal(t, 1, selections)
}

func TestEditor_SubscriberFailureDoesNotBlockEdits(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	_, err := ed.Bus().SubscribeFunc(events.TopicDocumentChanged, func(ctx context.Context, e any) error {
		panic("boom")
	})
	require.NoError(t, err)

	_, err = ed.InsertText(position.At(5, 0, 0), "!")
	require.NoError(t, err)
	assert.False(t, ed.Propagating())

	_, err = ed.InsertText(position.At(6, 0, 0), "?")
	require.NoError(t, err)
	assert.Equal(t, "Hello!?", ed.Text())
}

func TestEditor_ReentrantEditIsDeferred(t *testing.T) {
	b := newBuilder(t)
	ed := newEditor(t, b.Doc(b.P("Hello")))

	var (
		texts  []string
		nested Result
		done   bool
	)
	_, err := ed.Bus().Subscribe(events.TopicDocumentChanged, event.AsHandler(
		func(ctx context.Context, e event.Event[events.DocumentChanged]) error {
			texts = append(texts, e.Payload.Doc.TextContent())
			if done {
				return nil
			}
			done = true

			end := e.Payload.Doc.Child(0).ContentSize()
			var err error
			nested, err = ed.InsertText(position.At(end, 0, 0), "!")
			assert.Equal(t, "Hello world", ed.Text(), "deferred edit must not interleave")
			return err
		}))
	require.NoError(t, err)

	res, err := ed.InsertText(position.At(5, 0, 0), " world")
	require.NoError(t, err)
	assert.False(t, res.Deferred)
	assert.True(t, nested.Deferred)

	assert.Equal(t, "Hello world!", ed.Text())
	assert.Equal(t, []string{"Hello world", "Hello world!"}, texts)
	assert.False(t, ed.Propagating())
	assert.Equal(t, 0, ed.PendingCount())
}

func TestEditor_QueueSchedulerRebasesDeferredEdits(t *testing.T) {
	b := newBuilder(t)
	q := &QueueScheduler{}
	ed := newEditor(t, b.Doc(b.P("Hello")), WithScheduler(q))

	res, err := ed.InsertText(position.At(0, 0, 0), "A")
	require.NoError(t, err)
	assert.False(t, res.Deferred)
	assert.True(t, ed.Propagating())
	assert.Equal(t, 1, q.Pending())

	// Both edits are built against "AHello".
	res, err = ed.InsertText(position.At(0, 0, 0), ">")
	require.NoError(t, err)
	assert.True(t, res.Deferred)
	res, err = ed.InsertText(position.At(6, 0, 0), "!")
	require.NoError(t, err)
	assert.True(t, res.Deferred)

	assert.Equal(t, 2, ed.PendingCount())
	assert.Equal(t, "AHello", ed.Text())

	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, ">AHello!", ed.Text())
	assert.Equal(t, RevisionID(3), ed.Revision())
	assert.False(t, ed.Propagating())

	// Deferred edits undo one at a time.
	_, err = ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, ">AHello", ed.Text())
	q.Flush()
}

func TestEditor_DeferredUndo(t *testing.T) {
	b := newBuilder(t)
	q := &QueueScheduler{}
	ed := newEditor(t, b.Doc(b.P("Hello")), WithScheduler(q))

	_, err := ed.InsertText(position.At(5, 0, 0), "!")
	require.NoError(t, err)

	res, err := ed.Undo()
	require.NoError(t, err)
	assert.True(t, res.Deferred)
	assert.Equal(t, "Hello!", ed.Text())

	q.Flush()
	assert.Equal(t, "Hello", ed.Text())
}

func TestQueueScheduler(t *testing.T) {
	q := &QueueScheduler{}
	var order []int
	q.Schedule(func() {
		order = append(order, 1)
		q.Schedule(func() { order = append(order, 3) })
	})
	q.Schedule(func() { order = append(order, 2) })

	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Pending())
}
