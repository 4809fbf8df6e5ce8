package engine

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/model/basic"
	"github.com/dshills/richedit/internal/engine/position"
)

func benchEditor(b *testing.B, paragraphs int) *Editor {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bld := basic.NewBuilder(basic.MustNew(model.WithLogger(logger)))

	blocks := make([]any, paragraphs)
	for i := range blocks {
		blocks[i] = bld.P(strings.Repeat("lorem ipsum ", 8))
	}
	ed, err := New(bld.S, WithDoc(bld.Doc(blocks...)), WithMaxHistory(1000))
	if err != nil {
		b.Fatal(err)
	}
	return ed
}

func BenchmarkEditor_InsertText(b *testing.B) {
	ed := benchEditor(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ed.InsertText(position.At(0, 50, 0), "x"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEditor_ApplyDelta(b *testing.B) {
	ed := benchEditor(b, 100)
	d := delta.New().Retain(6, delta.AttributeMap{"em": true}).Insert("y", nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ed.ApplyDelta([]int{50}, d); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEditor_UndoRedo(b *testing.B) {
	ed := benchEditor(b, 100)
	if _, err := ed.InsertText(position.At(0, 10, 0), "x"); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ed.Undo(); err != nil {
			b.Fatal(err)
		}
		if _, err := ed.Redo(); err != nil {
			b.Fatal(err)
		}
	}
}
