package model_test

import (
	"strings"
	"testing"

	"github.com/dshills/richedit/internal/engine/model"
)

func benchDoc(b *testing.B, paragraphs int) *model.Node {
	bb := newBuilder(b)
	content := make([]any, paragraphs)
	for i := range content {
		content[i] = bb.P(strings.Repeat("lorem ipsum ", 8), bb.T("dolor", bb.Strong()), " sit amet")
	}
	return bb.Doc(content...)
}

func BenchmarkResolve(b *testing.B) {
	doc := benchDoc(b, 200)
	size := doc.ContentSize()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := doc.Resolve(i % size); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReplaceText(b *testing.B) {
	doc := benchDoc(b, 200)
	slice := model.NewSlice([]*model.Node{doc.Type().Schema().Text("x")}, 0, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := doc.Replace(5, 5, slice); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeInline(b *testing.B) {
	bb := newBuilder(b)
	strong := bb.Strong()
	nodes := make([]*model.Node, 0, 300)
	for i := 0; i < 100; i++ {
		nodes = append(nodes, bb.T("a"), bb.T("b"), bb.T("c", strong))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		model.NormalizeInline(nodes)
	}
}
