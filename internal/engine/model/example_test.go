package model_test

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

func Example() {
	s, err := model.NewSchema(&model.SchemaSpec{
		TopNode: "doc",
		Nodes: []*model.NodeSpec{
			{Name: "doc", Content: "block+"},
			{Name: "paragraph", Content: "inline*", Group: "block"},
			{Name: "text", Group: "inline", Inline: true},
		},
		Marks: []*model.MarkSpec{{Name: "em"}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	em, _ := s.Mark("em", nil)
	p, _ := s.Node("paragraph", nil, []*model.Node{s.Text("Hello "), s.Text("world", em)}, nil)
	doc, _ := s.Node("doc", nil, []*model.Node{p}, nil)

	fmt.Println(doc)
	fmt.Println(doc.NodeSize())
	// Output:
	// doc(paragraph("Hello ", [em]"world"))
	// 15
}

func ExampleNode_Replace() {
	s, _ := model.NewSchema(&model.SchemaSpec{
		Nodes: []*model.NodeSpec{
			{Name: "doc", Content: "paragraph+"},
			{Name: "paragraph", Content: "text*"},
			{Name: "text", Inline: true},
		},
	})
	p, _ := s.Node("paragraph", nil, []*model.Node{s.Text("Hello")}, nil)

	edited, err := p.Replace(1, 1, model.NewSlice([]*model.Node{s.Text("X")}, 0, 0))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(edited.TextContent(), p.NodeSize(), edited.NodeSize())
	// Output: HXello 7 8
}
