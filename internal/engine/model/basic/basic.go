// Package basic provides the built-in document schema: paragraphs,
// headings, block quotes, lists, code blocks, images, and the common
// inline marks.
//
// New builds a fresh schema on every call. There is no shared instance.
package basic

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
)

// Node type names.
const (
	Doc            = "doc"
	Paragraph      = "paragraph"
	Heading        = "heading"
	Blockquote     = "blockquote"
	CodeBlock      = "code_block"
	HorizontalRule = "horizontal_rule"
	BulletList     = "bullet_list"
	OrderedList    = "ordered_list"
	ListItem       = "list_item"
	Image          = "image"
	HardBreak      = "hard_break"
	Text           = "text"
)

// Mark type names.
const (
	Strong = "strong"
	Em     = "em"
	Code   = "code"
	Link   = "link"
)

func str(s string) *string { return &s }

// Spec returns the built-in schema spec. Each call returns a new value
// that callers may modify.
func Spec() *model.SchemaSpec {
	nodes := []*model.NodeSpec{
		{Name: Doc, Content: "block+"},
		{
			Name:       Paragraph,
			Content:    "inline*",
			Group:      "block",
			ParseRules: []model.ParseRule{{Tag: "p"}},
		},
		{
			Name:    Heading,
			Content: "inline*",
			Group:   "block",
			Attrs:   map[string]*model.AttributeSpec{"level": {Default: 1}},
		},
		{
			Name:       Blockquote,
			Content:    "block+",
			Group:      "block",
			ParseRules: []model.ParseRule{{Tag: "blockquote"}},
		},
		{
			Name:       CodeBlock,
			Content:    "text*",
			Marks:      str(""),
			Group:      "block",
			Attrs:      map[string]*model.AttributeSpec{"language": {}},
			ParseRules: []model.ParseRule{{Tag: "pre", Priority: 60}},
		},
		{
			Name:       HorizontalRule,
			Group:      "block",
			Atom:       true,
			ParseRules: []model.ParseRule{{Tag: "hr"}},
		},
		{
			Name:       BulletList,
			Content:    "list_item+",
			Group:      "block list",
			ParseRules: []model.ParseRule{{Tag: "ul"}},
		},
		{
			Name:       OrderedList,
			Content:    "list_item+",
			Group:      "block list",
			Attrs:      map[string]*model.AttributeSpec{"order": {Default: 1}},
			ParseRules: []model.ParseRule{{Tag: "ol"}},
		},
		{
			Name:       ListItem,
			Content:    "paragraph block*",
			ParseRules: []model.ParseRule{{Tag: "li"}},
		},
		{Name: Text, Group: "inline", Inline: true},
		{
			Name:   Image,
			Group:  "inline",
			Inline: true,
			Atom:   true,
			Attrs: map[string]*model.AttributeSpec{
				"src":   {Required: true},
				"alt":   {},
				"title": {},
			},
			ParseRules: []model.ParseRule{{Tag: "img"}},
		},
		{
			Name:       HardBreak,
			Group:      "inline",
			Inline:     true,
			ParseRules: []model.ParseRule{{Tag: "br"}},
		},
	}
	for level := 1; level <= 6; level++ {
		nodes[2].ParseRules = append(nodes[2].ParseRules, model.ParseRule{
			Tag:   fmt.Sprintf("h%d", level),
			Attrs: map[string]any{"level": level},
		})
	}

	marks := []*model.MarkSpec{
		{
			Name: Link,
			Attrs: map[string]*model.AttributeSpec{
				"href":  {Required: true},
				"title": {},
			},
			ParseRules: []model.ParseRule{{Tag: "a"}},
		},
		{
			Name: Em,
			ParseRules: []model.ParseRule{
				{Tag: "i"},
				{Tag: "em"},
				{Style: "font-style=italic"},
			},
		},
		{
			Name: Strong,
			ParseRules: []model.ParseRule{
				{Tag: "strong"},
				{Tag: "b"},
				{Style: "font-weight"},
			},
		},
		{
			Name:       Code,
			ParseRules: []model.ParseRule{{Tag: "code"}},
		},
	}

	return &model.SchemaSpec{TopNode: Doc, Nodes: nodes, Marks: marks}
}

// New builds a new instance of the built-in schema.
func New(opts ...model.SchemaOption) (*model.Schema, error) {
	return model.NewSchema(Spec(), opts...)
}

// MustNew is like New but panics on error. The built-in spec always
// compiles, so it only panics if Spec is broken.
func MustNew(opts ...model.SchemaOption) *model.Schema {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}
