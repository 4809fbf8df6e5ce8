package basic

import "github.com/dshills/richedit/internal/engine/model"

// Builder is a shorthand for constructing documents in the built-in
// schema. Content arguments may be *model.Node values or strings, which
// become unmarked text nodes.
type Builder struct {
	S *model.Schema
}

// NewBuilder returns a builder for s.
func NewBuilder(s *model.Schema) *Builder {
	return &Builder{S: s}
}

func (b *Builder) node(name string, attrs model.Attrs, content []any) *model.Node {
	nt, ok := b.S.NodeType(name)
	if !ok {
		panic("basic: schema has no node type " + name)
	}
	return b.S.NodeOf(nt, attrs, b.children(content), nil)
}

func (b *Builder) children(content []any) []*model.Node {
	var out []*model.Node
	for _, c := range content {
		switch v := c.(type) {
		case *model.Node:
			out = append(out, v)
		case []*model.Node:
			out = append(out, v...)
		case string:
			out = append(out, b.S.Text(v))
		}
	}
	return out
}

// Doc builds a doc node.
func (b *Builder) Doc(content ...any) *model.Node {
	return b.node(Doc, nil, content)
}

// P builds a paragraph.
func (b *Builder) P(content ...any) *model.Node {
	return b.node(Paragraph, nil, content)
}

// H builds a heading of the given level.
func (b *Builder) H(level int, content ...any) *model.Node {
	return b.node(Heading, model.Attrs{"level": level}, content)
}

// Blockquote builds a block quote.
func (b *Builder) Blockquote(content ...any) *model.Node {
	return b.node(Blockquote, nil, content)
}

// Pre builds a code block.
func (b *Builder) Pre(content ...any) *model.Node {
	return b.node(CodeBlock, nil, content)
}

// HR builds a horizontal rule.
func (b *Builder) HR() *model.Node {
	return b.node(HorizontalRule, nil, nil)
}

// UL builds a bullet list.
func (b *Builder) UL(items ...any) *model.Node {
	return b.node(BulletList, nil, items)
}

// OL builds an ordered list.
func (b *Builder) OL(items ...any) *model.Node {
	return b.node(OrderedList, nil, items)
}

// LI builds a list item.
func (b *Builder) LI(content ...any) *model.Node {
	return b.node(ListItem, nil, content)
}

// Img builds an image.
func (b *Builder) Img(src string) *model.Node {
	return b.node(Image, model.Attrs{"src": src}, nil)
}

// BR builds a hard break.
func (b *Builder) BR() *model.Node {
	return b.node(HardBreak, nil, nil)
}

// T builds a text node with the given marks.
func (b *Builder) T(text string, marks ...*model.Mark) *model.Node {
	return b.S.Text(text, marks...)
}

// Mark builds a mark, panicking on an unknown type.
func (b *Builder) Mark(name string, attrs model.Attrs) *model.Mark {
	m, err := b.S.Mark(name, attrs)
	if err != nil {
		panic(err)
	}
	return m
}

// Strong returns a strong mark.
func (b *Builder) Strong() *model.Mark { return b.Mark(Strong, nil) }

// Em returns an em mark.
func (b *Builder) Em() *model.Mark { return b.Mark(Em, nil) }

// Code returns a code mark.
func (b *Builder) Code() *model.Mark { return b.Mark(Code, nil) }

// Link returns a link mark.
func (b *Builder) Link(href string) *model.Mark {
	return b.Mark(Link, model.Attrs{"href": href})
}
