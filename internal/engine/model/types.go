package model

import "slices"

// NodeType is a node type handle. Handles are created by NewSchema and
// compared by identity.
type NodeType struct {
	name   string
	schema *Schema
	spec   *NodeSpec
	rank   int
	groups []string
	attrs  map[string]*AttributeSpec

	content       *ContentExpr
	allowAllMarks bool
	allowedMarks  []*MarkType
}

// Name returns the type name.
func (t *NodeType) Name() string { return t.name }

// Schema returns the schema that owns the type.
func (t *NodeType) Schema() *Schema { return t.schema }

// Spec returns the spec the type was built from.
func (t *NodeType) Spec() *NodeSpec { return t.spec }

// Rank returns the declaration index of the type.
func (t *NodeType) Rank() int { return t.rank }

// Groups returns the groups the type belongs to.
func (t *NodeType) Groups() []string { return t.groups }

// HasGroup reports whether the type belongs to group.
func (t *NodeType) HasGroup(group string) bool {
	return slices.Contains(t.groups, group)
}

// ContentExpr returns the compiled content expression.
func (t *NodeType) ContentExpr() *ContentExpr { return t.content }

// IsText reports whether this is the schema's text type.
func (t *NodeType) IsText() bool { return t == t.schema.text }

// IsInline reports whether nodes of this type are inline.
func (t *NodeType) IsInline() bool { return t.spec.Inline }

// IsBlock reports whether nodes of this type are block level.
func (t *NodeType) IsBlock() bool { return !t.spec.Inline }

// IsAtom reports whether nodes of this type are treated as a single unit.
func (t *NodeType) IsAtom() bool { return t.spec.Atom || t.IsLeaf() && !t.IsText() }

// IsLeaf reports whether nodes of this type cannot have content.
func (t *NodeType) IsLeaf() bool { return t.content.IsEmpty() }

// IsTextblock reports whether this is a block type holding inline content.
func (t *NodeType) IsTextblock() bool { return t.IsBlock() && t.content.InlineContent() }

// ToDOM returns the rendering hook, if any.
func (t *NodeType) ToDOM() func(*Node) any { return t.spec.ToDOM }

// AllowsMarkType reports whether children of this type may carry marks of
// type mt.
func (t *NodeType) AllowsMarkType(mt *MarkType) bool {
	if t.allowAllMarks {
		return true
	}
	return slices.Contains(t.allowedMarks, mt)
}

// CompatibleContent reports whether content valid in t can be joined with
// content valid in other.
func (t *NodeType) CompatibleContent(other *NodeType) bool {
	return t == other || t.content.String() == other.content.String()
}

// Create builds a node of this type through the owning schema.
func (t *NodeType) Create(attrs Attrs, content []*Node, marks []*Mark) *Node {
	return t.schema.NodeOf(t, attrs, content, marks)
}

func (t *NodeType) String() string { return t.name }

// MarkType is a mark type handle.
type MarkType struct {
	name   string
	schema *Schema
	spec   *MarkSpec
	rank   int
	groups []string
	attrs  map[string]*AttributeSpec
}

// Name returns the type name.
func (t *MarkType) Name() string { return t.name }

// Schema returns the schema that owns the type.
func (t *MarkType) Schema() *Schema { return t.schema }

// Spec returns the spec the type was built from.
func (t *MarkType) Spec() *MarkSpec { return t.spec }

// Rank returns the declaration index of the type.
func (t *MarkType) Rank() int { return t.rank }

// HasGroup reports whether the type belongs to group.
func (t *MarkType) HasGroup(group string) bool {
	return slices.Contains(t.groups, group)
}

// Create builds a mark of this type. Attributes are validated like node
// attributes.
func (t *MarkType) Create(attrs Attrs) *Mark {
	return &Mark{typ: t, attrs: t.schema.computeAttrs(t.name, t.attrs, attrs)}
}

// IsInSet reports whether a mark of this type is in set.
func (t *MarkType) IsInSet(set []*Mark) *Mark {
	for _, m := range set {
		if m.typ == t {
			return m
		}
	}
	return nil
}

func (t *MarkType) String() string { return t.name }
