package model

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultTopNode is the top node type name used when a spec names none.
const DefaultTopNode = "doc"

// TextTypeName is the name of the node type used for text nodes.
const TextTypeName = "text"

// AttributeSpec describes one attribute of a node or mark type.
type AttributeSpec struct {
	// Default is used when the attribute is not supplied.
	Default any `toml:"default" yaml:"default" json:"default,omitempty"`

	// Required marks an attribute that has no default. A node built
	// without it is constructed anyway, with a warning.
	Required bool `toml:"required" yaml:"required" json:"required,omitempty"`
}

// NodeSpec describes a node type.
type NodeSpec struct {
	Name string `toml:"name" yaml:"name" json:"name"`

	// Content is the content expression, e.g. "inline*" or "block+".
	// Empty means the node is a leaf.
	Content string `toml:"content" yaml:"content" json:"content,omitempty"`

	// Marks lists the marks allowed on children. nil allows every mark
	// when the node has inline content and none otherwise; "_" allows
	// all; "" allows none; anything else is a space separated list of
	// mark names or mark groups.
	Marks *string `toml:"marks" yaml:"marks" json:"marks,omitempty"`

	// Group is a space separated list of groups this type belongs to.
	Group string `toml:"group" yaml:"group" json:"group,omitempty"`

	Inline bool `toml:"inline" yaml:"inline" json:"inline,omitempty"`
	Atom   bool `toml:"atom" yaml:"atom" json:"atom,omitempty"`

	Attrs map[string]*AttributeSpec `toml:"attrs" yaml:"attrs" json:"attrs,omitempty"`

	ParseRules []ParseRule `toml:"parse" yaml:"parse" json:"parse,omitempty"`

	// ToDOM is an opaque rendering hook forwarded to the renderer.
	ToDOM func(*Node) any `toml:"-" yaml:"-" json:"-"`
}

// MarkSpec describes a mark type.
type MarkSpec struct {
	Name       string                    `toml:"name" yaml:"name" json:"name"`
	Group      string                    `toml:"group" yaml:"group" json:"group,omitempty"`
	Attrs      map[string]*AttributeSpec `toml:"attrs" yaml:"attrs" json:"attrs,omitempty"`
	ParseRules []ParseRule               `toml:"parse" yaml:"parse" json:"parse,omitempty"`
	ToDOM      func(*Mark, bool) any     `toml:"-" yaml:"-" json:"-"`
}

// SchemaSpec is the declarative input to NewSchema. It decodes from TOML,
// YAML, or JSON schema files.
type SchemaSpec struct {
	TopNode string      `toml:"top" yaml:"top" json:"top,omitempty"`
	Nodes   []*NodeSpec `toml:"nodes" yaml:"nodes" json:"nodes"`
	Marks   []*MarkSpec `toml:"marks" yaml:"marks" json:"marks,omitempty"`
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithLogger sets the logger used for validation warnings.
func WithLogger(logger *slog.Logger) SchemaOption {
	return func(s *Schema) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWarningHandler registers a callback invoked for every validation
// warning, in addition to logging.
func WithWarningHandler(fn func(ValidationWarning)) SchemaOption {
	return func(s *Schema) {
		s.onWarning = fn
	}
}

// WithIDGenerator replaces the block id generator. Tests use it to get
// deterministic ids.
func WithIDGenerator(fn func() string) SchemaOption {
	return func(s *Schema) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Schema is a registry of node and mark types and the factory for nodes.
type Schema struct {
	spec *SchemaSpec

	nodes     map[string]*NodeType
	nodeOrder []*NodeType
	marks     map[string]*MarkType
	markOrder []*MarkType

	top  *NodeType
	text *NodeType

	rules []*ParseRule

	logger    *slog.Logger
	onWarning func(ValidationWarning)
	newID     func() string
}

// NewSchema compiles a schema spec. Content expressions are parsed and
// compiled once here; an unknown name or a syntax error is fatal.
func NewSchema(spec *SchemaSpec, opts ...SchemaOption) (*Schema, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidSchema)
	}

	s := &Schema{
		spec:   spec,
		nodes:  make(map[string]*NodeType, len(spec.Nodes)),
		marks:  make(map[string]*MarkType, len(spec.Marks)),
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, ms := range spec.Marks {
		if ms == nil || ms.Name == "" {
			return nil, fmt.Errorf("%w: mark %d has no name", ErrInvalidSchema, i)
		}
		if _, dup := s.marks[ms.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate mark type %q", ErrInvalidSchema, ms.Name)
		}
		mt := &MarkType{
			name:   ms.Name,
			schema: s,
			spec:   ms,
			rank:   i,
			groups: strings.Fields(ms.Group),
			attrs:  ms.Attrs,
		}
		s.marks[ms.Name] = mt
		s.markOrder = append(s.markOrder, mt)
	}

	for i, ns := range spec.Nodes {
		if ns == nil || ns.Name == "" {
			return nil, fmt.Errorf("%w: node %d has no name", ErrInvalidSchema, i)
		}
		if _, dup := s.nodes[ns.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate node type %q", ErrInvalidSchema, ns.Name)
		}
		if _, clash := s.marks[ns.Name]; clash {
			return nil, fmt.Errorf("%w: %q is both a node and a mark type", ErrInvalidSchema, ns.Name)
		}
		if ns.Atom && strings.TrimSpace(ns.Content) != "" {
			return nil, fmt.Errorf("%w: atom node %q cannot have content", ErrInvalidSchema, ns.Name)
		}
		nt := &NodeType{
			name:   ns.Name,
			schema: s,
			spec:   ns,
			rank:   i,
			groups: strings.Fields(ns.Group),
			attrs:  ns.Attrs,
		}
		s.nodes[ns.Name] = nt
		s.nodeOrder = append(s.nodeOrder, nt)
	}

	topName := spec.TopNode
	if topName == "" {
		topName = DefaultTopNode
	}
	top, ok := s.nodes[topName]
	if !ok {
		return nil, fmt.Errorf("%w: top node type %q not defined", ErrInvalidSchema, topName)
	}
	s.top = top

	text, ok := s.nodes[TextTypeName]
	if !ok {
		return nil, fmt.Errorf("%w: schema has no %q node type", ErrInvalidSchema, TextTypeName)
	}
	if !text.spec.Inline {
		return nil, fmt.Errorf("%w: %q node type must be inline", ErrInvalidSchema, TextTypeName)
	}
	s.text = text

	for _, nt := range s.nodeOrder {
		expr, err := compileContentExpr(nt.spec.Content, s)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrInvalidSchema, nt.name, err)
		}
		nt.content = expr
	}

	for _, nt := range s.nodeOrder {
		allowAll, allowed, err := s.resolveMarkSet(nt)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrInvalidSchema, nt.name, err)
		}
		nt.allowAllMarks = allowAll
		nt.allowedMarks = allowed
	}

	s.collectParseRules()

	return s, nil
}

// resolveMarkSet interprets a node spec's allowed-marks field.
func (s *Schema) resolveMarkSet(nt *NodeType) (bool, []*MarkType, error) {
	if nt.spec.Marks == nil {
		return nt.content.InlineContent(), nil, nil
	}
	field := strings.TrimSpace(*nt.spec.Marks)
	switch field {
	case "":
		return false, nil, nil
	case "_":
		return true, nil, nil
	}

	var allowed []*MarkType
	for _, name := range strings.Fields(field) {
		if mt, ok := s.marks[name]; ok {
			allowed = append(allowed, mt)
			continue
		}
		found := false
		for _, mt := range s.markOrder {
			if mt.HasGroup(name) {
				allowed = append(allowed, mt)
				found = true
			}
		}
		if !found {
			return false, nil, fmt.Errorf("unknown mark type or group %q", name)
		}
	}
	return false, allowed, nil
}

// Spec returns the spec the schema was built from.
func (s *Schema) Spec() *SchemaSpec {
	return s.spec
}

// TopNodeType returns the top node type.
func (s *Schema) TopNodeType() *NodeType {
	return s.top
}

// TextType returns the text node type.
func (s *Schema) TextType() *NodeType {
	return s.text
}

// NodeType returns the node type with the given name.
func (s *Schema) NodeType(name string) (*NodeType, bool) {
	nt, ok := s.nodes[name]
	return nt, ok
}

// MarkType returns the mark type with the given name.
func (s *Schema) MarkType(name string) (*MarkType, bool) {
	mt, ok := s.marks[name]
	return mt, ok
}

// NodeTypes returns all node types in declaration order.
func (s *Schema) NodeTypes() []*NodeType {
	out := make([]*NodeType, len(s.nodeOrder))
	copy(out, s.nodeOrder)
	return out
}

// MarkTypes returns all mark types in declaration order.
func (s *Schema) MarkTypes() []*MarkType {
	out := make([]*MarkType, len(s.markOrder))
	copy(out, s.markOrder)
	return out
}

// Logger returns the schema's logger.
func (s *Schema) Logger() *slog.Logger {
	return s.logger
}

// GenerateNodeID returns a fresh block node id.
func (s *Schema) GenerateNodeID() string {
	return s.newID()
}

// Node builds a node of the named type. An unknown type name is an error;
// every other problem is reported as a warning and the node is built anyway.
func (s *Schema) Node(typeName string, attrs Attrs, content []*Node, marks []*Mark) (*Node, error) {
	nt, ok := s.nodes[typeName]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", typeName, ErrUnknownType)
	}
	if nt == s.text {
		return nil, fmt.Errorf("node %q: text nodes are built with Text", typeName)
	}
	return s.NodeOf(nt, attrs, content, marks), nil
}

// NodeOf builds a node of the given type. See Node.
func (s *Schema) NodeOf(nt *NodeType, attrs Attrs, content []*Node, marks []*Mark) *Node {
	n := &Node{
		typ:   nt,
		attrs: s.computeAttrs(nt.name, nt.attrs, attrs),
		marks: NormalizeMarks(marks),
	}
	if nt.IsLeaf() {
		if len(content) > 0 {
			s.warn(ValidationWarning{
				Kind:   WarnLeafContent,
				Type:   nt.name,
				Detail: fmt.Sprintf("dropped %d child nodes", len(content)),
			})
		}
	} else if len(content) > 0 {
		n.content = make([]*Node, len(content))
		copy(n.content, content)
	}
	if !nt.IsInline() {
		n.id = s.newID()
	}
	s.check(n)
	n.size = n.computeSize()
	return n
}

// Text builds a text node. Mark sets are normalized.
func (s *Schema) Text(value string, marks ...*Mark) *Node {
	n := &Node{
		typ:   s.text,
		text:  value,
		marks: NormalizeMarks(marks),
	}
	n.size = n.computeSize()
	return n
}

// Mark builds a mark of the named type.
func (s *Schema) Mark(typeName string, attrs Attrs) (*Mark, error) {
	mt, ok := s.marks[typeName]
	if !ok {
		return nil, fmt.Errorf("mark %q: %w", typeName, ErrUnknownType)
	}
	return mt.Create(attrs), nil
}

// copyNode rebuilds n around new content. The id, attributes, and marks
// are kept; content and marks are rechecked.
func (s *Schema) copyNode(n *Node, content []*Node, check bool) *Node {
	c := &Node{
		typ:   n.typ,
		attrs: n.attrs,
		marks: n.marks,
		id:    n.id,
	}
	if !n.typ.IsLeaf() && len(content) > 0 {
		c.content = make([]*Node, len(content))
		copy(c.content, content)
	}
	if check {
		s.check(c)
	}
	c.size = c.computeSize()
	return c
}

// check validates a node's content and child marks.
func (s *Schema) check(n *Node) {
	nt := n.typ
	if !nt.content.MatchNodes(n.content) {
		s.warn(ValidationWarning{
			Kind:   WarnContent,
			Type:   nt.name,
			Detail: fmt.Sprintf("content [%s] does not match %q", typeNames(n.content), nt.content.String()),
		})
	}
	for _, child := range n.content {
		for _, m := range child.marks {
			if !nt.AllowsMarkType(m.typ) {
				s.warn(ValidationWarning{
					Kind:   WarnMarkNotAllowed,
					Type:   nt.name,
					Detail: fmt.Sprintf("mark %q on child %q", m.typ.name, child.typ.name),
				})
			}
		}
	}
}

// computeAttrs fills defaults, strips unknown keys, and reports missing
// required keys.
func (s *Schema) computeAttrs(typeName string, spec map[string]*AttributeSpec, given Attrs) Attrs {
	out := make(Attrs, len(spec))
	for k, v := range given {
		if _, ok := spec[k]; !ok {
			s.warn(ValidationWarning{
				Kind:   WarnUnknownAttr,
				Type:   typeName,
				Detail: fmt.Sprintf("attribute %q stripped", k),
			})
			continue
		}
		out[k] = v
	}

	names := make([]string, 0, len(spec))
	for k := range spec {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if _, ok := out[k]; ok {
			continue
		}
		as := spec[k]
		if as != nil && as.Required {
			s.warn(ValidationWarning{
				Kind:   WarnMissingAttr,
				Type:   typeName,
				Detail: fmt.Sprintf("required attribute %q missing", k),
			})
			continue
		}
		var def any
		if as != nil {
			def = as.Default
		}
		out[k] = def
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Schema) warn(w ValidationWarning) {
	if s.onWarning != nil {
		s.onWarning(w)
	}
	s.logger.Warn("schema validation", "kind", w.Kind.String(), "type", w.Type, "detail", w.Detail)
}

func typeNames(nodes []*Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.typ.name
	}
	return strings.Join(names, " ")
}
