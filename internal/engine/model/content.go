package model

import (
	"fmt"
	"strings"
	"unicode"
)

// ContentExpr is a compiled content expression. It is an NFA whose edges
// are labelled with NodeType handles.
//
// Grammar:
//
//	expr := seq ('|' seq)*
//	seq  := term+
//	term := (name | '(' expr ')') ('*' | '+' | '?')*
//
// A name is a node type name or a group name. A group stands for the
// choice of every type in it, in declaration order.
type ContentExpr struct {
	source string
	states [][]nfaEdge
	start  int
	accept int
	inline bool
}

type nfaEdge struct {
	term *NodeType // nil is an epsilon edge
	to   int
}

// String returns the expression source.
func (e *ContentExpr) String() string { return e.source }

// IsEmpty reports whether the expression is empty, i.e. the node is a leaf.
func (e *ContentExpr) IsEmpty() bool { return e.source == "" }

// InlineContent reports whether the expression admits inline nodes.
func (e *ContentExpr) InlineContent() bool { return e.inline }

// Matches reports whether the sequence of types is accepted.
func (e *ContentExpr) Matches(types []*NodeType) bool {
	cur := e.closure([]int{e.start})
	for _, t := range types {
		cur = e.step(cur, t)
		if len(cur) == 0 {
			return false
		}
	}
	return e.accepts(cur)
}

// MatchNodes reports whether the node sequence is accepted.
func (e *ContentExpr) MatchNodes(nodes []*Node) bool {
	cur := e.closure([]int{e.start})
	for _, n := range nodes {
		cur = e.step(cur, n.typ)
		if len(cur) == 0 {
			return false
		}
	}
	return e.accepts(cur)
}

// ValidEnd reports whether the given prefix can be followed by nothing.
// It is the same as Matches and exists for readability at call sites that
// build content incrementally.
func (e *ContentExpr) ValidEnd(types []*NodeType) bool {
	return e.Matches(types)
}

// ValidPrefix reports whether types can be extended into an accepted
// sequence.
func (e *ContentExpr) ValidPrefix(types []*NodeType) bool {
	cur := e.closure([]int{e.start})
	for _, t := range types {
		cur = e.step(cur, t)
		if len(cur) == 0 {
			return false
		}
	}
	return true
}

// DefaultType returns the first type the expression accepts at its start,
// or nil when the expression accepts only the empty sequence.
func (e *ContentExpr) DefaultType() *NodeType {
	for _, st := range e.closure([]int{e.start}) {
		for _, edge := range e.states[st] {
			if edge.term != nil && !edge.term.IsText() {
				return edge.term
			}
		}
	}
	return nil
}

func (e *ContentExpr) step(states []int, t *NodeType) []int {
	var next []int
	for _, st := range states {
		for _, edge := range e.states[st] {
			if edge.term == t {
				next = append(next, edge.to)
			}
		}
	}
	return e.closure(next)
}

func (e *ContentExpr) closure(states []int) []int {
	seen := make(map[int]bool, len(states))
	out := make([]int, 0, len(states))
	stack := append([]int(nil), states...)
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[st] {
			continue
		}
		seen[st] = true
		out = append(out, st)
		for _, edge := range e.states[st] {
			if edge.term == nil && !seen[edge.to] {
				stack = append(stack, edge.to)
			}
		}
	}
	return out
}

func (e *ContentExpr) accepts(states []int) bool {
	for _, st := range states {
		if st == e.accept {
			return true
		}
	}
	return false
}

// ============================================================================
// Parsing
// ============================================================================

type exprKind uint8

const (
	exprName exprKind = iota
	exprSeq
	exprChoice
	exprStar
	exprPlus
	exprOpt
)

type exprNode struct {
	kind  exprKind
	types []*NodeType // exprName: the choice of concrete types
	exprs []*exprNode
}

type exprParser struct {
	source string
	tokens []string
	pos    int
	schema *Schema
}

func compileContentExpr(source string, s *Schema) (*ContentExpr, error) {
	source = strings.TrimSpace(source)
	ce := &ContentExpr{source: source}
	if source == "" {
		ce.states = [][]nfaEdge{nil}
		return ce, nil
	}

	p := &exprParser{source: source, tokens: tokenizeExpr(source), schema: s}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("content expression %q: unexpected %q", source, p.tokens[p.pos])
	}

	b := &nfaBuilder{}
	ce.start = b.state()
	ce.accept = b.compile(expr, ce.start)
	ce.states = b.states
	for _, edges := range b.states {
		for _, edge := range edges {
			if edge.term != nil && edge.term.IsInline() {
				ce.inline = true
			}
		}
	}
	return ce, nil
}

func tokenizeExpr(source string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range source {
		switch {
		case unicode.IsSpace(r):
			flush()
		case strings.ContainsRune("()|*+?", r):
			flush()
			tokens = append(tokens, string(r))
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *exprParser) parseExpr() (*exprNode, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	alts := []*exprNode{first}
	for p.peek() == "|" {
		p.pos++
		next, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return &exprNode{kind: exprChoice, exprs: alts}, nil
}

func (p *exprParser) parseSeq() (*exprNode, error) {
	var items []*exprNode
	for {
		tok := p.peek()
		if tok == "" || tok == ")" || tok == "|" {
			break
		}
		item, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("content expression %q: empty sequence at token %d", p.source, p.pos)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &exprNode{kind: exprSeq, exprs: items}, nil
}

func (p *exprParser) parseTerm() (*exprNode, error) {
	var atom *exprNode
	tok := p.peek()
	switch tok {
	case "(":
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("content expression %q: missing closing paren", p.source)
		}
		p.pos++
		atom = inner
	case "*", "+", "?":
		return nil, fmt.Errorf("content expression %q: unexpected %q", p.source, tok)
	default:
		p.pos++
		types, err := p.resolveName(tok)
		if err != nil {
			return nil, err
		}
		atom = &exprNode{kind: exprName, types: types}
	}

	for {
		switch p.peek() {
		case "*":
			atom = &exprNode{kind: exprStar, exprs: []*exprNode{atom}}
		case "+":
			atom = &exprNode{kind: exprPlus, exprs: []*exprNode{atom}}
		case "?":
			atom = &exprNode{kind: exprOpt, exprs: []*exprNode{atom}}
		default:
			return atom, nil
		}
		p.pos++
	}
}

func (p *exprParser) resolveName(name string) ([]*NodeType, error) {
	if nt, ok := p.schema.nodes[name]; ok {
		return []*NodeType{nt}, nil
	}
	var types []*NodeType
	for _, nt := range p.schema.nodeOrder {
		if nt.HasGroup(name) {
			types = append(types, nt)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("content expression %q: no node type or group named %q", p.source, name)
	}
	return types, nil
}

// ============================================================================
// NFA construction
// ============================================================================

type nfaBuilder struct {
	states [][]nfaEdge
}

func (b *nfaBuilder) state() int {
	b.states = append(b.states, nil)
	return len(b.states) - 1
}

func (b *nfaBuilder) edge(from, to int, term *NodeType) {
	b.states[from] = append(b.states[from], nfaEdge{term: term, to: to})
}

// compile adds the fragment for expr starting at from and returns its
// end state.
func (b *nfaBuilder) compile(expr *exprNode, from int) int {
	switch expr.kind {
	case exprName:
		to := b.state()
		for _, t := range expr.types {
			b.edge(from, to, t)
		}
		return to
	case exprSeq:
		cur := from
		for _, e := range expr.exprs {
			cur = b.compile(e, cur)
		}
		return cur
	case exprChoice:
		to := b.state()
		for _, e := range expr.exprs {
			end := b.compile(e, from)
			b.edge(end, to, nil)
		}
		return to
	case exprStar:
		loop := b.state()
		b.edge(from, loop, nil)
		end := b.compile(expr.exprs[0], loop)
		b.edge(end, loop, nil)
		return loop
	case exprPlus:
		loop := b.state()
		end := b.compile(expr.exprs[0], from)
		b.edge(end, loop, nil)
		again := b.compile(expr.exprs[0], loop)
		b.edge(again, loop, nil)
		return loop
	case exprOpt:
		to := b.state()
		b.edge(from, to, nil)
		end := b.compile(expr.exprs[0], from)
		b.edge(end, to, nil)
		return to
	}
	return from
}
