package model

import (
	"sort"
	"strings"
)

// DefaultRulePriority is the priority of a parse rule that sets none.
const DefaultRulePriority = 50

// ParseRule describes how an external element maps onto a node or mark
// type. The schema stores and orders rules; matching elements against
// them is the parser's job.
type ParseRule struct {
	// Tag is an element name, e.g. "p" or "h1".
	Tag string `toml:"tag" yaml:"tag" json:"tag,omitempty"`

	// Style is a style property match, e.g. "font-weight=bold".
	Style string `toml:"style" yaml:"style" json:"style,omitempty"`

	// Context restricts the rule to elements whose parent chain ends with
	// the given node types, e.g. "list_item/" or "blockquote/paragraph/".
	// Alternatives are separated by "|".
	Context string `toml:"context" yaml:"context" json:"context,omitempty"`

	// Priority orders rules; higher wins. Zero means DefaultRulePriority.
	Priority int `toml:"priority" yaml:"priority" json:"priority,omitempty"`

	// Attrs are attributes given to the created node or mark.
	Attrs map[string]any `toml:"attrs" yaml:"attrs" json:"attrs,omitempty"`

	// GetContent is an opaque custom content extractor.
	GetContent func(element any, schema *Schema) []*Node `toml:"-" yaml:"-" json:"-"`

	node *NodeType
	mark *MarkType
}

// NodeType returns the node type the rule creates, or nil for mark rules.
func (r *ParseRule) NodeType() *NodeType { return r.node }

// MarkType returns the mark type the rule creates, or nil for node rules.
func (r *ParseRule) MarkType() *MarkType { return r.mark }

// EffectivePriority returns the rule priority with the default applied.
func (r *ParseRule) EffectivePriority() int {
	if r.Priority == 0 {
		return DefaultRulePriority
	}
	return r.Priority
}

func (s *Schema) collectParseRules() {
	for _, nt := range s.nodeOrder {
		for _, rule := range nt.spec.ParseRules {
			r := rule
			r.node = nt
			s.rules = append(s.rules, &r)
		}
	}
	for _, mt := range s.markOrder {
		for _, rule := range mt.spec.ParseRules {
			r := rule
			r.mark = mt
			s.rules = append(s.rules, &r)
		}
	}
	sort.SliceStable(s.rules, func(i, j int) bool {
		return s.rules[i].EffectivePriority() > s.rules[j].EffectivePriority()
	})
}

// ParseRules returns all parse rules, highest priority first. Rules with
// equal priority keep their declaration order, nodes before marks.
func (s *Schema) ParseRules() []*ParseRule {
	out := make([]*ParseRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// MatchTag returns the first rule for an element with the given tag whose
// context matches the chain of enclosing node type names (outermost
// first), or nil.
func (s *Schema) MatchTag(tag string, context []string) *ParseRule {
	for _, r := range s.rules {
		if r.Tag != "" && strings.EqualFold(r.Tag, tag) && contextMatches(r.Context, context) {
			return r
		}
	}
	return nil
}

// MatchStyle returns the first rule for a style declaration ("prop=value"
// or just "prop") whose context matches, or nil.
func (s *Schema) MatchStyle(style string, context []string) *ParseRule {
	for _, r := range s.rules {
		if r.Style == "" || !contextMatches(r.Context, context) {
			continue
		}
		if r.Style == style || (!strings.Contains(r.Style, "=") && strings.HasPrefix(style, r.Style+"=")) {
			return r
		}
	}
	return nil
}

func contextMatches(constraint string, context []string) bool {
	if constraint == "" {
		return true
	}
	for _, alt := range strings.Split(constraint, "|") {
		alt = strings.Trim(strings.TrimSpace(alt), "/")
		if alt == "" {
			return true
		}
		parts := strings.Split(alt, "/")
		if len(parts) > len(context) {
			continue
		}
		tail := context[len(context)-len(parts):]
		match := true
		for i, p := range parts {
			if p != tail[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
