package model

import (
	"encoding/json"
	"fmt"
)

// nodeJSON is the wire shape of a node:
//
//	{"type": "...", "attrs": {...}, "content": [...], "text": "...", "marks": [...]}
type nodeJSON struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*nodeJSON    `json:"content,omitempty"`
	Text    *string        `json:"text,omitempty"`
	Marks   []*markJSON    `json:"marks,omitempty"`
}

type markJSON struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func (n *Node) toJSON() *nodeJSON {
	out := &nodeJSON{Type: n.typ.name}
	if len(n.attrs) > 0 {
		out.Attrs = map[string]any(n.attrs.Clone())
	}
	if n.IsText() {
		text := n.text
		out.Text = &text
	}
	for _, c := range n.content {
		out.Content = append(out.Content, c.toJSON())
	}
	for _, m := range n.marks {
		out.Marks = append(out.Marks, m.toJSON())
	}
	return out
}

func (m *Mark) toJSON() *markJSON {
	out := &markJSON{Type: m.typ.name}
	if len(m.attrs) > 0 {
		out.Attrs = map[string]any(m.attrs.Clone())
	}
	return out
}

// MarshalJSON encodes the node. Block ids are not serialized.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

// MarshalJSON encodes the mark.
func (m *Mark) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.toJSON())
}

// NodeFromJSON decodes a node and rebuilds it through the schema factory.
// An unknown node or mark type is an error; other schema violations are
// warnings.
func (s *Schema) NodeFromJSON(data []byte) (*Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return s.nodeFromRaw(&raw)
}

// NodesFromJSON decodes a JSON array of nodes.
func (s *Schema) NodesFromJSON(data []byte) ([]*Node, error) {
	var raw []*nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	return s.nodesFromRaw(raw)
}

// MarkFromJSON decodes a mark.
func (s *Schema) MarkFromJSON(data []byte) (*Mark, error) {
	var raw markJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode mark: %w", err)
	}
	return s.Mark(raw.Type, raw.Attrs)
}

func (s *Schema) nodesFromRaw(raw []*nodeJSON) ([]*Node, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]*Node, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		n, err := s.nodeFromRaw(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Schema) nodeFromRaw(raw *nodeJSON) (*Node, error) {
	var marks []*Mark
	for _, rm := range raw.Marks {
		if rm == nil {
			continue
		}
		m, err := s.Mark(rm.Type, rm.Attrs)
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}

	if raw.Type == TextTypeName {
		text := ""
		if raw.Text != nil {
			text = *raw.Text
		}
		return s.Text(text, marks...), nil
	}

	content, err := s.nodesFromRaw(raw.Content)
	if err != nil {
		return nil, err
	}
	return s.Node(raw.Type, raw.Attrs, content, marks)
}
