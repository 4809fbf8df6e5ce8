// Package model provides the schema and the immutable document tree of the
// rich-text editing core.
//
// A Schema is an explicitly constructed registry of node and mark types. It
// is the only way to create nodes: every Node, Mark, and copy of a node is
// built and revalidated by the Schema that owns its type. Multiple schemas
// can coexist; there is no process-wide registry.
//
// # Node Types
//
// Node types are closed handles resolved once when the schema is built.
// Content expressions ("inline*", "list_item+", "(image figcaption?)") are
// compiled into automata over those handles, never matched against raw
// type-name strings at edit time:
//
//	s, err := model.NewSchema(&model.SchemaSpec{
//	    TopNode: "doc",
//	    Nodes: []*model.NodeSpec{
//	        {Name: "doc", Content: "block+"},
//	        {Name: "paragraph", Content: "inline*", Group: "block"},
//	        {Name: "text", Group: "inline", Inline: true},
//	    },
//	})
//
// # Nodes
//
// Nodes are persistent values. Editing produces new nodes that share
// unchanged children with the old tree:
//
//	p, _ := s.Node("paragraph", nil, []*model.Node{s.Text("Hello")}, nil)
//	doc, _ := s.Node("doc", nil, []*model.Node{p}, nil)
//	doc.NodeSize() // 9: 5 characters + 2 paragraph boundaries + 2 doc boundaries
//
// # Validation
//
// The factory never rejects malformed content. A content mismatch, an
// unknown or missing attribute, or a disallowed mark produces a
// ValidationWarning that is logged (and optionally handed to a callback)
// while the node is built anyway. Callers must cope with structurally
// impossible nodes.
//
// # Positions
//
// Flat offsets count positions inside a node's content. Entering or
// leaving a non-text container costs one position, a text node costs one
// position per character, and a leaf costs one position. Resolve turns a
// flat offset into a ResolvedPos; Replace splices a Slice between two
// offsets.
package model
