// Package diagram defines the architecture diagram data model: positioned,
// typed nodes connected by directed edges.
//
// # Overview
//
// A [Diagram] is an ordered list of [Node] values plus an ordered list of
// [Edge] values. It is the single source of truth for what a user sees on the
// canvas. Node ids are unique and immutable once assigned; a node's label is
// the human-facing name and is also the key that the synthesis engine matches
// proposals against (case-insensitively).
//
// Edges reference nodes by id. An edge whose source or target does not exist
// is never stored: [Diagram.AddEdge] rejects it and [Diagram.DeleteNode]
// removes every edge touching the deleted node.
//
// # Values, not state
//
// Every operation on a Diagram returns a new Diagram and leaves the receiver
// untouched:
//
//	d := diagram.Diagram{}
//	d = d.AddNode(diagram.NodeData{Label: "Database", Type: "database"}, "node-1")
//	d, err := d.UpdateNode("node-1", diagram.NodeData{Description: "primary store"})
//
// This lets callers hold the diagram in whatever container suits them (a
// session store, a TUI model, an HTTP handler) and treat edits as pure
// transformations.
//
// # Node types
//
// [NodeTypes] is the closed vocabulary of component types. [ColorFor] returns
// the default fill colour for a type, used by renderers when a node carries
// no explicit colour.
//
// # Context string
//
// [Diagram.Summary] produces the short description sent to the generative
// service on every request so it can refine the existing design instead of
// starting over.
package diagram
