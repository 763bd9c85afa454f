package diagram

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/archsketch/pkg/errors"
)

// ManualPosition is where nodes added by hand are placed.
var ManualPosition = Position{X: 200, Y: 200}

// Position is a canvas coordinate in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData holds the user-visible attributes of a node.
type NodeData struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Node is a positioned architecture component.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Diagram is an ordered set of nodes and edges. The zero value is an empty
// diagram.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New returns a diagram holding copies of nodes and edges.
func New(nodes []Node, edges []Edge) Diagram {
	return Diagram{Nodes: slices.Clone(nodes), Edges: slices.Clone(edges)}
}

// IsEmpty reports whether the diagram has no nodes and no edges.
func (d Diagram) IsEmpty() bool {
	return len(d.Nodes) == 0 && len(d.Edges) == 0
}

// Clone returns a deep copy.
func (d Diagram) Clone() Diagram {
	return New(d.Nodes, d.Edges)
}

// Node returns the node with the given id.
func (d Diagram) Node(id string) (Node, bool) {
	i := d.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return d.Nodes[i], true
}

// Edge returns the edge with the given id.
func (d Diagram) Edge(id string) (Edge, bool) {
	i := slices.IndexFunc(d.Edges, func(e Edge) bool { return e.ID == id })
	if i < 0 {
		return Edge{}, false
	}
	return d.Edges[i], true
}

// HasEdge reports whether an edge from source to target exists, regardless of
// its id.
func (d Diagram) HasEdge(source, target string) bool {
	return slices.ContainsFunc(d.Edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
}

func (d Diagram) nodeIndex(id string) int {
	return slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
}

// AddNode appends a node at [ManualPosition]. The caller supplies the id.
func (d Diagram) AddNode(data NodeData, id string) Diagram {
	out := d.Clone()
	out.Nodes = append(out.Nodes, Node{ID: id, Position: ManualPosition, Data: data})
	return out
}

// UpdateNode merges the non-empty fields of patch into the node's data. The
// node's id and position are unchanged.
func (d Diagram) UpdateNode(id string, patch NodeData) (Diagram, error) {
	i := d.nodeIndex(id)
	if i < 0 {
		return d, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	out := d.Clone()
	data := &out.Nodes[i].Data
	if patch.Label != "" {
		data.Label = patch.Label
	}
	if patch.Type != "" {
		data.Type = patch.Type
	}
	if patch.Description != "" {
		data.Description = patch.Description
	}
	if patch.Color != "" {
		data.Color = patch.Color
	}
	return out, nil
}

// MoveNode sets a node's position.
func (d Diagram) MoveNode(id string, pos Position) (Diagram, error) {
	i := d.nodeIndex(id)
	if i < 0 {
		return d, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	out := d.Clone()
	out.Nodes[i].Position = pos
	return out, nil
}

// DeleteNode removes a node and every edge that starts or ends at it.
func (d Diagram) DeleteNode(id string) (Diagram, error) {
	if d.nodeIndex(id) < 0 {
		return d, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	out := d.Clone()
	out.Nodes = slices.DeleteFunc(out.Nodes, func(n Node) bool { return n.ID == id })
	out.Edges = slices.DeleteFunc(out.Edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	return out, nil
}

// AddEdge connects two existing nodes. Adding a connection that already
// exists returns the diagram unchanged.
func (d Diagram) AddEdge(source, target, id string) (Diagram, error) {
	if d.nodeIndex(source) < 0 {
		return d, errors.New(errors.ErrCodeNodeNotFound, "source node %q not found", source)
	}
	if d.nodeIndex(target) < 0 {
		return d, errors.New(errors.ErrCodeNodeNotFound, "target node %q not found", target)
	}
	if d.HasEdge(source, target) {
		return d, nil
	}
	out := d.Clone()
	out.Edges = append(out.Edges, Edge{ID: id, Source: source, Target: target})
	return out, nil
}

// DeleteEdge removes an edge by id.
func (d Diagram) DeleteEdge(id string) (Diagram, error) {
	if _, ok := d.Edge(id); !ok {
		return d, errors.New(errors.ErrCodeEdgeNotFound, "edge %q not found", id)
	}
	out := d.Clone()
	out.Edges = slices.DeleteFunc(out.Edges, func(e Edge) bool { return e.ID == id })
	return out, nil
}

// Clear returns an empty diagram.
func (d Diagram) Clear() Diagram {
	return Diagram{}
}

// Validate checks that node and edge ids are unique and that no edge
// references a missing node.
func (d Diagram) Validate() error {
	nodes := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := nodes[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	edges := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if _, dup := edges[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate edge id %q", e.ID)
		}
		edges[e.ID] = struct{}{}
		if _, ok := nodes[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown source %q", e.ID, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

// Labels returns node labels in diagram order.
func (d Diagram) Labels() []string {
	labels := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		labels[i] = n.Data.Label
	}
	return labels
}

// Summary describes the diagram for the generative service.
func (d Diagram) Summary() string {
	if len(d.Nodes) == 0 {
		return "Starting with empty system"
	}
	return fmt.Sprintf("Current system has %d components: %s",
		len(d.Nodes), strings.Join(d.Labels(), ", "))
}
