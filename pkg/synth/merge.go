package synth

import (
	"slices"
	"strings"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

// Engine merges proposals into diagrams. The zero value is not usable; use
// [NewEngine].
type Engine struct {
	resolver Resolver
	newID    IDFunc
}

// Option configures an [Engine].
type Option func(*Engine)

// WithResolver sets the entity resolver. The default is [Substring].
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithIDFunc sets the id generator. The default is [NanoID].
func WithIDFunc(f IDFunc) Option {
	return func(e *Engine) {
		if f != nil {
			e.newID = f
		}
	}
}

// NewEngine returns an engine with the given options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{resolver: Substring, newID: NanoID}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarises what a merge did.
type Report struct {
	Created        []string              // ids of newly minted nodes
	Updated        []string              // ids of existing nodes refreshed in place
	EdgesAdded     int                   // edges appended to the diagram
	DuplicateEdges int                   // resolved edges skipped because the pair already existed
	Dropped        []proposal.Connection // connections with an unresolved endpoint
}

// Changed reports whether the merge added or refreshed anything.
func (r Report) Changed() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0 || r.EdgesAdded > 0
}

// Result is the merged diagram state plus a [Report].
type Result struct {
	Nodes  []diagram.Node
	Edges  []diagram.Edge
	Report Report
}

// Diagram returns the result as a [diagram.Diagram].
func (r Result) Diagram() diagram.Diagram {
	return diagram.Diagram{Nodes: r.Nodes, Edges: r.Edges}
}

// Merge reconciles proposed components and connections against the current
// nodes and edges. The inputs are not modified.
//
// Components are resolved against nodes: a match keeps its id, position,
// label and colour while type and (non-empty) description are refreshed; a
// miss becomes a new node placed by [GridPosition] using its ordinal among the
// batch's new nodes. Connections are then resolved against the batch's own
// nodes, so they may reference components introduced in the same call. Edges
// whose (source, target) pair already exists are skipped.
func (e *Engine) Merge(components []proposal.Component, connections []proposal.Connection, nodes []diagram.Node, edges []diagram.Edge) Result {
	var report Report

	batch := make([]diagram.Node, 0, len(components))
	fresh := 0
	for _, c := range components {
		typ := NormalizeType(c.Type)
		name := componentName(c, typ)
		desc := strings.TrimSpace(c.Description)

		if existing, ok := e.resolver.Resolve(name, nodes); ok {
			n := existing
			n.Data.Type = typ
			if desc != "" {
				n.Data.Description = desc
			}
			batch = append(batch, n)
			continue
		}

		batch = append(batch, diagram.Node{
			ID:       e.newID(NodePrefix),
			Position: GridPosition(fresh),
			Data:     diagram.NodeData{Label: name, Type: typ, Description: desc},
		})
		fresh++
	}

	var resolved []diagram.Edge
	for _, c := range connections {
		src, okSrc := e.resolver.Resolve(c.From, batch)
		dst, okDst := e.resolver.Resolve(c.To, batch)
		if !okSrc || !okDst {
			report.Dropped = append(report.Dropped, c)
			continue
		}
		resolved = append(resolved, diagram.Edge{Source: src.ID, Target: dst.ID})
	}

	merged := slices.Clone(nodes)
	for _, n := range batch {
		if i := slices.IndexFunc(merged, func(m diagram.Node) bool { return m.ID == n.ID }); i >= 0 {
			merged[i] = n
			if !slices.Contains(report.Updated, n.ID) {
				report.Updated = append(report.Updated, n.ID)
			}
			continue
		}
		merged = append(merged, n)
		report.Created = append(report.Created, n.ID)
	}

	mergedEdges := slices.Clone(edges)
	for _, edge := range resolved {
		exists := slices.ContainsFunc(mergedEdges, func(m diagram.Edge) bool {
			return m.Source == edge.Source && m.Target == edge.Target
		})
		if exists {
			report.DuplicateEdges++
			continue
		}
		edge.ID = e.newID(EdgePrefix)
		mergedEdges = append(mergedEdges, edge)
		report.EdgesAdded++
	}

	return Result{Nodes: merged, Edges: mergedEdges, Report: report}
}

// MergePayload merges a structured payload into d.
func (e *Engine) MergePayload(d diagram.Diagram, p proposal.Payload) Result {
	return e.Merge(p.Components, p.Connections, d.Nodes, d.Edges)
}

// componentName picks the label for a component: its name, else its type
// phrase, else the canonical type.
func componentName(c proposal.Component, canonical string) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if phrase := strings.TrimSpace(c.Type); phrase != "" {
		return phrase
	}
	return canonical
}

// NewID mints an id with the engine's generator, for nodes and edges created
// outside a merge.
func (e *Engine) NewID(prefix string) string {
	return e.newID(prefix)
}
