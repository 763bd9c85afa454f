// Package synth turns proposals into diagram changes.
//
// # Overview
//
// The package has four pieces that compose into a merge:
//
//   - [Resolver] maps a short textual reference ("database", "the API") to a
//     node. The default, [Substring], matches when the node label contains
//     the reference case-insensitively and the first such node wins.
//   - [NormalizeType] maps a loose type phrase ("api-server", "Redis cache")
//     onto the closed vocabulary in package diagram. Rules are tried in order
//     and the first key contained in the phrase decides; unknown phrases
//     become "server".
//   - [GridPosition] places the k-th new node of a batch on a four-column
//     grid.
//   - [Engine.Merge] resolves components, then connections, then folds both
//     into the prior diagram.
//
// [ParseText] is the free-text alternative to a structured payload: it scans
// lines for "create/add/include ..." and "X connects to Y" phrasing and
// returns the same proposal shapes.
//
// # Merge semantics
//
// A merge never removes anything and never fails. Components that match an
// existing node keep that node's id and position. Connections whose
// endpoints cannot be resolved are dropped and reported, not created as
// dangling edges. An edge is skipped when one with the same source and
// target already exists, so repeating a merge is a no-op:
//
//	engine := synth.NewEngine()
//	first := engine.Merge(comps, conns, nil, nil)
//	again := engine.Merge(comps, conns, first.Nodes, first.Edges)
//	// again.Nodes and again.Edges equal first.Nodes and first.Edges
//
// # Ambiguous labels
//
// Substring matching with first-match tie-breaking is permissive: a
// reference "API" matches both "API Gateway" and "Payment API" and resolves
// to whichever comes first. [Chain] composes [Exact], [Substring] and
// [Fuzzy] so an exact label wins over a containing one when callers want
// stricter resolution.
package synth
