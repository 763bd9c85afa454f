package synth

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/matzehuels/archsketch/pkg/diagram"
)

// Resolver finds the node a textual reference points to.
type Resolver interface {
	Resolve(name string, nodes []diagram.Node) (diagram.Node, bool)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(name string, nodes []diagram.Node) (diagram.Node, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string, nodes []diagram.Node) (diagram.Node, bool) {
	return f(name, nodes)
}

// Substring matches the first node whose label contains name, ignoring case.
// An empty name matches nothing.
var Substring Resolver = ResolverFunc(func(name string, nodes []diagram.Node) (diagram.Node, bool) {
	ref := normalizeRef(name)
	if ref == "" {
		return diagram.Node{}, false
	}
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Data.Label), ref) {
			return n, true
		}
	}
	return diagram.Node{}, false
})

// Exact matches the first node whose label equals name, ignoring case and
// surrounding whitespace.
var Exact Resolver = ResolverFunc(func(name string, nodes []diagram.Node) (diagram.Node, bool) {
	ref := normalizeRef(name)
	if ref == "" {
		return diagram.Node{}, false
	}
	for _, n := range nodes {
		if normalizeRef(n.Data.Label) == ref {
			return n, true
		}
	}
	return diagram.Node{}, false
})

// Fuzzy matches the node whose label is most similar to name by edit
// distance, provided the similarity reaches MinSimilarity (0..1). Ties go to
// the earlier node.
type Fuzzy struct {
	MinSimilarity float64
}

// DefaultFuzzy accepts labels within roughly one typo per five characters.
var DefaultFuzzy = Fuzzy{MinSimilarity: 0.8}

// Resolve implements [Resolver].
func (f Fuzzy) Resolve(name string, nodes []diagram.Node) (diagram.Node, bool) {
	ref := normalizeRef(name)
	if ref == "" {
		return diagram.Node{}, false
	}
	best, bestScore := -1, 0.0
	for i, n := range nodes {
		score := levenshtein.Similarity(ref, normalizeRef(n.Data.Label), nil)
		if score >= f.MinSimilarity && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return diagram.Node{}, false
	}
	return nodes[best], true
}

// Chain tries each resolver in order and returns the first hit.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(name string, nodes []diagram.Node) (diagram.Node, bool) {
		for _, r := range resolvers {
			if n, ok := r.Resolve(name, nodes); ok {
				return n, true
			}
		}
		return diagram.Node{}, false
	})
}

// Strict prefers exact labels, then containment, then near-misses.
func Strict() Resolver {
	return Chain(Exact, Substring, DefaultFuzzy)
}

func normalizeRef(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
