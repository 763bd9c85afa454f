package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GenerationKey returns the prefixed inner key.
func (k *ScopedKeyer) GenerationKey(opts GenerationKeyOpts) string {
	return k.prefix + k.inner.GenerationKey(opts)
}

// RenderKey returns the prefixed inner key.
func (k *ScopedKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(diagramHash, opts)
}
