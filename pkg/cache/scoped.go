package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without seeing each other's entries.
//
// Example usage:
//
//	// API server keys, isolated from CLI runs against the same Redis
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for parsed graph caching.
func (k *ScopedKeyer) GraphKey(dataHash string, format string) string {
	return k.prefix + k.inner.GraphKey(dataHash, format)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
