package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Shared Redis deployments use this to keep different projects' plans from
// colliding in one keyspace.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "game-assets:")
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

// PlanKey generates a prefixed key for plan caching.
func (k *ScopedKeyer) PlanKey(itemsHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(itemsHash, opts)
}
