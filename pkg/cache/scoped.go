package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey generates a prefixed key for a scanned tree.
func (k *ScopedKeyer) TreeKey(source, input string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(source, input, opts)
}

// UploadKey generates a prefixed key for an uploaded tree.
func (k *ScopedKeyer) UploadKey(id string) string {
	return k.prefix + k.inner.UploadKey(id)
}
