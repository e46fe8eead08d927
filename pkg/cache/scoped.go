package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Deployments sharing a
// Redis or Mongo backend use distinct prefixes to keep their entries apart.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NetworkKey returns the prefixed network key.
func (k *ScopedKeyer) NetworkKey(networkHash string) string {
	return k.prefix + k.inner.NetworkKey(networkHash)
}

// ResultKey returns the prefixed result key.
func (k *ScopedKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(networkHash, opts)
}

// DistanceKey returns the prefixed distance key.
func (k *ScopedKeyer) DistanceKey(networkHash, start string) string {
	return k.prefix + k.inner.DistanceKey(networkHash, start)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(networkHash, opts)
}
