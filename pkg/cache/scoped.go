package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses one per
// chart instance so evicting an instance can target its keys.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "chart:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner means the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

func (k *ScopedKeyer) DatasetKey(source, contentHash string) string {
	return k.prefix + k.inner.DatasetKey(source, contentHash)
}

func (k *ScopedKeyer) GeometryKey(inputHash string, opts GeometryKeyOpts) string {
	return k.prefix + k.inner.GeometryKey(inputHash, opts)
}

func (k *ScopedKeyer) SceneKey(geometryHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(geometryHash, opts)
}
