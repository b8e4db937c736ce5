package cache

import "strings"

// ScopedKeyer namespaces artifact keys. The CLI and server scope keys with
// the build version, so an upgraded renderer never serves artifacts laid
// out by an older one:
//
//	keyer := NewScopedKeyer(nil, buildinfo.Version) // "v1.4.0:artifact:<sha256>"
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner (nil means [DefaultKeyer]) with scope. Scope
// and key are joined by a single ":"; an empty scope leaves keys unchanged.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, scope: strings.TrimSuffix(scope, ":")}
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(dotHash, format, backend string) string {
	key := k.inner.ArtifactKey(dotHash, format, backend)
	if k.scope == "" {
		return key
	}
	return k.scope + ":" + key
}
