package cache

// Keyer derives cache keys for rendered artifacts.
type Keyer interface {
	// ArtifactKey returns the key for dotHash rendered to format by backend.
	ArtifactKey(dotHash, format, backend string) string
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the DOT hash together with the format and backend name,
// since backends may rasterize the same source differently.
func (DefaultKeyer) ArtifactKey(dotHash, format, backend string) string {
	return "artifact:" + artifactDigest(dotHash, format, backend)
}
