package cache

import "bytes"

// Snapshot holds the bytes of an object artifact at one point in a build cycle
type Snapshot struct {
	// Path is the object artifact the bytes were read from
	Path string

	// Data is the full artifact content
	Data []byte
}

// Digest identifies the snapshot content
func (s *Snapshot) Digest() string {
	if s == nil {
		return ""
	}

	return Digest(s.Data)
}

// Size returns the artifact size in bytes
func (s *Snapshot) Size() int {
	if s == nil {
		return 0
	}

	return len(s.Data)
}

// Changed reports whether a unit's artifact must be considered changed.
// A missing prior snapshot (never built or unreadable) and a missing fresh
// snapshot (no output produced) both count as changed.
func Changed(prior, fresh *Snapshot) bool {
	if prior == nil || fresh == nil {
		return true
	}

	return !bytes.Equal(prior.Data, fresh.Data)
}
