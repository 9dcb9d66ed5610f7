// File: fake/rand.go
// Author: momentics <momentics@gmail.com>
//
// Deterministic mask-key source for golden-vector tests.

package fake

// StaticRand implements api.RandSource with a fixed key.
type StaticRand struct {
	Key [4]byte
}

// MaskKey returns the configured key.
func (r StaticRand) MaskKey() [4]byte {
	return r.Key
}
