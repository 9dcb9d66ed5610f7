// File: protocol/mask.go
// Author: momentics <momentics@gmail.com>
//
// Cycling XOR masking. Masking and unmasking are the same involution.

package protocol

// MaskBytes XORs p in place against key, starting at the given absolute
// payload offset. Feeding a payload in chunks with a running offset
// produces the same bytes as masking it whole, so chunk boundaries never
// disturb key alignment.
func MaskBytes(p []byte, key [4]byte, offset uint64) {
	for i := range p {
		p[i] ^= key[(offset+uint64(i))&3]
	}
}
