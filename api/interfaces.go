// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
//
// Abstract interfaces binding the codec to its collaborators: transports,
// buffer pools, and mask-key randomness sources.

package api

// Transport abstracts the byte-stream collaborator beneath a connection.
// Implementations deliver inbound chunks of arbitrary size and write
// outbound buffers in order.
type Transport interface {
	// Recv returns the next batch of inbound byte chunks.
	Recv() ([][]byte, error)

	// Send writes the buffers to the stream in order, atomically with
	// respect to other Send calls.
	Send(buffers [][]byte) error

	// Close shuts the stream down in both directions.
	Close() error

	// Features advertises transport capabilities.
	Features() TransportFeatures
}

// TransportFeatures advertises optional transport capabilities.
type TransportFeatures struct {
	ZeroCopy bool
	Batch    bool
	OS       []string
}

// BytePool provides reusable []byte buffers for high-intensity operations.
type BytePool interface {
	// Acquire returns a slice of at least n bytes.
	Acquire(n int) []byte

	// Release returns a buffer to the pool.
	Release(buf []byte)
}

// RandSource yields 4-byte masking keys for client-role encoders.
// Swappable for a deterministic source in tests.
type RandSource interface {
	MaskKey() [4]byte
}
