// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for wsframe. Implements size-classed byte pooling and the
// cursor-based arena that backs per-connection inbound buffering.
// See bytepool.go and arena.go for implementation details.
package pool
