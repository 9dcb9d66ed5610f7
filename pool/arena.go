// File: pool/arena.go
// Package pool implements buffer primitives for the frame codec.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arena is an owned byte region with explicit read and write cursors. The
// connection state machine buffers unconsumed inbound bytes here across
// transport reads; compaction keeps growth bounded by the largest
// in-progress frame prefix rather than total traffic.

package pool

import "github.com/momentics/wsframe/api"

const minArenaCapacity = 512

// Arena is a single-owner byte buffer with read and write cursors.
// Not safe for concurrent use; ownership stays with one reader.
type Arena struct {
	pool api.BytePool
	buf  []byte
	r, w int
}

// NewArena builds an arena backed by pool. A nil pool falls back to plain
// heap allocation.
func NewArena(pool api.BytePool) *Arena {
	if pool == nil {
		pool = Heap{}
	}
	return &Arena{pool: pool}
}

// Write appends p behind the write cursor, compacting or growing the
// backing storage as needed.
func (a *Arena) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	a.ensure(len(p))
	copy(a.buf[a.w:], p)
	a.w += len(p)
}

// Bytes returns the unconsumed window. Valid until the next Write.
func (a *Arena) Bytes() []byte {
	return a.buf[a.r:a.w]
}

// Len returns the number of unconsumed bytes.
func (a *Arena) Len() int {
	return a.w - a.r
}

// Consume advances the read cursor by n bytes.
func (a *Arena) Consume(n int) {
	a.r += n
	if a.r == a.w {
		a.r, a.w = 0, 0
	}
}

// Reset drops all buffered bytes and returns the backing storage to the
// pool.
func (a *Arena) Reset() {
	if a.buf != nil {
		a.pool.Release(a.buf)
		a.buf = nil
	}
	a.r, a.w = 0, 0
}

// ensure makes room for n more bytes behind the write cursor.
func (a *Arena) ensure(n int) {
	if a.w+n <= len(a.buf) {
		return
	}

	// Compact first: consumed prefix space is reclaimable in place.
	if a.r > 0 {
		copy(a.buf, a.buf[a.r:a.w])
		a.w -= a.r
		a.r = 0
		if a.w+n <= len(a.buf) {
			return
		}
	}

	want := a.w + n
	size := minArenaCapacity
	for size < want {
		size <<= 1
	}
	next := a.pool.Acquire(size)
	copy(next, a.buf[:a.w])
	if a.buf != nil {
		a.pool.Release(a.buf)
	}
	a.buf = next
}
