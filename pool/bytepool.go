// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// Size-classed byte pool. Buffers round up to power-of-two classes so
// arenas and transports recycle storage instead of thrashing the GC.

package pool

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

const (
	slabMinShift = 9  // 512 B smallest class
	slabClasses  = 17 // largest class 32 MiB
)

// SlabPool implements api.BytePool over power-of-two size classes.
// Requests beyond the largest class fall through to plain allocation.
type SlabPool struct {
	classes  [slabClasses]sync.Pool
	acquires atomic.Int64
	releases atomic.Int64
}

// SlabStats aggregates pool traffic counters.
type SlabStats struct {
	Acquires int64
	Releases int64
}

// NewSlabPool returns an empty pool; classes populate on first Release.
func NewSlabPool() *SlabPool {
	return &SlabPool{}
}

// Acquire returns a slice of at least n bytes, sized to its class.
func (p *SlabPool) Acquire(n int) []byte {
	p.acquires.Add(1)
	c := classFor(n)
	if c < 0 {
		return make([]byte, n)
	}
	if v := p.classes[c].Get(); v != nil {
		return *(v.(*[]byte))
	}
	return make([]byte, 1<<(slabMinShift+c))
}

// Release returns buf to its size class. Buffers that do not match a
// class exactly are left to the GC.
func (p *SlabPool) Release(buf []byte) {
	p.releases.Add(1)
	c := classFor(cap(buf))
	if c < 0 || 1<<(slabMinShift+c) != cap(buf) {
		return
	}
	buf = buf[:cap(buf)]
	p.classes[c].Put(&buf)
}

// Stats exposes traffic counters for observability.
func (p *SlabPool) Stats() SlabStats {
	return SlabStats{
		Acquires: p.acquires.Load(),
		Releases: p.releases.Load(),
	}
}

// classFor maps a byte count to its size class, or -1 when oversized.
func classFor(n int) int {
	if n <= 1<<slabMinShift {
		return 0
	}
	c := bits.Len(uint(n-1)) - slabMinShift
	if c >= slabClasses {
		return -1
	}
	return c
}

// Heap is the api.BytePool fallback that allocates from the Go heap and
// leaves reclamation to the GC.
type Heap struct{}

// Acquire implements api.BytePool.
func (Heap) Acquire(n int) []byte { return make([]byte, n) }

// Release implements api.BytePool.
func (Heap) Release([]byte) {}
