// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"sync/atomic"

	"github.com/momentics/gsock/api"
)

// DefaultMessageSize is the buffer size used when none is configured.
const DefaultMessageSize = 512

// BytePool hands out fixed-size message buffers. Buffers of any other
// capacity are refused on Release and left to the GC.
type BytePool struct {
	size   int
	slabs  *SyncPool[*[]byte]
	allocs atomic.Int64
	inUse  atomic.Int64
}

var _ api.BytePool = (*BytePool)(nil)

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	if size <= 0 {
		size = DefaultMessageSize
	}
	b := &BytePool{size: size}
	b.slabs = NewSyncPool(func() *[]byte {
		b.allocs.Add(1)
		buf := make([]byte, size)
		return &buf
	})
	return b
}

// Size returns the capacity of every pooled buffer.
func (b *BytePool) Size() int { return b.size }

// Acquire returns a buffer of length n. Requests larger than the pool size
// get a fresh allocation.
func (b *BytePool) Acquire(n int) []byte {
	if n > b.size {
		return make([]byte, n)
	}
	if n < 0 {
		n = 0
	}
	buf := *b.slabs.Get()
	b.inUse.Add(1)
	return buf[:n]
}

// Release returns buf to the pool. buf must not be used afterwards.
func (b *BytePool) Release(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.inUse.Add(-1)
	buf = buf[:b.size]
	b.slabs.Put(&buf)
}

// Stats reports allocation and usage counters.
func (b *BytePool) Stats() api.BufferPoolStats {
	return api.BufferPoolStats{
		TotalAlloc: b.allocs.Load(),
		InUse:      b.inUse.Load(),
	}
}
