// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the buffer pooling contract used by dispatcher workers.

package api

// BytePool provides reusable []byte buffers for all high-intensity operations
type BytePool interface {
	// Acquire returns a slice of at least n bytes.
	Acquire(n int) []byte

	// Release returns a buffer to the pool
	Release(buf []byte)
}

// BufferPoolStats aggregates buffer allocation/reuse stats.
type BufferPoolStats struct {
	TotalAlloc int64 // buffers ever allocated by the pool
	InUse      int64 // buffers acquired and not yet released
}
