// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the stream socket contract shared by the socket handle and
// the dispatcher workers.

package api

// Socket abstracts a full-duplex stream connection backed by a raw descriptor.
type Socket interface {
	// Send writes p with the given MSG_* flags and returns bytes transferred.
	Send(p []byte, flags int) (int, error)

	// Recv reads into p with the given MSG_* flags. Zero means orderly EOF.
	Recv(p []byte, flags int) (int, error)

	// RawFD returns the underlying OS-level file descriptor, or -1 when unset.
	RawFD() int

	// Close releases the descriptor and any owned address.
	Close() error
}
