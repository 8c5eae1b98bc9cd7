// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for the readiness multiplexer the
// dispatcher runs on.

package api

import "time"

// Interest selects the readiness set a descriptor is registered for.
type Interest int

const (
	// InterestListen watches a listening socket for pending connections.
	InterestListen Interest = iota
	// InterestConn watches a connected socket for data and peer hangup.
	InterestConn
)

// Event encapsulates the result of an OS-level readiness notification.
type Event struct {
	FD       int
	Owner    any  // value passed to Register
	Readable bool // data or a pending connection is available
	Hangup   bool // peer hangup or socket error
}

// Multiplexer waits for readiness across many descriptors with one call.
type Multiplexer interface {
	// Register starts watching fd and associates owner with it.
	Register(fd int, in Interest, owner any) error

	// Unregister stops watching fd and forgets its owner.
	Unregister(fd int) error

	// Wait blocks up to timeout and queues ready events; it returns how many were queued.
	Wait(timeout time.Duration) (int, error)

	// Next pops the oldest queued event.
	Next() (Event, bool)

	// Close releases the multiplexer and returns the owners still registered.
	// Register fails with an ErrClosed-coded error afterwards.
	Close() []any

	// Len returns the number of registered descriptors.
	Len() int
}
