// Package transport
// Author: momentics <momentics@gmail.com>
//
// Platform-independent backend contract and factory.

package transport

import "github.com/momentics/gsock/api"

// State is the mutable part of a socket handle that backends operate on.
// FD is -1 until bind, connect or accept initializes it. Address is the
// address string the handle owns, if any.
type State struct {
	FD      int
	Address string
}

// Reset puts s back into the unset state.
func (s *State) Reset() {
	s.FD = -1
	s.Address = ""
}

// Initialized reports whether s holds a descriptor.
func (s *State) Initialized() bool {
	return s.FD >= 0
}

// Backend is the fixed set of transport-specific socket operations.
// Implementations hold no state and are shared by every handle of a transport.
type Backend interface {
	// Init zeroes s.
	Init(s *State) error

	// Bind creates a listening socket on address with the given backlog.
	Bind(s *State, address string, backlog int) error

	// Accept blocks until a peer connects, stores the new descriptor in client
	// and returns the peer address.
	Accept(s *State, client *State) (string, error)

	// Connect creates a socket connected to address.
	Connect(s *State, address string) error

	// Send writes p as a single-buffer message, forwarding flags unmodified.
	Send(s *State, p []byte, flags int) (int, error)

	// Recv reads into p as a single-buffer message, forwarding flags unmodified.
	Recv(s *State, p []byte, flags int) (int, error)

	// Close releases the descriptor and any owned address, then resets s.
	Close(s *State) error
}

// Lookup returns the backend serving t.
func Lookup(t api.Transport) (Backend, error) {
	if !t.Valid() {
		return nil, api.NewError(api.ErrCodeUnsupportedTransport, "lookup", "unknown transport").
			WithContext("transport", t.String())
	}
	return lookupPlatform(t)
}
