// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

import "fmt"

// Transport tags the address family a socket handle speaks.
type Transport int

const (
	TransportUnknown Transport = iota
	TCP
	UnixDomain
)

func (t Transport) String() string {
	switch t {
	case TCP:
		return "tcp"
	case UnixDomain:
		return "unix"
	default:
		return fmt.Sprintf("transport(%d)", int(t))
	}
}

// Scheme returns the endpoint prefix used on command lines ("tcp://", "ipc://").
func (t Transport) Scheme() string {
	switch t {
	case TCP:
		return "tcp://"
	case UnixDomain:
		return "ipc://"
	default:
		return ""
	}
}

// Valid reports whether t names a known transport.
func (t Transport) Valid() bool {
	return t == TCP || t == UnixDomain
}
