// File: socket/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handle lifecycle and backend dispatch.

package socket

import (
	"fmt"

	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/internal/transport"
)

// Handle is a stream socket bound to one transport backend. It owns at
// most one descriptor and, for listening sockets, the address it is
// responsible for releasing.
type Handle struct {
	transport api.Transport
	backend   transport.Backend
	state     transport.State
	closed    bool
}

var _ api.Socket = (*Handle)(nil)

// New creates an unbound handle for t.
func New(t api.Transport) (*Handle, error) {
	b, err := transport.Lookup(t)
	if err != nil {
		return nil, err
	}
	h := newHandle(t, b)
	if err := b.Init(&h.state); err != nil {
		return nil, err
	}
	return h, nil
}

func newHandle(t api.Transport, b transport.Backend) *Handle {
	return &Handle{
		transport: t,
		backend:   b,
		state:     transport.State{FD: -1},
	}
}

// Bind creates a listening socket on address. A handle can be bound or
// connected only once.
func (h *Handle) Bind(address string, backlog int) error {
	if h.closed {
		return closedError("bind")
	}
	return h.backend.Bind(&h.state, address, backlog)
}

// Accept blocks until a peer connects and returns a new handle for it
// along with the peer address. The listening handle is not modified.
func (h *Handle) Accept() (*Handle, string, error) {
	if h.closed {
		return nil, "", closedError("accept")
	}
	client := newHandle(h.transport, h.backend)
	peer, err := h.backend.Accept(&h.state, &client.state)
	if err != nil {
		client.release()
		return nil, "", api.WrapError(api.ErrCodeAcceptFailure, "accept", err)
	}
	return client, peer, nil
}

// Connect connects the handle to address. A handle can be bound or
// connected only once.
func (h *Handle) Connect(address string) error {
	if h.closed {
		return closedError("connect")
	}
	return h.backend.Connect(&h.state, address)
}

// Send writes p in one sendmsg call with flags passed through unmodified.
func (h *Handle) Send(p []byte, flags int) (int, error) {
	if h.closed {
		return 0, closedError("send")
	}
	return h.backend.Send(&h.state, p, flags)
}

// Recv reads into p in one recvmsg call with flags passed through
// unmodified. Zero bytes with a nil error means the peer closed.
func (h *Handle) Recv(p []byte, flags int) (int, error) {
	if h.closed {
		return 0, closedError("recv")
	}
	return h.backend.Recv(&h.state, p, flags)
}

// RawFD returns the OS descriptor, or -1 if none is held.
func (h *Handle) RawFD() int {
	return h.state.FD
}

// Transport returns the transport tag fixed at creation.
func (h *Handle) Transport() api.Transport {
	return h.transport
}

// Address returns the address string the handle owns: the bound address of
// a TCP listener, or the socket path of a filesystem Unix listener.
func (h *Handle) Address() string {
	return h.state.Address
}

// Close releases the descriptor and removes an owned socket path. Resources
// are released even when the returned error is non-nil. Closing twice is a
// no-op; every other operation on a closed handle fails with api.ErrClosed.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	return h.release()
}

func (h *Handle) release() error {
	h.closed = true
	return h.backend.Close(&h.state)
}

func (h *Handle) String() string {
	if h.state.Address != "" {
		return fmt.Sprintf("%s(fd=%d, %s)", h.transport, h.state.FD, h.state.Address)
	}
	return fmt.Sprintf("%s(fd=%d)", h.transport, h.state.FD)
}

func closedError(op string) *api.Error {
	return api.NewError(api.ErrCodeClosed, op, "")
}
