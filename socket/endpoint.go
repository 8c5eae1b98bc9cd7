// File: socket/endpoint.go
// Author: momentics <momentics@gmail.com>
//
// Scheme-prefixed endpoints: "tcp://127.0.0.1:10000", "ipc:///tmp/uds.ipc",
// "ipc://@name".

package socket

import (
	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/internal/transport"
)

// ParseEndpoint splits an endpoint into its transport and backend address.
func ParseEndpoint(endpoint string) (api.Transport, string, error) {
	return transport.ParseEndpoint(endpoint)
}

// Listen creates a handle for the endpoint's transport and binds it.
func Listen(endpoint string, backlog int) (*Handle, error) {
	t, addr, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	h, err := New(t)
	if err != nil {
		return nil, err
	}
	if err := h.Bind(addr, backlog); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// Dial creates a handle for the endpoint's transport and connects it.
func Dial(endpoint string) (*Handle, error) {
	t, addr, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	h, err := New(t)
	if err != nil {
		return nil, err
	}
	if err := h.Connect(addr); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// LocalEndpoint reports the endpoint the handle is bound to, with any
// kernel-assigned port filled in.
func (h *Handle) LocalEndpoint() (string, error) {
	if h.closed {
		return "", closedError("local endpoint")
	}
	addr, err := transport.LocalAddress(h.state.FD)
	if err != nil {
		return "", err
	}
	return h.transport.Scheme() + addr, nil
}
