//go:build !linux

// File: internal/transport/transport_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without the Linux socket backends.

package transport

import (
	"runtime"

	"github.com/momentics/gsock/api"
)

func lookupPlatform(t api.Transport) (Backend, error) {
	return nil, api.NewError(api.ErrCodeUnsupportedTransport, "lookup", "no backend on this platform").
		WithContext("transport", t.String()).
		WithContext("os", runtime.GOOS)
}

// LocalAddress is unavailable without the Linux backends.
func LocalAddress(fd int) (string, error) {
	return "", api.NewError(api.ErrCodeUnsupportedTransport, "local address", "no backend on this platform").
		WithContext("os", runtime.GOOS)
}
