//go:build linux

// File: internal/transport/unix_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unix domain stream backend, including the Linux abstract namespace.

package transport

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"github.com/momentics/gsock/api"
)

type unixBackend struct{}

func (a UnixAddress) sockaddr() *unix.SockaddrUnix {
	return &unix.SockaddrUnix{Name: a.SockaddrName()}
}

func (unixBackend) Init(s *State) error {
	s.Reset()
	return nil
}

func (unixBackend) Bind(s *State, address string, backlog int) error {
	const op = "unix bind"
	if s.Initialized() {
		return boundError(op, api.ErrCodeAlreadyBound)
	}
	addr, err := ParseUnixAddress(address)
	if err != nil {
		return err
	}

	fd, err := openStream(unix.AF_UNIX)
	if err != nil {
		return transportError(op, "socket", err)
	}
	if err := listenOn(op, fd, addr.sockaddr(), backlog); err != nil {
		return err
	}

	s.FD = fd
	// Abstract names have no filesystem entry, so there is nothing to own.
	if !addr.Abstract {
		s.Address = addr.Name
	}
	return nil
}

func (unixBackend) Accept(s *State, client *State) (string, error) {
	const op = "unix accept"
	if !s.Initialized() {
		return "", unsetError(op)
	}
	fd, sa, err := acceptFrom(s.FD)
	if err != nil {
		return "", transportError(op, "accept", err)
	}
	client.FD = fd

	// x/sys reports abstract peers with the '@' marker already in place.
	// An unbound client has an all-zero sun_path, which x/sys renders as a
	// bare marker; report that as the empty name.
	var peer string
	if un, ok := sa.(*unix.SockaddrUnix); ok && un.Name != string(AbstractMarker) {
		peer = un.Name
	}
	return peer, nil
}

func (unixBackend) Connect(s *State, address string) error {
	const op = "unix connect"
	if s.Initialized() {
		return boundError(op, api.ErrCodeAlreadyConnected)
	}
	addr, err := ParseUnixAddress(address)
	if err != nil {
		return err
	}

	fd, err := openStream(unix.AF_UNIX)
	if err != nil {
		return transportError(op, "socket", err)
	}
	if err := connectTo(fd, addr.sockaddr()); err != nil {
		return transportError(op, "connect", err)
	}
	s.FD = fd
	return nil
}

func (unixBackend) Send(s *State, p []byte, flags int) (int, error) {
	if !s.Initialized() {
		return 0, unsetError("unix send")
	}
	n, err := sendSingle(s.FD, p, flags)
	if err != nil {
		return 0, transportError("unix send", "sendmsg", err)
	}
	return n, nil
}

func (unixBackend) Recv(s *State, p []byte, flags int) (int, error) {
	if !s.Initialized() {
		return 0, unsetError("unix recv")
	}
	n, err := recvSingle(s.FD, p, flags)
	if err != nil {
		return 0, transportError("unix recv", "recvmsg", err)
	}
	return n, nil
}

func (unixBackend) Close(s *State) error {
	var errs []error
	if s.Initialized() {
		if err := unix.Close(s.FD); err != nil {
			errs = append(errs, transportError("unix close", "close", err))
		}
	}
	if s.Address != "" {
		if err := os.Remove(s.Address); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, transportError("unix close", "unlink", err))
		}
	}
	s.Reset()
	return errors.Join(errs...)
}
