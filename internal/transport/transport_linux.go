//go:build linux

// File: internal/transport/transport_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backend registry and the syscall helpers both backends share.

package transport

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/gsock/api"
)

var (
	tcp        Backend = tcpBackend{}
	unixDomain Backend = unixBackend{}
)

func lookupPlatform(t api.Transport) (Backend, error) {
	switch t {
	case api.TCP:
		return tcp, nil
	case api.UnixDomain:
		return unixDomain, nil
	}
	return nil, api.NewError(api.ErrCodeUnsupportedTransport, "lookup", "unknown transport").
		WithContext("transport", t.String())
}

// ignoringEINTR restarts fn when a signal interrupted the call before it
// did any work. The Go runtime delivers signals to every thread, so blocking
// calls made outside the netpoller can see EINTR at any time.
func ignoringEINTR[T any](fn func() (T, error)) (T, error) {
	for {
		v, err := fn()
		if err != unix.EINTR {
			return v, err
		}
	}
}

// openStream creates a blocking, close-on-exec stream socket.
func openStream(family int) (int, error) {
	return unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
}

// listenOn binds fd to sa and starts listening. On failure fd is closed.
func listenOn(op string, fd int, sa unix.Sockaddr, backlog int) error {
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return transportError(op, "bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return transportError(op, "listen", err)
	}
	return nil
}

// connectTo connects the blocking socket fd to sa. An interrupted connect
// keeps going in the kernel, so wait for writability and read SO_ERROR
// instead of issuing connect again. On failure fd is closed.
func connectTo(fd int, sa unix.Sockaddr) error {
	err := unix.Connect(fd, sa)
	switch err {
	case nil, unix.EISCONN:
		return nil
	case unix.EINTR, unix.EINPROGRESS, unix.EALREADY:
	default:
		unix.Close(fd)
		return err
	}

	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	if _, err := ignoringEINTR(func() (int, error) { return unix.Poll(pfd, -1) }); err != nil {
		unix.Close(fd)
		return err
	}
	soerr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		unix.Close(fd)
		return err
	}
	if soerr != 0 {
		unix.Close(fd)
		return unix.Errno(soerr)
	}
	return nil
}

func acceptFrom(fd int) (int, unix.Sockaddr, error) {
	for {
		nfd, sa, err := unix.Accept4(fd, unix.SOCK_CLOEXEC)
		if err != unix.EINTR {
			return nfd, sa, err
		}
	}
}

// sendSingle and recvSingle hand the caller's buffer to the kernel as a
// one-element iovec so the flags reach sendmsg/recvmsg untouched.
func sendSingle(fd int, p []byte, flags int) (int, error) {
	return ignoringEINTR(func() (int, error) {
		return unix.SendmsgBuffers(fd, [][]byte{p}, nil, nil, flags)
	})
}

func recvSingle(fd int, p []byte, flags int) (int, error) {
	return ignoringEINTR(func() (int, error) {
		n, _, _, _, err := unix.RecvmsgBuffers(fd, [][]byte{p}, nil, flags)
		return n, err
	})
}

func transportError(op, step string, err error) *api.Error {
	return api.WrapError(api.ErrCodeTransport, op, err).WithContext("step", step)
}

func unsetError(op string) *api.Error {
	return transportError(op, "descriptor not initialized", unix.EBADF)
}

func boundError(op string, code api.ErrorCode) *api.Error {
	return api.NewError(code, op, "descriptor already initialized")
}

// LocalAddress reports the address fd is bound to, in the form the
// matching backend's Bind accepts.
func LocalAddress(fd int) (string, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return "", transportError("local address", "getsockname", err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return IPv4Address{Octets: a.Addr, Port: uint16(a.Port)}.String(), nil
	case *unix.SockaddrUnix:
		return a.Name, nil
	}
	return "", api.NewError(api.ErrCodeUnsupportedTransport, "local address", "unexpected address family")
}
