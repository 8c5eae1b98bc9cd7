//go:build linux

// File: internal/transport/tcp_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TCP/IPv4 stream backend.

package transport

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/gsock/api"
)

type tcpBackend struct{}

func (a IPv4Address) sockaddr() *unix.SockaddrInet4 {
	return &unix.SockaddrInet4{Port: int(a.Port), Addr: a.Octets}
}

func (tcpBackend) Init(s *State) error {
	s.Reset()
	return nil
}

func (tcpBackend) Bind(s *State, address string, backlog int) error {
	const op = "tcp bind"
	if s.Initialized() {
		return boundError(op, api.ErrCodeAlreadyBound)
	}
	addr, err := ParseIPv4Address(address)
	if err != nil {
		return err
	}

	fd, err := openStream(unix.AF_INET)
	if err != nil {
		return transportError(op, "socket", err)
	}
	// Same default the Go runtime applies to its listeners, so a restarted
	// server does not trip over connections lingering in TIME_WAIT.
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return transportError(op, "setsockopt", err)
	}
	if err := listenOn(op, fd, addr.sockaddr(), backlog); err != nil {
		return err
	}

	s.FD = fd
	s.Address = address
	return nil
}

func (tcpBackend) Accept(s *State, client *State) (string, error) {
	const op = "tcp accept"
	if !s.Initialized() {
		return "", unsetError(op)
	}
	fd, sa, err := acceptFrom(s.FD)
	if err != nil {
		return "", transportError(op, "accept", err)
	}
	client.FD = fd

	var peer string
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		peer = IPv4Address{Octets: in4.Addr, Port: uint16(in4.Port)}.String()
	}
	return peer, nil
}

func (tcpBackend) Connect(s *State, address string) error {
	const op = "tcp connect"
	if s.Initialized() {
		return boundError(op, api.ErrCodeAlreadyConnected)
	}
	addr, err := ParseIPv4Address(address)
	if err != nil {
		return err
	}

	fd, err := openStream(unix.AF_INET)
	if err != nil {
		return transportError(op, "socket", err)
	}
	if err := connectTo(fd, addr.sockaddr()); err != nil {
		return transportError(op, "connect", err)
	}
	s.FD = fd
	return nil
}

func (tcpBackend) Send(s *State, p []byte, flags int) (int, error) {
	if !s.Initialized() {
		return 0, unsetError("tcp send")
	}
	n, err := sendSingle(s.FD, p, flags)
	if err != nil {
		return 0, transportError("tcp send", "sendmsg", err)
	}
	return n, nil
}

func (tcpBackend) Recv(s *State, p []byte, flags int) (int, error) {
	if !s.Initialized() {
		return 0, unsetError("tcp recv")
	}
	n, err := recvSingle(s.FD, p, flags)
	if err != nil {
		return 0, transportError("tcp recv", "recvmsg", err)
	}
	return n, nil
}

func (tcpBackend) Close(s *State) error {
	var err error
	if s.Initialized() {
		if cerr := unix.Close(s.FD); cerr != nil {
			err = transportError("tcp close", "close", cerr)
		}
	}
	s.Reset()
	return err
}
