// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package socket provides a single stream socket handle for TCP/IPv4 and
// Unix domain transports.
//
// A Handle is created for one transport and forwards every operation to
// the backend chosen at creation:
//
//	h, err := socket.New(api.UnixDomain)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	if err := h.Bind("@echo", 32); err != nil {
//		return err
//	}
//	client, peer, err := h.Accept()
//
// Unix domain addresses starting with '@' live in the Linux abstract
// namespace; other addresses are filesystem paths, removed again when the
// listening handle is closed. TCP addresses are "<a>.<b>.<c>.<d>:<port>".
//
// A Handle owns its descriptor exclusively and is not safe for concurrent
// use. RawFD exposes the descriptor for registration with an external
// multiplexer such as package reactor.
package socket
