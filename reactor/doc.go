// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness multiplexer the dispatcher runs on:
// an epoll instance, a registration table mapping each watched descriptor
// to its owner, and a FIFO of ready events drained between waits.
package reactor
