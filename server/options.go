// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log/slog"

	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/control"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records server activity in m instead of a private set.
func WithMetrics(m *control.Metrics) ServerOption {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithHandler sets the request transform. Defaults to Reverse.
func WithHandler(h Handler) ServerOption {
	return func(s *Server) {
		if h != nil {
			s.handler = h
		}
	}
}

// WithBufferPool supplies the pool workers take request buffers from.
func WithBufferPool(p api.BytePool) ServerOption {
	return func(s *Server) {
		if p != nil {
			s.buffers = p
		}
	}
}
