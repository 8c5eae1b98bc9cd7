// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server construction, shutdown and introspection.

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/control"
	"github.com/momentics/gsock/pool"
	"github.com/momentics/gsock/reactor"
	"github.com/momentics/gsock/socket"
)

var ErrAlreadyRunning = errors.New("server already running")

// conn is a client connection as tracked by the reactor. The fd is copied
// at accept time so a worker can re-register without touching the handle's
// state after ownership has moved on.
type conn struct {
	h    *socket.Handle
	fd   int
	peer string
}

// Server accepts connections on one endpoint and hands each readable
// connection to a short-lived worker goroutine.
//
// A connection is either registered with the reactor or owned by exactly
// one worker, never both; the worker re-registers it when done.
type Server struct {
	cfg      Config
	log      *slog.Logger
	metrics  *control.Metrics
	probes   *control.DebugProbes
	handler  Handler
	buffers  api.BytePool
	endpoint string

	listener *socket.Handle
	reactor  api.Multiplexer

	running  atomic.Bool
	stopping atomic.Bool
	closed   atomic.Bool
	workers  atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

var _ api.GracefulShutdown = (*Server)(nil)

// New binds cfg.Endpoint and prepares the reactor. A nil cfg uses
// DefaultConfig, which has no endpoint and therefore fails.
func New(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:     cfg.withDefaults(),
		log:     slog.Default(),
		handler: Reverse,
		probes:  control.NewDebugProbes(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = control.NewMetrics()
	}
	if s.buffers == nil {
		s.buffers = pool.NewBytePool(s.cfg.MessageSize)
	}

	l, err := socket.Listen(s.cfg.Endpoint, s.cfg.Backlog)
	if err != nil {
		return nil, fmt.Errorf("server: listen %s: %w", s.cfg.Endpoint, err)
	}
	s.endpoint = s.cfg.Endpoint
	if ep, err := l.LocalEndpoint(); err == nil {
		s.endpoint = ep
	}

	r, err := reactor.New(s.cfg.MaxEvents)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("server: %w", err)
	}
	if err := r.Register(l.RawFD(), api.InterestListen, l); err != nil {
		r.Close()
		l.Close()
		return nil, fmt.Errorf("server: register listener: %w", err)
	}
	s.listener = l
	s.reactor = r

	s.probes.RegisterProbe("endpoint", func() any { return s.endpoint })
	s.probes.RegisterProbe("registered_connections", func() any { return s.registeredConns() })
	s.probes.RegisterProbe("workers_active", func() any { return s.workers.Load() })
	s.log.Info("listening", "endpoint", s.endpoint, "backlog", s.cfg.Backlog)
	return s, nil
}

// Addr returns the bound endpoint, including a kernel-assigned TCP port.
func (s *Server) Addr() string {
	return s.endpoint
}

// Metrics returns the collectors this server updates.
func (s *Server) Metrics() *control.Metrics {
	return s.metrics
}

// Probes returns the debug probe registry, so callers can add their own.
func (s *Server) Probes() *control.DebugProbes {
	return s.probes
}

// DumpState returns a snapshot of the debug probes.
func (s *Server) DumpState() map[string]any {
	return s.probes.DumpState()
}

// Shutdown asks Run to stop after its current wait. When Run is not
// active the listener and reactor are released immediately. Safe to call
// more than once and from any goroutine.
func (s *Server) Shutdown() error {
	s.stopping.Store(true)
	if !s.running.Load() {
		return s.teardown()
	}
	return nil
}

// teardown releases the listener and the reactor, then closes every
// connection that was still registered. Connections held by workers are
// closed by those workers when their re-registration fails.
func (s *Server) teardown() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.reactor.Unregister(s.listener.RawFD()); err != nil {
			s.log.Debug("unregister listener", "err", err)
		}
		s.closeErr = s.listener.Close()

		idle := 0
		for _, owner := range s.reactor.Close() {
			if c, ok := owner.(*conn); ok {
				s.closeConn(c, "shutdown")
				idle++
			}
		}
		s.log.Info("server stopped", "endpoint", s.endpoint, "closed_idle", idle)
	})
	return s.closeErr
}

func (s *Server) registeredConns() int {
	if s.closed.Load() {
		return 0
	}
	// the listener is registered too
	return max(s.reactor.Len()-1, 0)
}

func (s *Server) closeConn(c *conn, reason string) {
	if err := c.h.Close(); err != nil {
		s.log.Warn("close connection", "fd", c.fd, "peer", c.peer, "err", err)
	}
	s.metrics.Closed.Inc()
	s.log.Debug("connection closed", "fd", c.fd, "peer", c.peer, "reason", reason)
}
