// File: server/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event loop: accept, hangup handling and worker handoff.

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/socket"
)

// Run drives the event loop until ctx is done or Shutdown is called, then
// releases the listener, the reactor and all idle connections. It returns
// nil on either kind of stop. Run may be called once.
func (s *Server) Run(ctx context.Context) error {
	if s.closed.Load() {
		return api.ErrClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.teardown()

	for {
		if s.stopRequested(ctx) {
			return nil
		}
		if _, err := s.reactor.Wait(s.cfg.PollTimeout); err != nil {
			if errors.Is(err, api.ErrClosed) {
				return nil
			}
			return fmt.Errorf("server: %w", err)
		}
		if s.stopRequested(ctx) {
			return nil
		}
		for ev, ok := s.reactor.Next(); ok; ev, ok = s.reactor.Next() {
			s.handleEvent(ev)
		}
	}
}

func (s *Server) stopRequested(ctx context.Context) bool {
	if s.stopping.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *Server) handleEvent(ev api.Event) {
	switch owner := ev.Owner.(type) {
	case *socket.Handle:
		if ev.Readable {
			s.accept()
		}
	case *conn:
		switch {
		case ev.Hangup:
			if err := s.reactor.Unregister(owner.fd); err != nil {
				s.log.Debug("unregister on hangup", "fd", owner.fd, "err", err)
			}
			s.closeConn(owner, "hangup")
		case ev.Readable:
			s.dispatch(owner)
		}
	}
}

func (s *Server) accept() {
	h, peer, err := s.listener.Accept()
	if err != nil {
		s.metrics.AcceptErrors.Inc()
		s.log.Warn("accept failed", "endpoint", s.endpoint, "err", err)
		return
	}
	s.metrics.Accepted.Inc()

	c := &conn{h: h, fd: h.RawFD(), peer: peer}
	if err := s.reactor.Register(c.fd, api.InterestConn, c); err != nil {
		s.metrics.RegisterErrors.Inc()
		s.log.Warn("register connection", "fd", c.fd, "peer", peer, "err", err)
		s.closeConn(c, "register failed")
		return
	}
	s.log.Debug("connection opened", "fd", c.fd, "peer", peer)
}

// dispatch removes c from the reactor before a worker takes it, so no
// second event for the same descriptor can start a concurrent worker.
func (s *Server) dispatch(c *conn) {
	if err := s.reactor.Unregister(c.fd); err != nil {
		s.metrics.RegisterErrors.Inc()
		s.log.Warn("unregister connection", "fd", c.fd, "peer", c.peer, "err", err)
		s.closeConn(c, "unregister failed")
		return
	}
	s.metrics.Dispatches.Inc()
	s.workers.Add(1)
	s.metrics.WorkersActive.Inc()
	go s.serve(c)
}
