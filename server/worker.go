// File: server/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"

	"github.com/momentics/gsock/api"
)

// serve handles exactly one message on c and then gives c back to the
// reactor. It is never joined; re-registration is its only way back.
func (s *Server) serve(c *conn) {
	defer func() {
		s.workers.Add(-1)
		s.metrics.WorkersActive.Dec()
	}()

	buf := s.buffers.Acquire(s.cfg.MessageSize)
	n, err := c.h.Recv(buf, 0)
	switch {
	case err != nil:
		s.log.Debug("worker receive", "fd", c.fd, "peer", c.peer, "err", err)
	case n > 0:
		s.metrics.BytesReceived.Add(float64(n))
		s.reply(c, buf[:n])
	}
	s.buffers.Release(buf)

	// A failed or empty receive still re-arms; the reactor then reports
	// the hangup and closes the connection.
	if err := s.reactor.Register(c.fd, api.InterestConn, c); err != nil {
		if errors.Is(err, api.ErrClosed) {
			s.closeConn(c, "shutdown")
			return
		}
		s.metrics.RegisterErrors.Inc()
		s.log.Warn("re-register connection", "fd", c.fd, "peer", c.peer, "err", err)
		s.closeConn(c, "register failed")
	}
}

func (s *Server) reply(c *conn, request []byte) {
	resp := s.handler(request)
	if len(resp) == 0 {
		return
	}
	n, err := c.h.Write(resp)
	s.metrics.BytesSent.Add(float64(n))
	if err != nil {
		s.log.Debug("worker send", "fd", c.fd, "peer", c.peer, "bytes", n, "err", err)
		return
	}
	s.log.Debug("worker replied", "fd", c.fd, "peer", c.peer, "bytes", n)
}
