package server

import (
	"time"

	"github.com/momentics/gsock/pool"
	"github.com/momentics/gsock/reactor"
)

// Config holds all server-side configuration parameters.
type Config struct {
	Endpoint    string        // "tcp://<ip>:<port>" or "ipc://<path>"
	Backlog     int           // listen(2) backlog
	MaxEvents   int           // events collected per wait
	PollTimeout time.Duration // upper bound of one wait; shutdown latency
	MessageSize int           // request buffer size per worker
}

// DefaultConfig returns sensible defaults. Endpoint must still be set.
func DefaultConfig() *Config {
	return &Config{
		Backlog:     32,
		MaxEvents:   reactor.DefaultMaxEvents,
		PollTimeout: time.Second,
		MessageSize: pool.DefaultMessageSize,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Backlog <= 0 {
		c.Backlog = d.Backlog
	}
	if c.MaxEvents <= 0 {
		c.MaxEvents = d.MaxEvents
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = d.PollTimeout
	}
	if c.MessageSize <= 0 {
		c.MessageSize = d.MessageSize
	}
	return c
}

// Handler turns one received request into the reply sent back. A nil or
// empty reply sends nothing. The request slice is only valid during the
// call.
type Handler func(request []byte) []byte

// Reverse replies with the request bytes in reverse order.
func Reverse(request []byte) []byte {
	out := make([]byte, len(request))
	for i, b := range request {
		out[len(request)-1-i] = b
	}
	return out
}
