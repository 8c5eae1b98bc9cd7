// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral parts of the reactor.

package reactor

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/gsock/api"
)

// DefaultMaxEvents bounds how many events one Wait collects.
const DefaultMaxEvents = 32

var (
	// ErrClosed is returned by operations on a closed reactor. It matches
	// api.ErrClosed.
	ErrClosed = api.NewError(api.ErrCodeClosed, "reactor", "closed")
	// ErrNotSupported is returned by New on platforms without epoll.
	ErrNotSupported = errors.New("reactor: this platform is not supported")
)

// Reactor waits for readiness across many descriptors with one blocking call.
//
// Wait, Next, Unregister and Close belong to the goroutine running the event
// loop. Register may also be called from other goroutines, as long as a given
// descriptor is registered by one caller at a time.
type Reactor struct {
	epfd   int
	mu     sync.RWMutex // guards closed against Register during Close
	closed bool

	table sync.Map // fd -> owner
	count atomic.Int64
	ready *queue.Queue

	platform
}

var _ api.Multiplexer = (*Reactor)(nil)

func newReactor(epfd int) *Reactor {
	return &Reactor{
		epfd:  epfd,
		ready: queue.New(),
	}
}

// Next pops the oldest ready event collected by Wait.
func (r *Reactor) Next() (api.Event, bool) {
	if r.ready.Length() == 0 {
		return api.Event{}, false
	}
	return r.ready.Remove().(api.Event), true
}

// Pending returns how many ready events are queued.
func (r *Reactor) Pending() int {
	return r.ready.Length()
}

// Len returns the number of registered descriptors.
func (r *Reactor) Len() int {
	return int(r.count.Load())
}

// waitMillis converts a Wait timeout to epoll_wait milliseconds. Positive
// timeouts shorter than a millisecond round up so they still block.
func waitMillis(timeout time.Duration) int {
	switch {
	case timeout < 0:
		return -1
	case timeout == 0:
		return 0
	}
	ms := timeout / time.Millisecond
	if timeout%time.Millisecond != 0 {
		ms++
	}
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ms)
}

// drain empties the registration table and the ready queue and returns the
// owners that were still registered.
func (r *Reactor) drain() []any {
	var owners []any
	r.table.Range(func(k, v any) bool {
		if _, loaded := r.table.LoadAndDelete(k); loaded {
			owners = append(owners, v)
			r.count.Add(-1)
		}
		return true
	})
	for r.ready.Length() > 0 {
		r.ready.Remove()
	}
	return owners
}
