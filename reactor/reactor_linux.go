//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/gsock/api"
)

type platform struct {
	events []unix.EpollEvent
}

const hangupMask = unix.EPOLLRDHUP | unix.EPOLLHUP | unix.EPOLLERR

// New constructs an epoll reactor collecting up to maxEvents per Wait.
func New(maxEvents int) (*Reactor, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	r := newReactor(epfd)
	r.events = make([]unix.EpollEvent, maxEvents)
	return r, nil
}

func interestMask(in api.Interest) uint32 {
	switch in {
	case api.InterestListen:
		return unix.EPOLLIN | unix.EPOLLPRI
	default:
		return unix.EPOLLIN | unix.EPOLLPRI | unix.EPOLLRDHUP
	}
}

// Register adds fd to the epoll watch list and records owner for it. The
// owner is stored before the descriptor is armed so that an event can never
// arrive for an fd the table does not know.
func (r *Reactor) Register(fd int, in api.Interest, owner any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	if _, loaded := r.table.LoadOrStore(fd, owner); loaded {
		return fmt.Errorf("epoll ctl add fd=%d: %w", fd, unix.EEXIST)
	}
	ev := unix.EpollEvent{Events: interestMask(in), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		r.table.Delete(fd)
		return fmt.Errorf("epoll ctl add fd=%d: %w", fd, err)
	}
	r.count.Add(1)
	return nil
}

// Unregister removes fd from the epoll watch list and forgets its owner.
func (r *Reactor) Unregister(fd int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if _, loaded := r.table.LoadAndDelete(fd); loaded {
		r.count.Add(-1)
	}
	if err != nil {
		return fmt.Errorf("epoll ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// Wait blocks up to timeout (negative blocks indefinitely) and queues the
// ready events for Next. Events for descriptors without an owner are
// dropped. It returns the number of events queued.
func (r *Reactor) Wait(timeout time.Duration) (int, error) {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return 0, ErrClosed
	}

	n, err := unix.EpollWait(r.epfd, r.events, waitMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil // interrupted by signal, normal
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	queued := 0
	for i := 0; i < n; i++ {
		raw := r.events[i]
		fd := int(raw.Fd)
		owner, ok := r.table.Load(fd)
		if !ok {
			continue
		}
		r.ready.Add(api.Event{
			FD:       fd,
			Owner:    owner,
			Readable: raw.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0,
			Hangup:   raw.Events&hangupMask != 0,
		})
		queued++
	}
	return queued, nil
}

// Close releases the epoll descriptor and returns the owners of descriptors
// that were still registered; the caller becomes responsible for them.
// Register calls made after Close fail with ErrClosed.
func (r *Reactor) Close() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	unix.Close(r.epfd)
	return r.drain()
}
