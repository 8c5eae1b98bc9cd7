//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"time"

	"github.com/momentics/gsock/api"
)

type platform struct{}

// New returns an error for unsupported platforms.
func New(maxEvents int) (*Reactor, error) {
	return nil, ErrNotSupported
}

func (r *Reactor) Register(fd int, in api.Interest, owner any) error { return ErrNotSupported }

func (r *Reactor) Unregister(fd int) error { return ErrNotSupported }

func (r *Reactor) Wait(timeout time.Duration) (int, error) { return 0, ErrNotSupported }

func (r *Reactor) Close() []any { return nil }
