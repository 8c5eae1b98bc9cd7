// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream socket backends for gsock. Each backend implements the same
// seven operations (init, bind, accept, connect, send, recv, close) for one
// address family on top of golang.org/x/sys/unix. Backends are stateless;
// all per-socket state lives in a State owned by the caller's handle.
// Platform implementations are strictly separated by build tags.

package transport
