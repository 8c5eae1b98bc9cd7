//go:build linux

package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/gsock/api"
)

func newState(t *testing.T, b Backend) *State {
	t.Helper()
	s := &State{FD: 42, Address: "stale"}
	require.NoError(t, b.Init(s))
	require.Equal(t, -1, s.FD)
	require.Empty(t, s.Address)
	t.Cleanup(func() { _ = b.Close(s) })
	return s
}

func localPort(t *testing.T, fd int) int {
	t.Helper()
	sa, err := unix.Getsockname(fd)
	require.NoError(t, err)
	return sa.(*unix.SockaddrInet4).Port
}

func TestTCPBindTwiceKeepsFirstBinding(t *testing.T) {
	b, err := Lookup(api.TCP)
	require.NoError(t, err)
	s := newState(t, b)

	require.NoError(t, b.Bind(s, "127.0.0.1:0", 8))
	fd := s.FD
	assert.Equal(t, "127.0.0.1:0", s.Address)

	err = b.Bind(s, "127.0.0.1:0", 8)
	assert.ErrorIs(t, err, api.ErrAlreadyBound)
	assert.Equal(t, fd, s.FD)
	assert.Equal(t, "127.0.0.1:0", s.Address)

	// the first listener still accepts connections
	c := newState(t, b)
	require.NoError(t, b.Connect(c, fmt.Sprintf("127.0.0.1:%d", localPort(t, fd))))
}

func TestTCPAcceptReportsPeer(t *testing.T) {
	b, _ := Lookup(api.TCP)
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, "127.0.0.1:0", 8))

	c := newState(t, b)
	require.NoError(t, b.Connect(c, fmt.Sprintf("127.0.0.1:%d", localPort(t, ln.FD))))

	peerState := newState(t, b)
	peer, err := b.Accept(ln, peerState)
	require.NoError(t, err)
	assert.True(t, peerState.Initialized())
	assert.Equal(t, fmt.Sprintf("127.0.0.1:%d", localPort(t, c.FD)), peer)
	assert.Empty(t, peerState.Address)
}

func TestTCPConnectTwice(t *testing.T) {
	b, _ := Lookup(api.TCP)
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, "127.0.0.1:0", 8))
	addr := fmt.Sprintf("127.0.0.1:%d", localPort(t, ln.FD))

	c := newState(t, b)
	require.NoError(t, b.Connect(c, addr))
	assert.ErrorIs(t, b.Connect(c, addr), api.ErrAlreadyConnected)
	assert.ErrorIs(t, b.Bind(c, "127.0.0.1:0", 1), api.ErrAlreadyBound)
}

func TestTCPConnectRefusedLeavesStateUnset(t *testing.T) {
	b, _ := Lookup(api.TCP)
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, "127.0.0.1:0", 1))
	addr := fmt.Sprintf("127.0.0.1:%d", localPort(t, ln.FD))
	require.NoError(t, b.Close(ln))

	c := newState(t, b)
	err := b.Connect(c, addr)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.ErrorIs(t, err, unix.ECONNREFUSED)
	assert.False(t, c.Initialized())
}

func TestTCPBindInUseLeavesStateUnset(t *testing.T) {
	b, _ := Lookup(api.TCP)
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, "127.0.0.1:0", 1))
	addr := fmt.Sprintf("127.0.0.1:%d", localPort(t, ln.FD))

	other := newState(t, b)
	err := b.Bind(other, addr, 1)
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.ErrorIs(t, err, unix.EADDRINUSE)
	assert.False(t, other.Initialized())
	assert.Empty(t, other.Address)
}

func TestTCPBindRejectsMalformedAddress(t *testing.T) {
	b, _ := Lookup(api.TCP)
	s := newState(t, b)
	assert.ErrorIs(t, b.Bind(s, "127.0.0.1:65536", 1), api.ErrParse)
	assert.False(t, s.Initialized())
}

func TestSendRecvForwardFlags(t *testing.T) {
	b, _ := Lookup(api.UnixDomain)
	path := filepath.Join(t.TempDir(), "flags.sock")
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, path, 4))

	c := newState(t, b)
	require.NoError(t, b.Connect(c, path))
	srv := newState(t, b)
	_, err := b.Accept(ln, srv)
	require.NoError(t, err)

	n, err := b.Send(c, []byte("ping"), 0)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	// MSG_PEEK must reach recvmsg: the same bytes are readable twice.
	buf := make([]byte, 16)
	n, err = b.Recv(srv, buf, unix.MSG_PEEK)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))
	n, err = b.Recv(srv, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	// MSG_DONTWAIT must reach recvmsg too: nothing is left to read.
	_, err = b.Recv(srv, buf, unix.MSG_DONTWAIT)
	assert.ErrorIs(t, err, unix.EAGAIN)
}

func TestUnixAbstractBindLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	b, _ := Lookup(api.UnixDomain)
	s := newState(t, b)
	name := fmt.Sprintf("@gsock-demo-%d", os.Getpid())
	require.NoError(t, b.Bind(s, name, 4))
	assert.Empty(t, s.Address, "abstract sockets own no path")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// a decoy file named like the abstract socket must survive close
	decoy := name[1:]
	require.NoError(t, os.WriteFile(decoy, nil, 0o600))
	require.NoError(t, b.Close(s))
	assert.FileExists(t, filepath.Join(dir, decoy))
}

func TestUnixAbstractAcceptAndPeerName(t *testing.T) {
	b, _ := Lookup(api.UnixDomain)
	name := fmt.Sprintf("@gsock-peer-%d", os.Getpid())
	ln := newState(t, b)
	require.NoError(t, b.Bind(ln, name, 4))

	c := newState(t, b)
	require.NoError(t, b.Connect(c, name))
	srv := newState(t, b)
	peer, err := b.Accept(ln, srv)
	require.NoError(t, err)
	assert.Empty(t, peer, "connecting clients are anonymous")
}

func TestUnixFilesystemCloseRemovesPath(t *testing.T) {
	b, _ := Lookup(api.UnixDomain)
	path := filepath.Join(t.TempDir(), "uds.ipc")
	s := newState(t, b)
	require.NoError(t, b.Bind(s, path, 4))
	assert.Equal(t, path, s.Address)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSocket, fi.Mode().Type())

	require.NoError(t, b.Close(s))
	assert.NoFileExists(t, path)
	assert.False(t, s.Initialized())
	assert.Empty(t, s.Address)
}

func TestUnixBindTwice(t *testing.T) {
	b, _ := Lookup(api.UnixDomain)
	path := filepath.Join(t.TempDir(), "twice.sock")
	s := newState(t, b)
	require.NoError(t, b.Bind(s, path, 4))
	fd := s.FD

	assert.ErrorIs(t, b.Bind(s, filepath.Join(t.TempDir(), "other.sock"), 4), api.ErrAlreadyBound)
	assert.Equal(t, fd, s.FD)
	assert.Equal(t, path, s.Address)
	assert.FileExists(t, path)
}

func TestUnsetDescriptorOperations(t *testing.T) {
	for _, tr := range []api.Transport{api.TCP, api.UnixDomain} {
		b, err := Lookup(tr)
		require.NoError(t, err)
		s := newState(t, b)

		_, err = b.Send(s, []byte("x"), 0)
		assert.ErrorIs(t, err, unix.EBADF)
		_, err = b.Recv(s, make([]byte, 1), 0)
		assert.ErrorIs(t, err, unix.EBADF)
		_, err = b.Accept(s, &State{FD: -1})
		assert.ErrorIs(t, err, api.ErrTransport)
		assert.NoError(t, b.Close(s))
	}
}
