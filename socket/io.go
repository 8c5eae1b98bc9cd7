// File: socket/io.go
// Author: momentics <momentics@gmail.com>
//
// io.Reader / io.Writer adapters over Send and Recv.

package socket

import "io"

var _ io.ReadWriteCloser = (*Handle)(nil)

// Read implements io.Reader with a flag-less Recv.
func (h *Handle) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := h.Recv(p, 0)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements io.Writer, looping until p is fully sent.
func (h *Handle) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := h.Send(p[written:], 0)
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
		written += n
	}
	return written, nil
}
