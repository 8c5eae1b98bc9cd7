// Package api
// Author: momentics <momentics@gmail.com>
//
// Error kinds shared by the socket layer and the dispatcher.

package api

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeUnsupportedTransport
	ErrCodeAlreadyBound
	ErrCodeAlreadyConnected
	ErrCodeParse
	ErrCodeTransport
	ErrCodeAcceptFailure
	ErrCodeClosed
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeUnsupportedTransport:
		return "unsupported transport"
	case ErrCodeAlreadyBound:
		return "already bound"
	case ErrCodeAlreadyConnected:
		return "already connected"
	case ErrCodeParse:
		return "parse error"
	case ErrCodeTransport:
		return "transport error"
	case ErrCodeAcceptFailure:
		return "accept failure"
	case ErrCodeClosed:
		return "socket closed"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrUnsupportedTransport = &Error{Code: ErrCodeUnsupportedTransport}
	ErrAlreadyBound         = &Error{Code: ErrCodeAlreadyBound}
	ErrAlreadyConnected     = &Error{Code: ErrCodeAlreadyConnected}
	ErrParse                = &Error{Code: ErrCodeParse}
	ErrTransport            = &Error{Code: ErrCodeTransport}
	ErrAcceptFailure        = &Error{Code: ErrCodeAcceptFailure}
	ErrClosed               = &Error{Code: ErrCodeClosed}
)

// Error represents a structured error with code and context.
// Err carries the underlying OS error (a unix.Errno) when there is one.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s (context: %+v)", msg, e.Context)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the platform error so callers can inspect errno values.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code, which makes the package sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, op, message string) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
	}
}

// WrapError attaches an underlying cause to a new structured error.
func WrapError(code ErrorCode, op string, err error) *Error {
	return &Error{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the ErrorCode carried by err, or ErrCodeOK when err is nil
// and ErrCodeTransport when err is not an *Error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeTransport
}
