// Package errors provides structured error types for graphvis.
//
// Errors carry a machine-readable [Code] so the CLI, the HTTP server and the
// MCP server can report the same failure consistently:
//   - INVALID_*: the caller sent something unusable
//   - *NOT_FOUND: a graph, node or session does not exist
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// The graph core never returns these; it degrades to empty results and
// diagnostics. This package is for the layers around it.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // 404
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure independent of its message.
type Code string

const (
	// the caller sent something unusable
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// a graph, node or session does not exist
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message[: cause]".
func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause. The cause stays reachable through
// errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// for plain errors.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code or cause for an *Error, and
// err.Error() otherwise.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}
