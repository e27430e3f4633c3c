package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why a request failed.
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindNetwork
	KindHTTPStatus
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Request for every failure past body encoding.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // set for KindHTTPStatus
	Body       []byte // raw response body for KindHTTPStatus
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	case KindInvalidResponse:
		return fmt.Sprintf("%s %s: invalid response: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the failure kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode returns the HTTP status carried by a KindHTTPStatus error.
func StatusCode(err error) (int, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == KindHTTPStatus {
		return fe.StatusCode, true
	}
	return 0, false
}

// InvalidResponse wraps a shape or decoding problem found by a caller after
// a successful round trip.
func InvalidResponse(method, path string, err error) *Error {
	return &Error{Kind: KindInvalidResponse, Method: method, Path: path, Err: err}
}

// classify maps a transport error to Timeout or Network.
func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
