package stegoapi

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a failed request. Display code branches on the kind,
// never on the detail text.
type ErrorKind string

const (
	// ErrNetwork means the request never produced an HTTP response:
	// connection refused, DNS failure, broken transport.
	ErrNetwork ErrorKind = "network_error"

	// ErrService means the service answered with a non-2xx status.
	ErrService ErrorKind = "service_error"

	// ErrTimeout means the request exceeded its deadline.
	ErrTimeout ErrorKind = "timeout"
)

// Error is the typed failure every client method returns on a failed
// request. StatusCode is zero unless Kind is ErrService.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrService:
		return fmt.Sprintf("analysis service error (HTTP %d): %s", e.StatusCode, e.Detail)
	case ErrTimeout:
		return fmt.Sprintf("analysis request timed out: %s", e.Detail)
	default:
		return fmt.Sprintf("analysis service unreachable: %s", e.Detail)
	}
}

// KindOf extracts the error kind, or "" when err is not a client error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// wrapTransport converts an http.Client transport failure into a typed
// Error, distinguishing deadline expiry from unreachable-service failures.
func wrapTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, Detail: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrTimeout, Detail: err.Error()}
	}
	return &Error{Kind: ErrNetwork, Detail: err.Error()}
}
