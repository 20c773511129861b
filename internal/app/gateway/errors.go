package gateway

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// APIError is any non-2xx response from the platform API, carrying the
// server-supplied message and optional field details. The gateway never
// interprets these beyond the 401 case; callers decide how to present them.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// TimeoutError marks a request that exceeded the fixed timeout budget.
// It is a transient variant of APIError: callers may retry manually.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gateway: %s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a timeout, either our own wrapper or a
// deadline surfaced by the transport.
func IsTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
