package gateway

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized is returned when the store rejects the caller's session
// or CSRF token.
var ErrUnauthorized = errors.New("not authorized")

// ValidationError carries field-level detail, either produced client-side
// before a request is issued or returned by the store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// RequestError is a remote rejection that is not a validation failure.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("store rejected request (HTTP %d): %s", e.Status, e.Detail)
}

// NetworkError marks a transport failure or timeout. These are retryable:
// the session stays dirty and the next debounce cycle retries naturally.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("store unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is a transient transport failure.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
