package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized marks responses rejected for missing/invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound marks lookups for interviews or templates that do not exist.
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-success HTTP response from the backend. Detail
// carries the backend's human-readable reason when one was provided.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
}

// Is maps well-known status codes onto the package sentinels so callers can
// use errors.Is without inspecting codes.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	default:
		return false
	}
}

// IsRetryable reports whether the failure is worth retrying on the next
// polling tick (server-side trouble rather than a rejected request).
func (e *StatusError) IsRetryable() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}
