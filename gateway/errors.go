package gateway

import (
	"errors"
	"fmt"
)

// Failure classes for gateway calls. Network and authorization failures
// are categorically different: a network failure never mutates the token,
// an authorization failure always evicts it.
var (
	// ErrNetwork marks a transport-level failure where no response was
	// obtained. Retry is manual: re-invoke the same operation.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized marks a 401 from the backend. By the time a caller
	// sees it the token has already been evicted.
	ErrUnauthorized = errors.New("unauthorized")
)

// IsUnauthorized reports whether err stems from a backend 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// APIError is an application-level failure: the backend responded, but
// reported success=false. The session may still be valid; only the
// requested operation failed.
type APIError struct {
	Code    string // the envelope's error field
	Message string // the envelope's message field
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Code)
}
