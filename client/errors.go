package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDecode is returned when a token payload cannot be decoded locally.
	// Introspection treats a token that fails to decode as expired.
	ErrDecode = errors.New("token payload malformed")

	// ErrReauthenticationRequired signals that the server rejected the
	// bearer token with a 401 and the stored token has been evicted. The
	// caller is responsible for routing the user to the login entry point.
	ErrReauthenticationRequired = errors.New("reauthentication required")
)

// PolicyError is returned when the origin policy denies an outbound request.
// No network call was attempted.
type PolicyError struct {
	TargetURL string
	Warnings  []string
}

// Error implements the error interface
func (e *PolicyError) Error() string {
	if len(e.Warnings) == 0 {
		return fmt.Sprintf("request to %s denied by origin policy", e.TargetURL)
	}
	return fmt.Sprintf("request to %s denied by origin policy: %s", e.TargetURL, strings.Join(e.Warnings, "; "))
}

// CORSError wraps a transport failure that indicates an origin-policy
// rejection by the remote side.
type CORSError struct {
	URL  string
	Hint string
	Err  error
}

// Error implements the error interface
func (e *CORSError) Error() string {
	return fmt.Sprintf("cross-origin request to %s rejected: %v (%s)", e.URL, e.Err, e.Hint)
}

// Unwrap implements errors.Unwrap
func (e *CORSError) Unwrap() error {
	return e.Err
}
