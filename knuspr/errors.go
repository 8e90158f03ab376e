package knuspr

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotLoggedIn indicates an operation was attempted before Open
	ErrNotLoggedIn = errors.New("not logged in: call Open or use Run")
	// ErrUnauthorized indicates invalid credentials or an expired session
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthError indicates a failed login or a session that was invalidated
// mid-use (HTTP 401/403 from the API).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("knuspr: authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// ClientError implements the broad classification marker.
func (e *AuthError) ClientError() bool { return true }

// RateLimitError indicates the API returned HTTP 429. The client never
// retries; raise min_request_interval instead.
type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("knuspr: rate limited (retry after %s)", e.RetryAfter)
	}
	return "knuspr: rate limited"
}

// ClientError implements the broad classification marker.
func (e *RateLimitError) ClientError() bool { return true }

// APIError represents any other unexpected API response: a non-2xx status,
// an error envelope, or a payload that does not match the expected schema.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("knuspr: API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("knuspr: API error: %s", e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// ClientError implements the broad classification marker.
func (e *APIError) ClientError() bool { return true }

// NetworkError indicates a connection failure, timeout, or DNS error
// before any API response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("knuspr: request to %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClientError implements the broad classification marker.
func (e *NetworkError) ClientError() bool { return true }

// IsClientError reports whether err is any error produced by this package,
// letting callers catch broadly without matching each type.
func IsClientError(err error) bool {
	var ce interface{ ClientError() bool }
	return errors.As(err, &ce) && ce.ClientError()
}
