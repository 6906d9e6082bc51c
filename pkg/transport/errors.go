package transport

import (
	"errors"
	"fmt"
)

// Common errors returned by the transport.
var (
	// ErrUserAgentRequired is returned when no User-Agent is configured.
	ErrUserAgentRequired = errors.New("user-agent is required")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// RetryError wraps the last error seen when all retry attempts failed.
type RetryError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *RetryError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrRetryExhausted, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RetryError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRetryExhausted) match a RetryError.
func (e *RetryError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// APIError represents an HTTP application error from the UniProt API,
// carrying the status code and the raw response body so callers can
// distinguish client from server failures.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Body       []byte
	Message    string
}

// NewAPIError builds an APIError from a non-2xx response.
func NewAPIError(resp *Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: classifyStatus(resp.StatusCode),
		Body:       resp.Body,
		Message:    truncate(string(resp.Body), 200),
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("UniProt %s error (status %d): %s",
			e.ErrorClass, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("UniProt %s error (status %d)", e.ErrorClass, e.StatusCode)
}

// truncate shortens s to at most n runes for log-friendly messages.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
