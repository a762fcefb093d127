package qdcloud

import (
	"errors"
	"fmt"
	"net/http"
)

// OfflineError means Qodana Cloud gave no classifiable answer: the
// connection failed, was reset or timed out.
type OfflineError struct {
	Cause error
}

// Error implements the error interface.
func (e *OfflineError) Error() string {
	if e.Cause == nil {
		return "qodana cloud is not available"
	}

	return fmt.Sprintf("qodana cloud is not available: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *OfflineError) Unwrap() error {
	return e.Cause
}

// ResponseError means the server rejected the request, or a local check
// (path validation, decoding) failed before or after the exchange.
type ResponseError struct {
	// Message is the response body for server rejections, a description otherwise.
	Message string
	// StatusCode is the HTTP status, 0 when there is none.
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.HasStatusCode() {
		return fmt.Sprintf("qodana cloud request failed (code: %d): %s", e.StatusCode, e.Message)
	}

	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("qodana cloud request failed: %v", e.Cause)
	}

	return "qodana cloud request failed: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// HasStatusCode reports whether the error carries an HTTP status code.
func (e *ResponseError) HasStatusCode() bool {
	return e.StatusCode != 0
}

// Static errors for err113 compliance. They are reported as the Cause of a
// ResponseError without status code.
var (
	ErrAbsolutePath            = errors.New("request path must be relative")
	ErrParentDirectory         = errors.New("request path can not contain parent directory references")
	ErrMalformedVersion        = errors.New("malformed API version")
	ErrDecodeResponse          = errors.New("failed to decode response")
	ErrEncodeRequest           = errors.New("failed to encode request")
	ErrInvalidPeriod           = errors.New("period end must not be before its start")
	ErrUnsupportedMajorVersion = errors.New("major API version is not supported")
	ErrUnclassified            = errors.New("unclassified error")
)

// IsOffline checks if the error is an offline error.
func IsOffline(err error) bool {
	offline := &OfflineError{}

	return errors.As(err, &offline)
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	failure := &ResponseError{}
	if errors.As(err, &failure) && failure.HasStatusCode() {
		return failure.StatusCode, true
	}

	return 0, false
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 response.
func IsUnauthorized(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusUnauthorized
}

// IsForbidden checks if the error is a 403 response.
func IsForbidden(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusForbidden
}

func classify(err error) error {
	if err == nil {
		return &ResponseError{Message: ErrUnclassified.Error(), Cause: ErrUnclassified}
	}

	offline := &OfflineError{}
	if errors.As(err, &offline) {
		return offline
	}

	failure := &ResponseError{}
	if errors.As(err, &failure) {
		return failure
	}

	return &ResponseError{Message: err.Error(), Cause: err}
}
