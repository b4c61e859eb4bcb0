// Package scoring provides a standardized interface for computing evaluation
// metrics through pluggable backends. It abstracts backend-specific APIs and
// offers a unified scorer for metric requests. The package also includes
// middleware support for cross-cutting concerns such as rate limiting and
// request timeouts.
package scoring

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by scoring backends.
var (
	// ErrEmptyBatch indicates that a score request carried no examples.
	ErrEmptyBatch = errors.New("score request has no examples")
	// ErrEmptyModel indicates that a score request named no model.
	ErrEmptyModel = errors.New("score request has no model")
	// ErrEmptyAPIKey indicates that an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrEmptyResponse indicates that the backend returned an empty or nil
	// response body.
	ErrEmptyResponse = errors.New("empty response from backend")
	// ErrNotApplicable is returned by a metric generator when sample values
	// do not fit its input domain. The local backend treats it as a skip,
	// not a failure.
	ErrNotApplicable = errors.New("generator not applicable to field values")
)

// ErrorType represents the category of an error returned by a scoring
// backend. It classifies failures for standardized handling and for
// observability labels.
type ErrorType int

const (
	// ErrorTypeUnknown indicates an error of an undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication indicates a problem with authentication or
	// authorization, such as an invalid API key.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit indicates that a rate limit has been exceeded.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest indicates a malformed request or invalid parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates that a requested resource could not be found.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a problem on the backend's end.
	ErrorTypeServerError
	// ErrorTypeBadResponse indicates that the backend's response could not
	// be decoded.
	ErrorTypeBadResponse
	// ErrorTypeNetwork indicates a client-side network problem.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates that the request timed out.
	ErrorTypeTimeout
)

// BackendError represents a structured error from a scoring backend.
// It normalizes backend-specific errors into a common format, including a
// classified error type and relevant metadata.
type BackendError struct {
	// Type classifies the error into a standard category.
	Type ErrorType
	// Backend identifies the name of the backend that produced the error.
	Backend string
	// StatusCode holds the HTTP status code from the backend's response,
	// if applicable.
	StatusCode int
	// Message contains the user-facing error message from the backend.
	Message string
	// WrappedError holds the original underlying error, allowing for error
	// chaining.
	WrappedError error
}

// Error returns a string representation of the BackendError,
// satisfying the standard error interface.
func (e *BackendError) Error() string {
	base := fmt.Sprintf("%s backend error", e.Backend)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}

	typeStr := e.typeString()
	if typeStr != "" {
		base += fmt.Sprintf(" [%s]", typeStr)
	}

	if e.Message != "" {
		base += ": " + e.Message
	}

	if e.WrappedError != nil {
		base += fmt.Sprintf(": %v", e.WrappedError)
	}

	return base
}

// Unwrap returns the underlying wrapped error, allowing for error inspection
// with functions like errors.Is and errors.As.
func (e *BackendError) Unwrap() error {
	return e.WrappedError
}

// typeString returns a human-readable error type.
func (e *BackendError) typeString() string {
	switch e.Type {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeBadResponse:
		return "bad_response"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return ""
	}
}

// NewBackendError creates a new BackendError.
// This constructor builds standardized errors from backend-specific responses.
func NewBackendError(backend string, errType ErrorType, statusCode int, message string, wrapped error) *BackendError {
	return &BackendError{
		Type:         errType,
		Backend:      backend,
		StatusCode:   statusCode,
		Message:      message,
		WrappedError: wrapped,
	}
}

// ErrorClassifier standardizes backend-specific errors into BackendError
// instances. It uses context such as HTTP status codes to determine the
// appropriate ErrorType.
type ErrorClassifier struct {
	// Backend is the name of the scoring backend for which this classifier
	// works.
	Backend string
}

// ClassifyHTTPError creates a BackendError by classifying an error based on
// its HTTP status code.
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, message string, err error) *BackendError {
	var errType ErrorType
	var userMessage string

	switch statusCode {
	case 401, 403:
		errType = ErrorTypeAuthentication
		userMessage = fmt.Sprintf("%s authentication failed", ec.Backend)
	case 429:
		errType = ErrorTypeRateLimit
		userMessage = fmt.Sprintf("%s rate limit exceeded", ec.Backend)
	case 400:
		errType = ErrorTypeBadRequest
		userMessage = message
	case 404:
		errType = ErrorTypeNotFound
		userMessage = message
	case 500, 502, 503, 504:
		errType = ErrorTypeServerError
		userMessage = message
	default:
		if statusCode >= 400 && statusCode < 500 {
			errType = ErrorTypeBadRequest
		} else if statusCode >= 500 {
			errType = ErrorTypeServerError
		} else {
			errType = ErrorTypeUnknown
		}
		userMessage = message
	}

	return NewBackendError(ec.Backend, errType, statusCode, userMessage, err)
}

// ClassifyContextError creates a BackendError by classifying a
// context-related error, such as context.DeadlineExceeded or
// context.Canceled.
func (ec *ErrorClassifier) ClassifyContextError(err error) *BackendError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewBackendError(ec.Backend, ErrorTypeTimeout, 0, "context deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return NewBackendError(ec.Backend, ErrorTypeNetwork, 0, "request canceled", err)
	default:
		return NewBackendError(ec.Backend, ErrorTypeUnknown, 0, "", err)
	}
}
