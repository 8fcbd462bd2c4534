package core

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCode is the canonical status carried by service error responses.
type StatusCode string

const (
	StatusInvalidArgument    StatusCode = "INVALID_ARGUMENT"
	StatusNotFound           StatusCode = "NOT_FOUND"
	StatusAlreadyExists      StatusCode = "ALREADY_EXISTS"
	StatusPermissionDenied   StatusCode = "PERMISSION_DENIED"
	StatusUnauthenticated    StatusCode = "UNAUTHENTICATED"
	StatusResourceExhausted  StatusCode = "RESOURCE_EXHAUSTED"
	StatusFailedPrecondition StatusCode = "FAILED_PRECONDITION"
	StatusInternal           StatusCode = "INTERNAL"
	StatusUnavailable        StatusCode = "UNAVAILABLE"
	StatusUnknown            StatusCode = "UNKNOWN"
)

// APIError is the error value surfaced for every failed remote call.
// It carries the service's canonical status, the HTTP status of the
// response, and the service's message text. The facades never wrap,
// translate, or retry it; it propagates to the caller as-is.
type APIError struct {
	Service    string     `json:"service,omitempty"`
	Status     StatusCode `json:"status"`
	HTTPStatus int        `json:"http_status"`
	Message    string     `json:"message"`
	// Err holds the underlying transport error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// Unwrap exposes the underlying transport error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError with the given canonical status.
func NewAPIError(service string, status StatusCode, message string) *APIError {
	return &APIError{
		Service:    service,
		Status:     status,
		HTTPStatus: HTTPStatusFor(status),
		Message:    message,
	}
}

// NewTransportError wraps a network-level failure that produced no service
// response.
func NewTransportError(service, message string, err error) *APIError {
	return &APIError{
		Service:    service,
		Status:     StatusUnavailable,
		HTTPStatus: http.StatusServiceUnavailable,
		Message:    message,
		Err:        err,
	}
}

// StatusForHTTP maps an HTTP status code to its canonical status.
func StatusForHTTP(httpStatus int) StatusCode {
	switch httpStatus {
	case http.StatusBadRequest:
		return StatusInvalidArgument
	case http.StatusUnauthorized:
		return StatusUnauthenticated
	case http.StatusForbidden:
		return StatusPermissionDenied
	case http.StatusNotFound:
		return StatusNotFound
	case http.StatusConflict:
		return StatusAlreadyExists
	case http.StatusTooManyRequests:
		return StatusResourceExhausted
	case http.StatusServiceUnavailable:
		return StatusUnavailable
	case http.StatusInternalServerError:
		return StatusInternal
	default:
		return StatusUnknown
	}
}

// HTTPStatusFor maps a canonical status to the HTTP status code used on the
// wire.
func HTTPStatusFor(status StatusCode) int {
	switch status {
	case StatusInvalidArgument, StatusFailedPrecondition:
		return http.StatusBadRequest
	case StatusUnauthenticated:
		return http.StatusUnauthorized
	case StatusPermissionDenied:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusAlreadyExists:
		return http.StatusConflict
	case StatusResourceExhausted:
		return http.StatusTooManyRequests
	case StatusUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// hasStatus reports whether err is an APIError with the given status.
func hasStatus(err error, status StatusCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNotFound reports whether err is a NOT_FOUND service error.
func IsNotFound(err error) bool { return hasStatus(err, StatusNotFound) }

// IsAlreadyExists reports whether err is an ALREADY_EXISTS service error.
func IsAlreadyExists(err error) bool { return hasStatus(err, StatusAlreadyExists) }

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT service error.
func IsInvalidArgument(err error) bool { return hasStatus(err, StatusInvalidArgument) }
