package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// RateLimitedMessage is reported when the generation quota is exhausted.
	RateLimitedMessage = "rate limited"
	// RequestFailedMessage is reported for network failures and non-2xx responses.
	RequestFailedMessage = "request failed"
	// MalformedMessage is reported when the provider payload lacks candidate text.
	MalformedMessage = "malformed response"
)

// Kind tags an AppError so callers can branch without string inspection.
type Kind string

const (
	KindUnknown                 Kind = ""
	KindRateLimitExceeded       Kind = "rate_limit_exceeded"
	KindRemoteRequestFailed     Kind = "remote_request_failed"
	KindRemoteResponseMalformed Kind = "remote_response_malformed"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// RateLimited reports that a remote call was not attempted or was refused
// because the request quota is exhausted.
func RateLimited(err error) *AppError {
	return &AppError{
		Err:     err,
		Status:  http.StatusTooManyRequests,
		Message: RateLimitedMessage,
		Kind:    KindRateLimitExceeded,
	}
}

// RequestFailed reports a network failure or a non-2xx provider status.
// A zero status is recorded as 502.
func RequestFailed(err error, status int) *AppError {
	if status == 0 {
		status = http.StatusBadGateway
	}
	return &AppError{
		Err:     err,
		Status:  status,
		Message: RequestFailedMessage,
		Kind:    KindRemoteRequestFailed,
	}
}

// Malformed reports a provider response without the expected candidate text.
func Malformed(err error) *AppError {
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: MalformedMessage,
		Kind:    KindRemoteResponseMalformed,
	}
}

// KindOf returns the Kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status of the first AppError in err's chain,
// or 500 when none is present.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
