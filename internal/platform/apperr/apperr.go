// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error vocabulary shared by every StoryVoter layer.

Storage adapters, the vote engine and the publication workflow all speak
[AppError]. The HTTP layer never inspects raw driver errors; it only reads
the Code and HTTPStatus carried here.

Taxonomy:

  - Client errors: NotFound, Unauthorized, Forbidden, Conflict, ValidationError.
  - Domain errors: declared by each domain package with [New] (e.g. POLL_CLOSED).
  - Store errors: ConstraintViolation, UpstreamUnavailable, Internal.

Two AppErrors are considered the same error by [errors.Is] when their codes match,
so a domain sentinel still matches after it has been copied or re-wrapped.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the StoryVoter API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "POLL_CLOSED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] with the same Code.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Code == other.Code
}

// WithCause returns a copy of e carrying cause for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// New builds an [AppError] with an arbitrary code. Domain packages use it to
// declare their own sentinels.
//
// Example:
//
//	var ErrPollClosed = apperr.New("POLL_CLOSED", "Poll closed", http.StatusConflict)
func New(code, msg string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: status,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Story") // Returns "Story not found"
func NotFound(resource string) *AppError {
	return New("NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Unauthorized creates a 401 [AppError]. It is the Unauthenticated member of the taxonomy.
func Unauthorized(msg string) *AppError {
	return New("UNAUTHORIZED", msg, http.StatusUnauthorized)
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return New("FORBIDDEN", msg, http.StatusForbidden)
}

// Conflict creates a 409 [AppError] for duplicates the caller can fix (e.g. a taken pseudonym).
func Conflict(msg string) *AppError {
	return New("CONFLICT", msg, http.StatusConflict)
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return New("RATE_LIMITED",
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		http.StatusTooManyRequests)
}

// Unprocessable creates a 422 [AppError] for semantically invalid input.
func Unprocessable(msg string) *AppError {
	return New("UNPROCESSABLE", msg, http.StatusUnprocessableEntity)
}

// # Store Errors

// ConstraintViolation creates a 409 [AppError] for a store-level uniqueness,
// foreign-key or check failure that no domain rule translated first.
func ConstraintViolation(cause error) *AppError {
	return &AppError{
		Code:       "CONSTRAINT_VIOLATION",
		Message:    "The request conflicts with existing data",
		HTTPStatus: http.StatusConflict,
		Cause:      cause,
	}
}

// UpstreamUnavailable creates a 503 [AppError] for an unreachable store or payment provider.
func UpstreamUnavailable(upstream string, cause error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    upstream + " is temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return New("SERVICE_UNAVAILABLE", msg, http.StatusServiceUnavailable)
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
