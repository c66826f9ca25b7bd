// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for Unimart.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable Code and a client-safe message.
  - Closed Taxonomy: Exactly five codes exist; see [Classify].
  - Mapping: Every code has exactly one HTTP status.

Every error that leaves the service layer should either be an [AppError] or be
left to [Classify], which turns anything unknown into INTERNAL_SERVER_ERROR.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Codes

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// # Client-safe Messages

const (
	MsgValidation   = "Validation failed"
	MsgBadRequest   = "The request could not be processed"
	MsgForbidden    = "You do not have permission to perform this action"
	MsgUnauthorized = "Authentication is required to access this resource"
	MsgInternal     = "An unexpected error occurred"
)

// AppError is the canonical error type for the Unimart API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is one of the five Code* constants.
	Code string
	// Message is a human-readable description safe to return to the client.
	Message string
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int
	// Cause is the underlying error, used for server-side logging only.
	Cause error
	// Details maps a JSON field name to its validation message.
	Details map[string]string
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that records cause for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] carrying one message per invalid field.
func ValidationError(details map[string]string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    MsgValidation,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// FieldError is a shortcut to create a single-field validation error.
func FieldError(field, message string) *AppError {
	return ValidationError(map[string]string{field: message})
}

// BadRequest creates a 400 [AppError] for a violated business rule.
// The message is returned to the client verbatim, so it must be written for them.
func BadRequest(msg string) *AppError {
	if msg == "" {
		msg = MsgBadRequest
	}
	return &AppError{
		Code:       CodeBadRequest,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound reports a missing resource as a business-rule failure.
//
// Example:
//
//	apperr.NotFound("Listing") // "Listing not found"
func NotFound(resource string) *AppError {
	return BadRequest(resource + " not found")
}

// Conflict reports a uniqueness violation as a business-rule failure.
func Conflict(msg string) *AppError {
	return BadRequest(msg)
}

// Unauthorized creates a 401 [AppError] with the fixed client message.
func Unauthorized() *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    MsgUnauthorized,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError] with the fixed client message.
// The rule that denied access is never echoed.
func Forbidden() *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    MsgForbidden,
		HTTPStatus: http.StatusForbidden,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    MsgInternal,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
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
