// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Cinemateca.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - FieldError: One typed, field-scoped failure (e.g. "descriptionLength" on "description").
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Machine-readable codes carried by [AppError].
const (
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeValidation  = "VALIDATION_ERROR"
	CodeBadRequest  = "BAD_REQUEST"
	CodeRateLimited = "RATE_LIMITED"
	CodeTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeInternal    = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Cinemateca API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field errors for VALIDATION_ERROR and CONFLICT responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Type is the machine-readable failure kind (e.g. "emptyFields", "invalidDate").
	Type string `json:"type,omitempty"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Movie") // Returns "Movie not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// BadRequest creates a 400 [AppError] for malformed requests that are not
// field validation failures (unreadable bodies, bad multipart forms).
func BadRequest(msg string) *AppError {
	return &AppError{
		Code:       CodeBadRequest,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// Duplicate creates a 409 [AppError] naming the entity and the field whose value
// already exists.
//
// Example:
//
//	apperr.Duplicate("Movie", "title", "Inception")
//	// "A movie with title \"Inception\" already exists"
func Duplicate(entity, field, value string) *AppError {
	err := Conflict(fmt.Sprintf("A %s with %s %q already exists", strings.ToLower(entity), field, value))
	err.Details = []FieldError{{Field: field, Type: "duplicate", Message: err.Message}}
	return err
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// TooLarge creates a 413 [AppError] for oversized uploads.
func TooLarge(limitBytes int64) *AppError {
	return &AppError{
		Code:       CodeTooLarge,
		Message:    fmt.Sprintf("Request body exceeds %d bytes", limitBytes),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

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

// IsNotFound is shorthand for HasCode(err, CodeNotFound).
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
