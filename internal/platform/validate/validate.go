// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects typed
// field-level errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used in the service layer, never in storage. Every rule
// records a [apperr.FieldError] carrying the field, a machine-readable type and
// a message, so a caller sees all failures of a submission at once.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

// Failure types shared by the movie and actor rule sets.
const (
	TypeEmptyFields       = "emptyFields"
	TypeTooLong           = "tooLong"
	TypeDescriptionLength = "descriptionLength"
	TypeInvalidDate       = "invalidDate"
	TypeInvalidOption     = "invalidOption"
	TypeInvalidFormat     = "invalidFormat"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Result is the outcome of a validation pass.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors []apperr.FieldError `json:"errors,omitempty"`
}

// Err returns the failures as a VALIDATION_ERROR, or nil when valid.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", r.Errors...)
}

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails with message if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.Fail(field, TypeEmptyFields, message)
	}
	return v
}

// RequiredSet fails with message if no non-blank entry is present.
func (v *Validator) RequiredSet(field string, values []string, message string) *Validator {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return v
		}
	}
	v.Fail(field, TypeEmptyFields, message)
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.Fail(field, TypeTooLong, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// LenBetween fails if the trimmed character count is outside [min, max].
// Empty values are skipped; pair with [Validator.Required].
func (v *Validator) LenBetween(field, value string, min, max int, failureType string) *Validator {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return v
	}
	if n := utf8.RuneCountInString(trimmed); n < min || n > max {
		v.Fail(field, failureType, fmt.Sprintf("Must be between %d and %d characters (currently %d)", min, max, n))
	}
	return v
}

// Capitalized fails if the trimmed value does not begin with an uppercase letter.
// Empty values are skipped.
func (v *Validator) Capitalized(field, value, failureType string) *Validator {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return v
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsUpper(first) {
		v.Fail(field, failureType, "Must start with an uppercase letter")
	}
	return v
}

// UUID fails if the value is not a valid UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.Valid(value) {
		v.Fail(field, TypeInvalidFormat, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value, failureType string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.Fail(field, failureType, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// SubsetOf fails once, naming the first offending entry, if any non-blank
// value is not in allowed.
func (v *Validator) SubsetOf(field string, values []string, allowed []string, failureType string) *Validator {
	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := known[value]; !ok {
			v.Fail(field, failureType, fmt.Sprintf("Unknown option %q", value))
			return v
		}
	}
	return v
}

// Custom adds a typed failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("dateOfDeath", death.Before(birth), validate.TypeInvalidDate, "Cannot precede the date of birth")
func (v *Validator) Custom(field string, failed bool, failureType, message string) *Validator {
	if failed {
		v.Fail(field, failureType, message)
	}
	return v
}

// Fail records a failure unconditionally.
func (v *Validator) Fail(field, failureType, message string) *Validator {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Type: failureType, Message: message})
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// Result reports the collected failures as a [Result].
func (v *Validator) Result() Result {
	return Result{Valid: len(v.errs) == 0, Errors: v.Errors()}
}

// Errors returns a copy of the collected failures.
func (v *Validator) Errors() []apperr.FieldError {
	if len(v.errs) == 0 {
		return nil
	}
	out := make([]apperr.FieldError, len(v.errs))
	copy(out, v.errs)
	return out
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{time.DateOnly, time.RFC3339}

// ParseDate parses a form date ("2006-01-02") or an RFC 3339 timestamp.
// Only the calendar date is kept, at midnight UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
