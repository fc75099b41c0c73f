// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
)

// structValidator is shared; [validator.Validate] caches struct metadata and is
// safe for concurrent use.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so details line up with the request payload.
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return instance
}

// Struct validates a tagged request payload and maps every failure into a
// VALIDATION_ERROR [apperr.AppError].
//
// Example:
//
//	type addActorRequest struct {
//		ActorID string `json:"actorId" validate:"required,uuid"`
//	}
func Struct(ctx context.Context, payload any) error {
	err := structValidator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(failures))
	for _, failure := range failures {
		details = append(details, apperr.FieldError{
			Field:   failure.Field(),
			Type:    tagType(failure.Tag()),
			Message: tagMessage(failure),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

func tagType(tag string) string {
	switch tag {
	case "required":
		return TypeEmptyFields
	case "max":
		return TypeTooLong
	default:
		return TypeInvalidFormat
	}
}

func tagMessage(failure validator.FieldError) string {
	switch failure.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Maximum %s characters", failure.Param())
	case "uuid", "uuid4", "uuid7":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Failed the %q rule", failure.Tag())
	}
}
