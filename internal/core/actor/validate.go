// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/validate"
)

// # Rule Limits

const (
	MaxNameLength         = 200
	MaxPlaceOfBirthLength = 200
	MaxRoleLength         = 200
	MinDescriptionLength  = 50
	MaxDescriptionLength  = 1000
	MinBirthYear          = 1900
)

// TypeNameCapitalization flags a name that does not start with a capital letter.
const TypeNameCapitalization = "nameCapitalization"

// Rules validates actor submissions.
type Rules struct {
	// Now anchors the birth-year window. Defaults to time.Now.
	Now func() time.Time
}

// NewRules returns rules using the wall clock.
func NewRules() Rules {
	return Rules{Now: time.Now}
}

// Dates are the parsed dates of a valid submission.
type Dates struct {
	Birth time.Time
	Death *time.Time
}

// Validate reports every rule a standalone actor submission breaks.
func (rules Rules) Validate(input Input) validate.Result {
	validator, _ := rules.check(input)
	return validator.Result()
}

// ValidateInMovie also requires the role the actor plays in a movie.
func (rules Rules) ValidateInMovie(input Input, role string) validate.Result {
	validator, _ := rules.check(input)
	CheckRole(validator, role)
	return validator.Result()
}

// CheckRole adds the cast role rules to validator.
func CheckRole(validator *validate.Validator, role string) {
	role = strings.TrimSpace(role)
	validator.Required(FieldRole, role, "Role is required").
		MaxLen(FieldRole, role, MaxRoleLength)
}

func (rules Rules) check(input Input) (*validate.Validator, Dates) {
	validator := &validate.Validator{}
	var dates Dates

	// Name
	name := strings.TrimSpace(input.Name)
	validator.Required(FieldName, name, "Name is required").
		Capitalized(FieldName, name, TypeNameCapitalization).
		MaxLen(FieldName, name, MaxNameLength)

	// Description
	validator.Required(FieldDescription, input.Description, "Description is required").
		LenBetween(FieldDescription, input.Description, MinDescriptionLength, MaxDescriptionLength, validate.TypeDescriptionLength)

	// Date of birth
	maxYear := rules.now().Year() + 1
	birthOK := false
	switch raw := strings.TrimSpace(input.DateOfBirth); {
	case raw == "":
		validator.Fail(FieldDateOfBirth, validate.TypeEmptyFields, "Date of birth is required")
	default:
		parsed, ok := validate.ParseDate(raw)
		switch {
		case !ok:
			validator.Fail(FieldDateOfBirth, validate.TypeInvalidDate, "Please provide a valid date")
		case parsed.Year() < MinBirthYear || parsed.Year() > maxYear:
			validator.Fail(FieldDateOfBirth, validate.TypeInvalidDate,
				fmt.Sprintf("Date of birth must be between %d and %d", MinBirthYear, maxYear))
		default:
			birthOK = true
		}
		dates.Birth = parsed
	}

	// Date of death
	if raw := strings.TrimSpace(input.DateOfDeath); raw != "" {
		parsed, ok := validate.ParseDate(raw)
		switch {
		case !ok:
			validator.Fail(FieldDateOfDeath, validate.TypeInvalidDate, "Please provide a valid date")
		case parsed.After(rules.now()):
			validator.Fail(FieldDateOfDeath, validate.TypeInvalidDate, "Date of death cannot be in the future")
		case birthOK && parsed.Before(dates.Birth):
			validator.Fail(FieldDateOfDeath, validate.TypeInvalidDate, "Date of death cannot precede the date of birth")
		default:
			dates.Death = &parsed
		}
	}

	// Place of birth
	place := strings.TrimSpace(input.PlaceOfBirth)
	validator.Required(FieldPlaceOfBirth, place, "Place of birth is required").
		MaxLen(FieldPlaceOfBirth, place, MaxPlaceOfBirthLength)

	return validator, dates
}

func (rules Rules) now() time.Time {
	if rules.Now == nil {
		return time.Now()
	}
	return rules.Now()
}
