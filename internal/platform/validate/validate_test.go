// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Inception", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value, "Title is required")

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				assert.Equal(t, validate.TypeEmptyFields, ae.Details[0].Type)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_LenBetween checks trimmed bounds, inclusive at both ends.
*/
func TestValidator_LenBetween(t *testing.T) {
	fifty := "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghij"

	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"exactly_min", fifty, true},
		{"min_after_trim", "  " + fifty + "  ", true},
		{"one_short", fifty[:49], false},
		{"empty_skipped", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.LenBetween("description", tt.value, 50, 1000, validate.TypeDescriptionLength)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Capitalized checks the first-letter rule, including non-ASCII letters.
*/
func TestValidator_Capitalized(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"Inception", true},
		{"Érase una vez", true},
		{"inception", false},
		{"1917", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			v.Capitalized("title", tt.value, "titleCapitalization")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_SubsetOf reports the first unknown entry and ignores blanks.
*/
func TestValidator_SubsetOf(t *testing.T) {
	allowed := []string{"Drama", "Action"}

	v := &validate.Validator{}
	v.SubsetOf("genre", []string{"Drama", " ", "Anime", "Cartoon"}, allowed, "invalidGenre")

	result := v.Result()
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "invalidGenre", result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "Anime")
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "", "Title is required").
		RequiredSet("genre", nil, "At least one genre must be selected").
		OneOf("ageRating", "21", "invalidAgeRating", "A", "7", "12", "16", "18").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	require.Len(t, ae.Details, 3)
	assert.Equal(t, "title", ae.Details[0].Field)
	assert.Equal(t, "genre", ae.Details[1].Field)
	assert.Equal(t, "invalidAgeRating", ae.Details[2].Type)
}

/*
TestStruct maps tag failures to json field names.
*/
func TestStruct(t *testing.T) {
	type payload struct {
		ActorID string `json:"actorId" validate:"required,uuid"`
		Role    string `json:"role" validate:"max=5"`
	}

	err := validate.Struct(context.Background(), payload{ActorID: "nope", Role: "too long role"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "actorId", ae.Details[0].Field)
	assert.Equal(t, "Must be a valid UUID", ae.Details[0].Message)
	assert.Equal(t, "role", ae.Details[1].Field)
	assert.Equal(t, validate.TypeTooLong, ae.Details[1].Type)

	assert.NoError(t, validate.Struct(context.Background(), payload{ActorID: "0190a5e0-7c1e-7cc0-8000-000000000001"}))
}
