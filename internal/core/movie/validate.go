// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/validate"
)

// # Rule Limits

const (
	MaxTitleLength       = 200
	MinDescriptionLength = 50
	MaxDescriptionLength = 1000
	MaxRoleLength        = 200

	// MinReleaseYear is the year of the earliest surviving film.
	MinReleaseYear = 1888

	// ReleaseYearLookahead allows announced movies up to this many years ahead.
	ReleaseYearLookahead = 5
)

// Movie-specific failure types.
const (
	TypeTitleCapitalization = "titleCapitalization"
	TypeInvalidAgeRating    = "invalidAgeRating"
	TypeInvalidGenre        = "invalidGenre"
	TypeInvalidCountry      = "invalidCountry"
)

// PosterState tells the rules which poster the movie will end up with.
type PosterState struct {
	Uploaded bool   // a new file arrived with this submission
	Existing string // file name already stored for the movie, if any
}

// Rules validates movie submissions against a [Vocabulary].
type Rules struct {
	Vocabulary Vocabulary

	// Now anchors the release-year window. Defaults to time.Now.
	Now func() time.Time
}

// NewRules returns rules over vocabulary using the wall clock.
func NewRules(vocabulary Vocabulary) Rules {
	return Rules{Vocabulary: vocabulary, Now: time.Now}
}

// Validate reports every rule the input breaks, in field order.
func (rules Rules) Validate(input Input, poster PosterState) validate.Result {
	validator, _ := rules.check(input, poster)
	return validator.Result()
}

// check runs the movie rules and returns the parsed release date alongside
// the collected failures.
func (rules Rules) check(input Input, poster PosterState) (*validate.Validator, time.Time) {
	validator := &validate.Validator{}

	// Title
	title := strings.TrimSpace(input.Title)
	validator.Required(FieldTitle, title, "Title is required").
		Capitalized(FieldTitle, title, TypeTitleCapitalization).
		MaxLen(FieldTitle, title, MaxTitleLength)

	// Description
	validator.Required(FieldDescription, input.Description, "Description is required").
		LenBetween(FieldDescription, input.Description, MinDescriptionLength, MaxDescriptionLength, validate.TypeDescriptionLength)

	// Release date
	releaseDate := rules.releaseDate(validator, input.ReleaseDate)

	// Age rating
	rating := strings.TrimSpace(input.AgeRating)
	if rating == "" {
		validator.Fail(FieldAgeRating, validate.TypeEmptyFields, "Age rating is required")
	} else {
		validator.OneOf(FieldAgeRating, rating, TypeInvalidAgeRating, rules.Vocabulary.AgeRatings...)
	}

	// Genre and country sets
	validator.RequiredSet(FieldGenre, input.Genre, "At least one genre must be selected").
		SubsetOf(FieldGenre, input.Genre, rules.Vocabulary.Genres, TypeInvalidGenre)
	validator.RequiredSet(FieldCountryOfProduction, input.CountryOfProduction, "At least one country of production must be selected").
		SubsetOf(FieldCountryOfProduction, input.CountryOfProduction, rules.Vocabulary.Countries, TypeInvalidCountry)

	// Poster
	validator.Custom(FieldPoster, !poster.Uploaded && poster.Existing == "", validate.TypeEmptyFields, "A poster image is required")

	// Cast entries
	seen := make(map[string]struct{}, len(input.Actors))
	for _, ref := range input.Actors {
		validator.UUID(FieldActorID, ref.ActorID)
		if _, dup := seen[ref.ActorID]; dup {
			validator.Fail(FieldActorID, validate.TypeInvalidOption, fmt.Sprintf("Actor %s is listed twice", ref.ActorID))
		}
		seen[ref.ActorID] = struct{}{}

		validator.Required(FieldActorRole, ref.Role, "Role is required").
			MaxLen(FieldActorRole, strings.TrimSpace(ref.Role), MaxRoleLength)
	}

	return validator, releaseDate
}

func (rules Rules) releaseDate(validator *validate.Validator, raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		validator.Fail(FieldReleaseDate, validate.TypeEmptyFields, "Release date is required")
		return time.Time{}
	}

	parsed, ok := validate.ParseDate(raw)
	if !ok {
		validator.Fail(FieldReleaseDate, validate.TypeInvalidDate, "Please provide a valid date")
		return time.Time{}
	}

	maxYear := rules.now().Year() + ReleaseYearLookahead
	if year := parsed.Year(); year < MinReleaseYear || year > maxYear {
		validator.Fail(FieldReleaseDate, validate.TypeInvalidDate,
			fmt.Sprintf("Release date must be between %d and %d", MinReleaseYear, maxYear))
	}
	return parsed
}

func (rules Rules) now() time.Time {
	if rules.Now == nil {
		return time.Now()
	}
	return rules.Now()
}
