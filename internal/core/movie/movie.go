// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie defines the movie aggregate of the Cinemateca catalogue.

It owns movie records (title, synopsis, genres, countries, release date, age
rating and poster) together with the ordered cast list that links a movie to
its actors.

Core Responsibility:

  - Catalogue: Create, update and delete movies, keeping the slug in step with
    the title and release year.
  - Discovery: Title search, genre/country/age-rating filters and sorting.
  - Cast storage: The movie side of the movie-actor relationship. Lifecycle rules
    that span both aggregates live in package cast.
*/
package movie

import (
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/storage"
)

// # Core Entities

// Movie is a single film in the catalogue.
type Movie struct {
	ID                  string     `json:"id"`
	Slug                string     `json:"slug"` // title slug + "_" + release year
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Genre               []string   `json:"genre"`
	CountryOfProduction []string   `json:"countryOfProduction"`
	ReleaseDate         time.Time  `json:"releaseDate"`
	ReleaseYear         int        `json:"releaseYear"` // derived from ReleaseDate
	AgeRating           string     `json:"ageRating"`
	Poster              string     `json:"poster,omitempty"` // file name in the image store
	Actors              []ActorRef `json:"actors"`           // billing order
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// ActorRef is one cast entry: an actor and the part they play in this movie.
type ActorRef struct {
	ActorID string `json:"actorId"`
	Role    string `json:"role"`
}

// derive fills the computed fields after a load or a write.
func (movie *Movie) derive() {
	movie.ReleaseYear = movie.ReleaseDate.Year()
	if movie.Actors == nil {
		movie.Actors = []ActorRef{}
	}
}

// HasActor reports whether actorID is in the cast.
func (movie *Movie) HasActor(actorID string) bool {
	for _, ref := range movie.Actors {
		if ref.ActorID == actorID {
			return true
		}
	}
	return false
}

// # Input Payloads

// Input carries the editable movie fields exactly as submitted.
type Input struct {
	Title               string
	Description         string
	Genre               []string
	CountryOfProduction []string
	ReleaseDate         string // "2006-01-02" or RFC 3339
	AgeRating           string

	// Actors replaces the cast when non-nil. A nil slice keeps the current cast.
	Actors []ActorRef
}

// CreateInput is a new movie. A poster upload is mandatory.
type CreateInput struct {
	Input
	Poster *storage.Upload
}

// UpdateInput edits an existing movie. Poster is optional when the movie
// already has one; the stored file is kept unless a new one is uploaded.
type UpdateInput struct {
	Input
	Poster *storage.Upload
}

// # Results

// Saved is returned by create and update.
type Saved struct {
	ID    string `json:"id,omitempty"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Deleted is returned by delete.
type Deleted struct {
	Title string `json:"title"`
}

// Choice is a movie as offered in a picker, such as the actor form's
// "appears in" field.
type Choice struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear"`
}

// FilterOptions lists the values usable in the search filters.
//
// The "in use" slices hold only values that at least one movie carries; the
// vocabulary slices hold every accepted value.
type FilterOptions struct {
	Genres     []string `json:"genres"`
	Countries  []string `json:"countries"`
	AgeRatings []string `json:"ageRatings"`

	AllGenres     []string `json:"allGenres"`
	AllCountries  []string `json:"allCountries"`
	AllAgeRatings []string `json:"allAgeRatings"`
}

// # Field Names

const (
	FieldTitle               = "title"
	FieldDescription         = "description"
	FieldGenre               = "genre"
	FieldCountryOfProduction = "countryOfProduction"
	FieldReleaseDate         = "releaseDate"
	FieldAgeRating           = "ageRating"
	FieldPoster              = "poster"
	FieldActorID             = "actorId"
	FieldActorRole           = "actorRole"
)
