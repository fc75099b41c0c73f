// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package actor defines the actor aggregate of the Cinemateca catalogue.

Actors are created on their own or while editing a movie's cast. The
movie-actor link itself is stored on the movie side; this package only reads
it back through a [Filmography] to list an actor's movies.
*/
package actor

import (
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/pkg/pointer"
)

// # Core Entities

// Actor is a person credited in at least one movie, or created standalone.
type Actor struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	DateOfDeath  *time.Time `json:"dateOfDeath,omitempty"`
	PlaceOfBirth string     `json:"placeOfBirth"`
	Portrait     string     `json:"portrait,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Alive reports whether no date of death is recorded.
func (actor *Actor) Alive() bool {
	return actor.DateOfDeath == nil
}

// AgeOn returns the number of full years between birth and on.
func AgeOn(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Appearance is one movie an actor is cast in.
type Appearance struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear"`
	Poster      string `json:"poster,omitempty"`
	Role        string `json:"role"`
}

// Detail is an actor with the derived ages and their movies.
type Detail struct {
	*Actor
	Alive      bool         `json:"alive"`
	Age        *int         `json:"age,omitempty"`        // while alive
	AgeAtDeath *int         `json:"ageAtDeath,omitempty"` // once deceased
	Movies     []Appearance `json:"movies"`
	HasMovies  bool         `json:"hasMovies"`
}

// describe derives the age fields as of now.
func describe(actor *Actor, movies []Appearance, now time.Time) *Detail {
	if movies == nil {
		movies = []Appearance{}
	}

	detail := &Detail{
		Actor:     actor,
		Alive:     actor.Alive(),
		Movies:    movies,
		HasMovies: len(movies) > 0,
	}
	if detail.Alive {
		detail.Age = pointer.To(AgeOn(actor.DateOfBirth, now))
	} else {
		detail.AgeAtDeath = pointer.To(AgeOn(actor.DateOfBirth, *actor.DateOfDeath))
	}
	return detail
}

// # Input Payloads

// Input carries the editable actor fields exactly as submitted.
type Input struct {
	Name         string
	Description  string
	DateOfBirth  string // "2006-01-02" or RFC 3339
	DateOfDeath  string // optional
	PlaceOfBirth string
}

// CreateInput is a new actor. The portrait is optional.
type CreateInput struct {
	Input
	Portrait *storage.Upload
}

// UpdateInput edits an existing actor. Without an upload the stored portrait
// is kept unless RemovePortrait is set.
type UpdateInput struct {
	Input
	Portrait       *storage.Upload
	RemovePortrait bool
}

// # Results

// Saved is returned by create and update.
type Saved struct {
	ID   string `json:"id,omitempty"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Casted is an actor saved while editing a movie's cast.
type Casted struct {
	Saved
	MovieSlug  string `json:"movieSlug"`
	MovieTitle string `json:"movieTitle"`
}

// Deleted is returned by delete.
type Deleted struct {
	Name string `json:"name"`
}

// Choice is an actor as offered in the "add existing actor" picker.
type Choice struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Filter restricts an actor search. An empty query matches everyone.
type Filter struct {
	Query string // case-insensitive substring of the name
}

// # Field Names

const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldDateOfBirth  = "dateOfBirth"
	FieldDateOfDeath  = "dateOfDeath"
	FieldPlaceOfBirth = "placeOfBirth"
	FieldPortrait     = "portrait"
	FieldRole         = "role"
	FieldMovieSlug    = "movieSlug"
)
