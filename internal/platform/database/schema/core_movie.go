// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the catalogue database so
// SQL builders never spell an identifier twice.
package schema

// CoreMovieTable represents the 'core.movie' table
type CoreMovieTable struct {
	Table       string
	ID          string
	Slug        string
	Title       string
	Description string
	Genres      string
	Countries   string
	ReleaseDate string
	AgeRating   string
	Poster      string
	CreatedAt   string
	UpdatedAt   string
}

// CoreMovie is the schema definition for core.movie
var CoreMovie = CoreMovieTable{
	Table:       "core.movie",
	ID:          "id",
	Slug:        "slug",
	Title:       "title",
	Description: "description",
	Genres:      "genres",
	Countries:   "countries",
	ReleaseDate: "releasedate",
	AgeRating:   "agerating",
	Poster:      "poster",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns lists every column in scan order.
func (t CoreMovieTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Description, t.Genres, t.Countries,
		t.ReleaseDate, t.AgeRating, t.Poster, t.CreatedAt, t.UpdatedAt,
	}
}
