// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemateca/internal/core/movie"
)

/*
TestBuildQuery normalises raw search parameters.
*/
func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params movie.SearchParams
		want   movie.Query
	}{
		{
			name:   "Empty params use the default sort",
			params: movie.SearchParams{},
			want:   movie.Query{Sort: movie.Sort{Field: movie.SortReleaseDate, Descending: true}},
		},
		{
			name:   "All disables a filter",
			params: movie.SearchParams{Genre: []string{"Drama", "all"}, Country: []string{"ALL"}},
			want:   movie.Query{Sort: movie.DefaultSort},
		},
		{
			name:   "Blanks and repeats are dropped",
			params: movie.SearchParams{Query: "  matrix ", Genre: []string{"Drama", " ", "Drama", "Action"}},
			want: movie.Query{
				Filter: movie.Filter{Title: "matrix", Genres: []string{"Drama", "Action"}},
				Sort:   movie.DefaultSort,
			},
		},
		{
			name:   "Title ascending",
			params: movie.SearchParams{SortBy: "title", SortOrder: "ASC"},
			want:   movie.Query{Sort: movie.Sort{Field: movie.SortTitle}},
		},
		{
			name:   "Unknown field falls back and unknown order sorts descending",
			params: movie.SearchParams{SortBy: "budget", SortOrder: "sideways"},
			want:   movie.Query{Sort: movie.Sort{Field: movie.SortReleaseDate, Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, movie.BuildQuery(tt.params))
		})
	}
}

/*
TestFilter_Matches applies each filter dimension to one movie.
*/
func TestFilter_Matches(t *testing.T) {
	matrix := &movie.Movie{
		Title:               "The Matrix",
		Genre:               []string{"Action", "Sci-Fi"},
		CountryOfProduction: []string{"United States", "Australia"},
		AgeRating:           "R",
		ReleaseDate:         time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name   string
		filter movie.Filter
		want   bool
	}{
		{"Empty filter", movie.Filter{}, true},
		{"Case-insensitive title", movie.Filter{Title: "MATRIX"}, true},
		{"Title miss", movie.Filter{Title: "Inception"}, false},
		{"Any genre", movie.Filter{Genres: []string{"Drama", "Sci-Fi"}}, true},
		{"No genre", movie.Filter{Genres: []string{"Drama"}}, false},
		{"Any country", movie.Filter{Countries: []string{"Australia"}}, true},
		{"Rating member", movie.Filter{AgeRatings: []string{"PG-13", "R"}}, true},
		{"Rating miss", movie.Filter{AgeRatings: []string{"G"}}, false},
		{"All dimensions", movie.Filter{Title: "the", Genres: []string{"Action"}, Countries: []string{"United States"}, AgeRatings: []string{"R"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(matrix))
		})
	}

	assert.True(t, movie.Filter{}.IsEmpty())
	assert.False(t, movie.Filter{Title: "x"}.IsEmpty())
}
