// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"strings"

	"github.com/taibuivan/cinemateca/pkg/slice"
)

// # Search Input

// AllValues is the filter sentinel meaning "do not filter on this field".
const AllValues = "all"

// Sortable fields.
const (
	SortTitle       = "title"
	SortReleaseDate = "releaseDate"
	SortCreatedAt   = "createdAt"
)

// Sort directions.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SearchParams is the raw, unvalidated search request.
type SearchParams struct {
	Query     string
	Genre     []string
	Country   []string
	AgeRating []string
	SortBy    string
	SortOrder string
}

// # Normalised Query

// Filter restricts which movies match. Empty fields do not filter.
type Filter struct {
	Title      string   // case-insensitive substring
	Genres     []string // match any
	Countries  []string // match any
	AgeRatings []string // match any
}

// Sort orders the results. Field is always one of the Sort* constants.
type Sort struct {
	Field      string
	Descending bool
}

// Query is a store-agnostic search description.
type Query struct {
	Filter Filter
	Sort   Sort
}

// DefaultSort is used when the caller gives no valid sort field.
var DefaultSort = Sort{Field: SortReleaseDate, Descending: true}

/*
BuildQuery turns raw search parameters into a [Query].

Description: Never fails. Blank text and "all" disable their filter; blank
and repeated list entries are dropped. Unknown sort fields fall back to the
release date and any direction other than "asc" sorts descending.

Parameters:
  - params: SearchParams

Returns:
  - Query: Filter and sort ready for a [Repository]
*/
func BuildQuery(params SearchParams) Query {
	sort := DefaultSort
	switch params.SortBy {
	case SortTitle, SortReleaseDate, SortCreatedAt:
		sort.Field = params.SortBy
	}
	sort.Descending = !strings.EqualFold(strings.TrimSpace(params.SortOrder), OrderAsc)

	return Query{
		Filter: Filter{
			Title:      strings.TrimSpace(params.Query),
			Genres:     members(params.Genre),
			Countries:  members(params.Country),
			AgeRatings: members(params.AgeRating),
		},
		Sort: sort,
	}
}

// members normalises one multi-value filter. A nil result means no filter.
func members(values []string) []string {
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.EqualFold(value, AllValues) {
			return nil
		}
		out = append(out, value)
	}
	return slice.Unique(out)
}

// # In-Memory Matching

// IsEmpty reports whether the filter matches every movie.
func (filter Filter) IsEmpty() bool {
	return filter.Title == "" && len(filter.Genres) == 0 &&
		len(filter.Countries) == 0 && len(filter.AgeRatings) == 0
}

// Matches applies the filter to a single movie with the same semantics the
// store adapter uses.
func (filter Filter) Matches(movie *Movie) bool {
	if filter.Title != "" && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(filter.Title)) {
		return false
	}
	if len(filter.Genres) > 0 && !slice.ContainsAny(movie.Genre, filter.Genres) {
		return false
	}
	if len(filter.Countries) > 0 && !slice.ContainsAny(movie.CountryOfProduction, filter.Countries) {
		return false
	}
	if len(filter.AgeRatings) > 0 && !slice.Contains(filter.AgeRatings, movie.AgeRating) {
		return false
	}
	return true
}
