// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters,
// how the store offset is derived, and which page-number links a listing shows
// around the current page.
package pagination

import (
	"net/http"

	"github.com/taibuivan/cinemateca/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 6
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultButtons is the default width of the page-number window.
	DefaultButtons = 3
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// TotalPages is ceil(total / limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// # Page Window

// PageLink is one clickable page number.
type PageLink struct {
	Number  int  `json:"number"`
	Current bool `json:"current"`
}

// Window is the result of [Paginate]: the store slice to fetch and the
// navigation state to render.
type Window struct {
	Skip       int        `json:"-"`
	Limit      int        `json:"-"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Pages      []PageLink `json:"pages"`
	HasPrev    bool       `json:"hasPrev"`
	HasNext    bool       `json:"hasNext"`
	PrevPage   int        `json:"prevPage,omitempty"`
	NextPage   int        `json:"nextPage,omitempty"`
}

/*
Paginate computes the store slice and the page-number window for one listing page.

Rules:
  - page is 1-indexed; values below 1 are treated as 1.
  - The window holds min(totalPages, maxButtons) contiguous numbers centred on
    page as [page-floor(m/2), page+ceil(m/2)-1], shifted to stay inside
    [1, totalPages].
  - Zero or one total page yields no page links.

Example:

	Paginate(5, 60, 6, 3).Pages // 4, 5, 6
*/
func Paginate(page, totalItems, pageSize, maxButtons int) Window {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultLimit
	}
	if maxButtons < 1 {
		maxButtons = DefaultButtons
	}

	totalPages := TotalPages(totalItems, pageSize)

	window := Window{
		Skip:       (page - 1) * pageSize,
		Limit:      pageSize,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Pages:      []PageLink{},
	}
	if window.HasPrev {
		window.PrevPage = page - 1
	}
	if window.HasNext {
		window.NextPage = page + 1
	}

	if totalPages <= 1 {
		return window
	}

	start, end := 1, totalPages
	if totalPages > maxButtons {
		start = page - maxButtons/2
		end = start + maxButtons - 1

		if start < 1 {
			start, end = 1, maxButtons
		}
		if end > totalPages {
			start, end = totalPages-maxButtons+1, totalPages
		}
	}

	for number := start; number <= end; number++ {
		window.Pages = append(window.Pages, PageLink{Number: number, Current: number == page})
	}
	return window
}

// # Request Parsing

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], the given default limit, or [MaxLimit].
func FromRequest(r *http.Request, defaultLimit int) Params {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", defaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = defaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	return convert.ToIntD(r.URL.Query().Get(key), defaultVal)
}
