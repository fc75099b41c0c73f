// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemateca/pkg/pagination"
)

func numbers(window pagination.Window) []int {
	out := []int{}
	for _, link := range window.Pages {
		out = append(out, link.Number)
	}
	return out
}

/*
TestPaginate_Window checks the centred window and its clamping at both ends.
*/
func TestPaginate_Window(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalItems int
		maxButtons int
		want       []int
	}{
		{"first_page", 1, 60, 3, []int{1, 2, 3}},
		{"second_page_starts_at_one", 2, 60, 3, []int{1, 2, 3}},
		{"middle", 5, 60, 3, []int{4, 5, 6}},
		{"second_to_last", 9, 60, 3, []int{8, 9, 10}},
		{"last_page", 10, 60, 3, []int{8, 9, 10}},
		{"even_width", 5, 60, 4, []int{3, 4, 5, 6}},
		{"fewer_pages_than_buttons", 2, 12, 3, []int{1, 2}},
		{"exactly_buttons", 3, 18, 3, []int{1, 2, 3}},
		{"single_page", 1, 5, 3, []int{}},
		{"no_items", 1, 0, 3, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := pagination.Paginate(tt.page, tt.totalItems, 6, tt.maxButtons)
			assert.Equal(t, tt.want, numbers(window))
		})
	}
}

/*
TestPaginate_SmallTotals verifies that any total at or below the button count
renders every page.
*/
func TestPaginate_SmallTotals(t *testing.T) {
	for totalPages := 2; totalPages <= 5; totalPages++ {
		for page := 1; page <= totalPages; page++ {
			window := pagination.Paginate(page, totalPages*6, 6, 5)

			want := []int{}
			for n := 1; n <= totalPages; n++ {
				want = append(want, n)
			}
			assert.Equal(t, want, numbers(window))
		}
	}
}

/*
TestPaginate_Navigation checks skip, prev/next flags and the page floor.
*/
func TestPaginate_Navigation(t *testing.T) {
	window := pagination.Paginate(0, 60, 6, 3)
	assert.Equal(t, 1, window.Page)
	assert.Equal(t, 0, window.Skip)
	assert.False(t, window.HasPrev)
	assert.True(t, window.HasNext)
	assert.Equal(t, 2, window.NextPage)
	assert.True(t, window.Pages[0].Current)

	window = pagination.Paginate(-4, 60, 6, 3)
	assert.Equal(t, 0, window.Skip)

	window = pagination.Paginate(10, 60, 6, 3)
	assert.Equal(t, 54, window.Skip)
	assert.Equal(t, 6, window.Limit)
	assert.True(t, window.HasPrev)
	assert.False(t, window.HasNext)
	assert.Equal(t, 9, window.PrevPage)
	assert.Equal(t, 10, window.TotalPages)
}

/*
TestFromRequest_Clamping verifies fallback values for malformed parameters.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 6}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=-1&limit=1000", pagination.Params{Page: 1, Limit: 6}},
		{"?page=abc", pagination.Params{Page: 1, Limit: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/movies"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request, 6))
		})
	}
}
