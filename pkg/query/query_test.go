// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemateca/pkg/query"
)

/*
TestMulti accepts repeated, bracketed and comma-separated forms.
*/
func TestMulti(t *testing.T) {
	values, err := url.ParseQuery("genre=Drama&genre=Comedy,%20Action&genre[]=Western&genre=&country=USA")
	assert.NoError(t, err)

	assert.Equal(t, []string{"Drama", "Comedy", "Action", "Western"}, query.Multi(values, "genre"))
	assert.Equal(t, []string{"USA"}, query.Multi(values, "country"))
	assert.Nil(t, query.Multi(values, "ageRating"))
}

/*
TestText trims surrounding whitespace.
*/
func TestText(t *testing.T) {
	values := url.Values{"q": {"  matrix "}}
	assert.Equal(t, "matrix", query.Text(values, "q"))
	assert.Equal(t, "", query.Text(values, "missing"))
}
