// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the public identifiers of movies ("the-matrix_1999") and actors
// ("keanu-reeves"). Two titles that differ only in case or punctuation map to
// the same slug; callers surface that as a duplicate rather than resolving it.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// YearSeparator joins a movie's title slug and its release year.
const YearSeparator = "_"

var (
	// disallowed matches anything outside lowercase ASCII letters, digits, whitespace and hyphens.
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Converts to lowercase.
// 3. Strips every character outside [a-z0-9], whitespace and '-'.
// 4. Turns whitespace runs into a single hyphen.
// 5. Collapses repeated hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		result = s
	}

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Drop punctuation and non-Latin letters
	result = disallowed.ReplaceAllString(result, "")

	// 4. Whitespace to hyphens
	result = whitespace.ReplaceAllString(strings.TrimSpace(result), "-")

	// 5. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Movie returns the slug of a movie: the title slug, an underscore, and the year.
//
// Example:
//
//	slug.Movie("The Matrix", 1999) // "the-matrix_1999"
func Movie(title string, year int) string {
	return From(title) + YearSeparator + strconv.Itoa(year)
}

// Actor returns the slug of an actor's name.
func Actor(name string) string {
	return From(name)
}

// ParseMovie splits a movie slug at its last underscore.
// It reports false if there is no underscore or the suffix is not a year.
func ParseMovie(s string) (base string, year int, ok bool) {
	index := strings.LastIndex(s, YearSeparator)
	if index < 0 {
		return "", 0, false
	}

	year, err := strconv.Atoi(s[index+1:])
	if err != nil {
		return "", 0, false
	}

	return s[:index], year, true
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
