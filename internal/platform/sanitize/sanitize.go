// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize strips markup from free-text fields before they are
// validated and stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy removes every HTML element. It is safe for concurrent use.
var policy = bluemonday.StrictPolicy()

// Text removes HTML tags from s and trims surrounding whitespace.
//
// The policy escapes the text it keeps; entities are decoded again so that
// "Tom & Jerry" is stored as typed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// Texts applies [Text] to every element, dropping entries left empty.
func Texts(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if clean := Text(value); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
