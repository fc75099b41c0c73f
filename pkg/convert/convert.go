// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides quick type-conversion utilities.

It wraps standards like [strconv] to provide fault-tolerant conversions
(e.g., returning a default instead of an error when parsing fails). This is
useful for optional form fields such as checkboxes.

Do not use this package if distinguishing between malformed data and zero values
is important in your domain logic; use explicit standard libraries instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning the provided default if parsing fails or string is empty.
func ToIntD(str string, def int) int {

	// If the string is empty, return the default value
	if str == "" {
		return def
	}

	// Try to parse the string as an integer
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}

	return def
}

// ToBool parses a boolean form value. Besides [strconv.ParseBool] spellings it
// accepts "on", the value browsers send for a checked checkbox.
// It returns false on empty string or parse error.
func ToBool(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))

	if s == "" {
		return false
	}
	if s == "on" || s == "yes" {
		return true
	}

	v, _ := strconv.ParseBool(s)
	return v
}
