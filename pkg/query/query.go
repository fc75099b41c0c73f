// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query reads list-valued URL query parameters.
//
// Filter forms submit a field either once per selected value
// (?genre=Drama&genre=Comedy), with a bracket suffix (?genre[]=Drama) or as a
// comma-separated string (?genre=Drama,Comedy). All three read the same.
package query

import (
	"net/url"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Multi collects every value of key (and key[]) from the query, splitting
// comma-separated entries. Blank entries are dropped.
func Multi(values url.Values, key string) []string {
	var res []string
	for _, name := range []string{key, key + "[]"} {
		for _, raw := range values[name] {
			res = append(res, StringSlice(raw)...)
		}
	}
	return res
}

// Text returns the trimmed first value of key.
func Text(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}
