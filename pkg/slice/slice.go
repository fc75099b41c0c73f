// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the search filters share.
package slice

// Unique returns the elements of input in first-seen order without repeats.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// Contains reports whether target is present in input.
func Contains[T comparable](input []T, target T) bool {
	for _, v := range input {
		if v == target {
			return true
		}
	}
	return false
}

// ContainsAny reports whether input and targets share at least one element.
func ContainsAny[T comparable](input []T, targets []T) bool {
	for _, target := range targets {
		if Contains(input, target) {
			return true
		}
	}
	return false
}
