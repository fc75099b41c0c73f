// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers for optional JSON fields such as an
// actor's current age, which is omitted for deceased actors.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}
