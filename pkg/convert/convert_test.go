// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemateca/pkg/convert"
)

/*
TestToBool covers checkbox spellings.
*/
func TestToBool(t *testing.T) {
	for _, truthy := range []string{"true", "1", "on", "ON", "yes"} {
		assert.True(t, convert.ToBool(truthy), truthy)
	}
	for _, falsy := range []string{"", "false", "0", "off", "maybe"} {
		assert.False(t, convert.ToBool(falsy), falsy)
	}
}

/*
TestToIntD falls back on malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 3, convert.ToIntD(" 3 ", 1))
	assert.Equal(t, 1, convert.ToIntD("x", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
}
