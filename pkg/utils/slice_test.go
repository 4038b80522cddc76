package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceContains(t *testing.T) {
	assert.True(t, SliceContains([]string{"a", "b"}, "b"))
	assert.False(t, SliceContains([]string{"a", "b"}, "c"))
	assert.False(t, SliceContains(nil, 1))
}

func TestMustSliceConvert(t *testing.T) {
	got := MustSliceConvert([]int{1, 2, 3}, func(i int) int { return i * 2 })
	assert.Equal(t, []int{2, 4, 6}, got)
	assert.Empty(t, MustSliceConvert(nil, func(i int) int { return i }))
}
