// Package pool provides sync.Pool backed buffers for the demo renderer.
package pool

import (
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// GetStringBuilder returns an empty builder from the pool.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

// runeSliceCap fits the title of a wide window.
const runeSliceCap = 256

var runeSlicePool = sync.Pool{
	New: func() any {
		s := make([]rune, 0, runeSliceCap)
		return &s
	},
}

// GetRuneSlice returns an empty rune slice used to clip a title.
func GetRuneSlice() *[]rune {
	s := runeSlicePool.Get().(*[]rune)
	*s = (*s)[:0]
	return s
}

// PutRuneSlice returns s to the pool. Oversized slices are dropped.
func PutRuneSlice(s *[]rune) {
	if cap(*s) > 4*runeSliceCap {
		return
	}
	runeSlicePool.Put(s)
}
