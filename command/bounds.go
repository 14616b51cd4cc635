// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"math"
)

// within reports whether the range [off, off+size) lies
// within [0, limit). It never computes off+size, so it
// cannot overflow.
func within[T int | int64](off, size, limit T) bool {
	return off >= 0 && size >= 0 && off <= limit && size <= limit-off
}

// end returns off+size for error reporting, saturating at
// math.MaxInt64.
func end[T int | int64](off, size T) int64 {
	a, b := int64(off), int64(size)
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// mulSat returns a*b for non-negative a and b, saturating
// at math.MaxInt64.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}
