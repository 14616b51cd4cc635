// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type useful for
// tracking small sets of indices (e.g., which attachments
// of a render pass a subpass references).
package bitvec

import (
	"iter"
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a fixed-length bit vector with custom granularity.
// The zero value is an empty vector.
type V[T Uint] struct {
	s   []T
	n   int
	set int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// New creates a vector of n unset bits.
func New[T Uint](n int) *V[T] {
	v := &V[T]{n: max(n, 0)}
	v.s = make([]T, (v.n+v.nbit()-1)/v.nbit())
	return v
}

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return v.n }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.set }

func (v *V[T]) loc(index int) (int, T) {
	if index < 0 || index >= v.n {
		panic("bitvec: index out of range")
	}
	n := v.nbit()
	return index / n, T(1) << (index & (n - 1))
}

// Set sets a given bit.
// It reports whether the bit was previously unset.
func (v *V[T]) Set(index int) bool {
	i, b := v.loc(index)
	if v.s[i]&b != 0 {
		return false
	}
	v.s[i] |= b
	v.set++
	return true
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	i, b := v.loc(index)
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.set--
	}
}

// IsSet checks whether a given bit is set.
// Indices out of range are never set.
func (v *V[T]) IsSet(index int) bool {
	if index < 0 || index >= v.n {
		return false
	}
	i, b := v.loc(index)
	return v.s[i]&b != 0
}

// Search attempts to locate an unset bit in the vector.
// This method will fail only when v.Count() == v.Len().
func (v *V[T]) Search() (index int, ok bool) {
	if v.set == v.n {
		return
	}
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		b := bits.TrailingZeros64(uint64(^x))
		if index = i*v.nbit() + b; index < v.n {
			ok = true
		}
		break
	}
	return
}

// Or sets every bit that is set in w.
// Bits of w beyond v.Len() are ignored.
func (v *V[T]) Or(w *V[T]) {
	for i := range min(len(v.s), len(w.s)) {
		x := w.s[i] &^ v.s[i]
		if i == len(v.s)-1 {
			if r := v.n % v.nbit(); r != 0 {
				x &= T(1)<<r - 1
			}
		}
		v.s[i] |= x
		v.set += bits.OnesCount64(uint64(x))
	}
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.set = 0
}

// All returns an iterator over all bits of the vector.
// The first value in the pair represents the index of the
// bit, while the second indicates whether the bit is set.
func (v *V[T]) All() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for i := range v.n {
			if !yield(i, v.IsSet(i)) {
				return
			}
		}
	}
}

// Ones returns an iterator over the indices of set bits,
// in increasing order.
func (v *V[T]) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for x != 0 {
				b := bits.TrailingZeros64(uint64(x))
				if !yield(i*n + b) {
					return
				}
				x &^= T(1) << b
			}
		}
	}
}
