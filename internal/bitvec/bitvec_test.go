// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitvec

import (
	"slices"
	"testing"
	"unsafe"
)

func TestNbit(t *testing.T) {
	for _, x := range [...][2]int{
		{int(unsafe.Sizeof(uint(0))) * 8, (&V[uint]{}).nbit()},
		{int(unsafe.Sizeof(uint8(0))) * 8, (&V[uint8]{}).nbit()},
		{int(unsafe.Sizeof(uint16(0))) * 8, (&V[uint16]{}).nbit()},
		{int(unsafe.Sizeof(uint32(0))) * 8, (&V[uint32]{}).nbit()},
		{int(unsafe.Sizeof(uint64(0))) * 8, (&V[uint64]{}).nbit()},
		{int(unsafe.Sizeof(uintptr(0))) * 8, (&V[uintptr]{}).nbit()},
	} {
		if x[0] != x[1] {
			t.Fatalf("V[T].nbit:\nhave %d\nwant %d", x[0], x[1])
		}
	}
}

func TestZero(t *testing.T) {
	var v16 V[uint16]
	if n := v16.Len(); n != 0 {
		t.Fatalf("v16.Len:\nhave %d\nwant 0", n)
	}
	if n := v16.Count(); n != 0 {
		t.Fatalf("v16.Count:\nhave %d\nwant 0", n)
	}
	if v16.IsSet(0) {
		t.Fatal("v16.IsSet(0):\nhave true\nwant false")
	}
	if _, ok := v16.Search(); ok {
		t.Fatal("v16.Search:\nhave true\nwant false")
	}
}

func TestNew(t *testing.T) {
	for _, x := range [...]struct {
		n, wantWords int
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{17, 3},
		{-1, 0},
	} {
		v := New[uint8](x.n)
		if have := len(v.s); have != x.wantWords {
			t.Fatalf("New(%d): len(s):\nhave %d\nwant %d", x.n, have, x.wantWords)
		}
		if have := v.Len(); have != max(x.n, 0) {
			t.Fatalf("New(%d).Len:\nhave %d\nwant %d", x.n, have, max(x.n, 0))
		}
	}
}

func TestSetUnset(t *testing.T) {
	v := New[uint32](70)
	for _, i := range [...]int{0, 31, 32, 69, 5} {
		if !v.Set(i) {
			t.Fatalf("v.Set(%d):\nhave false\nwant true", i)
		}
		if v.Set(i) {
			t.Fatalf("v.Set(%d) twice:\nhave true\nwant false", i)
		}
		if !v.IsSet(i) {
			t.Fatalf("v.IsSet(%d):\nhave false\nwant true", i)
		}
	}
	if have := v.Count(); have != 5 {
		t.Fatalf("v.Count:\nhave %d\nwant 5", have)
	}
	if have, want := slices.Collect(v.Ones()), []int{0, 5, 31, 32, 69}; !slices.Equal(have, want) {
		t.Fatalf("v.Ones:\nhave %v\nwant %v", have, want)
	}
	v.Unset(31)
	v.Unset(31)
	if v.IsSet(31) || v.Count() != 4 {
		t.Fatalf("v.Unset(31):\nhave %t, %d\nwant false, 4", v.IsSet(31), v.Count())
	}
	if v.IsSet(-1) || v.IsSet(70) {
		t.Fatal("v.IsSet: out of range index reported as set")
	}
	v.Clear()
	if have := v.Count(); have != 0 {
		t.Fatalf("v.Clear: Count:\nhave %d\nwant 0", have)
	}
}

func TestSetPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("v.Set(4): expected panic")
		}
	}()
	New[uint64](4).Set(4)
}

func TestSearch(t *testing.T) {
	v := New[uint8](12)
	for i := range 12 {
		idx, ok := v.Search()
		if !ok || idx != i {
			t.Fatalf("v.Search:\nhave %d, %t\nwant %d, true", idx, ok, i)
		}
		v.Set(idx)
	}
	if _, ok := v.Search(); ok {
		t.Fatal("v.Search: full vector:\nhave true\nwant false")
	}
	v.Unset(7)
	if idx, ok := v.Search(); !ok || idx != 7 {
		t.Fatalf("v.Search:\nhave %d, %t\nwant 7, true", idx, ok)
	}
}

func TestOr(t *testing.T) {
	v := New[uint8](10)
	w := New[uint8](16)
	v.Set(1)
	w.Set(1)
	w.Set(9)
	w.Set(12)
	v.Or(w)
	if have, want := slices.Collect(v.Ones()), []int{1, 9}; !slices.Equal(have, want) {
		t.Fatalf("v.Or:\nhave %v\nwant %v", have, want)
	}
	if have := v.Count(); have != 2 {
		t.Fatalf("v.Or: Count:\nhave %d\nwant 2", have)
	}
}

func TestAll(t *testing.T) {
	v := New[uint16](5)
	v.Set(2)
	var n int
	for i, set := range v.All() {
		if set != (i == 2) {
			t.Fatalf("v.All: bit %d:\nhave %t\nwant %t", i, set, i == 2)
		}
		n++
	}
	if n != 5 {
		t.Fatalf("v.All: count:\nhave %d\nwant 5", n)
	}
	for i := range v.All() {
		if i > 0 {
			t.Fatal("v.All: yield after break")
		}
		break
	}
}
