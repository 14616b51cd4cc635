// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"sync/atomic"
)

// Shared is implemented by resources whose lifetime is
// reference counted.
// Every call to Acquire must be paired with a call to
// Release. The resource is freed when the last reference
// is released.
type Shared interface {
	Acquire()
	Release()
}

// Ref is an atomic reference count that resource types can
// embed to implement Shared.
// A Ref starts with a single reference, owned by whoever
// created the resource, after a call to Init.
type Ref struct {
	n    atomic.Int64
	free func()
}

// Init sets the count to one and registers the function
// to call when it drops to zero.
func (r *Ref) Init(free func()) {
	r.free = free
	r.n.Store(1)
}

// Acquire adds a reference.
// It panics if the resource was already freed.
func (r *Ref) Acquire() {
	if r.n.Add(1) <= 1 {
		panic("driver: Acquire of freed resource")
	}
}

// Release removes a reference, freeing the resource
// if it was the last one.
// It panics if the count drops below zero.
func (r *Ref) Release() {
	switch n := r.n.Add(-1); {
	case n == 0:
		if r.free != nil {
			r.free()
		}
	case n < 0:
		panic("driver: Release of freed resource")
	}
}

// Count returns the current number of references.
func (r *Ref) Count() int64 { return r.n.Load() }
