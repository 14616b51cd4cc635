// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package command defines the commands that can be recorded
// into a command buffer.
//
// Each command type has a constructor that validates its
// arguments, returning a command-specific error type on
// failure. Constructors are pure: they do not modify their
// arguments nor keep references to caller-owned slices, and
// calling one twice with the same inputs yields the same
// outcome.
//
// A valid command can be encoded into a driver.Sink any
// number of times. Encoding records the command's resources
// in a Retention, so they outlive the command buffer.
// Whether a command is legal at a given point of a command
// buffer is not the command's concern; see package cmdbuf.
package command

import (
	"iter"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/pass"
)

// Scope identifies where in a command buffer a command
// can be recorded.
type Scope int

// Scopes.
const (
	// Valid both inside and outside render passes.
	Anywhere Scope = iota
	// Valid only inside render passes.
	InsidePass
	// Valid only outside render passes.
	OutsidePass
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	switch s {
	case Anywhere:
		return "anywhere"
	case InsidePass:
		return "inside render pass"
	case OutsidePass:
		return "outside render pass"
	}
	return "invalid scope"
}

// Command is the interface that every command implements.
type Command interface {
	// Name returns the name of the command.
	Name() string

	// Scope returns where the command can be recorded.
	Scope() Scope

	// Encode records the command into s and adds every
	// resource that it references to r.
	Encode(s driver.Sink, r *Retention)
}

// Retention is a list of resources that must be kept alive
// while a command buffer is pending.
// Resources that implement driver.Shared are acquired when
// added and released by Release. Other resources are merely
// referenced.
// The zero value is an empty list ready for use.
type Retention struct {
	res []driver.Destroyer
}

// Add adds resources to the list.
// nil values are ignored.
func (r *Retention) Add(res ...driver.Destroyer) {
	for _, x := range res {
		if x == nil {
			continue
		}
		if s, ok := x.(driver.Shared); ok {
			s.Acquire()
		}
		r.res = append(r.res, x)
	}
}

// Len returns the number of resources in the list.
// A resource added more than once is counted every time.
func (r *Retention) Len() int { return len(r.res) }

// All returns an iterator over the resources in the list,
// in the order they were added.
func (r *Retention) All() iter.Seq[driver.Destroyer] {
	return func(yield func(driver.Destroyer) bool) {
		for _, x := range r.res {
			if !yield(x) {
				return
			}
		}
	}
}

// Release releases every resource in the list and empties
// it.
func (r *Retention) Release() {
	for _, x := range r.res {
		if s, ok := x.(driver.Shared); ok {
			s.Release()
		}
	}
	clear(r.res)
	r.res = r.res[:0]
}

// Secondary is the interface that a finished secondary
// command buffer presents to ExecuteCommands.
type Secondary interface {
	// Sink returns the recorded sink, or nil if there
	// is none.
	Sink() driver.Sink

	// Secondary returns whether the buffer is secondary.
	Secondary() bool

	// Continues returns the framebuffer and subpass that
	// the buffer continues, if any.
	Continues() (fb *pass.Framebuf, subpass int, ok bool)

	// Resources returns an iterator over the resources
	// that the buffer retains.
	Resources() iter.Seq[driver.Destroyer]
}

// clone copies s, so commands do not alias caller memory.
// It returns nil if s is empty.
func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return append([]T(nil), s...)
}
