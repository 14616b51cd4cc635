// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import (
	"iter"

	"github.com/google/uuid"

	"github.com/gviegas/safecmd/command"
	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/pass"
)

// Buffer is a finished command buffer.
// It retains every resource referenced by its commands
// until Release is called.
// Secondary buffers can be executed by primary ones
// through command.NewExecuteCommands.
// A nil *Buffer is valid for every method: it is an empty
// primary buffer with no sink.
type Buffer struct {
	id        uuid.UUID
	sink      driver.Sink
	secondary bool
	fb        *pass.Framebuf
	subpass   int
	n         int
	ret       command.Retention
}

var _ command.Secondary = &Buffer{}

// ID returns the identifier of the Recorder that produced
// b.
func (b *Buffer) ID() uuid.UUID {
	if b == nil {
		return uuid.Nil
	}
	return b.id
}

// Sink returns the recorded sink.
func (b *Buffer) Sink() driver.Sink {
	if b == nil {
		return nil
	}
	return b.sink
}

// Secondary returns whether b is a secondary command
// buffer.
func (b *Buffer) Secondary() bool { return b != nil && b.secondary }

// Continues returns the framebuffer and subpass that b
// continues, if any.
func (b *Buffer) Continues() (*pass.Framebuf, int, bool) {
	if b == nil || b.fb == nil {
		return nil, 0, false
	}
	return b.fb, b.subpass, true
}

// Len returns the number of commands in b.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.n
}

// Resources returns an iterator over the resources that b
// retains.
func (b *Buffer) Resources() iter.Seq[driver.Destroyer] {
	if b == nil {
		return func(func(driver.Destroyer) bool) {}
	}
	return b.ret.All()
}

// Release releases the resources retained by b.
// It must only be called once the command buffer is no
// longer pending execution.
func (b *Buffer) Release() {
	if b != nil {
		b.ret.Release()
	}
}
