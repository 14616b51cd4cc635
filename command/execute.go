// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// ExecuteCommands executes secondary command buffers.
type ExecuteCommands struct {
	bufs []Secondary
}

// ExecuteCommandsKind identifies an ExecuteCommandsError.
type ExecuteCommandsKind int

// ExecuteCommands error kinds.
const (
	// No buffers were given.
	ExecuteCommandsNoBuffers ExecuteCommandsKind = iota
	// A buffer is nil or has no sink.
	ExecuteCommandsNilBuffer
	// A buffer is a primary command buffer.
	ExecuteCommandsNotSecondary
)

// String implements fmt.Stringer.
func (k ExecuteCommandsKind) String() string {
	return kindString([]string{"no buffers", "nil buffer", "primary command buffer"}, int(k), "ExecuteCommandsKind")
}

// ExecuteCommandsError is the error returned by
// NewExecuteCommands.
// Index is the buffer at fault, or -1.
type ExecuteCommandsError struct {
	Kind  ExecuteCommandsKind
	Index int
}

func (e *ExecuteCommandsError) Error() string {
	return errText("execute commands", e.Kind, "buffer", e.Index, false, 0, 0)
}

// NewExecuteCommands creates a new ExecuteCommands command.
// Whether the buffers are compatible with the point of
// recording (e.g., the current subpass) is checked by the
// recorder.
func NewExecuteCommands(bufs []Secondary) (*ExecuteCommands, error) {
	if len(bufs) == 0 {
		return nil, &ExecuteCommandsError{Kind: ExecuteCommandsNoBuffers, Index: -1}
	}
	for i, b := range bufs {
		switch {
		case b == nil || b.Sink() == nil:
			return nil, &ExecuteCommandsError{Kind: ExecuteCommandsNilBuffer, Index: i}
		case !b.Secondary():
			return nil, &ExecuteCommandsError{Kind: ExecuteCommandsNotSecondary, Index: i}
		}
	}
	return &ExecuteCommands{clone(bufs)}, nil
}

// Name implements Command.
func (*ExecuteCommands) Name() string { return "ExecuteCommands" }

// Scope implements Command.
func (*ExecuteCommands) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *ExecuteCommands) Encode(s driver.Sink, r *Retention) {
	sinks := make([]driver.Sink, len(c.bufs))
	for i, b := range c.bufs {
		sinks[i] = b.Sink()
		for x := range b.Resources() {
			r.Add(x)
		}
	}
	s.Execute(sinks)
}

// Buffers returns the buffers to execute.
// The caller must not modify the returned slice.
func (c *ExecuteCommands) Buffers() []Secondary { return c.bufs }
