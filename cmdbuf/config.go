// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/pass"
)

// Config configures a Recorder.
// The zero value configures a primary command buffer.
type Config struct {
	// Secondary indicates that the command buffer is a
	// secondary one, which can only be executed from
	// primary command buffers by ExecuteCommands.
	Secondary bool

	// Continue, if not nil, indicates that a secondary
	// command buffer continues a render pass that renders
	// to the given framebuffer.
	// Such buffer is recorded entirely within the subpass
	// identified by Subpass.
	Continue *pass.Framebuf
	Subpass  int

	// Logger is used to log recording events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer, if not nil, is notified of recording
	// events.
	Observer Observer
}

// Observer is the interface that receives notifications
// from a Recorder.
// Its methods are called synchronously, from the goroutine
// that uses the Recorder.
type Observer interface {
	// Recorded is called after a command is recorded.
	Recorded(cmd string)

	// Rejected is called when a command is not recorded
	// but the Recorder is not poisoned.
	Rejected(cmd string, err error)

	// Poisoned is called when a sequencing error poisons
	// the Recorder.
	Poisoned(cmd string, err error)

	// Finished is called when the Recorder is finished,
	// with the number of recorded commands.
	Finished(n int)
}

func (c *Config) validate() error {
	switch {
	case c.Continue != nil && !c.Secondary:
		return errors.New("cmdbuf: render pass continuation requires a secondary command buffer")
	case c.Continue == nil && c.Subpass != 0:
		return errors.Newf("cmdbuf: subpass %d set without a render pass to continue", c.Subpass)
	case c.Continue != nil:
		if n := c.Continue.Desc().NumSubpasses(); c.Subpass < 0 || c.Subpass >= n {
			return errors.Newf("cmdbuf: continued subpass out of range: expected [0, %d), obtained %d", n, c.Subpass)
		}
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) Recorded(string) {}

func (nopObserver) Rejected(string, error) {}

func (nopObserver) Poisoned(string, error) {}

func (nopObserver) Finished(int) {}
