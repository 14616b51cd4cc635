// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package cmdbuf implements a validating command buffer
// recorder.
//
// A Recorder wraps a driver.Sink and tracks render pass
// state as commands are appended. Commands that are valid
// on their own but illegal at the current point of the
// command buffer are rejected, and the Recorder becomes
// poisoned: every subsequent call fails with an error that
// matches ErrPoisoned and carries the original cause.
// A poisoned command buffer can never be finished, so it
// never reaches execution.
package cmdbuf

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gviegas/safecmd/command"
	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/pass"
)

// Recorder records commands into a driver.Sink.
// It must not be used by multiple goroutines concurrently.
type Recorder struct {
	id   uuid.UUID
	sink driver.Sink
	cfg  Config
	log  *slog.Logger
	obs  Observer

	state   State
	subpass int
	fb      *pass.Framebuf
	// Whether the contents of the current subpass are
	// provided by secondary command buffers.
	secPass bool

	// Set when state is Invalid.
	err error

	n   int
	ret command.Retention
}

// New creates a new Recorder that records into sink.
// It calls sink.Begin. If cfg.Continue is set and sink
// implements driver.Continuer, the continued render pass
// is set on sink first.
func New(sink driver.Sink, cfg Config) (*Recorder, error) {
	if sink == nil {
		return nil, errors.New("cmdbuf: nil sink")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if c, ok := sink.(driver.Continuer); ok && cfg.Continue != nil {
		c.Continue(cfg.Continue.RenderPass(), cfg.Continue.Raw(), cfg.Subpass)
	}
	if err := sink.Begin(); err != nil {
		return nil, errors.Wrap(err, "cmdbuf: failed to begin recording")
	}
	r := &Recorder{
		id:      uuid.New(),
		sink:    sink,
		cfg:     cfg,
		log:     cfg.Logger,
		obs:     cfg.Observer,
		subpass: -1,
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.obs == nil {
		r.obs = nopObserver{}
	}
	r.log = r.log.With("recorder", r.id.String())
	return r, nil
}

// FromDevice creates a new sink from dev and calls New
// with it.
func FromDevice(dev driver.Device, cfg Config) (*Recorder, error) {
	sink, err := dev.NewSink(cfg.Secondary)
	if err != nil {
		return nil, errors.Wrap(err, "cmdbuf: failed to create sink")
	}
	return New(sink, cfg)
}

// ID returns the unique identifier of r.
// A Buffer produced by r has the same ID.
func (r *Recorder) ID() uuid.UUID { return r.id }

// State returns the current state of r.
func (r *Recorder) State() State { return r.state }

// Subpass returns the index of the current subpass, or -1
// if r is not Inside a render pass.
func (r *Recorder) Subpass() int {
	if r.state != Inside {
		return -1
	}
	return r.subpass
}

// Len returns the number of commands recorded so far.
func (r *Recorder) Len() int { return r.n }

// Err returns the error that poisoned r, or nil if r is
// not poisoned.
func (r *Recorder) Err() error { return r.err }

// Append records cmd.
//
// It returns a *StateError if cmd cannot be recorded in the
// current state, in which case r is poisoned. Appending to
// a poisoned Recorder fails with an error that matches
// ErrPoisoned. Appending to a finished Recorder fails with
// ErrFinished.
func (r *Recorder) Append(cmd command.Command) error {
	if cmd == nil {
		r.obs.Rejected("", ErrNilCommand)
		return ErrNilCommand
	}
	name := cmd.Name()
	switch r.state {
	case Invalid:
		err := r.poisoned(name)
		r.obs.Rejected(name, err)
		return err
	case Executable:
		r.obs.Rejected(name, ErrFinished)
		return ErrFinished
	}
	if err := r.check(cmd); err != nil {
		r.poison(name, err)
		return err
	}
	cmd.Encode(r.sink, &r.ret)
	r.advance(cmd)
	r.n++
	r.log.Debug("command recorded", "command", name, "state", r.state.String(), "subpass", r.Subpass())
	r.obs.Recorded(name)
	return nil
}

// Record records the command returned by a command
// constructor, or returns err if it is not nil.
// It is meant to be called with the results of the
// constructor as arguments:
//
//	err := r.Record(command.NewDraw(3, 1, 0, 0))
//
// A constructor error is returned as is, and r is left
// unchanged.
func (r *Recorder) Record(cmd command.Command, err error) error {
	if err != nil {
		r.obs.Rejected(typeName(cmd), err)
		return err
	}
	return r.Append(cmd)
}

// typeName returns the name of cmd's type.
// It is used for commands that failed validation, whose
// values must not be used.
func typeName(cmd command.Command) string {
	if cmd == nil {
		return ""
	}
	s := fmt.Sprintf("%T", cmd)
	return s[strings.LastIndexByte(s, '.')+1:]
}

// Finish ends recording and returns the recorded command
// buffer.
//
// A primary or non-continuation secondary command buffer
// can only be finished outside of render passes. A
// continuation buffer can only be finished inside the
// subpass that it continues. At least one command must
// have been recorded. Calling Finish in any other state
// poisons r.
func (r *Recorder) Finish() (*Buffer, error) {
	const name = "Finish"
	switch r.state {
	case Invalid:
		return nil, r.poisoned(name)
	case Executable:
		return nil, ErrFinished
	case Initial:
		err := r.stateError(name, "nothing was recorded", nil)
		r.poison(name, err)
		return nil, err
	case Inside:
		if r.cfg.Continue == nil {
			err := r.stateError(name, "render pass was not ended", nil)
			r.poison(name, err)
			return nil, err
		}
	}
	if err := r.sink.End(); err != nil {
		err = r.stateError(name, "failed to end recording", err)
		r.poison(name, err)
		return nil, err
	}
	b := &Buffer{
		id:        r.id,
		sink:      r.sink,
		secondary: r.cfg.Secondary,
		fb:        r.cfg.Continue,
		subpass:   r.cfg.Subpass,
		n:         r.n,
		ret:       r.ret,
	}
	r.ret = command.Retention{}
	r.state = Executable
	r.fb = nil
	r.log.Debug("recorder finished", "commands", r.n, "resources", b.ret.Len())
	r.obs.Finished(r.n)
	return b, nil
}

// Discard releases the resources retained by r and
// invalidates it.
// It has no effect if r is finished, since the resources
// then belong to the Buffer.
func (r *Recorder) Discard() {
	if r.state == Executable {
		return
	}
	r.ret.Release()
	if r.state != Invalid {
		r.state = Invalid
		r.err = ErrDiscarded
	}
	r.fb = nil
	r.log.Debug("recorder discarded", "commands", r.n)
}

// continuation reports whether r records a buffer that
// continues a render pass.
func (r *Recorder) continuation() bool { return r.cfg.Continue != nil }

// enter moves r out of the Initial state.
func (r *Recorder) enter() {
	if r.continuation() {
		r.state = Inside
		r.fb = r.cfg.Continue
		r.subpass = r.cfg.Subpass
		r.secPass = false
	} else {
		r.state = Outside
	}
}

// check checks whether cmd can be recorded in the
// current state.
func (r *Recorder) check(cmd command.Command) error {
	state := r.state
	if state == Initial {
		if r.continuation() {
			state = Inside
		} else {
			state = Outside
		}
	}
	name := cmd.Name()
	inside := state == Inside

	switch sc := cmd.Scope(); {
	case sc == command.InsidePass && !inside:
		return r.stateError(name, "command requires an active render pass", nil)
	case sc == command.OutsidePass && inside:
		return r.stateError(name, "command is not allowed inside a render pass", nil)
	}

	fb, subpass := r.fb, r.subpass
	secPass := r.secPass
	if r.state == Initial && r.continuation() {
		fb, subpass, secPass = r.cfg.Continue, r.cfg.Subpass, false
	}

	switch c := cmd.(type) {
	case *command.BeginRenderPass:
		if r.cfg.Secondary {
			return r.stateError(name, "secondary command buffers cannot begin render passes", nil)
		}
		return nil

	case *command.NextSubpass:
		if r.continuation() {
			return r.stateError(name, "continuation buffers cannot change subpasses", nil)
		}
		if n := fb.Desc().NumSubpasses(); subpass+1 >= n {
			return r.stateError(name, fmt.Sprintf("no subpass after subpass %d of %d", subpass, n), nil)
		}
		return nil

	case *command.EndRenderPass:
		if r.continuation() {
			return r.stateError(name, "continuation buffers cannot end render passes", nil)
		}
		if n := fb.Desc().NumSubpasses(); subpass != n-1 {
			return r.stateError(name, fmt.Sprintf("render pass ended at subpass %d of %d", subpass, n), nil)
		}
		return nil

	case *command.ExecuteCommands:
		if r.cfg.Secondary {
			return r.stateError(name, "secondary command buffers cannot execute commands", nil)
		}
		if inside && !secPass {
			return r.stateError(name, "subpass contents are inline", nil)
		}
		for i, b := range c.Buffers() {
			bfb, bsub, ok := b.Continues()
			switch {
			case inside && !ok:
				return r.stateError(name, fmt.Sprintf("buffer %d does not continue a render pass", i), nil)
			case inside && (bfb != fb || bsub != subpass):
				return r.stateError(name, fmt.Sprintf("buffer %d continues a different render pass or subpass", i), nil)
			case !inside && ok:
				return r.stateError(name, fmt.Sprintf("buffer %d continues a render pass", i), nil)
			}
		}
		return nil

	case *command.ClearAttachments:
		if c.Framebuf() != fb || c.Subpass() != subpass {
			return r.stateError(name, "command targets a different render pass or subpass", nil)
		}
	}

	if inside && secPass {
		return r.stateError(name, "subpass contents are provided by secondary buffers", nil)
	}
	return nil
}

// advance updates the state of r after cmd is recorded.
func (r *Recorder) advance(cmd command.Command) {
	if r.state == Initial {
		r.enter()
	}
	switch c := cmd.(type) {
	case *command.BeginRenderPass:
		r.state = Inside
		r.fb = c.Framebuf()
		r.subpass = 0
		r.secPass = c.Secondary()
	case *command.NextSubpass:
		r.subpass++
		r.secPass = c.Secondary()
	case *command.EndRenderPass:
		r.state = Outside
		r.fb = nil
		r.subpass = -1
		r.secPass = false
	}
}

func (r *Recorder) stateError(name, reason string, err error) *StateError {
	subpass := -1
	if r.state == Inside {
		subpass = r.subpass
	}
	return &StateError{
		Command: name,
		State:   r.state,
		Subpass: subpass,
		Reason:  reason,
		Err:     err,
	}
}

// poison invalidates r with the given cause.
func (r *Recorder) poison(name string, err error) {
	r.state = Invalid
	r.err = err
	r.log.Warn("recorder poisoned", "command", name, "error", err)
	r.obs.Poisoned(name, err)
}

// poisoned returns the error for a call on a poisoned
// Recorder.
func (r *Recorder) poisoned(name string) error {
	return &StateError{
		Command: name,
		State:   Invalid,
		Subpass: -1,
		Err:     r.err,
	}
}
