// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"slices"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/pass"
)

// BeginRenderPass begins the first subpass of a render
// pass.
type BeginRenderPass struct {
	fb        *pass.Framebuf
	area      driver.Scissor
	clear     []driver.ClearValue
	secondary bool
}

// BeginRenderPassKind identifies a BeginRenderPassError.
type BeginRenderPassKind int

// BeginRenderPass error kinds.
const (
	// The framebuffer is nil.
	BeginRenderPassNilFramebuf BeginRenderPassKind = iota
	// The framebuffer was created without a render pass,
	// or was destroyed.
	BeginRenderPassNoRenderPass
	// The render area is not within the framebuffer.
	BeginRenderPassAreaBounds
	// The clear values do not match the description.
	// Err holds the *pass.ClearValuesError.
	BeginRenderPassClearValues
)

var beginRenderPassKinds = [...]string{
	BeginRenderPassNilFramebuf:  "nil framebuffer",
	BeginRenderPassNoRenderPass: "framebuffer has no render pass",
	BeginRenderPassAreaBounds:   "render area out of framebuffer bounds",
	BeginRenderPassClearValues:  "invalid clear values",
}

// String implements fmt.Stringer.
func (k BeginRenderPassKind) String() string {
	return kindString(beginRenderPassKinds[:], int(k), "BeginRenderPassKind")
}

// BeginRenderPassError is the error returned by
// NewBeginRenderPass.
type BeginRenderPassError struct {
	Kind     BeginRenderPassKind
	Expected int64
	Obtained int64
	Err      error
}

func (e *BeginRenderPassError) Error() string {
	s := errText("begin render pass", e.Kind, "", -1, e.Kind == BeginRenderPassAreaBounds, e.Expected, e.Obtained)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error, if any.
func (e *BeginRenderPassError) Unwrap() error { return e.Err }

// NewBeginRenderPass creates a new BeginRenderPass command.
// clear holds one value per attachment that is cleared on
// load, in attachment order (see pass.ConvertClearValues).
// If secondary is set, the contents of the first subpass
// must be provided by ExecuteCommands.
func NewBeginRenderPass(fb *pass.Framebuf, area driver.Scissor, clear []driver.ClearValue, secondary bool) (*BeginRenderPass, error) {
	switch {
	case fb == nil:
		return nil, &BeginRenderPassError{Kind: BeginRenderPassNilFramebuf}
	case fb.RenderPass() == nil || fb.Raw() == nil:
		return nil, &BeginRenderPassError{Kind: BeginRenderPassNoRenderPass}
	case area.Width < 1 || !within(area.X, area.Width, fb.Width()):
		return nil, &BeginRenderPassError{Kind: BeginRenderPassAreaBounds, Expected: int64(fb.Width()), Obtained: end(area.X, area.Width)}
	case area.Height < 1 || !within(area.Y, area.Height, fb.Height()):
		return nil, &BeginRenderPassError{Kind: BeginRenderPassAreaBounds, Expected: int64(fb.Height()), Obtained: end(area.Y, area.Height)}
	}
	seq, err := pass.ConvertClearValues(fb.Desc(), clear)
	if err != nil {
		return nil, &BeginRenderPassError{Kind: BeginRenderPassClearValues, Err: err}
	}
	return &BeginRenderPass{fb, area, slices.Collect(seq), secondary}, nil
}

// Name implements Command.
func (*BeginRenderPass) Name() string { return "BeginRenderPass" }

// Scope implements Command.
func (*BeginRenderPass) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *BeginRenderPass) Encode(s driver.Sink, r *Retention) {
	s.BeginPass(c.fb.RenderPass(), c.fb.Raw(), c.area, c.clear, c.secondary)
	r.Add(c.fb.RenderPass(), c.fb.Raw())
	for _, v := range pass.Views(c.fb.Attachments()) {
		r.Add(v)
	}
}

// Framebuf returns the framebuffer that the render pass
// renders to.
func (c *BeginRenderPass) Framebuf() *pass.Framebuf { return c.fb }

// Secondary returns whether the first subpass' contents are
// provided by secondary command buffers.
func (c *BeginRenderPass) Secondary() bool { return c.secondary }

// NextSubpass ends the current subpass and begins the next
// one.
type NextSubpass struct{ secondary bool }

// NewNextSubpass creates a new NextSubpass command.
// If secondary is set, the contents of the next subpass
// must be provided by ExecuteCommands.
func NewNextSubpass(secondary bool) *NextSubpass { return &NextSubpass{secondary} }

// Name implements Command.
func (*NextSubpass) Name() string { return "NextSubpass" }

// Scope implements Command.
func (*NextSubpass) Scope() Scope { return InsidePass }

// Encode implements Command.
func (c *NextSubpass) Encode(s driver.Sink, _ *Retention) { s.NextSubpass(c.secondary) }

// Secondary returns whether the subpass' contents are
// provided by secondary command buffers.
func (c *NextSubpass) Secondary() bool { return c.secondary }

// EndRenderPass ends the current render pass.
type EndRenderPass struct{}

// NewEndRenderPass creates a new EndRenderPass command.
func NewEndRenderPass() *EndRenderPass { return &EndRenderPass{} }

// Name implements Command.
func (*EndRenderPass) Name() string { return "EndRenderPass" }

// Scope implements Command.
func (*EndRenderPass) Scope() Scope { return InsidePass }

// Encode implements Command.
func (*EndRenderPass) Encode(s driver.Sink, _ *Retention) { s.EndPass() }
