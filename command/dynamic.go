// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"math"

	"github.com/gviegas/safecmd/driver"
)

// DynamicStateKind identifies a DynamicStateError.
type DynamicStateKind int

// Dynamic state error kinds.
const (
	// No viewports were given.
	DynamicNoViewports DynamicStateKind = iota
	// The viewport range exceeds driver.Limits.MaxViewports.
	DynamicViewportLimit
	// A viewport has a non-positive size or depth range
	// outside [0, 1].
	DynamicBadViewport
	// No scissors were given.
	DynamicNoScissors
	// The scissor range exceeds driver.Limits.MaxViewports.
	DynamicScissorLimit
	// A scissor has a negative offset or size.
	DynamicBadScissor
	// The line width is outside driver.Limits.LineWidth.
	DynamicLineWidthRange
	// A value is NaN or infinite.
	DynamicNotFinite
	// The depth bounds are not 0 <= min <= max <= 1.
	DynamicDepthBoundsRange
	// The stencil face mask is empty or invalid.
	DynamicBadFace
)

var dynamicStateKinds = [...]string{
	DynamicNoViewports:      "no viewports",
	DynamicViewportLimit:    "viewport limit exceeded",
	DynamicBadViewport:      "invalid viewport",
	DynamicNoScissors:       "no scissors",
	DynamicScissorLimit:     "scissor limit exceeded",
	DynamicBadScissor:       "invalid scissor",
	DynamicLineWidthRange:   "line width out of range",
	DynamicNotFinite:        "non-finite value",
	DynamicDepthBoundsRange: "invalid depth bounds",
	DynamicBadFace:          "invalid stencil face",
}

// String implements fmt.Stringer.
func (k DynamicStateKind) String() string {
	return kindString(dynamicStateKinds[:], int(k), "DynamicStateKind")
}

// DynamicStateError is the error returned by the
// constructors of dynamic state commands.
// Cmd is the name of the command. Index is the viewport or
// scissor at fault, or -1.
type DynamicStateError struct {
	Kind     DynamicStateKind
	Cmd      string
	Index    int
	Expected int64
	Obtained int64
}

func (e *DynamicStateError) Error() string {
	var what string
	switch e.Kind {
	case DynamicBadViewport:
		what = "viewport"
	case DynamicBadScissor:
		what = "scissor"
	}
	nums := e.Kind == DynamicViewportLimit || e.Kind == DynamicScissorLimit
	return errText(e.Cmd, e.Kind, what, e.Index, nums, e.Expected, e.Obtained)
}

func finite(x ...float32) bool {
	for _, x := range x {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return false
		}
	}
	return true
}

// SetViewport sets the bounds of one or more viewports.
type SetViewport struct {
	first int
	vp    []driver.Viewport
}

// NewSetViewport creates a new SetViewport command.
func NewSetViewport(lim *driver.Limits, first int, vps []driver.Viewport) (*SetViewport, error) {
	const cmd = "set viewport"
	if len(vps) == 0 {
		return nil, &DynamicStateError{Kind: DynamicNoViewports, Cmd: cmd, Index: -1}
	}
	if !within(first, len(vps), lim.MaxViewports) {
		return nil, &DynamicStateError{Kind: DynamicViewportLimit, Cmd: cmd, Index: -1, Expected: int64(lim.MaxViewports), Obtained: end(first, len(vps))}
	}
	for i, v := range vps {
		if !finite(v.X, v.Y, v.Width, v.Height, v.Znear, v.Zfar) {
			return nil, &DynamicStateError{Kind: DynamicNotFinite, Cmd: cmd, Index: i}
		}
		if v.Width <= 0 || v.Height <= 0 || v.Znear < 0 || v.Znear > 1 || v.Zfar < 0 || v.Zfar > 1 {
			return nil, &DynamicStateError{Kind: DynamicBadViewport, Cmd: cmd, Index: i}
		}
	}
	return &SetViewport{first, clone(vps)}, nil
}

// Name implements Command.
func (*SetViewport) Name() string { return "SetViewport" }

// Scope implements Command.
func (*SetViewport) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetViewport) Encode(s driver.Sink, _ *Retention) { s.SetViewport(c.first, c.vp) }

// SetScissor sets the rectangles of one or more viewport
// scissors.
type SetScissor struct {
	first int
	sciss []driver.Scissor
}

// NewSetScissor creates a new SetScissor command.
func NewSetScissor(lim *driver.Limits, first int, sciss []driver.Scissor) (*SetScissor, error) {
	const cmd = "set scissor"
	if len(sciss) == 0 {
		return nil, &DynamicStateError{Kind: DynamicNoScissors, Cmd: cmd, Index: -1}
	}
	if !within(first, len(sciss), lim.MaxViewports) {
		return nil, &DynamicStateError{Kind: DynamicScissorLimit, Cmd: cmd, Index: -1, Expected: int64(lim.MaxViewports), Obtained: end(first, len(sciss))}
	}
	for i, s := range sciss {
		if s.X < 0 || s.Y < 0 || s.Width < 0 || s.Height < 0 {
			return nil, &DynamicStateError{Kind: DynamicBadScissor, Cmd: cmd, Index: i}
		}
	}
	return &SetScissor{first, clone(sciss)}, nil
}

// Name implements Command.
func (*SetScissor) Name() string { return "SetScissor" }

// Scope implements Command.
func (*SetScissor) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetScissor) Encode(s driver.Sink, _ *Retention) { s.SetScissor(c.first, c.sciss) }

// SetLineWidth sets the rasterization line width.
type SetLineWidth struct{ width float32 }

// NewSetLineWidth creates a new SetLineWidth command.
func NewSetLineWidth(lim *driver.Limits, width float32) (*SetLineWidth, error) {
	const cmd = "set line width"
	if !finite(width) {
		return nil, &DynamicStateError{Kind: DynamicNotFinite, Cmd: cmd, Index: -1}
	}
	if width < lim.LineWidth[0] || width > lim.LineWidth[1] {
		return nil, &DynamicStateError{Kind: DynamicLineWidthRange, Cmd: cmd, Index: -1}
	}
	return &SetLineWidth{width}, nil
}

// Name implements Command.
func (*SetLineWidth) Name() string { return "SetLineWidth" }

// Scope implements Command.
func (*SetLineWidth) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetLineWidth) Encode(s driver.Sink, _ *Retention) { s.SetLineWidth(c.width) }

// SetDepthBias sets the depth bias parameters.
type SetDepthBias struct{ value, clamp, slope float32 }

// NewSetDepthBias creates a new SetDepthBias command.
func NewSetDepthBias(value, clamp, slope float32) (*SetDepthBias, error) {
	if !finite(value, clamp, slope) {
		return nil, &DynamicStateError{Kind: DynamicNotFinite, Cmd: "set depth bias", Index: -1}
	}
	return &SetDepthBias{value, clamp, slope}, nil
}

// Name implements Command.
func (*SetDepthBias) Name() string { return "SetDepthBias" }

// Scope implements Command.
func (*SetDepthBias) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetDepthBias) Encode(s driver.Sink, _ *Retention) {
	s.SetDepthBias(c.value, c.clamp, c.slope)
}

// SetBlendColor sets the constant blend color.
type SetBlendColor struct{ rgba [4]float32 }

// NewSetBlendColor creates a new SetBlendColor command.
func NewSetBlendColor(r, g, b, a float32) (*SetBlendColor, error) {
	if !finite(r, g, b, a) {
		return nil, &DynamicStateError{Kind: DynamicNotFinite, Cmd: "set blend color", Index: -1}
	}
	return &SetBlendColor{[4]float32{r, g, b, a}}, nil
}

// Name implements Command.
func (*SetBlendColor) Name() string { return "SetBlendColor" }

// Scope implements Command.
func (*SetBlendColor) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetBlendColor) Encode(s driver.Sink, _ *Retention) {
	s.SetBlendColor(c.rgba[0], c.rgba[1], c.rgba[2], c.rgba[3])
}

// SetDepthBounds sets the depth bounds test range.
type SetDepthBounds struct{ min, max float32 }

// NewSetDepthBounds creates a new SetDepthBounds command.
func NewSetDepthBounds(min, max float32) (*SetDepthBounds, error) {
	const cmd = "set depth bounds"
	if !finite(min, max) {
		return nil, &DynamicStateError{Kind: DynamicNotFinite, Cmd: cmd, Index: -1}
	}
	if min < 0 || min > max || max > 1 {
		return nil, &DynamicStateError{Kind: DynamicDepthBoundsRange, Cmd: cmd, Index: -1}
	}
	return &SetDepthBounds{min, max}, nil
}

// Name implements Command.
func (*SetDepthBounds) Name() string { return "SetDepthBounds" }

// Scope implements Command.
func (*SetDepthBounds) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetDepthBounds) Encode(s driver.Sink, _ *Retention) { s.SetDepthBounds(c.min, c.max) }

type stencilOp int

const (
	stencilCompare stencilOp = iota
	stencilWrite
	stencilRef
)

// SetStencil sets one stencil state value.
// It is created by NewSetStencilCompareMask,
// NewSetStencilWriteMask or NewSetStencilRef.
type SetStencil struct {
	op    stencilOp
	face  driver.StencilFace
	value uint32
}

var stencilNames = [...]string{
	stencilCompare: "SetStencilCompareMask",
	stencilWrite:   "SetStencilWriteMask",
	stencilRef:     "SetStencilRef",
}

func newSetStencil(op stencilOp, cmd string, face driver.StencilFace, value uint32) (*SetStencil, error) {
	if face == 0 || face&^driver.FaceBoth != 0 {
		return nil, &DynamicStateError{Kind: DynamicBadFace, Cmd: cmd, Index: -1}
	}
	return &SetStencil{op, face, value}, nil
}

// NewSetStencilCompareMask creates a new SetStencil command
// that sets the compare mask of the given faces.
func NewSetStencilCompareMask(face driver.StencilFace, mask uint32) (*SetStencil, error) {
	return newSetStencil(stencilCompare, "set stencil compare mask", face, mask)
}

// NewSetStencilWriteMask creates a new SetStencil command
// that sets the write mask of the given faces.
func NewSetStencilWriteMask(face driver.StencilFace, mask uint32) (*SetStencil, error) {
	return newSetStencil(stencilWrite, "set stencil write mask", face, mask)
}

// NewSetStencilRef creates a new SetStencil command that
// sets the reference value of the given faces.
func NewSetStencilRef(face driver.StencilFace, value uint32) (*SetStencil, error) {
	return newSetStencil(stencilRef, "set stencil reference", face, value)
}

// Name implements Command.
func (c *SetStencil) Name() string { return stencilNames[c.op] }

// Scope implements Command.
func (*SetStencil) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *SetStencil) Encode(s driver.Sink, _ *Retention) {
	switch c.op {
	case stencilCompare:
		s.SetStencilCompareMask(c.face, c.value)
	case stencilWrite:
		s.SetStencilWriteMask(c.face, c.value)
	default:
		s.SetStencilRef(c.face, c.value)
	}
}
