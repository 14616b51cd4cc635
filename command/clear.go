// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/pass"
)

// ClearAttachments clears regions of the attachments of a
// subpass.
type ClearAttachments struct {
	fb      *pass.Framebuf
	subpass int
	att     []driver.ClearAttachment
	rect    []driver.ClearRect
}

// ClearAttachmentsKind identifies a ClearAttachmentsError.
type ClearAttachmentsKind int

// ClearAttachments error kinds.
const (
	// The framebuffer is nil.
	ClearAttachmentsNilFramebuf ClearAttachmentsKind = iota
	// The subpass does not exist.
	ClearAttachmentsSubpass
	// No attachments were given.
	ClearAttachmentsEmpty
	// No rectangles were given.
	ClearAttachmentsNoRects
	// More attachments were given than the subpass has.
	ClearAttachmentsCount
	// An aspect mask is empty or mixes color with
	// depth/stencil.
	ClearAttachmentsAspect
	// A color index is not within the subpass' color
	// attachments.
	ClearAttachmentsColor
	// Depth was requested but the subpass has no depth
	// attachment.
	ClearAttachmentsNoDepth
	// Stencil was requested but the subpass has no
	// stencil attachment.
	ClearAttachmentsNoStencil
	// A rectangle is empty.
	ClearAttachmentsZeroRect
	// A rectangle is not within the framebuffer.
	ClearAttachmentsRectBounds
	// A layer range is not within the framebuffer.
	ClearAttachmentsLayer
)

var clearAttachmentsKinds = [...]string{
	ClearAttachmentsNilFramebuf: "nil framebuffer",
	ClearAttachmentsSubpass:     "subpass out of range",
	ClearAttachmentsEmpty:       "no attachments",
	ClearAttachmentsNoRects:     "no rectangles",
	ClearAttachmentsCount:       "attachment count mismatch",
	ClearAttachmentsAspect:      "invalid aspect",
	ClearAttachmentsColor:       "color attachment out of range",
	ClearAttachmentsNoDepth:     "subpass has no depth attachment",
	ClearAttachmentsNoStencil:   "subpass has no stencil attachment",
	ClearAttachmentsZeroRect:    "empty rectangle",
	ClearAttachmentsRectBounds:  "rectangle out of framebuffer bounds",
	ClearAttachmentsLayer:       "layer range out of framebuffer bounds",
}

// String implements fmt.Stringer.
func (k ClearAttachmentsKind) String() string {
	return kindString(clearAttachmentsKinds[:], int(k), "ClearAttachmentsKind")
}

// ClearAttachmentsError is the error returned by
// NewClearAttachments.
// Index is the attachment or rectangle at fault, or -1.
type ClearAttachmentsError struct {
	Kind     ClearAttachmentsKind
	Index    int
	Expected int64
	Obtained int64
}

func (e *ClearAttachmentsError) Error() string {
	var what string
	var nums bool
	switch e.Kind {
	case ClearAttachmentsAspect, ClearAttachmentsNoDepth, ClearAttachmentsNoStencil:
		what = "attachment"
	case ClearAttachmentsColor:
		what, nums = "attachment", true
	case ClearAttachmentsZeroRect:
		what = "rectangle"
	case ClearAttachmentsRectBounds, ClearAttachmentsLayer:
		what, nums = "rectangle", true
	case ClearAttachmentsSubpass, ClearAttachmentsCount:
		nums = true
	}
	return errText("clear attachments", e.Kind, what, e.Index, nums, e.Expected, e.Obtained)
}

// NewClearAttachments creates a new ClearAttachments
// command for the given subpass of a render pass that
// renders to fb.
// The command can only be recorded while that subpass of
// that framebuffer is current.
func NewClearAttachments(fb *pass.Framebuf, subpass int, att []driver.ClearAttachment, rects []driver.ClearRect) (*ClearAttachments, error) {
	switch {
	case fb == nil:
		return nil, &ClearAttachmentsError{Kind: ClearAttachmentsNilFramebuf, Index: -1}
	case len(att) == 0:
		return nil, &ClearAttachmentsError{Kind: ClearAttachmentsEmpty, Index: -1}
	case len(rects) == 0:
		return nil, &ClearAttachmentsError{Kind: ClearAttachmentsNoRects, Index: -1}
	}
	d := fb.Desc()
	ncolor, ok := pass.NumColorAttachments(d, subpass)
	if !ok {
		return nil, &ClearAttachmentsError{Kind: ClearAttachmentsSubpass, Index: -1, Expected: int64(d.NumSubpasses()), Obtained: int64(subpass)}
	}
	depth, stencil, _ := pass.HasDepthStencil(d, subpass)
	natt := ncolor
	if depth || stencil {
		natt++
	}
	if len(att) > natt {
		return nil, &ClearAttachmentsError{Kind: ClearAttachmentsCount, Index: -1, Expected: int64(natt), Obtained: int64(len(att))}
	}
	for i, a := range att {
		switch {
		case a.Aspect == driver.AspectNone,
			a.Aspect&driver.AspectColor != 0 && a.Aspect != driver.AspectColor,
			a.Aspect&^(driver.AspectColor|driver.AspectDepth|driver.AspectStencil) != 0:
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsAspect, Index: i}
		case a.Aspect == driver.AspectColor && (a.Color < 0 || a.Color >= ncolor):
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsColor, Index: i, Expected: int64(ncolor), Obtained: int64(a.Color)}
		case a.Aspect&driver.AspectDepth != 0 && !depth:
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsNoDepth, Index: i}
		case a.Aspect&driver.AspectStencil != 0 && !stencil:
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsNoStencil, Index: i}
		}
	}
	for i, r := range rects {
		switch {
		case r.Rect.Width < 1 || r.Rect.Height < 1:
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsZeroRect, Index: i}
		case !within(r.Rect.X, r.Rect.Width, fb.Width()):
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsRectBounds, Index: i, Expected: int64(fb.Width()), Obtained: end(r.Rect.X, r.Rect.Width)}
		case !within(r.Rect.Y, r.Rect.Height, fb.Height()):
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsRectBounds, Index: i, Expected: int64(fb.Height()), Obtained: end(r.Rect.Y, r.Rect.Height)}
		case r.Layers < 1 || !within(r.Layer, r.Layers, fb.Layers()):
			return nil, &ClearAttachmentsError{Kind: ClearAttachmentsLayer, Index: i, Expected: int64(fb.Layers()), Obtained: end(r.Layer, r.Layers)}
		}
	}
	return &ClearAttachments{fb, subpass, clone(att), clone(rects)}, nil
}

// Name implements Command.
func (*ClearAttachments) Name() string { return "ClearAttachments" }

// Scope implements Command.
func (*ClearAttachments) Scope() Scope { return InsidePass }

// Encode implements Command.
func (c *ClearAttachments) Encode(s driver.Sink, _ *Retention) {
	s.ClearAttachments(c.att, c.rect)
}

// Framebuf returns the framebuffer for which the command
// was created.
func (c *ClearAttachments) Framebuf() *pass.Framebuf { return c.fb }

// Subpass returns the subpass for which the command was
// created.
func (c *ClearAttachments) Subpass() int { return c.subpass }
