// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
)

// Framebuf binds a checked list of image views to a render
// pass description.
type Framebuf struct {
	desc   Desc
	att    AttachmentsList
	width  int
	height int
	layers int
	rp     driver.RenderPass
	raw    driver.Framebuf
}

// NewFramebuf creates a new framebuffer.
// views are checked against d as in CheckAttachments, then
// against the framebuffer's extent: every view must be at
// least width by height and have at least layers layers.
// The extent and the color attachment count of every
// subpass must not exceed lim.
// If rp is not nil, it is used to create the underlying
// framebuffer object.
func NewFramebuf(lim *driver.Limits, rp driver.RenderPass, d Desc, views []driver.ImageView, width, height, layers int) (*Framebuf, error) {
	for _, x := range [...]struct {
		dim string
		n   int
		max int
	}{
		{"width", width, lim.MaxFBSize[0]},
		{"height", height, lim.MaxFBSize[1]},
		{"layers", layers, lim.MaxFBLayers},
	} {
		if x.n < 1 {
			return nil, &AttachmentsError{Kind: DimsMismatch, Index: -1, Expected: 1, Obtained: x.n, Dim: x.dim}
		}
		if x.n > x.max {
			return nil, &AttachmentsError{Kind: LimitExceeded, Index: -1, Expected: x.max, Obtained: x.n, Dim: x.dim}
		}
	}
	for i := range d.NumSubpasses() {
		if n, _ := NumColorAttachments(d, i); n > lim.MaxColorTargets {
			return nil, &AttachmentsError{Kind: LimitExceeded, Index: -1, Expected: lim.MaxColorTargets, Obtained: n, Dim: fmt.Sprintf("color targets of subpass %d", i)}
		}
	}
	att, err := CheckAttachments(d, views)
	if err != nil {
		return nil, err
	}
	for i := range att.Len() {
		v := att.At(i)
		sz := v.Size()
		for _, x := range [...]struct {
			dim  string
			want int
			have int
		}{
			{"width", width, sz.Width},
			{"height", height, sz.Height},
			{"layers", layers, v.Layers()},
		} {
			if x.have < x.want {
				return nil, &AttachmentsError{Kind: DimsMismatch, Index: i, Expected: x.want, Obtained: x.have, Dim: x.dim}
			}
		}
	}
	fb := &Framebuf{
		desc:   d,
		att:    att,
		width:  width,
		height: height,
		layers: layers,
		rp:     rp,
	}
	if rp != nil {
		if fb.raw, err = rp.NewFB(Views(att), width, height, layers); err != nil {
			return nil, errors.Wrap(err, "pass: failed to create framebuffer")
		}
	}
	return fb, nil
}

// Desc returns the description of the framebuffer's
// render pass.
func (fb *Framebuf) Desc() Desc { return fb.desc }

// Attachments returns the checked image views.
func (fb *Framebuf) Attachments() AttachmentsList { return fb.att }

// Width returns the width of the framebuffer.
func (fb *Framebuf) Width() int { return fb.width }

// Height returns the height of the framebuffer.
func (fb *Framebuf) Height() int { return fb.height }

// Layers returns the number of layers of the framebuffer.
func (fb *Framebuf) Layers() int { return fb.layers }

// RenderPass returns the render pass from which the
// framebuffer was created. It may be nil.
func (fb *Framebuf) RenderPass() driver.RenderPass { return fb.rp }

// Raw returns the underlying framebuffer object.
// It is nil if NewFramebuf was called with a nil render
// pass.
func (fb *Framebuf) Raw() driver.Framebuf { return fb.raw }

// Destroy destroys the underlying framebuffer object.
// It does not destroy the image views nor the render pass.
func (fb *Framebuf) Destroy() {
	if fb.raw != nil {
		fb.raw.Destroy()
		fb.raw = nil
	}
}
