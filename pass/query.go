// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"github.com/gviegas/safecmd/driver"
)

// The query functions below compute their answers from a
// Desc's subpass and attachment descriptions. A description
// that can answer more cheaply implements the method of
// same name, and the function defers to it.

type colorCounter interface {
	NumColorAttachments(subpass int) (int, bool)
}

type sampleCounter interface {
	NumSamples(subpass int) (int, bool)
}

type dsQuerier interface {
	HasDepthStencil(subpass int) (depth, stencil, ok bool)
}

type depthQuerier interface {
	HasDepth(subpass int) (bool, bool)
	HasWritableDepth(subpass int) (bool, bool)
}

type stencilQuerier interface {
	HasStencil(subpass int) (bool, bool)
	HasWritableStencil(subpass int) (bool, bool)
}

// NumColorAttachments returns the number of color
// attachments used by the given subpass.
func NumColorAttachments(d Desc, subpass int) (int, bool) {
	if q, ok := d.(colorCounter); ok {
		return q.NumColorAttachments(subpass)
	}
	sub, ok := d.SubpassDesc(subpass)
	if !ok {
		return 0, false
	}
	return len(sub.Color), true
}

// NumSamples returns the sample count of the attachments
// used by the given subpass.
// It fails if the subpass does not exist, if it has neither
// color nor depth/stencil attachments, or if its attachments
// disagree on sample count.
func NumSamples(d Desc, subpass int) (int, bool) {
	if q, ok := d.(sampleCounter); ok {
		return q.NumSamples(subpass)
	}
	sub, ok := d.SubpassDesc(subpass)
	if !ok {
		return 0, false
	}
	n := 0
	check := func(ref AttachmentRef) bool {
		att, ok := d.AttachmentDesc(ref.Index)
		if !ok {
			return false
		}
		if n == 0 {
			n = att.Samples
		}
		return n == att.Samples
	}
	for _, ref := range sub.Color {
		if !check(ref) {
			return 0, false
		}
	}
	if sub.DS != nil && !check(*sub.DS) {
		return 0, false
	}
	return n, n != 0
}

// dsAttachment returns the depth/stencil reference of the
// given subpass and the format of the attachment it refers
// to. ref is nil if the subpass has no such attachment.
func dsAttachment(d Desc, subpass int) (ref *AttachmentRef, pf driver.PixelFmt, ok bool) {
	sub, ok := d.SubpassDesc(subpass)
	if !ok {
		return nil, driver.FInvalid, false
	}
	if sub.DS == nil {
		return nil, driver.FInvalid, true
	}
	att, valid := d.AttachmentDesc(sub.DS.Index)
	if !valid {
		return nil, driver.FInvalid, true
	}
	return sub.DS, att.Format, true
}

// HasDepthStencil returns whether the given subpass has a
// depth/stencil attachment with depth and stencil aspects,
// respectively.
func HasDepthStencil(d Desc, subpass int) (depth, stencil, ok bool) {
	if q, isQ := d.(dsQuerier); isQ {
		return q.HasDepthStencil(subpass)
	}
	ref, pf, ok := dsAttachment(d, subpass)
	if !ok || ref == nil {
		return false, false, ok
	}
	return pf.HasDepth(), pf.HasStencil(), true
}

// HasDepth returns whether the given subpass has a depth
// attachment.
func HasDepth(d Desc, subpass int) (bool, bool) {
	if q, ok := d.(depthQuerier); ok {
		return q.HasDepth(subpass)
	}
	depth, _, ok := HasDepthStencil(d, subpass)
	return depth, ok
}

// HasWritableDepth returns whether the given subpass has a
// depth attachment that it can write to.
func HasWritableDepth(d Desc, subpass int) (bool, bool) {
	if q, ok := d.(depthQuerier); ok {
		return q.HasWritableDepth(subpass)
	}
	ref, pf, ok := dsAttachment(d, subpass)
	if !ok || ref == nil {
		return false, ok
	}
	return pf.HasDepth() && ref.Layout != driver.LDSRead, true
}

// HasStencil returns whether the given subpass has a
// stencil attachment.
func HasStencil(d Desc, subpass int) (bool, bool) {
	if q, ok := d.(stencilQuerier); ok {
		return q.HasStencil(subpass)
	}
	_, stencil, ok := HasDepthStencil(d, subpass)
	return stencil, ok
}

// HasWritableStencil returns whether the given subpass has
// a stencil attachment that it can write to.
func HasWritableStencil(d Desc, subpass int) (bool, bool) {
	if q, ok := d.(stencilQuerier); ok {
		return q.HasWritableStencil(subpass)
	}
	ref, pf, ok := dsAttachment(d, subpass)
	if !ok || ref == nil {
		return false, ok
	}
	return pf.HasStencil() && ref.Layout != driver.LDSRead, true
}

// NumClearValues returns the number of attachments in d
// that are cleared on load.
func NumClearValues(d Desc) int {
	n := 0
	for i := range d.NumAttachments() {
		if att, _ := d.AttachmentDesc(i); att.Clears() {
			n++
		}
	}
	return n
}
