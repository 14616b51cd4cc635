// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"iter"

	"github.com/gviegas/safecmd/driver"
)

// empty is the description of a render pass that has no
// attachments and a single subpass that uses nothing.
type empty struct{}

// Empty describes a render pass with no attachments, one
// empty subpass and no dependencies.
// It is useful for rendering with no outputs other than
// side effects of shaders.
var Empty Desc = empty{}

func (empty) NumAttachments() int { return 0 }

func (empty) AttachmentDesc(int) (AttachmentDesc, bool) { return AttachmentDesc{}, false }

func (empty) NumSubpasses() int { return 1 }

func (empty) SubpassDesc(n int) (SubpassDesc, bool) { return SubpassDesc{}, n == 0 }

func (empty) NumDependencies() int { return 0 }

func (empty) DependencyDesc(int) (DependencyDesc, bool) { return DependencyDesc{}, false }

func (empty) NumColorAttachments(subpass int) (int, bool) { return 0, subpass == 0 }

func (empty) NumSamples(int) (int, bool) { return 0, false }

func (empty) HasDepthStencil(subpass int) (depth, stencil, ok bool) {
	return false, false, subpass == 0
}

func (empty) HasDepth(subpass int) (bool, bool) { return false, subpass == 0 }

func (empty) HasWritableDepth(subpass int) (bool, bool) { return false, subpass == 0 }

func (empty) HasStencil(subpass int) (bool, bool) { return false, subpass == 0 }

func (empty) HasWritableStencil(subpass int) (bool, bool) { return false, subpass == 0 }

func (empty) CheckAttachments(views []driver.ImageView) (AttachmentsList, error) {
	if len(views) != 0 {
		return nil, &AttachmentsError{Kind: CountMismatch, Index: -1, Expected: 0, Obtained: len(views)}
	}
	return attList(nil), nil
}

func (empty) ConvertClearValues(values []driver.ClearValue) (iter.Seq[driver.ClearValue], error) {
	if len(values) != 0 {
		return nil, &ClearValuesError{Kind: ClearCountMismatch, Expected: 0, Obtained: len(values)}
	}
	return func(func(driver.ClearValue) bool) {}, nil
}
