// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package pass describes render passes and checks concrete
// attachments and clear values against such descriptions.
//
// A render pass description is anything that implements
// Desc. The package provides Empty, for render passes that
// have no attachments, and Layout, for everything else.
// Client code may define its own descriptions as well.
package pass

import (
	"github.com/gviegas/safecmd/driver"
)

// AttachmentDesc describes a render pass attachment.
// Load[0] and Store[0] apply to color or depth aspects,
// while Load[1] and Store[1] apply to the stencil aspect.
type AttachmentDesc struct {
	Format  driver.PixelFmt
	Samples int
	Load    [2]driver.LoadOp
	Store   [2]driver.StoreOp
	Initial driver.Layout
	Final   driver.Layout
}

// Clears returns whether any aspect of the attachment is
// cleared on load.
func (a *AttachmentDesc) Clears() bool {
	return a.Load[0] == driver.LClear || a.Load[1] == driver.LClear
}

// Unused is an attachment index that refers to nothing.
// It is only valid in SubpassDesc.Resolve.
const Unused = -1

// AttachmentRef refers to an attachment of a render pass
// and the layout it will be in during a subpass.
type AttachmentRef struct {
	Index  int
	Layout driver.Layout
}

// SubpassDesc describes a subpass of a render pass.
// Resolve is either empty or parallel to Color.
// DS is nil if the subpass has no depth/stencil attachment.
// Preserve lists attachments that the subpass does not use
// but whose contents must be kept.
type SubpassDesc struct {
	Color    []AttachmentRef
	Input    []AttachmentRef
	Resolve  []AttachmentRef
	DS       *AttachmentRef
	Preserve []int
}

// IsEmpty returns whether the subpass references no
// attachments at all.
func (s *SubpassDesc) IsEmpty() bool {
	return len(s.Color) == 0 && len(s.Input) == 0 && len(s.Resolve) == 0 && s.DS == nil && len(s.Preserve) == 0
}

// External is a subpass index that refers to commands
// outside of the render pass.
const External = -1

// DependencyDesc describes an execution and memory
// dependency between two subpasses.
type DependencyDesc struct {
	Src       int
	Dst       int
	SrcSync   driver.Sync
	DstSync   driver.Sync
	SrcAccess driver.Access
	DstAccess driver.Access
	ByRegion  bool
}

// Desc is the interface that describes a render pass.
//
// Descriptions must be immutable. Querying an index out of
// range is not an error: the corresponding method returns
// false instead. Callers are expected to bound iteration
// by the matching Num* method.
type Desc interface {
	// NumAttachments returns the number of attachments.
	NumAttachments() int

	// AttachmentDesc returns the nth attachment.
	AttachmentDesc(n int) (AttachmentDesc, bool)

	// NumSubpasses returns the number of subpasses.
	// It must be at least one.
	NumSubpasses() int

	// SubpassDesc returns the nth subpass.
	SubpassDesc(n int) (SubpassDesc, bool)

	// NumDependencies returns the number of dependencies.
	NumDependencies() int

	// DependencyDesc returns the nth dependency.
	DependencyDesc(n int) (DependencyDesc, bool)
}

// Attachments returns every attachment of d, in order.
func Attachments(d Desc) []AttachmentDesc {
	s := make([]AttachmentDesc, 0, d.NumAttachments())
	for i := range d.NumAttachments() {
		a, _ := d.AttachmentDesc(i)
		s = append(s, a)
	}
	return s
}

// Subpasses returns every subpass of d, in order.
func Subpasses(d Desc) []SubpassDesc {
	s := make([]SubpassDesc, 0, d.NumSubpasses())
	for i := range d.NumSubpasses() {
		sub, _ := d.SubpassDesc(i)
		s = append(s, sub)
	}
	return s
}

// Dependencies returns every dependency of d, in order.
func Dependencies(d Desc) []DependencyDesc {
	s := make([]DependencyDesc, 0, d.NumDependencies())
	for i := range d.NumDependencies() {
		dep, _ := d.DependencyDesc(i)
		s = append(s, dep)
	}
	return s
}
