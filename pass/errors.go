// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"fmt"

	"github.com/gviegas/safecmd/driver"
)

// ShapeKind identifies what is wrong with the shape of a
// render pass description.
type ShapeKind int

// Shape error kinds.
const (
	// The description has no subpasses.
	NoSubpasses ShapeKind = iota
	// An attachment has an invalid pixel format.
	BadFormat
	// An attachment has a sample count that is not a
	// power of two.
	BadSamples
	// A subpass refers to an attachment that does not
	// exist.
	AttachmentRange
	// A subpass' resolve list is neither empty nor as
	// long as its color list.
	ResolveLength
	// A subpass lists the same color attachment twice.
	DuplicateColor
	// A color reference names a depth/stencil format or
	// vice versa.
	AspectMismatch
	// A subpass preserves an attachment that it also uses.
	PreserveConflict
	// A dependency refers to a subpass that does not exist.
	DependencyRange
	// A dependency is external on both ends.
	DependencyExternal
	// A dependency goes from a later subpass to an
	// earlier one.
	DependencyOrder
)

var shapeKinds = [...]string{
	NoSubpasses:        "no subpasses",
	BadFormat:          "invalid attachment format",
	BadSamples:         "sample count not a power of two",
	AttachmentRange:    "attachment index out of range",
	ResolveLength:      "resolve count differs from color count",
	DuplicateColor:     "color attachment used twice",
	AspectMismatch:     "attachment aspect does not match its role",
	PreserveConflict:   "preserved attachment is also used",
	DependencyRange:    "dependency subpass out of range",
	DependencyExternal: "dependency external on both ends",
	DependencyOrder:    "dependency from later to earlier subpass",
}

// String implements fmt.Stringer.
func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKinds) {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKinds[k]
}

// ShapeError is the error returned by New and Single when
// a description is malformed.
// Subpass, Dependency and Attachment are -1 when they do
// not apply.
type ShapeError struct {
	Kind       ShapeKind
	Subpass    int
	Dependency int
	Attachment int
	// Value is the offending value (an index, a count or
	// a sample count), depending on Kind.
	Value int
}

func (e *ShapeError) Error() string {
	s := "pass: " + e.Kind.String()
	if e.Subpass >= 0 {
		s += fmt.Sprintf(" (subpass %d)", e.Subpass)
	}
	if e.Dependency >= 0 {
		s += fmt.Sprintf(" (dependency %d)", e.Dependency)
	}
	if e.Attachment >= 0 {
		s += fmt.Sprintf(" (attachment %d)", e.Attachment)
	}
	switch e.Kind {
	case BadFormat, BadSamples, AttachmentRange, ResolveLength, DependencyRange:
		s += fmt.Sprintf(": %d", e.Value)
	}
	return s
}

func shapeErr(k ShapeKind, sub, dep, att, val int) error {
	return &ShapeError{Kind: k, Subpass: sub, Dependency: dep, Attachment: att, Value: val}
}

// AttachmentsKind identifies why a list of image views is
// not compatible with a render pass description.
type AttachmentsKind int

// Attachments error kinds.
const (
	// The number of views differs from the number of
	// attachments.
	CountMismatch AttachmentsKind = iota
	// A view is nil.
	NilView
	// A view's format differs from its attachment's.
	FormatMismatch
	// A view's sample count differs from its attachment's.
	SamplesMismatch
	// A view's image lacks a usage its attachment requires.
	MissingUsage
	// A view is too small for the framebuffer, or the
	// framebuffer has an empty extent.
	DimsMismatch
	// The framebuffer exceeds a device limit.
	LimitExceeded
)

var attKinds = [...]string{
	CountMismatch:   "attachment count mismatch",
	NilView:         "nil image view",
	FormatMismatch:  "format mismatch",
	SamplesMismatch: "sample count mismatch",
	MissingUsage:    "missing image usage",
	DimsMismatch:    "dimensions mismatch",
	LimitExceeded:   "device limit exceeded",
}

// String implements fmt.Stringer.
func (k AttachmentsKind) String() string {
	if k < 0 || int(k) >= len(attKinds) {
		return fmt.Sprintf("AttachmentsKind(%d)", int(k))
	}
	return attKinds[k]
}

// AttachmentsError is the error returned when a list of
// image views does not match a render pass description.
// Index is the attachment at fault, or -1 when the error
// concerns the list as a whole.
// Expected and Obtained hold counts for CountMismatch and
// SamplesMismatch, pixel formats for FormatMismatch and
// usage masks for MissingUsage. For DimsMismatch they hold
// the framebuffer's and the view's extent along Dim.
// For LimitExceeded they hold the limit and the requested
// value of Dim.
type AttachmentsError struct {
	Kind     AttachmentsKind
	Index    int
	Expected int
	Obtained int
	Dim      string
}

func (e *AttachmentsError) Error() string {
	s := "pass: " + e.Kind.String()
	if e.Index >= 0 {
		s += fmt.Sprintf(" (attachment %d)", e.Index)
	}
	switch e.Kind {
	case CountMismatch, SamplesMismatch:
		s += fmt.Sprintf(": expected %d, obtained %d", e.Expected, e.Obtained)
	case FormatMismatch:
		s += fmt.Sprintf(": expected %v, obtained %v", driver.PixelFmt(e.Expected), driver.PixelFmt(e.Obtained))
	case MissingUsage:
		s += fmt.Sprintf(": expected %#x, obtained %#x", e.Expected, e.Obtained)
	case DimsMismatch:
		s += fmt.Sprintf(": %s expected at least %d, obtained %d", e.Dim, e.Expected, e.Obtained)
	case LimitExceeded:
		s += fmt.Sprintf(": %s expected at most %d, obtained %d", e.Dim, e.Expected, e.Obtained)
	}
	return s
}

// ClearValuesKind identifies why a list of clear values is
// not compatible with a render pass description.
type ClearValuesKind int

// Clear values error kinds.
const (
	// The number of clear values differs from the number
	// of attachments cleared on load.
	ClearCountMismatch ClearValuesKind = iota
)

// String implements fmt.Stringer.
func (k ClearValuesKind) String() string {
	if k == ClearCountMismatch {
		return "clear value count mismatch"
	}
	return fmt.Sprintf("ClearValuesKind(%d)", int(k))
}

// ClearValuesError is the error returned when a list of
// clear values does not match a render pass description.
type ClearValuesError struct {
	Kind     ClearValuesKind
	Expected int
	Obtained int
}

func (e *ClearValuesError) Error() string {
	return fmt.Sprintf("pass: %v: expected %d, obtained %d", e.Kind, e.Expected, e.Obtained)
}
