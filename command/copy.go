// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// CopyBuffer copies data between buffers.
type CopyBuffer struct {
	from driver.Buffer
	to   driver.Buffer
	reg  []driver.BufferRegion
}

// CopyBufferKind identifies a CopyBufferError.
type CopyBufferKind int

// CopyBuffer error kinds.
const (
	// A buffer is nil.
	CopyBufferNil CopyBufferKind = iota
	// No regions were given.
	CopyBufferEmpty
	// A region has a size of zero.
	CopyBufferZeroSize
	// A region has a negative offset or size.
	CopyBufferNegative
	// A region is not within the source buffer.
	CopyBufferSrcRange
	// A region is not within the destination buffer.
	CopyBufferDstRange
	// Source and destination ranges overlap.
	CopyBufferOverlap
	// The source lacks driver.UCopySrc usage.
	CopyBufferSrcUsage
	// The destination lacks driver.UCopyDst usage.
	CopyBufferDstUsage
)

var copyBufferKinds = [...]string{
	CopyBufferNil:      "nil buffer",
	CopyBufferEmpty:    "no regions",
	CopyBufferZeroSize: "zero-sized region",
	CopyBufferNegative: "negative offset or size",
	CopyBufferSrcRange: "region out of source range",
	CopyBufferDstRange: "region out of destination range",
	CopyBufferOverlap:  "overlapping source and destination",
	CopyBufferSrcUsage: "source lacks copy source usage",
	CopyBufferDstUsage: "destination lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k CopyBufferKind) String() string {
	return kindString(copyBufferKinds[:], int(k), "CopyBufferKind")
}

// CopyBufferError is the error returned by NewCopyBuffer.
// Region is the index of the region at fault, or -1.
// For CopyBufferOverlap, Expected and Obtained are the
// indices of the overlapping source and destination
// regions, respectively.
type CopyBufferError struct {
	Kind     CopyBufferKind
	Region   int
	Expected int64
	Obtained int64
}

func (e *CopyBufferError) Error() string {
	nums := e.Kind == CopyBufferSrcRange || e.Kind == CopyBufferDstRange || e.Kind == CopyBufferOverlap
	return errText("copy buffer", e.Kind, "region", e.Region, nums, e.Expected, e.Obtained)
}

// NewCopyBuffer creates a new CopyBuffer command.
// from and to may be the same buffer, in which case no
// source range can overlap any destination range.
func NewCopyBuffer(from, to driver.Buffer, regions []driver.BufferRegion) (*CopyBuffer, error) {
	switch {
	case from == nil || to == nil:
		return nil, &CopyBufferError{Kind: CopyBufferNil, Region: -1}
	case len(regions) == 0:
		return nil, &CopyBufferError{Kind: CopyBufferEmpty, Region: -1}
	case from.Usage()&driver.UCopySrc == 0:
		return nil, &CopyBufferError{Kind: CopyBufferSrcUsage, Region: -1}
	case to.Usage()&driver.UCopyDst == 0:
		return nil, &CopyBufferError{Kind: CopyBufferDstUsage, Region: -1}
	}
	for i, r := range regions {
		switch {
		case r.FromOff < 0 || r.ToOff < 0 || r.Size < 0:
			return nil, &CopyBufferError{Kind: CopyBufferNegative, Region: i}
		case r.Size == 0:
			return nil, &CopyBufferError{Kind: CopyBufferZeroSize, Region: i}
		case !within(r.FromOff, r.Size, from.Cap()):
			return nil, &CopyBufferError{Kind: CopyBufferSrcRange, Region: i, Expected: from.Cap(), Obtained: end(r.FromOff, r.Size)}
		case !within(r.ToOff, r.Size, to.Cap()):
			return nil, &CopyBufferError{Kind: CopyBufferDstRange, Region: i, Expected: to.Cap(), Obtained: end(r.ToOff, r.Size)}
		}
	}
	if from == to {
		for i, src := range regions {
			for j, dst := range regions {
				if rangesOverlap(src.FromOff, src.Size, dst.ToOff, dst.Size) {
					return nil, &CopyBufferError{Kind: CopyBufferOverlap, Region: -1, Expected: int64(i), Obtained: int64(j)}
				}
			}
		}
	}
	return &CopyBuffer{from, to, clone(regions)}, nil
}

// Name implements Command.
func (*CopyBuffer) Name() string { return "CopyBuffer" }

// Scope implements Command.
func (*CopyBuffer) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *CopyBuffer) Encode(s driver.Sink, r *Retention) {
	s.CopyBuffer(c.from, c.to, c.reg)
	r.Add(c.from, c.to)
}

// CopyImage copies data between images.
type CopyImage struct {
	from    driver.Image
	fromLay driver.Layout
	to      driver.Image
	toLay   driver.Layout
	reg     []driver.ImageRegion
}

// CopyImageKind identifies a CopyImageError.
type CopyImageKind int

// CopyImage error kinds.
const (
	// An image is nil.
	CopyImageNil CopyImageKind = iota
	// No regions were given.
	CopyImageEmpty
	// The formats differ in texel size, or are
	// depth/stencil formats that differ.
	CopyImageFormat
	// The sample counts differ.
	CopyImageSamples
	// A layout is not valid for copying.
	CopyImageLayout
	// A mip level does not exist.
	CopyImageLevel
	// A layer range is not within its image.
	CopyImageLayer
	// A region is empty.
	CopyImageZeroSize
	// A region is not within the source image.
	CopyImageSrcBounds
	// A region is not within the destination image.
	CopyImageDstBounds
	// Source and destination boxes overlap.
	CopyImageOverlap
	// The source lacks driver.UCopySrc usage.
	CopyImageSrcUsage
	// The destination lacks driver.UCopyDst usage.
	CopyImageDstUsage
)

var copyImageKinds = [...]string{
	CopyImageNil:       "nil image",
	CopyImageEmpty:     "no regions",
	CopyImageFormat:    "incompatible formats",
	CopyImageSamples:   "sample count mismatch",
	CopyImageLayout:    "invalid layout",
	CopyImageLevel:     "mip level out of range",
	CopyImageLayer:     "layer range out of bounds",
	CopyImageZeroSize:  "empty region",
	CopyImageSrcBounds: "region out of source bounds",
	CopyImageDstBounds: "region out of destination bounds",
	CopyImageOverlap:   "overlapping source and destination",
	CopyImageSrcUsage:  "source lacks copy source usage",
	CopyImageDstUsage:  "destination lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k CopyImageKind) String() string {
	return kindString(copyImageKinds[:], int(k), "CopyImageKind")
}

// CopyImageError is the error returned by NewCopyImage.
// Region is the index of the region at fault, or -1.
type CopyImageError struct {
	Kind     CopyImageKind
	Region   int
	Expected int64
	Obtained int64
}

func (e *CopyImageError) Error() string {
	var nums bool
	switch e.Kind {
	case CopyImageFormat, CopyImageSamples, CopyImageLevel, CopyImageLayer, CopyImageSrcBounds, CopyImageDstBounds:
		nums = true
	}
	return errText("copy image", e.Kind, "region", e.Region, nums, e.Expected, e.Obtained)
}

// NewCopyImage creates a new CopyImage command.
func NewCopyImage(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, regions []driver.ImageRegion) (*CopyImage, error) {
	switch {
	case from == nil || to == nil:
		return nil, &CopyImageError{Kind: CopyImageNil, Region: -1}
	case len(regions) == 0:
		return nil, &CopyImageError{Kind: CopyImageEmpty, Region: -1}
	case from.Format().Size() != to.Format().Size():
		return nil, &CopyImageError{Kind: CopyImageFormat, Region: -1, Expected: int64(from.Format().Size()), Obtained: int64(to.Format().Size())}
	case (!from.Format().IsColor() || !to.Format().IsColor()) && from.Format() != to.Format():
		return nil, &CopyImageError{Kind: CopyImageFormat, Region: -1, Expected: int64(from.Format()), Obtained: int64(to.Format())}
	case from.Samples() != to.Samples():
		return nil, &CopyImageError{Kind: CopyImageSamples, Region: -1, Expected: int64(from.Samples()), Obtained: int64(to.Samples())}
	case !validCopyLayout(fromLay, false) || !validCopyLayout(toLay, true):
		return nil, &CopyImageError{Kind: CopyImageLayout, Region: -1}
	case from.Usage()&driver.UCopySrc == 0:
		return nil, &CopyImageError{Kind: CopyImageSrcUsage, Region: -1}
	case to.Usage()&driver.UCopyDst == 0:
		return nil, &CopyImageError{Kind: CopyImageDstUsage, Region: -1}
	}
	for i, r := range regions {
		for _, x := range [...]struct {
			img    driver.Image
			level  int
			layer  int
			off    driver.Off3D
			bounds CopyImageKind
		}{
			{from, r.FromLevel, r.FromLayer, r.FromOff, CopyImageSrcBounds},
			{to, r.ToLevel, r.ToLayer, r.ToOff, CopyImageDstBounds},
		} {
			k, want, have := checkSubres(x.img, x.level, x.layer, r.Layers, x.off, r.Size)
			switch k {
			case subresLevel:
				return nil, &CopyImageError{Kind: CopyImageLevel, Region: i, Expected: want, Obtained: have}
			case subresLayer:
				return nil, &CopyImageError{Kind: CopyImageLayer, Region: i, Expected: want, Obtained: have}
			case subresEmpty:
				return nil, &CopyImageError{Kind: CopyImageZeroSize, Region: i}
			case subresBounds:
				return nil, &CopyImageError{Kind: x.bounds, Region: i, Expected: want, Obtained: have}
			}
		}
		if from == to && r.FromLevel == r.ToLevel &&
			rangesOverlap(int64(r.FromLayer), int64(r.Layers), int64(r.ToLayer), int64(r.Layers)) &&
			boxesOverlap(r.FromOff, r.Size, r.ToOff, r.Size) {
			return nil, &CopyImageError{Kind: CopyImageOverlap, Region: i}
		}
	}
	return &CopyImage{from, fromLay, to, toLay, clone(regions)}, nil
}

// Name implements Command.
func (*CopyImage) Name() string { return "CopyImage" }

// Scope implements Command.
func (*CopyImage) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *CopyImage) Encode(s driver.Sink, r *Retention) {
	s.CopyImage(c.from, c.fromLay, c.to, c.toLay, c.reg)
	r.Add(c.from, c.to)
}
