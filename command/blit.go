// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// BlitImage copies regions of an image to another, with
// scaling and format conversion.
type BlitImage struct {
	from    driver.Image
	fromLay driver.Layout
	to      driver.Image
	toLay   driver.Layout
	reg     []driver.BlitRegion
	filter  driver.Filter
}

// BlitImageKind identifies a BlitImageError.
type BlitImageKind int

// BlitImage error kinds.
const (
	// An image is nil.
	BlitImageNil BlitImageKind = iota
	// No regions were given.
	BlitImageEmpty
	// An image is multisampled.
	BlitImageSamples
	// Depth/stencil formats differ, or only one of the
	// images has a depth/stencil format.
	BlitImageFormat
	// Linear filtering was requested for a depth/stencil
	// format.
	BlitImageFilter
	// A layout is not valid for blitting.
	BlitImageLayout
	// A mip level does not exist.
	BlitImageLevel
	// A layer range is not within its image.
	BlitImageLayer
	// A region is not within the source image.
	BlitImageSrcBounds
	// A region is not within the destination image.
	BlitImageDstBounds
	// The source lacks driver.UCopySrc usage.
	BlitImageSrcUsage
	// The destination lacks driver.UCopyDst usage.
	BlitImageDstUsage
)

var blitImageKinds = [...]string{
	BlitImageNil:       "nil image",
	BlitImageEmpty:     "no regions",
	BlitImageSamples:   "multisampled image",
	BlitImageFormat:    "incompatible depth/stencil formats",
	BlitImageFilter:    "linear filter on depth/stencil format",
	BlitImageLayout:    "invalid layout",
	BlitImageLevel:     "mip level out of range",
	BlitImageLayer:     "layer range out of bounds",
	BlitImageSrcBounds: "region out of source bounds",
	BlitImageDstBounds: "region out of destination bounds",
	BlitImageSrcUsage:  "source lacks copy source usage",
	BlitImageDstUsage:  "destination lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k BlitImageKind) String() string {
	return kindString(blitImageKinds[:], int(k), "BlitImageKind")
}

// BlitImageError is the error returned by NewBlitImage.
// Region is the index of the region at fault, or -1.
type BlitImageError struct {
	Kind     BlitImageKind
	Region   int
	Expected int64
	Obtained int64
}

func (e *BlitImageError) Error() string {
	var nums bool
	switch e.Kind {
	case BlitImageSamples, BlitImageLevel, BlitImageLayer, BlitImageSrcBounds, BlitImageDstBounds:
		nums = true
	}
	return errText("blit image", e.Kind, "region", e.Region, nums, e.Expected, e.Obtained)
}

// checkCorners checks that both corners of a blit box lie
// within the given level of img.
func checkCorners(img driver.Image, level int, c [2]driver.Off3D) (bool, int64, int64) {
	ls := levelSize(img, level)
	for _, off := range c {
		for _, x := range [...][2]int{
			{off.X, ls.Width},
			{off.Y, ls.Height},
			{off.Z, ls.Depth},
		} {
			if x[0] < 0 || x[0] > x[1] {
				return false, int64(x[1]), int64(x[0])
			}
		}
	}
	return true, 0, 0
}

// NewBlitImage creates a new BlitImage command.
// Depth/stencil images can only be blitted to images of
// the same format, using nearest filtering.
func NewBlitImage(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, regions []driver.BlitRegion, filter driver.Filter) (*BlitImage, error) {
	switch {
	case from == nil || to == nil:
		return nil, &BlitImageError{Kind: BlitImageNil, Region: -1}
	case len(regions) == 0:
		return nil, &BlitImageError{Kind: BlitImageEmpty, Region: -1}
	case from.Samples() != 1:
		return nil, &BlitImageError{Kind: BlitImageSamples, Region: -1, Expected: 1, Obtained: int64(from.Samples())}
	case to.Samples() != 1:
		return nil, &BlitImageError{Kind: BlitImageSamples, Region: -1, Expected: 1, Obtained: int64(to.Samples())}
	case (!from.Format().IsColor() || !to.Format().IsColor()) && from.Format() != to.Format():
		return nil, &BlitImageError{Kind: BlitImageFormat, Region: -1}
	case !from.Format().IsColor() && filter != driver.FNearest:
		return nil, &BlitImageError{Kind: BlitImageFilter, Region: -1}
	case !validCopyLayout(fromLay, false) || !validCopyLayout(toLay, true):
		return nil, &BlitImageError{Kind: BlitImageLayout, Region: -1}
	case from.Usage()&driver.UCopySrc == 0:
		return nil, &BlitImageError{Kind: BlitImageSrcUsage, Region: -1}
	case to.Usage()&driver.UCopyDst == 0:
		return nil, &BlitImageError{Kind: BlitImageDstUsage, Region: -1}
	}
	for i, r := range regions {
		for _, x := range [...]struct {
			img     driver.Image
			level   int
			layer   int
			corners [2]driver.Off3D
			bounds  BlitImageKind
		}{
			{from, r.FromLevel, r.FromLayer, r.From, BlitImageSrcBounds},
			{to, r.ToLevel, r.ToLayer, r.To, BlitImageDstBounds},
		} {
			if x.level < 0 || x.level >= x.img.Levels() {
				return nil, &BlitImageError{Kind: BlitImageLevel, Region: i, Expected: int64(x.img.Levels()), Obtained: int64(x.level)}
			}
			if r.Layers < 1 || !within(x.layer, r.Layers, x.img.Layers()) {
				return nil, &BlitImageError{Kind: BlitImageLayer, Region: i, Expected: int64(x.img.Layers()), Obtained: end(x.layer, r.Layers)}
			}
			if ok, want, have := checkCorners(x.img, x.level, x.corners); !ok {
				return nil, &BlitImageError{Kind: x.bounds, Region: i, Expected: want, Obtained: have}
			}
		}
	}
	return &BlitImage{from, fromLay, to, toLay, clone(regions), filter}, nil
}

// Name implements Command.
func (*BlitImage) Name() string { return "BlitImage" }

// Scope implements Command.
func (*BlitImage) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *BlitImage) Encode(s driver.Sink, r *Retention) {
	s.Blit(c.from, c.fromLay, c.to, c.toLay, c.reg, c.filter)
	r.Add(c.from, c.to)
}

// ResolveImage resolves a multisample image into a
// single-sample one.
type ResolveImage struct {
	from    driver.Image
	fromLay driver.Layout
	to      driver.Image
	toLay   driver.Layout
	reg     []driver.ImageRegion
}

// ResolveImageKind identifies a ResolveImageError.
type ResolveImageKind int

// ResolveImage error kinds.
const (
	// An image is nil.
	ResolveImageNil ResolveImageKind = iota
	// No regions were given.
	ResolveImageEmpty
	// The source is not multisampled.
	ResolveImageSrcSamples
	// The destination is multisampled.
	ResolveImageDstSamples
	// The formats differ.
	ResolveImageFormat
	// The format is not a color format.
	ResolveImageNotColor
	// A layout is not valid for resolving.
	ResolveImageLayout
	// A mip level does not exist.
	ResolveImageLevel
	// A layer range is not within its image.
	ResolveImageLayer
	// A region is empty.
	ResolveImageZeroSize
	// A region is not within the source image.
	ResolveImageSrcBounds
	// A region is not within the destination image.
	ResolveImageDstBounds
	// The destination lacks driver.UCopyDst usage.
	ResolveImageDstUsage
)

var resolveImageKinds = [...]string{
	ResolveImageNil:        "nil image",
	ResolveImageEmpty:      "no regions",
	ResolveImageSrcSamples: "source not multisampled",
	ResolveImageDstSamples: "destination multisampled",
	ResolveImageFormat:     "format mismatch",
	ResolveImageNotColor:   "not a color format",
	ResolveImageLayout:     "invalid layout",
	ResolveImageLevel:      "mip level out of range",
	ResolveImageLayer:      "layer range out of bounds",
	ResolveImageZeroSize:   "empty region",
	ResolveImageSrcBounds:  "region out of source bounds",
	ResolveImageDstBounds:  "region out of destination bounds",
	ResolveImageDstUsage:   "destination lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k ResolveImageKind) String() string {
	return kindString(resolveImageKinds[:], int(k), "ResolveImageKind")
}

// ResolveImageError is the error returned by
// NewResolveImage.
// Region is the index of the region at fault, or -1.
type ResolveImageError struct {
	Kind     ResolveImageKind
	Region   int
	Expected int64
	Obtained int64
}

func (e *ResolveImageError) Error() string {
	var nums bool
	switch e.Kind {
	case ResolveImageSrcSamples, ResolveImageDstSamples, ResolveImageFormat, ResolveImageLevel, ResolveImageLayer, ResolveImageSrcBounds, ResolveImageDstBounds:
		nums = true
	}
	return errText("resolve image", e.Kind, "region", e.Region, nums, e.Expected, e.Obtained)
}

// NewResolveImage creates a new ResolveImage command.
func NewResolveImage(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, regions []driver.ImageRegion) (*ResolveImage, error) {
	switch {
	case from == nil || to == nil:
		return nil, &ResolveImageError{Kind: ResolveImageNil, Region: -1}
	case len(regions) == 0:
		return nil, &ResolveImageError{Kind: ResolveImageEmpty, Region: -1}
	case from.Samples() < 2:
		return nil, &ResolveImageError{Kind: ResolveImageSrcSamples, Region: -1, Expected: 2, Obtained: int64(from.Samples())}
	case to.Samples() != 1:
		return nil, &ResolveImageError{Kind: ResolveImageDstSamples, Region: -1, Expected: 1, Obtained: int64(to.Samples())}
	case from.Format() != to.Format():
		return nil, &ResolveImageError{Kind: ResolveImageFormat, Region: -1, Expected: int64(from.Format()), Obtained: int64(to.Format())}
	case !from.Format().IsColor():
		return nil, &ResolveImageError{Kind: ResolveImageNotColor, Region: -1}
	case fromLay != driver.LResolveSrc && !validCopyLayout(fromLay, false),
		toLay != driver.LResolveDst && !validCopyLayout(toLay, true):
		return nil, &ResolveImageError{Kind: ResolveImageLayout, Region: -1}
	case to.Usage()&driver.UCopyDst == 0:
		return nil, &ResolveImageError{Kind: ResolveImageDstUsage, Region: -1}
	}
	for i, r := range regions {
		for _, x := range [...]struct {
			img    driver.Image
			level  int
			layer  int
			off    driver.Off3D
			bounds ResolveImageKind
		}{
			{from, r.FromLevel, r.FromLayer, r.FromOff, ResolveImageSrcBounds},
			{to, r.ToLevel, r.ToLayer, r.ToOff, ResolveImageDstBounds},
		} {
			k, want, have := checkSubres(x.img, x.level, x.layer, r.Layers, x.off, r.Size)
			switch k {
			case subresLevel:
				return nil, &ResolveImageError{Kind: ResolveImageLevel, Region: i, Expected: want, Obtained: have}
			case subresLayer:
				return nil, &ResolveImageError{Kind: ResolveImageLayer, Region: i, Expected: want, Obtained: have}
			case subresEmpty:
				return nil, &ResolveImageError{Kind: ResolveImageZeroSize, Region: i}
			case subresBounds:
				return nil, &ResolveImageError{Kind: x.bounds, Region: i, Expected: want, Obtained: have}
			}
		}
	}
	return &ResolveImage{from, fromLay, to, toLay, clone(regions)}, nil
}

// Name implements Command.
func (*ResolveImage) Name() string { return "ResolveImage" }

// Scope implements Command.
func (*ResolveImage) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *ResolveImage) Encode(s driver.Sink, r *Retention) {
	s.Resolve(c.from, c.fromLay, c.to, c.toLay, c.reg)
	r.Add(c.from, c.to)
}
