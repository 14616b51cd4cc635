// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// CopyBufImg copies data between a buffer and an image.
// It is created by either NewCopyBufToImg or
// NewCopyImgToBuf.
type CopyBufImg struct {
	toImg bool
	buf   driver.Buffer
	img   driver.Image
	lay   driver.Layout
	reg   []driver.BufImgRegion
}

// CopyBufImgKind identifies a CopyBufImgError.
type CopyBufImgKind int

// CopyBufImg error kinds.
const (
	// The buffer or image is nil.
	CopyBufImgNil CopyBufImgKind = iota
	// No regions were given.
	CopyBufImgEmpty
	// The layout is not valid for copying.
	CopyBufImgLayout
	// The image is multisampled.
	CopyBufImgSamples
	// A buffer offset is negative or not a multiple of
	// both 4 and the texel size.
	CopyBufImgAlign
	// A buffer stride is smaller than the region extent.
	CopyBufImgStride
	// A region is not within the buffer.
	CopyBufImgBufRange
	// A mip level does not exist.
	CopyBufImgLevel
	// A layer does not exist.
	CopyBufImgLayer
	// A region is empty.
	CopyBufImgZeroSize
	// A region is not within the image.
	CopyBufImgBounds
	// The source lacks driver.UCopySrc usage.
	CopyBufImgSrcUsage
	// The destination lacks driver.UCopyDst usage.
	CopyBufImgDstUsage
)

var copyBufImgKinds = [...]string{
	CopyBufImgNil:      "nil buffer or image",
	CopyBufImgEmpty:    "no regions",
	CopyBufImgLayout:   "invalid layout",
	CopyBufImgSamples:  "multisampled image",
	CopyBufImgAlign:    "misaligned buffer offset",
	CopyBufImgStride:   "buffer stride smaller than region",
	CopyBufImgBufRange: "region out of buffer range",
	CopyBufImgLevel:    "mip level out of range",
	CopyBufImgLayer:    "layer out of range",
	CopyBufImgZeroSize: "empty region",
	CopyBufImgBounds:   "region out of image bounds",
	CopyBufImgSrcUsage: "source lacks copy source usage",
	CopyBufImgDstUsage: "destination lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k CopyBufImgKind) String() string {
	return kindString(copyBufImgKinds[:], int(k), "CopyBufImgKind")
}

// CopyBufImgError is the error returned by
// NewCopyBufToImg and NewCopyImgToBuf.
// Region is the index of the region at fault, or -1.
type CopyBufImgError struct {
	Kind     CopyBufImgKind
	Region   int
	Expected int64
	Obtained int64
}

func (e *CopyBufImgError) Error() string {
	var nums bool
	switch e.Kind {
	case CopyBufImgSamples, CopyBufImgAlign, CopyBufImgStride, CopyBufImgBufRange, CopyBufImgLevel, CopyBufImgLayer, CopyBufImgBounds:
		nums = true
	}
	return errText("copy buffer/image", e.Kind, "region", e.Region, nums, e.Expected, e.Obtained)
}

// NewCopyBufToImg creates a new CopyBufImg command that
// copies from buf into img.
func NewCopyBufToImg(buf driver.Buffer, img driver.Image, lay driver.Layout, regions []driver.BufImgRegion) (*CopyBufImg, error) {
	return newCopyBufImg(true, buf, img, lay, regions)
}

// NewCopyImgToBuf creates a new CopyBufImg command that
// copies from img into buf.
func NewCopyImgToBuf(img driver.Image, lay driver.Layout, buf driver.Buffer, regions []driver.BufImgRegion) (*CopyBufImg, error) {
	return newCopyBufImg(false, buf, img, lay, regions)
}

func newCopyBufImg(toImg bool, buf driver.Buffer, img driver.Image, lay driver.Layout, regions []driver.BufImgRegion) (*CopyBufImg, error) {
	switch {
	case buf == nil || img == nil:
		return nil, &CopyBufImgError{Kind: CopyBufImgNil, Region: -1}
	case len(regions) == 0:
		return nil, &CopyBufImgError{Kind: CopyBufImgEmpty, Region: -1}
	case !validCopyLayout(lay, toImg):
		return nil, &CopyBufImgError{Kind: CopyBufImgLayout, Region: -1}
	case img.Samples() != 1:
		return nil, &CopyBufImgError{Kind: CopyBufImgSamples, Region: -1, Expected: 1, Obtained: int64(img.Samples())}
	}
	var src, dst driver.Usage
	if toImg {
		src, dst = buf.Usage(), img.Usage()
	} else {
		src, dst = img.Usage(), buf.Usage()
	}
	if src&driver.UCopySrc == 0 {
		return nil, &CopyBufImgError{Kind: CopyBufImgSrcUsage, Region: -1}
	}
	if dst&driver.UCopyDst == 0 {
		return nil, &CopyBufImgError{Kind: CopyBufImgDstUsage, Region: -1}
	}
	for i, r := range regions {
		texel := max(int64(texelSize(img.Format(), r.DepthCopy)), 1)
		align := texel
		for align%4 != 0 {
			align += texel
		}
		if r.BufOff < 0 || r.BufOff%align != 0 {
			return nil, &CopyBufImgError{Kind: CopyBufImgAlign, Region: i, Expected: align, Obtained: r.BufOff}
		}
		k, want, have := checkSubres(img, r.Level, r.Layer, 1, r.ImgOff, r.Size)
		switch k {
		case subresLevel:
			return nil, &CopyBufImgError{Kind: CopyBufImgLevel, Region: i, Expected: want, Obtained: have}
		case subresLayer:
			return nil, &CopyBufImgError{Kind: CopyBufImgLayer, Region: i, Expected: want, Obtained: have}
		case subresEmpty:
			return nil, &CopyBufImgError{Kind: CopyBufImgZeroSize, Region: i}
		case subresBounds:
			return nil, &CopyBufImgError{Kind: CopyBufImgBounds, Region: i, Expected: want, Obtained: have}
		}
		rowLen, imgHeight := r.Stride[0], r.Stride[1]
		if rowLen == 0 {
			rowLen = int64(r.Size.Width)
		} else if rowLen < int64(r.Size.Width) {
			return nil, &CopyBufImgError{Kind: CopyBufImgStride, Region: i, Expected: int64(r.Size.Width), Obtained: rowLen}
		}
		if imgHeight == 0 {
			imgHeight = int64(r.Size.Height)
		} else if imgHeight < int64(r.Size.Height) {
			return nil, &CopyBufImgError{Kind: CopyBufImgStride, Region: i, Expected: int64(r.Size.Height), Obtained: imgHeight}
		}
		texels := end(end(mulSat(mulSat(int64(r.Size.Depth-1), imgHeight), rowLen), mulSat(int64(r.Size.Height-1), rowLen)), int64(r.Size.Width))
		if n := mulSat(texels, texel); !within(r.BufOff, n, buf.Cap()) {
			return nil, &CopyBufImgError{Kind: CopyBufImgBufRange, Region: i, Expected: buf.Cap(), Obtained: end(r.BufOff, n)}
		}
	}
	return &CopyBufImg{toImg, buf, img, lay, clone(regions)}, nil
}

// Name implements Command.
func (c *CopyBufImg) Name() string {
	if c.toImg {
		return "CopyBufToImg"
	}
	return "CopyImgToBuf"
}

// Scope implements Command.
func (*CopyBufImg) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *CopyBufImg) Encode(s driver.Sink, r *Retention) {
	if c.toImg {
		s.CopyBufToImg(c.buf, c.img, c.lay, c.reg)
	} else {
		s.CopyImgToBuf(c.img, c.lay, c.buf, c.reg)
	}
	r.Add(c.buf, c.img)
}
