// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/driver/trace"
)

func TestCopyBuffer(t *testing.T) {
	src := trace.NewBuffer(256, driver.UCopySrc)
	dst := trace.NewBuffer(128, driver.UCopyDst)
	both := trace.NewBuffer(256, driver.UCopySrc|driver.UCopyDst)
	for _, x := range [...]struct {
		from, to driver.Buffer
		reg      []driver.BufferRegion
		want     *CopyBufferError
	}{
		{src, dst, []driver.BufferRegion{{FromOff: 0, ToOff: 0, Size: 128}}, nil},
		{src, dst, []driver.BufferRegion{{FromOff: 128, ToOff: 0, Size: 64}, {FromOff: 192, ToOff: 64, Size: 64}}, nil},
		{both, both, []driver.BufferRegion{{FromOff: 0, ToOff: 128, Size: 128}}, nil},
		{nil, dst, []driver.BufferRegion{{FromOff: 0, ToOff: 0, Size: 1}}, &CopyBufferError{Kind: CopyBufferNil, Region: -1}},
		{src, dst, nil, &CopyBufferError{Kind: CopyBufferEmpty, Region: -1}},
		{dst, dst, []driver.BufferRegion{{FromOff: 0, ToOff: 0, Size: 1}}, &CopyBufferError{Kind: CopyBufferSrcUsage, Region: -1}},
		{src, src, []driver.BufferRegion{{FromOff: 0, ToOff: 128, Size: 1}}, &CopyBufferError{Kind: CopyBufferDstUsage, Region: -1}},
		{src, dst, []driver.BufferRegion{{FromOff: 0, ToOff: 0, Size: 4}, {FromOff: 0, ToOff: 0, Size: 0}}, &CopyBufferError{Kind: CopyBufferZeroSize, Region: 1}},
		{src, dst, []driver.BufferRegion{{FromOff: -4, ToOff: 0, Size: 4}}, &CopyBufferError{Kind: CopyBufferNegative, Region: 0}},
		{src, dst, []driver.BufferRegion{{FromOff: 200, ToOff: 0, Size: 64}}, &CopyBufferError{Kind: CopyBufferSrcRange, Region: 0, Expected: 256, Obtained: 264}},
		{src, dst, []driver.BufferRegion{{FromOff: 0, ToOff: 100, Size: 64}}, &CopyBufferError{Kind: CopyBufferDstRange, Region: 0, Expected: 128, Obtained: 164}},
		{both, both, []driver.BufferRegion{{FromOff: 8, ToOff: 8, Size: math.MaxInt64 - 4}}, &CopyBufferError{Kind: CopyBufferSrcRange, Region: 0, Expected: 256, Obtained: math.MaxInt64}},
		{src, dst, []driver.BufferRegion{{FromOff: 0, ToOff: math.MaxInt64 - 2, Size: 4}}, &CopyBufferError{Kind: CopyBufferDstRange, Region: 0, Expected: 128, Obtained: math.MaxInt64}},
		{both, both, []driver.BufferRegion{{FromOff: 0, ToOff: 64, Size: 128}}, &CopyBufferError{Kind: CopyBufferOverlap, Region: -1, Expected: 0, Obtained: 0}},
		{both, both, []driver.BufferRegion{{FromOff: 0, ToOff: 200, Size: 32}, {FromOff: 192, ToOff: 0, Size: 16}}, &CopyBufferError{Kind: CopyBufferOverlap, Region: -1, Expected: 0, Obtained: 1}},
	} {
		_, err := NewCopyBuffer(x.from, x.to, x.reg)
		if x.want == nil {
			if err != nil {
				t.Errorf("NewCopyBuffer(%v):\nhave %v\nwant nil", x.reg, err)
			}
			continue
		}
		var e *CopyBufferError
		if !errors.As(err, &e) || *e != *x.want {
			t.Errorf("NewCopyBuffer(%v):\nhave %v\nwant %v", x.reg, err, x.want)
		}
	}
}

func TestCopyBufferPure(t *testing.T) {
	src := trace.NewBuffer(256, driver.UCopySrc)
	dst := trace.NewBuffer(256, driver.UCopyDst)
	reg := []driver.BufferRegion{{FromOff: 0, ToOff: 0, Size: 300}}
	_, err1 := NewCopyBuffer(src, dst, reg)
	_, err2 := NewCopyBuffer(src, dst, reg)
	if err1 == nil || err1.Error() != err2.Error() {
		t.Fatalf("NewCopyBuffer: outcome differs\nhave %v\nwant %v", err2, err1)
	}
	if reg[0] != (driver.BufferRegion{FromOff: 0, ToOff: 0, Size: 300}) {
		t.Fatalf("NewCopyBuffer: regions modified\nhave %v", reg)
	}
}

func img2D(pf driver.PixelFmt, w, h, layers, levels, samples int, usg driver.Usage) *trace.Image {
	return trace.NewImage(pf, driver.Dim3D{Width: w, Height: h, Depth: 1}, layers, levels, samples, usg)
}

func TestCopyImage(t *testing.T) {
	const usg = driver.UCopySrc | driver.UCopyDst
	a := img2D(driver.RGBA8un, 64, 64, 4, 3, 1, usg)
	b := img2D(driver.BGRA8sRGB, 32, 32, 1, 1, 1, usg)
	r8 := img2D(driver.R8un, 64, 64, 1, 1, 1, usg)
	d16 := img2D(driver.D16un, 64, 64, 1, 1, 1, usg)
	r16 := img2D(driver.R16f, 64, 64, 1, 1, 1, usg)
	ms := img2D(driver.RGBA8un, 64, 64, 1, 1, 4, usg)
	noSrc := img2D(driver.RGBA8un, 64, 64, 1, 1, 1, driver.UCopyDst)
	one := driver.Dim3D{Width: 16, Height: 16, Depth: 1}
	reg := func(fl, tl int, fo, to driver.Off3D, sz driver.Dim3D) []driver.ImageRegion {
		return []driver.ImageRegion{{FromOff: fo, FromLevel: fl, ToOff: to, ToLevel: tl, Size: sz, Layers: 1}}
	}
	zero := driver.Off3D{}
	for _, x := range [...]struct {
		from, to driver.Image
		fromLay  driver.Layout
		reg      []driver.ImageRegion
		kind     CopyImageKind
		ok       bool
	}{
		{a, b, driver.LCopySrc, reg(0, 0, zero, zero, one), 0, true},
		{a, b, driver.LCommon, reg(1, 0, driver.Off3D{X: 16, Y: 16}, driver.Off3D{X: 16, Y: 16}, one), 0, true},
		{a, a, driver.LCommon, reg(0, 1, zero, zero, one), 0, true},
		{a, a, driver.LCommon, reg(0, 0, zero, driver.Off3D{X: 16}, one), 0, true},
		{nil, b, driver.LCopySrc, reg(0, 0, zero, zero, one), CopyImageNil, false},
		{a, b, driver.LCopySrc, nil, CopyImageEmpty, false},
		{a, r8, driver.LCopySrc, reg(0, 0, zero, zero, one), CopyImageFormat, false},
		{d16, r16, driver.LCopySrc, reg(0, 0, zero, zero, one), CopyImageFormat, false},
		{ms, a, driver.LCopySrc, reg(0, 0, zero, zero, one), CopyImageSamples, false},
		{a, b, driver.LCopyDst, reg(0, 0, zero, zero, one), CopyImageLayout, false},
		{noSrc, a, driver.LCopySrc, reg(0, 0, zero, zero, one), CopyImageSrcUsage, false},
		{a, b, driver.LCopySrc, reg(3, 0, zero, zero, one), CopyImageLevel, false},
		{a, b, driver.LCopySrc, reg(0, 0, zero, zero, driver.Dim3D{Width: 0, Height: 1, Depth: 1}), CopyImageZeroSize, false},
		{a, b, driver.LCopySrc, reg(2, 0, driver.Off3D{X: 8}, zero, one), CopyImageSrcBounds, false},
		{a, b, driver.LCopySrc, reg(0, 0, zero, driver.Off3D{Y: 17}, one), CopyImageDstBounds, false},
		{a, a, driver.LCommon, reg(0, 0, zero, driver.Off3D{X: 8, Y: 8}, one), CopyImageOverlap, false},
	} {
		_, err := NewCopyImage(x.from, x.fromLay, x.to, driver.LCommon, x.reg)
		if x.ok {
			if err != nil {
				t.Errorf("NewCopyImage(%v):\nhave %v\nwant nil", x.reg, err)
			}
			continue
		}
		var e *CopyImageError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewCopyImage(%v):\nhave %v\nwant %v", x.reg, err, x.kind)
		}
	}

	_, err := NewCopyImage(a, driver.LCopySrc, b, driver.LCopyDst, []driver.ImageRegion{{Size: one, FromLayer: 3, Layers: 2}})
	var e *CopyImageError
	if !errors.As(err, &e) || e.Kind != CopyImageLayer || e.Expected != 4 || e.Obtained != 5 {
		t.Fatalf("NewCopyImage: layers\nhave %v\nwant %v", err, &CopyImageError{Kind: CopyImageLayer, Region: 0, Expected: 4, Obtained: 5})
	}
}

func TestCopyBufImg(t *testing.T) {
	const usg = driver.UCopySrc | driver.UCopyDst
	buf := trace.NewBuffer(64*64*4, usg)
	small := trace.NewBuffer(1024, usg)
	rgba := img2D(driver.RGBA8un, 64, 64, 2, 2, 1, usg)
	r8 := img2D(driver.R8un, 64, 64, 1, 1, 1, usg)
	ds := img2D(driver.D24unS8ui, 64, 64, 1, 1, 1, usg)
	ms := img2D(driver.RGBA8un, 64, 64, 1, 1, 4, usg)
	noDst := img2D(driver.RGBA8un, 64, 64, 1, 1, 1, driver.UCopySrc)
	full := driver.Dim3D{Width: 64, Height: 64, Depth: 1}
	for _, x := range [...]struct {
		buf  driver.Buffer
		img  driver.Image
		lay  driver.Layout
		reg  driver.BufImgRegion
		kind CopyBufImgKind
		ok   bool
	}{
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{Size: full}, 0, true},
		{buf, rgba, driver.LCommon, driver.BufImgRegion{BufOff: 4, Level: 1, Layer: 1, Size: driver.Dim3D{Width: 32, Height: 32, Depth: 1}}, 0, true},
		{buf, r8, driver.LCopyDst, driver.BufImgRegion{BufOff: 12, Stride: [2]int64{128, 64}, Size: driver.Dim3D{Width: 8, Height: 8, Depth: 1}}, 0, true},
		{buf, ds, driver.LCopyDst, driver.BufImgRegion{BufOff: 4, Size: full}, 0, true},
		{nil, rgba, driver.LCopyDst, driver.BufImgRegion{Size: full}, CopyBufImgNil, false},
		{buf, rgba, driver.LCopySrc, driver.BufImgRegion{Size: full}, CopyBufImgLayout, false},
		{buf, ms, driver.LCopyDst, driver.BufImgRegion{Size: full}, CopyBufImgSamples, false},
		{buf, noDst, driver.LCopyDst, driver.BufImgRegion{Size: full}, CopyBufImgDstUsage, false},
		{buf, r8, driver.LCopyDst, driver.BufImgRegion{BufOff: 2, Size: full}, CopyBufImgAlign, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{BufOff: -4, Size: full}, CopyBufImgAlign, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{Level: 2, Size: full}, CopyBufImgLevel, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{Layer: 2, Size: full}, CopyBufImgLayer, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{Size: driver.Dim3D{Width: 1, Height: 0, Depth: 1}}, CopyBufImgZeroSize, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{ImgOff: driver.Off3D{X: 1}, Size: full}, CopyBufImgBounds, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{Stride: [2]int64{32, 0}, Size: full}, CopyBufImgStride, false},
		{buf, rgba, driver.LCopyDst, driver.BufImgRegion{BufOff: 4, Size: full}, CopyBufImgBufRange, false},
		{small, rgba, driver.LCopyDst, driver.BufImgRegion{Size: full}, CopyBufImgBufRange, false},
	} {
		_, err := NewCopyBufToImg(x.buf, x.img, x.lay, []driver.BufImgRegion{x.reg})
		if x.ok {
			if err != nil {
				t.Errorf("NewCopyBufToImg(%+v):\nhave %v\nwant nil", x.reg, err)
			}
			continue
		}
		var e *CopyBufImgError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewCopyBufToImg(%+v):\nhave %v\nwant %v", x.reg, err, x.kind)
		}
	}

	if _, err := NewCopyBufToImg(buf, rgba, driver.LCopyDst, nil); err == nil {
		t.Fatal("NewCopyBufToImg(nil regions):\nhave nil\nwant error")
	}

	c, err := NewCopyImgToBuf(rgba, driver.LCopySrc, buf, []driver.BufImgRegion{{Size: full}})
	if err != nil {
		t.Fatalf("NewCopyImgToBuf: %v", err)
	}
	if s := c.Name(); s != "CopyImgToBuf" {
		t.Fatalf("CopyBufImg.Name:\nhave %s\nwant CopyImgToBuf", s)
	}
	noSrc := trace.NewBuffer(64*64*4, driver.UCopySrc)
	_, err = NewCopyImgToBuf(rgba, driver.LCopySrc, noSrc, []driver.BufImgRegion{{Size: full}})
	var e *CopyBufImgError
	if !errors.As(err, &e) || e.Kind != CopyBufImgDstUsage {
		t.Fatalf("NewCopyImgToBuf: usage\nhave %v\nwant %v", err, CopyBufImgDstUsage)
	}
	sk, r := encode(t, c)
	defer r.Release()
	if have := sk.Names(); len(have) != 1 || have[0] != "CopyImgToBuf" {
		t.Fatalf("Sink.Names:\nhave %v\nwant [CopyImgToBuf]", have)
	}
	if n := r.Len(); n != 2 {
		t.Fatalf("Retention.Len:\nhave %d\nwant 2", n)
	}
}

func TestBlitImage(t *testing.T) {
	const usg = driver.UCopySrc | driver.UCopyDst
	a := img2D(driver.RGBA8un, 64, 64, 1, 2, 1, usg)
	b := img2D(driver.BGRA8un, 128, 128, 2, 1, 1, usg)
	d := img2D(driver.D32f, 64, 64, 1, 1, 1, usg)
	d2 := img2D(driver.D32f, 32, 32, 1, 1, 1, usg)
	ms := img2D(driver.RGBA8un, 64, 64, 1, 1, 4, usg)
	corners := func(x0, y0, x1, y1 int) [2]driver.Off3D {
		return [2]driver.Off3D{{X: x0, Y: y0, Z: 0}, {X: x1, Y: y1, Z: 1}}
	}
	reg := func(from, to [2]driver.Off3D, fl, tl int) []driver.BlitRegion {
		return []driver.BlitRegion{{From: from, FromLevel: fl, To: to, ToLayer: tl, Layers: 1}}
	}
	for _, x := range [...]struct {
		from, to driver.Image
		reg      []driver.BlitRegion
		filter   driver.Filter
		kind     BlitImageKind
		ok       bool
	}{
		{a, b, reg(corners(0, 0, 64, 64), corners(0, 0, 128, 128), 0, 1), driver.FLinear, 0, true},
		{a, b, reg(corners(32, 32, 0, 0), corners(0, 0, 128, 128), 1, 0), driver.FLinear, 0, true},
		{d, d2, reg(corners(0, 0, 64, 64), corners(0, 0, 32, 32), 0, 0), driver.FNearest, 0, true},
		{a, nil, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 0), driver.FNearest, BlitImageNil, false},
		{a, b, nil, driver.FNearest, BlitImageEmpty, false},
		{ms, b, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 0), driver.FNearest, BlitImageSamples, false},
		{d, a, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 0), driver.FNearest, BlitImageFormat, false},
		{d, d2, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 0), driver.FLinear, BlitImageFilter, false},
		{a, b, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 2, 0), driver.FNearest, BlitImageLevel, false},
		{a, b, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 2), driver.FNearest, BlitImageLayer, false},
		{a, b, reg(corners(0, 0, 64, 65), corners(0, 0, 1, 1), 0, 0), driver.FNearest, BlitImageSrcBounds, false},
		{a, b, reg(corners(0, 0, 1, 1), corners(-1, 0, 1, 1), 0, 0), driver.FNearest, BlitImageDstBounds, false},
	} {
		_, err := NewBlitImage(x.from, driver.LCopySrc, x.to, driver.LCopyDst, x.reg, x.filter)
		if x.ok {
			if err != nil {
				t.Errorf("NewBlitImage(%v):\nhave %v\nwant nil", x.reg, err)
			}
			continue
		}
		var e *BlitImageError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewBlitImage(%v):\nhave %v\nwant %v", x.reg, err, x.kind)
		}
	}
	_, err := NewBlitImage(a, driver.LColorTarget, b, driver.LCopyDst, reg(corners(0, 0, 1, 1), corners(0, 0, 1, 1), 0, 0), driver.FNearest)
	var e *BlitImageError
	if !errors.As(err, &e) || e.Kind != BlitImageLayout {
		t.Fatalf("NewBlitImage: layout\nhave %v\nwant %v", err, BlitImageLayout)
	}
}

func TestResolveImage(t *testing.T) {
	const usg = driver.UCopySrc | driver.UCopyDst | driver.URenderTarget
	ms := img2D(driver.RGBA8un, 64, 64, 1, 1, 4, usg)
	ss := img2D(driver.RGBA8un, 64, 64, 1, 1, 1, usg)
	ss2 := img2D(driver.BGRA8un, 64, 64, 1, 1, 1, usg)
	msd := img2D(driver.D16un, 64, 64, 1, 1, 4, usg)
	ssd := img2D(driver.D16un, 64, 64, 1, 1, 1, usg)
	noDst := img2D(driver.RGBA8un, 64, 64, 1, 1, 1, driver.URenderTarget)
	full := []driver.ImageRegion{{Size: driver.Dim3D{Width: 64, Height: 64, Depth: 1}, Layers: 1}}
	for _, x := range [...]struct {
		from, to driver.Image
		fromLay  driver.Layout
		reg      []driver.ImageRegion
		kind     ResolveImageKind
		ok       bool
	}{
		{ms, ss, driver.LResolveSrc, full, 0, true},
		{ms, ss, driver.LCopySrc, full, 0, true},
		{nil, ss, driver.LResolveSrc, full, ResolveImageNil, false},
		{ms, ss, driver.LResolveSrc, nil, ResolveImageEmpty, false},
		{ss, ss, driver.LResolveSrc, full, ResolveImageSrcSamples, false},
		{ms, ms, driver.LResolveSrc, full, ResolveImageDstSamples, false},
		{ms, ss2, driver.LResolveSrc, full, ResolveImageFormat, false},
		{msd, ssd, driver.LResolveSrc, full, ResolveImageNotColor, false},
		{ms, ss, driver.LShaderRead, full, ResolveImageLayout, false},
		{ms, noDst, driver.LResolveSrc, full, ResolveImageDstUsage, false},
		{ms, ss, driver.LResolveSrc, []driver.ImageRegion{{ToLevel: 1, Size: full[0].Size, Layers: 1}}, ResolveImageLevel, false},
		{ms, ss, driver.LResolveSrc, []driver.ImageRegion{{Size: full[0].Size}}, ResolveImageLayer, false},
		{ms, ss, driver.LResolveSrc, []driver.ImageRegion{{Layers: 1}}, ResolveImageZeroSize, false},
		{ms, ss, driver.LResolveSrc, []driver.ImageRegion{{FromOff: driver.Off3D{Y: 1}, Size: full[0].Size, Layers: 1}}, ResolveImageSrcBounds, false},
		{ms, ss, driver.LResolveSrc, []driver.ImageRegion{{ToOff: driver.Off3D{Z: 1}, Size: full[0].Size, Layers: 1}}, ResolveImageDstBounds, false},
	} {
		_, err := NewResolveImage(x.from, x.fromLay, x.to, driver.LResolveDst, x.reg)
		if x.ok {
			if err != nil {
				t.Errorf("NewResolveImage(%v):\nhave %v\nwant nil", x.reg, err)
			}
			continue
		}
		var e *ResolveImageError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewResolveImage(%v):\nhave %v\nwant %v", x.reg, err, x.kind)
		}
	}
}

func TestFillBuffer(t *testing.T) {
	buf := trace.NewBuffer(1022, driver.UCopyDst)
	src := trace.NewBuffer(1024, driver.UCopySrc)
	for _, x := range [...]struct {
		buf       driver.Buffer
		off, size int64
		want      *FillBufferError
	}{
		{buf, 0, 1020, nil},
		{buf, 512, WholeSize, nil},
		{nil, 0, 4, &FillBufferError{Kind: FillBufferNil}},
		{buf, 2, 4, &FillBufferError{Kind: FillBufferAlign, Expected: 4, Obtained: 2}},
		{buf, 0, 6, &FillBufferError{Kind: FillBufferAlign, Expected: 4, Obtained: 6}},
		{buf, 0, 0, &FillBufferError{Kind: FillBufferZeroSize}},
		{buf, 1020, WholeSize, &FillBufferError{Kind: FillBufferZeroSize}},
		{buf, 1016, 8, &FillBufferError{Kind: FillBufferRange, Expected: 1022, Obtained: 1024}},
		{buf, 4, math.MaxInt64 - 3, &FillBufferError{Kind: FillBufferRange, Expected: 1022, Obtained: math.MaxInt64}},
		{buf, 2048, WholeSize, &FillBufferError{Kind: FillBufferZeroSize}},
		{src, 0, 4, &FillBufferError{Kind: FillBufferUsage}},
	} {
		c, err := NewFillBuffer(x.buf, x.off, x.size, 0)
		if x.want == nil {
			if err != nil {
				t.Errorf("NewFillBuffer(%d, %d):\nhave %v\nwant nil", x.off, x.size, err)
			}
			if x.size == WholeSize && c.size != 508 {
				t.Errorf("NewFillBuffer(%d, WholeSize): size\nhave %d\nwant 508", x.off, c.size)
			}
			continue
		}
		var e *FillBufferError
		if !errors.As(err, &e) || *e != *x.want {
			t.Errorf("NewFillBuffer(%d, %d):\nhave %v\nwant %v", x.off, x.size, err, x.want)
		}
	}
}

func TestUpdateBuffer(t *testing.T) {
	buf := trace.NewBuffer(1<<20, driver.UCopyDst)
	src := trace.NewBuffer(1024, driver.UCopySrc)
	for _, x := range [...]struct {
		buf  driver.Buffer
		off  int64
		n    int
		want *UpdateBufferError
	}{
		{buf, 0, 4, nil},
		{buf, 1024, MaxUpdateSize, nil},
		{nil, 0, 4, &UpdateBufferError{Kind: UpdateBufferNil}},
		{buf, 0, 0, &UpdateBufferError{Kind: UpdateBufferEmpty}},
		{buf, 1, 4, &UpdateBufferError{Kind: UpdateBufferAlign, Expected: 4, Obtained: 1}},
		{buf, 0, 3, &UpdateBufferError{Kind: UpdateBufferAlign, Expected: 4, Obtained: 3}},
		{buf, 0, MaxUpdateSize + 4, &UpdateBufferError{Kind: UpdateBufferTooLarge, Expected: MaxUpdateSize, Obtained: MaxUpdateSize + 4}},
		{buf, 1<<20 - 4, 8, &UpdateBufferError{Kind: UpdateBufferRange, Expected: 1 << 20, Obtained: 1<<20 + 4}},
		{buf, math.MaxInt64 - 3, 8, &UpdateBufferError{Kind: UpdateBufferRange, Expected: 1 << 20, Obtained: math.MaxInt64}},
		{src, 0, 4, &UpdateBufferError{Kind: UpdateBufferUsage}},
	} {
		_, err := NewUpdateBuffer(x.buf, x.off, make([]byte, x.n))
		if x.want == nil {
			if err != nil {
				t.Errorf("NewUpdateBuffer(%d, %d bytes):\nhave %v\nwant nil", x.off, x.n, err)
			}
			continue
		}
		var e *UpdateBufferError
		if !errors.As(err, &e) || *e != *x.want {
			t.Errorf("NewUpdateBuffer(%d, %d bytes):\nhave %v\nwant %v", x.off, x.n, err, x.want)
		}
	}

	_, err := NewUpdateBuffer(buf, 0, make([]byte, 2*MaxUpdateSize))
	if s := err.Error(); !strings.Contains(s, "128KiB exceeds 64KiB") {
		t.Fatalf("UpdateBufferError.Error:\nhave %q\nwant to contain %q", s, "128KiB exceeds 64KiB")
	}

	data := []byte{1, 2, 3, 4}
	c, err := NewUpdateBuffer(buf, 0, data)
	if err != nil {
		t.Fatalf("NewUpdateBuffer: %v", err)
	}
	data[0] = 100
	if c.data[0] != 1 {
		t.Fatal("NewUpdateBuffer: command aliases caller data")
	}
}
