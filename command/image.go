// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// levelSize returns the size of the given mip level of img.
func levelSize(img driver.Image, level int) driver.Dim3D {
	sz := img.Size()
	return driver.Dim3D{
		Width:  max(sz.Width>>level, 1),
		Height: max(sz.Height>>level, 1),
		Depth:  max(sz.Depth>>level, 1),
	}
}

// subresKind is the outcome of checkSubres.
type subresKind int

const (
	subresOK subresKind = iota
	subresLevel
	subresLayer
	subresBounds
	subresEmpty
)

// checkSubres checks that the box at off with the given
// size lies within the given level of img, and that the
// layer range is valid.
// On failure, it also returns the offending end and the
// bound it exceeds.
func checkSubres(img driver.Image, level, layer, layers int, off driver.Off3D, size driver.Dim3D) (subresKind, int64, int64) {
	if level < 0 || level >= img.Levels() {
		return subresLevel, int64(img.Levels()), int64(level)
	}
	if layers < 1 || !within(layer, layers, img.Layers()) {
		return subresLayer, int64(img.Layers()), end(layer, layers)
	}
	if size.Width < 1 || size.Height < 1 || size.Depth < 1 {
		return subresEmpty, 0, 0
	}
	ls := levelSize(img, level)
	for _, x := range [...][3]int{
		{off.X, size.Width, ls.Width},
		{off.Y, size.Height, ls.Height},
		{off.Z, size.Depth, ls.Depth},
	} {
		if !within(x[0], x[1], x[2]) {
			return subresBounds, int64(x[2]), end(x[0], x[1])
		}
	}
	return subresOK, 0, 0
}

// boxesOverlap returns whether the boxes at a and b, with
// sizes sa and sb, intersect.
func boxesOverlap(a driver.Off3D, sa driver.Dim3D, b driver.Off3D, sb driver.Dim3D) bool {
	return a.X < b.X+sb.Width && b.X < a.X+sa.Width &&
		a.Y < b.Y+sb.Height && b.Y < a.Y+sa.Height &&
		a.Z < b.Z+sb.Depth && b.Z < a.Z+sa.Depth
}

// rangesOverlap returns whether [a, a+na) and [b, b+nb)
// intersect.
func rangesOverlap(a, na, b, nb int64) bool { return a < b+nb && b < a+na }

// validCopyLayout returns whether lay is valid for an
// image that is the source (or destination, if dst is set)
// of a transfer command.
func validCopyLayout(lay driver.Layout, dst bool) bool {
	if lay == driver.LCommon {
		return true
	}
	if dst {
		return lay == driver.LCopyDst
	}
	return lay == driver.LCopySrc
}

// texelSize returns the size in bytes of a texel of pf as
// stored in a buffer, for the depth or stencil aspect of
// combined formats.
func texelSize(pf driver.PixelFmt, depth bool) int {
	if pf.HasDepth() && pf.HasStencil() {
		if !depth {
			return 1
		}
		return 4
	}
	return pf.Size()
}
