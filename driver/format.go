// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Invalid pixel format.
const FInvalid PixelFmt = -1

// Pixel formats.
const (
	// Color, 8-bit channels.
	RGBA8un PixelFmt = iota
	RGBA8n
	RGBA8sRGB
	BGRA8un
	BGRA8sRGB
	RG8un
	RG8n
	R8un
	R8n
	// Color, 16-bit channels.
	RGBA16f
	RG16f
	R16f
	// Color, 32-bit channels.
	RGBA32f
	RG32f
	R32f
	// Depth/Stencil.
	D16un
	D32f
	S8ui
	D24unS8ui
	D32fS8ui

	fmtN
)

// Aspect is a mask of image aspects.
type Aspect int

// Image aspects.
const (
	AspectColor Aspect = 1 << iota
	AspectDepth
	AspectStencil
	AspectNone Aspect = 0
)

var fmtInfo = [fmtN]struct {
	name   string
	size   int
	aspect Aspect
}{
	RGBA8un:   {"RGBA8un", 4, AspectColor},
	RGBA8n:    {"RGBA8n", 4, AspectColor},
	RGBA8sRGB: {"RGBA8sRGB", 4, AspectColor},
	BGRA8un:   {"BGRA8un", 4, AspectColor},
	BGRA8sRGB: {"BGRA8sRGB", 4, AspectColor},
	RG8un:     {"RG8un", 2, AspectColor},
	RG8n:      {"RG8n", 2, AspectColor},
	R8un:      {"R8un", 1, AspectColor},
	R8n:       {"R8n", 1, AspectColor},
	RGBA16f:   {"RGBA16f", 8, AspectColor},
	RG16f:     {"RG16f", 4, AspectColor},
	R16f:      {"R16f", 2, AspectColor},
	RGBA32f:   {"RGBA32f", 16, AspectColor},
	RG32f:     {"RG32f", 8, AspectColor},
	R32f:      {"R32f", 4, AspectColor},
	D16un:     {"D16un", 2, AspectDepth},
	D32f:      {"D32f", 4, AspectDepth},
	S8ui:      {"S8ui", 1, AspectStencil},
	D24unS8ui: {"D24unS8ui", 4, AspectDepth | AspectStencil},
	D32fS8ui:  {"D32fS8ui", 5, AspectDepth | AspectStencil},
}

// IsValid returns whether f is a known format.
func (f PixelFmt) IsValid() bool { return f >= 0 && f < fmtN }

// Aspect returns the aspects of f.
// It returns AspectNone if f is not valid.
func (f PixelFmt) Aspect() Aspect {
	if !f.IsValid() {
		return AspectNone
	}
	return fmtInfo[f].aspect
}

// IsColor returns whether f is a color format.
func (f PixelFmt) IsColor() bool { return f.Aspect() == AspectColor }

// HasDepth returns whether f has a depth component.
func (f PixelFmt) HasDepth() bool { return f.Aspect()&AspectDepth != 0 }

// HasStencil returns whether f has a stencil component.
func (f PixelFmt) HasStencil() bool { return f.Aspect()&AspectStencil != 0 }

// Size returns the size in bytes of a single pixel.
// For packed depth/stencil formats it is the size of both
// components as stored in a copy buffer, which is only
// meaningful when comparing formats for compatibility.
// It returns 0 if f is not valid.
func (f PixelFmt) Size() int {
	if !f.IsValid() {
		return 0
	}
	return fmtInfo[f].size
}

// String implements fmt.Stringer.
func (f PixelFmt) String() string {
	if !f.IsValid() {
		return "FInvalid"
	}
	return fmtInfo[f].name
}
