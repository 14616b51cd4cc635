// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build vulkan

package vk

import (
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gviegas/safecmd/driver"
)

// convPixelFmt converts a driver.PixelFmt to a VkFormat.
func convPixelFmt(pf driver.PixelFmt) vulkan.Format {
	switch pf {
	case driver.RGBA8un:
		return vulkan.FormatR8g8b8a8Unorm
	case driver.RGBA8n:
		return vulkan.FormatR8g8b8a8Snorm
	case driver.RGBA8sRGB:
		return vulkan.FormatR8g8b8a8Srgb
	case driver.BGRA8un:
		return vulkan.FormatB8g8r8a8Unorm
	case driver.BGRA8sRGB:
		return vulkan.FormatB8g8r8a8Srgb
	case driver.RG8un:
		return vulkan.FormatR8g8Unorm
	case driver.RG8n:
		return vulkan.FormatR8g8Snorm
	case driver.R8un:
		return vulkan.FormatR8Unorm
	case driver.R8n:
		return vulkan.FormatR8Snorm

	case driver.RGBA16f:
		return vulkan.FormatR16g16b16a16Sfloat
	case driver.RG16f:
		return vulkan.FormatR16g16Sfloat
	case driver.R16f:
		return vulkan.FormatR16Sfloat

	case driver.RGBA32f:
		return vulkan.FormatR32g32b32a32Sfloat
	case driver.RG32f:
		return vulkan.FormatR32g32Sfloat
	case driver.R32f:
		return vulkan.FormatR32Sfloat

	case driver.D16un:
		return vulkan.FormatD16Unorm
	case driver.D32f:
		return vulkan.FormatD32Sfloat
	case driver.S8ui:
		return vulkan.FormatS8Uint
	case driver.D24unS8ui:
		return vulkan.FormatD24UnormS8Uint
	case driver.D32fS8ui:
		return vulkan.FormatD32SfloatS8Uint
	}
	return vulkan.FormatUndefined
}

// convAspect converts a driver.Aspect to a
// VkImageAspectFlags.
func convAspect(asp driver.Aspect) (flags vulkan.ImageAspectFlags) {
	if asp&driver.AspectColor != 0 {
		flags |= vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit)
	}
	if asp&driver.AspectDepth != 0 {
		flags |= vulkan.ImageAspectFlags(vulkan.ImageAspectDepthBit)
	}
	if asp&driver.AspectStencil != 0 {
		flags |= vulkan.ImageAspectFlags(vulkan.ImageAspectStencilBit)
	}
	return
}

// convLayout converts a driver.Layout to a VkImageLayout.
func convLayout(lay driver.Layout) vulkan.ImageLayout {
	switch lay {
	case driver.LCommon:
		return vulkan.ImageLayoutGeneral
	case driver.LColorTarget:
		return vulkan.ImageLayoutColorAttachmentOptimal
	case driver.LDSTarget:
		return vulkan.ImageLayoutDepthStencilAttachmentOptimal
	case driver.LDSRead:
		return vulkan.ImageLayoutDepthStencilReadOnlyOptimal
	case driver.LResolveSrc, driver.LCopySrc:
		return vulkan.ImageLayoutTransferSrcOptimal
	case driver.LResolveDst, driver.LCopyDst:
		return vulkan.ImageLayoutTransferDstOptimal
	case driver.LShaderRead:
		return vulkan.ImageLayoutShaderReadOnlyOptimal
	case driver.LPresent:
		return vulkan.ImageLayoutPresentSrc
	}
	return vulkan.ImageLayoutUndefined
}

// convSync converts a driver.Sync to a
// VkPipelineStageFlags.
// SNone becomes the top of the pipe if before is set and
// the bottom of the pipe otherwise.
func convSync(sync driver.Sync, before bool) (flags vulkan.PipelineStageFlags) {
	if sync == driver.SNone {
		if before {
			return vulkan.PipelineStageFlags(vulkan.PipelineStageTopOfPipeBit)
		}
		return vulkan.PipelineStageFlags(vulkan.PipelineStageBottomOfPipeBit)
	}
	if sync&driver.SAll != 0 {
		return vulkan.PipelineStageFlags(vulkan.PipelineStageAllCommandsBit)
	}
	for _, x := range [...]struct {
		sync  driver.Sync
		flags vulkan.PipelineStageFlagBits
	}{
		{driver.SVertexInput, vulkan.PipelineStageVertexInputBit},
		{driver.SVertexShading, vulkan.PipelineStageVertexShaderBit},
		{driver.SFragmentShading, vulkan.PipelineStageFragmentShaderBit},
		{driver.SComputeShading, vulkan.PipelineStageComputeShaderBit},
		{driver.SColorOutput, vulkan.PipelineStageColorAttachmentOutputBit},
		{driver.SDSOutput, vulkan.PipelineStageEarlyFragmentTestsBit | vulkan.PipelineStageLateFragmentTestsBit},
		{driver.SDraw, vulkan.PipelineStageAllGraphicsBit},
		{driver.SResolve, vulkan.PipelineStageTransferBit | vulkan.PipelineStageColorAttachmentOutputBit},
		{driver.SCopy, vulkan.PipelineStageTransferBit},
		{driver.SDrawIndirect, vulkan.PipelineStageDrawIndirectBit},
		{driver.SHost, vulkan.PipelineStageHostBit},
	} {
		if sync&x.sync != 0 {
			flags |= vulkan.PipelineStageFlags(x.flags)
		}
	}
	return
}

// convAccess converts a driver.Access to a VkAccessFlags.
func convAccess(acc driver.Access) (flags vulkan.AccessFlags) {
	for _, x := range [...]struct {
		acc   driver.Access
		flags vulkan.AccessFlagBits
	}{
		{driver.AVertexBufRead, vulkan.AccessVertexAttributeReadBit},
		{driver.AIndexBufRead, vulkan.AccessIndexReadBit},
		{driver.AIndirectRead, vulkan.AccessIndirectCommandReadBit},
		{driver.AConstRead, vulkan.AccessUniformReadBit},
		{driver.AInputRead, vulkan.AccessInputAttachmentReadBit},
		{driver.AColorRead, vulkan.AccessColorAttachmentReadBit},
		{driver.AColorWrite, vulkan.AccessColorAttachmentWriteBit},
		{driver.ADSRead, vulkan.AccessDepthStencilAttachmentReadBit},
		{driver.ADSWrite, vulkan.AccessDepthStencilAttachmentWriteBit},
		{driver.AResolveRead, vulkan.AccessTransferReadBit | vulkan.AccessColorAttachmentReadBit},
		{driver.AResolveWrite, vulkan.AccessTransferWriteBit | vulkan.AccessColorAttachmentWriteBit},
		{driver.ACopyRead, vulkan.AccessTransferReadBit},
		{driver.ACopyWrite, vulkan.AccessTransferWriteBit},
		{driver.AShaderRead, vulkan.AccessShaderReadBit},
		{driver.AShaderWrite, vulkan.AccessShaderWriteBit},
		{driver.AHostRead, vulkan.AccessHostReadBit},
		{driver.AHostWrite, vulkan.AccessHostWriteBit},
		{driver.AAnyRead, vulkan.AccessMemoryReadBit},
		{driver.AAnyWrite, vulkan.AccessMemoryWriteBit},
	} {
		if acc&x.acc != 0 {
			flags |= vulkan.AccessFlags(x.flags)
		}
	}
	return
}

// convStage converts a driver.Stage to a VkShaderStageFlags.
func convStage(stg driver.Stage) (flags vulkan.ShaderStageFlags) {
	if stg&driver.SVertex != 0 {
		flags |= vulkan.ShaderStageFlags(vulkan.ShaderStageVertexBit)
	}
	if stg&driver.SFragment != 0 {
		flags |= vulkan.ShaderStageFlags(vulkan.ShaderStageFragmentBit)
	}
	if stg&driver.SCompute != 0 {
		flags |= vulkan.ShaderStageFlags(vulkan.ShaderStageComputeBit)
	}
	return
}

// convFace converts a driver.StencilFace to a
// VkStencilFaceFlags.
func convFace(face driver.StencilFace) (flags vulkan.StencilFaceFlags) {
	if face&driver.FaceFront != 0 {
		flags |= vulkan.StencilFaceFlags(vulkan.StencilFaceFrontBit)
	}
	if face&driver.FaceBack != 0 {
		flags |= vulkan.StencilFaceFlags(vulkan.StencilFaceBackBit)
	}
	return
}

// convBindPoint converts a driver.BindPoint to a
// VkPipelineBindPoint.
func convBindPoint(bp driver.BindPoint) vulkan.PipelineBindPoint {
	if bp == driver.BindCompute {
		return vulkan.PipelineBindPointCompute
	}
	return vulkan.PipelineBindPointGraphics
}

// convIndexFmt converts a driver.IndexFmt to a VkIndexType.
func convIndexFmt(f driver.IndexFmt) vulkan.IndexType {
	if f == driver.Index16 {
		return vulkan.IndexTypeUint16
	}
	return vulkan.IndexTypeUint32
}

// convFilter converts a driver.Filter to a VkFilter.
func convFilter(f driver.Filter) vulkan.Filter {
	if f == driver.FLinear {
		return vulkan.FilterLinear
	}
	return vulkan.FilterNearest
}

// convContents converts a secondary flag to a
// VkSubpassContents.
func convContents(secondary bool) vulkan.SubpassContents {
	if secondary {
		return vulkan.SubpassContentsSecondaryCommandBuffers
	}
	return vulkan.SubpassContentsInline
}

func convRect(r driver.Scissor) vulkan.Rect2D {
	return vulkan.Rect2D{
		Offset: vulkan.Offset2D{X: int32(r.X), Y: int32(r.Y)},
		Extent: vulkan.Extent2D{Width: uint32(r.Width), Height: uint32(r.Height)},
	}
}

func convOff3D(off driver.Off3D) vulkan.Offset3D {
	return vulkan.Offset3D{X: int32(off.X), Y: int32(off.Y), Z: int32(off.Z)}
}

func convDim3D(dim driver.Dim3D) vulkan.Extent3D {
	return vulkan.Extent3D{Width: uint32(dim.Width), Height: uint32(dim.Height), Depth: uint32(dim.Depth)}
}

// convSubres creates a VkImageSubresourceLayers for every
// aspect of img.
func convSubres(img driver.Image, layer, layers, level int) vulkan.ImageSubresourceLayers {
	return vulkan.ImageSubresourceLayers{
		AspectMask:     convAspect(img.Format().Aspect()),
		MipLevel:       uint32(level),
		BaseArrayLayer: uint32(layer),
		LayerCount:     uint32(layers),
	}
}

// convClearValue converts a driver.ClearValue to a
// VkClearValue. Color values are used if color is set.
func convClearValue(cv driver.ClearValue, color bool) vulkan.ClearValue {
	if color {
		return vulkan.NewClearValue(cv.Color[:])
	}
	return vulkan.NewClearDepthStencil(cv.Depth, cv.Stencil)
}

// convBufRegion converts a driver.BufferRegion to a
// VkBufferCopy.
func convBufRegion(reg driver.BufferRegion) vulkan.BufferCopy {
	return vulkan.BufferCopy{
		SrcOffset: vulkan.DeviceSize(reg.FromOff),
		DstOffset: vulkan.DeviceSize(reg.ToOff),
		Size:      vulkan.DeviceSize(reg.Size),
	}
}

// convImgRegion converts a driver.ImageRegion to a
// VkImageCopy.
func convImgRegion(from, to driver.Image, reg driver.ImageRegion) vulkan.ImageCopy {
	return vulkan.ImageCopy{
		SrcSubresource: convSubres(from, reg.FromLayer, reg.Layers, reg.FromLevel),
		SrcOffset:      convOff3D(reg.FromOff),
		DstSubresource: convSubres(to, reg.ToLayer, reg.Layers, reg.ToLevel),
		DstOffset:      convOff3D(reg.ToOff),
		Extent:         convDim3D(reg.Size),
	}
}

// convBufImgRegion converts a driver.BufImgRegion to a
// VkBufferImageCopy.
func convBufImgRegion(img driver.Image, reg driver.BufImgRegion) vulkan.BufferImageCopy {
	sub := convSubres(img, reg.Layer, 1, reg.Level)
	if pf := img.Format(); pf.HasDepth() && pf.HasStencil() {
		if reg.DepthCopy {
			sub.AspectMask = vulkan.ImageAspectFlags(vulkan.ImageAspectDepthBit)
		} else {
			sub.AspectMask = vulkan.ImageAspectFlags(vulkan.ImageAspectStencilBit)
		}
	}
	return vulkan.BufferImageCopy{
		BufferOffset:      vulkan.DeviceSize(reg.BufOff),
		BufferRowLength:   uint32(reg.Stride[0]),
		BufferImageHeight: uint32(reg.Stride[1]),
		ImageSubresource:  sub,
		ImageOffset:       convOff3D(reg.ImgOff),
		ImageExtent:       convDim3D(reg.Size),
	}
}

// convBlitRegion converts a driver.BlitRegion to a
// VkImageBlit.
func convBlitRegion(from, to driver.Image, reg driver.BlitRegion) vulkan.ImageBlit {
	return vulkan.ImageBlit{
		SrcSubresource: convSubres(from, reg.FromLayer, reg.Layers, reg.FromLevel),
		SrcOffsets:     [2]vulkan.Offset3D{convOff3D(reg.From[0]), convOff3D(reg.From[1])},
		DstSubresource: convSubres(to, reg.ToLayer, reg.Layers, reg.ToLevel),
		DstOffsets:     [2]vulkan.Offset3D{convOff3D(reg.To[0]), convOff3D(reg.To[1])},
	}
}
