// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build vulkan

package vk

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gviegas/safecmd/driver"
)

// Sink implements driver.Sink on a VkCommandBuffer.
type Sink struct {
	d         *Device
	cb        vulkan.CommandBuffer
	secondary bool
	begun     bool

	// Set by Continue for secondary command buffers
	// that continue a render pass.
	inherit *vulkan.CommandBufferInheritanceInfo
}

var (
	_ driver.Sink      = &Sink{}
	_ driver.Continuer = &Sink{}
)

// Handle returns the VkCommandBuffer.
func (s *Sink) Handle() vulkan.CommandBuffer { return s.cb }

// Destroy frees the command buffer.
// It must not be pending execution.
func (s *Sink) Destroy() {
	if s.d != nil {
		vulkan.FreeCommandBuffers(s.d.dev, s.d.pool, 1, []vulkan.CommandBuffer{s.cb})
		*s = Sink{}
	}
}

// Continue implements driver.Continuer.
func (s *Sink) Continue(pass driver.RenderPass, fb driver.Framebuf, subpass int) {
	s.inherit = &vulkan.CommandBufferInheritanceInfo{
		SType:       vulkan.StructureTypeCommandBufferInheritanceInfo,
		RenderPass:  pass.(*RenderPass).h,
		Subpass:     uint32(subpass),
		Framebuffer: fb.(*Framebuf).h,
	}
}

// Begin implements driver.Sink.
func (s *Sink) Begin() error {
	if s.begun {
		return errors.New("vk: command buffer already recording")
	}
	info := vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: vulkan.CommandBufferUsageFlags(vulkan.CommandBufferUsageOneTimeSubmitBit),
	}
	if s.secondary {
		inherit := vulkan.CommandBufferInheritanceInfo{SType: vulkan.StructureTypeCommandBufferInheritanceInfo}
		if s.inherit != nil {
			inherit = *s.inherit
			info.Flags |= vulkan.CommandBufferUsageFlags(vulkan.CommandBufferUsageRenderPassContinueBit)
		}
		info.PInheritanceInfo = []vulkan.CommandBufferInheritanceInfo{inherit}
	}
	if err := checkResult(vulkan.BeginCommandBuffer(s.cb, &info)); err != nil {
		return err
	}
	s.begun = true
	return nil
}

// End implements driver.Sink.
func (s *Sink) End() error {
	if !s.begun {
		return errors.New("vk: command buffer not recording")
	}
	s.begun = false
	return checkResult(vulkan.EndCommandBuffer(s.cb))
}

// SetPipeline implements driver.Sink.
func (s *Sink) SetPipeline(pl driver.Pipeline) {
	p := pl.(*Pipeline)
	vulkan.CmdBindPipeline(s.cb, convBindPoint(p.bp), p.h)
}

// SetDescSets implements driver.Sink.
func (s *Sink) SetDescSets(bp driver.BindPoint, layout driver.PipelineLayout, first int, set []driver.DescSet, dynOff []uint32) {
	sets := make([]vulkan.DescriptorSet, len(set))
	for i := range set {
		sets[i] = set[i].(*DescSet).h
	}
	vulkan.CmdBindDescriptorSets(s.cb, convBindPoint(bp), layout.(*PipelineLayout).h, uint32(first), uint32(len(sets)), sets, uint32(len(dynOff)), dynOff)
}

// SetVertexBuf implements driver.Sink.
func (s *Sink) SetVertexBuf(first int, buf []driver.Buffer, off []int64) {
	bufs := make([]vulkan.Buffer, len(buf))
	offs := make([]vulkan.DeviceSize, len(buf))
	for i := range buf {
		bufs[i] = buf[i].(*Buffer).h
		offs[i] = vulkan.DeviceSize(off[i])
	}
	vulkan.CmdBindVertexBuffers(s.cb, uint32(first), uint32(len(bufs)), bufs, offs)
}

// SetIndexBuf implements driver.Sink.
func (s *Sink) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	vulkan.CmdBindIndexBuffer(s.cb, buf.(*Buffer).h, vulkan.DeviceSize(off), convIndexFmt(format))
}

// SetViewport implements driver.Sink.
func (s *Sink) SetViewport(first int, vp []driver.Viewport) {
	vps := make([]vulkan.Viewport, len(vp))
	for i, v := range vp {
		vps[i] = vulkan.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.Znear,
			MaxDepth: v.Zfar,
		}
	}
	vulkan.CmdSetViewport(s.cb, uint32(first), uint32(len(vps)), vps)
}

// SetScissor implements driver.Sink.
func (s *Sink) SetScissor(first int, sciss []driver.Scissor) {
	rects := make([]vulkan.Rect2D, len(sciss))
	for i := range sciss {
		rects[i] = convRect(sciss[i])
	}
	vulkan.CmdSetScissor(s.cb, uint32(first), uint32(len(rects)), rects)
}

// SetLineWidth implements driver.Sink.
func (s *Sink) SetLineWidth(width float32) { vulkan.CmdSetLineWidth(s.cb, width) }

// SetDepthBias implements driver.Sink.
func (s *Sink) SetDepthBias(value, clamp, slope float32) {
	vulkan.CmdSetDepthBias(s.cb, value, clamp, slope)
}

// SetBlendColor implements driver.Sink.
func (s *Sink) SetBlendColor(r, g, b, a float32) {
	vulkan.CmdSetBlendConstants(s.cb, &[4]float32{r, g, b, a})
}

// SetDepthBounds implements driver.Sink.
func (s *Sink) SetDepthBounds(min, max float32) { vulkan.CmdSetDepthBounds(s.cb, min, max) }

// SetStencilCompareMask implements driver.Sink.
func (s *Sink) SetStencilCompareMask(face driver.StencilFace, mask uint32) {
	vulkan.CmdSetStencilCompareMask(s.cb, convFace(face), mask)
}

// SetStencilWriteMask implements driver.Sink.
func (s *Sink) SetStencilWriteMask(face driver.StencilFace, mask uint32) {
	vulkan.CmdSetStencilWriteMask(s.cb, convFace(face), mask)
}

// SetStencilRef implements driver.Sink.
func (s *Sink) SetStencilRef(face driver.StencilFace, value uint32) {
	vulkan.CmdSetStencilReference(s.cb, convFace(face), value)
}

// PushConstants implements driver.Sink.
func (s *Sink) PushConstants(layout driver.PipelineLayout, stages driver.Stage, off int, data []byte) {
	vulkan.CmdPushConstants(s.cb, layout.(*PipelineLayout).h, convStage(stages), uint32(off), uint32(len(data)), unsafe.Pointer(&data[0]))
}

// Draw implements driver.Sink.
func (s *Sink) Draw(vertCount, instCount, baseVert, baseInst int) {
	vulkan.CmdDraw(s.cb, uint32(vertCount), uint32(instCount), uint32(baseVert), uint32(baseInst))
}

// DrawIndexed implements driver.Sink.
func (s *Sink) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	vulkan.CmdDrawIndexed(s.cb, uint32(idxCount), uint32(instCount), uint32(baseIdx), int32(vertOff), uint32(baseInst))
}

// DrawIndirect implements driver.Sink.
func (s *Sink) DrawIndirect(indexed bool, buf driver.Buffer, off int64, count, stride int) {
	b := buf.(*Buffer).h
	if indexed {
		vulkan.CmdDrawIndexedIndirect(s.cb, b, vulkan.DeviceSize(off), uint32(count), uint32(stride))
	} else {
		vulkan.CmdDrawIndirect(s.cb, b, vulkan.DeviceSize(off), uint32(count), uint32(stride))
	}
}

// Dispatch implements driver.Sink.
func (s *Sink) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	vulkan.CmdDispatch(s.cb, uint32(grpCountX), uint32(grpCountY), uint32(grpCountZ))
}

// CopyBuffer implements driver.Sink.
func (s *Sink) CopyBuffer(from, to driver.Buffer, reg []driver.BufferRegion) {
	regs := make([]vulkan.BufferCopy, len(reg))
	for i := range reg {
		regs[i] = convBufRegion(reg[i])
	}
	vulkan.CmdCopyBuffer(s.cb, from.(*Buffer).h, to.(*Buffer).h, uint32(len(regs)), regs)
}

// CopyImage implements driver.Sink.
func (s *Sink) CopyImage(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, reg []driver.ImageRegion) {
	regs := make([]vulkan.ImageCopy, len(reg))
	for i := range reg {
		regs[i] = convImgRegion(from, to, reg[i])
	}
	vulkan.CmdCopyImage(s.cb, from.(*Image).h, convLayout(fromLay), to.(*Image).h, convLayout(toLay), uint32(len(regs)), regs)
}

// CopyBufToImg implements driver.Sink.
func (s *Sink) CopyBufToImg(buf driver.Buffer, img driver.Image, lay driver.Layout, reg []driver.BufImgRegion) {
	regs := make([]vulkan.BufferImageCopy, len(reg))
	for i := range reg {
		regs[i] = convBufImgRegion(img, reg[i])
	}
	vulkan.CmdCopyBufferToImage(s.cb, buf.(*Buffer).h, img.(*Image).h, convLayout(lay), uint32(len(regs)), regs)
}

// CopyImgToBuf implements driver.Sink.
func (s *Sink) CopyImgToBuf(img driver.Image, lay driver.Layout, buf driver.Buffer, reg []driver.BufImgRegion) {
	regs := make([]vulkan.BufferImageCopy, len(reg))
	for i := range reg {
		regs[i] = convBufImgRegion(img, reg[i])
	}
	vulkan.CmdCopyImageToBuffer(s.cb, img.(*Image).h, convLayout(lay), buf.(*Buffer).h, uint32(len(regs)), regs)
}

// Blit implements driver.Sink.
func (s *Sink) Blit(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, reg []driver.BlitRegion, filter driver.Filter) {
	regs := make([]vulkan.ImageBlit, len(reg))
	for i := range reg {
		regs[i] = convBlitRegion(from, to, reg[i])
	}
	vulkan.CmdBlitImage(s.cb, from.(*Image).h, convLayout(fromLay), to.(*Image).h, convLayout(toLay), uint32(len(regs)), regs, convFilter(filter))
}

// Resolve implements driver.Sink.
func (s *Sink) Resolve(from driver.Image, fromLay driver.Layout, to driver.Image, toLay driver.Layout, reg []driver.ImageRegion) {
	regs := make([]vulkan.ImageResolve, len(reg))
	for i := range reg {
		c := convImgRegion(from, to, reg[i])
		regs[i] = vulkan.ImageResolve{
			SrcSubresource: c.SrcSubresource,
			SrcOffset:      c.SrcOffset,
			DstSubresource: c.DstSubresource,
			DstOffset:      c.DstOffset,
			Extent:         c.Extent,
		}
	}
	vulkan.CmdResolveImage(s.cb, from.(*Image).h, convLayout(fromLay), to.(*Image).h, convLayout(toLay), uint32(len(regs)), regs)
}

// Fill implements driver.Sink.
func (s *Sink) Fill(buf driver.Buffer, off, size int64, value uint32) {
	vulkan.CmdFillBuffer(s.cb, buf.(*Buffer).h, vulkan.DeviceSize(off), vulkan.DeviceSize(size), value)
}

// Update implements driver.Sink.
func (s *Sink) Update(buf driver.Buffer, off int64, data []byte) {
	vulkan.CmdUpdateBuffer(s.cb, buf.(*Buffer).h, vulkan.DeviceSize(off), vulkan.DeviceSize(len(data)), unsafe.Pointer(&data[0]))
}

// ClearAttachments implements driver.Sink.
func (s *Sink) ClearAttachments(att []driver.ClearAttachment, rect []driver.ClearRect) {
	atts := make([]vulkan.ClearAttachment, len(att))
	for i, a := range att {
		atts[i] = vulkan.ClearAttachment{
			AspectMask:      convAspect(a.Aspect),
			ColorAttachment: uint32(a.Color),
			ClearValue:      convClearValue(a.Value, a.Aspect == driver.AspectColor),
		}
	}
	rects := make([]vulkan.ClearRect, len(rect))
	for i, r := range rect {
		rects[i] = vulkan.ClearRect{
			Rect:           convRect(r.Rect),
			BaseArrayLayer: uint32(r.Layer),
			LayerCount:     uint32(r.Layers),
		}
	}
	vulkan.CmdClearAttachments(s.cb, uint32(len(atts)), atts, uint32(len(rects)), rects)
}

// Barrier implements driver.Sink.
func (s *Sink) Barrier(before, after driver.Sync, byRegion bool, b []driver.Barrier, bb []driver.BufBarrier, t []driver.Transition) {
	var dep vulkan.DependencyFlags
	if byRegion {
		dep = vulkan.DependencyFlags(vulkan.DependencyByRegionBit)
	}
	mbs := make([]vulkan.MemoryBarrier, len(b))
	for i := range b {
		mbs[i] = vulkan.MemoryBarrier{
			SType:         vulkan.StructureTypeMemoryBarrier,
			SrcAccessMask: convAccess(b[i].AccessBefore),
			DstAccessMask: convAccess(b[i].AccessAfter),
		}
	}
	bmbs := make([]vulkan.BufferMemoryBarrier, len(bb))
	for i := range bb {
		size := vulkan.DeviceSize(bb[i].Size)
		if bb[i].Size < 0 {
			size = vulkan.DeviceSize(vulkan.WholeSize)
		}
		bmbs[i] = vulkan.BufferMemoryBarrier{
			SType:               vulkan.StructureTypeBufferMemoryBarrier,
			SrcAccessMask:       convAccess(bb[i].AccessBefore),
			DstAccessMask:       convAccess(bb[i].AccessAfter),
			SrcQueueFamilyIndex: vulkan.QueueFamilyIgnored,
			DstQueueFamilyIndex: vulkan.QueueFamilyIgnored,
			Buffer:              bb[i].Buf.(*Buffer).h,
			Offset:              vulkan.DeviceSize(bb[i].Off),
			Size:                size,
		}
	}
	imbs := make([]vulkan.ImageMemoryBarrier, len(t))
	for i := range t {
		imbs[i] = vulkan.ImageMemoryBarrier{
			SType:               vulkan.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       convAccess(t[i].AccessBefore),
			DstAccessMask:       convAccess(t[i].AccessAfter),
			OldLayout:           convLayout(t[i].LayoutBefore),
			NewLayout:           convLayout(t[i].LayoutAfter),
			SrcQueueFamilyIndex: vulkan.QueueFamilyIgnored,
			DstQueueFamilyIndex: vulkan.QueueFamilyIgnored,
			Image:               t[i].Img.(*Image).h,
			SubresourceRange: vulkan.ImageSubresourceRange{
				AspectMask:     convAspect(t[i].Img.Format().Aspect()),
				BaseMipLevel:   uint32(t[i].Level),
				LevelCount:     uint32(t[i].Levels),
				BaseArrayLayer: uint32(t[i].Layer),
				LayerCount:     uint32(t[i].Layers),
			},
		}
	}
	vulkan.CmdPipelineBarrier(s.cb, convSync(before, true), convSync(after, false), dep,
		uint32(len(mbs)), mbs,
		uint32(len(bmbs)), bmbs,
		uint32(len(imbs)), imbs)
}

// SetEvent implements driver.Sink.
func (s *Sink) SetEvent(ev driver.Event, stg driver.Sync) {
	vulkan.CmdSetEvent(s.cb, ev.(*Event).h, convSync(stg, true))
}

// ResetEvent implements driver.Sink.
func (s *Sink) ResetEvent(ev driver.Event, stg driver.Sync) {
	vulkan.CmdResetEvent(s.cb, ev.(*Event).h, convSync(stg, true))
}

// BeginPass implements driver.Sink.
func (s *Sink) BeginPass(pass driver.RenderPass, fb driver.Framebuf, area driver.Scissor, clear []driver.ClearValue, secondary bool) {
	rp := pass.(*RenderPass)
	cvs := make([]vulkan.ClearValue, len(clear))
	for i, cv := range clear {
		color := i >= len(rp.pfs) || rp.pfs[i].IsColor()
		cvs[i] = convClearValue(cv, color)
	}
	info := vulkan.RenderPassBeginInfo{
		SType:           vulkan.StructureTypeRenderPassBeginInfo,
		RenderPass:      rp.h,
		Framebuffer:     fb.(*Framebuf).h,
		RenderArea:      convRect(area),
		ClearValueCount: uint32(len(cvs)),
		PClearValues:    cvs,
	}
	vulkan.CmdBeginRenderPass(s.cb, &info, convContents(secondary))
}

// NextSubpass implements driver.Sink.
func (s *Sink) NextSubpass(secondary bool) { vulkan.CmdNextSubpass(s.cb, convContents(secondary)) }

// EndPass implements driver.Sink.
func (s *Sink) EndPass() { vulkan.CmdEndRenderPass(s.cb) }

// Execute implements driver.Sink.
func (s *Sink) Execute(sec []driver.Sink) {
	cbs := make([]vulkan.CommandBuffer, len(sec))
	for i := range sec {
		cbs[i] = sec[i].(*Sink).cb
	}
	vulkan.CmdExecuteCommands(s.cb, uint32(len(cbs)), cbs)
}
