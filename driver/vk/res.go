// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build vulkan

package vk

import (
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gviegas/safecmd/driver"
)

// Buffer implements driver.Buffer.
type Buffer struct {
	driver.Ref
	h    vulkan.Buffer
	size int64
	usg  driver.Usage
}

// WrapBuffer takes ownership of a VkBuffer.
// The buffer is destroyed when its last reference is
// released. Its memory is not freed.
func (d *Device) WrapBuffer(h vulkan.Buffer, size int64, usg driver.Usage) *Buffer {
	b := &Buffer{h: h, size: size, usg: usg}
	b.Init(func() { vulkan.DestroyBuffer(d.dev, h, nil) })
	return b
}

// Destroy releases the creator's reference.
func (b *Buffer) Destroy() { b.Release() }

// Cap implements driver.Buffer.
func (b *Buffer) Cap() int64 { return b.size }

// Usage implements driver.Buffer.
func (b *Buffer) Usage() driver.Usage { return b.usg }

// Image implements driver.Image.
type Image struct {
	driver.Ref
	h       vulkan.Image
	pf      driver.PixelFmt
	size    driver.Dim3D
	layers  int
	levels  int
	samples int
	usg     driver.Usage
}

// WrapImage takes ownership of a VkImage.
// The image is destroyed when its last reference is
// released. Its memory is not freed.
func (d *Device) WrapImage(h vulkan.Image, pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) *Image {
	img := &Image{h: h, pf: pf, size: size, layers: layers, levels: levels, samples: samples, usg: usg}
	img.Init(func() { vulkan.DestroyImage(d.dev, h, nil) })
	return img
}

// Destroy releases the creator's reference.
func (img *Image) Destroy() { img.Release() }

// Format implements driver.Image.
func (img *Image) Format() driver.PixelFmt { return img.pf }

// Size implements driver.Image.
func (img *Image) Size() driver.Dim3D { return img.size }

// Layers implements driver.Image.
func (img *Image) Layers() int { return img.layers }

// Levels implements driver.Image.
func (img *Image) Levels() int { return img.levels }

// Samples implements driver.Image.
func (img *Image) Samples() int { return img.samples }

// Usage implements driver.Image.
func (img *Image) Usage() driver.Usage { return img.usg }

// ImageView implements driver.ImageView.
type ImageView struct {
	driver.Ref
	h      vulkan.ImageView
	img    *Image
	layers int
	level  int
}

// NewView creates a 2D array view of img.
// The view holds a reference to img.
func (d *Device) NewView(img *Image, layer, layers, level int) (*ImageView, error) {
	info := vulkan.ImageViewCreateInfo{
		SType:    vulkan.StructureTypeImageViewCreateInfo,
		Image:    img.h,
		ViewType: vulkan.ImageViewType2dArray,
		Format:   convPixelFmt(img.pf),
		SubresourceRange: vulkan.ImageSubresourceRange{
			AspectMask:     convAspect(img.pf.Aspect()),
			BaseMipLevel:   uint32(level),
			LevelCount:     1,
			BaseArrayLayer: uint32(layer),
			LayerCount:     uint32(layers),
		},
	}
	var h vulkan.ImageView
	if err := checkResult(vulkan.CreateImageView(d.dev, &info, nil, &h)); err != nil {
		return nil, err
	}
	img.Acquire()
	v := &ImageView{h: h, img: img, layers: layers, level: level}
	v.Init(func() {
		vulkan.DestroyImageView(d.dev, h, nil)
		img.Release()
	})
	return v, nil
}

// Destroy releases the creator's reference.
func (v *ImageView) Destroy() { v.Release() }

// Image implements driver.ImageView.
func (v *ImageView) Image() driver.Image { return v.img }

// Format implements driver.ImageView.
func (v *ImageView) Format() driver.PixelFmt { return v.img.pf }

// Samples implements driver.ImageView.
func (v *ImageView) Samples() int { return v.img.samples }

// Size implements driver.ImageView.
func (v *ImageView) Size() driver.Dim3D {
	sz := v.img.size
	return driver.Dim3D{
		Width:  max(1, sz.Width>>v.level),
		Height: max(1, sz.Height>>v.level),
		Depth:  max(1, sz.Depth>>v.level),
	}
}

// Layers implements driver.ImageView.
func (v *ImageView) Layers() int { return v.layers }

// DescSetLayout implements driver.DescSetLayout.
type DescSetLayout struct {
	driver.Ref
	h  vulkan.DescriptorSetLayout
	ds []driver.Descriptor
}

// WrapDescSetLayout takes ownership of a
// VkDescriptorSetLayout created from ds.
func (d *Device) WrapDescSetLayout(h vulkan.DescriptorSetLayout, ds []driver.Descriptor) *DescSetLayout {
	l := &DescSetLayout{h: h, ds: append([]driver.Descriptor(nil), ds...)}
	l.Init(func() { vulkan.DestroyDescriptorSetLayout(d.dev, h, nil) })
	return l
}

// Destroy releases the creator's reference.
func (l *DescSetLayout) Destroy() { l.Release() }

// Descriptors implements driver.DescSetLayout.
func (l *DescSetLayout) Descriptors() []driver.Descriptor { return l.ds }

// DescSet implements driver.DescSet.
type DescSet struct {
	driver.Ref
	h vulkan.DescriptorSet
	l *DescSetLayout
}

// WrapDescSet wraps a VkDescriptorSet allocated with
// layout l. The set itself is owned by its pool; only the
// reference to l is released.
func (d *Device) WrapDescSet(h vulkan.DescriptorSet, l *DescSetLayout) *DescSet {
	l.Acquire()
	s := &DescSet{h: h, l: l}
	s.Init(l.Release)
	return s
}

// Destroy releases the creator's reference.
func (s *DescSet) Destroy() { s.Release() }

// Layout implements driver.DescSet.
func (s *DescSet) Layout() driver.DescSetLayout { return s.l }

// PipelineLayout implements driver.PipelineLayout.
type PipelineLayout struct {
	driver.Ref
	h    vulkan.PipelineLayout
	sets []driver.DescSetLayout
	push []driver.PushRange
}

// WrapPipelineLayout takes ownership of a VkPipelineLayout
// created from sets and push.
func (d *Device) WrapPipelineLayout(h vulkan.PipelineLayout, sets []*DescSetLayout, push []driver.PushRange) *PipelineLayout {
	l := &PipelineLayout{h: h, push: append([]driver.PushRange(nil), push...)}
	for _, s := range sets {
		l.sets = append(l.sets, s)
	}
	l.Init(func() { vulkan.DestroyPipelineLayout(d.dev, h, nil) })
	return l
}

// Destroy releases the creator's reference.
func (l *PipelineLayout) Destroy() { l.Release() }

// SetLayouts implements driver.PipelineLayout.
func (l *PipelineLayout) SetLayouts() []driver.DescSetLayout { return l.sets }

// PushRanges implements driver.PipelineLayout.
func (l *PipelineLayout) PushRanges() []driver.PushRange { return l.push }

// Pipeline implements driver.Pipeline.
type Pipeline struct {
	driver.Ref
	h  vulkan.Pipeline
	bp driver.BindPoint
	l  *PipelineLayout
}

// WrapPipeline takes ownership of a VkPipeline.
func (d *Device) WrapPipeline(h vulkan.Pipeline, bp driver.BindPoint, l *PipelineLayout) *Pipeline {
	pl := &Pipeline{h: h, bp: bp, l: l}
	pl.Init(func() { vulkan.DestroyPipeline(d.dev, h, nil) })
	return pl
}

// Destroy releases the creator's reference.
func (pl *Pipeline) Destroy() { pl.Release() }

// BindPoint implements driver.Pipeline.
func (pl *Pipeline) BindPoint() driver.BindPoint { return pl.bp }

// Layout implements driver.Pipeline.
func (pl *Pipeline) Layout() driver.PipelineLayout { return pl.l }

// Event implements driver.Event.
type Event struct {
	driver.Ref
	h vulkan.Event
}

// NewEvent creates a new event.
func (d *Device) NewEvent() (*Event, error) {
	info := vulkan.EventCreateInfo{SType: vulkan.StructureTypeEventCreateInfo}
	var h vulkan.Event
	if err := checkResult(vulkan.CreateEvent(d.dev, &info, nil, &h)); err != nil {
		return nil, err
	}
	ev := &Event{h: h}
	ev.Init(func() { vulkan.DestroyEvent(d.dev, h, nil) })
	return ev, nil
}

// Destroy releases the creator's reference.
func (ev *Event) Destroy() { ev.Release() }

// RenderPass implements driver.RenderPass.
type RenderPass struct {
	driver.Ref
	d   *Device
	h   vulkan.RenderPass
	pfs []driver.PixelFmt
}

// WrapRenderPass takes ownership of a VkRenderPass whose
// attachments have the given formats.
func (d *Device) WrapRenderPass(h vulkan.RenderPass, pfs []driver.PixelFmt) *RenderPass {
	p := &RenderPass{d: d, h: h, pfs: append([]driver.PixelFmt(nil), pfs...)}
	p.Init(func() { vulkan.DestroyRenderPass(d.dev, h, nil) })
	return p
}

// Destroy releases the creator's reference.
func (p *RenderPass) Destroy() { p.Release() }

// NewFB implements driver.RenderPass.
// Every view must be an *ImageView.
func (p *RenderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	views := make([]vulkan.ImageView, len(iv))
	for i := range iv {
		views[i] = iv[i].(*ImageView).h
	}
	info := vulkan.FramebufferCreateInfo{
		SType:           vulkan.StructureTypeFramebufferCreateInfo,
		RenderPass:      p.h,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           uint32(width),
		Height:          uint32(height),
		Layers:          uint32(layers),
	}
	var h vulkan.Framebuffer
	if err := checkResult(vulkan.CreateFramebuffer(p.d.dev, &info, nil, &h)); err != nil {
		return nil, err
	}
	fb := &Framebuf{h: h}
	fb.Init(func() { vulkan.DestroyFramebuffer(p.d.dev, h, nil) })
	return fb, nil
}

// Framebuf implements driver.Framebuf.
type Framebuf struct {
	driver.Ref
	h vulkan.Framebuffer
}

// Destroy releases the creator's reference.
func (fb *Framebuf) Destroy() { fb.Release() }
