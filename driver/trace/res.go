// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package trace

import (
	"github.com/google/uuid"

	"github.com/gviegas/safecmd/driver"
)

// res is embedded by every resource type.
// It provides identity and reference counting.
// The creator owns the first reference; Destroy
// releases it.
type res struct {
	driver.Ref
	id    uuid.UUID
	freed bool
}

func (r *res) init() {
	r.id = uuid.New()
	r.Ref.Init(func() { r.freed = true })
}

// ID returns the unique identifier of the resource.
func (r *res) ID() uuid.UUID { return r.id }

// Freed returns whether every reference to the resource
// has been released.
func (r *res) Freed() bool { return r.freed }

// Destroy releases the creator's reference.
func (r *res) Destroy() { r.Release() }

// Buffer implements driver.Buffer.
type Buffer struct {
	res
	size int64
	usg  driver.Usage
}

// NewBuffer creates a new buffer.
func NewBuffer(size int64, usg driver.Usage) *Buffer {
	b := &Buffer{size: size, usg: usg}
	b.init()
	return b
}

// Cap implements driver.Buffer.
func (b *Buffer) Cap() int64 { return b.size }

// Usage implements driver.Buffer.
func (b *Buffer) Usage() driver.Usage { return b.usg }

// Image implements driver.Image.
type Image struct {
	res
	pf      driver.PixelFmt
	size    driver.Dim3D
	layers  int
	levels  int
	samples int
	usg     driver.Usage
}

// NewImage creates a new image.
func NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) *Image {
	img := &Image{
		pf:      pf,
		size:    size,
		layers:  layers,
		levels:  levels,
		samples: samples,
		usg:     usg,
	}
	img.init()
	return img
}

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

// NewView creates a view of the given level and layer range.
// The view holds a reference to img until destroyed.
func (img *Image) NewView(layer, layers, level int) *ImageView {
	img.Acquire()
	v := &ImageView{img: img, layer: layer, layers: layers, level: level}
	v.res.id = uuid.New()
	v.res.Ref.Init(func() {
		v.res.freed = true
		img.Release()
	})
	return v
}

// ImageView implements driver.ImageView.
type ImageView struct {
	res
	img    *Image
	layer  int
	layers int
	level  int
}

// Image implements driver.ImageView.
func (v *ImageView) Image() driver.Image { return v.img }

// Format implements driver.ImageView.
func (v *ImageView) Format() driver.PixelFmt { return v.img.pf }

// Samples implements driver.ImageView.
func (v *ImageView) Samples() int { return v.img.samples }

// Size implements driver.ImageView.
func (v *ImageView) Size() driver.Dim3D {
	sz := v.img.size
	for i := 0; i < v.level; i++ {
		sz.Width = max(sz.Width/2, 1)
		sz.Height = max(sz.Height/2, 1)
		sz.Depth = max(sz.Depth/2, 1)
	}
	return sz
}

// Layers implements driver.ImageView.
func (v *ImageView) Layers() int { return v.layers }

// DescSetLayout implements driver.DescSetLayout.
type DescSetLayout struct {
	res
	ds []driver.Descriptor
}

// NewDescSetLayout creates a new descriptor set layout.
func NewDescSetLayout(ds []driver.Descriptor) *DescSetLayout {
	l := &DescSetLayout{ds: append([]driver.Descriptor(nil), ds...)}
	l.init()
	return l
}

// Descriptors implements driver.DescSetLayout.
func (l *DescSetLayout) Descriptors() []driver.Descriptor { return l.ds }

// DescSet implements driver.DescSet.
type DescSet struct {
	res
	l driver.DescSetLayout
}

// NewDescSet creates a new descriptor set.
func NewDescSet(l driver.DescSetLayout) *DescSet {
	s := &DescSet{l: l}
	s.init()
	return s
}

// Layout implements driver.DescSet.
func (s *DescSet) Layout() driver.DescSetLayout { return s.l }

// PipelineLayout implements driver.PipelineLayout.
type PipelineLayout struct {
	res
	sets []driver.DescSetLayout
	push []driver.PushRange
}

// NewPipelineLayout creates a new pipeline layout.
func NewPipelineLayout(sets []driver.DescSetLayout, push []driver.PushRange) *PipelineLayout {
	l := &PipelineLayout{
		sets: append([]driver.DescSetLayout(nil), sets...),
		push: append([]driver.PushRange(nil), push...),
	}
	l.init()
	return l
}

// SetLayouts implements driver.PipelineLayout.
func (l *PipelineLayout) SetLayouts() []driver.DescSetLayout { return l.sets }

// PushRanges implements driver.PipelineLayout.
func (l *PipelineLayout) PushRanges() []driver.PushRange { return l.push }

// Pipeline implements driver.Pipeline.
type Pipeline struct {
	res
	bp driver.BindPoint
	l  driver.PipelineLayout
}

// NewPipeline creates a new pipeline.
func NewPipeline(bp driver.BindPoint, l driver.PipelineLayout) *Pipeline {
	pl := &Pipeline{bp: bp, l: l}
	pl.init()
	return pl
}

// BindPoint implements driver.Pipeline.
func (pl *Pipeline) BindPoint() driver.BindPoint { return pl.bp }

// Layout implements driver.Pipeline.
func (pl *Pipeline) Layout() driver.PipelineLayout { return pl.l }

// Event implements driver.Event.
type Event struct{ res }

// NewEvent creates a new event.
func NewEvent() *Event {
	ev := &Event{}
	ev.init()
	return ev
}

// RenderPass implements driver.RenderPass.
type RenderPass struct{ res }

// NewRenderPass creates a new render pass.
func NewRenderPass() *RenderPass {
	p := &RenderPass{}
	p.init()
	return p
}

// NewFB implements driver.RenderPass.
func (p *RenderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	fb := &Framebuf{
		views:  append([]driver.ImageView(nil), iv...),
		width:  width,
		height: height,
		layers: layers,
	}
	fb.init()
	return fb, nil
}

// Framebuf implements driver.Framebuf.
type Framebuf struct {
	res
	views  []driver.ImageView
	width  int
	height int
	layers int
}

// Views returns the image views of the framebuffer.
func (fb *Framebuf) Views() []driver.ImageView { return fb.views }
