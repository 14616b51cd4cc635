// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Device is the interface to an opened driver.
// It reports implementation limits and creates the raw
// sinks into which validated commands are encoded.
type Device interface {
	// Driver returns the Driver that owns the device.
	Driver() Driver

	// NewSink creates a new raw recording sink.
	// If secondary is set, the sink records a secondary
	// command buffer, which can only be executed from
	// a primary one.
	NewSink(secondary bool) (Sink, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the device.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Sink is the interface that defines a raw command buffer.
// It maps each method to a single command of the underlying
// API and performs no validation whatsoever: calling its
// methods with invalid arguments or out of order results in
// undefined behavior. Client code should not use a Sink
// directly, but through a recorder that validates commands
// before encoding them.
//
// A sink must be prepared with Begin before any command is
// recorded, and finished with End before it can be executed.
type Sink interface {
	// Begin prepares the sink for recording.
	Begin() error

	// End ends recording and prepares the sink for
	// execution.
	End() error

	// SetPipeline binds a pipeline to its bind point.
	SetPipeline(pl Pipeline)

	// SetDescSets binds descriptor sets starting at
	// set number first.
	SetDescSets(bp BindPoint, layout PipelineLayout, first int, set []DescSet, dynOff []uint32)

	// SetVertexBuf binds one or more vertex buffers
	// starting at binding number first.
	SetVertexBuf(first int, buf []Buffer, off []int64)

	// SetIndexBuf binds the index buffer.
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)

	// SetViewport sets the bounds of one or more
	// viewports.
	SetViewport(first int, vp []Viewport)

	// SetScissor sets the rectangles of one or more
	// viewport scissors.
	SetScissor(first int, sciss []Scissor)

	// SetLineWidth sets the rasterization line width.
	SetLineWidth(width float32)

	// SetDepthBias sets the depth bias parameters.
	SetDepthBias(value, clamp, slope float32)

	// SetBlendColor sets the constant blend color.
	SetBlendColor(r, g, b, a float32)

	// SetDepthBounds sets the depth bounds test range.
	SetDepthBounds(min, max float32)

	// SetStencilCompareMask sets the stencil compare mask.
	SetStencilCompareMask(face StencilFace, mask uint32)

	// SetStencilWriteMask sets the stencil write mask.
	SetStencilWriteMask(face StencilFace, mask uint32)

	// SetStencilRef sets the stencil reference value.
	SetStencilRef(face StencilFace, value uint32)

	// PushConstants updates push constant values.
	PushConstants(layout PipelineLayout, stages Stage, off int, data []byte)

	// Draw draws primitives.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int)

	// DrawIndirect draws primitives using parameters
	// read from buf.
	DrawIndirect(indexed bool, buf Buffer, off int64, count, stride int)

	// Dispatch dispatches compute thread groups.
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	// CopyBuffer copies data between buffers.
	CopyBuffer(from, to Buffer, reg []BufferRegion)

	// CopyImage copies data between images.
	CopyImage(from Image, fromLay Layout, to Image, toLay Layout, reg []ImageRegion)

	// CopyBufToImg copies data from a buffer to an image.
	CopyBufToImg(buf Buffer, img Image, lay Layout, reg []BufImgRegion)

	// CopyImgToBuf copies data from an image to a buffer.
	CopyImgToBuf(img Image, lay Layout, buf Buffer, reg []BufImgRegion)

	// Blit copies regions of an image to another,
	// scaling and converting formats as needed.
	Blit(from Image, fromLay Layout, to Image, toLay Layout, reg []BlitRegion, filter Filter)

	// Resolve resolves a multisample image into a
	// single-sample one.
	Resolve(from Image, fromLay Layout, to Image, toLay Layout, reg []ImageRegion)

	// Fill fills a buffer range with copies of a
	// 32-bit value.
	Fill(buf Buffer, off, size int64, value uint32)

	// Update writes data into a buffer range.
	Update(buf Buffer, off int64, data []byte)

	// ClearAttachments clears regions of the attachments
	// of the current subpass.
	ClearAttachments(att []ClearAttachment, rect []ClearRect)

	// Barrier inserts a pipeline barrier.
	Barrier(before, after Sync, byRegion bool, b []Barrier, bb []BufBarrier, t []Transition)

	// SetEvent signals an event.
	SetEvent(ev Event, stg Sync)

	// ResetEvent unsignals an event.
	ResetEvent(ev Event, stg Sync)

	// BeginPass begins the first subpass of a render pass.
	// If secondary is set, the subpass contents are
	// provided by secondary command buffers.
	BeginPass(pass RenderPass, fb Framebuf, area Scissor, clear []ClearValue, secondary bool)

	// NextSubpass ends the current subpass and begins
	// the next one.
	NextSubpass(secondary bool)

	// EndPass ends the current render pass.
	EndPass()

	// Execute executes secondary command buffers.
	Execute(sec []Sink)
}

// Continuer is implemented by secondary sinks that need to
// know, before Begin is called, which render pass and
// subpass they continue.
type Continuer interface {
	Continue(pass RenderPass, fb Framebuf, subpass int)
}

// BufferRegion describes a region of a buffer-to-buffer copy.
type BufferRegion struct {
	FromOff int64
	ToOff   int64
	Size    int64
}

// ImageRegion describes a region of an image-to-image copy
// or resolve.
type ImageRegion struct {
	FromOff   Off3D
	FromLayer int
	FromLevel int
	ToOff     Off3D
	ToLayer   int
	ToLevel   int
	Size      Dim3D
	Layers    int
}

// BufImgRegion describes a region of a copy between a
// buffer and an image.
type BufImgRegion struct {
	BufOff int64
	// Stride specifies the addressing of image data
	// in the buffer. It is given in pixels.
	// Stride[0] refers to the row length and Stride[1]
	// refers to the image height. Zero means tightly
	// packed according to Size.
	Stride [2]int64
	ImgOff Off3D
	Layer  int
	Level  int
	Size   Dim3D
	// DepthCopy selects either the depth or stencil
	// aspects to copy. It is only used if the image has
	// a combined depth/stencil format.
	DepthCopy bool
}

// BlitRegion describes a region of an image blit.
// From and To are the two corners of the source and
// destination boxes, respectively.
type BlitRegion struct {
	From      [2]Off3D
	FromLayer int
	FromLevel int
	To        [2]Off3D
	ToLayer   int
	ToLevel   int
	Layers    int
}

// ClearAttachment describes an attachment to be cleared
// within a subpass.
// Color is the index in the subpass' color attachment
// list. It is ignored unless Aspect is AspectColor.
type ClearAttachment struct {
	Aspect Aspect
	Color  int
	Value  ClearValue
}

// ClearRect describes a rectangle to be cleared across a
// range of framebuffer layers.
type ClearRect struct {
	Rect   Scissor
	Layer  int
	Layers int
}

// Sync is the type of a synchronization scope.
type Sync int

// Synchronization scopes.
const (
	SVertexInput Sync = 1 << iota
	SVertexShading
	SFragmentShading
	SComputeShading
	SColorOutput
	SDSOutput
	SDraw
	SResolve
	SCopy
	SDrawIndirect
	SHost
	SAll
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	AVertexBufRead Access = 1 << iota
	AIndexBufRead
	AIndirectRead
	AConstRead
	AInputRead
	AColorRead
	AColorWrite
	ADSRead
	ADSWrite
	AResolveRead
	AResolveWrite
	ACopyRead
	ACopyWrite
	AShaderRead
	AShaderWrite
	AHostRead
	AHostWrite
	AAnyRead
	AAnyWrite
	ANone Access = 0
)

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LCommon
	LColorTarget
	LDSTarget
	LDSRead
	LResolveSrc
	LResolveDst
	LCopySrc
	LCopyDst
	LShaderRead
	LPresent
)

// Barrier represents a global memory barrier.
type Barrier struct {
	AccessBefore Access
	AccessAfter  Access
}

// BufBarrier represents a memory barrier on a buffer range.
type BufBarrier struct {
	Barrier

	Buf  Buffer
	Off  int64
	Size int64
}

// Transition represents a layout transition on a
// specific image subresource range.
type Transition struct {
	Barrier

	LayoutBefore Layout
	LayoutAfter  Layout
	Img          Image
	Layer        int
	Layers       int
	Level        int
	Levels       int
}

// Event is the interface that defines a synchronization
// event that can be signaled from a command buffer.
type Event interface {
	Destroyer
}

// LoadOp is the type of an attachment's load operation.
type LoadOp int

// Load operations.
const (
	LDontCare LoadOp = iota
	LClear
	LLoad
)

// StoreOp is the type of an attachment's store operation.
type StoreOp int

// Store operations.
const (
	SDontCare StoreOp = iota
	SStore
)

// RenderPass is the interface that defines a render pass
// object created by the underlying implementation.
type RenderPass interface {
	Destroyer

	// NewFB creates a new framebuffer.
	// Each image view in iv correspond to the render pass'
	// attachment of same index.
	NewFB(iv []ImageView, width, height, layers int) (Framebuf, error)
}

// Framebuf is the interface that defines the render targets
// of a render pass.
type Framebuf interface {
	Destroyer
}

// ClearValue defines clear values for color or depth/stencil
// aspects of a render target.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

// Stage is a mask of programmable stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SFragment
	SCompute
)

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Read/write buffer.
	DBuffer DescType = iota
	// Read/write image.
	DImage
	// Constant buffer.
	DConstant
	// Sampled texture.
	DTexture
	// Texture sampler.
	DSampler
	// Read/write buffer with dynamic offset.
	DDynBuffer
	// Constant buffer with dynamic offset.
	DDynConstant
)

// IsDynamic returns whether t consumes a dynamic offset
// when bound.
func (t DescType) IsDynamic() bool { return t == DDynBuffer || t == DDynConstant }

// Descriptor describes data for use in shaders.
type Descriptor struct {
	Type   DescType
	Stages Stage
	Nr     int
	Len    int
}

// DescSetLayout is the interface that defines the layout
// of a descriptor set.
type DescSetLayout interface {
	Destroyer

	// Descriptors returns the descriptors of the layout.
	// The caller must not modify the returned slice.
	Descriptors() []Descriptor
}

// DescSet is the interface that defines a descriptor set.
type DescSet interface {
	Destroyer

	// Layout returns the layout from which the set
	// was allocated.
	Layout() DescSetLayout
}

// PushRange describes a range of push constants accessible
// from a set of programmable stages.
type PushRange struct {
	Stages Stage
	Off    int
	Size   int
}

// PipelineLayout is the interface that defines the resource
// interface of a pipeline.
type PipelineLayout interface {
	Destroyer

	// SetLayouts returns the descriptor set layouts.
	// The caller must not modify the returned slice.
	SetLayouts() []DescSetLayout

	// PushRanges returns the push constant ranges.
	// The caller must not modify the returned slice.
	PushRanges() []PushRange
}

// BindPoint is the type of pipeline bind points.
type BindPoint int

// Bind points.
const (
	BindGraphics BindPoint = iota
	BindCompute
)

// Pipeline is the interface that defines a GPU pipeline.
type Pipeline interface {
	Destroyer

	// BindPoint returns the bind point of the pipeline.
	BindPoint() BindPoint

	// Layout returns the pipeline layout.
	Layout() PipelineLayout
}

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// Viewport defines the bounds of a viewport.
type Viewport struct {
	X, Y, Width, Height, Znear, Zfar float32
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}

// StencilFace is a mask of stencil faces.
type StencilFace int

// Stencil faces.
const (
	FaceFront StencilFace = 1 << iota
	FaceBack
	FaceBoth StencilFace = FaceFront | FaceBack
)

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders.
	UShaderWrite
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UShaderConst
	// The resource can be sampled in shaders.
	// Valid only for Image.
	UShaderSample
	// The resource can provide vertex data for draw calls.
	// Valid only for Buffer.
	UVertexData
	// The resource can provide index data for draw calls.
	// Valid only for Buffer.
	UIndexData
	// The resource can provide indirect draw parameters.
	// Valid only for Buffer.
	UIndirectData
	// The resource can be used as render target.
	// Valid only for Image.
	URenderTarget
	// The resource can be the source of copy commands.
	UCopySrc
	// The resource can be the destination of copy, fill
	// and update commands.
	UCopyDst
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// Buffer is the interface that defines a GPU buffer.
type Buffer interface {
	Destroyer

	// Cap returns the capacity of the buffer in bytes.
	// This value is immutable.
	Cap() int64

	// Usage returns the valid uses of the buffer.
	Usage() Usage
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// Image is the interface that defines a GPU image.
type Image interface {
	Destroyer

	// Format returns the pixel format.
	Format() PixelFmt

	// Size returns the size of the base level.
	Size() Dim3D

	// Layers returns the number of array layers.
	Layers() int

	// Levels returns the number of mip levels.
	Levels() int

	// Samples returns the sample count.
	Samples() int

	// Usage returns the valid uses of the image.
	Usage() Usage
}

// ImageView is the interface that defines a typed view of
// an Image resource.
type ImageView interface {
	Destroyer

	// Image returns the viewed image.
	Image() Image

	// Format returns the format of the view.
	Format() PixelFmt

	// Samples returns the sample count.
	Samples() int

	// Size returns the size of the viewed level.
	Size() Dim3D

	// Layers returns the number of viewed layers.
	Layers() int
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)
