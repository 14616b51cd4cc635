// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package trace

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
)

// Op is a single raw call recorded by a Sink.
type Op struct {
	Name string
	Args []any
}

// String implements fmt.Stringer.
func (op Op) String() string {
	var sb strings.Builder
	sb.WriteString(op.Name)
	sb.WriteByte('(')
	for i, a := range op.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, a)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Errors returned by Sink's Begin and End methods.
var (
	ErrBegun    = errors.New("trace: sink already recording")
	ErrNotBegun = errors.New("trace: sink not recording")
)

// Sink implements driver.Sink by recording every call.
type Sink struct {
	secondary bool
	begun     bool
	ended     bool
	ops       []Op

	cont    bool
	rp      driver.RenderPass
	fb      driver.Framebuf
	subpass int
}

// NewSink creates a new sink.
func NewSink(secondary bool) *Sink { return &Sink{secondary: secondary} }

// Secondary returns whether s records a secondary
// command buffer.
func (s *Sink) Secondary() bool { return s.secondary }

// Continue implements driver.Continuer.
func (s *Sink) Continue(pass driver.RenderPass, fb driver.Framebuf, subpass int) {
	s.cont = true
	s.rp = pass
	s.fb = fb
	s.subpass = subpass
}

// Continued returns the arguments of the last call to
// Continue, if any.
func (s *Sink) Continued() (pass driver.RenderPass, fb driver.Framebuf, subpass int, ok bool) {
	return s.rp, s.fb, s.subpass, s.cont
}

// Ops returns the recorded calls, excluding Begin and End.
// The caller must not modify the returned slice.
func (s *Sink) Ops() []Op { return s.ops }

// Names returns the name of each recorded call.
func (s *Sink) Names() []string {
	names := make([]string, len(s.ops))
	for i := range s.ops {
		names[i] = s.ops[i].Name
	}
	return names
}

// Ended returns whether End was called successfully.
func (s *Sink) Ended() bool { return s.ended }

func (s *Sink) push(name string, args ...any) {
	s.ops = append(s.ops, Op{Name: name, Args: args})
}

// Begin implements driver.Sink.
func (s *Sink) Begin() error {
	if s.begun {
		return ErrBegun
	}
	s.begun = true
	s.ended = false
	s.ops = s.ops[:0]
	return nil
}

// End implements driver.Sink.
func (s *Sink) End() error {
	if !s.begun {
		return ErrNotBegun
	}
	s.begun = false
	s.ended = true
	return nil
}

// SetPipeline implements driver.Sink.
func (s *Sink) SetPipeline(pl driver.Pipeline) { s.push("SetPipeline", pl.BindPoint()) }

// SetDescSets implements driver.Sink.
func (s *Sink) SetDescSets(bp driver.BindPoint, _ driver.PipelineLayout, first int, set []driver.DescSet, dynOff []uint32) {
	s.push("SetDescSets", bp, first, len(set), append([]uint32(nil), dynOff...))
}

// SetVertexBuf implements driver.Sink.
func (s *Sink) SetVertexBuf(first int, buf []driver.Buffer, off []int64) {
	s.push("SetVertexBuf", first, len(buf), append([]int64(nil), off...))
}

// SetIndexBuf implements driver.Sink.
func (s *Sink) SetIndexBuf(format driver.IndexFmt, _ driver.Buffer, off int64) {
	s.push("SetIndexBuf", format, off)
}

// SetViewport implements driver.Sink.
func (s *Sink) SetViewport(first int, vp []driver.Viewport) {
	s.push("SetViewport", first, append([]driver.Viewport(nil), vp...))
}

// SetScissor implements driver.Sink.
func (s *Sink) SetScissor(first int, sciss []driver.Scissor) {
	s.push("SetScissor", first, append([]driver.Scissor(nil), sciss...))
}

// SetLineWidth implements driver.Sink.
func (s *Sink) SetLineWidth(width float32) { s.push("SetLineWidth", width) }

// SetDepthBias implements driver.Sink.
func (s *Sink) SetDepthBias(value, clamp, slope float32) {
	s.push("SetDepthBias", value, clamp, slope)
}

// SetBlendColor implements driver.Sink.
func (s *Sink) SetBlendColor(r, g, b, a float32) { s.push("SetBlendColor", r, g, b, a) }

// SetDepthBounds implements driver.Sink.
func (s *Sink) SetDepthBounds(min, max float32) { s.push("SetDepthBounds", min, max) }

// SetStencilCompareMask implements driver.Sink.
func (s *Sink) SetStencilCompareMask(face driver.StencilFace, mask uint32) {
	s.push("SetStencilCompareMask", face, mask)
}

// SetStencilWriteMask implements driver.Sink.
func (s *Sink) SetStencilWriteMask(face driver.StencilFace, mask uint32) {
	s.push("SetStencilWriteMask", face, mask)
}

// SetStencilRef implements driver.Sink.
func (s *Sink) SetStencilRef(face driver.StencilFace, value uint32) {
	s.push("SetStencilRef", face, value)
}

// PushConstants implements driver.Sink.
func (s *Sink) PushConstants(_ driver.PipelineLayout, stages driver.Stage, off int, data []byte) {
	s.push("PushConstants", stages, off, len(data))
}

// Draw implements driver.Sink.
func (s *Sink) Draw(vertCount, instCount, baseVert, baseInst int) {
	s.push("Draw", vertCount, instCount, baseVert, baseInst)
}

// DrawIndexed implements driver.Sink.
func (s *Sink) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	s.push("DrawIndexed", idxCount, instCount, baseIdx, vertOff, baseInst)
}

// DrawIndirect implements driver.Sink.
func (s *Sink) DrawIndirect(indexed bool, _ driver.Buffer, off int64, count, stride int) {
	s.push("DrawIndirect", indexed, off, count, stride)
}

// Dispatch implements driver.Sink.
func (s *Sink) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	s.push("Dispatch", grpCountX, grpCountY, grpCountZ)
}

// CopyBuffer implements driver.Sink.
func (s *Sink) CopyBuffer(_, _ driver.Buffer, reg []driver.BufferRegion) {
	s.push("CopyBuffer", append([]driver.BufferRegion(nil), reg...))
}

// CopyImage implements driver.Sink.
func (s *Sink) CopyImage(_ driver.Image, fromLay driver.Layout, _ driver.Image, toLay driver.Layout, reg []driver.ImageRegion) {
	s.push("CopyImage", fromLay, toLay, append([]driver.ImageRegion(nil), reg...))
}

// CopyBufToImg implements driver.Sink.
func (s *Sink) CopyBufToImg(_ driver.Buffer, _ driver.Image, lay driver.Layout, reg []driver.BufImgRegion) {
	s.push("CopyBufToImg", lay, append([]driver.BufImgRegion(nil), reg...))
}

// CopyImgToBuf implements driver.Sink.
func (s *Sink) CopyImgToBuf(_ driver.Image, lay driver.Layout, _ driver.Buffer, reg []driver.BufImgRegion) {
	s.push("CopyImgToBuf", lay, append([]driver.BufImgRegion(nil), reg...))
}

// Blit implements driver.Sink.
func (s *Sink) Blit(_ driver.Image, fromLay driver.Layout, _ driver.Image, toLay driver.Layout, reg []driver.BlitRegion, filter driver.Filter) {
	s.push("Blit", fromLay, toLay, append([]driver.BlitRegion(nil), reg...), filter)
}

// Resolve implements driver.Sink.
func (s *Sink) Resolve(_ driver.Image, fromLay driver.Layout, _ driver.Image, toLay driver.Layout, reg []driver.ImageRegion) {
	s.push("Resolve", fromLay, toLay, append([]driver.ImageRegion(nil), reg...))
}

// Fill implements driver.Sink.
func (s *Sink) Fill(_ driver.Buffer, off, size int64, value uint32) {
	s.push("Fill", off, size, value)
}

// Update implements driver.Sink.
func (s *Sink) Update(_ driver.Buffer, off int64, data []byte) {
	s.push("Update", off, len(data))
}

// ClearAttachments implements driver.Sink.
func (s *Sink) ClearAttachments(att []driver.ClearAttachment, rect []driver.ClearRect) {
	s.push("ClearAttachments", len(att), len(rect))
}

// Barrier implements driver.Sink.
func (s *Sink) Barrier(before, after driver.Sync, byRegion bool, b []driver.Barrier, bb []driver.BufBarrier, t []driver.Transition) {
	s.push("Barrier", before, after, byRegion, len(b), len(bb), len(t))
}

// SetEvent implements driver.Sink.
func (s *Sink) SetEvent(_ driver.Event, stg driver.Sync) { s.push("SetEvent", stg) }

// ResetEvent implements driver.Sink.
func (s *Sink) ResetEvent(_ driver.Event, stg driver.Sync) { s.push("ResetEvent", stg) }

// BeginPass implements driver.Sink.
func (s *Sink) BeginPass(_ driver.RenderPass, _ driver.Framebuf, area driver.Scissor, clear []driver.ClearValue, secondary bool) {
	s.push("BeginPass", area, append([]driver.ClearValue(nil), clear...), secondary)
}

// NextSubpass implements driver.Sink.
func (s *Sink) NextSubpass(secondary bool) { s.push("NextSubpass", secondary) }

// EndPass implements driver.Sink.
func (s *Sink) EndPass() { s.push("EndPass") }

// Execute implements driver.Sink.
func (s *Sink) Execute(sec []driver.Sink) { s.push("Execute", len(sec)) }
