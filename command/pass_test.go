// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/driver/trace"
	"github.com/gviegas/safecmd/pass"
)

// newFramebuf creates a 64x64 framebuffer for a single
// subpass with one cleared color attachment and, if ds is
// set, a cleared depth/stencil attachment.
func newFramebuf(t *testing.T, ds bool) *pass.Framebuf {
	t.Helper()
	color := []pass.AttachmentDesc{{
		Format:  driver.RGBA8un,
		Samples: 1,
		Load:    [2]driver.LoadOp{driver.LClear},
		Store:   [2]driver.StoreOp{driver.SStore},
		Final:   driver.LColorTarget,
	}}
	views := []driver.ImageView{
		img2D(driver.RGBA8un, 64, 64, 2, 1, 1, driver.URenderTarget).NewView(0, 2, 0),
	}
	var dsd *pass.AttachmentDesc
	if ds {
		dsd = &pass.AttachmentDesc{
			Format:  driver.D24unS8ui,
			Samples: 1,
			Load:    [2]driver.LoadOp{driver.LClear, driver.LClear},
			Final:   driver.LDSTarget,
		}
		views = append(views, img2D(driver.D24unS8ui, 64, 64, 2, 1, 1, driver.URenderTarget).NewView(0, 2, 0))
	}
	d, err := pass.Single(color, dsd)
	if err != nil {
		t.Fatalf("pass.Single: %v", err)
	}
	fb, err := pass.NewFramebuf(&lim, trace.NewRenderPass(), d, views, 64, 64, 2)
	if err != nil {
		t.Fatalf("pass.NewFramebuf: %v", err)
	}
	return fb
}

func TestClearAttachments(t *testing.T) {
	fb := newFramebuf(t, false)
	fbds := newFramebuf(t, true)
	rect := []driver.ClearRect{{Rect: driver.Scissor{Width: 64, Height: 64}, Layers: 2}}
	color := driver.ClearAttachment{Aspect: driver.AspectColor}
	depth := driver.ClearAttachment{Aspect: driver.AspectDepth}
	stencil := driver.ClearAttachment{Aspect: driver.AspectStencil}
	both := driver.ClearAttachment{Aspect: driver.AspectDepth | driver.AspectStencil}
	for _, x := range [...]struct {
		fb      *pass.Framebuf
		subpass int
		att     []driver.ClearAttachment
		rects   []driver.ClearRect
		kind    ClearAttachmentsKind
		ok      bool
	}{
		{fb, 0, []driver.ClearAttachment{color}, rect, 0, true},
		{fbds, 0, []driver.ClearAttachment{color, both}, rect, 0, true},
		{fbds, 0, []driver.ClearAttachment{stencil}, []driver.ClearRect{{Rect: driver.Scissor{X: 32, Y: 32, Width: 32, Height: 32}, Layer: 1, Layers: 1}}, 0, true},
		{nil, 0, []driver.ClearAttachment{color}, rect, ClearAttachmentsNilFramebuf, false},
		{fb, 1, []driver.ClearAttachment{color}, rect, ClearAttachmentsSubpass, false},
		{fb, 0, nil, rect, ClearAttachmentsEmpty, false},
		{fb, 0, []driver.ClearAttachment{color}, nil, ClearAttachmentsNoRects, false},
		{fb, 0, []driver.ClearAttachment{color, color}, rect, ClearAttachmentsCount, false},
		{fb, 0, []driver.ClearAttachment{{}}, rect, ClearAttachmentsAspect, false},
		{fbds, 0, []driver.ClearAttachment{{Aspect: driver.AspectColor | driver.AspectDepth}}, rect, ClearAttachmentsAspect, false},
		{fb, 0, []driver.ClearAttachment{{Aspect: driver.AspectColor, Color: 1}}, rect, ClearAttachmentsColor, false},
		{fb, 0, []driver.ClearAttachment{depth}, rect, ClearAttachmentsNoDepth, false},
		{fb, 0, []driver.ClearAttachment{stencil}, rect, ClearAttachmentsNoStencil, false},
		{fb, 0, []driver.ClearAttachment{color}, []driver.ClearRect{{Rect: driver.Scissor{Width: 0, Height: 1}, Layers: 1}}, ClearAttachmentsZeroRect, false},
		{fb, 0, []driver.ClearAttachment{color}, []driver.ClearRect{{Rect: driver.Scissor{X: 1, Width: 64, Height: 1}, Layers: 1}}, ClearAttachmentsRectBounds, false},
		{fb, 0, []driver.ClearAttachment{color}, []driver.ClearRect{{Rect: driver.Scissor{Width: 1, Height: 1}, Layer: 1, Layers: 2}}, ClearAttachmentsLayer, false},
		{fb, 0, []driver.ClearAttachment{color}, []driver.ClearRect{{Rect: driver.Scissor{X: 1, Width: math.MaxInt, Height: 1}, Layers: 1}}, ClearAttachmentsRectBounds, false},
		{fb, 0, []driver.ClearAttachment{color}, []driver.ClearRect{{Rect: driver.Scissor{Width: 1, Height: 1}, Layer: 1, Layers: math.MaxInt}}, ClearAttachmentsLayer, false},
	} {
		c, err := NewClearAttachments(x.fb, x.subpass, x.att, x.rects)
		if x.ok {
			if err != nil {
				t.Errorf("NewClearAttachments(%v):\nhave %v\nwant nil", x.att, err)
				continue
			}
			if c.Framebuf() != x.fb || c.Subpass() != x.subpass {
				t.Error("NewClearAttachments: framebuffer/subpass mismatch")
			}
			continue
		}
		var e *ClearAttachmentsError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewClearAttachments(%v):\nhave %v\nwant %v", x.att, err, x.kind)
		}
	}
}

func TestBeginRenderPass(t *testing.T) {
	fb := newFramebuf(t, true)
	area := driver.Scissor{Width: 64, Height: 64}
	clear := []driver.ClearValue{{Color: [4]float32{1, 0, 0, 1}}, {Depth: 1}}

	c, err := NewBeginRenderPass(fb, area, clear, true)
	if err != nil {
		t.Fatalf("NewBeginRenderPass: %v", err)
	}
	if c.Framebuf() != fb || !c.Secondary() {
		t.Fatal("BeginRenderPass: accessors mismatch")
	}
	clear[0].Color[0] = 0
	if c.clear[0].Color[0] != 1 {
		t.Fatal("NewBeginRenderPass: command aliases caller values")
	}
	sk, r := encode(t, c)
	if n := r.Len(); n != 4 {
		t.Fatalf("Retention.Len:\nhave %d\nwant 4", n)
	}
	want := "BeginPass({0 0 64 64}, [{[1 0 0 1] 0 0} {[0 0 0 0] 1 0}], true)"
	if op := sk.Ops()[0].String(); op != want {
		t.Fatalf("BeginPass op:\nhave %s\nwant %s", op, want)
	}
	r.Release()

	_, err = NewBeginRenderPass(nil, area, clear, false)
	var e *BeginRenderPassError
	if !errors.As(err, &e) || e.Kind != BeginRenderPassNilFramebuf {
		t.Fatalf("NewBeginRenderPass(nil):\nhave %v\nwant %v", err, BeginRenderPassNilFramebuf)
	}
	_, err = NewBeginRenderPass(fb, driver.Scissor{X: 1, Width: 64, Height: 64}, clear, false)
	if !errors.As(err, &e) || e.Kind != BeginRenderPassAreaBounds || e.Expected != 64 || e.Obtained != 65 {
		t.Fatalf("NewBeginRenderPass: area\nhave %v\nwant %v", err, BeginRenderPassAreaBounds)
	}
	_, err = NewBeginRenderPass(fb, driver.Scissor{Y: 8, Width: 64, Height: math.MaxInt}, clear, false)
	if !errors.As(err, &e) || e.Kind != BeginRenderPassAreaBounds || e.Obtained != math.MaxInt64 {
		t.Fatalf("NewBeginRenderPass(huge area):\nhave %v\nwant %v", err, BeginRenderPassAreaBounds)
	}
	_, err = NewBeginRenderPass(fb, driver.Scissor{Width: 64}, clear, false)
	if !errors.As(err, &e) || e.Kind != BeginRenderPassAreaBounds {
		t.Fatalf("NewBeginRenderPass: empty area\nhave %v\nwant %v", err, BeginRenderPassAreaBounds)
	}
	_, err = NewBeginRenderPass(fb, area, clear[:1], false)
	if !errors.As(err, &e) || e.Kind != BeginRenderPassClearValues {
		t.Fatalf("NewBeginRenderPass: clear values\nhave %v\nwant %v", err, BeginRenderPassClearValues)
	}
	var cv *pass.ClearValuesError
	if !errors.As(err, &cv) || cv.Expected != 2 || cv.Obtained != 1 {
		t.Fatalf("NewBeginRenderPass: unwrap\nhave %v\nwant *pass.ClearValuesError", err)
	}

	noRP, err := pass.NewFramebuf(&lim, nil, pass.Empty, nil, 64, 64, 1)
	if err != nil {
		t.Fatalf("pass.NewFramebuf: %v", err)
	}
	_, err = NewBeginRenderPass(noRP, area, nil, false)
	if !errors.As(err, &e) || e.Kind != BeginRenderPassNoRenderPass {
		t.Fatalf("NewBeginRenderPass: no render pass\nhave %v\nwant %v", err, BeginRenderPassNoRenderPass)
	}
}

func TestSubpassCommands(t *testing.T) {
	next := NewNextSubpass(true)
	end := NewEndRenderPass()
	if !next.Secondary() {
		t.Fatal("NextSubpass.Secondary:\nhave false\nwant true")
	}
	if next.Scope() != InsidePass || end.Scope() != InsidePass {
		t.Fatal("Scope:\nhave outside\nwant inside render pass")
	}
	sk, r := encode(t, next, end)
	if n := r.Len(); n != 0 {
		t.Fatalf("Retention.Len:\nhave %d\nwant 0", n)
	}
	if have := sk.Names(); !slices.Equal(have, []string{"NextSubpass", "EndPass"}) {
		t.Fatalf("Sink.Names:\nhave %v\nwant [NextSubpass EndPass]", have)
	}
}

type fakeSecondary struct {
	sink      *trace.Sink
	secondary bool
	res       []driver.Destroyer
}

func (f *fakeSecondary) Sink() driver.Sink {
	if f == nil || f.sink == nil {
		return nil
	}
	return f.sink
}

func (f *fakeSecondary) Secondary() bool { return f != nil && f.secondary }

func (f *fakeSecondary) Continues() (*pass.Framebuf, int, bool) { return nil, 0, false }

func (f *fakeSecondary) Resources() iter.Seq[driver.Destroyer] { return slices.Values(f.res) }

func TestExecuteCommands(t *testing.T) {
	buf := trace.NewBuffer(64, driver.UGeneric)
	sec := &fakeSecondary{trace.NewSink(true), true, []driver.Destroyer{buf}}
	prim := &fakeSecondary{trace.NewSink(false), false, nil}

	for _, x := range [...]struct {
		bufs []Secondary
		want *ExecuteCommandsError
	}{
		{nil, &ExecuteCommandsError{Kind: ExecuteCommandsNoBuffers, Index: -1}},
		{[]Secondary{sec, nil}, &ExecuteCommandsError{Kind: ExecuteCommandsNilBuffer, Index: 1}},
		{[]Secondary{prim}, &ExecuteCommandsError{Kind: ExecuteCommandsNotSecondary, Index: 0}},
		{[]Secondary{sec, (*fakeSecondary)(nil)}, &ExecuteCommandsError{Kind: ExecuteCommandsNilBuffer, Index: 1}},
		{[]Secondary{&fakeSecondary{secondary: true}}, &ExecuteCommandsError{Kind: ExecuteCommandsNilBuffer, Index: 0}},
	} {
		_, err := NewExecuteCommands(x.bufs)
		var e *ExecuteCommandsError
		if !errors.As(err, &e) || *e != *x.want {
			t.Errorf("NewExecuteCommands:\nhave %v\nwant %v", err, x.want)
		}
	}

	c, err := NewExecuteCommands([]Secondary{sec, sec})
	if err != nil {
		t.Fatalf("NewExecuteCommands: %v", err)
	}
	if n := len(c.Buffers()); n != 2 {
		t.Fatalf("ExecuteCommands.Buffers:\nhave %d\nwant 2", n)
	}
	sk, r := encode(t, c)
	if op := sk.Ops()[0].String(); op != "Execute(2)" {
		t.Fatalf("Execute op:\nhave %s\nwant Execute(2)", op)
	}
	if n := buf.Count(); n != 3 {
		t.Fatalf("Buffer.Count:\nhave %d\nwant 3", n)
	}
	r.Release()
	if n := buf.Count(); n != 1 {
		t.Fatalf("Buffer.Count:\nhave %d\nwant 1", n)
	}
}
