// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/driver/trace"
)

func TestBindPipeline(t *testing.T) {
	if _, err := NewBindPipeline(nil); err == nil {
		t.Fatal("NewBindPipeline(nil):\nhave nil\nwant error")
	}
	pl := trace.NewPipeline(driver.BindCompute, trace.NewPipelineLayout(nil, nil))
	defer pl.Destroy()
	c, err := NewBindPipeline(pl)
	if err != nil {
		t.Fatalf("NewBindPipeline: %v", err)
	}
	if c.Pipeline() != pl {
		t.Fatal("BindPipeline.Pipeline: mismatch")
	}
	if s := c.Scope(); s != Anywhere {
		t.Fatalf("BindPipeline.Scope:\nhave %v\nwant %v", s, Anywhere)
	}
}

func TestBindDescSets(t *testing.T) {
	dyn := []driver.Descriptor{
		{Type: driver.DDynConstant, Stages: driver.SVertex, Nr: 0, Len: 2},
		{Type: driver.DTexture, Stages: driver.SFragment, Nr: 1, Len: 1},
	}
	static := []driver.Descriptor{
		{Type: driver.DConstant, Stages: driver.SVertex, Nr: 0, Len: 1},
	}
	l0 := trace.NewDescSetLayout(static)
	l1 := trace.NewDescSetLayout(dyn)
	// Same descriptors as l1, distinct object.
	l1b := trace.NewDescSetLayout(dyn)
	layout := trace.NewPipelineLayout([]driver.DescSetLayout{l0, l1}, nil)
	pl := trace.NewPipeline(driver.BindGraphics, layout)
	s0 := trace.NewDescSet(l0)
	s1 := trace.NewDescSet(l1)
	s1b := trace.NewDescSet(l1b)

	for _, x := range [...]struct {
		pl     driver.Pipeline
		first  int
		sets   []driver.DescSet
		dynOff []uint32
		kind   BindDescSetsKind
		ok     bool
	}{
		{pl, 0, []driver.DescSet{s0, s1}, []uint32{0, 256}, 0, true},
		{pl, 1, []driver.DescSet{s1b}, []uint32{16, 32}, 0, true},
		{pl, 0, []driver.DescSet{s0}, nil, 0, true},
		{nil, 0, []driver.DescSet{s0}, nil, BindDescSetsNilPipeline, false},
		{pl, 0, nil, nil, BindDescSetsEmpty, false},
		{pl, 1, []driver.DescSet{s1, s1}, []uint32{0, 0, 0, 0}, BindDescSetsRange, false},
		{pl, -1, []driver.DescSet{s0}, nil, BindDescSetsRange, false},
		{pl, 0, []driver.DescSet{nil}, nil, BindDescSetsNilSet, false},
		{pl, 0, []driver.DescSet{s1}, []uint32{0, 0}, BindDescSetsIncompatible, false},
		{pl, 1, []driver.DescSet{s1}, []uint32{0}, BindDescSetsDynOffCount, false},
		{pl, 1, []driver.DescSet{s1}, nil, BindDescSetsDynOffCount, false},
		{pl, 1, []driver.DescSet{s1}, []uint32{0, 2}, BindDescSetsDynOffAlign, false},
	} {
		c, err := NewBindDescSets(&lim, x.pl, x.first, x.sets, x.dynOff)
		if x.ok {
			if err != nil || c == nil {
				t.Errorf("NewBindDescSets(%d, %d sets):\nhave %v\nwant nil", x.first, len(x.sets), err)
			}
			continue
		}
		var e *BindDescSetsError
		if !errors.As(err, &e) {
			t.Errorf("NewBindDescSets(%d, %d sets):\nhave %v\nwant *BindDescSetsError", x.first, len(x.sets), err)
			continue
		}
		if e.Kind != x.kind {
			t.Errorf("BindDescSetsError.Kind:\nhave %v\nwant %v", e.Kind, x.kind)
		}
	}

	small := lim
	small.MaxDescSets = 1
	_, err := NewBindDescSets(&small, pl, 0, []driver.DescSet{s0}, nil)
	var e *BindDescSetsError
	if !errors.As(err, &e) || e.Kind != BindDescSetsLimit || e.Expected != 1 || e.Obtained != 2 {
		t.Fatalf("NewBindDescSets: limit\nhave %v\nwant %v", err, &BindDescSetsError{Kind: BindDescSetsLimit, Set: -1, Expected: 1, Obtained: 2})
	}

	want := BindDescSetsError{Kind: BindDescSetsDynOffAlign, Set: -1, Expected: 4, Obtained: 6}
	_, err = NewBindDescSets(&lim, pl, 1, []driver.DescSet{s1}, []uint32{8, 6})
	if !errors.As(err, &e) || *e != want {
		t.Fatalf("NewBindDescSets: misaligned offset\nhave %v\nwant %v", err, &want)
	}

	c, err := NewBindDescSets(&lim, pl, 0, []driver.DescSet{s0, s1}, []uint32{0, 256})
	if err != nil {
		t.Fatalf("NewBindDescSets: %v", err)
	}
	sk, r := encode(t, c)
	if n := r.Len(); n != 3 {
		t.Fatalf("Retention.Len:\nhave %d\nwant 3", n)
	}
	if op := sk.Ops()[0].String(); op != "SetDescSets(0, 0, 2, [0 256])" {
		t.Fatalf("SetDescSets op:\nhave %s\nwant SetDescSets(0, 0, 2, [0 256])", op)
	}
	r.Release()
	if n := s1.Count(); n != 1 {
		t.Fatalf("DescSet.Count:\nhave %d\nwant 1", n)
	}
}

func TestBindVertexBufs(t *testing.T) {
	vb := trace.NewBuffer(1024, driver.UVertexData)
	ib := trace.NewBuffer(1024, driver.UIndexData)
	for _, x := range [...]struct {
		first int
		bufs  []driver.Buffer
		offs  []int64
		kind  BindVertexBufsKind
		ok    bool
	}{
		{0, []driver.Buffer{vb}, []int64{0}, 0, true},
		{2, []driver.Buffer{vb, vb}, []int64{0, 1023}, 0, true},
		{0, nil, nil, BindVertexBufsEmpty, false},
		{0, []driver.Buffer{vb}, []int64{0, 0}, BindVertexBufsLength, false},
		{0, []driver.Buffer{nil}, []int64{0}, BindVertexBufsNil, false},
		{0, []driver.Buffer{vb}, []int64{1024}, BindVertexBufsOffset, false},
		{0, []driver.Buffer{vb}, []int64{-4}, BindVertexBufsOffset, false},
		{0, []driver.Buffer{vb, ib}, []int64{0, 0}, BindVertexBufsUsage, false},
		{lim.MaxVertexBufs, []driver.Buffer{vb}, []int64{0}, BindVertexBufsLimit, false},
	} {
		_, err := NewBindVertexBufs(&lim, x.first, x.bufs, x.offs)
		if x.ok {
			if err != nil {
				t.Errorf("NewBindVertexBufs:\nhave %v\nwant nil", err)
			}
			continue
		}
		var e *BindVertexBufsError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewBindVertexBufs:\nhave %v\nwant %v", err, x.kind)
		}
	}

	bufs := []driver.Buffer{vb}
	offs := []int64{16}
	c, err := NewBindVertexBufs(&lim, 0, bufs, offs)
	if err != nil {
		t.Fatalf("NewBindVertexBufs: %v", err)
	}
	bufs[0] = ib
	offs[0] = 0
	if c.bufs[0] != vb || c.offs[0] != 16 {
		t.Fatal("NewBindVertexBufs: command aliases caller slices")
	}
}

func TestBindIndexBuf(t *testing.T) {
	ib := trace.NewBuffer(1024, driver.UIndexData)
	vb := trace.NewBuffer(1024, driver.UVertexData)
	for _, x := range [...]struct {
		buf    driver.Buffer
		off    int64
		format driver.IndexFmt
		kind   BindIndexBufKind
		ok     bool
	}{
		{ib, 0, driver.Index16, 0, true},
		{ib, 1020, driver.Index32, 0, true},
		{nil, 0, driver.Index16, BindIndexBufNil, false},
		{ib, 0, driver.IndexFmt(3), BindIndexBufFormat, false},
		{ib, 2, driver.Index32, BindIndexBufAlign, false},
		{ib, 1024, driver.Index16, BindIndexBufOffset, false},
		{ib, -2, driver.Index16, BindIndexBufOffset, false},
		{vb, 0, driver.Index16, BindIndexBufUsage, false},
	} {
		_, err := NewBindIndexBuf(x.buf, x.off, x.format)
		if x.ok {
			if err != nil {
				t.Errorf("NewBindIndexBuf(%d, %d):\nhave %v\nwant nil", x.off, x.format, err)
			}
			continue
		}
		var e *BindIndexBufError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewBindIndexBuf(%d, %d):\nhave %v\nwant %v", x.off, x.format, err, x.kind)
		}
	}
}

func TestDraw(t *testing.T) {
	if _, err := NewDraw(3, 1, 0, 0); err != nil {
		t.Fatalf("NewDraw: %v", err)
	}
	if _, err := NewDraw(0, 0, 0, 0); err != nil {
		t.Fatalf("NewDraw(0, 0, 0, 0): %v", err)
	}
	for _, x := range [...]struct {
		args [4]int
		kind DrawKind
		name string
	}{
		{[4]int{-1, 1, 0, 0}, DrawNegative, "vertex count"},
		{[4]int{3, -1, 0, 0}, DrawNegative, "instance count"},
		{[4]int{3, 1, math.MaxUint32 + 1, 0}, DrawOverflow, "base vertex"},
		{[4]int{3, 1, 0, -10}, DrawNegative, "base instance"},
	} {
		_, err := NewDraw(x.args[0], x.args[1], x.args[2], x.args[3])
		var e *DrawError
		if !errors.As(err, &e) || e.Kind != x.kind || e.Param != x.name {
			t.Errorf("NewDraw(%v):\nhave %v\nwant %v (%s)", x.args, err, x.kind, x.name)
		}
	}

	if _, err := NewDrawIndexed(6, 1, 0, -100, 0); err != nil {
		t.Fatalf("NewDrawIndexed: %v", err)
	}
	_, err := NewDrawIndexed(6, 1, 0, math.MaxInt32+1, 0)
	var e *DrawError
	if !errors.As(err, &e) || e.Kind != DrawOverflow || e.Param != "vertex offset" {
		t.Fatalf("NewDrawIndexed: vertex offset\nhave %v\nwant %v", err, DrawOverflow)
	}
	_, err = NewDrawIndexed(-6, 1, 0, 0, 0)
	if !errors.As(err, &e) || e.Kind != DrawNegative || e.Param != "index count" {
		t.Fatalf("NewDrawIndexed: index count\nhave %v\nwant %v", err, DrawNegative)
	}
}

func TestDrawIndirect(t *testing.T) {
	buf := trace.NewBuffer(256, driver.UIndirectData)
	vb := trace.NewBuffer(256, driver.UVertexData)
	many := lim
	many.MaxDrawIndirect = 16
	huge := lim
	huge.MaxDrawIndirect = 1 << 30
	for _, x := range [...]struct {
		lim     *driver.Limits
		buf     driver.Buffer
		off     int64
		count   int
		stride  int
		indexed bool
		kind    DrawIndirectKind
		ok      bool
	}{
		{&lim, buf, 0, 1, 0, false, 0, true},
		{&lim, buf, 240, 1, 0, false, 0, true},
		{&lim, buf, 0, 0, 0, true, 0, true},
		{&many, buf, 0, 8, 32, true, 0, true},
		{&many, buf, 0, 12, 20, true, 0, true},
		{&lim, nil, 0, 1, 0, false, DrawIndirectNil, false},
		{&lim, buf, 0, -1, 0, false, DrawIndirectNegative, false},
		{&lim, buf, 0, 2, 16, false, DrawIndirectLimit, false},
		{&lim, buf, 2, 1, 0, false, DrawIndirectAlign, false},
		{&many, buf, 0, 2, 12, false, DrawIndirectStride, false},
		{&many, buf, 0, 2, 18, false, DrawIndirectStride, false},
		{&many, buf, 0, 2, 16, true, DrawIndirectStride, false},
		{&lim, buf, 244, 1, 0, false, DrawIndirectRange, false},
		{&many, buf, 0, 16, 20, true, DrawIndirectRange, false},
		{&huge, buf, 0, 1 << 30, 1 << 40, false, DrawIndirectRange, false},
		{&huge, buf, 16, 2, 1 << 62, true, DrawIndirectRange, false},
		{&lim, vb, 0, 1, 0, false, DrawIndirectUsage, false},
	} {
		_, err := NewDrawIndirect(x.lim, x.buf, x.off, x.count, x.stride, x.indexed)
		if x.ok {
			if err != nil {
				t.Errorf("NewDrawIndirect(%d, %d, %d):\nhave %v\nwant nil", x.off, x.count, x.stride, err)
			}
			continue
		}
		var e *DrawIndirectError
		if !errors.As(err, &e) || e.Kind != x.kind {
			t.Errorf("NewDrawIndirect(%d, %d, %d):\nhave %v\nwant %v", x.off, x.count, x.stride, err, x.kind)
		}
	}
}

func TestDispatch(t *testing.T) {
	c, err := NewDispatch(&lim, 1, 2, 3)
	if err != nil {
		t.Fatalf("NewDispatch: %v", err)
	}
	if s := c.Scope(); s != OutsidePass {
		t.Fatalf("Dispatch.Scope:\nhave %v\nwant %v", s, OutsidePass)
	}
	sk, _ := encode(t, c)
	if op := sk.Ops()[0].String(); op != "Dispatch(1, 2, 3)" {
		t.Fatalf("Dispatch op:\nhave %s\nwant Dispatch(1, 2, 3)", op)
	}
	for _, x := range [...]struct {
		grp  [3]int
		want DispatchError
	}{
		{[3]int{-1, 1, 1}, DispatchError{Kind: DispatchNegative, Axis: 0, Obtained: -1}},
		{[3]int{1, 65536, 1}, DispatchError{Kind: DispatchLimit, Axis: 1, Expected: 65535, Obtained: 65536}},
		{[3]int{1, 1, 70000}, DispatchError{Kind: DispatchLimit, Axis: 2, Expected: 65535, Obtained: 70000}},
	} {
		_, err := NewDispatch(&lim, x.grp[0], x.grp[1], x.grp[2])
		var e *DispatchError
		if !errors.As(err, &e) || *e != x.want {
			t.Errorf("NewDispatch(%v):\nhave %v\nwant %v", x.grp, err, &x.want)
		}
	}
}
