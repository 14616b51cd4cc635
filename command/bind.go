// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"slices"

	"github.com/gviegas/safecmd/driver"
)

// BindPipeline binds a pipeline.
type BindPipeline struct {
	pl driver.Pipeline
}

// BindPipelineKind identifies a BindPipelineError.
type BindPipelineKind int

// BindPipeline error kinds.
const (
	BindPipelineNil BindPipelineKind = iota
)

// String implements fmt.Stringer.
func (k BindPipelineKind) String() string {
	return kindString([]string{"nil pipeline"}, int(k), "BindPipelineKind")
}

// BindPipelineError is the error returned by
// NewBindPipeline.
type BindPipelineError struct {
	Kind BindPipelineKind
}

func (e *BindPipelineError) Error() string {
	return errText("bind pipeline", e.Kind, "", -1, false, 0, 0)
}

// NewBindPipeline creates a new BindPipeline command.
func NewBindPipeline(pl driver.Pipeline) (*BindPipeline, error) {
	if pl == nil {
		return nil, &BindPipelineError{Kind: BindPipelineNil}
	}
	return &BindPipeline{pl}, nil
}

// Name implements Command.
func (*BindPipeline) Name() string { return "BindPipeline" }

// Scope implements Command.
func (*BindPipeline) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *BindPipeline) Encode(s driver.Sink, r *Retention) {
	s.SetPipeline(c.pl)
	r.Add(c.pl)
}

// Pipeline returns the pipeline to bind.
func (c *BindPipeline) Pipeline() driver.Pipeline { return c.pl }

// BindDescSets binds descriptor sets for use with a
// pipeline.
type BindDescSets struct {
	pl     driver.Pipeline
	first  int
	sets   []driver.DescSet
	dynOff []uint32
}

// BindDescSetsKind identifies a BindDescSetsError.
type BindDescSetsKind int

// BindDescSets error kinds.
const (
	// The pipeline is nil.
	BindDescSetsNilPipeline BindDescSetsKind = iota
	// No sets were given.
	BindDescSetsEmpty
	// The set range is not within the pipeline layout.
	BindDescSetsRange
	// A set is nil.
	BindDescSetsNilSet
	// A set's layout is not compatible with the
	// pipeline layout at the same set number.
	BindDescSetsIncompatible
	// The number of dynamic offsets differs from the
	// number of dynamic descriptors.
	BindDescSetsDynOffCount
	// A dynamic offset is not a multiple of 4.
	BindDescSetsDynOffAlign
	// The pipeline layout has more sets than the device
	// can bind.
	BindDescSetsLimit
)

var bindDescSetsKinds = [...]string{
	BindDescSetsNilPipeline:  "nil pipeline",
	BindDescSetsEmpty:        "no descriptor sets",
	BindDescSetsRange:        "set range out of layout bounds",
	BindDescSetsNilSet:       "nil descriptor set",
	BindDescSetsIncompatible: "set layout incompatible with pipeline layout",
	BindDescSetsDynOffCount:  "dynamic offset count mismatch",
	BindDescSetsDynOffAlign:  "misaligned dynamic offset",
	BindDescSetsLimit:        "too many descriptor sets",
}

// String implements fmt.Stringer.
func (k BindDescSetsKind) String() string {
	return kindString(bindDescSetsKinds[:], int(k), "BindDescSetsKind")
}

// BindDescSetsError is the error returned by
// NewBindDescSets.
// Set is the set number at fault, or -1.
// For BindDescSetsDynOffAlign, Expected is the required
// alignment and Obtained is the misaligned offset.
type BindDescSetsError struct {
	Kind     BindDescSetsKind
	Set      int
	Expected int64
	Obtained int64
}

func (e *BindDescSetsError) Error() string {
	nums := e.Kind == BindDescSetsRange || e.Kind == BindDescSetsDynOffCount || e.Kind == BindDescSetsLimit || e.Kind == BindDescSetsDynOffAlign
	return errText("bind descriptor sets", e.Kind, "set", e.Set, nums, e.Expected, e.Obtained)
}

// compatibleSetLayouts returns whether descriptor sets
// allocated from a can be bound where b is expected.
func compatibleSetLayouts(a, b driver.DescSetLayout) bool {
	return a == b || slices.Equal(a.Descriptors(), b.Descriptors())
}

// numDynamic returns the number of dynamic offsets that
// binding a set of layout l consumes.
func numDynamic(l driver.DescSetLayout) int {
	n := 0
	for _, d := range l.Descriptors() {
		if d.Type.IsDynamic() {
			n += max(d.Len, 1)
		}
	}
	return n
}

// NewBindDescSets creates a new BindDescSets command.
// sets are bound starting at set number first, and must be
// compatible with the set layouts of pl's layout.
// dynOff provides one offset per dynamic descriptor array
// element, in set and descriptor order.
func NewBindDescSets(lim *driver.Limits, pl driver.Pipeline, first int, sets []driver.DescSet, dynOff []uint32) (*BindDescSets, error) {
	if pl == nil {
		return nil, &BindDescSetsError{Kind: BindDescSetsNilPipeline, Set: -1}
	}
	if len(sets) == 0 {
		return nil, &BindDescSetsError{Kind: BindDescSetsEmpty, Set: -1}
	}
	layouts := pl.Layout().SetLayouts()
	if n := len(layouts); n > lim.MaxDescSets {
		return nil, &BindDescSetsError{Kind: BindDescSetsLimit, Set: -1, Expected: int64(lim.MaxDescSets), Obtained: int64(n)}
	}
	if !within(first, len(sets), len(layouts)) {
		return nil, &BindDescSetsError{Kind: BindDescSetsRange, Set: first, Expected: int64(len(layouts)), Obtained: end(first, len(sets))}
	}
	ndyn := 0
	for i, s := range sets {
		if s == nil {
			return nil, &BindDescSetsError{Kind: BindDescSetsNilSet, Set: first + i}
		}
		if !compatibleSetLayouts(s.Layout(), layouts[first+i]) {
			return nil, &BindDescSetsError{Kind: BindDescSetsIncompatible, Set: first + i}
		}
		ndyn += numDynamic(s.Layout())
	}
	if ndyn != len(dynOff) {
		return nil, &BindDescSetsError{Kind: BindDescSetsDynOffCount, Set: -1, Expected: int64(ndyn), Obtained: int64(len(dynOff))}
	}
	for _, off := range dynOff {
		if off%4 != 0 {
			return nil, &BindDescSetsError{Kind: BindDescSetsDynOffAlign, Set: -1, Expected: 4, Obtained: int64(off)}
		}
	}
	return &BindDescSets{
		pl:     pl,
		first:  first,
		sets:   clone(sets),
		dynOff: clone(dynOff),
	}, nil
}

// Name implements Command.
func (*BindDescSets) Name() string { return "BindDescSets" }

// Scope implements Command.
func (*BindDescSets) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *BindDescSets) Encode(s driver.Sink, r *Retention) {
	s.SetDescSets(c.pl.BindPoint(), c.pl.Layout(), c.first, c.sets, c.dynOff)
	r.Add(c.pl.Layout())
	for _, x := range c.sets {
		r.Add(x)
	}
}

// BindVertexBufs binds vertex buffers.
type BindVertexBufs struct {
	first int
	bufs  []driver.Buffer
	offs  []int64
}

// BindVertexBufsKind identifies a BindVertexBufsError.
type BindVertexBufsKind int

// BindVertexBufs error kinds.
const (
	// No buffers were given.
	BindVertexBufsEmpty BindVertexBufsKind = iota
	// The number of offsets differs from the number of
	// buffers.
	BindVertexBufsLength
	// A buffer is nil.
	BindVertexBufsNil
	// An offset is not within its buffer.
	BindVertexBufsOffset
	// A buffer lacks driver.UVertexData usage.
	BindVertexBufsUsage
	// The binding range exceeds the device limit.
	BindVertexBufsLimit
)

var bindVertexBufsKinds = [...]string{
	BindVertexBufsEmpty:  "no vertex buffers",
	BindVertexBufsLength: "offset count mismatch",
	BindVertexBufsNil:    "nil buffer",
	BindVertexBufsOffset: "offset out of range",
	BindVertexBufsUsage:  "buffer lacks vertex data usage",
	BindVertexBufsLimit:  "too many vertex bindings",
}

// String implements fmt.Stringer.
func (k BindVertexBufsKind) String() string {
	return kindString(bindVertexBufsKinds[:], int(k), "BindVertexBufsKind")
}

// BindVertexBufsError is the error returned by
// NewBindVertexBufs.
// Buffer is the index of the buffer at fault, or -1.
type BindVertexBufsError struct {
	Kind     BindVertexBufsKind
	Buffer   int
	Expected int64
	Obtained int64
}

func (e *BindVertexBufsError) Error() string {
	nums := e.Kind == BindVertexBufsLength || e.Kind == BindVertexBufsOffset || e.Kind == BindVertexBufsLimit
	return errText("bind vertex buffers", e.Kind, "buffer", e.Buffer, nums, e.Expected, e.Obtained)
}

// NewBindVertexBufs creates a new BindVertexBufs command.
// bufs are bound starting at binding number first, with
// offs providing the starting offset of each buffer.
func NewBindVertexBufs(lim *driver.Limits, first int, bufs []driver.Buffer, offs []int64) (*BindVertexBufs, error) {
	if len(bufs) == 0 {
		return nil, &BindVertexBufsError{Kind: BindVertexBufsEmpty, Buffer: -1}
	}
	if len(offs) != len(bufs) {
		return nil, &BindVertexBufsError{Kind: BindVertexBufsLength, Buffer: -1, Expected: int64(len(bufs)), Obtained: int64(len(offs))}
	}
	if !within(first, len(bufs), lim.MaxVertexBufs) {
		return nil, &BindVertexBufsError{Kind: BindVertexBufsLimit, Buffer: -1, Expected: int64(lim.MaxVertexBufs), Obtained: end(first, len(bufs))}
	}
	for i, b := range bufs {
		if b == nil {
			return nil, &BindVertexBufsError{Kind: BindVertexBufsNil, Buffer: i}
		}
		if offs[i] < 0 || offs[i] >= b.Cap() {
			return nil, &BindVertexBufsError{Kind: BindVertexBufsOffset, Buffer: i, Expected: b.Cap(), Obtained: offs[i]}
		}
		if b.Usage()&driver.UVertexData == 0 {
			return nil, &BindVertexBufsError{Kind: BindVertexBufsUsage, Buffer: i}
		}
	}
	return &BindVertexBufs{first, clone(bufs), clone(offs)}, nil
}

// Name implements Command.
func (*BindVertexBufs) Name() string { return "BindVertexBufs" }

// Scope implements Command.
func (*BindVertexBufs) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *BindVertexBufs) Encode(s driver.Sink, r *Retention) {
	s.SetVertexBuf(c.first, c.bufs, c.offs)
	for _, b := range c.bufs {
		r.Add(b)
	}
}

// BindIndexBuf binds an index buffer.
type BindIndexBuf struct {
	buf    driver.Buffer
	off    int64
	format driver.IndexFmt
}

// BindIndexBufKind identifies a BindIndexBufError.
type BindIndexBufKind int

// BindIndexBuf error kinds.
const (
	// The buffer is nil.
	BindIndexBufNil BindIndexBufKind = iota
	// The index format is not valid.
	BindIndexBufFormat
	// The offset is not a multiple of the index size.
	BindIndexBufAlign
	// The offset is not within the buffer.
	BindIndexBufOffset
	// The buffer lacks driver.UIndexData usage.
	BindIndexBufUsage
)

var bindIndexBufKinds = [...]string{
	BindIndexBufNil:    "nil buffer",
	BindIndexBufFormat: "invalid index format",
	BindIndexBufAlign:  "misaligned offset",
	BindIndexBufOffset: "offset out of range",
	BindIndexBufUsage:  "buffer lacks index data usage",
}

// String implements fmt.Stringer.
func (k BindIndexBufKind) String() string {
	return kindString(bindIndexBufKinds[:], int(k), "BindIndexBufKind")
}

// BindIndexBufError is the error returned by
// NewBindIndexBuf.
type BindIndexBufError struct {
	Kind     BindIndexBufKind
	Expected int64
	Obtained int64
}

func (e *BindIndexBufError) Error() string {
	nums := e.Kind != BindIndexBufNil && e.Kind != BindIndexBufUsage
	return errText("bind index buffer", e.Kind, "", -1, nums, e.Expected, e.Obtained)
}

// NewBindIndexBuf creates a new BindIndexBuf command.
func NewBindIndexBuf(buf driver.Buffer, off int64, format driver.IndexFmt) (*BindIndexBuf, error) {
	switch {
	case buf == nil:
		return nil, &BindIndexBufError{Kind: BindIndexBufNil}
	case format != driver.Index16 && format != driver.Index32:
		return nil, &BindIndexBufError{Kind: BindIndexBufFormat, Expected: int64(driver.Index32), Obtained: int64(format)}
	case off%int64(format) != 0:
		return nil, &BindIndexBufError{Kind: BindIndexBufAlign, Expected: int64(format), Obtained: off}
	case off < 0 || off >= buf.Cap():
		return nil, &BindIndexBufError{Kind: BindIndexBufOffset, Expected: buf.Cap(), Obtained: off}
	case buf.Usage()&driver.UIndexData == 0:
		return nil, &BindIndexBufError{Kind: BindIndexBufUsage}
	}
	return &BindIndexBuf{buf, off, format}, nil
}

// Name implements Command.
func (*BindIndexBuf) Name() string { return "BindIndexBuf" }

// Scope implements Command.
func (*BindIndexBuf) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *BindIndexBuf) Encode(s driver.Sink, r *Retention) {
	s.SetIndexBuf(c.format, c.buf, c.off)
	r.Add(c.buf)
}
