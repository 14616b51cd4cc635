// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"math"

	"github.com/gviegas/safecmd/driver"
)

// DrawKind identifies a DrawError.
type DrawKind int

// Draw error kinds.
const (
	// A parameter is negative.
	DrawNegative DrawKind = iota
	// A parameter does not fit in 32 bits.
	DrawOverflow
)

// String implements fmt.Stringer.
func (k DrawKind) String() string {
	return kindString([]string{"negative parameter", "parameter overflows 32 bits"}, int(k), "DrawKind")
}

// DrawError is the error returned by NewDraw and
// NewDrawIndexed.
// Param names the offending parameter.
type DrawError struct {
	Kind  DrawKind
	Param string
	Value int64
}

func (e *DrawError) Error() string {
	return errText("draw", e.Kind, "", -1, false, 0, 0) + " (" + e.Param + ")"
}

// checkDrawParam checks that x fits in the range of a
// 32-bit unsigned integer.
func checkDrawParam(name string, x int) error {
	switch {
	case x < 0:
		return &DrawError{Kind: DrawNegative, Param: name, Value: int64(x)}
	case int64(x) > math.MaxUint32:
		return &DrawError{Kind: DrawOverflow, Param: name, Value: int64(x)}
	}
	return nil
}

// Draw draws primitives.
type Draw struct {
	vertCount int
	instCount int
	baseVert  int
	baseInst  int
}

// NewDraw creates a new Draw command.
func NewDraw(vertCount, instCount, baseVert, baseInst int) (*Draw, error) {
	for _, x := range [...]struct {
		name string
		val  int
	}{
		{"vertex count", vertCount},
		{"instance count", instCount},
		{"base vertex", baseVert},
		{"base instance", baseInst},
	} {
		if err := checkDrawParam(x.name, x.val); err != nil {
			return nil, err
		}
	}
	return &Draw{vertCount, instCount, baseVert, baseInst}, nil
}

// Name implements Command.
func (*Draw) Name() string { return "Draw" }

// Scope implements Command.
func (*Draw) Scope() Scope { return InsidePass }

// Encode implements Command.
func (c *Draw) Encode(s driver.Sink, _ *Retention) {
	s.Draw(c.vertCount, c.instCount, c.baseVert, c.baseInst)
}

// DrawIndexed draws indexed primitives.
type DrawIndexed struct {
	idxCount  int
	instCount int
	baseIdx   int
	vertOff   int
	baseInst  int
}

// NewDrawIndexed creates a new DrawIndexed command.
// vertOff is added to each index and may be negative.
func NewDrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) (*DrawIndexed, error) {
	for _, x := range [...]struct {
		name string
		val  int
	}{
		{"index count", idxCount},
		{"instance count", instCount},
		{"base index", baseIdx},
		{"base instance", baseInst},
	} {
		if err := checkDrawParam(x.name, x.val); err != nil {
			return nil, err
		}
	}
	if vertOff < math.MinInt32 || vertOff > math.MaxInt32 {
		return nil, &DrawError{Kind: DrawOverflow, Param: "vertex offset", Value: int64(vertOff)}
	}
	return &DrawIndexed{idxCount, instCount, baseIdx, vertOff, baseInst}, nil
}

// Name implements Command.
func (*DrawIndexed) Name() string { return "DrawIndexed" }

// Scope implements Command.
func (*DrawIndexed) Scope() Scope { return InsidePass }

// Encode implements Command.
func (c *DrawIndexed) Encode(s driver.Sink, _ *Retention) {
	s.DrawIndexed(c.idxCount, c.instCount, c.baseIdx, c.vertOff, c.baseInst)
}

// Sizes of indirect command parameters, in bytes.
const (
	DrawIndirectSize        = 16
	DrawIndexedIndirectSize = 20
)

// DrawIndirect draws primitives with parameters read from
// a buffer.
type DrawIndirect struct {
	indexed bool
	buf     driver.Buffer
	off     int64
	count   int
	stride  int
}

// DrawIndirectKind identifies a DrawIndirectError.
type DrawIndirectKind int

// DrawIndirect error kinds.
const (
	// The buffer is nil.
	DrawIndirectNil DrawIndirectKind = iota
	// The count is negative.
	DrawIndirectNegative
	// The offset is not a multiple of 4.
	DrawIndirectAlign
	// The stride is either not a multiple of 4 or smaller
	// than the size of the parameters.
	DrawIndirectStride
	// The parameters are not within the buffer.
	DrawIndirectRange
	// The buffer lacks driver.UIndirectData usage.
	DrawIndirectUsage
	// The count exceeds the device limit.
	DrawIndirectLimit
)

var drawIndirectKinds = [...]string{
	DrawIndirectNil:      "nil buffer",
	DrawIndirectNegative: "negative count",
	DrawIndirectAlign:    "misaligned offset",
	DrawIndirectStride:   "invalid stride",
	DrawIndirectRange:    "parameters out of buffer range",
	DrawIndirectUsage:    "buffer lacks indirect data usage",
	DrawIndirectLimit:    "draw count exceeds limit",
}

// String implements fmt.Stringer.
func (k DrawIndirectKind) String() string {
	return kindString(drawIndirectKinds[:], int(k), "DrawIndirectKind")
}

// DrawIndirectError is the error returned by
// NewDrawIndirect.
type DrawIndirectError struct {
	Kind     DrawIndirectKind
	Expected int64
	Obtained int64
}

func (e *DrawIndirectError) Error() string {
	nums := e.Kind != DrawIndirectNil && e.Kind != DrawIndirectUsage
	return errText("draw indirect", e.Kind, "", -1, nums, e.Expected, e.Obtained)
}

// NewDrawIndirect creates a new DrawIndirect command.
// count sets of parameters are read from buf, starting at
// off and stride bytes apart. stride is ignored if count
// is less than 2.
func NewDrawIndirect(lim *driver.Limits, buf driver.Buffer, off int64, count, stride int, indexed bool) (*DrawIndirect, error) {
	size := int64(DrawIndirectSize)
	if indexed {
		size = DrawIndexedIndirectSize
	}
	switch {
	case buf == nil:
		return nil, &DrawIndirectError{Kind: DrawIndirectNil}
	case count < 0:
		return nil, &DrawIndirectError{Kind: DrawIndirectNegative, Obtained: int64(count)}
	case count > lim.MaxDrawIndirect:
		return nil, &DrawIndirectError{Kind: DrawIndirectLimit, Expected: int64(lim.MaxDrawIndirect), Obtained: int64(count)}
	case off < 0 || off%4 != 0:
		return nil, &DrawIndirectError{Kind: DrawIndirectAlign, Expected: 4, Obtained: off}
	case count > 1 && (stride%4 != 0 || int64(stride) < size):
		return nil, &DrawIndirectError{Kind: DrawIndirectStride, Expected: size, Obtained: int64(stride)}
	case buf.Usage()&driver.UIndirectData == 0:
		return nil, &DrawIndirectError{Kind: DrawIndirectUsage}
	}
	if count > 0 {
		// The last set of parameters starts at
		// off + (count-1)*stride.
		last := mulSat(int64(count-1), int64(stride))
		if !within(off, size, buf.Cap()) || last > buf.Cap()-off-size {
			return nil, &DrawIndirectError{Kind: DrawIndirectRange, Expected: buf.Cap(), Obtained: end(end(off, last), size)}
		}
	}
	return &DrawIndirect{indexed, buf, off, count, stride}, nil
}

// Name implements Command.
func (c *DrawIndirect) Name() string {
	if c.indexed {
		return "DrawIndexedIndirect"
	}
	return "DrawIndirect"
}

// Scope implements Command.
func (*DrawIndirect) Scope() Scope { return InsidePass }

// Encode implements Command.
func (c *DrawIndirect) Encode(s driver.Sink, r *Retention) {
	s.DrawIndirect(c.indexed, c.buf, c.off, c.count, c.stride)
	r.Add(c.buf)
}

// Dispatch dispatches compute thread groups.
type Dispatch struct {
	grp [3]int
}

// DispatchKind identifies a DispatchError.
type DispatchKind int

// Dispatch error kinds.
const (
	// A group count is negative.
	DispatchNegative DispatchKind = iota
	// A group count exceeds the device limit.
	DispatchLimit
)

// String implements fmt.Stringer.
func (k DispatchKind) String() string {
	return kindString([]string{"negative group count", "group count exceeds limit"}, int(k), "DispatchKind")
}

// DispatchError is the error returned by NewDispatch.
// Axis is 0, 1 or 2 for x, y and z, respectively.
type DispatchError struct {
	Kind     DispatchKind
	Axis     int
	Expected int64
	Obtained int64
}

func (e *DispatchError) Error() string {
	return errText("dispatch", e.Kind, "axis", e.Axis, true, e.Expected, e.Obtained)
}

// NewDispatch creates a new Dispatch command.
func NewDispatch(lim *driver.Limits, grpCountX, grpCountY, grpCountZ int) (*Dispatch, error) {
	grp := [3]int{grpCountX, grpCountY, grpCountZ}
	for i, n := range grp {
		if n < 0 {
			return nil, &DispatchError{Kind: DispatchNegative, Axis: i, Obtained: int64(n)}
		}
		if n > lim.MaxDispatch[i] {
			return nil, &DispatchError{Kind: DispatchLimit, Axis: i, Expected: int64(lim.MaxDispatch[i]), Obtained: int64(n)}
		}
	}
	return &Dispatch{grp}, nil
}

// Name implements Command.
func (*Dispatch) Name() string { return "Dispatch" }

// Scope implements Command.
func (*Dispatch) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *Dispatch) Encode(s driver.Sink, _ *Retention) {
	s.Dispatch(c.grp[0], c.grp[1], c.grp[2])
}
