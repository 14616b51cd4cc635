// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/gviegas/safecmd/driver"
)

// Synchronization scopes implied by driver.SDraw and
// driver.SAll.
const (
	drawStages = driver.SVertexInput | driver.SVertexShading | driver.SFragmentShading |
		driver.SColorOutput | driver.SDSOutput | driver.SDrawIndirect
	allStages = drawStages | driver.SComputeShading | driver.SResolve | driver.SCopy | driver.SHost
)

// expandSync replaces SDraw and SAll by the stages they
// imply.
func expandSync(s driver.Sync) driver.Sync {
	if s&driver.SAll != 0 {
		s |= allStages
	}
	if s&driver.SDraw != 0 {
		s |= drawStages
	}
	return s
}

// accessStages maps each access flag to the stages that
// can perform it.
var accessStages = [...]struct {
	acc driver.Access
	stg driver.Sync
}{
	{driver.AVertexBufRead, driver.SVertexInput},
	{driver.AIndexBufRead, driver.SVertexInput},
	{driver.AIndirectRead, driver.SDrawIndirect},
	{driver.AConstRead, driver.SVertexShading | driver.SFragmentShading | driver.SComputeShading},
	{driver.AInputRead, driver.SFragmentShading},
	{driver.AColorRead, driver.SColorOutput},
	{driver.AColorWrite, driver.SColorOutput},
	{driver.ADSRead, driver.SDSOutput},
	{driver.ADSWrite, driver.SDSOutput},
	{driver.AResolveRead, driver.SResolve | driver.SColorOutput},
	{driver.AResolveWrite, driver.SResolve | driver.SColorOutput},
	{driver.ACopyRead, driver.SCopy | driver.SResolve},
	{driver.ACopyWrite, driver.SCopy | driver.SResolve},
	{driver.AShaderRead, driver.SVertexShading | driver.SFragmentShading | driver.SComputeShading},
	{driver.AShaderWrite, driver.SVertexShading | driver.SFragmentShading | driver.SComputeShading},
	{driver.AHostRead, driver.SHost},
	{driver.AHostWrite, driver.SHost},
	{driver.AAnyRead, allStages},
	{driver.AAnyWrite, allStages},
}

// supportedAccess returns the accesses that some stage in
// stg can perform.
func supportedAccess(stg driver.Sync) driver.Access {
	stg = expandSync(stg)
	var acc driver.Access
	for _, x := range accessStages {
		if x.stg&stg != 0 {
			acc |= x.acc
		}
	}
	return acc
}

// PipelineBarrier inserts an execution and memory
// dependency between commands recorded before and after
// it.
type PipelineBarrier struct {
	before   driver.Sync
	after    driver.Sync
	byRegion bool
	mem      []driver.Barrier
	buf      []driver.BufBarrier
	img      []driver.Transition
}

// PipelineBarrierKind identifies a PipelineBarrierError.
type PipelineBarrierKind int

// PipelineBarrier error kinds.
const (
	// A stage mask is empty.
	PipelineBarrierNoStages PipelineBarrierKind = iota
	// An access before the barrier is not supported by
	// the stages before it.
	PipelineBarrierAccessBefore
	// An access after the barrier is not supported by
	// the stages after it.
	PipelineBarrierAccessAfter
	// A buffer is nil.
	PipelineBarrierNilBuffer
	// A buffer range is not within its buffer.
	PipelineBarrierBufRange
	// An image is nil.
	PipelineBarrierNilImage
	// A mip level range is not within its image.
	PipelineBarrierLevel
	// A layer range is not within its image.
	PipelineBarrierLayer
	// A transition targets the undefined layout.
	PipelineBarrierLayout
)

var pipelineBarrierKinds = [...]string{
	PipelineBarrierNoStages:     "empty stage mask",
	PipelineBarrierAccessBefore: "access not supported by source stages",
	PipelineBarrierAccessAfter:  "access not supported by destination stages",
	PipelineBarrierNilBuffer:    "nil buffer",
	PipelineBarrierBufRange:     "range out of buffer bounds",
	PipelineBarrierNilImage:     "nil image",
	PipelineBarrierLevel:        "mip level range out of bounds",
	PipelineBarrierLayer:        "layer range out of bounds",
	PipelineBarrierLayout:       "transition to undefined layout",
}

// String implements fmt.Stringer.
func (k PipelineBarrierKind) String() string {
	return kindString(pipelineBarrierKinds[:], int(k), "PipelineBarrierKind")
}

// PipelineBarrierError is the error returned by
// NewPipelineBarrier.
// Barrier is the index of the barrier at fault within the
// slice named by Which ("memory", "buffer" or "image"),
// or -1.
// For access errors, Expected is the supported access mask
// and Obtained the requested one.
type PipelineBarrierError struct {
	Kind     PipelineBarrierKind
	Which    string
	Barrier  int
	Expected int64
	Obtained int64
}

func (e *PipelineBarrierError) Error() string {
	nums := e.Kind != PipelineBarrierNoStages && e.Kind != PipelineBarrierNilBuffer &&
		e.Kind != PipelineBarrierNilImage && e.Kind != PipelineBarrierLayout
	what := e.Which + " barrier"
	return errText("pipeline barrier", e.Kind, what, e.Barrier, nums, e.Expected, e.Obtained)
}

func checkAccess(which string, i int, b driver.Barrier, before, after driver.Access) error {
	if b.AccessBefore&^before != 0 {
		return &PipelineBarrierError{Kind: PipelineBarrierAccessBefore, Which: which, Barrier: i, Expected: int64(before), Obtained: int64(b.AccessBefore)}
	}
	if b.AccessAfter&^after != 0 {
		return &PipelineBarrierError{Kind: PipelineBarrierAccessAfter, Which: which, Barrier: i, Expected: int64(after), Obtained: int64(b.AccessAfter)}
	}
	return nil
}

// NewPipelineBarrier creates a new PipelineBarrier command.
// A buffer barrier whose Size is WholeSize extends to the
// end of its buffer.
func NewPipelineBarrier(before, after driver.Sync, byRegion bool, mem []driver.Barrier, buf []driver.BufBarrier, img []driver.Transition) (*PipelineBarrier, error) {
	if before == driver.SNone || after == driver.SNone {
		return nil, &PipelineBarrierError{Kind: PipelineBarrierNoStages, Barrier: -1}
	}
	accBefore, accAfter := supportedAccess(before), supportedAccess(after)
	for i, b := range mem {
		if err := checkAccess("memory", i, b, accBefore, accAfter); err != nil {
			return nil, err
		}
	}
	for i, b := range buf {
		if b.Buf == nil {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierNilBuffer, Which: "buffer", Barrier: i}
		}
		if err := checkAccess("buffer", i, b.Barrier, accBefore, accAfter); err != nil {
			return nil, err
		}
		size := b.Size
		if size == WholeSize {
			size = b.Buf.Cap() - b.Off
		}
		if size < 1 || !within(b.Off, size, b.Buf.Cap()) {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierBufRange, Which: "buffer", Barrier: i, Expected: b.Buf.Cap(), Obtained: end(b.Off, size)}
		}
	}
	for i, t := range img {
		if t.Img == nil {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierNilImage, Which: "image", Barrier: i}
		}
		if err := checkAccess("image", i, t.Barrier, accBefore, accAfter); err != nil {
			return nil, err
		}
		if t.Levels < 1 || !within(t.Level, t.Levels, t.Img.Levels()) {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierLevel, Which: "image", Barrier: i, Expected: int64(t.Img.Levels()), Obtained: end(t.Level, t.Levels)}
		}
		if t.Layers < 1 || !within(t.Layer, t.Layers, t.Img.Layers()) {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierLayer, Which: "image", Barrier: i, Expected: int64(t.Img.Layers()), Obtained: end(t.Layer, t.Layers)}
		}
		if t.LayoutAfter == driver.LUndefined {
			return nil, &PipelineBarrierError{Kind: PipelineBarrierLayout, Which: "image", Barrier: i}
		}
	}
	return &PipelineBarrier{before, after, byRegion, clone(mem), clone(buf), clone(img)}, nil
}

// Name implements Command.
func (*PipelineBarrier) Name() string { return "PipelineBarrier" }

// Scope implements Command.
func (*PipelineBarrier) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *PipelineBarrier) Encode(s driver.Sink, r *Retention) {
	s.Barrier(c.before, c.after, c.byRegion, c.mem, c.buf, c.img)
	for i := range c.buf {
		r.Add(c.buf[i].Buf)
	}
	for i := range c.img {
		r.Add(c.img[i].Img)
	}
}

// Event sets or resets an event.
// It is created by either NewSetEvent or NewResetEvent.
type Event struct {
	set bool
	ev  driver.Event
	stg driver.Sync
}

// EventKind identifies an EventError.
type EventKind int

// Event error kinds.
const (
	// The event is nil.
	EventNil EventKind = iota
	// The stage mask is empty.
	EventNoStages
	// The stage mask includes driver.SHost.
	EventHostStage
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	return kindString([]string{"nil event", "empty stage mask", "host stage in device command"}, int(k), "EventKind")
}

// EventError is the error returned by NewSetEvent and
// NewResetEvent.
type EventError struct {
	Kind EventKind
}

func (e *EventError) Error() string {
	return errText("event", e.Kind, "", -1, false, 0, 0)
}

func newEvent(set bool, ev driver.Event, stg driver.Sync) (*Event, error) {
	switch {
	case ev == nil:
		return nil, &EventError{Kind: EventNil}
	case stg == driver.SNone:
		return nil, &EventError{Kind: EventNoStages}
	case stg&driver.SHost != 0:
		return nil, &EventError{Kind: EventHostStage}
	}
	return &Event{set, ev, stg}, nil
}

// NewSetEvent creates a new Event command that signals ev
// once the given stages complete.
func NewSetEvent(ev driver.Event, stg driver.Sync) (*Event, error) { return newEvent(true, ev, stg) }

// NewResetEvent creates a new Event command that unsignals
// ev once the given stages complete.
func NewResetEvent(ev driver.Event, stg driver.Sync) (*Event, error) {
	return newEvent(false, ev, stg)
}

// Name implements Command.
func (c *Event) Name() string {
	if c.set {
		return "SetEvent"
	}
	return "ResetEvent"
}

// Scope implements Command.
func (*Event) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *Event) Encode(s driver.Sink, r *Retention) {
	if c.set {
		s.SetEvent(c.ev, c.stg)
	} else {
		s.ResetEvent(c.ev, c.stg)
	}
	r.Add(c.ev)
}
