// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/docker/go-units"

	"github.com/gviegas/safecmd/driver"
)

// WholeSize can be given as the size of FillBuffer to fill
// from the offset to the end of the buffer.
const WholeSize = -1

// FillBuffer fills a buffer range with copies of a 32-bit
// value.
type FillBuffer struct {
	buf   driver.Buffer
	off   int64
	size  int64
	value uint32
}

// FillBufferKind identifies a FillBufferError.
type FillBufferKind int

// FillBuffer error kinds.
const (
	// The buffer is nil.
	FillBufferNil FillBufferKind = iota
	// The offset or size is not a multiple of 4.
	FillBufferAlign
	// The range is empty.
	FillBufferZeroSize
	// The range is not within the buffer.
	FillBufferRange
	// The buffer lacks driver.UCopyDst usage.
	FillBufferUsage
)

var fillBufferKinds = [...]string{
	FillBufferNil:      "nil buffer",
	FillBufferAlign:    "misaligned offset or size",
	FillBufferZeroSize: "empty range",
	FillBufferRange:    "range out of buffer bounds",
	FillBufferUsage:    "buffer lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k FillBufferKind) String() string {
	return kindString(fillBufferKinds[:], int(k), "FillBufferKind")
}

// FillBufferError is the error returned by NewFillBuffer.
type FillBufferError struct {
	Kind     FillBufferKind
	Expected int64
	Obtained int64
}

func (e *FillBufferError) Error() string {
	nums := e.Kind == FillBufferAlign || e.Kind == FillBufferRange
	return errText("fill buffer", e.Kind, "", -1, nums, e.Expected, e.Obtained)
}

// NewFillBuffer creates a new FillBuffer command.
// If size is WholeSize, the range extends to the end of
// the buffer, rounded down to a multiple of 4.
func NewFillBuffer(buf driver.Buffer, off, size int64, value uint32) (*FillBuffer, error) {
	if buf == nil {
		return nil, &FillBufferError{Kind: FillBufferNil}
	}
	if off < 0 || off%4 != 0 {
		return nil, &FillBufferError{Kind: FillBufferAlign, Expected: 4, Obtained: off}
	}
	if size == WholeSize {
		size = (buf.Cap() - off) &^ 3
	} else if size%4 != 0 {
		return nil, &FillBufferError{Kind: FillBufferAlign, Expected: 4, Obtained: size}
	}
	switch {
	case size <= 0:
		return nil, &FillBufferError{Kind: FillBufferZeroSize}
	case !within(off, size, buf.Cap()):
		return nil, &FillBufferError{Kind: FillBufferRange, Expected: buf.Cap(), Obtained: end(off, size)}
	case buf.Usage()&driver.UCopyDst == 0:
		return nil, &FillBufferError{Kind: FillBufferUsage}
	}
	return &FillBuffer{buf, off, size, value}, nil
}

// Name implements Command.
func (*FillBuffer) Name() string { return "FillBuffer" }

// Scope implements Command.
func (*FillBuffer) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *FillBuffer) Encode(s driver.Sink, r *Retention) {
	s.Fill(c.buf, c.off, c.size, c.value)
	r.Add(c.buf)
}

// MaxUpdateSize is the maximum number of bytes that
// UpdateBuffer can write.
const MaxUpdateSize = 65536

// UpdateBuffer writes data into a buffer range.
type UpdateBuffer struct {
	buf  driver.Buffer
	off  int64
	data []byte
}

// UpdateBufferKind identifies an UpdateBufferError.
type UpdateBufferKind int

// UpdateBuffer error kinds.
const (
	// The buffer is nil.
	UpdateBufferNil UpdateBufferKind = iota
	// No data was given.
	UpdateBufferEmpty
	// The offset or data length is not a multiple of 4.
	UpdateBufferAlign
	// The data is larger than MaxUpdateSize.
	UpdateBufferTooLarge
	// The range is not within the buffer.
	UpdateBufferRange
	// The buffer lacks driver.UCopyDst usage.
	UpdateBufferUsage
)

var updateBufferKinds = [...]string{
	UpdateBufferNil:      "nil buffer",
	UpdateBufferEmpty:    "no data",
	UpdateBufferAlign:    "misaligned offset or size",
	UpdateBufferTooLarge: "data too large",
	UpdateBufferRange:    "range out of buffer bounds",
	UpdateBufferUsage:    "buffer lacks copy destination usage",
}

// String implements fmt.Stringer.
func (k UpdateBufferKind) String() string {
	return kindString(updateBufferKinds[:], int(k), "UpdateBufferKind")
}

// UpdateBufferError is the error returned by
// NewUpdateBuffer.
type UpdateBufferError struct {
	Kind     UpdateBufferKind
	Expected int64
	Obtained int64
}

func (e *UpdateBufferError) Error() string {
	if e.Kind == UpdateBufferTooLarge {
		return errText("update buffer", e.Kind, "", -1, false, 0, 0) +
			": " + units.BytesSize(float64(e.Obtained)) + " exceeds " + units.BytesSize(float64(e.Expected))
	}
	nums := e.Kind == UpdateBufferAlign || e.Kind == UpdateBufferRange
	return errText("update buffer", e.Kind, "", -1, nums, e.Expected, e.Obtained)
}

// NewUpdateBuffer creates a new UpdateBuffer command.
// data is copied.
func NewUpdateBuffer(buf driver.Buffer, off int64, data []byte) (*UpdateBuffer, error) {
	n := int64(len(data))
	switch {
	case buf == nil:
		return nil, &UpdateBufferError{Kind: UpdateBufferNil}
	case n == 0:
		return nil, &UpdateBufferError{Kind: UpdateBufferEmpty}
	case off < 0 || off%4 != 0:
		return nil, &UpdateBufferError{Kind: UpdateBufferAlign, Expected: 4, Obtained: off}
	case n%4 != 0:
		return nil, &UpdateBufferError{Kind: UpdateBufferAlign, Expected: 4, Obtained: n}
	case n > MaxUpdateSize:
		return nil, &UpdateBufferError{Kind: UpdateBufferTooLarge, Expected: MaxUpdateSize, Obtained: n}
	case !within(off, n, buf.Cap()):
		return nil, &UpdateBufferError{Kind: UpdateBufferRange, Expected: buf.Cap(), Obtained: end(off, n)}
	case buf.Usage()&driver.UCopyDst == 0:
		return nil, &UpdateBufferError{Kind: UpdateBufferUsage}
	}
	return &UpdateBuffer{buf, off, clone(data)}, nil
}

// Name implements Command.
func (*UpdateBuffer) Name() string { return "UpdateBuffer" }

// Scope implements Command.
func (*UpdateBuffer) Scope() Scope { return OutsidePass }

// Encode implements Command.
func (c *UpdateBuffer) Encode(s driver.Sink, r *Retention) {
	s.Update(c.buf, c.off, c.data)
	r.Add(c.buf)
}
