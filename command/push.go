// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"github.com/docker/go-units"

	"github.com/gviegas/safecmd/driver"
)

// PushConstants updates push constant values.
type PushConstants struct {
	layout driver.PipelineLayout
	stages driver.Stage
	off    int
	data   []byte
}

// PushConstantsKind identifies a PushConstantsError.
type PushConstantsKind int

// PushConstants error kinds.
const (
	// The pipeline layout is nil.
	PushConstantsNilLayout PushConstantsKind = iota
	// The stage mask is empty or invalid.
	PushConstantsNoStages
	// No data was given.
	PushConstantsEmpty
	// The offset or data length is not a multiple of 4.
	PushConstantsMisaligned
	// The range exceeds driver.Limits.MaxPushConst.
	PushConstantsLimit
	// A stage has no push range covering the update.
	PushConstantsNotCovered
)

var pushConstantsKinds = [...]string{
	PushConstantsNilLayout:  "nil pipeline layout",
	PushConstantsNoStages:   "invalid stage mask",
	PushConstantsEmpty:      "no data",
	PushConstantsMisaligned: "misaligned offset or size",
	PushConstantsLimit:      "push constant limit exceeded",
	PushConstantsNotCovered: "range not covered by layout",
}

// String implements fmt.Stringer.
func (k PushConstantsKind) String() string {
	return kindString(pushConstantsKinds[:], int(k), "PushConstantsKind")
}

// PushConstantsError is the error returned by
// NewPushConstants.
// For PushConstantsNotCovered, Stage is the stage at fault.
type PushConstantsError struct {
	Kind     PushConstantsKind
	Stage    driver.Stage
	Expected int64
	Obtained int64
}

func (e *PushConstantsError) Error() string {
	switch e.Kind {
	case PushConstantsLimit:
		return errText("push constants", e.Kind, "", -1, false, 0, 0) +
			": " + units.BytesSize(float64(e.Obtained)) + " exceeds " + units.BytesSize(float64(e.Expected))
	case PushConstantsNotCovered:
		return errText("push constants", e.Kind, "stage", int(e.Stage), true, e.Expected, e.Obtained)
	}
	return errText("push constants", e.Kind, "", -1, e.Kind == PushConstantsMisaligned, e.Expected, e.Obtained)
}

// NewPushConstants creates a new PushConstants command.
// Every stage in stages must have a push range in layout
// that covers [off, off+len(data)).
// data is copied.
func NewPushConstants(lim *driver.Limits, layout driver.PipelineLayout, stages driver.Stage, off int, data []byte) (*PushConstants, error) {
	const every = driver.SVertex | driver.SFragment | driver.SCompute
	n := len(data)
	switch {
	case layout == nil:
		return nil, &PushConstantsError{Kind: PushConstantsNilLayout}
	case stages == 0 || stages&^every != 0:
		return nil, &PushConstantsError{Kind: PushConstantsNoStages}
	case n == 0:
		return nil, &PushConstantsError{Kind: PushConstantsEmpty}
	case off < 0 || off%4 != 0:
		return nil, &PushConstantsError{Kind: PushConstantsMisaligned, Expected: 4, Obtained: int64(off)}
	case n%4 != 0:
		return nil, &PushConstantsError{Kind: PushConstantsMisaligned, Expected: 4, Obtained: int64(n)}
	case !within(off, n, lim.MaxPushConst):
		return nil, &PushConstantsError{Kind: PushConstantsLimit, Expected: int64(lim.MaxPushConst), Obtained: end(off, n)}
	}
	rngs := layout.PushRanges()
	for s := driver.SVertex; s <= driver.SCompute; s <<= 1 {
		if stages&s == 0 {
			continue
		}
		covered := false
		for _, r := range rngs {
			if r.Stages&s != 0 && r.Off <= off && off+n <= r.Off+r.Size {
				covered = true
				break
			}
		}
		if !covered {
			return nil, &PushConstantsError{Kind: PushConstantsNotCovered, Stage: s, Expected: int64(off), Obtained: int64(off + n)}
		}
	}
	return &PushConstants{layout, stages, off, clone(data)}, nil
}

// Name implements Command.
func (*PushConstants) Name() string { return "PushConstants" }

// Scope implements Command.
func (*PushConstants) Scope() Scope { return Anywhere }

// Encode implements Command.
func (c *PushConstants) Encode(s driver.Sink, r *Retention) {
	s.PushConstants(c.layout, c.stages, c.off, c.data)
	r.Add(c.layout)
}
