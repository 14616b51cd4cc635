// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"iter"
	"math/bits"
	"slices"

	"github.com/gviegas/safecmd/driver"
	"github.com/gviegas/safecmd/internal/bitvec"
)

// Layout is a general render pass description.
// It is created by New and is immutable afterwards.
type Layout struct {
	att []AttachmentDesc
	sub []SubpassDesc
	dep []DependencyDesc
	// Attachments referenced by each subpass,
	// excluding preserve references.
	used []*bitvec.V[uint64]
}

// New creates a render pass description.
// It copies its arguments and checks that they describe a
// well-formed render pass. Compatibility between
// attachments of the same subpass (e.g., sample counts) is
// not checked here; NumSamples reports disagreement.
func New(att []AttachmentDesc, sub []SubpassDesc, dep []DependencyDesc) (*Layout, error) {
	l := &Layout{
		att:  slices.Clone(att),
		sub:  make([]SubpassDesc, len(sub)),
		dep:  slices.Clone(dep),
		used: make([]*bitvec.V[uint64], len(sub)),
	}
	for i := range sub {
		l.sub[i] = cloneSubpass(&sub[i])
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Must is like New but panics if New fails.
func Must(att []AttachmentDesc, sub []SubpassDesc, dep []DependencyDesc) *Layout {
	l, err := New(att, sub, dep)
	if err != nil {
		panic(err)
	}
	return l
}

// Single creates a description with a single subpass that
// renders to every color attachment in color and to ds,
// if not nil. The depth/stencil attachment, if any, is the
// last one.
func Single(color []AttachmentDesc, ds *AttachmentDesc) (*Layout, error) {
	att := slices.Clone(color)
	var sub SubpassDesc
	for i := range color {
		sub.Color = append(sub.Color, AttachmentRef{Index: i, Layout: driver.LColorTarget})
	}
	if ds != nil {
		att = append(att, *ds)
		sub.DS = &AttachmentRef{Index: len(color), Layout: driver.LDSTarget}
	}
	return New(att, []SubpassDesc{sub}, nil)
}

func cloneSubpass(s *SubpassDesc) SubpassDesc {
	c := SubpassDesc{
		Color:    slices.Clone(s.Color),
		Input:    slices.Clone(s.Input),
		Resolve:  slices.Clone(s.Resolve),
		Preserve: slices.Clone(s.Preserve),
	}
	if s.DS != nil {
		ds := *s.DS
		c.DS = &ds
	}
	return c
}

func (l *Layout) validate() error {
	if len(l.sub) == 0 {
		return shapeErr(NoSubpasses, -1, -1, -1, 0)
	}
	for i := range l.att {
		if !l.att[i].Format.IsValid() {
			return shapeErr(BadFormat, -1, -1, i, int(l.att[i].Format))
		}
		if n := l.att[i].Samples; n < 1 || bits.OnesCount(uint(n)) != 1 {
			return shapeErr(BadSamples, -1, -1, i, n)
		}
	}
	for i := range l.sub {
		if err := l.validateSubpass(i); err != nil {
			return err
		}
	}
	for i, d := range l.dep {
		for _, x := range [2]int{d.Src, d.Dst} {
			if x != External && (x < 0 || x >= len(l.sub)) {
				return shapeErr(DependencyRange, -1, i, -1, x)
			}
		}
		switch {
		case d.Src == External && d.Dst == External:
			return shapeErr(DependencyExternal, -1, i, -1, 0)
		case d.Src != External && d.Dst != External && d.Src > d.Dst:
			return shapeErr(DependencyOrder, -1, i, -1, 0)
		}
	}
	return nil
}

func (l *Layout) validateSubpass(i int) error {
	s := &l.sub[i]
	used := bitvec.New[uint64](len(l.att))
	l.used[i] = used
	inRange := func(ref AttachmentRef) error {
		if ref.Index < 0 || ref.Index >= len(l.att) {
			return shapeErr(AttachmentRange, i, -1, -1, ref.Index)
		}
		return nil
	}

	for _, ref := range s.Color {
		if err := inRange(ref); err != nil {
			return err
		}
		if !used.Set(ref.Index) {
			return shapeErr(DuplicateColor, i, -1, ref.Index, 0)
		}
		if !l.att[ref.Index].Format.IsColor() {
			return shapeErr(AspectMismatch, i, -1, ref.Index, 0)
		}
	}
	if len(s.Resolve) != 0 && len(s.Resolve) != len(s.Color) {
		return shapeErr(ResolveLength, i, -1, -1, len(s.Resolve))
	}
	for _, ref := range s.Resolve {
		if ref.Index == Unused {
			continue
		}
		if err := inRange(ref); err != nil {
			return err
		}
		used.Set(ref.Index)
	}
	for _, ref := range s.Input {
		if err := inRange(ref); err != nil {
			return err
		}
		used.Set(ref.Index)
	}
	if s.DS != nil {
		if err := inRange(*s.DS); err != nil {
			return err
		}
		if l.att[s.DS.Index].Format.IsColor() {
			return shapeErr(AspectMismatch, i, -1, s.DS.Index, 0)
		}
		used.Set(s.DS.Index)
	}
	for _, x := range s.Preserve {
		if err := inRange(AttachmentRef{Index: x}); err != nil {
			return err
		}
		if used.IsSet(x) {
			return shapeErr(PreserveConflict, i, -1, x, 0)
		}
	}
	return nil
}

// NumAttachments implements Desc.
func (l *Layout) NumAttachments() int { return len(l.att) }

// AttachmentDesc implements Desc.
func (l *Layout) AttachmentDesc(n int) (AttachmentDesc, bool) {
	if n < 0 || n >= len(l.att) {
		return AttachmentDesc{}, false
	}
	return l.att[n], true
}

// NumSubpasses implements Desc.
func (l *Layout) NumSubpasses() int { return len(l.sub) }

// SubpassDesc implements Desc.
// The returned value must not be modified.
func (l *Layout) SubpassDesc(n int) (SubpassDesc, bool) {
	if n < 0 || n >= len(l.sub) {
		return SubpassDesc{}, false
	}
	return l.sub[n], true
}

// NumDependencies implements Desc.
func (l *Layout) NumDependencies() int { return len(l.dep) }

// DependencyDesc implements Desc.
func (l *Layout) DependencyDesc(n int) (DependencyDesc, bool) {
	if n < 0 || n >= len(l.dep) {
		return DependencyDesc{}, false
	}
	return l.dep[n], true
}

// Uses returns whether the given subpass references the
// given attachment as color, input, resolve or
// depth/stencil.
func (l *Layout) Uses(subpass, attachment int) bool {
	if subpass < 0 || subpass >= len(l.used) {
		return false
	}
	return l.used[subpass].IsSet(attachment)
}

// Preserved returns an iterator over the attachments whose
// contents the given subpass must keep: every attachment
// that it does not reference. This is a superset of the
// subpass' Preserve list.
func (l *Layout) Preserved(subpass int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if subpass < 0 || subpass >= len(l.used) {
			return
		}
		for i, set := range l.used[subpass].All() {
			if !set && !yield(i) {
				return
			}
		}
	}
}

// Referenced returns an iterator over the attachments that
// any subpass references.
func (l *Layout) Referenced() iter.Seq[int] {
	all := bitvec.New[uint64](len(l.att))
	for _, u := range l.used {
		all.Or(u)
	}
	return all.Ones()
}
