// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pass

import (
	"iter"
	"slices"

	"github.com/gviegas/safecmd/driver"
)

// AttachmentsList is a list of image views that has been
// checked against a render pass description.
// Its length is the description's attachment count.
type AttachmentsList interface {
	// Len returns the number of image views.
	Len() int

	// At returns the ith image view.
	At(i int) driver.ImageView
}

// attList implements AttachmentsList.
type attList []driver.ImageView

func (l attList) Len() int { return len(l) }

func (l attList) At(i int) driver.ImageView { return l[i] }

// Views returns the image views of l as a slice.
func Views(l AttachmentsList) []driver.ImageView {
	if l, ok := l.(attList); ok {
		return slices.Clone([]driver.ImageView(l))
	}
	s := make([]driver.ImageView, l.Len())
	for i := range s {
		s[i] = l.At(i)
	}
	return s
}

// AttachmentsChecker is implemented by descriptions that
// check image views in a custom way.
// CheckAttachments defers to it when present.
type AttachmentsChecker interface {
	CheckAttachments(views []driver.ImageView) (AttachmentsList, error)
}

// CheckAttachments checks that views can serve as the
// attachments of a render pass described by d.
// There must be exactly one view per attachment, in
// attachment order. Each view must match its attachment's
// format and sample count, and its image must have been
// created with the usages that the attachment's role in
// any subpass requires.
// The error, if any, is an *AttachmentsError.
func CheckAttachments(d Desc, views []driver.ImageView) (AttachmentsList, error) {
	if c, ok := d.(AttachmentsChecker); ok {
		return c.CheckAttachments(views)
	}
	n := d.NumAttachments()
	if len(views) != n {
		return nil, &AttachmentsError{Kind: CountMismatch, Index: -1, Expected: n, Obtained: len(views)}
	}
	usg := requiredUsage(d)
	for i, v := range views {
		if v == nil {
			return nil, &AttachmentsError{Kind: NilView, Index: i}
		}
		att, _ := d.AttachmentDesc(i)
		if pf := v.Format(); pf != att.Format {
			return nil, &AttachmentsError{Kind: FormatMismatch, Index: i, Expected: int(att.Format), Obtained: int(pf)}
		}
		if ns := v.Samples(); ns != att.Samples {
			return nil, &AttachmentsError{Kind: SamplesMismatch, Index: i, Expected: att.Samples, Obtained: ns}
		}
		if have := v.Image().Usage(); have&usg[i] != usg[i] {
			return nil, &AttachmentsError{Kind: MissingUsage, Index: i, Expected: int(usg[i]), Obtained: int(have)}
		}
	}
	return attList(slices.Clone(views)), nil
}

// CheckNoAttachments is CheckAttachments with an empty
// list of views. It always succeeds for descriptions that
// have no attachments.
func CheckNoAttachments(d Desc) (AttachmentsList, error) { return CheckAttachments(d, nil) }

// requiredUsage returns the image usage that each
// attachment of d requires.
func requiredUsage(d Desc) []driver.Usage {
	usg := make([]driver.Usage, d.NumAttachments())
	set := func(i int, u driver.Usage) {
		if i >= 0 && i < len(usg) {
			usg[i] |= u
		}
	}
	for i := range d.NumSubpasses() {
		sub, _ := d.SubpassDesc(i)
		for _, ref := range sub.Color {
			set(ref.Index, driver.URenderTarget)
		}
		for _, ref := range sub.Resolve {
			set(ref.Index, driver.URenderTarget)
		}
		if sub.DS != nil {
			set(sub.DS.Index, driver.URenderTarget)
		}
		for _, ref := range sub.Input {
			set(ref.Index, driver.UShaderRead)
		}
	}
	return usg
}

// ClearValuesConverter is implemented by descriptions that
// convert clear values in a custom way.
// ConvertClearValues defers to it when present.
type ClearValuesConverter interface {
	ConvertClearValues(values []driver.ClearValue) (iter.Seq[driver.ClearValue], error)
}

// ConvertClearValues matches values against the
// attachments of d that are cleared on load.
// values holds one element per such attachment, in
// attachment order. The returned sequence yields exactly
// one element per attachment of d: the corresponding
// element of values for cleared attachments and the zero
// value for the rest.
// The sequence is computed lazily from a copy of values.
// The error, if any, is a *ClearValuesError.
func ConvertClearValues(d Desc, values []driver.ClearValue) (iter.Seq[driver.ClearValue], error) {
	if c, ok := d.(ClearValuesConverter); ok {
		return c.ConvertClearValues(values)
	}
	if n := NumClearValues(d); len(values) != n {
		return nil, &ClearValuesError{Kind: ClearCountMismatch, Expected: n, Obtained: len(values)}
	}
	values = slices.Clone(values)
	return func(yield func(driver.ClearValue) bool) {
		j := 0
		for i := range d.NumAttachments() {
			var cv driver.ClearValue
			if att, _ := d.AttachmentDesc(i); att.Clears() {
				cv = values[j]
				j++
			}
			if !yield(cv) {
				return
			}
		}
	}, nil
}
