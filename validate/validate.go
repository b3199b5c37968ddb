// Package validate decides whether a byte source may be reinterpreted as a
// target type.
//
// The checked entry points (Single, Sequence) require the type to be
// classified layout.Plain. The unchecked entry points (UncheckedSingle,
// UncheckedSequence) skip only that classification; the caller takes over
// the obligation that every bit pattern in the source is a valid instance
// of the type and that the type holds no references the embedding cannot
// establish. Length and alignment are checked on every path.
package validate

import (
	"github.com/invakid404/typedembed/aligned"
	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/layout"
	"github.com/invakid404/typedembed/source"
)

// Path is the shape of the result.
type Path uint8

const (
	PathSingle Path = iota
	PathSequence
)

func (p Path) String() string {
	if p == PathSequence {
		return "sequence"
	}
	return "single"
}

// Plan is a validated (source, layout, path) triple.
type Plan struct {
	View   aligned.View
	Layout layout.TypeLayout
	Path   Path
	// Count is 1 for PathSingle and len/size for PathSequence.
	Count int
	// Checked is false when an unchecked entry point produced the plan.
	Checked bool
}

// Single validates src as exactly one instance of l.
func Single(src source.ByteSource, l layout.TypeLayout) (Plan, error) {
	return single(src, l, true)
}

// UncheckedSingle is Single without the safety-class check.
func UncheckedSingle(src source.ByteSource, l layout.TypeLayout) (Plan, error) {
	return single(src, l, false)
}

// Sequence validates src as a whole number of consecutive instances of l.
func Sequence(src source.ByteSource, l layout.TypeLayout) (Plan, error) {
	return sequence(src, l, true)
}

// UncheckedSequence is Sequence without the safety-class check.
func UncheckedSequence(src source.ByteSource, l layout.TypeLayout) (Plan, error) {
	return sequence(src, l, false)
}

func single(src source.ByteSource, l layout.TypeLayout, checked bool) (Plan, error) {
	if !src.Valid() {
		return Plan{}, src.Err()
	}

	if uintptr(src.Len()) != l.Size {
		return Plan{}, embederr.New(embederr.KindSizeMismatch).
			Path(src.Origin).
			TypeName(l.Name).
			Quantity(embederr.QuantitySize).
			Detail("file length must equal the type size").
			Expected(int64(l.Size)).
			Actual(int64(src.Len())).
			Build()
	}

	if checked {
		if err := checkSafety(src, l); err != nil {
			return Plan{}, err
		}
	}

	view, err := align(src, l)
	if err != nil {
		return Plan{}, err
	}

	return Plan{View: view, Layout: l, Path: PathSingle, Count: 1, Checked: checked}, nil
}

func sequence(src source.ByteSource, l layout.TypeLayout, checked bool) (Plan, error) {
	if !src.Valid() {
		return Plan{}, src.Err()
	}

	if l.Size == 0 {
		return Plan{}, embederr.New(embederr.KindDegenerateElementSize).
			Path(src.Origin).
			TypeName(l.Name).
			Detail("zero-sized elements give no element count").
			Build()
	}

	if rem := uintptr(src.Len()) % l.Size; rem != 0 {
		return Plan{}, embederr.New(embederr.KindLengthNotDivisible).
			Path(src.Origin).
			TypeName(l.Name).
			Quantity(embederr.QuantityLength).
			Detail("file length must be a multiple of the element size %d (%d trailing bytes)", l.Size, rem).
			Expected(int64(uintptr(src.Len()) - rem)).
			Actual(int64(src.Len())).
			Build()
	}

	if checked {
		if err := checkSafety(src, l); err != nil {
			return Plan{}, err
		}
	}

	view, err := align(src, l)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		View:    view,
		Layout:  l,
		Path:    PathSequence,
		Count:   src.Len() / int(l.Size),
		Checked: checked,
	}, nil
}

func checkSafety(src source.ByteSource, l layout.TypeLayout) error {
	if l.Safety == layout.Plain {
		return nil
	}
	detail := "type is not plain data; use an unchecked entry point if every bit pattern in the file is valid"
	if l.Reason != "" {
		detail = l.Reason + "; " + detail
	}
	return embederr.New(embederr.KindUnsafeLayout).
		Path(src.Origin).
		TypeName(l.Name).
		Detail("%s", detail).
		Build()
}

func align(src source.ByteSource, l layout.TypeLayout) (aligned.View, error) {
	view, err := aligned.Adjust(src, l.Align)
	if err != nil {
		if e, ok := err.(*embederr.Error); ok && e.TypeName == "" {
			cp := *e
			cp.TypeName = l.Name
			return aligned.View{}, &cp
		}
		return aligned.View{}, err
	}
	return view, nil
}
