// Package layout describes the memory layout of a target element type and
// classifies whether arbitrary bytes of that size are a valid instance.
package layout

import (
	"fmt"
	"reflect"
)

// SafetyClass says whether a type may be constructed from arbitrary bytes.
type SafetyClass uint8

const (
	// Unknown types cannot be proven safe; only unchecked entry points
	// accept them.
	Unknown SafetyClass = iota
	// Plain types accept every bit pattern of their size and hold no
	// pointers.
	Plain
)

func (c SafetyClass) String() string {
	switch c {
	case Plain:
		return "plain"
	default:
		return "unknown"
	}
}

// TypeLayout describes a target element type.
type TypeLayout struct {
	Name   string
	Size   uintptr
	Align  uintptr
	Safety SafetyClass
	// Reason explains an Unknown classification, e.g. "field Flag: bool".
	Reason string
}

func (l TypeLayout) String() string {
	return fmt.Sprintf("%s (size %d, align %d, %s)", l.Name, l.Size, l.Align, l.Safety)
}

// IsPlain reports whether the type is classified Plain.
func (l TypeLayout) IsPlain() bool {
	return l.Safety == Plain
}

// WithAlign returns a copy of l requiring a stricter alignment. Alignments
// weaker than the natural one are ignored.
func (l TypeLayout) WithAlign(align uintptr) TypeLayout {
	if align > l.Align {
		l.Align = align
	}
	return l
}

// Of returns the layout of T.
func Of[T any]() TypeLayout {
	return FromReflect(reflect.TypeFor[T]())
}

// FromReflect derives the layout of t.
func FromReflect(t reflect.Type) TypeLayout {
	safety, reason := classifyReflect(t, make(map[reflect.Type]bool))
	return TypeLayout{
		Name:   t.String(),
		Size:   t.Size(),
		Align:  uintptr(t.Align()),
		Safety: safety,
		Reason: reason,
	}
}

func classifyReflect(t reflect.Type, visiting map[reflect.Type]bool) (SafetyClass, string) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return Plain, ""
	case reflect.Bool:
		return Unknown, "bool accepts only 0 and 1"
	case reflect.Array:
		class, reason := classifyReflect(t.Elem(), visiting)
		if class != Plain {
			return Unknown, "array element: " + reason
		}
		return Plain, ""
	case reflect.Struct:
		// Self-reference is impossible by value, but guard anyway.
		if visiting[t] {
			return Unknown, "recursive type"
		}
		visiting[t] = true
		defer delete(visiting, t)

		var end uintptr
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" {
				return Unknown, "blank field"
			}
			if f.Offset != end {
				return Unknown, fmt.Sprintf("padding before field %s", f.Name)
			}
			class, reason := classifyReflect(f.Type, visiting)
			if class != Plain {
				return Unknown, fmt.Sprintf("field %s: %s", f.Name, reason)
			}
			end = f.Offset + f.Type.Size()
		}
		if end != t.Size() {
			return Unknown, "trailing padding"
		}
		return Plain, ""
	default:
		return Unknown, fmt.Sprintf("%s holds references", t.Kind())
	}
}
