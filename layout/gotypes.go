package layout

import (
	"fmt"
	"go/types"
)

// FromGoType derives the layout of a type-checked Go type for the
// architecture described by sizes. It applies the same classification as
// FromReflect and is what the generator uses, since the target type is not
// linked into the generator binary.
func FromGoType(t types.Type, sizes types.Sizes, qualifier types.Qualifier) TypeLayout {
	safety, reason := classifyGoType(t, sizes, make(map[types.Type]bool))
	return TypeLayout{
		Name:   types.TypeString(t, qualifier),
		Size:   uintptr(sizes.Sizeof(t)),
		Align:  uintptr(sizes.Alignof(t)),
		Safety: safety,
		Reason: reason,
	}
}

func classifyGoType(t types.Type, sizes types.Sizes, visiting map[types.Type]bool) (SafetyClass, string) {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case u.Kind() == types.Invalid:
			return Unknown, "invalid type"
		case info&types.IsUntyped != 0:
			return Unknown, "untyped constant type"
		case info&(types.IsInteger|types.IsFloat|types.IsComplex) != 0:
			return Plain, ""
		case info&types.IsBoolean != 0:
			return Unknown, "bool accepts only 0 and 1"
		case u.Kind() == types.UnsafePointer:
			return Unknown, "unsafe.Pointer holds references"
		default:
			return Unknown, fmt.Sprintf("%s holds references", u.Name())
		}
	case *types.Array:
		class, reason := classifyGoType(u.Elem(), sizes, visiting)
		if class != Plain {
			return Unknown, "array element: " + reason
		}
		return Plain, ""
	case *types.Struct:
		if visiting[t] {
			return Unknown, "recursive type"
		}
		visiting[t] = true
		defer delete(visiting, t)

		fields := make([]*types.Var, u.NumFields())
		for i := range fields {
			fields[i] = u.Field(i)
		}
		offsets := sizes.Offsetsof(fields)

		var end int64
		for i, f := range fields {
			if f.Name() == "_" {
				return Unknown, "blank field"
			}
			if offsets[i] != end {
				return Unknown, fmt.Sprintf("padding before field %s", f.Name())
			}
			class, reason := classifyGoType(f.Type(), sizes, visiting)
			if class != Plain {
				return Unknown, fmt.Sprintf("field %s: %s", f.Name(), reason)
			}
			end = offsets[i] + sizes.Sizeof(f.Type())
		}
		if end != sizes.Sizeof(u) {
			return Unknown, "trailing padding"
		}
		return Plain, ""
	case *types.Pointer:
		return Unknown, "pointer holds references"
	case *types.Slice:
		return Unknown, "slice holds references"
	case *types.Map:
		return Unknown, "map holds references"
	case *types.Chan:
		return Unknown, "chan holds references"
	case *types.Signature:
		return Unknown, "func holds references"
	case *types.Interface:
		return Unknown, "interface holds references"
	default:
		return Unknown, fmt.Sprintf("unsupported type %s", t)
	}
}
