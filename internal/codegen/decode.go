package codegen

import (
	"encoding/binary"
	"fmt"
	"go/types"
	"math"

	"github.com/invakid404/typedembed/embederr"
)

type valueKind uint8

const (
	kindScalar valueKind = iota
	kindArray
	kindStruct
)

// Value is an instance of a type-checked Go type decoded from bytes in the
// target byte order.
type Value struct {
	Type types.Type
	kind valueKind

	// Scalar is uint64, int64, float32, float64, complex64, complex128 or
	// bool.
	Scalar any
	Elems  []Value
	Fields []Field
}

// Field is a named struct member.
type Field struct {
	Name  string
	Value Value
}

// Interface converts v to plain Go values: scalars, []any for arrays and
// map[string]any for structs.
func (v Value) Interface() any {
	switch v.kind {
	case kindArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.Interface()
		}
		return out
	case kindStruct:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = f.Value.Interface()
		}
		return out
	default:
		return v.Scalar
	}
}

type decoder struct {
	sizes types.Sizes
	order binary.ByteOrder
	local *types.Package
}

// decode reads one t from b, which is exactly Sizeof(t) bytes long.
// Padding is skipped.
func (d *decoder) decode(t types.Type, b []byte) (Value, error) {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		scalar, err := d.scalar(u, b)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, kind: kindScalar, Scalar: scalar}, nil
	case *types.Array:
		size := d.sizes.Sizeof(u.Elem())
		elems := make([]Value, u.Len())
		for i := range elems {
			off := int64(i) * size
			elem, err := d.decode(u.Elem(), b[off:off+size])
			if err != nil {
				return Value{}, err
			}
			elems[i] = elem
		}
		return Value{Type: t, kind: kindArray, Elems: elems}, nil
	case *types.Struct:
		vars := make([]*types.Var, u.NumFields())
		for i := range vars {
			vars[i] = u.Field(i)
		}
		offsets := d.sizes.Offsetsof(vars)

		fields := make([]Field, 0, len(vars))
		for i, f := range vars {
			if f.Name() == "_" {
				return Value{}, unsupported("blank fields cannot be written in a composite literal")
			}
			if !f.Exported() && f.Pkg() != d.local {
				return Value{}, unsupported(fmt.Sprintf("unexported field %s of another package cannot be set", f.Name()))
			}

			size := d.sizes.Sizeof(f.Type())
			v, err := d.decode(f.Type(), b[offsets[i]:offsets[i]+size])
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: f.Name(), Value: v})
		}
		return Value{Type: t, kind: kindStruct, Fields: fields}, nil
	default:
		return Value{}, unsupported(fmt.Sprintf("%s cannot be written as a literal", kindName(u)))
	}
}

func (d *decoder) scalar(t *types.Basic, b []byte) (any, error) {
	info := t.Info()
	switch {
	case info&types.IsInteger != 0:
		u := d.uint(b)
		if info&types.IsUnsigned != 0 {
			return u, nil
		}
		shift := 64 - 8*len(b)
		return int64(u<<shift) >> shift, nil
	case t.Kind() == types.Float32:
		return math.Float32frombits(uint32(d.uint(b))), nil
	case t.Kind() == types.Float64:
		return math.Float64frombits(d.uint(b)), nil
	case t.Kind() == types.Complex64:
		re := math.Float32frombits(d.order.Uint32(b[:4]))
		im := math.Float32frombits(d.order.Uint32(b[4:]))
		return complex(re, im), nil
	case t.Kind() == types.Complex128:
		re := math.Float64frombits(d.order.Uint64(b[:8]))
		im := math.Float64frombits(d.order.Uint64(b[8:]))
		return complex(re, im), nil
	case info&types.IsBoolean != 0:
		return b[0] != 0, nil
	default:
		return nil, unsupported(fmt.Sprintf("%s cannot be written as a literal", t.Name()))
	}
}

func (d *decoder) uint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(d.order.Uint16(b))
	case 4:
		return uint64(d.order.Uint32(b))
	default:
		return d.order.Uint64(b)
	}
}

func kindName(t types.Type) string {
	switch t.(type) {
	case *types.Pointer:
		return "pointer"
	case *types.Slice:
		return "slice"
	case *types.Map:
		return "map"
	case *types.Chan:
		return "chan"
	case *types.Signature:
		return "func"
	case *types.Interface:
		return "interface"
	default:
		return t.String()
	}
}

// unsupported reports a value with no literal form. Decode fills in the
// type name and Declare the path.
func unsupported(what string) *embederr.Error {
	return embederr.Unsupported("", "", what+"; use --emit embed")
}
