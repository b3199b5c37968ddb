package codegen

import (
	"fmt"
	"go/types"
	"math"
	"strconv"

	"github.com/dave/jennifer/jen"
)

// rowBytes is how many bytes of scalar elements go on one line.
const rowBytes = 16

type literal struct {
	sizes types.Sizes
	local *types.Package
}

// code renders v. When elide is set the type of a composite value is left
// out, as allowed for elements of array and slice literals.
func (l *literal) code(v Value, elide bool) jen.Code {
	switch v.kind {
	case kindArray:
		items := make([]jen.Code, len(v.Elems))
		for i, e := range v.Elems {
			items[i] = l.code(e, true)
		}
		body := l.rows(items, l.perRow(v.Type.Underlying().(*types.Array).Elem()))
		if elide {
			return body
		}
		return typeCode(v.Type, l.local).Add(body)
	case kindStruct:
		items := make([]jen.Code, len(v.Fields))
		for i, f := range v.Fields {
			items[i] = jen.Id(f.Name).Op(":").Add(l.code(f.Value, false))
		}
		body := multi(items)
		if len(items) == 0 {
			body = jen.Values()
		}
		if elide {
			return body
		}
		return typeCode(v.Type, l.local).Add(body)
	default:
		return l.scalar(v)
	}
}

// rows lays out items perRow to a line. Composite elements get one line
// each; short lists stay on a single line.
func (l *literal) rows(items []jen.Code, perRow int) *jen.Statement {
	if len(items) <= perRow {
		return jen.Values(items...)
	}
	var rows []jen.Code
	for start := 0; start < len(items); start += perRow {
		end := min(start+perRow, len(items))
		rows = append(rows, jen.List(items[start:end]...))
	}
	return multi(rows)
}

func (l *literal) perRow(elem types.Type) int {
	if _, ok := elem.Underlying().(*types.Basic); !ok {
		return 1
	}
	return max(1, rowBytes/int(l.sizes.Sizeof(elem)))
}

func multi(items []jen.Code) *jen.Statement {
	return jen.Custom(jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}, items...)
}

func (l *literal) scalar(v Value) jen.Code {
	switch s := v.Scalar.(type) {
	case uint64:
		return jen.Id(fmt.Sprintf("0x%0*x", int(2*l.sizes.Sizeof(v.Type)), s))
	case int64:
		return jen.Id(strconv.FormatInt(s, 10))
	case float32:
		c, exact := float32Code(s)
		return l.convert(v.Type, c, exact)
	case float64:
		c, exact := float64Code(s)
		return l.convert(v.Type, c, exact)
	case complex64:
		re, reExact := float32Code(real(s))
		im, imExact := float32Code(imag(s))
		return l.convert(v.Type, jen.Id("complex").Call(re, im), reExact && imExact)
	case complex128:
		re, reExact := float64Code(real(s))
		im, imExact := float64Code(imag(s))
		return l.convert(v.Type, jen.Id("complex").Call(re, im), reExact && imExact)
	case bool:
		if s {
			return jen.True()
		}
		return jen.False()
	default:
		panic(fmt.Sprintf("unexpected scalar %T", s))
	}
}

// convert wraps a non-constant expression in a conversion to t, since its
// type is the predeclared one and t may be a defined type.
func (l *literal) convert(t types.Type, c jen.Code, constant bool) jen.Code {
	if constant {
		return c
	}
	if b, ok := t.(*types.Basic); ok && b.Kind() != types.Invalid {
		return c
	}
	return typeCode(t, l.local).Call(c)
}

// float32Code returns the shortest decimal that converts back to f, or a
// math.Float32frombits call for values a constant cannot express. The bool
// reports whether the result is a constant.
func float32Code(f float32) (jen.Code, bool) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) || (f == 0 && math.Signbit(float64(f))) {
		return jen.Qual("math", "Float32frombits").Call(jen.Id(fmt.Sprintf("0x%08x", math.Float32bits(f)))), false
	}
	return jen.Id(strconv.FormatFloat(float64(f), 'g', -1, 32)), true
}

func float64Code(f float64) (jen.Code, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || (f == 0 && math.Signbit(f)) {
		return jen.Qual("math", "Float64frombits").Call(jen.Id(fmt.Sprintf("0x%016x", math.Float64bits(f)))), false
	}
	return jen.Id(strconv.FormatFloat(f, 'g', -1, 64)), true
}
