package codegen

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// typeCode renders t as a type expression. Names declared in local are
// written unqualified; everything else goes through jen.Qual so the import
// is added.
func typeCode(t types.Type, local *types.Package) *jen.Statement {
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Id(t.Name())
	case *types.Alias:
		return objectCode(t.Obj(), local)
	case *types.Named:
		stmt := objectCode(t.Obj(), local)
		if args := t.TypeArgs(); args.Len() > 0 {
			params := make([]jen.Code, args.Len())
			for i := range params {
				params[i] = typeCode(args.At(i), local)
			}
			stmt = stmt.Types(params...)
		}
		return stmt
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(t.Elem(), local))
	case *types.Slice:
		return jen.Index().Add(typeCode(t.Elem(), local))
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem(), local))
	case *types.Map:
		return jen.Map(typeCode(t.Key(), local)).Add(typeCode(t.Elem(), local))
	case *types.Chan:
		switch t.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(typeCode(t.Elem(), local))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(typeCode(t.Elem(), local))
		default:
			return jen.Chan().Add(typeCode(t.Elem(), local))
		}
	case *types.Struct:
		fields := make([]jen.Code, t.NumFields())
		for i := range fields {
			f := t.Field(i)
			var field *jen.Statement
			if f.Embedded() {
				field = typeCode(f.Type(), local)
			} else {
				field = jen.Id(f.Name()).Add(typeCode(f.Type(), local))
			}
			if tag := t.Tag(i); tag != "" {
				field = field.Add(jen.Lit(tag))
			}
			fields[i] = field
		}
		return jen.Struct(fields...)
	case *types.Interface:
		if t.Empty() {
			return jen.Any()
		}
	}

	return jen.Id(types.TypeString(t, types.RelativeTo(local)))
}

func objectCode(obj *types.TypeName, local *types.Package) *jen.Statement {
	if obj.Pkg() == nil || obj.Pkg() == local {
		return jen.Id(obj.Name())
	}
	return jen.Qual(obj.Pkg().Path(), obj.Name())
}
