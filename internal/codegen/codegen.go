// Package codegen validates binary files against Go types at generate time
// and writes them out as Go declarations.
package codegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"go/token"
	"go/types"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"github.com/stoewer/go-strcase"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/bytesize"
	"github.com/invakid404/typedembed/internal/endian"
	"github.com/invakid404/typedembed/layout"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

const (
	// RootPkg is the import path of the runtime package used by embed mode.
	RootPkg = "github.com/invakid404/typedembed"

	// Header marks generated files.
	Header = "Code generated by typedembed. DO NOT EDIT."
)

// Mode selects how data ends up in the program.
type Mode string

const (
	// ModeLiteral writes the decoded values as Go literals.
	ModeLiteral Mode = "literal"
	// ModeEmbed writes a //go:embed directive and a runtime conversion.
	ModeEmbed Mode = "embed"
)

// ParseMode parses a mode name. The empty string means literal.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeLiteral, nil
	case ModeLiteral, ModeEmbed:
		return m, nil
	default:
		return "", embederr.InvalidInput("unknown emit mode %q (want literal or embed)", s)
	}
}

// Options apply to every declaration in one output file.
type Options struct {
	// Dir is where request files are resolved from, usually the directory
	// of $GOFILE.
	Dir string
	// Output is the generated file. Its directory is the target package.
	Output string
	// Package overrides the package clause.
	Package string
	GOARCH  string
	Mode    Mode
	// BuildTag restricts the file to GOARCHes sharing the byte order of
	// GOARCH on which every declared type has the layout it has on GOARCH.
	BuildTag bool
	// MaxLiteralSize bounds sources written in literal mode.
	MaxLiteralSize bytesize.Size
}

// Request describes one declaration.
type Request struct {
	Name string
	// File is relative to Options.Dir unless absolute.
	File string
	Type string
	Path validate.Path
	// Checked selects the plain-data validators.
	Checked bool
	// Array emits [N]T instead of []T for sequences.
	Array bool
	// Mode overrides Options.Mode when set.
	Mode  Mode
	Codec source.Codec
}

// Decl is a validated declaration ready to be rendered.
type Decl struct {
	Name   string
	Origin string
	Mode   Mode
	Layout layout.TypeLayout
	Path   validate.Path
	Count  int

	code jen.Code
	// arches are the architectures the declaration keeps its meaning on.
	arches map[string]bool
}

// Generator resolves types in the output package and builds declarations.
// Declare is safe for concurrent use.
type Generator struct {
	opts   Options
	outDir string
	loader *Loader
	order  binary.ByteOrder

	// Walking go/types values may resolve them lazily.
	mu sync.Mutex
}

// New type-checks the output package. The output file itself is left out
// so a stale or broken previous version does not get in the way.
func New(opts Options) (*Generator, error) {
	if opts.Output == "" {
		return nil, embederr.InvalidInput("no output file")
	}
	if opts.Mode == "" {
		opts.Mode = ModeLiteral
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	order, err := endian.Order(opts.GOARCH)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Dir(source.Resolve(opts.Dir, opts.Output))
	loader, err := NewLoader(outDir, opts.GOARCH, opts.Package, opts.Output)
	if err != nil {
		return nil, err
	}
	if opts.Package == "" {
		opts.Package = loader.Name()
	}

	return &Generator{
		opts:   opts,
		outDir: outDir,
		loader: loader,
		order:  order,
	}, nil
}

// Loader returns the package loader.
func (g *Generator) Loader() *Loader {
	return g.loader
}

// Package returns the package clause of the output file.
func (g *Generator) Package() string {
	return g.opts.Package
}

// Declare validates req and builds its declaration.
func (g *Generator) Declare(req Request) (Decl, error) {
	decl, err := g.declare(req)
	if err != nil {
		if e, ok := err.(*embederr.Error); ok {
			return Decl{}, embederr.WithPath(e, req.File)
		}
		return Decl{}, err
	}
	return decl, nil
}

func (g *Generator) declare(req Request) (Decl, error) {
	if !token.IsIdentifier(req.Name) || req.Name == "_" {
		return Decl{}, embederr.InvalidInput("%q is not a valid Go identifier", req.Name)
	}

	mode := req.Mode
	if mode == "" {
		mode = g.opts.Mode
	}

	target, err := g.loader.Resolve(req.Type)
	if err != nil {
		return Decl{}, err
	}

	path := source.Resolve(g.opts.Dir, req.File)

	var rel string
	if mode == ModeEmbed {
		if rel, err = g.embedPath(path, req.Codec); err != nil {
			return Decl{}, err
		}
	}

	src, err := source.ReadFile(path, source.WithDecompression(req.Codec))
	if err != nil {
		return Decl{}, err
	}
	src.Origin = req.File

	plan, err := Validator(req.Path, req.Checked)(src, target.Layout)
	if err != nil {
		return Decl{}, err
	}

	decl := Decl{
		Name:   req.Name,
		Origin: req.File,
		Mode:   mode,
		Layout: target.Layout,
		Path:   req.Path,
		Count:  plan.Count,
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	arches, err := portableArches(target.Type, g.opts.GOARCH, g.loader.Sizes())
	if err != nil {
		return Decl{}, err
	}
	decl.arches = make(map[string]bool, len(arches))
	for _, arch := range arches {
		decl.arches[arch] = true
	}

	switch mode {
	case ModeEmbed:
		decl.code = g.embedCode(req, target, rel)
	default:
		if g.opts.MaxLiteralSize.Exceeds(int64(src.Len())) {
			return Decl{}, embederr.New(embederr.KindInvalidInput).
				TypeName(target.Layout.Name).
				Quantity(embederr.QuantitySize).
				Detail("source is larger than --max-literal-size %s; use --emit embed", g.opts.MaxLiteralSize.String()).
				Expected(int64(g.opts.MaxLiteralSize)).
				Actual(int64(src.Len())).
				Build()
		}

		values, err := Decode(plan, target, g.loader, g.order)
		if err != nil {
			return Decl{}, err
		}
		decl.code = g.literalCode(req, target, values)
	}

	return decl, nil
}

// Validator picks the validate entry point for a path.
func Validator(path validate.Path, checked bool) func(source.ByteSource, layout.TypeLayout) (validate.Plan, error) {
	switch {
	case path == validate.PathSequence && checked:
		return validate.Sequence
	case path == validate.PathSequence:
		return validate.UncheckedSequence
	case checked:
		return validate.Single
	default:
		return validate.UncheckedSingle
	}
}

// Decode reads every element of plan in the given byte order.
func Decode(plan validate.Plan, target Target, loader *Loader, order binary.ByteOrder) ([]Value, error) {
	d := &decoder{sizes: loader.Sizes(), order: order, local: loader.Package()}

	data := plan.View.Bytes()
	size := int(plan.Layout.Size)

	values := make([]Value, plan.Count)
	for i := range values {
		v, err := d.decode(target.Type, data[i*size:(i+1)*size])
		if err != nil {
			if e, ok := err.(*embederr.Error); ok {
				e.TypeName = target.Layout.Name
			}
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (g *Generator) literalCode(req Request, target Target, values []Value) jen.Code {
	lit := &literal{sizes: g.loader.Sizes(), local: g.loader.Package()}
	typ := typeCode(target.Type, g.loader.Package())

	if req.Path == validate.PathSingle {
		doc := jen.Commentf("%s is decoded from %s.", req.Name, req.File).Line()
		v := values[0]

		basic, ok := target.Type.Underlying().(*types.Basic)
		switch {
		case ok && basic.Info()&types.IsInteger != 0:
			return doc.Const().Id(req.Name).Add(typ).Op("=").Add(lit.code(v, true))
		case ok:
			return doc.Var().Id(req.Name).Add(typ).Op("=").Add(lit.code(v, true))
		default:
			return doc.Var().Id(req.Name).Op("=").Add(lit.code(v, false))
		}
	}

	items := make([]jen.Code, len(values))
	for i, v := range values {
		items[i] = lit.code(v, true)
	}

	var shape *jen.Statement
	if req.Array {
		shape = jen.Index(jen.Lit(len(values)))
	} else {
		shape = jen.Index()
	}

	return jen.Commentf("%s holds %d elements decoded from %s.", req.Name, len(values), req.File).Line().
		Var().Id(req.Name).Op("=").Add(shape).Add(typ).Add(lit.rows(items, lit.perRow(target.Type)))
}

// embedPath checks that path can be named by a //go:embed directive in the
// output package and returns it relative to the package directory.
func (g *Generator) embedPath(path string, codec source.Codec) (string, error) {
	if codec.Compressed(path) {
		return "", embederr.New(embederr.KindInvalidInput).
			Detail("compressed sources cannot be embedded as is; use --emit literal").
			Build()
	}

	absOut, err := filepath.Abs(g.outDir)
	if err != nil {
		return "", embederr.InvalidInput("failed to resolve output directory: %v", err)
	}
	absFile, err := filepath.Abs(path)
	if err != nil {
		return "", embederr.InvalidInput("failed to resolve source file: %v", err)
	}

	rel, err := filepath.Rel(absOut, absFile)
	if err != nil || !filepath.IsLocal(rel) {
		return "", embederr.New(embederr.KindInvalidInput).
			Detail("//go:embed can only name files inside the output package directory %s", g.outDir).
			Build()
	}
	return filepath.ToSlash(rel), nil
}

func (g *Generator) embedCode(req Request, target Target, rel string) jen.Code {
	dataName := strcase.LowerCamelCase(req.Name) + "Data"

	fn := "Must"
	if !req.Checked {
		fn += "Unchecked"
	}
	if req.Path == validate.PathSequence {
		fn += "Slice"
	} else {
		fn += "Data"
	}

	pattern := rel
	if strings.ContainsAny(pattern, " \t\"") {
		pattern = strconv.Quote(pattern)
	}

	return jen.Comment("//go:embed " + pattern).Line().
		Var().Id(dataName).String().Line().Line().
		Commentf("%s is checked against %s when the package is initialized.", req.Name, rel).Line().
		Var().Id(req.Name).Op("=").Qual(RootPkg, fn).Types(typeCode(target.Type, g.loader.Package())).Call(
		jen.Qual(RootPkg, "String").Call(jen.Lit(rel), jen.Id(dataName)),
	)
}

// Render writes the generated file for decls.
func (g *Generator) Render(w io.Writer, decls []Decl) error {
	f := jen.NewFile(g.opts.Package)
	f.HeaderComment(Header)

	if g.opts.BuildTag {
		constraint, err := endian.BuildConstraint(g.opts.GOARCH, commonArches(decls))
		if err != nil {
			return err
		}
		f.HeaderComment("//go:build " + constraint)
	}

	for _, d := range decls {
		if d.Mode == ModeEmbed {
			f.Anon("embed")
			break
		}
	}

	for _, d := range decls {
		f.Add(d.code)
		f.Line()
	}

	if err := f.Render(w); err != nil {
		return fmt.Errorf("failed to render generated code: %w", err)
	}
	return nil
}

// WriteFile renders decls to the output file. Nothing is written when
// rendering fails.
func (g *Generator) WriteFile(decls []Decl) error {
	var buf bytes.Buffer
	if err := g.Render(&buf, decls); err != nil {
		return err
	}

	path := source.Resolve(g.opts.Dir, g.opts.Output)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
