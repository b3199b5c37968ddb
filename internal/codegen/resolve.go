package codegen

import (
	"errors"
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/layout"
)

// Target is a resolved type expression.
type Target struct {
	Expr   string
	Type   types.Type
	Layout layout.TypeLayout
}

// Loader type-checks the package in a directory for one GOARCH so that type
// expressions may name its declarations.
//
// Type errors in the package are tolerated: the package usually refers to
// the declarations that are about to be generated.
type Loader struct {
	dir    string
	goarch string
	name   string
	fset   *token.FileSet
	sizes  types.Sizes
	pkg    *types.Package

	// types.Eval is not documented as safe for concurrent use.
	mu sync.Mutex
}

// NewLoader parses every Go file in dir that builds for goarch, except test
// files and the files named in exclude, and type-checks them. A missing or
// empty directory yields an empty package called fallbackName.
func NewLoader(dir, goarch, fallbackName string, exclude ...string) (*Loader, error) {
	sizes := types.SizesFor("gc", goarch)
	if sizes == nil {
		return nil, embederr.InvalidInput("unsupported GOARCH %q", goarch)
	}

	l := &Loader{
		dir:    dir,
		goarch: goarch,
		fset:   token.NewFileSet(),
		sizes:  sizes,
	}

	files, err := l.parse(exclude)
	if err != nil {
		return nil, err
	}

	if l.name == "" {
		l.name = fallbackName
	}
	if l.name == "" {
		l.name = "main"
	}

	conf := types.Config{
		Importer:    importer.ForCompiler(l.fset, "source", nil),
		Sizes:       sizes,
		FakeImportC: true,
		Error:       func(error) {},
	}
	// With Error set, Check reports only the first error and keeps going.
	l.pkg, _ = conf.Check(l.name, l.fset, files, nil)

	return l, nil
}

func (l *Loader) parse(exclude []string) ([]*ast.File, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, embederr.New(embederr.KindInvalidInput).
			Path(l.dir).
			Detail("failed to read package directory").
			Cause(err).
			Build()
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[filepath.Base(e)] = true
	}

	ctx := build.Default
	ctx.GOARCH = l.goarch
	ctx.CgoEnabled = false

	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || skip[name] {
			continue
		}

		if ok, err := ctx.MatchFile(l.dir, name); err == nil && !ok {
			continue
		}

		path := filepath.Join(l.dir, name)
		file, err := parser.ParseFile(l.fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, embederr.New(embederr.KindInvalidInput).
				Path(path).
				Detail("failed to parse package file").
				Cause(err).
				Build()
		}

		if l.name == "" {
			l.name = file.Name.Name
		}
		if file.Name.Name != l.name {
			continue
		}

		files = append(files, file)
	}

	return files, nil
}

// Name returns the package name.
func (l *Loader) Name() string {
	return l.name
}

// Package returns the type-checked package.
func (l *Loader) Package() *types.Package {
	return l.pkg
}

// Sizes returns the sizes of the target GOARCH.
func (l *Loader) Sizes() types.Sizes {
	return l.sizes
}

// GOARCH returns the target architecture.
func (l *Loader) GOARCH() string {
	return l.goarch
}

// Qualifier writes names from the loaded package unqualified.
func (l *Loader) Qualifier() types.Qualifier {
	return types.RelativeTo(l.pkg)
}

// Resolve evaluates expr as a type in the package scope.
func (l *Loader) Resolve(expr string) (Target, error) {
	// go/types values are completed lazily; every walk over them stays
	// under the lock.
	l.mu.Lock()
	defer l.mu.Unlock()

	tv, err := types.Eval(l.fset, l.pkg, token.NoPos, expr)
	if err != nil {
		return Target{}, embederr.New(embederr.KindInvalidInput).
			TypeName(expr).
			Detail("cannot resolve type").
			Cause(err).
			Build()
	}
	if !tv.IsType() {
		return Target{}, embederr.New(embederr.KindInvalidInput).
			TypeName(expr).
			Detail("expression is not a type").
			Build()
	}
	if name, ok := undefined(tv.Type, make(map[types.Type]bool)); ok {
		return Target{}, embederr.New(embederr.KindInvalidInput).
			TypeName(expr).
			Detail("type refers to %s, which does not type-check", name).
			Build()
	}

	return Target{
		Expr:   expr,
		Type:   tv.Type,
		Layout: layout.FromGoType(tv.Type, l.sizes, l.Qualifier()),
	}, nil
}

// undefined finds an invalid type reachable through arrays and struct
// fields, which the tolerant type check leaves behind for bad declarations.
func undefined(t types.Type, visiting map[types.Type]bool) (string, bool) {
	if visiting[t] {
		return "", false
	}
	visiting[t] = true

	switch u := t.Underlying().(type) {
	case *types.Basic:
		if u.Kind() == types.Invalid {
			return t.String(), true
		}
	case *types.Array:
		return undefined(u.Elem(), visiting)
	case *types.Struct:
		for i := range u.NumFields() {
			f := u.Field(i)
			if name, ok := undefined(f.Type(), visiting); ok {
				return "field " + f.Name() + " (" + name + ")", true
			}
		}
	}
	return "", false
}
