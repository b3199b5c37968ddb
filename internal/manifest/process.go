package manifest

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/invakid404/typedembed/internal/codegen"
)

// Declarer builds one declaration. *codegen.Generator implements it.
type Declarer interface {
	Declare(req codegen.Request) (codegen.Decl, error)
}

// Process declares every request concurrently. Failures do not stop other
// requests: the successful declarations come back sorted by name together
// with every failure joined in request order.
func Process(ctx context.Context, d Declarer, reqs []codegen.Request) ([]codegen.Decl, error) {
	decls := make([]codegen.Decl, len(reqs))
	errs := make([]error, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			decls[i], errs[i] = d.Declare(req)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]codegen.Decl, 0, len(reqs))
	for i := range reqs {
		if errs[i] == nil {
			out = append(out, decls[i])
		}
	}
	slices.SortFunc(out, func(a, b codegen.Decl) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out, errors.Join(errs...)
}
