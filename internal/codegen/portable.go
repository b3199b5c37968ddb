package codegen

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/invakid404/typedembed/internal/endian"
)

// portableArches lists the architectures sharing goarch's byte order on
// which t has exactly the layout it has on goarch: every size, alignment
// and field offset. Data decoded or reinterpreted for goarch means the
// same bytes on each of them.
func portableArches(t types.Type, goarch string, sizes types.Sizes) ([]string, error) {
	family, err := endian.Family(goarch)
	if err != nil {
		return nil, err
	}

	want := layoutKey(t, sizes)

	arches := make([]string, 0, len(family))
	for _, arch := range family {
		if arch == goarch {
			arches = append(arches, arch)
			continue
		}
		other := types.SizesFor("gc", arch)
		if other == nil {
			continue
		}
		if layoutKey(t, other) == want {
			arches = append(arches, arch)
		}
	}
	return arches, nil
}

// layoutKey describes every size, alignment and offset t's memory layout
// depends on under sizes.
func layoutKey(t types.Type, sizes types.Sizes) string {
	var b strings.Builder
	writeLayout(&b, t, sizes)
	return b.String()
}

func writeLayout(b *strings.Builder, t types.Type, sizes types.Sizes) {
	fmt.Fprintf(b, "%d/%d", sizes.Sizeof(t), sizes.Alignof(t))

	switch u := t.Underlying().(type) {
	case *types.Array:
		b.WriteByte('[')
		writeLayout(b, u.Elem(), sizes)
		b.WriteByte(']')
	case *types.Struct:
		fields := make([]*types.Var, u.NumFields())
		for i := range fields {
			fields[i] = u.Field(i)
		}
		offsets := sizes.Offsetsof(fields)

		b.WriteByte('{')
		for i, f := range fields {
			fmt.Fprintf(b, "%d:", offsets[i])
			writeLayout(b, f.Type(), sizes)
			b.WriteByte(';')
		}
		b.WriteByte('}')
	}
}

// commonArches returns a filter accepting the architectures every decl
// can be built on.
func commonArches(decls []Decl) func(arch string) bool {
	return func(arch string) bool {
		for _, d := range decls {
			if !d.arches[arch] {
				return false
			}
		}
		return true
	}
}
