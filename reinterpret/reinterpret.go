// Package reinterpret turns a validated plan into typed values without
// parsing or transcoding. Bytes are taken in source order and read in the
// native byte order of the running program.
package reinterpret

import (
	"fmt"
	"unsafe"

	"github.com/invakid404/typedembed/validate"
)

// Value returns the T whose bytes are the plan's bytes.
//
// SAFETY: p must come from validate with a layout describing T. Value
// panics if the layout's size is not the size of T.
func Value[T any](p validate.Plan) T {
	var zero T
	mustFit[T](p)
	if unsafe.Sizeof(zero) == 0 {
		return zero
	}
	return *(*T)(unsafe.Pointer(unsafe.SliceData(p.View.Bytes())))
}

// Sequence returns a slice of T aliasing the plan's bytes. Element i is
// bytes [i*size, (i+1)*size). The slice must not be modified.
//
// SAFETY: as for Value.
func Sequence[T any](p validate.Plan) []T {
	mustFit[T](p)
	if p.Count == 0 {
		return []T{}
	}
	ptr := (*T)(unsafe.Pointer(unsafe.SliceData(p.View.Bytes())))
	return unsafe.Slice(ptr, p.Count)
}

func mustFit[T any](p validate.Plan) {
	var zero T
	if size := unsafe.Sizeof(zero); size != p.Layout.Size {
		panic(fmt.Sprintf("reinterpret: %T is %d bytes but the plan's layout %s is %d", zero, size, p.Layout.Name, p.Layout.Size))
	}
}

// ValueBytes returns the native byte representation of *v, aliasing it.
// Writing it to a file reproduces the file the value was embedded from.
func ValueBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	if size == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}

// SequenceBytes returns the native byte representation of s, aliasing it.
func SequenceBytes[T any](s []T) []byte {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(s) == 0 || size == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size)
}
