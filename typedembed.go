package typedembed

import (
	"github.com/invakid404/typedembed/layout"
	"github.com/invakid404/typedembed/reinterpret"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

// String wraps a //go:embed string without copying.
func String(origin, data string) source.ByteSource {
	return source.FromString(origin, data)
}

// Bytes wraps a //go:embed byte slice without copying. The slice must not
// be modified afterwards.
func Bytes(origin string, data []byte) source.ByteSource {
	return source.FromBytes(origin, data)
}

// Data reinterprets src as exactly one T. T must be plain data: every bit
// pattern valid, no pointers, no padding.
func Data[T any](src source.ByteSource) (T, error) {
	return data[T](src, validate.Single)
}

// UncheckedData is Data without the plain-data check.
//
// SAFETY: the caller guarantees that the bytes of src form a valid T on the
// target architecture and that T holds no references.
func UncheckedData[T any](src source.ByteSource) (T, error) {
	return data[T](src, validate.UncheckedSingle)
}

// Slice reinterprets src as consecutive Ts. The result aliases src when src
// is suitably aligned and must not be modified.
func Slice[T any](src source.ByteSource) ([]T, error) {
	return slice[T](src, validate.Sequence)
}

// UncheckedSlice is Slice without the plain-data check.
//
// SAFETY: as for UncheckedData, for every element.
func UncheckedSlice[T any](src source.ByteSource) ([]T, error) {
	return slice[T](src, validate.UncheckedSequence)
}

// MustData is like Data but panics on error. Meant for package-level
// variables initialized from //go:embed data.
func MustData[T any](src source.ByteSource) T {
	return must(Data[T](src))
}

// MustUncheckedData is like UncheckedData but panics on error.
func MustUncheckedData[T any](src source.ByteSource) T {
	return must(UncheckedData[T](src))
}

// MustSlice is like Slice but panics on error.
func MustSlice[T any](src source.ByteSource) []T {
	return must(Slice[T](src))
}

// MustUncheckedSlice is like UncheckedSlice but panics on error.
func MustUncheckedSlice[T any](src source.ByteSource) []T {
	return must(UncheckedSlice[T](src))
}

type validator func(source.ByteSource, layout.TypeLayout) (validate.Plan, error)

func data[T any](src source.ByteSource, fn validator) (T, error) {
	var zero T
	plan, err := fn(src, layout.Of[T]())
	if err != nil {
		return zero, err
	}
	return reinterpret.Value[T](plan), nil
}

func slice[T any](src source.ByteSource, fn validator) ([]T, error) {
	plan, err := fn(src, layout.Of[T]())
	if err != nil {
		return nil, err
	}
	return reinterpret.Sequence[T](plan), nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
