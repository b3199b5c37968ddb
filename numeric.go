package typedembed

import "github.com/invakid404/typedembed/source"

// U8s is Slice[uint8]. Prefer the embedded bytes themselves when a []byte
// is all you need.
func U8s(src source.ByteSource) ([]uint8, error) { return Slice[uint8](src) }

// U16s is Slice[uint16].
func U16s(src source.ByteSource) ([]uint16, error) { return Slice[uint16](src) }

// U32s is Slice[uint32].
func U32s(src source.ByteSource) ([]uint32, error) { return Slice[uint32](src) }

// U64s is Slice[uint64].
func U64s(src source.ByteSource) ([]uint64, error) { return Slice[uint64](src) }

// Uints is Slice[uint].
func Uints(src source.ByteSource) ([]uint, error) { return Slice[uint](src) }

// Uintptrs is Slice[uintptr].
func Uintptrs(src source.ByteSource) ([]uintptr, error) { return Slice[uintptr](src) }

// I8s is Slice[int8].
func I8s(src source.ByteSource) ([]int8, error) { return Slice[int8](src) }

// I16s is Slice[int16].
func I16s(src source.ByteSource) ([]int16, error) { return Slice[int16](src) }

// I32s is Slice[int32].
func I32s(src source.ByteSource) ([]int32, error) { return Slice[int32](src) }

// I64s is Slice[int64].
func I64s(src source.ByteSource) ([]int64, error) { return Slice[int64](src) }

// Ints is Slice[int].
func Ints(src source.ByteSource) ([]int, error) { return Slice[int](src) }

// F32s is Slice[float32].
func F32s(src source.ByteSource) ([]float32, error) { return Slice[float32](src) }

// F64s is Slice[float64].
func F64s(src source.ByteSource) ([]float64, error) { return Slice[float64](src) }

// C64s is Slice[complex64].
func C64s(src source.ByteSource) ([]complex64, error) { return Slice[complex64](src) }

// C128s is Slice[complex128].
func C128s(src source.ByteSource) ([]complex128, error) { return Slice[complex128](src) }

func MustU8s(src source.ByteSource) []uint8 { return MustSlice[uint8](src) }
func MustU16s(src source.ByteSource) []uint16 { return MustSlice[uint16](src) }
func MustU32s(src source.ByteSource) []uint32 { return MustSlice[uint32](src) }
func MustU64s(src source.ByteSource) []uint64 { return MustSlice[uint64](src) }
func MustUints(src source.ByteSource) []uint { return MustSlice[uint](src) }
func MustUintptrs(src source.ByteSource) []uintptr { return MustSlice[uintptr](src) }
func MustI8s(src source.ByteSource) []int8 { return MustSlice[int8](src) }
func MustI16s(src source.ByteSource) []int16 { return MustSlice[int16](src) }
func MustI32s(src source.ByteSource) []int32 { return MustSlice[int32](src) }
func MustI64s(src source.ByteSource) []int64 { return MustSlice[int64](src) }
func MustInts(src source.ByteSource) []int { return MustSlice[int](src) }
func MustF32s(src source.ByteSource) []float32 { return MustSlice[float32](src) }
func MustF64s(src source.ByteSource) []float64 { return MustSlice[float64](src) }
func MustC64s(src source.ByteSource) []complex64 { return MustSlice[complex64](src) }
func MustC128s(src source.ByteSource) []complex128 { return MustSlice[complex128](src) }
