package typedembed

import (
	_ "embed"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/reinterpret"
	"github.com/invakid404/typedembed/source"
)

//go:embed testdata/binary_4
var binary4 string

//go:embed testdata/binary_5
var binary5 string

//go:embed testdata/binary_31
var binary31 string

//go:embed testdata/binary_32
var binary32 string

//go:embed testdata/binary_64
var binary64 []byte

//go:embed testdata/file_exactly_4_bytes_long
var exactly4 string

var nativeOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
} = binary.LittleEndian

func init() {
	probe := uint16(1)
	if *(*byte)(unsafe.Pointer(&probe)) == 0 {
		nativeOrder = binary.BigEndian
	}
}

type foo struct {
	Integer uint16
	Pair    [2]uint8
}

type structWithBools struct {
	Bool1    bool
	Bool2    bool
	TwoBytes uint16
}

func TestDataU32(t *testing.T) {
	v, err := Data[uint32](String("binary_4", binary4))
	require.NoError(t, err)
	assert.Equal(t, nativeOrder.Uint32([]byte{0, 1, 2, 3}), v)
}

func TestDataUTF32Array(t *testing.T) {
	var text []byte
	for _, r := range "Lorem ipsum\n" {
		text = nativeOrder.AppendUint32(text, uint32(r))
	}

	v, err := Data[[12]uint32](Bytes("lorem_ipsum_utf32", text))
	require.NoError(t, err)

	for i, r := range "Lorem ipsum\n" {
		assert.Equal(t, uint32(r), v[i])
	}
}

func TestDataCustomStruct(t *testing.T) {
	v, err := Data[foo](String("binary_4", binary4))
	require.NoError(t, err)

	assert.Equal(t, nativeOrder.Uint16([]byte{0, 1}), v.Integer)
	assert.Equal(t, [2]uint8{2, 3}, v.Pair)
}

func TestDataRejections(t *testing.T) {
	_, err := Data[uint32](String("binary_5", binary5))
	assert.ErrorIs(t, err, embederr.ErrSizeMismatch)

	_, err = Data[structWithBools](String("file_exactly_4_bytes_long", exactly4))
	assert.ErrorIs(t, err, embederr.ErrUnsafeLayout)

	_, err = Data[[4]bool](String("file_exactly_4_bytes_long", exactly4))
	assert.ErrorIs(t, err, embederr.ErrUnsafeLayout)
}

func TestUncheckedData(t *testing.T) {
	v, err := UncheckedData[structWithBools](String("file_exactly_4_bytes_long", exactly4))
	require.NoError(t, err)

	assert.True(t, v.Bool1)
	assert.False(t, v.Bool2)
	assert.Equal(t, nativeOrder.Uint16([]byte{2, 3}), v.TwoBytes)
	assert.Equal(t, []byte{0x01, 0x00, 0x02, 0x03}, reinterpret.ValueBytes(&v))

	_, err = UncheckedData[structWithBools](String("binary_5", binary5))
	assert.ErrorIs(t, err, embederr.ErrSizeMismatch)
}

func TestSliceBytes(t *testing.T) {
	s, err := U8s(String("binary_32", binary32))
	require.NoError(t, err)
	require.Len(t, s, 32)
	for i := range s {
		assert.Equal(t, uint8(i), s[i])
	}

	s, err = Slice[uint8](String("binary_31", binary31))
	require.NoError(t, err)
	assert.Len(t, s, 31)
}

func TestSliceU16(t *testing.T) {
	s, err := U16s(String("binary_32", binary32))
	require.NoError(t, err)

	require.Len(t, s, 16)
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))%2)
	for i := range s {
		b := byte(i * 2)
		assert.Equal(t, nativeOrder.Uint16([]byte{b, b + 1}), s[i])
	}
}

func TestSliceU32(t *testing.T) {
	s := MustU32s(String("binary_32", binary32))

	require.Len(t, s, 8)
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))%4)
	for i := range s {
		b := byte(i * 4)
		assert.Equal(t, nativeOrder.Uint32([]byte{b, b + 1, b + 2, b + 3}), s[i])
	}
}

func TestSliceOfArrays(t *testing.T) {
	s, err := Slice[[4]byte](String("binary_32", binary32))
	require.NoError(t, err)

	require.Len(t, s, 8)
	assert.Equal(t, [4]byte{0x00, 0x01, 0x02, 0x03}, s[0])
	assert.Equal(t, [4]byte{0x1C, 0x1D, 0x1E, 0x1F}, s[7])
}

func TestSliceFloats(t *testing.T) {
	f32, err := F32s(Bytes("binary_64", binary64))
	require.NoError(t, err)
	assert.Len(t, f32, 16)
	assert.Zero(t, uintptr(unsafe.Pointer(&f32[0]))%unsafe.Alignof(float32(0)))

	f64 := MustF64s(String("binary_32", binary32))
	assert.Len(t, f64, 4)
	assert.Zero(t, uintptr(unsafe.Pointer(&f64[0]))%unsafe.Alignof(float64(0)))

	c128, err := C128s(Bytes("binary_64", binary64))
	require.NoError(t, err)
	assert.Len(t, c128, 4)
}

func TestNumericAliases(t *testing.T) {
	src := Bytes("binary_64", binary64)

	lengths := map[string]func() (int, error){
		"U64s":     func() (int, error) { s, err := U64s(src); return len(s), err },
		"I8s":      func() (int, error) { s, err := I8s(src); return len(s), err },
		"I16s":     func() (int, error) { s, err := I16s(src); return len(s), err },
		"I32s":     func() (int, error) { s, err := I32s(src); return len(s), err },
		"I64s":     func() (int, error) { s, err := I64s(src); return len(s), err },
		"C64s":     func() (int, error) { s, err := C64s(src); return len(s), err },
		"Ints":     func() (int, error) { s, err := Ints(src); return len(s), err },
		"Uints":    func() (int, error) { s, err := Uints(src); return len(s), err },
		"Uintptrs": func() (int, error) { s, err := Uintptrs(src); return len(s), err },
	}
	want := map[string]int{
		"U64s":     8,
		"I8s":      64,
		"I16s":     32,
		"I32s":     16,
		"I64s":     8,
		"C64s":     8,
		"Ints":     64 / int(unsafe.Sizeof(int(0))),
		"Uints":    64 / int(unsafe.Sizeof(uint(0))),
		"Uintptrs": 64 / int(unsafe.Sizeof(uintptr(0))),
	}

	for name, fn := range lengths {
		t.Run(name, func(t *testing.T) {
			n, err := fn()
			require.NoError(t, err)
			assert.Equal(t, want[name], n)
		})
	}
}

func TestSliceRejections(t *testing.T) {
	_, err := U32s(String("binary_31", binary31))
	assert.ErrorIs(t, err, embederr.ErrLengthNotDivisible)

	_, err = Slice[struct{}](String("binary_4", binary4))
	assert.ErrorIs(t, err, embederr.ErrDegenerateElementSize)

	_, err = Slice[struct{}](String("empty", ""))
	assert.ErrorIs(t, err, embederr.ErrDegenerateElementSize)

	_, err = Slice[bool](String("binary_4", binary4))
	assert.ErrorIs(t, err, embederr.ErrUnsafeLayout)

	_, err = Slice[source.ByteSource](String("binary_4", binary4))
	assert.Error(t, err)
}

func TestSliceEmpty(t *testing.T) {
	s, err := U32s(String("empty", ""))
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Empty(t, s)
}

func TestUncheckedSlice(t *testing.T) {
	s, err := UncheckedSlice[bool](String("file_exactly_4_bytes_long", exactly4))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, s[:2])

	assert.Panics(t, func() {
		MustUncheckedSlice[uint32](String("binary_31", binary31))
	})
	assert.NotPanics(t, func() {
		MustUncheckedData[uint32](String("binary_4", binary4))
	})
}

func TestMustPanicsWithStructuredError(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, embederr.ErrSizeMismatch)
	}()

	MustData[uint64](String("binary_4", binary4))
}

func TestRoundTripWritesBackSourceFile(t *testing.T) {
	original, err := os.ReadFile(filepath.Join("testdata", "binary_4"))
	require.NoError(t, err)

	v := MustData[foo](Bytes("binary_4", original))

	out := filepath.Join(t.TempDir(), "binary_4")
	require.NoError(t, os.WriteFile(out, reinterpret.ValueBytes(&v), 0644))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, original, written)

	s := MustSlice[uint16](String("binary_32", binary32))
	assert.Equal(t, []byte(binary32), reinterpret.SequenceBytes(s))
}
