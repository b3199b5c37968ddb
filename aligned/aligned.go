// Package aligned binds a byte source to a required alignment.
package aligned

import (
	"math/bits"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/unsafeutil"
	"github.com/invakid404/typedembed/source"
)

// MaxAlignment is the largest alignment Adjust can establish. Beyond a page
// the Go allocator gives no help and over-allocating stops being sensible.
const MaxAlignment = 4096

// View is a byte source whose first byte sits at a multiple of
// Alignment(). Padding added to reach that address is not part of the view.
type View struct {
	source.ByteSource
	align  uintptr
	copied bool
}

// Alignment returns the alignment the view guarantees.
func (v View) Alignment() uintptr {
	return v.align
}

// Copied reports whether the bytes had to be moved to aligned storage.
func (v View) Copied() bool {
	return v.copied
}

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp rounds n up to a multiple of align, which must be a power of two.
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// NextPowerOfTwo returns the smallest power of two not below n.
func NextPowerOfTwo(n uintptr) uintptr {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Check reports whether align can be established at all, without touching
// any bytes.
func Check(origin string, align uintptr) error {
	if !IsPowerOfTwo(align) {
		return embederr.New(embederr.KindAlignmentUnsatisfiable).
			Path(origin).
			Quantity(embederr.QuantityAlignment).
			Detail("alignment %d is not a power of two", align).
			Expected(int64(NextPowerOfTwo(align))).
			Actual(int64(align)).
			Build()
	}
	if align > MaxAlignment {
		return embederr.New(embederr.KindAlignmentUnsatisfiable).
			Path(origin).
			Quantity(embederr.QuantityAlignment).
			Detail("alignment %d exceeds the supported maximum", align).
			Expected(int64(align)).
			Actual(MaxAlignment).
			Build()
	}
	return nil
}

// Adjust returns a view of src starting at a multiple of align. When src
// already starts there the view aliases it; otherwise the bytes are copied
// once into over-allocated storage and the aligned region is exposed.
func Adjust(src source.ByteSource, align uintptr) (View, error) {
	if err := Check(src.Origin, align); err != nil {
		return View{}, err
	}

	if src.Len() == 0 || src.Addr()&(align-1) == 0 {
		out := src
		if align > out.Align {
			out.Align = align
		}
		return View{ByteSource: out, align: align}, nil
	}

	buf := alloc(src.Len(), align)
	copy(buf, src.Bytes())

	out := source.FromBytes(src.Origin, buf)
	out.Align = align
	return View{ByteSource: out, align: align, copied: true}, nil
}

func alloc(size int, align uintptr) []byte {
	// Allocate size + align so the start can shift up to align-1 bytes.
	buf := make([]byte, size+int(align))
	addr := unsafeutil.Addr(buf)
	offset := AlignUp(addr, align) - addr
	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}
