// Package unsafeutil provides the unsafe conversions shared by the source
// and reinterpretation layers.
package unsafeutil

import "unsafe"

// StringToBytes returns the bytes of s without copying.
//
// SAFETY: This function is safe to use when:
//   - The returned slice is never written to
//   - s is kept reachable for as long as the slice is used (always true for
//     //go:embed strings, which live in read-only data for the whole program)
//
// Writing through the slice breaks Go's immutable string semantics and,
// for embedded data, faults on read-only memory.
func StringToBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Addr returns the address of the first byte of b, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
