package unsafeutil

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestStringToBytesSharesStorage(t *testing.T) {
	s := "lorem ipsum"
	b := StringToBytes(s)

	assert.Equal(t, []byte(s), b)
	assert.Equal(t, unsafe.Pointer(unsafe.StringData(s)), unsafe.Pointer(unsafe.SliceData(b)))
	assert.Nil(t, StringToBytes(""))
}

func TestAddr(t *testing.T) {
	var words [2]uint64
	b := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), 16)

	assert.Equal(t, uintptr(unsafe.Pointer(&words[0])), Addr(b))
	assert.Equal(t, Addr(b)+3, Addr(b[3:]))
	assert.Zero(t, Addr(nil))
}
