// Package source acquires the raw bytes that get embedded.
//
// A ByteSource is immutable once constructed: nothing in typedembed writes
// to its bytes, and callers must not either.
package source

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/unsafeutil"
)

// EmbedAlign is the alignment guaranteed for bytes placed by //go:embed or
// a plain allocation. It is the worst case; the address may prove more.
const EmbedAlign = 1

// ByteSource is a fixed-length, read-only sequence of bytes tagged with its
// origin for diagnostics.
type ByteSource struct {
	// Origin is the path the bytes came from. Diagnostics only.
	Origin string
	// Align is the alignment the acquisition mechanism guarantees for the
	// first byte.
	Align uintptr

	data  []byte
	valid bool
	err   error
}

// FromBytes wraps b without copying.
func FromBytes(origin string, b []byte) ByteSource {
	return ByteSource{Origin: origin, Align: EmbedAlign, data: b, valid: true}
}

// FromString wraps s without copying. It is meant for //go:embed strings,
// whose storage is read-only and lives for the whole program.
func FromString(origin, s string) ByteSource {
	return FromBytes(origin, unsafeutil.StringToBytes(s))
}

// Unavailable returns a source recording an acquisition failure. Validating
// it reports source_unavailable with err as the cause.
func Unavailable(origin string, err error) ByteSource {
	return ByteSource{Origin: origin, Align: EmbedAlign, err: err}
}

// Valid reports whether the bytes were acquired.
func (s ByteSource) Valid() bool {
	return s.valid
}

// Err returns the acquisition failure as a source_unavailable error, or nil.
func (s ByteSource) Err() error {
	if s.valid {
		return nil
	}
	return embederr.SourceUnavailable(s.Origin, s.err)
}

// Len returns the number of bytes.
func (s ByteSource) Len() int {
	return len(s.data)
}

// Bytes returns the underlying bytes. The slice must not be modified.
func (s ByteSource) Bytes() []byte {
	return s.data
}

// Addr returns the address of the first byte, or 0 when empty.
func (s ByteSource) Addr() uintptr {
	return unsafeutil.Addr(s.data)
}

// ReadFile reads path from disk.
func ReadFile(path string, opts ...Option) (ByteSource, error) {
	cfg := newConfig(opts)

	data, err := os.ReadFile(path)
	if err != nil {
		src := Unavailable(path, err)
		return src, src.Err()
	}

	return finish(path, data, cfg)
}

// Open reads name from fsys, e.g. an embed.FS.
func Open(fsys fs.FS, name string, opts ...Option) (ByteSource, error) {
	cfg := newConfig(opts)

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		src := Unavailable(name, err)
		return src, src.Err()
	}

	return finish(name, data, cfg)
}

func finish(origin string, data []byte, cfg config) (ByteSource, error) {
	data, err := decompress(origin, data, cfg.codec)
	if err != nil {
		src := Unavailable(origin, err)
		return src, src.Err()
	}
	return FromBytes(origin, data), nil
}

// Resolve interprets path relative to base, the directory of the file that
// requested the embedding. Absolute paths are returned cleaned.
func Resolve(base, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
