package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects how a source file is decoded before validation. The
// lengths the validator sees are always decoded lengths.
type Codec string

const (
	CodecNone Codec = "none"
	CodecLZ4  Codec = "lz4"
	CodecZstd Codec = "zstd"
	// CodecAuto picks by extension: .lz4 or .zst, otherwise none.
	CodecAuto Codec = "auto"
)

// ParseCodec parses a codec name. The empty string means none.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CodecNone, nil
	case CodecNone, CodecLZ4, CodecZstd, CodecAuto:
		return c, nil
	case "zst":
		return CodecZstd, nil
	default:
		return "", fmt.Errorf("unknown codec %q (want none, lz4, zstd or auto)", s)
	}
}

// Detect resolves CodecAuto for origin.
func (c Codec) Detect(origin string) Codec {
	if c != CodecAuto {
		return c
	}
	switch strings.ToLower(filepath.Ext(origin)) {
	case ".lz4":
		return CodecLZ4
	case ".zst", ".zstd":
		return CodecZstd
	default:
		return CodecNone
	}
}

// Compressed reports whether the codec decodes anything for origin.
func (c Codec) Compressed(origin string) bool {
	switch c.Detect(origin) {
	case CodecNone, "":
		return false
	default:
		return true
	}
}

type config struct {
	codec Codec
}

// Option configures acquisition.
type Option func(*config)

// WithDecompression decodes the file with codec after reading it.
func WithDecompression(codec Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

func newConfig(opts []Option) config {
	cfg := config{codec: CodecNone}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func decompress(origin string, data []byte, codec Codec) ([]byte, error) {
	switch codec.Detect(origin) {
	case CodecNone, "":
		return data, nil
	case CodecLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode lz4 frame: %w", err)
		}
		return out, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decode zstd frame: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}
