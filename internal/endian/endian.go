// Package endian maps GOARCH values to byte orders.
package endian

import (
	"encoding/binary"
	"slices"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/invakid404/typedembed/embederr"
)

var (
	little = []string{
		"386", "amd64", "amd64p32", "arm", "arm64", "loong64",
		"mips64le", "mipsle", "ppc64le", "riscv64", "wasm",
	}
	big = []string{"mips", "mips64", "ppc64", "s390x"}
)

// Order returns the byte order of goarch.
func Order(goarch string) (binary.ByteOrder, error) {
	switch {
	case slices.Contains(little, goarch):
		return binary.LittleEndian, nil
	case slices.Contains(big, goarch):
		return binary.BigEndian, nil
	default:
		return nil, embederr.InvalidInput("unknown GOARCH %q", goarch)
	}
}

// Family returns every GOARCH sharing the byte order of goarch.
func Family(goarch string) ([]string, error) {
	order, err := Order(goarch)
	if err != nil {
		return nil, err
	}
	if order == binary.BigEndian {
		return slices.Clone(big), nil
	}
	return slices.Clone(little), nil
}

// BuildConstraint returns a //go:build expression matching the byte-order
// family of goarch, e.g. "386 || amd64 || ...". When keep is set, only the
// architectures it accepts are listed; goarch itself is always listed.
func BuildConstraint(goarch string, keep func(arch string) bool) (string, error) {
	family, err := Family(goarch)
	if err != nil {
		return "", err
	}
	if keep != nil {
		family = slices.DeleteFunc(family, func(arch string) bool {
			return arch != goarch && !keep(arch)
		})
	}
	return strings.Join(family, " || "), nil
}

// Native returns the byte order of the running program.
func Native() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Name is "little" or "big".
func Name(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}
