package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Skeleton is the manifest written by typedembed init.
func Skeleton(pkg string) *Manifest {
	return &Manifest{
		Package:        pkg,
		Output:         pkg + "_gen.go",
		Emit:           "literal",
		BuildTag:       true,
		MaxLiteralSize: DefaultMaxLiteralSize,
		Embed: []Entry{
			{Name: "Table", File: "data/table.bin", Type: "uint32", Sequence: true},
			{Name: "Glyph", Files: "glyphs/*.bin", Type: "[8]uint8"},
		},
		Unchecked: []Entry{
			{Name: "Flags", File: "data/flags.bin", Type: "[4]bool"},
		},
	}
}

// Write encodes m as YAML.
func Write(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}
