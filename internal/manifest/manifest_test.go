package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/bytesize"
	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

const tablesManifest = `package: tables
output: tables_gen.go
goarch: amd64
embed:
  - name: Sine
    file: data/sine.bin
    type: int16
    sequence: true
  - name: Glyph
    files: glyphs/*.bin
    type: "[2]uint8"
    array: true
    sequence: true
unchecked:
  - name: Flags
    file: data/flags.bin
    type: "[4]bool"
    decompress: auto
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeTree(t, map[string]string{DefaultFile: tablesManifest})

	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)

	assert.Equal(t, "tables", m.Package)
	assert.Equal(t, "tables_gen.go", m.Output)
	assert.Equal(t, "amd64", m.GOARCH)
	assert.Equal(t, "literal", m.Emit)
	assert.True(t, m.BuildTag)
	assert.Equal(t, DefaultMaxLiteralSize, m.MaxLiteralSize)
	assert.Equal(t, dir, m.Dir())

	require.Len(t, m.Embed, 2)
	assert.Equal(t, Entry{Name: "Sine", File: "data/sine.bin", Type: "int16", Sequence: true}, m.Embed[0])
	assert.Equal(t, "glyphs/*.bin", m.Embed[1].Files)
	require.Len(t, m.Unchecked, 1)
	assert.Equal(t, "auto", m.Unchecked[0].Decompress)

	opts, err := m.Options("arm64")
	require.NoError(t, err)
	assert.Equal(t, "amd64", opts.GOARCH)
	assert.Equal(t, codegen.ModeLiteral, opts.Mode)
	assert.Equal(t, bytesize.Size(1<<20), opts.MaxLiteralSize)
	assert.Equal(t, dir, opts.Dir)
}

func TestLoadJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"typedembed.json": `{"output": "gen.go", "build_tag": false, "embed": [{"name": "X", "file": "x.bin", "type": "uint8"}]}`,
	})

	m, err := Load(filepath.Join(dir, "typedembed.json"))
	require.NoError(t, err)
	assert.False(t, m.BuildTag)
	assert.Equal(t, "X", m.Embed[0].Name)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := writeTree(t, map[string]string{
		DefaultFile: "output: gen.go\nembed:\n  - name: X\n    file: x.bin\n    type: uint8\n",
	})

	t.Setenv("TYPEDEMBED_GOARCH", "s390x")
	t.Setenv("TYPEDEMBED_EMIT", "embed")

	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, "s390x", m.GOARCH)
	assert.Equal(t, "embed", m.Emit)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no output", "embed:\n  - {name: X, file: x.bin, type: uint8}\n"},
		{"no entries", "output: gen.go\n"},
		{"no name", "output: gen.go\nembed:\n  - {file: x.bin, type: uint8}\n"},
		{"no type", "output: gen.go\nembed:\n  - {name: X, file: x.bin}\n"},
		{"no file", "output: gen.go\nembed:\n  - {name: X, type: uint8}\n"},
		{"file and files", "output: gen.go\nembed:\n  - {name: X, file: x.bin, files: '*.bin', type: uint8}\n"},
		{"array without sequence", "output: gen.go\nembed:\n  - {name: X, file: x.bin, type: uint8, array: true}\n"},
		{"bad emit", "output: gen.go\nemit: asm\nembed:\n  - {name: X, file: x.bin, type: uint8}\n"},
		{"bad entry emit", "output: gen.go\nembed:\n  - {name: X, file: x.bin, type: uint8, emit: asm}\n"},
		{"bad size", "output: gen.go\nmax_literal_size: lots\nembed:\n  - {name: X, file: x.bin, type: uint8}\n"},
		{"not yaml", "output: [gen.go\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{DefaultFile: tt.content})
			path := filepath.Join(dir, DefaultFile)

			_, err := Load(path)
			require.ErrorIs(t, err, embederr.ErrInvalidInput)

			var e *embederr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, path, e.Path)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	assert.ErrorIs(t, err, embederr.ErrInvalidInput)
}

func TestRequests(t *testing.T) {
	dir := writeTree(t, map[string]string{
		DefaultFile:             tablesManifest,
		"glyphs/letter_a.bin":   "ab",
		"glyphs/letter_b.bin":   "cd",
		"glyphs/nested/c.bin":   "ef",
		"glyphs/readme.txt":     "not data",
		"data/sine.bin":         "",
		"data/flags.bin":        "",
		"glyphs/zero.bin.extra": "gh",
	})

	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)

	reqs, err := m.Requests()
	require.NoError(t, err)

	var names []string
	for _, r := range reqs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Sine", "GlyphLetterA", "GlyphLetterB", "Flags"}, names)

	assert.Equal(t, validate.PathSequence, reqs[0].Path)
	assert.True(t, reqs[0].Checked)
	assert.Equal(t, source.CodecNone, reqs[0].Codec)

	assert.Equal(t, filepath.Join("glyphs", "letter_a.bin"), reqs[1].File)
	assert.True(t, reqs[1].Array)

	assert.Equal(t, validate.PathSingle, reqs[3].Path)
	assert.False(t, reqs[3].Checked)
	assert.Equal(t, source.CodecAuto, reqs[3].Codec)
}

func TestRequestsRecursiveGlob(t *testing.T) {
	dir := writeTree(t, map[string]string{
		DefaultFile:            "output: gen.go\nembed:\n  - {name: Tile, files: 'tiles/**/*.bin', type: uint8, sequence: true}\n",
		"tiles/grass.bin":      "a",
		"tiles/deep/water.bin": "b",
	})

	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)

	reqs, err := m.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.ElementsMatch(t, []string{"TileWater", "TileGrass"}, []string{reqs[0].Name, reqs[1].Name})
}

func TestRequestsErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no matches", "output: gen.go\nembed:\n  - {name: X, files: 'none/*.bin', type: uint8}\n"},
		{"duplicate", "output: gen.go\nembed:\n  - {name: X, file: a.bin, type: uint8}\nunchecked:\n  - {name: X, file: b.bin, type: uint8}\n"},
		{"bad codec", "output: gen.go\nembed:\n  - {name: X, file: a.bin, type: uint8, decompress: rar}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{DefaultFile: tt.manifest})

			m, err := Load(filepath.Join(dir, DefaultFile))
			require.NoError(t, err)

			_, err = m.Requests()
			assert.ErrorIs(t, err, embederr.ErrInvalidInput)
		})
	}
}

type fakeDeclarer struct {
	fail map[string]error
}

func (f fakeDeclarer) Declare(req codegen.Request) (codegen.Decl, error) {
	if err := f.fail[req.Name]; err != nil {
		return codegen.Decl{}, err
	}
	return codegen.Decl{Name: req.Name, Origin: req.File}, nil
}

func TestProcessSortsAndJoins(t *testing.T) {
	errB := embederr.New(embederr.KindSizeMismatch).Path("b.bin").Build()
	errD := errors.New("boom")

	var reqs []codegen.Request
	for _, name := range []string{"E", "B", "A", "D", "C"} {
		reqs = append(reqs, codegen.Request{Name: name, File: name + ".bin"})
	}

	decls, err := Process(context.Background(), fakeDeclarer{fail: map[string]error{"B": errB, "D": errD}}, reqs)

	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"A", "C", "E"}, names)

	require.Error(t, err)
	assert.ErrorIs(t, err, embederr.ErrSizeMismatch)
	assert.ErrorIs(t, err, errD)
	assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decls, err := Process(ctx, fakeDeclarer{}, []codegen.Request{{Name: "A"}})
	assert.Empty(t, decls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateFromManifest(t *testing.T) {
	dir := writeTree(t, map[string]string{
		DefaultFile: `package: tables
output: tables_gen.go
goarch: amd64
embed:
  - name: Words
    file: data/words.bin
    type: uint16
    sequence: true
  - name: Glyph
    files: glyphs/*.bin
    type: "[2]uint8"
  - name: Broken
    file: data/odd.bin
    type: uint32
    sequence: true
`,
		"data/words.bin": "\x01\x00\x02\x00",
		"data/odd.bin":   "\x01\x02\x03",
		"glyphs/a.bin":   "\x0a\x0b",
		"glyphs/b.bin":   "\x0c\x0d",
	})

	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	reqs, err := m.Requests()
	require.NoError(t, err)
	opts, err := m.Options("arm64")
	require.NoError(t, err)

	g, err := codegen.New(opts)
	require.NoError(t, err)

	decls, err := Process(context.Background(), g, reqs)
	require.ErrorIs(t, err, embederr.ErrLengthNotDivisible)
	require.Len(t, decls, 3)

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, decls))
	out := buf.String()

	assert.Contains(t, out, "package tables")
	assert.Contains(t, out, "var GlyphA = [2]uint8{0x0a, 0x0b}")
	assert.Contains(t, out, "var GlyphB = [2]uint8{0x0c, 0x0d}")
	assert.Contains(t, out, "var Words = []uint16{0x0001, 0x0002}")
	assert.NotContains(t, out, "Broken")

	a := bytes.Index(buf.Bytes(), []byte("GlyphA ="))
	b := bytes.Index(buf.Bytes(), []byte("GlyphB ="))
	w := bytes.Index(buf.Bytes(), []byte("Words ="))
	assert.True(t, a < b && b < w, fmt.Sprintf("declarations out of order:\n%s", out))
}

func TestSkeletonRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Skeleton("tables")))
	assert.Contains(t, buf.String(), "output: tables_gen.go\n")
	assert.Contains(t, buf.String(), "files: glyphs/*.bin\n")

	dir := writeTree(t, map[string]string{DefaultFile: buf.String()})
	m, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)

	want := Skeleton("tables")
	want.Path = filepath.Join(dir, DefaultFile)
	assert.Equal(t, want, m)
}
