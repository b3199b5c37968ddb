package diag

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invakid404/typedembed/embederr"
)

func sizeMismatch() error {
	return embederr.New(embederr.KindSizeMismatch).
		Path("tables/sine.bin").
		TypeName("uint32").
		Quantity(embederr.QuantitySize).
		Detail("file length must equal the type size").
		Expected(4).
		Actual(5).
		Build()
}

func TestRenderSingle(t *testing.T) {
	var buf bytes.Buffer
	n, err := Render(&buf, sizeMismatch(), Options{NoColor: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "error[size_mismatch]: file length must equal the type size\n" +
		"  --> tables/sine.bin\n" +
		"   = type: uint32\n" +
		"   = expected size: 4\n" +
		"   = actual size: 5\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderJoined(t *testing.T) {
	unavailable := embederr.SourceUnavailable("missing.bin", os.ErrNotExist)
	plain := errors.New("manifest has no entries")

	err := errors.Join(sizeMismatch(), fmt.Errorf("entry Glyph: %w", unavailable), plain)

	var buf bytes.Buffer
	n, rerr := Render(&buf, err, Options{NoColor: true})
	require.NoError(t, rerr)
	assert.Equal(t, 3, n)

	out := buf.String()
	assert.Contains(t, out, "error[size_mismatch]")
	assert.Contains(t, out, "error[source_unavailable]: source file could not be read\n  --> missing.bin\n")
	assert.Contains(t, out, "   = caused by: file does not exist\n")
	assert.Contains(t, out, "error[error]: manifest has no entries\n")
	assert.Contains(t, out, "\n3 errors\n")
}

func TestRenderNil(t *testing.T) {
	var buf bytes.Buffer
	n, err := Render(&buf, nil, Options{NoColor: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}

func TestEntriesWithoutValues(t *testing.T) {
	entries := Entries(embederr.Unsupported("a.bin", "T", "field Name: string cannot be written as a literal"))
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "unsupported", e.Kind)
	assert.Equal(t, "T", e.Type)
	assert.Nil(t, e.Expected)
	assert.Nil(t, e.Actual)
	assert.Empty(t, e.Quantity)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, errors.Join(sizeMismatch(), errors.New("boom"))))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.False(t, report.OK)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, "size_mismatch", report.Errors[0].Kind)
	require.NotNil(t, report.Errors[0].Expected)
	assert.Equal(t, int64(4), *report.Errors[0].Expected)
	assert.Equal(t, int64(5), *report.Errors[0].Actual)
	assert.Equal(t, KindOther, report.Errors[1].Kind)
	assert.Equal(t, "boom", report.Errors[1].Detail)
}

func TestJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, nil))
	assert.JSONEq(t, `{"ok": true, "errors": []}`, buf.String())
}
