package manifest

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stoewer/go-strcase"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

// Requests expands every entry into generator requests. Glob entries give
// one request per match, named Name + UpperCamelCase(stem).
func (m *Manifest) Requests() ([]codegen.Request, error) {
	var reqs []codegen.Request

	for _, group := range []struct {
		entries []Entry
		checked bool
	}{{m.Embed, true}, {m.Unchecked, false}} {
		for _, e := range group.entries {
			expanded, err := m.expand(e, group.checked)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, expanded...)
		}
	}

	seen := make(map[string]string, len(reqs))
	for _, req := range reqs {
		if prev, ok := seen[req.Name]; ok {
			return nil, embederr.WithPath(
				embederr.InvalidInput("%s is declared for both %s and %s", req.Name, prev, req.File),
				m.Path,
			)
		}
		seen[req.Name] = req.File
	}

	return reqs, nil
}

func (m *Manifest) expand(e Entry, checked bool) ([]codegen.Request, error) {
	codec, err := source.ParseCodec(e.Decompress)
	if err != nil {
		return nil, embederr.WithPath(embederr.InvalidInput("%s: %v", e.Name, err), m.Path)
	}
	mode, err := codegen.ParseMode(e.Emit)
	if err != nil {
		return nil, err
	}
	if e.Emit == "" {
		mode = ""
	}

	base := codegen.Request{
		Name:    e.Name,
		File:    e.File,
		Type:    e.Type,
		Path:    validate.PathSingle,
		Checked: checked,
		Array:   e.Array,
		Mode:    mode,
		Codec:   codec,
	}
	if e.Sequence {
		base.Path = validate.PathSequence
	}

	if e.Files == "" {
		return []codegen.Request{base}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(m.Dir()), filepath.ToSlash(e.Files), doublestar.WithFilesOnly())
	if err != nil {
		return nil, embederr.WithPath(embederr.InvalidInput("%s: bad pattern %q: %v", e.Name, e.Files, err), m.Path)
	}
	if len(matches) == 0 {
		return nil, embederr.WithPath(embederr.InvalidInput("%s: pattern %q matched no files", e.Name, e.Files), m.Path)
	}

	reqs := make([]codegen.Request, len(matches))
	for i, match := range matches {
		req := base
		req.Name = e.Name + strcase.UpperCamelCase(stem(match))
		req.File = filepath.FromSlash(match)
		reqs[i] = req
	}
	return reqs, nil
}

// stem strips the directory and every extension: "glyphs/a.bin.lz4" is "a".
func stem(name string) string {
	base := path.Base(name)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
