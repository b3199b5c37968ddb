// Package manifest loads batch descriptions of files to embed.
//
//	package: tables
//	output: tables_gen.go
//	embed:
//	  - name: Sine
//	    file: data/sine.bin
//	    type: int16
//	    sequence: true
//	unchecked:
//	  - name: Flags
//	    file: data/flags.bin
//	    type: FlagSet
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/bytesize"
	"github.com/invakid404/typedembed/internal/codegen"
)

const (
	// DefaultFile is loaded when no manifest path is given.
	DefaultFile = "typedembed.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TYPEDEMBED_GOARCH.
	EnvPrefix = "TYPEDEMBED"

	// DefaultMaxLiteralSize bounds literal output unless overridden.
	DefaultMaxLiteralSize = "1MiB"
)

// Entry is one file, or one glob of files, to embed.
type Entry struct {
	Name string `mapstructure:"name" yaml:"name"`
	// File and Files are mutually exclusive. Files is a doublestar glob.
	File  string `mapstructure:"file" yaml:"file,omitempty"`
	Files string `mapstructure:"files" yaml:"files,omitempty"`
	Type  string `mapstructure:"type" yaml:"type"`
	// Sequence selects []T instead of a single T.
	Sequence bool `mapstructure:"sequence" yaml:"sequence,omitempty"`
	// Array emits [N]T instead of []T.
	Array      bool   `mapstructure:"array" yaml:"array,omitempty"`
	Decompress string `mapstructure:"decompress" yaml:"decompress,omitempty"`
	// Emit overrides the manifest-wide mode.
	Emit string `mapstructure:"emit" yaml:"emit,omitempty"`
}

// Manifest describes one generated file.
type Manifest struct {
	Package        string  `mapstructure:"package" yaml:"package,omitempty"`
	Output         string  `mapstructure:"output" yaml:"output"`
	GOARCH         string  `mapstructure:"goarch" yaml:"goarch,omitempty"`
	Emit           string  `mapstructure:"emit" yaml:"emit,omitempty"`
	BuildTag       bool    `mapstructure:"build_tag" yaml:"build_tag"`
	MaxLiteralSize string  `mapstructure:"max_literal_size" yaml:"max_literal_size,omitempty"`
	Embed          []Entry `mapstructure:"embed" yaml:"embed,omitempty"`
	Unchecked      []Entry `mapstructure:"unchecked" yaml:"unchecked,omitempty"`

	// Path is the file the manifest was loaded from. Relative paths in the
	// manifest are resolved against its directory.
	Path string `mapstructure:"-" yaml:"-"`
}

// Load reads a manifest in any format viper understands, picked by
// extension. Global settings may be overridden from the environment.
func Load(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("package", "")
	v.SetDefault("goarch", "")
	v.SetDefault("emit", string(codegen.ModeLiteral))
	v.SetDefault("build_tag", true)
	v.SetDefault("max_literal_size", DefaultMaxLiteralSize)

	if err := v.ReadInConfig(); err != nil {
		return nil, embederr.New(embederr.KindInvalidInput).
			Path(path).
			Detail("failed to read manifest").
			Cause(err).
			Build()
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, embederr.New(embederr.KindInvalidInput).
			Path(path).
			Detail("failed to decode manifest").
			Cause(err).
			Build()
	}
	m.Path = path

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Dir is the directory relative paths are resolved against.
func (m *Manifest) Dir() string {
	if m.Path == "" {
		return "."
	}
	return filepath.Dir(m.Path)
}

// Validate checks the structure of the manifest. It does not touch the
// files it names.
func (m *Manifest) Validate() error {
	invalid := func(format string, args ...any) error {
		return embederr.WithPath(embederr.InvalidInput(format, args...), m.Path)
	}

	if m.Output == "" {
		return invalid("output is required")
	}
	if len(m.Embed)+len(m.Unchecked) == 0 {
		return invalid("manifest has no embed or unchecked entries")
	}
	if _, err := codegen.ParseMode(m.Emit); err != nil {
		return invalid("emit: unknown mode %q", m.Emit)
	}
	if m.MaxLiteralSize != "" {
		if _, err := bytesize.Parse(m.MaxLiteralSize); err != nil {
			return invalid("max_literal_size: %v", err)
		}
	}

	for _, group := range []struct {
		key     string
		entries []Entry
	}{{"embed", m.Embed}, {"unchecked", m.Unchecked}} {
		for i, e := range group.entries {
			if err := e.validate(); err != nil {
				return invalid("%s[%d]: %s", group.key, i, err.Detail)
			}
		}
	}
	return nil
}

func (e Entry) validate() *embederr.Error {
	switch {
	case e.Name == "":
		return embederr.InvalidInput("name is required")
	case e.Type == "":
		return embederr.InvalidInput("%s: type is required", e.Name)
	case e.File == "" && e.Files == "":
		return embederr.InvalidInput("%s: one of file or files is required", e.Name)
	case e.File != "" && e.Files != "":
		return embederr.InvalidInput("%s: file and files are mutually exclusive", e.Name)
	case e.Array && !e.Sequence:
		return embederr.InvalidInput("%s: array requires sequence", e.Name)
	}

	if _, err := codegen.ParseMode(e.Emit); err != nil {
		return embederr.InvalidInput("%s: emit: unknown mode %q", e.Name, e.Emit)
	}
	return nil
}

// Options returns the generator options for the manifest. goarch is used
// when the manifest does not name one.
func (m *Manifest) Options(goarch string) (codegen.Options, error) {
	mode, err := codegen.ParseMode(m.Emit)
	if err != nil {
		return codegen.Options{}, err
	}

	var limit bytesize.Size
	if m.MaxLiteralSize != "" {
		if err := limit.Set(m.MaxLiteralSize); err != nil {
			return codegen.Options{}, embederr.InvalidInput("max_literal_size: %v", err)
		}
	}

	if m.GOARCH != "" {
		goarch = m.GOARCH
	}

	return codegen.Options{
		Dir:            m.Dir(),
		Output:         m.Output,
		Package:        m.Package,
		GOARCH:         goarch,
		Mode:           mode,
		BuildTag:       m.BuildTag,
		MaxLiteralSize: limit,
	}, nil
}
