package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stoewer/go-strcase"

	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/bytesize"
	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

const defaultMaxLiteralSize = bytesize.Size(1 << 20)

// outputFlags are shared by every command that writes a generated file.
type outputFlags struct {
	pkg            string
	output         string
	emit           string
	goarch         string
	noBuildTag     bool
	maxLiteralSize bytesize.Size
}

func (f *outputFlags) register(flags *pflag.FlagSet) {
	f.maxLiteralSize = defaultMaxLiteralSize

	flags.StringVar(&f.pkg, "pkg", "", "Package clause of the output file (default $GOPACKAGE, then the package in the output directory)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (default <name>_gen.go)")
	flags.StringVar(&f.emit, "emit", "", "How data is emitted: literal or embed (default literal)")
	flags.StringVar(&f.goarch, "goarch", "", "Target architecture (default $GOARCH, then the running one)")
	flags.BoolVar(&f.noBuildTag, "no-build-tag", false, "Do not restrict the output to architectures of the target byte order")
	flags.Var(&f.maxLiteralSize, "max-literal-size", "Largest source written as a literal, e.g. 512KiB or off")
}

func (a *app) embedCmd(use, short string, sequence, checked bool) *cobra.Command {
	var (
		out        outputFlags
		name       string
		typ        string
		decompress string
		array      bool
	)

	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := source.ParseCodec(decompress)
			if err != nil {
				return embederr.InvalidInput("--decompress: %v", err)
			}

			path := validate.PathSingle
			if sequence {
				path = validate.PathSequence
			}

			output := out.output
			if output == "" {
				output = strcase.SnakeCase(name) + "_gen.go"
			}

			g, err := a.generator(&out, output)
			if err != nil {
				return err
			}

			decl, err := g.Declare(codegen.Request{
				Name:    name,
				File:    args[0],
				Type:    typ,
				Path:    path,
				Checked: checked,
				Array:   array,
				Codec:   codec,
			})
			if err != nil {
				return err
			}

			if err := g.WriteFile([]codegen.Decl{decl}); err != nil {
				return err
			}

			a.logger.Info().
				Str("name", decl.Name).
				Str("type", decl.Layout.Name).
				Str("path", decl.Path.String()).
				Int("count", decl.Count).
				Str("mode", string(decl.Mode)).
				Str("output", output).
				Msg("Generated declaration")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Name of the generated declaration")
	flags.StringVar(&typ, "type", "", "Go type expression resolved in the output package, e.g. uint32 or [4]Header")
	flags.StringVar(&decompress, "decompress", "", "Decompress the source first: none, lz4, zstd or auto")
	if sequence {
		flags.BoolVar(&array, "array", false, "Emit [N]T instead of []T")
	}
	out.register(flags)

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// generator builds a codegen.Generator from the output flags.
func (a *app) generator(out *outputFlags, output string) (*codegen.Generator, error) {
	emit := out.emit
	if emit == "" {
		emit = a.conf.GetString("emit")
	}
	mode, err := codegen.ParseMode(emit)
	if err != nil {
		return nil, err
	}

	pkg := out.pkg
	if pkg == "" {
		pkg = a.conf.GetString("package")
	}

	opts := codegen.Options{
		Dir:            ".",
		Output:         output,
		Package:        pkg,
		GOARCH:         a.goarch(out.goarch),
		Mode:           mode,
		BuildTag:       !out.noBuildTag,
		MaxLiteralSize: out.maxLiteralSize,
	}

	a.noteByteOrder(opts.GOARCH)
	a.logger.Debug().
		Str("goarch", opts.GOARCH).
		Str("mode", string(opts.Mode)).
		Str("max_literal_size", out.maxLiteralSize.String()).
		Msg("Loading output package")

	g, err := codegen.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load output package: %w", err)
	}
	return g, nil
}
