package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/internal/manifest"
)

func (a *app) generateCmd() *cobra.Command {
	var goarch string

	cmd := &cobra.Command{
		Use:   "generate [manifest]",
		Short: "Generate every declaration listed in a manifest",
		Long: "Generate every declaration listed in a manifest (" + manifest.DefaultFile + " by default).\n" +
			"Entries are validated concurrently. Nothing is written unless all of them succeed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			reqs, err := m.Requests()
			if err != nil {
				return err
			}

			opts, err := m.Options(a.goarch(goarch))
			if err != nil {
				return err
			}
			if opts.Package == "" {
				opts.Package = a.conf.GetString("package")
			}

			a.logger.Debug().
				Str("manifest", path).
				Int("entries", len(reqs)).
				Str("goarch", opts.GOARCH).
				Msg("Loaded manifest")

			a.noteByteOrder(opts.GOARCH)

			g, err := codegen.New(opts)
			if err != nil {
				return fmt.Errorf("failed to load output package: %w", err)
			}

			decls, err := manifest.Process(cmd.Context(), g, reqs)
			if err != nil {
				a.logger.Warn().
					Int("succeeded", len(decls)).
					Int("requested", len(reqs)).
					Msg("Manifest entries failed, output not written")
				return err
			}

			if err := g.WriteFile(decls); err != nil {
				return err
			}

			a.logger.Info().
				Str("output", opts.Output).
				Int("declarations", len(decls)).
				Msg("Generated manifest output")
			return nil
		},
	}

	cmd.Flags().StringVar(&goarch, "goarch", "", "Target architecture when the manifest does not name one")

	return cmd
}
