package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invakid404/typedembed/internal/manifest"
)

func (a *app) initCmd() *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:   "init [manifest]",
		Short: "Write a manifest skeleton",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}

			if pkg == "" {
				pkg = a.conf.GetString("package")
			}
			if pkg == "" {
				abs, err := filepath.Abs(filepath.Dir(path))
				if err != nil {
					return fmt.Errorf("failed to resolve manifest directory: %w", err)
				}
				pkg = filepath.Base(abs)
			}

			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
			if err != nil {
				if errors.Is(err, fs.ErrExist) {
					return fmt.Errorf("%s already exists", path)
				}
				return fmt.Errorf("failed to create %s: %w", path, err)
			}

			if err := manifest.Write(f, manifest.Skeleton(pkg)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			a.logger.Info().Str("path", path).Str("package", pkg).Msg("Wrote manifest skeleton")
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "pkg", "", "Package of the generated file (default $GOPACKAGE, then the directory name)")

	return cmd
}
