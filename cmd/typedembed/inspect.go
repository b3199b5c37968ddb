package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/invakid404/typedembed/diag"
	"github.com/invakid404/typedembed/embederr"
	"github.com/invakid404/typedembed/internal/bytesize"
	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/internal/endian"
	"github.com/invakid404/typedembed/layout"
	"github.com/invakid404/typedembed/source"
	"github.com/invakid404/typedembed/validate"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

type inspectFlags struct {
	typ        string
	goarch     string
	decompress string
	slice      bool
	unchecked  bool
	json       bool
	dump       bool
	align      uint
}

// inspection is what inspect reports, as text or JSON.
type inspection struct {
	File            string        `json:"file"`
	GOARCH          string        `json:"goarch"`
	ByteOrder       string        `json:"byte_order"`
	NativeByteOrder string        `json:"native_byte_order"`
	Layout          layoutSummary `json:"layout"`
	Path            string        `json:"path"`
	Checked         bool          `json:"checked"`
	Bytes           int           `json:"bytes"`
	Count           int           `json:"count"`
	Copied          bool          `json:"copied"`
	Elements        []any         `json:"elements,omitempty"`

	diag.Report
}

type layoutSummary struct {
	Name   string  `json:"name"`
	Size   uintptr `json:"size"`
	Align  uintptr `json:"align"`
	Safety string  `json:"safety"`
	Reason string  `json:"reason,omitempty"`
}

func (a *app) inspectCmd() *cobra.Command {
	var f inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Report how a file validates against a type without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.OutOrStdout(), args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.typ, "type", "", "Go type expression resolved in the current package")
	flags.StringVar(&f.goarch, "goarch", "", "Architecture whose sizes and byte order are used (default $GOARCH, then the running one)")
	flags.StringVar(&f.decompress, "decompress", "", "Decompress the source first: none, lz4, zstd or auto")
	flags.BoolVar(&f.slice, "slice", false, "Validate as a sequence instead of a single value")
	flags.BoolVar(&f.unchecked, "unchecked", false, "Skip the plain data check")
	flags.BoolVar(&f.json, "json", false, "Write the report as JSON")
	flags.BoolVar(&f.dump, "dump", false, "Include the decoded elements")
	flags.UintVar(&f.align, "align", 0, "Require a stricter alignment than the type's own")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func (a *app) inspect(w io.Writer, file string, f inspectFlags) error {
	codec, err := source.ParseCodec(f.decompress)
	if err != nil {
		return embederr.InvalidInput("--decompress: %v", err)
	}

	goarch := a.goarch(f.goarch)
	order, err := endian.Order(goarch)
	if err != nil {
		return err
	}
	a.noteByteOrder(goarch)

	loader, err := codegen.NewLoader(".", goarch, "")
	if err != nil {
		return err
	}
	target, err := loader.Resolve(f.typ)
	if err != nil {
		return err
	}

	l := target.Layout
	if f.align > 0 {
		l = l.WithAlign(uintptr(f.align))
	}

	path := validate.PathSingle
	if f.slice {
		path = validate.PathSequence
	}

	report := inspection{
		File:            file,
		GOARCH:          goarch,
		ByteOrder:       endian.Name(order),
		NativeByteOrder: endian.Name(endian.Native()),
		Layout:          summarize(l),
		Path:            path.String(),
		Checked:         !f.unchecked,
	}

	failure := func() error {
		src, err := source.ReadFile(source.Resolve(".", file), source.WithDecompression(codec))
		if err != nil {
			return err
		}
		src.Origin = file
		report.Bytes = src.Len()

		plan, err := codegen.Validator(path, !f.unchecked)(src, l)
		if err != nil {
			return err
		}
		report.Count = plan.Count
		report.Copied = plan.View.Copied()

		if f.dump {
			values, err := codegen.Decode(plan, target, loader, order)
			if e, ok := err.(*embederr.Error); ok {
				return embederr.WithPath(e, file)
			}
			if err != nil {
				return err
			}
			report.Elements = make([]any, len(values))
			for i, v := range values {
				report.Elements[i] = v.Interface()
			}
		}
		return nil
	}()

	a.logger.Debug().
		Str("file", file).
		Str("type", l.Name).
		Str("path", report.Path).
		Bool("ok", failure == nil).
		Msg("Inspected file")

	report.OK = failure == nil
	report.Errors = diag.Entries(failure)
	if report.Errors == nil {
		report.Errors = []diag.Entry{}
	}

	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if failure != nil {
			return errReported
		}
		return nil
	}

	if err := a.printInspection(w, report); err != nil {
		return err
	}
	return failure
}

func (a *app) printInspection(w io.Writer, r inspection) error {
	checked := "checked"
	if !r.Checked {
		checked = "unchecked"
	}

	_, err := fmt.Fprintf(w,
		"file:    %s\ntype:    %s\nsize:    %d\nalign:   %d\nsafety:  %s\npath:    %s (%s)\ntarget:  %s (%s endian)\nhost:    %s endian\nbytes:   %s\n",
		r.File, r.Layout.Name, r.Layout.Size, r.Layout.Align, r.Layout.Safety,
		r.Path, checked, r.GOARCH, r.ByteOrder, r.NativeByteOrder, bytesize.Format(int64(r.Bytes)),
	)
	if err != nil {
		return err
	}
	if r.Layout.Reason != "" {
		if _, err := fmt.Fprintf(w, "reason:  %s\n", r.Layout.Reason); err != nil {
			return err
		}
	}

	if !r.OK {
		_, err := fmt.Fprintln(w, "result:  failed")
		return err
	}

	storage := "in place"
	if r.Copied {
		storage = "copied to aligned storage"
	}
	if _, err := fmt.Fprintf(w, "result:  ok, %d element(s), %s\n", r.Count, storage); err != nil {
		return err
	}

	if r.Elements != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		dumpConfig.Fdump(w, r.Elements...)
	}
	return nil
}

func summarize(l layout.TypeLayout) layoutSummary {
	return layoutSummary{
		Name:   l.Name,
		Size:   l.Size,
		Align:  l.Align,
		Safety: l.Safety.String(),
		Reason: l.Reason,
	}
}
