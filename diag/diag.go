// Package diag renders typedembed errors for people and for tools.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/invakid404/typedembed/embederr"
)

// KindOther is reported for errors that carry no embederr.Error.
const KindOther = "error"

// Entry is one failure in an error tree.
type Entry struct {
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	Type     string `json:"type,omitempty"`
	Detail   string `json:"detail"`
	Quantity string `json:"quantity,omitempty"`
	Expected *int64 `json:"expected,omitempty"`
	Actual   *int64 `json:"actual,omitempty"`
	Cause    string `json:"cause,omitempty"`
}

// Options control Render.
type Options struct {
	// NoColor disables ANSI colors regardless of the terminal.
	NoColor bool
}

// Entries flattens err into one entry per failure. Joined errors are walked
// recursively; wrapping around an embederr.Error is dropped in favor of its
// structured fields.
func Entries(err error) []Entry {
	var out []Entry
	walk(err, &out)
	return out
}

func walk(err error, out *[]Entry) {
	if err == nil {
		return
	}

	switch e := err.(type) {
	case *embederr.Error:
		*out = append(*out, fromError(e))
		return
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walk(inner, out)
		}
		return
	}

	var structured *embederr.Error
	if inner := errors.Unwrap(err); inner != nil && errors.As(err, &structured) {
		walk(inner, out)
		return
	}

	*out = append(*out, Entry{Kind: KindOther, Detail: err.Error()})
}

func fromError(e *embederr.Error) Entry {
	entry := Entry{
		Kind:     string(e.Kind),
		Path:     e.Path,
		Type:     e.TypeName,
		Detail:   e.Detail,
		Quantity: string(e.Quantity),
	}
	if e.HasValues {
		expected, actual := e.Expected, e.Actual
		entry.Expected = &expected
		entry.Actual = &actual
	}
	if e.Cause != nil {
		entry.Cause = e.Cause.Error()
	}
	return entry
}

// Render writes every failure in err as a block:
//
//	error[size_mismatch]: file length must equal the type size
//	  --> tables/sine.bin
//	   = type: uint32
//	   = expected size: 4
//	   = actual size: 5
//
// It returns the number of failures written.
func Render(w io.Writer, err error, opts Options) (int, error) {
	entries := Entries(err)

	p := &printer{
		w:     w,
		head:  color.New(color.FgRed, color.Bold),
		arrow: color.New(color.FgCyan),
		note:  color.New(color.FgBlue),
	}
	if opts.NoColor {
		p.head.DisableColor()
		p.arrow.DisableColor()
		p.note.DisableColor()
	}

	for i, e := range entries {
		if i > 0 {
			p.printf(nil, "\n")
		}
		p.printf(p.head, "error[%s]", e.Kind)
		p.printf(nil, ": %s\n", e.Detail)
		if e.Path != "" {
			p.printf(p.arrow, "  --> %s\n", e.Path)
		}
		for _, kv := range e.notes() {
			p.printf(p.note, "   = %s: %s\n", kv[0], kv[1])
		}
	}

	if len(entries) > 1 {
		p.printf(p.head, "\n%d errors\n", len(entries))
	}

	return len(entries), p.err
}

type printer struct {
	w                 io.Writer
	head, arrow, note *color.Color
	err               error
}

func (p *printer) printf(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format, args...)
}

func (e Entry) notes() [][2]string {
	var notes [][2]string
	if e.Type != "" {
		notes = append(notes, [2]string{"type", e.Type})
	}

	qualify := func(label string) string {
		if e.Quantity == "" {
			return label
		}
		return label + " " + e.Quantity
	}
	if e.Expected != nil {
		notes = append(notes, [2]string{qualify("expected"), strconv.FormatInt(*e.Expected, 10)})
	}
	if e.Actual != nil {
		notes = append(notes, [2]string{qualify("actual"), strconv.FormatInt(*e.Actual, 10)})
	}

	if e.Cause != "" {
		notes = append(notes, [2]string{"caused by", e.Cause})
	}
	return notes
}
