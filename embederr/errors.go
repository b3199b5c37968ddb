// Package embederr provides the structured error type reported by every
// stage of typedembed.
//
// Each failure carries the check that failed (Kind), the origin path of the
// embedded file, the target type name and the expected and actual numbers,
// so the author can fix the file, fix the type, or deliberately switch to
// an unchecked entry point.
//
//	err := embederr.New(embederr.KindSizeMismatch).
//		Path("tables/sine.bin").
//		TypeName("uint32").
//		Expected(4).
//		Actual(5).
//		Build()
//
// Errors match by kind through wrapping:
//
//	errors.Is(err, embederr.ErrSizeMismatch)
package embederr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindSourceUnavailable      Kind = "source_unavailable"
	KindSizeMismatch           Kind = "size_mismatch"
	KindLengthNotDivisible     Kind = "length_not_divisible"
	KindDegenerateElementSize  Kind = "degenerate_element_size"
	KindUnsafeLayout           Kind = "unsafe_layout"
	KindAlignmentUnsatisfiable Kind = "alignment_unsatisfiable"
	KindUnsupported            Kind = "unsupported"  // generator cannot express the type
	KindInvalidInput           Kind = "invalid_input" // flags, manifest, type expressions
)

// Sentinels for errors.Is matching by kind.
var (
	ErrSourceUnavailable      = &Error{Kind: KindSourceUnavailable}
	ErrSizeMismatch           = &Error{Kind: KindSizeMismatch}
	ErrLengthNotDivisible     = &Error{Kind: KindLengthNotDivisible}
	ErrDegenerateElementSize  = &Error{Kind: KindDegenerateElementSize}
	ErrUnsafeLayout           = &Error{Kind: KindUnsafeLayout}
	ErrAlignmentUnsatisfiable = &Error{Kind: KindAlignmentUnsatisfiable}
	ErrUnsupported            = &Error{Kind: KindUnsupported}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
)

// Quantity names what Expected and Actual measure.
type Quantity string

const (
	QuantityNone      Quantity = ""
	QuantitySize      Quantity = "size"
	QuantityLength    Quantity = "length"
	QuantityAlignment Quantity = "alignment"
)

// Error is the structured error used throughout typedembed
type Error struct {
	Cause    error
	Kind     Kind
	Path     string
	TypeName string
	Detail   string
	Quantity Quantity
	Expected int64
	Actual   int64
	// HasValues is set when Expected and Actual are meaningful.
	HasValues bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}

	if e.TypeName != "" {
		b.WriteString(" for type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.HasValues {
		b.WriteString(" (")
		if e.Quantity != QuantityNone {
			b.WriteString(string(e.Quantity))
			b.WriteByte(' ')
		}
		b.WriteString("expected ")
		b.WriteString(strconv.FormatInt(e.Expected, 10))
		b.WriteString(", actual ")
		b.WriteString(strconv.FormatInt(e.Actual, 10))
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Path sets the origin path of the embedded file
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the target type name
func (b *Builder) TypeName(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Quantity sets what Expected and Actual measure
func (b *Builder) Quantity(q Quantity) *Builder {
	b.err.Quantity = q
	return b
}

// Expected sets the expected value
func (b *Builder) Expected(v int64) *Builder {
	b.err.Expected = v
	b.err.HasValues = true
	return b
}

// Actual sets the actual value
func (b *Builder) Actual(v int64) *Builder {
	b.err.Actual = v
	b.err.HasValues = true
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// SourceUnavailable creates an acquisition failure error
func SourceUnavailable(path string, cause error) *Error {
	return &Error{
		Kind:   KindSourceUnavailable,
		Path:   path,
		Detail: "source file could not be read",
		Cause:  cause,
	}
}

// Unsupported creates an error for a type the generator cannot express
func Unsupported(path, typeName, what string) *Error {
	return &Error{
		Kind:     KindUnsupported,
		Path:     path,
		TypeName: typeName,
		Detail:   what,
	}
}

// InvalidInput creates an error for bad flags, manifests or type expressions
func InvalidInput(format string, args ...any) *Error {
	return &Error{
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(format, args...),
	}
}

// WithPath returns a copy of e with Path set when it is empty.
func WithPath(e *Error, path string) *Error {
	if e.Path != "" {
		return e
	}
	cp := *e
	cp.Path = path
	return &cp
}
