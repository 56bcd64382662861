// Package cerror defines the interpreter's error taxonomy and the
// externally-visible Diagnostic shape, shared by every layer of the
// pipeline. Lower-layer failures (lexer, heap allocator) are wrapped
// with github.com/pkg/errors so a RuntimeError retains the original
// cause and stack for troubleshooting.
package cerror

import (
	"fmt"

	"github.com/ShimamotoWONQ/cwalk/token"
	"github.com/pkg/errors"
)

// Kind enumerates the interpreter's diagnostic kinds.
type Kind string

const (
	LexError            Kind = "LexError"
	ParseError          Kind = "ParseError"
	Redeclaration       Kind = "Redeclaration"
	Undeclared          Kind = "Undeclared"
	TypeMismatch        Kind = "TypeMismatch"
	NotAFunction        Kind = "NotAFunction"
	ArityMismatch       Kind = "ArityMismatch"
	DivisionByZero      Kind = "DivisionByZero"
	ShiftOutOfRange     Kind = "ShiftOutOfRange"
	IndexOutOfBounds    Kind = "IndexOutOfBounds"
	NullDereference     Kind = "NullDereference"
	InvalidFree         Kind = "InvalidFree"
	DoubleFree          Kind = "DoubleFree"
	SegFault            Kind = "SegFault"
	InitializerOverflow Kind = "InitializerOverflow"
	StrayControlFlow    Kind = "StrayControlFlow"
	Interrupted         Kind = "Interrupted"
	LeakWarning         Kind = "LeakWarning"
	Internal            Kind = "Internal"
)

// RuntimeError is the single error type propagated from any layer of
// the interpreter up to the driver, carrying a Diagnostic-shaped Kind
// plus source position.
type RuntimeError struct {
	Kind    Kind
	Message string
	Pos     token.Pos
	cause   error
}

// New constructs a RuntimeError with no wrapped cause.
func New(kind Kind, pos token.Pos, format string, args ...interface{}) RuntimeError {
	return RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Wrap constructs a RuntimeError that records cause via
// github.com/pkg/errors, preserving cause's message and stack.
func Wrap(kind Kind, pos token.Pos, cause error, context string) RuntimeError {
	return RuntimeError{
		Kind:    kind,
		Message: context,
		Pos:     pos,
		cause:   errors.Wrap(cause, context),
	}
}

func (e RuntimeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s at %v: %v", e.Kind, e.Pos, e.cause)
	}
	return fmt.Sprintf("%s at %v: %s", e.Kind, e.Pos, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e RuntimeError) Unwrap() error { return e.cause }

// Diagnostic is the externally visible shape of a RuntimeError.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// ToDiagnostic renders a RuntimeError as a Diagnostic.
func ToDiagnostic(err RuntimeError) Diagnostic {
	return Diagnostic{
		Kind:    string(err.Kind),
		Message: err.Message,
		Line:    err.Pos.Line,
		Column:  err.Pos.Col,
	}
}
