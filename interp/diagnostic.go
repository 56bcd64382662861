package interp

import (
	"errors"

	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/lexer"
	"github.com/ShimamotoWONQ/cwalk/parser"
)

// Diagnostic is the externally visible shape of any error raised while
// lexing, parsing, or evaluating a program.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Result is the outcome of a batch Interpret/InterpretFile call.
type Result struct {
	ExitCode    int
	Stdout      string
	Diagnostics []Diagnostic
}

// diagnosticsFor renders any error surfaced by the lex/parse/eval
// pipeline into its Diagnostic form; every layer's distinct error type
// (lexer.LexError, parser.ParseError, cerror.RuntimeError) is
// recognised here so callers never see a bare Go error.
func diagnosticsFor(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	var lexErr lexer.LexError
	if errors.As(err, &lexErr) {
		return []Diagnostic{{Kind: string(cerror.LexError), Message: lexErr.Message, Line: lexErr.Line, Column: lexErr.Col}}
	}

	var parseErr parser.ParseError
	if errors.As(err, &parseErr) {
		return []Diagnostic{{Kind: string(cerror.ParseError), Message: parseErr.Error(), Line: parseErr.Line, Column: parseErr.Col}}
	}

	var rtErr cerror.RuntimeError
	if errors.As(err, &rtErr) {
		d := cerror.ToDiagnostic(rtErr)
		return []Diagnostic{{Kind: d.Kind, Message: d.Message, Line: d.Line, Column: d.Column}}
	}

	return []Diagnostic{{Kind: string(cerror.Internal), Message: err.Error()}}
}
