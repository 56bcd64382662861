// Package eval implements the tree-walking evaluator over the AST
// produced by package parser, threading a cenv.Env and a shared
// heap.Heap through every node it walks.
package eval

import "github.com/ShimamotoWONQ/cwalk/cvalue"

// signalKind distinguishes why a statement's execution unwound: it
// either completes Normally or carries one of Break/Continue/Return up
// to the nearest consumer (loop body or function body).
type signalKind int

const (
	sigNormal signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// signal is returned alongside an error by every statement-evaluating
// function, in place of Go panics/exceptions for control flow — loops
// and function bodies inspect it directly rather than relying on
// recover.
type signal struct {
	kind signalKind
	val  cvalue.Value // populated only for sigReturn
}

var normal = signal{kind: sigNormal}
