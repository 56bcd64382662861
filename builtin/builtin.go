// Package builtin implements the runtime library exposed to
// interpreted programs — printf, the string routines, and the heap
// allocation primitives. Builtins are first-class function-table
// entries, distinguished from interpreted functions by concrete Go
// type; the evaluator branches once on call to dispatch to either an
// interpreted ast.FuncDecl or a builtin.Builtin.
package builtin

import (
	"io"

	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// Runtime is the slice of interpreter state a builtin needs: the
// shared heap for pointer validation/access, and the output sink.
// Kept as a concrete struct (not an interface back into package eval)
// so this package has no dependency on the evaluator.
type Runtime struct {
	Heap *heap.Heap
	Out  io.Writer
}

// Func is the calling convention for a builtin: it receives already
// rvalue-evaluated, parameter-converted arguments (the same argument
// handling applies uniformly to builtins and interpreted functions)
// and returns a value of its declared return type or a RuntimeError.
type Func func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error)

// Builtin is one function-table entry for a native routine.
type Builtin struct {
	FuncName string
	Params   []cvalue.Type
	Ret      cvalue.Type
	Impl     Func
	// Variadic marks a C-style `...` tail (only printf uses this):
	// arguments beyond len(Params) are passed through to Impl without
	// parameter-type conversion, since their interpretation depends on
	// the runtime format string rather than a declared type.
	Variadic bool
}

// Name implements cenv.Callable.
func (b *Builtin) Name() string { return b.FuncName }

// Signature implements cenv.Callable.
func (b *Builtin) Signature() cvalue.Type { return cvalue.Function(b.Params, b.Ret) }

// Call invokes the builtin.
func (b *Builtin) Call(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
	return b.Impl(rt, pos, args)
}

func segfault(pos token.Pos, op string) error {
	return cerror.New(cerror.SegFault, pos, "segmentation fault: %s", op)
}

// readCString reads bytes at addr up to (and not including) the first
// NUL byte — the usual C definition of "null-terminated".
func readCString(rt *Runtime, pos token.Pos, addr uint64) (string, error) {
	var buf []byte
	const chunk = 64
	for {
		b, err := rt.Heap.LoadBytes(addr+uint64(len(buf)), chunk)
		if err != nil {
			// fall back to a byte-at-a-time scan near the end of a
			// live range, where a full chunk would overrun it
			break
		}
		if i := indexZero(b); i >= 0 {
			return string(append(buf, b[:i]...)), nil
		}
		buf = append(buf, b...)
	}
	for {
		b, err := rt.Heap.LoadBytes(addr+uint64(len(buf)), 1)
		if err != nil {
			return "", segfault(pos, "strlen: unterminated string")
		}
		if b[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

// writeCString writes s followed by a NUL terminator at addr.
func writeCString(rt *Runtime, pos token.Pos, addr uint64, s string) error {
	buf := append([]byte(s), 0)
	if err := rt.Heap.StoreBytes(addr, buf); err != nil {
		return segfault(pos, "strcpy: destination out of range")
	}
	return nil
}
