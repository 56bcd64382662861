// Package interp exposes the complete lex/parse/evaluate pipeline as a
// small batch and REPL API.
package interp

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/eval"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/internal/flushio"
	"github.com/ShimamotoWONQ/cwalk/internal/panicerr"
	"github.com/ShimamotoWONQ/cwalk/parser"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// noPos is used for diagnostics that have no single source location
// (internal errors, top-level leak warnings).
var noPos = token.Pos{}

// Interpret lexes, parses, and runs source's main() to completion, or
// until ctx is cancelled. The process exit code mirrors C convention:
// it is main's returned int, or 0 if main fell off the end without an
// explicit return.
func Interpret(ctx context.Context, source string, opts ...Option) Result {
	cfg := applyOptions(opts)

	var captured bytes.Buffer
	out := cfg.stdout
	if out == nil {
		out = ioutil.Discard
	}
	wf := flushio.WriteFlushers(
		flushio.NewWriteFlusher(&captured),
		flushio.NewWriteFlusher(out),
	)

	prog, err := parser.ParseProgram(source)
	if err != nil {
		return Result{ExitCode: 1, Diagnostics: diagnosticsFor(err)}
	}

	h := heap.New(cfg.memLimit)
	ev := eval.New(h, wf)
	ev.Logf = cfg.logf

	var mainResult cvalue.Value
	runErr := panicerr.Recover("cwalk", func() error {
		v, callErr := ev.CallMain(ctx, prog)
		mainResult = v
		return callErr
	})
	wf.Flush()

	res := Result{Stdout: captured.String()}
	if runErr != nil {
		res.ExitCode = 1
		res.Diagnostics = diagnosticsFor(unwrapPanic(runErr))
		return res
	}
	res.ExitCode = int(mainResult.AsInt64())

	if cfg.strictMode {
		if leaked := h.Leaked(); len(leaked) > 0 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    string(cerror.LeakWarning),
				Message: "program exited with live allocations outstanding",
			})
		}
	}
	return res
}

// InterpretFile reads path and delegates to Interpret.
func InterpretFile(ctx context.Context, path string, opts ...Option) (Result, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Interpret(ctx, string(data), opts...), nil
}

// unwrapPanic reports an internal-error Diagnostic for an interpreter
// panic recovered by panicerr.Recover, rather than surfacing Go's raw
// panic value/stack to callers.
func unwrapPanic(err error) error {
	if panicerr.IsPanic(err) {
		return cerror.New(cerror.Internal, noPos, "internal error: %v\n%s", err, panicerr.PanicStack(err))
	}
	return err
}
