package interp

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/eval"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/internal/flushio"
	"github.com/ShimamotoWONQ/cwalk/internal/panicerr"
	"github.com/ShimamotoWONQ/cwalk/parser"
)

// Session is a persistent REPL context: declarations and functions
// accumulate across Step calls against one shared Env and Heap.
type Session struct {
	cfg  *config
	heap *heap.Heap
	ev   *eval.Evaluator
	out  io.Writer
}

// NewSession returns a ready-to-use Session.
func NewSession(opts ...Option) *Session {
	cfg := applyOptions(opts)
	out := cfg.stdout
	if out == nil {
		out = ioutil.Discard
	}
	h := heap.New(cfg.memLimit)
	ev := eval.New(h, out)
	ev.Logf = cfg.logf
	return &Session{cfg: cfg, heap: h, ev: ev, out: out}
}

// Step parses fragment permissively (a declaration, a statement, or a
// bare expression) and executes it against the session's accumulated
// state, returning the output produced since the previous Step and any
// diagnostics raised.
func (s *Session) Step(ctx context.Context, fragment string) (stdoutDelta string, diags []Diagnostic) {
	node, err := parser.ParseFragment(fragment)
	if err != nil {
		return "", diagnosticsFor(err)
	}

	var captured bytes.Buffer
	wf := flushio.WriteFlushers(
		flushio.NewWriteFlusher(&captured),
		flushio.NewWriteFlusher(s.out),
	)
	prevOut := s.ev.Rt.Out
	s.ev.Rt.Out = wf
	defer func() { s.ev.Rt.Out = prevOut }()

	runErr := panicerr.Recover("cwalk-session", func() error {
		_, callErr := s.ev.ExecFragment(ctx, node)
		return callErr
	})
	wf.Flush()
	if runErr != nil {
		return captured.String(), diagnosticsFor(unwrapPanic(runErr))
	}
	return captured.String(), nil
}

// Close reports a strict-mode LeakWarning for any memory still live
// across the session's lifetime.
func (s *Session) Close() error {
	if s.cfg.strictMode {
		if leaked := s.heap.Leaked(); len(leaked) > 0 {
			return cerror.New(cerror.LeakWarning, noPos, "session closed with %d live allocation(s) outstanding", len(leaked))
		}
	}
	return nil
}
