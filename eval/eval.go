package eval

import (
	"context"
	"io"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/builtin"
	"github.com/ShimamotoWONQ/cwalk/cenv"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// Evaluator walks an ast.Program (or, for REPL fragments, a single
// ast.Node) against a shared cenv.Env and heap.Heap.
type Evaluator struct {
	Env  *cenv.Env
	Heap *heap.Heap
	Rt   *builtin.Runtime

	// Logf receives a line per function call when non-nil; the CLI
	// wires internal/logio.Logger.Leveledf here for -trace.
	Logf func(format string, args ...interface{})
}

// New returns an Evaluator with a fresh environment seeded with every
// builtin.All() entry, sharing h and writing program output to out.
func New(h *heap.Heap, out io.Writer) *Evaluator {
	env := cenv.New()
	rt := &builtin.Runtime{Heap: h, Out: out}
	e := &Evaluator{Env: env, Heap: h, Rt: rt}
	for _, b := range builtin.All() {
		// Builtins can never collide with each other; ignore the
		// (impossible) RedeclarationError.
		_ = env.RegisterFunc(b)
	}
	return e
}

// userFunc adapts an *ast.FuncDecl to cenv.Callable so interpreted and
// builtin functions share one function table.
type userFunc struct {
	decl *ast.FuncDecl
}

func (f *userFunc) Name() string { return f.decl.Name }

func (f *userFunc) Signature() cvalue.Type {
	params := make([]cvalue.Type, len(f.decl.Params))
	for i, p := range f.decl.Params {
		params[i] = p.Type
	}
	return cvalue.Function(params, f.decl.RetType)
}

// LoadProgram registers every top-level declaration's bindings and
// function signatures, in declaration order, into the single global
// scope; each name may be declared at most once.
func (e *Evaluator) LoadProgram(prog *ast.Program) error {
	for _, d := range prog.Decls {
		if err := e.loadDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) loadDecl(d ast.Decl) error {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		if err := e.Env.RegisterFunc(&userFunc{decl: decl}); err != nil {
			return cerror.New(cerror.Redeclaration, decl.Position(), "redefinition of %q", decl.Name)
		}
		return nil
	case *ast.VarDecl:
		return e.declareVars(decl)
	default:
		return cerror.New(cerror.Internal, d.Position(), "unknown top-level declaration %T", d)
	}
}

// declareVars lays out storage for each declarator in decl, zero-fills
// uninitialized scalars and arrays (the resolved Open Question), and
// evaluates/stores any initializer.
func (e *Evaluator) declareVars(decl *ast.VarDecl) error {
	for _, d := range decl.Declarators {
		if err := e.declareOne(decl.Position(), d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) declareOne(pos token.Pos, d ast.Declarator) error {
	size := uint64(cvalue.SizeOf(d.Type))
	addr := e.allocStorage(size)

	if err := e.Env.Declare(d.Name, cenv.Binding{Type: d.Type, Addr: addr}); err != nil {
		return cerror.New(cerror.Redeclaration, pos, "redeclaration of %q", d.Name)
	}

	if err := e.zeroFill(addr, d.Type); err != nil {
		return err
	}

	switch {
	case d.InitList != nil:
		return e.fillInitList(pos, addr, d.Type, d.InitList)
	case d.Init != nil:
		v, err := e.evalExpr(context.Background(), d.Init)
		if err != nil {
			return err
		}
		cv, err := e.convert(d.Type, v, pos)
		if err != nil {
			return err
		}
		return e.storeValue(addr, d.Type, cv)
	}
	return nil
}

// allocStorage reserves size bytes for a declared variable (global or
// local) as a frame-local/static range, distinct from malloc'd memory
// (heap.Heap.Reserve never surfaces in LeakWarning diagnostics).
func (e *Evaluator) allocStorage(size uint64) uint64 {
	if size == 0 {
		size = 1
	}
	addr := e.Heap.Grow(size)
	e.Heap.Reserve(addr, size)
	return addr
}

// zeroFill writes zero bytes across t's storage at addr, per the
// resolved Open Question that uninitialized locals are zero-filled at
// declaration.
func (e *Evaluator) zeroFill(addr uint64, t cvalue.Type) error {
	n := cvalue.SizeOf(t)
	if n == 0 {
		return nil
	}
	return e.Heap.StoreBytes(addr, make([]byte, n))
}
