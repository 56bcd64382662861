package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/builtin"
	"github.com/ShimamotoWONQ/cwalk/cenv"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

// evalCall evaluates a call's arguments left-to-right before any frame
// is pushed, a fixed order chosen in place of C's unspecified one.
func (e *Evaluator) evalCall(ctx context.Context, x *ast.CallExpr) (cvalue.Value, error) {
	ident, ok := x.Callee.(*ast.Ident)
	if !ok {
		return cvalue.Value{}, cerror.New(cerror.NotAFunction, x.Position(), "callee is not a function name")
	}
	callable, ok := e.Env.LookupFunc(ident.Name)
	if !ok {
		return cvalue.Value{}, cerror.New(cerror.Undeclared, x.Position(), "call to undeclared function %q", ident.Name)
	}

	args := make([]cvalue.Value, len(x.Args))
	for i, a := range x.Args {
		v, err := e.evalExpr(ctx, a)
		if err != nil {
			return cvalue.Value{}, err
		}
		args[i] = v.Decay()
	}

	switch fn := callable.(type) {
	case *userFunc:
		return e.callUserFunc(ctx, fn, x, args)
	case *builtin.Builtin:
		return e.callBuiltin(fn, x, args)
	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, x.Position(), "unknown callable type %T", callable)
	}
}

func (e *Evaluator) callBuiltin(fn *builtin.Builtin, x *ast.CallExpr, args []cvalue.Value) (cvalue.Value, error) {
	if fn.Variadic {
		if len(args) < len(fn.Params) {
			return cvalue.Value{}, cerror.New(cerror.ArityMismatch, x.Position(),
				"%s expects at least %d arguments, got %d", fn.FuncName, len(fn.Params), len(args))
		}
	} else if len(args) != len(fn.Params) {
		return cvalue.Value{}, cerror.New(cerror.ArityMismatch, x.Position(),
			"%s expects %d arguments, got %d", fn.FuncName, len(fn.Params), len(args))
	}

	converted := make([]cvalue.Value, len(args))
	for i, a := range args {
		if i < len(fn.Params) {
			cv, err := e.convert(fn.Params[i], a, x.Position())
			if err != nil {
				return cvalue.Value{}, err
			}
			converted[i] = cv
		} else {
			converted[i] = a // variadic tail, untyped per the declared signature
		}
	}
	return fn.Call(e.Rt, x.Position(), converted)
}

// callUserFunc pushes a fresh call frame rooted at the global scope
// (a called function has no access to its caller's locals), binds
// converted parameters, executes the body, and pops the frame on
// every exit path including an error.
func (e *Evaluator) callUserFunc(ctx context.Context, fn *userFunc, x *ast.CallExpr, args []cvalue.Value) (cvalue.Value, error) {
	decl := fn.decl
	if len(args) != len(decl.Params) {
		return cvalue.Value{}, cerror.New(cerror.ArityMismatch, x.Position(),
			"%s expects %d arguments, got %d", decl.Name, len(decl.Params), len(args))
	}

	base := e.Heap.Bump()
	frame := e.Env.PushFrame(decl.RetType, base)
	frame.PushScope()
	defer func() {
		frame.PopScope()
		e.Env.PopFrame()
		e.Heap.ReleaseFrom(base)
	}()

	for i, p := range decl.Params {
		cv, err := e.convert(p.Type, args[i], x.Position())
		if err != nil {
			return cvalue.Value{}, err
		}
		addr := e.allocStorage(uint64(cvalue.SizeOf(p.Type)))
		if err := e.storeValue(addr, p.Type, cv); err != nil {
			return cvalue.Value{}, err
		}
		if p.Name != "" {
			if err := e.Env.Declare(p.Name, cenv.Binding{Type: p.Type, Addr: addr}); err != nil {
				return cvalue.Value{}, cerror.New(cerror.Redeclaration, x.Position(), "redeclaration of parameter %q", p.Name)
			}
		}
	}

	if e.Logf != nil {
		e.Logf("call %s (%d args)", decl.Name, len(args))
	}

	sig, err := e.execBlock(ctx, decl.Body)
	if err != nil {
		return cvalue.Value{}, err
	}

	switch sig.kind {
	case sigReturn:
		return e.convert(decl.RetType, sig.val, x.Position())
	case sigBreak, sigContinue:
		return cvalue.Value{}, cerror.New(cerror.StrayControlFlow, x.Position(), "break/continue outside of a loop")
	default:
		// Falling off the end of the body: int-returning functions
		// implicitly return 0, matching main()'s conventional exit
		// status; void functions return void.
		if decl.RetType.Kind == cvalue.KVoid {
			return cvalue.Value{Type: cvalue.Void}, nil
		}
		return e.convert(decl.RetType, cvalue.IntVal(0), x.Position())
	}
}
