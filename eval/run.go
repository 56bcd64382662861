package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// CallMain loads prog's declarations and invokes its entry point,
// "main", with no arguments.
func (e *Evaluator) CallMain(ctx context.Context, prog *ast.Program) (cvalue.Value, error) {
	if err := e.LoadProgram(prog); err != nil {
		return cvalue.Value{}, err
	}
	return e.Call(ctx, "main", nil)
}

// Call invokes the named function directly with already-evaluated
// argument values, used by CallMain and by tests that want to probe
// individual functions without going through source-level call syntax.
func (e *Evaluator) Call(ctx context.Context, name string, args []cvalue.Value) (cvalue.Value, error) {
	callable, ok := e.Env.LookupFunc(name)
	if !ok {
		return cvalue.Value{}, cerror.New(cerror.Undeclared, token.Pos{}, "call to undeclared function %q", name)
	}
	fn, ok := callable.(*userFunc)
	if !ok {
		return cvalue.Value{}, cerror.New(cerror.NotAFunction, token.Pos{}, "%q is not an interpreted function", name)
	}
	synthetic := &ast.CallExpr{Base: ast.NewBase(fn.decl.Position()), Callee: &ast.Ident{Base: ast.NewBase(fn.decl.Position()), Name: name}}
	return e.callUserFunc(ctx, fn, synthetic, args)
}

// ExecFragment runs a single top-level declaration or statement parsed
// permissively by parser.ParseFragment, returning the value of a bare
// expression statement (or the zero Value for declarations/control
// statements), for interp's REPL Session.Step.
func (e *Evaluator) ExecFragment(ctx context.Context, node ast.Node) (cvalue.Value, error) {
	switch n := node.(type) {
	case ast.Decl:
		return cvalue.Value{}, e.loadDecl(n)
	case *ast.ExprStmt:
		return e.evalExpr(ctx, n.X)
	case ast.Stmt:
		_, err := e.execStmt(ctx, n)
		return cvalue.Value{}, err
	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, node.Position(), "unhandled fragment %T", node)
	}
}
