package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
)

// execBlock runs a block's statements in its own lexical scope,
// stopping at the first non-Normal signal or error.
func (e *Evaluator) execBlock(ctx context.Context, blk *ast.BlockStmt) (signal, error) {
	if frame := e.Env.CurrentFrame(); frame != nil {
		frame.PushScope()
		defer frame.PopScope()
	}
	for _, s := range blk.Stmts {
		sig, err := e.execStmt(ctx, s)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNormal {
			return sig, nil
		}
	}
	return normal, nil
}

// execStmt evaluates one statement, checking for cooperative
// cancellation once per statement, mirroring the one-ctx.Err()-check-
// per-step evaluator loop this interpreter is modeled on.
func (e *Evaluator) execStmt(ctx context.Context, stmt ast.Stmt) (signal, error) {
	if err := ctx.Err(); err != nil {
		return signal{}, cerror.New(cerror.Interrupted, stmt.Position(), "interrupted: %v", err)
	}

	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return e.execBlock(ctx, s)

	case *ast.EmptyStmt:
		return normal, nil

	case *ast.DeclStmt:
		if err := e.loadDecl(s.Decl); err != nil {
			return signal{}, err
		}
		return normal, nil

	case *ast.ExprStmt:
		if _, err := e.evalExpr(ctx, s.X); err != nil {
			return signal{}, err
		}
		return normal, nil

	case *ast.IfStmt:
		cond, err := e.evalExpr(ctx, s.Cond)
		if err != nil {
			return signal{}, err
		}
		if cond.Truthy() {
			return e.execStmt(ctx, s.Then)
		}
		if s.Else != nil {
			return e.execStmt(ctx, s.Else)
		}
		return normal, nil

	case *ast.WhileStmt:
		return e.execWhile(ctx, s)

	case *ast.DoWhileStmt:
		return e.execDoWhile(ctx, s)

	case *ast.ForStmt:
		return e.execFor(ctx, s)

	case *ast.ReturnStmt:
		if s.X == nil {
			return signal{kind: sigReturn}, nil
		}
		v, err := e.evalExpr(ctx, s.X)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, val: v}, nil

	case *ast.BreakStmt:
		return signal{kind: sigBreak}, nil

	case *ast.ContinueStmt:
		return signal{kind: sigContinue}, nil

	default:
		return signal{}, cerror.New(cerror.Internal, stmt.Position(), "unhandled statement %T", stmt)
	}
}

func (e *Evaluator) execWhile(ctx context.Context, s *ast.WhileStmt) (signal, error) {
	for {
		if err := ctx.Err(); err != nil {
			return signal{}, cerror.New(cerror.Interrupted, s.Position(), "interrupted: %v", err)
		}
		cond, err := e.evalExpr(ctx, s.Cond)
		if err != nil {
			return signal{}, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
		sig, err := e.execStmt(ctx, s.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal, nil
		case sigReturn:
			return sig, nil
		}
	}
}

func (e *Evaluator) execDoWhile(ctx context.Context, s *ast.DoWhileStmt) (signal, error) {
	for {
		if err := ctx.Err(); err != nil {
			return signal{}, cerror.New(cerror.Interrupted, s.Position(), "interrupted: %v", err)
		}
		sig, err := e.execStmt(ctx, s.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal, nil
		case sigReturn:
			return sig, nil
		}
		cond, err := e.evalExpr(ctx, s.Cond)
		if err != nil {
			return signal{}, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
	}
}

func (e *Evaluator) execFor(ctx context.Context, s *ast.ForStmt) (signal, error) {
	if frame := e.Env.CurrentFrame(); frame != nil {
		frame.PushScope()
		defer frame.PopScope()
	}
	if s.Init != nil {
		if _, err := e.execStmt(ctx, s.Init); err != nil {
			return signal{}, err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return signal{}, cerror.New(cerror.Interrupted, s.Position(), "interrupted: %v", err)
		}
		if s.Cond != nil {
			cond, err := e.evalExpr(ctx, s.Cond)
			if err != nil {
				return signal{}, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
		}
		sig, err := e.execStmt(ctx, s.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal, nil
		case sigReturn:
			return sig, nil
		}
		if s.Step != nil {
			if _, err := e.evalExpr(ctx, s.Step); err != nil {
				return signal{}, err
			}
		}
	}
}
