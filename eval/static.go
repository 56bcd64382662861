package eval

import (
	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

// staticType determines expr's type without evaluating it, so sizeof
// never has side effects. Function-parameter arrays already carry a
// decayed pointer type from the parser, so sizeof on such a parameter
// naturally returns the pointer size.
func (e *Evaluator) staticType(expr ast.Expr) (cvalue.Type, error) {
	switch x := expr.(type) {
	case *ast.IntLit:
		return cvalue.Int, nil
	case *ast.FloatLit:
		return cvalue.Float, nil
	case *ast.CharLit:
		return cvalue.Char, nil
	case *ast.StringLit:
		return cvalue.Pointer(cvalue.Char), nil
	case *ast.Ident:
		b, ok := e.Env.Lookup(x.Name)
		if !ok {
			return cvalue.Type{}, cerror.New(cerror.Undeclared, x.Position(), "undeclared identifier %q", x.Name)
		}
		return b.Type, nil
	case *ast.IndexExpr:
		t, err := e.staticType(x.X)
		if err != nil {
			return cvalue.Type{}, err
		}
		if t.Kind == cvalue.KArray || t.Kind == cvalue.KPointer {
			return *t.Elem, nil
		}
		return cvalue.Type{}, cerror.New(cerror.TypeMismatch, x.Position(), "cannot index type %v", t)
	case *ast.UnaryExpr:
		switch x.Op {
		case "*":
			t, err := e.staticType(x.X)
			if err != nil {
				return cvalue.Type{}, err
			}
			if t.Kind != cvalue.KPointer {
				return cvalue.Type{}, cerror.New(cerror.TypeMismatch, x.Position(), "cannot dereference type %v", t)
			}
			return *t.Elem, nil
		case "&":
			t, err := e.staticType(x.X)
			if err != nil {
				return cvalue.Type{}, err
			}
			return cvalue.Pointer(t), nil
		default:
			return e.staticType(x.X)
		}
	case *ast.BinaryExpr:
		return e.staticBinaryType(x)
	case *ast.AssignExpr:
		return e.staticType(x.Target)
	case *ast.CastExpr:
		return x.Type, nil
	case *ast.TernaryExpr:
		return e.staticType(x.Then)
	case *ast.SizeofExpr, *ast.SizeofTypeExpr:
		return cvalue.Int, nil
	case *ast.CallExpr:
		ident, ok := x.Callee.(*ast.Ident)
		if !ok {
			return cvalue.Type{}, cerror.New(cerror.NotAFunction, x.Position(), "callee is not a function name")
		}
		c, ok := e.Env.LookupFunc(ident.Name)
		if !ok {
			return cvalue.Type{}, cerror.New(cerror.Undeclared, x.Position(), "call to undeclared function %q", ident.Name)
		}
		return *c.Signature().Ret, nil
	default:
		return cvalue.Type{}, cerror.New(cerror.Internal, expr.Position(), "cannot determine the static type of %T", expr)
	}
}

func (e *Evaluator) staticBinaryType(x *ast.BinaryExpr) (cvalue.Type, error) {
	switch x.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return cvalue.Int, nil
	}
	lt, err := e.staticType(x.X)
	if err != nil {
		return cvalue.Type{}, err
	}
	rt, err := e.staticType(x.Y)
	if err != nil {
		return cvalue.Type{}, err
	}
	if lt.Kind == cvalue.KPointer {
		return lt, nil
	}
	if rt.Kind == cvalue.KPointer {
		return rt, nil
	}
	if lt.Kind == cvalue.KFloat || rt.Kind == cvalue.KFloat {
		return cvalue.Float, nil
	}
	return cvalue.Int, nil
}
