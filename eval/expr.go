package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

// evalExpr evaluates expr as an rvalue. Arrays are returned as handles
// (not decayed); callers that need a scalar pointer call v.Decay().
func (e *Evaluator) evalExpr(ctx context.Context, expr ast.Expr) (cvalue.Value, error) {
	switch x := expr.(type) {
	case *ast.ConstExpr:
		return x.V, nil
	case *ast.IntLit:
		return cvalue.IntVal(x.Value), nil
	case *ast.FloatLit:
		return cvalue.FloatVal(x.Value), nil
	case *ast.CharLit:
		return cvalue.CharVal(x.Value), nil
	case *ast.StringLit:
		return e.evalStringLit(x)
	case *ast.Ident:
		return e.evalIdent(x)
	case *ast.UnaryExpr:
		return e.evalUnary(ctx, x)
	case *ast.BinaryExpr:
		return e.evalBinary(ctx, x)
	case *ast.AssignExpr:
		return e.evalAssign(ctx, x)
	case *ast.IndexExpr:
		addr, t, err := e.indexAddr(ctx, x)
		if err != nil {
			return cvalue.Value{}, err
		}
		return e.loadValue(x.Position(), addr, t)
	case *ast.CallExpr:
		return e.evalCall(ctx, x)
	case *ast.CastExpr:
		return e.evalCast(ctx, x)
	case *ast.TernaryExpr:
		return e.evalTernary(ctx, x)
	case *ast.SizeofExpr:
		t, err := e.staticType(x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		return cvalue.IntVal(int64(cvalue.SizeOf(t))), nil
	case *ast.SizeofTypeExpr:
		return cvalue.IntVal(int64(cvalue.SizeOf(x.Type))), nil
	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, expr.Position(), "unhandled expression %T", expr)
	}
}

// evalStringLit materializes a string literal as a fresh heap buffer,
// NUL-terminated, returning a char* handle (re-evaluating the literal
// allocates a new buffer each time, matching C's "each occurrence may
// or may not share storage" latitude).
func (e *Evaluator) evalStringLit(x *ast.StringLit) (cvalue.Value, error) {
	buf := append([]byte(x.Value), 0)
	addr := e.allocStorage(uint64(len(buf)))
	if err := e.Heap.StoreBytes(addr, buf); err != nil {
		return cvalue.Value{}, toSegFault(x.Position(), err)
	}
	return cvalue.PointerVal(cvalue.Char, addr), nil
}

func (e *Evaluator) evalIdent(x *ast.Ident) (cvalue.Value, error) {
	b, ok := e.Env.Lookup(x.Name)
	if !ok {
		return cvalue.Value{}, cerror.New(cerror.Undeclared, x.Position(), "undeclared identifier %q", x.Name)
	}
	return e.loadValue(x.Position(), b.Addr, b.Type)
}

func (e *Evaluator) evalCast(ctx context.Context, x *ast.CastExpr) (cvalue.Value, error) {
	v, err := e.evalExpr(ctx, x.X)
	if err != nil {
		return cvalue.Value{}, err
	}
	return e.convert(x.Type, v, x.Position())
}

func (e *Evaluator) evalTernary(ctx context.Context, x *ast.TernaryExpr) (cvalue.Value, error) {
	cond, err := e.evalExpr(ctx, x.Cond)
	if err != nil {
		return cvalue.Value{}, err
	}
	if cond.Truthy() {
		return e.evalExpr(ctx, x.Then)
	}
	return e.evalExpr(ctx, x.Else)
}

// indexAddr computes the storage address and element type of a[i],
// bounds-checking against the static array length when X's type is a
// known-length array; pointer subscripts fall through to the heap's
// own SegFault detection.
func (e *Evaluator) indexAddr(ctx context.Context, x *ast.IndexExpr) (uint64, cvalue.Type, error) {
	base, err := e.evalExpr(ctx, x.X)
	if err != nil {
		return 0, cvalue.Type{}, err
	}
	idxVal, err := e.evalExpr(ctx, x.Index)
	if err != nil {
		return 0, cvalue.Type{}, err
	}
	if !idxVal.Type.IsNumeric() {
		return 0, cvalue.Type{}, cerror.New(cerror.TypeMismatch, x.Position(), "array index must be numeric")
	}
	idx := idxVal.AsInt64()

	var elemType cvalue.Type
	var baseAddr uint64
	switch base.Type.Kind {
	case cvalue.KArray:
		if idx < 0 || idx >= int64(base.Len) {
			return 0, cvalue.Type{}, cerror.New(cerror.IndexOutOfBounds, x.Position(),
				"index %d out of bounds for array of length %d", idx, base.Len)
		}
		elemType = *base.Type.Elem
		baseAddr = base.Addr
	case cvalue.KPointer:
		if base.IsNull() {
			return 0, cvalue.Type{}, cerror.New(cerror.NullDereference, x.Position(), "indexing through a null pointer")
		}
		elemType = *base.Type.Elem
		baseAddr = base.Addr
	default:
		return 0, cvalue.Type{}, cerror.New(cerror.TypeMismatch, x.Position(), "cannot index type %v", base.Type)
	}

	addr := uint64(int64(baseAddr) + idx*int64(cvalue.SizeOf(elemType)))
	return addr, elemType, nil
}

// lvalueAddr resolves expr to an addressable storage location,
// rejecting expressions that are not lvalues in this subset.
func (e *Evaluator) lvalueAddr(ctx context.Context, expr ast.Expr) (uint64, cvalue.Type, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		b, ok := e.Env.Lookup(x.Name)
		if !ok {
			return 0, cvalue.Type{}, cerror.New(cerror.Undeclared, x.Position(), "undeclared identifier %q", x.Name)
		}
		return b.Addr, b.Type, nil
	case *ast.IndexExpr:
		return e.indexAddr(ctx, x)
	case *ast.UnaryExpr:
		if x.Op == "*" {
			v, err := e.evalExpr(ctx, x.X)
			if err != nil {
				return 0, cvalue.Type{}, err
			}
			v = v.Decay()
			if v.Type.Kind != cvalue.KPointer {
				return 0, cvalue.Type{}, cerror.New(cerror.TypeMismatch, x.Position(), "cannot dereference non-pointer type %v", v.Type)
			}
			if v.IsNull() {
				return 0, cvalue.Type{}, cerror.New(cerror.NullDereference, x.Position(), "dereferencing a null pointer")
			}
			return v.Addr, *v.Type.Elem, nil
		}
	}
	return 0, cvalue.Type{}, cerror.New(cerror.TypeMismatch, expr.Position(), "expression is not assignable")
}
