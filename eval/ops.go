package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

// promote widens a char to int before any binary arithmetic, per the
// resolved Open Question "mixed char/int arithmetic always promotes
// char to int first".
func promote(v cvalue.Value) cvalue.Value {
	if v.Type.Kind == cvalue.KChar {
		return cvalue.IntVal(v.I)
	}
	return v
}

func (e *Evaluator) evalUnary(ctx context.Context, x *ast.UnaryExpr) (cvalue.Value, error) {
	switch x.Op {
	case "&":
		addr, t, err := e.lvalueAddr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		return cvalue.PointerVal(t, addr), nil

	case "*":
		addr, t, err := e.lvalueAddr(ctx, x)
		if err != nil {
			return cvalue.Value{}, err
		}
		return e.loadValue(x.Position(), addr, t)

	case "++", "--":
		addr, t, err := e.lvalueAddr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		old, err := e.loadValue(x.Position(), addr, t)
		if err != nil {
			return cvalue.Value{}, err
		}
		delta := int64(1)
		if x.Op == "--" {
			delta = -1
		}
		next, err := e.addDelta(old, delta, x)
		if err != nil {
			return cvalue.Value{}, err
		}
		nv, err := e.convert(t, next, x.Position())
		if err != nil {
			return cvalue.Value{}, err
		}
		if err := e.storeValue(addr, t, nv); err != nil {
			return cvalue.Value{}, err
		}
		if x.Postfix {
			return old, nil
		}
		return nv, nil

	case "+":
		v, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		return promote(v), nil

	case "-":
		v, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		v = promote(v)
		if v.Type.Kind == cvalue.KFloat {
			return cvalue.FloatVal(-v.F), nil
		}
		return cvalue.IntVal(-v.I), nil

	case "!":
		v, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		if v.Truthy() {
			return cvalue.IntVal(0), nil
		}
		return cvalue.IntVal(1), nil

	case "~":
		v, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		v = promote(v)
		if v.Type.Kind != cvalue.KInt {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, x.Position(), "~ requires an integer operand")
		}
		return cvalue.IntVal(^v.I), nil

	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, x.Position(), "unknown unary operator %q", x.Op)
	}
}

// addDelta adds an integer delta to v, scaling by element size for
// pointer operands.
func (e *Evaluator) addDelta(v cvalue.Value, delta int64, pos ast.Node) (cvalue.Value, error) {
	switch v.Type.Kind {
	case cvalue.KPointer:
		scale := int64(cvalue.SizeOf(*v.Type.Elem))
		return cvalue.PointerVal(*v.Type.Elem, uint64(int64(v.Addr)+delta*scale)), nil
	case cvalue.KFloat:
		return cvalue.FloatVal(v.F + float64(delta)), nil
	default:
		return cvalue.IntVal(v.I + delta), nil
	}
}

func (e *Evaluator) evalBinary(ctx context.Context, x *ast.BinaryExpr) (cvalue.Value, error) {
	// Short-circuit operators evaluate Y only as needed.
	switch x.Op {
	case "&&":
		l, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		if !l.Truthy() {
			return cvalue.IntVal(0), nil
		}
		r, err := e.evalExpr(ctx, x.Y)
		if err != nil {
			return cvalue.Value{}, err
		}
		if r.Truthy() {
			return cvalue.IntVal(1), nil
		}
		return cvalue.IntVal(0), nil

	case "||":
		l, err := e.evalExpr(ctx, x.X)
		if err != nil {
			return cvalue.Value{}, err
		}
		if l.Truthy() {
			return cvalue.IntVal(1), nil
		}
		r, err := e.evalExpr(ctx, x.Y)
		if err != nil {
			return cvalue.Value{}, err
		}
		if r.Truthy() {
			return cvalue.IntVal(1), nil
		}
		return cvalue.IntVal(0), nil
	}

	lv, err := e.evalExpr(ctx, x.X)
	if err != nil {
		return cvalue.Value{}, err
	}
	rv, err := e.evalExpr(ctx, x.Y)
	if err != nil {
		return cvalue.Value{}, err
	}
	lv = lv.Decay()
	rv = rv.Decay()

	if lv.Type.Kind == cvalue.KPointer || rv.Type.Kind == cvalue.KPointer {
		return e.evalPointerBinary(x, lv, rv)
	}

	lv, rv = promote(lv), promote(rv)

	switch x.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return compareNumeric(x.Op, lv, rv), nil
	}

	if lv.Type.Kind == cvalue.KFloat || rv.Type.Kind == cvalue.KFloat {
		return e.evalFloatBinary(x, lv.AsFloat(), rv.AsFloat())
	}
	return e.evalIntBinary(x, lv.I, rv.I)
}

func (e *Evaluator) evalPointerBinary(x *ast.BinaryExpr, lv, rv cvalue.Value) (cvalue.Value, error) {
	switch x.Op {
	case "+":
		if lv.Type.Kind == cvalue.KPointer {
			return e.addDelta(lv, rv.AsInt64(), x)
		}
		return e.addDelta(rv, lv.AsInt64(), x)
	case "-":
		if rv.Type.Kind == cvalue.KPointer {
			if !lv.Type.Equal(rv.Type) {
				return cvalue.Value{}, cerror.New(cerror.TypeMismatch, x.Position(), "pointer subtraction requires matching pointee types")
			}
			scale := int64(cvalue.SizeOf(*lv.Type.Elem))
			if scale == 0 {
				scale = 1
			}
			return cvalue.IntVal((int64(lv.Addr) - int64(rv.Addr)) / scale), nil
		}
		return e.addDelta(lv, -rv.AsInt64(), x)
	case "==", "!=", "<", "<=", ">", ">=":
		return comparePointers(x.Op, lv, rv), nil
	default:
		return cvalue.Value{}, cerror.New(cerror.TypeMismatch, x.Position(), "operator %q not defined for pointer operands", x.Op)
	}
}

func comparePointers(op string, lv, rv cvalue.Value) cvalue.Value {
	var a, b int64
	if lv.Type.Kind == cvalue.KPointer {
		a = int64(lv.Addr)
	} else {
		a = lv.AsInt64()
	}
	if rv.Type.Kind == cvalue.KPointer {
		b = int64(rv.Addr)
	} else {
		b = rv.AsInt64()
	}
	return boolResult(compareOp(op, float64(a), float64(b)))
}

func compareNumeric(op string, lv, rv cvalue.Value) cvalue.Value {
	return boolResult(compareOp(op, lv.AsFloat(), rv.AsFloat()))
}

func compareOp(op string, a, b float64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func boolResult(b bool) cvalue.Value {
	if b {
		return cvalue.IntVal(1)
	}
	return cvalue.IntVal(0)
}

func (e *Evaluator) evalFloatBinary(x *ast.BinaryExpr, a, b float64) (cvalue.Value, error) {
	switch x.Op {
	case "+":
		return cvalue.FloatVal(a + b), nil
	case "-":
		return cvalue.FloatVal(a - b), nil
	case "*":
		return cvalue.FloatVal(a * b), nil
	case "/":
		if b == 0 {
			return cvalue.Value{}, cerror.New(cerror.DivisionByZero, x.Position(), "division by zero")
		}
		return cvalue.FloatVal(a / b), nil
	default:
		return cvalue.Value{}, cerror.New(cerror.TypeMismatch, x.Position(), "operator %q not defined for float operands", x.Op)
	}
}

func (e *Evaluator) evalIntBinary(x *ast.BinaryExpr, a, b int64) (cvalue.Value, error) {
	switch x.Op {
	case "+":
		return cvalue.IntVal(a + b), nil
	case "-":
		return cvalue.IntVal(a - b), nil
	case "*":
		return cvalue.IntVal(a * b), nil
	case "/":
		if b == 0 {
			return cvalue.Value{}, cerror.New(cerror.DivisionByZero, x.Position(), "division by zero")
		}
		return cvalue.IntVal(a / b), nil
	case "%":
		if b == 0 {
			return cvalue.Value{}, cerror.New(cerror.DivisionByZero, x.Position(), "modulo by zero")
		}
		return cvalue.IntVal(a % b), nil
	case "&":
		return cvalue.IntVal(a & b), nil
	case "|":
		return cvalue.IntVal(a | b), nil
	case "^":
		return cvalue.IntVal(a ^ b), nil
	case "<<":
		if b < 0 || b >= 32 {
			return cvalue.Value{}, cerror.New(cerror.ShiftOutOfRange, x.Position(), "shift amount %d out of range", b)
		}
		return cvalue.IntVal(a << uint(b)), nil
	case ">>":
		if b < 0 || b >= 32 {
			return cvalue.Value{}, cerror.New(cerror.ShiftOutOfRange, x.Position(), "shift amount %d out of range", b)
		}
		return cvalue.IntVal(a >> uint(b)), nil
	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, x.Position(), "unknown binary operator %q", x.Op)
	}
}

func (e *Evaluator) evalAssign(ctx context.Context, x *ast.AssignExpr) (cvalue.Value, error) {
	addr, t, err := e.lvalueAddr(ctx, x.Target)
	if err != nil {
		return cvalue.Value{}, err
	}

	rv, err := e.evalExpr(ctx, x.Value)
	if err != nil {
		return cvalue.Value{}, err
	}

	if x.Op != "=" {
		cur, err := e.loadValue(x.Position(), addr, t)
		if err != nil {
			return cvalue.Value{}, err
		}
		op := x.Op[:len(x.Op)-1] // "+=" -> "+"
		rv, err = e.applyCompound(op, cur, rv, x)
		if err != nil {
			return cvalue.Value{}, err
		}
	}

	cv, err := e.convert(t, rv, x.Position())
	if err != nil {
		return cvalue.Value{}, err
	}
	if err := e.storeValue(addr, t, cv); err != nil {
		return cvalue.Value{}, err
	}
	return cv, nil
}

func (e *Evaluator) applyCompound(op string, cur, rhs cvalue.Value, x *ast.AssignExpr) (cvalue.Value, error) {
	bin := &ast.BinaryExpr{Base: ast.NewBase(x.Position()), Op: op, X: litOf(cur), Y: litOf(rhs)}
	return e.evalBinary(context.Background(), bin)
}

// litOf wraps an already-evaluated value as a constant pseudo-literal
// so applyCompound can reuse evalBinary's operator dispatch without
// re-evaluating either operand expression.
func litOf(v cvalue.Value) ast.Expr {
	return ast.NewConstExpr(v)
}
