package eval

import (
	"context"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// loadValue reads the value of type t stored at addr. Array types are
// not loaded (arrays live in place); the caller gets a handle back.
func (e *Evaluator) loadValue(pos token.Pos, addr uint64, t cvalue.Type) (cvalue.Value, error) {
	switch t.Kind {
	case cvalue.KInt:
		n, err := e.Heap.LoadInt64(addr, 4)
		if err != nil {
			return cvalue.Value{}, toSegFault(pos, err)
		}
		return cvalue.IntVal(n), nil
	case cvalue.KChar:
		b, err := e.Heap.LoadBytes(addr, 1)
		if err != nil {
			return cvalue.Value{}, toSegFault(pos, err)
		}
		return cvalue.CharVal(int64(b[0])), nil
	case cvalue.KFloat:
		f, err := e.Heap.LoadFloat32(addr)
		if err != nil {
			return cvalue.Value{}, toSegFault(pos, err)
		}
		return cvalue.FloatVal(f), nil
	case cvalue.KPointer:
		n, err := e.Heap.LoadInt64(addr, 8)
		if err != nil {
			return cvalue.Value{}, toSegFault(pos, err)
		}
		return cvalue.PointerVal(*t.Elem, uint64(n)), nil
	case cvalue.KArray:
		return cvalue.ArrayHandle(*t.Elem, t.Len, addr), nil
	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, pos, "cannot load value of type %v", t)
	}
}

// storeValue writes v (already converted to t) at addr.
func (e *Evaluator) storeValue(addr uint64, t cvalue.Type, v cvalue.Value) error {
	switch t.Kind {
	case cvalue.KInt:
		return e.Heap.StoreInt64(addr, v.AsInt64(), 4)
	case cvalue.KChar:
		return e.Heap.StoreBytes(addr, []byte{byte(v.I)})
	case cvalue.KFloat:
		return e.Heap.StoreFloat32(addr, v.AsFloat())
	case cvalue.KPointer:
		return e.Heap.StoreInt64(addr, int64(v.Addr), 8)
	default:
		return nil
	}
}

func toSegFault(pos token.Pos, err error) error {
	return cerror.Wrap(cerror.SegFault, pos, err, "segmentation fault")
}

// convert coerces v to target's type: char always promotes through int
// in arithmetic, floats truncate on assignment to an integer target,
// and arrays decay to pointers everywhere except sizeof/&.
func (e *Evaluator) convert(target cvalue.Type, v cvalue.Value, pos token.Pos) (cvalue.Value, error) {
	v = v.Decay()
	switch target.Kind {
	case cvalue.KInt:
		if v.Type.Kind == cvalue.KPointer {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "cannot convert pointer to int implicitly")
		}
		if !v.Type.IsNumeric() {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "expected a numeric value, got %v", v.Type)
		}
		if v.Type.Kind == cvalue.KFloat {
			return cvalue.IntVal(int64(v.F)), nil
		}
		return cvalue.IntVal(v.AsInt64()), nil

	case cvalue.KChar:
		if !v.Type.IsNumeric() {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "expected a numeric value, got %v", v.Type)
		}
		return cvalue.CharVal(v.AsInt64()), nil

	case cvalue.KFloat:
		if v.Type.Kind == cvalue.KPointer {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "cannot convert pointer to float implicitly")
		}
		if !v.Type.IsNumeric() {
			return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "expected a numeric value, got %v", v.Type)
		}
		return cvalue.FloatVal(v.AsFloat()), nil

	case cvalue.KPointer:
		if v.Type.Kind == cvalue.KPointer {
			return cvalue.PointerVal(*target.Elem, v.Addr), nil
		}
		if v.Type.Kind == cvalue.KInt && v.I == 0 {
			return cvalue.NullPointer(*target.Elem), nil
		}
		return cvalue.Value{}, cerror.New(cerror.TypeMismatch, pos, "expected %v, got %v", target, v.Type)

	case cvalue.KVoid:
		return v, nil

	default:
		return cvalue.Value{}, cerror.New(cerror.Internal, pos, "cannot convert to type %v", target)
	}
}

// fillInitList stores a brace initializer's elements into the array
// at addr, zero-padding any trailing elements (array already zeroed by
// zeroFill) and rejecting more initializers than the array holds.
func (e *Evaluator) fillInitList(pos token.Pos, addr uint64, t cvalue.Type, elems []ast.Expr) error {
	if t.Kind != cvalue.KArray {
		return cerror.New(cerror.TypeMismatch, pos, "brace initializer applied to non-array type %v", t)
	}
	if len(elems) > t.Len {
		return cerror.New(cerror.InitializerOverflow, pos, "too many initializers for array of length %d", t.Len)
	}
	elemSize := uint64(cvalue.SizeOf(*t.Elem))
	for i, elemExpr := range elems {
		elemAddr := addr + uint64(i)*elemSize

		if nested, ok := elemExpr.(*ast.InitListExpr); ok {
			if err := e.fillInitList(pos, elemAddr, *t.Elem, nested.Elems); err != nil {
				return err
			}
			continue
		}

		v, err := e.evalExpr(context.Background(), elemExpr)
		if err != nil {
			return err
		}
		cv, err := e.convert(*t.Elem, v, pos)
		if err != nil {
			return err
		}
		if err := e.storeValue(elemAddr, *t.Elem, cv); err != nil {
			return err
		}
	}
	return nil
}
