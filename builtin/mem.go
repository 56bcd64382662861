package builtin

import (
	"github.com/ShimamotoWONQ/cwalk/cerror"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/token"
)

func heapFault(pos token.Pos, err error) error {
	if f, ok := err.(heap.Fault); ok {
		switch f.Kind {
		case heap.KindInvalidFree:
			return cerror.New(cerror.InvalidFree, pos, "%s", f.Message)
		case heap.KindDoubleFree:
			return cerror.New(cerror.DoubleFree, pos, "%s", f.Message)
		case heap.KindOOM:
			return cerror.New(cerror.SegFault, pos, "out of memory: %s", f.Message)
		default:
			return cerror.New(cerror.SegFault, pos, "%s", f.Message)
		}
	}
	return cerror.Wrap(cerror.SegFault, pos, err, "heap fault")
}

// Malloc implements `malloc(n) -> pointer to char`.
var Malloc = &Builtin{
	FuncName: "malloc",
	Params:   []cvalue.Type{cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		n := args[0].AsInt64()
		if n < 0 {
			return cvalue.Value{}, cerror.New(cerror.SegFault, pos, "malloc: negative size")
		}
		addr, err := rt.Heap.Allocate(uint64(n))
		if err != nil {
			return cvalue.Value{}, heapFault(pos, err)
		}
		return cvalue.PointerVal(cvalue.Char, addr), nil
	},
}

// Free implements `free(p) -> void`; free(NULL) is a documented
// no-op.
var Free = &Builtin{
	FuncName: "free",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Void)},
	Ret:      cvalue.Void,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if err := rt.Heap.Free(args[0].Addr); err != nil {
			return cvalue.Value{}, heapFault(pos, err)
		}
		return cvalue.Value{Type: cvalue.Void}, nil
	},
}

// Realloc implements `realloc(p, n) -> pointer to char`.
var Realloc = &Builtin{
	FuncName: "realloc",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Void), cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		n := args[1].AsInt64()
		if n < 0 {
			return cvalue.Value{}, cerror.New(cerror.SegFault, pos, "realloc: negative size")
		}
		addr, err := rt.Heap.Reallocate(args[0].Addr, uint64(n))
		if err != nil {
			return cvalue.Value{}, heapFault(pos, err)
		}
		return cvalue.PointerVal(cvalue.Char, addr), nil
	},
}

// Memset implements `memset(p, c, n)`.
var Memset = &Builtin{
	FuncName: "memset",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Void), cvalue.Int, cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Void),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		p, c, n := args[0], byte(args[1].AsInt64()), int(args[2].AsInt64())
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = c
		}
		if err := rt.Heap.StoreBytes(p.Addr, buf); err != nil {
			return cvalue.Value{}, segfault(pos, "memset: out of range")
		}
		return p, nil
	},
}

// Memcpy implements `memcpy(dst, src, n)`.
var Memcpy = &Builtin{
	FuncName: "memcpy",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Void), cvalue.Pointer(cvalue.Void), cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Void),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		dst, src, n := args[0], args[1], int(args[2].AsInt64())
		buf, err := rt.Heap.LoadBytes(src.Addr, n)
		if err != nil {
			return cvalue.Value{}, segfault(pos, "memcpy: source out of range")
		}
		if err := rt.Heap.StoreBytes(dst.Addr, buf); err != nil {
			return cvalue.Value{}, segfault(pos, "memcpy: destination out of range")
		}
		return dst, nil
	},
}
