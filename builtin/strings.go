package builtin

import (
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// Strlen implements `strlen(s)`.
var Strlen = &Builtin{
	FuncName: "strlen",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Int,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if args[0].IsNull() {
			return cvalue.Value{}, segfault(pos, "strlen: null pointer")
		}
		s, err := readCString(rt, pos, args[0].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		return cvalue.IntVal(int64(len(s))), nil
	},
}

// Strcpy implements `strcpy(dst, src)`: copies bytes including the
// terminating NUL, no overlap check, returns dst.
var Strcpy = &Builtin{
	FuncName: "strcpy",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char), cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		dst, src := args[0], args[1]
		if dst.IsNull() || src.IsNull() {
			return cvalue.Value{}, segfault(pos, "strcpy: null pointer")
		}
		s, err := readCString(rt, pos, src.Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		if err := writeCString(rt, pos, dst.Addr, s); err != nil {
			return cvalue.Value{}, err
		}
		return dst, nil
	},
}

// Strncpy implements a bounded strcpy, a standard-library addition
// alongside the core string builtins.
var Strncpy = &Builtin{
	FuncName: "strncpy",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char), cvalue.Pointer(cvalue.Char), cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		dst, src, n := args[0], args[1], int(args[2].AsInt64())
		if dst.IsNull() || src.IsNull() {
			return cvalue.Value{}, segfault(pos, "strncpy: null pointer")
		}
		s, err := readCString(rt, pos, src.Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		buf := make([]byte, n)
		copy(buf, s)
		if err := rt.Heap.StoreBytes(dst.Addr, buf); err != nil {
			return cvalue.Value{}, segfault(pos, "strncpy: destination out of range")
		}
		return dst, nil
	},
}

// Strcmp implements `strcmp(a, b)`.
var Strcmp = &Builtin{
	FuncName: "strcmp",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char), cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Int,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if args[0].IsNull() || args[1].IsNull() {
			return cvalue.Value{}, segfault(pos, "strcmp: null pointer")
		}
		a, err := readCString(rt, pos, args[0].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		b, err := readCString(rt, pos, args[1].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for i := 0; i < n; i++ {
			if a[i] != b[i] {
				return cvalue.IntVal(int64(a[i]) - int64(b[i])), nil
			}
		}
		return cvalue.IntVal(int64(len(a) - len(b))), nil
	},
}

// Strcat implements `strcat(dst, src)`.
var Strcat = &Builtin{
	FuncName: "strcat",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char), cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		dst, src := args[0], args[1]
		if dst.IsNull() || src.IsNull() {
			return cvalue.Value{}, segfault(pos, "strcat: null pointer")
		}
		d, err := readCString(rt, pos, dst.Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		s, err := readCString(rt, pos, src.Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		if err := writeCString(rt, pos, dst.Addr+uint64(len(d)), s); err != nil {
			return cvalue.Value{}, err
		}
		return dst, nil
	},
}

// Strchr implements `strchr(s, c)`, returning a pointer to the first
// occurrence of c in s, or null.
var Strchr = &Builtin{
	FuncName: "strchr",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char), cvalue.Int},
	Ret:      cvalue.Pointer(cvalue.Char),
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if args[0].IsNull() {
			return cvalue.Value{}, segfault(pos, "strchr: null pointer")
		}
		s, err := readCString(rt, pos, args[0].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		c := byte(args[1].AsInt64())
		for i := 0; i <= len(s); i++ {
			if i == len(s) {
				if c == 0 {
					return cvalue.PointerVal(cvalue.Char, args[0].Addr+uint64(i)), nil
				}
				break
			}
			if s[i] == c {
				return cvalue.PointerVal(cvalue.Char, args[0].Addr+uint64(i)), nil
			}
		}
		return cvalue.NullPointer(cvalue.Char), nil
	},
}

// Atoi implements `atoi(s)`.
var Atoi = &Builtin{
	FuncName: "atoi",
	Params:   []cvalue.Type{cvalue.Pointer(cvalue.Char)},
	Ret:      cvalue.Int,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		if args[0].IsNull() {
			return cvalue.Value{}, segfault(pos, "atoi: null pointer")
		}
		s, err := readCString(rt, pos, args[0].Addr)
		if err != nil {
			return cvalue.Value{}, err
		}
		i, neg, n := 0, false, int64(0)
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			neg = s[i] == '-'
			i++
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int64(s[i]-'0')
			i++
		}
		if neg {
			n = -n
		}
		return cvalue.IntVal(n), nil
	},
}

// Abs implements `abs(n)`.
var Abs = &Builtin{
	FuncName: "abs",
	Params:   []cvalue.Type{cvalue.Int},
	Ret:      cvalue.Int,
	Impl: func(rt *Runtime, pos token.Pos, args []cvalue.Value) (cvalue.Value, error) {
		n := args[0].AsInt64()
		if n < 0 {
			n = -n
		}
		return cvalue.IntVal(n), nil
	},
}

// All returns every builtin in the registry order used to seed a fresh
// cenv.Env's function table.
func All() []*Builtin {
	return []*Builtin{
		Printf, Strlen, Strcpy, Strncpy, Strcmp, Strcat, Strchr, Atoi, Abs,
		Malloc, Free, Realloc, Memset, Memcpy,
	}
}
