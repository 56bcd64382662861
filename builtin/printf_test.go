package builtin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/heap"
	"github.com/ShimamotoWONQ/cwalk/token"
)

func newRuntime() (*Runtime, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Runtime{Heap: heap.New(0), Out: &buf}, &buf
}

func putCString(t *testing.T, rt *Runtime, s string) uint64 {
	t.Helper()
	addr, err := rt.Heap.Allocate(uint64(len(s) + 1))
	require.NoError(t, err)
	require.NoError(t, writeCString(rt, token.Pos{}, addr, s))
	return addr
}

func TestPrintfLiteralText(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "hello\n")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.PointerVal(cvalue.Char, fmtAddr)})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", buf.String())
}

func TestPrintfDecimalAndString(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "%d and %s")
	nameAddr := putCString(t, rt, "world")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{
		cvalue.PointerVal(cvalue.Char, fmtAddr),
		cvalue.IntVal(42),
		cvalue.PointerVal(cvalue.Char, nameAddr),
	})
	require.NoError(t, err)
	assert.Equal(t, "42 and world", buf.String())
}

func TestPrintfWidthAndZeroPad(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "[%5d][%-5d][%05d]")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{
		cvalue.PointerVal(cvalue.Char, fmtAddr),
		cvalue.IntVal(7), cvalue.IntVal(7), cvalue.IntVal(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "[    7][7    ][00007]", buf.String())
}

func TestPrintfHexAndOctalWithHashFlag(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "%#x %#o")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{
		cvalue.PointerVal(cvalue.Char, fmtAddr),
		cvalue.IntVal(255), cvalue.IntVal(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xff 010", buf.String())
}

func TestPrintfFloat(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "%.2f")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{
		cvalue.PointerVal(cvalue.Char, fmtAddr),
		cvalue.FloatVal(3.14159),
	})
	require.NoError(t, err)
	assert.Equal(t, "3.14", buf.String())
}

func TestPrintfPercentLiteral(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "100%%")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.PointerVal(cvalue.Char, fmtAddr)})
	require.NoError(t, err)
	assert.Equal(t, "100%", buf.String())
}

func TestPrintfReturnsByteCount(t *testing.T) {
	rt, _ := newRuntime()
	fmtAddr := putCString(t, rt, "abc")
	v, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.PointerVal(cvalue.Char, fmtAddr)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, v.I)
}

func TestPrintfTooFewArgumentsErrors(t *testing.T) {
	rt, _ := newRuntime()
	fmtAddr := putCString(t, rt, "%d")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.PointerVal(cvalue.Char, fmtAddr)})
	require.Error(t, err)
}

func TestPrintfNullFormatSegfaults(t *testing.T) {
	rt, _ := newRuntime()
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.NullPointer(cvalue.Char)})
	require.Error(t, err)
}

func TestPrintfStarWidth(t *testing.T) {
	rt, buf := newRuntime()
	fmtAddr := putCString(t, rt, "%*d")
	_, err := Printf.Impl(rt, token.Pos{}, []cvalue.Value{
		cvalue.PointerVal(cvalue.Char, fmtAddr),
		cvalue.IntVal(4), cvalue.IntVal(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "   9", buf.String())
}
