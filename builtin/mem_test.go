package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

func TestMallocAndFree(t *testing.T) {
	rt, _ := newRuntime()
	v, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(16)})
	require.NoError(t, err)
	assert.NotZero(t, v.Addr)

	_, err = Free.Impl(rt, token.Pos{}, []cvalue.Value{v})
	require.NoError(t, err)
}

func TestFreeNullNoop(t *testing.T) {
	rt, _ := newRuntime()
	_, err := Free.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.NullPointer(cvalue.Void)})
	require.NoError(t, err)
}

func TestMallocNegativeSizeFails(t *testing.T) {
	rt, _ := newRuntime()
	_, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(-1)})
	require.Error(t, err)
}

func TestReallocGrowsAndPreservesContents(t *testing.T) {
	rt, _ := newRuntime()
	orig, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(4)})
	require.NoError(t, err)
	require.NoError(t, rt.Heap.StoreInt64(orig.Addr, 123, 4))

	grown, err := Realloc.Impl(rt, token.Pos{}, []cvalue.Value{orig, cvalue.IntVal(8)})
	require.NoError(t, err)

	v, err := rt.Heap.LoadInt64(grown.Addr, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 123, v)
}

func TestMemsetFillsRange(t *testing.T) {
	rt, _ := newRuntime()
	p, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(4)})
	require.NoError(t, err)

	_, err = Memset.Impl(rt, token.Pos{}, []cvalue.Value{p, cvalue.IntVal('x'), cvalue.IntVal(4)})
	require.NoError(t, err)

	buf, err := rt.Heap.LoadBytes(p.Addr, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{'x', 'x', 'x', 'x'}, buf)
}

func TestMemcpyCopiesBytes(t *testing.T) {
	rt, _ := newRuntime()
	src, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(4)})
	require.NoError(t, err)
	require.NoError(t, rt.Heap.StoreBytes(src.Addr, []byte{1, 2, 3, 4}))
	dst, err := Malloc.Impl(rt, token.Pos{}, []cvalue.Value{cvalue.IntVal(4)})
	require.NoError(t, err)

	_, err = Memcpy.Impl(rt, token.Pos{}, []cvalue.Value{dst, src, cvalue.IntVal(4)})
	require.NoError(t, err)

	buf, err := rt.Heap.LoadBytes(dst.Addr, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
}
