package mem_test

import (
	"testing"

	"github.com/ShimamotoWONQ/cwalk/internal/mem"
	"github.com/stretchr/testify/require"
)

func TestBytes_basic(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4

	buf := make([]byte, 1)
	require.NoError(t, m.LoadInto(0, buf))
	require.Equal(t, byte(0), buf[0], "expected 0 @0 before any store")
	require.Equal(t, uint(0), m.Size(), "expected 0 initial size")

	require.NoError(t, m.Stor(0, 9))
	require.NoError(t, m.LoadInto(0, buf))
	require.Equal(t, byte(9), buf[0])
}

func TestBytes_pageHole(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4

	require.NoError(t, m.Stor(0, 9))
	require.NoError(t, m.Stor(0x9, 1, 2, 3, 4, 5, 6))
	require.Equal(t, mem.BytesDump{
		Bases: []uint{0x0, 0x8, 0xc},
		Sizes: []uint{4, 4, 4},
		Pages: [][]byte{
			{9, 0, 0, 0},
			{0, 1, 2, 3},
			{4, 5, 6, 0},
		},
	}, m.Dump(), "expected a page hole between base page and the stored range")
}

func TestBytes_limit(t *testing.T) {
	var m mem.Bytes
	m.Limit = 8
	err := m.Stor(16, 1)
	require.Error(t, err)
	var lim mem.LimitError
	require.ErrorAs(t, err, &lim)
}
