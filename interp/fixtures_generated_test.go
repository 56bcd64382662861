package interp_test

// @generated from testdata/fixtures by scripts/gen_fixtures.go

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/interp"
)

func TestFixtureExitCode(t *testing.T) {
	src, err := os.ReadFile("../testdata/fixtures/exit_code.c")
	require.NoError(t, err)
	res := interp.Interpret(context.Background(), string(src))
	assert.Equal(t, 5, res.ExitCode)
	assert.Equal(t, "", res.Stdout)
}

func TestFixtureFibonacci(t *testing.T) {
	src, err := os.ReadFile("../testdata/fixtures/fib.c")
	require.NoError(t, err)
	res := interp.Interpret(context.Background(), string(src))
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "55\n", res.Stdout)
}

func TestFixtureHello(t *testing.T) {
	src, err := os.ReadFile("../testdata/fixtures/hello.c")
	require.NoError(t, err)
	res := interp.Interpret(context.Background(), string(src))
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "Hello, world!\n", res.Stdout)
}
