package interp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelloWorldPrintf(t *testing.T) {
	var out bytes.Buffer
	res := Interpret(context.Background(), `
		int main() {
			printf("hello, %s!\n", "world");
			return 0;
		}`, WithStdout(&out))
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello, world!\n", res.Stdout)
	assert.Equal(t, "hello, world!\n", out.String(), "captured stdout must also reach the caller's writer")
}

func TestMainReturnValueBecomesExitCode(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			return 5;
		}`)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, 5, res.ExitCode)
}

func TestRecursiveFactorialSix(t *testing.T) {
	res := Interpret(context.Background(), `
		int fact(int n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		int main() {
			printf("%d\n", fact(6));
			return 0;
		}`)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "720\n", res.Stdout)
}

func TestArraySumOfSquares(t *testing.T) {
	res := Interpret(context.Background(), `
		int sumSquares(int xs[], int n) {
			int i;
			int total;
			total = 0;
			for (i = 0; i < n; i = i + 1) {
				total = total + xs[i] * xs[i];
			}
			return total;
		}
		int main() {
			int vals[4];
			vals[0] = 1; vals[1] = 2; vals[2] = 3; vals[3] = 4;
			printf("%d\n", sumSquares(vals, 4));
			return 0;
		}`)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "30\n", res.Stdout)
}

func TestMallocStrcpyStrlenRoundTrip(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			char *buf;
			buf = malloc(16);
			strcpy(buf, "hi there");
			printf("%d %s\n", strlen(buf), buf);
			free(buf);
			return 0;
		}`)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "8 hi there\n", res.Stdout)
}

func TestDivisionByZeroProducesRuntimeErrorDiagnostic(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			int z;
			z = 0;
			return 10 / z;
		}`)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "DivisionByZero", res.Diagnostics[0].Kind)
	assert.Equal(t, 1, res.ExitCode)
}

func TestArrayOutOfBoundsProducesRuntimeErrorDiagnostic(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			int xs[3];
			return xs[10];
		}`)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "IndexOutOfBounds", res.Diagnostics[0].Kind)
}

func TestParseErrorDiagnosticBeforeExecution(t *testing.T) {
	res := Interpret(context.Background(), `int main() { return }`)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "ParseError", res.Diagnostics[0].Kind)
	assert.Equal(t, 1, res.ExitCode)
}

func TestStrictModeReportsLeakedMemory(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			char *p;
			p = malloc(4);
			return 0;
		}`, WithStrictMode(true))
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "LeakWarning", res.Diagnostics[len(res.Diagnostics)-1].Kind)
}

func TestNonStrictModeDoesNotReportLeaks(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			char *p;
			p = malloc(4);
			return 0;
		}`)
	assert.Empty(t, res.Diagnostics)
}

func TestFreedMemoryIsNotReportedAsLeaked(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			char *p;
			p = malloc(4);
			free(p);
			return 0;
		}`, WithStrictMode(true))
	assert.Empty(t, res.Diagnostics)
}

func TestContextCancellationStopsAnInfiniteLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := Interpret(ctx, `
		int main() {
			while (1) {}
			return 0;
		}`)
	require.NotEmpty(t, res.Diagnostics)
}

func TestMemLimitProducesOutOfMemoryDiagnostic(t *testing.T) {
	res := Interpret(context.Background(), `
		int main() {
			char *p;
			p = malloc(1000000);
			return 0;
		}`, WithMemLimit(64))
	require.NotEmpty(t, res.Diagnostics)
}

func TestSessionAccumulatesStateAcrossSteps(t *testing.T) {
	sess := NewSession()
	defer sess.Close()

	out, diags := sess.Step(context.Background(), "int x = 10;")
	require.Empty(t, diags)
	assert.Empty(t, out)

	out, diags = sess.Step(context.Background(), "x = x + 5;")
	require.Empty(t, diags)
	assert.Empty(t, out)

	out, diags = sess.Step(context.Background(), `printf("%d\n", x);`)
	require.Empty(t, diags)
	assert.Equal(t, "15\n", out)
}

func TestSessionCloseReportsStrictModeLeak(t *testing.T) {
	sess := NewSession(WithStrictMode(true))
	_, diags := sess.Step(context.Background(), "char *p = malloc(8);")
	require.Empty(t, diags)
	err := sess.Close()
	require.Error(t, err)
}
