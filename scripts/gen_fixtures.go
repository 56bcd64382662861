// Command gen_fixtures regenerates interp/fixtures_generated_test.go
// from the sample C programs under testdata/fixtures. Each fixture
// carries its expectations as header comments:
//
//	// fixture: Name
//	// want-exit: 0
//	// want-stdout: "Hello, world!\n"
//
// Run via `go generate ./...` (see the //go:generate directive below)
// or directly: `go run scripts/gen_fixtures.go testdata/fixtures
// interp/fixtures_generated_test.go`.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

//go:generate sh -c "cd .. && go run scripts/gen_fixtures.go testdata/fixtures interp/fixtures_generated_test.go"

var headerRe = regexp.MustCompile(`(?m)^//\s*(fixture|want-exit|want-stdout):\s*(.*)$`)

type fixture struct {
	file       string
	name       string
	wantExit   int
	wantStdout string
}

func parseFixture(path string) (fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, err
	}
	fx := fixture{file: path}
	for _, m := range headerRe.FindAllStringSubmatch(string(data), -1) {
		switch m[1] {
		case "fixture":
			fx.name = m[2]
		case "want-exit":
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return fixture{}, fmt.Errorf("%s: bad want-exit %q: %w", path, m[2], err)
			}
			fx.wantExit = n
		case "want-stdout":
			s, err := strconv.Unquote(m[2])
			if err != nil {
				return fixture{}, fmt.Errorf("%s: bad want-stdout %q: %w", path, m[2], err)
			}
			fx.wantStdout = s
		}
	}
	if fx.name == "" {
		return fixture{}, fmt.Errorf("%s: missing '// fixture: Name' header", path)
	}
	return fx, nil
}

var out io.WriteCloser = os.Stdout

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("usage: gen_fixtures <fixtures-dir> <output-file>")
	}
	dir, outPath := args[0], args[1]

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("failed to create %v: %v", outPath, err)
	}
	out = f

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	ready := make(chan struct{})

	eg.Go(func() error {
		goimports := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := goimports.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		goimports.Stdout = out
		goimports.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := goimports.Run(); err != nil {
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
		case <-ready:
		}
		defer func() {
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()
		return generate(ctx, dir, out)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func generate(ctx context.Context, dir string, w io.Writer) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.c"))
	if err != nil {
		return err
	}
	sort.Strings(matches)

	var fixtures []fixture
	for _, m := range matches {
		fx, err := parseFixture(m)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, fx)
	}

	var buf bytes.Buffer
	buf.WriteString("package interp_test\n\n")
	buf.WriteString("// @generated from testdata/fixtures by scripts/gen_fixtures.go\n\n")
	buf.WriteString("import (\n")
	buf.WriteString("\t\"context\"\n")
	buf.WriteString("\t\"os\"\n")
	buf.WriteString("\t\"testing\"\n\n")
	buf.WriteString("\t\"github.com/stretchr/testify/assert\"\n")
	buf.WriteString("\t\"github.com/stretchr/testify/require\"\n\n")
	buf.WriteString("\t\"github.com/ShimamotoWONQ/cwalk/interp\"\n")
	buf.WriteString(")\n\n")

	for _, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(&buf, "func TestFixture%s(t *testing.T) {\n", fx.name)
		fmt.Fprintf(&buf, "\tsrc, err := os.ReadFile(%q)\n", filepath.Join("..", fx.file))
		buf.WriteString("\trequire.NoError(t, err)\n")
		buf.WriteString("\tres := interp.Interpret(context.Background(), string(src))\n")
		fmt.Fprintf(&buf, "\tassert.Equal(t, %d, res.ExitCode)\n", fx.wantExit)
		fmt.Fprintf(&buf, "\tassert.Equal(t, %q, res.Stdout)\n", fx.wantStdout)
		buf.WriteString("}\n\n")
	}

	_, err = buf.WriteTo(w)
	return err
}
