// Command cwalk runs a C source file to completion, or, given no file
// argument, drives a line-oriented REPL over package interp's Session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/ShimamotoWONQ/cwalk/internal/logio"
	"github.com/ShimamotoWONQ/cwalk/interp"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		strict   bool
		trace    bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "bound the simulated heap (0 means unbounded)")
	flag.DurationVar(&timeout, "timeout", 0, "cancel execution after the given duration")
	flag.BoolVar(&strict, "strict", false, "warn about unreclaimed allocations on exit")
	flag.BoolVar(&trace, "trace", false, "log one line per function call")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	opts := []interp.Option{
		interp.WithStdout(os.Stdout),
		interp.WithMemLimit(uint64(memLimit)),
		interp.WithStrictMode(strict),
	}
	if trace {
		opts = append(opts, interp.WithLogf(log.Leveledf("TRACE")))
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if flag.NArg() == 0 {
		runRepl(ctx, &log, opts)
		return
	}

	runFile(ctx, &log, flag.Arg(0), opts)
}

func runFile(ctx context.Context, log *logio.Logger, path string, opts []interp.Option) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	res := interp.Interpret(ctx, string(src), opts...)
	for _, d := range res.Diagnostics {
		log.Errorf("%s:%d:%d: %s", d.Kind, d.Line, d.Column, d.Message)
	}
	if res.ExitCode != 0 {
		log.Close()
		os.Exit(res.ExitCode)
	}
}

func runRepl(ctx context.Context, log *logio.Logger, opts []interp.Option) {
	sess := interp.NewSession(opts...)
	defer func() { log.ErrorIf(sess.Close()) }()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "> ")
	for scanner.Scan() {
		out, diags := sess.Step(ctx, scanner.Text())
		fmt.Print(out)
		for _, d := range diags {
			log.Printf("ERROR", "%s:%d:%d: %s", d.Kind, d.Line, d.Column, d.Message)
		}
		fmt.Fprint(os.Stderr, "> ")
	}
}
