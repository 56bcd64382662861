package interp

import (
	"io"
	"io/ioutil"
)

// Option configures a Session or a one-shot Interpret/InterpretFile
// call.
type Option interface{ apply(cfg *config) }

type config struct {
	stdout     io.Writer
	memLimit   uint64
	strictMode bool
	logf       func(format string, args ...interface{})
}

func defaultConfig() *config {
	return &config{stdout: ioutil.Discard}
}

type optionFunc func(cfg *config)

func (f optionFunc) apply(cfg *config) { f(cfg) }

// WithStdout directs program output to w instead of being discarded.
func WithStdout(w io.Writer) Option {
	return optionFunc(func(cfg *config) { cfg.stdout = w })
}

// WithMemLimit bounds the simulated heap to limit bytes (0 means
// unbounded).
func WithMemLimit(limit uint64) Option {
	return optionFunc(func(cfg *config) { cfg.memLimit = limit })
}

// WithStrictMode enables LeakWarning diagnostics for malloc'd memory
// still live when the program (or a Session) ends.
func WithStrictMode(strict bool) Option {
	return optionFunc(func(cfg *config) { cfg.strictMode = strict })
}

// WithLogf installs a leveled-logging sink invoked once per function
// call.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return optionFunc(func(cfg *config) { cfg.logf = logf })
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(cfg)
		}
	}
	return cfg
}
