package di

import (
	"flag"
	"io"
	"strings"

	"github.com/mikey/spam-model-trainer/internal/config"
)

// override maps a command line flag onto a configuration key
type override struct {
	flag  string
	key   string
	value func() any
}

// applyOverrides copies every flag that was explicitly set on fs into cfg
func applyOverrides(fs *flag.FlagSet, cfg *config.Config, overrides []override) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for _, o := range overrides {
		if set[o.flag] {
			cfg.Set(o.key, o.value())
		}
	}
}

// applyLogFlags lets -verbose and -json-log win over the logging section
func applyLogFlags(cfg *config.Config, verbose, jsonLog bool) {
	if verbose {
		cfg.Set("logging.level", "debug")
	}
	if jsonLog {
		cfg.Set("logging.format", "json")
	}
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	return fs
}
