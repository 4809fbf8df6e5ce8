// Package main is the entry point for the richedit command. It loads a
// document, edits it with a Lua script or a delta file, and writes the
// result as node JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/richedit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp is returned by parseFlags when usage or version was printed.
var errHelp = errors.New("help requested")

// cliOptions are the flags beyond app.Options.
type cliOptions struct {
	app        app.Options
	scriptPath string
	deltaPath  string
	blockPath  []int
	outPath    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	opts.app.LogOutput = stderr

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := edit(ctx, application, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.app.Watch {
		fmt.Fprintln(stderr, "Watching for settings and schema changes; interrupt to write the document and exit.")
		<-ctx.Done()
	}

	if err := output(application, opts.outPath, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// edit runs the script or applies the delta named on the command line.
func edit(ctx context.Context, application *app.Application, opts cliOptions) error {
	if opts.scriptPath != "" {
		if err := application.RunScript(ctx, opts.scriptPath); err != nil {
			return err
		}
	}
	if opts.deltaPath != "" {
		if _, err := application.ApplyDeltaFile(opts.deltaPath, opts.blockPath); err != nil {
			return err
		}
	}
	return nil
}

// output writes the document to path, or to w when path is empty.
func output(application *app.Application, path string, w io.Writer) error {
	if path != "" {
		return application.SaveDocument(path)
	}
	data, err := application.DocumentJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var block string
	var showVersion bool

	fs := flag.NewFlagSet("richedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to settings file (TOML or YAML)")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to settings file (shorthand)")
	fs.StringVar(&opts.app.SchemaPath, "schema", "", "Path to schema definition (TOML or YAML); default is the built-in schema")
	fs.StringVar(&opts.app.DocPath, "doc", "", "Document JSON to open; default is an empty document")
	fs.StringVar(&opts.scriptPath, "script", "", "Lua script to run against the document")
	fs.StringVar(&opts.deltaPath, "delta", "", "Delta JSON to apply to the block given by -block")
	fs.StringVar(&block, "block", "0", "Block path for -delta, e.g. 0 or 2.1")
	fs.StringVar(&opts.outPath, "out", "", "Write the document here instead of stdout")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides settings")
	fs.BoolVar(&opts.app.ReadOnly, "readonly", false, "Open the document read-only")
	fs.BoolVar(&opts.app.ReadOnly, "R", false, "Open the document read-only (shorthand)")
	fs.BoolVar(&opts.app.Watch, "watch", false, "Reload settings and schema on change until interrupted")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "richedit - schema-constrained rich-text editing\n\n")
		fmt.Fprintf(stderr, "Usage: richedit [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  richedit -doc in.json -script edit.lua -out out.json\n")
		fmt.Fprintf(stderr, "  richedit -schema schema.yaml -doc in.json -delta ops.json -block 1\n")
		fmt.Fprintf(stderr, "  richedit -config richedit.toml -doc in.json -watch\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "richedit %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.app.LogLevel)
	}

	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	path, err := parseBlockPath(block)
	if err != nil {
		return opts, err
	}
	opts.blockPath = path
	return opts, nil
}

// parseBlockPath parses a dotted path of child indices such as "2.1".
func parseBlockPath(s string) ([]int, error) {
	parts := strings.Split(s, ".")
	path := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid block path %q", s)
		}
		path = append(path, i)
	}
	return path, nil
}
