// Package main provides the fixturegen command line tool.
//
// Commands:
//   - settings: validate a settings YAML file and print the effective value
//     of every key
//   - typeparams: print the declared type parameter names of the generic
//     types in a set of packages
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"fixturegen/internal/typemap"
	"fixturegen/settings"
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

const usage = `fixturegen - test data generation helper

Usage:
  fixturegen [-v] settings [-dump] [FILE]
  fixturegen [-v] typeparams PATTERN...

Without FILE, settings prints the defaults.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exit *ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fixturegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	verbose := fs.Bool("v", false, "log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return &ExitError{Code: 2, Message: err.Error()}
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if fs.NArg() == 0 {
		fs.Usage()

		return &ExitError{Code: 2, Message: "missing command"}
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "settings":
		return runSettings(rest, stdout, stderr, logger)
	case "typeparams":
		return runTypeParams(rest, stdout, logger)
	default:
		fs.Usage()

		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd)}
	}
}

func runSettings(args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dump := fs.Bool("dump", false, "print Go values instead of YAML")

	if err := fs.Parse(args); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	s := settings.New()

	if fs.NArg() > 0 {
		path := fs.Arg(0)
		logger.Debug("loading settings", slog.String("path", path))

		var err error

		s, err = settings.LoadFile(path)
		if err != nil {
			return err
		}
	}

	if *dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		for _, e := range s.Entries() {
			fmt.Fprintf(stdout, "%s = %s", e.Name(), cfg.Sdump(e.Value()))
		}

		return nil
	}

	data, err := settings.Marshal(s)
	if err != nil {
		return err
	}

	_, err = stdout.Write(data)

	return err
}

func runTypeParams(patterns []string, stdout io.Writer, logger *slog.Logger) error {
	if len(patterns) == 0 {
		return &ExitError{Code: 2, Message: "typeparams: missing package pattern"}
	}

	logger.Debug("loading packages", slog.Any("patterns", patterns))

	names, err := typemap.LoadParamNames(patterns...)
	if err != nil {
		return err
	}

	types := make([]string, 0, len(names))
	for t := range names {
		types = append(types, t)
	}

	sort.Strings(types)

	for _, t := range types {
		fmt.Fprintf(stdout, "%s[%s]\n", t, strings.Join(names[t], ", "))
	}

	logger.Debug("loaded type parameters", slog.Int("types", len(types)))

	return nil
}
