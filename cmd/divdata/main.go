package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/divdata/internal/config"
	"github.com/hpungsan/divdata/internal/h5store"
	"github.com/hpungsan/divdata/internal/pipeline"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known subcommands. Arguments after one of these are
// left in place for the subcommand's own parser.
var cliCommands = map[string]bool{
	"history": true, "serve": true, "help": true, "h": true,
}

// valueFlags are root flags that consume the following argument.
var valueFlags = map[string]bool{
	"--savedir": true, "-s": true,
	"--cend": true, "--detend": true,
	"--config": true, "--log-level": true,
}

// hoistFlags moves root flags ahead of the positional arguments so that
// options may appear anywhere, e.g. after TIMESTRING CSTART DETSTART.
// Everything after "--" is positional, as is everything from a subcommand
// name on. Integers such as -5 are positionals, not flags.
func hoistFlags(args []string) []string {
	if len(args) < 2 || cliCommands[args[1]] {
		return args
	}

	flags := make([]string, 0, len(args))
	var positional []string
	terminated := false

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		switch {
		case a == "--":
			terminated = true
			positional = append(positional, rest[i+1:]...)
			i = len(rest)
		case len(positional) == 0 && cliCommands[a]:
			// the subcommand parses its own flags
			out := append([]string{args[0]}, flags...)
			return append(out, rest[i:]...)
		case isFlag(a):
			flags = append(flags, a)
			if valueFlags[a] && i+1 < len(rest) {
				flags = append(flags, rest[i+1])
				i++
			}
		default:
			positional = append(positional, a)
		}
	}

	out := append([]string{args[0]}, flags...)
	if terminated || slices.ContainsFunc(positional, isDashed) {
		out = append(out, "--")
	}
	return append(out, positional...)
}

func isFlag(a string) bool {
	if !isDashed(a) {
		return false
	}
	_, err := strconv.Atoi(a)
	return err != nil
}

func isDashed(a string) bool {
	return strings.HasPrefix(a, "-") && a != "-"
}

// defaultConfigDir returns ~/.divdata, or .divdata when there is no home directory.
func defaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.DirName
	}
	return filepath.Join(homeDir, config.DirName)
}

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(appDeps{
		Out:       os.Stdout,
		Runner:    pipeline.ExecRunner{},
		Tables:    h5store.Writer{},
		ConfigDir: defaultConfigDir(),
		WorkDir:   workDir,
	})

	if err := app.Run(hoistFlags(os.Args)); err != nil {
		code := 1
		if exitErr, ok := err.(cli.ExitCoder); ok {
			code = exitErr.ExitCode()
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(code)
	}
}
