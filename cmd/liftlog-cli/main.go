package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: liftlog-cli [-state dir] [-json] <command> [flags]

Calculators:
  1rm      -weight W -reps R [-formula epley|brzycki|lombardi]
  table    -one-rm W [-pct 0.9,0.8] [-increment I]
  warmup   -working W [-bar B] [-increment I] [-preset standard|quick]
  time     parse <text> | format <seconds>

Offline log:
  log      -exercise NAME -weight W -reps R [-rir N] [-rest 2:30] [-warmup] [-session S] [-note N]
  sets     [-exercise NAME] [-limit N]
  push     -server URL [-api-key KEY] [-dry-run] [-batch-size N]
`

// errUsage means the arguments were wrong; the usage text has been printed.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// globals are the flags shared by every command.
type globals struct {
	stateDir string
	json     bool
	stdout   io.Writer
	stderr   io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	g := globals{stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("liftlog-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	fs.StringVar(&g.stateDir, "state", defaultStateDir(), "directory for the offline set log")
	fs.BoolVar(&g.json, "json", false, "print JSON instead of text")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *version {
		fmt.Fprintln(stdout, "liftlog-cli", Version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "1rm":
		return g.oneRM(rest)
	case "table":
		return g.table(rest)
	case "warmup":
		return g.warmup(rest)
	case "time":
		return g.time(rest)
	case "log":
		return g.log(ctx, rest)
	case "sets":
		return g.sets(ctx, rest)
	case "push":
		return g.push(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liftlog"
	}
	return filepath.Join(home, ".liftlog")
}
