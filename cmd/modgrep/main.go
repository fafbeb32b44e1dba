// Command modgrep searches files for lines matching ECMAScript-style
// regular expressions, including inline modifier groups such as
// (?i:...) and (?-m:...).
//
// Usage:
//
//	modgrep [--flags imsu] [--config file.yaml] [-n] [-c] [-o] [--whole] [-v] PATTERN [FILE...]
//
// With no FILE, or when FILE is "-", standard input is read. The exit
// status is 0 if anything matched, 1 if nothing did and 2 on error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

var errNoMatch = errors.New("no match")

type options struct {
	flags        string
	configPath   string
	patterns     []string
	lineNumber   bool
	count        bool
	onlyMatching bool
	whole        bool
	verbose      bool
}

// app holds the command's streams and logger so tests can drive it
// without touching the process environment.
type app struct {
	opts   options
	stdin  io.Reader
	stdout io.Writer
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{stdin: os.Stdin, stdout: os.Stdout}
	code := a.execute(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command with args and returns the exit status.
func (a *app) execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitMatch
	case errors.Is(err, errNoMatch):
		return exitNoMatch
	default:
		fmt.Fprintln(stderr, "modgrep:", err)
		return exitError
	}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modgrep [flags] PATTERN [FILE...]",
		Short: "Search text with ECMAScript regular expressions",
		Long: `modgrep prints the lines of each FILE that match PATTERN.

Patterns use ECMAScript syntax and may switch modifiers for part of
themselves:

  modgrep '^(?i:error):' app.log          case-insensitive prefix only
  modgrep --flags m --whole '^a$|(?-m:^b$)' notes.txt

Files are searched concurrently; output keeps the argument order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.run,
	}

	f := cmd.Flags()
	f.StringVar(&a.opts.flags, "flags", "", "regular expression flags (any of dgimsuy)")
	f.StringVar(&a.opts.configPath, "config", "", "YAML file with default flags and engine limits")
	f.StringArrayVarP(&a.opts.patterns, "regexp", "e", nil, "pattern to search for; may be repeated")
	f.BoolVarP(&a.opts.lineNumber, "line-number", "n", false, "prefix each line with its line number")
	f.BoolVarP(&a.opts.count, "count", "c", false, "print only a count of matching lines per input")
	f.BoolVarP(&a.opts.onlyMatching, "only-matching", "o", false, "print only the matched parts")
	f.BoolVar(&a.opts.whole, "whole", false, "match each input as a single text instead of line by line")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
