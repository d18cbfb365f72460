package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/version"
)

// errFailed makes the process exit 1 without printing anything more; the
// report already explains the failure.
var errFailed = errors.New("check failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bracecheck <file>",
		Short: "Check that curly braces in a text file are balanced",
		Long: `bracecheck counts '{' and '}' in a text file, reports every line where a
closing brace has no matching opening brace, and ends with the net balance.

Only the first argument is checked; use "bracecheck check" for several files,
directories and structured output.`,
		Version:       version.Get().Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLegacy,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	// everything after the file path is positional and ignored
	root.Flags().SetInterspersed(false)

	root.AddCommand(newCheckCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("config", "", "settings file (default: nearest .bracecheck.toml or .bracecheck.yaml)")
	flags.String("encoding", "utf-8", "source encoding (utf-8|utf-16|utf-16le|utf-16be|latin1|windows-1252)")
	flags.Bool("timings", false, "print phase timings to stderr")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
	return root
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "bracecheck: %v\n", err)
		}
		return 1
	}
	return 0
}

// runLegacy checks args[0] and prints the classic report. Further arguments
// are ignored and no settings file is read.
func runLegacy(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	enc, err := encodingFlag(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	timer := observ.NewTimer()
	res, _, err := driver.CheckFile(cmd.Context(), args[0], driver.Options{Encoding: enc, Timer: timer})
	if err != nil {
		dumpTraceOnFailure(cmd)
		return err
	}

	done := timer.Track("render")
	err = diagfmt.Legacy(cmd.OutOrStdout(), res.Result)
	done("")
	if err != nil {
		return err
	}
	if showTimings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	return nil
}

func encodingFlag(cmd *cobra.Command) (source.Encoding, error) {
	value, err := cmd.Flags().GetString("encoding")
	if err != nil {
		return "", fmt.Errorf("failed to get encoding flag: %w", err)
	}
	return source.ParseEncoding(value)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
