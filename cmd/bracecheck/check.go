package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bracecheck/internal/brace"
	"bracecheck/internal/config"
	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file|dir>...",
		Short: "Check several files or directories",
		Long: `Check every given file and every file found under the given directories.
Hidden directories are skipped. Settings come from flags, then from the
nearest .bracecheck.toml or .bracecheck.yaml, then from built-in defaults.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	flags := cmd.Flags()
	flags.String("format", "legacy", "output format (legacy|pretty|short|json|sarif)")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.StringSlice("ext", nil, "only check files with these extensions when walking directories")
	flags.StringSlice("exclude", nil, "glob patterns to skip when walking directories")
	flags.Int("max-diagnostics", 0, "maximum diagnostics kept per file (0=unlimited)")
	flags.Bool("exit-code", false, "exit 1 when a file is unbalanced or unreadable")
	flags.Bool("cache", false, "reuse results stored in the user cache directory")
	flags.String("ui", "off", "progress view on stderr (auto|on|off)")
	flags.Bool("with-notes", false, "include diagnostic notes in output")
	flags.Bool("with-info", false, "include info diagnostics in pretty output")
	flags.Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

// checkSettings is the merged view of flags, settings file and defaults.
type checkSettings struct {
	format         diagfmt.Format
	color          bool
	jobs           int
	encoding       source.Encoding
	maxDiagnostics int
	extensions     []string
	exclude        []string
	exitCode       bool
	cache          bool
	ui             triState
	timings        bool
	withNotes      bool
	withInfo       bool
	pathMode       diagfmt.PathMode
}

// loadSettings reads --config or discovers the settings file from the
// working directory.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Discover(wd)
}

func resolveCheckSettings(cmd *cobra.Command, cfg *config.Config) (checkSettings, error) {
	flags := cmd.Flags()
	chk := cfg.Check
	var s checkSettings

	pick := func(name, fromConfig string) (string, error) {
		if flags.Changed(name) {
			return flags.GetString(name)
		}
		return fromConfig, nil
	}

	formatStr, err := pick("format", chk.Format)
	if err != nil {
		return s, err
	}
	if s.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return s, err
	}

	colorStr, err := pick("color", chk.Color)
	if err != nil {
		return s, err
	}
	colorMode, err := readTriState("color", colorStr)
	if err != nil {
		return s, err
	}
	s.color = colorMode.enabled(cmd.OutOrStdout())

	uiStr, err := pick("ui", chk.UI)
	if err != nil {
		return s, err
	}
	if s.ui, err = readTriState("ui", uiStr); err != nil {
		return s, err
	}

	encStr, err := pick("encoding", chk.Encoding)
	if err != nil {
		return s, err
	}
	if s.encoding, err = source.ParseEncoding(encStr); err != nil {
		return s, err
	}

	s.jobs = chk.Jobs
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return s, err
		}
	}
	s.maxDiagnostics = chk.MaxDiagnostics
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return s, err
		}
	}
	if s.jobs < 0 || s.maxDiagnostics < 0 {
		return s, fmt.Errorf("--jobs and --max-diagnostics must be >= 0")
	}

	s.extensions = chk.Extensions
	if flags.Changed("ext") {
		if s.extensions, err = flags.GetStringSlice("ext"); err != nil {
			return s, err
		}
	}
	s.exclude = chk.Exclude
	if flags.Changed("exclude") {
		if s.exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return s, err
		}
	}

	s.exitCode = chk.ExitCode
	if flags.Changed("exit-code") {
		if s.exitCode, err = flags.GetBool("exit-code"); err != nil {
			return s, err
		}
	}
	s.cache = chk.Cache
	if flags.Changed("cache") {
		if s.cache, err = flags.GetBool("cache"); err != nil {
			return s, err
		}
	}

	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, err
	}
	if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return s, err
	}
	if s.withInfo, err = flags.GetBool("with-info"); err != nil {
		return s, err
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return s, err
	}
	s.pathMode = diagfmt.PathModeAsGiven
	if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}
	return s, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := resolveCheckSettings(cmd, cfg)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	opts := driver.Options{
		Encoding:       s.encoding,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Extensions:     s.extensions,
		Exclude:        s.exclude,
		Timer:          timer,
	}
	if s.cache {
		cache, err := driver.OpenDiskCache("bracecheck")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}

	var report *driver.Report
	if s.ui.enabled(cmd.ErrOrStderr()) {
		files, cerr := driver.CollectPaths(args, opts.Extensions, opts.Exclude)
		if cerr != nil {
			return cerr
		}
		report, err = runCheckWithUI(cmd.Context(), cmd.ErrOrStderr(), files, opts)
	} else {
		report, err = driver.CheckPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		dumpTraceOnFailure(cmd)
		return err
	}

	done := timer.Track("render")
	err = renderReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, s, args)
	done("")
	if err != nil {
		return err
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}

	if report.LoadErrors() > 0 || (s.exitCode && report.Failed()) {
		return errFailed
	}
	return nil
}

func summaries(report *driver.Report) []diagfmt.FileSummary {
	out := make([]diagfmt.FileSummary, len(report.Files))
	for i, f := range report.Files {
		out[i] = diagfmt.FileSummary{
			FileID: f.FileID,
			Result: f.Result,
			Diags:  f.Bag.Items(),
			Err:    f.Err,
		}
	}
	return out
}

func renderReport(out, errOut io.Writer, report *driver.Report, s checkSettings, args []string) error {
	fs := report.FileSet
	switch s.format {
	case diagfmt.FormatPretty:
		diagfmt.Pretty(out, report.Bag(), fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			PathMode:  s.pathMode,
			ShowNotes: s.withNotes,
			ShowInfo:  s.withInfo,
		})
		_, err := fmt.Fprintln(out, summaryLine(report))
		return err
	case diagfmt.FormatShort:
		return diagfmt.Short(out, report.Bag(), fs, s.withNotes)
	case diagfmt.FormatJSON:
		return diagfmt.JSON(out, summaries(report), fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     s.withNotes,
		})
	case diagfmt.FormatSarif:
		return diagfmt.Sarif(out, report.Bag(), fs, diagfmt.SarifRunMeta{
			ToolName:       "bracecheck",
			ToolVersion:    version.Get().Version,
			InvocationArgs: append([]string{"check"}, args...),
		})
	default:
		return diagfmt.LegacyReport(out, errOut, summaries(report), fs, s.pathMode)
	}
}

// summaryLine counts files per verdict, e.g.
// "checked 4 files: 2 balanced, 1 missing, 1 extra".
func summaryLine(report *driver.Report) string {
	var balanced, missing, extra, unreadable int
	for i := range report.Files {
		f := &report.Files[i]
		switch {
		case f.Err != nil:
			unreadable++
		case f.Result.Verdict() == brace.Missing:
			missing++
		case f.Result.Verdict() == brace.Extra:
			extra++
		default:
			balanced++
		}
	}
	parts := []string{fmt.Sprintf("%d balanced", balanced)}
	if missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", missing))
	}
	if extra > 0 {
		parts = append(parts, fmt.Sprintf("%d extra", extra))
	}
	if unreadable > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", unreadable))
	}
	noun := "files"
	if len(report.Files) == 1 {
		noun = "file"
	}
	return fmt.Sprintf("checked %d %s: %s", len(report.Files), noun, strings.Join(parts, ", "))
}
