package diagfmt

import (
	"fmt"
	"strings"

	"bracecheck/internal/brace"
	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
	// PathModeAsGiven prints the path exactly as it was loaded.
	PathModeAsGiven
)

// Format selects an output renderer.
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
	FormatSarif  Format = "sarif"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatLegacy, FormatPretty, FormatShort, FormatJSON, FormatSarif:
		return f, nil
	case "":
		return FormatLegacy, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected legacy|pretty|short|json|sarif)", s)
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // 0 hides the source line and caret
	PathMode  PathMode
	ShowNotes bool
	ShowInfo  bool // include info-level diagnostics such as "balanced"
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	Max              int // output cap per file, independent from the Bag limit
	IncludeNotes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

// FileSummary is one checked file as seen by report-level formats.
// Files that failed to load are present in the FileSet as empty virtual
// files so that their diagnostics have a path.
type FileSummary struct {
	FileID source.FileID
	Result brace.Result
	Diags  []diag.Diagnostic
	Err    error
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}
