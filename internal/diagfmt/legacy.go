package diagfmt

import (
	"fmt"
	"io"

	"bracecheck/internal/brace"
	"bracecheck/internal/source"
)

// Legacy writes the classic report for one file: one line per stray closing
// brace, then exactly one verdict line.
//
//	Line <N>: Extra closing brace! (Depth: <D>)
//	End of file: Missing <depth> closing braces!
//	End of file: Extra <abs(depth)> closing braces!
//	Braces are balanced.
func Legacy(w io.Writer, res brace.Result) error {
	for _, ex := range res.Excess {
		if _, err := fmt.Fprintf(w, "Line %d: Extra closing brace! (Depth: %d)\n", ex.Line, ex.Depth); err != nil {
			return err
		}
	}

	var err error
	switch res.Verdict() {
	case brace.Missing:
		_, err = fmt.Fprintf(w, "End of file: Missing %d closing braces!\n", res.Count())
	case brace.Extra:
		_, err = fmt.Fprintf(w, "End of file: Extra %d closing braces!\n", res.Count())
	default:
		_, err = fmt.Fprintln(w, "Braces are balanced.")
	}
	return err
}

// LegacyReport renders several files in the legacy form. With more than one
// file each block is preceded by a "==> path <==" header and separated by a
// blank line. Load failures are written to errW.
func LegacyReport(w, errW io.Writer, files []FileSummary, fs *source.FileSet, mode PathMode) error {
	multi := len(files) > 1
	for i, sum := range files {
		path := formatPath(fs.Get(sum.FileID), fs, mode)
		if multi {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "==> %s <==\n", path); err != nil {
				return err
			}
		}
		if sum.Err != nil {
			if _, err := fmt.Fprintf(errW, "bracecheck: %v\n", sum.Err); err != nil {
				return err
			}
			continue
		}
		if err := Legacy(w, sum.Result); err != nil {
			return err
		}
	}
	return nil
}
