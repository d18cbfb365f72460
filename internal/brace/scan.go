package brace

import (
	"fmt"

	"fortio.org/safecast"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// Scan counts braces over every line of file.
func Scan(file *source.File) Result {
	c := NewCounter()
	for line := range file.Lines() {
		c.Line(line.Text, line.Start)
	}
	return c.Finish()
}

// Check scans file and reports its diagnostics. See Report.
func Check(file *source.File, r diag.Reporter) Result {
	res := Scan(file)
	Report(file, res, r)
	return res
}

// Report emits one diagnostic per excursion in res followed by the
// end-of-file verdict, which is anchored at the end of the file. res must
// come from scanning file, possibly in an earlier run.
func Report(file *source.File, res Result, r diag.Reporter) {
	if r == nil {
		r = diag.NopReporter{}
	}
	for _, ex := range res.Excess {
		sp := source.Span{File: file.ID, Start: ex.Offset, End: ex.Offset + 1}
		diag.ReportError(r, diag.BraceExtraClosing, sp,
			fmt.Sprintf("extra closing brace (depth %d)", ex.Depth)).Emit()
	}
	reportVerdict(file, res, r)
}

func reportVerdict(file *source.File, res Result, r diag.Reporter) {
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	eof := source.Span{File: file.ID, Start: end, End: end}

	switch res.Verdict() {
	case Missing:
		diag.ReportError(r, diag.BraceMissingAtEOF, eof,
			fmt.Sprintf("missing %d closing braces at end of file", res.Count())).Emit()
	case Extra:
		diag.ReportError(r, diag.BraceExtraAtEOF, eof,
			fmt.Sprintf("extra %d closing braces at end of file", res.Count())).Emit()
	default:
		diag.ReportInfo(r, diag.BraceBalanced, eof, "braces are balanced").Emit()
	}
}
