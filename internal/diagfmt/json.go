package diagfmt

import (
	"encoding/json"
	"io"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// LocationJSON is a position inside a checked file.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FileJSON is the per-file section of the report.
type FileJSON struct {
	Path        string           `json:"path"`
	Verdict     string           `json:"verdict,omitempty"`
	Depth       int              `json:"depth"`
	Lines       uint32           `json:"lines"`
	Opens       int              `json:"opens"`
	Closes      int              `json:"closes"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// ReportOutput is the root of the JSON document.
type ReportOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"` // total diagnostics across files
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(fs.Get(span.File), fs, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

func makeDiagnostics(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for i := range n {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}
		out = append(out, dj)
	}
	return out
}

// BuildReportOutput assembles the JSON document without serializing it.
func BuildReportOutput(files []FileSummary, fs *source.FileSet, opts JSONOpts) ReportOutput {
	out := ReportOutput{Files: make([]FileJSON, 0, len(files))}
	for _, sum := range files {
		fj := FileJSON{
			Path:        formatPath(fs.Get(sum.FileID), fs, opts.PathMode),
			Diagnostics: makeDiagnostics(sum.Diags, fs, opts),
		}
		if sum.Err != nil {
			fj.Error = sum.Err.Error()
		} else {
			fj.Verdict = sum.Result.Verdict().String()
			fj.Depth = sum.Result.Depth
			fj.Lines = sum.Result.Lines
			fj.Opens = sum.Result.Opens
			fj.Closes = sum.Result.Closes
		}
		out.Count += len(fj.Diagnostics)
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, files []FileSummary, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReportOutput(files, fs, opts))
}
