package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"bracecheck/internal/brace"
	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

func summarize(fs *source.FileSet, id source.FileID) FileSummary {
	bag := diag.NewBag(0)
	res := brace.Check(fs.Get(id), diag.BagReporter{Bag: bag})
	bag.Sort()
	return FileSummary{FileID: id, Result: res, Diags: bag.Items()}
}

func TestJSONReport(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.txt", []byte("{\n}\n}\n"))
	b := fs.AddVirtual("b.txt", nil)

	files := []FileSummary{
		summarize(fs, a),
		{FileID: b, Err: errors.New("boom"), Diags: []diag.Diagnostic{
			diag.NewError(diag.IOLoadFileError, source.Span{File: b}, "boom"),
		}},
	}

	var buf bytes.Buffer
	if err := JSON(&buf, files, fs, JSONOpts{IncludePositions: true, PathMode: PathModeAsGiven}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out ReportOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out.Files) != 2 || out.Count != 3 {
		t.Fatalf("unexpected shape: %+v", out)
	}

	first := out.Files[0]
	if first.Path != "a.txt" || first.Verdict != "extra" || first.Depth != -1 || first.Lines != 3 {
		t.Fatalf("unexpected first file: %+v", first)
	}
	if first.Opens != 1 || first.Closes != 2 {
		t.Fatalf("unexpected counts: %+v", first)
	}
	d := first.Diagnostics[0]
	if d.Code != "BRC1001" || d.Severity != "ERROR" || d.Location.StartLine != 3 || d.Location.StartCol != 1 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Location.StartByte != 4 || d.Location.EndByte != 5 {
		t.Fatalf("unexpected byte range: %+v", d.Location)
	}

	second := out.Files[1]
	if second.Error != "boom" || second.Verdict != "" || second.Diagnostics[0].Code != "IO4001" {
		t.Fatalf("unexpected failed file: %+v", second)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.txt", []byte("}}}\n"))

	out := BuildReportOutput([]FileSummary{summarize(fs, id)}, fs, JSONOpts{Max: 2})
	if got := len(out.Files[0].Diagnostics); got != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", got)
	}
	if out.Files[0].Diagnostics[0].Location.StartLine != 0 {
		t.Fatal("positions should be omitted without IncludePositions")
	}
}
