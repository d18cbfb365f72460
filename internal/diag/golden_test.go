package diag

import (
	"testing"

	"bracecheck/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.txt", []byte("a\n}}\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     BraceExtraAtEOF,
			Message:  "extra 2\nclosing braces",
			Primary:  source.Span{File: userFile, Start: 5, End: 5},
		},
		{
			Severity: SevError,
			Code:     BraceExtraClosing,
			Message:  "extra closing brace (depth -1)",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 0, End: 1}, Msg: "balance first went negative here"},
				{Span: source.Span{File: 99, Start: 0, End: 0}, Msg: "unknown file is skipped"},
			},
		},
	}

	expected := "note BRC1001 testdata/golden/sample.txt:1:1 balance first went negative here\n" +
		"error BRC1001 testdata/golden/sample.txt:2:1 extra closing brace (depth -1)\n" +
		"error BRC1003 testdata/golden/sample.txt:3:1 extra 2 closing braces"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsGivenPath(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("in/x.txt", []byte("}"))

	got := FormatShortDiagnostics([]Diagnostic{
		NewError(BraceExtraClosing, source.Span{File: id, Start: 0, End: 1}, "extra closing brace"),
	}, fs, false)

	want := "error BRC1001 in/x.txt:1:1 extra closing brace"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatGoldenEmpty(t *testing.T) {
	if got := FormatGoldenDiagnostics(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
