package diagfmt

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"bracecheck/internal/brace"
	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

func checkedBag(t *testing.T, fs *source.FileSet, id source.FileID) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(0)
	brace.Check(fs.Get(id), diag.BagReporter{Bag: bag})
	bag.Sort()
	return bag
}

func TestPrettyCaret(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.kt", []byte("val x = 1 }\n"))
	bag := checkedBag(t, fs, id)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeAsGiven})

	want := "main.kt:1:11: ERROR BRC1001: extra closing brace (depth -1)\n" +
		" 1 | val x = 1 }\n" +
		"   |           ^\n" +
		"main.kt:2:1: ERROR BRC1003: extra 1 closing braces at end of file\n"
	if buf.String() != want {
		t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestPrettyWideRunesAlignCaret(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("wide.txt", []byte("日本}\n"))
	bag := checkedBag(t, fs, id)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeAsGiven})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	// two double-width runes occupy four columns
	if lines[2] != "   |     ^" {
		t.Fatalf("caret line %q", lines[2])
	}
}

func TestPrettyHidesInfoByDefault(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("ok.txt", []byte("{}\n"))
	bag := checkedBag(t, fs, id)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAsGiven})
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAsGiven, ShowInfo: true})
	if got := buf.String(); got != "ok.txt:2:1: INFO BRC1004: braces are balanced\n" {
		t.Fatalf("unexpected info output %q", got)
	}
}

func TestPathModes(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(base, "nested", "file.txt")

	fs := source.NewFileSet()
	fs.SetBaseDir(base)
	id := fs.AddVirtual(abs, []byte("}\n"))
	bag := checkedBag(t, fs, id)

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, filepath.ToSlash(abs)},
		{PathModeRelative, "nested/file.txt"},
		{PathModeBasename, "file.txt"},
		{PathModeAsGiven, filepath.ToSlash(abs)},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
		first, _, _ := strings.Cut(buf.String(), "\n")
		if !strings.HasPrefix(first, tt.want+":1:1:") {
			t.Errorf("mode %d: expected prefix %q, got %q", tt.mode, tt.want, first)
		}
		if !strings.Contains(first, "ERROR") || !strings.Contains(first, "BRC1001") {
			t.Errorf("mode %d: missing severity or code in %q", tt.mode, first)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":       FormatLegacy,
		"legacy": FormatLegacy,
		"Pretty": FormatPretty,
		" json ": FormatJSON,
		"sarif":  FormatSarif,
		"short":  FormatShort,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
