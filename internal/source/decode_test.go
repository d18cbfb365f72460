package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingUTF8, false},
		{"UTF8", EncodingUTF8, false},
		{"utf-16", EncodingUTF16, false},
		{"UTF-16LE", EncodingUTF16LE, false},
		{"utf16be", EncodingUTF16BE, false},
		{"ISO-8859-1", EncodingLatin1, false},
		{"cp1252", EncodingWindows1252, false},
		{"ebcdic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEncoding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeRaw(t *testing.T, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.bin")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadInvalidUTF8(t *testing.T) {
	path := writeRaw(t, []byte("ok {\n\xff\xfe }\n"))

	set := NewFileSet()
	_, err := set.Load(path)
	if err == nil {
		t.Fatal("expected decode error")
	}

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decErr.Offset != 5 {
		t.Errorf("expected offset 5, got %d", decErr.Offset)
	}
	if !errors.Is(err, encoding.ErrInvalidUTF8) {
		t.Errorf("expected errors.Is(err, ErrInvalidUTF8), got %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("nothing must be added on decode failure, got %d files", set.Len())
	}
}

func TestLoadTruncatedUTF8(t *testing.T) {
	// first byte of a two byte sequence at EOF
	path := writeRaw(t, []byte("{}\xce"))

	_, err := NewFileSet().Load(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestLoadUTF16LE(t *testing.T) {
	// BOM + "{\n}" in UTF-16LE
	raw := []byte{0xFF, 0xFE, '{', 0, '\n', 0, '}', 0}
	path := writeRaw(t, raw)

	set := NewFileSet()
	id, err := set.LoadWithEncoding(path, EncodingUTF16)
	if err != nil {
		t.Fatalf("LoadWithEncoding: %v", err)
	}
	file := set.Get(id)
	if string(file.Content) != "{\n}" {
		t.Errorf("expected %q, got %q", "{\n}", file.Content)
	}
	if file.Flags&FileTranscoded == 0 {
		t.Error("expected FileTranscoded flag")
	}
	if file.Encoding != EncodingUTF16 {
		t.Errorf("expected utf-16, got %q", file.Encoding)
	}
}

func TestLoadLatin1(t *testing.T) {
	// 0xE9 is "é" in latin1 but invalid as UTF-8
	path := writeRaw(t, []byte("caf\xe9 {}\n"))

	if _, err := NewFileSet().Load(path); err == nil {
		t.Fatal("expected utf-8 decode error")
	}

	set := NewFileSet()
	id, err := set.LoadWithEncoding(path, EncodingLatin1)
	if err != nil {
		t.Fatalf("LoadWithEncoding: %v", err)
	}
	if got := string(set.Get(id).Content); got != "café {}\n" {
		t.Errorf("expected %q, got %q", "café {}\n", got)
	}
}
